// internal/common/auth/admin.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service authenticates back-office admins against bcrypt hashes stored in
// admin_accounts and issues signed session tokens. There is no
// sign-up-on-failed-login: accounts come from the admin-provision tool.
type Service struct {
	db         *sql.DB
	jwtSecret  []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// Claims is the JWT payload for an admin session.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewService(db *sql.DB, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		db:         db,
		jwtSecret:  []byte(jwtSecret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// Login verifies credentials and returns a signed session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var account models.AdminAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admin_accounts WHERE username = $1`,
		username).Scan(&account.ID, &account.Username, &account.PasswordHash, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", apperrors.FromStoreError(err, "admin login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := Claims{
		Username: account.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a session token, returning its claims.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Provision creates or updates an admin account with a freshly hashed
// password. Used only by cmd/tools/admin-provision.
func (s *Service) Provision(ctx context.Context, username, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id := uuid.New().String()
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO admin_accounts (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id`,
		id, username, string(hash), time.Now().UTC()).Scan(&id)
	if err != nil {
		return "", apperrors.FromStoreError(err, "admin provision")
	}
	return id, nil
}
