// internal/store/signups.go
package store

import (
	"context"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"

	"github.com/google/uuid"
)

// AddWaitlistEntry inserts one waitlist signup. A duplicate email surfaces
// as ErrCodeDuplicateEmail, distinct from generic failures.
func (s *Store) AddWaitlistEntry(ctx context.Context, email, source string) (*models.WaitlistEntry, error) {
	entry := &models.WaitlistEntry{
		ID:        uuid.New().String(),
		Email:     email,
		Source:    source,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO waitlist_users (id, email, source, created_at)
		VALUES ($1, $2, $3, $4)`,
		entry.ID, entry.Email, entry.Source, entry.CreatedAt)
	if err != nil {
		return nil, apperrors.FromSignupError(err, "insert waitlist entry")
	}

	s.publish(ctx, realtime.EventInsert, TableWaitlist, entry, nil)
	return entry, nil
}

// AddCommunityMember inserts one community signup; same uniqueness rule as
// the waitlist but a separate collection.
func (s *Store) AddCommunityMember(ctx context.Context, email string) (*models.CommunityMember, error) {
	member := &models.CommunityMember{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saturday_community_members (id, email, created_at)
		VALUES ($1, $2, $3)`,
		member.ID, member.Email, member.CreatedAt)
	if err != nil {
		return nil, apperrors.FromSignupError(err, "insert community member")
	}

	s.publish(ctx, realtime.EventInsert, TableCommunity, member, nil)
	return member, nil
}

// ListWaitlistEmails returns every waitlist email, oldest first. Used by the
// newsletter broadcast to build the recipient list.
func (s *Store) ListWaitlistEmails(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT email FROM waitlist_users ORDER BY created_at ASC`)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "list waitlist emails")
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, apperrors.FromStoreError(err, "scan waitlist email")
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
