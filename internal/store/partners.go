// internal/store/partners.go
package store

import (
	"context"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AddPartnerApplication inserts one partner application. Created once; there
// is no update or delete path in-app.
func (s *Store) AddPartnerApplication(ctx context.Context, app models.PartnerApplication) (*models.PartnerApplication, error) {
	app.ID = uuid.New().String()
	app.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO early_partners (
			id, pharmacy_name, owner_name, email, phone,
			license_no, address, services, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		app.ID, app.PharmacyName, app.OwnerName, app.Email, app.Phone,
		app.LicenseNo, app.Address, pq.Array(app.Services), app.CreatedAt)
	if err != nil {
		return nil, apperrors.FromSignupError(err, "insert partner application")
	}

	s.publish(ctx, realtime.EventInsert, TablePartners, &app, nil)
	return &app, nil
}

// ListPartnerApplications returns all applications, newest first.
func (s *Store) ListPartnerApplications(ctx context.Context) ([]models.PartnerApplication, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pharmacy_name, owner_name, email, phone,
		       license_no, address, services, created_at
		FROM early_partners ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "list partner applications")
	}
	defer rows.Close()

	var apps []models.PartnerApplication
	for rows.Next() {
		var app models.PartnerApplication
		if err := rows.Scan(&app.ID, &app.PharmacyName, &app.OwnerName, &app.Email,
			&app.Phone, &app.LicenseNo, &app.Address, pq.Array(&app.Services),
			&app.CreatedAt); err != nil {
			return nil, apperrors.FromStoreError(err, "scan partner application")
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}
