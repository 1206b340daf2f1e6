// internal/store/appconfig.go
package store

import (
	"context"
	"database/sql"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"
)

// singletonConfigID pins app_config to a single expected row.
const singletonConfigID = "app"

// GetAppConfig reads the singleton config row. sql.ErrNoRows maps to
// ErrCodeNotFound so the provider can distinguish "missing" from "broken";
// either way the provider keeps serving the hardcoded default.
func (s *Store) GetAppConfig(ctx context.Context) (*models.AppConfig, error) {
	var cfg models.AppConfig
	err := s.db.QueryRowContext(ctx, `
		SELECT id, app_name, logo_url, twitter_url, instagram_url, linkedin_url, contact_email
		FROM app_config WHERE id = $1`, singletonConfigID).
		Scan(&cfg.ID, &cfg.AppName, &cfg.LogoURL, &cfg.TwitterURL,
			&cfg.InstagramURL, &cfg.LinkedinURL, &cfg.ContactEmail)
	if err == sql.ErrNoRows {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "app config row missing")
	}
	if err != nil {
		return nil, apperrors.FromStoreError(err, "get app config")
	}
	return &cfg, nil
}

// SaveAppConfig upserts the singleton row, last write wins. Consumers see
// the new value only after a provider Refresh, whether called directly or
// driven by the change event emitted here.
func (s *Store) SaveAppConfig(ctx context.Context, cfg models.AppConfig) error {
	cfg.ID = singletonConfigID

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_config (id, app_name, logo_url, twitter_url, instagram_url, linkedin_url, contact_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			app_name = EXCLUDED.app_name,
			logo_url = EXCLUDED.logo_url,
			twitter_url = EXCLUDED.twitter_url,
			instagram_url = EXCLUDED.instagram_url,
			linkedin_url = EXCLUDED.linkedin_url,
			contact_email = EXCLUDED.contact_email`,
		cfg.ID, cfg.AppName, cfg.LogoURL, cfg.TwitterURL,
		cfg.InstagramURL, cfg.LinkedinURL, cfg.ContactEmail)
	if err != nil {
		return apperrors.FromStoreError(err, "save app config")
	}

	s.publish(ctx, realtime.EventUpdate, TableAppConfig, &cfg, nil)
	return nil
}
