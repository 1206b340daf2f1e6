// internal/store/newsletters.go
package store

import (
	"context"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"

	"github.com/google/uuid"
)

// CreateCampaign records one newsletter broadcast. Campaigns are never
// mutated after creation.
func (s *Store) CreateCampaign(ctx context.Context, subject, content string, recipientCount int, status string) (*models.NewsletterCampaign, error) {
	c := &models.NewsletterCampaign{
		ID:             uuid.New().String(),
		Subject:        subject,
		Content:        content,
		RecipientCount: recipientCount,
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
	if status == models.CampaignSent {
		now := time.Now().UTC()
		c.SentAt = &now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO newsletter_campaigns (id, subject, content, recipient_count, status, sent_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Subject, c.Content, c.RecipientCount, c.Status, c.SentAt, c.CreatedAt)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "insert newsletter campaign")
	}

	s.publish(ctx, realtime.EventInsert, TableNewsletters, c, nil)
	return c, nil
}

// ListCampaigns returns campaigns newest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]models.NewsletterCampaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, content, recipient_count, status, sent_at, created_at
		FROM newsletter_campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "list newsletter campaigns")
	}
	defer rows.Close()

	var campaigns []models.NewsletterCampaign
	for rows.Next() {
		var c models.NewsletterCampaign
		if err := rows.Scan(&c.ID, &c.Subject, &c.Content, &c.RecipientCount,
			&c.Status, &c.SentAt, &c.CreatedAt); err != nil {
			return nil, apperrors.FromStoreError(err, "scan newsletter campaign")
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
