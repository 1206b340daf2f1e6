// internal/store/notifications.go
package store

import (
	"context"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"

	"github.com/google/uuid"
)

// CreateNotification appends one admin notification (server-side automation
// events land here).
func (s *Store) CreateNotification(ctx context.Context, ntype, title, message string) (*models.AdminNotification, error) {
	n := &models.AdminNotification{
		ID:        uuid.New().String(),
		Type:      ntype,
		Title:     title,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_notifications (id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "insert admin notification")
	}

	s.publish(ctx, realtime.EventInsert, TableNotifications, n, nil)
	return n, nil
}

// ListNotifications returns notifications newest first.
func (s *Store) ListNotifications(ctx context.Context) ([]models.AdminNotification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, title, message, is_read, created_at
		FROM admin_notifications ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.FromStoreError(err, "list admin notifications")
	}
	defer rows.Close()

	var notifications []models.AdminNotification
	for rows.Next() {
		var n models.AdminNotification
		if err := rows.Scan(&n.ID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, apperrors.FromStoreError(err, "scan admin notification")
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flips the is_read flag on one notification.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE admin_notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return apperrors.FromStoreError(err, "mark notification read")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "notification not found")
	}

	s.publish(ctx, realtime.EventUpdate, TableNotifications, map[string]interface{}{
		"id": id, "isRead": true,
	}, nil)
	return nil
}

// MarkAllNotificationsRead flips the is_read flag on every unread row.
func (s *Store) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admin_notifications SET is_read = TRUE WHERE is_read = FALSE`)
	if err != nil {
		return apperrors.FromStoreError(err, "mark all notifications read")
	}

	s.publish(ctx, realtime.EventUpdate, TableNotifications, map[string]interface{}{
		"allRead": true,
	}, nil)
	return nil
}
