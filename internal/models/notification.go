// internal/models/notification.go
package models

import "time"

// Admin notification types
const (
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyInfo    = "info"
)

// AdminNotification is an append-only event row surfaced in the admin feed.
// Only the IsRead flag is ever mutated after creation.
type AdminNotification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // "success", "warning", "info"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
