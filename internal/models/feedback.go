// internal/models/feedback.go
package models

import "time"

// Feedback roles
const (
	RoleConsumer  = "CONSUMER"
	RoleShopOwner = "SHOP_OWNER"
)

// FeedbackNote is a free-text note left by a consumer or shop owner.
type FeedbackNote struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "CONSUMER" or "SHOP_OWNER"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
