// internal/models/newsletter.go
package models

import "time"

// Newsletter campaign statuses
const (
	CampaignSent    = "sent"
	CampaignPending = "pending"
)

// NewsletterCampaign records one broadcast, created either by the manual
// admin action or the scheduled automation job. Never mutated after creation.
type NewsletterCampaign struct {
	ID             string     `json:"id"`
	Subject        string     `json:"subject"`
	Content        string     `json:"content"`
	RecipientCount int        `json:"recipientCount"`
	Status         string     `json:"status"` // "sent", "pending"
	SentAt         *time.Time `json:"sentAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
