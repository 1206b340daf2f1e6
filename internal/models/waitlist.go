// internal/models/waitlist.go
package models

import "time"

// WaitlistEntry is a consumer signup from the public landing form.
// Immutable after creation; email is unique within the table.
type WaitlistEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source,omitempty"` // "hero", "footer", "modal"
	CreatedAt time.Time `json:"createdAt"`
}

// CommunityMember has the same shape and uniqueness rule as WaitlistEntry
// but lives in its own collection, selected by a type discriminator upstream.
type CommunityMember struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Signup type discriminators used by the submission endpoints.
const (
	SignupTypeWaitlist  = "waitlist"
	SignupTypeCommunity = "community"
)
