// internal/models/admin.go
package models

import "time"

// AdminAccount is a back-office operator. Accounts are provisioned out of
// band with the admin-provision tool; there is no self-service signup.
type AdminAccount struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LandingStats is the precomputed aggregate exposed to anonymous callers so
// row-level data never leaves the store.
type LandingStats struct {
	Partners  int `json:"partners"`
	Waitlist  int `json:"waitlist"`
	Community int `json:"community"`
}
