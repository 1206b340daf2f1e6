// internal/models/partner.go
package models

import "time"

// PartnerApplication is a pharmacy owner's application from the partner form.
// Created once; no update or delete path exists in-app.
type PartnerApplication struct {
	ID           string    `json:"id"`
	PharmacyName string    `json:"pharmacyName"`
	OwnerName    string    `json:"ownerName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	LicenseNo    string    `json:"licenseNo"`
	Address      string    `json:"address"`
	Services     []string  `json:"services"` // set of offered services
	CreatedAt    time.Time `json:"createdAt"`
}
