// internal/models/survey.go
package models

import "time"

// SurveyResponse holds a respondent's selected options keyed by question id,
// plus an optional free-text comment. The valid question ids come from the
// role-keyed catalog in the viewmodel package, not from the schema.
type SurveyResponse struct {
	ID                 string            `json:"id"`
	Role               string            `json:"role"` // "CONSUMER" or "SHOP_OWNER"
	Answers            map[string]string `json:"answers"`
	AdditionalComments string            `json:"additionalComments,omitempty"`
	CreatedAt          time.Time         `json:"createdAt"`
}
