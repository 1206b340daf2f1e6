// internal/viewmodel/surveycatalog.go
package viewmodel

import (
	"encoding/json"
	"fmt"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// SurveyQuestion is one catalog entry: an id and its allowed options.
type SurveyQuestion struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"prompt"`
	Options  []string `json:"options"`
	Optional bool     `json:"optional,omitempty"`
}

// SurveyCatalog is the single canonical role-keyed question set. The valid
// question ids live here, not in the database schema.
var SurveyCatalog = map[string][]SurveyQuestion{
	models.RoleConsumer: {
		{
			ID:      "pickup_frequency",
			Prompt:  "How often do you pick up prescriptions?",
			Options: []string{"weekly", "monthly", "every_few_months", "rarely"},
		},
		{
			ID:      "biggest_pain",
			Prompt:  "What frustrates you most about pharmacy visits?",
			Options: []string{"wait_times", "stock_availability", "opening_hours", "distance", "pricing"},
		},
		{
			ID:      "reserve_ahead",
			Prompt:  "Would you reserve medication ahead for pickup?",
			Options: []string{"definitely", "probably", "maybe", "no"},
		},
		{
			ID:      "notify_preference",
			Prompt:  "How would you like to be told your order is ready?",
			Options: []string{"push", "sms", "email", "none"},
		},
	},
	models.RoleShopOwner: {
		{
			ID:      "shop_size",
			Prompt:  "How large is your pharmacy?",
			Options: []string{"single_store", "two_to_five", "chain"},
		},
		{
			ID:      "inventory_system",
			Prompt:  "Do you run a digital inventory system today?",
			Options: []string{"yes_integrated", "yes_standalone", "paper_based", "none"},
		},
		{
			ID:      "pickup_demand",
			Prompt:  "How often do customers ask to reserve ahead?",
			Options: []string{"daily", "weekly", "occasionally", "never"},
		},
		{
			ID:      "commission_appetite",
			Prompt:  "Would you pay a per-order fee for guaranteed pickups?",
			Options: []string{"yes", "depends_on_fee", "no"},
		},
	},
}

// surveySchema builds the JSON schema for a role's answers map: every
// non-optional question required, options enumerated, unknown ids rejected.
func surveySchema(role string) (map[string]interface{}, error) {
	questions, ok := SurveyCatalog[role]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRole, fmt.Sprintf("unknown survey role: %s", role))
	}

	properties := make(map[string]interface{}, len(questions))
	required := make([]string, 0, len(questions))
	for _, q := range questions {
		properties[q.ID] = map[string]interface{}{
			"type": "string",
			"enum": q.Options,
		}
		if !q.Optional {
			required = append(required, q.ID)
		}
	}

	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}, nil
}

// ValidateSurveyAnswers checks a response's answers against the canonical
// catalog for its role.
func ValidateSurveyAnswers(role string, answers map[string]string) error {
	schema, err := surveySchema(role)
	if err != nil {
		return err
	}

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSurveyInvalid, "marshal answers", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewBytesLoader(answersJSON),
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeSurveyInvalid, "schema validation failed", err)
	}

	if !result.Valid() {
		first := result.Errors()[0]
		return apperrors.New(apperrors.ErrCodeSurveyInvalid,
			fmt.Sprintf("invalid survey answers: %s", first.String()))
	}
	return nil
}
