// internal/server/forms_handler.go
package server

import (
	"context"
	"net/http"
	"strings"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/forms"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/viewmodel"
)

type signupRequest struct {
	Email  string `json:"email"`
	Type   string `json:"type"`   // "waitlist" or "community"
	Source string `json:"source"` // "hero", "footer", "modal"
}

// handleSignup serves both the waitlist and community forms, selected by the
// type discriminator.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}

	signupType := req.Type
	if signupType == "" {
		signupType = models.SignupTypeWaitlist
	}

	var insert forms.Inserter
	switch signupType {
	case models.SignupTypeWaitlist:
		insert = func(ctx context.Context) error {
			_, err := s.store.AddWaitlistEntry(ctx, strings.TrimSpace(req.Email), req.Source)
			return err
		}
	case models.SignupTypeCommunity:
		insert = func(ctx context.Context) error {
			_, err := s.store.AddCommunityMember(ctx, strings.TrimSpace(req.Email))
			return err
		}
	default:
		writeError(w, http.StatusBadRequest, "unknown signup type")
		return
	}

	s.runSubmission(w, r, signupType, req.Email, insert)
}

type partnerRequest struct {
	PharmacyName string   `json:"pharmacyName"`
	OwnerName    string   `json:"ownerName"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	LicenseNo    string   `json:"licenseNo"`
	Address      string   `json:"address"`
	Services     []string `json:"services"`
}

func (s *Server) handlePartnerApplication(w http.ResponseWriter, r *http.Request) {
	var req partnerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	insert := func(ctx context.Context) error {
		_, err := s.store.AddPartnerApplication(ctx, models.PartnerApplication{
			PharmacyName: req.PharmacyName,
			OwnerName:    req.OwnerName,
			Email:        strings.TrimSpace(req.Email),
			Phone:        req.Phone,
			LicenseNo:    req.LicenseNo,
			Address:      req.Address,
			Services:     req.Services,
		})
		return err
	}

	s.runSubmission(w, r, "partner", req.PharmacyName, insert)
}

type feedbackRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Role != models.RoleConsumer && req.Role != models.RoleShopOwner {
		writeError(w, http.StatusBadRequest, "role must be CONSUMER or SHOP_OWNER")
		return
	}

	insert := func(ctx context.Context) error {
		_, err := s.store.AddFeedbackNote(ctx, req.Role, req.Content)
		return err
	}

	s.runSubmission(w, r, "feedback", req.Content, insert)
}

type surveyRequest struct {
	Role               string            `json:"role"`
	Answers            map[string]string `json:"answers"`
	AdditionalComments string            `json:"additionalComments"`
}

func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	var req surveyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := viewmodel.ValidateSurveyAnswers(req.Role, req.Answers); err != nil {
		writeError(w, http.StatusBadRequest, apperrors.UserMessage(err))
		return
	}

	insert := func(ctx context.Context) error {
		_, err := s.store.AddSurveyResponse(ctx, models.SurveyResponse{
			Role:               req.Role,
			Answers:            req.Answers,
			AdditionalComments: req.AdditionalComments,
		})
		return err
	}

	s.runSubmission(w, r, "survey", req.Role, insert)
}

// runSubmission drives the shared flow and maps its terminal state onto the
// response: 201 on success, 409 with the duplicate-specific message, 400 for
// an empty primary field, 500 with the generic message otherwise.
func (s *Server) runSubmission(w http.ResponseWriter, r *http.Request, form, primaryField string, insert forms.Inserter) {
	flow := forms.NewSubmission(form, s.logger)
	err := flow.Submit(r.Context(), primaryField, insert)

	if err == nil {
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"state":   flow.State(),
			"message": "Thanks, you're in!",
		})
		return
	}

	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrCodeDuplicateEmail, apperrors.ErrCodeDuplicateValue:
		status = http.StatusConflict
	case apperrors.ErrCodeEmptyField:
		status = http.StatusBadRequest
	}

	writeJSON(w, status, map[string]interface{}{
		"state": flow.State(),
		"error": flow.ErrorMessage(),
	})
}

// handleSurveyCatalog exposes the canonical role-keyed question sets so the
// client renders the same catalog the validator enforces.
func (s *Server) handleSurveyCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewmodel.SurveyCatalog)
}
