// internal/server/ai_handler.go
package server

import (
	"fmt"
	"net/http"

	"pharmelo-backend/internal/models"
)

type analyzeFeedbackRequest struct {
	Feedback string `json:"feedback"`
	Role     string `json:"role"`
}

// handleAnalyzeFeedback always answers 200: an internal failure is swallowed
// into the fallback shape so the UI panel never breaks.
func (s *Server) handleAnalyzeFeedback(w http.ResponseWriter, r *http.Request) {
	var req analyzeFeedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result := s.gateway.AnalyzeFeedback(r.Context(), req.Feedback, req.Role)
	writeJSON(w, http.StatusOK, result)
}

type generateNewsletterRequest struct {
	Stats models.LandingStats `json:"stats"`
}

// handleGenerateNewsletter follows the same degrade-gracefully policy as
// analyze-feedback: a failed or keyless generation yields the templated
// draft with HTTP 200, never a 500.
func (s *Server) handleGenerateNewsletter(w http.ResponseWriter, r *http.Request) {
	var req generateNewsletterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	draft := s.gateway.DraftNewsletter(r.Context(), req.Stats)
	writeJSON(w, http.StatusOK, draft)
}

// handleAnalyzeBatch summarizes every stored feedback note for the admin
// dashboard; generation failures degrade to the canned digest.
func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListFeedbackNotes(r.Context())
	if err != nil {
		s.logger.Error("feedback list failed", map[string]interface{}{
			"error": err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "could not load feedback")
		return
	}

	result := s.gateway.AnalyzeBatch(r.Context(), notes)
	writeJSON(w, http.StatusOK, result)
}

// handleTriggerAutomation runs the scheduled newsletter job on demand:
// fetch counts, draft content (AI or templated), record the campaign,
// broadcast best-effort, and leave an admin notification. Only a storage
// failure produces {success:false} with HTTP 500.
func (s *Server) handleTriggerAutomation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.store.GetLandingStats(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "could not read landing stats",
		})
		return
	}

	draft := s.gateway.DraftNewsletter(ctx, *stats)

	recipients, err := s.store.ListWaitlistEmails(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "could not load recipients",
		})
		return
	}

	status := models.CampaignPending
	recipientCount := len(recipients)
	if s.mailer.Enabled() {
		recipientCount = s.mailer.Broadcast(ctx, draft.Subject, draft.Body, recipients)
		status = models.CampaignSent
	}

	campaign, err := s.store.CreateCampaign(ctx, draft.Subject, draft.Body, recipientCount, status)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "could not record campaign",
		})
		return
	}

	// Notification is best-effort; the campaign already exists.
	if _, err := s.store.CreateNotification(ctx, models.NotifySuccess,
		"Newsletter automation ran",
		fmt.Sprintf("Campaign %q prepared for %d recipients.", draft.Subject, recipientCount)); err != nil {
		s.logger.Warn("automation notification failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":           true,
		"message":           "automation completed",
		"campaign":          campaign,
		"generated_content": draft,
	})
}
