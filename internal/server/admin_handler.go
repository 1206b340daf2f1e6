// internal/server/admin_handler.go
package server

import (
	"errors"
	"net/http"

	"pharmelo-backend/internal/common/auth"
	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"

	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleAdminLogin verifies provisioned credentials and issues a session
// token. Unknown credentials are rejected; there is no signup fallback.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		if apperrors.IsUndefinedTable(err) {
			writeError(w, http.StatusServiceUnavailable, apperrors.MsgSchemaMissing)
			return
		}
		s.logger.Error("admin login failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, apperrors.MsgGenericFailure)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleAdminOverview is the dashboard's initial load: aggregate stats plus
// the notification feed. An undefined-relation error here is the schema
// check, answered with the actionable setup instruction.
func (s *Server) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetLandingStats(r.Context())
	if err != nil {
		if apperrors.IsUndefinedTable(err) {
			writeError(w, http.StatusServiceUnavailable, apperrors.MsgSchemaMissing)
			return
		}
		writeError(w, http.StatusInternalServerError, apperrors.MsgGenericFailure)
		return
	}

	notifications, err := s.store.ListNotifications(r.Context())
	if err != nil {
		if apperrors.IsUndefinedTable(err) {
			writeError(w, http.StatusServiceUnavailable, apperrors.MsgSchemaMissing)
			return
		}
		writeError(w, http.StatusInternalServerError, apperrors.MsgGenericFailure)
		return
	}

	admin := ""
	if claims := adminClaims(r); claims != nil {
		admin = claims.Username
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":         stats,
		"notifications": notifications,
		"admin":         admin,
	})
}

func (s *Server) handleAdminPartners(w http.ResponseWriter, r *http.Request) {
	apps, err := s.store.ListPartnerApplications(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, apps)
}

func (s *Server) handleAdminFeedback(w http.ResponseWriter, r *http.Request) {
	notes, err := s.store.ListFeedbackNotes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

type roadmapPhaseRequest struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DateDisplay string `json:"dateDisplay"`
	OrderIndex  int    `json:"orderIndex"`
	IconKey     string `json:"iconKey"`
}

func (r roadmapPhaseRequest) toModel(id string) models.RoadmapPhase {
	return models.RoadmapPhase{
		ID:          id,
		Title:       r.Title,
		Subtitle:    r.Subtitle,
		Description: r.Description,
		Status:      r.Status,
		DateDisplay: r.DateDisplay,
		OrderIndex:  r.OrderIndex,
		IconKey:     r.IconKey,
	}
}

func validPhaseStatus(status string) bool {
	switch status {
	case models.PhaseUpcoming, models.PhaseActive, models.PhaseCompleted:
		return true
	}
	return false
}

func (s *Server) handleRoadmapCreate(w http.ResponseWriter, r *http.Request) {
	var req roadmapPhaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validPhaseStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "status must be upcoming, active or completed")
		return
	}

	phase, err := s.store.CreateRoadmapPhase(r.Context(), req.toModel(""))
	if err != nil {
		if apperrors.IsDuplicateKey(err) {
			writeError(w, http.StatusConflict, apperrors.UserMessage(err))
			return
		}
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusCreated, phase)
}

func (s *Server) handleRoadmapUpdate(w http.ResponseWriter, r *http.Request) {
	var req roadmapPhaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !validPhaseStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "status must be upcoming, active or completed")
		return
	}

	phase := req.toModel(chi.URLParam(r, "id"))
	if err := s.store.UpdateRoadmapPhase(r.Context(), phase); err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrCodeNotFound {
			writeError(w, http.StatusNotFound, "roadmap phase not found")
			return
		}
		if apperrors.IsDuplicateKey(err) {
			writeError(w, http.StatusConflict, apperrors.UserMessage(err))
			return
		}
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, phase)
}

func (s *Server) handleRoadmapDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRoadmapPhase(r.Context(), chi.URLParam(r, "id")); err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrCodeNotFound {
			writeError(w, http.StatusNotFound, "roadmap phase not found")
			return
		}
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// handleNotificationsList serves the feed's refetch-on-signal cache once it
// has loaded, falling back to the store before then.
func (s *Server) handleNotificationsList(w http.ResponseWriter, r *http.Request) {
	if s.feed != nil && s.feed.Loaded() {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"notifications": s.feed.Items(),
			"unread":        s.feed.UnreadCount(),
		})
		return
	}

	notifications, err := s.store.ListNotifications(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	unread := 0
	for _, n := range notifications {
		if !n.IsRead {
			unread++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
	})
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkNotificationRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrCodeNotFound {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (s *Server) handleNotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	if err := s.store.MarkAllNotificationsRead(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"read": true})
}

// handleAppConfigSave writes the singleton row and then refreshes the
// provider, the one path by which the edit becomes visible to running
// consumers.
func (s *Server) handleAppConfigSave(w http.ResponseWriter, r *http.Request) {
	var cfg models.AppConfig
	if !decodeBody(w, r, &cfg) {
		return
	}
	if cfg.AppName == "" {
		writeError(w, http.StatusBadRequest, "appName is required")
		return
	}

	if err := s.store.SaveAppConfig(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}

	if err := s.provider.Refresh(r.Context()); err != nil {
		s.logger.Warn("config refresh after save failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	writeJSON(w, http.StatusOK, s.provider.Current())
}

func (s *Server) handleCampaignsList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.store.ListCampaigns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, campaigns)
}

type broadcastRequest struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// handleCampaignBroadcast sends a manual newsletter. Empty subject/content
// falls back to an AI (or templated) draft from current stats.
func (s *Server) handleCampaignBroadcast(w http.ResponseWriter, r *http.Request) {
	var req broadcastRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	subject, content := req.Subject, req.Content
	if subject == "" || content == "" {
		stats, err := s.store.GetLandingStats(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
			return
		}
		draft := s.gateway.DraftNewsletter(ctx, *stats)
		subject, content = draft.Subject, draft.Body
	}

	recipients, err := s.store.ListWaitlistEmails(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}

	status := models.CampaignPending
	recipientCount := len(recipients)
	if s.mailer.Enabled() {
		recipientCount = s.mailer.Broadcast(ctx, subject, content, recipients)
		status = models.CampaignSent
	}

	campaign, err := s.store.CreateCampaign(ctx, subject, content, recipientCount, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}
