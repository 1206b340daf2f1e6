// internal/server/public_handler.go
package server

import (
	"net/http"
	"strings"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/store"

	"github.com/gorilla/websocket"
)

// handleLandingStats returns the precomputed aggregate for the landing-page
// counters. Anonymous callers only ever see totals.
func (s *Server) handleLandingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetLandingStats(r.Context())
	if err != nil {
		s.logger.Error("landing stats fetch failed", map[string]interface{}{
			"error": err.Error(),
		})
		writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"partners": stats.Partners,
		"waitlist": stats.Waitlist,
	})
}

type roadmapPhaseResponse struct {
	models.RoadmapPhase
	Icon string `json:"icon"`
}

// handleRoadmap returns phases ascending by order index with the icon key
// already resolved against the known symbol set. Served from the roadmap
// view's refetch-on-signal cache once its initial fetch has landed; the
// store is only queried directly before that.
func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	var phases []models.RoadmapPhase
	if s.roadmap != nil && s.roadmap.Loaded() {
		phases = s.roadmap.Phases()
	} else {
		var err error
		phases, err = s.store.ListRoadmapPhases(r.Context())
		if err != nil {
			s.logger.Error("roadmap fetch failed", map[string]interface{}{
				"error": err.Error(),
			})
			writeError(w, http.StatusInternalServerError, apperrors.UserMessage(err))
			return
		}
	}

	out := make([]roadmapPhaseResponse, 0, len(phases))
	for _, p := range phases {
		out = append(out, roadmapPhaseResponse{RoadmapPhase: p, Icon: p.Icon()})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleAppConfig serves the provider's current value, which is the default
// record whenever the singleton row is missing or unreachable. Branding
// never renders empty.
func (s *Server) handleAppConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.provider.Current())
}

// publicEventTables are the collections whose change events anonymous
// clients may stream: the landing counters, the roadmap, and branding.
// Everything else carries admin-only row payloads.
var publicEventTables = map[string]bool{
	store.TableWaitlist:  true,
	store.TableCommunity: true,
	store.TablePartners:  true,
	store.TableRoadmap:   true,
	store.TableAppConfig: true,
}

// checkWSOrigin enforces the configured origins on the upgrade handshake.
// The CORS middleware does not apply to WebSocket upgrades, so the check
// lives here. Requests without an Origin header are non-browser clients.
func (s *Server) checkWSOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// wsAdminSession reports whether the upgrade request carries a valid admin
// token, via the Authorization header or the token query parameter (browser
// WebSocket clients cannot set headers).
func (s *Server) wsAdminSession(r *http.Request) bool {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || token == r.Header.Get("Authorization") {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return false
	}
	_, err := s.auth.Verify(token)
	return err == nil
}

// handleWebsocket upgrades the connection and registers it for change
// events on the requested tables (?tables=a,b,c). Anonymous clients may
// only subscribe to the public tables; the rest need an admin session.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	tablesParam := r.URL.Query().Get("tables")
	if tablesParam == "" {
		writeError(w, http.StatusBadRequest, "tables query parameter is required")
		return
	}
	tables := strings.Split(tablesParam, ",")

	if !s.wsAdminSession(r) {
		for _, t := range tables {
			if !publicEventTables[t] {
				writeError(w, http.StatusForbidden, "table requires an admin session")
				return
			}
		}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkWSOrigin,
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	s.hub.Register(conn, tables)
}
