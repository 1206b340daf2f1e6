// internal/server/server.go
package server

import (
	"net/http"

	"pharmelo-backend/internal/ai"
	"pharmelo-backend/internal/common/auth"
	"pharmelo-backend/internal/common/config"
	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/common/observability"
	"pharmelo-backend/internal/mailer"
	"pharmelo-backend/internal/realtime"
	"pharmelo-backend/internal/store"
	"pharmelo-backend/internal/viewmodel"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server bundles every dependency the HTTP handlers need.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	bus      realtime.Bus
	hub      *realtime.Hub
	provider *viewmodel.ConfigProvider
	roadmap  *viewmodel.RoadmapView
	feed     *viewmodel.NotificationFeed
	gateway  *ai.Gateway
	mailer   *mailer.Mailer
	auth     *auth.Service
	obs      *observability.Observability
	logger   logger.Logger
}

func New(
	cfg *config.Config,
	st *store.Store,
	bus realtime.Bus,
	hub *realtime.Hub,
	provider *viewmodel.ConfigProvider,
	roadmap *viewmodel.RoadmapView,
	feed *viewmodel.NotificationFeed,
	gateway *ai.Gateway,
	ml *mailer.Mailer,
	authSvc *auth.Service,
	obs *observability.Observability,
	log logger.Logger,
) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		bus:      bus,
		hub:      hub,
		provider: provider,
		roadmap:  roadmap,
		feed:     feed,
		gateway:  gateway,
		mailer:   ml,
		auth:     authSvc,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "http-server"}),
	}
}

// Router builds the chi mux with the public, automation, and admin surfaces.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.metricsMiddleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		// Public lead-generation surface
		r.Post("/signup", s.handleSignup)
		r.Post("/partners", s.handlePartnerApplication)
		r.Post("/feedback", s.handleFeedback)
		r.Post("/surveys", s.handleSurvey)
		r.Get("/landing-stats", s.handleLandingStats)
		r.Get("/roadmap", s.handleRoadmap)
		r.Get("/app-config", s.handleAppConfig)
		r.Get("/survey-catalog", s.handleSurveyCatalog)

		// Automation endpoints
		r.Post("/analyze-feedback", s.handleAnalyzeFeedback)
		r.Post("/generate-newsletter", s.handleGenerateNewsletter)
		r.Post("/trigger-automation", s.handleTriggerAutomation)

		// Admin back office
		r.Post("/admin/login", s.handleAdminLogin)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/admin/overview", s.handleAdminOverview)
			r.Get("/admin/partners", s.handleAdminPartners)
			r.Get("/admin/feedback", s.handleAdminFeedback)
			r.Post("/admin/feedback/analyze-batch", s.handleAnalyzeBatch)
			r.Post("/admin/roadmap", s.handleRoadmapCreate)
			r.Put("/admin/roadmap/{id}", s.handleRoadmapUpdate)
			r.Delete("/admin/roadmap/{id}", s.handleRoadmapDelete)
			r.Get("/admin/notifications", s.handleNotificationsList)
			r.Post("/admin/notifications/{id}/read", s.handleNotificationRead)
			r.Post("/admin/notifications/read-all", s.handleNotificationsReadAll)
			r.Put("/admin/app-config", s.handleAppConfigSave)
			r.Get("/admin/campaigns", s.handleCampaignsList)
			r.Post("/admin/campaigns/broadcast", s.handleCampaignBroadcast)
		})
	})

	r.Get("/ws", s.handleWebsocket)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
