// internal/server/server_test.go
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pharmelo-backend/internal/ai"
	"pharmelo-backend/internal/common/auth"
	"pharmelo-backend/internal/common/config"
	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/common/observability"
	"pharmelo-backend/internal/mailer"
	"pharmelo-backend/internal/realtime"
	"pharmelo-backend/internal/store"
	"pharmelo-backend/internal/viewmodel"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Test Helper Functions
// ==========================

// noopBus satisfies realtime.Bus without Redis.
type noopBus struct{}

func (noopBus) Publish(ctx context.Context, ev realtime.ChangeEvent) error { return nil }
func (noopBus) Subscribe(table string, fn func(realtime.ChangeEvent)) func() {
	return func() {}
}
func (noopBus) Close() error { return nil }

type testEnv struct {
	server *Server
	router http.Handler
	mock   sqlmock.Sqlmock
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithViews(t, false)
}

// newTestEnvWithViews optionally starts the roadmap and notification views
// against seeded rows, so handlers can be tested serving from their caches.
func newTestEnvWithViews(t *testing.T, withViews bool) *testEnv {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.NewTestLogger(t)
	bus := noopBus{}
	st := store.New(db, bus, log)
	hub := realtime.NewHub(bus, log)
	t.Cleanup(hub.Shutdown)

	provider := viewmodel.NewConfigProvider(st, log)
	gateway := ai.NewGateway("http://unused.invalid", "", "gemini-1.5-flash", time.Second, log)

	ml, err := mailer.New(context.Background(), "", "", false, log)
	require.NoError(t, err)

	authSvc := auth.NewService(db, "test-secret", time.Hour, bcrypt.MinCost)
	obs := observability.New("test")
	t.Cleanup(obs.Shutdown)

	cfg := &config.Config{}
	cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}

	var roadmapView *viewmodel.RoadmapView
	var feed *viewmodel.NotificationFeed
	if withViews {
		now := time.Now().UTC()
		mock.ExpectQuery(`SELECT .+ FROM roadmap_phases`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "subtitle", "description", "status", "date_display", "order_index", "icon_key", "created_at"}).
				AddRow("p2", "Pilot", "", "", "upcoming", "Q2 2026", 2, "store", now).
				AddRow("p1", "Launch", "", "", "active", "Q1 2026", 1, "rocket", now))
		mock.ExpectQuery(`SELECT .+ FROM admin_notifications`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "type", "title", "message", "is_read", "created_at"}).
				AddRow("n1", "signup", "New signup", "someone joined", false, now).
				AddRow("n2", "campaign", "Campaign sent", "done", true, now))

		roadmapView = viewmodel.NewRoadmapView(st, log)
		require.NoError(t, roadmapView.Start(context.Background(), bus))
		t.Cleanup(roadmapView.Stop)

		feed = viewmodel.NewNotificationFeed(st, log)
		require.NoError(t, feed.Start(context.Background(), bus))
		t.Cleanup(feed.Stop)
	}

	srv := New(cfg, st, bus, hub, provider, roadmapView, feed, gateway, ml, authSvc, obs, log)
	return &testEnv{server: srv, router: srv.Router(), mock: mock}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func (e *testEnv) adminToken(t *testing.T, username, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	e.mock.ExpectQuery(`SELECT .+ FROM admin_accounts`).
		WithArgs(username).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
			AddRow("acct-1", username, string(hash), time.Now().UTC()))

	rec := e.do(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": username, "password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeResponse(t, rec)["token"].(string)
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// ==========================
// Form Submission Tests
// ==========================

func TestHandleSignup_WaitlistSuccess(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectExec(`INSERT INTO waitlist_users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := env.do(t, http.MethodPost, "/api/signup", map[string]string{
		"email": "user@example.com", "type": "waitlist", "source": "hero",
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "success", body["state"])
}

func TestHandleSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectExec(`INSERT INTO waitlist_users`).
		WillReturnError(&pq.Error{Code: "23505"})

	rec := env.do(t, http.MethodPost, "/api/signup", map[string]string{
		"email": "dup@example.com", "type": "waitlist",
	}, nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, apperrors.MsgAlreadyRegistered, body["error"])
}

func TestHandleSignup_EmptyEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/signup", map[string]string{
		"email": "   ", "type": "waitlist",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSignup_UnknownType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/signup", map[string]string{
		"email": "user@example.com", "type": "vip",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSignup_CommunityDefaultsAndInserts(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectExec(`INSERT INTO saturday_community_members`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := env.do(t, http.MethodPost, "/api/signup", map[string]string{
		"email": "sat@example.com", "type": "community",
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleFeedback_InvalidRole(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/feedback", map[string]string{
		"role": "ROBOT", "content": "beep",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFeedback_Success(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectExec(`INSERT INTO feedback_submissions`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := env.do(t, http.MethodPost, "/api/feedback", map[string]string{
		"role": "CONSUMER", "content": "The wait at my pharmacy is too long",
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleSurvey_RejectsInvalidAnswers(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/surveys", map[string]interface{}{
		"role":    "CONSUMER",
		"answers": map[string]string{"pickup_frequency": "hourly"},
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSurvey_Success(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectExec(`INSERT INTO survey_responses`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := env.do(t, http.MethodPost, "/api/surveys", map[string]interface{}{
		"role": "CONSUMER",
		"answers": map[string]string{
			"pickup_frequency":  "monthly",
			"biggest_pain":      "wait_times",
			"reserve_ahead":     "definitely",
			"notify_preference": "push",
		},
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

// ==========================
// Public Read Tests
// ==========================

func TestHandleLandingStats_OnlyExposesPublicCounters(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"p", "w", "c"}).AddRow(9, 250, 40))

	rec := env.do(t, http.MethodGet, "/api/landing-stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, float64(9), body["partners"])
	assert.Equal(t, float64(250), body["waitlist"])
	assert.NotContains(t, body, "community")
}

func TestHandleRoadmap_ResolvesUnknownIcon(t *testing.T) {
	env := newTestEnv(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "subtitle", "description", "status", "date_display", "order_index", "icon_key", "created_at"}).
		AddRow("p1", "Launch", "", "", "active", "Q1 2026", 1, "flux-capacitor", now)
	env.mock.ExpectQuery(`SELECT .+ FROM roadmap_phases`).WillReturnRows(rows)

	rec := env.do(t, http.MethodGet, "/api/roadmap", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var phases []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &phases))
	require.Len(t, phases, 1)
	assert.Equal(t, "rocket", phases[0]["icon"])
}

func TestHandleAppConfig_ServesDefaultWithoutRow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/app-config", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, "Pharmelo", body["appName"])
}

func TestHandleSurveyCatalog(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/survey-catalog", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Contains(t, body, "CONSUMER")
	assert.Contains(t, body, "SHOP_OWNER")
}

func TestHandleRoadmap_ServedFromViewCache(t *testing.T) {
	env := newTestEnvWithViews(t, true)

	// No further query expectation: the view's initial fetch already ran,
	// so an extra store hit here would fail the request.
	rec := env.do(t, http.MethodGet, "/api/roadmap", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var phases []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &phases))
	require.Len(t, phases, 2)
	assert.Equal(t, "Launch", phases[0]["title"])
	assert.Equal(t, "Pilot", phases[1]["title"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestHandleWebsocket_RequiresTables(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/ws", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleWebsocket_AdminTablesNeedSession(t *testing.T) {
	env := newTestEnv(t)

	for _, table := range []string{"admin_notifications", "feedback_submissions", "survey_responses", "newsletter_campaigns"} {
		rec := env.do(t, http.MethodGet, "/ws?tables="+table, nil, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, table)
	}

	// One admin table in the list is enough to reject the subscription.
	rec := env.do(t, http.MethodGet, "/ws?tables=waitlist_users,admin_notifications", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleWebsocket_PublicTablesStayAnonymous(t *testing.T) {
	env := newTestEnv(t)

	// The handshake itself fails under httptest, but authorization must
	// not be the reason.
	rec := env.do(t, http.MethodGet, "/ws?tables=waitlist_users,roadmap_phases", nil, nil)
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
}

func TestHandleWebsocket_TokenParamGrantsAdminTables(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	rec := env.do(t, http.MethodGet, "/ws?tables=admin_notifications&token="+token, nil, nil)
	assert.NotEqual(t, http.StatusForbidden, rec.Code)
}

func TestHandleWebsocket_RejectsForeignOrigin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/ws?tables=waitlist_users", nil, map[string]string{
		"Origin": "http://evil.example",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// ==========================
// AI Endpoint Tests
// ==========================

func TestHandleAnalyzeFeedback_DegradesTo200(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/analyze-feedback", map[string]string{
		"feedback": "the wait is painful", "role": "CONSUMER",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, "constructive", body["sentiment"])
	assert.NotEmpty(t, body["analysis"])
}

func TestHandleGenerateNewsletter_DegradesTo200(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/generate-newsletter", map[string]interface{}{
		"stats": map[string]int{"partners": 3, "waitlist": 90, "community": 12},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	assert.NotEmpty(t, body["subject"])
	assert.Contains(t, body["body"], "90")
}

func TestHandleTriggerAutomation_RecordsCampaign(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"p", "w", "c"}).AddRow(2, 30, 5))
	env.mock.ExpectQuery(`SELECT email FROM waitlist_users`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@example.com").AddRow("b@example.com"))
	env.mock.ExpectExec(`INSERT INTO newsletter_campaigns`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectExec(`INSERT INTO admin_notifications`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := env.do(t, http.MethodPost, "/api/trigger-automation", map[string]string{}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["campaign"])
	assert.NotNil(t, body["generated_content"])
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestHandleTriggerAutomation_StorageFailure(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT`).
		WillReturnError(&pq.Error{Code: "42P01"})

	rec := env.do(t, http.MethodPost, "/api/trigger-automation", map[string]string{}, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, decodeResponse(t, rec)["success"])
}

// ==========================
// Admin Surface Tests
// ==========================

func TestAdminRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/overview", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/admin/overview", nil, bearer("forged.token.here"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleAdminLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.mock.ExpectQuery(`SELECT .+ FROM admin_accounts`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec := env.do(t, http.MethodPost, "/api/admin/login", map[string]string{
		"username": "admin", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleAdminOverview_Success(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"p", "w", "c"}).AddRow(4, 120, 33))
	env.mock.ExpectQuery(`SELECT .+ FROM admin_notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "title", "message", "is_read", "created_at"}))

	rec := env.do(t, http.MethodGet, "/api/admin/overview", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, "admin", body["admin"])
	assert.NotNil(t, body["stats"])
}

func TestHandleAdminOverview_SchemaMissing(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectQuery(`SELECT`).
		WillReturnError(&pq.Error{Code: "42P01"})

	rec := env.do(t, http.MethodGet, "/api/admin/overview", nil, bearer(token))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperrors.MsgSchemaMissing, decodeResponse(t, rec)["error"])
}

func TestHandleRoadmapCreate(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectExec(`INSERT INTO roadmap_phases`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := env.do(t, http.MethodPost, "/api/admin/roadmap", map[string]interface{}{
		"title": "Pilot pharmacies", "status": "active", "orderIndex": 2, "iconKey": "store",
	}, bearer(token))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestHandleRoadmapCreate_DuplicateOrderIndex(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectExec(`INSERT INTO roadmap_phases`).
		WillReturnError(&pq.Error{Code: "23505"})

	rec := env.do(t, http.MethodPost, "/api/admin/roadmap", map[string]interface{}{
		"title": "Pilot pharmacies", "status": "active", "orderIndex": 2, "iconKey": "store",
	}, bearer(token))

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, apperrors.MsgDuplicateValue, body["error"])
	assert.NotEqual(t, apperrors.MsgAlreadyRegistered, body["error"])
}

func TestHandleRoadmapCreate_RejectsBadStatus(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	rec := env.do(t, http.MethodPost, "/api/admin/roadmap", map[string]interface{}{
		"title": "x", "status": "someday", "orderIndex": 1,
	}, bearer(token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleAppConfigSave_RefreshesProvider(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectExec(`INSERT INTO app_config`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	env.mock.ExpectQuery(`SELECT .+ FROM app_config`).
		WithArgs("app").
		WillReturnRows(sqlmock.NewRows([]string{"id", "app_name", "logo_url", "twitter_url", "instagram_url", "linkedin_url", "contact_email"}).
			AddRow("app", "Pharmelo Next", "", "", "", "", "next@pharmelo.de"))

	rec := env.do(t, http.MethodPut, "/api/admin/app-config", map[string]string{
		"appName": "Pharmelo Next", "contactEmail": "next@pharmelo.de",
	}, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pharmelo Next", decodeResponse(t, rec)["appName"])
}

func TestHandleNotificationsList_ServedFromFeedCache(t *testing.T) {
	env := newTestEnvWithViews(t, true)
	token := env.adminToken(t, "admin", "pw")

	rec := env.do(t, http.MethodGet, "/api/admin/notifications", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, float64(1), body["unread"])
	items, ok := body["notifications"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
	assert.NoError(t, env.mock.ExpectationsWereMet())
}

func TestHandleNotificationsList_StoreFallback(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectQuery(`SELECT .+ FROM admin_notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "title", "message", "is_read", "created_at"}).
			AddRow("n1", "signup", "New signup", "someone joined", false, time.Now().UTC()))

	rec := env.do(t, http.MethodGet, "/api/admin/notifications", nil, bearer(token))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, float64(1), body["unread"])
	assert.NotNil(t, body["notifications"])
}

func TestHandleNotificationRead_NotFound(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectExec(`UPDATE admin_notifications`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := env.do(t, http.MethodPost, "/api/admin/notifications/missing/read", nil, bearer(token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCampaignBroadcast_DraftsWhenContentEmpty(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t, "admin", "pw")

	env.mock.ExpectQuery(`SELECT`).
		WillReturnRows(sqlmock.NewRows([]string{"p", "w", "c"}).AddRow(1, 20, 2))
	env.mock.ExpectQuery(`SELECT email FROM waitlist_users`).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("a@example.com"))
	env.mock.ExpectExec(`INSERT INTO newsletter_campaigns`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := env.do(t, http.MethodPost, "/api/admin/campaigns/broadcast", map[string]string{}, bearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeResponse(t, rec)
	assert.NotEmpty(t, body["subject"])
	assert.Equal(t, "pending", body["status"])
}

func TestHandleHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
