// internal/store/store_test.go
package store

import (
	"context"
	"sync"
	"testing"
	"time"

	apperrors "pharmelo-backend/internal/common/errors"
	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

// recordingBus captures published change events for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []realtime.ChangeEvent
}

func (b *recordingBus) Publish(ctx context.Context, ev realtime.ChangeEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
	return nil
}

func (b *recordingBus) Subscribe(table string, fn func(realtime.ChangeEvent)) func() {
	return func() {}
}

func (b *recordingBus) Close() error { return nil }

func (b *recordingBus) published() []realtime.ChangeEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]realtime.ChangeEvent, len(b.events))
	copy(out, b.events)
	return out
}

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock, *recordingBus) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	bus := &recordingBus{}
	return New(db, bus, logger.NewTestLogger(t)), mock, bus
}

// ==========================
// Signup Tests
// ==========================

func TestStore_AddWaitlistEntry(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO waitlist_users`).
		WithArgs(sqlmock.AnyArg(), "user@example.com", "landing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry, err := st.AddWaitlistEntry(context.Background(), "user@example.com", "landing")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "user@example.com", entry.Email)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventInsert, events[0].Event)
	assert.Equal(t, TableWaitlist, events[0].Table)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AddWaitlistEntry_DuplicateEmail(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO waitlist_users`).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := st.AddWaitlistEntry(context.Background(), "dup@example.com", "landing")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDuplicateEmail, apperrors.CodeOf(err))
	assert.Empty(t, bus.published(), "no event for a rejected insert")
}

func TestStore_AddCommunityMember(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO saturday_community_members`).
		WithArgs(sqlmock.AnyArg(), "sat@example.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	member, err := st.AddCommunityMember(context.Background(), "sat@example.com")
	require.NoError(t, err)
	assert.Equal(t, "sat@example.com", member.Email)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, TableCommunity, events[0].Table)
}

func TestStore_ListWaitlistEmails(t *testing.T) {
	st, mock, _ := newTestStore(t)

	rows := sqlmock.NewRows([]string{"email"}).
		AddRow("first@example.com").
		AddRow("second@example.com")
	mock.ExpectQuery(`SELECT email FROM waitlist_users`).WillReturnRows(rows)

	emails, err := st.ListWaitlistEmails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first@example.com", "second@example.com"}, emails)
}

// ==========================
// Stats Tests
// ==========================

func TestStore_GetLandingStats(t *testing.T) {
	st, mock, _ := newTestStore(t)

	rows := sqlmock.NewRows([]string{"partners", "waitlist", "community"}).AddRow(12, 340, 78)
	mock.ExpectQuery(`SELECT`).WillReturnRows(rows)

	stats, err := st.GetLandingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Partners)
	assert.Equal(t, 340, stats.Waitlist)
	assert.Equal(t, 78, stats.Community)
}

func TestStore_GetLandingStats_SchemaMissing(t *testing.T) {
	st, mock, _ := newTestStore(t)

	mock.ExpectQuery(`SELECT`).WillReturnError(&pq.Error{Code: "42P01"})

	_, err := st.GetLandingStats(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsUndefinedTable(err))
}

// ==========================
// App Config Tests
// ==========================

func TestStore_GetAppConfig(t *testing.T) {
	st, mock, _ := newTestStore(t)

	rows := sqlmock.NewRows([]string{"id", "app_name", "logo_url", "twitter_url", "instagram_url", "linkedin_url", "contact_email"}).
		AddRow("app", "Pharmelo", "/logo.svg", "", "", "", "hi@pharmelo.de")
	mock.ExpectQuery(`SELECT .+ FROM app_config`).WithArgs("app").WillReturnRows(rows)

	cfg, err := st.GetAppConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pharmelo", cfg.AppName)
}

func TestStore_GetAppConfig_MissingRow(t *testing.T) {
	st, mock, _ := newTestStore(t)

	mock.ExpectQuery(`SELECT .+ FROM app_config`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.GetAppConfig(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestStore_SaveAppConfig_PublishesUpdate(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO app_config`).
		WithArgs("app", "Renamed", "", "", "", "", "new@pharmelo.de").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.SaveAppConfig(context.Background(), models.AppConfig{
		AppName:      "Renamed",
		ContactEmail: "new@pharmelo.de",
	})
	require.NoError(t, err)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, realtime.EventUpdate, events[0].Event)
	assert.Equal(t, TableAppConfig, events[0].Table)
}

// ==========================
// Roadmap Tests
// ==========================

func TestStore_CreateRoadmapPhase(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO roadmap_phases`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	phase, err := st.CreateRoadmapPhase(context.Background(), models.RoadmapPhase{
		Title:      "Launch",
		Status:     models.PhaseUpcoming,
		OrderIndex: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, phase.ID)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, TableRoadmap, events[0].Table)
}

func TestStore_DeleteRoadmapPhase_NotFound(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`DELETE FROM roadmap_phases`).
		WithArgs("missing-id").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.DeleteRoadmapPhase(context.Background(), "missing-id")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
	assert.Empty(t, bus.published())
}

// ==========================
// Notification Tests
// ==========================

func TestStore_CreateNotification(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO admin_notifications`).
		WithArgs(sqlmock.AnyArg(), models.NotifySuccess, "Campaign sent", "120 recipients", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := st.CreateNotification(context.Background(), models.NotifySuccess, "Campaign sent", "120 recipients")
	require.NoError(t, err)
	assert.False(t, n.IsRead)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, TableNotifications, events[0].Table)
	assert.Equal(t, realtime.EventInsert, events[0].Event)
}

func TestStore_ListNotifications_NewestFirst(t *testing.T) {
	st, mock, _ := newTestStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "type", "title", "message", "is_read", "created_at"}).
		AddRow("n2", models.NotifyInfo, "Second", "", false, now).
		AddRow("n1", models.NotifyInfo, "First", "", true, now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT .+ FROM admin_notifications`).WillReturnRows(rows)

	items, err := st.ListNotifications(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "n2", items[0].ID)
}

// ==========================
// Partner & Survey Tests
// ==========================

func TestStore_AddPartnerApplication(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO early_partners`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	app, err := st.AddPartnerApplication(context.Background(), models.PartnerApplication{
		PharmacyName: "Adler Apotheke",
		OwnerName:    "A. Owner",
		Email:        "adler@example.com",
		Services:     []string{"delivery", "consultation"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, app.ID)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, TablePartners, events[0].Table)
}

func TestStore_AddSurveyResponse(t *testing.T) {
	st, mock, bus := newTestStore(t)

	mock.ExpectExec(`INSERT INTO survey_responses`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := st.AddSurveyResponse(context.Background(), models.SurveyResponse{
		Role:    models.RoleConsumer,
		Answers: map[string]string{"pickup_frequency": "monthly"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)

	events := bus.published()
	require.Len(t, events, 1)
	assert.Equal(t, TableSurveys, events[0].Table)
}
