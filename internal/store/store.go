// internal/store/store.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/realtime"
)

// Collection names. The realtime channel and the HTTP surface key on these.
const (
	TableWaitlist      = "waitlist_users"
	TableCommunity     = "saturday_community_members"
	TablePartners      = "early_partners"
	TableFeedback      = "feedback_submissions"
	TableSurveys       = "survey_responses"
	TableRoadmap       = "roadmap_phases"
	TableNotifications = "admin_notifications"
	TableAppConfig     = "app_config"
	TableNewsletters   = "newsletter_campaigns"
)

// Store is the single data-store facade: row reads with ordering/counting,
// row inserts, and change-event publication after every successful write.
// Safe for concurrent use; consistency is whatever Postgres provides
// (unique-constraint rejection on duplicate emails, last-write-wins on the
// app_config singleton).
type Store struct {
	db     *sql.DB
	bus    realtime.Bus
	logger logger.Logger
}

func New(db *sql.DB, bus realtime.Bus, log logger.Logger) *Store {
	return &Store{
		db:     db,
		bus:    bus,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// DB exposes the underlying handle for components that run their own queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// publish emits a change event for a completed write. Publication is
// best-effort: a bus failure is logged, never propagated, because the row is
// already committed and subscribers tolerate missed events.
func (s *Store) publish(ctx context.Context, event, table string, newRow, oldRow interface{}) {
	if s.bus == nil {
		return
	}

	ev := realtime.ChangeEvent{Event: event, Table: table}
	if newRow != nil {
		if b, err := json.Marshal(newRow); err == nil {
			ev.NewRow = b
		}
	}
	if oldRow != nil {
		if b, err := json.Marshal(oldRow); err == nil {
			ev.OldRow = b
		}
	}

	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.Warn("change event publish failed", map[string]interface{}{
			"table": table,
			"event": event,
			"error": err.Error(),
		})
	}
}
