// internal/realtime/bus.go
package realtime

import (
	"context"
	"encoding/json"
)

// Change event kinds, matching what the store publishes after each write.
const (
	EventInsert = "INSERT"
	EventUpdate = "UPDATE"
	EventDelete = "DELETE"
)

// ChangeEvent describes an insert/update/delete on a named collection.
type ChangeEvent struct {
	Event  string          `json:"event"` // "INSERT", "UPDATE", "DELETE"
	Table  string          `json:"table"`
	NewRow json.RawMessage `json:"new_row,omitempty"`
	OldRow json.RawMessage `json:"old_row,omitempty"`
}

// Bus is the only surface consumers may depend on; the backing transport is
// swappable. Subscribe returns an unsubscribe handle that must be called on
// teardown so no callback fires after the consumer is gone.
type Bus interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	Subscribe(table string, fn func(ChangeEvent)) (unsubscribe func())
	Close() error
}
