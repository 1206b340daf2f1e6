// internal/viewmodel/listview.go
package viewmodel

import (
	"context"
	"sort"
	"sync"
	"time"

	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"
	"pharmelo-backend/internal/store"
)

const refetchTimeout = 10 * time.Second

// RoadmapSource is the read side the roadmap view depends on.
type RoadmapSource interface {
	ListRoadmapPhases(ctx context.Context) ([]models.RoadmapPhase, error)
}

// RoadmapView caches the roadmap timeline and refetches the whole collection
// on ANY change event for its table rather than patching incrementally.
// Phases are always sorted ascending by order index, whatever order the
// fetch returned them in.
type RoadmapView struct {
	source RoadmapSource
	logger logger.Logger

	mu     sync.RWMutex
	phases []models.RoadmapPhase
	loaded bool
	unsub  func()
}

func NewRoadmapView(source RoadmapSource, log logger.Logger) *RoadmapView {
	return &RoadmapView{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "roadmap-view"}),
	}
}

// Start issues the initial fetch and registers the change subscription.
func (v *RoadmapView) Start(ctx context.Context, bus realtime.Bus) error {
	if err := v.refetch(ctx); err != nil {
		return err
	}
	unsub := bus.Subscribe(store.TableRoadmap, func(realtime.ChangeEvent) {
		refreshCtx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
		defer cancel()
		if err := v.refetch(refreshCtx); err != nil {
			v.logger.Warn("roadmap refetch failed, keeping cached list", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})

	v.mu.Lock()
	v.unsub = unsub
	v.mu.Unlock()
	return nil
}

// Stop unregisters the change subscription so no callback touches a stopped
// view.
func (v *RoadmapView) Stop() {
	v.mu.Lock()
	unsub := v.unsub
	v.unsub = nil
	v.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (v *RoadmapView) refetch(ctx context.Context) error {
	phases, err := v.source.ListRoadmapPhases(ctx)
	if err != nil {
		return err
	}

	sort.SliceStable(phases, func(i, j int) bool {
		return phases[i].OrderIndex < phases[j].OrderIndex
	})

	v.mu.Lock()
	v.phases = phases
	v.loaded = true
	v.mu.Unlock()
	return nil
}

// Phases returns the cached timeline, ascending by order index.
func (v *RoadmapView) Phases() []models.RoadmapPhase {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]models.RoadmapPhase, len(v.phases))
	copy(out, v.phases)
	return out
}

// Loaded reports whether the initial fetch has completed.
func (v *RoadmapView) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// NotificationSource is the read side the admin feed depends on.
type NotificationSource interface {
	ListNotifications(ctx context.Context) ([]models.AdminNotification, error)
}

// NotificationFeed mirrors RoadmapView for the admin notification feed:
// full refetch on any change event, sorted newest first.
type NotificationFeed struct {
	source NotificationSource
	logger logger.Logger

	mu     sync.RWMutex
	items  []models.AdminNotification
	loaded bool
	unsub  func()
}

func NewNotificationFeed(source NotificationSource, log logger.Logger) *NotificationFeed {
	return &NotificationFeed{
		source: source,
		logger: log.WithFields(map[string]interface{}{"component": "notification-feed"}),
	}
}

func (f *NotificationFeed) Start(ctx context.Context, bus realtime.Bus) error {
	if err := f.refetch(ctx); err != nil {
		return err
	}
	unsub := bus.Subscribe(store.TableNotifications, func(realtime.ChangeEvent) {
		refreshCtx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
		defer cancel()
		if err := f.refetch(refreshCtx); err != nil {
			f.logger.Warn("notification refetch failed, keeping cached list", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})

	f.mu.Lock()
	f.unsub = unsub
	f.mu.Unlock()
	return nil
}

func (f *NotificationFeed) Stop() {
	f.mu.Lock()
	unsub := f.unsub
	f.unsub = nil
	f.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (f *NotificationFeed) refetch(ctx context.Context) error {
	items, err := f.source.ListNotifications(ctx)
	if err != nil {
		return err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	f.mu.Lock()
	f.items = items
	f.loaded = true
	f.mu.Unlock()
	return nil
}

// Loaded reports whether the initial fetch has completed.
func (f *NotificationFeed) Loaded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loaded
}

// Items returns the cached feed, newest first.
func (f *NotificationFeed) Items() []models.AdminNotification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.AdminNotification, len(f.items))
	copy(out, f.items)
	return out
}

// UnreadCount counts cached notifications not yet marked read.
func (f *NotificationFeed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, item := range f.items {
		if !item.IsRead {
			n++
		}
	}
	return n
}
