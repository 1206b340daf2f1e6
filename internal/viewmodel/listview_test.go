// internal/viewmodel/listview_test.go
package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"
	"pharmelo-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type stubRoadmapSource struct {
	mu     sync.Mutex
	phases []models.RoadmapPhase
	err    error
	calls  int
}

func (s *stubRoadmapSource) ListRoadmapPhases(ctx context.Context) ([]models.RoadmapPhase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.RoadmapPhase, len(s.phases))
	copy(out, s.phases)
	return out, nil
}

func (s *stubRoadmapSource) set(phases []models.RoadmapPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phases = phases
}

func (s *stubRoadmapSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type stubNotificationSource struct {
	mu    sync.Mutex
	items []models.AdminNotification
}

func (s *stubNotificationSource) ListNotifications(ctx context.Context) ([]models.AdminNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.AdminNotification, len(s.items))
	copy(out, s.items)
	return out, nil
}

func phase(id string, order int) models.RoadmapPhase {
	return models.RoadmapPhase{ID: id, Title: "Phase " + id, Status: models.PhaseUpcoming, OrderIndex: order}
}

// ==========================
// RoadmapView Tests
// ==========================

func TestRoadmapView_SortsByOrderIndexRegardlessOfFetchOrder(t *testing.T) {
	src := &stubRoadmapSource{}
	src.set([]models.RoadmapPhase{phase("c", 3), phase("a", 1), phase("b", 2)})

	v := NewRoadmapView(src, logger.NewTestLogger(t))
	require.NoError(t, v.Start(context.Background(), newFakeBus()))
	defer v.Stop()

	phases := v.Phases()
	require.Len(t, phases, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{phases[0].ID, phases[1].ID, phases[2].ID})
	assert.True(t, v.Loaded())
}

func TestRoadmapView_RefetchesOnAnyChangeEvent(t *testing.T) {
	src := &stubRoadmapSource{}
	src.set([]models.RoadmapPhase{phase("a", 1)})
	bus := newFakeBus()

	v := NewRoadmapView(src, logger.NewTestLogger(t))
	require.NoError(t, v.Start(context.Background(), bus))
	defer v.Stop()

	src.set([]models.RoadmapPhase{phase("a", 1), phase("b", 2)})

	// An UPDATE still triggers a full refetch, not an incremental patch.
	require.NoError(t, bus.Publish(context.Background(), realtime.ChangeEvent{
		Event: realtime.EventUpdate,
		Table: store.TableRoadmap,
	}))

	assert.Len(t, v.Phases(), 2)
	assert.GreaterOrEqual(t, src.callCount(), 2)
}

func TestRoadmapView_FailedRefetchKeepsCachedList(t *testing.T) {
	src := &stubRoadmapSource{}
	src.set([]models.RoadmapPhase{phase("a", 1), phase("b", 2)})
	bus := newFakeBus()

	v := NewRoadmapView(src, logger.NewTestLogger(t))
	require.NoError(t, v.Start(context.Background(), bus))
	defer v.Stop()

	src.mu.Lock()
	src.err = errors.New("query failed")
	src.mu.Unlock()

	_ = bus.Publish(context.Background(), realtime.ChangeEvent{
		Event: realtime.EventDelete,
		Table: store.TableRoadmap,
	})

	assert.Len(t, v.Phases(), 2)
}

func TestRoadmapView_InitialFetchFailurePropagates(t *testing.T) {
	src := &stubRoadmapSource{err: errors.New("no tables")}
	v := NewRoadmapView(src, logger.NewTestLogger(t))

	err := v.Start(context.Background(), newFakeBus())
	require.Error(t, err)
	assert.False(t, v.Loaded())
}

func TestRoadmapView_StopUnsubscribes(t *testing.T) {
	src := &stubRoadmapSource{}
	src.set([]models.RoadmapPhase{phase("a", 1)})
	bus := newFakeBus()

	v := NewRoadmapView(src, logger.NewTestLogger(t))
	require.NoError(t, v.Start(context.Background(), bus))
	v.Stop()

	before := src.callCount()
	_ = bus.Publish(context.Background(), realtime.ChangeEvent{
		Event: realtime.EventInsert,
		Table: store.TableRoadmap,
	})
	assert.Equal(t, before, src.callCount())
}

func TestRoadmapView_ConcurrentStopIsSafe(t *testing.T) {
	src := &stubRoadmapSource{}
	src.set([]models.RoadmapPhase{phase("a", 1)})
	bus := newFakeBus()

	v := NewRoadmapView(src, logger.NewTestLogger(t))
	require.NoError(t, v.Start(context.Background(), bus))

	// Shutdown can race event delivery; both paths touch the
	// subscription handle.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Stop()
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = bus.Publish(context.Background(), realtime.ChangeEvent{
			Event: realtime.EventInsert,
			Table: store.TableRoadmap,
		})
	}()
	wg.Wait()
}

// ==========================
// NotificationFeed Tests
// ==========================

func TestNotificationFeed_SortsNewestFirstAndCountsUnread(t *testing.T) {
	base := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	src := &stubNotificationSource{items: []models.AdminNotification{
		{ID: "old", Type: models.NotifyInfo, CreatedAt: base.Add(-time.Hour), IsRead: true},
		{ID: "new", Type: models.NotifySuccess, CreatedAt: base},
		{ID: "mid", Type: models.NotifyWarning, CreatedAt: base.Add(-30 * time.Minute)},
	}}

	f := NewNotificationFeed(src, logger.NewTestLogger(t))
	require.NoError(t, f.Start(context.Background(), newFakeBus()))
	defer f.Stop()

	items := f.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
	assert.Equal(t, 2, f.UnreadCount())
}

func TestNotificationFeed_RefetchesOnChangeEvent(t *testing.T) {
	src := &stubNotificationSource{}
	bus := newFakeBus()

	f := NewNotificationFeed(src, logger.NewTestLogger(t))
	require.NoError(t, f.Start(context.Background(), bus))
	defer f.Stop()
	require.Empty(t, f.Items())

	src.mu.Lock()
	src.items = []models.AdminNotification{{ID: "n1", Type: models.NotifyInfo, CreatedAt: time.Now()}}
	src.mu.Unlock()

	require.NoError(t, bus.Publish(context.Background(), realtime.ChangeEvent{
		Event: realtime.EventInsert,
		Table: store.TableNotifications,
	}))

	assert.Len(t, f.Items(), 1)
	assert.Equal(t, 1, f.UnreadCount())
}
