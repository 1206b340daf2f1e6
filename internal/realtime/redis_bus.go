// internal/realtime/redis_bus.go
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/common/metrics"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "table_changes:"

// RedisBus delivers change events over Redis pub/sub, one channel per table.
// Events published while a subscriber is disconnected are lost; counter
// consumers accept that drift (optimistic increment, not reconciliation).
type RedisBus struct {
	rdb    *redis.Client
	logger logger.Logger

	mu     sync.Mutex
	subs   map[*subscription]struct{}
	closed bool
}

type subscription struct {
	pubsub *redis.PubSub
	done   chan struct{}
	once   sync.Once
}

// stop closes the subscription exactly once, no matter how many paths
// (unsubscribe handle, bus Close, both racing) reach it.
func (s *subscription) stop() {
	s.once.Do(func() {
		close(s.done)
		_ = s.pubsub.Close()
	})
}

func NewRedisBus(rdb *redis.Client, log logger.Logger) *RedisBus {
	return &RedisBus{
		rdb:    rdb,
		logger: log.WithFields(map[string]interface{}{"component": "realtime-bus"}),
		subs:   make(map[*subscription]struct{}),
	}
}

// Publish marshals the event and fans it out to subscribers of its table.
func (b *RedisBus) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal change event: %w", err)
	}

	if err := b.rdb.Publish(ctx, channelPrefix+ev.Table, payload).Err(); err != nil {
		return fmt.Errorf("publish change event: %w", err)
	}

	metrics.ChangeEventsPublished.WithLabelValues(ev.Table, ev.Event).Inc()
	return nil
}

// Subscribe registers fn for every change event on the given table. The
// returned handle stops delivery and releases the underlying connection; it
// is safe to call more than once.
func (b *RedisBus) Subscribe(table string, fn func(ChangeEvent)) func() {
	pubsub := b.rdb.Subscribe(context.Background(), channelPrefix+table)

	sub := &subscription{
		pubsub: pubsub,
		done:   make(chan struct{}),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.logger.Warn("dropping malformed change event", map[string]interface{}{
						"table": table,
						"error": err.Error(),
					})
					continue
				}
				fn(ev)
			case <-sub.done:
				return
			}
		}
	}()

	return func() {
		sub.stop()

		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
	}
}

// Close tears down every live subscription.
func (b *RedisBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*subscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.subs = make(map[*subscription]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		sub.stop()
	}
	return nil
}
