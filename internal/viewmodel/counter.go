// internal/viewmodel/counter.go
package viewmodel

import (
	"context"
	"math"
	"sync"
	"time"

	"pharmelo-backend/internal/realtime"
)

// DefaultCountDuration is how long the count-up animation runs.
const DefaultCountDuration = 2 * time.Second

// CountSource produces the authoritative value a counter animates toward.
type CountSource func(ctx context.Context) (int, error)

// LiveCounter models one landing-page KPI: it animates from a start value to
// an authoritative target with an ease-out curve, beginning only on first
// visibility, and bumps the target by one per matching insert event instead
// of re-fetching. The displayed count can therefore drift from the true
// aggregate while events are missed: accepted behavior, not a bug.
type LiveCounter struct {
	mu        sync.Mutex
	start     int
	target    int
	loaded    bool
	visible   bool
	animBegan time.Time
	duration  time.Duration
	now       func() time.Time
	unsub     func()
}

func NewLiveCounter(start int, duration time.Duration) *LiveCounter {
	if duration <= 0 {
		duration = DefaultCountDuration
	}
	return &LiveCounter{
		start:    start,
		target:   start,
		duration: duration,
		now:      time.Now,
	}
}

// Load fetches the authoritative target once. Until it returns, Loading
// reports true so callers render a placeholder, never a fake zero.
func (c *LiveCounter) Load(ctx context.Context, source CountSource) error {
	value, err := source(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.target = value
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Loading reports whether the authoritative fetch is still pending.
func (c *LiveCounter) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.loaded
}

// OnVisible starts the animation. Only the first call has an effect.
func (c *LiveCounter) OnVisible() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visible {
		return
	}
	c.visible = true
	c.animBegan = c.now()
}

// Attach subscribes the counter to insert events on the given table,
// incrementing the target by exactly one per event. Returns the counter for
// chaining; Stop releases the subscription.
func (c *LiveCounter) Attach(bus realtime.Bus, table string) *LiveCounter {
	unsub := bus.Subscribe(table, func(ev realtime.ChangeEvent) {
		if ev.Event != realtime.EventInsert {
			return
		}
		c.mu.Lock()
		c.target++
		c.mu.Unlock()
	})

	c.mu.Lock()
	c.unsub = unsub
	c.mu.Unlock()
	return c
}

// Stop unregisters the change subscription.
func (c *LiveCounter) Stop() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Target returns the current animation target.
func (c *LiveCounter) Target() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Value returns the displayed number at this instant: the start value while
// off-screen, the eased interpolation during the animation window, and the
// target exactly once the window has elapsed. Never below start, never above
// target.
func (c *LiveCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.visible {
		return c.start
	}

	elapsed := c.now().Sub(c.animBegan)
	if elapsed >= c.duration {
		return c.target
	}

	t := float64(elapsed) / float64(c.duration)
	eased := 1 - math.Pow(1-t, 3) // cubic ease-out
	value := c.start + int(math.Round(eased*float64(c.target-c.start)))

	if value < c.start {
		return c.start
	}
	if value > c.target {
		return c.target
	}
	return value
}
