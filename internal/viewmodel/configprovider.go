// internal/viewmodel/configprovider.go
package viewmodel

import (
	"context"
	"sync"
	"time"

	"pharmelo-backend/internal/common/logger"
	"pharmelo-backend/internal/models"
	"pharmelo-backend/internal/realtime"
	"pharmelo-backend/internal/store"
)

// ConfigSource is the read side of the app_config singleton.
type ConfigSource interface {
	GetAppConfig(ctx context.Context) (*models.AppConfig, error)
}

// ConfigProvider holds the application-scoped branding config. Consumers
// always get a complete record: the hardcoded default while the first fetch
// is pending and whenever a fetch fails. Refresh is the only path by which
// an admin's saved edit becomes visible to running consumers.
type ConfigProvider struct {
	source ConfigSource
	logger logger.Logger

	mu       sync.RWMutex
	current  models.AppConfig
	watchers map[int]func(models.AppConfig)
	nextID   int
}

func NewConfigProvider(source ConfigSource, log logger.Logger) *ConfigProvider {
	return &ConfigProvider{
		source:   source,
		logger:   log.WithFields(map[string]interface{}{"component": "config-provider"}),
		current:  models.DefaultAppConfig(),
		watchers: make(map[int]func(models.AppConfig)),
	}
}

// Load runs the initial fetch. A failure is logged and swallowed, retaining
// the default: config fetch failure must never block rendering.
func (p *ConfigProvider) Load(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("app config fetch failed, keeping defaults", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// Refresh re-reads the singleton row and notifies watchers on success.
func (p *ConfigProvider) Refresh(ctx context.Context) error {
	cfg, err := p.source.GetAppConfig(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.current = *cfg
	watchers := make([]func(models.AppConfig), 0, len(p.watchers))
	for _, w := range p.watchers {
		watchers = append(watchers, w)
	}
	p.mu.Unlock()

	for _, w := range watchers {
		w(*cfg)
	}
	return nil
}

// Attach subscribes the provider to app_config change events so that a save
// made by another instance also lands here. Returns an unsubscribe handle.
func (p *ConfigProvider) Attach(bus realtime.Bus) func() {
	return bus.Subscribe(store.TableAppConfig, func(realtime.ChangeEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.Refresh(ctx); err != nil {
			p.logger.Warn("app config refresh on change event failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
}

// Current returns the in-memory config. Never empty: at minimum the default.
func (p *ConfigProvider) Current() models.AppConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// Watch registers fn for future config replacements and returns an
// unregister handle.
func (p *ConfigProvider) Watch(fn func(models.AppConfig)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.watchers[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.watchers, id)
		p.mu.Unlock()
	}
}
