// Package settings supplies the singleton configuration record to the rest
// of the platform. The provider caches an immutable snapshot; readers always
// see a complete old or new record, never a partially updated one.
package settings

import (
	"context"
	"sync"
	"sync/atomic"

	"neonfood/internal/logger"
	"neonfood/internal/models"
)

// Store persists the settings document.
type Store interface {
	// Load returns the stored settings, or nil when none exist yet.
	Load(ctx context.Context) (*models.Settings, error)
	// Init writes the given settings only if none exist yet.
	Init(ctx context.Context, s *models.Settings) error
	// Save replaces the stored settings.
	Save(ctx context.Context, s *models.Settings) error
}

// Provider is the settings source injected into the pricing engine, the
// checkout service and the notification dispatcher.
type Provider struct {
	store  Store
	logger *logger.Logger

	mu       sync.Mutex // serializes load and save
	snapshot atomic.Pointer[models.Settings]
}

// NewProvider creates a provider over the given store. No data is loaded
// until the first Get or Refresh call.
func NewProvider(store Store, log *logger.Logger) *Provider {
	return &Provider{store: store, logger: log}
}

// Current returns the cached snapshot without touching the store. It is nil
// until the first successful load.
func (p *Provider) Current() *models.Settings {
	return p.snapshot.Load()
}

// Get returns the current settings, loading them lazily and creating the
// default record if none exists yet.
func (p *Provider) Get(ctx context.Context) (*models.Settings, error) {
	if snap := p.snapshot.Load(); snap != nil {
		return snap, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Another caller may have loaded while we waited for the lock.
	if snap := p.snapshot.Load(); snap != nil {
		return snap, nil
	}

	return p.load(ctx)
}

// Refresh discards the cached snapshot and reloads from the store.
func (p *Provider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.load(ctx)
	return err
}

// load reads the document, creating defaults when absent, and swaps the
// snapshot. Callers must hold p.mu.
func (p *Provider) load(ctx context.Context) (*models.Settings, error) {
	loaded, err := p.store.Load(ctx)
	if err != nil {
		return nil, &models.PersistenceError{Op: "settings load", Err: err}
	}

	if loaded == nil {
		loaded = models.DefaultSettings()
		if err := p.store.Init(ctx, loaded); err != nil {
			return nil, &models.PersistenceError{Op: "settings init", Err: err}
		}
		p.logger.Info("settings_created", "", "Created default settings record", nil)
	}

	p.snapshot.Store(loaded)
	return loaded, nil
}

// Save validates and persists a full settings record, then swaps the cached
// snapshot. The caller must not mutate s afterwards.
func (p *Provider) Save(ctx context.Context, s *models.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.store.Save(ctx, s); err != nil {
		return &models.PersistenceError{Op: "settings save", Err: err}
	}

	p.snapshot.Store(s)
	p.logger.Info("settings_saved", "", "Settings record updated", nil)
	return nil
}
