package services

import (
	"fmt"
	"sync"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/core/ports/driving"
)

// Ensure Settings implements the interface.
var _ driving.SettingsService = (*Settings)(nil)

// Settings caches the configuration snapshot and serializes updates.
// The orchestrator reads a snapshot at every cycle boundary; Update
// applies a whole batch of changes in one load-modify-save step, so a
// half-applied configuration is never observable.
type Settings struct {
	store driven.ConfigStore

	mu       sync.RWMutex
	snapshot domain.Settings
	loaded   bool
}

// NewSettings creates a settings service backed by the config store.
func NewSettings(store driven.ConfigStore) *Settings {
	return &Settings{store: store}
}

// Get returns the current settings snapshot.
func (s *Settings) Get() (domain.Settings, error) {
	s.mu.RLock()
	if s.loaded {
		snap := s.snapshot
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	return s.load()
}

// Update applies fn to the current settings and persists the result.
func (s *Settings) Update(fn func(*domain.Settings)) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.snapshot
	if !s.loaded {
		loaded, err := s.store.Load()
		if err != nil {
			return domain.Settings{}, fmt.Errorf("load settings: %w", err)
		}
		cfg = loaded
	}

	fn(&cfg)
	if err := s.store.Save(cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.snapshot = cfg
	s.loaded = true
	return cfg, nil
}

// Reload discards the cached snapshot and re-reads the store. The config
// watcher calls this when the file changes on disk; the new snapshot is
// observed at the next cycle boundary.
func (s *Settings) Reload() error {
	_, err := s.load()
	return err
}

func (s *Settings) load() (domain.Settings, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	s.mu.Lock()
	s.snapshot = cfg
	s.loaded = true
	s.mu.Unlock()
	return cfg, nil
}
