package driving

import "github.com/haldiza/recapd/internal/core/domain"

// SettingsService manages the application settings snapshot.
// The orchestrator reads a fresh snapshot at every cycle boundary, so a
// change never takes effect retroactively within an in-progress cycle.
type SettingsService interface {
	// Get returns the current settings snapshot.
	Get() (domain.Settings, error)

	// Update applies fn to the current settings and persists the
	// result in one step, avoiding partial-update races.
	Update(fn func(*domain.Settings)) (domain.Settings, error)

	// Reload discards the cached snapshot and re-reads the store.
	// Called by the config watcher when the file changes on disk.
	Reload() error
}
