// Package file persists settings as a TOML file under the user's
// config directory.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/haldiza/recapd/internal/core/domain"
	"github.com/haldiza/recapd/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.ConfigStore = (*ConfigStore)(nil)

const configFileName = "config.toml"

// ConfigStore reads and writes the settings file. A missing file yields
// the defaults; the file is created on first save.
type ConfigStore struct {
	dir  string
	path string
}

// NewConfigStore creates a store rooted at dir. If dir is empty,
// defaults to ~/.recapd.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".recapd")
	}
	return &ConfigStore{
		dir:  dir,
		path: filepath.Join(dir, configFileName),
	}, nil
}

// Path returns the settings file path.
func (c *ConfigStore) Path() string {
	return c.path
}

// Load reads the settings file. A missing file is not an error; defaults
// are returned so a fresh install works without any setup step.
func (c *ConfigStore) Load() (domain.Settings, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DefaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("reading config file: %w", err)
	}

	cfg := domain.DefaultSettings()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return domain.Settings{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the settings file, creating the config directory if needed.
// The file may hold command templates the user considers private, so it is
// written user-only.
func (c *ConfigStore) Save(cfg domain.Settings) error {
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
