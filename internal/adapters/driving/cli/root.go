// Package cli wires the cobra command tree to the core services.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haldiza/recapd/internal/adapters/driven/browser"
	configfile "github.com/haldiza/recapd/internal/adapters/driven/config/file"
	"github.com/haldiza/recapd/internal/adapters/driven/storage/sqlite"
	"github.com/haldiza/recapd/internal/core/ports/driven"
	"github.com/haldiza/recapd/internal/core/ports/driving"
	"github.com/haldiza/recapd/internal/core/services"
	"github.com/haldiza/recapd/internal/logger"
)

var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Services, set by initServices. Tests replace these with mocks.
var (
	recordStore     driven.RecordStore
	configStore     driven.ConfigStore
	profileSource   driven.ProfileSource
	settingsService driving.SettingsService
	historyService  driving.HistoryService
	exporter        driving.Exporter
)

var rootCmd = &cobra.Command{
	Use:   "recapd",
	Short: "Automatic screen activity journal",
	Long: `recapd periodically captures your screen, turns each capture into a
short text summary and stores it in a searchable local journal.
Everything stays on this machine.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return initServices()
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return teardownServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.recapd)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.recapd/data)")
}

// Execute runs the CLI. v is the build version stamped by the linker.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// initServices constructs the store-backed services shared by every
// command. The capture collaborators are built per-command in start.go
// so read-only commands never touch the display.
func initServices() error {
	if settingsService != nil {
		return nil
	}

	cs, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("config store: %w", err)
	}
	configStore = cs

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	recordStore = store

	settingsService = services.NewSettings(configStore)
	historyService = services.NewHistory(recordStore)
	exporter = services.NewExport()
	profileSource = browser.NewProfileSource()
	return nil
}

func teardownServices() error {
	if recordStore == nil {
		return nil
	}
	err := recordStore.Close()
	recordStore = nil
	settingsService = nil
	return err
}
