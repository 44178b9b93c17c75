package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/haldiza/recapd/internal/adapters/driven/browser"
	configfile "github.com/haldiza/recapd/internal/adapters/driven/config/file"
	"github.com/haldiza/recapd/internal/adapters/driven/feedback"
	"github.com/haldiza/recapd/internal/adapters/driven/screen"
	"github.com/haldiza/recapd/internal/adapters/driven/summarizer"
	"github.com/haldiza/recapd/internal/adapters/driven/window"
	"github.com/haldiza/recapd/internal/core/services"
	"github.com/haldiza/recapd/internal/logger"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the capture daemon",
	Long: `Starts the periodic capture loop and blocks until interrupted.
SIGUSR1 pauses capture (system sleep), SIGUSR2 resumes it.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	capturer := screen.NewCapturer(func() screen.Options {
		cfg, err := settingsService.Get()
		if err != nil {
			return screen.Options{}
		}
		return screen.Options{Dir: cfg.ScreenshotsDir, FrontmostOnly: cfg.FrontmostOnly}
	})

	orch := services.NewOrchestrator(
		settingsService,
		capturer,
		window.NewInspector(),
		browser.NewPrivateDetector(),
		summarizer.NewFactory(),
		profileSource,
		recordStore,
		feedback.NewDesktop(),
	)

	if err := orch.Start(ctx); err != nil {
		return err
	}
	defer orch.Stop() //nolint:errcheck

	stopCh := make(chan struct{})
	defer close(stopCh)

	retention := services.NewRetention(recordStore, settingsService)
	go retention.Run(ctx, stopCh)

	watcher, err := configfile.NewWatcher(configStore.Path(), settingsService.Reload)
	if err != nil {
		logger.Warn("config watcher unavailable: %v", err)
	} else {
		defer watcher.Close() //nolint:errcheck
	}

	cmd.Println("recapd started, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	for sig := range sigCh {
		switch sig {
		case syscall.SIGUSR1:
			orch.NotifySleep()
		case syscall.SIGUSR2:
			orch.NotifyWake()
		default:
			cmd.Println("shutting down")
			return nil
		}
	}
	return nil
}
