package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/haldiza/recapd/internal/adapters/driven/browser"
	"github.com/haldiza/recapd/internal/adapters/driven/screen"
	"github.com/haldiza/recapd/internal/adapters/driven/summarizer"
	"github.com/haldiza/recapd/internal/adapters/driven/window"
	"github.com/haldiza/recapd/internal/core/services"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture and summarize the screen once",
	Long: `Runs a single capture cycle immediately. The same exclusion and
privacy rules apply as for scheduled captures.`,
	Args: cobra.NoArgs,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
}

func runCapture(cmd *cobra.Command, _ []string) error {
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
		nil,
	)

	if err := orch.CaptureNow(context.Background()); err != nil {
		return err
	}

	status := orch.Status()
	if status.CaptureCount == 0 {
		cmd.Println("Capture skipped by exclusion or privacy rules.")
		return nil
	}
	cmd.Println("Capture stored.")
	return nil
}
