package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	stats, err := historyService.Statistics(context.Background())
	if err != nil {
		return fmt.Errorf("fetching statistics: %w", err)
	}

	cmd.Printf("Total records:  %d\n", stats.TotalCount)
	cmd.Printf("Today:          %d\n", stats.TodayCount)
	if !stats.FirstRecordedAt.IsZero() {
		cmd.Printf("First record:   %s\n", stats.FirstRecordedAt.Format("2006-01-02 15:04"))
		cmd.Printf("Latest record:  %s\n", stats.LastRecordedAt.Format("2006-01-02 15:04"))
	}

	if len(stats.AppCounts) > 0 {
		cmd.Println()
		cmd.Println("Top applications:")
		for _, ac := range stats.AppCounts {
			cmd.Printf("  %6d  %s\n", ac.Count, ac.AppName)
		}
	}
	return nil
}
