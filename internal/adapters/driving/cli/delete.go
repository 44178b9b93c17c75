package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/haldiza/recapd/internal/core/services"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id...]",
	Short: "Delete records by id",
	Long: `Deletes the given records and removes their screenshot files.
Missing screenshot files are ignored.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

var (
	purgeOlderThanDays int
	purgeYes           bool
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete records older than a number of days",
	Args:  cobra.NoArgs,
	RunE:  runPurge,
}

func init() {
	purgeCmd.Flags().IntVar(&purgeOlderThanDays, "older-than", 30, "age threshold in days")
	purgeCmd.Flags().BoolVarP(&purgeYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(purgeCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid record id %q", arg)
		}
		ids = append(ids, id)
	}

	n, err := historyService.Delete(context.Background(), ids)
	if err != nil {
		return fmt.Errorf("deleting records: %w", err)
	}
	cmd.Printf("Deleted %d record(s).\n", n)
	return nil
}

func runPurge(cmd *cobra.Command, _ []string) error {
	if purgeOlderThanDays <= 0 {
		return fmt.Errorf("--older-than must be positive")
	}

	if !purgeYes {
		cmd.Printf("Delete all records older than %d days? [y/N] ", purgeOlderThanDays)
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer) //nolint:errcheck
		if answer != "y" && answer != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	cutoff := time.Now().AddDate(0, 0, -purgeOlderThanDays)
	retention := services.NewRetention(recordStore, settingsService)
	n, err := retention.SweepBefore(context.Background(), cutoff)
	if err != nil {
		return fmt.Errorf("purging records: %w", err)
	}
	cmd.Printf("Deleted %d record(s).\n", n)
	return nil
}
