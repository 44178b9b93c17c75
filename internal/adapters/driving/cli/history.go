package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/haldiza/recapd/internal/core/domain"
)

var (
	historyLimit  int
	historyOffset int
	historyToday  bool
	historyFrom   string
	historyTo     string
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show captured records",
	Long: `Lists stored capture records, newest first. Use --today or
--from/--to to restrict the time range.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 50, "maximum number of records")
	historyCmd.Flags().IntVar(&historyOffset, "offset", 0, "records to skip")
	historyCmd.Flags().BoolVar(&historyToday, "today", false, "only records from today")
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "range start (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "range end (YYYY-MM-DD, inclusive)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var (
		records []domain.CaptureRecord
		err     error
	)
	switch {
	case historyToday:
		records, err = historyService.Today(ctx)
	case historyFrom != "" || historyTo != "":
		start, end, rerr := parseDateRange(historyFrom, historyTo)
		if rerr != nil {
			return rerr
		}
		records, err = historyService.Range(ctx, start, end)
	default:
		records, err = historyService.Recent(ctx, historyLimit, historyOffset)
	}
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}

	if historyJSON {
		return printRecordsJSON(cmd, records)
	}
	printRecords(cmd, records)
	return nil
}

// parseDateRange turns --from/--to day strings into an inclusive range.
// A missing --from opens the range at the epoch; a missing --to closes it
// at the end of today.
func parseDateRange(from, to string) (time.Time, time.Time, error) {
	var (
		start = time.Unix(0, 0)
		end   = endOfDay(time.Now())
	)
	if from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		start = t
	}
	if to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		end = endOfDay(t)
	}
	return start, end, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func printRecords(cmd *cobra.Command, records []domain.CaptureRecord) {
	if len(records) == 0 {
		cmd.Println("No records.")
		return
	}
	for _, r := range records {
		header := fmt.Sprintf("[%d] %s", r.ID, r.ObservedAt.Format("2006-01-02 15:04"))
		if r.AppName != "" {
			header += "  " + r.AppName
		}
		if r.WindowTitle != "" {
			header += "  (" + r.WindowTitle + ")"
		}
		cmd.Println(header)
		cmd.Println("    " + strings.ReplaceAll(r.Summary, "\n", "\n    "))
		cmd.Println()
	}
}

func printRecordsJSON(cmd *cobra.Command, records []domain.CaptureRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
