package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/haldiza/recapd/internal/core/domain"
)

var (
	exportFormat string
	exportOutput string
	exportLimit  int
	exportToday  bool
	exportFrom   string
	exportTo     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export records to a file or stdout",
	Long:  `Exports capture records as json, csv, markdown or text.`,
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format (json|csv|markdown|text)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout)")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 500, "maximum number of records")
	exportCmd.Flags().BoolVar(&exportToday, "today", false, "only records from today")
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "range start (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "range end (YYYY-MM-DD, inclusive)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var (
		records []domain.CaptureRecord
		err     error
	)
	switch {
	case exportToday:
		records, err = historyService.Today(ctx)
	case exportFrom != "" || exportTo != "":
		start, end, rerr := parseDateRange(exportFrom, exportTo)
		if rerr != nil {
			return rerr
		}
		records, err = historyService.Range(ctx, start, end)
	default:
		records, err = historyService.Recent(ctx, exportLimit, 0)
	}
	if err != nil {
		return fmt.Errorf("fetching records: %w", err)
	}

	out := cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		out = f
	}

	if err := exporter.Export(out, domain.ExportFormat(exportFormat), records); err != nil {
		return err
	}
	if exportOutput != "" {
		cmd.Printf("Exported %d record(s) to %s\n", len(records), exportOutput)
	}
	return nil
}
