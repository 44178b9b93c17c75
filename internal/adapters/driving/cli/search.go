package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over captured records",
	Long: `Searches summaries, application names and window titles.
Each word matches as a prefix; words are OR-combined.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 50, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	records, err := historyService.Search(context.Background(), args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printRecordsJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No matches.")
		return nil
	}
	printRecords(cmd, records)
	return nil
}
