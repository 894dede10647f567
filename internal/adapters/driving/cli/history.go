package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent queries",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyStore == nil {
		return errors.New("history store not configured")
	}

	entries, err := historyStore.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		cmd.Println("No history.")
		return nil
	}

	for _, e := range entries {
		at := time.UnixMilli(e.SearchedAt).Format("2006-01-02 15:04")
		cmd.Printf("  %s  %-40q  %d results\n", at, e.Query, e.Results)
	}
	return nil
}
