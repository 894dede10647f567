package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest [prefix]",
	Short: "Suggest query completions",
	Long:  `Lists indexed terms (keywords, people, organizations, filenames) matching the prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "maximum number of suggestions")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if vectorStore == nil {
		return errors.New("index not configured")
	}

	suggestions := vectorStore.Suggestions(args[0], suggestLimit)
	if len(suggestions) == 0 {
		cmd.Println("No suggestions.")
		return nil
	}
	for _, s := range suggestions {
		cmd.Println(s)
	}
	return nil
}
