package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about indexed documents",
	Long: `Retrieves the most relevant document chunks and synthesizes an
answer with cited sources and a confidence estimate.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	answer, err := answerService.Ask(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)
	cmd.Println()

	if len(answer.Sources) > 0 {
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  - %s (%.0f%%)\n", src.Metadata.Filename, src.Similarity*100)
		}
	}
	cmd.Printf("Confidence: %.0f%%\n", answer.Confidence*100)
	return nil
}
