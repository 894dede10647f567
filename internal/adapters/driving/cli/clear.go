package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all indexed documents",
	Long:  `Empties the index and overwrites the on-disk snapshot. This cannot be undone.`,
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if vectorStore == nil {
		return errors.New("index not configured")
	}

	if !clearYes {
		cmd.Print("Remove all indexed documents? [y/N] ")
		var answer string
		fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	if err := vectorStore.Clear(); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	if lexicalStore != nil {
		lexicalStore.Clear()
	}

	cmd.Println("Index cleared.")
	return nil
}
