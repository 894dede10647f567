package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/normalisers"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index one or more documents",
	Long: `Reads each file, splits it into retrieval chunks and writes them to
the vector index. Supports .txt, .md and .eml files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var failed int
	for _, path := range args {
		if err := ingestFile(cmd, path); err != nil {
			failed++
			cmd.PrintErrf("  %s: %v\n", path, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestFile(cmd *cobra.Command, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	filename := filepath.Base(path)
	text, meta, err := normalisers.ForFile(filename).Normalise(raw, filename)
	if err != nil {
		return err
	}

	report, err := ingestService.Ingest(cmd.Context(), filename, text, meta)
	if err != nil {
		return err
	}

	switch {
	case report.OK():
		cmd.Printf("  %s: %d chunks indexed\n", filename, report.Chunks)
	case report.LexicalOK():
		cmd.Printf("  %s: %d chunks indexed (keyword only, embedding failed: %v)\n",
			filename, report.Chunks, report.VectorErr)
	default:
		return fmt.Errorf("indexing failed: %w", report.VectorErr)
	}
	return nil
}
