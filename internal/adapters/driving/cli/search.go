package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

var (
	searchLimit   int
	searchJSON    bool
	searchTypes   []string
	searchKeys    []string
	searchFrom    string
	searchTo      string
	searchMinSim  float64
	searchSimFlag bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs semantic search across all indexed documents, returning one
result per source document ranked by relevance. Degrades to keyword
search when the embedding provider is unavailable.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringSliceVar(&searchTypes, "type", nil, "filter by document type")
	searchCmd.Flags().StringSliceVar(&searchKeys, "keyword", nil, "filter by metadata keyword")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "filter by date, inclusive lower bound")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "filter by date, inclusive upper bound")
	searchCmd.Flags().Float64Var(&searchMinSim, "min-similarity", 0, "override the similarity floor")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	searchSimFlag = cmd.Flags().Changed("min-similarity")

	opts := domain.SearchOptions{Limit: searchLimit}
	if searchSimFlag {
		opts.MinSimilarity = &searchMinSim
	}
	if filter := buildFilter(); !filter.IsZero() {
		opts.Filter = filter
	}

	results := answerService.Search(cmd.Context(), args[0], opts)

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func buildFilter() *domain.MetadataFilter {
	return &domain.MetadataFilter{
		DocumentTypes: searchTypes,
		Keywords:      searchKeys,
		DateFrom:      searchFrom,
		DateTo:        searchTo,
	}
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, r := range results {
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, r.Metadata.Filename, r.Similarity)
		if r.Metadata.DocumentType != "" {
			cmd.Printf("      Type: %s\n", r.Metadata.DocumentType)
		}

		snippet := r.Section
		if len(snippet) > 200 {
			snippet = snippet[:200] + "..."
		}
		cmd.Printf("      %s\n", snippet)
		cmd.Println()
	}
	return nil
}
