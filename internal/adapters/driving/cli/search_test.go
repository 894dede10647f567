package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Short(t *testing.T) {
	assert.Equal(t, "Search indexed documents", searchCmd.Short)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSearchCmd_ExecutesWithQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "revenue"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
	assert.Contains(t, buf.String(), "financials.txt")
	assert.Contains(t, buf.String(), "Type: financial")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "revenue"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false // Reset flag
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "\"id\"")
	assert.Contains(t, buf.String(), "\"similarity\"")
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	oldService := answerService
	answerService = nil
	defer func() {
		answerService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "test"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "answer service not configured")
}

func TestOutputSearchTable_EmptyResults(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	err := outputSearchTable(rootCmd, []domain.SearchResult{})

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No results found")
}

func TestOutputSearchTable_TruncatesLongSnippets(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	results := []domain.SearchResult{
		{
			ID:         "a#0",
			Section:    string(long),
			Metadata:   domain.DocumentMetadata{Filename: "big.txt"},
			Similarity: 0.5,
		},
	}

	err := outputSearchTable(rootCmd, results)

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), string(long))
}

func TestBuildFilter_PopulatesFields(t *testing.T) {
	searchTypes = []string{"contract"}
	searchKeys = []string{"payment"}
	searchFrom = "2024-01-01"
	searchTo = "2024-12-31"
	defer func() {
		searchTypes = nil
		searchKeys = nil
		searchFrom = ""
		searchTo = ""
	}()

	filter := buildFilter()
	require.False(t, filter.IsZero())
	assert.Equal(t, []string{"contract"}, filter.DocumentTypes)
	assert.Equal(t, []string{"payment"}, filter.Keywords)
	assert.Equal(t, "2024-01-01", filter.DateFrom)
	assert.Equal(t, "2024-12-31", filter.DateTo)
}
