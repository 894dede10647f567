package domain

import (
	"fmt"
	"strings"
)

// MetadataFilter is a query-time predicate over structured document
// attributes, applied before similarity scoring. A zero filter admits
// every record.
//
// Policy note: a record that carries no value for a filtered attribute is
// kept. Filters only reject when a comparable value exists and fails the
// test, so sparse metadata is not over-filtered.
type MetadataFilter struct {
	// DocumentTypes admits records whose type matches any entry,
	// case-insensitive, exact or substring.
	DocumentTypes []string

	// Keywords admits records whose keyword list or summary contains any
	// entry, case-insensitive substring.
	Keywords []string

	// DateFrom and DateTo bound the record date, inclusive. Either side
	// may be empty.
	DateFrom string
	DateTo   string
}

// IsZero reports whether the filter admits everything.
func (f *MetadataFilter) IsZero() bool {
	return f == nil ||
		(len(f.DocumentTypes) == 0 && len(f.Keywords) == 0 && f.DateFrom == "" && f.DateTo == "")
}

// Key returns a canonical serialisation used in query cache keys.
func (f *MetadataFilter) Key() string {
	if f.IsZero() {
		return ""
	}
	return fmt.Sprintf("types=%s;keywords=%s;from=%s;to=%s",
		strings.Join(f.DocumentTypes, ","),
		strings.Join(f.Keywords, ","),
		f.DateFrom, f.DateTo)
}

// SearchOptions configures a vector index search.
type SearchOptions struct {
	// Limit is the maximum number of distinct source documents returned.
	Limit int

	// MinSimilarity overrides the length-adaptive similarity floor when
	// non-nil.
	MinSimilarity *float64

	// Filter restricts candidate records by metadata.
	Filter *MetadataFilter
}

// SearchResult is a single ranked hit. Ephemeral, never persisted.
type SearchResult struct {
	// ID is the matched chunk ID.
	ID string `json:"id"`

	// Section is the query-relevant excerpt of the chunk text. It may be
	// a substring of the full chunk.
	Section string `json:"section"`

	// Metadata is the source document metadata.
	Metadata DocumentMetadata `json:"metadata"`

	// Similarity is the combined relevance score in [0,1].
	Similarity float64 `json:"similarity"`

	// Distance is 1 - Similarity.
	Distance float64 `json:"distance"`
}

// IndexStats summarises the vector index contents.
type IndexStats struct {
	// TotalDocuments is the number of distinct source filenames.
	TotalDocuments int `json:"totalDocuments"`

	// TotalChunks is the number of indexed chunk records.
	TotalChunks int `json:"totalChunks"`

	// AvgChunkSize is the mean chunk text length in characters.
	AvgChunkSize int `json:"avgChunkSize"`

	// IndexSize is the approximate in-memory size in bytes.
	IndexSize int `json:"indexSize"`
}

// HistoryEntry is one recorded search, kept by the external history store.
type HistoryEntry struct {
	Query      string
	Results    int
	SearchedAt int64 // ms since epoch
}
