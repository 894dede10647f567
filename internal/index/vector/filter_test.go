package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

func doc(m domain.DocumentMetadata) *domain.IndexedDocument {
	return &domain.IndexedDocument{ID: "x#0", Text: "text", Metadata: m}
}

func TestMatchesFilter_ZeroFilterAdmitsAll(t *testing.T) {
	d := doc(domain.DocumentMetadata{Filename: "a.txt"})
	assert.True(t, matchesFilter(d, nil))
	assert.True(t, matchesFilter(d, &domain.MetadataFilter{}))
}

func TestMatchesFilter_DocumentTypes(t *testing.T) {
	d := doc(domain.DocumentMetadata{Filename: "a.txt", DocumentType: domain.TypeContractAmendment})

	assert.True(t, matchesFilter(d, &domain.MetadataFilter{DocumentTypes: []string{"contract_amendment"}}))
	// Substring matches both directions, case-insensitive.
	assert.True(t, matchesFilter(d, &domain.MetadataFilter{DocumentTypes: []string{"Contract"}}))
	assert.False(t, matchesFilter(d, &domain.MetadataFilter{DocumentTypes: []string{"email"}}))

	// A record with no type passes any type filter.
	untyped := doc(domain.DocumentMetadata{Filename: "a.txt"})
	assert.True(t, matchesFilter(untyped, &domain.MetadataFilter{DocumentTypes: []string{"email"}}))
}

func TestMatchesFilter_Keywords(t *testing.T) {
	d := doc(domain.DocumentMetadata{
		Filename: "a.txt",
		Keywords: []string{"Quarterly Revenue"},
		Summary:  "Financial overview for the board",
	})

	assert.True(t, matchesFilter(d, &domain.MetadataFilter{Keywords: []string{"revenue"}}))
	// Summary text also matches.
	assert.True(t, matchesFilter(d, &domain.MetadataFilter{Keywords: []string{"board"}}))
	assert.False(t, matchesFilter(d, &domain.MetadataFilter{Keywords: []string{"termination"}}))
}

func TestMatchesFilter_DateRange(t *testing.T) {
	dated := doc(domain.DocumentMetadata{Filename: "a.txt", Date: "2024-06-15"})

	assert.True(t, matchesFilter(dated, &domain.MetadataFilter{DateFrom: "2024-01-01", DateTo: "2024-12-31"}))
	assert.True(t, matchesFilter(dated, &domain.MetadataFilter{DateFrom: "2024-06-15", DateTo: "2024-06-15"}),
		"bounds are inclusive")
	assert.False(t, matchesFilter(dated, &domain.MetadataFilter{DateFrom: "2024-07-01"}))
	assert.False(t, matchesFilter(dated, &domain.MetadataFilter{DateTo: "2024-05-31"}))
}

func TestMatchesFilter_UndatedRecordsKeptUnderDateFilter(t *testing.T) {
	undated := doc(domain.DocumentMetadata{Filename: "a.txt"})
	assert.True(t, matchesFilter(undated, &domain.MetadataFilter{DateFrom: "2024-01-01", DateTo: "2024-12-31"}))

	// Unparsable record dates are treated as absent.
	garbled := doc(domain.DocumentMetadata{Filename: "a.txt", Date: "sometime last spring"})
	assert.True(t, matchesFilter(garbled, &domain.MetadataFilter{DateFrom: "2024-01-01"}))
}

func TestParseDate_Layouts(t *testing.T) {
	for _, s := range []string{
		"2024-06-15",
		"2024/06/15",
		"06/15/2024",
		"Jun 15, 2024",
		"15 Jun 2024",
		"June 15, 2024",
	} {
		_, ok := parseDate(s)
		assert.True(t, ok, "expected %q to parse", s)
	}

	_, ok := parseDate("not a date")
	assert.False(t, ok)
	_, ok = parseDate("")
	assert.False(t, ok)
}
