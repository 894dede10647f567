package vector

import (
	"strings"
	"time"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// dateLayouts are tried in order when parsing metadata and filter dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	time.RFC3339,
}

// matchesFilter applies the metadata filter to one record. Filters only
// reject when a comparable value exists and fails the test: a record with
// no date is kept even under an active date-range filter.
func matchesFilter(doc *domain.IndexedDocument, f *domain.MetadataFilter) bool {
	if f.IsZero() {
		return true
	}

	if len(f.DocumentTypes) > 0 {
		docType := strings.ToLower(string(doc.Metadata.DocumentType))
		if docType != "" && !matchesType(docType, f.DocumentTypes) {
			return false
		}
	}

	if len(f.Keywords) > 0 && !matchesKeywords(&doc.Metadata, f.Keywords) {
		return false
	}

	if f.DateFrom != "" || f.DateTo != "" {
		if !withinDateRange(doc.Metadata.Date, f.DateFrom, f.DateTo) {
			return false
		}
	}

	return true
}

// matchesType checks case-insensitive exact-or-substring type membership.
func matchesType(docType string, wanted []string) bool {
	for _, w := range wanted {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if docType == w || strings.Contains(docType, w) || strings.Contains(w, docType) {
			return true
		}
	}
	return false
}

// matchesKeywords checks any wanted keyword against the record's keyword
// list or its summary text, case-insensitive substring.
func matchesKeywords(m *domain.DocumentMetadata, wanted []string) bool {
	summary := strings.ToLower(m.Summary)
	for _, w := range wanted {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		for _, kw := range m.Keywords {
			if strings.Contains(strings.ToLower(kw), w) {
				return true
			}
		}
		if summary != "" && strings.Contains(summary, w) {
			return true
		}
	}
	return false
}

// withinDateRange bounds the record date inclusively. An unparsable record
// date is treated as absent and keeps the record; an unparsable bound is
// ignored.
func withinDateRange(date, from, to string) bool {
	d, ok := parseDate(date)
	if !ok {
		return true
	}

	if f, ok := parseDate(from); ok && d.Before(f) {
		return false
	}
	if t, ok := parseDate(to); ok && d.After(t) {
		return false
	}
	return true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
