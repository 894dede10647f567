package vector

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// excerptWindow is the half-width of the context window around the first
// literal query occurrence.
const excerptWindow = 500

var headerLikeRe = regexp.MustCompile(`^(?:[A-Z][A-Z0-9 ,.&'\-]{3,}|.{1,60}:)$`)

// extractSection returns the query-relevant part of a chunk instead of the
// whole text. Preference order: the span under a section header containing
// a query word, then a window around the first literal query occurrence
// tightened to sentences containing the query, then the full text.
func extractSection(text, query string) string {
	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	if span := headerSpan(text, queryWords); span != "" {
		return span
	}

	textLower := strings.ToLower(text)
	if idx := strings.Index(textLower, queryLower); idx >= 0 {
		start := idx - excerptWindow
		if start < 0 {
			start = 0
		}
		end := idx + len(query) + excerptWindow
		if end > len(text) {
			end = len(text)
		}
		// Keep the cuts on rune boundaries so the window stays valid UTF-8.
		for start > 0 && !utf8.RuneStart(text[start]) {
			start--
		}
		for end < len(text) && !utf8.RuneStart(text[end]) {
			end++
		}
		window := text[start:end]

		if tightened := querySentences(window, queryLower); tightened != "" {
			return tightened
		}
		return strings.TrimSpace(window)
	}

	return text
}

// headerSpan finds a header-like line containing a query word and returns
// the span from that header to the next header or text end.
func headerSpan(text string, queryWords []string) string {
	lines := strings.Split(text, "\n")

	headerAt := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || !headerLikeRe.MatchString(trimmed) {
			continue
		}

		if headerAt >= 0 {
			return strings.TrimSpace(strings.Join(lines[headerAt:i], "\n"))
		}

		lower := strings.ToLower(trimmed)
		for _, w := range queryWords {
			if strings.Contains(lower, w) {
				headerAt = i
				break
			}
		}
	}

	if headerAt >= 0 {
		return strings.TrimSpace(strings.Join(lines[headerAt:], "\n"))
	}
	return ""
}

// querySentences keeps only the sentences of the window that contain the
// full query, preserving order.
func querySentences(window, queryLower string) string {
	var matched []string
	for _, sent := range splitSentences(window) {
		if strings.Contains(strings.ToLower(sent), queryLower) {
			matched = append(matched, sent)
		}
	}
	return strings.Join(matched, " ")
}

// splitSentences splits content on sentence terminators.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder

	for _, r := range content {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
