package segmenter

import (
	"regexp"
	"sort"
)

// Boundary markers for the generic strategy, in fixed order. Each regex
// yields candidate boundary offsets; the match start is the boundary.
var boundaryRes = []*regexp.Regexp{
	// All-caps header lines
	regexp.MustCompile(`(?m)^[A-Z][A-Z0-9 ,.&'\-]{3,}$`),
	// Numbered list starts
	regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`),
	// Bulleted list starts
	regexp.MustCompile(`(?m)^\s*[-*\x{2022}]\s+`),
	// Lettered list starts
	regexp.MustCompile(`(?m)^\s*[a-zA-Z][.)]\s+`),
	// Paragraph breaks
	regexp.MustCompile(`\n\s*\n`),
	// Table rows
	regexp.MustCompile(`(?m)^.*\|.*\|.*$`),
	// Separator lines
	regexp.MustCompile(`(?m)^[=\-_]{3,}\s*$`),
	// Document-specific prefixes
	regexp.MustCompile(`(?mi)^(?:Invoice\s*#|Reference:|Account:|Date:)`),
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// splitGeneric finds candidate boundaries from the structural markers,
// merges boundaries closer than the minimum section size, normalises each
// span's whitespace, and re-splits oversized spans by sentence. When no
// boundaries are found at all it falls back to fixed-window slicing.
func (s *Segmenter) splitGeneric(text string) []string {
	offsets := boundaryOffsets(text)
	if len(offsets) == 0 {
		return s.splitWindow(text)
	}

	merged := mergeBoundaries(offsets, s.minSection)

	// Ensure the document start and end close the span list.
	if len(merged) == 0 || merged[0] != 0 {
		merged = append([]int{0}, merged...)
	}
	merged = append(merged, len(text))

	var chunks []string
	for i := 0; i+1 < len(merged); i++ {
		span := normaliseWhitespace(text[merged[i]:merged[i+1]])
		if span == "" {
			continue
		}

		if len(span) <= s.targetLen {
			chunks = append(chunks, span)
			continue
		}

		// Oversized spans are re-split by sentence with no overlap
		// between sibling sub-chunks.
		chunks = append(chunks, packSentences(splitSentences(span), s.targetLen)...)
	}

	return chunks
}

// boundaryOffsets collects match-start offsets from every marker regex,
// sorted ascending and deduplicated.
func boundaryOffsets(text string) []int {
	seen := make(map[int]bool)
	var offsets []int

	for _, re := range boundaryRes {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if !seen[loc[0]] {
				seen[loc[0]] = true
				offsets = append(offsets, loc[0])
			}
		}
	}

	sort.Ints(offsets)
	return offsets
}

// mergeBoundaries drops boundaries closer than minGap to their predecessor.
func mergeBoundaries(offsets []int, minGap int) []int {
	var merged []int
	last := -minGap - 1
	for _, off := range offsets {
		if off-last < minGap {
			continue
		}
		merged = append(merged, off)
		last = off
	}
	return merged
}
