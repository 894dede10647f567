package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

var (
	numericTokenRe = regexp.MustCompile(`\d`)

	financialFigureRe = regexp.MustCompile(`\$[\d,]+(?:\.\d{1,2})?(?:\s*(?:million|billion|k|m))?`)
	emailAddrRe       = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe           = regexp.MustCompile(`(?:\+?\d{1,2}[\s\-.])?\(?\d{3}\)?[\s\-.]\d{3}[\s\-.]\d{4}`)
)

// rerank rescores results for answer synthesis: similarity plus boosts for
// exact substring match, query-word coverage and chunk length, with a
// penalty for very short chunks. Results below the floor are dropped.
func rerank(query string, results []domain.SearchResult) []domain.SearchResult {
	queryLower := strings.ToLower(query)

	type rescored struct {
		result domain.SearchResult
		score  float64
	}

	rescoredResults := make([]rescored, 0, len(results))
	for _, r := range results {
		textLower := strings.ToLower(r.Section)
		score := r.Similarity

		if strings.Contains(textLower, queryLower) {
			score += 0.2
		}
		score += queryCoverage(query, r.Section) * 0.1

		switch n := len(r.Section); {
		case n < 50:
			score -= 0.1
		case n > 400:
			score += 0.05
		}

		if score < rerankFloor {
			continue
		}
		rescoredResults = append(rescoredResults, rescored{result: r, score: score})
	}

	sort.SliceStable(rescoredResults, func(i, j int) bool {
		return rescoredResults[i].score > rescoredResults[j].score
	})

	out := make([]domain.SearchResult, len(rescoredResults))
	for i, rr := range rescoredResults {
		out[i] = rr.result
	}
	return out
}

// selectDistinct picks up to max chunks, skipping near-duplicate text
// (same normalised prefix) and additional chunks from a document already
// represented - at most one chunk per source document.
func selectDistinct(ranked []domain.SearchResult, max int) []domain.SearchResult {
	seenPrefix := make(map[string]bool)
	seenDoc := make(map[string]bool)

	var selected []domain.SearchResult
	for _, r := range ranked {
		prefix := normalisedPrefix(r.Section, dedupePrefixLen)
		if seenPrefix[prefix] || seenDoc[r.Metadata.Filename] {
			continue
		}

		seenPrefix[prefix] = true
		seenDoc[r.Metadata.Filename] = true
		selected = append(selected, r)
		if len(selected) >= max {
			break
		}
	}
	return selected
}

func normalisedPrefix(text string, n int) string {
	folded := strings.ToLower(strings.Join(strings.Fields(text), " "))
	if len(folded) > n {
		folded = folded[:n]
	}
	return folded
}

// buildContext concatenates one labeled block per chunk and truncates to
// maxLength, preferring to drop whole trailing chunks over mid-chunk
// breaks. The last partial chunk is sliced only when the remaining budget
// exceeds a minimum usefulness threshold.
func buildContext(selected []domain.SearchResult, maxLength int) string {
	var sb strings.Builder

	for _, r := range selected {
		block := contextBlock(r)

		if sb.Len()+len(block)+2 > maxLength {
			remaining := maxLength - sb.Len() - 2
			if remaining > minUsefulSlice {
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				sb.WriteString(block[:remaining])
			}
			break
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(block)
	}

	return sb.String()
}

// contextBlock labels one chunk with its source, type, date, top keywords
// and relevance percentage.
func contextBlock(r domain.SearchResult) string {
	var label strings.Builder
	label.WriteString("[Source: ")
	label.WriteString(r.Metadata.Filename)

	if r.Metadata.DocumentType != "" {
		label.WriteString(" | Type: ")
		label.WriteString(string(r.Metadata.DocumentType))
	}
	if r.Metadata.Date != "" {
		label.WriteString(" | Date: ")
		label.WriteString(r.Metadata.Date)
	}
	if len(r.Metadata.Keywords) > 0 {
		top := r.Metadata.Keywords
		if len(top) > 3 {
			top = top[:3]
		}
		label.WriteString(" | Keywords: ")
		label.WriteString(strings.Join(top, ", "))
	}
	fmt.Fprintf(&label, " | Relevance: %.0f%%]", r.Similarity*100)

	return label.String() + "\n" + r.Section
}

// fallbackAnswer builds a deterministic templated answer when generation
// is unavailable: financial figures first, then contact patterns, then a
// generic excerpt summary.
func fallbackAnswer(query string, selected []domain.SearchResult) string {
	var raw strings.Builder
	for _, r := range selected {
		raw.WriteString(r.Section)
		raw.WriteString("\n")
	}
	text := raw.String()

	if figures := dedupeStrings(financialFigureRe.FindAllString(text, -1)); len(figures) > 0 {
		return fmt.Sprintf("Based on %s, the relevant figures are: %s.",
			sourceList(selected), strings.Join(figures, ", "))
	}

	contacts := dedupeStrings(emailAddrRe.FindAllString(text, -1))
	contacts = append(contacts, dedupeStrings(phoneRe.FindAllString(text, -1))...)
	if len(contacts) > 0 {
		return fmt.Sprintf("Contact details found in %s: %s.",
			sourceList(selected), strings.Join(contacts, ", "))
	}

	excerpt := selected[0].Section
	if len(excerpt) > 300 {
		excerpt = strings.TrimSpace(excerpt[:300]) + "..."
	}
	return fmt.Sprintf("The most relevant excerpt from %s: %s",
		selected[0].Metadata.Filename, excerpt)
}

func sourceList(selected []domain.SearchResult) string {
	var names []string
	seen := make(map[string]bool)
	for _, r := range selected {
		if !seen[r.Metadata.Filename] {
			seen[r.Metadata.Filename] = true
			names = append(names, r.Metadata.Filename)
		}
	}
	return strings.Join(names, ", ")
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
