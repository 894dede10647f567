package lexical

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// exactPhraseCap bounds the exact-phrase occurrence boost.
const exactPhraseCap = 3

var interrogatives = []string{"what", "who", "when", "where", "which", "how", "why", "whose"}

// intent keyword families mapped to expected content signals. Concrete
// current data outranks vague or future-tense projections.
var (
	financialIntent = []string{"revenue", "cost", "price", "amount", "profit", "financial", "budget", "fee", "total", "invoice", "payment", "paid", "owe"}
	contactIntent   = []string{"contact", "email", "phone", "reach", "address", "call"}
	contractIntent  = []string{"contract", "agreement", "term", "clause", "party", "parties", "deadline", "expire"}
	businessIntent  = []string{"update", "status", "progress", "meeting", "launch", "project"}

	dollarAmountRe = regexp.MustCompile(`\$[\d,]+(?:\.\d{1,2})?`)
	emailAddrRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phoneRe        = regexp.MustCompile(`(?:\+?\d{1,2}[\s\-.])?\(?\d{3}\)?[\s\-.]\d{3}[\s\-.]\d{4}`)
	dateTokenRe    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	futureTenseRe  = regexp.MustCompile(`\b(?:will|projected|expected|forecast|anticipated|estimate[ds]?)\b`)

	// Generic answer-shaped patterns, e.g. "X is Y" or "amount: $N".
	answerShapeRe = regexp.MustCompile(`\b(?:is|are|was|were)\b|(?i)\b(?:amount|total|sum)\s*:\s*\$?[\d,]+`)
)

// exactPhraseScore counts whole-phrase occurrences, capped.
func exactPhraseScore(textLower, queryLower string) float64 {
	count := strings.Count(textLower, queryLower)
	if count > exactPhraseCap {
		count = exactPhraseCap
	}
	return float64(count) / exactPhraseCap
}

// keywordOverlapScore is the matched-word ratio with a bonus for matching
// every query word.
func keywordOverlapScore(textLower string, queryWords []string) float64 {
	if len(queryWords) == 0 {
		return 0
	}

	var matched int
	for _, w := range queryWords {
		if strings.Contains(textLower, w) {
			matched++
		}
	}

	score := float64(matched) / float64(len(queryWords))
	if matched == len(queryWords) {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}

// metadataScore counts query-word hits across the structured metadata.
func metadataScore(m *domain.DocumentMetadata, queryWords []string) float64 {
	if len(queryWords) == 0 {
		return 0
	}

	fields := make([]string, 0, 8)
	fields = append(fields, m.Filename, string(m.DocumentType), m.Summary)
	fields = append(fields, m.Keywords...)
	fields = append(fields, m.People...)
	fields = append(fields, m.Organizations...)
	haystack := strings.ToLower(strings.Join(fields, " "))

	var hits int
	for _, w := range queryWords {
		if strings.Contains(haystack, w) {
			hits++
		}
	}

	score := float64(hits) / float64(len(queryWords))
	if score > 1 {
		score = 1
	}
	return score
}

// questionScore activates only for interrogative queries. It maps query
// intent to expected content signals, awarding graded scores that rank
// concrete current data above vague or future-tense projections, plus a
// small bonus for generic answer-shaped patterns.
func questionScore(textLower, queryLower string, queryWords []string) float64 {
	if !isQuestion(queryWords) {
		return 0
	}

	var score float64

	switch {
	case containsAny(queryLower, financialIntent):
		switch {
		case dollarAmountRe.MatchString(textLower) && !futureTenseRe.MatchString(textLower):
			score = 1.0
		case dollarAmountRe.MatchString(textLower):
			score = 0.6
		case containsAny(textLower, financialIntent):
			score = 0.4
		}
	case containsAny(queryLower, contactIntent):
		switch {
		case emailAddrRe.MatchString(textLower) || phoneRe.MatchString(textLower):
			score = 1.0
		case containsAny(textLower, contactIntent):
			score = 0.4
		}
	case containsAny(queryLower, contractIntent):
		switch {
		case containsAny(textLower, contractIntent) && dateTokenRe.MatchString(textLower):
			score = 0.8
		case containsAny(textLower, contractIntent):
			score = 0.5
		}
	case containsAny(queryLower, businessIntent):
		if containsAny(textLower, businessIntent) {
			score = 0.5
		}
	}

	if answerShapeRe.MatchString(textLower) {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}

func isQuestion(queryWords []string) bool {
	for _, w := range queryWords {
		for _, q := range interrogatives {
			if w == q || strings.TrimRight(w, "?") == q {
				return true
			}
		}
	}
	return false
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
