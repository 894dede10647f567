package segmenter

import (
	"regexp"
	"strings"
)

// paragraphKind classifies an email body paragraph for boundary decisions.
type paragraphKind int

const (
	kindGeneral paragraphKind = iota
	kindFinancial
	kindBusiness
	kindList
	kindSignature
)

var (
	headerLineRe = regexp.MustCompile(`(?mi)^(From|To|Subject|Date|CC|BCC|Reply-To):[ \t]*.*$`)

	dollarRe     = regexp.MustCompile(`\$[\d,]+(?:\.\d{1,2})?`)
	financeVocab = []string{"revenue", "payment", "invoice", "budget", "cost", "profit", "expense", "price", "fee"}
	businessVocab = []string{"update", "launch", "meeting", "project", "milestone", "deadline", "release", "roadmap"}

	listMarkerRe = regexp.MustCompile(`(?m)^\s*(?:[-*\x{2022}]|\d+[.)]|[a-zA-Z][.)])\s+`)
	signatureRe  = regexp.MustCompile(`(?i)^(best regards|kind regards|regards|sincerely|best|thanks|thank you|cheers|yours truly)[,.]?\s*$`)
)

// splitEmail extracts header lines into one leading chunk, then groups the
// remaining paragraphs by kind. Consecutive paragraphs of the same kind are
// concatenated until the target length; a kind change always forces a chunk
// boundary even under length.
func (s *Segmenter) splitEmail(text string) []string {
	var chunks []string

	headers := headerLineRe.FindAllString(text, -1)
	if len(headers) > 0 {
		chunks = append(chunks, strings.Join(headers, "\n"))
	}

	body := headerLineRe.ReplaceAllString(text, "")
	paras := splitParagraphs(body)

	var current strings.Builder
	currentKind := kindGeneral

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, para := range paras {
		kind := classifyParagraph(para)

		if current.Len() > 0 &&
			(kind != currentKind || current.Len()+len(para)+2 > s.targetLen) {
			flush()
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentKind = kind
	}
	flush()

	return chunks
}

// classifyParagraph assigns a paragraph kind by regex and keyword tests.
// Signature and list markers take precedence over vocabulary matches.
func classifyParagraph(para string) paragraphKind {
	lowered := strings.ToLower(para)

	for _, line := range strings.Split(para, "\n") {
		if signatureRe.MatchString(strings.TrimSpace(line)) {
			return kindSignature
		}
	}

	if listMarkerRe.MatchString(para) {
		return kindList
	}

	if dollarRe.MatchString(para) || containsAny(lowered, financeVocab) {
		return kindFinancial
	}

	if containsAny(lowered, businessVocab) {
		return kindBusiness
	}

	return kindGeneral
}

func containsAny(lowered string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lowered, w) {
			return true
		}
	}
	return false
}
