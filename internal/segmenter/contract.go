package segmenter

import (
	"regexp"
	"sort"
	"strings"
)

// contractSectionNames are the headers recognised in contract documents,
// in canonical order.
var contractSectionNames = []string{
	"PARTIES",
	"SCOPE OF WORK",
	"TERMS AND CONDITIONS",
	"PAYMENT TERMS",
	"FINANCIAL TERMS",
	"AMENDMENT",
	"TIMELINE",
	"PROVISIONS",
	"TERMINATION",
	"SIGNATURES",
	"GOVERNING LAW",
	"FORCE MAJEURE",
}

// sectionLabels prefixes descriptive labels onto sections whose content
// benefits from an explicit tag at retrieval time.
var sectionLabels = map[string]string{
	"PAYMENT TERMS":   "Payment terms",
	"FINANCIAL TERMS": "Financial terms",
	"TIMELINE":        "Timeline",
	"AMENDMENT":       "Amendment",
}

var (
	contractIDRe = regexp.MustCompile(`(?mi)^.*(?:(?:Contract|Agreement)\s*(?:No\.?|Number|#)|Reference)\s*[:\-]?\s*\S+.*$`)

	// sectionHeaderRes maps each section name to its header-line regex.
	// Headers may carry a numeric prefix and trailing colon.
	sectionHeaderRes = buildSectionHeaderRes()
)

func buildSectionHeaderRes() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(contractSectionNames))
	for _, name := range contractSectionNames {
		pattern := `(?mi)^\s*(?:\d+[.)]?\s*)?` + regexp.QuoteMeta(name) + `\s*:?\s*$`
		res[name] = regexp.MustCompile(pattern)
	}
	return res
}

// sectionSpan marks a detected section header within the document.
type sectionSpan struct {
	name  string
	start int // offset of the header line
	body  int // offset just past the header line
}

// splitContract extracts identifier lines into a leading chunk, then cuts
// the document at detected section headers. Each section spans from its
// header to the next detected header or document end. Oversized sections
// are re-split by paragraph. Falls back to plain paragraph chunking when
// no sections are detected.
func (s *Segmenter) splitContract(text string) []string {
	var chunks []string

	if ids := contractIDRe.FindAllString(text, -1); len(ids) > 0 {
		trimmed := make([]string, 0, len(ids))
		for _, id := range ids {
			trimmed = append(trimmed, strings.TrimSpace(id))
		}
		chunks = append(chunks, strings.Join(trimmed, "\n"))
	}

	spans := findSections(text)
	if len(spans) == 0 {
		for _, para := range splitParagraphs(text) {
			if len(para) <= s.targetLen {
				chunks = append(chunks, para)
			} else {
				chunks = append(chunks, packSentences(splitSentences(para), s.targetLen)...)
			}
		}
		return chunks
	}

	for i, span := range spans {
		end := len(text)
		if i+1 < len(spans) {
			end = spans[i+1].start
		}

		body := strings.TrimSpace(text[span.body:end])
		if body == "" {
			continue
		}

		label := ""
		if l, ok := sectionLabels[span.name]; ok {
			label = l + ": "
		}

		section := span.name + "\n" + body
		if len(section) <= s.targetLen {
			chunks = append(chunks, label+section)
			continue
		}

		for _, para := range splitParagraphs(body) {
			if len(para) <= s.targetLen {
				chunks = append(chunks, label+span.name+"\n"+para)
			} else {
				for _, sub := range packSentences(splitSentences(para), s.targetLen) {
					chunks = append(chunks, label+span.name+"\n"+sub)
				}
			}
		}
	}

	return chunks
}

// findSections locates all recognised section headers, ordered by offset.
func findSections(text string) []sectionSpan {
	var spans []sectionSpan
	for _, name := range contractSectionNames {
		re := sectionHeaderRes[name]
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, sectionSpan{name: name, start: loc[0], body: loc[1]})
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}
