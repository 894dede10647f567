// Package segmenter splits raw document text into topically coherent
// chunks using structural and regex markers, with a sentence-level
// fallback. Output is deterministic for identical input.
package segmenter

import (
	"strings"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// Default tuning values.
const (
	// DefaultTargetLength is the soft maximum chunk length in characters.
	DefaultTargetLength = 900

	// DefaultMinSection is the minimum span between generic boundaries.
	DefaultMinSection = 50

	// DefaultWindowSize is the fallback fixed-window size.
	DefaultWindowSize = 1000

	// DefaultOverlap is the fallback window overlap in characters.
	DefaultOverlap = 200

	// DefaultMaxChunks caps fallback iteration on degenerate input.
	DefaultMaxChunks = 500

	// minNoiseRatio is the minimum non-whitespace character ratio.
	minNoiseRatio = 0.3
)

// Segmenter splits document text by type-specific strategies.
type Segmenter struct {
	targetLen  int
	minSection int
	windowSize int
	overlap    int
	maxChunks  int
}

// Option configures the segmenter.
type Option func(*Segmenter)

// WithTargetLength sets the soft maximum chunk length in characters.
func WithTargetLength(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.targetLen = n
		}
	}
}

// WithWindowSize sets the fallback window size in characters.
func WithWindowSize(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.windowSize = n
		}
	}
}

// WithOverlap sets the fallback window overlap in characters.
func WithOverlap(n int) Option {
	return func(s *Segmenter) {
		if n >= 0 {
			s.overlap = n
		}
	}
}

// WithMaxChunks caps the number of chunks a single document may produce.
func WithMaxChunks(n int) Option {
	return func(s *Segmenter) {
		if n > 0 {
			s.maxChunks = n
		}
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) *Segmenter {
	s := &Segmenter{
		targetLen:  DefaultTargetLength,
		minSection: DefaultMinSection,
		windowSize: DefaultWindowSize,
		overlap:    DefaultOverlap,
		maxChunks:  DefaultMaxChunks,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed window size
	if s.overlap >= s.windowSize {
		s.overlap = s.windowSize / 4
	}

	return s
}

// strategy pairs a document-type predicate with a splitting function.
// The dispatch table is evaluated in order; the first match wins.
type strategy struct {
	Applies func(domain.DocumentType) bool
	Split   func(s *Segmenter, text string) []string
}

var strategies = []strategy{
	{
		Applies: func(t domain.DocumentType) bool { return t == domain.TypeEmail },
		Split:   (*Segmenter).splitEmail,
	},
	{
		Applies: func(t domain.DocumentType) bool {
			return t == domain.TypeContract || t == domain.TypeContractAmendment
		},
		Split: (*Segmenter).splitContract,
	},
	{
		Applies: func(domain.DocumentType) bool { return true },
		Split:   (*Segmenter).splitGeneric,
	},
}

// Segment splits text into chunk strings. When docType is empty the type
// is detected from the filename and body. Returns nil for empty input.
func (s *Segmenter) Segment(text, filename string, docType domain.DocumentType) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if docType == "" {
		docType = domain.DetectDocumentType(filename, text)
	}
	logger.Debug("Segmenting %s as %s", filename, docType)

	var raw []string
	for _, st := range strategies {
		if st.Applies(docType) {
			raw = st.Split(s, text)
			break
		}
	}

	chunks := s.postFilter(raw)
	logger.Debug("Segmented %s: %d raw, %d kept", filename, len(raw), len(chunks))
	return chunks
}

// postFilter drops chunks that are too short, duplicated, or noise.
// Applies to the output of every strategy.
func (s *Segmenter) postFilter(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	var kept []string

	for _, chunk := range raw {
		trimmed := strings.TrimSpace(chunk)
		normalised := normaliseWhitespace(trimmed)
		if len(normalised) < domain.MinChunkLength {
			continue
		}

		folded := strings.ToLower(normalised)
		if seen[folded] {
			continue
		}

		if nonWhitespaceRatio(trimmed) < minNoiseRatio {
			continue
		}

		seen[folded] = true
		kept = append(kept, trimmed)
	}

	return kept
}

// normaliseWhitespace collapses runs of whitespace into single spaces.
func normaliseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nonWhitespaceRatio returns the share of non-whitespace characters.
func nonWhitespaceRatio(s string) float64 {
	if s == "" {
		return 0
	}
	var solid int
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			solid++
		}
	}
	return float64(solid) / float64(len([]rune(s)))
}

// splitParagraphs splits text on blank lines, trimming each paragraph.
func splitParagraphs(text string) []string {
	var paras []string
	for _, p := range blankLineRe.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// splitSentences splits after sentence terminators followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\t' || runes[i+1] == '\n' {
				if sent := strings.TrimSpace(current.String()); sent != "" {
					sentences = append(sentences, sent)
				}
				current.Reset()
			}
		}
	}
	if sent := strings.TrimSpace(current.String()); sent != "" {
		sentences = append(sentences, sent)
	}

	return sentences
}

// packSentences greedily packs sentences into chunks of at most target
// characters. Sibling sub-chunks carry no overlap.
func packSentences(sentences []string, target int) []string {
	var chunks []string
	var current strings.Builder

	for _, sent := range sentences {
		if current.Len() > 0 && current.Len()+len(sent)+1 > target {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sent)
	}
	if current.Len() > 0 {
		chunks = append(chunks, strings.TrimSpace(current.String()))
	}

	return chunks
}
