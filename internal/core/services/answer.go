package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/index/lexical"
	"github.com/custodia-labs/docquery-cli/internal/index/vector"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// Answer synthesis tuning.
const (
	// DefaultMaxContextLength bounds the concatenated context block.
	DefaultMaxContextLength = 4000

	// maxAnswerChunks is the maximum distinct chunks fed to generation.
	maxAnswerChunks = 5

	// rerankFloor drops re-ranked inputs below this relevance.
	rerankFloor = 0.2

	// dedupePrefixLen is the normalised prefix compared for duplicates.
	dedupePrefixLen = 100

	// minUsefulSlice is the smallest partial chunk worth including when
	// the context budget runs out mid-chunk.
	minUsefulSlice = 100

	// noInfoAnswer is returned for an empty result set.
	noInfoAnswer = "No information was found in the indexed documents for this query."
)

// AnswerService retrieves relevant chunks and synthesizes a cited answer
// with a confidence estimate. The LLM service is optional; when nil or
// failing, a deterministic templated answer is produced instead.
type AnswerService struct {
	vector     *vector.Store
	lexical    *lexical.Store
	llm        driven.LLMService
	history    driven.HistoryStore
	adjust     domain.ConfidenceAdjustments
	maxContext int
}

// AnswerOption configures the answer service.
type AnswerOption func(*AnswerService)

// WithHistoryStore enables best-effort search history recording.
func WithHistoryStore(h driven.HistoryStore) AnswerOption {
	return func(s *AnswerService) { s.history = h }
}

// WithConfidenceAdjustments overrides the confidence heuristics.
func WithConfidenceAdjustments(a domain.ConfidenceAdjustments) AnswerOption {
	return func(s *AnswerService) { s.adjust = a }
}

// WithMaxContextLength bounds the generation context in characters.
func WithMaxContextLength(n int) AnswerOption {
	return func(s *AnswerService) {
		if n > 0 {
			s.maxContext = n
		}
	}
}

// NewAnswerService creates an answer service. The llm parameter is
// optional (can be nil).
func NewAnswerService(vec *vector.Store, lex *lexical.Store, llm driven.LLMService, opts ...AnswerOption) *AnswerService {
	s := &AnswerService{
		vector:     vec,
		lexical:    lex,
		llm:        llm,
		adjust:     domain.DefaultConfidenceAdjustments(),
		maxContext: DefaultMaxContextLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns ranked chunks. The vector index is consulted first; an
// empty result degrades to the lexical fallback store.
func (s *AnswerService) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	results := s.vector.Search(ctx, query, opts)
	if len(results) == 0 {
		logger.Debug("Vector search empty, using lexical fallback")
		results = s.lexical.Search(query, opts.Limit)
	}
	return results
}

// Ask answers a natural-language query against the indexed corpus.
func (s *AnswerService) Ask(ctx context.Context, query string) (domain.Answer, error) {
	logger.Section("Ask")
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Answer{}, domain.ErrInvalidInput
	}

	results := s.Search(ctx, query, domain.SearchOptions{Limit: 2 * maxAnswerChunks})

	if s.history != nil {
		if err := s.history.Record(ctx, query, len(results)); err != nil {
			logger.Warn("History record failed: %v", err)
		}
	}

	return s.Synthesize(ctx, query, results, s.maxContext), nil
}

// Synthesize builds the final answer from search results: re-rank, select
// distinct chunks, build a bounded context, generate prose and estimate
// confidence.
func (s *AnswerService) Synthesize(
	ctx context.Context, query string, results []domain.SearchResult, maxContextLength int,
) domain.Answer {
	if len(results) == 0 {
		return domain.Answer{Text: noInfoAnswer, Confidence: 0}
	}
	if maxContextLength <= 0 {
		maxContextLength = DefaultMaxContextLength
	}

	ranked := rerank(query, results)
	if len(ranked) == 0 {
		return domain.Answer{Text: noInfoAnswer, Confidence: 0}
	}

	selected := selectDistinct(ranked, maxAnswerChunks)
	contextBlock := buildContext(selected, maxContextLength)

	text := s.generate(ctx, query, contextBlock)
	if text == "" {
		text = fallbackAnswer(query, selected)
	}

	return domain.Answer{
		Text:       text,
		Sources:    selected,
		Confidence: s.confidence(query, text, selected),
	}
}

// generate delegates prose generation to the LLM collaborator. Returns ""
// on failure or when no LLM is configured, triggering the fallback.
func (s *AnswerService) generate(ctx context.Context, query, contextBlock string) string {
	if s.llm == nil {
		logger.Debug("LLM unavailable, using templated answer")
		return ""
	}

	prompt := buildPrompt(query, contextBlock)
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   512,
		Temperature: 0.1,
	})
	if err != nil {
		logger.Warn("Generation failed, using templated answer: %v", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// buildPrompt creates the generation prompt with the labeled context.
func buildPrompt(query, contextBlock string) string {
	var sb strings.Builder
	sb.WriteString("Answer the question using only the document excerpts below. ")
	sb.WriteString("Cite the source filename for every fact. ")
	sb.WriteString("If the excerpts do not contain the answer, say so.\n\n")
	sb.WriteString("Excerpts:\n")
	sb.WriteString(contextBlock)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(query)
	sb.WriteString("\n\nAnswer:")
	return sb.String()
}

// confidence estimates answer trustworthiness from similarity statistics
// and answer content heuristics, clamped to the configured bounds.
func (s *AnswerService) confidence(query, answer string, sources []domain.SearchResult) float64 {
	var sum float64
	for _, src := range sources {
		sum += src.Similarity
	}
	score := sum / float64(len(sources))

	if containsData(answer) {
		score += s.adjust.DataBonus
	}

	score += queryCoverage(query, answer) * s.adjust.CoverageWeight

	if len(answer) < s.adjust.MinAnswerLength {
		score -= s.adjust.ShortPenalty
	}

	if containsHedging(answer) {
		score -= s.adjust.HedgePenalty
	}

	if score < s.adjust.Floor {
		return s.adjust.Floor
	}
	if score > s.adjust.Ceiling {
		return s.adjust.Ceiling
	}
	return score
}

// queryCoverage is the share of query words present in the answer.
func queryCoverage(query, answer string) float64 {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return 0
	}
	answerLower := strings.ToLower(answer)

	var matched int
	for _, w := range words {
		if strings.Contains(answerLower, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

var hedgingPhrases = []string{
	"couldn't find",
	"could not find",
	"not found",
	"no information",
	"unable to",
	"don't know",
	"do not contain",
}

func containsHedging(answer string) bool {
	lowered := strings.ToLower(answer)
	for _, phrase := range hedgingPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

func containsData(answer string) bool {
	return numericTokenRe.MatchString(answer)
}
