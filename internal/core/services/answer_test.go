package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/index/lexical"
	"github.com/custodia-labs/docquery-cli/internal/index/vector"
)

// fakeLLM returns a canned completion, optionally failing.
type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (l *fakeLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	l.calls++
	return l.reply, l.err
}

func (l *fakeLLM) ModelName() string          { return "fake" }
func (l *fakeLLM) Ping(context.Context) error { return nil }
func (l *fakeLLM) Close() error               { return nil }

// fakeHistory records calls in memory.
type fakeHistory struct {
	queries []string
	counts  []int
	err     error
}

func (h *fakeHistory) Record(_ context.Context, query string, results int) error {
	if h.err != nil {
		return h.err
	}
	h.queries = append(h.queries, query)
	h.counts = append(h.counts, results)
	return nil
}

func (h *fakeHistory) Recent(context.Context, int) ([]domain.HistoryEntry, error) {
	return nil, nil
}

func (h *fakeHistory) Close() error { return nil }

func result(id, filename, section string, sim float64) domain.SearchResult {
	return domain.SearchResult{
		ID:         id,
		Section:    section,
		Metadata:   domain.DocumentMetadata{Filename: filename},
		Similarity: sim,
		Distance:   1 - sim,
	}
}

func newAnswerFixture(llm driven.LLMService, opts ...AnswerOption) *AnswerService {
	vec := vector.New(&fakeEmbedder{err: assert.AnError})
	lex := lexical.New()
	return NewAnswerService(vec, lex, llm, opts...)
}

func TestAsk_EmptyQueryRejected(t *testing.T) {
	svc := newAnswerFixture(nil)
	_, err := svc.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NoResultsYieldsNoInfoAnswer(t *testing.T) {
	svc := newAnswerFixture(nil)

	answer, err := svc.Ask(context.Background(), "what is the revenue?")
	require.NoError(t, err)
	assert.Equal(t, noInfoAnswer, answer.Text)
	assert.Zero(t, answer.Confidence)
	assert.Empty(t, answer.Sources)
}

func TestAsk_RecordsHistory(t *testing.T) {
	history := &fakeHistory{}
	svc := newAnswerFixture(nil, WithHistoryStore(history))

	_, err := svc.Ask(context.Background(), "what is the revenue?")
	require.NoError(t, err)

	require.Len(t, history.queries, 1)
	assert.Equal(t, "what is the revenue?", history.queries[0])
	assert.Equal(t, []int{0}, history.counts, "empty index records zero results")
}

func TestAsk_HistoryFailureIsNotFatal(t *testing.T) {
	svc := newAnswerFixture(nil, WithHistoryStore(&fakeHistory{err: assert.AnError}))

	_, err := svc.Ask(context.Background(), "what is the revenue?")
	assert.NoError(t, err)
}

func TestSearch_FallsBackToLexical(t *testing.T) {
	vec := vector.New(&fakeEmbedder{err: assert.AnError})
	lex := lexical.New()
	require.NoError(t, lex.Add([]lexical.Entry{
		{
			ID:       "fin#0",
			Text:     "Revenue: $2,500,000 for the fiscal year.",
			Metadata: domain.DocumentMetadata{Filename: "financials.txt"},
		},
	}))

	svc := NewAnswerService(vec, lex, nil)
	results := svc.Search(context.Background(), "What is the revenue?", domain.SearchOptions{Limit: 5})

	require.NotEmpty(t, results, "lexical fallback should serve when vector search is empty")
	assert.Equal(t, "fin#0", results[0].ID)
}

func TestSynthesize_EmptyResults(t *testing.T) {
	svc := newAnswerFixture(nil)
	answer := svc.Synthesize(context.Background(), "anything", nil, 0)
	assert.Equal(t, noInfoAnswer, answer.Text)
	assert.Zero(t, answer.Confidence)
}

func TestSynthesize_UsesLLMReply(t *testing.T) {
	llm := &fakeLLM{reply: "The revenue was $2,500,000 according to financials.txt."}
	svc := newAnswerFixture(llm)

	results := []domain.SearchResult{
		result("fin#0", "financials.txt", "Revenue: $2,500,000 for the fiscal year in review.", 0.8),
	}
	answer := svc.Synthesize(context.Background(), "what is the revenue", results, 0)

	assert.Equal(t, llm.reply, answer.Text)
	assert.Equal(t, 1, llm.calls)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "fin#0", answer.Sources[0].ID)
}

func TestSynthesize_LLMFailureFallsBackToTemplate(t *testing.T) {
	svc := newAnswerFixture(&fakeLLM{err: assert.AnError})

	results := []domain.SearchResult{
		result("fin#0", "financials.txt", "Revenue: $2,500,000 for the fiscal year in review.", 0.8),
	}
	answer := svc.Synthesize(context.Background(), "what is the revenue", results, 0)

	assert.Contains(t, answer.Text, "$2,500,000")
	assert.Contains(t, answer.Text, "financials.txt")
}

func TestSynthesize_FinancialTemplate(t *testing.T) {
	svc := newAnswerFixture(nil)

	results := []domain.SearchResult{
		result("fin#0", "financials.txt", "Revenue: $2,500,000 and costs of $1,200,000 this year.", 0.8),
	}
	answer := svc.Synthesize(context.Background(), "what is the revenue", results, 0)

	assert.Contains(t, answer.Text, "$2,500,000")
	assert.Contains(t, answer.Text, "$1,200,000")
}

func TestSynthesize_ContactTemplate(t *testing.T) {
	svc := newAnswerFixture(nil)

	results := []domain.SearchResult{
		result("sig#0", "mail.eml", "Reach Alice Johnson at alice@example.com for scheduling questions.", 0.8),
	}
	answer := svc.Synthesize(context.Background(), "how do i contact alice", results, 0)

	assert.Contains(t, answer.Text, "alice@example.com")
	assert.Contains(t, answer.Text, "mail.eml")
}

func TestSynthesize_ExcerptTemplate(t *testing.T) {
	svc := newAnswerFixture(nil)

	section := "The committee agreed to revisit the proposal at the next quarterly session after review."
	results := []domain.SearchResult{
		result("min#0", "minutes.txt", section, 0.8),
	}
	answer := svc.Synthesize(context.Background(), "committee proposal quarterly session", results, 0)

	assert.Contains(t, answer.Text, "minutes.txt")
	assert.Contains(t, answer.Text, "committee agreed")
}

func TestSynthesize_ConfidenceWithinBounds(t *testing.T) {
	svc := newAnswerFixture(&fakeLLM{reply: "The revenue was $2,500,000 for the fiscal year per financials."})

	results := []domain.SearchResult{
		result("fin#0", "financials.txt", "Revenue: $2,500,000 for the fiscal year in review.", 0.9),
	}
	answer := svc.Synthesize(context.Background(), "what is the revenue", results, 0)

	assert.GreaterOrEqual(t, answer.Confidence, 0.1)
	assert.LessOrEqual(t, answer.Confidence, 0.95)
}

func TestSynthesize_HedgingLowersConfidence(t *testing.T) {
	confident := newAnswerFixture(&fakeLLM{
		reply: "The revenue was $2,500,000 for the fiscal year per the financial report.",
	})
	hedging := newAnswerFixture(&fakeLLM{
		reply: "I couldn't find any concrete revenue figure in the provided document excerpts.",
	})

	results := []domain.SearchResult{
		result("fin#0", "financials.txt", "Revenue: $2,500,000 for the fiscal year in review.", 0.8),
	}

	a := confident.Synthesize(context.Background(), "what is the revenue", results, 0)
	b := hedging.Synthesize(context.Background(), "what is the revenue", results, 0)
	assert.Greater(t, a.Confidence, b.Confidence)
}

func TestSynthesize_OneSourcePerDocument(t *testing.T) {
	svc := newAnswerFixture(nil)

	results := []domain.SearchResult{
		result("a#0", "same.txt", "Revenue: $2,500,000 recorded for the first quarter period.", 0.9),
		result("a#1", "same.txt", "Costs of $800,000 recorded for the first quarter period too.", 0.85),
		result("b#0", "other.txt", "Revenue: $900,000 recorded for the second quarter period here.", 0.8),
	}
	answer := svc.Synthesize(context.Background(), "what is the revenue", results, 0)

	require.Len(t, answer.Sources, 2)
	files := []string{answer.Sources[0].Metadata.Filename, answer.Sources[1].Metadata.Filename}
	assert.Contains(t, files, "same.txt")
	assert.Contains(t, files, "other.txt")
}
