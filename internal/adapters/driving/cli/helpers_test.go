package cli

import (
	"context"
	"errors"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/index/lexical"
	"github.com/custodia-labs/docquery-cli/internal/index/vector"
)

// testEmbedder backs the real stores with deterministic vectors.
type testEmbedder struct{}

func (testEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (e testEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (testEmbedder) Dimensions() int            { return 3 }
func (testEmbedder) ModelName() string          { return "test" }
func (testEmbedder) Ping(context.Context) error { return nil }
func (testEmbedder) Close() error               { return nil }

var _ driven.EmbeddingService = testEmbedder{}

// mockIngestService reports a configurable write outcome.
type mockIngestService struct {
	report domain.WriteReport
	err    error
	calls  int
}

func (m *mockIngestService) Ingest(_ context.Context, filename, _ string, _ domain.DocumentMetadata) (domain.WriteReport, error) {
	m.calls++
	if m.err != nil {
		return domain.WriteReport{}, m.err
	}
	report := m.report
	if report.DocumentID == "" {
		report.DocumentID = "doc-" + filename
	}
	return report, nil
}

var _ driving.IngestService = (*mockIngestService)(nil)

// mockAnswerService returns canned answers and results.
type mockAnswerService struct {
	answer  domain.Answer
	askErr  error
	results []domain.SearchResult
}

func (m *mockAnswerService) Ask(_ context.Context, _ string) (domain.Answer, error) {
	if m.askErr != nil {
		return domain.Answer{}, m.askErr
	}
	return m.answer, nil
}

func (m *mockAnswerService) Search(_ context.Context, _ string, _ domain.SearchOptions) []domain.SearchResult {
	return m.results
}

var _ driving.AnswerService = (*mockAnswerService)(nil)

// mockHistoryStore serves canned history entries.
type mockHistoryStore struct {
	entries []domain.HistoryEntry
	err     error
}

func (m *mockHistoryStore) Record(context.Context, string, int) error { return nil }

func (m *mockHistoryStore) Recent(context.Context, int) ([]domain.HistoryEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.entries, nil
}

func (m *mockHistoryStore) Close() error { return nil }

var _ driven.HistoryStore = (*mockHistoryStore)(nil)

// mockAnswerServiceError fails every call.
type mockAnswerServiceError struct{}

func (mockAnswerServiceError) Ask(context.Context, string) (domain.Answer, error) {
	return domain.Answer{}, errors.New("backend unavailable")
}

func (mockAnswerServiceError) Search(context.Context, string, domain.SearchOptions) []domain.SearchResult {
	return nil
}

// setupTestServices swaps the wired services for in-memory test doubles
// and returns a cleanup restoring the previous wiring.
func setupTestServices() func() {
	oldVector := vectorStore
	oldLexical := lexicalStore
	oldHistory := historyStore
	oldIngest := ingestService
	oldAnswer := answerService

	vectorStore = vector.New(testEmbedder{})
	lexicalStore = lexical.New()
	historyStore = &mockHistoryStore{}
	ingestService = &mockIngestService{report: domain.WriteReport{Chunks: 2}}
	answerService = &mockAnswerService{
		answer: domain.Answer{
			Text:       "The revenue was $2,500,000.",
			Confidence: 0.8,
			Sources: []domain.SearchResult{
				{
					ID:         "fin#0",
					Section:    "Revenue: $2,500,000 for the fiscal year.",
					Metadata:   domain.DocumentMetadata{Filename: "financials.txt"},
					Similarity: 0.9,
				},
			},
		},
		results: []domain.SearchResult{
			{
				ID:         "fin#0",
				Section:    "Revenue: $2,500,000 for the fiscal year.",
				Metadata:   domain.DocumentMetadata{Filename: "financials.txt", DocumentType: domain.TypeFinancial},
				Similarity: 0.9,
			},
		},
	}

	return func() {
		vectorStore = oldVector
		lexicalStore = oldLexical
		historyStore = oldHistory
		ingestService = oldIngest
		answerService = oldAnswer
	}
}
