// Package lexical provides the secondary keyword store used when the
// vector index is unavailable or yields nothing. Relevance combines four
// sub-scores: exact-phrase occurrences, keyword overlap, metadata hits and
// a question-answering heuristic weighted highest.
package lexical

import (
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// record is one stored chunk.
type record struct {
	ID       string
	Text     string
	Metadata domain.DocumentMetadata
}

// Entry is one chunk to store.
type Entry struct {
	ID       string
	Text     string
	Metadata domain.DocumentMetadata
}

// Store is the in-memory lexical fallback index.
type Store struct {
	mu      sync.RWMutex
	records []record
	weights domain.RankingWeights
}

// Option configures the store.
type Option func(*Store)

// WithWeights overrides the default scoring weights.
func WithWeights(w domain.RankingWeights) Option {
	return func(s *Store) { s.weights = w }
}

// New creates an empty lexical store.
func New(opts ...Option) *Store {
	s := &Store{weights: domain.DefaultRankingWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stores chunks for keyword retrieval.
func (s *Store) Add(entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			return domain.ErrEmptyDocument
		}
		s.records = append(s.records, record{ID: e.ID, Text: e.Text, Metadata: e.Metadata})
	}
	return nil
}

// Clear removes every record.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Search ranks records by the blended lexical score, filters below the
// configured threshold and returns up to limit results, best first.
func (s *Store) Search(query string, limit int) []domain.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	type scoredRecord struct {
		rec   *record
		score float64
	}

	s.mu.RLock()
	candidates := make([]scoredRecord, 0, len(s.records))
	for i := range s.records {
		rec := &s.records[i]
		textLower := strings.ToLower(rec.Text)

		score := s.weights.ExactPhrase*exactPhraseScore(textLower, queryLower) +
			s.weights.KeywordOverlap*keywordOverlapScore(textLower, queryWords) +
			s.weights.MetadataMatch*metadataScore(&rec.Metadata, queryWords) +
			s.weights.Question*questionScore(textLower, queryLower, queryWords)

		if score < s.weights.LexicalThreshold {
			continue
		}
		candidates = append(candidates, scoredRecord{rec: rec, score: score})
	}
	s.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	results := make([]domain.SearchResult, len(candidates))
	for i, c := range candidates {
		sim := c.score
		if sim > 1 {
			sim = 1
		}
		results[i] = domain.SearchResult{
			ID:         c.rec.ID,
			Section:    c.rec.Text,
			Metadata:   c.rec.Metadata,
			Similarity: sim,
			Distance:   1 - sim,
		}
	}

	logger.Debug("Lexical search %q: %d results", query, len(results))
	return results
}
