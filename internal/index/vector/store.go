// Package vector provides the in-process vector index: chunk records with
// embeddings, hybrid relevance scoring, metadata filtering, per-document
// deduplication, query result caching and flat-file snapshot persistence.
package vector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// simTieEpsilon is the similarity difference under which two results are
// considered tied and ordered by record timestamp, newest first.
const simTieEpsilon = 0.01

// Entry is one chunk to index: id, text and its metadata projection.
type Entry struct {
	ID       string
	Text     string
	Metadata domain.DocumentMetadata
}

// Store is the in-memory vector index. It exclusively owns the indexed
// record collection and its persisted snapshot. Construct with New and
// release with Close; instances are never ambient package state.
type Store struct {
	mu           sync.RWMutex
	embedder     driven.EmbeddingService
	docs         []domain.IndexedDocument
	dimension    int
	snapshotPath string
	weights      domain.RankingWeights
	cache        *queryCache
	now          func() time.Time
	closed       bool
}

// Option configures the store.
type Option func(*Store)

// WithSnapshotPath enables flat-file snapshot persistence at path.
func WithSnapshotPath(path string) Option {
	return func(s *Store) { s.snapshotPath = path }
}

// WithWeights overrides the default ranking weights.
func WithWeights(w domain.RankingWeights) Option {
	return func(s *Store) { s.weights = w }
}

// WithClock overrides the timestamp source. Useful for testing.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a vector store bound to an embedding service. When a
// snapshot path is configured the existing snapshot is loaded; a missing
// or unparsable snapshot yields an empty store, never an error.
func New(embedder driven.EmbeddingService, opts ...Option) *Store {
	s := &Store{
		embedder: embedder,
		weights:  domain.DefaultRankingWeights(),
		cache:    newQueryCache(queryCacheTTL, queryCacheCap),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.snapshotPath != "" {
		docs, dim := loadSnapshot(s.snapshotPath)
		s.docs = docs
		s.dimension = dim
		if len(docs) > 0 {
			logger.Info("Loaded snapshot: %d chunks, dimension %d", len(docs), dim)
		}
	}

	return s
}

// Add embeds and indexes a batch of chunks. All embeddings are obtained in
// one batched call, every record gets its L2 norm precomputed, and the
// whole batch shares a single upload timestamp. A full snapshot is written
// afterwards; snapshot failure does not roll back the in-memory add.
func (s *Store) Add(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Text) == "" {
			return fmt.Errorf("chunk %q: %w", e.ID, domain.ErrEmptyDocument)
		}
		if err := e.Metadata.Validate(); err != nil {
			return fmt.Errorf("chunk %q metadata: %w", e.ID, err)
		}
		texts[i] = e.Text
	}

	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", err)
	}
	if len(embeddings) != len(entries) {
		return fmt.Errorf("embed batch: got %d embeddings for %d chunks", len(embeddings), len(entries))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}

	// Validate every vector before touching the index so a bad embedding
	// mid-batch cannot leave a partial write behind.
	dim := s.dimension
	for i, e := range entries {
		vec := embeddings[i]
		if dim == 0 {
			dim = len(vec)
		} else if len(vec) != dim {
			return fmt.Errorf("chunk %q: %w (got %d, want %d)", e.ID, domain.ErrDimensionMismatch, len(vec), dim)
		}
	}
	s.dimension = dim

	ts := s.now().UnixMilli()
	for i, e := range entries {
		vec := embeddings[i]
		s.docs = append(s.docs, domain.IndexedDocument{
			ID:         e.ID,
			Text:       e.Text,
			Metadata:   e.Metadata,
			Embedding:  vec,
			Norm:       l2norm(vec),
			UploadedAt: ts,
		})
	}

	s.cache.clear()

	if s.snapshotPath != "" {
		if err := saveSnapshot(s.snapshotPath, s.docs, s.dimension, ts); err != nil {
			logger.Warn("Snapshot save failed: %v", err)
		}
	}

	logger.Debug("Indexed %d chunks, %d total", len(entries), len(s.docs))
	return nil
}

// scored carries the record timestamp through sorting.
type scored struct {
	result domain.SearchResult
	ts     int64
}

// Search ranks indexed chunks against the query. Any embedding or scoring
// failure is logged and yields an empty list - callers treat empty as "no
// results" and may fall back to the lexical store.
func (s *Store) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	floor := adaptiveFloor(query)
	if opts.MinSimilarity != nil {
		floor = *opts.MinSimilarity
	}

	key := cacheKey(query, limit, floor, opts.Filter)
	if results, ok := s.cache.get(key, s.now()); ok {
		logger.Debug("Query cache hit: %q", query)
		return results
	}

	if s.embedder == nil {
		logger.Warn("Vector search unavailable: embedding service is nil")
		return nil
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return nil
	}
	qnorm := l2norm(qvec)

	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	s.mu.RLock()
	candidates := make([]scored, 0, len(s.docs))
	for i := range s.docs {
		doc := &s.docs[i]
		if !matchesFilter(doc, opts.Filter) {
			continue
		}

		sim := cosine(qvec, qnorm, doc.Embedding, doc.Norm)
		boost := lexicalBoost(queryLower, queryWords, strings.ToLower(doc.Text))
		combined := s.weights.Vector*sim + s.weights.Lexical*boost
		if combined > 1.0 {
			combined = 1.0
		}

		if combined <= floor {
			continue
		}

		candidates = append(candidates, scored{
			result: domain.SearchResult{
				ID:         doc.ID,
				Section:    extractSection(doc.Text, query),
				Metadata:   doc.Metadata,
				Similarity: combined,
				Distance:   1 - combined,
			},
			ts: doc.UploadedAt,
		})
	}
	s.mu.RUnlock()

	// Primary key: similarity descending. Ties within simTieEpsilon break
	// by record timestamp descending - an explicit policy, newest first.
	sort.SliceStable(candidates, func(i, j int) bool {
		di := candidates[i].result.Similarity - candidates[j].result.Similarity
		if di > -simTieEpsilon && di < simTieEpsilon {
			return candidates[i].ts > candidates[j].ts
		}
		return di > 0
	})

	// At most one chunk per source document, best ranked first.
	seen := make(map[string]bool)
	results := make([]domain.SearchResult, 0, limit)
	for _, c := range candidates {
		name := c.result.Metadata.Filename
		if seen[name] {
			continue
		}
		seen[name] = true
		results = append(results, c.result)
		if len(results) >= limit {
			break
		}
	}

	s.cache.put(key, results, s.now())
	logger.Debug("Vector search %q: %d candidates, %d results", query, len(candidates), len(results))
	return results
}

// GetAll returns a copy of every indexed record.
func (s *Store) GetAll() []domain.IndexedDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IndexedDocument, len(s.docs))
	copy(out, s.docs)
	return out
}

// Stats summarises the index contents.
func (s *Store) Stats() domain.IndexStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.IndexStats{TotalChunks: len(s.docs)}
	if len(s.docs) == 0 {
		return stats
	}

	names := make(map[string]bool)
	var textBytes int
	for i := range s.docs {
		names[s.docs[i].Metadata.Filename] = true
		textBytes += len(s.docs[i].Text)
		stats.IndexSize += len(s.docs[i].Text) + 4*len(s.docs[i].Embedding)
	}

	stats.TotalDocuments = len(names)
	stats.AvgChunkSize = textBytes / len(s.docs)
	return stats
}

// Clear removes every record and resets caches. The snapshot is rewritten
// empty so a reload stays consistent.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrStoreClosed
	}

	s.docs = nil
	s.dimension = 0
	s.cache.clear()

	if s.snapshotPath != "" {
		if err := saveSnapshot(s.snapshotPath, nil, 0, s.now().UnixMilli()); err != nil {
			logger.Warn("Snapshot save failed: %v", err)
		}
	}
	return nil
}

// Suggestions returns indexed terms matching the prefix, case-insensitive,
// in deterministic order. Candidates come from keywords, document types,
// people, organisations and filenames.
func (s *Store) Suggestions(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return nil
	}

	s.mu.RLock()
	seen := make(map[string]bool)
	var matches []string
	add := func(term string) {
		t := strings.TrimSpace(term)
		lower := strings.ToLower(t)
		if t == "" || seen[lower] || !strings.HasPrefix(lower, prefix) {
			return
		}
		seen[lower] = true
		matches = append(matches, t)
	}

	for i := range s.docs {
		m := &s.docs[i].Metadata
		for _, kw := range m.Keywords {
			add(kw)
		}
		for _, p := range m.People {
			add(p)
		}
		for _, o := range m.Organizations {
			add(o)
		}
		add(string(m.DocumentType))
		add(m.Filename)
	}
	s.mu.RUnlock()

	sort.Strings(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Close persists a final snapshot and marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	if s.snapshotPath != "" && len(s.docs) > 0 {
		if err := saveSnapshot(s.snapshotPath, s.docs, s.dimension, s.now().UnixMilli()); err != nil {
			return fmt.Errorf("final snapshot: %w", err)
		}
	}
	return nil
}

// cacheKey serialises the full search parameter tuple.
func cacheKey(query string, limit int, floor float64, filter *domain.MetadataFilter) string {
	return fmt.Sprintf("%s|%d|%.4f|%s", query, limit, floor, filter.Key())
}
