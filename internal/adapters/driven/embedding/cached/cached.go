// Package cached wraps an embedding service with TTL memoization and
// token-bucket rate limiting. Repeated lookups for the same text within
// the TTL window skip the provider entirely; bulk ingest is throttled to
// stay under provider quotas.
package cached

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docquery-cli/internal/core/ports/driven"
	"github.com/custodia-labs/docquery-cli/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Cache tuning. Entries are invalidated lazily on access; when the cache
// grows past the soft cap a sweep deletes only already-expired entries.
const (
	DefaultTTL = 5 * time.Minute
	DefaultCap = 50

	// DefaultRequestsPerSecond is a conservative provider-side limit.
	DefaultRequestsPerSecond = 10.0
	DefaultBurstSize         = 20
)

type cacheEntry struct {
	vector []float32
	at     time.Time
}

// EmbeddingService memoizes and rate-limits an inner embedding service.
type EmbeddingService struct {
	inner   driven.EmbeddingService
	limiter *rate.Limiter

	mu      sync.Mutex
	ttl     time.Duration
	cap     int
	entries map[string]cacheEntry
	now     func() time.Time
}

// Option configures the decorator.
type Option func(*EmbeddingService)

// WithTTL sets the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *EmbeddingService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithCap sets the soft cache size cap.
func WithCap(n int) Option {
	return func(s *EmbeddingService) {
		if n > 0 {
			s.cap = n
		}
	}
}

// WithRateLimit sets the sustained request rate and burst size.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *EmbeddingService) {
		if perSecond > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithClock overrides the timestamp source. Useful for testing.
func WithClock(now func() time.Time) Option {
	return func(s *EmbeddingService) { s.now = now }
}

// New wraps inner with memoization and rate limiting.
func New(inner driven.EmbeddingService, opts ...Option) *EmbeddingService {
	s := &EmbeddingService{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurstSize),
		ttl:     DefaultTTL,
		cap:     DefaultCap,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Embed returns a cached vector when fresh, otherwise asks the provider.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := s.lookup(text); ok {
		logger.Debug("Embedding cache hit (%d chars)", len(text))
		return vec, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	vec, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.store(text, vec)
	return vec, nil
}

// EmbedBatch serves cached texts from memory and fetches the rest in one
// provider call, preserving input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if vec, ok := s.lookup(text); ok {
			out[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	fetched, err := s.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(fetched) != len(missing) {
		return nil, fmt.Errorf("embed batch: got %d embeddings for %d texts", len(fetched), len(missing))
	}

	for j, vec := range fetched {
		out[missingIdx[j]] = vec
		s.store(missing[j], vec)
	}

	return out, nil
}

// Dimensions returns the inner service's embedding vector size.
func (s *EmbeddingService) Dimensions() int { return s.inner.Dimensions() }

// ModelName returns the inner service's model name.
func (s *EmbeddingService) ModelName() string { return s.inner.ModelName() }

// Ping delegates to the inner service.
func (s *EmbeddingService) Ping(ctx context.Context) error { return s.inner.Ping(ctx) }

// Close releases the inner service.
func (s *EmbeddingService) Close() error { return s.inner.Close() }

// lookup returns a fresh cached vector. Stale entries are deleted on
// access.
func (s *EmbeddingService) lookup(text string) ([]float32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[text]
	if !ok {
		return nil, false
	}
	if s.now().Sub(entry.at) >= s.ttl {
		delete(s.entries, text)
		return nil, false
	}
	return entry.vector, true
}

// store caches a vector and sweeps expired entries once past the cap.
func (s *EmbeddingService) store(text string, vec []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[text] = cacheEntry{vector: vec, at: now}

	if len(s.entries) > s.cap {
		for k, e := range s.entries {
			if now.Sub(e.at) >= s.ttl {
				delete(s.entries, k)
			}
		}
	}
}
