package vector

import (
	"sync"
	"time"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// Query cache tuning. Entries are invalidated lazily on access; when the
// cache grows past the soft cap a sweep deletes only already-expired
// entries.
const (
	queryCacheTTL = 5 * time.Minute
	queryCacheCap = 100
)

type queryCacheEntry struct {
	results []domain.SearchResult
	at      time.Time
}

// queryCache memoises search results keyed on the full parameter tuple.
type queryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	cap     int
	entries map[string]queryCacheEntry
}

func newQueryCache(ttl time.Duration, cap int) *queryCache {
	return &queryCache{
		ttl:     ttl,
		cap:     cap,
		entries: make(map[string]queryCacheEntry),
	}
}

// get returns the cached results when present and fresh. Stale entries are
// deleted on access.
func (c *queryCache) get(key string, now time.Time) ([]domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(entry.at) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}

	out := make([]domain.SearchResult, len(entry.results))
	copy(out, entry.results)
	return out, true
}

// put stores results and sweeps expired entries once past the soft cap.
func (c *queryCache) put(key string, results []domain.SearchResult, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]domain.SearchResult, len(results))
	copy(stored, results)
	c.entries[key] = queryCacheEntry{results: stored, at: now}

	if len(c.entries) > c.cap {
		for k, e := range c.entries {
			if now.Sub(e.at) >= c.ttl {
				delete(c.entries, k)
			}
		}
	}
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]queryCacheEntry)
}
