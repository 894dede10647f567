package driven

import (
	"context"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// HistoryStore records executed searches for external inspection.
// The core only writes to it; it never depends on history for retrieval.
// Recording is best effort - failures are logged, not propagated.
type HistoryStore interface {
	// Record stores one executed query and its result count.
	Record(ctx context.Context, query string, results int) error

	// Recent returns the latest entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error)

	// Close releases resources.
	Close() error
}
