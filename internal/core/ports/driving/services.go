// Package driving provides interfaces for application entry points
// (primary/inbound ports) consumed by the CLI.
package driving

import (
	"context"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
)

// IngestService splits, embeds and indexes raw document text.
type IngestService interface {
	// Ingest processes one document and writes it to both stores.
	// The report states which store writes succeeded.
	Ingest(ctx context.Context, filename, text string, meta domain.DocumentMetadata) (domain.WriteReport, error)
}

// AnswerService retrieves relevant chunks and synthesizes a cited answer.
type AnswerService interface {
	// Ask answers a natural-language query against the indexed corpus.
	Ask(ctx context.Context, query string) (domain.Answer, error)

	// Search returns ranked chunks without answer generation.
	Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult
}
