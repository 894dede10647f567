package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/docquery-cli/internal/core/domain"
	"github.com/custodia-labs/docquery-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docquery-cli/internal/index/lexical"
	"github.com/custodia-labs/docquery-cli/internal/index/vector"
	"github.com/custodia-labs/docquery-cli/internal/logger"
	"github.com/custodia-labs/docquery-cli/internal/segmenter"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService splits raw document text into chunks and writes them to
// the vector index and the lexical fallback store. The two writes are
// independent phases; the report states which succeeded so partial
// failures are visible to the caller instead of silently swallowed.
type IngestService struct {
	segmenter *segmenter.Segmenter
	vector    *vector.Store
	lexical   *lexical.Store
}

// NewIngestService creates an ingest service.
func NewIngestService(seg *segmenter.Segmenter, vec *vector.Store, lex *lexical.Store) *IngestService {
	return &IngestService{
		segmenter: seg,
		vector:    vec,
		lexical:   lex,
	}
}

// Ingest processes one document end to end. Input errors (empty text,
// invalid metadata) reject synchronously with no state mutation.
func (s *IngestService) Ingest(
	ctx context.Context, filename, text string, meta domain.DocumentMetadata,
) (domain.WriteReport, error) {
	logger.Section("Ingest")
	logger.Debug("File: %s (%d bytes)", filename, len(text))

	if strings.TrimSpace(text) == "" {
		return domain.WriteReport{}, fmt.Errorf("%s: %w", filename, domain.ErrEmptyDocument)
	}

	if meta.Filename == "" {
		meta.Filename = filename
	}
	if meta.DocumentType == "" {
		meta.DocumentType = domain.DetectDocumentType(filename, text)
	}
	if err := meta.Validate(); err != nil {
		return domain.WriteReport{}, fmt.Errorf("%s: %w", filename, err)
	}

	segments := s.segmenter.Segment(text, filename, meta.DocumentType)
	if len(segments) == 0 {
		return domain.WriteReport{}, fmt.Errorf("%s: no usable chunks: %w", filename, domain.ErrEmptyDocument)
	}

	docID := uuid.New().String()
	chunks := make([]domain.Chunk, len(segments))
	for i, seg := range segments {
		chunks[i] = domain.Chunk{
			ID:       fmt.Sprintf("%s#%d", docID, i),
			Text:     seg,
			Filename: meta.Filename,
			Ordinal:  i,
			Total:    len(segments),
		}
	}

	report := domain.WriteReport{
		DocumentID: docID,
		Chunks:     len(chunks),
	}

	vecEntries := make([]vector.Entry, len(chunks))
	lexEntries := make([]lexical.Entry, len(chunks))
	for i, c := range chunks {
		vecEntries[i] = vector.Entry{ID: c.ID, Text: c.Text, Metadata: meta}
		lexEntries[i] = lexical.Entry{ID: c.ID, Text: c.Text, Metadata: meta}
	}

	// Phase one: vector index (embeds and snapshots).
	report.VectorErr = s.vector.Add(ctx, vecEntries)
	if report.VectorErr != nil {
		logger.Warn("Vector write failed: %v", report.VectorErr)
	}

	// Phase two: lexical fallback store. Attempted regardless of phase
	// one so keyword search stays usable when embedding is down.
	report.LexicalErr = s.lexical.Add(lexEntries)
	if report.LexicalErr != nil {
		logger.Warn("Lexical write failed: %v", report.LexicalErr)
	}

	logger.Info("Ingested %s: %d chunks (vector=%t lexical=%t)",
		filename, len(chunks), report.VectorOK(), report.LexicalOK())
	return report, nil
}
