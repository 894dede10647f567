package driven

import "github.com/custodia-labs/docquery-cli/internal/core/domain"

// Normaliser converts one raw file format into indexable plain text plus
// whatever metadata the format itself carries. Detection and enrichment
// beyond the format happens downstream in the ingest service.
type Normaliser interface {
	// Extensions returns the file extensions handled, including the dot.
	Extensions() []string

	// Normalise converts raw file content to text and format metadata.
	Normalise(raw []byte, filename string) (string, domain.DocumentMetadata, error)
}
