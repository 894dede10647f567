package domain

// Chunk is an immutable text fragment produced by segmentation.
// It is the atomic retrieval unit.
type Chunk struct {
	// ID is unique per document and ordinal, e.g. "<docID>#3".
	ID string

	// Text is the chunk content. Non-empty, at least MinChunkLength
	// meaningful characters after whitespace normalisation.
	Text string

	// Filename is the source document filename.
	Filename string

	// Ordinal is the zero-based position within the document.
	Ordinal int

	// Total is the total chunk count for the document.
	Total int
}

// MinChunkLength is the minimum trimmed length of an emitted chunk.
const MinChunkLength = 20

// DocumentMetadata is the structured metadata attached to indexed chunks.
// Every field except Filename is optional; an empty value means unknown.
type DocumentMetadata struct {
	Filename      string       `json:"filename"`
	DocumentType  DocumentType `json:"documentType,omitempty"`
	Date          string       `json:"date,omitempty"`
	People        []string     `json:"people,omitempty"`
	Organizations []string     `json:"organizations,omitempty"`
	Locations     []string     `json:"locations,omitempty"`
	Contacts      []string     `json:"contacts,omitempty"`
	Financials    []string     `json:"financials,omitempty"`
	Keywords      []string     `json:"keywords,omitempty"`
	Summary       string       `json:"summary,omitempty"`
}

// Validate checks the metadata at the ingestion boundary.
func (m *DocumentMetadata) Validate() error {
	if m.Filename == "" {
		return ErrInvalidInput
	}
	if m.DocumentType != "" && !m.DocumentType.Valid() {
		return ErrInvalidInput
	}
	return nil
}

// IndexedDocument is a vector record owned exclusively by the vector index.
// The invariant Norm == L2(Embedding) holds for every stored record; the
// norm is recomputed whenever the embedding changes.
type IndexedDocument struct {
	// ID mirrors the Chunk ID.
	ID string `json:"id"`

	// Text is the full chunk text.
	Text string `json:"text"`

	// Metadata is the structured metadata projection used for filtering.
	Metadata DocumentMetadata `json:"metadata"`

	// Embedding is the vector representation. Its length equals the
	// index dimension for all records in a store.
	Embedding []float32 `json:"embedding"`

	// Norm is the precomputed L2 norm of Embedding.
	Norm float64 `json:"norm"`

	// UploadedAt is the index timestamp in milliseconds since epoch.
	// All chunks of one Add batch share the same timestamp.
	UploadedAt int64 `json:"uploadedAt"`
}
