package domain

// Answer is the synthesized response to a natural-language query.
type Answer struct {
	// Text is the generated or templated answer prose.
	Text string `json:"answer"`

	// Sources are the contributing search results, highest ranked first.
	Sources []SearchResult `json:"sources"`

	// Confidence is a heuristic [0,1] trustworthiness estimate,
	// not a calibrated probability.
	Confidence float64 `json:"confidence"`
}

// WriteReport is the typed result of the two-phase ingest write. Each store
// is written independently; a partial failure is surfaced to the caller
// instead of being swallowed.
type WriteReport struct {
	// DocumentID is the ingest-assigned document identifier.
	DocumentID string

	// Chunks is the number of chunks produced by segmentation.
	Chunks int

	// VectorErr is the vector index write failure, nil on success.
	VectorErr error

	// LexicalErr is the lexical fallback store write failure, nil on success.
	LexicalErr error
}

// VectorOK reports whether the vector index write succeeded.
func (r WriteReport) VectorOK() bool { return r.VectorErr == nil }

// LexicalOK reports whether the lexical store write succeeded.
func (r WriteReport) LexicalOK() bool { return r.LexicalErr == nil }

// OK reports whether both stores were written.
func (r WriteReport) OK() bool { return r.VectorOK() && r.LexicalOK() }
