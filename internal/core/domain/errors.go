package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyDocument indicates a document with no usable text content.
	ErrEmptyDocument = errors.New("empty document")

	// ErrDimensionMismatch indicates an embedding vector whose length does
	// not match the index dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStoreClosed indicates an operation on a closed store.
	ErrStoreClosed = errors.New("store closed")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector/semantic search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer generation falls back to templated answers.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
