package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or blank caller-supplied input,
	// rejected before any remote call is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the model service failed its liveness
	// probe. The pipeline stops before indexing or querying.
	ErrLLMUnavailable = errors.New("model service unavailable")

	// ErrSchemaNotFound indicates the schema file is missing or unreadable.
	ErrSchemaNotFound = errors.New("schema file not found")

	// ErrEmbeddingMismatch indicates the embedding count does not match the
	// document count at upsert time. The batched write is never attempted.
	ErrEmbeddingMismatch = errors.New("embedding count does not match document count")

	// ErrEmptyEmbedding indicates the embedding service returned a
	// zero-length vector.
	ErrEmptyEmbedding = errors.New("empty embedding vector")

	// ErrEmptyResults indicates retrieval returned nothing even after all
	// widening attempts.
	ErrEmptyResults = errors.New("no documents retrieved")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)
