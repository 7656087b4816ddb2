package domain

import "time"

// Chunk is one self-contained text block describing a single schema
// section. It is the unit indexed and retrieved.
type Chunk struct {
	// Key identifies the chunk as "CardTypeAlias::SectionAlias".
	// A section alias is unique within a card type grouping, so the key
	// is globally unique per run.
	Key string

	// Text is the canonical rendering of the section's columns, with the
	// synthetic InstanceID identity column always prepended.
	Text string
}

// Document is a chunk prepared for the vector store. Embeddings are
// computed by the store at upsert time and never round-trip through the
// domain; the store likewise writes empty metadata placeholders, so a
// document carries nothing beyond its identity and text.
type Document struct {
	// ID is the stable store identifier ("doc_000042" style).
	ID string

	// Text is the indexed chunk text.
	Text string
}

// QueryResult is one retrieved document with its similarity distance.
// Smaller distance means more similar.
type QueryResult struct {
	Document string
	Distance float64
}

// AskOptions configures a single question through the pipeline.
type AskOptions struct {
	// TopK is the number of documents to retrieve (default 8).
	TopK int

	// Contains holds up to two required substrings used both as a
	// server-side document filter and as rerank bonus constraints.
	Contains []string
}

// AskResult is the answer to one question, with retrieval diagnostics.
type AskResult struct {
	// Answer is the model's final text.
	Answer string

	// Context is the assembled context block the model was grounded on.
	Context string

	// Documents are the reranked chunk texts that formed the context.
	Documents []string
}

// AskRecord is one persisted question/answer pair for the history store.
type AskRecord struct {
	ID           string
	Question     string
	Answer       string
	ContextBytes int
	Duration     time.Duration
	CreatedAt    time.Time
}
