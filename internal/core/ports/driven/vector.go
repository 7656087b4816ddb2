package driven

import (
	"context"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// VectorStore wraps a remote similarity-search service reached over HTTP.
type VectorStore interface {
	// EnsureCollection looks up an existing collection by name and creates
	// it when absent. Idempotent: repeated calls with the same name return
	// the same id without duplicating the collection.
	EnsureCollection(ctx context.Context, name string) (string, error)

	// Upsert writes documents in one batched request. It rejects blank
	// ids/texts and embedding/document count mismatches before attempting
	// any write. Re-upserting the same ids overwrites rather than
	// duplicates.
	Upsert(ctx context.Context, collectionID string, docs []domain.Document) error

	// Query embeds queryText and returns the nearest documents, at least
	// max(3, topK) requested. Up to two contains constraints narrow the
	// search server-side to documents whose text includes them (combined
	// with logical AND). Missing distances are reported as 0.
	Query(ctx context.Context, collectionID, queryText string, topK int, contains ...string) ([]domain.QueryResult, error)
}
