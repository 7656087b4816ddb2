package driving

import (
	"context"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// AskService answers natural-language questions about the schema.
type AskService interface {
	// Ask runs the full pipeline for one question: liveness gate,
	// one-time indexing, retrieval with widening, rerank, and the
	// model call. Safe for concurrent use once indexed.
	Ask(ctx context.Context, question string, opts domain.AskOptions) (domain.AskResult, error)

	// EnsureIndexed forces the one-time indexing step without asking a
	// question. Used by the index command.
	EnsureIndexed(ctx context.Context) error

	// Invalidate marks the session unindexed so the next Ask reindexes.
	// Called when the schema file changes on disk.
	Invalidate()
}
