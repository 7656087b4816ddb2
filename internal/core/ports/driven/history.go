package driven

import (
	"context"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// HistoryStore persists past question/answer pairs locally.
// This is a CLI convenience only - it never participates in retrieval,
// and index durability stays in the remote services.
type HistoryStore interface {
	// Save appends one record.
	Save(ctx context.Context, rec domain.AskRecord) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]domain.AskRecord, error)

	// Close releases resources.
	Close() error
}
