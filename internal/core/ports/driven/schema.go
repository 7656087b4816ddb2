package driven

import "github.com/custodia-labs/dvsage-cli/internal/core/domain"

// SchemaStore loads the card/section schema from its external source.
// The schema is loaded once per indexing pass and is immutable thereafter.
type SchemaStore interface {
	// Load reads and decodes the schema. A missing or unreadable file
	// yields an error wrapping domain.ErrSchemaNotFound.
	Load() (*domain.Schema, error)

	// Path returns the source location, for diagnostics.
	Path() string
}
