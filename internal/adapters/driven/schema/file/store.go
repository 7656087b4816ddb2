// Package file loads the card/section schema from a JSON export on disk.
package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SchemaStore = (*Store)(nil)

// Store reads a schema export from a fixed path. The file is re-read on
// every Load, so an updated export is picked up by the next indexing pass.
type Store struct {
	path string
}

// NewStore creates a schema store for the given export path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and decodes the schema export.
func (s *Store) Load() (*domain.Schema, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSchemaNotFound, s.path)
		}
		return nil, fmt.Errorf("reading schema %s: %w", s.path, err)
	}

	var schema domain.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decoding schema %s: %w", s.path, err)
	}
	if schema.IsEmpty() {
		return nil, fmt.Errorf("%w: %s contains no sections", domain.ErrSchemaNotFound, s.path)
	}

	return &schema, nil
}

// Path returns the export location.
func (s *Store) Path() string {
	return s.path
}
