package chunker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// ExportFiles writes one UTF-8 text file per chunk into dir, creating the
// directory when absent. Existing files of the same name are overwritten.
func ExportFiles(schema *domain.Schema, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	for _, chunk := range Build(schema) {
		name := sanitizeFileName(chunk.Key) + ".txt"
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(chunk.Text), 0o644); err != nil {
			return fmt.Errorf("writing chunk %q: %w", chunk.Key, err)
		}
	}
	return nil
}

// sanitizeFileName replaces characters illegal in file names with '_'.
func sanitizeFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Unknown"
	}
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 {
			return '_'
		}
		return r
	}, name)
	return strings.TrimSpace(sanitized)
}
