package chunker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

func TestExportFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "chunks")
	schema := testSchema()

	if err := ExportFiles(schema, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading export dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 files, got %d", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, "Contract__Main.txt"))
	if err != nil {
		t.Fatalf("reading chunk file: %v", err)
	}
	if !strings.Contains(string(data), "SECTION: Main") {
		t.Errorf("unexpected chunk content:\n%s", data)
	}
}

func TestExportFiles_Overwrites(t *testing.T) {
	dir := t.TempDir()
	schema := testSchema()

	if err := ExportFiles(schema, dir); err != nil {
		t.Fatalf("first export: %v", err)
	}
	if err := ExportFiles(schema, dir); err != nil {
		t.Fatalf("second export: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading export dir: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected overwrite, not duplication: got %d files", len(entries))
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Contract::Main", "Contract__Main"},
		{"Plain-Name", "Plain-Name"},
		{`Card/Type\Sec`, "Card_Type_Sec"},
		{"a*b?c|d", "a_b_c_d"},
		{"  ", "Unknown"},
		{"x<y>z", "x_y_z"},
	}

	for _, tt := range tests {
		if got := sanitizeFileName(tt.in); got != tt.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportFiles_EmptySchema(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")

	if err := ExportFiles(&domain.Schema{}, dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected directory to be created: %v", err)
	}
}
