package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/dvsage-cli/internal/chunker"
)

var indexExportDir string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build and index schema chunks",
	Long: `Loads the schema export, renders it into per-section text chunks,
and upserts them into the vector store.

Indexing is idempotent: chunk ids are derived from position, so re-running
overwrites the existing documents instead of duplicating them.

With --export-dir the chunks are also written as individual text files,
which is useful for inspecting what the model will see.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexExportDir, "export-dir", "", "also write chunks as text files into this directory")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if err := askService.EnsureIndexed(cmd.Context()); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	cmd.Printf("Indexed schema from %s\n", schemaStore.Path())

	if indexExportDir == "" {
		return nil
	}

	schema, err := schemaStore.Load()
	if err != nil {
		return fmt.Errorf("loading schema for export: %w", err)
	}
	chunks := chunker.Build(schema)
	if err := chunker.ExportFiles(schema, indexExportDir); err != nil {
		return fmt.Errorf("exporting chunks: %w", err)
	}
	cmd.Printf("Exported %d chunks to %s\n", len(chunks), indexExportDir)
	return nil
}
