package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	schemafile "github.com/custodia-labs/dvsage-cli/internal/adapters/driven/schema/file"
	"github.com/custodia-labs/dvsage-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive question prompt",
	Long: `Launch the interactive terminal interface.

Questions are answered against the indexed schema without leaving the
prompt. When schema watching is enabled in the config, edits to the
export file trigger reindexing on the next question.

Controls:
  Enter - Ask
  Esc   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps a stack trace visible after the alt screen
	// is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// The TUI is long-running, so the schema watcher runs alongside it.
	if cfg.Schema.Watch {
		watcher, err := schemafile.NewWatcher(cfg.Schema.Path, askService.Invalidate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "schema watcher unavailable: %v\n", err)
		} else {
			go func() {
				if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
					fmt.Fprintf(os.Stderr, "schema watcher stopped: %v\n", err)
				}
			}()
		}
	}

	app, err := tui.NewApp(&tui.Ports{Ask: askService})
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
