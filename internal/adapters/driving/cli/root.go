// Package cli provides the dvsage command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/custodia-labs/dvsage-cli/internal/adapters/driven/config/file"
	ollamaembed "github.com/custodia-labs/dvsage-cli/internal/adapters/driven/embedding/ollama"
	ollamallm "github.com/custodia-labs/dvsage-cli/internal/adapters/driven/llm/ollama"
	schemafile "github.com/custodia-labs/dvsage-cli/internal/adapters/driven/schema/file"
	"github.com/custodia-labs/dvsage-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/dvsage-cli/internal/adapters/driven/vector/chroma"
	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/dvsage-cli/internal/core/services"
	"github.com/custodia-labs/dvsage-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose    bool
	configDir  string
	schemaPath string
)

// Services wired by PersistentPreRunE (or injected by tests).
var (
	cfg         configfile.Config
	askService  driving.AskService
	schemaStore driven.SchemaStore
	historyPath string
)

var rootCmd = &cobra.Command{
	Use:   "dvsage",
	Short: "Schema-aware SQL assistant for Docsvision",
	Long: `dvsage answers questions about a Docsvision card schema.

It chunks the exported schema, indexes the chunks in a local Chroma
instance, and grounds an Ollama model on the retrieved context, so
answers reference real tables and columns instead of invented ones.

Run without arguments in a terminal to start the interactive prompt.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.dvsage)")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "schema export path (overrides config)")
}

// Execute runs the CLI with the given build version.
func Execute(buildVersion string) {
	if buildVersion != "" {
		version = buildVersion
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the service graph. Tests inject
// their own services first, which skips the wiring entirely.
func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if askService != nil {
		return nil
	}

	var err error
	cfg, err = configfile.Load(configDir)
	if err != nil {
		return err
	}
	if schemaPath != "" {
		cfg.Schema.Path = schemaPath
	}

	schemaStore = schemafile.NewStore(cfg.Schema.Path)

	embedder := ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.EmbeddingModel,
	})

	store := chroma.NewStore(chroma.Config{
		BaseURL: cfg.Chroma.BaseURL,
	}, embedder)

	llm := ollamallm.NewLLMService(ollamallm.Config{
		BaseURL:       cfg.Ollama.BaseURL,
		GenerateModel: cfg.Ollama.GenerateModel,
		ChatModel:     cfg.Ollama.ChatModel,
		Temperature:   cfg.Ollama.Temperature,
		Timeout:       cfg.Ollama.Timeout(),
	})

	askService = services.NewAskService(schemaStore, store, llm, services.Config{
		Collection: cfg.Chroma.Collection,
		TopK:       cfg.Retrieval.TopK,
	})

	if !cfg.History.Disabled {
		historyPath = cfg.History.Path
	}

	logger.Debug("Wired services: ollama=%s chroma=%s schema=%s",
		cfg.Ollama.BaseURL, cfg.Chroma.BaseURL, cfg.Schema.Path)
	return nil
}

// runRoot starts the interactive prompt on a terminal and prints help
// when output is piped.
func runRoot(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return cmd.Help()
	}
	return runTUI(cmd, args)
}

// openHistory opens the history store, or returns nil when history is
// disabled. Callers must Close a non-nil store.
func openHistory() driven.HistoryStore {
	if cfg.History.Disabled {
		return nil
	}
	store, err := sqlite.NewHistoryStore(historyPath)
	if err != nil {
		logger.Warn("History unavailable: %v", err)
		return nil
	}
	return store
}
