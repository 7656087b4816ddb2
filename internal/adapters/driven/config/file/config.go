// Package file provides TOML-backed configuration for the CLI.
// Configuration lives in ~/.dvsage/config.toml unless a directory is
// given explicitly.
package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default values applied to any field left unset in the file.
const (
	DefaultOllamaURL      = "http://localhost:11434"
	DefaultChromaURL      = "http://localhost:8000"
	DefaultGenerateModel  = "gemma3:4b"
	DefaultEmbeddingModel = "nomic-embed-text:latest"
	DefaultCollection     = "dv_schema"
	DefaultTopK           = 8
	DefaultSchemaPath     = "schema.json"
	DefaultTimeout        = 2 * time.Minute
)

// Config is the full CLI configuration.
type Config struct {
	Ollama    OllamaConfig    `toml:"ollama"`
	Chroma    ChromaConfig    `toml:"chroma"`
	Retrieval RetrievalConfig `toml:"retrieval"`
	Schema    SchemaConfig    `toml:"schema"`
	History   HistoryConfig   `toml:"history"`
}

// OllamaConfig configures the model server connection.
type OllamaConfig struct {
	BaseURL        string  `toml:"base_url"`
	GenerateModel  string  `toml:"generate_model"`
	ChatModel      string  `toml:"chat_model"`
	EmbeddingModel string  `toml:"embedding_model"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// ChromaConfig configures the vector store connection.
type ChromaConfig struct {
	BaseURL    string `toml:"base_url"`
	Collection string `toml:"collection"`
}

// RetrievalConfig configures the query pipeline.
type RetrievalConfig struct {
	TopK int `toml:"top_k"`
}

// SchemaConfig locates the schema export.
type SchemaConfig struct {
	Path string `toml:"path"`

	// Watch enables reindexing when the export changes on disk.
	Watch bool `toml:"watch"`
}

// HistoryConfig configures the local question/answer log.
type HistoryConfig struct {
	// Disabled turns off history persistence entirely.
	Disabled bool `toml:"disabled"`

	// Path overrides the default data directory for the history database.
	Path string `toml:"path"`
}

// Timeout returns the configured model request timeout.
func (c OllamaConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns a configuration with every field at its default.
func Default() Config {
	return Config{
		Ollama: OllamaConfig{
			BaseURL:        DefaultOllamaURL,
			GenerateModel:  DefaultGenerateModel,
			ChatModel:      DefaultGenerateModel,
			EmbeddingModel: DefaultEmbeddingModel,
			Temperature:    0.2,
		},
		Chroma: ChromaConfig{
			BaseURL:    DefaultChromaURL,
			Collection: DefaultCollection,
		},
		Retrieval: RetrievalConfig{
			TopK: DefaultTopK,
		},
		Schema: SchemaConfig{
			Path: DefaultSchemaPath,
		},
	}
}

// Dir resolves the configuration directory, defaulting to ~/.dvsage.
func Dir(configDir string) (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".dvsage"), nil
}

// Load reads config.toml from configDir, applying defaults for missing
// fields. A missing file is not an error: defaults are returned.
func Load(configDir string) (Config, error) {
	dir, err := Dir(configDir)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

// Save writes the configuration to config.toml in configDir, creating
// the directory if needed.
func Save(configDir string, cfg Config) error {
	dir, err := Dir(configDir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.toml"), data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyDefaults fills any field the file left blank.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = def.Ollama.BaseURL
	}
	if cfg.Ollama.GenerateModel == "" {
		cfg.Ollama.GenerateModel = def.Ollama.GenerateModel
	}
	if cfg.Ollama.ChatModel == "" {
		cfg.Ollama.ChatModel = cfg.Ollama.GenerateModel
	}
	if cfg.Ollama.EmbeddingModel == "" {
		cfg.Ollama.EmbeddingModel = def.Ollama.EmbeddingModel
	}
	if cfg.Ollama.Temperature <= 0 {
		cfg.Ollama.Temperature = def.Ollama.Temperature
	}
	if cfg.Chroma.BaseURL == "" {
		cfg.Chroma.BaseURL = def.Chroma.BaseURL
	}
	if cfg.Chroma.Collection == "" {
		cfg.Chroma.Collection = def.Chroma.Collection
	}
	if cfg.Retrieval.TopK <= 0 {
		cfg.Retrieval.TopK = def.Retrieval.TopK
	}
	if cfg.Schema.Path == "" {
		cfg.Schema.Path = def.Schema.Path
	}
}
