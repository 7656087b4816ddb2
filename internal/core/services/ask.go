// Package services implements the core retrieval pipeline.
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/dvsage-cli/internal/chunker"
	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/dvsage-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// Default configuration values.
const (
	DefaultCollection = "dv_schema"
	DefaultTopK       = 8

	// wideningAttempts is how many extra queries run at a larger topK when
	// the first returns nothing.
	wideningAttempts = 2

	// maxContains bounds the substring constraints accepted per question,
	// matching the store-side filter limit so filtering and rerank bonuses
	// always see the same constraints.
	maxContains = 2

	// contextSeparator joins retrieved documents into one context block.
	contextSeparator = "\n---\n"
)

// groundingPrompt constrains the model to the retrieved context and tells
// it to flag missing columns instead of inventing them.
const groundingPrompt = "Ты помощник по SQL для схемы Docsvision. " +
	"Отвечай только по предоставленному контексту схемы. " +
	"Если нужного поля нет в контексте, скажи об этом прямо, не выдумывай."

// Config holds configuration for the ask service.
type Config struct {
	// Collection is the vector-store collection name (default: dv_schema).
	Collection string

	// TopK is the default number of documents retrieved per question
	// (default: 8).
	TopK int
}

// AskService composes the schema store, vector store, and model service
// into the end-to-end question pipeline. Session state (the resolved
// collection id and the one-time indexing flag) lives behind a mutex, so
// concurrent questions after indexing run read-only in parallel while at
// most one indexing pass is ever in flight.
type AskService struct {
	schemaStore driven.SchemaStore
	store       driven.VectorStore
	llm         driven.LLMService

	collection string
	topK       int

	mu           sync.Mutex
	collectionID string
	indexed      bool
}

// NewAskService creates the ask service.
func NewAskService(schemaStore driven.SchemaStore, store driven.VectorStore, llm driven.LLMService, cfg Config) *AskService {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}

	return &AskService{
		schemaStore: schemaStore,
		store:       store,
		llm:         llm,
		collection:  cfg.Collection,
		topK:        cfg.TopK,
	}
}

// Ask runs the full pipeline for one question.
func (s *AskService) Ask(ctx context.Context, question string, opts domain.AskOptions) (domain.AskResult, error) {
	logger.Section("Ask")
	logger.Debug("Question: %q", question)

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AskResult{}, fmt.Errorf("blank question: %w", domain.ErrInvalidInput)
	}

	// Liveness gate: nothing else runs when the model service is down.
	if err := s.llm.Ping(ctx); err != nil {
		return domain.AskResult{}, fmt.Errorf("%w: %v", domain.ErrLLMUnavailable, err)
	}

	if err := s.EnsureIndexed(ctx); err != nil {
		return domain.AskResult{}, err
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}
	contains := opts.Contains
	if len(contains) > maxContains {
		contains = contains[:maxContains]
	}

	results, err := s.queryWithWidening(ctx, question, topK, contains)
	if err != nil {
		return domain.AskResult{}, err
	}

	docs := make([]string, len(results))
	distances := make([]float64, len(results))
	for i, r := range results {
		docs[i] = r.Document
		distances[i] = r.Distance
	}

	ranked := Rerank(docs, distances, contains, topK)
	contextBlock := strings.Join(ranked, contextSeparator)
	logger.Debug("Context assembled from %d documents (%d bytes)", len(ranked), len(contextBlock))

	answer, err := s.llm.Ask(ctx, question, contextBlock, groundingPrompt)
	if err != nil {
		return domain.AskResult{}, fmt.Errorf("asking model: %w", err)
	}

	return domain.AskResult{
		Answer:    answer,
		Context:   contextBlock,
		Documents: ranked,
	}, nil
}

// EnsureIndexed resolves the collection and runs the one-time indexing
// pass. The whole step sits in a single critical section, so concurrent
// first questions index exactly once.
func (s *AskService) EnsureIndexed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collectionID == "" {
		id, err := s.store.EnsureCollection(ctx, s.collection)
		if err != nil {
			return fmt.Errorf("ensuring collection: %w", err)
		}
		s.collectionID = id
	}

	if s.indexed {
		return nil
	}

	logger.Section("Indexing")
	schema, err := s.schemaStore.Load()
	if err != nil {
		return fmt.Errorf("loading schema: %w", err)
	}

	chunks := chunker.Build(schema)
	logger.Info("Built %d chunks from schema %s", len(chunks), s.schemaStore.Path())

	// Stable zero-padded ids keep re-runs idempotent: the store overwrites
	// by id instead of duplicating.
	docs := make([]domain.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = domain.Document{
			ID:   fmt.Sprintf("doc_%06d", i),
			Text: c.Text,
		}
	}

	if err := s.store.Upsert(ctx, s.collectionID, docs); err != nil {
		return fmt.Errorf("indexing chunks: %w", err)
	}

	s.indexed = true
	return nil
}

// Invalidate marks the session unindexed so the next Ask reindexes.
func (s *AskService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indexed = false
	logger.Debug("Session index invalidated")
}

// queryWithWidening queries at topK and, when nothing comes back, retries
// twice at progressively doubled sizes before giving up.
func (s *AskService) queryWithWidening(ctx context.Context, question string, topK int, contains []string) ([]domain.QueryResult, error) {
	s.mu.Lock()
	collectionID := s.collectionID
	s.mu.Unlock()

	k := topK
	for attempt := 0; ; attempt++ {
		results, err := s.store.Query(ctx, collectionID, question, k, contains...)
		if err != nil {
			return nil, fmt.Errorf("querying store: %w", err)
		}
		if len(results) > 0 {
			return results, nil
		}
		if attempt >= wideningAttempts {
			return nil, fmt.Errorf("%w after %d attempts (topK up to %d)",
				domain.ErrEmptyResults, attempt+1, k)
		}
		k *= 2
		logger.Debug("Empty result set, widening query to topK=%d", k)
	}
}
