// Package chroma provides a VectorStore adapter for a remote Chroma
// instance reached over its v1 REST API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
	"github.com/custodia-labs/dvsage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/dvsage-cli/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 30 * time.Second

	// minResults floors every query: the store is always asked for at
	// least this many neighbours.
	minResults = 3
)

// Config holds configuration for the Chroma store.
type Config struct {
	// BaseURL is the Chroma API base URL (default: http://localhost:8000).
	BaseURL string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store is a REST client to Chroma. Query embeddings are produced by the
// injected embedding service, keeping the store itself model-agnostic.
type Store struct {
	client   *http.Client
	baseURL  string
	embedder driven.EmbeddingService
}

// collectionInfo is one entry of GET /api/v1/collections.
type collectionInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// createCollectionRequest is the POST /api/v1/collections payload.
type createCollectionRequest struct {
	Name string `json:"name"`
}

// upsertRequest is the batched write payload: parallel arrays, one entry
// per document, metadata placeholders included.
type upsertRequest struct {
	IDs        []string         `json:"ids"`
	Documents  []string         `json:"documents"`
	Embeddings [][]float32      `json:"embeddings"`
	Metadatas  []map[string]any `json:"metadatas"`
}

// queryRequest is the nearest-neighbour search payload.
type queryRequest struct {
	QueryEmbeddings [][]float32    `json:"query_embeddings"`
	NResults        int            `json:"n_results"`
	Include         []string       `json:"include"`
	WhereDocument   map[string]any `json:"where_document,omitempty"`
}

// queryResponse carries parallel per-query result lists. Distances may be
// shorter than documents or absent entirely.
type queryResponse struct {
	Documents [][]string  `json:"documents"`
	Distances [][]float64 `json:"distances"`
}

// NewStore creates a new Chroma store client.
func NewStore(cfg Config, embedder driven.EmbeddingService) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  cfg.BaseURL,
		embedder: embedder,
	}
}

// EnsureCollection returns the id of the named collection, creating it
// when absent. Idempotent: the collection list is scanned by name first.
func (s *Store) EnsureCollection(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("chroma: blank collection name: %w", domain.ErrInvalidInput)
	}

	var collections []collectionInfo
	if err := s.getJSON(ctx, "/api/v1/collections", &collections); err != nil {
		return "", fmt.Errorf("chroma: list collections: %w", err)
	}
	for _, c := range collections {
		if c.Name == name {
			logger.Debug("Collection %q exists with id %s", name, c.ID)
			return c.ID, nil
		}
	}

	var created collectionInfo
	if err := s.postJSON(ctx, "/api/v1/collections", createCollectionRequest{Name: name}, &created); err != nil {
		return "", fmt.Errorf("chroma: create collection %q: %w", name, err)
	}
	logger.Debug("Created collection %q with id %s", name, created.ID)
	return created.ID, nil
}

// Upsert embeds all document texts and writes them in one batched
// request. Validation failures and embedding misalignment reject the
// whole batch before anything is sent.
func (s *Store) Upsert(ctx context.Context, collectionID string, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("chroma: document %d has a blank id: %w", i, domain.ErrInvalidInput)
		}
		if strings.TrimSpace(d.Text) == "" {
			return fmt.Errorf("chroma: document %q has blank text: %w", d.ID, domain.ErrInvalidInput)
		}
		texts[i] = d.Text
	}

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("chroma: embedding documents: %w", err)
	}
	if len(embeddings) != len(docs) {
		return fmt.Errorf("chroma: got %d embeddings for %d documents: %w",
			len(embeddings), len(docs), domain.ErrEmbeddingMismatch)
	}
	for i, e := range embeddings {
		if len(e) == 0 {
			return fmt.Errorf("chroma: document %q: %w", docs[i].ID, domain.ErrEmptyEmbedding)
		}
	}

	req := upsertRequest{
		IDs:        make([]string, len(docs)),
		Documents:  texts,
		Embeddings: embeddings,
		Metadatas:  make([]map[string]any, len(docs)),
	}
	for i, d := range docs {
		req.IDs[i] = d.ID
		req.Metadatas[i] = map[string]any{}
	}

	path := fmt.Sprintf("/api/v1/collections/%s/upsert", collectionID)
	if err := s.postJSON(ctx, path, req, nil); err != nil {
		return fmt.Errorf("chroma: upsert %d documents: %w", len(docs), err)
	}
	logger.Info("Upserted %d documents into collection %s", len(docs), collectionID)
	return nil
}

// Query embeds queryText and returns the nearest documents with their
// distances. At least max(3, topK) results are requested. Up to two
// contains constraints narrow the search to documents whose text includes
// them, combined with logical AND.
func (s *Store) Query(ctx context.Context, collectionID, queryText string, topK int, contains ...string) ([]domain.QueryResult, error) {
	embedding, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("chroma: embedding query: %w", err)
	}

	n := topK
	if n < minResults {
		n = minResults
	}

	req := queryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        n,
		Include:         []string{"documents", "distances"},
		WhereDocument:   whereDocument(contains),
	}

	var resp queryResponse
	path := fmt.Sprintf("/api/v1/collections/%s/query", collectionID)
	if err := s.postJSON(ctx, path, req, &resp); err != nil {
		return nil, fmt.Errorf("chroma: query: %w", err)
	}

	if len(resp.Documents) == 0 {
		return nil, nil
	}
	docs := resp.Documents[0]
	var distances []float64
	if len(resp.Distances) > 0 {
		distances = resp.Distances[0]
	}

	results := make([]domain.QueryResult, len(docs))
	for i, doc := range docs {
		var dist float64
		if i < len(distances) {
			dist = distances[i]
		}
		results[i] = domain.QueryResult{Document: doc, Distance: dist}
	}
	return results, nil
}

// whereDocument builds the server-side text filter: a single $contains
// clause, or two combined with $and. Blank constraints are skipped and
// anything past the second is ignored.
func whereDocument(contains []string) map[string]any {
	var clauses []map[string]any
	for _, c := range contains {
		if strings.TrimSpace(c) == "" {
			continue
		}
		clauses = append(clauses, map[string]any{"$contains": c})
		if len(clauses) == 2 {
			break
		}
	}

	switch len(clauses) {
	case 0:
		return nil
	case 1:
		return clauses[0]
	default:
		return map[string]any{"$and": clauses}
	}
}

func (s *Store) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return s.do(req, out)
}

func (s *Store) postJSON(ctx context.Context, path string, body, out any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, out)
}

func (s *Store) do(req *http.Request, out any) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("chroma error (status %d): failed to read response", resp.StatusCode)
		}
		return fmt.Errorf("chroma error (status %d): %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
