package services

import (
	"context"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// mockSchemaStore is a mock implementation of driven.SchemaStore.
type mockSchemaStore struct {
	schema *domain.Schema
	err    error

	loadCalls int
}

func (m *mockSchemaStore) Load() (*domain.Schema, error) {
	m.loadCalls++
	return m.schema, m.err
}

func (m *mockSchemaStore) Path() string {
	return "schema.json"
}

// queryCall records one Query invocation for assertions.
type queryCall struct {
	topK     int
	contains []string
}

// mockVectorStore is a mock implementation of driven.VectorStore.
type mockVectorStore struct {
	collectionID string
	ensureErr    error
	upsertErr    error
	queryErr     error

	// results is returned for every query; queryPlan, when set, is
	// consumed one entry per query instead.
	results   []domain.QueryResult
	queryPlan [][]domain.QueryResult

	ensureCalls int
	upserted    [][]domain.Document
	queries     []queryCall
}

func (m *mockVectorStore) EnsureCollection(_ context.Context, _ string) (string, error) {
	m.ensureCalls++
	return m.collectionID, m.ensureErr
}

func (m *mockVectorStore) Upsert(_ context.Context, _ string, docs []domain.Document) error {
	m.upserted = append(m.upserted, docs)
	return m.upsertErr
}

func (m *mockVectorStore) Query(_ context.Context, _, _ string, topK int, contains ...string) ([]domain.QueryResult, error) {
	call := len(m.queries)
	m.queries = append(m.queries, queryCall{topK: topK, contains: contains})
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.queryPlan != nil {
		if call < len(m.queryPlan) {
			return m.queryPlan[call], nil
		}
		return nil, nil
	}
	return m.results, nil
}

// mockLLM is a mock implementation of driven.LLMService.
type mockLLM struct {
	answer  string
	askErr  error
	pingErr error

	askCalls []askCall
}

// askCall records one Ask invocation for assertions.
type askCall struct {
	question     string
	contextBlock string
	system       string
}

func (m *mockLLM) Ask(_ context.Context, question, contextBlock, system string) (string, error) {
	m.askCalls = append(m.askCalls, askCall{
		question:     question,
		contextBlock: contextBlock,
		system:       system,
	})
	return m.answer, m.askErr
}

func (m *mockLLM) Generate(_ context.Context, _ string) (string, error) {
	return m.answer, m.askErr
}

func (m *mockLLM) Chat(_ context.Context, _, _ string) (string, error) {
	return m.answer, m.askErr
}

func (m *mockLLM) ModelName() string {
	return "mock-model"
}

func (m *mockLLM) Ping(_ context.Context) error {
	return m.pingErr
}
