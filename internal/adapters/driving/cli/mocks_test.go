package cli

import (
	"context"

	configfile "github.com/custodia-labs/dvsage-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	result domain.AskResult
	err    error

	lastQuestion string
	lastOpts     domain.AskOptions
	ensured      int
}

func (m *mockAskService) Ask(_ context.Context, question string, opts domain.AskOptions) (domain.AskResult, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockAskService) EnsureIndexed(_ context.Context) error {
	m.ensured++
	return m.err
}

func (m *mockAskService) Invalidate() {}

// mockSchemaStore is a mock implementation of driven.SchemaStore.
type mockSchemaStore struct {
	schema *domain.Schema
	err    error
}

func (m *mockSchemaStore) Load() (*domain.Schema, error) {
	return m.schema, m.err
}

func (m *mockSchemaStore) Path() string {
	return "testdata/schema.json"
}

// setupTestServices injects mocks into the package wiring and returns a
// cleanup that restores it.
func setupTestServices() (*mockAskService, func()) {
	mockAsk := &mockAskService{
		result: domain.AskResult{
			Answer:    "SELECT InstanceID FROM dvtable_1",
			Context:   "TABLE: dvtable_1",
			Documents: []string{"TABLE: dvtable_1"},
		},
	}

	prevAsk := askService
	prevSchema := schemaStore
	prevCfg := cfg

	askService = mockAsk
	schemaStore = &mockSchemaStore{
		schema: &domain.Schema{
			Sections: map[string]*domain.Section{
				"11111111-1111-1111-1111-111111111111": {
					Alias:         "Main",
					CardTypeAlias: "Contract",
					Fields:        []*domain.Field{{Alias: "State", Type: 5}},
				},
			},
		},
	}
	cfg = configfile.Default()
	cfg.History.Disabled = true

	return mockAsk, func() {
		askService = prevAsk
		schemaStore = prevSchema
		cfg = prevCfg
	}
}
