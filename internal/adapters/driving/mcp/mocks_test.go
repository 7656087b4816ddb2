package mcp

import (
	"context"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	result domain.AskResult
	err    error

	lastQuestion string
	lastOpts     domain.AskOptions
}

func (m *mockAskService) Ask(_ context.Context, question string, opts domain.AskOptions) (domain.AskResult, error) {
	m.lastQuestion = question
	m.lastOpts = opts
	return m.result, m.err
}

func (m *mockAskService) EnsureIndexed(_ context.Context) error {
	return m.err
}

func (m *mockAskService) Invalidate() {}
