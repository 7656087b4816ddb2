package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/dvsage-cli/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string   `json:"question" jsonschema:"the natural-language question about the card schema"`
	TopK     int      `json:"top_k,omitempty" jsonschema:"number of schema chunks to retrieve (default 8)"`
	Contains []string `json:"contains,omitempty" jsonschema:"up to two substrings the retrieved chunks must contain"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question about the Docsvision card schema using retrieved schema context",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.AskOptions{
		TopK:     input.TopK,
		Contains: input.Contains,
	}

	result, err := s.ports.Ask.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  result.Answer,
		Sources: result.Documents,
	}, nil
}
