package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type SaveSummaryInput struct {
	Content string `json:"content" jsonschema:"Prose digest of the graph, produced by the caller"`
}

func (t *MemoryTools) SaveSummary(_ context.Context, _ *mcp.CallToolRequest, input SaveSummaryInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	if err := t.Store.SaveSummary(scope, input.Content); err != nil {
		return toolError("Failed to save summary: %v", err), nil, nil
	}
	return toolText("Summary saved."), nil, nil
}

func (t *MemoryTools) GetSummary(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	sum, err := t.Store.GetSummary(scope)
	if err != nil {
		return toolError("Failed to get summary: %v", err), nil, nil
	}
	if sum == nil {
		return toolText("No summary saved for this scope."), nil, nil
	}

	stale, err := t.Store.IsSummaryStale(scope)
	if err != nil {
		return toolError("Failed to check summary staleness: %v", err), nil, nil
	}

	return toolJSON(struct {
		Content          string `json:"content"`
		GeneratedAt      string `json:"generated_at"`
		EntityCount      int    `json:"entity_count"`
		ObservationCount int    `json:"observation_count"`
		Stale            bool   `json:"stale"`
	}{sum.Content, sum.GeneratedAt, sum.EntityCount, sum.ObservationCount, stale})
}

func (t *MemoryTools) DeleteSummary(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	existed, err := t.Store.DeleteSummary(scope)
	if err != nil {
		return toolError("Failed to delete summary: %v", err), nil, nil
	}
	if !existed {
		return toolText("No summary to delete."), nil, nil
	}
	return toolText("Summary deleted."), nil, nil
}
