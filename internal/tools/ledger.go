package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
)

type DeleteUserEditInput struct {
	EntityName string `json:"entity_name" jsonschema:"Name of the entity the fact belongs to"`
	Content    string `json:"content" jsonschema:"Exact fact text to forget"`
}

func (t *MemoryTools) ListUserEdits(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	edits, err := t.Store.ListUserEdits(scope)
	if err != nil {
		return toolError("Failed to list user edits: %v", err), nil, nil
	}
	if edits == nil {
		edits = []models.UserEdit{}
	}
	return toolJSON(edits)
}

func (t *MemoryTools) DeleteUserEdit(_ context.Context, _ *mcp.CallToolRequest, input DeleteUserEditInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	removed, err := t.Store.DeleteUserEdit(scope, input.EntityName, input.Content)
	if err != nil {
		return toolError("Failed to delete user edit: %v", err), nil, nil
	}
	if !removed {
		return toolText("No matching remembered fact found."), nil, nil
	}
	return toolText("Forgotten."), nil, nil
}

func (t *MemoryTools) ClearUserEdits(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	n, err := t.Store.ClearUserEdits(scope)
	if err != nil {
		return toolError("Failed to clear user edits: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Forgot %d remembered facts.", n)), nil, nil
}
