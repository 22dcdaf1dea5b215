package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/session"
)

// ScopeTools binds a session's caller identity.
type ScopeTools struct {
	Session *session.Session
}

type SetScopeInput struct {
	UserID    string `json:"user_id" jsonschema:"Resolved user identity"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"Optional project id; omit for the user's general scope"`
}

func (t *ScopeTools) SetScope(_ context.Context, _ *mcp.CallToolRequest, input SetScopeInput) (*mcp.CallToolResult, any, error) {
	scope, err := t.Session.SetScope(input.UserID, input.ProjectID)
	if err != nil {
		return toolError("Failed to set scope: %v", err), nil, nil
	}
	return toolJSON(scope)
}

func (t *ScopeTools) GetScope(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	scope, ok := t.Session.Scope()
	if !ok {
		return toolError("No scope set. Use set_scope first."), nil, nil
	}
	return toolJSON(scope)
}

// requireScope returns the session's scope or a tool error when none is set.
// Shared by the memory tool handlers.
func requireScope(s *session.Session) (models.Scope, *mcp.CallToolResult) {
	scope, ok := s.Scope()
	if !ok {
		return models.Scope{}, toolError("No scope set. Use set_scope first.")
	}
	return scope, nil
}
