package tools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/policy"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/session"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/storage"
)

// PermissionTools exposes the policy surface: the pure gate checks plus the
// administrative setters.
type PermissionTools struct {
	Store   *storage.Store
	Gate    *policy.Gate
	Session *session.Session
}

type CheckToolPermissionInput struct {
	ToolName string `json:"tool_name" jsonschema:"Tool name to check"`
}

type ListVisibleToolsInput struct {
	Candidates []string `json:"candidates,omitempty" jsonschema:"Tool names to filter; defaults to every connector tool"`
}

type SetConnectorPermissionInput struct {
	Connector string `json:"connector" jsonschema:"Connector name (xero, gmail, sheets)"`
	Level     int    `json:"level" jsonschema:"Permission level 0-3 (0 read-only, 1 create, 2 update, 3 destructive)"`
}

type SetVacationModeInput struct {
	Until string `json:"until,omitempty" jsonschema:"RFC3339 end of the vacation window; omit to clear vacation mode"`
}

func (t *PermissionTools) CheckToolPermission(_ context.Context, _ *mcp.CallToolRequest, input CheckToolPermissionInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	decision, err := t.Gate.CheckToolPermission(scope.UserID, input.ToolName)
	if err != nil {
		return toolError("Permission check failed: %v", err), nil, nil
	}
	return toolJSON(decision)
}

func (t *PermissionTools) ListVisibleTools(_ context.Context, _ *mcp.CallToolRequest, input ListVisibleToolsInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	candidates := input.Candidates
	if len(candidates) == 0 {
		candidates = policy.ConnectorTools()
	}

	allowed, err := t.Gate.VisibleTools(scope.UserID, candidates)
	if err != nil {
		return toolError("Failed to list visible tools: %v", err), nil, nil
	}
	if allowed == nil {
		allowed = []string{}
	}
	return toolJSON(allowed)
}

func (t *PermissionTools) SetConnectorPermission(_ context.Context, _ *mcp.CallToolRequest, input SetConnectorPermissionInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	if err := t.Store.SetConnectorLevel(scope.UserID, input.Connector, input.Level); err != nil {
		return toolError("Failed to set connector permission: %v", err), nil, nil
	}
	return toolText("Permission updated."), nil, nil
}

func (t *PermissionTools) SetVacationMode(_ context.Context, _ *mcp.CallToolRequest, input SetVacationModeInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	if input.Until == "" {
		if err := t.Store.SetVacationUntil(scope.UserID, nil); err != nil {
			return toolError("Failed to clear vacation mode: %v", err), nil, nil
		}
		return toolText("Vacation mode cleared."), nil, nil
	}

	until, err := time.Parse(time.RFC3339, input.Until)
	if err != nil {
		return toolError("Invalid until timestamp %q: %v", input.Until, err), nil, nil
	}
	if err := t.Store.SetVacationUntil(scope.UserID, &until); err != nil {
		return toolError("Failed to set vacation mode: %v", err), nil, nil
	}
	return toolText("Vacation mode active until " + until.UTC().Format(time.RFC3339) + "."), nil, nil
}
