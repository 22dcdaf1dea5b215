package server

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/policy"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/session"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/storage"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/tools"
)

// ungatedTools are the tools this server registers itself: memory, summary,
// ledger, session, and policy operations. They are never connector-backed
// and always permitted; the permission gate only applies to connector tools.
var ungatedTools = []string{
	"set_scope",
	"get_scope",
	"create_entities",
	"add_observations",
	"create_relations",
	"read_graph",
	"search_nodes",
	"open_nodes",
	"delete_entities",
	"delete_observations",
	"delete_relations",
	"save_summary",
	"get_summary",
	"delete_summary",
	"list_user_edits",
	"delete_user_edit",
	"clear_user_edits",
	"check_tool_permission",
	"list_visible_tools",
	"set_connector_permission",
	"set_vacation_mode",
}

// New creates a fully configured MCP server with all tools registered. The
// policy table is validated first: every routable tool must be mapped to a
// connector or explicitly ungated, so a misconfigured tool fails startup
// instead of being silently allowed.
func New(store *storage.Store) (*mcp.Server, error) {
	routable := append(policy.ConnectorTools(), ungatedTools...)
	if err := policy.Validate(routable, ungatedTools); err != nil {
		return nil, fmt.Errorf("validate tool table: %w", err)
	}

	sess := session.New()
	gate := policy.NewGate(store)

	st := &tools.ScopeTools{Session: sess}
	mt := &tools.MemoryTools{Store: store, Session: sess}
	pt := &tools.PermissionTools{Store: store, Gate: gate, Session: sess}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "memory-engine",
		Version: "0.1.0",
	}, nil)

	// Session scope tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_scope",
		Description: "Bind this session to a user and optional project; all memory operations run under that scope",
	}, st.SetScope)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_scope",
		Description: "Get the session's current user/project scope",
	}, st.GetScope)

	// Knowledge graph tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_entities",
		Description: "Create or ensure entities in the knowledge graph, with optional initial facts (requires scope)",
	}, mt.CreateEntities)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_observations",
		Description: "Add facts to existing entities; unknown entities are skipped (requires scope)",
	}, mt.AddObservations)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_relations",
		Description: "Create directed relations between existing entities; dangling relations are skipped (requires scope)",
	}, mt.CreateRelations)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "read_graph",
		Description: "Read the entire knowledge graph for the current scope (requires scope)",
	}, mt.ReadGraph)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search_nodes",
		Description: "Search entities by lexical relevance across names, types, and facts (requires scope)",
	}, mt.SearchNodes)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "open_nodes",
		Description: "Retrieve specific entities by name with the relations touching them (requires scope)",
	}, mt.OpenNodes)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_entities",
		Description: "Delete entities, cascading to their facts and relations (requires scope)",
	}, mt.DeleteEntities)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_observations",
		Description: "Delete specific facts from entities by exact text match (requires scope)",
	}, mt.DeleteObservations)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_relations",
		Description: "Delete specific relations by endpoints and type (requires scope)",
	}, mt.DeleteRelations)

	// Summary cache tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "save_summary",
		Description: "Cache a caller-produced prose digest of the graph for the current scope (requires scope)",
	}, mt.SaveSummary)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get the cached graph digest with a staleness flag (requires scope)",
	}, mt.GetSummary)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_summary",
		Description: "Delete the cached graph digest (requires scope)",
	}, mt.DeleteSummary)

	// User-edit ledger tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_user_edits",
		Description: "List facts the user explicitly asked to be remembered, newest first (requires scope)",
	}, mt.ListUserEdits)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_user_edit",
		Description: "Forget one explicitly remembered fact by entity name and exact text (requires scope)",
	}, mt.DeleteUserEdit)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "clear_user_edits",
		Description: "Forget every explicitly remembered fact in the current scope (requires scope)",
	}, mt.ClearUserEdits)

	// Permission tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "check_tool_permission",
		Description: "Check whether the scoped user may run a connector tool; denial reasons are user-facing (requires scope)",
	}, pt.CheckToolPermission)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_visible_tools",
		Description: "Filter connector tools down to those the scoped user's permission levels allow (requires scope)",
	}, pt.ListVisibleTools)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_connector_permission",
		Description: "Set the scoped user's permission level (0-3) for a connector (requires scope)",
	}, pt.SetConnectorPermission)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_vacation_mode",
		Description: "Set or clear the scoped user's vacation window; while active all connectors are read-only (requires scope)",
	}, pt.SetVacationMode)

	return srv, nil
}
