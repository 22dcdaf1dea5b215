package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/session"
	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/storage"
)

// MemoryTools holds references needed by the knowledge graph, summary, and
// ledger tool handlers.
type MemoryTools struct {
	Store   *storage.Store
	Session *session.Session
}

// --- Input types ---

type CreateEntitiesInput struct {
	Entities   []EntityInput `json:"entities" jsonschema:"Array of entities to create"`
	IsUserEdit bool          `json:"is_user_edit,omitempty" jsonschema:"Whether the user explicitly asked for these facts to be remembered"`
}

type EntityInput struct {
	Name         string   `json:"name" jsonschema:"Entity name (unique within scope, case-insensitive)"`
	EntityType   string   `json:"entity_type" jsonschema:"Entity type (e.g., person, organization, concept)"`
	Observations []string `json:"observations,omitempty" jsonschema:"Initial facts about the entity"`
}

type AddObservationsInput struct {
	Observations []ObservationInput `json:"observations" jsonschema:"Array of observations to add"`
	IsUserEdit   bool               `json:"is_user_edit,omitempty" jsonschema:"Whether the user explicitly asked for these facts to be remembered"`
}

type ObservationInput struct {
	EntityName string   `json:"entity_name" jsonschema:"Name of the entity"`
	Contents   []string `json:"contents" jsonschema:"Fact texts to add"`
}

type CreateRelationsInput struct {
	Relations []RelationInput `json:"relations" jsonschema:"Array of relations to create"`
}

type RelationInput struct {
	From         string `json:"from" jsonschema:"Source entity name"`
	To           string `json:"to" jsonschema:"Target entity name"`
	RelationType string `json:"relation_type" jsonschema:"Relation type in active voice (e.g., works_at, owns, manages)"`
}

type SearchNodesInput struct {
	Query string `json:"query" jsonschema:"Search query, matched lexically against names, types, and facts"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type OpenNodesInput struct {
	Names []string `json:"names" jsonschema:"Exact entity names to retrieve"`
}

type DeleteEntitiesInput struct {
	Names []string `json:"names" jsonschema:"Entity names to delete"`
}

type DeleteObservationsInput struct {
	Deletions []DeleteObservationItem `json:"deletions" jsonschema:"Array of observations to delete"`
}

type DeleteObservationItem struct {
	EntityName   string   `json:"entity_name" jsonschema:"Name of the entity"`
	Observations []string `json:"observations" jsonschema:"Fact texts to match and delete"`
}

type DeleteRelationsInput struct {
	Relations []RelationInput `json:"relations" jsonschema:"Array of relations to delete"`
}

// --- Handlers ---

func (t *MemoryTools) CreateEntities(_ context.Context, _ *mcp.CallToolRequest, input CreateEntitiesInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	inputs := make([]storage.EntityInput, len(input.Entities))
	for i, e := range input.Entities {
		inputs[i] = storage.EntityInput{
			Name:         e.Name,
			EntityType:   e.EntityType,
			Observations: e.Observations,
		}
	}

	ensured, err := t.Store.CreateEntities(scope, inputs, input.IsUserEdit)
	if err != nil {
		return toolError("Failed to create entities: %v", err), nil, nil
	}
	return toolJSON(ensured)
}

func (t *MemoryTools) AddObservations(_ context.Context, _ *mcp.CallToolRequest, input AddObservationsInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	adds := make([]storage.ObservationAdd, len(input.Observations))
	for i, o := range input.Observations {
		adds[i] = storage.ObservationAdd{EntityName: o.EntityName, Contents: o.Contents}
	}

	results, err := t.Store.AddObservations(scope, adds, input.IsUserEdit)
	if err != nil {
		return toolError("Failed to add observations: %v", err), nil, nil
	}
	return toolJSON(results)
}

func (t *MemoryTools) CreateRelations(_ context.Context, _ *mcp.CallToolRequest, input CreateRelationsInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	created, err := t.Store.CreateRelations(scope, relationInputs(input.Relations))
	if err != nil {
		return toolError("Failed to create relations: %v", err), nil, nil
	}
	return toolJSON(created)
}

func (t *MemoryTools) ReadGraph(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	graph, err := t.Store.ReadGraph(scope)
	if err != nil {
		return toolError("Failed to read graph: %v", err), nil, nil
	}
	return toolJSON(graph)
}

func (t *MemoryTools) SearchNodes(_ context.Context, _ *mcp.CallToolRequest, input SearchNodesInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	entities, err := t.Store.SearchNodes(scope, input.Query, input.Limit)
	if err != nil {
		return toolError("Search failed: %v", err), nil, nil
	}
	return toolJSON(entities)
}

func (t *MemoryTools) OpenNodes(_ context.Context, _ *mcp.CallToolRequest, input OpenNodesInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	graph, err := t.Store.OpenNodes(scope, input.Names)
	if err != nil {
		return toolError("Failed to open nodes: %v", err), nil, nil
	}
	return toolJSON(graph)
}

func (t *MemoryTools) DeleteEntities(_ context.Context, _ *mcp.CallToolRequest, input DeleteEntitiesInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	deleted, err := t.Store.DeleteEntities(scope, input.Names)
	if err != nil {
		return toolError("Failed to delete entities: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Deleted %d entities.", len(deleted))), nil, nil
}

func (t *MemoryTools) DeleteObservations(_ context.Context, _ *mcp.CallToolRequest, input DeleteObservationsInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	dels := make([]storage.ObservationDelete, len(input.Deletions))
	for i, d := range input.Deletions {
		dels[i] = storage.ObservationDelete{EntityName: d.EntityName, Observations: d.Observations}
	}

	results, err := t.Store.DeleteObservations(scope, dels)
	if err != nil {
		return toolError("Failed to delete observations: %v", err), nil, nil
	}

	total := 0
	for _, r := range results {
		total += len(r.Contents)
	}
	return toolText(fmt.Sprintf("Deleted %d observations.", total)), nil, nil
}

func (t *MemoryTools) DeleteRelations(_ context.Context, _ *mcp.CallToolRequest, input DeleteRelationsInput) (*mcp.CallToolResult, any, error) {
	scope, errResult := requireScope(t.Session)
	if errResult != nil {
		return errResult, nil, nil
	}

	deleted, err := t.Store.DeleteRelations(scope, relationInputs(input.Relations))
	if err != nil {
		return toolError("Failed to delete relations: %v", err), nil, nil
	}
	return toolText(fmt.Sprintf("Deleted %d relations.", len(deleted))), nil, nil
}

func relationInputs(in []RelationInput) []storage.RelationInput {
	out := make([]storage.RelationInput, len(in))
	for i, r := range in {
		out[i] = storage.RelationInput{From: r.From, To: r.To, RelationType: r.RelationType}
	}
	return out
}
