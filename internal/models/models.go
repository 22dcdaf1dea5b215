package models

// Scope identifies the partition all graph records live under. An empty
// ProjectID means the user's general (non-project) scope. Records in
// different scopes never interact.
type Scope struct {
	UserID    string `json:"user_id"`
	ProjectID string `json:"project_id,omitempty"`
}

// Entity represents a named node in the knowledge graph.
type Entity struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	EntityType   string        `json:"entity_type"`
	Observations []Observation `json:"observations,omitempty"`
	CreatedAt    string        `json:"created_at"`
}

// Observation represents a single fact attached to an entity. IsUserEdit
// marks facts the user explicitly asked to be remembered, as opposed to
// facts the assistant inferred.
type Observation struct {
	ID         string `json:"id"`
	EntityID   string `json:"entity_id"`
	Content    string `json:"content"`
	IsUserEdit bool   `json:"is_user_edit"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// Relation represents a directed, typed edge between two entities.
// From and To carry the endpoint entity names once resolved.
type Relation struct {
	ID           string `json:"id"`
	From         string `json:"from"`
	To           string `json:"to"`
	RelationType string `json:"relation_type"`
	CreatedAt    string `json:"created_at"`
}

// KnowledgeGraph represents a full scoped snapshot of entities and relations.
type KnowledgeGraph struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// Summary is the cached prose digest of one scope's graph. The counts record
// graph size at generation time and drive staleness detection.
type Summary struct {
	Content          string `json:"content"`
	GeneratedAt      string `json:"generated_at"`
	EntityCount      int    `json:"entity_count"`
	ObservationCount int    `json:"observation_count"`
}

// UserEdit is one ledger entry: an explicitly requested observation joined
// back to the name of the entity it belongs to.
type UserEdit struct {
	EntityName string `json:"entity_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}
