package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
)

// EntityInput describes one entity to ensure, with optional initial facts.
type EntityInput struct {
	Name         string
	EntityType   string
	Observations []string
}

// RelationInput names a directed edge by its endpoint entity names.
type RelationInput struct {
	From         string
	To           string
	RelationType string
}

// ObservationAdd attaches facts to one named entity.
type ObservationAdd struct {
	EntityName string
	Contents   []string
}

// ObservationDelete removes facts from one named entity by exact content match.
type ObservationDelete struct {
	EntityName   string
	Observations []string
}

// ObservationResult reports which facts actually changed for one entity.
type ObservationResult struct {
	EntityName string   `json:"entity_name"`
	Contents   []string `json:"contents"`
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so lookup helpers can run
// inside or outside a transaction.
type dbtx interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// resolveEntity looks up an entity by case-insensitive name within scope.
// Returns ok=false (not an error) when the name does not exist.
func resolveEntity(q dbtx, scope models.Scope, name string) (id, canonical string, ok bool, err error) {
	err = q.QueryRow(
		`SELECT id, name FROM entities WHERE user_id = ? AND project_id = ? AND name = ?`,
		scope.UserID, scope.ProjectID, name,
	).Scan(&id, &canonical)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("lookup entity %q: %w", name, err)
	}
	return id, canonical, true, nil
}

// CreateEntities finds-or-creates each named entity within scope and appends
// any new observations, tagging them with isUserEdit. The call is idempotent:
// entities and observations that already exist (case-insensitively) are left
// untouched. Returns the ensured entities with their full observation lists.
func (s *Store) CreateEntities(scope models.Scope, inputs []EntityInput, isUserEdit bool) ([]models.Entity, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var ensured []models.Entity

	for _, in := range inputs {
		_, err := tx.Exec(
			`INSERT INTO entities (id, user_id, project_id, name, entity_type)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, project_id, name) DO NOTHING`,
			uuid.New().String(), scope.UserID, scope.ProjectID, in.Name, in.EntityType,
		)
		if err != nil {
			return nil, fmt.Errorf("insert entity %q: %w", in.Name, err)
		}

		var e models.Entity
		err = tx.QueryRow(
			`SELECT id, name, entity_type, created_at FROM entities
			 WHERE user_id = ? AND project_id = ? AND name = ?`,
			scope.UserID, scope.ProjectID, in.Name,
		).Scan(&e.ID, &e.Name, &e.EntityType, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("read back entity %q: %w", in.Name, err)
		}

		for _, content := range in.Observations {
			_, err := tx.Exec(
				`INSERT INTO observations (id, entity_id, content, is_user_edit)
				 VALUES (?, ?, ?, ?)
				 ON CONFLICT(entity_id, content) DO NOTHING`,
				uuid.New().String(), e.ID, content, boolToInt(isUserEdit),
			)
			if err != nil {
				return nil, fmt.Errorf("insert observation for %q: %w", in.Name, err)
			}
		}

		ensured = append(ensured, e)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	for i := range ensured {
		obs, err := s.getObservations(ensured[i].ID)
		if err != nil {
			return nil, err
		}
		ensured[i].Observations = obs
	}
	return ensured, nil
}

// AddObservations appends facts to existing entities. Unknown entity names
// are silently skipped, as are facts the entity already has. Only entities
// that gained at least one new fact appear in the result.
func (s *Store) AddObservations(scope models.Scope, adds []ObservationAdd, isUserEdit bool) ([]ObservationResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var results []ObservationResult
	for _, add := range adds {
		entityID, canonical, ok, err := resolveEntity(tx, scope, add.EntityName)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var added []string
		for _, content := range add.Contents {
			res, err := tx.Exec(
				`INSERT INTO observations (id, entity_id, content, is_user_edit)
				 VALUES (?, ?, ?, ?)
				 ON CONFLICT(entity_id, content) DO NOTHING`,
				uuid.New().String(), entityID, content, boolToInt(isUserEdit),
			)
			if err != nil {
				return nil, fmt.Errorf("insert observation for %q: %w", add.EntityName, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				added = append(added, content)
			}
		}
		if len(added) > 0 {
			results = append(results, ObservationResult{EntityName: canonical, Contents: added})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return results, nil
}

// CreateRelations inserts directed relations between existing entities.
// Relations whose endpoints do not resolve within scope are silently
// dropped, as are duplicates. Returns only the relations newly persisted.
func (s *Store) CreateRelations(scope models.Scope, inputs []RelationInput) ([]models.Relation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var created []models.Relation
	for _, in := range inputs {
		fromID, fromName, ok, err := resolveEntity(tx, scope, in.From)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		toID, toName, ok, err := resolveEntity(tx, scope, in.To)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		relID := uuid.New().String()
		res, err := tx.Exec(
			`INSERT INTO relations (id, user_id, project_id, from_id, to_id, relation_type)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id, project_id, from_id, to_id, relation_type) DO NOTHING`,
			relID, scope.UserID, scope.ProjectID, fromID, toID, in.RelationType,
		)
		if err != nil {
			return nil, fmt.Errorf("insert relation: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}
		created = append(created, models.Relation{
			ID:           relID,
			From:         fromName,
			To:           toName,
			RelationType: in.RelationType,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	for i := range created {
		s.db.QueryRow(`SELECT created_at FROM relations WHERE id = ?`, created[i].ID).Scan(&created[i].CreatedAt)
	}
	return created, nil
}

// DeleteEntities removes the named entities along with their observations
// (FK cascade) and every relation touching them on either side. Unknown
// names are silently skipped. Returns the canonical names actually deleted.
func (s *Store) DeleteEntities(scope models.Scope, names []string) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var deleted []string
	for _, name := range names {
		entityID, canonical, ok, err := resolveEntity(tx, scope, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		if _, err := tx.Exec(
			`DELETE FROM relations WHERE from_id = ? OR to_id = ?`,
			entityID, entityID,
		); err != nil {
			return nil, fmt.Errorf("delete relations for %q: %w", name, err)
		}
		if _, err := tx.Exec(`DELETE FROM entities WHERE id = ?`, entityID); err != nil {
			return nil, fmt.Errorf("delete entity %q: %w", name, err)
		}
		deleted = append(deleted, canonical)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return deleted, nil
}

// DeleteObservations removes facts by exact (case-insensitive) content match.
// Unknown entities and non-matching contents are skipped; the result lists
// only what was actually removed.
func (s *Store) DeleteObservations(scope models.Scope, dels []ObservationDelete) ([]ObservationResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var results []ObservationResult
	for _, del := range dels {
		entityID, canonical, ok, err := resolveEntity(tx, scope, del.EntityName)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var removed []string
		for _, content := range del.Observations {
			res, err := tx.Exec(
				`DELETE FROM observations WHERE entity_id = ? AND content = ?`,
				entityID, content,
			)
			if err != nil {
				return nil, fmt.Errorf("delete observation for %q: %w", del.EntityName, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				removed = append(removed, content)
			}
		}
		if len(removed) > 0 {
			results = append(results, ObservationResult{EntityName: canonical, Contents: removed})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return results, nil
}

// DeleteRelations removes relations matching endpoint names and type
// (case-insensitive). Unresolvable endpoints are skipped; returns only the
// relations actually removed.
func (s *Store) DeleteRelations(scope models.Scope, inputs []RelationInput) ([]models.Relation, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var deleted []models.Relation
	for _, in := range inputs {
		fromID, fromName, ok, err := resolveEntity(tx, scope, in.From)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		toID, toName, ok, err := resolveEntity(tx, scope, in.To)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		res, err := tx.Exec(
			`DELETE FROM relations
			 WHERE user_id = ? AND project_id = ? AND from_id = ? AND to_id = ? AND relation_type = ?`,
			scope.UserID, scope.ProjectID, fromID, toID, in.RelationType,
		)
		if err != nil {
			return nil, fmt.Errorf("delete relation: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			deleted = append(deleted, models.Relation{
				From:         fromName,
				To:           toName,
				RelationType: in.RelationType,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return deleted, nil
}

// ReadGraph returns the complete graph for one scope: entities newest-first
// with their observations, relations newest-first with endpoint names
// resolved.
func (s *Store) ReadGraph(scope models.Scope) (*models.KnowledgeGraph, error) {
	rows, err := s.db.Query(
		`SELECT id, name, entity_type, created_at FROM entities
		 WHERE user_id = ? AND project_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		scope.UserID, scope.ProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var entities []models.Entity
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.EntityType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entities {
		obs, err := s.getObservations(entities[i].ID)
		if err != nil {
			return nil, err
		}
		entities[i].Observations = obs
	}

	relations, err := s.scopedRelations(scope)
	if err != nil {
		return nil, err
	}

	return &models.KnowledgeGraph{Entities: entities, Relations: relations}, nil
}

// OpenNodes fetches the named entities (input order preserved, unknown names
// skipped) together with the union of relations touching any of them.
func (s *Store) OpenNodes(scope models.Scope, names []string) (*models.KnowledgeGraph, error) {
	var entities []models.Entity
	var ids []any
	for _, name := range names {
		id, _, ok, err := resolveEntity(s.db, scope, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		var e models.Entity
		err = s.db.QueryRow(
			`SELECT id, name, entity_type, created_at FROM entities WHERE id = ?`, id,
		).Scan(&e.ID, &e.Name, &e.EntityType, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("load entity %q: %w", name, err)
		}
		obs, err := s.getObservations(e.ID)
		if err != nil {
			return nil, err
		}
		e.Observations = obs
		entities = append(entities, e)
		ids = append(ids, e.ID)
	}

	var relations []models.Relation
	if len(ids) > 0 {
		placeholders := strings.Repeat("?,", len(ids))
		placeholders = placeholders[:len(placeholders)-1]

		args := []any{scope.UserID, scope.ProjectID}
		args = append(args, ids...)
		args = append(args, ids...)

		rows, err := s.db.Query(
			fmt.Sprintf(
				`SELECT ef.name, et.name, r.relation_type, r.created_at
				 FROM relations r
				 JOIN entities ef ON ef.id = r.from_id
				 JOIN entities et ON et.id = r.to_id
				 WHERE r.user_id = ? AND r.project_id = ?
				   AND (r.from_id IN (%s) OR r.to_id IN (%s))
				 ORDER BY r.created_at DESC, r.rowid DESC`,
				placeholders, placeholders,
			),
			args...,
		)
		if err != nil {
			return nil, fmt.Errorf("query relations: %w", err)
		}
		defer rows.Close()

		seen := make(map[string]bool)
		for rows.Next() {
			var r models.Relation
			if err := rows.Scan(&r.From, &r.To, &r.RelationType, &r.CreatedAt); err != nil {
				return nil, fmt.Errorf("scan relation: %w", err)
			}
			key := r.From + "\x00" + r.RelationType + "\x00" + r.To
			if seen[key] {
				continue
			}
			seen[key] = true
			relations = append(relations, r)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	return &models.KnowledgeGraph{Entities: entities, Relations: relations}, nil
}

// scopedRelations loads all relations for one scope with endpoint names
// resolved, newest first. Written as its own statement rather than derived
// from the entity-scope clause.
func (s *Store) scopedRelations(scope models.Scope) ([]models.Relation, error) {
	rows, err := s.db.Query(
		`SELECT r.id, ef.name, et.name, r.relation_type, r.created_at
		 FROM relations r
		 JOIN entities ef ON ef.id = r.from_id
		 JOIN entities et ON et.id = r.to_id
		 WHERE r.user_id = ? AND r.project_id = ?
		 ORDER BY r.created_at DESC, r.rowid DESC`,
		scope.UserID, scope.ProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	defer rows.Close()

	var relations []models.Relation
	for rows.Next() {
		var r models.Relation
		if err := rows.Scan(&r.ID, &r.From, &r.To, &r.RelationType, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		relations = append(relations, r)
	}
	return relations, rows.Err()
}

// getObservations loads all observations for an entity, oldest first.
func (s *Store) getObservations(entityID string) ([]models.Observation, error) {
	rows, err := s.db.Query(
		`SELECT id, entity_id, content, is_user_edit, created_at, updated_at
		 FROM observations WHERE entity_id = ?
		 ORDER BY created_at, rowid`,
		entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var obs []models.Observation
	for rows.Next() {
		var o models.Observation
		var userEdit int
		if err := rows.Scan(&o.ID, &o.EntityID, &o.Content, &userEdit, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		o.IsUserEdit = userEdit != 0
		obs = append(obs, o)
	}
	return obs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
