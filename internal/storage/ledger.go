package storage

import (
	"fmt"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
)

// The user-edit ledger is the read/delete view over observations the user
// explicitly asked to be remembered (is_user_edit = 1), joined back to their
// entity's name. It lets a "what have you told me to remember" surface be
// listed and edited without touching inferred facts.

// ListUserEdits returns all explicitly requested facts in scope, newest first.
func (s *Store) ListUserEdits(scope models.Scope) ([]models.UserEdit, error) {
	rows, err := s.db.Query(
		`SELECT e.name, o.content, o.created_at
		 FROM observations o
		 JOIN entities e ON e.id = o.entity_id
		 WHERE e.user_id = ? AND e.project_id = ? AND o.is_user_edit = 1
		 ORDER BY o.created_at DESC, o.rowid DESC`,
		scope.UserID, scope.ProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user edits: %w", err)
	}
	defer rows.Close()

	var edits []models.UserEdit
	for rows.Next() {
		var ed models.UserEdit
		if err := rows.Scan(&ed.EntityName, &ed.Content, &ed.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user edit: %w", err)
		}
		edits = append(edits, ed)
	}
	return edits, rows.Err()
}

// DeleteUserEdit removes one explicitly requested fact by exact
// (case-insensitive) entity name and content. Reports whether a row matched.
func (s *Store) DeleteUserEdit(scope models.Scope, entityName, content string) (bool, error) {
	entityID, _, ok, err := resolveEntity(s.db, scope, entityName)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	res, err := s.db.Exec(
		`DELETE FROM observations WHERE entity_id = ? AND content = ? AND is_user_edit = 1`,
		entityID, content,
	)
	if err != nil {
		return false, fmt.Errorf("delete user edit: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ClearUserEdits removes every explicitly requested fact in scope and
// returns how many were removed.
func (s *Store) ClearUserEdits(scope models.Scope) (int64, error) {
	res, err := s.db.Exec(
		`DELETE FROM observations
		 WHERE is_user_edit = 1 AND entity_id IN (
		     SELECT id FROM entities WHERE user_id = ? AND project_id = ?
		 )`,
		scope.UserID, scope.ProjectID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear user edits: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// CountUserEdits returns the number of explicitly requested facts in scope.
func (s *Store) CountUserEdits(scope models.Scope) (int64, error) {
	var n int64
	err := s.db.QueryRow(
		`SELECT COUNT(*)
		 FROM observations o
		 JOIN entities e ON e.id = o.entity_id
		 WHERE e.user_id = ? AND e.project_id = ? AND o.is_user_edit = 1`,
		scope.UserID, scope.ProjectID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count user edits: %w", err)
	}
	return n, nil
}
