package storage

import (
	"database/sql"
	"fmt"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
)

// graphCounts returns the live entity count and total observation count for
// one scope. These are the drift signal for summary staleness.
func (s *Store) graphCounts(scope models.Scope) (entities, observations int, err error) {
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM entities WHERE user_id = ? AND project_id = ?`,
		scope.UserID, scope.ProjectID,
	).Scan(&entities)
	if err != nil {
		return 0, 0, fmt.Errorf("count entities: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM observations o
		 JOIN entities e ON e.id = o.entity_id
		 WHERE e.user_id = ? AND e.project_id = ?`,
		scope.UserID, scope.ProjectID,
	).Scan(&observations)
	if err != nil {
		return 0, 0, fmt.Errorf("count observations: %w", err)
	}
	return entities, observations, nil
}

// SaveSummary upserts the one cached digest for this scope, recording the
// graph's current entity and observation counts alongside it.
func (s *Store) SaveSummary(scope models.Scope, content string) error {
	entities, observations, err := s.graphCounts(scope)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO summaries (user_id, project_id, content, generated_at, entity_count, observation_count)
		 VALUES (?, ?, ?, datetime('now'), ?, ?)
		 ON CONFLICT(user_id, project_id) DO UPDATE SET
		     content = excluded.content,
		     generated_at = excluded.generated_at,
		     entity_count = excluded.entity_count,
		     observation_count = excluded.observation_count`,
		scope.UserID, scope.ProjectID, content, entities, observations,
	)
	if err != nil {
		return fmt.Errorf("upsert summary: %w", err)
	}
	return nil
}

// GetSummary returns the cached digest for this scope, or nil if none exists.
func (s *Store) GetSummary(scope models.Scope) (*models.Summary, error) {
	var sum models.Summary
	err := s.db.QueryRow(
		`SELECT content, generated_at, entity_count, observation_count
		 FROM summaries WHERE user_id = ? AND project_id = ?`,
		scope.UserID, scope.ProjectID,
	).Scan(&sum.Content, &sum.GeneratedAt, &sum.EntityCount, &sum.ObservationCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return &sum, nil
}

// IsSummaryStale reports whether the cached digest has drifted from the live
// graph: true when no summary exists or when the entity or observation count
// no longer matches the counts recorded at generation time.
func (s *Store) IsSummaryStale(scope models.Scope) (bool, error) {
	sum, err := s.GetSummary(scope)
	if err != nil {
		return false, err
	}
	if sum == nil {
		return true, nil
	}

	entities, observations, err := s.graphCounts(scope)
	if err != nil {
		return false, err
	}
	return entities != sum.EntityCount || observations != sum.ObservationCount, nil
}

// DeleteSummary removes the cached digest. Reports whether one existed.
func (s *Store) DeleteSummary(scope models.Scope) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM summaries WHERE user_id = ? AND project_id = ?`,
		scope.UserID, scope.ProjectID,
	)
	if err != nil {
		return false, fmt.Errorf("delete summary: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
