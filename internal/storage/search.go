package storage

import (
	"fmt"
	"sort"
	"strings"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
)

// Relevance weights for SearchNodes. Full-query hits on the entity name
// outrank observation hits, which outrank entity-type hits; short tokens
// (len <= 2) are ignored to keep stopwords from matching everything.
const (
	scoreNameMatch = 10
	scoreObsMatch  = 8
	scoreTypeMatch = 5
	scoreNameToken = 3
	scoreObsToken  = 2
)

// DefaultSearchLimit caps SearchNodes results when the caller passes no limit.
const DefaultSearchLimit = 10

// SearchNodes scores every entity in scope against the query and returns the
// top matches, highest score first. Ties keep insertion order. Entities that
// score zero are excluded.
func (s *Store) SearchNodes(scope models.Scope, query string, limit int) ([]models.Entity, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	rows, err := s.db.Query(
		`SELECT id, name, entity_type, created_at FROM entities
		 WHERE user_id = ? AND project_id = ?
		 ORDER BY rowid`,
		scope.UserID, scope.ProjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("query entities: %w", err)
	}
	defer rows.Close()

	var candidates []models.Entity
	for rows.Next() {
		var e models.Entity
		if err := rows.Scan(&e.ID, &e.Name, &e.EntityType, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		candidates = append(candidates, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	tokens := queryTokens(q)

	type scored struct {
		entity models.Entity
		score  int
	}
	var matches []scored

	for _, e := range candidates {
		obs, err := s.getObservations(e.ID)
		if err != nil {
			return nil, err
		}
		e.Observations = obs

		score := scoreEntity(e, q, tokens)
		if score == 0 {
			continue
		}
		matches = append(matches, scored{entity: e, score: score})
	}

	// Stable sort preserves insertion order for equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	results := make([]models.Entity, len(matches))
	for i, m := range matches {
		results[i] = m.entity
	}
	return results, nil
}

// scoreEntity computes the lexical relevance of one entity. q and tokens
// must already be lowercased.
func scoreEntity(e models.Entity, q string, tokens []string) int {
	if q == "" {
		return 0
	}

	name := strings.ToLower(e.Name)
	entityType := strings.ToLower(e.EntityType)

	score := 0
	if strings.Contains(name, q) {
		score += scoreNameMatch
	}
	if strings.Contains(entityType, q) {
		score += scoreTypeMatch
	}
	for _, o := range e.Observations {
		if strings.Contains(strings.ToLower(o.Content), q) {
			score += scoreObsMatch
			break
		}
	}

	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			score += scoreNameToken
		}
		for _, o := range e.Observations {
			if strings.Contains(strings.ToLower(o.Content), tok) {
				score += scoreObsToken
				break
			}
		}
	}
	return score
}

// queryTokens splits a lowercased query into scoring tokens, dropping any of
// length <= 2.
func queryTokens(q string) []string {
	var tokens []string
	for _, tok := range strings.Fields(q) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
