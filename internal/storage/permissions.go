package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// LegacyConnector is the connector key for the pre-per-connector global
// permission level. ConnectorLevel falls back to it when a user has no
// record for the requested connector.
const LegacyConnector = "*"

// ConnectorLevel returns the stored permission level for (user, connector),
// falling back to the legacy global level, then to 0. Reads never persist
// the default.
func (s *Store) ConnectorLevel(userID, connector string) (int, error) {
	var level int
	err := s.db.QueryRow(
		`SELECT level FROM connector_permissions WHERE user_id = ? AND connector = ?`,
		userID, connector,
	).Scan(&level)
	if err == nil {
		return level, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("get connector level: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT level FROM connector_permissions WHERE user_id = ? AND connector = ?`,
		userID, LegacyConnector,
	).Scan(&level)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get legacy level: %w", err)
	}
	return level, nil
}

// SetConnectorLevel upserts the permission level for (user, connector).
func (s *Store) SetConnectorLevel(userID, connector string, level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("level %d out of range 0-3", level)
	}
	_, err := s.db.Exec(
		`INSERT INTO connector_permissions (user_id, connector, level, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(user_id, connector) DO UPDATE SET
		     level = excluded.level,
		     updated_at = excluded.updated_at`,
		userID, connector, level,
	)
	if err != nil {
		return fmt.Errorf("set connector level: %w", err)
	}
	return nil
}

// VacationUntil returns the end of the user's vacation window, or nil when
// none is set.
func (s *Store) VacationUntil(userID string) (*time.Time, error) {
	var raw sql.NullString
	err := s.db.QueryRow(
		`SELECT vacation_until FROM user_settings WHERE user_id = ?`, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get vacation window: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	until, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return nil, fmt.Errorf("parse vacation window %q: %w", raw.String, err)
	}
	return &until, nil
}

// SetVacationUntil sets (or clears, when until is nil) the user's vacation
// window.
func (s *Store) SetVacationUntil(userID string, until *time.Time) error {
	var raw any
	if until != nil {
		raw = until.UTC().Format(time.RFC3339)
	}
	_, err := s.db.Exec(
		`INSERT INTO user_settings (user_id, vacation_until) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET vacation_until = excluded.vacation_until`,
		userID, raw,
	)
	if err != nil {
		return fmt.Errorf("set vacation window: %w", err)
	}
	return nil
}
