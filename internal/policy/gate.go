package policy

import (
	"fmt"
	"time"
)

// PermissionReader is the narrow repository view the gate needs: stored
// per-connector levels and the user's vacation window. The gate never
// writes through it.
type PermissionReader interface {
	ConnectorLevel(userID, connector string) (int, error)
	VacationUntil(userID string) (*time.Time, error)
}

// Decision is the gate's answer for one (user, tool) pair. Denials are
// ordinary values, not errors; Reason is meant to be shown to the end user
// verbatim.
type Decision struct {
	Allowed       bool      `json:"allowed"`
	Connector     Connector `json:"connector,omitempty"`
	RequiredLevel *Level    `json:"required_level,omitempty"`
	CurrentLevel  *Level    `json:"current_level,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	VacationMode  bool      `json:"is_vacation_mode,omitempty"`
}

// Gate decides tool permissions. It is read-only with respect to stored
// state and safe for concurrent use.
type Gate struct {
	perms PermissionReader
	now   func() time.Time
}

// NewGate builds a gate over the given permission repository.
func NewGate(perms PermissionReader) *Gate {
	return &Gate{perms: perms, now: time.Now}
}

// CheckToolPermission decides whether userID may run toolName. Tools absent
// from the tool table are always allowed. Vacation mode is a hard ceiling at
// level 0: while active, any tool requiring more than read-only access is
// denied regardless of the stored level.
func (g *Gate) CheckToolPermission(userID, toolName string) (Decision, error) {
	rule, ok := Lookup(toolName)
	if !ok {
		return Decision{Allowed: true}, nil
	}

	required := rule.Level

	until, err := g.perms.VacationUntil(userID)
	if err != nil {
		return Decision{}, err
	}
	if until != nil && until.After(g.now()) && required > LevelRead {
		return Decision{
			Allowed:       false,
			Connector:     rule.Connector,
			RequiredLevel: &required,
			VacationMode:  true,
			Reason: fmt.Sprintf(
				"Vacation mode is active until %s: only read-only tools are available.",
				until.Format(time.RFC3339),
			),
		}, nil
	}

	stored, err := g.perms.ConnectorLevel(userID, string(rule.Connector))
	if err != nil {
		return Decision{}, err
	}
	current := Level(stored)

	if current < required {
		return Decision{
			Allowed:       false,
			Connector:     rule.Connector,
			RequiredLevel: &required,
			CurrentLevel:  &current,
			Reason: fmt.Sprintf(
				"%s requires %s access (level %d) on %s, but your current level is %s (level %d).",
				toolName, required, int(required), rule.Connector, current, int(current),
			),
		}, nil
	}

	return Decision{
		Allowed:       true,
		Connector:     rule.Connector,
		RequiredLevel: &required,
		CurrentLevel:  &current,
	}, nil
}

// VisibleTools filters candidates down to the tools the user's current
// levels and vacation state permit, without executing anything. Order is
// preserved.
func (g *Gate) VisibleTools(userID string, candidates []string) ([]string, error) {
	var allowed []string
	for _, name := range candidates {
		d, err := g.CheckToolPermission(userID, name)
		if err != nil {
			return nil, err
		}
		if d.Allowed {
			allowed = append(allowed, name)
		}
	}
	return allowed, nil
}
