package session

import (
	"fmt"
	"sync"

	"github.com/IAMSamuelRodda/zero-agent-sub002/internal/models"
)

// Session holds the resolved caller identity for one MCP session: the user
// and the optional project whose scope every memory operation runs under.
type Session struct {
	mu     sync.Mutex
	scope  models.Scope
	active bool
}

// New creates an empty session with no scope set.
func New() *Session {
	return &Session{}
}

// SetScope binds the session to a user and optional project. The user id is
// required; an empty project id selects the general scope.
func (s *Session) SetScope(userID, projectID string) (models.Scope, error) {
	if userID == "" {
		return models.Scope{}, fmt.Errorf("user id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = models.Scope{UserID: userID, ProjectID: projectID}
	s.active = true
	return s.scope, nil
}

// Scope returns the current scope. ok is false until SetScope has been
// called.
func (s *Session) Scope() (scope models.Scope, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope, s.active
}

// Clear resets the session to its unscoped state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = models.Scope{}
	s.active = false
}
