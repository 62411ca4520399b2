// Package memory holds a process-local session store for development runs
// without Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

type entry struct {
	session domain.Session
	role    domain.Role
	marked  bool
}

// SessionStore is safe for concurrent use. Sessions are lost on restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
}

// Create also drops every expired session, so the map only holds sessions
// that could still authenticate.
func (s *SessionStore) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.sessions[session.ID] = &entry{session: *session}
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.live(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	sess := e.session
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) DeleteByUserID(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.sessions {
		if e.session.UserID == userID {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}

func (s *SessionStore) RoleMarker(_ context.Context, id string) (domain.Role, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.live(id)
	if !ok || !e.marked {
		return domain.RoleNone, false, nil
	}
	return e.role, true, nil
}

func (s *SessionStore) SetRoleMarker(_ context.Context, id string, role domain.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.live(id); ok {
		e.role = role
		e.marked = true
	}
	return nil
}

// live must be called with mu held.
func (s *SessionStore) live(id string) (*entry, bool) {
	e, ok := s.sessions[id]
	if !ok || e.session.IsExpired(s.now()) {
		return nil, false
	}
	return e, true
}

// prune must be called with mu held for writing.
func (s *SessionStore) prune() {
	now := s.now()
	for id, e := range s.sessions {
		if e.session.IsExpired(now) {
			delete(s.sessions, id)
		}
	}
}
