package server

import (
	"sync"

	"github.com/aljab017/ill-router/pkg/core/services"
)

const defaultMaxSessions = 1000

// sessionStore keeps the most recent route sessions in memory.
// When full, the oldest session is evicted.
type sessionStore struct {
	mu       sync.Mutex
	max      int
	sessions map[string]*services.RouteSession
	order    []string
}

func newSessionStore(max int) *sessionStore {
	if max <= 0 {
		max = defaultMaxSessions
	}
	return &sessionStore{
		max:      max,
		sessions: make(map[string]*services.RouteSession),
	}
}

func (s *sessionStore) put(session *services.RouteSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID()]; ok {
		return
	}

	if len(s.order) >= s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.sessions, oldest)
	}

	s.sessions[session.ID()] = session
	s.order = append(s.order, session.ID())
}

func (s *sessionStore) get(id string) (*services.RouteSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	return session, ok
}

func (s *sessionStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
