package auth

import (
	"sync"

	"github.com/sohbetapp/sohbet-server/internal/models"
)

// Sessions holds the authenticated identity of one client and fans session
// changes out to observers. It is constructed explicitly and passed where
// needed; there is no process-wide singleton.
type Sessions struct {
	mu        sync.Mutex
	current   *models.User
	nextID    int
	observers map[int]func(*models.User)
}

func NewSessions() *Sessions {
	return &Sessions{observers: make(map[int]func(*models.User))}
}

// Current returns the signed-in user, or nil when signed out.
func (s *Sessions) Current() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Observe registers fn, invokes it once immediately with the current session
// (nil when signed out) and again on every later sign-in or sign-out. The
// returned cancel func is safe to call more than once.
func (s *Sessions) Observe(fn func(*models.User)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Sessions) set(u *models.User) {
	s.mu.Lock()
	s.current = u
	fns := make([]func(*models.User), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(u)
	}
}
