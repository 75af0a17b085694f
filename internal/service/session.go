package service

import (
	"sync"

	"bucketlist/internal/models"
)

// Session is the single-slot record of the currently authenticated account.
// It holds only the public projection, never credentials. Login/registration
// set it, logout and account deletion clear it. Watchers are signalled on
// every change so dependent streams can re-scope themselves.
type Session struct {
	mu       sync.RWMutex
	current  *models.SessionUser
	nextID   int
	watchers map[int]chan struct{}
}

func NewSession() *Session {
	return &Session{watchers: make(map[int]chan struct{})}
}

// Current returns the session projection and whether a session exists.
func (s *Session) Current() (models.SessionUser, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return models.SessionUser{}, false
	}
	return *s.current, true
}

// Username returns the owner scope for queries; empty when no session.
func (s *Session) Username() string {
	u, ok := s.Current()
	if !ok {
		return ""
	}
	return u.Username
}

// Set replaces the session with u.
func (s *Session) Set(u models.SessionUser) {
	s.mu.Lock()
	s.current = &u
	s.notifyLocked()
	s.mu.Unlock()
}

// Clear empties the session unconditionally.
func (s *Session) Clear() {
	s.mu.Lock()
	s.current = nil
	s.notifyLocked()
	s.mu.Unlock()
}

// Mutate applies f to the current projection and reports whether a session
// existed. Used to mirror remote field updates (theme, avatar, username).
func (s *Session) Mutate(f func(*models.SessionUser)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	f(s.current)
	s.notifyLocked()
	return true
}

// Watch registers a change signal. The channel carries no payload; receivers
// read Current after each signal. Signals coalesce (capacity 1, latest wins).
// The returned cancel must be called to release the watcher.
func (s *Session) Watch() (<-chan struct{}, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan struct{}, 1)
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) notifyLocked() {
	for _, ch := range s.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
