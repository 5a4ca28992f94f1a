package state

import "sync"

// Stash is a keyed per-user side store for data that must survive across a
// flow boundary, outside the session payload. It follows the same per-key
// atomic access discipline as the session manager.
type Stash struct {
	mu sync.RWMutex
	m  map[int64][]string
}

// NewStash constructs an empty Stash.
func NewStash() *Stash {
	return &Stash{m: make(map[int64][]string)}
}

// Put stores values for a user, replacing any previous entry.
func (s *Stash) Put(userID int64, values []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[userID] = append([]string(nil), values...)
}

// Get returns the stored values for a user, if any.
func (s *Stash) Get(userID int64) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[userID]
	return v, ok
}

// Clear removes the entry for a user.
func (s *Stash) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, userID)
}
