// Package state holds the latest game-state snapshot pushed for each lobby
// code. Snapshots are opaque JSON blobs, overwritten wholesale on every push,
// and independent of lobby membership: a lobby may empty out while its
// snapshot stays queryable.
package state

import (
	"encoding/json"
	"sync"
)

// Store is safe for concurrent use; the HTTP query surface reads it while the
// relay engine writes.
type Store struct {
	mu     sync.RWMutex
	byCode map[string]json.RawMessage
}

func NewStore() *Store {
	return &Store{byCode: make(map[string]json.RawMessage)}
}

// Put overwrites the snapshot for code.
func (s *Store) Put(code string, snapshot json.RawMessage) {
	s.mu.Lock()
	s.byCode[code] = snapshot
	s.mu.Unlock()
}

// Get returns the current snapshot for code, if one was ever pushed.
func (s *Store) Get(code string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byCode[code]
	return snap, ok
}

// Has reports whether a snapshot exists for code.
func (s *Store) Has(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byCode[code]
	return ok
}
