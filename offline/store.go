package offline

import (
	"context"
	"errors"
	"sync"
)

var errNilEntry = errors.New("offline: nil entry")

// MemoryStore is a Store kept in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]*Entry)}
}

func (s *MemoryStore) Match(_ context.Context, k Key) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[k]
	return e, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, e *Entry) error {
	if e == nil {
		return errNilEntry
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Key] = e
	return nil
}

func (s *MemoryStore) PutAll(_ context.Context, ee []*Entry) error {
	for _, e := range ee {
		if e == nil {
			return errNilEntry
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range ee {
		s.entries[e.Key] = e
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
