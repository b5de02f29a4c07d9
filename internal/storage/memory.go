package storage

import (
	"errors"
	"sync"
)

var ErrInjected = errors.New("storage unavailable")

// MemoryStore is an in-process Store. The Fail* switches make the next
// operations of that kind return ErrInjected.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	FailGet    bool
	FailSet    bool
	FailDelete bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGet {
		return "", false, ErrInjected
	}
	val, ok := s.values[key]
	return val, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet {
		return ErrInjected
	}
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete {
		return ErrInjected
	}
	delete(s.values, key)
	return nil
}
