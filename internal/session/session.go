package session

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/mehrbod2002/fxmobile/internal/storage"
)

var (
	ErrEmptyToken = errors.New("token must not be empty")
	ErrPersist    = errors.New("session storage failed")
)

// Session owns the auth token and keeps it in step with device storage.
// Login and Logout write storage first and only change the in-memory token
// once the write succeeded.
type Session struct {
	store storage.Store

	mu      sync.RWMutex
	token   string
	loading bool
}

func New(store storage.Store) *Session {
	return &Session{store: store, loading: true}
}

// Load reads the persisted token. A read failure is logged and leaves the
// session unauthenticated.
func (s *Session) Load() {
	token, ok, err := s.store.Get(storage.KeyAuthToken)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		log.Printf("Failed to load session token: %v", err)
		return
	}
	if ok && token != "" {
		s.token = token
	}
}

func (s *Session) Login(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.store.Set(storage.KeyAuthToken, token); err != nil {
		log.Printf("Failed to persist session token: %v", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Logout is a no-op when no token is held.
func (s *Session) Logout() error {
	if err := s.store.Delete(storage.KeyAuthToken); err != nil {
		log.Printf("Failed to remove session token: %v", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
