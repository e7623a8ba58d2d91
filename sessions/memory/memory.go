// Package memory provides the in-memory reference implementation of
// sessions.Store. Bindings live for the process lifetime; there is no
// eviction, expiry, or persistence.
package memory

import (
	"context"
	"sync"

	"github.com/finvel/fingate/sessions"
)

var _ sessions.Store = (*Store)(nil)

// Store is a mutex-guarded token→subject map. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu       sync.RWMutex
	subjects map[string]string
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{subjects: make(map[string]string)}
}

// Register binds token to subject, overwriting any prior binding.
func (s *Store) Register(ctx context.Context, token string, subject string) error {
	s.mu.Lock()
	s.subjects[token] = subject
	s.mu.Unlock()
	return nil
}

// Resolve returns the subject bound to token, or sessions.ErrTokenNotFound.
func (s *Store) Resolve(ctx context.Context, token string) (string, error) {
	s.mu.RLock()
	subject, ok := s.subjects[token]
	s.mu.RUnlock()
	if !ok {
		return "", sessions.ErrTokenNotFound
	}
	return subject, nil
}

// Len reports the number of registered tokens.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subjects)
}
