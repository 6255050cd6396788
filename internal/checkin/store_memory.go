package checkin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"emarge/pkg/platform/sentinel"
)

// InMemoryStore keeps check-in tokens in memory for tests/dev.
type InMemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]*Token
}

// NewInMemoryStore constructs an empty in-memory token store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tokens: make(map[string]*Token)}
}

func (s *InMemoryStore) Create(_ context.Context, token *Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[token.Value]; ok {
		return fmt.Errorf("token value taken: %w", sentinel.ErrConflict)
	}
	copied := *token
	s.tokens[token.Value] = &copied
	return nil
}

func (s *InMemoryStore) FindByValue(_ context.Context, value string) (*Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[value]
	if !ok {
		return nil, fmt.Errorf("check-in token: %w", sentinel.ErrNotFound)
	}
	copied := *token
	return &copied, nil
}

func (s *InMemoryStore) Revoke(_ context.Context, values []string, _ time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	revoked := 0
	for _, value := range values {
		if token, ok := s.tokens[value]; ok && !token.Revoked {
			token.Revoked = true
			revoked++
		}
	}
	return revoked, nil
}
