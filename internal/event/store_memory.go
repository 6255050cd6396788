package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"emarge/pkg/platform/sentinel"
)

// InMemoryStore keeps events and sessions in memory for tests/dev.
type InMemoryStore struct {
	mu       sync.RWMutex
	events   map[uuid.UUID]*Event
	sessions map[uuid.UUID]*Session
}

// NewInMemoryStore constructs an empty in-memory event store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		events:   make(map[uuid.UUID]*Event),
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (s *InMemoryStore) Create(_ context.Context, ev *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *ev
	s.events[ev.ID] = &copied
	return nil
}

func (s *InMemoryStore) CreateSession(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[sess.EventID]; !ok {
		return fmt.Errorf("event %s: %w", sess.EventID, sentinel.ErrNotFound)
	}
	copied := *sess
	s.sessions[sess.ID] = &copied
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *ev
	return &copied, nil
}

func (s *InMemoryStore) FindSession(_ context.Context, id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *sess
	return &copied, nil
}

func (s *InMemoryStore) UpdateStatus(_ context.Context, id uuid.UUID, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, sentinel.ErrNotFound)
	}
	ev.Status = status
	return nil
}

func (s *InMemoryStore) UpdateSessionStatus(_ context.Context, id uuid.UUID, status SessionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	sess.Status = status
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.events, id)
	for sessID, sess := range s.sessions {
		if sess.EventID == id {
			delete(s.sessions, sessID)
		}
	}
	return nil
}
