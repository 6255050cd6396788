package attendance

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"emarge/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
	keys    map[string]uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[uuid.UUID]*Record),
		keys:    make(map[string]uuid.UUID),
	}
}

func uniqueKey(rec *Record) string {
	if rec.SessionID != nil {
		return rec.ParticipantID.String() + "/session/" + rec.SessionID.String()
	}
	return rec.ParticipantID.String() + "/event/" + rec.EventID.String()
}

func (s *InMemoryStore) Insert(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := uniqueKey(rec)
	if _, taken := s.keys[key]; taken {
		return fmt.Errorf("attendance for %s: %w", key, sentinel.ErrConflict)
	}
	cp := *rec
	s.records[cp.ID] = &cp
	s.keys[key] = cp.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("attendance %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (s *InMemoryStore) ListByEvent(_ context.Context, eventID uuid.UUID) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for _, rec := range s.records {
		if rec.EventID == eventID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CheckedInAt.Before(out[j].CheckedInAt)
	})
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("attendance %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.keys, uniqueKey(rec))
	delete(s.records, id)
	return nil
}
