package participant

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"emarge/pkg/platform/sentinel"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Participant
	byCNI   map[string]uuid.UUID
	byEmail map[string]uuid.UUID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[uuid.UUID]*Participant),
		byCNI:   make(map[string]uuid.UUID),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *InMemoryStore) Insert(_ context.Context, p *Participant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cni, email := p.IdentityKeys()
	if cni != "" {
		if _, taken := s.byCNI[cni]; taken {
			return false, nil
		}
	}
	if email != "" {
		if _, taken := s.byEmail[email]; taken {
			return false, nil
		}
	}

	cp := *p
	s.byID[cp.ID] = &cp
	if cni != "" {
		s.byCNI[cni] = cp.ID
	}
	if email != "" {
		s.byEmail[email] = cp.ID
	}
	return true, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id uuid.UUID) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("participant %s: %w", id, sentinel.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *InMemoryStore) FindByCNI(_ context.Context, cni string) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCNI[cni]
	if !ok {
		return nil, fmt.Errorf("participant by cni: %w", sentinel.ErrNotFound)
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("participant by email: %w", sentinel.ErrNotFound)
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *InMemoryStore) UpdateContact(_ context.Context, id uuid.UUID, c ContactUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("participant %s: %w", id, sentinel.ErrNotFound)
	}
	if c.Phone != "" {
		p.Phone = c.Phone
	}
	if c.Organization != "" {
		p.Organization = c.Organization
	}
	if c.Function != "" {
		p.Function = c.Function
	}
	if c.OriginLocality != "" {
		p.OriginLocality = c.OriginLocality
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}
