package notification

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"emarge/pkg/platform/sentinel"
)

// InMemoryStore keeps notifications in memory for tests/dev.
type InMemoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Item
}

// NewInMemoryStore constructs an empty in-memory notification store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{items: make(map[uuid.UUID]*Item)}
}

func (s *InMemoryStore) Create(_ context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter Filter, page, limit int) ([]*Item, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*Item
	for _, item := range s.items {
		if filter.UnreadOnly && item.ReadAt != nil {
			continue
		}
		matched = append(matched, item)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	offset := (page - 1) * limit
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	out := make([]*Item, 0, end-offset)
	for _, item := range matched[offset:end] {
		copied := *item
		out = append(out, &copied)
	}
	return out, total, nil
}

func (s *InMemoryStore) CountUnread(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, item := range s.items {
		if item.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) MarkRead(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
	}
	if item.ReadAt == nil {
		item.ReadAt = &at
	}
	return nil
}

func (s *InMemoryStore) MarkAllRead(_ context.Context, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, item := range s.items {
		if item.ReadAt == nil {
			item.ReadAt = &at
			updated++
		}
	}
	return updated, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}
