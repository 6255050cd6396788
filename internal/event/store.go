package event

import (
	"context"

	"github.com/google/uuid"
)

// Store persists events and their sessions.
//
// Error contract: FindByID/FindSession return sentinel.ErrNotFound (wrapped)
// on a miss; mutations on a missing row return the same.
type Store interface {
	Create(ctx context.Context, ev *Event) error
	CreateSession(ctx context.Context, sess *Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*Event, error)
	FindSession(ctx context.Context, id uuid.UUID) (*Session, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateSessionStatus(ctx context.Context, id uuid.UUID, status SessionStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}
