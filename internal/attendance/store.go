package attendance

import (
	"context"

	"github.com/google/uuid"
)

type Store interface {
	// Insert persists a record. It returns sentinel.ErrConflict when the
	// participant already holds a record for the same session, or for the
	// same event when neither record names a session.
	Insert(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
