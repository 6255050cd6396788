package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists notification items.
//
// Error contract: methods return sentinel.ErrNotFound (wrapped) when the item
// does not exist and wrapped infrastructure errors otherwise.
type Store interface {
	Create(ctx context.Context, item *Item) error
	List(ctx context.Context, filter Filter, page, limit int) ([]*Item, int, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkAllRead(ctx context.Context, at time.Time) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
