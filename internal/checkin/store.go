package checkin

import (
	"context"
	"time"
)

// Store persists check-in tokens.
//
// Error contract: FindByValue returns sentinel.ErrNotFound (wrapped) for
// unknown values; Revoke reports how many tokens it actually flagged.
type Store interface {
	Create(ctx context.Context, token *Token) error
	FindByValue(ctx context.Context, value string) (*Token, error)
	Revoke(ctx context.Context, values []string, at time.Time) (int, error)
}
