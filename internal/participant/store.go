package participant

import (
	"context"

	"github.com/google/uuid"
)

// ContactUpdate carries the mutable profile fields refreshed on every
// successful identity match. Empty values are ignored so a later submission
// never blanks out data an earlier one provided.
type ContactUpdate struct {
	Phone          string
	Organization   string
	Function       string
	OriginLocality string
}

type Store interface {
	// Insert persists a new participant. It returns false without error when
	// a concurrent insert already claimed one of the identity keys; callers
	// re-lookup and treat that as a match.
	Insert(ctx context.Context, p *Participant) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Participant, error)
	// FindByCNI and FindByEmail match against the normalized key columns.
	FindByCNI(ctx context.Context, cni string) (*Participant, error)
	FindByEmail(ctx context.Context, email string) (*Participant, error)
	UpdateContact(ctx context.Context, id uuid.UUID, c ContactUpdate) error
}
