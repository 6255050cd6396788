package participant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"emarge/internal/platform/metrics"
	dErrors "emarge/pkg/domain-errors"
	"emarge/pkg/platform/sentinel"
)

// Candidate is the identity a check-in submission claims.
type Candidate struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	CNINumber      string
	Organization   string
	Function       string
	OriginLocality string
}

// Resolution reports which participant a candidate resolved to and whether a
// new record had to be created for it.
type Resolution struct {
	Participant *Participant
	Created     bool
}

// Service matches candidates to existing participants or creates new ones.
// Matching precedence is CNI number first, then normalized email; candidates
// carrying neither key always create a fresh record.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewService(store Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{store: store, logger: logger, metrics: m}
}

// Resolve finds or creates the participant a candidate belongs to. It is safe
// to run inside a submission transaction; on an insert race it re-reads the
// winning row instead of failing.
func (s *Service) Resolve(ctx context.Context, c Candidate) (*Resolution, error) {
	cni := NormalizeCNI(c.CNINumber)
	email := NormalizeEmail(c.Email)

	hasName := strings.TrimSpace(c.FirstName) != "" && strings.TrimSpace(c.LastName) != ""
	if !hasName && cni == "" && email == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "candidate needs a name or an identity key").
			WithFields(map[string]string{"firstName": "required", "lastName": "required"})
	}
	if cni != "" && !ValidCNI(cni) {
		return nil, dErrors.New(dErrors.CodeValidation, "cni number must be 8-20 alphanumeric characters").
			WithFields(map[string]string{"cniNumber": "invalid"})
	}

	if cni != "" {
		if res, err := s.resolveByKey(ctx, c, s.store.FindByCNI, cni); err != nil || res != nil {
			return res, err
		}
	} else if email != "" {
		if res, err := s.resolveByKey(ctx, c, s.store.FindByEmail, email); err != nil || res != nil {
			return res, err
		}
	}

	return s.create(ctx, c, cni, email)
}

func (s *Service) resolveByKey(ctx context.Context, c Candidate, find func(context.Context, string) (*Participant, error), key string) (*Resolution, error) {
	existing, err := find(ctx, key)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up participant")
	}
	return s.matched(ctx, existing, c)
}

func (s *Service) matched(ctx context.Context, existing *Participant, c Candidate) (*Resolution, error) {
	if nameDiffers(existing, c) {
		// The stored identity wins; flag the discrepancy for staff review.
		s.logger.Warn("participant matched with differing name",
			"participant_id", existing.ID,
			"stored_name", existing.FirstName+" "+existing.LastName,
			"submitted_name", c.FirstName+" "+c.LastName,
		)
	}
	err := s.store.UpdateContact(ctx, existing.ID, ContactUpdate{
		Phone:          c.Phone,
		Organization:   c.Organization,
		Function:       c.Function,
		OriginLocality: c.OriginLocality,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "refresh participant contact")
	}
	s.metrics.RecordParticipant(false)
	return &Resolution{Participant: existing, Created: false}, nil
}

func (s *Service) create(ctx context.Context, c Candidate, cni, email string) (*Resolution, error) {
	now := time.Now().UTC()
	p := &Participant{
		ID:             uuid.New(),
		FirstName:      strings.TrimSpace(c.FirstName),
		LastName:       strings.TrimSpace(c.LastName),
		Email:          email,
		Phone:          c.Phone,
		CNINumber:      cni,
		Organization:   c.Organization,
		Function:       c.Function,
		OriginLocality: c.OriginLocality,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	created, err := s.store.Insert(ctx, p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create participant")
	}
	if !created {
		// Lost an insert race; the winner holds our identity key now.
		return s.rematch(ctx, c, cni, email)
	}
	s.metrics.RecordParticipant(true)
	return &Resolution{Participant: p, Created: true}, nil
}

func (s *Service) rematch(ctx context.Context, c Candidate, cni, email string) (*Resolution, error) {
	// Either submitted key's unique index can have rejected the insert, so a
	// miss on the primary key falls through to the other one. A fresh CNI on
	// a record previously known only by email lands here.
	if cni != "" {
		existing, err := s.store.FindByCNI(ctx, cni)
		if err == nil {
			return s.matched(ctx, existing, c)
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "re-read participant after insert race")
		}
	}
	if email != "" {
		existing, err := s.store.FindByEmail(ctx, email)
		if err == nil {
			return s.matched(ctx, existing, c)
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "re-read participant after insert race")
		}
	}
	return nil, dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeInternal, "re-read participant after insert race")
}

func nameDiffers(p *Participant, c Candidate) bool {
	first := strings.TrimSpace(c.FirstName)
	last := strings.TrimSpace(c.LastName)
	if first == "" && last == "" {
		return false
	}
	return !strings.EqualFold(p.FirstName, first) || !strings.EqualFold(p.LastName, last)
}
