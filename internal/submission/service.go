// Package submission orchestrates public check-in: token validation, identity
// resolution and the attendance write, with the latter two inside one
// transaction.
package submission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"emarge/internal/attendance"
	"emarge/internal/checkin"
	"emarge/internal/participant"
	"emarge/internal/platform/metrics"
	dErrors "emarge/pkg/domain-errors"
	"emarge/pkg/platform/sentinel"
	"emarge/pkg/platform/tx"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

// TokenValidator checks the check-in token and resolves what it grants.
type TokenValidator interface {
	Validate(ctx context.Context, tokenValue string, now time.Time) (*checkin.Grant, error)
}

// IdentityResolver matches the submitted identity to a participant.
type IdentityResolver interface {
	Resolve(ctx context.Context, c participant.Candidate) (*participant.Resolution, error)
}

// AttendanceWriter persists the signed record.
type AttendanceWriter interface {
	Record(ctx context.Context, in attendance.RecordInput) (*attendance.Record, error)
}

// ParticipantReader backs the public pre-fill lookup.
type ParticipantReader interface {
	FindByCNI(ctx context.Context, cni string) (*participant.Participant, error)
	FindByEmail(ctx context.Context, email string) (*participant.Participant, error)
}

// Request is a public check-in submission.
type Request struct {
	Token          string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	CNINumber      string
	Organization   string
	Function       string
	OriginLocality string
	Notes          string
	Signature      string
}

// Receipt confirms a recorded check-in.
type Receipt struct {
	AttendanceID       uuid.UUID  `json:"attendanceId"`
	ParticipantID      uuid.UUID  `json:"participantId"`
	ParticipantCreated bool       `json:"participantCreated"`
	EventID            uuid.UUID  `json:"eventId"`
	SessionID          *uuid.UUID `json:"sessionId,omitempty"`
	EventTitle         string     `json:"eventTitle"`
	CheckedInAt        time.Time  `json:"checkedInAt"`
}

// LookupResult answers the pre-fill existence check.
type LookupResult struct {
	Found       bool                     `json:"found"`
	Participant *participant.Participant `json:"participant,omitempty"`
}

// Service runs the submission pipeline. Each stage is terminal on failure:
// nothing past a failed stage runs, and the transaction wrapping resolve and
// write rolls both back together.
type Service struct {
	tokens       TokenValidator
	identities   IdentityResolver
	attendance   AttendanceWriter
	participants ParticipantReader
	runner       tx.Runner
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

func NewService(
	tokens TokenValidator,
	identities IdentityResolver,
	attendanceWriter AttendanceWriter,
	participants ParticipantReader,
	runner tx.Runner,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		tokens:       tokens,
		identities:   identities,
		attendance:   attendanceWriter,
		participants: participants,
		runner:       runner,
		logger:       logger,
		metrics:      m,
	}
}

// Submit validates the token, resolves the participant and writes attendance.
// No notification is emitted on success; attendance submission is not a
// notified type.
func (s *Service) Submit(ctx context.Context, req Request) (*Receipt, error) {
	start := time.Now()
	receipt, err := s.submit(ctx, req)
	s.metrics.ObserveSubmission(outcome(err), time.Since(start).Seconds())
	return receipt, err
}

func (s *Service) submit(ctx context.Context, req Request) (*Receipt, error) {
	grant, err := s.tokens.Validate(ctx, req.Token, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var (
		resolution *participant.Resolution
		record     *attendance.Record
	)
	err = s.runner.RunInTx(ctx, func(ctx context.Context) error {
		resolution, err = s.identities.Resolve(ctx, participant.Candidate{
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Email:          req.Email,
			Phone:          req.Phone,
			CNINumber:      req.CNINumber,
			Organization:   req.Organization,
			Function:       req.Function,
			OriginLocality: req.OriginLocality,
		})
		if err != nil {
			return err
		}
		record, err = s.attendance.Record(ctx, attendance.RecordInput{
			ParticipantID: resolution.Participant.ID,
			EventID:       grant.EventID,
			SessionID:     grant.SessionID,
			SignatureData: req.Signature,
			Notes:         req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("check-in recorded",
		"attendance_id", record.ID,
		"participant_id", resolution.Participant.ID,
		"participant_created", resolution.Created,
		"event_id", grant.EventID,
	)
	return &Receipt{
		AttendanceID:       record.ID,
		ParticipantID:      resolution.Participant.ID,
		ParticipantCreated: resolution.Created,
		EventID:            grant.EventID,
		SessionID:          grant.SessionID,
		EventTitle:         grant.EventTitle,
		CheckedInAt:        record.CheckedInAt,
	}, nil
}

// Lookup checks whether a participant already exists for a CNI number or
// email, so the public form can pre-fill. CNI wins when both are given.
func (s *Service) Lookup(ctx context.Context, cni, email string) (*LookupResult, error) {
	cni = participant.NormalizeCNI(cni)
	email = participant.NormalizeEmail(email)

	var (
		p   *participant.Participant
		err error
	)
	switch {
	case cni != "":
		p, err = s.participants.FindByCNI(ctx, cni)
	case email != "":
		p, err = s.participants.FindByEmail(ctx, email)
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "cni or email is required")
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &LookupResult{Found: false}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up participant")
	}
	return &LookupResult{Found: true, Participant: p}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case dErrors.HasCode(err, dErrors.CodeInvalidToken):
		return "invalid_token"
	case dErrors.HasCode(err, dErrors.CodeInvalidState):
		return "not_checkable"
	case dErrors.HasCode(err, dErrors.CodeValidation):
		return "validation_failed"
	case dErrors.HasCode(err, dErrors.CodeConflict):
		return "duplicate"
	default:
		return "error"
	}
}
