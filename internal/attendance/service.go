package attendance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"emarge/internal/notification"
	dErrors "emarge/pkg/domain-errors"
	"emarge/pkg/platform/sentinel"
)

// Notifier receives typed domain events for staff fan-out.
type Notifier interface {
	Emit(ctx context.Context, n notification.Notification)
}

// Service writes and removes attendance records. Duplicate detection is left
// to the store's unique constraints so concurrent submissions cannot both
// slip through a check-then-act window.
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// RecordInput carries what the submission pipeline writes for one check-in.
type RecordInput struct {
	ParticipantID uuid.UUID
	EventID       uuid.UUID
	SessionID     *uuid.UUID
	SignatureData string
	Notes         string
}

// Record persists one attendance entry. A second check-in by the same
// participant for the same session (or sessionless event) fails with a
// conflict the caller surfaces to the submitter.
func (s *Service) Record(ctx context.Context, in RecordInput) (*Record, error) {
	if strings.TrimSpace(in.SignatureData) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "signature is required").
			WithFields(map[string]string{"signature": "signature is required"})
	}

	rec := &Record{
		ID:            uuid.New(),
		ParticipantID: in.ParticipantID,
		EventID:       in.EventID,
		SessionID:     in.SessionID,
		SignatureData: in.SignatureData,
		Notes:         in.Notes,
		CheckedInAt:   time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "participant already checked in")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "record attendance")
	}
	return rec, nil
}

// ListByEvent returns the signed records for an event, oldest first.
func (s *Service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*Record, error) {
	records, err := s.store.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list attendance")
	}
	return records, nil
}

// Delete removes a record (a staff correction) and notifies staff. The
// notification keeps only a weak reference to the removed record.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "attendance record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "find attendance")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "attendance record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete attendance")
	}

	recID := rec.ID
	s.notifier.Emit(ctx, notification.Notification{
		Type:       notification.TypeAttendanceDeleted,
		EntityType: "attendance",
		EntityID:   &recID,
		Title:      "Attendance record deleted",
		Message:    "An attendance record was removed by staff.",
	})
	return nil
}
