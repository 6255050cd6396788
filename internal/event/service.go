package event

import (
	"context"
	"errors"
	"fmt"
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

// Service implements the state-changing event operations that notify staff.
// Read-side admin listing lives in the excluded CRUD layer.
type Service struct {
	store    Store
	notifier Notifier
}

func NewService(store Store, notifier Notifier) *Service {
	return &Service{store: store, notifier: notifier}
}

// CreateInput carries the fields staff provide when creating an event.
type CreateInput struct {
	Title          string
	Type           string
	StartsAt       time.Time
	EndsAt         time.Time
	Location       string
	Organizer      string
	AdditionalInfo string
}

// Create persists a new event in draft status and notifies staff.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Event, error) {
	if in.Title == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "title is required").
			WithFields(map[string]string{"title": "title is required"})
	}
	if !in.EndsAt.IsZero() && !in.StartsAt.IsZero() && in.EndsAt.Before(in.StartsAt) {
		return nil, dErrors.New(dErrors.CodeValidation, "event ends before it starts").
			WithFields(map[string]string{"endsAt": "must be after startsAt"})
	}

	ev := &Event{
		ID:             uuid.New(),
		Title:          in.Title,
		Type:           in.Type,
		Status:         StatusDraft,
		StartsAt:       in.StartsAt,
		EndsAt:         in.EndsAt,
		Location:       in.Location,
		Organizer:      in.Organizer,
		AdditionalInfo: in.AdditionalInfo,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.Create(ctx, ev); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create event")
	}

	s.notifier.Emit(ctx, notification.Notification{
		Type:       notification.TypeEventCreated,
		EntityType: "event",
		EntityID:   &ev.ID,
		Title:      fmt.Sprintf("Event created: %s", ev.Title),
	})
	return ev, nil
}

// Cancel moves an event to cancelled and notifies staff. Cancelling an already
// cancelled or completed event is a state conflict.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) error {
	ev, err := s.store.FindByID(ctx, id)
	if err != nil {
		return translateNotFound(err, "event not found", "find event")
	}
	if ev.Status == StatusCancelled || ev.Status == StatusCompleted {
		return dErrors.Newf(dErrors.CodeInvalidState, "event is %s", ev.Status)
	}
	if err := s.store.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return translateNotFound(err, "event not found", "cancel event")
	}

	s.notifier.Emit(ctx, notification.Notification{
		Type:       notification.TypeEventCancelled,
		EntityType: "event",
		EntityID:   &id,
		Title:      fmt.Sprintf("Event cancelled: %s", ev.Title),
	})
	return nil
}

// Delete removes an event and its sessions, then notifies staff. The emitted
// notification deliberately outlives the row it references.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ev, err := s.store.FindByID(ctx, id)
	if err != nil {
		return translateNotFound(err, "event not found", "find event")
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return translateNotFound(err, "event not found", "delete event")
	}

	s.notifier.Emit(ctx, notification.Notification{
		Type:       notification.TypeEventDeleted,
		EntityType: "event",
		EntityID:   &id,
		Title:      fmt.Sprintf("Event deleted: %s", ev.Title),
	})
	return nil
}

// CancelSession cancels a single session of an event and notifies staff.
func (s *Service) CancelSession(ctx context.Context, sessionID uuid.UUID) error {
	sess, err := s.store.FindSession(ctx, sessionID)
	if err != nil {
		return translateNotFound(err, "session not found", "find session")
	}
	if sess.Status == SessionCancelled || sess.Status == SessionCompleted {
		return dErrors.Newf(dErrors.CodeInvalidState, "session is %s", sess.Status)
	}
	if err := s.store.UpdateSessionStatus(ctx, sessionID, SessionCancelled); err != nil {
		return translateNotFound(err, "session not found", "cancel session")
	}

	s.notifier.Emit(ctx, notification.Notification{
		Type:       notification.TypeSessionCancelled,
		EntityType: "session",
		EntityID:   &sessionID,
		Title:      "Session cancelled",
	})
	return nil
}

func translateNotFound(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internalMsg)
}
