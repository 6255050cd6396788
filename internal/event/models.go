package event

import (
	"time"

	"github.com/google/uuid"
)

// Status is the event lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Checkable reports whether attendance may still be submitted for an event in
// this status.
func (s Status) Checkable() bool {
	return s != StatusCancelled && s != StatusCompleted
}

// SessionStatus is the session lifecycle state.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCancelled SessionStatus = "cancelled"
	SessionCompleted SessionStatus = "completed"
)

// Event is an organizational event participants check in to.
type Event struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	Status         Status    `json:"status"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	Location       string    `json:"location"`
	Organizer      string    `json:"organizer"`
	AdditionalInfo string    `json:"additionalInfo,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Session is one timed slot of an event. It back-references its event; the
// event owns it.
type Session struct {
	ID       uuid.UUID     `json:"id"`
	EventID  uuid.UUID     `json:"eventId"`
	StartsAt time.Time     `json:"startsAt"`
	EndsAt   time.Time     `json:"endsAt"`
	Status   SessionStatus `json:"status"`
}
