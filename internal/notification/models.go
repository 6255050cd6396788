package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type enumerates the domain events that produce staff notifications. The enum
// is closed: attendance submission itself is deliberately not in it.
type Type string

const (
	TypeEventCreated      Type = "event.created"
	TypeEventDeleted      Type = "event.deleted"
	TypeEventCancelled    Type = "event.cancelled"
	TypeSessionCancelled  Type = "session.cancelled"
	TypeAttendanceDeleted Type = "attendance.deleted"
)

// Valid reports whether t is one of the enumerated types.
func (t Type) Valid() bool {
	switch t {
	case TypeEventCreated, TypeEventDeleted, TypeEventCancelled,
		TypeSessionCancelled, TypeAttendanceDeleted:
		return true
	}
	return false
}

// Notification is the emission payload: what happened and to which entity.
// EntityID is a weak reference; the entity may be deleted after emission and
// consumers must treat absence-on-lookup as normal.
type Notification struct {
	Type       Type
	EntityType string
	EntityID   *uuid.UUID
	Title      string
	Message    string
	Payload    json.RawMessage
}

// Item is a persisted notification. ReadAt nil means unread.
type Item struct {
	ID         uuid.UUID       `json:"id"`
	Type       Type            `json:"type"`
	EntityType string          `json:"entityType,omitempty"`
	EntityID   *uuid.UUID      `json:"entityId,omitempty"`
	Title      string          `json:"title"`
	Message    string          `json:"message,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	ReadAt     *time.Time      `json:"readAt"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// Filter narrows List results.
type Filter struct {
	UnreadOnly bool
}

// Page describes offset pagination results.
type Page struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}
