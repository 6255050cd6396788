package attendance

import (
	"time"

	"github.com/google/uuid"
)

// Record is one signed attendance entry. SessionID nil means the participant
// checked in for the event as a whole. A participant holds at most one record
// per session, or one per event when no session is involved.
type Record struct {
	ID            uuid.UUID  `json:"id"`
	ParticipantID uuid.UUID  `json:"participantId"`
	EventID       uuid.UUID  `json:"eventId"`
	SessionID     *uuid.UUID `json:"sessionId,omitempty"`
	SignatureData string     `json:"signatureData"`
	Notes         string     `json:"notes,omitempty"`
	CheckedInAt   time.Time  `json:"checkedInAt"`
}
