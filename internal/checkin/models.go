package checkin

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Token gates public attendance submission for one event (and optionally one
// session) within a time window. Submission never mutates it; staff revoke it
// explicitly or it expires by time.
type Token struct {
	Value     string     `json:"value"`
	EventID   uuid.UUID  `json:"eventId"`
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
	ExpiresAt time.Time  `json:"expiresAt"`
	Revoked   bool       `json:"revoked"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Grant is the minimal event summary a successful validation returns, enough
// to render the submission confirmation.
type Grant struct {
	EventID       uuid.UUID  `json:"eventId"`
	SessionID     *uuid.UUID `json:"sessionId,omitempty"`
	EventTitle    string     `json:"eventTitle"`
	EventDate     time.Time  `json:"eventDate"`
	EventLocation string     `json:"eventLocation"`
}

// NewTokenValue generates an opaque URL-safe token value.
func NewTokenValue() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back anyway.
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
