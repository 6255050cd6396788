package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emarge/internal/attendance"
	"emarge/internal/checkin"
	"emarge/internal/event"
	"emarge/internal/platform/middleware"
	"emarge/internal/transport/http/shared"
	dErrors "emarge/pkg/domain-errors"
)

// EventService defines the state-changing event operations staff invoke.
type EventService interface {
	Create(ctx context.Context, in event.CreateInput) (*event.Event, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CancelSession(ctx context.Context, sessionID uuid.UUID) error
}

// TokenService issues and revokes check-in tokens.
type TokenService interface {
	Issue(ctx context.Context, eventID uuid.UUID, sessionID *uuid.UUID, ttl time.Duration) (*checkin.Token, error)
	Revoke(ctx context.Context, values []string) (int, error)
}

// AttendanceService exposes the staff attendance operations.
type AttendanceService interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*attendance.Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler wires the staff event surface: event lifecycle, check-in tokens and
// attendance corrections.
type Handler struct {
	events     EventService
	tokens     TokenService
	attendance AttendanceService
	defaultTTL time.Duration
	logger     *slog.Logger
}

func New(events EventService, tokens TokenService, att AttendanceService, defaultTTL time.Duration, logger *slog.Logger) *Handler {
	return &Handler{
		events:     events,
		tokens:     tokens,
		attendance: att,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

// Register mounts the staff endpoints. The router mounting these applies
// staff auth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/events", h.HandleCreate)
	r.Post("/events/{id}/cancel", h.HandleCancel)
	r.Delete("/events/{id}", h.HandleDelete)
	r.Post("/events/{id}/sessions/{sid}/cancel", h.HandleCancelSession)
	r.Post("/events/{id}/tokens", h.HandleIssueToken)
	r.Post("/checkin-tokens/revoke", h.HandleRevokeTokens)
	r.Get("/events/{id}/attendance", h.HandleListAttendance)
	r.Delete("/attendance/{id}", h.HandleDeleteAttendance)
}

// CreateRequest is the staff event creation payload.
type CreateRequest struct {
	Title          string    `json:"title" validate:"required,max=200"`
	Type           string    `json:"type,omitempty" validate:"omitempty,max=100"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	Location       string    `json:"location,omitempty" validate:"omitempty,max=200"`
	Organizer      string    `json:"organizer,omitempty" validate:"omitempty,max=200"`
	AdditionalInfo string    `json:"additionalInfo,omitempty" validate:"omitempty,max=2000"`
}

// HandleCreate handles POST /events requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	ev, err := h.events.Create(ctx, event.CreateInput{
		Title:          req.Title,
		Type:           req.Type,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Location:       req.Location,
		Organizer:      req.Organizer,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "event created",
		"request_id", middleware.GetRequestID(ctx),
		"staff_id", middleware.GetStaffID(ctx),
		"event_id", ev.ID,
	)
	shared.WriteJSON(w, http.StatusCreated, ev)
}

// HandleCancel handles POST /events/{id}/cancel requests.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "invalid event id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.events.Cancel(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// HandleDelete handles DELETE /events/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "invalid event id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.events.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCancelSession handles POST /events/{id}/sessions/{sid}/cancel requests.
func (h *Handler) HandleCancelSession(w http.ResponseWriter, r *http.Request) {
	sid, err := pathUUID(r, "sid", "invalid session id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.events.CancelSession(r.Context(), sid); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// IssueTokenRequest configures one issued check-in token.
type IssueTokenRequest struct {
	SessionID *uuid.UUID `json:"sessionId,omitempty"`
	TTL       string     `json:"ttl,omitempty"`
}

// HandleIssueToken handles POST /events/{id}/tokens requests.
func (h *Handler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	eventID, err := pathUUID(r, "id", "invalid event id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// The body is optional; an empty POST issues an event-wide token with the
	// default TTL.
	var req IssueTokenRequest
	if r.ContentLength != 0 {
		if err := shared.Decode(r, &req); err != nil {
			shared.WriteError(w, err)
			return
		}
	}

	ttl := h.defaultTTL
	if req.TTL != "" {
		parsed, err := time.ParseDuration(req.TTL)
		if err != nil || parsed <= 0 {
			shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "ttl must be a positive duration").
				WithFields(map[string]string{"ttl": "is invalid"}))
			return
		}
		ttl = parsed
	}

	token, err := h.tokens.Issue(ctx, eventID, req.SessionID, ttl)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "check-in token issued",
		"request_id", middleware.GetRequestID(ctx),
		"staff_id", middleware.GetStaffID(ctx),
		"event_id", eventID,
	)
	shared.WriteJSON(w, http.StatusCreated, token)
}

// RevokeTokensRequest names the token values to revoke in one batch.
type RevokeTokensRequest struct {
	Values []string `json:"values" validate:"required,min=1,dive,required"`
}

// HandleRevokeTokens handles POST /checkin-tokens/revoke requests.
func (h *Handler) HandleRevokeTokens(w http.ResponseWriter, r *http.Request) {
	var req RevokeTokensRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	revoked, err := h.tokens.Revoke(r.Context(), req.Values)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]int{"revoked": revoked})
}

// HandleListAttendance handles GET /events/{id}/attendance requests.
func (h *Handler) HandleListAttendance(w http.ResponseWriter, r *http.Request) {
	eventID, err := pathUUID(r, "id", "invalid event id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	records, err := h.attendance.ListByEvent(r.Context(), eventID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if records == nil {
		records = []*attendance.Record{}
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": records})
}

// HandleDeleteAttendance handles DELETE /attendance/{id} requests.
func (h *Handler) HandleDeleteAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "invalid attendance id")
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.attendance.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUUID(r *http.Request, key, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, message)
	}
	return id, nil
}
