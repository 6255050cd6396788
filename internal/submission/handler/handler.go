package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"emarge/internal/platform/middleware"
	"emarge/internal/submission"
	"emarge/internal/transport/http/shared"
)

// Service defines the submission operations the public surface exposes.
type Service interface {
	Submit(ctx context.Context, req submission.Request) (*submission.Receipt, error)
	Lookup(ctx context.Context, cni, email string) (*submission.LookupResult, error)
}

// Handler wires the public check-in endpoints to the submission service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the public endpoints. No auth: attendees reach these from
// the check-in QR code.
func (h *Handler) Register(r chi.Router) {
	r.Post("/attendance/submit", h.HandleSubmit)
	r.Get("/public/participants/lookup", h.HandleLookup)
}

// SubmitRequest is the public check-in payload.
type SubmitRequest struct {
	Token          string `json:"token" validate:"required"`
	FirstName      string `json:"firstName" validate:"required,max=100"`
	LastName       string `json:"lastName" validate:"required,max=100"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string `json:"phone,omitempty" validate:"omitempty,max=30"`
	CNINumber      string `json:"cniNumber,omitempty" validate:"omitempty,max=30"`
	Organization   string `json:"organization,omitempty" validate:"omitempty,max=200"`
	Function       string `json:"function,omitempty" validate:"omitempty,max=200"`
	OriginLocality string `json:"originLocality,omitempty" validate:"omitempty,max=200"`
	Notes          string `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Signature      string `json:"signature" validate:"required"`
}

// HandleSubmit handles POST /attendance/submit requests.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	start := time.Now()

	var req SubmitRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}

	receipt, err := h.service.Submit(ctx, submission.Request{
		Token:          req.Token,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		CNINumber:      req.CNINumber,
		Organization:   req.Organization,
		Function:       req.Function,
		OriginLocality: req.OriginLocality,
		Notes:          req.Notes,
		Signature:      req.Signature,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "submission rejected",
			"request_id", requestID,
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "submission accepted",
		"request_id", requestID,
		"attendance_id", receipt.AttendanceID,
		"event_id", receipt.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	shared.WriteJSON(w, http.StatusCreated, receipt)
}

// HandleLookup handles GET /public/participants/lookup requests.
func (h *Handler) HandleLookup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := h.service.Lookup(ctx, r.URL.Query().Get("cni"), r.URL.Query().Get("email"))
	if err != nil {
		h.logger.ErrorContext(ctx, "participant lookup failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, res)
}
