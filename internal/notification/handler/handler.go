package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"emarge/internal/notification"
	"emarge/internal/platform/middleware"
	"emarge/internal/transport/http/shared"
	dErrors "emarge/pkg/domain-errors"
)

// Service defines the staff-facing notification operations.
type Service interface {
	List(ctx context.Context, filter notification.Filter, page, limit int) (*notification.ListResult, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler wires the notification inbox endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the inbox endpoints. The router mounting these applies
// staff auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.HandleList)
	r.Patch("/notifications/{id}/read", h.HandleMarkRead)
	r.Patch("/notifications/read-all", h.HandleMarkAllRead)
	r.Delete("/notifications/{id}", h.HandleDelete)
}

type listResponse struct {
	Items       []*notification.Item `json:"items"`
	Meta        notification.Page    `json:"meta"`
	UnreadCount int                  `json:"unreadCount"`
}

// HandleList handles GET /notifications requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := notification.Filter{UnreadOnly: q.Get("unreadOnly") == "true"}

	result, err := h.service.List(ctx, filter, page, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "list notifications failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		shared.WriteError(w, err)
		return
	}

	items := result.Items
	if items == nil {
		items = []*notification.Item{}
	}
	shared.WriteJSON(w, http.StatusOK, listResponse{
		Items:       items,
		Meta:        result.Meta,
		UnreadCount: result.UnreadCount,
	})
}

// HandleMarkRead handles PATCH /notifications/{id}/read requests.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.MarkRead(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// HandleMarkAllRead handles PATCH /notifications/read-all requests.
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	updated, err := h.service.MarkAllRead(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "notifications marked read",
		"request_id", middleware.GetRequestID(ctx),
		"staff_id", middleware.GetStaffID(ctx),
		"updated", updated,
	)
	shared.WriteJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// HandleDelete handles DELETE /notifications/{id} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeBadRequest, "invalid notification id")
	}
	return id, nil
}
