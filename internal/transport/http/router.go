// Package httptransport assembles the HTTP surface: the public check-in
// routes, the JWT-gated staff routes and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	eventhandler "emarge/internal/event/handler"
	notificationhandler "emarge/internal/notification/handler"
	"emarge/internal/platform/middleware"
	submissionhandler "emarge/internal/submission/handler"
	"emarge/internal/transport/http/shared"
)

// Deps carries everything the router mounts.
type Deps struct {
	Submission     *submissionhandler.Handler
	Notification   *notificationhandler.Handler
	Event          *eventhandler.Handler
	JWTValidator   middleware.JWTValidator
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

const defaultRequestTimeout = 30 * time.Second

// NewRouter builds the full route tree. Public routes carry no auth; staff
// routes sit behind RequireAuth.
func NewRouter(d Deps) http.Handler {
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(public chi.Router) {
		public.Use(middleware.Recovery(d.Logger))
		public.Use(middleware.RequestID)
		public.Use(middleware.Logger(d.Logger))
		public.Use(middleware.Timeout(d.RequestTimeout))
		public.Use(middleware.ContentTypeJSON)
		d.Submission.Register(public)
	})

	r.Group(func(staff chi.Router) {
		staff.Use(middleware.Recovery(d.Logger))
		staff.Use(middleware.RequestID)
		staff.Use(middleware.Logger(d.Logger))
		staff.Use(middleware.Timeout(d.RequestTimeout))
		staff.Use(middleware.ContentTypeJSON)
		staff.Use(middleware.RequireAuth(d.JWTValidator, d.Logger))
		d.Notification.Register(staff)
		d.Event.Register(staff)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
