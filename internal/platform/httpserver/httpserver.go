package httpserver

import (
	"net/http"
	"time"

	"emarge/internal/platform/config"
)

// New builds the HTTP server from the Server config section. The write
// timeout is derived from the request timeout so the router's per-request
// deadline always fires first.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * cfg.RequestTimeout,
	}
}
