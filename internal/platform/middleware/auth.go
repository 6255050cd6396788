package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// JWTValidator defines the interface for validating staff JWT tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*StaffClaims, error)
}

// StaffClaims represents the claims we expect from the JWT validator.
type StaffClaims struct {
	StaffID string
	Role    string
}

type contextKeyStaffID struct{}
type contextKeyStaffRole struct{}

// Exported context keys for tests that inject auth state directly.
var (
	ContextKeyStaffID   = contextKeyStaffID{}
	ContextKeyStaffRole = contextKeyStaffRole{}
)

// GetStaffID retrieves the authenticated staff ID from the context.
func GetStaffID(ctx context.Context) string {
	staffID, ok := ctx.Value(ContextKeyStaffID).(string)
	if !ok {
		return ""
	}
	return staffID
}

// GetStaffRole retrieves the authenticated staff role from the context.
func GetStaffRole(ctx context.Context) string {
	role, ok := ctx.Value(ContextKeyStaffRole).(string)
	if !ok {
		return ""
	}
	return role
}

// RequireAuth gates staff endpoints behind a bearer JWT. Public submission
// routes never use this; check-in tokens are a separate credential entirely.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok || token == "" {
				unauthorized(w)
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				unauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyStaffID, claims.StaffID)
			ctx = context.WithValue(ctx, ContextKeyStaffRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
}
