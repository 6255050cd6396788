package checkin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"emarge/internal/event"
	dErrors "emarge/pkg/domain-errors"
	"emarge/pkg/platform/sentinel"
)

// EventSource resolves the event and session a token is bound to.
type EventSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	FindSession(ctx context.Context, id uuid.UUID) (*event.Session, error)
}

// Cache fronts token lookups. Implementations must return
// sentinel.ErrNotFound on a miss.
type Cache interface {
	Get(ctx context.Context, value string) (*Token, error)
	Set(ctx context.Context, token *Token) error
	Invalidate(ctx context.Context, values ...string) error
}

// Service validates, issues and revokes check-in tokens. Validation is pure
// read: tokens are re-checked independently for every submission so many
// devices can share one link concurrently.
type Service struct {
	store  Store
	events EventSource
	cache  Cache
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithCache fronts token lookups with a cache. Cache failures degrade to
// store lookups.
func WithCache(cache Cache) ServiceOption {
	return func(s *Service) { s.cache = cache }
}

func NewService(store Store, events EventSource, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{store: store, events: events, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks tokenValue against its binding, expiry and revocation state
// as of now, returning the event summary for the submission confirmation.
func (s *Service) Validate(ctx context.Context, tokenValue string, now time.Time) (*Grant, error) {
	if tokenValue == "" {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "check-in token is required")
	}

	token, err := s.lookup(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidToken, "unknown check-in token")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "look up check-in token")
	}
	if token.Revoked {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "check-in token has been revoked")
	}
	if now.After(token.ExpiresAt) {
		return nil, dErrors.New(dErrors.CodeInvalidToken, "check-in token has expired")
	}

	ev, err := s.events.FindByID(ctx, token.EventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Event deleted after the token was issued.
			return nil, dErrors.New(dErrors.CodeInvalidToken, "check-in token no longer valid")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load event for token")
	}
	if !ev.Status.Checkable() {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "event is %s", ev.Status)
	}

	if token.SessionID != nil {
		sess, err := s.events.FindSession(ctx, *token.SessionID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeInvalidToken, "check-in token no longer valid")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load session for token")
		}
		if sess.Status == event.SessionCancelled {
			return nil, dErrors.New(dErrors.CodeInvalidState, "session is cancelled")
		}
	}

	return &Grant{
		EventID:       ev.ID,
		SessionID:     token.SessionID,
		EventTitle:    ev.Title,
		EventDate:     ev.StartsAt,
		EventLocation: ev.Location,
	}, nil
}

func (s *Service) lookup(ctx context.Context, tokenValue string) (*Token, error) {
	if s.cache != nil {
		token, err := s.cache.Get(ctx, tokenValue)
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "token cache degraded, falling back to store", "error", err)
		}
	}
	token, err := s.store.FindByValue(ctx, tokenValue)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, token); err != nil {
			s.logger.WarnContext(ctx, "token cache set failed", "error", err)
		}
	}
	return token, nil
}

// Issue creates a token bound to an event (and optionally one of its
// sessions) for staff publishing a check-in link.
func (s *Service) Issue(ctx context.Context, eventID uuid.UUID, sessionID *uuid.UUID, ttl time.Duration) (*Token, error) {
	ev, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "event not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load event")
	}
	if !ev.Status.Checkable() {
		return nil, dErrors.Newf(dErrors.CodeInvalidState, "event is %s", ev.Status)
	}
	if sessionID != nil {
		sess, err := s.events.FindSession(ctx, *sessionID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "session not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load session")
		}
		if sess.EventID != eventID {
			return nil, dErrors.New(dErrors.CodeBadRequest, "session does not belong to event")
		}
	}

	now := time.Now().UTC()
	token := &Token{
		Value:     NewTokenValue(),
		EventID:   eventID,
		SessionID: sessionID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, token); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "create check-in token")
	}
	return token, nil
}

// Revoke flags the given tokens and drops them from the cache. Returns how
// many were newly revoked.
func (s *Service) Revoke(ctx context.Context, values []string) (int, error) {
	if len(values) == 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "no token values given")
	}
	revoked, err := s.store.Revoke(ctx, values, time.Now().UTC())
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "revoke check-in tokens")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, values...); err != nil {
			s.logger.WarnContext(ctx, "token cache invalidate failed", "error", err)
		}
	}
	return revoked, nil
}
