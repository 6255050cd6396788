package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"emarge/pkg/platform/sentinel"
)

// PostgresStore persists events and sessions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed event store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, ev *Event) error {
	query := `
		INSERT INTO events (id, title, type, status, starts_at, ends_at, location, organizer, additional_info, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		ev.ID, ev.Title, ev.Type, string(ev.Status),
		ev.StartsAt, ev.EndsAt, ev.Location, ev.Organizer,
		nullString(ev.AdditionalInfo), ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateSession(ctx context.Context, sess *Session) error {
	query := `
		INSERT INTO sessions (id, event_id, starts_at, ends_at, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.EventID, sess.StartsAt, sess.EndsAt, string(sess.Status),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `
		SELECT id, title, type, status, starts_at, ends_at, location, organizer, additional_info, created_at
		FROM events
		WHERE id = $1
	`
	var (
		ev             Event
		additionalInfo sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&ev.ID, &ev.Title, &ev.Type, &ev.Status,
		&ev.StartsAt, &ev.EndsAt, &ev.Location, &ev.Organizer,
		&additionalInfo, &ev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("event %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	ev.AdditionalInfo = additionalInfo.String
	return &ev, nil
}

func (s *PostgresStore) FindSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `
		SELECT id, event_id, starts_at, ends_at, status
		FROM sessions
		WHERE id = $1
	`
	var sess Session
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&sess.ID, &sess.EventID, &sess.StartsAt, &sess.EndsAt, &sess.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &sess, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result, err := s.db.ExecContext(ctx, `UPDATE events SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
	}
	return requireAffected(result, "event", id)
}

func (s *PostgresStore) UpdateSessionStatus(ctx context.Context, id uuid.UUID, status SessionStatus) error {
	result, err := s.db.ExecContext(ctx, `UPDATE sessions SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return requireAffected(result, "session", id)
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	// Sessions cascade via FK.
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return requireAffected(result, "event", id)
}

func requireAffected(result sql.Result, entity string, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", entity, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, sentinel.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
