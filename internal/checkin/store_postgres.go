package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"emarge/pkg/platform/sentinel"
)

// PostgresStore persists check-in tokens in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed token store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, token *Token) error {
	query := `
		INSERT INTO checkin_tokens (value, event_id, session_id, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		token.Value, token.EventID, token.SessionID,
		token.ExpiresAt, token.Revoked, token.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("token value taken: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert check-in token: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByValue(ctx context.Context, value string) (*Token, error) {
	query := `
		SELECT value, event_id, session_id, expires_at, revoked, created_at
		FROM checkin_tokens
		WHERE value = $1
	`
	var token Token
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&token.Value, &token.EventID, &token.SessionID,
		&token.ExpiresAt, &token.Revoked, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("check-in token: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find check-in token: %w", err)
	}
	return &token, nil
}

// Revoke flags the given token values in one round-trip.
func (s *PostgresStore) Revoke(ctx context.Context, values []string, at time.Time) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}
	query := `
		UPDATE checkin_tokens
		SET revoked = TRUE, revoked_at = $2
		WHERE value = ANY($1::text[]) AND NOT revoked
	`
	result, err := s.db.ExecContext(ctx, query, pq.Array(values), at)
	if err != nil {
		return 0, fmt.Errorf("revoke check-in tokens: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("revoke check-in tokens: %w", err)
	}
	return int(affected), nil
}
