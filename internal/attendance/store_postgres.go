package attendance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"emarge/pkg/platform/sentinel"
	"emarge/pkg/platform/tx"
)

// PostgresStore persists attendance records. Uniqueness is enforced by the
// database, not checked first: a partial unique index on (participant_id,
// session_id) plus one on (participant_id, event_id) where session_id is null
// turn concurrent duplicate submissions into a unique violation we translate
// to sentinel.ErrConflict.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) execer {
	if dbTx, ok := tx.From(ctx); ok {
		return dbTx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO attendance_records (
			id, participant_id, event_id, session_id,
			signature_data, notes, checked_in_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		rec.ID, rec.ParticipantID, rec.EventID, rec.SessionID,
		rec.SignatureData, nullString(rec.Notes), rec.CheckedInAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("attendance already recorded: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	query := `
		SELECT id, participant_id, event_id, session_id,
		       signature_data, notes, checked_in_at
		FROM attendance_records
		WHERE id = $1
	`
	rec, err := scanRecord(s.execer(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("attendance %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*Record, error) {
	query := `
		SELECT id, participant_id, event_id, session_id,
		       signature_data, notes, checked_in_at
		FROM attendance_records
		WHERE event_id = $1
		ORDER BY checked_in_at
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM attendance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("attendance %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec   Record
		notes sql.NullString
	)
	err := row.Scan(
		&rec.ID, &rec.ParticipantID, &rec.EventID, &rec.SessionID,
		&rec.SignatureData, &notes, &rec.CheckedInAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Notes = notes.String
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
