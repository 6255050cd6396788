package notification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"emarge/pkg/platform/sentinel"
)

// PostgresStore persists notifications in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed notification store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO notifications (id, type, entity_type, entity_id, title, message, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		string(item.Type),
		nullString(item.EntityType),
		item.EntityID,
		item.Title,
		nullString(item.Message),
		nullBytes(item.Payload),
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter Filter, page, limit int) ([]*Item, int, error) {
	where := ""
	if filter.UnreadOnly {
		where = "WHERE read_at IS NULL"
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM notifications " + where
	if err := s.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, type, entity_type, entity_id, title, message, payload, read_at, created_at
		FROM notifications
		%s
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, where)
	rows, err := s.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var (
			item       Item
			entityType sql.NullString
			message    sql.NullString
			payload    []byte
		)
		err := rows.Scan(
			&item.ID,
			&item.Type,
			&entityType,
			&item.EntityID,
			&item.Title,
			&message,
			&payload,
			&item.ReadAt,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		item.EntityType = entityType.String
		item.Message = message.String
		item.Payload = payload
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate notifications: %w", err)
	}
	return items, total, nil
}

func (s *PostgresStore) CountUnread(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE read_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) MarkRead(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE notifications SET read_at = $2 WHERE id = $1 AND read_at IS NULL`
	result, err := s.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected == 0 {
		// Either missing or already read; distinguish so handlers can 404.
		var exists bool
		err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM notifications WHERE id = $1)`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check notification exists: %w", err)
		}
		if !exists {
			return fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
		}
	}
	return nil
}

func (s *PostgresStore) MarkAllRead(ctx context.Context, at time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `UPDATE notifications SET read_at = $1 WHERE read_at IS NULL`, at)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return int(affected), nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("notification %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
