package participant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"emarge/pkg/platform/sentinel"
	"emarge/pkg/platform/tx"
)

// PostgresStore persists participants in PostgreSQL. Reads and writes join a
// transaction carried in the context, so the submission pipeline can resolve
// identity and write attendance atomically.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) execer {
	if dbTx, ok := tx.From(ctx); ok {
		return dbTx
	}
	return s.db
}

func (s *PostgresStore) Insert(ctx context.Context, p *Participant) (bool, error) {
	cni, email := p.IdentityKeys()
	query := `
		INSERT INTO participants (
			id, first_name, last_name, email, email_normalized, phone,
			cni_number, cni_normalized, organization, function, origin_locality,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING
		RETURNING id
	`
	var id uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx, query,
		p.ID, p.FirstName, p.LastName,
		nullString(p.Email), nullString(email), nullString(p.Phone),
		nullString(p.CNINumber), nullString(cni),
		nullString(p.Organization), nullString(p.Function), nullString(p.OriginLocality),
		p.CreatedAt, p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// A concurrent submission already claimed one of the identity keys.
			return false, nil
		}
		return false, fmt.Errorf("insert participant: %w", err)
	}
	return true, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*Participant, error) {
	return s.findBy(ctx, "id = $1", id)
}

func (s *PostgresStore) FindByCNI(ctx context.Context, cni string) (*Participant, error) {
	return s.findBy(ctx, "cni_normalized = $1", cni)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*Participant, error) {
	return s.findBy(ctx, "email_normalized = $1", email)
}

func (s *PostgresStore) findBy(ctx context.Context, where string, arg any) (*Participant, error) {
	query := `
		SELECT id, first_name, last_name, email, phone,
		       cni_number, organization, function, origin_locality,
		       created_at, updated_at
		FROM participants
		WHERE ` + where
	var p Participant
	var email, phone, cniNumber sql.NullString
	var organization, function, originLocality sql.NullString
	err := s.execer(ctx).QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.FirstName, &p.LastName, &email, &phone,
		&cniNumber, &organization, &function, &originLocality,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("participant: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find participant: %w", err)
	}
	p.Email = email.String
	p.Phone = phone.String
	p.CNINumber = cniNumber.String
	p.Organization = organization.String
	p.Function = function.String
	p.OriginLocality = originLocality.String
	return &p, nil
}

func (s *PostgresStore) UpdateContact(ctx context.Context, id uuid.UUID, c ContactUpdate) error {
	query := `
		UPDATE participants
		SET phone           = COALESCE(NULLIF($2, ''), phone),
		    organization    = COALESCE(NULLIF($3, ''), organization),
		    function        = COALESCE(NULLIF($4, ''), function),
		    origin_locality = COALESCE(NULLIF($5, ''), origin_locality),
		    updated_at      = $6
		WHERE id = $1
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		id, c.Phone, c.Organization, c.Function, c.OriginLocality, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update participant contact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update participant contact: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("participant %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
