package contacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs; pgxmock
// satisfies it in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores contacts in a relational table. It is the
// backend of choice when a Postgres instance is already part of the
// deployment.
type PostgresRepository struct {
	pool PgxPool
}

var _ Repository = (*PostgresRepository)(nil)

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	if pool == nil {
		panic("contacts: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the contacts table and its indexes if absent. The
// DDL is idempotent, so it runs unconditionally at boot.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS contacts (
			id         UUID PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL,
			phone      TEXT NOT NULL,
			message    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS contacts_email_idx ON contacts (email);
		CREATE INDEX IF NOT EXISTS contacts_created_at_idx ON contacts (created_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("contacts: schema setup failed: %w", err)
	}
	return nil
}

// Create validates the request and inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateContactRequest) (*Contact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO contacts (id, name, email, phone, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		req.Message,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("contacts: insert failed: %w", err)
	}

	return &Contact{
		ID:        id.String(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// orderClauses whitelists the ORDER BY fragment per sort spec; sort
// strings never reach the SQL text directly.
var orderClauses = map[string][2]string{
	SortFieldName:      {"lower(name) ASC", "lower(name) DESC"},
	SortFieldEmail:     {"lower(email) ASC", "lower(email) DESC"},
	SortFieldCreatedAt: {"created_at ASC", "created_at DESC"},
}

// List returns rows ordered in SQL and truncated to the filter's limit.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Contact, error) {
	filter = filter.normalize()
	field, desc := filter.sortSpec()
	clause := orderClauses[field][0]
	if desc {
		clause = orderClauses[field][1]
	}

	query := fmt.Sprintf(`
		SELECT id, name, email, phone, message, created_at, updated_at
		FROM contacts
		ORDER BY %s
		LIMIT $1
	`, clause)

	rows, err := r.pool.Query(ctx, query, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("contacts: select failed: %w", err)
	}
	defer rows.Close()

	out := []*Contact{}
	for rows.Next() {
		var c Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("contacts: scan failed: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// GetByID fetches a single row.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Contact, error) {
	query := `
		SELECT id, name, email, phone, message, created_at, updated_at
		FROM contacts
		WHERE id = $1
	`
	var c Contact
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("contacts: select failed: %w", err)
	}
	return &c, nil
}

// Delete removes a row and returns it via RETURNING.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*Contact, error) {
	query := `
		DELETE FROM contacts
		WHERE id = $1
		RETURNING id, name, email, phone, message, created_at, updated_at
	`
	var c Contact
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Message, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("contacts: delete failed: %w", err)
	}
	return &c, nil
}
