// Package repo contains all database access logic for the name service.
// The database is optional: the API only reads it at start-up, to fill the
// in-memory name pool, and no query runs at request time. The importnames
// command is the writer.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NameRepo defines the persistence operations for the name pool.
type NameRepo interface {
	// List returns every name ordered by insertion (the pool order).
	List(ctx context.Context) ([]string, error)

	// Add appends a name to the pool and reports whether it was inserted.
	// Names are unique case-insensitively; a duplicate is ignored.
	Add(ctx context.Context, name string) (bool, error)
}

// pgNameRepo is the Postgres implementation of NameRepo.
type pgNameRepo struct {
	db db
}

// NewNameRepo constructs a NameRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewNameRepo(db db) NameRepo {
	return &pgNameRepo{db: db}
}

// List returns all names in pool order.
func (r *pgNameRepo) List(ctx context.Context) ([]string, error) {
	const q = `
		SELECT name
		FROM names
		ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.List: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("repo.NameRepo.List: scan: %w", err)
	}
	return names, nil
}

// Add inserts name unless a case-insensitive duplicate exists.
func (r *pgNameRepo) Add(ctx context.Context, name string) (bool, error) {
	const q = `
		INSERT INTO names (name)
		VALUES (@name)
		ON CONFLICT (lower(name)) DO NOTHING`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"name": name})
	if err != nil {
		return false, fmt.Errorf("repo.NameRepo.Add: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
