package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/name-service/migrations"
)

// Migrate applies every pending migration using goose over the pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("repo.Migrate: create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("repo.Migrate: up: %w", err)
	}
	return nil
}

// LoadNames connects to dsn, reads the whole pool and disconnects. The
// connection does not outlive the call.
//
// With migrate false the call only reads, so a read-only role is enough and
// the schema must already exist. With migrate true it first runs Migrate,
// which creates the table and seeds it on an empty database.
func LoadNames(ctx context.Context, dsn string, migrate bool) ([]string, error) {
	pool, err := open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("repo.LoadNames: %w", err)
	}
	defer pool.Close()

	if migrate {
		if err := Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("repo.LoadNames: %w", err)
		}
	}

	names, err := NewNameRepo(pool).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo.LoadNames: %w", err)
	}
	return names, nil
}

// ImportNames migrates the database at dsn and appends list to the pool in
// one transaction. Blank entries and case-insensitive duplicates are skipped.
// It returns how many names were inserted.
func ImportNames(ctx context.Context, dsn string, list []string) (int, error) {
	pool, err := open(ctx, dsn)
	if err != nil {
		return 0, fmt.Errorf("repo.ImportNames: %w", err)
	}
	defer pool.Close()

	if err := Migrate(ctx, pool); err != nil {
		return 0, fmt.Errorf("repo.ImportNames: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("repo.ImportNames: begin: %w", err)
	}
	// No-op once the transaction has been committed.
	defer func() { _ = tx.Rollback(ctx) }()

	r := NewNameRepo(tx)
	var inserted int
	for _, name := range list {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		ok, err := r.Add(ctx, name)
		if err != nil {
			return 0, fmt.Errorf("repo.ImportNames: %w", err)
		}
		if ok {
			inserted++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("repo.ImportNames: commit: %w", err)
	}
	return inserted, nil
}

func open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
