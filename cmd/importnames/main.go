// Package main is the entry point for the name import command.
// It appends names from a file (or stdin) to the Postgres pool that the API
// reads at start-up. Usage:
//
//	importnames [file|-]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkordes/name-service/internal/config"
	"github.com/pkordes/name-service/internal/repo"
	"github.com/pkordes/name-service/names"
)

var (
	errNoDatabase = errors.New("NAME_POOL_DATABASE_URL is not set")
	errUsage      = errors.New("usage: importnames [file|-]")
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdin, logger); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

// run reads the names and appends them to the database pool. The schema is
// migrated first, so it also bootstraps an empty database.
func run(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, logger *slog.Logger) error {
	if cfg.NamePoolDatabaseURL == "" {
		return errNoDatabase
	}

	list, err := readNames(args, stdin)
	if err != nil {
		return err
	}

	inserted, err := repo.ImportNames(ctx, cfg.NamePoolDatabaseURL, list)
	if err != nil {
		return err
	}
	logger.Info("names imported", "read", len(list), "inserted", inserted, "skipped", len(list)-inserted)
	return nil
}

// readNames parses the file named by args[0], or stdin when args is empty or
// "-". The format is the one names.txt uses.
func readNames(args []string, stdin io.Reader) ([]string, error) {
	if len(args) > 1 {
		return nil, errUsage
	}

	src := stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open names file: %w", err)
		}
		defer f.Close()
		src = f
	}

	b, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read names: %w", err)
	}
	return names.Parse(string(b)), nil
}
