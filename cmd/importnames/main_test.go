package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/name-service/internal/config"
	"github.com/pkordes/name-service/testutil"
)

const sampleFile = `# extra names
Quillon

  Marisol
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestReadNames_fromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte(sampleFile), 0o600))

	got, err := readNames([]string{path}, strings.NewReader("ignored"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Quillon", "Marisol"}, got)
}

func TestReadNames_fromStdin(t *testing.T) {
	for _, args := range [][]string{nil, {"-"}} {
		got, err := readNames(args, strings.NewReader(sampleFile))

		require.NoError(t, err, "args %v", args)
		assert.Equal(t, []string{"Quillon", "Marisol"}, got, "args %v", args)
	}
}

func TestReadNames_missingFile(t *testing.T) {
	_, err := readNames([]string{filepath.Join(t.TempDir(), "nope.txt")}, nil)

	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadNames_tooManyArgs(t *testing.T) {
	_, err := readNames([]string{"a.txt", "b.txt"}, nil)

	require.ErrorIs(t, err, errUsage)
}

func TestRun_requiresDatabase(t *testing.T) {
	err := run(context.Background(), config.Config{}, nil, strings.NewReader(sampleFile), discardLogger())

	require.ErrorIs(t, err, errNoDatabase)
}

func TestRun_unreachableDatabase(t *testing.T) {
	cfg := config.Config{NamePoolDatabaseURL: "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"}

	err := run(context.Background(), cfg, nil, strings.NewReader(sampleFile), discardLogger())

	require.Error(t, err)
}

// TestRun_duplicatesOnly imports names the seed migration already holds, so
// the shared test database is left unchanged.
func TestRun_duplicatesOnly(t *testing.T) {
	cfg := config.Config{NamePoolDatabaseURL: testutil.RequireDSN(t)}

	err := run(context.Background(), cfg, []string{"-"}, strings.NewReader("ADA\nzoe\n"), discardLogger())

	require.NoError(t, err)
}
