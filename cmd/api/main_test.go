package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/name-service/internal/config"
	"github.com/pkordes/name-service/internal/domain"
	"github.com/pkordes/name-service/internal/handler"
	"github.com/pkordes/name-service/internal/metrics"
	"github.com/pkordes/name-service/internal/worker"
	"github.com/pkordes/name-service/names"
)

func testConfig() config.Config {
	return config.Config{
		Env:          config.EnvDevelopment,
		Port:         config.DefaultDevPort,
		Workers:      2,
		LogLevel:     "info",
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: 1024,
	}
}

// newTestRouter builds the production router around a running worker pool.
func newTestRouter(t *testing.T, list []string) (http.Handler, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	cfg := testConfig()
	m := metrics.New(false)
	// The workers log from their own goroutines; keep them off the buffer.
	workers := worker.NewPool(cfg.WorkerCount(), domain.NewNamePool(list),
		worker.WithRecorder(m),
		worker.WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
	)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = workers.Run(ctx) }()

	return newRouter(cfg, logger, m, handler.NewServer(workers, logger)), &logs
}

func TestRouter_generateNameEndToEnd(t *testing.T) {
	h, logs := newTestRouter(t, []string{"Nora", "Nia", "Oscar"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/generate_name?starts_with=n", nil)
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp handler.NameResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, []string{"Nora", "Nia"}, resp.Name)

	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
	assert.Contains(t, logs.String(), `"path":"/generate_name"`)
}

func TestRouter_noMatchIs404JSON(t *testing.T) {
	h, _ := newTestRouter(t, []string{"Nora", "Nia", "Oscar"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate_name?starts_with=Z", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"no_match","message":"no name matches the given prefix"}}`, rec.Body.String())
}

func TestRouter_metricsReflectTraffic(t *testing.T) {
	h, _ := newTestRouter(t, []string{"Nora"})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/generate_name", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/generate_name?starts_with=x", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `names_generated_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), `names_generated_total{outcome="no_match"} 1`)
	assert.Contains(t, string(body), `route="/generate_name"`)
}

func TestRouter_unknownPathsAreLabelledUnmatched(t *testing.T) {
	h, _ := newTestRouter(t, []string{"Nora"})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/x", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/another/random/path", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `names_http_requests_total{method="GET",route="unmatched",status="404"} 2`)
	assert.NotContains(t, body, `route="/*"`)
}

func TestRouter_healthAndUnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t, []string{"Nora"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestLoadNamePool_embeddedDefault(t *testing.T) {
	pool, err := loadNamePool(context.Background(), testConfig(), slog.Default())

	require.NoError(t, err)
	assert.Equal(t, names.All(), pool.All())
}

func TestLoadNamePool_unreachableDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.NamePoolDatabaseURL = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	_, err := loadNamePool(context.Background(), cfg, slog.Default())

	require.Error(t, err)
}

// TestRun_stopsOnCancel starts the full service on an ephemeral port and
// checks that cancelling the context shuts it down cleanly.
func TestRun_stopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "0"
	cfg.ShutdownTimeout = 2 * time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, slog.New(slog.NewJSONHandler(io.Discard, nil))) }()

	cancel()
	require.NoError(t, <-done)
}
