package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/name-service/internal/metrics"
	"github.com/pkordes/name-service/internal/service"
)

// compile-time check: Metrics must satisfy service.Recorder.
var _ service.Recorder = (*metrics.Metrics)(nil)

func TestObserveSelection_countsByOutcome(t *testing.T) {
	m := metrics.New(false)

	m.ObserveSelection(service.OutcomeOK)
	m.ObserveSelection(service.OutcomeOK)
	m.ObserveSelection(service.OutcomeNoMatch)

	n, err := testutil.GatherAndCount(m.Registry(), "names_generated_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per outcome")
}

func TestHandler_exposesRecordedSeries(t *testing.T) {
	m := metrics.New(false)
	m.ObserveSelection(service.OutcomeOK)
	m.ObserveRequest(http.MethodGet, "/generate_name", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `names_generated_total{outcome="ok"} 1`)
	assert.Contains(t, string(body), `names_http_requests_total{method="GET",route="/generate_name",status="200"} 1`)
	assert.Contains(t, string(body), "names_http_request_duration_seconds_bucket")
}

func TestNew_withProcessMetrics(t *testing.T) {
	m := metrics.New(true)

	n, err := testutil.GatherAndCount(m.Registry(), "go_goroutines")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
