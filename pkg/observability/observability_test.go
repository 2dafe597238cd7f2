package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware_CountsByStatusClass(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "4xx"))

	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	after := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodGet, "4xx"))
	assert.Equal(t, before+1, after)
}

func TestMetricsMiddleware_DefaultsToOK(t *testing.T) {
	before := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodPost, "2xx"))

	// A handler that writes a body without an explicit WriteHeader counts
	// as 2xx.
	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	after := testutil.ToFloat64(RequestsTotal.WithLabelValues(http.MethodPost, "2xx"))
	assert.Equal(t, before+1, after)
}

func TestStatusWriter_FirstHeaderWins(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}

	sw.WriteHeader(http.StatusTeapot)
	sw.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusTeapot, sw.status)
}

func TestStats(t *testing.T) {
	start := time.Now().Add(-2 * time.Second)
	stats := Stats(start)

	assert.GreaterOrEqual(t, stats.UptimeSeconds, 2.0)
	// The test process has a resident set; a zero here means the probe
	// silently failed.
	require.Greater(t, stats.MemoryMB, 0.0)
	assert.GreaterOrEqual(t, stats.CPUPercent, 0.0)
}
