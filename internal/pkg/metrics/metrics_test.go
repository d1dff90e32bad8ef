package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.BookingAttempt("created")
	m.BookingAttempt("created")
	m.BookingAttempt("duplicate")
	m.CheckIn("checked_in")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookings.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.bookings.WithLabelValues("duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.checkIns.WithLabelValues("checked_in")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingAttempt("created")
		m.ObserveHTTP("GET", "/", "200", 0.1)
		m.InFlight(1)
		m.WorkerMessage("w", "ok")
		m.DegradedRead("list")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/v1/routes", "200", 0.01)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `shuttle_http_requests_total{method="GET",route="/api/v1/routes",status="200"} 1`)
}
