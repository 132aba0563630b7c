//go:build unit

package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mentor-booking/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ReservationOutcome("reserved")
		m.ConfirmationOutcome("confirmed")
		m.SweepCompleted("cron", 3, nil)
		m.OutboxJob("sent")
	})
}

func TestMetrics_Exposition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()

	m.ReservationOutcome("reserved")
	m.ReservationOutcome("conflict")
	m.SweepCompleted("cron", 2, nil)
	m.SweepCompleted("trigger", 0, errors.New("boom"))

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/abc", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	count, err := testutil.GatherAndCount(m.Registry(), "mentor_booking_sweeper_deleted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `mentor_booking_reservations_reserve_total{outcome="conflict"} 1`)
	assert.Contains(t, body, `mentor_booking_sweeper_runs_total{result="error",trigger="trigger"} 1`)
	assert.Contains(t, body, `mentor_booking_sweeper_deleted_total 2`)
	assert.Contains(t, body, `mentor_booking_http_requests_total{method="GET",route="/ping/:id",status="204"} 1`)
}

func TestMetrics_ObservePool(t *testing.T) {
	m := metrics.New()
	stats := metrics.PoolStats{Acquired: 3, Idle: 2, Total: 5}
	m.ObservePool(func() metrics.PoolStats { return stats })

	count, err := testutil.GatherAndCount(m.Registry(), "mentor_booking_db_pool_connections")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	stats.Acquired = 4
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `mentor_booking_db_pool_connections{state="acquired"} 4`)
	assert.Contains(t, w.Body.String(), `mentor_booking_db_pool_connections{state="total"} 5`)

	var none *metrics.Metrics
	assert.NotPanics(t, func() { none.ObservePool(func() metrics.PoolStats { return stats }) })
}
