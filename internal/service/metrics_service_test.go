package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/assignments/:id/slots", http.StatusConflict, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/health", http.StatusOK, 10*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordScheduleRejection("TIME_OVERLAP")
	m.RecordScheduleRetry()
	m.RecordReportCard("closed")
	m.RecordRuleActivation()
	m.RecordNotification("queued")

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.RequestsTotal)
	assert.InDelta(t, 15.0, snap.AverageRequestDurationMs, 0.001)
	assert.EqualValues(t, 2, snap.CacheHits)
	assert.EqualValues(t, 1, snap.CacheMisses)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.0001)
	assert.EqualValues(t, 1, snap.ScheduleRejections)
	assert.EqualValues(t, 1, snap.ReportCardsGenerated)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body, _ := io.ReadAll(w.Body)
	assert.Contains(t, string(body), `schedule_rejections_total{code="TIME_OVERLAP"} 1`)
	assert.Contains(t, string(body), "promotion_rule_activations_total 1")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordScheduleRejection("BUDGET_EXCEEDED")
	m.RecordNotification("dropped")
	assert.Zero(t, m.Snapshot().RequestsTotal)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
