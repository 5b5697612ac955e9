package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IncrementSubmission("verify", "accepted")
	m.IncrementSubmission("verify", "accepted")
	m.IncrementSubmission("upload", "busy")
	m.IncrementResults()
	m.IncrementNotification("destructive")
	m.SetActiveVisits(3)
	m.DeskBusy()
	m.DeskBusy()
	m.DeskIdle()
	m.ObserveProcessing("verify", 3*time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Submissions.WithLabelValues("verify", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Submissions.WithLabelValues("upload", "busy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResultsProduced))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("destructive")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveVisits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BusyDesks))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementSubmission("verify", "accepted")
		m.ObserveProcessing("verify", time.Second)
		m.IncrementResults()
		m.IncrementNotification("default")
		m.SetActiveVisits(1)
		m.DeskBusy()
		m.DeskIdle()
	})
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IncrementResults()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "authentiq_results_produced_total 1")
}
