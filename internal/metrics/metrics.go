package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the portal server.
type Metrics struct {
	registry *prometheus.Registry

	// Submissions by flow and outcome (accepted, nothing_staged, busy)
	Submissions *prometheus.CounterVec

	// Simulated processing window by flow
	ProcessingDuration *prometheus.HistogramVec

	ResultsProduced prometheus.Counter

	// Notifications by severity
	Notifications *prometheus.CounterVec

	ActiveVisits prometheus.Gauge
	BusyDesks    prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry, so several
// instances can coexist in tests.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authentiq_submissions_total",
			Help: "Submission attempts by flow and outcome",
		}, []string{"flow", "outcome"}),

		ProcessingDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "authentiq_processing_duration_seconds",
			Help:    "Duration of the simulated processing window",
			Buckets: []float64{0.5, 1, 2, 3, 5, 10},
		}, []string{"flow"}),

		ResultsProduced: factory.NewCounter(prometheus.CounterOpts{
			Name: "authentiq_results_produced_total",
			Help: "Verification results presented to visitors",
		}),

		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "authentiq_notifications_total",
			Help: "Notifications published by severity",
		}, []string{"severity"}),

		ActiveVisits: factory.NewGauge(prometheus.GaugeOpts{
			Name: "authentiq_active_visits",
			Help: "Page visits currently held in memory",
		}),

		BusyDesks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "authentiq_busy_desks",
			Help: "Desks currently in simulated processing",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// IncrementSubmission records a submission attempt.
func (m *Metrics) IncrementSubmission(flow, outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(flow, outcome).Inc()
	}
}

// ObserveProcessing records how long a batch spent busy.
func (m *Metrics) ObserveProcessing(flow string, d time.Duration) {
	if m != nil {
		m.ProcessingDuration.WithLabelValues(flow).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementResults() {
	if m != nil {
		m.ResultsProduced.Inc()
	}
}

func (m *Metrics) IncrementNotification(severity string) {
	if m != nil {
		m.Notifications.WithLabelValues(severity).Inc()
	}
}

// SetActiveVisits sets the live visit gauge.
func (m *Metrics) SetActiveVisits(n int) {
	if m != nil {
		m.ActiveVisits.Set(float64(n))
	}
}

// DeskBusy and DeskIdle move the busy desk gauge.
func (m *Metrics) DeskBusy() {
	if m != nil {
		m.BusyDesks.Inc()
	}
}

func (m *Metrics) DeskIdle() {
	if m != nil {
		m.BusyDesks.Dec()
	}
}
