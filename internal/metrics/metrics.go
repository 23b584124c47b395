// Package metrics exposes Prometheus counters for stage sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stage"

// Metrics holds the collectors on a private registry, so several servers
// (and tests) never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	actions  *prometheus.CounterVec
	frames   prometheus.Counter
	clicks   prometheus.Counter
	sessions prometheus.Gauge
}

// New creates and registers the stage collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Actions dispatched to stage stores, by type.",
		}, []string{"type"}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames emitted by visible stage clocks.",
		}),
		clicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Mouse clicks delivered to stages.",
		}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Stage sessions currently running.",
		}),
	}
	m.registry.MustRegister(m.actions, m.frames, m.clicks, m.sessions)
	return m
}

// Action counts one dispatched action.
func (m *Metrics) Action(kind string) {
	m.actions.WithLabelValues(kind).Inc()
}

// Frame counts one emitted frame.
func (m *Metrics) Frame() {
	m.frames.Inc()
}

// Click counts one mouse click.
func (m *Metrics) Click() {
	m.clicks.Inc()
}

// SessionStarted increments the active session gauge.
func (m *Metrics) SessionStarted() {
	m.sessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (m *Metrics) SessionEnded() {
	m.sessions.Dec()
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
