package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/openuwb/uwb/pkg/params"
)

// Metrics exposes session lifecycle counters. A nil *Metrics is a
// no-op, so metrics stay optional for embedders.
type Metrics struct {
	opened        *prometheus.CounterVec
	closed        prometheus.Counter
	active        prometheus.Gauge
	startFailures prometheus.Counter
}

// NewMetrics registers the session metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		opened: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uwb",
			Subsystem: "session",
			Name:      "opened_total",
			Help:      "Ranging sessions opened, by protocol.",
		}, []string{"protocol"}),
		closed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "uwb",
			Subsystem: "session",
			Name:      "closed_total",
			Help:      "Ranging sessions closed.",
		}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "uwb",
			Subsystem: "session",
			Name:      "active",
			Help:      "Sessions currently ranging.",
		}),
		startFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: "uwb",
			Subsystem: "session",
			Name:      "start_failures_total",
			Help:      "Failed ranging start attempts.",
		}),
	}
}

func (m *Metrics) sessionOpened(p params.Protocol) {
	if m != nil {
		m.opened.WithLabelValues(p.String()).Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.closed.Inc()
	}
}

func (m *Metrics) rangingStarted() {
	if m != nil {
		m.active.Inc()
	}
}

func (m *Metrics) rangingStopped() {
	if m != nil {
		m.active.Dec()
	}
}

func (m *Metrics) startFailed() {
	if m != nil {
		m.startFailures.Inc()
	}
}
