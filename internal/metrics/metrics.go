// Package metrics holds the gateway's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the gateway collectors with their registry so a process can
// run several handlers without fighting over the default registry.
type Metrics struct {
	reg *prometheus.Registry

	// ActiveStreams counts currently open event streams across all resources.
	ActiveStreams prometheus.Gauge
	// StreamEvents counts emitted event frames, by resource.
	StreamEvents *prometheus.CounterVec
	// StreamReadFailures counts skipped ticks due to failed fixture reads, by resource.
	StreamReadFailures *prometheus.CounterVec
	// FixtureReads counts one-shot fixture reads, by resource and outcome.
	FixtureReads *prometheus.CounterVec
	// AuthRejections counts requests rejected by the authentication gate.
	AuthRejections prometheus.Counter
}

// New creates a Metrics with its own registry, including the standard Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		ActiveStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fingate",
			Name:      "active_streams",
			Help:      "Number of currently open event streams.",
		}),
		StreamEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fingate",
			Name:      "stream_events_total",
			Help:      "Event frames emitted on streams.",
		}, []string{"resource"}),
		StreamReadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fingate",
			Name:      "stream_read_failures_total",
			Help:      "Stream ticks skipped because the fixture read failed.",
		}, []string{"resource"}),
		FixtureReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fingate",
			Name:      "fixture_reads_total",
			Help:      "One-shot fixture reads, by outcome.",
		}, []string{"resource", "outcome"}),
		AuthRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fingate",
			Name:      "auth_rejections_total",
			Help:      "Requests rejected by the authentication gate.",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ActiveStreams,
		m.StreamEvents,
		m.StreamReadFailures,
		m.FixtureReads,
		m.AuthRejections,
	)
	return m
}

// Handler returns the exposition endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
