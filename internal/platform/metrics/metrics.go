// Package metrics owns the Prometheus collectors the services report into
// and the /metrics handler that exposes them
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "incidencia"

// Metrics groups the collectors on one private registry
type Metrics struct {
	reg *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	IngestRefreshes *prometheus.CounterVec
	IngestRecords   prometheus.Gauge
	IngestVersion   prometheus.Gauge

	PivotRebuilds       prometheus.Counter
	PivotRebuildSeconds prometheus.Histogram
	PivotSessions       prometheus.Gauge
}

// New builds and registers every collector plus the go and process collectors
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "route"}),
		IngestRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "refreshes_total",
			Help:      "Spreadsheet refresh attempts by outcome (changed, unchanged, skipped, error)",
		}, []string{"outcome"}),
		IngestRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "records",
			Help:      "Records in the live snapshot",
		}),
		IngestVersion: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "snapshot_version",
			Help:      "Version of the live snapshot",
		}),
		PivotRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pivot",
			Name:      "rebuilds_total",
			Help:      "Aggregation tree rebuilds",
		}),
		PivotRebuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pivot",
			Name:      "rebuild_duration_seconds",
			Help:      "Aggregation tree rebuild duration",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		}),
		PivotSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pivot",
			Name:      "sessions",
			Help:      "Live pivot sessions",
		}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests, m.HTTPDuration,
		m.IngestRefreshes, m.IngestRecords, m.IngestVersion,
		m.PivotRebuilds, m.PivotRebuildSeconds, m.PivotSessions,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveHTTP matches the access log Observe hook
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveRebuild records one pivot tree rebuild
func (m *Metrics) ObserveRebuild(records int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PivotRebuilds.Inc()
	m.PivotRebuildSeconds.Observe(elapsed.Seconds())
}

// ObserveRefresh records one ingest refresh outcome
func (m *Metrics) ObserveRefresh(outcome string) {
	if m == nil {
		return
	}
	m.IngestRefreshes.WithLabelValues(outcome).Inc()
}

// SetSnapshot publishes the live snapshot size and version
func (m *Metrics) SetSnapshot(version uint64, records int) {
	if m == nil {
		return
	}
	m.IngestVersion.Set(float64(version))
	m.IngestRecords.Set(float64(records))
}

// SetSessions publishes the live session count
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.PivotSessions.Set(float64(n))
}
