// Package pkgmetrics holds the Prometheus collectors exported on /metrics.
package pkgmetrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "datasweeper"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	filesTotal      *prometheus.CounterVec
	cleaningTotal   *prometheus.CounterVec
	cellsChanged    *prometheus.CounterVec
	conversions     *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
	sessionsEvicted prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status class",
	}, []string{"route", "method", "status_class"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	m.filesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "files_total",
		Help:      "Uploaded files by detected format and outcome",
	}, []string{"format", "result"})

	m.cleaningTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "cleaning_operations_total",
		Help:      "Cleaning operations applied by name",
	}, []string{"operation"})

	m.cellsChanged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "changes_total",
		Help:      "Rows removed or cells filled by cleaning operation",
	}, []string{"operation"})

	m.conversions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "conversions_total",
		Help:      "Conversions by target format and outcome",
	}, []string{"format", "result"})

	m.sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "active",
		Help:      "Sessions currently held in memory",
	})

	m.sessionsEvicted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "evicted_total",
		Help:      "Sessions dropped after sitting idle past their TTL",
	})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.filesTotal,
		m.cleaningTotal,
		m.cellsChanged,
		m.conversions,
		m.sessionsActive,
		m.sessionsEvicted,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveRequest(route, method string, status int, seconds float64) {
	class := strconv.Itoa(status/100) + "xx"
	m.requestsTotal.WithLabelValues(route, method, class).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(seconds)
}

func (m *Metrics) FileProcessed(format, result string) {
	m.filesTotal.WithLabelValues(format, result).Inc()
}

func (m *Metrics) Cleaned(operation string, changes int) {
	m.cleaningTotal.WithLabelValues(operation).Inc()
	m.cellsChanged.WithLabelValues(operation).Add(float64(changes))
}

func (m *Metrics) Converted(format, result string) {
	m.conversions.WithLabelValues(format, result).Inc()
}

func (m *Metrics) SessionsActive(n int) { m.sessionsActive.Set(float64(n)) }

func (m *Metrics) SessionsEvicted(n int) { m.sessionsEvicted.Add(float64(n)) }
