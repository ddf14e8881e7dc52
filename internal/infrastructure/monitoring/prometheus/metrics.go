// Package prometheus exposes application metrics on a dedicated registry.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultHTTPDurationBuckets covers interactive request latencies.
var DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// DefaultDBDurationBuckets covers query latencies.
var DefaultDBDurationBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}

// Metrics holds all application metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPActiveRequests  prometheus.Gauge

	DBQueryDuration *prometheus.HistogramVec

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	ExportJobsTotal   *prometheus.CounterVec
	ExportJobDuration prometheus.Histogram
	ExportRowsWritten prometheus.Counter
}

// NewMetrics registers every metric under the given namespace on a fresh
// registry, so tests can hold independent instances.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "patentlens"
	}
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests",
	}, []string{"method", "path", "status_code"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   DefaultHTTPDurationBuckets,
	}, []string{"method", "path"})

	m.HTTPActiveRequests = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_active_requests",
		Help:      "Requests currently in flight",
	})

	m.DBQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database query duration",
		Buckets:   DefaultDBDurationBuckets,
	}, []string{"operation"})

	m.CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Cache hits",
	}, []string{"prefix"})

	m.CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Cache misses",
	}, []string{"prefix"})

	m.ExportJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "export_jobs_total",
		Help:      "Export jobs by terminal state",
	}, []string{"state"})

	m.ExportJobDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "export_job_duration_seconds",
		Help:      "Export job duration",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	m.ExportRowsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "export_rows_written_total",
		Help:      "Rows written into export artifacts",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPActiveRequests,
		m.DBQueryDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.ExportJobsTotal,
		m.ExportJobDuration,
		m.ExportRowsWritten,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry exposes the underlying registry for extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
