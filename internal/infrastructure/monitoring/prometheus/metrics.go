// Package prometheus exposes the service's operational metrics on a dedicated
// registry, served by the interface layer at /metrics.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "madison"

// Default buckets.
var (
	runDurationBuckets      = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	providerDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10}
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
)

// Metrics holds every instrument the service records into.
type Metrics struct {
	registry *prometheus.Registry

	AnalysisRunsTotal    *prometheus.CounterVec
	AnalysisRunDuration  *prometheus.HistogramVec
	RecordsAnalyzedTotal *prometheus.CounterVec
	ThreatLevelTotal     *prometheus.CounterVec

	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	AlertsPublishedTotal *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all instruments on a fresh registry with process and Go
// runtime collectors attached.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		prometheus.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,

		AnalysisRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_runs_total",
			Help:      "Analysis runs by outcome and depth",
		}, []string{"status", "depth"}),
		AnalysisRunDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_run_duration_seconds",
			Help:      "End-to-end analysis run duration",
			Buckets:   runDurationBuckets,
		}, []string{"depth"}),
		RecordsAnalyzedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_analyzed_total",
			Help:      "Records scored, by data source",
		}, []string{"source"}),
		ThreatLevelTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "threat_level_total",
			Help:      "Assessments produced, by threat level",
		}, []string{"level"}),

		ProviderRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "External provider fetches by outcome",
		}, []string{"provider", "status"}),
		ProviderRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "External provider fetch duration",
			Buckets:   providerDurationBuckets,
		}, []string{"provider"}),

		CacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits",
		}, []string{"cache"}),
		CacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses",
		}, []string{"cache"}),

		AlertsPublishedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Critical-threat alerts published, by outcome",
		}, []string{"status"}),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path and status code",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "path"}),
	}

	registry.MustRegister(
		m.AnalysisRunsTotal,
		m.AnalysisRunDuration,
		m.RecordsAnalyzedTotal,
		m.ThreatLevelTotal,
		m.ProviderRequestsTotal,
		m.ProviderRequestDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.AlertsPublishedTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records one finished analysis run.
func (m *Metrics) ObserveRun(depth string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.AnalysisRunsTotal.WithLabelValues(status, depth).Inc()
	m.AnalysisRunDuration.WithLabelValues(depth).Observe(elapsed.Seconds())
}

// ObserveProviderFetch records one provider round trip.
func (m *Metrics) ObserveProviderFetch(provider string, err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ProviderRequestsTotal.WithLabelValues(provider, status).Inc()
	m.ProviderRequestDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, statusCode int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
