// Package metrics provides Prometheus metrics for the reputation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus metric the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Event ingestion
	eventsRecorded prometheus.Counter
	eventsRejected prometheus.Counter
	appendLatency  prometheus.Histogram

	// Summary computation
	summariesComputed  prometheus.Counter
	summaryCacheHits   prometheus.Counter
	summaryCacheMisses prometheus.Counter
	summaryLatency     prometheus.Histogram

	// Leaderboard
	leaderboardQueries prometheus.Counter
	leaderboardLatency prometheus.Histogram
	totalWallets       prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors by component/class
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance backed by a custom registry so the default
// Go collectors do not pollute the scrape output.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "voyago",
		subsystem:        "reputation",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.eventsRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_recorded_total",
		Help: "Total reputation events appended to the ledger.",
	})
	m.eventsRejected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_rejected_total",
		Help: "Total events rejected at validation.",
	})
	m.appendLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "ledger_append_duration_ms",
		Help:    "Ledger append latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.summariesComputed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "summaries_computed_total",
		Help: "Total summaries folded from event history.",
	})
	m.summaryCacheHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "summary_cache_hits_total",
		Help: "Summary reads served from the per-wallet cache.",
	})
	m.summaryCacheMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "summary_cache_misses_total",
		Help: "Summary reads that required a ledger fold.",
	})
	m.summaryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "summary_compute_duration_ms",
		Help:    "Summary fold latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.leaderboardQueries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "leaderboard_queries_total",
		Help: "Total leaderboard queries served.",
	})
	m.leaderboardLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "leaderboard_query_duration_ms",
		Help:    "Leaderboard snapshot-and-rank latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.totalWallets = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "wallets_total",
		Help: "Number of wallets with at least one event.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total",
		Help: "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name:    "http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "errors_total",
		Help: "Errors by component and error type.",
	}, []string{"component", "error_type"})
}

// Package-level helpers against the global manager.

func RecordEventRecorded() {
	globalManager.eventsRecorded.Inc()
}

func RecordEventRejected() {
	globalManager.eventsRejected.Inc()
}

func RecordAppendLatency(latencyMs float64) {
	globalManager.appendLatency.Observe(latencyMs)
}

func RecordSummaryComputed() {
	globalManager.summariesComputed.Inc()
}

func RecordSummaryCacheHit() {
	globalManager.summaryCacheHits.Inc()
}

func RecordSummaryCacheMiss() {
	globalManager.summaryCacheMisses.Inc()
}

func RecordSummaryLatency(latencyMs float64) {
	globalManager.summaryLatency.Observe(latencyMs)
}

func RecordLeaderboardQuery() {
	globalManager.leaderboardQueries.Inc()
}

func RecordLeaderboardLatency(latencyMs float64) {
	globalManager.leaderboardLatency.Observe(latencyMs)
}

func UpdateTotalWallets(count int) {
	globalManager.totalWallets.Set(float64(count))
}

func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom registry for serving /healthz scrapes.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
