// Package metrics provides Prometheus metrics for the skillboard pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Pipeline metrics
	refreshCycles     *prometheus.CounterVec
	refreshDuration   *prometheus.HistogramVec
	refreshInProgress *prometheus.GaugeVec
	fetchLatency      *prometheus.HistogramVec
	rowsParsed        *prometheus.CounterVec
	rowsSkipped       *prometheus.CounterVec
	numericDefaults   *prometheus.CounterVec
	entities          *prometheus.GaugeVec
	lastSuccessUnix   *prometheus.GaugeVec

	// Snapshot cache metrics
	cacheFallbacks *prometheus.CounterVec
	cacheWrites    *prometheus.CounterVec
	fetchCacheHits *prometheus.CounterVec

	// Trigger queue metrics
	triggerEnqueued *prometheus.CounterVec
	triggerDropped  *prometheus.CounterVec
	triggerQueueLen prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "skillboard",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	m.refreshCycles = m.counterVec("refresh_cycles_total", "Refresh cycles by board and outcome", "board", "outcome")
	m.refreshDuration = m.histogramVec("refresh_duration_milliseconds", "Duration of a full fetch-parse-rank cycle", "board")
	m.refreshInProgress = m.gaugeVec("refresh_in_progress", "1 while a refresh cycle is running for the board", "board")
	m.fetchLatency = m.histogramVec("fetch_latency_milliseconds", "Latency of fetching the CSV source", "board", "source")
	m.rowsParsed = m.counterVec("rows_parsed_total", "Data rows produced by the CSV parser", "board")
	m.rowsSkipped = m.counterVec("rows_skipped_total", "Rows excluded during parsing or normalization", "board", "reason")
	m.numericDefaults = m.counterVec("numeric_defaults_total", "Numeric cells that defaulted to zero", "board", "field")
	m.entities = m.gaugeVec("entities", "Entities in the current ranked set", "board")
	m.lastSuccessUnix = m.gaugeVec("last_success_unix", "Unix time of the last successful refresh", "board")

	m.cacheFallbacks = m.counterVec("cache_fallbacks_total", "Fetch failures served from the snapshot cache", "board", "outcome")
	m.cacheWrites = m.counterVec("cache_writes_total", "Snapshot cache writes by outcome", "board", "outcome")
	m.fetchCacheHits = m.counterVec("fetch_cache_hits_total", "Fetches served from the in-memory fetch cache", "source")

	m.triggerEnqueued = m.counterVec("trigger_enqueued_total", "Refresh triggers accepted", "board", "reason")
	m.triggerDropped = m.counterVec("trigger_dropped_total", "Refresh triggers coalesced or rejected", "board", "reason")
	m.triggerQueueLen = m.gauge("trigger_queue_length", "Pending refresh triggers")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", "endpoint", "method", "status_code")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

func on() bool { return globalManager != nil && globalManager.enabled }

// RecordRefreshCycle counts a finished refresh cycle.
// Outcome is one of: ok, fallback, fetch_error, malformed, busy.
func RecordRefreshCycle(board, outcome string, durationMs float64) {
	if !on() {
		return
	}
	globalManager.refreshCycles.WithLabelValues(board, outcome).Inc()
	globalManager.refreshDuration.WithLabelValues(board).Observe(durationMs)
}

// SetRefreshInProgress flips the in-progress gauge for a board.
func SetRefreshInProgress(board string, running bool) {
	if !on() {
		return
	}
	v := 0.0
	if running {
		v = 1
	}
	globalManager.refreshInProgress.WithLabelValues(board).Set(v)
}

// RecordFetchLatency observes how long fetching a source took.
func RecordFetchLatency(board, source string, latencyMs float64) {
	if !on() {
		return
	}
	globalManager.fetchLatency.WithLabelValues(board, source).Observe(latencyMs)
}

// AddRowsParsed adds parsed data rows.
func AddRowsParsed(board string, n int) {
	if !on() || n <= 0 {
		return
	}
	globalManager.rowsParsed.WithLabelValues(board).Add(float64(n))
}

// AddRowsSkipped adds rows excluded for a reason.
func AddRowsSkipped(board, reason string, n int) {
	if !on() || n <= 0 {
		return
	}
	globalManager.rowsSkipped.WithLabelValues(board, reason).Add(float64(n))
}

// RecordNumericDefault counts a numeric cell that fell back to zero.
func RecordNumericDefault(board, field string) {
	if !on() {
		return
	}
	globalManager.numericDefaults.WithLabelValues(board, field).Inc()
}

// UpdateEntities sets the size of the current ranked set.
func UpdateEntities(board string, count int) {
	if !on() {
		return
	}
	globalManager.entities.WithLabelValues(board).Set(float64(count))
}

// UpdateLastSuccess records when a board last refreshed successfully.
func UpdateLastSuccess(board string, unix float64) {
	if !on() {
		return
	}
	globalManager.lastSuccessUnix.WithLabelValues(board).Set(unix)
}

// RecordCacheFallback counts fallback attempts. Outcome: served, stale, empty.
func RecordCacheFallback(board, outcome string) {
	if !on() {
		return
	}
	globalManager.cacheFallbacks.WithLabelValues(board, outcome).Inc()
}

// RecordCacheWrite counts snapshot writes. Outcome: ok, error.
func RecordCacheWrite(board, outcome string) {
	if !on() {
		return
	}
	globalManager.cacheWrites.WithLabelValues(board, outcome).Inc()
}

// RecordFetchCacheHit counts fetches answered by the in-memory fetch cache.
func RecordFetchCacheHit(source string) {
	if !on() {
		return
	}
	globalManager.fetchCacheHits.WithLabelValues(source).Inc()
}

// RecordTriggerEnqueued counts accepted refresh triggers.
func RecordTriggerEnqueued(board, reason string) {
	if !on() {
		return
	}
	globalManager.triggerEnqueued.WithLabelValues(board, reason).Inc()
}

// RecordTriggerDropped counts triggers that were coalesced or rejected.
func RecordTriggerDropped(board, reason string) {
	if !on() {
		return
	}
	globalManager.triggerDropped.WithLabelValues(board, reason).Inc()
}

// UpdateTriggerQueueLength sets the pending trigger count.
func UpdateTriggerQueueLength(n int) {
	if !on() {
		return
	}
	globalManager.triggerQueueLen.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !on() {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !on() {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error for a component.
func RecordErrorByComponent(component, errorType string) {
	if !on() {
		return
	}
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage updates the heap usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !on() {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if !on() {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
