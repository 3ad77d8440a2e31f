// Package metrics provides Prometheus metrics for the leaderboard view service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	refreshInterval  time.Duration
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Upstream fetches (milestone document, leaderboard rows)
	upstreamRequests        *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec

	// View state machine
	viewMessages          *prometheus.CounterVec
	staleResponsesDropped prometheus.Counter
	duplicateActions      prometheus.Counter

	// Sessions
	sessionsActive  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter

	// Session message queue
	queueSize          prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec

	// Share dialog QR codes
	qrRenders   *prometheus.CounterVec
	qrCacheHits prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "leaderview",
		subsystem:        "board",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		refreshInterval:  defaultRefreshInterval,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// RefreshInterval reports how often callers should refresh gauge metrics.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	counterOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
	}
	histogramOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: m.histogramBuckets}
	}

	m.upstreamRequests = auto.NewCounterVec(
		counterOpts("upstream_requests_total", "Upstream fetches by source and outcome"),
		[]string{"source", "outcome"},
	)
	m.upstreamRequestDuration = auto.NewHistogramVec(
		histogramOpts("upstream_request_duration_milliseconds", "Upstream fetch latency in milliseconds"),
		[]string{"source"},
	)

	m.viewMessages = auto.NewCounterVec(
		counterOpts("view_messages_total", "View messages applied, by kind"),
		[]string{"kind"},
	)
	m.staleResponsesDropped = auto.NewCounter(counterOpts("stale_responses_dropped_total", "Leaderboard responses dropped because a newer request was issued"))
	m.duplicateActions = auto.NewCounter(counterOpts("duplicate_actions_total", "Client actions ignored because their action id was already applied"))

	m.sessionsActive = auto.NewGauge(gaugeOpts("sessions_active", "Number of live view sessions"))
	m.sessionsCreated = auto.NewCounter(counterOpts("sessions_created_total", "Total number of view sessions created"))
	m.sessionsEvicted = auto.NewCounter(counterOpts("sessions_evicted_total", "Total number of view sessions evicted or expired"))

	m.queueSize = auto.NewGauge(gaugeOpts("queue_size", "Messages waiting across all session queues"))
	m.queueEnqueueErrors = auto.NewCounterVec(
		counterOpts("queue_enqueue_errors_total", "Rejected enqueues by reason"),
		[]string{"reason"},
	)

	m.qrRenders = auto.NewCounterVec(
		counterOpts("qr_renders_total", "QR codes rendered, by format"),
		[]string{"format"},
	)
	m.qrCacheHits = auto.NewCounter(counterOpts("qr_cache_hits_total", "QR renders served from cache"))

	m.httpRequests = auto.NewCounterVec(
		counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = auto.NewGauge(gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds"))
}

// Upstream Metrics Functions.

// RecordUpstreamRequest counts a fetch against source ("config", "leaderboard") with outcome ("ok", "error", "non_array").
func RecordUpstreamRequest(source, outcome string) {
	globalManager.upstreamRequests.WithLabelValues(source, outcome).Inc()
}

// RecordUpstreamLatency records fetch latency for source.
func RecordUpstreamLatency(source string, latencyMs float64) {
	globalManager.upstreamRequestDuration.WithLabelValues(source).Observe(latencyMs)
}

// View Metrics Functions.

// RecordViewMessage counts an applied view message.
func RecordViewMessage(kind string) {
	globalManager.viewMessages.WithLabelValues(kind).Inc()
}

// RecordStaleResponseDropped counts a fenced leaderboard response.
func RecordStaleResponseDropped() {
	globalManager.staleResponsesDropped.Inc()
}

// RecordDuplicateAction counts an ignored duplicate client action.
func RecordDuplicateAction() {
	globalManager.duplicateActions.Inc()
}

// Session Metrics Functions.

// UpdateSessionsActive sets the live session gauge.
func UpdateSessionsActive(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordSessionCreated counts a new session.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEvicted counts an evicted or expired session.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the queue size gauge.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// QR Metrics Functions.

// RecordQRRender counts a rendered QR code ("png", "text").
func RecordQRRender(format string) {
	globalManager.qrRenders.WithLabelValues(format).Inc()
}

// RecordQRCacheHit counts a cached QR render.
func RecordQRCacheHit() {
	globalManager.qrCacheHits.Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
