// Package metrics provides Prometheus metrics for the vocafit scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bucket layouts.
//
//nolint:gochecknoglobals // copied into each manager, never mutated
var (
	defaultLatencyBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250}
	defaultScoreBuckets   = []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.35, 0.4, 0.5, 0.6, 0.8, 1}
	defaultBatchBuckets   = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000}
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace      string
	subsystem      string
	metricPrefix   string
	latencyBuckets []float64
	scoreBuckets   []float64
	batchBuckets   []float64
	enabled        bool
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Core business metrics
	assessmentsTotal  prometheus.Counter
	assessmentErrors  *prometheus.CounterVec
	scoringLatency    prometheus.Histogram
	topScore          prometheus.Histogram
	catalogCareers    prometheus.Gauge
	batchSize         prometheus.Histogram
	catalogBuildTotal prometheus.Counter

	// Memo metrics
	memoLookups *prometheus.CounterVec
	memoEntries prometheus.Gauge

	// Queue metrics
	queueCapacity prometheus.Gauge
	queueDepth    prometheus.Gauge
	queueRejected prometheus.Counter

	// Worker metrics
	workerCount       prometheus.Gauge
	workerActiveCount prometheus.Gauge
	workerErrors      prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "vocafit",
		subsystem:      "scoring",
		latencyBuckets: defaultLatencyBuckets,
		scoreBuckets:   defaultScoreBuckets,
		batchBuckets:   defaultBatchBuckets,
		enabled:        true,
		registry:       prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether observations are recorded.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.assessmentsTotal = auto.NewCounter(m.counterOpts("assessments_total",
		"Total number of submissions scored"))
	m.assessmentErrors = auto.NewCounterVec(m.counterOpts("assessment_errors_total",
		"Total number of rejected submissions by reason"), []string{"reason"})
	m.scoringLatency = auto.NewHistogram(m.histogramOpts("scoring_latency_milliseconds",
		"Histogram of pipeline latency in milliseconds", m.latencyBuckets))
	m.topScore = auto.NewHistogram(m.histogramOpts("top_score",
		"Compatibility score of the best-ranked career", m.scoreBuckets))
	m.catalogCareers = auto.NewGauge(m.gaugeOpts("catalog_careers",
		"Number of career archetypes in the catalog"))
	m.batchSize = auto.NewHistogram(m.histogramOpts("batch_size",
		"Number of submissions per batch request", m.batchBuckets))
	m.catalogBuildTotal = auto.NewCounter(m.counterOpts("catalog_builds_total",
		"Number of catalog builds (expected to stay at one per process)"))

	m.memoLookups = auto.NewCounterVec(m.counterOpts("memo_lookups_total",
		"Assessment memo lookups by result"), []string{"result"})
	m.memoEntries = auto.NewGauge(m.gaugeOpts("memo_entries",
		"Number of assessments held in the memo"))

	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity",
		"Capacity of the batch job queue"))
	m.queueDepth = auto.NewGauge(m.gaugeOpts("queue_depth",
		"Number of jobs waiting in the batch job queue"))
	m.queueRejected = auto.NewCounter(m.counterOpts("queue_rejected_total",
		"Jobs scored inline because the queue was full or closed"))

	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count",
		"Configured number of batch workers"))
	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count",
		"Number of workers currently scoring"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total",
		"Total number of worker scoring failures"))

	labels := []string{"endpoint", "method", "status_code"}
	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), labels)
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.latencyBuckets), labels)

	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of failed operations in milliseconds", m.latencyBuckets), []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes",
		"Allocated heap memory in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds",
		"Average GC pause time in milliseconds", m.latencyBuckets))
}

// RecordAssessment records one scored submission.
func (m *Manager) RecordAssessment(latencyMs, topScore float64, hasMatches bool) {
	if !m.enabled {
		return
	}
	m.assessmentsTotal.Inc()
	m.scoringLatency.Observe(latencyMs)
	if hasMatches {
		m.topScore.Observe(topScore)
	}
}

// RecordAssessmentError records a rejected submission.
func (m *Manager) RecordAssessmentError(reason string) {
	if !m.enabled {
		return
	}
	m.assessmentErrors.WithLabelValues(reason).Inc()
}

// RecordBatch records the size of a batch request.
func (m *Manager) RecordBatch(size int) {
	if !m.enabled {
		return
	}
	m.batchSize.Observe(float64(size))
}

// RecordCatalogBuild records a catalog build and its size.
func (m *Manager) RecordCatalogBuild(careers int) {
	if !m.enabled {
		return
	}
	m.catalogBuildTotal.Inc()
	m.catalogCareers.Set(float64(careers))
}

// Package-level helpers delegate to the global manager.

// RecordAssessment records one scored submission.
func RecordAssessment(latencyMs, topScore float64, hasMatches bool) {
	globalManager.RecordAssessment(latencyMs, topScore, hasMatches)
}

// RecordAssessmentError records a rejected submission.
func RecordAssessmentError(reason string) {
	globalManager.RecordAssessmentError(reason)
}

// RecordBatch records the size of a batch request.
func RecordBatch(size int) {
	globalManager.RecordBatch(size)
}

// RecordCatalogBuild records a catalog build and its size.
func RecordCatalogBuild(careers int) {
	globalManager.RecordCatalogBuild(careers)
}

// RecordMemoLookup counts a memo lookup as a hit or a miss.
func RecordMemoLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.memoLookups.WithLabelValues(result).Inc()
}

// UpdateMemoEntries sets the memo size gauge.
func UpdateMemoEntries(count int64) {
	globalManager.memoEntries.Set(float64(count))
}

// UpdateQueueCapacity sets the job queue capacity gauge.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueDepth sets the job queue depth gauge.
func UpdateQueueDepth(depth int) {
	globalManager.queueDepth.Set(float64(depth))
}

// RecordQueueRejected counts a job the queue refused.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// IncWorkerActive marks a worker busy.
func IncWorkerActive() {
	globalManager.workerActiveCount.Inc()
}

// DecWorkerActive marks a worker idle.
func DecWorkerActive() {
	globalManager.workerActiveCount.Dec()
}

// RecordWorkerError counts a worker failure.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType counts an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint counts an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the heap allocation gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
