// Package metrics provides Prometheus metrics for the VapeLess engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector the service registers.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core business metrics
	eventsLogged     prometheus.Counter
	eventsDuplicate  prometheus.Counter
	eventsCleared    prometheus.Counter
	evaluations      prometheus.Counter
	evaluationErrors prometheus.Counter
	unlocks          prometheus.Counter
	coachRequests    *prometheus.CounterVec
	coachErrors      prometheus.Counter

	// Evaluation pipeline health
	queueSize         prometheus.Gauge
	queueCapacity     prometheus.Gauge
	queueEnqueueErrs  prometheus.Counter
	workerCount       prometheus.Gauge
	evaluationLatency prometheus.Histogram

	// Repository health
	storeQueryLatency prometheus.Histogram
	storeErrors       prometheus.Counter
	trackedUsers      prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with configuration options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "vapeless",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	factory := promauto.With(m.registry)

	m.eventsLogged = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_logged_total", Help: "Total use events accepted for processing.",
	})
	m.eventsDuplicate = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_duplicate_total", Help: "Total duplicate event submissions rejected by dedupe.",
	})
	m.eventsCleared = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "events_cleared_total", Help: "Total wholesale data-clear operations.",
	})
	m.evaluations = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "achievement_evaluations_total", Help: "Total achievement evaluation passes.",
	})
	m.evaluationErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "achievement_evaluation_errors_total", Help: "Total failed achievement evaluation passes.",
	})
	m.unlocks = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "achievement_unlocks_total", Help: "Total newly persisted achievement unlocks.",
	})
	m.coachRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "coach_requests_total", Help: "Total coach text generations by kind.",
	}, []string{"kind"})
	m.coachErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "coach_errors_total", Help: "Total failed coach generations.",
	})

	m.queueSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_size", Help: "Current number of queued evaluation jobs.",
	})
	m.queueCapacity = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_capacity", Help: "Configured evaluation queue capacity.",
	})
	m.queueEnqueueErrs = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "queue_enqueue_errors_total", Help: "Total enqueue rejections (backpressure or closed queue).",
	})
	m.workerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "worker_count", Help: "Number of evaluation workers.",
	})
	m.evaluationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "evaluation_latency_ms", Help: "Achievement evaluation latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})

	m.storeQueryLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_query_latency_ms", Help: "Repository query latency in milliseconds.",
		Buckets: m.histogramBuckets,
	})
	m.storeErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "store_errors_total", Help: "Total repository errors.",
	})
	m.trackedUsers = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "tracked_users", Help: "Number of users with a stored plan.",
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_requests_total", Help: "Total HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: "http_request_duration_ms", Help: "HTTP request latency in milliseconds.",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
}

// GetRegistry exposes the custom registry for the /healthz handler.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers delegate to the global manager.

func RecordEventLogged() { globalManager.eventsLogged.Inc() }

func RecordEventDuplicate() { globalManager.eventsDuplicate.Inc() }

func RecordEventsCleared() { globalManager.eventsCleared.Inc() }

func RecordEvaluation() { globalManager.evaluations.Inc() }

func RecordEvaluationError() { globalManager.evaluationErrors.Inc() }

func RecordUnlock() { globalManager.unlocks.Inc() }

func RecordCoachError() { globalManager.coachErrors.Inc() }

func RecordCoachRequest(kind string) {
	globalManager.coachRequests.WithLabelValues(kind).Inc()
}

func UpdateQueueSize(n int) { globalManager.queueSize.Set(float64(n)) }

func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }

func RecordQueueEnqueueError() { globalManager.queueEnqueueErrs.Inc() }

func UpdateWorkerCount(n int) { globalManager.workerCount.Set(float64(n)) }

func UpdateTrackedUsers(n int) { globalManager.trackedUsers.Set(float64(n)) }

func RecordStoreError() { globalManager.storeErrors.Inc() }

func RecordStoreQueryLatency(ms float64) {
	globalManager.storeQueryLatency.Observe(ms)
}

func RecordEvaluationLatency(ms float64) {
	globalManager.evaluationLatency.Observe(ms)
}

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}
