// Package metrics provides Prometheus metrics for the users API service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry operation labels.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpDelete = "delete"
	OpUpdate = "update"
	OpReset  = "reset"
)

// Registry operation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeNotFound  = "not_found"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Registry metrics
	operations *prometheus.CounterVec
	usersTotal prometheus.Gauge
	resets     prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec
	panicsRecovered     prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to keep default Go collectors out unless asked for.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "users",
		subsystem:        "api",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.operations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registry_operations_total",
		Help:        "Registry operations by operation and outcome",
		ConstLabels: m.constLabels,
	}, []string{"operation", "outcome"})

	m.usersTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "users_total",
		Help:        "Number of user records currently held",
		ConstLabels: m.constLabels,
	})

	m.resets = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registry_resets_total",
		Help:        "Number of times the registry was restored from its seed snapshot",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total HTTP requests by route, method and status",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP error responses by route, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "error_type"})

	m.rateLimited = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_rate_limited_total",
		Help:        "Requests rejected by the rate limiter",
		ConstLabels: m.constLabels,
	}, []string{"method"})

	m.panicsRecovered = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_panics_recovered_total",
		Help:        "Handler panics converted to 500 responses",
		ConstLabels: m.constLabels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})
}

// RecordOperation counts a registry operation with its outcome.
func (m *Manager) RecordOperation(operation, outcome string) {
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// SetUsersTotal sets the current collection size.
func (m *Manager) SetUsersTotal(n int) {
	m.usersTotal.Set(float64(n))
}

// RecordReset counts a snapshot restore.
func (m *Manager) RecordReset() {
	m.resets.Inc()
}

// RecordHTTPRequest records one finished request.
func (m *Manager) RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(route, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(route, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func (m *Manager) RecordHTTPError(route, method, errorType string) {
	m.errorsByEndpoint.WithLabelValues(route, method, errorType).Inc()
}

// RecordRateLimited counts a request rejected with 429.
func (m *Manager) RecordRateLimited(method string) {
	m.rateLimited.WithLabelValues(method).Inc()
}

// RecordPanicRecovered counts a panic caught by the failure boundary.
func (m *Manager) RecordPanicRecovered() {
	m.panicsRecovered.Inc()
}

// UpdateSystem sets memory and goroutine gauges.
func (m *Manager) UpdateSystem(allocBytes uint64, goroutines int) {
	m.systemMemoryUsage.Set(float64(allocBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Package-level helpers delegate to the global manager.

// RecordOperation counts a registry operation on the global manager.
func RecordOperation(operation, outcome string) { globalManager.RecordOperation(operation, outcome) }

// SetUsersTotal sets the users gauge on the global manager.
func SetUsersTotal(n int) { globalManager.SetUsersTotal(n) }

// RecordReset counts a reset on the global manager.
func RecordReset() { globalManager.RecordReset() }

// RecordHTTPRequest records a request on the global manager.
func RecordHTTPRequest(route, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(route, method, statusCode, durationMs)
}

// RecordHTTPError records an error response on the global manager.
func RecordHTTPError(route, method, errorType string) {
	globalManager.RecordHTTPError(route, method, errorType)
}

// RecordRateLimited counts a 429 on the global manager.
func RecordRateLimited(method string) { globalManager.RecordRateLimited(method) }

// RecordPanicRecovered counts a recovered panic on the global manager.
func RecordPanicRecovered() { globalManager.RecordPanicRecovered() }

// UpdateSystem sets system gauges on the global manager.
func UpdateSystem(allocBytes uint64, goroutines int) {
	globalManager.UpdateSystem(allocBytes, goroutines)
}

// EnableRuntimeCollectors registers the Go runtime and process collectors on
// the custom registry. Safe to call once.
func EnableRuntimeCollectors() error {
	if err := customRegistry.Register(collectors.NewGoCollector()); err != nil {
		return err
	}
	return customRegistry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
