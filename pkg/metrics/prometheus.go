// Package metrics provides Prometheus metrics for the navne lookup service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus collectors of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Lookup table
	namesLoaded  *prometheus.GaugeVec
	loadDuration prometheus.Histogram
	loadErrors   *prometheus.CounterVec

	// Predictions
	predictions *prometheus.CounterVec
	batchSize   prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "navne",
		subsystem:        "gender",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
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

	m.namesLoaded = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "names_loaded",
		Help:        "Number of names in the lookup table by category",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "load_duration_seconds",
		Help:        "Time spent reading and indexing the name lists",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.loadErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "load_errors_total",
		Help:        "Name list load failures by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "predictions_total",
		Help:        "Predictions served by resulting category",
		ConstLabels: m.constLabels,
	}, []string{"category"})

	m.batchSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "batch_size",
		Help:        "Number of names per batch prediction request",
		Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request duration in seconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// SetNamesLoaded records the size of the lookup table for a category.
func (m *Manager) SetNamesLoaded(category string, n int) {
	m.namesLoaded.WithLabelValues(category).Set(float64(n))
}

// ObserveLoadDuration records how long a load took, in seconds.
func (m *Manager) ObserveLoadDuration(seconds float64) {
	m.loadDuration.Observe(seconds)
}

// RecordLoadError counts a failed load by error kind.
func (m *Manager) RecordLoadError(kind string) {
	m.loadErrors.WithLabelValues(kind).Inc()
}

// RecordPrediction counts a served prediction.
func (m *Manager) RecordPrediction(category string) {
	m.predictions.WithLabelValues(category).Inc()
}

// ObserveBatchSize records the number of names in a batch request.
func (m *Manager) ObserveBatchSize(n int) {
	m.batchSize.Observe(float64(n))
}

// RecordHTTPRequest counts a served HTTP request and its duration in seconds.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// Package-level helpers on the global manager.

// GetRegistry returns the registry the global manager is registered on.
func GetRegistry() *prometheus.Registry { return customRegistry }

// Global returns the global manager.
func Global() *Manager { return globalManager }

func SetNamesLoaded(category string, n int) { globalManager.SetNamesLoaded(category, n) }
func ObserveLoadDuration(seconds float64)   { globalManager.ObserveLoadDuration(seconds) }
func RecordLoadError(kind string)           { globalManager.RecordLoadError(kind) }
func RecordPrediction(category string)      { globalManager.RecordPrediction(category) }
func ObserveBatchSize(n int)                { globalManager.ObserveBatchSize(n) }

func RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, seconds)
}
