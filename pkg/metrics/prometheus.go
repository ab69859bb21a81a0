package metrics

import (
	"context"
	"math"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the voyage service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dataset lifecycle
	datasetPassengers   prometheus.Gauge
	datasetReady        prometheus.Gauge
	datasetLoadDuration prometheus.Gauge

	// Pipeline
	predictions       *prometheus.CounterVec
	predictionLatency prometheus.Histogram
	modelScores       *prometheus.GaugeVec
	stageLatency      *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
	lastNumGC            uint32
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "voyage",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	// A disabled manager still builds its collectors so every call stays safe,
	// it just never registers them.
	reg := m.registry
	if !m.enabled {
		reg = prometheus.NewRegistry()
	}
	auto := promauto.With(reg)
	labels := prometheus.Labels(m.customLabels)

	m.datasetPassengers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_passengers",
		Help:        "Number of passengers held by the loaded snapshot",
		ConstLabels: labels,
	})

	m.datasetReady = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_ready",
		Help:        "1 once the dataset snapshot is loaded, 0 while loading",
		ConstLabels: labels,
	})

	m.datasetLoadDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_load_duration_milliseconds",
		Help:        "Time from service start until the snapshot was ready",
		ConstLabels: labels,
	})

	m.predictions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "predictions_total",
			Help:        "Total number of predictions by model and outcome",
			ConstLabels: labels,
		},
		[]string{"model", "outcome"},
	)

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "prediction_latency_milliseconds",
		Help:        "Latency of a full hypothetical prediction in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.modelScores = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "model_score",
			Help:        "Evaluation metrics of each model on the loaded dataset",
			ConstLabels: labels,
		},
		[]string{"model", "metric"},
	)

	m.stageLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "stage_latency_milliseconds",
			Help:        "Latency of pipeline stages in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"stage"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component",
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Total number of errors by endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// UpdateDatasetPassengers sets the number of passengers in the snapshot.
func (m *Manager) UpdateDatasetPassengers(count int) {
	m.datasetPassengers.Set(float64(count))
}

// SetDatasetReady flips the readiness gauge.
func (m *Manager) SetDatasetReady(ready bool) {
	if ready {
		m.datasetReady.Set(1)
		return
	}
	m.datasetReady.Set(0)
}

// RecordDatasetLoad records how long the dataset took to become ready.
func (m *Manager) RecordDatasetLoad(d time.Duration) {
	m.datasetLoadDuration.Set(float64(d.Milliseconds()))
}

// RecordPrediction counts one prediction of model with the given outcome.
func (m *Manager) RecordPrediction(model string, outcome int) {
	m.predictions.WithLabelValues(model, strconv.Itoa(outcome)).Inc()
}

// RecordPredictionLatency records prediction latency in milliseconds.
func (m *Manager) RecordPredictionLatency(latencyMs float64) {
	m.predictionLatency.Observe(latencyMs)
}

// RecordStageLatency records the latency of a pipeline stage in milliseconds.
func (m *Manager) RecordStageLatency(stage string, latencyMs float64) {
	m.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// SetModelScore publishes an evaluation metric for model.
// Undefined values (NaN, Inf) are not exported and return ErrUndefinedValue.
func (m *Manager) SetModelScore(model, metric string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		m.modelScores.DeleteLabelValues(model, metric)
		return ErrUndefinedValue
	}
	m.modelScores.WithLabelValues(model, metric).Set(value)
	return nil
}

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// CollectSystemOnce samples runtime memory, goroutine and GC figures.
func (m *Manager) CollectSystemOnce() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.systemMemoryUsage.Set(float64(ms.Alloc))
	m.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))

	// PauseNs is a circular buffer of the most recent pauses.
	window := uint32(len(ms.PauseNs))
	start := m.lastNumGC
	if ms.NumGC-start > window {
		start = ms.NumGC - window
	}
	for n := start; n < ms.NumGC; n++ {
		m.systemGCPauseTime.Observe(float64(ms.PauseNs[n%window]) / float64(time.Millisecond))
	}
	m.lastNumGC = ms.NumGC
}

// CollectSystem samples system figures every refresh interval until ctx is done.
func (m *Manager) CollectSystem(ctx context.Context) {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	m.CollectSystemOnce()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CollectSystemOnce()
		}
	}
}

// Package-level helpers operate on the global manager.

// UpdateDatasetPassengers sets the number of passengers in the snapshot.
func UpdateDatasetPassengers(count int) { globalManager.UpdateDatasetPassengers(count) }

// SetDatasetReady flips the readiness gauge.
func SetDatasetReady(ready bool) { globalManager.SetDatasetReady(ready) }

// RecordDatasetLoad records how long the dataset took to become ready.
func RecordDatasetLoad(d time.Duration) { globalManager.RecordDatasetLoad(d) }

// RecordPrediction counts one prediction of model with the given outcome.
func RecordPrediction(model string, outcome int) { globalManager.RecordPrediction(model, outcome) }

// RecordPredictionLatency records prediction latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) { globalManager.RecordPredictionLatency(latencyMs) }

// RecordStageLatency records the latency of a pipeline stage in milliseconds.
func RecordStageLatency(stage string, latencyMs float64) {
	globalManager.RecordStageLatency(stage, latencyMs)
}

// SetModelScore publishes an evaluation metric for model.
func SetModelScore(model, metric string, value float64) error {
	return globalManager.SetModelScore(model, metric, value)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// CollectSystem samples system figures on the global manager until ctx is done.
func CollectSystem(ctx context.Context) { globalManager.CollectSystem(ctx) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
