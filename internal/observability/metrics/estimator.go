package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// EstimatorMetrics contains all Prometheus metrics related to yield estimation.
type EstimatorMetrics struct {
	// Training
	TrainingTotal    *prometheus.CounterVec
	TrainingDuration prometheus.Histogram
	ModelTrained     prometheus.Gauge

	// Prediction
	PredictionTotal    *prometheus.CounterVec
	PredictionErrors   *prometheus.CounterVec
	PredictionDuration *prometheus.HistogramVec

	// Input validation and memoization
	ValidationFailures *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewEstimatorMetrics creates a new instance of EstimatorMetrics.
// It requires a Prometheus registry to register the metrics.
// It returns an error if metric registration fails.
func NewEstimatorMetrics(registry *prometheus.Registry) (*EstimatorMetrics, error) {
	m := &EstimatorMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register estimator metrics: %w", err)
	}
	return m, nil
}

// initMetrics initializes all metrics for EstimatorMetrics.
func (m *EstimatorMetrics) initMetrics() {
	m.TrainingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yieldcast_training_total",
			Help: "Total number of model training runs",
		},
		[]string{"status"},
	)

	m.TrainingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "yieldcast_training_duration_seconds",
			Help:    "Time taken to generate the dataset and fit the model",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
	)

	m.ModelTrained = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "yieldcast_model_trained",
			Help: "Whether the yield model is trained (1) or not (0)",
		},
	)

	m.PredictionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yieldcast_predictions_total",
			Help: "Total number of yield predictions partitioned by crop and status",
		},
		[]string{"crop", "status"},
	)

	m.PredictionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yieldcast_prediction_errors_total",
			Help: "Total number of prediction errors partitioned by crop and error type",
		},
		[]string{"crop", "error_type"},
	)

	m.PredictionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yieldcast_prediction_duration_seconds",
			Help:    "Time taken to produce a prediction",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12), // 0.1ms to ~200ms
		},
		[]string{"crop"},
	)

	m.ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yieldcast_validation_failures_total",
			Help: "Total number of rejected inputs partitioned by failure kind",
		},
		[]string{"kind"},
	)

	m.CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yieldcast_prediction_cache_lookups_total",
			Help: "Prediction cache lookups partitioned by result",
		},
		[]string{"result"},
	)
}

// RecordOperation implements the Recorder interface.
// Supported operations: "train", "predict" or "predict:<crop>", "cache_get".
// Status values: "success", "error" and for cache lookups "hit", "miss".
func (m *EstimatorMetrics) RecordOperation(operation, status string) {
	op, crop := parseCropFromOperation(operation)

	switch op {
	case OpTrain:
		m.TrainingTotal.WithLabelValues(status).Inc()
		if status == StatusSuccess {
			m.ModelTrained.Set(1)
		}
	case OpPredict:
		m.PredictionTotal.WithLabelValues(crop, status).Inc()
	case OpCacheGet:
		m.CacheLookups.WithLabelValues(status).Inc()
	}
}

// RecordDuration implements the Recorder interface.
func (m *EstimatorMetrics) RecordDuration(operation string, seconds float64) {
	op, crop := parseCropFromOperation(operation)

	switch op {
	case OpTrain:
		m.TrainingDuration.Observe(seconds)
	case OpPredict:
		m.PredictionDuration.WithLabelValues(crop).Observe(seconds)
	}
}

// RecordError implements the Recorder interface.
// Validation errors are counted by kind; other errors also count as a
// failed run of their operation.
func (m *EstimatorMetrics) RecordError(operation, errorType string) {
	op, crop := parseCropFromOperation(operation)

	switch op {
	case OpValidate:
		m.ValidationFailures.WithLabelValues(errorType).Inc()
	case OpTrain:
		m.TrainingTotal.WithLabelValues(StatusError).Inc()
		m.ModelTrained.Set(0)
	case OpPredict:
		m.PredictionErrors.WithLabelValues(crop, errorType).Inc()
		m.PredictionTotal.WithLabelValues(crop, StatusError).Inc()
	}
}

// Describe implements the prometheus.Collector interface.
func (m *EstimatorMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.TrainingTotal.Describe(ch)
	ch <- m.TrainingDuration.Desc()
	ch <- m.ModelTrained.Desc()

	m.PredictionTotal.Describe(ch)
	m.PredictionErrors.Describe(ch)
	m.PredictionDuration.Describe(ch)

	m.ValidationFailures.Describe(ch)
	m.CacheLookups.Describe(ch)
}

// Collect implements the prometheus.Collector interface.
func (m *EstimatorMetrics) Collect(ch chan<- prometheus.Metric) {
	m.TrainingTotal.Collect(ch)
	ch <- m.TrainingDuration
	ch <- m.ModelTrained

	m.PredictionTotal.Collect(ch)
	m.PredictionErrors.Collect(ch)
	m.PredictionDuration.Collect(ch)

	m.ValidationFailures.Collect(ch)
	m.CacheLookups.Collect(ch)
}
