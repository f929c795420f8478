package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*EstimatorMetrics, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewEstimatorMetrics(reg)
	require.NoError(t, err)
	return m, reg
}

func TestEstimatorMetricsTraining(t *testing.T) {
	t.Parallel()

	m, _ := newTestMetrics(t)

	m.RecordOperation(OpTrain, StatusSuccess)
	m.RecordDuration(OpTrain, 0.25)

	assert.InDelta(t, 1, testutil.ToFloat64(m.TrainingTotal.WithLabelValues(StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ModelTrained), 0)

	m.RecordError(OpTrain, "model-training")
	assert.InDelta(t, 1, testutil.ToFloat64(m.TrainingTotal.WithLabelValues(StatusError)), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.ModelTrained), 0)
}

func TestEstimatorMetricsPrediction(t *testing.T) {
	t.Parallel()

	m, _ := newTestMetrics(t)

	m.RecordOperation(PredictOp("Rice"), StatusSuccess)
	m.RecordOperation(PredictOp("Rice"), StatusSuccess)
	m.RecordDuration(PredictOp("Rice"), 0.001)
	m.RecordError(PredictOp("Wheat"), "model-prediction")

	assert.InDelta(t, 2, testutil.ToFloat64(m.PredictionTotal.WithLabelValues("Rice", StatusSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PredictionTotal.WithLabelValues("Wheat", StatusError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PredictionErrors.WithLabelValues("Wheat", "model-prediction")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.PredictionDuration))
}

func TestEstimatorMetricsValidationAndCache(t *testing.T) {
	t.Parallel()

	m, _ := newTestMetrics(t)

	m.RecordError(OpValidate, "out_of_range")
	m.RecordError(OpValidate, "out_of_range")
	m.RecordError(OpValidate, "unknown_crop")
	m.RecordOperation(OpCacheGet, StatusMiss)
	m.RecordOperation(OpCacheGet, StatusHit)
	m.RecordOperation(OpCacheGet, StatusHit)

	assert.InDelta(t, 2, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("out_of_range")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("unknown_crop")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues(StatusHit)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues(StatusMiss)), 0)
}

func TestEstimatorMetricsUnknownOperationIgnored(t *testing.T) {
	t.Parallel()

	m, reg := newTestMetrics(t)
	m.RecordOperation("nonexistent", StatusSuccess)
	m.RecordDuration("nonexistent", 1)
	m.RecordError("nonexistent", "x")

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	// only the unlabelled histogram and gauge report a series
	assert.Equal(t, 2, count)
}

func TestEstimatorMetricsDoubleRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewEstimatorMetrics(reg)
	require.NoError(t, err)

	_, err = NewEstimatorMetrics(reg)
	require.Error(t, err)
}
