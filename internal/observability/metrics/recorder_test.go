package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// compile-time checks
var (
	_ Recorder = (*NoOpRecorder)(nil)
	_ Recorder = (*EstimatorMetrics)(nil)
)

func TestParseCropFromOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		operation string
		wantOp    string
		wantCrop  string
	}{
		{"predict:Rice", OpPredict, "Rice"},
		{"predict:Corn (Maize)", OpPredict, "Corn (Maize)"},
		{"predict", OpPredict, LabelAll},
		{"predict:", OpPredict, LabelAll},
		{"train", OpTrain, LabelAll},
	}

	for _, tt := range tests {
		t.Run(tt.operation, func(t *testing.T) {
			t.Parallel()
			op, crop := parseCropFromOperation(tt.operation)
			assert.Equal(t, tt.wantOp, op)
			assert.Equal(t, tt.wantCrop, crop)
		})
	}
}

func TestPredictOp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "predict:Wheat", PredictOp("Wheat"))
}

func TestNoOpRecorder(t *testing.T) {
	t.Parallel()

	r := NewNoOpRecorder()
	assert.NotPanics(t, func() {
		r.RecordOperation(OpTrain, StatusSuccess)
		r.RecordDuration(OpTrain, 1.5)
		r.RecordError(OpTrain, "model-training")
	})
}
