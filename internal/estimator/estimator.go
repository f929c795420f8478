// Package estimator predicts crop yield with a random forest trained on
// synthetic data.
//
// An Estimator is a fitted preprocessing pipeline plus forest and is
// immutable once Fit returns. Service owns the process-wide estimator,
// training it lazily on first use.
package estimator

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
	"github.com/tphakala/yieldcast/internal/forest"
	"github.com/tphakala/yieldcast/internal/logger"
	"github.com/tphakala/yieldcast/internal/preprocess"
)

// Prediction is the estimator's answer for one record.
type Prediction struct {
	Crop            string  `json:"crop_type"`
	YieldPerHectare float64 `json:"yield_per_hectare"` // t/ha, never negative
	Area            float64 `json:"area"`              // ha
	TotalYield      float64 `json:"total_yield"`       // t
	Confidence      float64 `json:"confidence"`        // heuristic percentage in [50, 98]
	TraceID         string  `json:"trace_id,omitempty"`
}

// FeatureImportance is the share of the model's split gain attributed to one
// encoded feature.
type FeatureImportance struct {
	Feature    string
	Importance float64
}

// Estimator is a column transformer and forest fitted together.
type Estimator struct {
	transformer preprocess.ColumnTransformer
	model       *forest.Regressor
}

// New returns an unfitted estimator using the given forest hyperparameters.
func New(cfg forest.Config) *Estimator {
	return &Estimator{model: forest.New(cfg)}
}

// Fit learns the preprocessing statistics and grows the forest.
// An empty dataset fails with a model-training error.
func (e *Estimator) Fit(ctx context.Context, rows []features.Row) error {
	if len(rows) == 0 {
		return errors.Newf("cannot train estimator on an empty dataset").
			Component("estimator").
			Category(errors.CategoryModelTraining).
			Build()
	}

	start := time.Now()

	var ct preprocess.ColumnTransformer
	if err := ct.Fit(rows); err != nil {
		return err
	}
	x, y, err := ct.TransformRows(rows)
	if err != nil {
		return errors.New(err).
			Component("estimator").
			Category(errors.CategoryModelTraining).
			Context("operation", "transform_rows").
			Build()
	}
	if err := e.model.Fit(ctx, x, y); err != nil {
		return err
	}
	e.transformer = ct

	GetLogger().Info("estimator trained",
		logger.String("model.name", "random_forest"),
		logger.Int("model.trees", e.model.Config().Trees),
		logger.Int("data.samples", len(rows)),
		logger.Int("data.features", ct.Width()),
		logger.Int64("perf.duration_ms", time.Since(start).Milliseconds()))

	return nil
}

// Fitted reports whether the estimator can predict.
func (e *Estimator) Fitted() bool {
	return e.model.Fitted()
}

// Predict estimates the yield for rec. It assumes rec has been validated;
// unknown categories are encoded as all zeros rather than rejected.
func (e *Estimator) Predict(ctx context.Context, rec features.Record) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, errors.New(err).
			Component("estimator").
			Category(errors.CategoryCancellation).
			Build()
	}

	x, err := e.transformer.Transform(rec)
	if err != nil {
		return Prediction{}, errors.New(err).
			Component("estimator").
			Category(errors.CategoryModelPrediction).
			Context("crop", rec.Crop).
			Build()
	}

	yield, err := e.model.Predict(x)
	if err != nil {
		return Prediction{}, err
	}
	yield = max(yield, 0)

	return Prediction{
		Crop:            rec.Crop,
		YieldPerHectare: yield,
		Area:            rec.Area,
		TotalYield:      yield * rec.Area,
		Confidence:      Confidence(rec),
	}, nil
}

// Importances returns the forest's feature importances keyed by encoded
// feature name, largest first.
func (e *Estimator) Importances() []FeatureImportance {
	if !e.Fitted() {
		return nil
	}
	names := e.transformer.FeatureNames()
	values := e.model.FeatureImportances()

	out := make([]FeatureImportance, 0, len(names))
	for i, name := range names {
		if i < len(values) {
			out = append(out, FeatureImportance{Feature: name, Importance: values[i]})
		}
	}
	slices.SortStableFunc(out, func(a, b FeatureImportance) int {
		return cmp.Compare(b.Importance, a.Importance)
	})
	return out
}
