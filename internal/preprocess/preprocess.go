// Package preprocess turns feature records into dense model input vectors.
//
// Numeric columns are standardized to zero mean and unit variance, and the
// categorical columns are one-hot encoded. Categories not seen at fit time
// encode as all zeros.
package preprocess

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
)

// ErrNotFitted is returned when transforming before Fit
var ErrNotFitted = errors.NewStd("transformer is not fitted")

// StandardScaler centers and scales columns by population statistics.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler computes per-column mean and population standard deviation.
// A column with zero variance gets scale 1 so it transforms to zeros.
func FitScaler(columns [][]float64) StandardScaler {
	s := StandardScaler{
		Mean:  make([]float64, len(columns)),
		Scale: make([]float64, len(columns)),
	}
	for j, col := range columns {
		mean, std := stat.PopMeanStdDev(col, nil)
		s.Mean[j] = mean
		if std == 0 {
			std = 1
		}
		s.Scale[j] = std
	}
	return s
}

// Transform writes the scaled values of x into dst.
func (s *StandardScaler) Transform(dst, x []float64) {
	for j := range x {
		dst[j] = (x[j] - s.Mean[j]) / s.Scale[j]
	}
}

// OneHotEncoder maps each categorical column to indicator columns.
type OneHotEncoder struct {
	Categories [][]string // sorted per column
	index      []map[string]int
}

// FitEncoder collects the sorted distinct values of each column.
func FitEncoder(columns [][]string) OneHotEncoder {
	e := OneHotEncoder{
		Categories: make([][]string, len(columns)),
		index:      make([]map[string]int, len(columns)),
	}
	for j, col := range columns {
		cats := slices.Clone(col)
		slices.Sort(cats)
		cats = slices.Compact(cats)

		e.Categories[j] = cats
		e.index[j] = make(map[string]int, len(cats))
		for k, c := range cats {
			e.index[j][c] = k
		}
	}
	return e
}

// Width returns the number of indicator columns.
func (e *OneHotEncoder) Width() int {
	n := 0
	for _, cats := range e.Categories {
		n += len(cats)
	}
	return n
}

// Transform sets the indicator columns for x in dst, which must be zeroed.
// Unknown values leave their block at zero.
func (e *OneHotEncoder) Transform(dst []float64, x []string) {
	offset := 0
	for j, v := range x {
		if k, ok := e.index[j][v]; ok {
			dst[offset+k] = 1
		}
		offset += len(e.Categories[j])
	}
}

// ColumnTransformer applies the scaler to the numeric features and the
// encoder to the categorical ones, concatenating the results.
type ColumnTransformer struct {
	scaler  StandardScaler
	encoder OneHotEncoder
	fitted  bool
}

// Fit learns scaling statistics and categories from rows.
func (ct *ColumnTransformer) Fit(rows []features.Row) error {
	if len(rows) == 0 {
		return errors.Newf("cannot fit transformer on an empty dataset").
			Component("preprocess").
			Category(errors.CategoryModelTraining).
			Build()
	}

	numeric := make([][]float64, features.NumNumeric)
	for j := range numeric {
		numeric[j] = make([]float64, len(rows))
	}
	categorical := make([][]string, len(features.CategoricalColumns))
	for j := range categorical {
		categorical[j] = make([]string, len(rows))
	}

	for i := range rows {
		rec := rows[i].Record()
		for j, v := range rec.Numeric() {
			numeric[j][i] = v
		}
		for j, v := range rec.Categorical() {
			categorical[j][i] = v
		}
	}

	ct.scaler = FitScaler(numeric)
	ct.encoder = FitEncoder(categorical)
	ct.fitted = true
	return nil
}

// Width returns the length of a transformed vector.
func (ct *ColumnTransformer) Width() int {
	return features.NumNumeric + ct.encoder.Width()
}

// Transform encodes one record.
func (ct *ColumnTransformer) Transform(rec features.Record) ([]float64, error) {
	if !ct.fitted {
		return nil, ErrNotFitted
	}
	out := make([]float64, ct.Width())
	numeric := rec.Numeric()
	categorical := rec.Categorical()
	ct.scaler.Transform(out[:features.NumNumeric], numeric[:])
	ct.encoder.Transform(out[features.NumNumeric:], categorical[:])
	return out, nil
}

// TransformRows encodes training rows into a design matrix and label vector.
func (ct *ColumnTransformer) TransformRows(rows []features.Row) (x [][]float64, y []float64, err error) {
	x = make([][]float64, len(rows))
	y = make([]float64, len(rows))
	for i := range rows {
		x[i], err = ct.Transform(rows[i].Record())
		if err != nil {
			return nil, nil, err
		}
		y[i] = rows[i].Yield
	}
	return x, y, nil
}

// FeatureNames returns the column names of a transformed vector,
// e.g. "temperature" or "soil_type=Clay".
func (ct *ColumnTransformer) FeatureNames() []string {
	names := slices.Clone(features.NumericColumns)
	for j, cats := range ct.encoder.Categories {
		for _, c := range cats {
			names = append(names, features.CategoricalColumns[j]+"="+c)
		}
	}
	return names
}
