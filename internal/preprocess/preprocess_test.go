package preprocess

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
)

func TestFitScaler(t *testing.T) {
	t.Parallel()

	s := FitScaler([][]float64{
		{1, 2, 3, 4},
		{5, 5, 5, 5},
	})

	assert.InDelta(t, 2.5, s.Mean[0], 1e-12)
	assert.InDelta(t, 1.118033988749895, s.Scale[0], 1e-12, "population std")
	assert.InDelta(t, 5, s.Mean[1], 1e-12)
	assert.InDelta(t, 1, s.Scale[1], 0, "constant column scales by 1")

	dst := make([]float64, 2)
	s.Transform(dst, []float64{2.5, 7})
	assert.InDelta(t, 0, dst[0], 1e-12)
	assert.InDelta(t, 2, dst[1], 1e-12)
}

func TestOneHotEncoder(t *testing.T) {
	t.Parallel()

	e := FitEncoder([][]string{
		{"Wheat", "Rice", "Wheat"},
		{"Loamy", "Clay", "Clay"},
	})

	assert.Equal(t, [][]string{{"Rice", "Wheat"}, {"Clay", "Loamy"}}, e.Categories)
	assert.Equal(t, 4, e.Width())

	dst := make([]float64, 4)
	e.Transform(dst, []string{"Wheat", "Clay"})
	assert.Equal(t, []float64{0, 1, 1, 0}, dst)

	unknown := make([]float64, 4)
	e.Transform(unknown, []string{"Banana", "Gravel"})
	assert.Equal(t, []float64{0, 0, 0, 0}, unknown)
}

func sampleRows() []features.Row {
	return []features.Row{
		{Crop: "Rice", Temperature: 20, Rainfall: 1000, Humidity: 60, PH: 5.5, Soil: "Clay", Nitrogen: 80, Phosphorus: 50, Potassium: 30, Yield: 5},
		{Crop: "Wheat", Temperature: 30, Rainfall: 2000, Humidity: 80, PH: 6.5, Soil: "Loamy", Nitrogen: 100, Phosphorus: 70, Potassium: 50, Yield: 7},
	}
}

func TestColumnTransformer(t *testing.T) {
	t.Parallel()

	var ct ColumnTransformer
	_, err := ct.Transform(features.Record{})
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, ct.Fit(sampleRows()))
	assert.Equal(t, 11, ct.Width())
	assert.Equal(t, []string{
		"temperature", "rainfall", "humidity", "ph", "nitrogen", "phosphorus", "potassium",
		"crop_type=Rice", "crop_type=Wheat", "soil_type=Clay", "soil_type=Loamy",
	}, ct.FeatureNames())

	x, y, err := ct.TransformRows(sampleRows())
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 7}, y)
	require.Len(t, x, 2)
	assert.Equal(t, []float64{-1, -1, -1, -1, -1, -1, -1, 1, 0, 1, 0}, roundAll(x[0]))
	assert.Equal(t, []float64{1, 1, 1, 1, 1, 1, 1, 0, 1, 0, 1}, roundAll(x[1]))

	v, err := ct.Transform(features.Record{Crop: "Banana", Soil: "Silt", Temperature: 25, Rainfall: 1500, Humidity: 70, PH: 6, Nitrogen: 90, Phosphorus: 60, Potassium: 40})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, roundAll(v))
}

func TestFitEmptyDataset(t *testing.T) {
	t.Parallel()

	var ct ColumnTransformer
	err := ct.Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryModelTraining))
}

func roundAll(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = math.Round(x*1e9) / 1e9
	}
	return out
}
