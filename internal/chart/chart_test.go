package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/yieldcast/internal/advisor"
	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
	"github.com/tphakala/yieldcast/internal/synth"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func TestSlug(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Rice":         "rice",
		"Corn (Maize)": "corn_maize",
		"Sugar  cane":  "sugar_cane",
		"--Odd--":      "odd",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestPredictionCharts(t *testing.T) {
	t.Parallel()

	catalog := crops.MustDefault()
	fp, err := catalog.Factors("Corn (Maize)", synth.NewRand(5))
	require.NoError(t, err)

	rec := features.Record{
		Crop: "Corn (Maize)", Temperature: 24, Rainfall: 700, Humidity: 60, PH: 6.2,
		Soil: "Loamy", Nitrogen: 120, Phosphorus: 55, Potassium: 45, Area: 3,
	}

	dir := filepath.Join(t.TempDir(), "charts")
	r, err := NewRenderer(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Dir())

	paths, err := r.PredictionCharts(fp, advisor.Compare(rec, fp), advisor.NewGauge(9.5, fp.MaxYield))
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, filepath.Join(dir, "corn_maize_factors.png"), paths[0])
	assert.Equal(t, filepath.Join(dir, "corn_maize_comparison.png"), paths[1])
	assert.Equal(t, filepath.Join(dir, "corn_maize_gauge.png"), paths[2])
	for _, p := range paths {
		assertPNG(t, p)
	}
}

func TestNutritionChart(t *testing.T) {
	t.Parallel()

	profile, err := crops.MustDefault().Profile("Potato")
	require.NoError(t, err)

	r, err := NewRenderer(t.TempDir())
	require.NoError(t, err)

	path, err := r.NutritionChart(profile)
	require.NoError(t, err)
	assert.Equal(t, "potato_nutrition.png", filepath.Base(path))
	assertPNG(t, path)
}

func TestChartsRejectEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := FactorImportance(crops.FactorProfile{Crop: "Rice"})
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))

	_, err = Nutrition(crops.CropProfile{Name: "Rice"})
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))

	_, err = Comparison("Rice", nil)
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))

	_, err = Gauge("Rice", advisor.NewGauge(1, 0))
	assert.True(t, errors.IsCategory(err, errors.CategoryRender))
}

func TestGaugeClampsMarker(t *testing.T) {
	t.Parallel()

	p, err := Gauge("Cotton", advisor.NewGauge(10, 3))
	require.NoError(t, err)
	assert.InDelta(t, 3.6, p.X.Max, 1e-9)
}

func TestNewRendererFailsOnFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := NewRenderer(file)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}
