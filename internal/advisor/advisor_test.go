package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/features"
	"github.com/tphakala/yieldcast/internal/synth"
)

func riceProfile(t *testing.T) crops.FactorProfile {
	t.Helper()
	fp, err := crops.MustDefault().Factors("Rice", synth.NewRand(1))
	require.NoError(t, err)
	return fp
}

// optimalRice sits at Rice's optimal values: 27.5 °C, 1500 mm, pH 6
func optimalRice() features.Record {
	return features.Record{
		Crop: "Rice", Temperature: 27.5, Rainfall: 1500, Humidity: 75, PH: 6,
		Soil: "Clay", Nitrogen: 90, Phosphorus: 60, Potassium: 40, Area: 1,
	}
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	fp := riceProfile(t)

	tests := []struct {
		name        string
		mutate      func(r *features.Record)
		wantFactors []string
		wantContain string
	}{
		{"optimal", func(r *features.Record) {}, nil, ""},
		{"temperature within tolerance", func(r *features.Record) { r.Temperature = 32.5 }, nil, ""},
		{"cold", func(r *features.Record) { r.Temperature = 20 }, []string{crops.FactorTemperature}, "greenhouse cultivation"},
		{"hot", func(r *features.Record) { r.Temperature = 34 }, []string{crops.FactorTemperature}, "shade structures"},
		{"dry", func(r *features.Record) { r.Rainfall = 1000 }, []string{crops.FactorRainfall}, "drought-resistant"},
		{"wet", func(r *features.Record) { r.Rainfall = 1900 }, []string{crops.FactorRainfall}, "raised beds"},
		{"acidic", func(r *features.Record) { r.PH = 4.5 }, []string{crops.FactorPH}, "adding lime"},
		{"alkaline", func(r *features.Record) { r.PH = 7.5 }, []string{crops.FactorPH}, "adding sulfur"},
		{"nitrogen short", func(r *features.Record) { r.Nitrogen = 71 }, []string{crops.FactorNitrogen}, "legume cover crops"},
		{"nitrogen at threshold", func(r *features.Record) { r.Nitrogen = 72 }, nil, ""},
		{"phosphorus short", func(r *features.Record) { r.Phosphorus = 40 }, []string{crops.FactorPhosphorus}, "bone meal"},
		{"potassium short", func(r *features.Record) { r.Potassium = 20 }, []string{crops.FactorPotassium}, "wood ash"},
		{"everything off", func(r *features.Record) {
			r.Temperature, r.Rainfall, r.PH = 10, 500, 8
			r.Nitrogen, r.Phosphorus, r.Potassium = 0, 0, 0
		}, []string{
			crops.FactorTemperature, crops.FactorRainfall, crops.FactorPH,
			crops.FactorNitrogen, crops.FactorPhosphorus, crops.FactorPotassium,
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := optimalRice()
			tt.mutate(&rec)

			got := Recommend(rec, fp)
			factors := make([]string, 0, len(got))
			for _, r := range got {
				factors = append(factors, r.Factor)
			}
			if tt.wantFactors == nil {
				assert.Empty(t, got)
				assert.Equal(t, []string{OptimalMessage}, Messages(got))
				return
			}
			assert.Equal(t, tt.wantFactors, factors)
			if tt.wantContain != "" {
				assert.Contains(t, got[0].Message, tt.wantContain)
			}
			assert.Len(t, Messages(got), len(got))
		})
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	rec := optimalRice()
	rec.Temperature = 20
	rows := Compare(rec, riceProfile(t))

	require.Len(t, rows, 7)
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
	}
	assert.Equal(t, []string{
		"Temperature (°C)", "Rainfall (mm)", "Humidity (%)", "pH",
		"Nitrogen (kg/ha)", "Phosphorus (kg/ha)", "Potassium (kg/ha)",
	}, labels)

	assert.InDelta(t, 20, rows[0].Current, 0)
	assert.InDelta(t, 27.5, rows[0].Optimal, 1e-9)
	assert.InDelta(t, 0.5, rows[0].NormalizedCurrent(), 1e-9)
	assert.InDelta(t, 0.5, rows[1].NormalizedOptimal(), 1e-9)
	assert.InDelta(t, 75, rows[2].Optimal, 1e-9)
	assert.InDelta(t, 90.0/200, rows[4].NormalizedOptimal(), 1e-9)
	assert.InDelta(t, 40.0/200, rows[6].NormalizedCurrent(), 1e-9)
}

func TestGauge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    float64
		wantBand string
		wantFrac float64
	}{
		{0, BandLow, 0},
		{3.5, BandLow, 3.5 / 12},
		{4, BandModerate, 4.0 / 12},
		{7.9, BandModerate, 7.9 / 12},
		{8, BandHigh, 8.0 / 12},
		{12, BandHigh, 1},
		{20, BandHigh, 1},
	}

	for _, tt := range tests {
		g := NewGauge(tt.value, 10)
		assert.Equal(t, tt.wantBand, g.Band(), "value %v", tt.value)
		assert.InDelta(t, tt.wantFrac, g.Fraction(), 1e-9, "value %v", tt.value)
	}

	g := NewGauge(5, 10)
	assert.InDelta(t, 12, g.Max, 1e-9)
	assert.InDelta(t, 10, g.Target, 0)
	require.Len(t, g.Bands, 3)
	assert.InDelta(t, 4, g.Bands[0].Hi, 1e-9)
	assert.InDelta(t, 8, g.Bands[1].Hi, 1e-9)

	assert.Zero(t, NewGauge(5, 0).Fraction())
}
