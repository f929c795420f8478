package advisor

import (
	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/features"
)

// Comparison is one row of the current vs optimal table.
type Comparison struct {
	Factor  string
	Label   string // factor with unit, for display
	Current float64
	Optimal float64
	Scale   float64 // upper bound of the valid input range, used to normalize
}

// NormalizedCurrent returns Current as a fraction of the input scale.
func (c Comparison) NormalizedCurrent() float64 {
	return c.Current / c.Scale
}

// NormalizedOptimal returns Optimal as a fraction of the input scale.
func (c Comparison) NormalizedOptimal() float64 {
	return c.Optimal / c.Scale
}

// comparisonRows lists the compared factors in display order with the
// upper bound of each input range
var comparisonRows = []struct {
	factor string
	label  string
	scale  float64
	value  func(features.Record) float64
}{
	{crops.FactorTemperature, "Temperature (°C)", 40, func(r features.Record) float64 { return r.Temperature }},
	{crops.FactorRainfall, "Rainfall (mm)", 3000, func(r features.Record) float64 { return r.Rainfall }},
	{crops.FactorHumidity, "Humidity (%)", 100, func(r features.Record) float64 { return r.Humidity }},
	{crops.FactorPH, "pH", 14, func(r features.Record) float64 { return r.PH }},
	{crops.FactorNitrogen, "Nitrogen (kg/ha)", 200, func(r features.Record) float64 { return r.Nitrogen }},
	{crops.FactorPhosphorus, "Phosphorus (kg/ha)", 200, func(r features.Record) float64 { return r.Phosphorus }},
	{crops.FactorPotassium, "Potassium (kg/ha)", 200, func(r features.Record) float64 { return r.Potassium }},
}

// Compare pairs each input of rec with the crop's optimal value.
func Compare(rec features.Record, fp crops.FactorProfile) []Comparison {
	out := make([]Comparison, 0, len(comparisonRows))
	for _, row := range comparisonRows {
		opt, _ := fp.Optimal(row.factor)
		out = append(out, Comparison{
			Factor:  row.factor,
			Label:   row.label,
			Current: row.value(rec),
			Optimal: opt,
			Scale:   row.scale,
		})
	}
	return out
}
