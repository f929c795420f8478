// Package advisor turns a prediction and the crop's factor profile into
// agronomic advice: recommendations, a current vs optimal comparison and
// yield gauge bands.
package advisor

import (
	"math"

	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/features"
)

// Deviation thresholds that trigger a recommendation
const (
	TemperatureTolerance = 5.0   // °C from optimal
	RainfallTolerance    = 300.0 // mm from optimal
	PHTolerance          = 1.0   // pH units from optimal
	NutrientShortfall    = 0.8   // fraction of the optimal nutrient level
)

// OptimalMessage is shown when no recommendation applies.
const OptimalMessage = "Your current conditions are close to optimal for this crop. No major adjustments needed."

// Recommendation is one piece of advice about a factor.
type Recommendation struct {
	Factor  string
	Message string
}

// Recommend checks rec against the profile's optimal values. It returns
// advice in a fixed order: temperature, rainfall, pH, nitrogen,
// phosphorus, potassium. An empty result means conditions are close to
// optimal.
func Recommend(rec features.Record, fp crops.FactorProfile) []Recommendation {
	var out []Recommendation

	if opt, ok := fp.Optimal(crops.FactorTemperature); ok && math.Abs(rec.Temperature-opt) > TemperatureTolerance {
		msg := "The current temperature is higher than optimal. Consider shade structures or irrigation cooling systems."
		if rec.Temperature < opt {
			msg = "The current temperature is lower than optimal. Consider greenhouse cultivation or season adjustment."
		}
		out = append(out, Recommendation{Factor: crops.FactorTemperature, Message: msg})
	}

	if opt, ok := fp.Optimal(crops.FactorRainfall); ok && math.Abs(rec.Rainfall-opt) > RainfallTolerance {
		msg := "The current rainfall is higher than optimal. Consider improved drainage or raised beds."
		if rec.Rainfall < opt {
			msg = "The current rainfall is lower than optimal. Consider irrigation systems or drought-resistant varieties."
		}
		out = append(out, Recommendation{Factor: crops.FactorRainfall, Message: msg})
	}

	if opt, ok := fp.Optimal(crops.FactorPH); ok && math.Abs(rec.PH-opt) > PHTolerance {
		msg := "The soil pH is higher than optimal. Consider adding sulfur or organic matter to decrease pH."
		if rec.PH < opt {
			msg = "The soil pH is lower than optimal. Consider adding lime to increase pH."
		}
		out = append(out, Recommendation{Factor: crops.FactorPH, Message: msg})
	}

	nutrients := []struct {
		factor string
		value  float64
		msg    string
	}{
		{crops.FactorNitrogen, rec.Nitrogen, "Nitrogen levels are below optimal. Consider nitrogen fertilizers or legume cover crops."},
		{crops.FactorPhosphorus, rec.Phosphorus, "Phosphorus levels are below optimal. Consider phosphate fertilizers or bone meal supplements."},
		{crops.FactorPotassium, rec.Potassium, "Potassium levels are below optimal. Consider potassium fertilizers or wood ash supplements."},
	}
	for _, n := range nutrients {
		if opt, ok := fp.Optimal(n.factor); ok && n.value < opt*NutrientShortfall {
			out = append(out, Recommendation{Factor: n.factor, Message: n.msg})
		}
	}

	return out
}

// Messages returns the text of each recommendation, or OptimalMessage alone
// when there are none.
func Messages(recs []Recommendation) []string {
	if len(recs) == 0 {
		return []string{OptimalMessage}
	}
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Message
	}
	return out
}
