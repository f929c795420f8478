package crops

import (
	"math/rand/v2"
)

// Factor names in the order Factors returns them
const (
	FactorTemperature = "Temperature"
	FactorRainfall    = "Rainfall"
	FactorPH          = "Soil pH"
	FactorHumidity    = "Humidity"
	FactorNitrogen    = "Nitrogen"
	FactorPhosphorus  = "Phosphorus"
	FactorPotassium   = "Potassium"
)

// Nutrient targets in kg/ha, shared by every crop
const (
	OptimalNitrogen   = 90.0
	OptimalPhosphorus = 60.0
	OptimalPotassium  = 40.0
)

// DefaultMaxYield is the theoretical ceiling in t/ha for crops without one
const DefaultMaxYield = 12.0

// Perturbation bounds applied to each importance weight
const (
	importanceJitterMin = 0.9
	importanceJitterMax = 1.1
)

type baseFactor struct {
	name       string
	key        string // catalog key for importance overrides
	importance float64
}

var baseFactors = [...]baseFactor{
	{FactorTemperature, "temperature", 0.85},
	{FactorRainfall, "rainfall", 0.90},
	{FactorPH, "ph", 0.75},
	{FactorHumidity, "humidity", 0.60},
	{FactorNitrogen, "nitrogen", 0.70},
	{FactorPhosphorus, "phosphorus", 0.65},
	{FactorPotassium, "potassium", 0.60},
}

// NumFactors is the number of factors in a FactorProfile
const NumFactors = len(baseFactors)

func factorIndex(key string) (int, bool) {
	for i := range baseFactors {
		if baseFactors[i].key == key {
			return i, true
		}
	}
	return 0, false
}

// Factor is one input's relative importance and optimal value for a crop.
type Factor struct {
	Name       string
	Importance float64 // relative, the largest factor is 1.0
	Optimal    float64
}

// FactorProfile describes which inputs matter most for a crop.
type FactorProfile struct {
	Crop     string
	Factors  []Factor
	MaxYield float64 // t/ha
}

// Optimal returns the optimal value of the named factor.
func (fp FactorProfile) Optimal(name string) (float64, bool) {
	for _, f := range fp.Factors {
		if f.Name == name {
			return f.Optimal, true
		}
	}
	return 0, false
}

// Factors computes the factor profile for a crop.
//
// Each importance weight is scaled by an independent U[0.9,1.1] draw from
// rng and the set is normalized so the largest weight is exactly 1.0.
// The perturbation makes repeated calls differ unless rng is seeded
// identically. A nil rng uses the process-wide source.
func (c *Catalog) Factors(name string, rng *rand.Rand) (FactorProfile, error) {
	i, ok := c.index[name]
	if !ok {
		return FactorProfile{}, unknownCrop(name)
	}
	p := &c.profiles[i]

	optimal := [NumFactors]float64{
		p.Temperature.Mid(),
		p.Rainfall.Mid(),
		p.PH.Mid(),
		p.Humidity.Mid(),
		OptimalNitrogen,
		OptimalPhosphorus,
		OptimalPotassium,
	}

	fp := FactorProfile{
		Crop:     p.Name,
		Factors:  make([]Factor, NumFactors),
		MaxYield: DefaultMaxYield,
	}
	if p.MaxYield > 0 {
		fp.MaxYield = p.MaxYield
	}

	maxImportance := 0.0
	for j, bf := range baseFactors {
		importance := bf.importance
		if override, ok := p.Importance[bf.key]; ok {
			importance = override
		}
		importance *= uniform(rng, importanceJitterMin, importanceJitterMax)
		maxImportance = max(maxImportance, importance)

		fp.Factors[j] = Factor{
			Name:       bf.name,
			Importance: importance,
			Optimal:    optimal[j],
		}
	}

	for j := range fp.Factors {
		fp.Factors[j].Importance /= maxImportance
	}

	return fp, nil
}

// uniform draws from U[lo, hi) using rng, or the global source when rng is nil
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if rng == nil {
		return lo + rand.Float64()*(hi-lo)
	}
	return lo + rng.Float64()*(hi-lo)
}
