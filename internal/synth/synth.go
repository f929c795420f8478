// Package synth fabricates labelled training data from the crop catalog.
//
// Rows are sampled inside, and sometimes around, each crop's optimal ranges
// and labelled with a heuristic yield. The data has no real-world
// provenance; it only gives the estimator something to learn from.
package synth

import (
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/features"
	"github.com/tphakala/yieldcast/internal/logger"
)

// Sampling parameters
const (
	minSamplesPerCrop = 50
	maxSamplesPerCrop = 100

	widenProbability   = 0.3
	offSoilProbability = 0.2

	temperatureMargin = 5.0
	rainfallMargin    = 200.0
	humidityMargin    = 15.0
	phMargin          = 1.0

	noiseMin = 0.85
	noiseMax = 1.15
)

// Base yield band in t/ha before the crop class multipliers
const (
	baseYieldMin = 3.0
	baseYieldMax = 8.0
)

// yieldClass scales the base yield band for a group of crops
type yieldClass struct {
	minMul, maxMul float64
}

var (
	cerealClass = yieldClass{1.2, 1.3}
	bulkClass   = yieldClass{2.0, 2.5}
	lowClass    = yieldClass{0.5, 0.7}
	plainClass  = yieldClass{1.0, 1.0}
)

var yieldClasses = map[string]yieldClass{
	"Rice":         cerealClass,
	"Wheat":        cerealClass,
	"Corn (Maize)": cerealClass,
	"Potato":       bulkClass,
	"Sugarcane":    bulkClass,
	"Cotton":       lowClass,
	"Coffee":       lowClass,
}

// YieldBand returns the label band in t/ha for a crop.
func YieldBand(crop string) (lo, hi float64) {
	class, ok := yieldClasses[crop]
	if !ok {
		class = plainClass
	}
	return baseYieldMin * class.minMul, baseYieldMax * class.maxMul
}

// Generator draws training rows from a catalog.
type Generator struct {
	catalog *crops.Catalog
	rng     *rand.Rand
}

// New returns a generator drawing from rng.
func New(catalog *crops.Catalog, rng *rand.Rand) *Generator {
	return &Generator{catalog: catalog, rng: rng}
}

// NewSeeded returns a generator seeded with seed, or from the clock when seed is 0.
func NewSeeded(catalog *crops.Catalog, seed int64) *Generator {
	return New(catalog, NewRand(seed))
}

// NewRand returns a PCG source for seed; seed 0 means seed from the clock.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		now := uint64(time.Now().UnixNano()) //nolint:gosec // sign does not matter for a seed
		return rand.New(rand.NewPCG(now, rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed))) //nolint:gosec // sign does not matter for a seed
}

// Generate returns between 50 and 100 rows per catalog crop, in catalog order.
func (g *Generator) Generate() []features.Row {
	start := time.Now()
	profiles := g.catalog.Profiles()

	rows := make([]features.Row, 0, len(profiles)*maxSamplesPerCrop)
	for i := range profiles {
		p := &profiles[i]
		n := minSamplesPerCrop + g.rng.IntN(maxSamplesPerCrop-minSamplesPerCrop+1)
		for range n {
			rows = append(rows, g.row(p))
		}
	}

	GetLogger().Debug("training data generated",
		logger.Int("data.samples", len(rows)),
		logger.Int("data.crops", len(profiles)),
		logger.Int64("perf.duration_ms", time.Since(start).Milliseconds()))

	return rows
}

func (g *Generator) row(p *crops.CropProfile) features.Row {
	r := features.Row{Crop: p.Name}

	if g.rng.Float64() < widenProbability {
		r.Temperature = g.uniform(p.Temperature.Min-temperatureMargin, p.Temperature.Max+temperatureMargin)
		r.Rainfall = g.uniform(p.Rainfall.Min-rainfallMargin, p.Rainfall.Max+rainfallMargin)
		r.Humidity = g.uniform(max(0, p.Humidity.Min-humidityMargin), min(100, p.Humidity.Max+humidityMargin))
		r.PH = g.uniform(max(0, p.PH.Min-phMargin), min(14, p.PH.Max+phMargin))
	} else {
		r.Temperature = g.uniform(p.Temperature.Min, p.Temperature.Max)
		r.Rainfall = g.uniform(p.Rainfall.Min, p.Rainfall.Max)
		r.Humidity = g.uniform(p.Humidity.Min, p.Humidity.Max)
		r.PH = g.uniform(p.PH.Min, p.PH.Max)
	}

	r.Soil = g.soil(p)

	r.Nitrogen = g.uniform(30, 150)
	r.Phosphorus = g.uniform(20, 100)
	r.Potassium = g.uniform(20, 100)

	r.Yield = Label(p, r, g.uniform(noiseMin, noiseMax))
	return r
}

// soil picks a suitable soil, or with probability 0.2 a soil class the crop
// does not list. When every class is listed a suitable soil is used.
func (g *Generator) soil(p *crops.CropProfile) string {
	if g.rng.Float64() < offSoilProbability {
		var offSoils []string
		for _, s := range crops.SoilNames() {
			if !p.SuitsSoil(s) {
				offSoils = append(offSoils, s)
			}
		}
		if len(offSoils) > 0 {
			return offSoils[g.rng.IntN(len(offSoils))]
		}
	}
	return p.SuitableSoils[g.rng.IntN(len(p.SuitableSoils))]
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// Label computes the heuristic yield in t/ha for a row. noise multiplies
// the result and is drawn from U[0.85,1.15] during generation.
func Label(p *crops.CropProfile, r features.Row, noise float64) float64 {
	tempDist := distance(r.Temperature, p.Temperature)
	rainDist := distance(r.Rainfall, p.Rainfall)
	humDist := distance(r.Humidity, p.Humidity)
	phDist := distance(r.PH, p.PH)

	soilFactor := 0.7
	if p.SuitsSoil(r.Soil) {
		soilFactor = 1.0
	}

	npk := (r.Nitrogen/100 + r.Phosphorus/80 + r.Potassium/80) / 3
	npk = min(max(npk, 0.5), 1.2)

	optimality := 1.0 - (tempDist*0.2 + rainDist*0.25 + humDist*0.15 + phDist*0.15)
	optimality *= soilFactor * npk

	lo, hi := YieldBand(p.Name)
	return (lo + (hi-lo)*optimality) * noise
}

// distance is |v - mid| / span, or 0 for a degenerate range
func distance(v float64, r crops.Range) float64 {
	span := r.Span()
	if span <= 0 {
		return 0
	}
	return math.Abs(v-r.Mid()) / span
}

// Sample draws a plausible query: a random crop with in-range climate,
// a suitable soil class and moderate nutrient levels.
func (g *Generator) Sample() features.Record {
	names := g.catalog.Names()
	p, _ := g.catalog.Profile(names[g.rng.IntN(len(names))])

	rec := features.Record{
		Crop:        p.Name,
		Temperature: g.uniform(p.Temperature.Min, p.Temperature.Max),
		Rainfall:    g.uniform(p.Rainfall.Min, p.Rainfall.Max),
		Humidity:    g.uniform(p.Humidity.Min, p.Humidity.Max),
		PH:          g.uniform(p.PH.Min, p.PH.Max),
		Nitrogen:    g.uniform(60, 120),
		Phosphorus:  g.uniform(40, 80),
		Potassium:   g.uniform(30, 60),
		Area:        g.uniform(1, 50),
	}

	// catalog soils such as "Sandy Loam" are not valid query values
	soils := slices.DeleteFunc(slices.Clone(p.SuitableSoils), func(s string) bool {
		return !crops.SoilType(s).Valid()
	})
	if len(soils) == 0 {
		soils = []string{string(crops.SoilLoamy)}
	}
	rec.Soil = soils[g.rng.IntN(len(soils))]

	return rec
}
