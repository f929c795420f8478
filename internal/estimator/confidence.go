package estimator

import (
	"math/rand/v2"

	"github.com/tphakala/yieldcast/internal/features"
)

// Confidence heuristic constants
const (
	baseConfidence = 85.0
	minConfidence  = 50.0
	maxConfidence  = 98.0

	extremeTempPenalty     = 10.0
	extremeRainfallPenalty = 8.0
	extremePHPenalty       = 12.0

	tempLow, tempHigh         = 5.0, 35.0
	rainfallLow, rainfallHigh = 200.0, 2500.0
	phLow, phHigh             = 4.0, 9.0

	jitterSpan    = 5.0
	jitterSeedMod = 10000
)

// Confidence returns a heuristic confidence percentage for rec.
//
// It starts at 85, subtracts penalties for extreme temperature, rainfall
// and pH, adds a jitter in [-5, 5] drawn from a source seeded by the
// record's numeric values, and clamps to [50, 98]. The same record always
// gets the same value. This is not a calibrated prediction interval.
func Confidence(rec features.Record) float64 {
	c := baseConfidence

	if rec.Temperature < tempLow || rec.Temperature > tempHigh {
		c -= extremeTempPenalty
	}
	if rec.Rainfall < rainfallLow || rec.Rainfall > rainfallHigh {
		c -= extremeRainfallPenalty
	}
	if rec.PH < phLow || rec.PH > phHigh {
		c -= extremePHPenalty
	}

	rng := rand.New(rand.NewPCG(jitterSeed(rec), 0)) //nolint:gosec // deterministic jitter, not security sensitive
	c += -jitterSpan + rng.Float64()*2*jitterSpan

	return min(max(c, minConfidence), maxConfidence)
}

// jitterSeed is int(sum of numeric fields including area * 100) mod 10000,
// kept non-negative
func jitterSeed(rec features.Record) uint64 {
	sum := rec.Area
	for _, v := range rec.Numeric() {
		sum += v
	}
	seed := int64(sum*100) % jitterSeedMod
	if seed < 0 {
		seed += jitterSeedMod
	}
	return uint64(seed) //nolint:gosec // non-negative by construction
}
