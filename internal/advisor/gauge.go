package advisor

// Gauge band boundaries as fractions of the crop's max yield
const (
	lowBandEnd      = 0.4
	moderateBandEnd = 0.8
	gaugeHeadroom   = 1.2
)

// Band names
const (
	BandLow      = "low"
	BandModerate = "moderate"
	BandHigh     = "high"
)

// Band is a shaded range on the yield gauge.
type Band struct {
	Name   string
	Lo, Hi float64
}

// Gauge places a predicted yield on a scale from 0 to 1.2 times the crop's
// max yield, with the max yield itself marked as the target.
type Gauge struct {
	Value  float64
	Target float64 // crop max yield
	Max    float64 // end of the axis
	Bands  []Band
}

// NewGauge builds the gauge for a yield and the crop's max yield.
func NewGauge(yield, maxYield float64) Gauge {
	return Gauge{
		Value:  yield,
		Target: maxYield,
		Max:    maxYield * gaugeHeadroom,
		Bands: []Band{
			{Name: BandLow, Lo: 0, Hi: maxYield * lowBandEnd},
			{Name: BandModerate, Lo: maxYield * lowBandEnd, Hi: maxYield * moderateBandEnd},
			{Name: BandHigh, Lo: maxYield * moderateBandEnd, Hi: maxYield * gaugeHeadroom},
		},
	}
}

// Band returns the name of the band the value falls in. Values past the
// end of the axis count as high.
func (g Gauge) Band() string {
	for _, b := range g.Bands {
		if g.Value < b.Hi {
			return b.Name
		}
	}
	return BandHigh
}

// Fraction returns the value as a fraction of the axis, clamped to [0, 1].
func (g Gauge) Fraction() float64 {
	if g.Max <= 0 {
		return 0
	}
	return min(max(g.Value/g.Max, 0), 1)
}
