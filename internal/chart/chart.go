// Package chart renders prediction and crop charts as PNG files with
// gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/tphakala/yieldcast/internal/advisor"
	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/logger"
)

// Default image size
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// DirPermissions is used when creating the output directory
const DirPermissions = 0o755

var (
	colorPrimary   = color.RGBA{R: 68, G: 1, B: 84, A: 255}     // viridis dark
	colorSecondary = color.RGBA{R: 33, G: 145, B: 140, A: 255}  // viridis teal
	colorAccent    = color.RGBA{R: 253, G: 231, B: 37, A: 255}  // viridis yellow
	colorTarget    = color.RGBA{R: 220, G: 20, B: 60, A: 255}   // threshold marker
	colorBandLow   = color.RGBA{R: 211, G: 211, B: 211, A: 255} // lightgray
	colorBandMid   = color.RGBA{R: 169, G: 169, B: 169, A: 255} // gray
	colorBandHigh  = color.RGBA{R: 245, G: 245, B: 245, A: 255}
)

// Renderer writes charts into a directory.
type Renderer struct {
	dir    string
	width  vg.Length
	height vg.Length
}

// NewRenderer creates dir if needed and returns a renderer writing into it.
func NewRenderer(dir string) (*Renderer, error) {
	if err := os.MkdirAll(dir, DirPermissions); err != nil {
		return nil, errors.New(err).
			Component("chart").
			Category(errors.CategoryFileIO).
			FileContext(dir).
			Context("operation", "create_chart_dir").
			Build()
	}
	return &Renderer{dir: dir, width: DefaultWidth, height: DefaultHeight}, nil
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

// PredictionCharts writes the factor importance, current vs optimal and
// gauge charts for one prediction and returns the written paths.
func (r *Renderer) PredictionCharts(fp crops.FactorProfile, comparisons []advisor.Comparison, gauge advisor.Gauge) ([]string, error) {
	slug := Slug(fp.Crop)
	jobs := []struct {
		name string
		draw func() (*plot.Plot, error)
	}{
		{slug + "_factors.png", func() (*plot.Plot, error) { return FactorImportance(fp) }},
		{slug + "_comparison.png", func() (*plot.Plot, error) { return Comparison(fp.Crop, comparisons) }},
		{slug + "_gauge.png", func() (*plot.Plot, error) { return Gauge(fp.Crop, gauge) }},
	}

	paths := make([]string, 0, len(jobs))
	for _, job := range jobs {
		p, err := job.draw()
		if err != nil {
			return paths, renderError(err, job.name)
		}
		path, err := r.save(p, job.name)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// NutritionChart writes the crop's nutrition chart and returns its path.
func (r *Renderer) NutritionChart(profile crops.CropProfile) (string, error) {
	name := Slug(profile.Name) + "_nutrition.png"
	p, err := Nutrition(profile)
	if err != nil {
		return "", renderError(err, name)
	}
	return r.save(p, name)
}

func (r *Renderer) save(p *plot.Plot, name string) (string, error) {
	path := filepath.Join(r.dir, name)
	if err := p.Save(r.width, r.height, path); err != nil {
		return "", errors.New(err).
			Component("chart").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Context("operation", "save_chart").
			Build()
	}
	GetLogger().Debug("chart written", logger.String("path", path))
	return path, nil
}

func renderError(err error, name string) error {
	return errors.New(err).
		Component("chart").
		Category(errors.CategoryRender).
		Context("chart", name).
		Build()
}

// Slug turns a crop name into a file name stem: "Corn (Maize)" becomes "corn_maize".
func Slug(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	return p
}

// FactorImportance draws a horizontal bar per factor.
func FactorImportance(fp crops.FactorProfile) (*plot.Plot, error) {
	if len(fp.Factors) == 0 {
		return nil, errors.Newf("no factors for %s", fp.Crop).
			Component("chart").
			Category(errors.CategoryRender).
			Build()
	}

	p := newPlot(fmt.Sprintf("Factors Affecting %s Yield", fp.Crop))
	p.X.Label.Text = "Importance Score"
	p.Y.Label.Text = "Factor"

	values := make(plotter.Values, len(fp.Factors))
	labels := make([]string, len(fp.Factors))
	for i, f := range fp.Factors {
		values[i] = f.Importance
		labels[i] = f.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = colorSecondary
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars, plotter.NewGrid())
	p.NominalY(labels...)
	p.X.Min = 0
	p.X.Max = 1.1
	return p, nil
}

// Nutrition draws the crop's nutrients per 100 g.
func Nutrition(profile crops.CropProfile) (*plot.Plot, error) {
	if len(profile.Nutrition) == 0 {
		return nil, errors.Newf("no nutrition facts for %s", profile.Name).
			Component("chart").
			Category(errors.CategoryRender).
			Build()
	}

	p := newPlot(fmt.Sprintf("Nutritional Content of %s (per 100g)", profile.Name))
	p.Y.Label.Text = "Amount"

	values := make(plotter.Values, len(profile.Nutrition))
	labels := make([]string, len(profile.Nutrition))
	for i, n := range profile.Nutrition {
		values[i] = n.Amount
		labels[i] = n.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, err
	}
	bars.Color = colorPrimary
	bars.LineStyle.Width = vg.Length(0)

	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.YAlign = draw.YTop
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	return p, nil
}

// Comparison draws current and optimal values side by side, each
// normalized by the top of its input range.
func Comparison(crop string, rows []advisor.Comparison) (*plot.Plot, error) {
	if len(rows) == 0 {
		return nil, errors.Newf("no comparison rows for %s", crop).
			Component("chart").
			Category(errors.CategoryRender).
			Build()
	}

	p := newPlot(fmt.Sprintf("Current vs. Optimal Conditions for %s", crop))
	p.Y.Label.Text = "Fraction of input range"

	current := make(plotter.Values, len(rows))
	optimal := make(plotter.Values, len(rows))
	labels := make([]string, len(rows))
	for i, row := range rows {
		current[i] = row.NormalizedCurrent()
		optimal[i] = row.NormalizedOptimal()
		labels[i] = row.Label
	}

	width := vg.Points(14)
	currentBars, err := plotter.NewBarChart(current, width)
	if err != nil {
		return nil, err
	}
	currentBars.Color = colorSecondary
	currentBars.LineStyle.Width = vg.Length(0)
	currentBars.Offset = -width / 2

	optimalBars, err := plotter.NewBarChart(optimal, width)
	if err != nil {
		return nil, err
	}
	optimalBars.Color = colorAccent
	optimalBars.LineStyle.Width = vg.Length(0)
	optimalBars.Offset = width / 2

	p.Add(currentBars, optimalBars, plotter.NewGrid())
	p.Legend.Add("Your Values", currentBars)
	p.Legend.Add("Optimal Values", optimalBars)
	p.Legend.Top = true

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 6
	p.X.Tick.Label.YAlign = draw.YTop
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Min = 0
	p.Y.Max = math.Max(1, math.Max(maxOf(current), maxOf(optimal))*1.1)
	return p, nil
}

// Gauge draws the yield axis with its shaded bands, the crop's max yield
// as a target line and the predicted value as a marker.
func Gauge(crop string, g advisor.Gauge) (*plot.Plot, error) {
	if g.Max <= 0 {
		return nil, errors.Newf("gauge for %s has no range", crop).
			Component("chart").
			Category(errors.CategoryRender).
			Build()
	}

	p := newPlot(fmt.Sprintf("Predicted %s Yield (ton/ha)", crop))
	p.X.Label.Text = "Yield (ton/ha)"
	p.HideY()

	bandColors := map[string]color.Color{
		advisor.BandLow:      colorBandLow,
		advisor.BandModerate: colorBandMid,
		advisor.BandHigh:     colorBandHigh,
	}
	for _, b := range g.Bands {
		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: b.Lo, Y: 0}, {X: b.Hi, Y: 0}, {X: b.Hi, Y: 1}, {X: b.Lo, Y: 1},
		})
		if err != nil {
			return nil, err
		}
		poly.Color = bandColors[b.Name]
		poly.LineStyle.Width = vg.Length(0)
		p.Add(poly)
	}

	target, err := plotter.NewLine(plotter.XYs{{X: g.Target, Y: 0}, {X: g.Target, Y: 1}})
	if err != nil {
		return nil, err
	}
	target.Color = colorTarget
	target.Width = vg.Points(4)
	p.Add(target)

	value := math.Min(math.Max(g.Value, 0), g.Max)
	marker, err := plotter.NewScatter(plotter.XYs{{X: value, Y: 0.5}})
	if err != nil {
		return nil, err
	}
	marker.GlyphStyle.Shape = draw.CircleGlyph{}
	marker.GlyphStyle.Radius = vg.Points(8)
	marker.GlyphStyle.Color = colorPrimary
	p.Add(marker)

	label, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: value, Y: 0.65}},
		Labels: []string{fmt.Sprintf("%.2f", g.Value)},
	})
	if err != nil {
		return nil, err
	}
	p.Add(label)

	p.X.Min = 0
	p.X.Max = g.Max
	p.Y.Min = 0
	p.Y.Max = 1
	return p, nil
}

func maxOf(values plotter.Values) float64 {
	m := math.Inf(-1)
	for _, v := range values {
		m = math.Max(m, v)
	}
	return m
}
