// Package report renders predictions and crop information as terminal text.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tphakala/yieldcast/internal/advisor"
	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/estimator"
	"github.com/tphakala/yieldcast/internal/features"
)

// Disclaimer closes every prediction report.
const Disclaimer = "Disclaimer: Predictions are based on historical data and machine learning models. " +
	"Actual yields may vary due to numerous factors including weather variations, pests, diseases, " +
	"and farming practices. This tool should be used for guidance purposes only."

// topModelFeatures limits the model feature table
const topModelFeatures = 5

// Prediction bundles everything shown after a prediction.
type Prediction struct {
	Record          features.Record
	Result          estimator.Prediction
	Factors         crops.FactorProfile
	Comparisons     []advisor.Comparison
	Recommendations []advisor.Recommendation
	Gauge           advisor.Gauge
	ModelFeatures   []estimator.FeatureImportance // optional
	Charts          []string                      // optional paths of written charts
}

// Printer writes reports to a writer.
type Printer struct {
	w      io.Writer
	p      *message.Printer
	title  cases.Caser
	styles styles
	color  bool
	err    error
}

// Option configures a Printer.
type Option func(*Printer)

// WithColor enables or disables terminal colors. Colors are otherwise
// detected from the writer.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.color = enabled
	}
}

// New returns a printer writing English formatted numbers to w.
func New(w io.Writer, opts ...Option) *Printer {
	pr := &Printer{
		w:     w,
		p:     message.NewPrinter(language.English),
		title: cases.Title(language.English),
		color: true,
	}
	for _, opt := range opts {
		opt(pr)
	}
	pr.styles = newStyles(w, pr.color)
	return pr
}

// printf writes formatted text, remembering the first write error
func (pr *Printer) printf(format string, args ...any) {
	if pr.err != nil {
		return
	}
	_, pr.err = pr.p.Fprintf(pr.w, format, args...)
}

func (pr *Printer) write(s string) {
	if pr.err != nil {
		return
	}
	_, pr.err = io.WriteString(pr.w, s)
}

// flush returns and clears the pending write error
func (pr *Printer) flush() error {
	err := pr.err
	pr.err = nil
	if err != nil {
		return errors.New(err).
			Component("report").
			Category(errors.CategoryFileIO).
			Context("operation", "write_report").
			Build()
	}
	return nil
}

// num formats a float with two decimals and digit grouping
func (pr *Printer) num(v float64) string {
	return pr.p.Sprintf("%.2f", v)
}

// Prediction writes the full prediction report.
func (pr *Printer) Prediction(rep Prediction) error {
	s := pr.styles
	res := rep.Result

	pr.write(s.Title.Render("Yield prediction for "+rep.Record.Crop) + "\n")
	pr.printf("  %-26s %s t/ha\n", "Predicted yield", s.Value.Render(pr.num(res.YieldPerHectare)))
	pr.printf("  %-26s %s t (%s ha)\n", "Total expected yield", s.Value.Render(pr.num(res.TotalYield)), pr.num(res.Area))
	pr.printf("  %-26s %s %s\n", "Prediction confidence",
		s.Value.Render(pr.p.Sprintf("%.1f%%", res.Confidence)), s.Muted.Render("(heuristic)"))
	pr.printf("  %-26s %s (max %s t/ha)\n", "Yield band",
		pr.title.String(rep.Gauge.Band()), pr.num(rep.Gauge.Target))
	if res.TraceID != "" {
		pr.printf("  %-26s %s\n", "Trace ID", s.Muted.Render(res.TraceID))
	}
	pr.write("\n")

	pr.factorTable(rep.Factors)

	cmp := newTable("Current vs. Optimal Conditions", "Factor", "Your Values", "Optimal Values")
	for _, c := range rep.Comparisons {
		cmp.AddRow(c.Label, pr.num(c.Current), pr.num(c.Optimal))
	}
	pr.write(cmp.View(s))
	pr.write("\n")

	if len(rep.ModelFeatures) > 0 {
		mf := newTable("Top Model Features", "Feature", "Importance")
		for _, f := range rep.ModelFeatures[:min(topModelFeatures, len(rep.ModelFeatures))] {
			mf.AddRow(f.Feature, pr.p.Sprintf("%.3f", f.Importance))
		}
		pr.write(mf.View(s))
		pr.write("\n")
	}

	pr.write(s.Heading.Render("Recommendations") + "\n")
	for _, msg := range advisor.Messages(rep.Recommendations) {
		style := s.Advice
		if len(rep.Recommendations) == 0 {
			style = s.Value
		}
		pr.write("  - " + style.Render(msg) + "\n")
	}
	pr.write("\n")

	if len(rep.Charts) > 0 {
		pr.write(s.Heading.Render("Charts") + "\n")
		for _, path := range rep.Charts {
			pr.write("  " + path + "\n")
		}
		pr.write("\n")
	}

	pr.write(s.Muted.Render(Disclaimer) + "\n")
	return pr.flush()
}

func (pr *Printer) factorTable(fp crops.FactorProfile) {
	t := newTable(fmt.Sprintf("Factors Affecting %s Yield", fp.Crop), "Factor", "Importance", "Optimal")
	for _, f := range fp.Factors {
		t.AddRow(f.Name, pr.p.Sprintf("%.2f", f.Importance), pr.num(f.Optimal))
	}
	pr.write(t.View(pr.styles))
	pr.write("\n")
}

// Factors writes a crop's factor profile.
func (pr *Printer) Factors(fp crops.FactorProfile) error {
	pr.factorTable(fp)
	pr.printf("Max yield: %s t/ha\n", pr.num(fp.MaxYield))
	return pr.flush()
}

// CropList writes one line per crop with its key conditions.
func (pr *Printer) CropList(profiles []crops.CropProfile) error {
	t := newTable("Crops", "Crop", "Scientific name", "Season", "Temperature (°C)", "Rainfall (mm)", "Soils")
	for _, p := range profiles {
		t.AddRow(
			p.Name,
			p.ScientificName,
			p.GrowingSeason,
			pr.rangeText(p.Temperature),
			pr.rangeText(p.Rainfall),
			strings.Join(p.SuitableSoils, ", "),
		)
	}
	pr.write(t.View(pr.styles))
	return pr.flush()
}

func (pr *Printer) rangeText(r crops.Range) string {
	return pr.p.Sprintf("%v - %v", r.Min, r.Max)
}
