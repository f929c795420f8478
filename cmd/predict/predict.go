package predict

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/tphakala/yieldcast/internal/advisor"
	"github.com/tphakala/yieldcast/internal/chart"
	"github.com/tphakala/yieldcast/internal/crops"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
	"github.com/tphakala/yieldcast/internal/logger"
	"github.com/tphakala/yieldcast/internal/report"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
	"github.com/tphakala/yieldcast/internal/synth"
)

// Defaults for the growing condition flags
const (
	DefaultTemperature = 25.0
	DefaultRainfall    = 1000.0
	DefaultHumidity    = 60.0
	DefaultPH          = 6.5
	DefaultSoil        = string(crops.SoilLoamy)
	DefaultNitrogen    = 80.0
	DefaultPhosphorus  = 50.0
	DefaultPotassium   = 40.0
	DefaultArea        = 10.0
)

// options holds the predict flag values
type options struct {
	record      features.Record
	chartsDir   string
	showMetrics bool
	asJSON      bool
}

// Command creates the predict command.
func Command(ctx *runtimectx.Context) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict crop yield for the given growing conditions",
		Long: `Predict the yield of a crop from growing conditions and soil nutrients.
The model is trained on synthetic data the first time it is needed.`,
		Example: "  yieldcast predict --crop Rice --temperature 27 --rainfall 1600 --soil clay --area 12",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), ctx, opts)
		},
	}

	setupFlags(cmd, opts)

	return cmd
}

// setupFlags configures flags specific to the predict command.
func setupFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVar(&opts.record.Crop, "crop", "", "Crop type, see 'yieldcast crops list'")
	f.Float64Var(&opts.record.Temperature, "temperature", DefaultTemperature, "Average temperature during the growing season (°C)")
	f.Float64Var(&opts.record.Rainfall, "rainfall", DefaultRainfall, "Total annual rainfall (mm)")
	f.Float64Var(&opts.record.Humidity, "humidity", DefaultHumidity, "Average humidity (%)")
	f.Float64Var(&opts.record.PH, "ph", DefaultPH, "Soil pH")
	f.StringVar(&opts.record.Soil, "soil", DefaultSoil, "Soil type: Loamy, Clay, Sandy, Silt or Black")
	f.Float64Var(&opts.record.Nitrogen, "nitrogen", DefaultNitrogen, "Nitrogen content (kg/ha)")
	f.Float64Var(&opts.record.Phosphorus, "phosphorus", DefaultPhosphorus, "Phosphorus content (kg/ha)")
	f.Float64Var(&opts.record.Potassium, "potassium", DefaultPotassium, "Potassium content (kg/ha)")
	f.Float64Var(&opts.record.Area, "area", DefaultArea, "Cultivated area (hectares)")
	f.StringVar(&opts.chartsDir, "charts", "", "Write PNG charts to this directory")
	f.BoolVar(&opts.showMetrics, "metrics", false, "Print collected metrics after the report")
	f.BoolVar(&opts.asJSON, "json", false, "Print the prediction as JSON instead of a report")

	_ = cmd.MarkFlagRequired("crop")
}

// run predicts, then renders the report and optional charts and metrics
func run(ctx context.Context, rt *runtimectx.Context, opts *options) error {
	log := GetLogger()
	rec := opts.record

	// an unrecognized soil is passed through so validation reports it
	if soil, err := crops.ParseSoilType(rec.Soil); err == nil {
		rec.Soil = soil.String()
	}

	result, err := rt.Service().Predict(ctx, rec)
	if err != nil {
		return err
	}

	if opts.asJSON {
		if err := writeJSON(rt, result); err != nil {
			return err
		}
		return writeMetrics(rt, opts)
	}

	fp, err := rt.Catalog.Factors(rec.Crop, synth.NewRand(rt.Settings.Training.Seed))
	if err != nil {
		return err
	}

	rep := report.Prediction{
		Record:          rec,
		Result:          result,
		Factors:         fp,
		Comparisons:     advisor.Compare(rec, fp),
		Recommendations: advisor.Recommend(rec, fp),
		Gauge:           advisor.NewGauge(result.YieldPerHectare, fp.MaxYield),
	}

	if est, err := rt.Service().Estimator(ctx); err == nil {
		rep.ModelFeatures = est.Importances()
	}

	if dir := chartsDir(rt, opts); dir != "" {
		r, err := chart.NewRenderer(dir)
		if err != nil {
			return err
		}
		paths, err := r.PredictionCharts(fp, rep.Comparisons, rep.Gauge)
		if err != nil {
			return err
		}
		rep.Charts = paths
		log.Debug("charts written", logger.String("dir", dir), logger.Int("count", len(paths)))
	}

	if err := rt.Printer().Prediction(rep); err != nil {
		return err
	}

	return writeMetrics(rt, opts)
}

// chartsDir returns the flag directory, else the configured one when enabled
func chartsDir(rt *runtimectx.Context, opts *options) string {
	if opts.chartsDir != "" {
		return opts.chartsDir
	}
	if rt.Settings.Output.Charts.Enabled {
		return rt.Settings.Output.Charts.Path
	}
	return ""
}

func writeJSON(rt *runtimectx.Context, v any) error {
	enc := json.NewEncoder(rt.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.New(err).
			Component("cmd").
			Category(errors.CategoryFileIO).
			Context("operation", "write_json").
			Build()
	}
	return nil
}

func writeMetrics(rt *runtimectx.Context, opts *options) error {
	if !opts.showMetrics || rt.Metrics == nil {
		return nil
	}
	return rt.Metrics.WriteText(rt.Out)
}
