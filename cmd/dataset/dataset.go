package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/features"
	"github.com/tphakala/yieldcast/internal/logger"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
	"github.com/tphakala/yieldcast/internal/synth"
)

// Command creates the dataset command for exporting synthetic training data.
func Command(ctx *runtimectx.Context) *cobra.Command {
	var (
		out  string
		seed int64
	)

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Export the synthetic training dataset",
		Long: `Generate the synthetic training dataset and write it as CSV or Excel.
The format follows the --out extension (.csv or .xlsx); without --out CSV is written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("seed") {
				seed = ctx.Settings.Training.Seed
			}
			rows := synth.NewSeeded(ctx.Catalog, seed).Generate()
			return export(ctx, out, rows)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, .csv or .xlsx (default stdout CSV)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Generator seed, 0 seeds from the clock (default from config)")

	return cmd
}

// export writes rows to out, choosing the format by extension
func export(ctx *runtimectx.Context, out string, rows []features.Row) error {
	if out == "" {
		return synth.WriteCSV(ctx.Out, rows)
	}

	switch strings.ToLower(filepath.Ext(out)) {
	case ".xlsx":
		if err := synth.WriteXLSX(out, rows); err != nil {
			return err
		}
	case ".csv":
		if err := writeCSVFile(out, rows); err != nil {
			return err
		}
	default:
		return errors.Newf("unsupported dataset format %q, use .csv or .xlsx", filepath.Ext(out)).
			Component("cmd").
			Category(errors.CategoryValidation).
			FileContext(out).
			Build()
	}

	logger.Global().Module("dataset").Info("dataset exported",
		logger.String("path", out),
		logger.Int("rows", len(rows)))
	return nil
}

func writeCSVFile(path string, rows []features.Row) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return errors.New(err).
			Component("cmd").
			Category(errors.CategoryFileIO).
			FileContext(path).
			Context("operation", "create_dataset_file").
			Build()
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.New(cerr).
				Component("cmd").
				Category(errors.CategoryFileIO).
				FileContext(path).
				Context("operation", "close_dataset_file").
				Build()
		}
	}()

	return synth.WriteCSV(f, rows)
}
