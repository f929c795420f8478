package sample

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
	"github.com/tphakala/yieldcast/internal/synth"
)

// Command creates the sample command, which prints a random plausible
// input as predict flags.
func Command(ctx *runtimectx.Context) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print random example inputs for predict",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := synth.New(ctx.Catalog, synth.NewRand(seed)).Sample()
			_, err := fmt.Fprintf(ctx.Out,
				"--crop %s --temperature %s --rainfall %s --humidity %s --ph %s --soil %s --nitrogen %s --phosphorus %s --potassium %s --area %s\n",
				strconv.Quote(rec.Crop),
				num(rec.Temperature), num(rec.Rainfall), num(rec.Humidity), num(rec.PH),
				rec.Soil,
				num(rec.Nitrogen), num(rec.Phosphorus), num(rec.Potassium), num(rec.Area))
			return err
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed, 0 seeds from the clock")

	return cmd
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
