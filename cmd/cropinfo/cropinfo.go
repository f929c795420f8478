package cropinfo

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tphakala/yieldcast/internal/chart"
	"github.com/tphakala/yieldcast/internal/crops"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
	"github.com/tphakala/yieldcast/internal/synth"
)

// Command creates the crops parent command
func Command(ctx *runtimectx.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "crops",
		Aliases: []string{"crop"},
		Short:   "Browse the crop catalog",
	}

	cmd.AddCommand(
		listCommand(ctx),
		showCommand(ctx),
		factorsCommand(ctx),
	)

	return cmd
}

func listCommand(ctx *runtimectx.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List supported crops",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Printer().CropList(ctx.Catalog.Profiles())
		},
	}
}

func showCommand(ctx *runtimectx.Context) *cobra.Command {
	var chartsDir string

	cmd := &cobra.Command{
		Use:     "show <crop>",
		Short:   "Show the information sheet for a crop",
		Example: "  yieldcast crops show corn (maize)\n  yieldcast crops show Rice --chart charts",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := lookup(ctx.Catalog, args)
			if err != nil {
				return err
			}
			if err := ctx.Printer().CropSheet(profile); err != nil {
				return err
			}
			if chartsDir == "" {
				return nil
			}

			r, err := chart.NewRenderer(chartsDir)
			if err != nil {
				return err
			}
			path, err := r.NutritionChart(profile)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(ctx.Out, "Nutrition chart written to %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVar(&chartsDir, "chart", "", "Write a nutrition chart PNG to this directory")
	return cmd
}

func factorsCommand(ctx *runtimectx.Context) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "factors <crop>",
		Short: "Show the factors that drive a crop's yield",
		Long: `Show the relative importance and optimal value of each growing factor.
Importances carry a small random variation; pass --seed for a repeatable table.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := lookup(ctx.Catalog, args)
			if err != nil {
				return err
			}
			fp, err := ctx.Catalog.Factors(profile.Name, synth.NewRand(seed))
			if err != nil {
				return err
			}
			return ctx.Printer().Factors(fp)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for the importance variation, 0 seeds from the clock")

	return cmd
}

// lookup joins args into a crop name and matches it case-insensitively,
// so unquoted names with spaces work
func lookup(catalog *crops.Catalog, args []string) (crops.CropProfile, error) {
	name := strings.Join(args, " ")
	for _, n := range catalog.Names() {
		if strings.EqualFold(n, name) {
			return catalog.Profile(n)
		}
	}
	// reports the catalog's unknown crop error
	return catalog.Profile(name)
}
