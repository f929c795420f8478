package version

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/tphakala/yieldcast/internal/cpuspec"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
)

// Command creates the version command
func Command(ctx *runtimectx.Context) *cobra.Command {
	var system bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := fmt.Fprintf(ctx.Out, "yieldcast %s (built %s, %s %s/%s)\n",
				ctx.Build.GetVersion(), ctx.Build.GetBuildDate(),
				runtime.Version(), runtime.GOOS, runtime.GOARCH); err != nil {
				return err
			}
			if !system {
				return nil
			}
			return printSystem(ctx)
		},
	}

	cmd.Flags().BoolVar(&system, "system", false, "Also print the host details used to size model training")

	return cmd
}

// printSystem reports the CPU and memory the forest will train on
func printSystem(ctx *runtimectx.Context) error {
	spec := cpuspec.GetCPUSpec()

	brand := spec.BrandName
	if brand == "" {
		brand = "unknown"
	}
	if _, err := fmt.Fprintf(ctx.Out, "CPU: %s (%d logical, %d performance cores)\nTraining workers: %d\n",
		brand, spec.LogicalCores, spec.PerformanceCores, spec.OptimalWorkers()); err != nil {
		return err
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		// not every platform exposes memory stats
		_, err = fmt.Fprintln(ctx.Out, "Memory: unavailable")
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, "Memory: %.1f GiB total, %.1f GiB available\n",
		float64(vm.Total)/(1<<30), float64(vm.Available)/(1<<30))
	return err
}
