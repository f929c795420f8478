package cmd

import (
	"time"

	"github.com/spf13/cobra"

	configcmd "github.com/tphakala/yieldcast/cmd/config"
	"github.com/tphakala/yieldcast/cmd/cropinfo"
	"github.com/tphakala/yieldcast/cmd/dataset"
	"github.com/tphakala/yieldcast/cmd/predict"
	"github.com/tphakala/yieldcast/cmd/sample"
	"github.com/tphakala/yieldcast/cmd/version"
	"github.com/tphakala/yieldcast/internal/conf"
	"github.com/tphakala/yieldcast/internal/errors"
	"github.com/tphakala/yieldcast/internal/logger"
	"github.com/tphakala/yieldcast/internal/observability"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
)

// telemetryFlushTimeout bounds how long exit waits for queued error reports
const telemetryFlushTimeout = 2 * time.Second

// globalFlags holds the persistent flag values
type globalFlags struct {
	configFile string
	debug      bool
	noColor    bool
}

// RootCommand creates and returns the root command
func RootCommand(ctx *runtimectx.Context) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "yieldcast",
		Short:         "Crop yield prediction and farming advice",
		Long:          "yieldcast estimates crop yield from growing conditions with a random forest trained on synthetic data, and explains the result with crop profiles, recommendations and charts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, flags)

	// Add sub-commands to the root command.
	versionCmd := version.Command(ctx)
	configCmd := configcmd.Command(ctx)

	rootCmd.AddCommand(
		predict.Command(ctx),
		cropinfo.Command(ctx),
		dataset.Command(ctx),
		sample.Command(ctx),
		configCmd,
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		ctx.NoColor = flags.noColor

		// version and config management must work without a valid config
		for c := cmd; c != nil; c = c.Parent() {
			if c == versionCmd || c == configCmd {
				return nil
			}
		}

		return initialize(ctx, flags)
	}

	return rootCmd
}

// initialize loads settings and sets up logging, telemetry and metrics
func initialize(ctx *runtimectx.Context, flags *globalFlags) error {
	settings, err := conf.Load(flags.configFile)
	if err != nil {
		return err
	}
	if flags.debug {
		settings.Debug = true
	}
	if settings.Debug {
		settings.Logging.DefaultLevel = "debug"
		if settings.Logging.Console != nil {
			settings.Logging.Console.Level = "debug"
		}
	}
	ctx.Settings = settings

	central, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return errors.New(err).
			Component("cmd").
			Category(errors.CategoryConfiguration).
			Context("operation", "init_logging").
			Build()
	}
	logger.SetGlobal(central)

	if settings.Telemetry.Enabled {
		if err := errors.InitSentry(settings.Telemetry.DSN, ctx.Build.Release()); err != nil {
			// telemetry is optional, carry on without it
			GetLogger().Warn("telemetry disabled", logger.Error(err))
		}
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return err
	}
	ctx.Metrics = m

	GetLogger().Debug("initialized",
		logger.String("version", ctx.Build.GetVersion()),
		logger.Int("crops", ctx.Catalog.Len()))
	return nil
}

// Shutdown delivers queued telemetry and closes the log file. Call it once
// after the root command returns, whether or not it failed.
func Shutdown() {
	errors.FlushTelemetry(telemetryFlushTimeout)
	_ = logger.Global().Close()
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, flags *globalFlags) {
	rootCmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "Path to config file (default searches ./ and the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&flags.debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
}
