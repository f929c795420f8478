package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tphakala/yieldcast/internal/conf"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
)

// Command creates the config parent command
func Command(ctx *runtimectx.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(initCommand(ctx), defaultsCommand(ctx))

	return cmd
}

func initCommand(ctx *runtimectx.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Long:  "Write the default configuration to path, or to config.yaml in the user config directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := targetPath(args)
			if err != nil {
				return err
			}
			if err := conf.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err = fmt.Fprintf(ctx.Out, "Wrote default config to %s\n", path)
			return err
		},
	}
}

func defaultsCommand(ctx *runtimectx.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := conf.DefaultConfig()
			if err != nil {
				return err
			}
			_, err = ctx.Out.Write(data)
			return err
		},
	}
}

// targetPath returns the explicit path or the first default config location
func targetPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	paths, err := conf.GetDefaultConfigPaths()
	if err != nil {
		return "", err
	}
	// the first entry is the working directory, the second the user config dir
	return filepath.Join(paths[1], conf.ConfigFileName), nil
}
