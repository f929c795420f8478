package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tphakala/yieldcast/cmd"
	"github.com/tphakala/yieldcast/internal/buildinfo"
	runtimectx "github.com/tphakala/yieldcast/internal/runtime"
)

// Set at build time with -ldflags "-X main.version=... -X main.buildDate=..."
var (
	version   string
	buildDate string
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := runtimectx.New(buildinfo.NewContext(version, buildDate))
	rootCmd := cmd.RootCommand(app)

	err := rootCmd.ExecuteContext(ctx)
	cmd.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
