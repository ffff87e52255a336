package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cigictl: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cigictl",
		Short: "Run a CIGI Host or Image Generator endpoint",
		Long: `cigictl exchanges CIGI 3.3 records over UDP.

  host      answers every Start of Frame with an IG Control
  ig        emulates an Image Generator that opens frames at a fixed rate
  selftest  runs both over an in-memory loopback`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "cigictl.toml", "path to the TOML config")

	cmd.AddCommand(
		hostCmd(&configPath),
		igCmd(&configPath),
		configCmd(&configPath),
		selftestCmd(),
		versionCmd(),
	)
	return cmd
}
