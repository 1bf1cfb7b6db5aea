// Package cli wires the bizdash commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is injected during build.
var Version = "dev"

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
}

// NewRootCmd builds the bizdash command tree.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "bizdash",
		Short: "bizdash serves randomly generated business dashboard metrics",
		Long: `bizdash serves the JSON API behind the business dashboard frontend.
Every route returns freshly sampled KPIs and chart series.

Configuration is layered: defaults, then an optional YAML file
(--config or $BIZDASH_CONFIG), then BIZDASH_* environment variables.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newServeCmd(flags), newProbeCmd(flags))
	return root
}

// Execute runs the root command with a context cancelled on SIGINT/SIGTERM.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
