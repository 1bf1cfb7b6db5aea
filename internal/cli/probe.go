package cli

import (
	"fmt"
	"time"

	"github.com/okian/bizdash/internal/probe"
	"github.com/okian/bizdash/pkg/logger"
	"github.com/spf13/cobra"
)

func newProbeCmd(flags *rootFlags) *cobra.Command {
	cfg := probe.DefaultConfig()
	var timezone string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Verify a running server against the API contract",
		Long: `Call every route repeatedly with a pool of workers and check ranges,
label sets, headers, routing errors and that payloads vary between calls.
Exits non-zero when any check fails.`,
		Example: `  bizdash probe --url http://localhost:5000 --rounds 50 --workers 8
  bizdash probe --report probe.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			level := flags.logLevel
			if level == "" {
				level = "info"
			}
			if err := initLogger(ctx, logger.FormatText, level); err != nil {
				return err
			}

			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("%w: timezone %q: %w", probe.ErrInvalidConfig, timezone, err)
			}
			cfg.Location = loc

			report, runErr := probe.NewRunner(cfg).Run(ctx)
			if report != nil && cfg.ReportFile != "" {
				if err := report.WriteFile(cfg.ReportFile); err != nil {
					return err
				}
				logger.Get().Info(ctx, "report written", logger.String("file", cfg.ReportFile))
			}
			if runErr != nil {
				return runErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "probe passed: %d requests, run %s\n", report.Requests, report.RunID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the API server")
	f.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "times every route is called")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent workers")
	f.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	f.StringVar(&cfg.Origin, "origin", cfg.Origin, "Origin header sent to check CORS (empty skips the check)")
	f.StringVar(&cfg.ReportFile, "report", "", "write the report to this file (.yaml/.yml or .json)")
	f.StringVar(&timezone, "timezone", "Local", "timezone the server renders dates in")
	return cmd
}
