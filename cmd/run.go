package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/inboxpilot/internal/config"
	"github.com/teemow/inboxpilot/internal/instrumentation"
	"github.com/teemow/inboxpilot/internal/logging"
)

func newRunCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run <agent>",
		Short: "Run one agent",
		Long: `Run one registered agent to completion. The command exits non-zero when
the agent fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(verbose)

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			provider, err := instrumentation.NewProvider(ctx,
				instrumentation.DefaultConfig(version, cfg.MetricsEnabled))
			if err != nil {
				return fmt.Errorf("failed to set up instrumentation: %w", err)
			}
			defer func() {
				if err := provider.Shutdown(ctx); err != nil {
					slog.Warn("failed to flush metrics", logging.Err(err))
				}
			}()

			registry := newAgentRegistry(cfg, provider.Metrics())
			reg, err := registry.Lookup(args[0])
			if err != nil {
				return err
			}

			a, err := reg.New(ctx)
			if err != nil {
				return fmt.Errorf("failed to create agent %s: %w", reg.Name, err)
			}

			start := time.Now()
			runErr := a.Run(ctx)

			status := logging.StatusSuccess
			if runErr != nil {
				status = logging.StatusError
			}
			provider.Metrics().RecordAgentRun(ctx, a.Name(), status, time.Since(start))

			if runErr != nil {
				return fmt.Errorf("agent %s failed: %w", a.Name(), runErr)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}
