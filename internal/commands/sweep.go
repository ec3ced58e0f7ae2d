package commands

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-MentorshipService/internal/app"
	"github.com/m04kA/SMC-MentorshipService/internal/service/sweeper"
)

func newSweepCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a background sweep once and print its result",
	}

	run := func(sweep func(ctx context.Context, s sweeper.Sweeps) (*sweeper.SweepResult, error)) func(*cobra.Command, []string) error {
		return func(c *cobra.Command, _ []string) error {
			cfg, log, err := opts.load()
			if err != nil {
				return err
			}
			defer log.Close()

			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			application, err := app.New(ctx, cfg, nil, log)
			if err != nil {
				return err
			}
			// Close дожидается отправки уведомлений прохода
			defer application.Close()

			result, err := sweep(ctx, application.Engine)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "expired",
		Short: "Mark stale scheduled sessions as no-show",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, s sweeper.Sweeps) (*sweeper.SweepResult, error) {
			return s.CleanupExpiredSessions(ctx)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "feedback",
		Short: "Remind participants about missing feedback",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, s sweeper.Sweeps) (*sweeper.SweepResult, error) {
			return s.SendPendingFeedbackReminders(ctx)
		}),
	})
	return cmd
}
