package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/altinukshini/gha-rerun/internal/schedule"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run invocations on a cron schedule until interrupted",
	Long: `Run one invocation immediately and then on every tick of --schedule
(standard cron syntax or descriptors such as "@every 10m"). A tick that
arrives while the previous invocation is still running is skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		a, err := newApp(ctx, cmd, os.Stdout)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		runner := schedule.New(a.log)
		runner.RunOnStart = true
		return runner.Run(ctx, a.cfg.Schedule, func(ctx context.Context) {
			resp := a.handler.Handle(ctx)
			a.log.Info("invocation finished",
				zap.String("invocation_id", resp.InvocationID),
				zap.Int("status_code", resp.StatusCode),
				zap.String("body", resp.Body))
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
