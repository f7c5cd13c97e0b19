package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"github.com/altinukshini/gha-rerun/internal/rerun"
)

var lambdaCmd = &cobra.Command{
	Use:   "lambda",
	Short: "Serve invocations from the AWS Lambda runtime",
	Long: `Start the AWS Lambda runtime loop. Each event runs one invocation; the
event payload is ignored, so any scheduler (EventBridge, a test event) can
trigger it. Configuration comes from the function's environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(context.Background(), cmd, os.Stdout)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		lambda.Start(lambdaHandler(a.handler))
		return nil
	},
}

func lambdaHandler(h *rerun.Handler) func(context.Context, json.RawMessage) (rerun.Response, error) {
	return func(ctx context.Context, _ json.RawMessage) (rerun.Response, error) {
		return h.Handle(ctx), nil
	}
}

func init() {
	rootCmd.AddCommand(lambdaCmd)
}
