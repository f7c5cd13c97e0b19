package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/altinukshini/gha-rerun/internal/rerun"
	"github.com/altinukshini/gha-rerun/internal/tui/confirm"
	"github.com/altinukshini/gha-rerun/internal/ui"
)

var (
	runConfirm bool
	runPretty  bool
)

// exitError carries a process exit code without printing anything more.
type exitError struct{ code int }

func (e exitError) Error() string { return "exit status " + strconv.Itoa(e.code) }

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one invocation and print the response",
	Long: `Run one invocation and print its response as JSON, the same shape a
Lambda invocation returns. The exit status is 0 for 2xx responses.

Examples:
  gha-rerun run --repo octo-org/hello-world --workflow-name "Pull Request" \
    --job-name build --step-name check-secrets --trigger-string SECRETS_MISSING \
    --actor 'dependabot[bot]' --log-archive-path /tmp/logs.zip
  gha-rerun run --confirm --pretty`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()

		var opts []rerun.Option
		if runConfirm {
			opts = append(opts, rerun.WithConfirmer(confirm.NewGate(os.Stdin, os.Stderr)))
		}
		// stdout carries the response.
		a, err := newApp(ctx, cmd, os.Stderr, opts...)
		if err != nil {
			return err
		}
		defer a.log.Sync()

		resp := a.handler.Handle(ctx)
		out := cmd.OutOrStdout()
		if runPretty {
			fmt.Fprintln(out, renderResponse(resp, a.cfg.TriggerString))
		} else {
			if err := json.NewEncoder(out).Encode(resp); err != nil {
				return err
			}
		}
		if !resp.OK() {
			return exitError{code: 1}
		}
		return nil
	},
}

func renderResponse(resp rerun.Response, trigger string) string {
	var fields []ui.Field
	if resp.Workflow != nil {
		fields = append(fields, ui.Field{Label: "workflow", Value: resp.Workflow.Name})
	}
	if r := resp.Run; r != nil {
		fields = append(fields,
			ui.Field{Label: "run", Value: fmt.Sprintf("#%d %s", r.RunNumber, r.CommitTitle())},
			ui.Field{Label: "url", Value: r.HTMLURL},
		)
	}
	if m := resp.Match; m != nil {
		fields = append(fields,
			ui.Field{Label: "log", Value: fmt.Sprintf("%s:%d", m.File, m.Line)},
			ui.Field{Label: "line", Value: ui.Highlight(m.Content, trigger)},
		)
	}
	fields = append(fields, ui.Field{Label: "id", Value: ui.StyleMuted.Render(resp.InvocationID)})
	return ui.RenderSummary(resp.StatusCode, resp.Body, fields...)
}

func init() {
	runCmd.Flags().BoolVar(&runConfirm, "confirm", false, "Ask before requesting a rerun")
	runCmd.Flags().BoolVar(&runPretty, "pretty", false, "Print a styled summary instead of JSON")
	rootCmd.AddCommand(runCmd)
}
