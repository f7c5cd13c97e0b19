package api

import (
	"context"
	"fmt"
)

type RerunConfig struct {
	EnableDebugLogging bool `json:"enable_debug_logging,omitempty"`
}

// RerunWorkflow re-runs every job of a run. The API answers 201 with an empty
// body on success.
func (c *Client) RerunWorkflow(ctx context.Context, runID int64, debug bool) error {
	body := RerunConfig{EnableDebugLogging: debug}
	if err := c.Post(ctx, fmt.Sprintf("actions/runs/%d/rerun", runID), body, nil); err != nil {
		return fmt.Errorf("rerun run %d: %w", runID, err)
	}
	return nil
}

func (c *Client) RerunFailedJobs(ctx context.Context, runID int64, debug bool) error {
	body := RerunConfig{EnableDebugLogging: debug}
	if err := c.Post(ctx, fmt.Sprintf("actions/runs/%d/rerun-failed-jobs", runID), body, nil); err != nil {
		return fmt.Errorf("rerun failed jobs of run %d: %w", runID, err)
	}
	return nil
}
