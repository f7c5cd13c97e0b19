package api

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/altinukshini/gha-rerun/internal/model"
)

const defaultRunsPerPage = 30

type RunsFilter struct {
	WorkflowID   int64
	WorkflowFile string
	Actor        string
	Branch       string
	Event        string
	Status       string
	Created      string // e.g. ">=2025-01-01" for date range filtering
	PerPage      int
	Page         int
}

func (f RunsFilter) QueryString() string {
	v := url.Values{}
	if f.Actor != "" {
		v.Set("actor", f.Actor)
	}
	if f.Branch != "" {
		v.Set("branch", f.Branch)
	}
	if f.Event != "" {
		v.Set("event", f.Event)
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Created != "" {
		v.Set("created", f.Created)
	}
	v.Set("per_page", strconv.Itoa(f.perPage()))
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return "?" + v.Encode()
}

func (f RunsFilter) perPage() int {
	if f.PerPage > 0 {
		return f.PerPage
	}
	return defaultRunsPerPage
}

func (f RunsFilter) basePath() string {
	switch {
	case f.WorkflowID > 0:
		return fmt.Sprintf("actions/workflows/%d/runs", f.WorkflowID)
	case f.WorkflowFile != "":
		return fmt.Sprintf("actions/workflows/%s/runs", url.PathEscape(f.WorkflowFile))
	default:
		return "actions/runs"
	}
}

func (c *Client) ListRuns(ctx context.Context, filter RunsFilter) (*model.RunsResponse, error) {
	var resp model.RunsResponse
	if err := c.Get(ctx, filter.basePath()+filter.QueryString(), &resp); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return &resp, nil
}

// Runs walks the run list page by page starting at filter.Page (or 1).
// Iteration stops as soon as the caller stops consuming, so a caller that
// only needs the first match never fetches more pages than necessary.
func (c *Client) Runs(ctx context.Context, filter RunsFilter) iter.Seq2[model.Run, error] {
	return func(yield func(model.Run, error) bool) {
		f := filter
		if f.Page <= 0 {
			f.Page = 1
		}
		seen := 0
		for ; ; f.Page++ {
			resp, err := c.ListRuns(ctx, f)
			if err != nil {
				yield(model.Run{}, err)
				return
			}
			for _, r := range resp.Runs {
				if !yield(r, nil) {
					return
				}
			}
			seen += len(resp.Runs)
			if len(resp.Runs) < f.perPage() || seen >= resp.TotalCount {
				return
			}
		}
	}
}
