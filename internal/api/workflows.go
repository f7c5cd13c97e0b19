package api

import (
	"context"
	"fmt"
	"iter"
	"net/url"
	"strconv"

	"github.com/altinukshini/gha-rerun/internal/model"
)

const workflowsPerPage = 100

func (c *Client) ListWorkflows(ctx context.Context, perPage, page int) (*model.WorkflowsResponse, error) {
	v := url.Values{}
	if perPage > 0 {
		v.Set("per_page", strconv.Itoa(perPage))
	} else {
		v.Set("per_page", strconv.Itoa(workflowsPerPage))
	}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}

	var resp model.WorkflowsResponse
	err := c.Get(ctx, "actions/workflows?"+v.Encode(), &resp)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	return &resp, nil
}

// Workflows walks every page of the repository's workflows. Pages are only
// requested while the caller keeps consuming.
func (c *Client) Workflows(ctx context.Context) iter.Seq2[model.Workflow, error] {
	return func(yield func(model.Workflow, error) bool) {
		seen := 0
		for page := 1; ; page++ {
			resp, err := c.ListWorkflows(ctx, workflowsPerPage, page)
			if err != nil {
				yield(model.Workflow{}, err)
				return
			}
			for _, wf := range resp.Workflows {
				if !yield(wf, nil) {
					return
				}
			}
			seen += len(resp.Workflows)
			if len(resp.Workflows) < workflowsPerPage || seen >= resp.TotalCount {
				return
			}
		}
	}
}

// FindWorkflow returns the first workflow whose name contains nameSubstr,
// or nil when none does.
func (c *Client) FindWorkflow(ctx context.Context, nameSubstr string) (*model.Workflow, error) {
	for wf, err := range c.Workflows(ctx) {
		if err != nil {
			return nil, err
		}
		if wf.NameContains(nameSubstr) {
			return &wf, nil
		}
	}
	return nil, nil
}
