package api

import (
	"context"
	"fmt"

	"github.com/altinukshini/gha-rerun/internal/model"
)

type labelsRequest struct {
	Labels []string `json:"labels"`
}

type commentRequest struct {
	Body string `json:"body"`
}

// AddLabels adds labels to an issue or pull request. Pull requests share the
// issue number space.
func (c *Client) AddLabels(ctx context.Context, number int, labels ...string) ([]model.Label, error) {
	var resp []model.Label
	err := c.Post(ctx, fmt.Sprintf("issues/%d/labels", number), labelsRequest{Labels: labels}, &resp)
	if err != nil {
		return nil, fmt.Errorf("add labels to #%d: %w", number, err)
	}
	return resp, nil
}

func (c *Client) CreateComment(ctx context.Context, number int, body string) (*model.IssueComment, error) {
	var resp model.IssueComment
	err := c.Post(ctx, fmt.Sprintf("issues/%d/comments", number), commentRequest{Body: body}, &resp)
	if err != nil {
		return nil, fmt.Errorf("comment on #%d: %w", number, err)
	}
	return &resp, nil
}
