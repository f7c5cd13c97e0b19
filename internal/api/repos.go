package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/altinukshini/gha-rerun/internal/model"
)

// GetRepo fetches the configured repository. A missing repository yields an
// error matching ErrNotFound.
func (c *Client) GetRepo(ctx context.Context) (*model.Repository, error) {
	var repo model.Repository
	err := wrapHTTPError(c.rest.DoWithContext(ctx, http.MethodGet, c.repoRoot(), nil, &repo))
	if err != nil {
		return nil, fmt.Errorf("get repo %s: %w", c.FullName(), err)
	}
	return &repo, nil
}
