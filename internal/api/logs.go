package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/altinukshini/gha-rerun/internal/model"
)

// DownloadError reports a failed log archive download, either a transport
// failure (Err set) or a non-200 answer (StatusCode set).
type DownloadError struct {
	URL        string
	StatusCode int
	RateLimit  RateLimit
	Err        error
}

func (e *DownloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("download logs from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("download logs from %s: unexpected status %d", e.URL, e.StatusCode)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// DownloadRunLogs downloads the log archive of a run. The run's logs_url is
// used when present. GitHub returns a 302 redirect to a short-lived archive URL.
func (c *Client) DownloadRunLogs(ctx context.Context, run model.Run) (io.ReadCloser, error) {
	logsURL := run.LogsURL
	if logsURL == "" {
		logsURL = c.restURL(c.repoPath(fmt.Sprintf("actions/runs/%d/logs", run.ID)))
	}
	return c.downloadLogs(ctx, logsURL)
}

// DownloadRunAttemptLogs downloads logs for a specific run attempt.
func (c *Client) DownloadRunAttemptLogs(ctx context.Context, runID int64, attempt int) (io.ReadCloser, error) {
	return c.downloadLogs(ctx, c.restURL(c.repoPath(fmt.Sprintf("actions/runs/%d/attempts/%d/logs", runID, attempt))))
}

func (c *Client) downloadLogs(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: fmt.Errorf("build log request: %w", err)}
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: fmt.Errorf("log request failed: %w", err)}
	}

	// Follow the redirect to the archive URL (no auth needed)
	if resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusTemporaryRedirect {
		location := resp.Header.Get("Location")
		resp.Body.Close()
		if location == "" {
			return nil, &DownloadError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("redirect with no Location header")}
		}
		redirectReq, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, &DownloadError{URL: url, Err: fmt.Errorf("create redirect request: %w", err)}
		}
		resp, err = c.redirect.Do(redirectReq)
		if err != nil {
			return nil, &DownloadError{URL: url, Err: fmt.Errorf("follow redirect: %w", err)}
		}
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &DownloadError{URL: url, StatusCode: resp.StatusCode, RateLimit: ParseRateLimit(resp)}
	}

	return resp.Body, nil
}
