package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altinukshini/gha-rerun/internal/model"
)

func newDownloadClient() *Client {
	return &Client{
		http: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		redirect: &http.Client{},
		host:     "github.com",
		owner:    "octocat",
		repo:     "hello-world",
	}
}

func TestDownloadRunLogsFollowsRedirectWithoutAuth(t *testing.T) {
	archive := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"), "token must not reach the archive host")
		_, _ = w.Write([]byte("PK-archive-bytes"))
	}))
	defer archive.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello-world/actions/runs/7/logs", r.URL.Path)
		http.Redirect(w, r, archive.URL+"/blob", http.StatusFound)
	}))
	defer api.Close()

	c := newDownloadClient()
	rc, err := c.DownloadRunLogs(context.Background(), model.Run{ID: 7, LogsURL: api.URL + "/repos/octocat/hello-world/actions/runs/7/logs"})
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "PK-archive-bytes", string(data))
}

func TestDownloadRunLogsErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "gone",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusGone)
			},
			wantStatus: http.StatusGone,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Limit", "5000")
				w.WriteHeader(http.StatusForbidden)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "redirect without location",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusFound)
			},
			wantStatus: http.StatusFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := newDownloadClient()
			_, err := c.DownloadRunLogs(context.Background(), model.Run{ID: 1, LogsURL: srv.URL})
			require.Error(t, err)

			var dlErr *DownloadError
			require.True(t, errors.As(err, &dlErr))
			assert.Equal(t, tt.wantStatus, dlErr.StatusCode)
			assert.Equal(t, tt.wantStatus, StatusCode(err))
		})
	}
}

func TestDownloadRunLogsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newDownloadClient()
	_, err := c.DownloadRunLogs(context.Background(), model.Run{ID: 1, LogsURL: url})
	var dlErr *DownloadError
	require.True(t, errors.As(err, &dlErr))
	assert.Error(t, dlErr.Err)
	assert.Equal(t, 0, dlErr.StatusCode)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestDownloadRunAttemptLogsPath(t *testing.T) {
	var got string
	c := newDownloadClient()
	c.http.Transport = roundTripFunc(func(req *http.Request) (*http.Response, error) {
		got = req.URL.String()
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader("PK")),
			Header:     http.Header{},
			Request:    req,
		}, nil
	})

	rc, err := c.DownloadRunAttemptLogs(context.Background(), 30433643, 2)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "https://api.github.com/repos/octocat/hello-world/actions/runs/30433643/attempts/2/logs", got)
}
