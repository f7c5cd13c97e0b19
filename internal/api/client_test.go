package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestRepoPath(t *testing.T) {
	c := &Client{owner: "octocat", repo: "hello-world"}
	got := c.repoPath("actions/runs")
	want := "repos/octocat/hello-world/actions/runs"
	if got != want {
		t.Errorf("repoPath() = %q, want %q", got, want)
	}
	assert.Equal(t, "repos/octocat/hello-world", c.repoRoot())
	assert.Equal(t, "octocat/hello-world", c.FullName())
}

func TestRestURL(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "github.com", host: "github.com", want: "https://api.github.com/repos/o/r/actions/runs/1/logs"},
		{name: "enterprise", host: "ghe.example.com", want: "https://ghe.example.com/api/v3/repos/o/r/actions/runs/1/logs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{host: tt.host, owner: "o", repo: "r"}
			assert.Equal(t, tt.want, c.restURL(c.repoPath("actions/runs/1/logs")))
		})
	}
}

func TestWrapHTTPError(t *testing.T) {
	u, _ := url.Parse("https://api.github.com/repos/o/r")
	notFound := &ghAPI.HTTPError{StatusCode: http.StatusNotFound, RequestURL: u, Message: "Not Found"}
	serverErr := &ghAPI.HTTPError{StatusCode: http.StatusInternalServerError, RequestURL: u, Message: "boom"}

	err := wrapHTTPError(notFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("get repo: %w", err)))

	err = wrapHTTPError(serverErr)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))

	assert.NoError(t, wrapHTTPError(nil))
	assert.Equal(t, 0, StatusCode(errors.New("dial tcp: refused")))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Options{Repo: "octocat/hello-world"})
	assert.Error(t, err, "token is required")

	_, err = NewClient(Options{Repo: "not-a-repo", Token: "t"})
	assert.Error(t, err)

	c, err := NewClient(Options{Repo: "octocat/hello-world", Token: "t"})
	if assert.NoError(t, err) {
		assert.Equal(t, "octocat/hello-world", c.FullName())
		assert.Equal(t, "github.com", c.host)
	}
}
