package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	ghAPI "github.com/cli/go-gh/v2/pkg/api"
	"github.com/cli/go-gh/v2/pkg/repository"
)

const defaultHost = "github.com"

// ErrNotFound is returned when the API answers 404 for a resource.
var ErrNotFound = errors.New("not found")

// Options configures a Client. Host defaults to github.com. Transport is
// used for every API request, which lets tests replay recorded traffic.
type Options struct {
	Repo      string // owner/repo
	Host      string
	Token     string
	Timeout   time.Duration
	Transport http.RoundTripper
	// Redirect downloads log archives from the pre-signed URL the logs
	// endpoint redirects to. It never carries the API token.
	Redirect *http.Client
}

type Client struct {
	rest     *ghAPI.RESTClient
	http     *http.Client
	redirect *http.Client
	host     string
	owner    string
	repo     string
}

type RateLimit struct {
	Remaining int
	Limit     int
	Reset     int64
}

func NewClient(opts Options) (*Client, error) {
	host := opts.Host
	if host == "" {
		host = defaultHost
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("a GitHub token is required")
	}
	r, err := repository.ParseWithHost(opts.Repo, host)
	if err != nil {
		return nil, fmt.Errorf("parse repository %q: %w", opts.Repo, err)
	}

	ghOpts := ghAPI.ClientOptions{
		AuthToken:    opts.Token,
		Host:         host,
		Timeout:      opts.Timeout,
		Transport:    opts.Transport,
		LogIgnoreEnv: true,
	}
	rest, err := ghAPI.NewRESTClient(ghOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	httpClient, err := ghAPI.NewHTTPClient(ghOpts)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	// The logs endpoint answers with a redirect we follow ourselves, so the
	// token is never sent to the archive host.
	httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	redirect := opts.Redirect
	if redirect == nil {
		redirect = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		rest:     rest,
		http:     httpClient,
		redirect: redirect,
		host:     r.Host,
		owner:    r.Owner,
		repo:     r.Name,
	}, nil
}

// FullName returns the repository in owner/repo form.
func (c *Client) FullName() string {
	return fmt.Sprintf("%s/%s", c.owner, c.repo)
}

func (c *Client) repoRoot() string {
	return fmt.Sprintf("repos/%s/%s", c.owner, c.repo)
}

func (c *Client) repoPath(path string) string {
	return fmt.Sprintf("repos/%s/%s/%s", c.owner, c.repo, path)
}

// restURL resolves an API path to an absolute URL on the configured host.
func (c *Client) restURL(path string) string {
	if c.host == defaultHost {
		return "https://api.github.com/" + path
	}
	return fmt.Sprintf("https://%s/api/v3/%s", c.host, path)
}

func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return wrapHTTPError(c.rest.DoWithContext(ctx, http.MethodGet, c.repoPath(path), nil, result))
}

func (c *Client) Post(ctx context.Context, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	if result != nil {
		return wrapHTTPError(c.rest.DoWithContext(ctx, http.MethodPost, c.repoPath(path), reader, result))
	}
	// Some endpoints (rerun) answer 201 with an empty body, which the JSON
	// decoding path rejects.
	resp, err := c.rest.RequestWithContext(ctx, http.MethodPost, c.repoPath(path), reader)
	if err != nil {
		return wrapHTTPError(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// wrapHTTPError makes 404 responses matchable with errors.Is(err, ErrNotFound)
// while keeping the original *ghAPI.HTTPError in the chain.
func wrapHTTPError(err error) error {
	if err == nil {
		return nil
	}
	if StatusCode(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

// StatusCode returns the HTTP status of an API error, or 0 when err did not
// come from an HTTP response.
func StatusCode(err error) int {
	var httpErr *ghAPI.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	var dlErr *DownloadError
	if errors.As(err, &dlErr) {
		return dlErr.StatusCode
	}
	return 0
}

func ParseRateLimit(resp *http.Response) RateLimit {
	rl := RateLimit{}
	if resp == nil {
		return rl
	}
	rl.Remaining, _ = strconv.Atoi(resp.Header.Get("X-RateLimit-Remaining"))
	rl.Limit, _ = strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	rl.Reset, _ = strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64)
	return rl
}
