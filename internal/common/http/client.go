// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"fmt"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// BrowserUserAgent is sent on page fetches; some sites reject Go's default.
const BrowserUserAgent = "Mozilla/5.0"

// maxBodyBytes bounds how much of a single response is read.
const maxBodyBytes = 10 << 20

type Client struct {
	httpClient *http.Client
	userAgent  string
}

type Option func(*Client)

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient builds a client with a fixed per-request timeout. A zero
// timeout means the caller's context is the only deadline.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// StatusError is returned by Get for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// Get fetches url and returns the body. Non-2xx responses return a
// *StatusError carrying the status and the start of the body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	body, _, err := c.read(req)
	return body, err
}

// Fetch is Get that also returns the response Content-Type.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	return c.read(req)
}

// PostJSON sends body as application/json and returns the response body,
// with the same status handling as Get. header entries are added to the
// request.
func (c *Client) PostJSON(ctx context.Context, url string, body []byte, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	respBody, _, err := c.read(req)
	return respBody, err
}

func (c *Client) read(req *http.Request) ([]byte, string, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, "", redactURLError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(body)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, "", &StatusError{StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// redactURLError drops the query string from a transport error so API
// keys sent as query parameters never reach logs or job variables.
func redactURLError(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	target := urlErr.URL
	if u, parseErr := url.Parse(urlErr.URL); parseErr == nil {
		u.RawQuery = ""
		u.Fragment = ""
		u.User = nil
		target = u.String()
	} else if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	return fmt.Errorf("%s %q: %w", urlErr.Op, target, urlErr.Err)
}
