// Package gist reads intake files from a GitHub gist.
package gist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"weekly-menu/internal/config"
	"weekly-menu/internal/observability/tracing"
	"weekly-menu/internal/resilience/retry"
)

const maxErrorBodyBytes = 4 << 10

// File is one file of a gist.
type File struct {
	Name      string `json:"filename"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
	RawURL    string `json:"raw_url"`
	Size      int    `json:"size"`
}

type gistResponse struct {
	ID    string          `json:"id"`
	Files map[string]File `json:"files"`
}

// HTTPStatusError is returned for any non-2xx response from the GitHub API.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("github api returned status %d: %s", e.StatusCode, e.Body)
}

// Client fetches gist contents. Every request runs under the retry executor.
type Client struct {
	cfg        config.GistConfig
	httpClient *http.Client
	retry      *retry.Executor
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Tests point it at httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry replaces the retry executor.
func WithRetry(exec *retry.Executor) Option {
	return func(c *Client) { c.retry = exec }
}

// NewClient creates a gist client.
func NewClient(cfg config.GistConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: tracing.NewClient(&http.Client{Timeout: cfg.Timeout}),
		logger:     logger,
	}
	c.retry = retry.New(retry.PreferenceStorePolicy(), retry.WithLogger(logger))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Files returns every file of the configured gist keyed by name.
// Truncated files are completed from their raw URL.
func (c *Client) Files(ctx context.Context) (map[string]File, error) {
	url := fmt.Sprintf("%s/gists/%s", c.cfg.APIURL, c.cfg.GistID)

	gist, err := retry.Do(ctx, c.retry, "gist.get", func(ctx context.Context) (*gistResponse, error) {
		body, err := c.get(ctx, url, "application/vnd.github.v3+json")
		if err != nil {
			return nil, err
		}
		var g gistResponse
		if err := json.Unmarshal(body, &g); err != nil {
			return nil, fmt.Errorf("decode gist response: %w", err)
		}
		return &g, nil
	})
	if err != nil {
		return nil, err
	}

	files := make(map[string]File, len(gist.Files))
	for name, f := range gist.Files {
		f.Name = name
		if f.Truncated && f.RawURL != "" {
			content, err := retry.Do(ctx, c.retry, "gist.raw", func(ctx context.Context) ([]byte, error) {
				return c.get(ctx, f.RawURL, "text/plain")
			})
			if err != nil {
				return nil, fmt.Errorf("fetch truncated file %s: %w", name, err)
			}
			f.Content = string(content)
			f.Truncated = false
		}
		files[name] = f
	}

	c.logger.Debug("gist files listed",
		slog.String("gist_id", c.cfg.GistID),
		slog.Int("files", len(files)))
	return files, nil
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.cfg.Token)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

// Contents returns the content of every file of the gist keyed by name.
func (c *Client) Contents(ctx context.Context) (map[string]string, error) {
	files, err := c.Files(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(files))
	for name, f := range files {
		out[name] = f.Content
	}
	return out, nil
}
