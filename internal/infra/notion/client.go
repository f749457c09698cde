// Package notion is the document store client. Menus are published as pages of a
// Notion database and retired by archiving them or updating their Status property.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"weekly-menu/internal/config"
	"weekly-menu/internal/observability/tracing"
	"weekly-menu/internal/resilience/retry"
)

const (
	maxErrorBodyBytes = 4 << 10
	queryPageSize     = 100
)

// APIError is returned for any non-2xx response from the Notion API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion api returned status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("notion api returned status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the Notion REST API. Every request runs under the retry executor.
type Client struct {
	cfg        config.NotionConfig
	httpClient *http.Client
	retry      *retry.Executor
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetry replaces the retry executor.
func WithRetry(exec *retry.Executor) Option {
	return func(c *Client) { c.retry = exec }
}

// NewClient creates a Notion client for the configured database.
func NewClient(cfg config.NotionConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: tracing.NewClient(&http.Client{Timeout: cfg.Timeout}),
		logger:     logger,
	}
	c.retry = retry.New(retry.DocumentStorePolicy(), retry.WithLogger(logger))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueryDatabase returns every page of the database matching filter, following
// pagination cursors until the result set is complete.
func (c *Client) QueryDatabase(ctx context.Context, filter *Filter) ([]Page, error) {
	path := "/databases/" + c.cfg.DatabaseID + "/query"

	var pages []Page
	cursor := ""
	for {
		body := queryRequest{Filter: filter, StartCursor: cursor, PageSize: queryPageSize}
		var resp queryResponse
		if err := c.send(ctx, "notion.query", http.MethodPost, path, body, &resp); err != nil {
			return nil, err
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
	}

	c.logger.Debug("notion database queried",
		slog.String("database_id", c.cfg.DatabaseID),
		slog.Int("results", len(pages)))
	return pages, nil
}

// CreatePage creates a page in the database. At most MaxChildrenPerRequest children
// go with the create call; the rest are appended afterwards.
func (c *Client) CreatePage(ctx context.Context, properties map[string]PropertyValue, children []Block) (*Page, error) {
	batches := chunk(children, MaxChildrenPerRequest)
	req := CreatePageRequest{
		Parent:     Parent{DatabaseID: c.cfg.DatabaseID},
		Properties: properties,
	}
	if len(batches) > 0 {
		req.Children = batches[0]
	}

	var page Page
	if err := c.send(ctx, "notion.create_page", http.MethodPost, "/pages", req, &page); err != nil {
		return nil, err
	}

	for i := 1; i < len(batches); i++ {
		if err := c.appendBatch(ctx, page.ID, batches[i]); err != nil {
			return &page, fmt.Errorf("append children batch %d to page %s: %w", i, page.ID, err)
		}
	}

	c.logger.Info("notion page created",
		slog.String("page_id", page.ID),
		slog.Int("blocks", len(children)),
		slog.Int("requests", max(len(batches), 1)))
	return &page, nil
}

// UpdatePage patches a page's properties or archived flag.
func (c *Client) UpdatePage(ctx context.Context, pageID string, req UpdatePageRequest) (*Page, error) {
	var page Page
	if err := c.send(ctx, "notion.update_page", http.MethodPatch, "/pages/"+pageID, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AppendBlockChildren appends blocks to a page or block in chunks of MaxChildrenPerRequest.
func (c *Client) AppendBlockChildren(ctx context.Context, blockID string, children []Block) error {
	for i, batch := range chunk(children, MaxChildrenPerRequest) {
		if err := c.appendBatch(ctx, blockID, batch); err != nil {
			return fmt.Errorf("append children batch %d: %w", i, err)
		}
	}
	return nil
}

func (c *Client) appendBatch(ctx context.Context, blockID string, batch []Block) error {
	return c.send(ctx, "notion.append_children", http.MethodPatch,
		"/blocks/"+blockID+"/children", appendChildrenRequest{Children: batch}, nil)
}

// send marshals body, performs the request under retry and decodes the response into out.
func (c *Client) send(ctx context.Context, op, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", op, err)
	}

	return c.retry.Run(ctx, op, func(ctx context.Context) error {
		respBody, err := c.do(ctx, method, c.cfg.APIURL+path, payload)
		if err != nil {
			return err
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode %s response: %w", op, err)
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, method, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", c.cfg.Version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
		var er errorResponse
		if json.Unmarshal(raw, &er) == nil && er.Message != "" {
			apiErr.Code = er.Code
			apiErr.Message = er.Message
		}
		return nil, apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}
