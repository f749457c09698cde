package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-menu/internal/config"
	"weekly-menu/internal/observability/logging"
	"weekly-menu/internal/resilience/retry"
)

func noWait(context.Context, time.Duration) error { return nil }

func newTestClient(t *testing.T, srv *httptest.Server, attempts int) *Client {
	t.Helper()
	cfg := config.NotionConfig{
		Token:      "secret_test",
		DatabaseID: "db1",
		APIURL:     srv.URL,
		Version:    "2022-06-28",
		Timeout:    time.Second,
	}
	exec := retry.New(retry.Policy{MaxAttempts: attempts, BaseDelay: time.Millisecond},
		retry.WithSleeper(noWait))
	return NewClient(cfg, logging.Nop(), WithHTTPClient(srv.Client()), WithRetry(exec))
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	assert.NoError(t, err)
	var m map[string]any
	assert.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestClient_Headers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret_test", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"results": [], "has_more": false}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 1).QueryDatabase(context.Background(), nil)
	require.NoError(t, err)
}

func TestClient_QueryDatabase_Paginates(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/databases/db1/query", r.URL.Path)
		body := decodeBody(t, r)

		switch calls.Add(1) {
		case 1:
			assert.NotContains(t, body, "start_cursor")
			_, _ = w.Write([]byte(`{"results": [{"id": "p1"}], "has_more": true, "next_cursor": "c2"}`))
		case 2:
			assert.Equal(t, "c2", body["start_cursor"])
			_, _ = w.Write([]byte(`{"results": [{"id": "p2"}, {"id": "p3"}], "has_more": false, "next_cursor": null}`))
		default:
			t.Errorf("unexpected request %d", calls.Load())
		}
	}))
	defer srv.Close()

	pages, err := newTestClient(t, srv, 1).QueryDatabase(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "p3", pages[2].ID)
}

func TestClient_CreatePage_ChunksChildren(t *testing.T) {
	var created atomic.Int32
	var mu sync.Mutex
	var appended []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/pages":
			created.Add(1)
			assert.Equal(t, map[string]any{"database_id": "db1"}, body["parent"])
			assert.Len(t, body["children"], MaxChildrenPerRequest)
			_, _ = w.Write([]byte(`{"object": "page", "id": "new-page"}`))
		case r.Method == http.MethodPatch && r.URL.Path == "/blocks/new-page/children":
			children, _ := body["children"].([]any)
			mu.Lock()
			appended = append(appended, len(children))
			mu.Unlock()
			_, _ = w.Write([]byte(`{"object": "list", "results": []}`))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	children := make([]Block, 250)
	for i := range children {
		children[i] = Block{Object: "block", Type: "paragraph",
			Paragraph: &RichTextBlock{RichText: TextProperty(fmt.Sprintf("p%d", i))}}
	}

	page, err := newTestClient(t, srv, 1).CreatePage(context.Background(), map[string]PropertyValue{}, children)
	require.NoError(t, err)
	assert.Equal(t, "new-page", page.ID)
	assert.Equal(t, int32(1), created.Load())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{100, 50}, appended)
}

func TestClient_CreatePage_NoChildren(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.NotContains(t, body, "children")
		_, _ = w.Write([]byte(`{"id": "p"}`))
	}))
	defer srv.Close()

	page, err := newTestClient(t, srv, 1).CreatePage(context.Background(), map[string]PropertyValue{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "p", page.ID)
}

func TestClient_AppendBlockChildren_Chunks(t *testing.T) {
	var mu sync.Mutex
	var sizes []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/blocks/b1/children", r.URL.Path)
		children, _ := decodeBody(t, r)["children"].([]any)
		mu.Lock()
		sizes = append(sizes, len(children))
		mu.Unlock()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	children := make([]Block, 200)
	for i := range children {
		children[i] = Block{Object: "block", Type: "divider", Divider: &struct{}{}}
	}
	require.NoError(t, newTestClient(t, srv, 1).AppendBlockChildren(context.Background(), "b1", children))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{100, 100}, sizes)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"object": "error", "status": 404, "code": "object_not_found", "message": "Could not find page"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 1).UpdatePage(context.Background(), "missing", UpdatePageRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Equal(t, "Could not find page", apiErr.Message)
	assert.True(t, IsNotFound(err))
	assert.True(t, retry.IsExhausted(err))
}

func TestClient_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"id": "p1", "archived": true}`))
	}))
	defer srv.Close()

	archived := true
	page, err := newTestClient(t, srv, 3).UpdatePage(context.Background(), "p1", UpdatePageRequest{Archived: &archived})
	require.NoError(t, err)
	assert.True(t, page.Archived)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv, 2).UpdatePage(context.Background(), "p1", UpdatePageRequest{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "upstream down")
	assert.False(t, IsNotFound(err))
}
