package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tracker "github.com/Unobtainiumrock/toy-problem-performance-analysis"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api"
	mcpinternal "github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/mcp"
)

func newTestClient(t *testing.T) *tracker.Client {
	t.Helper()
	dir := t.TempDir()
	client, err := tracker.New(
		tracker.WithSQLite(filepath.Join(dir, "test.db")),
		tracker.WithDataDir(dir),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func mcpRequest(t *testing.T, method string, id int, params map[string]any) []byte {
	t.Helper()
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		msg["params"] = params
	}
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	return b
}

func postMCP(t *testing.T, handler http.Handler, body []byte, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func initMCPSession(t *testing.T, handler http.Handler) string {
	t.Helper()
	body := mcpRequest(t, "initialize", 1, map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0.0.1"},
	})
	w := postMCP(t, handler, body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sessionID := w.Header().Get("Mcp-Session-Id")
	require.NotEmpty(t, sessionID, "initialize did not return a session ID")
	return sessionID
}

// toolResultText returns the text content of a tools/call response and
// whether the tool reported an error.
func toolResultText(t *testing.T, w *httptest.ResponseRecorder) (string, bool) {
	t.Helper()
	var resp struct {
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
			IsError bool `json:"isError"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	if len(resp.Result.Content) == 0 {
		return "", resp.Result.IsError
	}
	return resp.Result.Content[0].Text, resp.Result.IsError
}

func TestMCPEndpoint_Initialize(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), nil).WithVersion("1.2.3").Handler()

	body := mcpRequest(t, "initialize", 1, map[string]any{
		"protocolVersion": "2025-06-18",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0.0.1"},
	})
	w := postMCP(t, handler, body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result struct {
			ServerInfo struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, mcpinternal.ServerName, resp.Result.ServerInfo.Name)
	assert.Equal(t, "1.2.3", resp.Result.ServerInfo.Version)
}

func TestMCPEndpoint_ListTools(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), nil).Handler()
	sessionID := initMCPSession(t, handler)

	w := postMCP(t, handler, mcpRequest(t, "tools/list", 2, nil), sessionID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	names := make([]string, 0, len(resp.Result.Tools))
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"tracked_rows", "search_problems", "get_problem"}, names)
}

func TestMCPEndpoint_TrackedRowsReflectEdits(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	require.NoError(t, client.Host.SetRow(ctx, "problems", 4, []string{"Two Sum"}))
	require.NoError(t, client.Host.SetRow(ctx, "problems", 2, []string{"Three Sum"}))

	handler := api.NewAPIServer(client, nil).Handler()
	sessionID := initMCPSession(t, handler)

	w := postMCP(t, handler, mcpRequest(t, "tools/call", 2, map[string]any{
		"name":      "tracked_rows",
		"arguments": map[string]any{},
	}), sessionID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	text, isError := toolResultText(t, w)
	require.False(t, isError, text)

	var got struct {
		Entries []int `json:"entries"`
		Rows    []int `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, []int{4, 2}, got.Entries)
	assert.Equal(t, []int{2, 4}, got.Rows)
}

func TestMCPEndpoint_RejectsInvalidContentType(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
