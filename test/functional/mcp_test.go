package functional_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/buildboard/internal/testserver"
	"github.com/stretchr/testify/require"
)

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type rpcError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

type projectView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ClientID string `json:"client_id"`
	Status   string `json:"status"`
}

type projectList struct {
	Projects []projectView `json:"projects"`
	Count    int           `json:"count"`
}

type indexStatus struct {
	Built    bool `json:"built"`
	Projects int  `json:"projects"`
}

func rpcCallWithToken(t *testing.T, ts *testserver.TestServer, token, method string, params any) (int, rpcResponse) {
	t.Helper()

	payload := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"id":      1,
	}
	if params != nil {
		payload["params"] = params
	}

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewBuffer(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, rpcResponse{}
	}

	var result rpcResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return resp.StatusCode, result
}

// rpcCall makes an authenticated call and requires success.
func rpcCall(t *testing.T, ts *testserver.TestServer, method string, params any, out any) {
	t.Helper()

	status, resp := rpcCallWithToken(t, ts, ts.Token, method, params)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error, "%s failed: %+v", method, resp.Error)
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Result, out))
	}
}

func createProject(t *testing.T, ts *testserver.TestServer, id, name, description, clientID, status string) {
	t.Helper()
	rpcCall(t, ts, "create_project", map[string]any{
		"id":          id,
		"name":        name,
		"description": description,
		"client_id":   clientID,
		"status":      status,
	}, nil)
}

func projectIDs(list projectList) []string {
	ids := make([]string, 0, len(list.Projects))
	for _, p := range list.Projects {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "token-1", "user1")

	status, _ := rpcCallWithToken(t, ts, "", "list_projects", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = rpcCallWithToken(t, ts, "wrong", "list_projects", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	resp, err := http.Get(ts.Server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFunctional_SearchAfterWrites(t *testing.T) {
	ts := testserver.New(t, "token-1", "user1")

	createProject(t, ts, "P1", "Harbor Bridge", "steel retrofit", "C1", "Active")
	createProject(t, ts, "P2", "Harbor Pier", "concrete repair", "C2", "Draft")
	createProject(t, ts, "P3", "Quarry Road", "gravel resurfacing", "C1", "active")

	var list projectList
	rpcCall(t, ts, "search_projects", map[string]any{"query": "harbor"}, &list)
	require.ElementsMatch(t, []string{"P1", "P2"}, projectIDs(list))

	rpcCall(t, ts, "search_projects", map[string]any{"query": "harbor steel"}, &list)
	require.Equal(t, []string{"P1"}, projectIDs(list))

	rpcCall(t, ts, "search_projects", map[string]any{"status": "ACTIVE"}, &list)
	require.ElementsMatch(t, []string{"P1", "P3"}, projectIDs(list))

	rpcCall(t, ts, "search_projects", map[string]any{"client_id": " c1 "}, &list)
	require.ElementsMatch(t, []string{"P1", "P3"}, projectIDs(list))

	rpcCall(t, ts, "search_projects", map[string]any{"query": "harb"}, &list)
	require.Empty(t, list.Projects)

	rpcCall(t, ts, "delete_project", map[string]any{"id": "P1"}, nil)
	rpcCall(t, ts, "search_projects", map[string]any{"query": "steel"}, &list)
	require.Empty(t, list.Projects)
	rpcCall(t, ts, "search_projects", nil, &list)
	require.ElementsMatch(t, []string{"P2", "P3"}, projectIDs(list))
}

func TestFunctional_ErrorCodes(t *testing.T) {
	ts := testserver.New(t, "token-1", "user1")

	createProject(t, ts, "P1", "Harbor Bridge", "", "", "")

	_, resp := rpcCallWithToken(t, ts, ts.Token, "create_project", map[string]any{"id": "P1", "name": "Again"})
	require.NotNil(t, resp.Error)
	require.Equal(t, "CONFLICT", resp.Error.Data["code"])

	_, resp = rpcCallWithToken(t, ts, ts.Token, "get_project", map[string]any{"id": "missing"})
	require.NotNil(t, resp.Error)
	require.Equal(t, "PROJECT_NOT_FOUND", resp.Error.Data["code"])

	_, resp = rpcCallWithToken(t, ts, ts.Token, "create_project", map[string]any{"name": "  "})
	require.NotNil(t, resp.Error)
	require.Equal(t, "INVALID_INPUT", resp.Error.Data["code"])

	_, resp = rpcCallWithToken(t, ts, ts.Token, "no_such_method", nil)
	require.NotNil(t, resp.Error)
	require.Equal(t, -32601, resp.Error.Code)
}

func TestFunctional_UserIsolation(t *testing.T) {
	ts := testserver.New(t, "token-1", "user1")
	require.NoError(t, ts.AddAPIKey("token-2", "user2"))

	createProject(t, ts, "P1", "Harbor Bridge", "", "", "")

	status, resp := rpcCallWithToken(t, ts, "token-2", "search_projects", map[string]any{"query": "harbor"})
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, resp.Error)

	var list projectList
	require.NoError(t, json.Unmarshal(resp.Result, &list))
	require.Empty(t, list.Projects)
}

func TestFunctional_RebuildAfterOutOfBandWrite(t *testing.T) {
	ts := testserver.New(t, "token-1", "user1")
	ctx := context.Background()

	createProject(t, ts, "P1", "Harbor Bridge", "", "", "")

	_, err := ts.DB.ExecContext(ctx,
		`INSERT INTO projects (id, user_id, name, created_at) VALUES (?, ?, ?, ?)`,
		"P2", ts.UserID, "Harbor Pier", time.Now().UTC())
	require.NoError(t, err)

	var list projectList
	rpcCall(t, ts, "search_projects", map[string]any{"query": "pier"}, &list)
	require.Empty(t, list.Projects)

	var status indexStatus
	rpcCall(t, ts, "rebuild_project_index", nil, &status)
	require.True(t, status.Built)
	require.Equal(t, 2, status.Projects)

	rpcCall(t, ts, "search_projects", map[string]any{"query": "pier"}, &list)
	require.Equal(t, []string{"P2"}, projectIDs(list))
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(req)
}

func TestFunctional_MCPStreamableHTTP(t *testing.T) {
	ts := testserver.New(t, "token-1", "user1")
	createProject(t, ts, "P1", "Harbor Bridge", "steel retrofit", "C1", "Active")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: &bearerTransport{token: ts.Token, base: http.DefaultTransport}},
	}, nil)
	require.NoError(t, err)
	defer session.Close()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "search_projects",
		Arguments: map[string]any{"query": "steel"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var list projectList
	require.NoError(t, json.Unmarshal([]byte(text.Text), &list))
	require.Equal(t, []string{"P1"}, projectIDs(list))
}

func TestFunctional_RequestIDEchoed(t *testing.T) {
	ts := testserver.New(t, "token-1", "user1")

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-7")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	require.Equal(t, "req-7", resp.Header.Get("X-Request-Id"))
}
