package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/buildboard/internal/domain/project"
	"github.com/rpggio/buildboard/internal/mcp"
	"github.com/rpggio/buildboard/internal/projectindex"
	"github.com/rpggio/buildboard/internal/sqlite"
	"github.com/rpggio/buildboard/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer runs the full HTTP stack against an in-memory database.
type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Projects  *sqlite.ProjectRepository
	APIKeys   *sqlite.APIKeyRepository
	Index     *projectindex.Service
	Refresher *projectindex.Refresher
	Token     string
	UserID    string
}

func New(t *testing.T, token, userID string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	indexSvc := projectindex.NewService(projectindex.NewStore(8), nil)
	refresher := projectindex.NewRefresher(projectRepo, indexSvc)
	projectSvc := project.NewService(projectRepo, refresher, nil)

	services := mcp.Services{
		Projects:  projectSvc,
		Index:     indexSvc,
		Refresher: refresher,
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		Resolver:      apiKeys,
		AuthEnabled:   true,
		TransportMode: "http",
	})

	router := transport.NewServer(mcp.NewHandler(services), transport.AuthMiddleware(apiKeys), nil)
	router.Handle("/mcp", sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		nil,
	))
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Projects:  projectRepo,
		APIKeys:   apiKeys,
		Index:     indexSvc,
		Refresher: refresher,
		Token:     token,
		UserID:    userID,
	}

	require.NoError(t, ts.AddAPIKey(token, userID))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

func (ts *TestServer) AddAPIKey(token, userID string) error {
	return ts.APIKeys.Add(context.Background(), token, userID, "test key")
}
