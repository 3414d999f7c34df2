package mcp

import (
	"context"
	"io"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/buildboard/internal/domain/project"
	"github.com/rpggio/buildboard/internal/projectindex"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, userID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, userID, id string) (*project.Project, error)
	List(ctx context.Context, userID string) ([]project.Project, error)
	Delete(ctx context.Context, userID, id string) error
}

// IndexService defines index queries needed by MCP.
type IndexService interface {
	Search(userID string, f projectindex.Filter) []project.Project
	Stats(userID string) (projectindex.Stats, bool)
}

// IndexRefresher rebuilds a user's index from storage.
type IndexRefresher interface {
	Refresh(ctx context.Context, userID string) error
	Ensure(ctx context.Context, userID string) (*projectindex.Index, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects  ProjectService
	Index     IndexService
	Refresher IndexRefresher
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "buildboard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultUser))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services), logger)

	return server
}
