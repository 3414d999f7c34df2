package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers the dashboard tools with the MCP server.
func registerTools(server *sdkmcp.Server, h *Handler, logger *slog.Logger) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "search_projects",
		Description: "Search the caller's projects. Every query word must appear in the project name or description; optional status and client filters are case-insensitive. A client filter selects projects on its own and the query is then ignored. Omit query to list all projects.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SearchProjectsParams) (*sdkmcp.CallToolResult, ProjectListResponse, error) {
		out, err := h.SearchProjects(ctx, getUserID(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rebuild_project_index",
		Description: "Reload the caller's projects from storage and rebuild their search index.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, IndexStatusResponse, error) {
		out, err := h.RebuildIndex(ctx, getUserID(ctx))
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "index_status",
		Description: "Report whether the caller's search index is built and how large it is.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, IndexStatusResponse, error) {
		return nil, h.IndexStatus(getUserID(ctx)), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project for the caller. The search index is rebuilt afterwards.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		out, err := h.CreateProject(ctx, getUserID(ctx), in)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get one of the caller's projects by ID.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		out, err := h.GetProject(ctx, getUserID(ctx), in.ID)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List the caller's projects, newest first, straight from storage.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, ProjectListResponse, error) {
		out, err := h.ListProjects(ctx, getUserID(ctx))
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete one of the caller's projects. The search index is rebuilt afterwards.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ProjectIDParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		out, err := h.DeleteProject(ctx, getUserID(ctx), in.ID)
		return nil, out, err
	})

	logger.Debug("MCP tools registered", slog.Int("count", 7))
}
