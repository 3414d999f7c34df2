package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/buildboard/internal/domain/project"
	"github.com/rpggio/buildboard/internal/projectindex"
)

// Handler implements the dashboard operations shared by the MCP tools and the
// JSON-RPC endpoint.
type Handler struct {
	projects  ProjectService
	index     IndexService
	refresher IndexRefresher
}

// NewHandler creates a new handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		projects:  services.Projects,
		index:     services.Index,
		refresher: services.Refresher,
	}
}

// Handle dispatches a JSON-RPC method call for userID.
func (h *Handler) Handle(ctx context.Context, userID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "search_projects":
		var req SearchProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.SearchProjects(ctx, userID, req)
	case "rebuild_project_index":
		return h.RebuildIndex(ctx, userID)
	case "index_status":
		return h.IndexStatus(userID), nil
	case "create_project":
		var req CreateProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.CreateProject(ctx, userID, req)
	case "get_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetProject(ctx, userID, req.ID)
	case "list_projects":
		return h.ListProjects(ctx, userID)
	case "delete_project":
		var req ProjectIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.DeleteProject(ctx, userID, req.ID)
	default:
		return nil, &APIError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", method)}
	}
}

// SearchProjects runs a filtered search over the user's index, building the
// index first if the user has none yet.
func (h *Handler) SearchProjects(ctx context.Context, userID string, req SearchProjectsParams) (ProjectListResponse, error) {
	if _, err := h.refresher.Ensure(ctx, userID); err != nil {
		return ProjectListResponse{}, fmt.Errorf("building project index: %w", err)
	}
	matches := h.index.Search(userID, projectindex.Filter{
		Query:    req.Query,
		Status:   req.Status,
		ClientID: req.ClientID,
	})
	return toProjectList(matches), nil
}

// RebuildIndex reloads the user's projects and replaces their index.
func (h *Handler) RebuildIndex(ctx context.Context, userID string) (IndexStatusResponse, error) {
	if err := h.refresher.Refresh(ctx, userID); err != nil {
		return IndexStatusResponse{}, fmt.Errorf("rebuilding project index: %w", err)
	}
	return h.IndexStatus(userID), nil
}

// IndexStatus describes the user's installed index.
func (h *Handler) IndexStatus(userID string) IndexStatusResponse {
	stats, ok := h.index.Stats(userID)
	return toIndexStatus(stats, ok)
}

// CreateProject stores a new project for the user and rebuilds their index.
func (h *Handler) CreateProject(ctx context.Context, userID string, req CreateProjectParams) (ProjectResponse, error) {
	proj, err := h.projects.Create(ctx, userID, project.CreateRequest{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      req.Status,
	})
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return toProjectResponse(*proj), nil
}

// GetProject reads one project straight from storage.
func (h *Handler) GetProject(ctx context.Context, userID, id string) (ProjectResponse, error) {
	proj, err := h.projects.Get(ctx, userID, id)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return toProjectResponse(*proj), nil
}

// ListProjects reads the user's projects straight from storage, newest first.
func (h *Handler) ListProjects(ctx context.Context, userID string) (ProjectListResponse, error) {
	projects, err := h.projects.List(ctx, userID)
	if err != nil {
		return ProjectListResponse{}, mapError(err)
	}
	return toProjectList(projects), nil
}

// DeleteProject removes a project and rebuilds the user's index.
func (h *Handler) DeleteProject(ctx context.Context, userID, id string) (StatusResponse, error) {
	if err := h.projects.Delete(ctx, userID, id); err != nil {
		return StatusResponse{}, mapError(err)
	}
	return StatusResponse{Status: "deleted"}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: CodeInvalidParams, Message: err.Error()}
	}
	return nil
}
