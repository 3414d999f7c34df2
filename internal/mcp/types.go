package mcp

import (
	"time"

	"github.com/rpggio/buildboard/internal/domain/project"
	"github.com/rpggio/buildboard/internal/projectindex"
)

type CreateProjectParams struct {
	ID          string `json:"id,omitempty" jsonschema:"unique project identifier, generated when omitted"`
	Name        string `json:"name" jsonschema:"project display name"`
	Description string `json:"description,omitempty" jsonschema:"free-text project description"`
	ClientID    string `json:"client_id,omitempty" jsonschema:"identifier of the client the project is built for"`
	Status      string `json:"status,omitempty" jsonschema:"status label, e.g. Active or Draft"`
}

type ProjectIDParams struct {
	ID string `json:"id" jsonschema:"project identifier"`
}

type SearchProjectsParams struct {
	Query    string `json:"query,omitempty" jsonschema:"words that must all appear in the project name or description; omit to list every project"`
	Status   string `json:"status,omitempty" jsonschema:"only return projects with this status (case-insensitive)"`
	ClientID string `json:"client_id,omitempty" jsonschema:"only return projects for this client (case-insensitive); query is ignored when set"`
}

type EmptyParams struct{}

type ProjectResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ClientID    string `json:"client_id,omitempty"`
	Status      string `json:"status,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Count    int               `json:"count"`
}

type IndexStatusResponse struct {
	Built    bool   `json:"built"`
	Projects int    `json:"projects,omitempty"`
	Tokens   int    `json:"tokens,omitempty"`
	Clients  int    `json:"clients,omitempty"`
	Statuses int    `json:"statuses,omitempty"`
	BuiltAt  string `json:"built_at,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func toProjectResponse(p project.Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ClientID:    p.ClientID,
		Status:      p.Status,
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toProjectList(projects []project.Project) ProjectListResponse {
	resp := ProjectListResponse{Projects: make([]ProjectResponse, 0, len(projects))}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, toProjectResponse(p))
	}
	resp.Count = len(resp.Projects)
	return resp
}

func toIndexStatus(stats projectindex.Stats, built bool) IndexStatusResponse {
	if !built {
		return IndexStatusResponse{}
	}
	return IndexStatusResponse{
		Built:    true,
		Projects: stats.Projects,
		Tokens:   stats.Tokens,
		Clients:  stats.Clients,
		Statuses: stats.Statuses,
		BuiltAt:  stats.BuiltAt.UTC().Format(time.RFC3339),
	}
}
