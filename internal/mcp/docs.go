package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `buildboard keeps each user's projects searchable from an in-memory index.

Tools:
- search_projects: every query word must appear in a project's name or description.
  status and client_id narrow the result and ignore letter case. Omit query to list everything.
- create_project / delete_project: write to storage and rebuild the caller's index.
- get_project / list_projects: read straight from storage.
- rebuild_project_index: reload from storage when the index looks stale.
- index_status: report whether the caller has an index and how large it is.

Docs:
- buildboard://docs/search (query and filter semantics)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "buildboard://docs/search",
		Name:        "docs_search",
		Title:       "Project search semantics",
		Description: "How queries are tokenized and how status and client filters combine.",
		Content: `# Project search

## Tokens

Text is lowercased and split on whitespace and on the characters ` + "`, . ; : - _ / \\ ( ) [ ] { }`" + `.
"Harbor-Front Renovation" yields ` + "`harbor`, `front`, `renovation`" + `.

## Query

A project matches when every query token appears in its name or description.
A query with no tokens ("", "  ", "--") matches every project.
Matching is whole-token: "harb" does not match "harbor".

## Filters

- ` + "`status`" + ` compares the whole label ignoring case. "active" matches "Active".
- ` + "`client_id`" + ` tries an exact match first, then a case-insensitive one,
  then a comparison that also ignores surrounding spaces.
- Blank filters are ignored.
- A client_id filter picks the working set by itself; query is not applied alongside it.
- status narrows whatever the query or client_id selected.

## Freshness

create_project and delete_project rebuild the index before returning.
The first search for a user builds their index from storage.
Use rebuild_project_index after writing to storage by other means.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
