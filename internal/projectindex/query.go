package projectindex

import (
	"slices"
	"strings"

	"github.com/rpggio/buildboard/internal/domain/project"
)

// Filter narrows a search. Blank fields are not applied.
type Filter struct {
	Query    string
	Status   string
	ClientID string
}

// Search returns the projects whose name or description contain every token
// of query. A blank query, or one with no tokens, returns every project.
func (idx *Index) Search(query string) []project.Project {
	if idx == nil {
		return nil
	}
	ids, all := idx.match(query)
	if all {
		return idx.Projects()
	}
	return idx.resolve(ids)
}

// Filter builds a working set and narrows it by status. A client filter
// selects the working set on its own and the query is not consulted;
// otherwise the working set is the query result. The status filter ignores
// letter case and surrounding whitespace of the filter value.
func (idx *Index) Filter(f Filter) []project.Project {
	if idx == nil {
		return nil
	}

	var working []project.Project
	if strings.TrimSpace(f.ClientID) != "" {
		working = idx.ClientMatches(f.ClientID)
		if len(working) == 0 {
			return nil
		}
	} else {
		working = idx.Search(f.Query)
	}

	if status := strings.TrimSpace(f.Status); status != "" {
		working = slices.DeleteFunc(working, func(p project.Project) bool {
			return !strings.EqualFold(p.Status, status)
		})
	}
	return working
}

// ClientMatches resolves a client filter, trying each lookup in turn: the
// exact key, then a case-insensitive key match, then a scan of every project.
// The scan also ignores whitespace around both the filter and the stored
// client identifier.
func (idx *Index) ClientMatches(clientID string) []project.Project {
	if matches, ok := idx.clientExact(clientID); ok {
		return matches
	}
	if matches, ok := idx.clientFoldKeys(clientID); ok {
		return matches
	}
	matches, _ := idx.clientScan(clientID)
	return matches
}

func (idx *Index) clientExact(clientID string) ([]project.Project, bool) {
	bucket, ok := idx.byClient[clientID]
	if !ok || len(bucket) == 0 {
		return nil, false
	}
	return slices.Clone(bucket), true
}

func (idx *Index) clientFoldKeys(clientID string) ([]project.Project, bool) {
	var matches []project.Project
	for key, bucket := range idx.byClient {
		if strings.EqualFold(key, clientID) {
			matches = append(matches, bucket...)
		}
	}
	if len(matches) == 0 {
		return nil, false
	}
	idx.sortBySnapshot(matches)
	return matches, true
}

// clientScan also ignores surrounding whitespace, which the key lookups cannot.
func (idx *Index) clientScan(clientID string) ([]project.Project, bool) {
	want := strings.TrimSpace(clientID)
	var matches []project.Project
	for _, id := range idx.ids {
		p := idx.byID[id]
		if strings.EqualFold(strings.TrimSpace(p.ClientID), want) {
			matches = append(matches, p)
		}
	}
	return matches, len(matches) > 0
}

// match intersects the posting sets of the query tokens. all reports that the
// query has no tokens and therefore matches everything.
func (idx *Index) match(query string) (ids map[string]struct{}, all bool) {
	if strings.TrimSpace(query) == "" {
		return nil, true
	}

	var result map[string]struct{}
	for tok := range Tokens(query) {
		posting, ok := idx.postings[tok]
		if !ok {
			return map[string]struct{}{}, false
		}
		if result == nil {
			result = make(map[string]struct{}, len(posting))
			for id := range posting {
				result[id] = struct{}{}
			}
			continue
		}
		for id := range result {
			if _, ok := posting[id]; !ok {
				delete(result, id)
			}
		}
		if len(result) == 0 {
			return result, false
		}
	}

	if result == nil {
		return nil, true
	}
	return result, false
}

func (idx *Index) resolve(ids map[string]struct{}) []project.Project {
	if len(ids) == 0 {
		return nil
	}
	out := make([]project.Project, 0, len(ids))
	for id := range ids {
		if p, ok := idx.byID[id]; ok {
			out = append(out, p)
		}
	}
	idx.sortBySnapshot(out)
	return out
}

func (idx *Index) sortBySnapshot(projects []project.Project) {
	slices.SortFunc(projects, func(a, b project.Project) int {
		return idx.position[a.ID] - idx.position[b.ID]
	})
}
