package projectindex

import (
	"slices"
	"strings"
	"time"

	"github.com/rpggio/buildboard/internal/domain/project"
)

// Index is an immutable search structure over one snapshot of a user's projects.
type Index struct {
	ids      []string // first-seen order
	position map[string]int
	byID     map[string]project.Project
	byClient map[string][]project.Project
	byStatus map[string][]project.Project
	postings map[string]map[string]struct{}
	builtAt  time.Time
}

// Build indexes a snapshot of projects. Projects with a blank ID are skipped.
// When an ID repeats, the last record wins but keeps the position of the first.
func Build(projects []project.Project) *Index {
	idx := &Index{
		ids:      make([]string, 0, len(projects)),
		position: make(map[string]int, len(projects)),
		byID:     make(map[string]project.Project, len(projects)),
		byClient: make(map[string][]project.Project),
		byStatus: make(map[string][]project.Project),
		postings: make(map[string]map[string]struct{}),
		builtAt:  time.Now(),
	}

	for _, p := range projects {
		if strings.TrimSpace(p.ID) == "" {
			continue
		}
		if _, seen := idx.byID[p.ID]; !seen {
			idx.position[p.ID] = len(idx.ids)
			idx.ids = append(idx.ids, p.ID)
		}
		idx.byID[p.ID] = p
	}

	for _, id := range idx.ids {
		p := idx.byID[id]
		idx.byClient[p.ClientID] = append(idx.byClient[p.ClientID], p)
		idx.byStatus[p.Status] = append(idx.byStatus[p.Status], p)
		for tok := range tokenSet(p.Name, p.Description) {
			posting, ok := idx.postings[tok]
			if !ok {
				posting = make(map[string]struct{})
				idx.postings[tok] = posting
			}
			posting[id] = struct{}{}
		}
	}

	return idx
}

// Len returns the number of indexed projects.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// BuiltAt returns when the index was built.
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// Project looks up a project by ID.
func (idx *Index) Project(id string) (project.Project, bool) {
	p, ok := idx.byID[id]
	return p, ok
}

// Projects returns every indexed project in snapshot order.
func (idx *Index) Projects() []project.Project {
	out := make([]project.Project, 0, len(idx.ids))
	for _, id := range idx.ids {
		out = append(out, idx.byID[id])
	}
	return out
}

// ClientBucket returns the projects grouped under the exact client ID.
// Projects without a client are grouped under "".
func (idx *Index) ClientBucket(clientID string) []project.Project {
	return slices.Clone(idx.byClient[clientID])
}

// StatusBucket returns the projects grouped under the exact status label.
func (idx *Index) StatusBucket(status string) []project.Project {
	return slices.Clone(idx.byStatus[status])
}

// ClientIDs returns the distinct client grouping keys, sorted.
func (idx *Index) ClientIDs() []string {
	return sortedKeys(idx.byClient)
}

// Statuses returns the distinct status grouping keys, sorted.
func (idx *Index) Statuses() []string {
	return sortedKeys(idx.byStatus)
}

// Posting returns the sorted IDs of the projects containing token.
func (idx *Index) Posting(token string) []string {
	posting := idx.postings[token]
	out := make([]string, 0, len(posting))
	for id := range posting {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// TokenCount returns the number of distinct tokens.
func (idx *Index) TokenCount() int {
	return len(idx.postings)
}

func sortedKeys(m map[string][]project.Project) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
