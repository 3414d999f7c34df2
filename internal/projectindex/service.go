package projectindex

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/buildboard/internal/domain/project"
)

// Stats describes an installed index.
type Stats struct {
	Projects int       `json:"projects"`
	Tokens   int       `json:"tokens"`
	Clients  int       `json:"clients"`
	Statuses int       `json:"statuses"`
	BuiltAt  time.Time `json:"built_at"`
}

// Service builds, installs and queries per-user indexes.
type Service struct {
	store  *Store
	logger *slog.Logger
}

// NewService creates an index service backed by store.
func NewService(store *Store, logger *slog.Logger) *Service {
	if store == nil {
		store = NewStore(DefaultShards)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: store, logger: logger}
}

// BuildOrUpdate builds a new index from projects and installs it for userID,
// replacing any previous one. A blank userID is ignored.
func (s *Service) BuildOrUpdate(userID string, projects []project.Project) {
	if strings.TrimSpace(userID) == "" {
		return
	}
	start := time.Now()
	idx := Build(projects)
	s.store.Put(userID, idx)
	s.logger.Debug("project index built",
		"user_id", userID,
		"projects", idx.Len(),
		"tokens", idx.TokenCount(),
		"duration", time.Since(start))
}

// GetIndex returns the index installed for userID.
func (s *Service) GetIndex(userID string) (*Index, bool) {
	if strings.TrimSpace(userID) == "" {
		return nil, false
	}
	return s.store.Get(userID)
}

// Search runs a filtered search against the user's index. Users without an
// index get an empty result.
func (s *Service) Search(userID string, f Filter) []project.Project {
	idx, ok := s.GetIndex(userID)
	if !ok {
		return nil
	}
	return idx.Filter(f)
}

// Stats reports on the index installed for userID.
func (s *Service) Stats(userID string) (Stats, bool) {
	idx, ok := s.GetIndex(userID)
	if !ok {
		return Stats{}, false
	}
	return Stats{
		Projects: idx.Len(),
		Tokens:   idx.TokenCount(),
		Clients:  len(idx.byClient),
		Statuses: len(idx.byStatus),
		BuiltAt:  idx.BuiltAt(),
	}, true
}
