package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/buildboard/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo    Repository
	indexer IndexRefresher
	logger  *slog.Logger
}

// NewService creates a new project service. indexer may be nil.
func NewService(repo Repository, indexer IndexRefresher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, indexer: indexer, logger: logger}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	ID          string
	Name        string
	Description string
	ClientID    string
	Status      string
}

// Create creates a new project and rebuilds the owner's index.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	id := req.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}

	proj := &Project{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      req.Status,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, userID, proj); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateID
		}
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.refresh(ctx, userID)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, userID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns every project visible to the user.
func (s *Service) List(ctx context.Context, userID string) ([]Project, error) {
	projects, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Delete removes a project and rebuilds the owner's index.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("deleting project: %w", err)
	}
	s.refresh(ctx, userID)
	return nil
}

// refresh keeps the search index in step with storage. A failed rebuild leaves
// the previous index in place, so it is logged rather than returned.
func (s *Service) refresh(ctx context.Context, userID string) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Refresh(ctx, userID); err != nil {
		s.logger.Warn("project index refresh failed", "user_id", userID, "error", err)
	}
}
