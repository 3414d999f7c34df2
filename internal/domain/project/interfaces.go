package project

import "context"

// Repository provides persistence for projects.
type Repository interface {
	Create(ctx context.Context, userID string, proj *Project) error
	Get(ctx context.Context, userID, id string) (*Project, error)
	List(ctx context.Context, userID string) ([]Project, error)
	Delete(ctx context.Context, userID, id string) error
}

// IndexRefresher rebuilds a user's search index after their projects change.
type IndexRefresher interface {
	Refresh(ctx context.Context, userID string) error
}
