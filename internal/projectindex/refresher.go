package projectindex

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/rpggio/buildboard/internal/domain/project"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultWarmConcurrency bounds Warm when no limit is configured.
const DefaultWarmConcurrency = 4

// SnapshotSource lists the projects currently visible to a user.
type SnapshotSource interface {
	List(ctx context.Context, userID string) ([]project.Project, error)
}

// Refresher rebuilds indexes from a fresh snapshot of a user's projects.
type Refresher struct {
	source          SnapshotSource
	service         *Service
	warmConcurrency int
	ensure          singleflight.Group
	locks           sync.Map // user ID -> *sync.Mutex
	logger          *slog.Logger
}

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithWarmConcurrency sets how many users Warm refreshes at once.
func WithWarmConcurrency(n int) RefresherOption {
	return func(r *Refresher) {
		if n > 0 {
			r.warmConcurrency = n
		}
	}
}

// WithLogger sets the refresher's logger.
func WithLogger(logger *slog.Logger) RefresherOption {
	return func(r *Refresher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRefresher creates a Refresher that installs indexes through service.
func NewRefresher(source SnapshotSource, service *Service, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		source:          source,
		service:         service,
		warmConcurrency: DefaultWarmConcurrency,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refresh loads the user's projects and replaces their index. Each call loads
// its own snapshot so a refresh issued after a write always observes it.
// Refreshes for one user run one at a time, so an older snapshot is never
// installed over a newer one.
func (r *Refresher) Refresh(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	mu := r.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	projects, err := r.source.List(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading project snapshot: %w", err)
	}
	r.service.BuildOrUpdate(userID, projects)
	return nil
}

func (r *Refresher) userLock(userID string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Ensure returns the user's index, building it first if none is installed.
// Concurrent callers for the same user share a single build, which is not
// canceled when the caller that started it goes away.
func (r *Refresher) Ensure(ctx context.Context, userID string) (*Index, error) {
	if idx, ok := r.service.GetIndex(userID); ok {
		return idx, nil
	}
	if strings.TrimSpace(userID) == "" {
		return nil, nil
	}
	buildCtx := context.WithoutCancel(ctx)
	v, err, shared := r.ensure.Do(userID, func() (any, error) {
		if idx, ok := r.service.GetIndex(userID); ok {
			return idx, nil
		}
		if err := r.Refresh(buildCtx, userID); err != nil {
			return nil, err
		}
		idx, _ := r.service.GetIndex(userID)
		return idx, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		r.logger.Debug("project index build shared", "user_id", userID)
	}
	idx, _ := v.(*Index)
	return idx, nil
}

// Warm refreshes the indexes of several users concurrently. The first failure
// cancels the remaining refreshes and is returned.
func (r *Refresher) Warm(ctx context.Context, userIDs []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.warmConcurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.Refresh(gctx, userID); err != nil {
				return fmt.Errorf("warming index for %s: %w", userID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	r.logger.Info("project indexes warmed", "users", len(userIDs))
	return nil
}
