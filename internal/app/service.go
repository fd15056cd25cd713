// Package service provides the user registry service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/okian/usersapi/internal/adapters/repository"
	"github.com/okian/usersapi/internal/domain/ids"
	"github.com/okian/usersapi/internal/domain/model"
	"github.com/okian/usersapi/pkg/logger"
	"github.com/okian/usersapi/pkg/metrics"
)

// ErrNotStarted is returned by registry operations before Start.
var ErrNotStarted = errors.New("service not started")

// Service owns the user store and exposes the registry operations.
type Service struct {
	mu sync.RWMutex

	store repository.Store

	// Store construction, used by Start when no store was injected.
	seed []repository.Seed
	ids  ids.Generator

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore injects a ready store instead of building a MemoryStore.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSeed overrides the records the store starts with and resets to.
func WithSeed(seed []repository.Seed) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithIDGenerator sets the generator for new record ids.
func WithIDGenerator(g ids.Generator) Option {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

// New constructs a new Service. Call Start before use.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the store (unless one was injected) and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("registry")
	}

	if s.store == nil {
		store, err := repository.NewMemoryStore(ctx,
			repository.WithSeed(s.seed),
			repository.WithIDGenerator(s.ids),
		)
		if err != nil {
			return err
		}
		s.store = store
	}

	s.started = true
	count := s.store.Count(ctx)
	metrics.SetUsersTotal(count)
	s.logger.Info(ctx, "user registry started", logger.Int("users", count))
	return nil
}

// Stop marks the service stopped. The in-memory data is kept until the
// process exits.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "user registry stopped")
}

func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// ListUsers returns the full collection.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	users := store.List(ctx)
	metrics.RecordOperation(metrics.OpList, metrics.OutcomeOK)
	return users, nil
}

// GetUser returns one record, or repository.ErrNotFound.
func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	store, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	u, err := store.Get(ctx, id)
	metrics.RecordOperation(metrics.OpGet, outcome(err))
	return u, err
}

// CreateUser adds a record, or returns repository.ErrDuplicateName.
func (s *Service) CreateUser(ctx context.Context, name string, age float64) (model.User, error) {
	store, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	u, err := store.Insert(ctx, name, age)
	metrics.RecordOperation(metrics.OpCreate, outcome(err))
	if err != nil {
		s.logger.Debug(ctx, "create rejected", logger.String("name", name), logger.Error(err))
		return model.User{}, err
	}
	metrics.SetUsersTotal(store.Count(ctx))
	s.logger.Info(ctx, "user created", logger.String("id", u.ID), logger.String("name", u.Name))
	return u, nil
}

// DeleteUser removes a record, or returns repository.ErrNotFound.
func (s *Service) DeleteUser(ctx context.Context, id string) (model.User, error) {
	store, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	u, err := store.Remove(ctx, id)
	metrics.RecordOperation(metrics.OpDelete, outcome(err))
	if err != nil {
		return model.User{}, err
	}
	metrics.SetUsersTotal(store.Count(ctx))
	s.logger.Info(ctx, "user deleted", logger.String("id", u.ID), logger.String("name", u.Name))
	return u, nil
}

// UpdateUser merges patch into a record.
func (s *Service) UpdateUser(ctx context.Context, id string, patch model.Patch) (model.User, error) {
	store, err := s.ready()
	if err != nil {
		return model.User{}, err
	}
	u, err := store.Update(ctx, id, patch)
	metrics.RecordOperation(metrics.OpUpdate, outcome(err))
	if err != nil {
		return model.User{}, err
	}
	s.logger.Info(ctx, "user updated", logger.String("id", u.ID))
	return u, nil
}

// Reset restores the seed snapshot.
func (s *Service) Reset(ctx context.Context) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	store.Reset(ctx)
	count := store.Count(ctx)
	metrics.RecordOperation(metrics.OpReset, metrics.OutcomeOK)
	metrics.RecordReset()
	metrics.SetUsersTotal(count)
	s.logger.Info(ctx, "user registry reset", logger.Int("users", count))
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started": s.started,
	}
	if s.started {
		stats["totalUsers"] = s.store.Count(context.Background())
	}
	return stats
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, repository.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, repository.ErrDuplicateName):
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeError
	}
}
