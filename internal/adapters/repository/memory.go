package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/usersapi/internal/domain/ids"
	"github.com/okian/usersapi/internal/domain/model"
	"github.com/okian/usersapi/internal/domain/names"
)

// MemoryStore keeps the user collection in memory. Data is lost on restart.
// Safe for concurrent use.
//
// The snapshot is built once from the seed, ids included, and is never
// mutated; Reset copies it back so restored records keep their original ids.
type MemoryStore struct {
	mu       sync.RWMutex
	users    []model.User
	snapshot []model.User

	seed  []Seed
	ids   ids.Generator
	names names.Index
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore builds a store holding the seed records.
// Returns ErrInvalidSeed if two seed records share a name.
func NewMemoryStore(ctx context.Context, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{
		seed:  DefaultSeed(),
		ids:   ids.UUID(),
		names: names.NewInMemoryIndex(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.snapshot = make([]model.User, 0, len(s.seed))
	for _, sd := range s.seed {
		if s.names.Claim(ctx, sd.Name) {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidSeed, sd.Name)
		}
		s.snapshot = append(s.snapshot, model.User{ID: s.ids.NewID(), Name: sd.Name, Age: sd.Age})
	}
	s.users = slices.Clone(s.snapshot)
	return s, nil
}

// indexOf returns the position of id or -1. Caller must hold s.mu.
func (s *MemoryStore) indexOf(id string) int {
	return slices.IndexFunc(s.users, func(u model.User) bool { return u.ID == id })
}

func (s *MemoryStore) List(_ context.Context) []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, ErrNotFound
	}
	return s.users[i], nil
}

func (s *MemoryStore) Insert(ctx context.Context, name string, age float64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.names.Claim(ctx, name) {
		return model.User{}, ErrDuplicateName
	}
	u := model.User{ID: s.ids.NewID(), Name: name, Age: age}
	s.users = append(s.users, u)
	return u, nil
}

func (s *MemoryStore) Remove(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, ErrNotFound
	}
	u := s.users[i]
	s.users = slices.Delete(s.users, i, i+1)
	s.names.Release(ctx, u.Name)
	return u, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch model.Patch) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.User{}, ErrNotFound
	}
	cur := s.users[i]
	if patch.Name != nil && *patch.Name != cur.Name {
		if s.names.Claim(ctx, *patch.Name) {
			return model.User{}, ErrDuplicateName
		}
		s.names.Release(ctx, cur.Name)
	}
	s.users[i] = patch.Apply(cur)
	return s.users[i], nil
}

func (s *MemoryStore) Reset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = slices.Clone(s.snapshot)
	taken := make([]string, len(s.snapshot))
	for i, u := range s.snapshot {
		taken[i] = u.Name
	}
	s.names.Reset(ctx, taken)
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
