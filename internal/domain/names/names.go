// Package names tracks which user names are taken.
package names

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
)

// Index records claimed names so a name is held by at most one record.
type Index interface {
	// Claim atomically checks whether name is taken and takes it if not.
	// Returns true if name was already taken, false if it was newly claimed.
	Claim(ctx context.Context, name string) bool

	// Release frees a name. Releasing an unclaimed name is a no-op.
	Release(ctx context.Context, name string)

	// Has reports whether name is currently claimed.
	Has(ctx context.Context, name string) bool

	// Reset drops all claims and claims each of names.
	Reset(ctx context.Context, names []string)

	Size() int64
}

// inMemoryIndex implements Index with a map guarded by a mutex.
type inMemoryIndex struct {
	mu    sync.RWMutex
	taken map[string]struct{}
	fold  bool
	size  atomic.Int64
}

// NewInMemoryIndex creates an empty index.
func NewInMemoryIndex(opts ...Option) Index {
	idx := &inMemoryIndex{taken: make(map[string]struct{})}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

func (i *inMemoryIndex) key(name string) string {
	if i.fold {
		return strings.ToLower(name)
	}
	return name
}

func (i *inMemoryIndex) Claim(_ context.Context, name string) bool {
	k := i.key(name)

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.taken[k]; exists {
		return true
	}
	i.taken[k] = struct{}{}
	i.size.Add(1)
	return false
}

func (i *inMemoryIndex) Release(_ context.Context, name string) {
	k := i.key(name)

	i.mu.Lock()
	defer i.mu.Unlock()

	if _, exists := i.taken[k]; exists {
		delete(i.taken, k)
		i.size.Add(-1)
	}
}

func (i *inMemoryIndex) Has(_ context.Context, name string) bool {
	k := i.key(name)

	i.mu.RLock()
	defer i.mu.RUnlock()

	_, exists := i.taken[k]
	return exists
}

func (i *inMemoryIndex) Reset(_ context.Context, names []string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.taken = make(map[string]struct{}, len(names))
	for _, n := range names {
		i.taken[i.key(n)] = struct{}{}
	}
	i.size.Store(int64(len(i.taken)))
}

// Size returns the number of claimed names.
func (i *inMemoryIndex) Size() int64 {
	return i.size.Load()
}
