package repository

import (
	"github.com/okian/usersapi/internal/domain/ids"
	"github.com/okian/usersapi/internal/domain/names"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithSeed replaces the default seed records. An empty slice seeds nothing.
func WithSeed(seed []Seed) Option {
	return func(s *MemoryStore) {
		if seed != nil {
			s.seed = seed
		}
	}
}

// WithIDGenerator sets the id generator; random UUIDs by default.
func WithIDGenerator(g ids.Generator) Option {
	return func(s *MemoryStore) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithNameIndex sets the index enforcing name uniqueness.
func WithNameIndex(idx names.Index) Option {
	return func(s *MemoryStore) {
		if idx != nil {
			s.names = idx
		}
	}
}
