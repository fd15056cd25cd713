// Package repository defines the user store interface and its in-memory
// implementation.
package repository

import (
	"context"

	"github.com/okian/usersapi/internal/domain/model"
)

// Store provides read/write access to the user collection.
type Store interface {
	// List returns a copy of every record in insertion order.
	List(ctx context.Context) []model.User

	// Get returns the record with id, or ErrNotFound.
	Get(ctx context.Context, id string) (model.User, error)

	// Insert creates a record with a freshly generated id.
	// Returns ErrDuplicateName if another record holds name.
	Insert(ctx context.Context, name string, age float64) (model.User, error)

	// Remove deletes the record with id and returns it, or ErrNotFound.
	Remove(ctx context.Context, id string) (model.User, error)

	// Update merges patch into the record with id and returns the result.
	// Returns ErrNotFound, or ErrDuplicateName when renaming onto a taken name.
	Update(ctx context.Context, id string, patch model.Patch) (model.User, error)

	// Reset replaces the collection with the seed snapshot.
	Reset(ctx context.Context)

	// Count returns the number of records.
	Count(ctx context.Context) int
}
