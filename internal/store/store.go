// Package store provides SQLite-backed persistence for notes.
package store

import (
	"context"

	"github.com/rosales/inkwell/internal/models"
)

// Store defines note persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type Store interface {
	Insert(ctx context.Context, n *models.Note) error
	Get(ctx context.Context, id string) (*models.Note, error)
	// ListByOwner returns the owner's notes, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Note, error)
	Update(ctx context.Context, n *models.Note) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Verify *DB satisfies Store at compile time.
var _ Store = (*DB)(nil)
