// Package store provides inventory storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/inventory/internal/model"
)

// Store errors.
var (
	ErrNotFound    = errors.New("item not found")
	ErrDuplicateID = errors.New("an item with that id already exists")
	ErrNilItem     = errors.New("item cannot be nil")
	ErrParse       = errors.New("inventory file is not valid inventory JSON")
	ErrIO          = errors.New("inventory file I/O failure")
)

// Store defines the interface for inventory operations.
type Store interface {
	// List returns all items ordered by identifier.
	List(ctx context.Context) ([]model.Item, error)

	// Get retrieves an item by its identifier.
	Get(ctx context.Context, id string) (*model.Item, error)

	// Search returns the items whose name contains namePart, ignoring case.
	Search(ctx context.Context, namePart string) ([]model.Item, error)

	// Add inserts a new item. The identifier must not already be present.
	Add(ctx context.Context, item *model.Item) error

	// Remove deletes an item by its identifier.
	Remove(ctx context.Context, id string) error

	// Update overwrites the fields supplied in patch and returns the result.
	Update(ctx context.Context, id string, patch model.Patch) (*model.Item, error)
}
