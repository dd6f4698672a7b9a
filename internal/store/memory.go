package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/vyrodovalexey/inventory/internal/model"
)

// MemoryStore implements Store interface with in-memory storage.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]model.Record
}

// NewMemoryStore creates a new MemoryStore instance.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]model.Record),
	}
}

// Len returns the number of stored items.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// List returns all items from the store.
func (s *MemoryStore) List(ctx context.Context) ([]model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("list items: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(model.Record) bool { return true }), nil
}

// Get retrieves an item by its identifier.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get item: %w", ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}

	item := rec.Item(id)
	return &item, nil
}

// Search returns the items whose name contains namePart, ignoring case.
// An empty result is not an error.
func (s *MemoryStore) Search(ctx context.Context, namePart string) ([]model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("search items: %w", ctx.Err())
	default:
	}

	needle := strings.ToLower(namePart)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(rec model.Record) bool {
		return strings.Contains(strings.ToLower(rec.Name), needle)
	}), nil
}

// collect returns matching items sorted by identifier. Callers hold s.mu.
func (s *MemoryStore) collect(match func(model.Record) bool) []model.Item {
	items := make([]model.Item, 0, len(s.items))
	for _, id := range slices.Sorted(maps.Keys(s.items)) {
		rec := s.items[id]
		if match(rec) {
			items = append(items, rec.Item(id))
		}
	}
	return items
}

// Add inserts a new item into the store.
func (s *MemoryStore) Add(ctx context.Context, item *model.Item) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("add item: %w", ctx.Err())
	default:
	}

	if item == nil {
		return fmt.Errorf("add item: %w", ErrNilItem)
	}

	if err := item.Validate(); err != nil {
		return fmt.Errorf("add item: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return ErrDuplicateID
	}

	s.items[item.ID] = item.Record()

	return nil
}

// Remove deletes an item from the store by its identifier.
func (s *MemoryStore) Remove(ctx context.Context, id string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("remove item: %w", ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ErrNotFound
	}

	delete(s.items, id)

	return nil
}

// Update overwrites the stock and cost supplied in patch.
// An empty patch succeeds without changing anything.
func (s *MemoryStore) Update(ctx context.Context, id string, patch model.Patch) (*model.Item, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("update item: %w", ctx.Err())
	default:
	}

	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.items[id]
	if !exists {
		return nil, ErrNotFound
	}

	updated := patch.Apply(existing)
	s.items[id] = updated

	item := updated.Item(id)
	return &item, nil
}

// snapshot returns a copy of the mapping.
func (s *MemoryStore) snapshot() map[string]model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.items)
}

// replace swaps the mapping for records.
func (s *MemoryStore) replace(records map[string]model.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = records
}
