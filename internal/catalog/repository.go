package catalog

import (
	"context"
	"sync"
)

// Repository reads the raw ingredient rows from the backing store.
type Repository interface {
	List(ctx context.Context) ([]Ingredient, error)
}

// InMemoryRepository is a simple in-memory implementation useful for tests and
// local runs without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Ingredient
	err     error
}

func NewInMemoryRepository(seed []Ingredient) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Ingredient, 0, len(seed))}
	r.storage = append(r.storage, seed...)
	return r
}

func (r *InMemoryRepository) List(ctx context.Context) ([]Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]Ingredient, len(r.storage))
	copy(out, r.storage)
	return out, nil
}

// Reset replaces the stored ingredients.
func (r *InMemoryRepository) Reset(items []Ingredient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage = append(make([]Ingredient, 0, len(items)), items...)
}

// SetErr makes every following List call fail with err; nil restores reads.
func (r *InMemoryRepository) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
