package order

import (
	"context"
	"sync"
)

// Repository defines persistence operations for orders.
type Repository interface {
	// Insert writes exactly one row. Calling it twice with the same order
	// writes two rows.
	Insert(ctx context.Context, o PersistedOrder) error
}

// InMemoryRepository keeps inserted rows in a slice.
type InMemoryRepository struct {
	mu   sync.Mutex
	rows []PersistedOrder
	err  error
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

func (r *InMemoryRepository) Insert(ctx context.Context, o PersistedOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, o)
	return nil
}

// Rows returns a copy of everything inserted so far.
func (r *InMemoryRepository) Rows() []PersistedOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PersistedOrder, len(r.rows))
	copy(out, r.rows)
	return out
}

// SetErr makes every following Insert fail with err; nil restores writes.
func (r *InMemoryRepository) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}
