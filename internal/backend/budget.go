package backend

import (
	"fmt"
	"sync"
)

// RequestBudget caps how many API requests a single run may issue. A zero
// or negative limit means unlimited. Acquire fails instead of blocking:
// the bulk engine treats a blown budget like any other per-item failure.
type RequestBudget struct {
	mu    sync.Mutex
	limit int
	used  int
}

func NewRequestBudget(limit int) *RequestBudget {
	return &RequestBudget{limit: limit}
}

// ErrBudgetExhausted is returned (wrapped) once the request ceiling is hit.
var ErrBudgetExhausted = fmt.Errorf("request budget exhausted")

func (b *RequestBudget) Acquire() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.limit > 0 && b.used >= b.limit {
		return fmt.Errorf("%w (limit %d)", ErrBudgetExhausted, b.limit)
	}
	b.used++
	return nil
}

func (b *RequestBudget) Used() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}

func (b *RequestBudget) Remaining() int {
	if b == nil {
		return -1
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.limit <= 0 {
		return -1
	}
	if rem := b.limit - b.used; rem > 0 {
		return rem
	}
	return 0
}
