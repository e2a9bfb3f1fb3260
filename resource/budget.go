package resource

import (
	"fmt"
	"sync"
)

// Budget caps the number of live worker goroutines.
//
// A slot is reserved with TryReserve before a worker starts and returned with
// Release after the worker has been joined. TryReserve never blocks: a caller
// that is denied a slot does the work itself.
//
// A Budget with max <= 0 denies every reservation. A nil *Budget behaves the
// same way.
type Budget struct {
	mu sync.Mutex

	max    int
	active int
	peak   int

	granted  uint64
	denied   uint64
	released uint64
}

// BudgetStats is a point-in-time snapshot of a Budget.
type BudgetStats struct {
	Max      int
	Active   int
	Peak     int
	Granted  uint64
	Denied   uint64
	Released uint64
}

// NewBudget creates a Budget allowing up to max concurrently reserved slots.
// Negative values are treated as zero.
func NewBudget(max int) *Budget {
	if max < 0 {
		max = 0
	}
	return &Budget{max: max}
}

// TryReserve reserves one slot if fewer than Max are active.
// It reports whether the slot was granted.
func (b *Budget) TryReserve() bool {
	if b == nil {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active >= b.max {
		b.denied++
		return false
	}

	b.active++
	b.granted++
	if b.active > b.peak {
		b.peak = b.active
	}
	b.check()
	return true
}

// Release returns a slot obtained from a successful TryReserve.
// Releasing more slots than were granted panics.
func (b *Budget) Release() {
	if b == nil {
		panic("resource: release on nil budget")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active == 0 {
		panic("resource: release without reservation")
	}

	b.active--
	b.released++
	b.check()
}

// check enforces 0 <= active <= max. Must be called with mu held.
func (b *Budget) check() {
	if b.active < 0 || b.active > b.max {
		panic(fmt.Sprintf("resource: budget invariant violated: active=%d max=%d", b.active, b.max))
	}
}

// Max returns the configured slot count.
func (b *Budget) Max() int {
	if b == nil {
		return 0
	}
	return b.max
}

// Active returns the number of slots currently reserved.
func (b *Budget) Active() int {
	if b == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.active
}

// Peak returns the largest number of simultaneously reserved slots.
func (b *Budget) Peak() int {
	if b == nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return b.peak
}

// Stats returns a snapshot of the budget counters.
func (b *Budget) Stats() BudgetStats {
	if b == nil {
		return BudgetStats{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	return BudgetStats{
		Max:      b.max,
		Active:   b.active,
		Peak:     b.peak,
		Granted:  b.granted,
		Denied:   b.denied,
		Released: b.released,
	}
}
