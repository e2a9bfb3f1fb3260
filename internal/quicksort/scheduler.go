package quicksort

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/psort/resource"
)

// Observer receives scheduling events. Offsets are absolute indices into the
// slice passed to Run. Implementations must be safe for concurrent use.
type Observer interface {
	// OnPartition is called after a segment of length n at off was split
	// into a left half of length left and a right half of length right.
	OnPartition(off, n, left, right int)
	// OnFallback is called before a segment is sorted sequentially.
	OnFallback(off, n int)
	// OnSpawn is called when a half is handed to a new worker.
	OnSpawn(off, n int)
	// OnInline is called when a half is recursed into on the current goroutine.
	OnInline(off, n int)
}

type noopObserver struct{}

func (noopObserver) OnPartition(int, int, int, int) {}
func (noopObserver) OnFallback(int, int)            {}
func (noopObserver) OnSpawn(int, int)               {}
func (noopObserver) OnInline(int, int)              {}

// Config configures a Scheduler.
type Config[T constraints.Integer] struct {
	// Threshold is the length at or below which segments are sorted with
	// Fallback. Values < 1 select DefaultThreshold.
	Threshold int

	// SpawnCutoff is the length at or below which a half runs inline without
	// consulting the budget.
	SpawnCutoff int

	// Fallback sorts short segments. Defaults to SortSequential.
	Fallback func([]T)

	// Observer receives scheduling events. Defaults to a no-op.
	Observer Observer
}

// Stats summarizes one Run.
type Stats struct {
	Partitions  int64
	Fallbacks   int64
	Spawned     int64
	Inline      int64
	Denied      int64
	PeakWorkers int
	MaxDepth    int64
}

// PanicError reports a panic raised while sorting a segment.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("quicksort: worker panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Scheduler runs the recursive sort for one top-level call.
// A Scheduler must not be reused across calls.
type Scheduler[T constraints.Integer] struct {
	cfg    Config[T]
	budget *resource.Budget

	partitions atomic.Int64
	fallbacks  atomic.Int64
	spawned    atomic.Int64
	inline     atomic.Int64
	maxDepth   atomic.Int64
}

// New creates a Scheduler that reserves worker slots from budget.
func New[T constraints.Integer](budget *resource.Budget, cfg Config[T]) *Scheduler[T] {
	if cfg.Threshold < 1 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.SpawnCutoff < 0 {
		cfg.SpawnCutoff = 0
	}
	if cfg.Fallback == nil {
		cfg.Fallback = SortSequential[T]
	}
	if cfg.Observer == nil {
		cfg.Observer = noopObserver{}
	}
	return &Scheduler[T]{cfg: cfg, budget: budget}
}

// Run sorts data in place. It returns after every worker it started has
// finished and released its slot. A panic on any goroutine of the call tree
// is returned as *PanicError.
func (s *Scheduler[T]) Run(data []T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()

	return s.sort(data, 0, 0)
}

// Stats returns the counters collected so far.
func (s *Scheduler[T]) Stats() Stats {
	bs := s.budget.Stats()
	return Stats{
		Partitions:  s.partitions.Load(),
		Fallbacks:   s.fallbacks.Load(),
		Spawned:     s.spawned.Load(),
		Inline:      s.inline.Load(),
		Denied:      int64(bs.Denied),
		PeakWorkers: bs.Peak,
		MaxDepth:    s.maxDepth.Load(),
	}
}

func (s *Scheduler[T]) sort(seg []T, off, depth int) (err error) {
	s.observeDepth(depth)

	n := len(seg)
	if n <= s.cfg.Threshold {
		s.fallbacks.Add(1)
		s.cfg.Observer.OnFallback(off, n)
		s.cfg.Fallback(seg)
		return nil
	}

	j, i := Partition(seg)
	s.partitions.Add(1)
	s.cfg.Observer.OnPartition(off, n, j+1, n-i)

	var (
		g       errgroup.Group
		workers int
	)

	// Join barrier. Runs on normal return and while unwinding a panic from an
	// inline half, so spawned workers are always joined and released.
	defer func() {
		if workers == 0 {
			return
		}
		werr := g.Wait()
		for range workers {
			s.budget.Release()
		}
		if err == nil {
			err = werr
		}
	}()

	if err := s.dispatch(&g, &workers, seg[:j+1], off, depth+1); err != nil {
		return err
	}
	return s.dispatch(&g, &workers, seg[i:], off+i, depth+1)
}

// dispatch runs half on a new worker when a slot is granted and inline
// otherwise.
func (s *Scheduler[T]) dispatch(g *errgroup.Group, workers *int, half []T, off, depth int) error {
	if len(half) > s.cfg.SpawnCutoff && s.budget.TryReserve() {
		*workers++
		s.spawned.Add(1)
		s.cfg.Observer.OnSpawn(off, len(half))

		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = newPanicError(r)
				}
			}()
			return s.sort(half, off, depth)
		})
		return nil
	}

	s.inline.Add(1)
	s.cfg.Observer.OnInline(off, len(half))
	return s.sort(half, off, depth)
}

func (s *Scheduler[T]) observeDepth(depth int) {
	d := int64(depth)
	for {
		cur := s.maxDepth.Load()
		if d <= cur || s.maxDepth.CompareAndSwap(cur, d) {
			return
		}
	}
}

func newPanicError(r any) error {
	if pe, ok := r.(*PanicError); ok {
		return pe
	}
	return &PanicError{Value: r, Stack: debug.Stack()}
}
