package psort

import (
	"time"

	"golang.org/x/exp/constraints"

	"github.com/hupe1980/psort/internal/quicksort"
	"github.com/hupe1980/psort/resource"
)

// Stats describes how one Sort call was scheduled.
type Stats struct {
	// Partitions is the number of partition steps.
	Partitions int64
	// Fallbacks is the number of segments sorted sequentially.
	Fallbacks int64
	// Spawned is the number of halves handed to a new worker.
	Spawned int64
	// Inline is the number of halves recursed into on the current goroutine.
	Inline int64
	// Denied is the number of slot requests the budget refused.
	Denied int64
	// PeakWorkers is the largest number of simultaneously live workers.
	PeakWorkers int
	// MaxDepth is the deepest recursion level reached.
	MaxDepth int64
}

// Sort sorts data in place in non-decreasing order, running sub-problems on
// at most maxWorkers concurrently live worker goroutines in addition to the
// calling goroutine.
//
// Sort returns after every worker it started has finished. Equal elements
// may be reordered. maxWorkers <= 0 is not an error: every sub-problem then
// runs inline. Use ValidateMaxWorkers to reject such values from users.
//
// A panic while sorting is returned as *WorkerPanicError; data is then left
// in an unspecified order.
func Sort[T constraints.Integer](data []T, maxWorkers int, opts ...Option) error {
	_, err := SortWithStats(data, maxWorkers, opts...)
	return err
}

// SortWithStats is like Sort and also reports how the call was scheduled.
func SortWithStats[T constraints.Integer](data []T, maxWorkers int, opts ...Option) (Stats, error) {
	o := applyOptions(opts)

	budget := resource.NewBudget(maxWorkers)
	s := quicksort.New(budget, quicksort.Config[T]{
		Threshold:   o.threshold,
		SpawnCutoff: o.spawnCutoff,
	})

	start := time.Now()
	err := translateError(s.Run(data))
	elapsed := time.Since(start)

	qs := s.Stats()
	stats := Stats{
		Partitions:  qs.Partitions,
		Fallbacks:   qs.Fallbacks,
		Spawned:     qs.Spawned,
		Inline:      qs.Inline,
		Denied:      qs.Denied,
		PeakWorkers: qs.PeakWorkers,
		MaxDepth:    qs.MaxDepth,
	}

	o.metricsCollector.RecordSort(len(data), maxWorkers, stats, elapsed, err)
	o.logger.LogSort(len(data), maxWorkers, stats, elapsed, err)

	return stats, err
}
