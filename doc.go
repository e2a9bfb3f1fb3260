// Package psort provides an in-place parallel quicksort for integer slices
// with a hard cap on concurrently live worker goroutines.
//
// # Quick Start
//
//	data := []int32{5, 3, 3, 1, 4, 1, 5, 9, 2, 6}
//	if err := psort.Sort(data, 4); err != nil {
//	    log.Fatal(err)
//	}
//	// data == [1 1 2 3 3 4 5 5 6 9]
//
// # Scheduling
//
// Segments of at most DefaultThreshold elements are sorted sequentially.
// Longer segments are split with a Hoare partition around their middle
// element, and each half (left first) asks the per-call worker budget for a
// slot:
//
//	granted -> the half runs on a new worker goroutine
//	denied  -> the half runs inline on the current goroutine
//
// A level returns only after the workers it spawned have finished; their
// slots are released after the join. With maxWorkers = 1 at most one extra
// goroutine runs at any time; with maxWorkers <= 0 the sort is fully
// sequential.
//
// # Tuning
//
//	psort.Sort(data, runtime.GOMAXPROCS(0),
//	    psort.WithThreshold(4096),                   // larger leaves
//	    psort.WithSpawnCutoff(psort.DefaultThreshold), // only spawn for big halves
//	)
//
// # Observability
//
//	metrics := &psort.BasicMetricsCollector{}
//	stats, _ := psort.SortWithStats(data, 8,
//	    psort.WithMetricsCollector(metrics),
//	    psort.WithLogger(psort.NewJSONLogger(slog.LevelDebug)),
//	)
//	fmt.Println(stats.Spawned, stats.PeakWorkers)
//
// # Guarantees
//
//   - The result is a non-decreasing permutation of the input. The sort is
//     not stable.
//   - At no point are more than maxWorkers workers live.
//   - No worker outlives the call. There is no cancellation.
//   - A panic anywhere in the call tree is returned as *WorkerPanicError
//     after all workers have been joined.
package psort
