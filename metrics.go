package psort

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    sorts    *prometheus.CounterVec
//	    duration prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordSort(n, maxWorkers int, stats psort.Stats, d time.Duration, err error) {
//	    p.duration.Observe(d.Seconds())
//	    // ... record error state, spawned workers, etc.
//	}
type MetricsCollector interface {
	// RecordSort is called after each sort call.
	// n is the number of elements, maxWorkers the configured budget,
	// stats the scheduling counters and err is nil if successful.
	RecordSort(n, maxWorkers int, stats Stats, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSort(int, int, Stats, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SortCount       atomic.Int64
	SortErrors      atomic.Int64
	SortTotalNanos  atomic.Int64
	ElementsSorted  atomic.Int64
	Partitions      atomic.Int64
	WorkersSpawned  atomic.Int64
	InlineRecursion atomic.Int64
	Denied          atomic.Int64
	PeakWorkers     atomic.Int64
}

// RecordSort implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSort(n, _ int, stats Stats, duration time.Duration, err error) {
	b.SortCount.Add(1)
	b.SortTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SortErrors.Add(1)
		return
	}
	b.ElementsSorted.Add(int64(n))
	b.Partitions.Add(stats.Partitions)
	b.WorkersSpawned.Add(stats.Spawned)
	b.InlineRecursion.Add(stats.Inline)
	b.Denied.Add(stats.Denied)

	peak := int64(stats.PeakWorkers)
	for {
		cur := b.PeakWorkers.Load()
		if peak <= cur || b.PeakWorkers.CompareAndSwap(cur, peak) {
			break
		}
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SortCount:       b.SortCount.Load(),
		SortErrors:      b.SortErrors.Load(),
		SortAvgNanos:    b.getAvgSortNanos(),
		ElementsSorted:  b.ElementsSorted.Load(),
		Partitions:      b.Partitions.Load(),
		WorkersSpawned:  b.WorkersSpawned.Load(),
		InlineRecursion: b.InlineRecursion.Load(),
		Denied:          b.Denied.Load(),
		PeakWorkers:     b.PeakWorkers.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSortNanos() int64 {
	count := b.SortCount.Load()
	if count == 0 {
		return 0
	}
	return b.SortTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SortCount       int64
	SortErrors      int64
	SortAvgNanos    int64
	ElementsSorted  int64
	Partitions      int64
	WorkersSpawned  int64
	InlineRecursion int64
	Denied          int64
	PeakWorkers     int64
}
