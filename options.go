package psort

import (
	"log/slog"

	"github.com/hupe1980/psort/internal/quicksort"
)

// DefaultThreshold is the segment length at or below which segments are
// sorted sequentially.
const DefaultThreshold = quicksort.DefaultThreshold

type options struct {
	threshold        int
	spawnCutoff      int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Sort call.
type Option func(*options)

// WithThreshold sets the segment length at or below which a segment is
// sorted sequentially instead of being partitioned.
//
// Smaller thresholds create more (and smaller) tasks; larger thresholds
// reduce scheduling overhead. Values < 1 select DefaultThreshold.
func WithThreshold(n int) Option {
	return func(o *options) {
		o.threshold = n
	}
}

// WithSpawnCutoff makes halves of length <= n run inline without asking the
// worker budget for a slot.
//
// The default of 0 offers every non-empty half to the budget. Setting it to
// the threshold only hands segments that will be partitioned again to new
// workers:
//
//	psort.Sort(data, 8, psort.WithSpawnCutoff(psort.DefaultThreshold))
func WithSpawnCutoff(n int) Option {
	return func(o *options) {
		o.spawnCutoff = n
	}
}

// WithMetricsCollector configures a metrics collector for sort calls.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &psort.BasicMetricsCollector{}
//	_ = psort.Sort(data, 4, psort.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Sorts: %d, Avg latency: %dns\n", stats.SortCount, stats.SortAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for sort calls.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := psort.NewJSONLogger(slog.LevelDebug)
//	_ = psort.Sort(data, 4, psort.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		threshold:        DefaultThreshold,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
