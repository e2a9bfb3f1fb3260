package psort

import (
	"bytes"
	"errors"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/psort/internal/quicksort"
	"github.com/hupe1980/psort/testutil"
)

func TestSort(t *testing.T) {
	t.Run("Scenario", func(t *testing.T) {
		data := []int32{5, 3, 3, 1, 4, 1, 5, 9, 2, 6}

		require.NoError(t, Sort(data, 1))
		assert.Equal(t, []int32{1, 1, 2, 3, 3, 4, 5, 5, 6, 9}, data)
	})

	t.Run("Empty", func(t *testing.T) {
		for _, workers := range []int{-1, 0, 1, 8} {
			var data []int32
			stats, err := SortWithStats(data, workers)
			require.NoError(t, err)
			assert.Equal(t, int64(0), stats.Spawned)
			assert.Equal(t, 0, stats.PeakWorkers)
		}
	})

	t.Run("SequentialAndParallelAgree", func(t *testing.T) {
		in := testutil.NewRNG(4711).Int32sRange(200_000, -1000, 1000)

		seq := slices.Clone(in)
		require.NoError(t, Sort(seq, 1))

		par := slices.Clone(in)
		stats, err := SortWithStats(par, 1<<10)
		require.NoError(t, err)

		assert.Equal(t, testutil.SortedCopy(in), seq)
		assert.Equal(t, seq, par)
		assert.LessOrEqual(t, stats.PeakWorkers, 1<<10)
		assert.Greater(t, stats.Spawned, int64(0))
	})

	t.Run("Idempotent", func(t *testing.T) {
		data := testutil.Ascending(10_000, -5000)
		want := slices.Clone(data)

		require.NoError(t, Sort(data, 4))
		assert.Equal(t, want, data)

		require.NoError(t, Sort(data, 4))
		assert.Equal(t, want, data)
	})

	t.Run("AllEqual", func(t *testing.T) {
		data := testutil.Constant(2*DefaultThreshold, 1)

		stats, err := SortWithStats(data, 4)
		require.NoError(t, err)
		assert.Equal(t, testutil.Constant(2*DefaultThreshold, 1), data)
		assert.GreaterOrEqual(t, stats.Partitions, int64(1))
	})

	t.Run("NonPositiveBudgetIsSequential", func(t *testing.T) {
		data := testutil.NewRNG(1).Int32s(50_000)

		stats, err := SortWithStats(data, 0)
		require.NoError(t, err)
		assert.True(t, slices.IsSorted(data))
		assert.Equal(t, int64(0), stats.Spawned)
		assert.Equal(t, 0, stats.PeakWorkers)
	})

	t.Run("Int64", func(t *testing.T) {
		data := testutil.NewRNG(2).Int64s(30_000)
		want := testutil.SortedCopy(data)

		require.NoError(t, Sort(data, 3))
		assert.Equal(t, want, data)
	})

	t.Run("NamedSliceType", func(t *testing.T) {
		type Temperature int16
		data := []Temperature{30, -5, 12, -5, 0}

		require.NoError(t, Sort(data, 2))
		assert.Equal(t, []Temperature{-5, -5, 0, 12, 30}, data)
	})
}

func TestSort_Options(t *testing.T) {
	t.Run("Threshold", func(t *testing.T) {
		data := testutil.NewRNG(3).Int32s(1000)

		stats, err := SortWithStats(data, 2, WithThreshold(100))
		require.NoError(t, err)
		assert.True(t, slices.IsSorted(data))
		assert.Greater(t, stats.Partitions, int64(0))
	})

	t.Run("ThresholdBoundary", func(t *testing.T) {
		rng := testutil.NewRNG(4)

		stats, err := SortWithStats(rng.Int32s(DefaultThreshold), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stats.Partitions)
		assert.Equal(t, int64(1), stats.Fallbacks)

		stats, err = SortWithStats(rng.Int32s(DefaultThreshold+1), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Partitions)
	})

	t.Run("SpawnCutoff", func(t *testing.T) {
		data := testutil.NewRNG(5).Int32s(20_000)

		// A cutoff above the input length means no half ever asks for a slot.
		stats, err := SortWithStats(data, 8, WithSpawnCutoff(len(data)))
		require.NoError(t, err)
		assert.True(t, slices.IsSorted(data))
		assert.Equal(t, int64(0), stats.Spawned)
		assert.Equal(t, int64(0), stats.Denied)
	})

	t.Run("Logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		require.NoError(t, Sort([]int32{3, 1, 2}, 1, WithLogger(logger)))
		assert.Contains(t, buf.String(), "sort completed")
		assert.Contains(t, buf.String(), "count=3")
	})

	t.Run("NilOptions", func(t *testing.T) {
		data := []int32{2, 1}
		require.NoError(t, Sort(data, 1, nil, WithLogger(nil), WithMetricsCollector(nil)))
		assert.Equal(t, []int32{1, 2}, data)
	})
}

func TestBasicMetricsCollector(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	rng := testutil.NewRNG(6)

	for range 3 {
		require.NoError(t, Sort(rng.Int32s(10_000), 4, WithMetricsCollector(metrics)))
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(3), stats.SortCount)
	assert.Equal(t, int64(0), stats.SortErrors)
	assert.Equal(t, int64(30_000), stats.ElementsSorted)
	assert.Greater(t, stats.Partitions, int64(0))
	assert.LessOrEqual(t, stats.PeakWorkers, int64(4))

	metrics.RecordSort(1, 1, Stats{}, 0, errors.New("x"))
	assert.Equal(t, int64(1), metrics.GetStats().SortErrors)
}

func TestValidateMaxWorkers(t *testing.T) {
	assert.NoError(t, ValidateMaxWorkers(1))
	assert.NoError(t, ValidateMaxWorkers(128))

	for _, n := range []int{0, -1} {
		err := ValidateMaxWorkers(n)
		assert.ErrorIs(t, err, ErrInvalidMaxWorkers)
	}
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))

	plain := errors.New("plain")
	assert.Same(t, plain, translateError(plain))

	cause := errors.New("out of memory")
	err := translateError(&quicksort.PanicError{Value: cause, Stack: []byte("stack")})

	var wpe *WorkerPanicError
	require.ErrorAs(t, err, &wpe)
	assert.ErrorIs(t, err, ErrWorkerFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, []byte("stack"), wpe.Stack)
	assert.Contains(t, err.Error(), "out of memory")

	err = translateError(&quicksort.PanicError{Value: 42})
	assert.ErrorIs(t, err, ErrWorkerFailed)
	assert.Contains(t, err.Error(), "42")
}
