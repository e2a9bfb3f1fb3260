package quicksort

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/psort/testutil"
)

// checkPartition verifies the boundary contract of Partition for one call.
func checkPartition(t *testing.T, in []int32) {
	t.Helper()

	s := slices.Clone(in)
	pivot := s[len(s)/2]
	j, i := Partition(s)

	n := len(s)
	require.GreaterOrEqual(t, j+1, 0)
	require.LessOrEqual(t, j+1, i)
	require.LessOrEqual(t, i, n)
	require.Contains(t, []int{0, 1}, i-(j+1), "gap between halves")

	for k := 0; k <= j; k++ {
		require.LessOrEqual(t, s[k], pivot, "left[%d]", k)
	}
	for k := i; k < n; k++ {
		require.GreaterOrEqual(t, s[k], pivot, "right[%d]", k)
	}
	if i == j+2 {
		assert.Equal(t, pivot, s[j+1], "gap element must equal the pivot")
	}

	// Both halves are strictly shorter than the input.
	assert.Less(t, j+1, n)
	assert.Less(t, n-i, n)

	// Same multiset.
	assert.Equal(t, testutil.SortedCopy(in), testutil.SortedCopy(s))
}

func TestPartition(t *testing.T) {
	rng := testutil.NewRNG(4711)

	tests := []struct {
		name string
		in   []int32
	}{
		{"scenario", []int32{5, 3, 3, 1, 4, 1, 5, 9, 2, 6}},
		{"single", []int32{42}},
		{"pair", []int32{2, 1}},
		{"uniform", rng.Int32s(5000)},
		{"few_unique", rng.Int32sRange(5000, 0, 3)},
		{"zipf", rng.ZipfInt32s(3000, 20, 1.5)},
		{"ascending", testutil.Ascending(4001, -2000)},
		{"descending", testutil.Descending(4001, 2000)},
		{"organ_pipe", testutil.OrganPipe(4000)},
		{"constant_even", testutil.Constant(2000, 7)},
		{"constant_odd", testutil.Constant(2001, 7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkPartition(t, tt.in)
		})
	}
}

func TestPartition_AllEqualSplitsInHalf(t *testing.T) {
	s := testutil.Constant(2000, -3)

	j, i := Partition(s)

	assert.Equal(t, 999, j)
	assert.Equal(t, 1000, i)
	assert.Equal(t, testutil.Constant(2000, -3), s)
}

func TestPartition_OddAllEqualLeavesPivotGap(t *testing.T) {
	s := testutil.Constant(5, 1)

	j, i := Partition(s)

	assert.Equal(t, 1, j)
	assert.Equal(t, 3, i)
}

func TestPartition_Empty(t *testing.T) {
	j, i := Partition([]int32{})

	assert.Equal(t, -1, j)
	assert.Equal(t, 0, i)
}

func TestPartition_PivotIsMiddleElement(t *testing.T) {
	// Pivot 5 sits at n/2 = 2; everything < 5 goes left.
	s := []int32{9, 1, 5, 7, 3}

	j, i := Partition(s)

	for _, v := range s[:j+1] {
		assert.LessOrEqual(t, v, int32(5))
	}
	for _, v := range s[i:] {
		assert.GreaterOrEqual(t, v, int32(5))
	}
}

func TestSortSequential(t *testing.T) {
	rng := testutil.NewRNG(1)

	in := rng.Int32sRange(DefaultThreshold, -50, 50)
	s := slices.Clone(in)
	SortSequential(s)

	assert.Equal(t, testutil.SortedCopy(in), s)

	SortSequential([]int32{})
	one := []uint8{3}
	SortSequential(one)
	assert.Equal(t, []uint8{3}, one)
}
