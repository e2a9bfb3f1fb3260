package quicksort

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// DefaultThreshold is the segment length at or below which a segment is
// sorted sequentially instead of being partitioned.
const DefaultThreshold = 1000

// SortSequential sorts s in place in non-decreasing order.
// It never spawns workers and is not stable.
func SortSequential[T constraints.Integer](s []T) {
	if len(s) < 2 {
		return
	}
	slices.Sort(s)
}
