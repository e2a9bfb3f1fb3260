package quicksort

import "golang.org/x/exp/constraints"

// Partition reorders s around the value found at index len(s)/2 and returns
// the boundary pair (j, i).
//
// After the call:
//   - every element of s[:j+1] is <= pivot
//   - every element of s[i:] is >= pivot
//   - 0 <= j+1 <= i <= len(s) and i-(j+1) is 0 or 1
//
// When i == j+2 the element at j+1 equals the pivot and is already in its
// sorted position, so it belongs to neither half.
func Partition[T constraints.Integer](s []T) (j, i int) {
	n := len(s)
	if n == 0 {
		return -1, 0
	}

	pivot := s[n/2]
	i, j = 0, n-1

	for i <= j {
		for i < n && s[i] < pivot {
			i++
		}
		for j >= 0 && s[j] > pivot {
			j--
		}
		if i <= j {
			s[i], s[j] = s[j], s[i]
			i++
			j--
		}
	}

	return j, i
}
