package testutil

import (
	"math"
	"math/rand"
	"slices"
	"sync"

	"golang.org/x/exp/constraints"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int32s returns n values drawn uniformly from the full int32 range.
func (r *RNG) Int32s(n int) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int32, n)
	for i := range out {
		out[i] = int32(r.rand.Uint32())
	}
	return out
}

// Int32sRange returns n values drawn uniformly from [minVal, maxVal).
// A narrow range produces many duplicates.
func (r *RNG) Int32sRange(n int, minVal, maxVal int32) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	span := int64(maxVal) - int64(minVal)
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(int64(minVal) + r.rand.Int63n(span))
	}
	return out
}

// Int64s returns n values drawn uniformly from the full int64 range.
func (r *RNG) Int64s(n int) []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, n)
	for i := range out {
		out[i] = int64(r.rand.Uint64())
	}
	return out
}

// Uint16s returns n values drawn uniformly from the uint16 range.
func (r *RNG) Uint16s(n int) []uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(r.rand.Intn(math.MaxUint16 + 1))
	}
	return out
}

// Shuffle permutes s in place.
func (r *RNG) Shuffle(s []int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Zipf returns a Zipfian-distributed value in [0, n).
// Uses Zipf's law: P(k) ∝ 1/k^s where s is the skew parameter.
// s=1.0 gives standard Zipf, s=1.5 gives heavy-tail (80/20 rule).
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked is the internal implementation (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	var hns float64
	for i := 1; i <= n; i++ {
		hns += 1.0 / math.Pow(float64(i), s)
	}

	u := r.rand.Float64() * hns
	var cumulative float64
	for k := 1; k <= n; k++ {
		cumulative += 1.0 / math.Pow(float64(k), s)
		if u <= cumulative {
			return k - 1 // 0-indexed
		}
	}

	return n - 1
}

// ZipfInt32s returns count values in [0, distinct) with a Zipfian skew.
// Useful for duplicate-heavy inputs where a few values dominate.
func (r *RNG) ZipfInt32s(count, distinct int, s float64) []int32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int32, count)
	for i := range out {
		out[i] = int32(r.zipfLocked(distinct, s))
	}
	return out
}

// Ascending returns [start, start+n).
func Ascending(n int, start int32) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = start + int32(i)
	}
	return out
}

// Descending returns n values counting down from start.
func Descending(n int, start int32) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = start - int32(i)
	}
	return out
}

// Constant returns n copies of v.
func Constant(n int, v int32) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// OrganPipe returns n values rising to a peak in the middle and falling back.
// Middle-element pivots see a skewed split on every level of this shape.
func OrganPipe(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		if i < n/2 {
			out[i] = int32(i)
		} else {
			out[i] = int32(n - i)
		}
	}
	return out
}

// SortedCopy returns a sorted copy of s, for use as an expected value.
func SortedCopy[S ~[]E, E constraints.Integer](s S) S {
	out := slices.Clone(s)
	slices.Sort(out)
	return out
}
