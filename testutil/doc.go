// Package testutil provides testing utilities for psort.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for integer inputs of different shapes
// (uniform, duplicate-heavy, presorted, skewed) and a reference sort.
//
// # Random Input Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.Int32s(1 << 20)              // uniform
//	dups := rng.Int32sRange(1<<20, 0, 16)    // heavy duplicates
//	skew := rng.ZipfInt32s(10_000, 100, 1.5) // power law
//
// # Expected Output
//
//	want := testutil.SortedCopy(data)
package testutil
