// Package quicksort implements the bounded-parallel quicksort behind psort.Sort.
//
// A segment longer than the threshold is split with a Hoare partition around
// its middle element. Each half is then offered to a resource.Budget: a
// granted slot runs the half on a new worker goroutine, a denied slot runs it
// inline on the current goroutine. Segments at or below the threshold are
// sorted sequentially.
//
// # Ownership
//
// Every task owns a sub-slice of the caller's slice. Sub-slices are only
// produced by Partition and never overlap, so workers write to the shared
// backing array without further synchronization.
//
// # Join barrier
//
// A scheduling level returns only after every worker it spawned has finished.
// Slots are released after the join, so a slot is held for the full lifetime
// of its worker:
//
//	left  -> TryReserve ? spawn : inline
//	right -> TryReserve ? spawn : inline
//	Wait(); Release() per spawned worker
package quicksort
