// Package resource implements the limits that govern a psort run.
//
//   - Budget: caps live worker goroutines for one sort call (non-blocking)
//   - Controller: memory limit for element buffers and IO rate limiting
//
// # Worker Budget
//
// A Budget is created per sort call and shared by pointer with every task of
// that call. Reservation never blocks; a denied caller runs the work inline:
//
//	b := resource.NewBudget(4)
//
//	if b.TryReserve() {
//	    go func() {
//	        defer wg.Done()
//	        work()
//	    }()
//	    wg.Wait()
//	    b.Release()
//	} else {
//	    work()
//	}
//
// Release panics if it is called more often than TryReserve succeeded.
//
// # Memory Management
//
// AcquireMemory is non-blocking and returns ErrMemoryLimitExceeded if the
// limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(4 << 20); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(4 << 20)
//
// # IO Rate Limiting
//
// Token bucket rate limiter for input and output streams:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 100 * 1024 * 1024, // 100MB/s
//	})
//
//	writer := resource.NewRateLimitedWriter(ctx, file, rc)
//	reader := resource.NewRateLimitedReader(ctx, file, rc)
//
// # Nil Safety
//
// Controller methods treat a nil receiver as "no limits". A nil Budget denies
// every reservation.
package resource
