package psort

import (
	"errors"
	"fmt"

	"github.com/hupe1980/psort/internal/quicksort"
)

var (
	// ErrInvalidMaxWorkers is returned by ValidateMaxWorkers for a
	// non-positive worker budget.
	ErrInvalidMaxWorkers = errors.New("max workers must be positive")

	// ErrWorkerFailed is the cause of every *WorkerPanicError.
	ErrWorkerFailed = errors.New("sort worker failed")
)

// WorkerPanicError reports that sorting a segment panicked, either on a
// spawned worker or on the calling goroutine. The slice passed to Sort is
// left in an unspecified order.
//
// errors.Is(err, ErrWorkerFailed) reports true. If the panic value was an
// error it is matched by errors.Is / errors.As as well.
type WorkerPanicError struct {
	Value any
	Stack []byte
	cause error
}

func (e *WorkerPanicError) Error() string {
	return fmt.Sprintf("%v: panic: %v", ErrWorkerFailed, e.Value)
}

func (e *WorkerPanicError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrWorkerFailed, e.cause}
	}
	return []error{ErrWorkerFailed}
}

// ValidateMaxWorkers reports whether n is a usable worker budget.
//
// Sort itself accepts any value and runs fully inline when n <= 0; callers
// that take the value from users should reject it up front.
func ValidateMaxWorkers(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxWorkers, n)
	}
	return nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pe *quicksort.PanicError
	if errors.As(err, &pe) {
		return &WorkerPanicError{Value: pe.Value, Stack: pe.Stack, cause: pe.Unwrap()}
	}

	return err
}
