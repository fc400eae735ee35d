package asymerr

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig reports a solver setting outside its allowed range.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidArgument reports a bad argument to a query.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotBracketed is returned when the target value is not strictly
	// between the function values at the interval endpoints.
	ErrNotBracketed = errors.New("root is not bracketed by the interval")

	// ErrNoConvergence is returned when an iteration cap is exhausted.
	ErrNoConvergence = errors.New("iterations failed to converge")

	// ErrInconsistent reports a broken numerical precondition, such as a
	// curve returning a non-positive sigma.
	ErrInconsistent = errors.New("numerically inconsistent input")

	// ErrOutOfDomain is returned by curves evaluated outside their support.
	ErrOutOfDomain = errors.New("argument outside of curve domain")
)

// ConvergenceError carries the solver settings that were in effect when
// an iteration cap ran out, so the caller can retune and retry.
type ConvergenceError struct {
	Op            string
	Damping       float64
	Eps           float64
	MaxIterations int
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%s: %v (damping = %g, eps = %g, max iterations = %d)",
		e.Op, ErrNoConvergence, e.Damping, e.Eps, e.MaxIterations)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNoConvergence
}
