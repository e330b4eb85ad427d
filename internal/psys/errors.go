package psys

import (
	"errors"
	"fmt"
)

// Domain errors for engine construction and stepping.
var (
	// ErrBadTargets indicates a force or constraint was given a target set
	// of the wrong arity or with out-of-range indices.
	ErrBadTargets = errors.New("psys: invalid target set")

	// ErrBadParam indicates a force or constraint parameter outside its
	// valid range (inverted bounds, non-positive radius, ...).
	ErrBadParam = errors.New("psys: parameter out of valid bounds")

	// ErrUnknownScheme indicates an unrecognized integrator name.
	ErrUnknownScheme = errors.New("psys: unknown integrator scheme")

	// ErrInvalidState indicates a buffer containing NaN or Inf.
	ErrInvalidState = errors.New("psys: invalid state (NaN or Inf detected)")

	// ErrUnknownScene indicates an unrecognized scene name.
	ErrUnknownScene = errors.New("psys: unknown scene")
)

// StepError wraps an error with the step and simulated time it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}

// CheckTargets validates that every index in targets addresses a particle
// in a buffer of n records.
func CheckTargets(targets []int, n int) error {
	for _, i := range targets {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: index %d outside [0,%d)", ErrBadTargets, i, n)
		}
	}
	return nil
}
