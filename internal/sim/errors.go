package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a state vector holding NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a state whose length does not match the system.
	ErrDimensionMismatch = errors.New("sim: dimension mismatch between state and system")
)

// StepError wraps an error with the time at which a step failed.
type StepError struct {
	Time    float64
	Dt      float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step at t=%.4f (dt=%g): %v", e.Time, e.Dt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
