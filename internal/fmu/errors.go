package fmu

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateVariable indicates a name that is already registered.
	ErrDuplicateVariable = errors.New("fmu: duplicate variable name")

	// ErrUnknownVariable indicates a name or value reference with no variable.
	ErrUnknownVariable = errors.New("fmu: unknown variable")

	// ErrTypeMismatch indicates typed access with the wrong FMI type.
	ErrTypeMismatch = errors.New("fmu: variable type mismatch")

	// ErrInvalidAttributes indicates a causality/variability/type combination
	// that FMI 2.0 does not allow.
	ErrInvalidAttributes = errors.New("fmu: invalid causality/variability combination")

	// ErrNotWritable indicates a set on a variable whose causality forbids it.
	ErrNotWritable = errors.New("fmu: variable not writable")

	// ErrInvalidStepSize indicates a non-positive communication step.
	ErrInvalidStepSize = errors.New("fmu: invalid step size")

	// ErrInvalidState indicates a call not permitted in the current state.
	ErrInvalidState = errors.New("fmu: operation not allowed in current state")

	// ErrEmptyName indicates a registration without a name.
	ErrEmptyName = errors.New("fmu: empty variable name")
)

// VariableError wraps an error with the variable and operation it concerns.
type VariableError struct {
	Name    string
	Op      string
	Wrapped error
}

func (e *VariableError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Wrapped)
}

func (e *VariableError) Unwrap() error {
	return e.Wrapped
}
