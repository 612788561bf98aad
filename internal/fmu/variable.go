package fmu

import (
	"fmt"
	"strconv"
)

// Meta carries the descriptive attributes of a variable. The zero value
// describes a local, continuous variable with no unit.
type Meta struct {
	Unit        string
	Description string
	Causality   Causality
	Variability Variability
}

// Variable is a registered FMU variable. Only the value behind its binding
// changes after registration.
type Variable struct {
	name           string
	valueReference uint32
	meta           Meta
	binding        Binding
}

func (v *Variable) Name() string             { return v.name }
func (v *Variable) ValueReference() uint32   { return v.valueReference }
func (v *Variable) Type() Type               { return v.binding.Type() }
func (v *Variable) Storage() StorageMode     { return v.binding.Mode() }
func (v *Variable) Causality() Causality     { return v.meta.Causality }
func (v *Variable) Variability() Variability { return v.meta.Variability }
func (v *Variable) Unit() string             { return v.meta.Unit }
func (v *Variable) Description() string      { return v.meta.Description }
func (v *Variable) Meta() Meta               { return v.meta }
func (v *Variable) Binding() Binding         { return v.binding }

// Get reads the current value of v as T.
func Get[T Scalar](v *Variable) (T, error) {
	acc, ok := v.binding.(Accessor[T])
	if !ok {
		var zero T
		return zero, &VariableError{Name: v.name, Op: "get " + typeOf[T]().String(), Wrapped: ErrTypeMismatch}
	}
	return acc.Get(), nil
}

// Set writes x into v. Causality checks are the caller's concern.
func Set[T Scalar](v *Variable, x T) error {
	acc, ok := v.binding.(Accessor[T])
	if !ok {
		return &VariableError{Name: v.name, Op: "set " + typeOf[T]().String(), Wrapped: ErrTypeMismatch}
	}
	acc.Set(x)
	return nil
}

// Value returns the current value boxed as any.
func (v *Variable) Value() any {
	switch b := v.binding.(type) {
	case Accessor[float64]:
		return b.Get()
	case Accessor[int32]:
		return b.Get()
	case Accessor[bool]:
		return b.Get()
	case Accessor[string]:
		return b.Get()
	}
	return nil
}

// FormatValue renders the current value the way the model description
// writes start values.
func (v *Variable) FormatValue() string {
	switch x := v.Value().(type) {
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	}
	return ""
}

func (v *Variable) String() string {
	return fmt.Sprintf("%s (%s, %s, %s)", v.name, v.Type(), v.meta.Causality, v.meta.Variability)
}
