package archive

// Causality hints how a value is meant to be exchanged with the outside.
type Causality int

const (
	CausalityLocal Causality = iota
	CausalityParameter
	CausalityCalculatedParameter
	CausalityInput
	CausalityOutput
	CausalityIndependent
)

func (c Causality) String() string {
	switch c {
	case CausalityParameter:
		return "parameter"
	case CausalityCalculatedParameter:
		return "calculatedParameter"
	case CausalityInput:
		return "input"
	case CausalityOutput:
		return "output"
	case CausalityIndependent:
		return "independent"
	default:
		return "local"
	}
}

// Variability hints how often a value may change.
type Variability int

const (
	VariabilityContinuous Variability = iota
	VariabilityConstant
	VariabilityFixed
	VariabilityTunable
	VariabilityDiscrete
)

func (v Variability) String() string {
	switch v {
	case VariabilityConstant:
		return "constant"
	case VariabilityFixed:
		return "fixed"
	case VariabilityTunable:
		return "tunable"
	case VariabilityDiscrete:
		return "discrete"
	default:
		return "continuous"
	}
}

// NameValue is a named pointer to a scalar member plus its exchange hints.
type NameValue[T any] struct {
	Name        string
	Value       *T
	Causality   Causality
	Variability Variability
	Unit        string
	Description string
}

// Option tunes the hints of a NameValue.
type Option func(*hints)

type hints struct {
	causality   Causality
	variability Variability
	unit        string
	description string
}

func WithCausality(c Causality) Option     { return func(h *hints) { h.causality = c } }
func WithVariability(v Variability) Option { return func(h *hints) { h.variability = v } }
func WithUnit(u string) Option             { return func(h *hints) { h.unit = u } }
func WithDescription(d string) Option      { return func(h *hints) { h.description = d } }

// Parameter marks a value as a fixed parameter.
func Parameter() Option {
	return func(h *hints) {
		h.causality = CausalityParameter
		h.variability = VariabilityFixed
	}
}

// Output marks a value as a continuous output.
func Output() Option {
	return func(h *hints) {
		h.causality = CausalityOutput
		h.variability = VariabilityContinuous
	}
}

func makeNameValue[T any](name string, v *T, opts []Option) NameValue[T] {
	h := hints{causality: CausalityLocal, variability: VariabilityContinuous}
	for _, opt := range opts {
		opt(&h)
	}
	return NameValue[T]{
		Name:        name,
		Value:       v,
		Causality:   h.causality,
		Variability: h.variability,
		Unit:        h.unit,
		Description: h.description,
	}
}

// EnumMapper exposes an enumerated member as an integer with symbolic names.
type EnumMapper interface {
	Value() int
	SetValue(int)
	Names() map[int]string
}

// Value is a named nested object as seen by a Sink. The sink decides whether
// to descend into it by calling CallArchiveOut.
type Value struct {
	Name string
	obj  Serializable
	a    *Archive
}

// Object returns the wrapped object.
func (v Value) Object() Serializable { return v.obj }

// CallArchiveOut lets the object describe its members to the archive.
func (v Value) CallArchiveOut() {
	v.obj.ArchiveOut(v.a)
}

// CallArchiveOutConstructor lets the object describe the values needed to
// rebuild it, if it has any.
func (v Value) CallArchiveOutConstructor() {
	if c, ok := v.obj.(Constructor); ok {
		c.ArchiveOutConstructor(v.a)
	}
}
