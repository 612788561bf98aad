package fmu

// Type is the FMI scalar type of a variable.
type Type int

const (
	TypeReal Type = iota
	TypeInteger
	TypeBoolean
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeReal:
		return "Real"
	case TypeInteger:
		return "Integer"
	case TypeBoolean:
		return "Boolean"
	case TypeString:
		return "String"
	default:
		return "Unknown"
	}
}

// Causality follows the FMI 2.0 causality attribute. The zero value is local.
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

// Variability follows the FMI 2.0 variability attribute. The zero value is
// continuous.
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

// StorageMode tells where a variable's value lives.
type StorageMode int

const (
	// DirectPointer values live in memory owned by the caller.
	DirectPointer StorageMode = iota
	// AccessorPair values are read and written through closures.
	AccessorPair
	// Arena values live in storage owned by the registry.
	Arena
)

func (m StorageMode) String() string {
	switch m {
	case DirectPointer:
		return "pointer"
	case AccessorPair:
		return "accessor"
	case Arena:
		return "arena"
	default:
		return "unknown"
	}
}

// Status is the FMI return status of an operation.
type Status int

const (
	StatusOK Status = iota
	StatusWarning
	StatusDiscard
	StatusError
	StatusFatal
	StatusPending
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "Warning"
	case StatusDiscard:
		return "Discard"
	case StatusError:
		return "Error"
	case StatusFatal:
		return "Fatal"
	case StatusPending:
		return "Pending"
	default:
		return "Unknown"
	}
}

// validCombination applies the FMI 2.0 rules on causality, variability and
// type that the registry enforces.
func validCombination(t Type, c Causality, v Variability) bool {
	if v == VariabilityContinuous && t != TypeReal {
		return false
	}
	switch c {
	case CausalityParameter, CausalityCalculatedParameter:
		return v == VariabilityFixed || v == VariabilityTunable
	case CausalityInput:
		return v == VariabilityDiscrete || v == VariabilityContinuous
	case CausalityIndependent:
		return v == VariabilityContinuous && t == TypeReal
	case CausalityOutput, CausalityLocal:
		return true
	}
	return false
}
