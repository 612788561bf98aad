package cosim

import (
	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/fmu"
)

func causalityOf(c archive.Causality) fmu.Causality {
	switch c {
	case archive.CausalityParameter:
		return fmu.CausalityParameter
	case archive.CausalityCalculatedParameter:
		return fmu.CausalityCalculatedParameter
	case archive.CausalityInput:
		return fmu.CausalityInput
	case archive.CausalityOutput:
		return fmu.CausalityOutput
	case archive.CausalityIndependent:
		return fmu.CausalityIndependent
	default:
		return fmu.CausalityLocal
	}
}

func variabilityOf(v archive.Variability) fmu.Variability {
	switch v {
	case archive.VariabilityConstant:
		return fmu.VariabilityConstant
	case archive.VariabilityFixed:
		return fmu.VariabilityFixed
	case archive.VariabilityTunable:
		return fmu.VariabilityTunable
	case archive.VariabilityDiscrete:
		return fmu.VariabilityDiscrete
	default:
		return fmu.VariabilityContinuous
	}
}

// metaOf translates archive hints into FMU attributes. Only Real variables
// may be continuous, so other types fall back to discrete.
func metaOf[T any](nv archive.NameValue[T], t fmu.Type) fmu.Meta {
	m := fmu.Meta{
		Unit:        nv.Unit,
		Description: nv.Description,
		Causality:   causalityOf(nv.Causality),
		Variability: variabilityOf(nv.Variability),
	}
	if t != fmu.TypeReal && m.Variability == fmu.VariabilityContinuous {
		m.Variability = fmu.VariabilityDiscrete
	}
	return m
}
