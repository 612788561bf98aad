package fmu

import (
	"encoding/xml"
	"io"
	"sort"
	"time"
)

// GenerationTool is written into every model description.
const GenerationTool = "dynfmu"

// ModelDescription is the FMI 2.0 modelDescription.xml document.
type ModelDescription struct {
	XMLName                  xml.Name          `xml:"fmiModelDescription"`
	FmiVersion               string            `xml:"fmiVersion,attr"`
	ModelName                string            `xml:"modelName,attr"`
	GUID                     string            `xml:"guid,attr"`
	GenerationTool           string            `xml:"generationTool,attr"`
	GenerationDateAndTime    string            `xml:"generationDateAndTime,attr,omitempty"`
	VariableNamingConvention string            `xml:"variableNamingConvention,attr"`
	NumberOfEventIndicators  int               `xml:"numberOfEventIndicators,attr"`
	CoSimulation             CoSimulation      `xml:"CoSimulation"`
	UnitDefinitions          *UnitDefinitions  `xml:"UnitDefinitions,omitempty"`
	LogCategories            LogCategories     `xml:"LogCategories"`
	DefaultExperiment        DefaultExperiment `xml:"DefaultExperiment"`
	ModelVariables           ModelVariables    `xml:"ModelVariables"`
	ModelStructure           ModelStructure    `xml:"ModelStructure"`
}

type CoSimulation struct {
	ModelIdentifier                        string `xml:"modelIdentifier,attr"`
	CanHandleVariableCommunicationStepSize bool   `xml:"canHandleVariableCommunicationStepSize,attr"`
	CanNotUseMemoryManagementFunctions     bool   `xml:"canNotUseMemoryManagementFunctions,attr"`
	CanGetAndSetFMUstate                   bool   `xml:"canGetAndSetFMUstate,attr"`
	CanSerializeFMUstate                   bool   `xml:"canSerializeFMUstate,attr"`
}

type UnitDefinitions struct {
	Units []Unit `xml:"Unit"`
}

type Unit struct {
	Name string `xml:"name,attr"`
}

type LogCategories struct {
	Categories []Category `xml:"Category"`
}

type Category struct {
	Name string `xml:"name,attr"`
}

type DefaultExperiment struct {
	StartTime float64  `xml:"startTime,attr"`
	StopTime  *float64 `xml:"stopTime,attr,omitempty"`
	StepSize  float64  `xml:"stepSize,attr"`
}

type ModelVariables struct {
	Variables []ScalarVariable `xml:"ScalarVariable"`
}

// ScalarVariable holds exactly one of the typed child elements.
type ScalarVariable struct {
	Name           string      `xml:"name,attr"`
	ValueReference uint32      `xml:"valueReference,attr"`
	Description    string      `xml:"description,attr,omitempty"`
	Causality      string      `xml:"causality,attr"`
	Variability    string      `xml:"variability,attr"`
	Real           *TypedValue `xml:"Real,omitempty"`
	Integer        *TypedValue `xml:"Integer,omitempty"`
	Boolean        *TypedValue `xml:"Boolean,omitempty"`
	String         *TypedValue `xml:"String,omitempty"`
}

type TypedValue struct {
	Unit  string  `xml:"unit,attr,omitempty"`
	Start *string `xml:"start,attr,omitempty"`
}

type ModelStructure struct {
	Outputs *Unknowns `xml:"Outputs,omitempty"`
}

type Unknowns struct {
	Unknowns []Unknown `xml:"Unknown"`
}

type Unknown struct {
	Index int `xml:"index,attr"`
}

// needsStart reports whether FMI requires a start value for the combination.
func needsStart(v *Variable) bool {
	switch {
	case v.Variability() == VariabilityConstant:
		return true
	case v.Causality() == CausalityParameter, v.Causality() == CausalityInput:
		return true
	}
	return false
}

// ModelDescription builds the model description for the current variable
// table. Start values are read from the live bindings.
func (c *Component) ModelDescription(generatedAt time.Time) *ModelDescription {
	md := &ModelDescription{
		FmiVersion:               "2.0",
		ModelName:                c.modelName,
		GUID:                     c.GUID(),
		GenerationTool:           GenerationTool,
		VariableNamingConvention: "structured",
		CoSimulation: CoSimulation{
			ModelIdentifier:                        c.modelName,
			CanHandleVariableCommunicationStepSize: true,
			CanNotUseMemoryManagementFunctions:     true,
		},
		DefaultExperiment: DefaultExperiment{
			StartTime: c.startTime,
			StepSize:  c.stepSize,
		},
	}
	if !generatedAt.IsZero() {
		md.GenerationDateAndTime = generatedAt.UTC().Format(time.RFC3339)
	}
	if c.stopTimeDefined {
		stop := c.stopTime
		md.DefaultExperiment.StopTime = &stop
	}
	for _, cat := range Categories {
		md.LogCategories.Categories = append(md.LogCategories.Categories, Category{Name: cat})
	}

	units := make(map[string]bool)
	var outputs []Unknown
	for i, v := range c.registry.vars {
		sv := ScalarVariable{
			Name:           v.name,
			ValueReference: v.valueReference,
			Description:    v.meta.Description,
			Causality:      v.meta.Causality.String(),
			Variability:    v.meta.Variability.String(),
		}
		tv := &TypedValue{}
		if needsStart(v) {
			start := v.FormatValue()
			tv.Start = &start
		}
		switch v.Type() {
		case TypeReal:
			tv.Unit = v.meta.Unit
			if tv.Unit != "" {
				units[tv.Unit] = true
			}
			sv.Real = tv
		case TypeInteger:
			sv.Integer = tv
		case TypeBoolean:
			sv.Boolean = tv
		case TypeString:
			sv.String = tv
		}
		md.ModelVariables.Variables = append(md.ModelVariables.Variables, sv)

		if v.meta.Causality == CausalityOutput {
			// Indices in ModelStructure are 1-based positions in ModelVariables.
			outputs = append(outputs, Unknown{Index: i + 1})
		}
	}
	if len(outputs) > 0 {
		md.ModelStructure.Outputs = &Unknowns{Unknowns: outputs}
	}
	if len(units) > 0 {
		names := make([]string, 0, len(units))
		for u := range units {
			names = append(names, u)
		}
		sort.Strings(names)
		md.UnitDefinitions = &UnitDefinitions{}
		for _, u := range names {
			md.UnitDefinitions.Units = append(md.UnitDefinitions.Units, Unit{Name: u})
		}
	}
	return md
}

// Encode writes md as an indented XML document.
func (md *ModelDescription) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(md); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// DecodeModelDescription parses a modelDescription.xml document.
func DecodeModelDescription(r io.Reader) (*ModelDescription, error) {
	var md ModelDescription
	if err := xml.NewDecoder(r).Decode(&md); err != nil {
		return nil, err
	}
	return &md, nil
}
