package cosim

import (
	"fmt"

	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/geometry"
	"github.com/san-kum/dynfmu/internal/visual"
)

// VisualizerPrefix starts the name of every variable the projector creates.
const VisualizerPrefix = "VISUALIZER["

// Item is a physics item that carries visual shapes.
type Item interface {
	Name() string
	Identifier() int
	VisualModel() *visual.Model
	// VisualModelFrame maps shape frames into world coordinates.
	VisualModelFrame() geometry.Frame
}

// Host is the component the projector registers into. Epoch must advance
// once at the start of every step.
type Host interface {
	Registry() *fmu.Registry
	Epoch() uint64
	Log(msg string, status fmu.Status, category string)
}

// shapeBinding caches the world frame of one shape instance for one epoch.
type shapeBinding struct {
	item  Item
	local geometry.Frame
	world geometry.Frame
	epoch uint64
	valid bool
}

func (b *shapeBinding) frame(epoch uint64) geometry.Frame {
	if !b.valid || b.epoch != epoch {
		b.world = b.item.VisualModelFrame().Mul(b.local)
		b.epoch = epoch
		b.valid = true
	}
	return b.world
}

// ShapeProjector exposes the visual shapes of physics items as read-only
// VISUALIZER[k] variables. World frames are computed lazily, at most once
// per epoch and shape.
type ShapeProjector struct {
	host       Host
	serializer *Serializer
	bindings   []*shapeBinding
}

func NewShapeProjector(host Host, s *Serializer) *ShapeProjector {
	if s == nil {
		s = NewSerializer(host.Registry(), nil)
	}
	return &ShapeProjector{host: host, serializer: s}
}

// Count is the number of shapes bound since the last Clear.
func (p *ShapeProjector) Count() int { return len(p.bindings) }

// AddVisualShapes binds every shape of item. The owner name is customName
// when set, otherwise the item name; it is omitted when both are empty.
func (p *ShapeProjector) AddVisualShapes(item Item, customName string) {
	r := p.host.Registry()
	for _, inst := range item.VisualModel().ShapeInstances() {
		k := len(p.bindings)
		base := fmt.Sprintf("VISUALIZER[%d]", k)

		b := &shapeBinding{item: item, local: inst.Frame}
		b.frame(p.host.Epoch())
		p.bindings = append(p.bindings, b)
		p.addPose(r, b, base+".frame")

		shapeName := base + ".shape"
		st := visual.Classify(inst.Shape)
		if st == visual.TypeUnknown {
			p.host.Log("unsupported shape type in physics item: "+item.Name(), fmu.StatusWarning, fmu.LogStatusWarning)
		}
		constOut := func(desc string) fmu.Meta {
			return fmu.Meta{Description: desc, Causality: fmu.CausalityOutput, Variability: fmu.VariabilityConstant}
		}
		r.Register(shapeName+".type", fmu.Keep(r, st.Tag()), constOut("shape type"))
		r.Register(shapeName+".owner_id", fmu.Keep(r, int32(item.Identifier())), constOut("shape owner id"))

		owner := customName
		if owner == "" {
			owner = item.Name()
		}
		if owner != "" {
			r.Register(shapeName+".owner", fmu.Keep(r, owner), constOut("shape owner tag"))
		}

		p.serializer.Ref(shapeName, inst.Shape)
	}
}

func (p *ShapeProjector) addPose(r *fmu.Registry, b *shapeBinding, base string) {
	meta := func(unit, desc string) fmu.Meta {
		return fmu.Meta{Unit: unit, Description: desc, Causality: fmu.CausalityOutput, Variability: fmu.VariabilityContinuous}
	}
	for i, comp := range vectorComponents {
		r.Register(base+".pos."+comp, fmu.ReadOnly(func() float64 {
			return b.frame(p.host.Epoch()).Pos()[i]
		}), meta("m", "global "+comp+" position of shape"))
	}
	for i, comp := range quaternionComponents {
		r.Register(base+".rot."+comp, fmu.ReadOnly(func() float64 {
			return b.frame(p.host.Epoch()).Rot()[i]
		}), meta("1", "shape quaternion component "+comp+" from local to global"))
	}
}

// Invalidate forces every shape to recompute its world frame on the next
// read, even within the current epoch.
func (p *ShapeProjector) Invalidate() {
	for _, b := range p.bindings {
		b.valid = false
	}
}

// Clear drops every binding and its variables. Indices restart at zero, so
// hosts must re-read the variable list afterwards.
func (p *ShapeProjector) Clear() {
	p.bindings = nil
	p.host.Registry().RemovePrefix(VisualizerPrefix)
	p.serializer.Reset()
}
