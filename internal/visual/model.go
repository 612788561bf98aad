package visual

import (
	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/geometry"
)

// ShapeInstance places a shape in the frame of the item that owns the model.
type ShapeInstance struct {
	Shape Shape
	Frame geometry.Frame
}

// Model is the list of shapes attached to one physics item.
type Model struct {
	instances []ShapeInstance
}

func NewModel() *Model {
	return &Model{}
}

// AddShape attaches s at the given frame, relative to the owning item.
func (m *Model) AddShape(s Shape, frame geometry.Frame) {
	m.instances = append(m.instances, ShapeInstance{Shape: s, Frame: frame})
}

// ShapeInstances returns the attached shapes in insertion order.
func (m *Model) ShapeInstances() []ShapeInstance {
	if m == nil {
		return nil
	}
	return m.instances
}

func (m *Model) NumShapes() int {
	if m == nil {
		return 0
	}
	return len(m.instances)
}

func (m *Model) Clear() { m.instances = nil }

func (m *Model) ArchiveOut(a *archive.Archive) {
	a.Array("shapes", len(m.instances), func(i int) {
		inst := &m.instances[i]
		a.Ref(archive.Index(i), inst.Shape)
	})
}
