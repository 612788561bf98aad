package physics

import (
	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/geometry"
	"github.com/san-kum/dynfmu/internal/visual"
)

// Body is a rigid body with its state stored as a moving frame: the origin
// is the center of mass and the rotation maps body axes to world axes.
type Body struct {
	name    string
	id      int
	Mass    float64
	Inertia geometry.Vector3 // principal moments about the body axes
	Fixed   bool

	frame  geometry.FrameMoving
	visual *visual.Model
	system *System
}

func NewBody(name string, mass float64) *Body {
	return &Body{
		name:    name,
		id:      -1,
		Mass:    mass,
		Inertia: geometry.Vec(mass, mass, mass).Scale(0.1),
		frame:   geometry.NewFrameMoving(geometry.VNull, geometry.QUnit),
	}
}

// NewFixedBody returns a body that never moves, such as the ground.
func NewFixedBody(name string) *Body {
	b := NewBody(name, 1)
	b.Fixed = true
	return b
}

func (b *Body) Name() string        { return b.name }
func (b *Body) SetName(name string) { b.name = name }

// Identifier is assigned when the body is added to a system; it is -1 before.
func (b *Body) Identifier() int { return b.id }

func (b *Body) System() *System { return b.system }

// Frame returns the live state of the body. Callers may bind to its fields.
func (b *Body) Frame() *geometry.FrameMoving { return &b.frame }

func (b *Body) Pos() geometry.Vector3    { return b.frame.Csys.Pos }
func (b *Body) Rot() geometry.Quaternion { return b.frame.Csys.Rot }
func (b *Body) PosDt() geometry.Vector3  { return b.frame.CsysDt.Pos }

func (b *Body) SetPos(p geometry.Vector3) { b.frame.Csys.Pos = p }

// SetRot sets the orientation, keeping the angular velocity.
func (b *Body) SetRot(q geometry.Quaternion) {
	w := b.frame.AngVelParent()
	b.frame.Csys.Rot = q.Normalize()
	b.frame.SetAngVelParent(w)
}

func (b *Body) SetPosDt(v geometry.Vector3) { b.frame.CsysDt.Pos = v }

// AngVel returns the angular velocity in world coordinates.
func (b *Body) AngVel() geometry.Vector3 { return b.frame.AngVelParent() }

func (b *Body) SetAngVel(w geometry.Vector3) { b.frame.SetAngVelParent(w) }

// VisualModel returns the shapes attached to the body, creating an empty
// model on first use.
func (b *Body) VisualModel() *visual.Model {
	if b.visual == nil {
		b.visual = visual.NewModel()
	}
	return b.visual
}

// AddVisualShape attaches s at frame, relative to the body.
func (b *Body) AddVisualShape(s visual.Shape, frame geometry.Frame) {
	b.VisualModel().AddShape(s, frame)
}

// VisualModelFrame maps shape frames into world coordinates.
func (b *Body) VisualModelFrame() geometry.Frame { return b.frame.Frame }

func (b *Body) inverseMass() float64 {
	if b.Fixed || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// kineticEnergy includes rotation about the principal axes.
func (b *Body) kineticEnergy() float64 {
	if b.Fixed {
		return 0
	}
	v := b.PosDt()
	wb := b.Rot().Conjugate().Rotate(b.AngVel())
	rot := b.Inertia[0]*wb[0]*wb[0] + b.Inertia[1]*wb[1]*wb[1] + b.Inertia[2]*wb[2]*wb[2]
	return 0.5*b.Mass*v.Dot(v) + 0.5*rot
}

func (b *Body) ArchiveOut(a *archive.Archive) {
	a.String("name", &b.name)
	a.Int("identifier", &b.id)
	a.Float64("mass", &b.Mass, archive.Parameter(), archive.WithUnit("kg"))
	a.Object("inertia", &b.Inertia)
	a.Bool("fixed", &b.Fixed, archive.Parameter())
	a.Object("frame", &b.frame)
	a.Ref("visual_model", b.visual)
	a.Ref("system", b.system)
}
