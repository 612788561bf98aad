package physics

import (
	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/geometry"
)

// Link connects two bodies. Both ends act on the body origins.
type Link interface {
	archive.Serializable
	Name() string
	Bodies() (*Body, *Body)
}

// forceLink adds forces to its bodies during integration. Positions and
// velocities are the integrator's trial values, not the stored body state.
type forceLink interface {
	Link
	force(pa, va, pb, vb geometry.Vector3) geometry.Vector3
	potential() float64
}

// constraint is enforced by projection after every step.
type constraint interface {
	Link
	project()
}

// LinkDistance keeps the origins of two bodies at a fixed distance, like a
// massless rod.
type LinkDistance struct {
	name     string
	body1    *Body
	body2    *Body
	Distance float64
}

// NewLinkDistance connects a and b at their current distance.
func NewLinkDistance(name string, a, b *Body) *LinkDistance {
	return &LinkDistance{
		name:     name,
		body1:    a,
		body2:    b,
		Distance: b.Pos().Sub(a.Pos()).Length(),
	}
}

func (l *LinkDistance) Name() string                 { return l.name }
func (l *LinkDistance) Bodies() (*Body, *Body)       { return l.body1, l.body2 }
func (l *LinkDistance) CurrentDistance() float64     { return l.body2.Pos().Sub(l.body1.Pos()).Length() }
func (l *LinkDistance) ConstraintViolation() float64 { return l.CurrentDistance() - l.Distance }

// project moves both bodies along the link, weighted by inverse mass, until
// the distance holds, then removes the relative velocity along the link.
func (l *LinkDistance) project() {
	wa, wb := l.body1.inverseMass(), l.body2.inverseMass()
	if wa+wb == 0 {
		return
	}
	d := l.body2.Pos().Sub(l.body1.Pos())
	length := d.Length()
	if length == 0 {
		return
	}
	n := d.Scale(1 / length)

	corr := (length - l.Distance) / (wa + wb)
	l.body1.SetPos(l.body1.Pos().Add(n.Scale(corr * wa)))
	l.body2.SetPos(l.body2.Pos().Sub(n.Scale(corr * wb)))

	rel := l.body2.PosDt().Sub(l.body1.PosDt()).Dot(n) / (wa + wb)
	l.body1.SetPosDt(l.body1.PosDt().Add(n.Scale(rel * wa)))
	l.body2.SetPosDt(l.body2.PosDt().Sub(n.Scale(rel * wb)))
}

func (l *LinkDistance) ArchiveOutConstructor(a *archive.Archive) {
	a.Ref("body1", l.body1)
	a.Ref("body2", l.body2)
}

func (l *LinkDistance) ArchiveOut(a *archive.Archive) {
	a.String("name", &l.name)
	a.Float64("distance", &l.Distance, archive.Parameter(), archive.WithUnit("m"))
}

// LinkSpring is a linear spring-damper between two body origins.
type LinkSpring struct {
	name       string
	body1      *Body
	body2      *Body
	RestLength float64
	Stiffness  float64
	Damping    float64
}

// NewLinkSpring connects a and b with a spring at rest at their current
// distance.
func NewLinkSpring(name string, a, b *Body, stiffness, damping float64) *LinkSpring {
	return &LinkSpring{
		name:       name,
		body1:      a,
		body2:      b,
		RestLength: b.Pos().Sub(a.Pos()).Length(),
		Stiffness:  stiffness,
		Damping:    damping,
	}
}

func (l *LinkSpring) Name() string           { return l.name }
func (l *LinkSpring) Bodies() (*Body, *Body) { return l.body1, l.body2 }

// force returns the force on the first body; the second gets its opposite.
func (l *LinkSpring) force(pa, va, pb, vb geometry.Vector3) geometry.Vector3 {
	d := pb.Sub(pa)
	length := d.Length()
	if length == 0 {
		return geometry.VNull
	}
	n := d.Scale(1 / length)
	stretch := length - l.RestLength
	rate := vb.Sub(va).Dot(n)
	return n.Scale(l.Stiffness*stretch + l.Damping*rate)
}

func (l *LinkSpring) potential() float64 {
	stretch := l.body2.Pos().Sub(l.body1.Pos()).Length() - l.RestLength
	return 0.5 * l.Stiffness * stretch * stretch
}

func (l *LinkSpring) ArchiveOutConstructor(a *archive.Archive) {
	a.Ref("body1", l.body1)
	a.Ref("body2", l.body2)
}

func (l *LinkSpring) ArchiveOut(a *archive.Archive) {
	a.String("name", &l.name)
	a.Float64("rest_length", &l.RestLength, archive.Parameter(), archive.WithUnit("m"))
	a.Float64("stiffness", &l.Stiffness, archive.WithCausality(archive.CausalityParameter),
		archive.WithVariability(archive.VariabilityTunable), archive.WithUnit("N/m"))
	a.Float64("damping", &l.Damping, archive.WithCausality(archive.CausalityParameter),
		archive.WithVariability(archive.VariabilityTunable), archive.WithUnit("N.s/m"))
}
