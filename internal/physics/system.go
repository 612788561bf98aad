package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/geometry"
	"github.com/san-kum/dynfmu/internal/integrators"
	"github.com/san-kum/dynfmu/internal/sim"
)

// bodyDim is the state size of one free body: position, rotation,
// velocity and angular velocity in world coordinates.
const bodyDim = 13

// assemblyIterations bounds the constraint projection passes per step.
const assemblyIterations = 10

var ErrInvalidStep = errors.New("physics: step size must be positive")

// System owns the bodies and links of a scene and advances them in time.
// It implements sim.Dynamics over the packed state of its free bodies.
type System struct {
	bodies []*Body
	links  []Link

	Gravity    geometry.Vector3
	time       float64
	integrator sim.Integrator
	nextID     int

	free    []*Body
	pool    *sim.StatePool
	poolDim int
}

func NewSystem() *System {
	return &System{
		Gravity:    geometry.Vec(0, 0, -9.81),
		integrator: integrators.NewRK4(),
	}
}

// AddBody assigns the next identifier to b and adds it to the system.
func (s *System) AddBody(b *Body) {
	b.id = s.nextID
	s.nextID++
	b.system = s
	s.bodies = append(s.bodies, b)
	s.free = nil
}

func (s *System) AddLink(l Link) { s.links = append(s.links, l) }

func (s *System) Bodies() []*Body { return s.bodies }
func (s *System) Links() []Link   { return s.links }
func (s *System) Time() float64   { return s.time }

func (s *System) SetTime(t float64) { s.time = t }

func (s *System) Integrator() sim.Integrator     { return s.integrator }
func (s *System) SetIntegrator(i sim.Integrator) { s.integrator = i }

// Snapshot holds the time, gravity and body states of a system.
type Snapshot struct {
	time    float64
	gravity geometry.Vector3
	frames  []geometry.FrameMoving
}

// Snapshot records the current state. Bodies added later are not covered.
func (s *System) Snapshot() Snapshot {
	snap := Snapshot{time: s.time, gravity: s.Gravity, frames: make([]geometry.FrameMoving, len(s.bodies))}
	for i, b := range s.bodies {
		snap.frames[i] = b.frame
	}
	return snap
}

// Restore puts the system back into the state recorded by snap.
func (s *System) Restore(snap Snapshot) {
	s.time = snap.time
	s.Gravity = snap.gravity
	for i, f := range snap.frames {
		if i < len(s.bodies) {
			s.bodies[i].frame = f
		}
	}
}

// SearchBody returns the first body with the given name, or nil.
func (s *System) SearchBody(name string) *Body {
	for _, b := range s.bodies {
		if b.name == name {
			return b
		}
	}
	return nil
}

// SearchBodyID returns the body with the given identifier, or nil.
func (s *System) SearchBodyID(id int) *Body {
	for _, b := range s.bodies {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (s *System) freeBodies() []*Body {
	if s.free == nil {
		s.free = make([]*Body, 0, len(s.bodies))
		for _, b := range s.bodies {
			if !b.Fixed {
				s.free = append(s.free, b)
			}
		}
	}
	return s.free
}

func (s *System) StateDim() int   { return len(s.freeBodies()) * bodyDim }
func (s *System) ControlDim() int { return 0 }

func (s *System) offset(b *Body) int {
	for i, f := range s.freeBodies() {
		if f == b {
			return i * bodyDim
		}
	}
	return -1
}

// kinematics returns the position and velocity of b, from x for free bodies
// and from the stored state for fixed ones.
func (s *System) kinematics(b *Body, x sim.State) (geometry.Vector3, geometry.Vector3) {
	off := s.offset(b)
	if off < 0 {
		return b.Pos(), b.PosDt()
	}
	return geometry.Vector3(x[off : off+3]), geometry.Vector3(x[off+7 : off+10])
}

func (s *System) Derivative(x sim.State, u sim.Control, t float64) sim.State {
	free := s.freeBodies()
	dx := make(sim.State, len(x))

	forces := make(map[*Body]geometry.Vector3, len(free))
	for _, l := range s.links {
		fl, ok := l.(forceLink)
		if !ok {
			continue
		}
		a, b := fl.Bodies()
		pa, va := s.kinematics(a, x)
		pb, vb := s.kinematics(b, x)
		f := fl.force(pa, va, pb, vb)
		forces[a] = forces[a].Add(f)
		forces[b] = forces[b].Sub(f)
	}

	for i, b := range free {
		off := i * bodyDim
		q := geometry.Quaternion(x[off+3 : off+7])
		v := geometry.Vector3(x[off+7 : off+10])
		w := geometry.Vector3(x[off+10 : off+13])

		acc := s.Gravity.Add(forces[b].Scale(b.inverseMass()))
		dq := q.Derivative(w)

		// Torque-free Euler equations in body axes.
		wb := q.Conjugate().Rotate(w)
		iw := geometry.Vec(b.Inertia[0]*wb[0], b.Inertia[1]*wb[1], b.Inertia[2]*wb[2])
		gyro := wb.Cross(iw)
		var wbDot geometry.Vector3
		for k := 0; k < 3; k++ {
			if b.Inertia[k] > 0 {
				wbDot[k] = -gyro[k] / b.Inertia[k]
			}
		}
		dw := q.Rotate(wbDot)

		copy(dx[off:off+3], v[:])
		copy(dx[off+3:off+7], dq[:])
		copy(dx[off+7:off+10], acc[:])
		copy(dx[off+10:off+13], dw[:])
	}
	return dx
}

func (s *System) pack(x sim.State) {
	for i, b := range s.freeBodies() {
		off := i * bodyDim
		p, q, v, w := b.Pos(), b.Rot(), b.PosDt(), b.AngVel()
		copy(x[off:off+3], p[:])
		copy(x[off+3:off+7], q[:])
		copy(x[off+7:off+10], v[:])
		copy(x[off+10:off+13], w[:])
	}
}

func (s *System) unpack(x sim.State) {
	for i, b := range s.freeBodies() {
		off := i * bodyDim
		b.frame.Csys.Pos = geometry.Vector3(x[off : off+3])
		b.frame.Csys.Rot = geometry.Quaternion(x[off+3 : off+7]).Normalize()
		b.frame.CsysDt.Pos = geometry.Vector3(x[off+7 : off+10])
		b.frame.SetAngVelParent(geometry.Vector3(x[off+10 : off+13]))
	}
}

// DoStepDynamics advances every free body by dt and enforces the
// constraints at the new time.
func (s *System) DoStepDynamics(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: %g", ErrInvalidStep, dt)
	}
	s.free = nil
	n := s.StateDim()
	if n > 0 {
		if s.pool == nil || s.poolDim != n {
			s.pool = sim.NewStatePool(n)
			s.poolDim = n
		}
		x := s.pool.Get()
		s.pack(x)
		next := s.integrator.Step(s, x, nil, s.time, dt)
		s.pool.Put(x)
		if !next.IsValid() {
			return &sim.StepError{Time: s.time, Dt: dt, Wrapped: sim.ErrInvalidState}
		}
		s.unpack(next)
	}
	s.DoAssembly()
	s.time += dt
	return nil
}

// DoAssembly projects the bodies onto the constraint manifold.
func (s *System) DoAssembly() {
	for iter := 0; iter < assemblyIterations; iter++ {
		for _, l := range s.links {
			if c, ok := l.(constraint); ok {
				c.project()
			}
		}
	}
}

// Energy is the kinetic plus gravitational and elastic potential energy.
func (s *System) Energy() float64 {
	e := 0.0
	for _, b := range s.freeBodies() {
		e += b.kineticEnergy() - b.Mass*s.Gravity.Dot(b.Pos())
	}
	for _, l := range s.links {
		if fl, ok := l.(forceLink); ok {
			e += fl.potential()
		}
	}
	return e
}

func (s *System) ArchiveOut(a *archive.Archive) {
	a.Float64("ch_time", &s.time, archive.WithUnit("s"))
	a.Object("G_acc", &s.Gravity)
	archive.RefSlice(a, "bodies", s.bodies)
	archive.RefSlice(a, "links", s.links)
}
