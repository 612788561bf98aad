package cosim

import (
	"fmt"

	"github.com/san-kum/dynfmu/internal/config"
	"github.com/san-kum/dynfmu/internal/geometry"
	"github.com/san-kum/dynfmu/internal/integrators"
	"github.com/san-kum/dynfmu/internal/physics"
	"github.com/san-kum/dynfmu/internal/visual"
)

// BuildSystem creates the physics system described by cfg.
func BuildSystem(cfg *config.Config) (*physics.System, error) {
	sys := physics.NewSystem()
	sys.Gravity = geometry.Vector3(cfg.Gravity)
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	sys.SetIntegrator(integ)

	for _, bc := range cfg.Scene.Bodies {
		b, err := buildBody(bc)
		if err != nil {
			return nil, err
		}
		sys.AddBody(b)
	}

	for _, lc := range cfg.Scene.Links {
		a := sys.SearchBody(lc.Body1)
		b := sys.SearchBody(lc.Body2)
		if a == nil || b == nil {
			return nil, fmt.Errorf("%w: link %q joins %q and %q", ErrUnknownBody, lc.Name, lc.Body1, lc.Body2)
		}
		switch lc.Type {
		case "distance":
			sys.AddLink(physics.NewLinkDistance(lc.Name, a, b))
		case "spring":
			sys.AddLink(physics.NewLinkSpring(lc.Name, a, b, lc.Stiffness, lc.Damping))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownLink, lc.Type)
		}
	}
	return sys, nil
}

func buildBody(bc config.BodyConfig) (*physics.Body, error) {
	var b *physics.Body
	if bc.Fixed {
		b = physics.NewFixedBody(bc.Name)
		if bc.Mass > 0 {
			b.Mass = bc.Mass
		}
	} else {
		b = physics.NewBody(bc.Name, bc.Mass)
	}
	b.SetPos(geometry.Vector3(bc.Pos))
	b.SetRot(rotation(bc.Rot))
	b.SetPosDt(geometry.Vector3(bc.Vel))
	b.SetAngVel(geometry.Vector3(bc.AngVel))

	for i, sc := range bc.Shapes {
		s, err := NewShape(sc)
		if err != nil {
			return nil, fmt.Errorf("body %q shape %d: %w", bc.Name, i, err)
		}
		b.AddVisualShape(s, geometry.NewFrame(geometry.Vector3(sc.Pos), rotation(sc.Rot)))
	}
	return b, nil
}

// rotation treats the zero quaternion as no rotation.
func rotation(q [4]float64) geometry.Quaternion {
	if q == [4]float64{} {
		return geometry.QUnit
	}
	return geometry.Quaternion(q).Normalize()
}

func points(ps [][3]float64) []geometry.Vector3 {
	out := make([]geometry.Vector3, len(ps))
	for i, p := range ps {
		out[i] = geometry.Vector3(p)
	}
	return out
}

// NewShape builds the visual shape described by sc.
func NewShape(sc config.ShapeConfig) (visual.Shape, error) {
	var s visual.Shape
	size := geometry.Vector3(sc.Size)
	switch sc.Type {
	case "box":
		s = visual.NewBox(size[0], size[1], size[2])
	case "sphere":
		s = visual.NewSphere(sc.Radius)
	case "ellipsoid":
		s = visual.NewEllipsoid(size)
	case "cylinder":
		s = visual.NewCylinder(sc.Radius, sc.Height)
	case "capsule":
		s = visual.NewCapsule(sc.Radius, sc.Height)
	case "barrel":
		s = &visual.Barrel{
			Material: visual.DefaultMaterial(),
			YLow:     -sc.Height / 2,
			YHigh:    sc.Height / 2,
			RVert:    sc.Height / 2,
			RHor:     sc.Radius,
		}
	case "model_file":
		mf := visual.NewModelFile(sc.File)
		if size != geometry.VNull {
			mf.Scale = size
		}
		s = mf
	case "triangle_mesh":
		s = &visual.TriangleMesh{Material: visual.DefaultMaterial(), Name: sc.File, Vertices: points(sc.Points)}
	case "surface":
		s = &visual.Surface{Material: visual.DefaultMaterial(), ResolutionU: 10, ResolutionV: 10}
	case "glyphs":
		s = &visual.Glyphs{Material: visual.DefaultMaterial(), Points: points(sc.Points), Size: sc.Radius}
	case "path":
		s = visual.NewPath(points(sc.Points)...)
	case "line":
		from, to := geometry.VNull, geometry.VX
		if len(sc.Points) >= 2 {
			from, to = geometry.Vector3(sc.Points[0]), geometry.Vector3(sc.Points[1])
		}
		s = visual.NewLine(from, to)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, sc.Type)
	}

	if sc.Color != [3]float32{} {
		if c, ok := s.(interface{ SetColor(visual.Color) }); ok {
			c.SetColor(visual.Color{R: sc.Color[0], G: sc.Color[1], B: sc.Color[2]})
		}
	}
	return s, nil
}
