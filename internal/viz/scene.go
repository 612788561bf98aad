package viz

import (
	"fmt"
	"math"

	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/geometry"
)

const visualizerPrefix = "VISUALIZER["

// ShapeView is one visualizer read back from a registry: what a co-simulation
// master would see through the exported variables.
type ShapeView struct {
	Index  int
	Tag    string
	Owner  string
	Pos    geometry.Vector3
	Rot    geometry.Quaternion
	Extent geometry.Vector3 // half sizes along the shape axes
}

// ReadShapes collects VISUALIZER[0], VISUALIZER[1], ... from r until the
// first missing index.
func ReadShapes(r *fmu.Registry) []ShapeView {
	var views []ShapeView
	for k := 0; ; k++ {
		base := fmt.Sprintf("%s%d]", visualizerPrefix, k)
		tag, ok := readString(r, base+".shape.type")
		if !ok {
			return views
		}
		v := ShapeView{Index: k, Tag: tag}
		v.Owner, _ = readString(r, base+".shape.owner")
		for i, c := range []string{"x", "y", "z"} {
			v.Pos[i] = readReal(r, base+".frame.pos."+c, 0)
		}
		for i, c := range []string{"e0", "e1", "e2", "e3"} {
			v.Rot[i] = readReal(r, base+".frame.rot."+c, 0)
		}
		if v.Rot == (geometry.Quaternion{}) {
			v.Rot = geometry.QUnit
		}
		v.Extent = extent(r, base, tag)
		views = append(views, v)
	}
}

func extent(r *fmu.Registry, base, tag string) geometry.Vector3 {
	const fallback = 0.1
	switch tag {
	case "ChVisualShapeBox":
		return geometry.Vec(
			readReal(r, base+".lengths.x", 2*fallback),
			readReal(r, base+".lengths.y", 2*fallback),
			readReal(r, base+".lengths.z", 2*fallback),
		).Scale(0.5)
	case "ChVisualShapeEllipsoid":
		return geometry.Vec(
			readReal(r, base+".axes.x", fallback),
			readReal(r, base+".axes.y", fallback),
			readReal(r, base+".axes.z", fallback),
		)
	case "ChVisualShapeSphere":
		rad := readReal(r, base+".radius", fallback)
		return geometry.Vec(rad, rad, rad)
	case "ChVisualShapeCylinder", "ChVisualShapeCapsule":
		rad := readReal(r, base+".radius", fallback)
		return geometry.Vec(rad, readReal(r, base+".height", 2*fallback)/2, rad)
	}
	return geometry.Vec(fallback, fallback, fallback)
}

func readReal(r *fmu.Registry, name string, def float64) float64 {
	v, ok := r.Lookup(name)
	if !ok {
		return def
	}
	x, err := fmu.Get[float64](v)
	if err != nil {
		return def
	}
	return x
}

func readString(r *fmu.Registry, name string) (string, bool) {
	v, ok := r.Lookup(name)
	if !ok {
		return "", false
	}
	s, err := fmu.Get[string](v)
	return s, err == nil
}

// Camera projects world points onto a canvas. It orbits the origin at
// Distance, looking at it from Yaw and Pitch (radians). World z is up.
type Camera struct {
	Yaw, Pitch float64
	Distance   float64
	FOV        float64
}

func NewCamera() *Camera {
	return &Camera{Yaw: 0.6, Pitch: 0.4, Distance: 6, FOV: 60}
}

// Orbit turns the camera by the given angles, clamping the pitch.
func (cam *Camera) Orbit(dyaw, dpitch float64) {
	cam.Yaw += dyaw
	cam.Pitch = math.Max(-1.5, math.Min(1.5, cam.Pitch+dpitch))
}

// Project maps p to dot coordinates on a w x h dot canvas. ok is false for
// points behind the camera.
func (cam *Camera) Project(p geometry.Vector3, w, h int) (int, int, bool) {
	// World to camera: rotate about z by -yaw, then about x by pitch.
	cy, sy := math.Cos(cam.Yaw), math.Sin(cam.Yaw)
	x := p[0]*cy + p[1]*sy
	depth := -p[0]*sy + p[1]*cy
	up := p[2]

	cp, sp := math.Cos(cam.Pitch), math.Sin(cam.Pitch)
	depth, up = depth*cp+up*sp, -depth*sp+up*cp

	z := cam.Distance - depth
	if z <= 0.1 {
		return 0, 0, false
	}

	scale := float64(h) / (2 * math.Tan(cam.FOV*math.Pi/360))
	px := float64(w)/2 + x*scale/z
	py := float64(h)/2 - up*scale/z
	return int(math.Round(px)), int(math.Round(py)), true
}

// Segment is a world-space line.
type Segment struct{ A, B geometry.Vector3 }

// Wireframe returns the outline of v in world coordinates: an oriented box
// for boxes and a three-axis cross for every other shape.
func (v ShapeView) Wireframe() []Segment {
	e := v.Extent
	world := func(p geometry.Vector3) geometry.Vector3 { return v.Pos.Add(v.Rot.Rotate(p)) }

	if v.Tag != "ChVisualShapeBox" {
		segs := make([]Segment, 0, 3)
		for i := range 3 {
			var d geometry.Vector3
			d[i] = e[i]
			segs = append(segs, Segment{world(d.Scale(-1)), world(d)})
		}
		return segs
	}

	var corners [8]geometry.Vector3
	for i := range corners {
		c := geometry.Vec(-e[0], -e[1], -e[2])
		if i&1 != 0 {
			c[0] = e[0]
		}
		if i&2 != 0 {
			c[1] = e[1]
		}
		if i&4 != 0 {
			c[2] = e[2]
		}
		corners[i] = world(c)
	}
	segs := make([]Segment, 0, 12)
	for i := range corners {
		for bit := 1; bit < 8; bit <<= 1 {
			if j := i | bit; j != i {
				segs = append(segs, Segment{corners[i], corners[j]})
			}
		}
	}
	return segs
}

// RenderScene draws the ground axes and every shape onto c.
func RenderScene(c *Canvas, cam *Camera, shapes []ShapeView) {
	w, h := c.Dots()
	draw := func(s Segment) {
		x0, y0, ok0 := cam.Project(s.A, w, h)
		x1, y1, ok1 := cam.Project(s.B, w, h)
		if ok0 && ok1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}
	for _, axis := range []geometry.Vector3{geometry.VX, geometry.VY, geometry.VZ} {
		draw(Segment{geometry.VNull, axis})
	}
	for _, v := range shapes {
		for _, s := range v.Wireframe() {
			draw(s)
		}
	}
}
