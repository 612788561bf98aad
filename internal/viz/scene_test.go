package viz

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/geometry"
)

func registerShape(t *testing.T, r *fmu.Registry, k int, tag string, pos geometry.Vector3, extra map[string]float64) {
	t.Helper()
	base := "VISUALIZER[" + strconv.Itoa(k) + "]"
	out := fmu.Meta{Causality: fmu.CausalityOutput, Variability: fmu.VariabilityContinuous}
	for i, c := range []string{"x", "y", "z"} {
		if _, err := r.Register(base+".frame.pos."+c, fmu.Keep(r, pos[i]), out); err != nil {
			t.Fatal(err)
		}
	}
	for i, c := range []string{"e0", "e1", "e2", "e3"} {
		if _, err := r.Register(base+".frame.rot."+c, fmu.Keep(r, geometry.QUnit[i]), out); err != nil {
			t.Fatal(err)
		}
	}
	constant := fmu.Meta{Causality: fmu.CausalityOutput, Variability: fmu.VariabilityConstant}
	if _, err := r.Register(base+".shape.type", fmu.Keep(r, tag), constant); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Register(base+".shape.owner", fmu.Keep(r, "body"), constant); err != nil {
		t.Fatal(err)
	}
	for name, x := range extra {
		if _, err := r.Register(base+"."+name, fmu.Keep(r, x), fmu.Meta{}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestReadShapes(t *testing.T) {
	r := fmu.NewRegistry(nil)
	registerShape(t, r, 0, "ChVisualShapeBox", geometry.Vec(1, 2, 3),
		map[string]float64{"lengths.x": 2, "lengths.y": 4, "lengths.z": 6})
	registerShape(t, r, 1, "ChVisualShapeSphere", geometry.VNull,
		map[string]float64{"radius": 0.5})
	registerShape(t, r, 2, "ChVisualShapeCylinder", geometry.VNull,
		map[string]float64{"radius": 0.2, "height": 1})
	registerShape(t, r, 4, "ChVisualShapeLine", geometry.VNull, nil)

	views := ReadShapes(r)
	if len(views) != 3 {
		t.Fatalf("ReadShapes() returned %d views, want 3 (stops at the first gap)", len(views))
	}

	tests := []struct {
		idx    int
		tag    string
		pos    geometry.Vector3
		extent geometry.Vector3
	}{
		{0, "ChVisualShapeBox", geometry.Vec(1, 2, 3), geometry.Vec(1, 2, 3)},
		{1, "ChVisualShapeSphere", geometry.VNull, geometry.Vec(0.5, 0.5, 0.5)},
		{2, "ChVisualShapeCylinder", geometry.VNull, geometry.Vec(0.2, 0.5, 0.2)},
	}
	for _, tt := range tests {
		v := views[tt.idx]
		if v.Index != tt.idx || v.Tag != tt.tag || v.Owner != "body" {
			t.Errorf("view %d = %+v", tt.idx, v)
		}
		if v.Pos != tt.pos {
			t.Errorf("view %d pos = %v, want %v", tt.idx, v.Pos, tt.pos)
		}
		if v.Rot != geometry.QUnit {
			t.Errorf("view %d rot = %v", tt.idx, v.Rot)
		}
		if v.Extent != tt.extent {
			t.Errorf("view %d extent = %v, want %v", tt.idx, v.Extent, tt.extent)
		}
	}
}

func TestReadShapesEmpty(t *testing.T) {
	if views := ReadShapes(fmu.NewRegistry(nil)); len(views) != 0 {
		t.Errorf("ReadShapes(empty) = %v", views)
	}
}

func TestWireframe(t *testing.T) {
	box := ShapeView{Tag: "ChVisualShapeBox", Pos: geometry.Vec(0, 0, 1), Rot: geometry.QUnit, Extent: geometry.Vec(1, 1, 1)}
	segs := box.Wireframe()
	if len(segs) != 12 {
		t.Fatalf("box has %d edges, want 12", len(segs))
	}
	for _, s := range segs {
		if l := s.B.Sub(s.A).Length(); math.Abs(l-2) > 1e-12 {
			t.Errorf("edge %v has length %g, want 2", s, l)
		}
	}

	sphere := ShapeView{Tag: "ChVisualShapeSphere", Rot: geometry.QUnit, Extent: geometry.Vec(0.5, 0.5, 0.5)}
	if n := len(sphere.Wireframe()); n != 3 {
		t.Errorf("sphere has %d segments, want 3", n)
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera()
	x, y, ok := cam.Project(geometry.VNull, 80, 40)
	if !ok || x != 40 || y != 20 {
		t.Errorf("origin projects to (%d, %d, %v), want the center", x, y, ok)
	}

	_, up, _ := cam.Project(geometry.Vec(0, 0, 1), 80, 40)
	if up >= y {
		t.Errorf("a point above the origin projects to row %d, below the center %d", up, y)
	}

	cam.Orbit(0, 10)
	if cam.Pitch != 1.5 {
		t.Errorf("pitch = %g, want clamp at 1.5", cam.Pitch)
	}
}

func TestRenderScene(t *testing.T) {
	c := NewCanvas(40, 20)
	RenderScene(c, NewCamera(), []ShapeView{
		{Tag: "ChVisualShapeBox", Rot: geometry.QUnit, Extent: geometry.Vec(0.5, 0.5, 0.5)},
	})
	if strings.Trim(c.String(), "⠀\n") == "" {
		t.Error("RenderScene drew nothing")
	}
}
