package visual

import (
	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/geometry"
)

// ShapeType is the closed set of shape variants a visualizer can draw.
type ShapeType int

const (
	TypeUnknown ShapeType = iota
	TypeModelFile
	TypeTriangleMesh
	TypeSurface
	TypeSphere
	TypeEllipsoid
	TypeCylinder
	TypeCapsule
	TypeBox
	TypeBarrel
	TypeGlyphs
	TypePath
	TypeLine
)

var typeTags = [...]string{
	TypeUnknown:      "ChVisualShapeUNKNOWN",
	TypeModelFile:    "ChVisualShapeModelFile",
	TypeTriangleMesh: "ChVisualShapeTriangleMesh",
	TypeSurface:      "ChVisualShapeSurface",
	TypeSphere:       "ChVisualShapeSphere",
	TypeEllipsoid:    "ChVisualShapeEllipsoid",
	TypeCylinder:     "ChVisualShapeCylinder",
	TypeCapsule:      "ChVisualShapeCapsule",
	TypeBox:          "ChVisualShapeBox",
	TypeBarrel:       "ChVisualShapeBarrel",
	TypeGlyphs:       "ChGlyphs",
	TypePath:         "ChVisualShapePath",
	TypeLine:         "ChVisualShapeLine",
}

// Tag is the name visualizers use to pick a renderer for the shape.
func (t ShapeType) Tag() string {
	if t < 0 || int(t) >= len(typeTags) {
		return typeTags[TypeUnknown]
	}
	return typeTags[t]
}

func (t ShapeType) String() string { return t.Tag() }

// Tags lists every tag, unknown included, in declaration order.
func Tags() []string {
	out := make([]string, len(typeTags))
	copy(out, typeTags[:])
	return out
}

// Shape is anything that can be attached to a visual model.
type Shape interface {
	archive.Serializable
}

// Typed is implemented by shapes that belong to the closed set of variants.
type Typed interface {
	ShapeType() ShapeType
}

// Classify resolves the variant of s. Shapes outside the closed set are
// TypeUnknown.
func Classify(s Shape) ShapeType {
	t, ok := s.(Typed)
	if !ok {
		return TypeUnknown
	}
	st := t.ShapeType()
	if st <= TypeUnknown || int(st) >= len(typeTags) {
		return TypeUnknown
	}
	return st
}

// Color is an RGB triple in [0, 1].
type Color struct {
	R, G, B float32
}

func (c *Color) ArchiveOut(a *archive.Archive) {
	a.Float32("R", &c.R)
	a.Float32("G", &c.G)
	a.Float32("B", &c.B)
}

// Material holds the appearance shared by every shape.
type Material struct {
	Visible bool
	Opacity float32
	Color   Color
}

// DefaultMaterial is a visible, opaque, light grey material.
func DefaultMaterial() Material {
	return Material{Visible: true, Opacity: 1, Color: Color{R: 0.8, G: 0.8, B: 0.8}}
}

func (m *Material) SetColor(c Color) { m.Color = c }

func (m *Material) ArchiveOut(a *archive.Archive) {
	a.Bool("visible", &m.Visible)
	a.Float32("opacity", &m.Opacity)
	a.Object("color", &m.Color)
}

type Sphere struct {
	Material
	Radius float64
}

func NewSphere(radius float64) *Sphere {
	return &Sphere{Material: DefaultMaterial(), Radius: radius}
}

func (s *Sphere) ShapeType() ShapeType { return TypeSphere }

func (s *Sphere) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Float64("radius", &s.Radius, archive.WithUnit("m"))
}

type Ellipsoid struct {
	Material
	Axes geometry.Vector3
}

func NewEllipsoid(axes geometry.Vector3) *Ellipsoid {
	return &Ellipsoid{Material: DefaultMaterial(), Axes: axes}
}

func (s *Ellipsoid) ShapeType() ShapeType { return TypeEllipsoid }

func (s *Ellipsoid) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Object("axes", &s.Axes)
}

type Box struct {
	Material
	Lengths geometry.Vector3
}

func NewBox(x, y, z float64) *Box {
	return &Box{Material: DefaultMaterial(), Lengths: geometry.Vec(x, y, z)}
}

func (s *Box) ShapeType() ShapeType { return TypeBox }

func (s *Box) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Object("lengths", &s.Lengths)
}

// Cylinder is aligned with its local z axis.
type Cylinder struct {
	Material
	Radius float64
	Height float64
}

func NewCylinder(radius, height float64) *Cylinder {
	return &Cylinder{Material: DefaultMaterial(), Radius: radius, Height: height}
}

func (s *Cylinder) ShapeType() ShapeType { return TypeCylinder }

func (s *Cylinder) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Float64("radius", &s.Radius, archive.WithUnit("m"))
	a.Float64("height", &s.Height, archive.WithUnit("m"))
}

// Capsule is a cylinder of the given height capped by two hemispheres.
type Capsule struct {
	Material
	Radius float64
	Height float64
}

func NewCapsule(radius, height float64) *Capsule {
	return &Capsule{Material: DefaultMaterial(), Radius: radius, Height: height}
}

func (s *Capsule) ShapeType() ShapeType { return TypeCapsule }

func (s *Capsule) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Float64("radius", &s.Radius, archive.WithUnit("m"))
	a.Float64("height", &s.Height, archive.WithUnit("m"))
}

// Barrel is a body of revolution with an elliptic profile cut at YLow and
// YHigh.
type Barrel struct {
	Material
	YLow    float64
	YHigh   float64
	RVert   float64
	RHor    float64
	ROffset float64
}

func (s *Barrel) ShapeType() ShapeType { return TypeBarrel }

func (s *Barrel) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Float64("Hlow", &s.YLow)
	a.Float64("Hsup", &s.YHigh)
	a.Float64("Rvert", &s.RVert)
	a.Float64("Rhor", &s.RHor)
	a.Float64("Roffset", &s.ROffset)
}

// ModelFile refers to a mesh stored outside the model.
type ModelFile struct {
	Material
	Filename string
	Scale    geometry.Vector3
}

func NewModelFile(filename string) *ModelFile {
	return &ModelFile{Material: DefaultMaterial(), Filename: filename, Scale: geometry.Vec(1, 1, 1)}
}

func (s *ModelFile) ShapeType() ShapeType { return TypeModelFile }

func (s *ModelFile) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.String("filename", &s.Filename)
	a.Object("scale", &s.Scale)
}

type TriangleMesh struct {
	Material
	Name      string
	Vertices  []geometry.Vector3
	Wireframe bool
}

func (s *TriangleMesh) ShapeType() ShapeType { return TypeTriangleMesh }

func (s *TriangleMesh) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.String("name", &s.Name)
	a.Bool("wireframe", &s.Wireframe)
	a.Array("vertices", len(s.Vertices), func(i int) {
		a.Object(archive.Index(i), &s.Vertices[i])
	})
}

// Surface is a parametric patch drawn with Resolution subdivisions per side.
type Surface struct {
	Material
	ResolutionU int
	ResolutionV int
	Wireframe   bool
}

func (s *Surface) ShapeType() ShapeType { return TypeSurface }

func (s *Surface) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Int("resolution_u", &s.ResolutionU)
	a.Int("resolution_v", &s.ResolutionV)
	a.Bool("wireframe", &s.Wireframe)
}

// GlyphMode selects how glyph points are drawn.
type GlyphMode int

const (
	GlyphPoint GlyphMode = iota
	GlyphVector
	GlyphCoordsys
)

var glyphModeNames = map[int]string{
	int(GlyphPoint):    "GLYPH_POINT",
	int(GlyphVector):   "GLYPH_VECTOR",
	int(GlyphCoordsys): "GLYPH_COORDSYS",
}

func (m *GlyphMode) Value() int            { return int(*m) }
func (m *GlyphMode) SetValue(v int)        { *m = GlyphMode(v) }
func (m *GlyphMode) Names() map[int]string { return glyphModeNames }

type Glyphs struct {
	Material
	Mode   GlyphMode
	Points []geometry.Vector3
	Size   float64
}

func (s *Glyphs) ShapeType() ShapeType { return TypeGlyphs }

func (s *Glyphs) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Enum("draw_mode", &s.Mode)
	a.Float64("size", &s.Size)
	a.Array("points", len(s.Points), func(i int) {
		a.Object(archive.Index(i), &s.Points[i])
	})
}

// Segment is a straight line between two points.
type Segment struct {
	A, B geometry.Vector3
}

func (g *Segment) ArchiveOut(a *archive.Archive) {
	a.Object("pA", &g.A)
	a.Object("pB", &g.B)
}

// Polyline is a chain of points, optionally closed.
type Polyline struct {
	Points []geometry.Vector3
	Closed bool
}

func (g *Polyline) ArchiveOut(a *archive.Archive) {
	a.Bool("closed", &g.Closed)
	a.Array("points", len(g.Points), func(i int) {
		a.Object(archive.Index(i), &g.Points[i])
	})
}

// Line draws a segment sampled at NPoints.
type Line struct {
	Material
	Geometry  *Segment
	NPoints   int
	Thickness float64
}

func NewLine(from, to geometry.Vector3) *Line {
	return &Line{Material: DefaultMaterial(), Geometry: &Segment{A: from, B: to}, NPoints: 200, Thickness: 10}
}

func (s *Line) ShapeType() ShapeType { return TypeLine }

func (s *Line) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Ref("gline", s.Geometry)
	a.Int("npoints", &s.NPoints)
	a.Float64("thickness", &s.Thickness)
}

// Path draws a polyline sampled at NPoints.
type Path struct {
	Material
	Geometry  *Polyline
	NPoints   int
	Thickness float64
}

func NewPath(points ...geometry.Vector3) *Path {
	return &Path{Material: DefaultMaterial(), Geometry: &Polyline{Points: points}, NPoints: 200, Thickness: 10}
}

func (s *Path) ShapeType() ShapeType { return TypePath }

func (s *Path) ArchiveOut(a *archive.Archive) {
	s.Material.ArchiveOut(a)
	a.Ref("gpath", s.Geometry)
	a.Int("npoints", &s.NPoints)
	a.Float64("thickness", &s.Thickness)
}
