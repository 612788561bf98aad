package cosim

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/fmu"
	"github.com/san-kum/dynfmu/internal/geometry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mode int

func (m *mode) Value() int            { return int(*m) }
func (m *mode) SetValue(v int)        { *m = mode(v) }
func (m *mode) Names() map[int]string { return map[int]string{0: "OFF", 1: "ON"} }

type node struct {
	Name    string
	Weight  float64
	Count   int
	Flag    bool
	Ratio   float32
	Code    byte
	Mask    uint32
	Big     uint64
	Mode    mode
	Offset  geometry.Vector3
	Points  []geometry.Vector3
	Samples []float64
	Next    *node
}

func (n *node) ArchiveOut(a *archive.Archive) {
	a.String("name", &n.Name)
	a.Float64("weight", &n.Weight, archive.Parameter(), archive.WithUnit("kg"))
	a.Int("count", &n.Count)
	a.Bool("flag", &n.Flag)
	a.Float32("ratio", &n.Ratio)
	a.Char("code", &n.Code)
	a.Uint("mask", &n.Mask)
	a.Uint64("big", &n.Big)
	a.Enum("mode", &n.Mode)
	a.Object("offset", &n.Offset)
	a.Array("points", len(n.Points), func(i int) {
		a.Object(archive.Index(i), &n.Points[i])
	})
	archive.Float64Slice(a, "samples", n.Samples)
	a.Ref("next", n.Next)
}

func newNode(name string) *node {
	return &node{
		Name:    name,
		Weight:  2.5,
		Count:   3,
		Ratio:   0.5,
		Points:  []geometry.Vector3{geometry.VX, geometry.VY},
		Samples: []float64{1, 2},
	}
}

func memberNames(prefix string) []string {
	return []string{
		prefix + ".name",
		prefix + ".weight",
		prefix + ".count",
		prefix + ".flag",
		prefix + ".ratio",
		prefix + ".code",
		prefix + ".mask",
		prefix + ".offset.x", prefix + ".offset.y", prefix + ".offset.z",
		prefix + ".points[0].x", prefix + ".points[0].y", prefix + ".points[0].z",
		prefix + ".points[1].x", prefix + ".points[1].y", prefix + ".points[1].z",
		prefix + ".samples[0]", prefix + ".samples[1]",
	}
}

func TestSerializerNames(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	s := NewSerializer(r, quietLogger())
	root := newNode("root")
	root.Next = newNode("child")

	s.Object("root", root)

	want := append(memberNames("root"), memberNames("root.next")...)
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 4, s.Skipped(), "uint64 and enum members are dropped")
}

func TestSerializerTopLevelScalar(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	s := NewSerializer(r, quietLogger())
	x := 1.5
	s.Archive().Float64("alone", &x)

	v, ok := r.Lookup("alone")
	require.True(t, ok)
	got, err := fmu.Get[float64](v)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)
}

func TestSerializerBindings(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	s := NewSerializer(r, quietLogger())
	n := newNode("n")
	s.Ref("n", n)

	tests := []struct {
		name        string
		typ         fmu.Type
		storage     fmu.StorageMode
		causality   fmu.Causality
		variability fmu.Variability
		unit        string
	}{
		{"n.name", fmu.TypeString, fmu.DirectPointer, fmu.CausalityLocal, fmu.VariabilityDiscrete, ""},
		{"n.weight", fmu.TypeReal, fmu.DirectPointer, fmu.CausalityParameter, fmu.VariabilityFixed, "kg"},
		{"n.count", fmu.TypeInteger, fmu.AccessorPair, fmu.CausalityLocal, fmu.VariabilityDiscrete, ""},
		{"n.flag", fmu.TypeBoolean, fmu.DirectPointer, fmu.CausalityLocal, fmu.VariabilityDiscrete, ""},
		{"n.ratio", fmu.TypeReal, fmu.AccessorPair, fmu.CausalityLocal, fmu.VariabilityContinuous, ""},
		{"n.code", fmu.TypeInteger, fmu.AccessorPair, fmu.CausalityLocal, fmu.VariabilityDiscrete, ""},
		{"n.mask", fmu.TypeInteger, fmu.AccessorPair, fmu.CausalityLocal, fmu.VariabilityDiscrete, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := r.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.typ, v.Type())
			assert.Equal(t, tt.storage, v.Storage())
			assert.Equal(t, tt.causality, v.Causality())
			assert.Equal(t, tt.variability, v.Variability())
			assert.Equal(t, tt.unit, v.Unit())
		})
	}

	_, ok := r.Lookup("n.big")
	assert.False(t, ok)
	_, ok = r.Lookup("n.mode")
	assert.False(t, ok)
}

func TestSerializerWritesThrough(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	s := NewSerializer(r, quietLogger())
	n := newNode("n")
	s.Object("n", n)

	set := func(name string, fn func(v *fmu.Variable) error) {
		t.Helper()
		v, ok := r.Lookup(name)
		require.True(t, ok, name)
		require.NoError(t, fn(v))
	}
	set("n.count", func(v *fmu.Variable) error { return fmu.Set[int32](v, 7) })
	set("n.ratio", func(v *fmu.Variable) error { return fmu.Set(v, 0.25) })
	set("n.code", func(v *fmu.Variable) error { return fmu.Set[int32](v, 'z') })
	set("n.mask", func(v *fmu.Variable) error { return fmu.Set[int32](v, 9) })
	set("n.name", func(v *fmu.Variable) error { return fmu.Set(v, "renamed") })
	set("n.points[1].y", func(v *fmu.Variable) error { return fmu.Set(v, 4.0) })
	set("n.samples[0]", func(v *fmu.Variable) error { return fmu.Set(v, -1.0) })

	assert.Equal(t, 7, n.Count)
	assert.Equal(t, float32(0.25), n.Ratio)
	assert.Equal(t, byte('z'), n.Code)
	assert.Equal(t, uint32(9), n.Mask)
	assert.Equal(t, "renamed", n.Name)
	assert.Equal(t, 4.0, n.Points[1][1])
	assert.Equal(t, -1.0, n.Samples[0])

	n.Weight = 8
	v, _ := r.Lookup("n.weight")
	got, err := fmu.Get[float64](v)
	require.NoError(t, err)
	assert.Equal(t, 8.0, got)
}

func TestSerializerCycle(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	s := NewSerializer(r, quietLogger())
	a := newNode("a")
	b := newNode("b")
	a.Next = b
	b.Next = a

	s.Ref("a", a)

	want := append(memberNames("a"), memberNames("a.next")...)
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, s.Archive().Seen(a))
	assert.True(t, s.Archive().Seen(b))
}

type pair struct {
	Left, Right *node
}

func (p *pair) ArchiveOut(a *archive.Archive) {
	a.Ref("left", p.Left)
	a.Ref("right", p.Right)
}

func TestSerializerSharedReference(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	s := NewSerializer(r, quietLogger())
	shared := newNode("shared")

	s.Object("p", &pair{Left: shared, Right: shared})

	if diff := cmp.Diff(memberNames("p.left"), r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializerDeterministic(t *testing.T) {
	walk := func() []string {
		r := fmu.NewRegistry(quietLogger())
		root := newNode("root")
		root.Next = newNode("child")
		NewSerializer(r, quietLogger()).Object("root", root)
		return r.Names()
	}
	if diff := cmp.Diff(walk(), walk()); diff != "" {
		t.Errorf("walks differ (-first +second):\n%s", diff)
	}
}

func TestSerializerDuplicateRejected(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	first := newNode("first")
	NewSerializer(r, quietLogger()).Object("root", first)
	before := r.Names()

	NewSerializer(r, quietLogger()).Object("root", newNode("second"))

	assert.Equal(t, before, r.Names())
	v, ok := r.Lookup("root.name")
	require.True(t, ok)
	got, err := fmu.Get[string](v)
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestSerializerReset(t *testing.T) {
	r := fmu.NewRegistry(quietLogger())
	s := NewSerializer(r, quietLogger())
	n := newNode("n")
	s.Object("one", n)
	s.Object("two", n)
	assert.Empty(t, r.Filter("two."))

	s.Reset()
	s.Object("two", n)
	assert.Len(t, r.Filter("two."), len(memberNames("two")))
}
