package cosim

import (
	"log/slog"
	"strings"

	"github.com/san-kum/dynfmu/internal/archive"
	"github.com/san-kum/dynfmu/internal/fmu"
)

// Serializer flattens an archived object graph into FMU variables. Members
// of objects are joined with '.', array elements with "[i]". Values are bound
// in place, so the archived objects must outlive the registry.
//
// A Serializer remembers every object it has walked: an object reached a
// second time keeps its naming path but its members are not registered
// again. Call Reset to forget them.
type Serializer struct {
	registry *fmu.Registry
	logger   *slog.Logger
	archive  *archive.Archive

	parentNames []string
	isArray     []bool
	nitems      []int

	skipped int
}

func NewSerializer(r *fmu.Registry, logger *slog.Logger) *Serializer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Serializer{registry: r, logger: logger}
	s.archive = archive.New(s)
	s.resetLevels()
	return s
}

// Archive returns the archive driving this serializer.
func (s *Serializer) Archive() *archive.Archive { return s.archive }

// Object walks obj as a member owned by value under name.
func (s *Serializer) Object(name string, obj archive.Serializable) {
	s.archive.Object(name, obj)
}

// Ref walks obj as a possibly shared reference under name.
func (s *Serializer) Ref(name string, obj archive.Serializable) {
	s.archive.Ref(name, obj)
}

// Reset forgets the objects walked so far.
func (s *Serializer) Reset() {
	s.archive.Reset()
	s.resetLevels()
	s.skipped = 0
}

// Skipped counts scalars that have no FMU representation and were dropped.
func (s *Serializer) Skipped() int { return s.skipped }

func (s *Serializer) resetLevels() {
	s.parentNames = s.parentNames[:0]
	s.isArray = append(s.isArray[:0], false)
	s.nitems = append(s.nitems[:0], 0)
}

// varName composes the full name of leaf under the current levels. A
// segment is bracketed when the level that encloses it is an array.
func (s *Serializer) varName(leaf string) string {
	if len(s.parentNames) == 0 {
		return leaf
	}
	var b strings.Builder
	b.WriteString(s.parentNames[0])
	for i := 1; i < len(s.parentNames); i++ {
		writeSegment(&b, s.parentNames[i], s.isArray[i])
	}
	writeSegment(&b, leaf, s.isArray[len(s.isArray)-1])
	return b.String()
}

func writeSegment(b *strings.Builder, seg string, inArray bool) {
	if inArray {
		b.WriteByte('[')
		b.WriteString(seg)
		b.WriteByte(']')
		return
	}
	b.WriteByte('.')
	b.WriteString(seg)
}

func (s *Serializer) push(name string, array bool) {
	s.parentNames = append(s.parentNames, name)
	s.isArray = append(s.isArray, array)
	s.nitems = append(s.nitems, 0)
}

func (s *Serializer) pop() {
	s.parentNames = s.parentNames[:len(s.parentNames)-1]
	s.isArray = s.isArray[:len(s.isArray)-1]
	s.nitems = s.nitems[:len(s.nitems)-1]
	s.count()
}

func (s *Serializer) count() { s.nitems[len(s.nitems)-1]++ }

// register adds the variable and counts the item. Rejections are logged by
// the registry and never stop the walk.
func register[T any](s *Serializer, nv archive.NameValue[T], b fmu.Binding) {
	s.registry.Register(s.varName(nv.Name), b, metaOf(nv, b.Type()))
	s.count()
}

func (s *Serializer) OutFloat64(v archive.NameValue[float64]) {
	register(s, v, fmu.Pointer(v.Value))
}

func (s *Serializer) OutFloat32(v archive.NameValue[float32]) {
	p := v.Value
	register(s, v, fmu.Accessors(
		func() float64 { return float64(*p) },
		func(x float64) { *p = float32(x) },
	))
}

func (s *Serializer) OutInt(v archive.NameValue[int]) {
	p := v.Value
	register(s, v, fmu.Accessors(
		func() int32 { return int32(*p) },
		func(x int32) { *p = int(x) },
	))
}

func (s *Serializer) OutChar(v archive.NameValue[byte]) {
	p := v.Value
	register(s, v, fmu.Accessors(
		func() int32 { return int32(*p) },
		func(x int32) { *p = byte(x) },
	))
}

func (s *Serializer) OutUint(v archive.NameValue[uint32]) {
	p := v.Value
	register(s, v, fmu.Accessors(
		func() int32 { return int32(*p) },
		func(x int32) { *p = uint32(x) },
	))
}

func (s *Serializer) OutBool(v archive.NameValue[bool]) {
	register(s, v, fmu.Pointer(v.Value))
}

func (s *Serializer) OutString(v archive.NameValue[string]) {
	register(s, v, fmu.Pointer(v.Value))
}

// OutUint64 has no FMI 2.0 type wide enough; the value is dropped.
func (s *Serializer) OutUint64(v archive.NameValue[uint64]) {
	s.drop(v.Name, "uint64")
}

// OutEnum is not exported; the value is dropped.
func (s *Serializer) OutEnum(name string, e archive.EnumMapper) {
	s.drop(name, "enum")
}

func (s *Serializer) drop(name, kind string) {
	s.skipped++
	s.logger.Debug("scalar not exported", "name", s.varName(name), "kind", kind)
	s.count()
}

func (s *Serializer) OutArrayPre(name string, size int) { s.push(name, true) }

func (s *Serializer) OutArrayBetween(name string, size int) {}

func (s *Serializer) OutArrayEnd(name string, size int) { s.pop() }

func (s *Serializer) OutObject(v archive.Value, alreadyInserted bool, id uint64) {
	s.push(v.Name, false)
	if !alreadyInserted {
		v.CallArchiveOut()
	}
	s.pop()
}

func (s *Serializer) OutRef(v archive.Value, alreadyInserted bool, id uint64) {
	s.push(v.Name, false)
	if !alreadyInserted {
		v.CallArchiveOutConstructor()
		v.CallArchiveOut()
	}
	s.pop()
}
