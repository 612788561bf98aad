package archive

import (
	"reflect"
	"strconv"
)

// Serializable objects describe their members to an archive.
type Serializable interface {
	ArchiveOut(a *Archive)
}

// Constructor is implemented by objects that need construction-time values
// written before their members when they are reached through a reference.
type Constructor interface {
	ArchiveOutConstructor(a *Archive)
}

// Sink receives the values walked by an Archive.
type Sink interface {
	OutBool(v NameValue[bool])
	OutInt(v NameValue[int])
	OutFloat64(v NameValue[float64])
	OutFloat32(v NameValue[float32])
	OutChar(v NameValue[byte])
	OutUint(v NameValue[uint32])
	OutString(v NameValue[string])
	OutUint64(v NameValue[uint64])
	OutEnum(name string, e EnumMapper)

	OutArrayPre(name string, size int)
	OutArrayBetween(name string, size int)
	OutArrayEnd(name string, size int)

	// OutObject is called for objects embedded by value in their parent.
	OutObject(v Value, alreadyInserted bool, id uint64)
	// OutRef is called for objects reached through a pointer that may be
	// shared with other parts of the graph.
	OutRef(v Value, alreadyInserted bool, id uint64)
}

type identity struct {
	typ  reflect.Type
	addr uintptr
}

// Archive drives a Sink over an object graph. It is not safe for concurrent
// use.
type Archive struct {
	sink Sink
	ids  map[identity]uint64
	next uint64
}

func New(sink Sink) *Archive {
	return &Archive{
		sink: sink,
		ids:  make(map[identity]uint64),
	}
}

// Reset forgets every object seen so far, so a later walk serializes them again.
func (a *Archive) Reset() {
	a.ids = make(map[identity]uint64)
	a.next = 0
}

// Seen reports whether obj has already been serialized through this archive.
func (a *Archive) Seen(obj Serializable) bool {
	key, ok := identityOf(obj)
	if !ok {
		return false
	}
	_, seen := a.ids[key]
	return seen
}

func (a *Archive) Bool(name string, v *bool, opts ...Option) {
	a.sink.OutBool(makeNameValue(name, v, opts))
}

func (a *Archive) Int(name string, v *int, opts ...Option) {
	a.sink.OutInt(makeNameValue(name, v, opts))
}

func (a *Archive) Float64(name string, v *float64, opts ...Option) {
	a.sink.OutFloat64(makeNameValue(name, v, opts))
}

func (a *Archive) Float32(name string, v *float32, opts ...Option) {
	a.sink.OutFloat32(makeNameValue(name, v, opts))
}

func (a *Archive) Char(name string, v *byte, opts ...Option) {
	a.sink.OutChar(makeNameValue(name, v, opts))
}

func (a *Archive) Uint(name string, v *uint32, opts ...Option) {
	a.sink.OutUint(makeNameValue(name, v, opts))
}

func (a *Archive) String(name string, v *string, opts ...Option) {
	a.sink.OutString(makeNameValue(name, v, opts))
}

func (a *Archive) Uint64(name string, v *uint64, opts ...Option) {
	a.sink.OutUint64(makeNameValue(name, v, opts))
}

func (a *Archive) Enum(name string, e EnumMapper) {
	a.sink.OutEnum(name, e)
}

// Object writes a nested object owned by value by its parent.
func (a *Archive) Object(name string, obj Serializable) {
	if isNil(obj) {
		return
	}
	id, seen := a.track(obj)
	a.sink.OutObject(Value{Name: name, obj: obj, a: a}, seen, id)
}

// Ref writes an object reached through a possibly shared pointer. Nil
// references are skipped.
func (a *Archive) Ref(name string, obj Serializable) {
	if isNil(obj) {
		return
	}
	id, seen := a.track(obj)
	a.sink.OutRef(Value{Name: name, obj: obj, a: a}, seen, id)
}

// Array writes size elements under name; elem is called once per index and
// must write exactly one value named Index(i).
func (a *Archive) Array(name string, size int, elem func(i int)) {
	a.sink.OutArrayPre(name, size)
	for i := 0; i < size; i++ {
		elem(i)
		if i < size-1 {
			a.sink.OutArrayBetween(name, size)
		}
	}
	a.sink.OutArrayEnd(name, size)
}

// Index is the element name used for position i of an array.
func Index(i int) string { return strconv.Itoa(i) }

// Float64Slice writes every element of s as an array of reals.
func Float64Slice(a *Archive, name string, s []float64, opts ...Option) {
	a.Array(name, len(s), func(i int) {
		a.Float64(Index(i), &s[i], opts...)
	})
}

// RefSlice writes every element of s as an array of references.
func RefSlice[T Serializable](a *Archive, name string, s []T) {
	a.Array(name, len(s), func(i int) {
		a.Ref(Index(i), s[i])
	})
}

func (a *Archive) track(obj Serializable) (uint64, bool) {
	key, ok := identityOf(obj)
	if !ok {
		a.next++
		return a.next, false
	}
	if id, seen := a.ids[key]; seen {
		return id, true
	}
	a.next++
	a.ids[key] = a.next
	return a.next, false
}

// identityOf keys pointer-backed objects by type and address. Values without
// a stable address are never considered seen.
func identityOf(obj Serializable) (identity, bool) {
	rv := reflect.ValueOf(obj)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return identity{}, false
	}
	return identity{typ: rv.Type(), addr: rv.Pointer()}, true
}

func isNil(obj Serializable) bool {
	if obj == nil {
		return true
	}
	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	}
	return false
}
