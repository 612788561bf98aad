package fmu

// Scalar is the set of Go types that carry FMI values.
type Scalar interface {
	float64 | int32 | bool | string
}

// Binding connects a variable to its value.
type Binding interface {
	Type() Type
	Mode() StorageMode
}

// Accessor reads and writes a binding's value as T.
type Accessor[T Scalar] interface {
	Binding
	Get() T
	Set(T)
}

func typeOf[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case float64:
		return TypeReal
	case int32:
		return TypeInteger
	case bool:
		return TypeBoolean
	case string:
		return TypeString
	}
	panic("fmu: unsupported scalar type")
}

type pointerBinding[T Scalar] struct {
	p *T
}

// Pointer binds a variable directly to caller-owned storage. The storage must
// outlive the registry.
func Pointer[T Scalar](p *T) Accessor[T] {
	return pointerBinding[T]{p: p}
}

func (b pointerBinding[T]) Type() Type        { return typeOf[T]() }
func (b pointerBinding[T]) Mode() StorageMode { return DirectPointer }
func (b pointerBinding[T]) Get() T            { return *b.p }
func (b pointerBinding[T]) Set(v T)           { *b.p = v }

type accessorBinding[T Scalar] struct {
	get func() T
	set func(T)
}

// Accessors binds a variable to a getter and setter. A nil setter makes
// every write a no-op.
func Accessors[T Scalar](get func() T, set func(T)) Accessor[T] {
	if set == nil {
		set = func(T) {}
	}
	return accessorBinding[T]{get: get, set: set}
}

// ReadOnly binds a variable to a getter whose writes are ignored.
func ReadOnly[T Scalar](get func() T) Accessor[T] {
	return Accessors(get, nil)
}

func (b accessorBinding[T]) Type() Type        { return typeOf[T]() }
func (b accessorBinding[T]) Mode() StorageMode { return AccessorPair }
func (b accessorBinding[T]) Get() T            { return b.get() }
func (b accessorBinding[T]) Set(v T)           { b.set(v) }

// arena holds values whose lifetime is tied to a registry. Bindings address
// them by index so growth never invalidates an existing binding.
type arena struct {
	reals   []float64
	ints    []int32
	bools   []bool
	strings []string
}

func arenaSlice[T Scalar](a *arena) *[]T {
	var p any
	switch any(*new(T)).(type) {
	case float64:
		p = &a.reals
	case int32:
		p = &a.ints
	case bool:
		p = &a.bools
	case string:
		p = &a.strings
	}
	return p.(*[]T)
}

func (a *arena) reset() {
	a.reals = nil
	a.ints = nil
	a.bools = nil
	a.strings = nil
}

type arenaBinding[T Scalar] struct {
	store *[]T
	idx   int
}

func (b arenaBinding[T]) Type() Type        { return typeOf[T]() }
func (b arenaBinding[T]) Mode() StorageMode { return Arena }
func (b arenaBinding[T]) Get() T            { return (*b.store)[b.idx] }
func (b arenaBinding[T]) Set(v T)           { (*b.store)[b.idx] = v }

// Keep copies v into storage owned by r and returns a binding to it.
func Keep[T Scalar](r *Registry, v T) Accessor[T] {
	s := arenaSlice[T](&r.arena)
	*s = append(*s, v)
	return arenaBinding[T]{store: s, idx: len(*s) - 1}
}
