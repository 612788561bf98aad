package fmu

import (
	"log/slog"
	"strings"
)

// Registry is the ordered table of FMU variables, keyed by name. It performs
// no locking: registration and stepping happen on one goroutine.
type Registry struct {
	vars    []*Variable
	byName  map[string]*Variable
	byRef   map[Type]map[uint32]*Variable
	nextRef map[Type]uint32
	arena   arena
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{logger: logger}
	r.Clear()
	return r
}

// Register adds a variable. A name that is already taken, or attributes that
// FMI does not allow, are logged and rejected; the existing entry is left
// untouched.
func (r *Registry) Register(name string, b Binding, meta Meta) (*Variable, error) {
	if name == "" {
		r.logger.Warn("variable registration rejected", "reason", "empty name")
		return nil, ErrEmptyName
	}
	if existing, ok := r.byName[name]; ok {
		r.logger.Warn("duplicate variable registration ignored",
			"name", name, "existing", existing.Type().String(), "new", b.Type().String())
		return nil, &VariableError{Name: name, Op: "register", Wrapped: ErrDuplicateVariable}
	}
	t := b.Type()
	if !validCombination(t, meta.Causality, meta.Variability) {
		r.logger.Warn("variable registration rejected",
			"name", name, "type", t.String(),
			"causality", meta.Causality.String(), "variability", meta.Variability.String())
		return nil, &VariableError{Name: name, Op: "register", Wrapped: ErrInvalidAttributes}
	}

	v := &Variable{
		name:           name,
		valueReference: r.nextRef[t],
		meta:           meta,
		binding:        b,
	}
	r.nextRef[t]++
	r.vars = append(r.vars, v)
	r.byName[name] = v
	r.byRef[t][v.valueReference] = v
	return v, nil
}

// Lookup returns the variable registered under name.
func (r *Registry) Lookup(name string) (*Variable, bool) {
	v, ok := r.byName[name]
	return v, ok
}

// ByReference returns the variable of type t with value reference vr.
func (r *Registry) ByReference(t Type, vr uint32) (*Variable, bool) {
	v, ok := r.byRef[t][vr]
	return v, ok
}

// Variables returns the variables in registration order.
func (r *Registry) Variables() []*Variable {
	out := make([]*Variable, len(r.vars))
	copy(out, r.vars)
	return out
}

// Names returns the variable names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.vars))
	for i, v := range r.vars {
		out[i] = v.name
	}
	return out
}

// Filter returns the variables whose name starts with prefix.
func (r *Registry) Filter(prefix string) []*Variable {
	var out []*Variable
	for _, v := range r.vars {
		if strings.HasPrefix(v.name, prefix) {
			out = append(out, v)
		}
	}
	return out
}

func (r *Registry) Len() int { return len(r.vars) }

// RemovePrefix drops every variable whose name starts with prefix and returns
// how many were removed. Value references are not reused.
func (r *Registry) RemovePrefix(prefix string) int {
	kept := r.vars[:0]
	removed := 0
	for _, v := range r.vars {
		if strings.HasPrefix(v.name, prefix) {
			delete(r.byName, v.name)
			delete(r.byRef[v.Type()], v.valueReference)
			removed++
			continue
		}
		kept = append(kept, v)
	}
	for i := len(kept); i < len(r.vars); i++ {
		r.vars[i] = nil
	}
	r.vars = kept
	return removed
}

// Clear drops every variable and the registry-owned storage.
func (r *Registry) Clear() {
	r.vars = nil
	r.byName = make(map[string]*Variable)
	r.byRef = map[Type]map[uint32]*Variable{
		TypeReal:    {},
		TypeInteger: {},
		TypeBoolean: {},
		TypeString:  {},
	}
	r.nextRef = make(map[Type]uint32)
	r.arena.reset()
}
