package compiler

import "github.com/chazu/maggie/scratch"

// Section is a namespaced catalogue of block support: opcode compile
// functions, hat markers, and the numeric input/field ids a compile
// function uses to avoid string lookups (§4.1). A real project registers
// one Section per block category (motion, looks, control, ...); the
// registry keyed by opcode is shared across every category.
type Section struct {
	Name string
}

// Registry is the engine-wide table every Section registers into. Re-
// registering an opcode, input, or field overwrites the previous mapping
// (§4.1 "last writer wins").
type Registry struct {
	compileFns map[string]scratch.BlockComp
	hats       map[string]bool
	inputIDs   map[string]map[string]int // opcode -> input name -> id
	fieldIDs   map[string]map[string]int // opcode -> field name -> id
	valueIDs   map[string]map[string]int // opcode -> field value -> id
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		compileFns: make(map[string]scratch.BlockComp),
		hats:       make(map[string]bool),
		inputIDs:   make(map[string]map[string]int),
		fieldIDs:   make(map[string]map[string]int),
		valueIDs:   make(map[string]map[string]int),
	}
}

// RegisterCompile maps opcode to a compile function.
func (r *Registry) RegisterCompile(opcode string, fn scratch.BlockComp) {
	r.compileFns[opcode] = fn
}

// RegisterHat marks opcode as a hat block: the engine enumerates blocks
// with this opcode among script roots. A hat's compile function is
// typically a no-op (the hat itself does nothing at runtime beyond marking
// where a script begins).
func (r *Registry) RegisterHat(opcode string, fn scratch.BlockComp) {
	r.hats[opcode] = true
	r.compileFns[opcode] = fn
}

// RegisterInput assigns a numeric id to an input name within opcode's
// namespace.
func (r *Registry) RegisterInput(opcode, name string, id int) {
	m, ok := r.inputIDs[opcode]
	if !ok {
		m = make(map[string]int)
		r.inputIDs[opcode] = m
	}
	m[name] = id
}

// RegisterField assigns a numeric id to a field name within opcode's
// namespace.
func (r *Registry) RegisterField(opcode, name string, id int) {
	m, ok := r.fieldIDs[opcode]
	if !ok {
		m = make(map[string]int)
		r.fieldIDs[opcode] = m
	}
	m[name] = id
}

// RegisterFieldValue assigns a numeric id to a field's string value within
// opcode's namespace (used for dropdown-style fields like rotation style).
func (r *Registry) RegisterFieldValue(opcode, value string, id int) {
	m, ok := r.valueIDs[opcode]
	if !ok {
		m = make(map[string]int)
		r.valueIDs[opcode] = m
	}
	m[value] = id
}

// CompileFunc returns the compile function registered for opcode, or nil.
func (r *Registry) CompileFunc(opcode string) scratch.BlockComp { return r.compileFns[opcode] }

// IsHat reports whether opcode was registered as a hat.
func (r *Registry) IsHat(opcode string) bool { return r.hats[opcode] }

// InputID returns the numeric id registered for name under opcode, or -1.
func (r *Registry) InputID(opcode, name string) int {
	if m, ok := r.inputIDs[opcode]; ok {
		if id, ok := m[name]; ok {
			return id
		}
	}
	return -1
}

// FieldID returns the numeric id registered for name under opcode, or -1.
func (r *Registry) FieldID(opcode, name string) int {
	if m, ok := r.fieldIDs[opcode]; ok {
		if id, ok := m[name]; ok {
			return id
		}
	}
	return -1
}
