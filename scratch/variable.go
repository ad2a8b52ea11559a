package scratch

import "github.com/chazu/maggie/value"

// Variable is (id, name, owning target, current Value) — §3.
type Variable struct {
	entity
	name   string
	target ITarget
	val    value.Value
}

// NewVariable constructs a Variable, defaulting its value to the integer 0.
func NewVariable(id, name string) *Variable {
	return &Variable{entity: entity{id: id}, name: name, val: value.Int(0)}
}

// NewVariableWithValue constructs a Variable carrying an initial value (used
// when cloning a sprite's variables by deep value copy).
func NewVariableWithValue(id, name string, v value.Value) *Variable {
	return &Variable{entity: entity{id: id}, name: name, val: v}
}

func (v *Variable) Name() string      { return v.name }
func (v *Variable) SetName(n string)  { v.name = n }
func (v *Variable) Target() ITarget   { return v.target }
func (v *Variable) SetTarget(t ITarget) { v.target = t }
func (v *Variable) Value() value.Value  { return v.val }
func (v *Variable) SetValue(nv value.Value) { v.val = nv }

// ValuePtr returns a pointer to the variable's storage cell, mirroring the
// reference's Value* valuePtr() used by the compiler's variablePtrs().
func (v *Variable) ValuePtr() *value.Value { return &v.val }
