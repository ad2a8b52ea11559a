package bytecode

import "github.com/chazu/maggie/value"

// VarCell is the minimal read/write surface READ_VAR/SET_VAR/CHANGE_VAR need
// from a pooled variable. scratch.Variable satisfies this structurally; the
// package boundary exists so bytecode never has to import scratch (which
// itself imports bytecode for the BlockFunc signature).
type VarCell interface {
	Value() value.Value
	SetValue(value.Value)
}

// ListCell is the minimal surface the LIST_* opcodes need from a pooled
// list. scratch.List satisfies this structurally.
type ListCell interface {
	Len() int
	At(i int) value.Value
	Set(i int, v value.Value) bool
	Append(v value.Value)
	Insert(i int, v value.Value) bool
	Delete(i int) bool
	Clear()
	IndexOf(v value.Value) int
	Contains(v value.Value) bool
}

// Procedure describes one compiled custom-block definition (§4.2
// "Procedures"): its call signature and the offset in Code where its body
// begins.
type Procedure struct {
	ProcCode    string
	ArgNames    []string
	Warp        bool
	EntryOffset uint32
}

// Script is a compiled unit: the instruction stream plus the constant,
// variable, list, and procedure pools the instructions index into. It is
// the spec's "Chunk" — a compiled bytecode unit with everything a VM needs
// to run it, minus the mutable register stack (which lives per-VM so many
// clones can share one Script).
type Script struct {
	Code []uint32

	Constants  []value.Value
	Variables  []VarCell
	Lists      []ListCell
	Procedures []Procedure

	Name string // display name given to NewScript (the engine uses the target's name), for disassembly headers only
}

// NewScript returns an empty Script ready for a compiler to append to.
func NewScript(name string) *Script {
	return &Script{Name: name}
}

// Emit appends one instruction (opcode plus its fixed-arity arguments) and
// returns the word offset the opcode landed at, for callers that need to
// patch a forward jump later.
func (s *Script) Emit(op Opcode, args ...uint32) uint32 {
	offset := uint32(len(s.Code))
	s.Code = append(s.Code, uint32(op))
	s.Code = append(s.Code, args...)
	return offset
}

// PatchArg overwrites the argN-th argument word of the instruction at
// opOffset (0-indexed among that instruction's arguments). Used to back-fill
// forward jump targets once the destination is known.
func (s *Script) PatchArg(opOffset uint32, argN int, value uint32) {
	s.Code[opOffset+1+uint32(argN)] = value
}

// ConstIndex appends v to the constant pool and returns its new index. It
// never de-duplicates: every call adds an entry, even for a value already
// present. Compilers that need value-pointer identity de-duplication (§4.2)
// track that themselves; this helper suits callers that do not (e.g. tests
// constructing scripts by hand).
func (s *Script) ConstIndex(v value.Value) uint32 {
	s.Constants = append(s.Constants, v)
	return uint32(len(s.Constants) - 1)
}

// VariableIndex appends a variable to the pool if not already present
// (identity comparison) and returns its index.
func (s *Script) VariableIndex(v VarCell) uint32 {
	for i, existing := range s.Variables {
		if existing == v {
			return uint32(i)
		}
	}
	s.Variables = append(s.Variables, v)
	return uint32(len(s.Variables) - 1)
}

// ListIndex appends a list to the pool if not already present (identity
// comparison) and returns its index.
func (s *Script) ListIndex(l ListCell) uint32 {
	for i, existing := range s.Lists {
		if existing == l {
			return uint32(i)
		}
	}
	s.Lists = append(s.Lists, l)
	return uint32(len(s.Lists) - 1)
}

// ProcedureIndex returns the pool index of procCode, registering an empty
// entry (no argument names, entry offset unresolved) if this is the first
// reference — a call site may compile before the definition does.
func (s *Script) ProcedureIndex(procCode string) uint32 {
	for i, p := range s.Procedures {
		if p.ProcCode == procCode {
			return uint32(i)
		}
	}
	s.Procedures = append(s.Procedures, Procedure{ProcCode: procCode})
	return uint32(len(s.Procedures) - 1)
}

// ProcedureArgIndex returns the slot of argName within procCode's argument
// list, or -1 if procCode or argName is unknown.
func (s *Script) ProcedureArgIndex(procCode, argName string) int {
	for _, p := range s.Procedures {
		if p.ProcCode != procCode {
			continue
		}
		for i, a := range p.ArgNames {
			if a == argName {
				return i
			}
		}
		return -1
	}
	return -1
}
