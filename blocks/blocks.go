// Package blocks is the library of compile functions for real Scratch
// opcodes, registered into a compiler.Registry (§4.1). Each file groups one
// block category the way the reference groups its IBlockSection
// implementations, but here every category is a plain registration
// function rather than a type, since a Section carries no state of its own
// beyond the ids it registers.
package blocks

import (
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
)

// Register installs every block family this package implements into r. An
// embedder builds its registry once, at startup, before compiling any
// project.
func Register(r *compiler.Registry) {
	registerEvents(r)
	registerControl(r)
	registerData(r)
	registerOperators(r)
	registerProcedures(r)
	registerMotion(r)
	registerLooks(r)
	registerSensing(r)
	registerSound(r)
}

// input returns the named input on the block currently being compiled, or
// nil if it carries none by that name. Block glue in this package resolves
// inputs and fields by name rather than by the numeric-id fast path
// Compiler.Input/Field expose, since nothing here needs to survive a
// project's own id renumbering.
func input(c scratch.Compiler, name string) *scratch.Input {
	idx := c.Block().FindInput(name)
	if idx < 0 {
		return nil
	}
	return c.Block().InputAt(idx)
}

// compileInput compiles the named input inline, pushing its value (a
// constant or a reporter's result) onto the register stack.
func compileInput(c scratch.Compiler, name string) {
	c.AddInputValue(input(c, name))
}

// substack returns the block chain fed to the named input, if any (used by
// control blocks whose body is itself an input rather than a field).
func substack(c scratch.Compiler, name string) *scratch.Block {
	in := input(c, name)
	if in == nil {
		return nil
	}
	return in.ValueBlock()
}

// field returns the named field on the block currently being compiled.
func field(c scratch.Compiler, name string) *scratch.Field {
	idx := c.Block().FindField(name)
	if idx < 0 {
		return nil
	}
	return c.Block().FieldAt(idx)
}

// fieldValue returns the named field's literal string, or "" if absent.
func fieldValue(c scratch.Compiler, name string) string {
	f := field(c, name)
	if f == nil {
		return ""
	}
	return f.Value()
}

// resolveVariable resolves the named field to a Variable, preferring a
// project loader's pre-linked entity and falling back to a name lookup
// against the target currently being compiled (§3 "Lifecycles": this is
// what lets a clone's own variable, rather than its clone-root's, be bound
// when its script family is recompiled for it).
func resolveVariable(c scratch.Compiler, fieldName string) *scratch.Variable {
	f := field(c, fieldName)
	if f == nil {
		return nil
	}
	if v, ok := f.LinkedEntity().(*scratch.Variable); ok && v != nil {
		return v
	}
	t := c.Target()
	if t == nil {
		return nil
	}
	if i := t.FindVariable(f.Value()); i >= 0 {
		return t.VariableAt(i)
	}
	return nil
}

// resolveList mirrors resolveVariable for the LIST field family.
func resolveList(c scratch.Compiler, fieldName string) *scratch.List {
	f := field(c, fieldName)
	if f == nil {
		return nil
	}
	if l, ok := f.LinkedEntity().(*scratch.List); ok && l != nil {
		return l
	}
	t := c.Target()
	if t == nil {
		return nil
	}
	if i := t.FindList(f.Value()); i >= 0 {
		return t.ListAt(i)
	}
	return nil
}
