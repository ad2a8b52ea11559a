package engine

import (
	"reflect"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
)

// FunctionIndex returns f's stable index, registering it on first use.
// Identity is by function pointer (reflect.Value.Pointer), matching
// functionIndex() in the reference (§6 "Block-function ABI").
func (e *Engine) FunctionIndex(f scratch.BlockFunc) uint32 {
	ptr := reflect.ValueOf(f).Pointer()
	if idx, ok := e.funcIndex[ptr]; ok {
		return idx
	}
	idx := uint32(len(e.funcs))
	e.funcs = append(e.funcs, f)
	e.funcIndex[ptr] = idx
	return idx
}

// FuncAt implements bytecode.FuncResolver, letting the Engine hand itself
// directly to every VM it creates.
func (e *Engine) FuncAt(idx uint32) bytecode.Func { return e.funcs[idx] }

// Compile compiles every hat and custom-block definition belonging to every
// target into that target's shared bytecode.Script (§6 "compile()", called
// once after resolveIds()). Diagnostics are logged, never fatal (§7).
func (e *Engine) Compile() {
	for _, t := range e.targets {
		e.CompileTarget(t)
	}
}

// ScriptFor returns the compiled Script backing target, or nil if target
// has not been compiled (used by developer tooling such as
// cmd/scratchvm's -dump flag, never by the evaluation path itself).
func (e *Engine) ScriptFor(t scratch.ITarget) *bytecode.Script {
	prog := e.programs[t]
	if prog == nil {
		return nil
	}
	return prog.script
}

// CompileTarget (re)compiles one target's hats into a fresh shared Script.
// Every hat and every custom-block definition on the target shares one
// constant/variable/list/procedure pool, so a CALL_PROCEDURE emitted while
// compiling one hat can jump into a definition compiled from another.
func (e *Engine) CompileTarget(t scratch.ITarget) {
	c := compiler.NewCompiler(e, e.registry)
	c.SetTarget(t)
	script := bytecode.NewScript(t.Name())
	c.UseScript(script)

	prog := &targetProgram{script: script, entryOf: make(map[*scratch.Block]uint32)}

	for _, b := range t.Blocks() {
		if !b.TopLevel() || !e.registry.IsHat(b.Opcode()) {
			continue
		}
		b.SetEngine(e)
		b.SetTarget(t)
		entry := c.CompileEntry(b)
		prog.entryOf[b] = entry
		if b.Opcode() == "procedures_definition" {
			proto := b.MutationPrototype()
			c.SetProcedureEntryOffset(proto.ProcCode, entry)
		}
	}

	for _, w := range c.Warnings() {
		e.warnf("%s: %s", t.Name(), w)
	}

	e.programs[t] = prog
}

// instantiate creates and registers a runningScript for hat on target,
// starting execution at hat's compiled entry offset. It does nothing (and
// logs a warning) if target has not been compiled or hat is not one of its
// known entries.
func (e *Engine) instantiate(target scratch.ITarget, hat *scratch.Block) *runningScript {
	prog := e.programs[target]
	if prog == nil {
		e.warnf("%s: no compiled program (target never compiled)", target.Name())
		return nil
	}
	entry, ok := prog.entryOf[hat]
	if !ok {
		e.warnf("%s: block %s is not a compiled entry point", target.Name(), hat.Id())
		return nil
	}

	vm := bytecode.NewVM(prog.script, e)
	vm.Target = target
	vm.Reset()
	vm.SeekTo(entry)

	e.nextScriptID++
	vm.ScriptID = e.nextScriptID

	rs := &runningScript{id: vm.ScriptID, vm: vm, target: target, hat: hat}
	e.runningScripts = append(e.runningScripts, rs)
	return rs
}
