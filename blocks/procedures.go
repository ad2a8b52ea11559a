package blocks

import (
	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
)

// registerProcedures wires custom-block definitions, call sites, and
// argument reporters (§4.2 "Procedures"). procedures_definition is a hat:
// the engine enumerates it among script roots the same way it does
// event_whenflagclicked, but its entry offset is only ever reached via
// CALL_PROCEDURE, never instantiated directly by Start/InitClone/Broadcast.
func registerProcedures(r *compiler.Registry) {
	r.RegisterHat("procedures_definition", compileProcedureDefinition)
	r.RegisterCompile("procedures_call", compileProcedureCall)
	r.RegisterCompile("argument_reporter_string_number", compileArgumentReporter)
	r.RegisterCompile("argument_reporter_boolean", compileArgumentReporter)
}

// compileProcedureDefinition declares this definition's prototype to the
// compiler (so argument_reporter_* blocks compiled inside its body can
// resolve READ_ARG indices) and registers its argument names in
// declaration order, which is also the order CALL_PROCEDURE's caller must
// push them in.
func compileProcedureDefinition(c scratch.Compiler, b *scratch.Block) {
	proto := b.MutationPrototype()
	if proto.ProcCode == "" {
		c.Warnf("procedures_definition: %s carries no proccode mutation", b.Id())
		return
	}
	c.SetProcedurePrototype(proto)
	if proto.Warp {
		c.Warp()
	}
	for _, name := range proto.ArgNames {
		c.AddProcedureArg(proto.ProcCode, name)
	}
}

// compileProcedureCall pushes every declared argument (by name, looked up
// against this call site's own inputs) in declaration order, then emits
// CALL_PROCEDURE. A call site compiled before its definition still
// resolves a valid (if not yet entry-resolved) pool index, since
// Script.ProcedureIndex allocates on first reference (§4.2 "Procedures":
// "a call site emits CALL_PROCEDURE, proc-idx").
func compileProcedureCall(c scratch.Compiler, b *scratch.Block) {
	proto := b.MutationPrototype()
	if proto.ProcCode == "" {
		c.Warnf("procedures_call: %s carries no proccode mutation", b.Id())
		c.AddInstruction(bytecode.OpNull)
		return
	}
	for _, name := range proto.ArgNames {
		in := input(c, name)
		if in == nil {
			c.Warnf("procedures_call: %s has no input for argument %q", proto.ProcCode, name)
			c.AddInstruction(bytecode.OpNull)
			continue
		}
		c.AddInputValue(in)
	}
	idx := c.ProcedureIndex(proto.ProcCode)
	c.AddInstruction(bytecode.OpCallProcedure, uint32(idx))
}

// compileArgumentReporter resolves an argument_reporter_* block (read via
// its VALUE field, the argument's display name) against the prototype of
// the definition currently being compiled. Used outside any definition, or
// naming an argument the prototype doesn't declare, is a project-structural
// error: log and lower to NULL rather than fail the whole compile (§7).
func compileArgumentReporter(c scratch.Compiler, b *scratch.Block) {
	name := fieldValue(c, "VALUE")
	proto := c.ProcedurePrototype()
	if proto == nil {
		c.Warnf("%s: argument reporter %q used outside a procedure definition", b.Id(), name)
		c.AddInstruction(bytecode.OpNull)
		return
	}
	idx := c.ProcedureArgIndex(proto.ProcCode, name)
	if idx < 0 {
		c.Warnf("%s: unknown argument %q in procedure %s", b.Id(), name, proto.ProcCode)
		c.AddInstruction(bytecode.OpNull)
		return
	}
	c.AddInstruction(bytecode.OpReadArg, uint32(idx))
}
