package blocks

import (
	"testing"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// TestProcedureCallPassesArguments builds a custom block "add(a, b)" whose
// body reads both argument reporters and records their sum, then calls it
// once from a green-flag-less root, verifying CALL_PROCEDURE/READ_ARG wiring
// end to end.
func TestProcedureCallPassesArguments(t *testing.T) {
	eng := newFakeEngine()
	stage := newStageTarget(eng)
	reg := newRegistry()

	proto := &scratch.BlockPrototype{ProcCode: "add %n %n", ArgNames: []string{"a", "b"}}

	argA := newOpBlock(reg, "argA", "argument_reporter_string_number")
	argA.AddField(literalField("VALUE", "a"))
	argB := newOpBlock(reg, "argB", "argument_reporter_string_number")
	argB.AddField(literalField("VALUE", "b"))

	var recorded float64
	sumBlock := scratch.NewBlock("sum", "test_sum")
	sumBlock.AddInput(reporterInput("A", argA))
	sumBlock.AddInput(reporterInput("B", argB))
	sumBlock.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
		c.AddInputValue(blk.InputAt(0))
		c.AddInputValue(blk.InputAt(1))
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			b := vm.Pop().ToDouble()
			a := vm.Pop().ToDouble()
			recorded = a + b
			return 0
		})
	})

	def := newOpBlock(reg, "def", "procedures_definition")
	def.MutationPrototype().ProcCode = proto.ProcCode
	def.MutationPrototype().ArgNames = proto.ArgNames
	def.SetNext(sumBlock)

	call := newOpBlock(reg, "call", "procedures_call")
	call.MutationPrototype().ProcCode = proto.ProcCode
	call.MutationPrototype().ArgNames = proto.ArgNames
	call.AddInput(literalInput("a", value.Int(4)))
	call.AddInput(literalInput("b", value.Int(5)))

	c := compiler.NewCompiler(eng, reg)
	c.SetTarget(stage)
	script := bytecode.NewScript("test")
	c.UseScript(script)

	defEntry := c.CompileEntry(def)
	c.SetProcedureEntryOffset(proto.ProcCode, defEntry)
	callEntry := c.CompileEntry(call)

	vm := bytecode.NewVM(script, &fakeResolver{funcs: eng.funcs})
	vm.Target = stage
	vm.Reset()
	vm.SeekTo(callEntry)
	vm.Run()

	if recorded != 9 {
		t.Errorf("procedure call result = %v, want 9", recorded)
	}
}

func TestArgumentReporterUnknownNameLowersToNull(t *testing.T) {
	eng := newFakeEngine()
	stage := newStageTarget(eng)
	reg := newRegistry()

	proto := &scratch.BlockPrototype{ProcCode: "p", ArgNames: []string{"known"}}

	def := newOpBlock(reg, "def", "procedures_definition")
	def.MutationPrototype().ProcCode = proto.ProcCode
	def.MutationPrototype().ArgNames = proto.ArgNames

	unknown := newOpBlock(reg, "unk", "argument_reporter_string_number")
	unknown.AddField(literalField("VALUE", "missing"))
	def.SetNext(unknown)

	c := compiler.NewCompiler(eng, reg)
	c.SetTarget(stage)
	script := bytecode.NewScript("test")
	c.UseScript(script)
	c.CompileEntry(def)

	if len(c.Warnings()) == 0 {
		t.Error("expected a warning for an unresolvable argument reporter")
	}
}
