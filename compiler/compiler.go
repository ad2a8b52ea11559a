package compiler

import (
	"fmt"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

type substackFrame struct {
	kind        scratch.SubstackType
	after       *scratch.Block
	second      *scratch.Block
	patchOffset uint32
	headOffset  uint32
}

// Compiler lowers one block tree, rooted at a hat or top-level reporter,
// into a bytecode.Script (§4.2). Compile gives each root a fresh Script;
// UseScript plus repeated CompileEntry calls let one Compiler compile
// several roots (a target's hats and definitions) into one shared Script.
type Compiler struct {
	engine   scratch.IEngine
	registry *Registry
	script   *bytecode.Script

	target   scratch.ITarget
	block    *scratch.Block
	substack []substackFrame

	pendingLoopHead uint32
	lastInstrOffset uint32
	warp            bool

	// constIndex de-duplicates constants by InputValue pointer identity
	// (§4.2), which a plain by-value pool index cannot express.
	constIndex map[*scratch.InputValue]uint32

	procPrototype *scratch.BlockPrototype
	procArgs      map[string][]string

	warnings []string
}

// NewCompiler constructs a Compiler for the given engine and registry. The
// registry supplies compile functions and hat markers for every block
// opcode the compiler will encounter.
func NewCompiler(engine scratch.IEngine, registry *Registry) *Compiler {
	return &Compiler{
		engine:     engine,
		registry:   registry,
		constIndex: make(map[*scratch.InputValue]uint32),
		procArgs:   make(map[string][]string),
	}
}

// Compile walks the block tree rooted at root and returns a fresh Script
// containing only that root (§4.2 "Compiling a block tree"). name is used
// only for disassembly headers. Use CompileEntry when several roots (a
// target's hats plus its custom-block definitions) must share one pool of
// constants, variables, lists, and procedure entry offsets.
func (c *Compiler) Compile(root *scratch.Block, name string) *bytecode.Script {
	c.script = bytecode.NewScript(name)
	c.CompileEntry(root)
	return c.script
}

// CompileEntry compiles the block tree rooted at root into the Compiler's
// current script (set by Compile, or directly for a shared multi-root
// compile), returning the word offset root's START landed at. A target with
// N hats and M custom-block definitions calls this N+M times against the
// same script, so every root shares one constant/variable/list/procedure
// pool and CALL_PROCEDURE can jump to a definition compiled from a sibling
// root.
func (c *Compiler) CompileEntry(root *scratch.Block) uint32 {
	c.warp = false
	entry := c.AddInstruction(bytecode.OpStart)

	c.block = root
	for c.block != nil {
		depthBefore := len(c.substack)
		blockBefore := c.block

		fn := c.block.CompileFunction()
		if fn != nil {
			fn(c, c.block)
		} else {
			c.Warnf("unsupported block: %s", c.block.Opcode())
		}

		if len(c.substack) != depthBefore {
			continue
		}

		// A control block with an empty substack resolves synchronously
		// inside MoveToSubstack (c.block == nil there triggers an immediate
		// substackEnd), which already repositions the cursor past the
		// construct before fn returns. Advancing again here would skip
		// whatever follows it.
		if c.block != blockBefore {
			continue
		}

		if c.block != nil {
			c.block = c.block.Next()
		}
		if c.block == nil && len(c.substack) > 0 {
			c.substackEnd()
		}
	}

	c.AddInstruction(bytecode.OpHalt)
	return entry
}

// substackEnd pops the innermost substack frame, patches its jump target,
// and either descends into a second substack (if/else's else branch) or
// resumes compilation of the block chain that follows the construct.
func (c *Compiler) substackEnd() {
	n := len(c.substack)
	frame := c.substack[n-1]
	c.substack = c.substack[:n-1]

	switch frame.kind {
	case scratch.SubstackLoop:
		endOffset := c.AddInstruction(bytecode.OpLoopEnd, frame.headOffset)
		if bytecode.Opcode(c.script.Code[frame.patchOffset]).Arity() > 0 {
			c.PatchJumpArg(frame.patchOffset, 0, endOffset+2)
		}
		if frame.after != nil {
			c.block = frame.after.Next()
		} else {
			c.block = nil
		}

	case scratch.SubstackIfElse:
		if frame.second != nil {
			elseJump := c.AddInstruction(bytecode.OpElse, 0)
			c.PatchJumpArg(frame.patchOffset, 0, elseJump+2)
			c.substack = append(c.substack, substackFrame{
				kind:        scratch.SubstackIfElseCond,
				after:       frame.after,
				patchOffset: elseJump,
			})
			c.block = frame.second
			if c.block == nil {
				c.substackEnd()
			}
		} else {
			end := c.AddInstruction(bytecode.OpEndIf)
			c.PatchJumpArg(frame.patchOffset, 0, end)
			if frame.after != nil {
				c.block = frame.after.Next()
			} else {
				c.block = nil
			}
		}

	case scratch.SubstackIfElseCond:
		end := c.AddInstruction(bytecode.OpEndIf)
		c.PatchJumpArg(frame.patchOffset, 0, end)
		if frame.after != nil {
			c.block = frame.after.Next()
		} else {
			c.block = nil
		}
	}
}

func (c *Compiler) Engine() scratch.IEngine { return c.engine }
func (c *Compiler) Block() *scratch.Block   { return c.block }
func (c *Compiler) Target() scratch.ITarget { return c.target }

// SetTarget points the Compiler at the target whose scripts CompileEntry is
// about to compile. The engine calls this once before compiling every hat
// and custom-block definition belonging to one target.
func (c *Compiler) SetTarget(t scratch.ITarget) { c.target = t }

func (c *Compiler) AddInstruction(op bytecode.Opcode, args ...uint32) uint32 {
	offset := c.script.Emit(op, args...)
	c.lastInstrOffset = offset
	return offset
}

func (c *Compiler) PatchJumpArg(offset uint32, argN int, target uint32) {
	c.script.PatchArg(offset, argN, target)
}

func (c *Compiler) AddInput(id int) {
	c.AddInputValue(c.block.FindInputById(id))
}

func (c *Compiler) AddInputValue(input *scratch.Input) {
	if input == nil {
		c.AddInstruction(bytecode.OpNull)
		return
	}

	switch input.Type() {
	case scratch.InputShadow:
		c.AddInstruction(bytecode.OpConst, c.internConst(input.PrimaryValue()))

	case scratch.InputNoShadow:
		c.compileReporter(input.ValueBlock())

	case scratch.InputObscuredShadow:
		if input.ValueBlock() != nil {
			c.compileReporter(input.ValueBlock())
		} else {
			c.AddInstruction(bytecode.OpConst, c.internConst(input.PrimaryValue()))
		}
	}
}

func (c *Compiler) compileReporter(b *scratch.Block) {
	if b == nil {
		c.AddInstruction(bytecode.OpNull)
		return
	}
	previous := c.block
	c.block = b
	if fn := b.CompileFunction(); fn != nil {
		fn(c, b)
	} else {
		c.Warnf("unsupported reporter block: %s", b.Opcode())
		c.AddInstruction(bytecode.OpNull)
	}
	c.block = previous
}

func (c *Compiler) internConst(v *scratch.InputValue) uint32 {
	if v == nil {
		return c.script.ConstIndex(value.Empty())
	}
	if idx, ok := c.constIndex[v]; ok {
		return idx
	}
	idx := c.script.ConstIndex(v.Value)
	c.constIndex[v] = idx
	return idx
}

func (c *Compiler) AddFunctionCall(f scratch.BlockFunc) {
	c.AddInstruction(bytecode.OpExec, c.engine.FunctionIndex(f))
}

func (c *Compiler) AddProcedureArg(procCode, argName string) {
	c.procArgs[procCode] = append(c.procArgs[procCode], argName)
	idx := c.script.ProcedureIndex(procCode)
	c.script.Procedures[idx].ArgNames = c.procArgs[procCode]
}

func (c *Compiler) LoopHead() uint32 {
	c.pendingLoopHead = uint32(len(c.script.Code))
	return c.pendingLoopHead
}

func (c *Compiler) MoveToSubstack(substack1, substack2 *scratch.Block, kind scratch.SubstackType) {
	frame := substackFrame{kind: kind, after: c.block, second: substack2}

	switch kind {
	case scratch.SubstackIfElse:
		frame.patchOffset = c.lastInstrOffset // the just-emitted IF's offset
	case scratch.SubstackLoop:
		frame.patchOffset = c.lastInstrOffset // the just-emitted loop-head's offset
		frame.headOffset = c.pendingLoopHead
	}

	c.substack = append(c.substack, frame)
	c.block = substack1
	if c.block == nil {
		c.substackEnd()
	}
}

func (c *Compiler) BreakAtomicScript() {
	// LOOP_END always yields unless the script is warped, so this hook
	// emits nothing; it remains so block compile functions written against
	// the reference's contract keep compiling.
}

func (c *Compiler) Warp() {
	c.warp = true
	c.AddInstruction(bytecode.OpWarp)
}

func (c *Compiler) Input(id int) *scratch.Input { return c.block.FindInputById(id) }
func (c *Compiler) Field(id int) *scratch.Field { return c.block.FindFieldById(id) }

func (c *Compiler) InputBlock(id int) *scratch.Block {
	in := c.Input(id)
	if in == nil {
		return nil
	}
	return in.ValueBlock()
}

func (c *Compiler) VariableIndex(v *scratch.Variable) int {
	return int(c.script.VariableIndex(v))
}

func (c *Compiler) ListIndex(l *scratch.List) int {
	return int(c.script.ListIndex(l))
}

func (c *Compiler) ConstIndex(v *scratch.InputValue) int {
	return int(c.internConst(v))
}

func (c *Compiler) ProcedureIndex(procCode string) int {
	return int(c.script.ProcedureIndex(procCode))
}

func (c *Compiler) ProcedureArgIndex(procCode, argName string) int {
	return c.script.ProcedureArgIndex(procCode, argName)
}

func (c *Compiler) SetProcedureEntryOffset(procCode string, offset uint32) {
	idx := c.script.ProcedureIndex(procCode)
	c.script.Procedures[idx].EntryOffset = offset
}

// UseScript points the Compiler at an already-existing script so a
// subsequent CompileEntry call appends to it instead of starting fresh.
// The engine uses this to compile every hat and custom-block definition of
// one target into a single shared Script.
func (c *Compiler) UseScript(s *bytecode.Script) { c.script = s }

// Script returns the script the Compiler is currently appending to.
func (c *Compiler) Script() *bytecode.Script { return c.script }

func (c *Compiler) SetProcedurePrototype(p *scratch.BlockPrototype) { c.procPrototype = p }
func (c *Compiler) ProcedurePrototype() *scratch.BlockPrototype     { return c.procPrototype }

func (c *Compiler) Warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// Warnings returns every non-fatal diagnostic recorded during Compile.
func (c *Compiler) Warnings() []string { return c.warnings }
