package scratch

import "github.com/chazu/maggie/bytecode"

// BlockFunc is the ABI for a block-function primitive (§6, "Block-function
// ABI"). It receives the VM executing an OP_EXEC instruction and returns the
// number of registers it produced; it may read any number of registers
// already on the stack. It is a type alias, not a distinct named type, so
// that engine.Engine can implement bytecode.FuncResolver directly against
// the same slice it hands out through FunctionIndex.
type BlockFunc = bytecode.Func

// SubstackType distinguishes the two substacks a control block may push
// (e.g. the then/else arms of an if/else, or a loop body).
type SubstackType int

const (
	// SubstackLoop marks a substack whose end re-emits a loop instruction.
	SubstackLoop SubstackType = iota
	// SubstackIfElse marks the then-branch of an if/else block.
	SubstackIfElse
	// SubstackIfElseCond marks a second (else) branch pushed alongside SubstackIfElse.
	SubstackIfElseCond
)

// Compiler is the contract a Block's compile function is invoked with (the
// "Compiler" of §4.2). It is implemented by compiler.Compiler; defining the
// interface here (rather than in package compiler) is what lets scratch.Block
// hold a compile-function field without importing package compiler, which
// itself must import scratch for the entity graph.
type Compiler interface {
	// Engine returns the engine the compiler was constructed against.
	Engine() IEngine

	// Block returns the block currently being compiled.
	Block() *Block

	// Target returns the target the current CompileEntry call is compiling
	// for. Variable/list-carrying block compile functions resolve their
	// cell through this target (rather than a block-baked reference) so a
	// clone's own variables and lists are used when its script family is
	// recompiled for it (§3 "Lifecycles": variables and lists are private
	// per target, even though clones share block objects via DataSource).
	Target() ITarget

	// AddInstruction appends an instruction to the bytecode stream and
	// returns the word offset it landed at, so control-flow compile
	// functions can record a jump-back or patch target.
	AddInstruction(op bytecode.Opcode, args ...uint32) uint32

	// PatchJumpArg overwrites argument argN of the instruction at offset
	// (as returned by a prior AddInstruction) once the jump destination is
	// known.
	PatchJumpArg(offset uint32, argN int, target uint32)

	// AddInput compiles the input with the given numeric id inline.
	AddInput(id int)

	// AddInputValue compiles the given input directly (bypassing id lookup).
	AddInputValue(input *Input)

	// AddFunctionCall emits OP_EXEC for the given block function.
	AddFunctionCall(f BlockFunc)

	// AddProcedureArg registers an argument name for a custom-block prototype.
	AddProcedureArg(procCode, argName string)

	// LoopHead marks the current bytecode offset as the re-entry point a
	// following MoveToSubstack(..., SubstackLoop) should jump back to on
	// each iteration. A loop's compile function calls this before emitting
	// any of its condition-checking instructions, so a "repeat until"
	// loop's condition reporter is correctly recomputed every pass.
	LoopHead() uint32

	// MoveToSubstack pushes one or two substacks onto the substack stack and
	// re-seats the compiler cursor on the first one.
	MoveToSubstack(substack1, substack2 *Block, kind SubstackType)

	// BreakAtomicScript marks the current loop to yield at the end of every
	// iteration unless the script is warped.
	BreakAtomicScript()

	// Warp marks the current script as running without screen refresh.
	Warp()

	// Input returns the input with the given numeric id on the current block.
	Input(id int) *Input

	// Field returns the field with the given numeric id on the current block.
	Field(id int) *Field

	// InputBlock returns the reporter block feeding the given input, if any.
	InputBlock(id int) *Block

	// VariableIndex returns (allocating if necessary) the pool index of v.
	VariableIndex(v *Variable) int

	// ListIndex returns (allocating if necessary) the pool index of l.
	ListIndex(l *List) int

	// ConstIndex returns (allocating if necessary) the pool index of the
	// input's literal value, keyed on InputValue identity.
	ConstIndex(v *InputValue) int

	// ProcedureIndex returns (allocating if necessary) the pool index of a
	// custom-block procedure code.
	ProcedureIndex(procCode string) int

	// ProcedureArgIndex returns the slot of argName within procCode's
	// argument list, or -1 if not found.
	ProcedureArgIndex(procCode, argName string) int

	// SetProcedureEntryOffset records the bytecode offset a custom block's
	// definition body starts at, once CompileEntry has compiled it.
	SetProcedureEntryOffset(procCode string, offset uint32)

	// SetProcedurePrototype records the prototype of the custom block
	// currently being compiled (used while compiling its definition body).
	SetProcedurePrototype(p *BlockPrototype)

	// ProcedurePrototype returns the prototype set by SetProcedurePrototype.
	ProcedurePrototype() *BlockPrototype

	// Warnf records a non-fatal compile-time diagnostic (§7).
	Warnf(format string, args ...any)
}

// IEngine is the runtime and compile-time surface a target/block sees back
// into the engine (§6). Implemented by engine.Engine.
type IEngine interface {
	// FunctionIndex returns the stable index of a block function, registering
	// it on first use (last-writer-wins is not applicable here: identity is
	// by pointer, matching functionIndex() in the reference).
	FunctionIndex(f BlockFunc) uint32

	// FindTarget returns the target with the given name, or nil.
	FindTarget(name string) ITarget

	// Stage returns the project's single stage target.
	Stage() ITarget

	// Targets returns every target in the order the engine holds them (the
	// order they were installed, with clones appended as they are created),
	// not in layer order.
	Targets() []ITarget

	// Broadcast enqueues every hat listening for the broadcast at the given
	// index for (re)instantiation.
	Broadcast(index int, sender ITarget)

	// BroadcastByName resolves a broadcast by message name and enqueues it.
	BroadcastByName(name string, sender ITarget) int

	// AnyListenerRunning reports whether any script listening for the named
	// broadcast is currently executing, used by "broadcast and wait" to know
	// when it may resume (§4.4).
	AnyListenerRunning(name string) bool

	// FindBroadcast returns the index of the broadcast with the given
	// message name, or -1.
	FindBroadcast(name string) int

	// FindBroadcastById returns the index of the broadcast with the given
	// id, or -1.
	FindBroadcastById(id string) int

	// CloneLimit returns the configured clone cap (see §3 "Lifecycles").
	CloneLimit() int

	// CloneCount returns the number of live clones.
	CloneCount() int

	// RegisterClone accounts for a newly created clone against the cap.
	// Returns false if the cap has been reached.
	RegisterClone() bool

	// UnregisterClone releases one unit of clone-count budget.
	UnregisterClone()

	// InitClone instantiates every when-I-start-as-a-clone hat for sprite.
	InitClone(sprite *Sprite)

	// RequestRedraw marks the current frame dirty.
	RequestRedraw()

	// StopTarget halts every running script belonging to target except,
	// optionally, the one identified by exceptScriptID.
	StopTarget(target ITarget, exceptScriptID uint64)

	// StopAll halts every running script and clears all clones.
	StopAll()

	// DeinitClone stops every script targeting the clone and removes it
	// from the engine's bookkeeping.
	DeinitClone(sprite *Sprite)

	// KeyPressed reports whether the named key (or "any") is currently down.
	KeyPressed(key string) bool

	// Timer returns the seconds elapsed since the last timer reset.
	Timer() float64

	// ResetTimer restarts the timer at zero.
	ResetTimer()

	// StageWidth and StageHeight report the stage dimensions.
	StageWidth() int
	StageHeight() int

	// MouseX, MouseY, and MousePressed report the latest injected mouse
	// state (§6 "Input injection"), read by the sensing block family.
	MouseX() float64
	MouseY() float64
	MousePressed() bool

	// TurboModeEnabled reports whether the engine is running in turbo mode.
	// No block in the blocks package reads it.
	TurboModeEnabled() bool

	// Random block functions rely on a wrapped source; exposed here so the
	// glue layer never imports math/rand directly (keeps the ABI pure).
	Random(min, max float64) float64
}

// ISpriteHandler is the embedder-facing observer interface (§6, §9 "Graphics
// effects and sprite handler callbacks — preserve this interface verbatim").
type ISpriteHandler interface {
	OnSpriteChanged(s *Sprite)
	OnVisibleChanged(visible bool)
	OnXChanged(x float64)
	OnYChanged(y float64)
	OnSizeChanged(size float64)
	OnDirectionChanged(direction float64)
	OnRotationStyleChanged(style RotationStyle)
	OnCostumeChanged(costume *Costume)
	OnCloned(clone *Sprite)
}
