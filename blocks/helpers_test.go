package blocks

import (
	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// fakeEngine is a minimal scratch.IEngine for exercising block compile
// functions end to end, following compiler_test.go's fakeEngine shape.
type fakeEngine struct {
	funcs []scratch.BlockFunc

	targets      map[string]scratch.ITarget
	stageWidth   int
	stageHeight  int
	keys         map[string]bool
	mouseX       float64
	mouseY       float64
	mousePressed bool
	timer        float64
	turbo        bool
	randomValue  float64
	redraws      int

	lastBroadcast  string
	anyListenerRun bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		targets:     make(map[string]scratch.ITarget),
		stageWidth:  480,
		stageHeight: 360,
		keys:        make(map[string]bool),
	}
}

func (e *fakeEngine) FunctionIndex(f scratch.BlockFunc) uint32 {
	e.funcs = append(e.funcs, f)
	return uint32(len(e.funcs) - 1)
}
func (e *fakeEngine) FindTarget(name string) scratch.ITarget { return e.targets[name] }
func (e *fakeEngine) Stage() scratch.ITarget                 { return e.targets["Stage"] }
func (e *fakeEngine) Targets() []scratch.ITarget             { return nil }
func (e *fakeEngine) Broadcast(index int, sender scratch.ITarget) {}
func (e *fakeEngine) BroadcastByName(name string, sender scratch.ITarget) int {
	e.lastBroadcast = name
	return -1
}
func (e *fakeEngine) AnyListenerRunning(name string) bool { return e.anyListenerRun }
func (e *fakeEngine) FindBroadcast(name string) int                         { return -1 }
func (e *fakeEngine) FindBroadcastById(id string) int                       { return -1 }
func (e *fakeEngine) CloneLimit() int                                       { return 300 }
func (e *fakeEngine) CloneCount() int                                       { return 0 }
func (e *fakeEngine) RegisterClone() bool                                   { return true }
func (e *fakeEngine) UnregisterClone()                                      {}
func (e *fakeEngine) InitClone(sprite *scratch.Sprite)                      {}
func (e *fakeEngine) RequestRedraw()                                        { e.redraws++ }
func (e *fakeEngine) StopTarget(t scratch.ITarget, except uint64)           {}
func (e *fakeEngine) StopAll()                                              {}
func (e *fakeEngine) DeinitClone(sprite *scratch.Sprite)                    {}
func (e *fakeEngine) KeyPressed(key string) bool {
	if key == "any" {
		for _, v := range e.keys {
			if v {
				return true
			}
		}
		return false
	}
	return e.keys[key]
}
func (e *fakeEngine) Timer() float64          { return e.timer }
func (e *fakeEngine) ResetTimer()             { e.timer = 0 }
func (e *fakeEngine) StageWidth() int         { return e.stageWidth }
func (e *fakeEngine) StageHeight() int        { return e.stageHeight }
func (e *fakeEngine) MouseX() float64         { return e.mouseX }
func (e *fakeEngine) MouseY() float64         { return e.mouseY }
func (e *fakeEngine) MousePressed() bool      { return e.mousePressed }
func (e *fakeEngine) TurboModeEnabled() bool  { return e.turbo }
func (e *fakeEngine) Random(min, max float64) float64 {
	if e.randomValue != 0 {
		return e.randomValue
	}
	return min
}

// fakeResolver duplicates bytecode's test helper locally, matching
// compiler_test.go's local copy (unexported in package bytecode).
type fakeResolver struct{ funcs []bytecode.Func }

func (r *fakeResolver) FuncAt(idx uint32) bytecode.Func { return r.funcs[idx] }

// literalInput builds a Shadow input carrying a literal value under name.
func literalInput(name string, v value.Value) *scratch.Input {
	in := scratch.NewInput(name, 0, scratch.InputShadow)
	in.SetPrimaryValue(&scratch.InputValue{Value: v})
	return in
}

// reporterInput builds a NoShadow input whose value comes from a reporter
// block rather than a literal.
func reporterInput(name string, reporter *scratch.Block) *scratch.Input {
	in := scratch.NewInput(name, 0, scratch.InputNoShadow)
	in.SetValueBlock(reporter)
	return in
}

// substackOf builds a NoShadow input carrying a block chain as a substack,
// matching substack(c, name)'s expectation in blocks.go.
func substackOf(name string, body *scratch.Block) *scratch.Input {
	in := scratch.NewInput(name, 0, scratch.InputNoShadow)
	in.SetValueBlock(body)
	return in
}

func literalField(name, v string) *scratch.Field {
	return scratch.NewField(name, 0, v)
}

// newOpBlock builds a block wired to the registry's compile function for
// opcode, ready for AddInput/AddField calls before compiling.
func newOpBlock(reg *compiler.Registry, id, opcode string) *scratch.Block {
	b := scratch.NewBlock(id, opcode)
	b.SetCompileFunction(reg.CompileFunc(opcode))
	return b
}

// newRegistry returns a Registry with every block family in this package
// installed, for tests to build blocks against with newOpBlock.
func newRegistry() *compiler.Registry {
	reg := compiler.NewRegistry()
	Register(reg)
	return reg
}

// compileAndRun compiles root (built against reg) for target, then runs it
// to completion, returning the VM for inspection.
func compileAndRun(eng *fakeEngine, reg *compiler.Registry, target scratch.ITarget, root *scratch.Block) *bytecode.VM {
	c := compiler.NewCompiler(eng, reg)
	c.SetTarget(target)
	script := c.Compile(root, "test")

	vm := bytecode.NewVM(script, &fakeResolver{funcs: eng.funcs})
	vm.Target = target
	vm.Reset()
	vm.Run()
	return vm
}
