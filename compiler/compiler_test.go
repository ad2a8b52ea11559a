package compiler

import (
	"testing"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// fakeEngine is the minimal scratch.IEngine a compile-time test needs: only
// FunctionIndex is exercised by the block functions under test.
type fakeEngine struct {
	funcs []scratch.BlockFunc
}

func (e *fakeEngine) FunctionIndex(f scratch.BlockFunc) uint32 {
	e.funcs = append(e.funcs, f)
	return uint32(len(e.funcs) - 1)
}
func (e *fakeEngine) FindTarget(name string) scratch.ITarget   { return nil }
func (e *fakeEngine) Stage() scratch.ITarget                   { return nil }
func (e *fakeEngine) Targets() []scratch.ITarget                { return nil }
func (e *fakeEngine) Broadcast(index int, sender scratch.ITarget) {}
func (e *fakeEngine) BroadcastByName(name string, sender scratch.ITarget) int { return -1 }
func (e *fakeEngine) FindBroadcast(name string) int             { return -1 }
func (e *fakeEngine) FindBroadcastById(id string) int           { return -1 }
func (e *fakeEngine) CloneLimit() int                           { return 300 }
func (e *fakeEngine) CloneCount() int                           { return 0 }
func (e *fakeEngine) RegisterClone() bool                       { return true }
func (e *fakeEngine) UnregisterClone()                          {}
func (e *fakeEngine) InitClone(sprite *scratch.Sprite)          {}
func (e *fakeEngine) RequestRedraw()                            {}
func (e *fakeEngine) StopTarget(t scratch.ITarget, except uint64) {}
func (e *fakeEngine) StopAll()                                  {}
func (e *fakeEngine) DeinitClone(sprite *scratch.Sprite)        {}
func (e *fakeEngine) KeyPressed(key string) bool                { return false }
func (e *fakeEngine) Timer() float64                            { return 0 }
func (e *fakeEngine) ResetTimer()                               {}
func (e *fakeEngine) StageWidth() int                           { return 480 }
func (e *fakeEngine) StageHeight() int                          { return 360 }
func (e *fakeEngine) MouseX() float64                           { return 0 }
func (e *fakeEngine) MouseY() float64                           { return 0 }
func (e *fakeEngine) MousePressed() bool                        { return false }
func (e *fakeEngine) TurboModeEnabled() bool                    { return false }
func (e *fakeEngine) Random(min, max float64) float64           { return min }
func (e *fakeEngine) AnyListenerRunning(name string) bool       { return false }

func literalInput(v value.Value) *scratch.Input {
	in := scratch.NewInput("VALUE", 0, scratch.InputShadow)
	in.SetPrimaryValue(&scratch.InputValue{Value: v})
	return in
}

// numberBlock simulates a simple stack block: consume one numeric input via
// AddInputValue, call a block function, advance.
func numberBlock(id string, n float64, fn scratch.BlockFunc) *scratch.Block {
	b := scratch.NewBlock(id, "test_number")
	b.AddInput(literalInput(value.Double(n)))
	b.UpdateInputMap()
	b.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
		c.AddInputValue(blk.InputAt(0))
		c.AddFunctionCall(fn)
	})
	return b
}

func TestCompileLinearChain(t *testing.T) {
	eng := &fakeEngine{}
	reg := NewRegistry()
	c := NewCompiler(eng, reg)

	var pushed []float64
	fn := func(vm *bytecode.VM) uint32 {
		v := vm.Pop()
		pushed = append(pushed, v.ToDouble())
		return 0
	}

	b1 := numberBlock("b1", 1, fn)
	b2 := numberBlock("b2", 2, fn)
	b1.SetNext(b2)

	script := c.Compile(b1, "test")

	if script.Code[0] != uint32(bytecode.OpStart) {
		t.Fatalf("first instruction should be START")
	}
	last := len(script.Code) - int(bytecode.OpHalt.Arity()) - 1
	if script.Code[last] != uint32(bytecode.OpHalt) {
		t.Fatalf("last instruction should be HALT, got %v", script.Code[last])
	}

	vm := bytecode.NewVM(script, &fakeResolver{funcs: eng.funcs})
	vm.Reset()
	vm.Run()

	if len(pushed) != 2 || pushed[0] != 1 || pushed[1] != 2 {
		t.Errorf("pushed = %v, want [1 2]", pushed)
	}
}

// fakeResolver duplicates bytecode's test helper locally since it is
// unexported there.
type fakeResolver struct {
	funcs []bytecode.Func
}

func (r *fakeResolver) FuncAt(idx uint32) bytecode.Func { return r.funcs[idx] }

func TestCompileConstDedup(t *testing.T) {
	eng := &fakeEngine{}
	reg := NewRegistry()
	c := NewCompiler(eng, reg)

	shared := &scratch.InputValue{Value: value.Int(9)}
	in1 := scratch.NewInput("VALUE", 0, scratch.InputShadow)
	in1.SetPrimaryValue(shared)
	in2 := scratch.NewInput("VALUE", 0, scratch.InputShadow)
	in2.SetPrimaryValue(shared)

	b1 := scratch.NewBlock("b1", "test_const")
	b1.AddInput(in1)
	b1.UpdateInputMap()
	b2 := scratch.NewBlock("b2", "test_const")
	b2.AddInput(in2)
	b2.UpdateInputMap()

	compileFn := func(c scratch.Compiler, blk *scratch.Block) {
		c.AddInputValue(blk.InputAt(0))
	}
	b1.SetCompileFunction(compileFn)
	b2.SetCompileFunction(compileFn)
	b1.SetNext(b2)

	script := c.Compile(b1, "test")

	if len(script.Constants) != 1 {
		t.Errorf("constants = %v, want exactly one deduplicated entry", script.Constants)
	}
}

func TestCompileIfElseBranches(t *testing.T) {
	run := func(cond bool) float64 {
		eng := &fakeEngine{}
		reg := NewRegistry()
		c := NewCompiler(eng, reg)

		var result float64
		setResult := func(v float64) bytecode.Func {
			return func(vm *bytecode.VM) uint32 {
				result = v
				return 0
			}
		}

		condBlock := scratch.NewBlock("cond", "test_bool")
		condBlock.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
			c.AddInputValue(literalInput(value.Bool(cond)))
		})

		thenBlock := scratch.NewBlock("then", "test_set")
		thenBlock.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
			c.AddFunctionCall(setResult(1))
		})
		elseBlock := scratch.NewBlock("else", "test_set")
		elseBlock.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
			c.AddFunctionCall(setResult(2))
		})

		ifBlock := scratch.NewBlock("if", "control_if_else")
		ifBlock.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
			condBlock.Compile(c) // push condition
			offset := c.AddInstruction(bytecode.OpIf, 0)
			_ = offset
			c.MoveToSubstack(thenBlock, elseBlock, scratch.SubstackIfElse)
		})

		script := c.Compile(ifBlock, "test")
		vm := bytecode.NewVM(script, &fakeResolver{funcs: eng.funcs})
		vm.Reset()
		vm.Run()
		return result
	}

	if got := run(true); got != 1 {
		t.Errorf("if-true branch result = %v, want 1", got)
	}
	if got := run(false); got != 2 {
		t.Errorf("if-false branch result = %v, want 2", got)
	}
}

func TestCompileRepeatUntilRecomputesCondition(t *testing.T) {
	eng := &fakeEngine{}
	reg := NewRegistry()
	c := NewCompiler(eng, reg)

	counter := &fakeVarCell{v: value.Int(0)}
	var evaluations int

	// repeat until (counter >= 3): change counter by 1
	untilBlock := scratch.NewBlock("until", "control_repeat_until")
	body := scratch.NewBlock("body", "test_incr")
	body.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			counter.v = value.Int(counter.v.ToInt() + 1)
			return 0
		})
	})

	untilBlock.SetCompileFunction(func(c scratch.Compiler, blk *scratch.Block) {
		c.Warp() // avoid needing to drive multiple VM.Run() calls across yields in this test
		head := c.LoopHead()
		_ = head
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			evaluations++
			cond := counter.v.ToInt() >= 3
			vm.Push(value.Bool(cond))
			return 1
		})
		c.AddInstruction(bytecode.OpUntilLoop, 0)
		c.MoveToSubstack(body, nil, scratch.SubstackLoop)
	})

	script := c.Compile(untilBlock, "test")
	vm := bytecode.NewVM(script, &fakeResolver{funcs: eng.funcs})
	vm.Reset()
	vm.Run()

	if counter.v.ToInt() != 3 {
		t.Errorf("counter = %v, want 3", counter.v.ToInt())
	}
	if evaluations != 4 {
		t.Errorf("condition evaluated %d times, want 4 (once per pass plus the final falsifying check)", evaluations)
	}
}

type fakeVarCell struct{ v value.Value }

func (f *fakeVarCell) Value() value.Value      { return f.v }
func (f *fakeVarCell) SetValue(nv value.Value) { f.v = nv }
