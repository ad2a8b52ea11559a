package blocks

import (
	"github.com/google/uuid"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

func registerControl(r *compiler.Registry) {
	r.RegisterHat("control_start_as_clone", noop)

	r.RegisterCompile("control_wait", compileWait)
	r.RegisterCompile("control_repeat", compileRepeat)
	r.RegisterCompile("control_forever", compileForever)
	r.RegisterCompile("control_if", compileIf)
	r.RegisterCompile("control_if_else", compileIfElse)
	r.RegisterCompile("control_repeat_until", compileRepeatUntil)
	r.RegisterCompile("control_stop", compileStop)
	r.RegisterCompile("control_create_clone_of", compileCreateCloneOf)
	r.RegisterCompile("control_delete_this_clone", compileDeleteThisClone)
}

// compileWait compiles a deadline computed once, then a zero-body loop
// that yields every tick until the deadline passes. The deadline lives on
// this VM's own register stack (popped and pushed back on every pass that
// has not yet reached it, and left popped on the pass that does), the same
// discipline event_broadcastandwait's wait loop uses for its message value.
func compileWait(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "DURATION")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		seconds := vm.Pop().ToDouble()
		target := vm.Target.(scratch.ITarget)
		vm.Push(value.Double(target.Engine().Timer() + seconds))
		return 1
	})

	c.LoopHead()
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		deadline := vm.Pop().ToDouble()
		target := vm.Target.(scratch.ITarget)
		if target.Engine().Timer() >= deadline {
			vm.Push(value.Bool(true))
			return 1
		}
		vm.Push(value.Double(deadline))
		vm.Push(value.Bool(false))
		return 2
	})
	c.AddInstruction(bytecode.OpUntilLoop, 0)
	c.MoveToSubstack(nil, nil, scratch.SubstackLoop)
}

func compileRepeat(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "TIMES")
	c.LoopHead()
	c.AddInstruction(bytecode.OpRepeatLoop, 0)
	c.MoveToSubstack(substack(c, "SUBSTACK"), nil, scratch.SubstackLoop)
}

func compileForever(c scratch.Compiler, b *scratch.Block) {
	c.LoopHead()
	c.AddInstruction(bytecode.OpForeverLoop)
	c.MoveToSubstack(substack(c, "SUBSTACK"), nil, scratch.SubstackLoop)
}

func compileIf(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "CONDITION")
	c.AddInstruction(bytecode.OpIf, 0)
	c.MoveToSubstack(substack(c, "SUBSTACK"), nil, scratch.SubstackIfElse)
}

func compileIfElse(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "CONDITION")
	c.AddInstruction(bytecode.OpIf, 0)
	c.MoveToSubstack(substack(c, "SUBSTACK"), substack(c, "SUBSTACK2"), scratch.SubstackIfElse)
}

func compileRepeatUntil(c scratch.Compiler, b *scratch.Block) {
	c.LoopHead()
	compileInput(c, "CONDITION")
	c.AddInstruction(bytecode.OpUntilLoop, 0)
	c.MoveToSubstack(substack(c, "SUBSTACK"), nil, scratch.SubstackLoop)
}

// compileStop dispatches on STOP_OPTION at compile time, since the mode
// never changes at runtime, and calls straight back into the engine
// methods §4.4's "stop" scenarios are built around.
func compileStop(c scratch.Compiler, b *scratch.Block) {
	switch fieldValue(c, "STOP_OPTION") {
	case "this script":
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			vm.Stop()
			return 0
		})
	case "other scripts in sprite":
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			target := vm.Target.(scratch.ITarget)
			target.Engine().StopTarget(target, vm.ScriptID)
			return 0
		})
	default: // "all"
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			target := vm.Target.(scratch.ITarget)
			target.Engine().StopAll()
			vm.Stop()
			return 0
		})
	}
}

// myselfSentinel is the CLONE_OPTION menu value meaning "clone the sprite
// this block runs on", matching the reference project format.
const myselfSentinel = "_myself_"

func compileCreateCloneOf(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "CLONE_OPTION")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		name := vm.Pop().ToString()
		target := vm.Target.(scratch.ITarget)

		var source *scratch.Sprite
		if name == myselfSentinel {
			source, _ = target.(*scratch.Sprite)
		} else if other := target.Engine().FindTarget(name); other != nil {
			source, _ = other.(*scratch.Sprite)
		}
		if source == nil {
			return 0
		}
		source.Clone(uuid.NewString())
		return 0
	})
}

func compileDeleteThisClone(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		target := vm.Target.(scratch.ITarget)
		if sp, ok := target.(*scratch.Sprite); ok && sp.IsClone() {
			sp.Engine().DeinitClone(sp)
			vm.Stop()
		}
		return 0
	})
}
