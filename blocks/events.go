package blocks

import (
	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// noop compiles nothing: a hat block's own body is the sequence following
// it, so the hat opcode itself only needs to exist as a script root.
func noop(c scratch.Compiler, b *scratch.Block) {}

func registerEvents(r *compiler.Registry) {
	r.RegisterHat("event_whenflagclicked", noop)
	r.RegisterHat("event_whenbroadcastreceived", noop)

	r.RegisterCompile("event_broadcast", compileBroadcast)
	r.RegisterCompile("event_broadcastandwait", compileBroadcastAndWait)
}

// compileBroadcast resolves the message at runtime rather than baking a
// broadcast index in at compile time, so it works whether BROADCAST_INPUT
// carries a literal menu selection or a reporter computing the name.
func compileBroadcast(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "BROADCAST_INPUT")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		name := vm.Pop().ToString()
		target := vm.Target.(scratch.ITarget)
		target.Engine().BroadcastByName(name, target)
		return 0
	})
}

// compileBroadcastAndWait fires the broadcast, then spins in a zero-body
// "repeat until" loop — the same construct control_repeat_until compiles
// to — checking each pass whether any of the message's listener scripts
// are still running. The message value is kept on this VM's own register
// stack across iterations (the same pop-and-repush discipline
// control_wait uses for its deadline), rather than in a captured closure
// variable, since the compiled script is shared across every clone and
// every re-triggering of the same hat: a closure variable would be shared
// mutable state between concurrently running instances.
//
// Simplification: this only ever observes scripts the engine has already
// instantiated for the message, without distinguishing this firing's
// listeners from an unrelated, still-running instance of the same
// listener triggered earlier. A message with no listeners at all returns
// immediately.
func compileBroadcastAndWait(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "BROADCAST_INPUT")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		name := vm.Pop()
		target := vm.Target.(scratch.ITarget)
		target.Engine().BroadcastByName(name.ToString(), target)
		vm.Push(name)
		return 1
	})

	c.LoopHead()
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		name := vm.Pop()
		target := vm.Target.(scratch.ITarget)
		if !target.Engine().AnyListenerRunning(name.ToString()) {
			vm.Push(value.Bool(true))
			return 1
		}
		vm.Push(name)
		vm.Push(value.Bool(false))
		return 2
	})
	c.AddInstruction(bytecode.OpUntilLoop, 0)
	c.MoveToSubstack(nil, nil, scratch.SubstackLoop)
}
