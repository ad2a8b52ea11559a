package blocks

import (
	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// registerSensing wires the input-sampling reporters (§6 "Keycode
// canonicalisation", "Input injection"). Every one of these reads engine
// state set by the embedder rather than mutating anything, so none of
// them requests a cooperative yield.
func registerSensing(r *compiler.Registry) {
	r.RegisterCompile("sensing_keypressed", compileKeyPressed)
	r.RegisterCompile("sensing_mousedown", compileEngineBool(func(e scratch.IEngine) bool { return e.MousePressed() }))
	r.RegisterCompile("sensing_mousex", compileEngineDouble(func(e scratch.IEngine) float64 { return e.MouseX() }))
	r.RegisterCompile("sensing_mousey", compileEngineDouble(func(e scratch.IEngine) float64 { return e.MouseY() }))
	r.RegisterCompile("sensing_timer", compileEngineDouble(func(e scratch.IEngine) float64 { return e.Timer() }))
	r.RegisterCompile("sensing_resettimer", compileResetTimer)
}

func engineOf(vm *bytecode.VM) scratch.IEngine {
	return vm.Target.(scratch.ITarget).Engine()
}

func compileEngineBool(fn func(e scratch.IEngine) bool) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			vm.Push(value.Bool(fn(engineOf(vm))))
			return 1
		})
	}
}

func compileEngineDouble(fn func(e scratch.IEngine) float64) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			vm.Push(value.Double(fn(engineOf(vm))))
			return 1
		})
	}
}

func compileKeyPressed(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "KEY_OPTION")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		key := vm.Pop().ToString()
		vm.Push(value.Bool(engineOf(vm).KeyPressed(key)))
		return 1
	})
}

func compileResetTimer(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		engineOf(vm).ResetTimer()
		return 0
	})
}
