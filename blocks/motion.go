package blocks

import (
	"math"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// registerMotion wires the sprite-position/heading family. Every compile
// function here type-asserts vm.Target to *scratch.Sprite and is a no-op
// against the stage, matching the reference (the stage never carries these
// blocks, but a malformed project might attach one to it anyway).
func registerMotion(r *compiler.Registry) {
	r.RegisterCompile("motion_movesteps", compileMoveSteps)
	r.RegisterCompile("motion_turnright", turnBy(1))
	r.RegisterCompile("motion_turnleft", turnBy(-1))
	r.RegisterCompile("motion_pointindirection", compilePointInDirection)
	r.RegisterCompile("motion_goto", compileGoTo)
	r.RegisterCompile("motion_gotoxy", compileGoToXY)
	r.RegisterCompile("motion_glidesecstoxy", compileGlideSecsToXY)
	r.RegisterCompile("motion_changexby", changeAxisBy("DX", func(s *scratch.Sprite, d float64) { s.SetX(s.X() + d) }))
	r.RegisterCompile("motion_changeyby", changeAxisBy("DY", func(s *scratch.Sprite, d float64) { s.SetY(s.Y() + d) }))
	r.RegisterCompile("motion_setx", setAxis("X", func(s *scratch.Sprite, v float64) { s.SetX(v) }))
	r.RegisterCompile("motion_sety", setAxis("Y", func(s *scratch.Sprite, v float64) { s.SetY(v) }))
	r.RegisterCompile("motion_ifonedgebounce", compileIfOnEdgeBounce)
	r.RegisterCompile("motion_setrotationstyle", compileSetRotationStyle)

	r.RegisterCompile("motion_xposition", reportSprite(func(s *scratch.Sprite) value.Value { return value.Double(s.X()) }))
	r.RegisterCompile("motion_yposition", reportSprite(func(s *scratch.Sprite) value.Value { return value.Double(s.Y()) }))
	r.RegisterCompile("motion_direction", reportSprite(func(s *scratch.Sprite) value.Value { return value.Double(s.Direction()) }))
}

// withSprite calls fn with vm.Target as a *scratch.Sprite, doing nothing if
// the running target isn't a sprite (e.g. a malformed project attached a
// motion block to the stage).
func withSprite(vm *bytecode.VM, fn func(s *scratch.Sprite)) {
	if s, ok := vm.Target.(*scratch.Sprite); ok {
		fn(s)
	}
}

func reportSprite(fn func(s *scratch.Sprite) value.Value) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			if s, ok := vm.Target.(*scratch.Sprite); ok {
				vm.Push(fn(s))
			} else {
				vm.Push(value.Int(0))
			}
			return 1
		})
	}
}

func compileMoveSteps(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "STEPS")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		steps := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) {
			rad := s.Direction() * math.Pi / 180
			s.SetX(s.X() + steps*math.Sin(rad))
			s.SetY(s.Y() + steps*math.Cos(rad))
		})
		return 0
	})
}

// turnBy returns a compile function for "turn right"/"turn left", whose
// only difference is the sign applied to the DEGREES input.
func turnBy(sign float64) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		compileInput(c, "DEGREES")
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			degrees := vm.Pop().ToDouble() * sign
			withSprite(vm, func(s *scratch.Sprite) { s.SetDirection(s.Direction() + degrees) })
			return 0
		})
	}
}

func compilePointInDirection(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "DIRECTION")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		d := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) { s.SetDirection(d) })
		return 0
	})
}

// targetSentinelXY resolves the TO dropdown's special values ("_mouse_",
// "_random_") against the engine, falling back to another target's current
// position by name.
func targetSentinelXY(vm *bytecode.VM, name string) (float64, float64, bool) {
	target := vm.Target.(scratch.ITarget)
	eng := target.Engine()
	switch name {
	case "_mouse_":
		return eng.MouseX(), eng.MouseY(), true
	case "_random_":
		return eng.Random(float64(-eng.StageWidth())/2, float64(eng.StageWidth())/2),
			eng.Random(float64(-eng.StageHeight())/2, float64(eng.StageHeight())/2), true
	default:
		other := eng.FindTarget(name)
		if sp, ok := other.(*scratch.Sprite); ok {
			return sp.X(), sp.Y(), true
		}
		return 0, 0, false
	}
}

func compileGoTo(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "TO")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		name := vm.Pop().ToString()
		if x, y, ok := targetSentinelXY(vm, name); ok {
			withSprite(vm, func(s *scratch.Sprite) { s.SetX(x); s.SetY(y) })
		}
		return 0
	})
}

func compileGoToXY(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "X")
	compileInput(c, "Y")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		y := vm.Pop().ToDouble()
		x := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) { s.SetX(x); s.SetY(y) })
		return 0
	})
}

// compileGlideSecsToXY simplifies the reference's per-frame interpolation
// to an immediate jump: the core's concern is the wait/yield contract, not
// rendering an in-between trajectory (out of scope, §1 "rendering
// backend"). After the jump it requests a redraw and calls VM.RequestYield,
// so the script yields once and resumes after the glide on its next run
// (§4.3 "after an EXEC that returned a please-yield marker"). It is the
// only motion block that yields.
func compileGlideSecsToXY(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "X")
	compileInput(c, "Y")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		y := vm.Pop().ToDouble()
		x := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) { s.SetX(x); s.SetY(y) })
		target := vm.Target.(scratch.ITarget)
		target.Engine().RequestRedraw()
		vm.RequestYield()
		return 0
	})
}

func changeAxisBy(inputName string, fn func(s *scratch.Sprite, delta float64)) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		compileInput(c, inputName)
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			d := vm.Pop()
			withSprite(vm, func(s *scratch.Sprite) { fn(s, d.ToDouble()) })
			return 0
		})
	}
}

func setAxis(inputName string, fn func(s *scratch.Sprite, v float64)) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		compileInput(c, inputName)
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			v := vm.Pop()
			withSprite(vm, func(s *scratch.Sprite) { fn(s, v.ToDouble()) })
			return 0
		})
	}
}

func compileIfOnEdgeBounce(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		target := vm.Target.(scratch.ITarget)
		eng := target.Engine()
		withSprite(vm, func(s *scratch.Sprite) {
			hw := float64(eng.StageWidth()) / 2
			hh := float64(eng.StageHeight()) / 2
			switch {
			case s.X() <= -hw:
				s.SetX(-hw)
				s.SetDirection(-s.Direction())
			case s.X() >= hw:
				s.SetX(hw)
				s.SetDirection(-s.Direction())
			case s.Y() <= -hh:
				s.SetY(-hh)
				s.SetDirection(180 - s.Direction())
			case s.Y() >= hh:
				s.SetY(hh)
				s.SetDirection(180 - s.Direction())
			}
		})
		return 0
	})
}

func compileSetRotationStyle(c scratch.Compiler, b *scratch.Block) {
	style := scratch.ParseRotationStyle(fieldValue(c, "STYLE"))
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		withSprite(vm, func(s *scratch.Sprite) { s.SetRotationStyle(style) })
		return 0
	})
}
