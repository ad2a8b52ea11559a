package blocks

import (
	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// registerLooks wires visibility, costume, size, and graphics-effect
// blocks. §8 scenario 1 ("show bytecode") and scenario 2 ("change size
// arithmetic") are both looks blocks, so their compiled shapes are exact:
// looks_show must compile to exactly [START, EXEC, f_show, HALT] with an
// empty constant pool, and looks_changesizeby to [START, CONST, 0, EXEC,
// f_changeSizeBy, HALT] with const-pool [10.05].
func registerLooks(r *compiler.Registry) {
	r.RegisterCompile("looks_show", compileShow)
	r.RegisterCompile("looks_hide", compileHide)
	r.RegisterCompile("looks_changesizeby", compileChangeSizeBy)
	r.RegisterCompile("looks_setsizeto", compileSetSizeTo)
	r.RegisterCompile("looks_switchcostumeto", compileSwitchCostumeTo)
	r.RegisterCompile("looks_nextcostume", compileNextCostume)
	r.RegisterCompile("looks_seteffectto", compileSetEffectTo)
	r.RegisterCompile("looks_changeeffectby", compileChangeEffectBy)
	r.RegisterCompile("looks_cleargraphiceffects", compileClearGraphicEffects)
	r.RegisterCompile("looks_say", sayOrThink(false))
	r.RegisterCompile("looks_think", sayOrThink(true))

	r.RegisterCompile("looks_size", reportSprite(func(s *scratch.Sprite) value.Value { return value.Double(s.Size()) }))
	r.RegisterCompile("looks_costumenumbername", compileCostumeNumberName)
}

// compileShow has no input to compile at all: the block carries none,
// matching §8 scenario 1's bytecode shape exactly.
func compileShow(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		withSprite(vm, func(s *scratch.Sprite) { s.SetVisible(true) })
		return 0
	})
}

func compileHide(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		withSprite(vm, func(s *scratch.Sprite) { s.SetVisible(false) })
		return 0
	})
}

func compileChangeSizeBy(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "CHANGE")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		delta := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) { s.SetSize(s.Size() + delta) })
		return 0
	})
}

func compileSetSizeTo(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "SIZE")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		size := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) { s.SetSize(size) })
		return 0
	})
}

func compileSwitchCostumeTo(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "COSTUME")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		name := vm.Pop().ToString()
		target := vm.Target.(scratch.ITarget)
		if i := target.FindCostume(name); i >= 0 {
			target.SetCostumeIndex(i)
		}
		return 0
	})
}

func compileNextCostume(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		target := vm.Target.(scratch.ITarget)
		n := len(target.Costumes())
		if n > 0 {
			target.SetCostumeIndex((target.CostumeIndex() + 1) % n)
		}
		return 0
	})
}

func compileSetEffectTo(c scratch.Compiler, b *scratch.Block) {
	effect := fieldValue(c, "EFFECT")
	compileInput(c, "VALUE")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		v := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) { s.SetEffect(effect, v) })
		return 0
	})
}

func compileChangeEffectBy(c scratch.Compiler, b *scratch.Block) {
	effect := fieldValue(c, "EFFECT")
	compileInput(c, "CHANGE")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		d := vm.Pop().ToDouble()
		withSprite(vm, func(s *scratch.Sprite) { s.ChangeEffect(effect, d) })
		return 0
	})
}

func compileClearGraphicEffects(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		withSprite(vm, func(s *scratch.Sprite) { s.ClearEffects() })
		return 0
	})
}

// sayOrThink compiles "say"/"think" identically: both only affect the
// embedder's bubble rendering (out of scope, §1), which this core exposes
// solely by marking the frame dirty so a redraw handler can pick the new
// MESSAGE up from wherever the embedder stores it. think's boolean flag
// argument is unused by the core itself.
func sayOrThink(think bool) scratch.BlockComp {
	return func(c scratch.Compiler, b *scratch.Block) {
		compileInput(c, "MESSAGE")
		c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
			vm.Pop() // message text: the embedder's sprite interface owns display
			target := vm.Target.(scratch.ITarget)
			target.Engine().RequestRedraw()
			return 0
		})
	}
}

func compileCostumeNumberName(c scratch.Compiler, b *scratch.Block) {
	wantName := fieldValue(c, "NUMBER_NAME") == "name"
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		target := vm.Target.(scratch.ITarget)
		cur := target.CurrentCostume()
		if wantName {
			if cur == nil {
				vm.Push(value.Empty())
			} else {
				vm.Push(value.String(cur.Name()))
			}
		} else {
			vm.Push(value.Int(int64(target.CostumeIndex() + 1)))
		}
		return 1
	})
}
