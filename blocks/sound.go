package blocks

import (
	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

// registerSound wires the volume family. Actual playback is the
// (out-of-scope, §1) audio backend's job; the core only tracks the
// per-target Volume() cell sound_play/sound_playuntildone would otherwise
// need to consult.
func registerSound(r *compiler.Registry) {
	r.RegisterCompile("sound_setvolumeto", compileSetVolumeTo)
	r.RegisterCompile("sound_changevolumeby", compileChangeVolumeBy)
	r.RegisterCompile("sound_volume", compileVolumeReporter)
}

func compileSetVolumeTo(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "VOLUME")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		v := vm.Pop().ToDouble()
		target := vm.Target.(scratch.ITarget)
		target.SetVolume(clampVolume(v))
		return 0
	})
}

func compileChangeVolumeBy(c scratch.Compiler, b *scratch.Block) {
	compileInput(c, "VOLUME")
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		d := vm.Pop().ToDouble()
		target := vm.Target.(scratch.ITarget)
		target.SetVolume(clampVolume(target.Volume() + d))
		return 0
	})
}

func compileVolumeReporter(c scratch.Compiler, b *scratch.Block) {
	c.AddFunctionCall(func(vm *bytecode.VM) uint32 {
		target := vm.Target.(scratch.ITarget)
		vm.Push(value.Double(target.Volume()))
		return 1
	})
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
