package blocks

import (
	"testing"

	"github.com/chazu/maggie/value"
)

func TestSoundSetAndReportVolume(t *testing.T) {
	eng := newFakeEngine()
	stage := newStageTarget(eng)
	reg := newRegistry()

	set := newOpBlock(reg, "b1", "sound_setvolumeto")
	set.AddInput(literalInput("VOLUME", value.Int(40)))
	compileAndRun(eng, reg, stage, set)

	report := newOpBlock(reg, "b2", "sound_volume")
	if got := compileAndRun(eng, reg, stage, report).Pop().ToDouble(); got != 40 {
		t.Errorf("volume = %v, want 40", got)
	}
}

func TestSoundChangeVolumeBy(t *testing.T) {
	eng := newFakeEngine()
	stage := newStageTarget(eng)
	reg := newRegistry()

	set := newOpBlock(reg, "b1", "sound_setvolumeto")
	set.AddInput(literalInput("VOLUME", value.Int(40)))
	compileAndRun(eng, reg, stage, set)

	change := newOpBlock(reg, "b2", "sound_changevolumeby")
	change.AddInput(literalInput("VOLUME", value.Int(10)))
	compileAndRun(eng, reg, stage, change)

	report := newOpBlock(reg, "b3", "sound_volume")
	if got := compileAndRun(eng, reg, stage, report).Pop().ToDouble(); got != 50 {
		t.Errorf("volume = %v, want 50", got)
	}
}

func TestSoundVolumeClampsToRange(t *testing.T) {
	eng := newFakeEngine()
	stage := newStageTarget(eng)
	reg := newRegistry()

	over := newOpBlock(reg, "b1", "sound_setvolumeto")
	over.AddInput(literalInput("VOLUME", value.Int(150)))
	compileAndRun(eng, reg, stage, over)

	report := newOpBlock(reg, "b2", "sound_volume")
	if got := compileAndRun(eng, reg, stage, report).Pop().ToDouble(); got != 100 {
		t.Errorf("volume clamped high = %v, want 100", got)
	}

	under := newOpBlock(reg, "b3", "sound_setvolumeto")
	under.AddInput(literalInput("VOLUME", value.Int(-20)))
	compileAndRun(eng, reg, stage, under)

	report2 := newOpBlock(reg, "b4", "sound_volume")
	if got := compileAndRun(eng, reg, stage, report2).Pop().ToDouble(); got != 0 {
		t.Errorf("volume clamped low = %v, want 0", got)
	}
}
