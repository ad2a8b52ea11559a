package blocks

import (
	"math"
	"testing"

	"github.com/chazu/maggie/scratch"
	"github.com/chazu/maggie/value"
)

func newSpriteTarget(eng *fakeEngine) *scratch.Sprite {
	sp := scratch.NewSprite("sprite1", "Cat")
	sp.SetEngine(eng)
	eng.targets["Cat"] = sp
	return sp
}

func TestMotionMoveSteps(t *testing.T) {
	eng := newFakeEngine()
	sp := newSpriteTarget(eng)
	reg := newRegistry()

	sp.SetDirection(0) // facing up
	b := newOpBlock(reg, "b1", "motion_movesteps")
	b.AddInput(literalInput("STEPS", value.Int(10)))

	compileAndRun(eng, reg, sp, b)

	if math.Abs(sp.X()) > 1e-9 {
		t.Errorf("x = %v, want ~0", sp.X())
	}
	if math.Abs(sp.Y()-10) > 1e-9 {
		t.Errorf("y = %v, want ~10", sp.Y())
	}
}

func TestMotionTurnRightLeft(t *testing.T) {
	eng := newFakeEngine()
	sp := newSpriteTarget(eng)
	reg := newRegistry()
	sp.SetDirection(0)

	right := newOpBlock(reg, "r1", "motion_turnright")
	right.AddInput(literalInput("DEGREES", value.Int(15)))
	compileAndRun(eng, reg, sp, right)
	if sp.Direction() != 15 {
		t.Errorf("direction after turnright 15 = %v, want 15", sp.Direction())
	}

	left := newOpBlock(reg, "l1", "motion_turnleft")
	left.AddInput(literalInput("DEGREES", value.Int(5)))
	compileAndRun(eng, reg, sp, left)
	if sp.Direction() != 10 {
		t.Errorf("direction after turnleft 5 = %v, want 10", sp.Direction())
	}
}

func TestMotionPointInDirection(t *testing.T) {
	eng := newFakeEngine()
	sp := newSpriteTarget(eng)
	reg := newRegistry()

	b := newOpBlock(reg, "b1", "motion_pointindirection")
	b.AddInput(literalInput("DIRECTION", value.Int(90)))
	compileAndRun(eng, reg, sp, b)

	if sp.Direction() != 90 {
		t.Errorf("direction = %v, want 90", sp.Direction())
	}
}

func TestMotionGoToXY(t *testing.T) {
	eng := newFakeEngine()
	sp := newSpriteTarget(eng)
	reg := newRegistry()

	b := newOpBlock(reg, "b1", "motion_gotoxy")
	b.AddInput(literalInput("X", value.Int(12)))
	b.AddInput(literalInput("Y", value.Int(-8)))
	compileAndRun(eng, reg, sp, b)

	if sp.X() != 12 || sp.Y() != -8 {
		t.Errorf("position = (%v, %v), want (12, -8)", sp.X(), sp.Y())
	}
}

func TestMotionGoToMouse(t *testing.T) {
	eng := newFakeEngine()
	eng.mouseX, eng.mouseY = 20, 30
	sp := newSpriteTarget(eng)
	reg := newRegistry()

	b := newOpBlock(reg, "b1", "motion_goto")
	b.AddInput(literalInput("TO", value.String("_mouse_")))
	compileAndRun(eng, reg, sp, b)

	if sp.X() != 20 || sp.Y() != 30 {
		t.Errorf("position = (%v, %v), want (20, 30)", sp.X(), sp.Y())
	}
}

func TestMotionChangeAndSetAxis(t *testing.T) {
	eng := newFakeEngine()
	sp := newSpriteTarget(eng)
	reg := newRegistry()

	setX := newOpBlock(reg, "sx", "motion_setx")
	setX.AddInput(literalInput("X", value.Int(5)))
	compileAndRun(eng, reg, sp, setX)

	changeX := newOpBlock(reg, "cx", "motion_changexby")
	changeX.AddInput(literalInput("DX", value.Int(3)))
	compileAndRun(eng, reg, sp, changeX)

	if sp.X() != 8 {
		t.Errorf("x = %v, want 8", sp.X())
	}

	setY := newOpBlock(reg, "sy", "motion_sety")
	setY.AddInput(literalInput("Y", value.Int(-2)))
	compileAndRun(eng, reg, sp, setY)

	changeY := newOpBlock(reg, "cy", "motion_changeyby")
	changeY.AddInput(literalInput("DY", value.Int(10)))
	compileAndRun(eng, reg, sp, changeY)

	if sp.Y() != 8 {
		t.Errorf("y = %v, want 8", sp.Y())
	}
}

func TestMotionIfOnEdgeBounce(t *testing.T) {
	eng := newFakeEngine()
	eng.stageWidth, eng.stageHeight = 480, 360
	sp := newSpriteTarget(eng)
	reg := newRegistry()

	sp.SetX(300) // beyond half width (240)
	sp.SetDirection(90)

	b := newOpBlock(reg, "b1", "motion_ifonedgebounce")
	compileAndRun(eng, reg, sp, b)

	if sp.X() != 240 {
		t.Errorf("x clamped = %v, want 240", sp.X())
	}
	if sp.Direction() != -90 {
		t.Errorf("direction after bounce = %v, want -90", sp.Direction())
	}
}

func TestMotionSetRotationStyle(t *testing.T) {
	eng := newFakeEngine()
	sp := newSpriteTarget(eng)
	reg := newRegistry()

	b := newOpBlock(reg, "b1", "motion_setrotationstyle")
	b.AddField(literalField("STYLE", "left-right"))
	compileAndRun(eng, reg, sp, b)

	if sp.RotationStyle() != scratch.RotationLeftRight {
		t.Errorf("rotation style = %v, want left-right", sp.RotationStyle())
	}
}

func TestMotionReporters(t *testing.T) {
	eng := newFakeEngine()
	sp := newSpriteTarget(eng)
	reg := newRegistry()
	sp.SetX(1)
	sp.SetY(2)
	sp.SetDirection(45)

	xb := newOpBlock(reg, "x1", "motion_xposition")
	if got := compileAndRun(eng, reg, sp, xb).Pop().ToDouble(); got != 1 {
		t.Errorf("xposition = %v, want 1", got)
	}

	yb := newOpBlock(reg, "y1", "motion_yposition")
	if got := compileAndRun(eng, reg, sp, yb).Pop().ToDouble(); got != 2 {
		t.Errorf("yposition = %v, want 2", got)
	}

	db := newOpBlock(reg, "d1", "motion_direction")
	if got := compileAndRun(eng, reg, sp, db).Pop().ToDouble(); got != 45 {
		t.Errorf("direction = %v, want 45", got)
	}
}
