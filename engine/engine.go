// Package engine implements the single-threaded cooperative scheduler that
// drives compiled scripts against a project's targets (§4.4, §5).
package engine

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/chazu/maggie/bytecode"
	"github.com/chazu/maggie/compiler"
	"github.com/chazu/maggie/config"
	"github.com/chazu/maggie/scratch"
)

// Clock abstracts wall-clock time so tests can drive the tick loop without
// sleeping. The default clock used by New wraps the standard library.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time     { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Engine is the long-lived coordinator described in §4.4. Zero value is not
// usable; construct with New.
type Engine struct {
	id uuid.UUID

	fps            float64
	turbo          bool
	stageWidth     int
	stageHeight    int
	spriteFencing  bool
	cloneLimit     int
	cloneCount     int

	registry *compiler.Registry

	targets    []scratch.ITarget
	broadcasts []*scratch.Broadcast

	programs map[scratch.ITarget]*targetProgram

	funcs     []scratch.BlockFunc
	funcIndex map[uintptr]uint32

	running        bool
	runningScripts []*runningScript
	currentScript  *runningScript
	nextScriptID   uint64

	pendingBroadcasts []pendingBroadcast

	dirty         bool
	redrawHandler func()

	keyState      map[string]bool
	anyKeyPressed bool
	mouseX        float64
	mouseY        float64
	mousePressed  bool

	timerStart time.Time
	clock      Clock

	rand *rand.Rand

	logger *log.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// targetProgram is one target's shared compiled Script plus the bytecode
// offset each of its hats and custom-block definitions starts at.
type targetProgram struct {
	script   *bytecode.Script
	entryOf  map[*scratch.Block]uint32
}

type runningScript struct {
	id     uint64
	vm     *bytecode.VM
	target scratch.ITarget
	hat    *scratch.Block
}

type pendingBroadcast struct {
	index      int
	sender     scratch.ITarget
	senderHat  *scratch.Block // the hat of the script that issued the broadcast, if any
}

// New constructs an Engine with the reference's defaults: 30 FPS, turbo off,
// 480x360 stage, sprite fencing on, clone limit 300 (§9).
func New(registry *compiler.Registry) *Engine {
	e := &Engine{
		id:            uuid.New(),
		fps:           30,
		stageWidth:    480,
		stageHeight:   360,
		spriteFencing: true,
		cloneLimit:    300,
		registry:      registry,
		programs:      make(map[scratch.ITarget]*targetProgram),
		funcIndex:     make(map[uintptr]uint32),
		keyState:      make(map[string]bool),
		clock:         realClock{},
		rand:          rand.New(rand.NewSource(1)),
		logger:        log.New(os.Stderr, "", 0),
	}
	return e
}

// Apply seeds fps, turbo, stage size, sprite fencing, and the clone limit
// from a loaded scratch.toml document (embedder wiring: cmd/scratchvm calls
// this right after New, before compiling any project). An fps of 0 (the
// zero value of an EngineConfig an embedder built by hand rather than
// loading from disk) is left at whatever the engine already had rather
// than rejected, since SetFPS's positivity check exists for the runtime
// setter, not for seeding from config.
func (e *Engine) Apply(c *config.Config) {
	if c.Engine.FPS > 0 {
		e.fps = c.Engine.FPS
	}
	e.turbo = c.Engine.Turbo
	if c.Stage.Width > 0 {
		e.stageWidth = c.Stage.Width
	}
	if c.Stage.Height > 0 {
		e.stageHeight = c.Stage.Height
	}
	e.spriteFencing = c.Stage.SpriteFencing
	e.cloneLimit = c.Clones.Limit
}

// SetLogger overrides where compile-time warnings are written (default
// os.Stderr, §9 "Logging").
func (e *Engine) SetLogger(w io.Writer) { e.logger = log.New(w, "", 0) }

// SetClock overrides the tick loop's time source, for deterministic tests.
func (e *Engine) SetClock(c Clock) { e.clock = c }

// ID returns this engine instance's correlation id, used only for tracing.
func (e *Engine) ID() uuid.UUID { return e.id }

// --- Configuration (§6 "Configuration") ---

func (e *Engine) FPS() float64 { return e.fps }

// SetFPS rejects fps<=0, leaving the previous value unchanged (§8 boundary
// behaviour "FPS=0 is rejected").
func (e *Engine) SetFPS(fps float64) error {
	if fps <= 0 {
		return fmt.Errorf("engine: fps must be positive, got %v", fps)
	}
	e.fps = fps
	return nil
}

func (e *Engine) TurboModeEnabled() bool     { return e.turbo }
func (e *Engine) SetTurboModeEnabled(v bool) { e.turbo = v }

// SetKeyState, KeyPressed, SetMousePressed/MousePressed, and MouseX/MouseY
// are defined in keys.go, which also owns keycode canonicalisation (§6).
// SetMousePosition composes keys.go's SetMouseX/SetMouseY for callers that
// want to set both coordinates in one call.
func (e *Engine) SetMousePosition(x, y float64) {
	e.SetMouseX(x)
	e.SetMouseY(y)
}

func (e *Engine) StageWidth() int  { return e.stageWidth }
func (e *Engine) StageHeight() int { return e.stageHeight }
func (e *Engine) SetStageWidth(w int)  { e.stageWidth = w }
func (e *Engine) SetStageHeight(h int) { e.stageHeight = h }

func (e *Engine) SpriteFencingEnabled() bool     { return e.spriteFencing }
func (e *Engine) SetSpriteFencingEnabled(v bool) { e.spriteFencing = v }

func (e *Engine) CloneLimit() int      { return e.cloneLimit }
func (e *Engine) SetCloneLimit(n int)  { e.cloneLimit = n }
func (e *Engine) CloneCount() int      { return e.cloneCount }

// --- Targets / broadcasts (project loader hand-off, §6) ---

// SetTargets installs the project's targets, replacing any previous set,
// and points every target's Engine() back at e.
func (e *Engine) SetTargets(targets []scratch.ITarget) {
	e.targets = targets
	for _, t := range targets {
		t.SetEngine(e)
	}
}

func (e *Engine) SetBroadcasts(b []*scratch.Broadcast) { e.broadcasts = b }

func (e *Engine) Targets() []scratch.ITarget { return e.targets }

func (e *Engine) Stage() scratch.ITarget {
	for _, t := range e.targets {
		if t.IsStage() {
			return t
		}
	}
	return nil
}

// FindTarget resolves a name to a target. The Stage is never matched by
// ordinary name lookup, even when it happens to be named like one — the
// only way to reach it is the "_stage_" sentinel, regardless of its
// display name (original_source/test/engine/engine_test.cpp EngineTest.Targets).
func (e *Engine) FindTarget(name string) scratch.ITarget {
	if name == "_stage_" {
		return e.Stage()
	}
	for _, t := range e.targets {
		if t.IsStage() {
			continue
		}
		if t.Name() == name {
			return t
		}
	}
	return nil
}

func (e *Engine) TargetAt(i int) scratch.ITarget {
	if i < 0 || i >= len(e.targets) {
		return nil
	}
	return e.targets[i]
}

func (e *Engine) BroadcastAt(i int) *scratch.Broadcast {
	if i < 0 || i >= len(e.broadcasts) {
		return nil
	}
	return e.broadcasts[i]
}

func (e *Engine) FindBroadcast(name string) int {
	for i, b := range e.broadcasts {
		if b.Name() == name {
			return i
		}
	}
	return -1
}

func (e *Engine) FindBroadcastById(id string) int {
	for i, b := range e.broadcasts {
		if b.Id() == id {
			return i
		}
	}
	return -1
}

func (e *Engine) FindVariable(target scratch.ITarget, name string) *scratch.Variable {
	i := target.FindVariable(name)
	if i < 0 {
		return nil
	}
	return target.VariableAt(i)
}

func (e *Engine) FindList(target scratch.ITarget, name string) *scratch.List {
	i := target.FindList(name)
	if i < 0 {
		return nil
	}
	return target.ListAt(i)
}

// RequestRedraw marks the current frame dirty (§4.4 step 3).
func (e *Engine) RequestRedraw() { e.dirty = true }

// SetRedrawHandler installs the callback invoked once per dirty tick.
func (e *Engine) SetRedrawHandler(fn func()) { e.redrawHandler = fn }

// Random returns a uniform float64 in [min, max), wrapping math/rand so the
// block-function ABI never imports it directly (§9 "ambient stack").
func (e *Engine) Random(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + e.rand.Float64()*(max-min)
}

// Timer reports seconds elapsed since the last ResetTimer/start (§4.4).
func (e *Engine) Timer() float64 {
	if e.timerStart.IsZero() {
		return 0
	}
	return e.clock.Now().Sub(e.timerStart).Seconds()
}

func (e *Engine) ResetTimer() { e.timerStart = e.clock.Now() }

func (e *Engine) warnf(format string, args ...any) {
	e.logger.Printf("warning: "+format, args...)
}
