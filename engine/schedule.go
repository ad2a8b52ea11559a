package engine

import (
	"time"

	"github.com/chazu/maggie/scratch"
)

const cloneStartHatOpcode = "control_start_as_clone"
const broadcastHatOpcode = "event_whenbroadcastreceived"
const broadcastFieldName = "BROADCAST_OPTION"

// Start resets the timer and enqueues every when-flag-clicked hat across
// every target for instantiation (§4.4 "Starting scripts").
func (e *Engine) Start() {
	e.ResetTimer()
	e.running = true
	for _, t := range e.targets {
		for _, hat := range t.GreenFlagBlocks() {
			e.instantiate(t, hat)
		}
	}
}

// IsRunning reports whether the engine is between Start and Stop.
func (e *Engine) IsRunning() bool { return e.running }

// InitClone registers a freshly created clone with the engine: adds it to
// the target list, compiles its own script (bound to its own, deep-copied
// variables and lists even though its blocks are shared via DataSource),
// places it immediately behind its clone parent in layer order, and
// enqueues every when-I-start-as-a-clone hat belonging to its script
// family (§3 "Lifecycles", §4.4 "Clones").
func (e *Engine) InitClone(sprite *scratch.Sprite) {
	e.targets = append(e.targets, sprite)
	sprite.SetEngine(e)
	e.CompileTarget(sprite)

	if parent := sprite.CloneParent(); parent != nil {
		e.MoveSpriteBehindOther(sprite, parent)
	}

	for _, b := range sprite.Blocks() {
		if b.TopLevel() && b.Opcode() == cloneStartHatOpcode {
			e.instantiate(sprite, b)
		}
	}
}

// RegisterClone accounts for a newly created clone against CloneLimit.
// limit<0 means unlimited; limit<=0 (other than unlimited) permits none
// (§8 "clone limit" scenarios).
func (e *Engine) RegisterClone() bool {
	if e.cloneLimit < 0 {
		e.cloneCount++
		return true
	}
	if e.cloneCount >= e.cloneLimit {
		return false
	}
	e.cloneCount++
	return true
}

func (e *Engine) UnregisterClone() {
	if e.cloneCount > 0 {
		e.cloneCount--
	}
}

// DeinitClone stops every script targeting sprite, detaches it from its
// parent's child list, removes it from the target list, and releases its
// clone-count budget (§4.4 "Clones": "Destruction removes the clone from
// its parent's child list and calls the engine's clone deinit").
func (e *Engine) DeinitClone(sprite *scratch.Sprite) {
	e.StopTarget(sprite, 0)
	sprite.Detach()
	e.UnregisterClone()
	delete(e.programs, sprite)

	for i, t := range e.targets {
		if t == sprite {
			e.targets = append(e.targets[:i:i], e.targets[i+1:]...)
			break
		}
	}
}

// Broadcast enqueues every hat listening on the broadcast at index for
// (re)instantiation, drained at the top of the next tick (§4.4, §5:
// "scripts re-triggered by a broadcast are appended after the existing
// ones").
func (e *Engine) Broadcast(index int, sender scratch.ITarget) {
	if index < 0 || index >= len(e.broadcasts) {
		return
	}
	pb := pendingBroadcast{index: index, sender: sender}
	if e.currentScript != nil {
		pb.senderHat = e.currentScript.hat
	}
	e.pendingBroadcasts = append(e.pendingBroadcasts, pb)
}

// BroadcastByName resolves name to a broadcast index and enqueues it,
// returning the resolved index or -1 if no such broadcast exists.
func (e *Engine) BroadcastByName(name string, sender scratch.ITarget) int {
	idx := e.FindBroadcast(name)
	if idx < 0 {
		return -1
	}
	e.Broadcast(idx, sender)
	return idx
}

// AnyListenerRunning reports whether any script listening for the named
// broadcast is currently running, used by event_broadcastandwait's compiled
// wait loop.
func (e *Engine) AnyListenerRunning(name string) bool {
	index := e.FindBroadcast(name)
	if index < 0 {
		return false
	}
	for _, l := range e.broadcastListeners(index) {
		for _, rs := range e.runningScripts {
			if rs.target == l.target && rs.hat == l.hat && rs.vm.Running() {
				return true
			}
		}
	}
	return false
}

func (e *Engine) broadcastListeners(index int) []struct {
	target scratch.ITarget
	hat    *scratch.Block
} {
	var out []struct {
		target scratch.ITarget
		hat    *scratch.Block
	}
	for _, t := range e.targets {
		for _, b := range t.Blocks() {
			if !b.TopLevel() || b.Opcode() != broadcastHatOpcode {
				continue
			}
			f := b.FindField(broadcastFieldName)
			if f < 0 {
				continue
			}
			if b.FieldAt(f).SpecialValueId() != index {
				continue
			}
			out = append(out, struct {
				target scratch.ITarget
				hat    *scratch.Block
			}{t, b})
		}
	}
	return out
}

// drainBroadcasts instantiates every listener queued by Broadcast calls made
// during the previous tick (§4.4 step 1). A listener that is the very script
// which issued the broadcast is left to finish its current run rather than
// restarted, matching regression scenario #257 (a script broadcasting the
// message it itself listens for would otherwise interrupt and re-launch
// itself every tick, never reaching its own completion); every other
// listener, including an already-running instance, is restarted in place
// (spec.md §4.4: "restarts them in place").
func (e *Engine) drainBroadcasts() {
	pending := e.pendingBroadcasts
	e.pendingBroadcasts = nil

	for _, pb := range pending {
		for _, l := range e.broadcastListeners(pb.index) {
			if pb.senderHat != nil && pb.sender == l.target && pb.senderHat == l.hat {
				continue
			}
			e.haltMatching(l.target, l.hat)
			e.instantiate(l.target, l.hat)
		}
	}
}

// haltMatching stops every running script for (target, hat) other than the
// currently-executing one. Stopping only flips VM.Running() to false;
// removal from the live list happens once, after tick's dispatch loop, so
// that a script stopped mid-tick by another script's block function is
// simply skipped rather than resurrected by a second Run() call.
func (e *Engine) haltMatching(target scratch.ITarget, hat *scratch.Block) {
	for _, rs := range e.runningScripts {
		if rs.target == target && rs.hat == hat && rs != e.currentScript {
			rs.vm.Stop()
		}
	}
}

// StopTarget halts every running script belonging to target, except the
// one identified by exceptScriptID if it is non-zero (§4.4 "stop other
// scripts in sprite").
func (e *Engine) StopTarget(target scratch.ITarget, exceptScriptID uint64) {
	for _, rs := range e.runningScripts {
		if rs.target == target && rs.id != exceptScriptID {
			rs.vm.Stop()
		}
	}
}

// StopAll halts every running script, clears pending queues, and removes
// every clone (§4.4 "stop all").
func (e *Engine) StopAll() {
	for _, rs := range e.runningScripts {
		rs.vm.Stop()
	}
	e.runningScripts = nil
	e.pendingBroadcasts = nil

	var clones []*scratch.Sprite
	for _, t := range e.targets {
		if sp, ok := t.(*scratch.Sprite); ok && !sp.IsClone() {
			clones = append(clones, sp.AllChildren()...)
		}
	}
	for _, clone := range clones {
		e.DeinitClone(clone)
	}
	e.running = false
}

// Stop halts the engine's tick loop (see RunEventLoop) and every running
// script.
func (e *Engine) Stop() {
	e.StopAll()
	e.StopEventLoop()
}

// tick runs one frame: drain broadcasts, run every live script once,
// remove halted scripts, and mark the frame dirty if any script requested
// a redraw (§4.4 "Tick loop").
func (e *Engine) tick() {
	e.drainBroadcasts()

	// Indexed rather than ranged: a block function running here (create a
	// clone, broadcast-and-wait) can append to e.runningScripts, and such a
	// script runs within the same tick that spawned it. A script another
	// script's block function stopped via haltMatching/StopTarget is simply
	// skipped, never resurrected, because Run() is never called on it again.
	for i := 0; i < len(e.runningScripts); i++ {
		rs := e.runningScripts[i]
		if !rs.vm.Running() {
			continue
		}
		e.currentScript = rs
		rs.vm.Run()
		e.currentScript = nil
	}

	live := e.runningScripts[:0]
	for _, rs := range e.runningScripts {
		if rs.vm.Running() {
			live = append(live, rs)
		}
	}
	e.runningScripts = live

	if e.dirty && e.redrawHandler != nil {
		e.redrawHandler()
	}
	e.dirty = false
}

// Tick runs exactly one frame without sleeping, for tests and embedders
// that drive the loop manually.
func (e *Engine) Tick() { e.tick() }

// RunEventLoop drives Tick at the configured FPS until StopEventLoop is
// called or the engine is stopped, sleeping between frames unless turbo
// mode is enabled (§4.4 step 4, §6 "runEventLoop"). It blocks the calling
// goroutine.
func (e *Engine) RunEventLoop() {
	e.stopCh = make(chan struct{})
	e.doneCh = make(chan struct{})
	defer close(e.doneCh)

	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		start := e.clock.Now()
		e.tick()

		if !e.turbo {
			budget := time.Duration(float64(time.Second) / e.fps)
			elapsed := e.clock.Now().Sub(start)
			if remaining := budget - elapsed; remaining > 0 {
				e.clock.Sleep(remaining)
			}
		}
	}
}

// StopEventLoop signals RunEventLoop to return after its current frame.
func (e *Engine) StopEventLoop() {
	if e.stopCh != nil {
		select {
		case <-e.stopCh:
		default:
			close(e.stopCh)
		}
	}
}
