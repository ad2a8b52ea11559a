package bytecode

import (
	"fmt"

	"github.com/chazu/maggie/value"
)

// registerStackSize bounds the VM's register stack. It must exceed the
// deepest concurrent-reporter nesting any real script produces; 1024 is
// ample (§4.3).
const registerStackSize = 1024

// Func is a block-function primitive: the callable a compiled EXEC
// instruction invokes. It receives the VM so it can pop its own arguments
// off the register stack and push its own results; the return value is the
// number of registers it pushed. The VM does not consult it, since the
// function itself already moved the stack pointer.
type Func func(vm *VM) uint32

// FuncResolver looks up a block function by its compile-time-assigned
// index. Implemented by the engine, whose registry assigns indices with
// pointer-identity de-duplication (§4.1).
type FuncResolver interface {
	FuncAt(idx uint32) Func
}

type procFrame struct {
	returnAddr uint32
	args       []value.Value
}

// VM is a register-stack interpreter for one Script. Many VMs can share one
// Script (e.g. every clone of a sprite runs the same compiled hat); Target
// is reseated per run rather than baked into the Script.
type VM struct {
	Script   *Script
	resolver FuncResolver

	// Target is the entity the currently executing script acts on. Its type
	// is intentionally opaque (an interface{}) so this package never has to
	// import the scratch package (which imports this one for the Func
	// signature); block functions type-assert it to whatever concrete
	// interface they need.
	Target any

	ip uint32

	stack []value.Value
	sp    int

	running bool
	warp    bool
	yielded bool

	frames []procFrame

	// ScriptID identifies the running script instance for stop-targeting
	// (§4.4 "stop other scripts in sprite").
	ScriptID uint64

	Trace bool
}

// NewVM constructs a VM bound to script, ready to run once Target is set.
func NewVM(script *Script, resolver FuncResolver) *VM {
	return &VM{
		Script:   script,
		resolver: resolver,
		stack:    make([]value.Value, registerStackSize),
	}
}

// Reset rewinds the instruction pointer and clears the register stack but
// preserves the script's pools (§4.3 "reset()").
func (vm *VM) Reset() {
	vm.ip = 0
	vm.sp = 0
	vm.running = true
	vm.warp = false
	vm.yielded = false
	vm.frames = vm.frames[:0]
}

// SeekTo repositions the instruction pointer, for scripts holding several
// independently-startable roots (one target's hats and custom-block
// definitions compiled into a single shared Script). Call after Reset.
func (vm *VM) SeekTo(ip uint32) { vm.ip = ip }

// RegisterCount exposes the current register stack depth for tests (§4.3).
func (vm *VM) RegisterCount() int { return vm.sp }

// Running reports whether the script has neither halted nor been stopped.
func (vm *VM) Running() bool { return vm.running }

// Warped reports whether the script is currently running without screen
// refresh (turbo-mode custom blocks and "warp" scripts).
func (vm *VM) Warped() bool { return vm.warp }

// Stop halts the VM immediately, as if HALT had been reached with an empty
// frame stack.
func (vm *VM) Stop() { vm.running = false }

// Push places v on the register stack. Overflow is a contract violation:
// it indicates a miscompiled script, never a user error, so it panics
// (§4.3 "Failure semantics").
func (vm *VM) Push(v value.Value) {
	if vm.sp >= len(vm.stack) {
		panic("bytecode: register stack overflow")
	}
	vm.stack[vm.sp] = v
	vm.sp++
}

// Pop removes and returns the top register. Underflow panics for the same
// reason overflow does.
func (vm *VM) Pop() value.Value {
	if vm.sp == 0 {
		panic("bytecode: register stack underflow")
	}
	vm.sp--
	return vm.stack[vm.sp]
}

// Peek returns the top register without removing it.
func (vm *VM) Peek() value.Value {
	if vm.sp == 0 {
		panic("bytecode: register stack underflow")
	}
	return vm.stack[vm.sp-1]
}

// RequestYield marks the current EXEC as wanting a cooperative yield once it
// returns (used by wait-style and screen-refreshing block functions).
func (vm *VM) RequestYield() { vm.yielded = true }

func (vm *VM) fetch() uint32 {
	w := vm.Script.Code[vm.ip]
	vm.ip++
	return w
}

// Run dispatches instructions until HALT (with an empty frame stack),
// external stop, or a cooperative yield point fires (§4.3). It returns
// having advanced vm.ip to the correct resume point.
func (vm *VM) Run() {
	if !vm.running {
		vm.Reset()
	}
	vm.yielded = false

	for vm.running && !vm.yielded {
		op := Opcode(vm.fetch())
		if vm.Trace {
			fmt.Printf("[%04d] %s\n", vm.ip-1, op)
		}

		switch op {
		case OpStart:
			vm.sp = 0

		case OpHalt:
			if len(vm.frames) > 0 {
				frame := vm.frames[len(vm.frames)-1]
				vm.frames = vm.frames[:len(vm.frames)-1]
				vm.ip = frame.returnAddr
			} else {
				vm.running = false
			}

		case OpConst:
			idx := vm.fetch()
			vm.Push(vm.Script.Constants[idx])

		case OpNull:
			vm.Push(value.Int(0))

		case OpExec:
			idx := vm.fetch()
			f := vm.resolver.FuncAt(idx)
			f(vm)
			if vm.yielded {
				return
			}

		case OpWarp:
			vm.warp = true

		case OpBreakFrame:
			vm.yielded = true

		case OpBreakAtomic:
			if !vm.warp {
				vm.yielded = true
			}

		case OpIf:
			target := vm.fetch()
			cond := vm.Pop()
			if !cond.ToBool() {
				vm.ip = target
			}

		case OpElse:
			target := vm.fetch()
			vm.ip = target

		case OpEndIf:
			// landing pad

		case OpForeverLoop:
			// landing pad; body follows unconditionally

		case OpUntilLoop:
			exit := vm.fetch()
			cond := vm.Pop()
			if cond.ToBool() {
				vm.ip = exit
			}

		case OpRepeatLoop:
			exit := vm.fetch()
			count := vm.Pop()
			n := count.ToInt()
			if n <= 0 {
				vm.ip = exit
			} else {
				vm.Push(value.Int(n - 1))
			}

		case OpLoopEnd:
			head := vm.fetch()
			vm.ip = head
			if !vm.warp {
				vm.yielded = true
			}

		case OpReadVar:
			idx := vm.fetch()
			vm.Push(vm.Script.Variables[idx].Value())

		case OpSetVar:
			idx := vm.fetch()
			v := vm.Pop()
			vm.Script.Variables[idx].SetValue(v)

		case OpChangeVar:
			idx := vm.fetch()
			delta := vm.Pop()
			cell := vm.Script.Variables[idx]
			cell.SetValue(value.Add(cell.Value(), delta))

		case OpReadList:
			idx := vm.fetch()
			i := vm.Pop()
			vm.Push(vm.Script.Lists[idx].At(int(i.ToInt()) - 1))

		case OpListAppend:
			idx := vm.fetch()
			v := vm.Pop()
			vm.Script.Lists[idx].Append(v)

		case OpListDel:
			idx := vm.fetch()
			i := vm.Pop()
			vm.Script.Lists[idx].Delete(int(i.ToInt()) - 1)

		case OpListDelAll:
			idx := vm.fetch()
			vm.Script.Lists[idx].Clear()

		case OpListInsert:
			idx := vm.fetch()
			i := vm.Pop()
			v := vm.Pop()
			vm.Script.Lists[idx].Insert(int(i.ToInt())-1, v)

		case OpListReplace:
			idx := vm.fetch()
			i := vm.Pop()
			v := vm.Pop()
			vm.Script.Lists[idx].Set(int(i.ToInt())-1, v)

		case OpListGetItem:
			idx := vm.fetch()
			i := vm.Pop()
			vm.Push(vm.Script.Lists[idx].At(int(i.ToInt()) - 1))

		case OpListIndexOf:
			idx := vm.fetch()
			v := vm.Pop()
			vm.Push(value.Int(int64(vm.Script.Lists[idx].IndexOf(v))))

		case OpListLength:
			idx := vm.fetch()
			vm.Push(value.Int(int64(vm.Script.Lists[idx].Len())))

		case OpListContains:
			idx := vm.fetch()
			v := vm.Pop()
			vm.Push(value.Bool(vm.Script.Lists[idx].Contains(v)))

		case OpCallProcedure:
			idx := vm.fetch()
			proc := vm.Script.Procedures[idx]
			args := make([]value.Value, len(proc.ArgNames))
			for i := len(args) - 1; i >= 0; i-- {
				args[i] = vm.Pop()
			}
			vm.frames = append(vm.frames, procFrame{returnAddr: vm.ip, args: args})
			vm.ip = proc.EntryOffset

		case OpDefProcedure:
			vm.fetch() // procedure index; the offset itself is recorded at compile time

		case OpReadArg:
			idx := vm.fetch()
			frame := vm.frames[len(vm.frames)-1]
			vm.Push(frame.args[idx])

		default:
			panic(fmt.Sprintf("bytecode: unknown opcode 0x%02X at %d", uint32(op), vm.ip-1))
		}
	}
}
