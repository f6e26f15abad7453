// Package script runs Lua hooks against a running Z80. A script sees a
// global z80 table for registers, memory and breakpoints, and may define
// on_step(pc), on_out(port, value) and on_halt(pc) which the run loop calls.
package script

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/z80engine/z80"
)

// ErrStopped is returned from the hooks after the script calls z80.stop().
var ErrStopped = errors.New("stopped by script")

// BreakpointError is returned from OnStep when PC reaches a breakpoint.
type BreakpointError struct {
	PC uint16
}

func (e *BreakpointError) Error() string {
	return fmt.Sprintf("breakpoint at %04X", e.PC)
}

// Engine is one Lua state bound to a CPU and its memory. It satisfies the
// host runner's Hook interface. Not safe for concurrent use.
type Engine struct {
	L   *lua.LState
	cpu *z80.CPU
	mem z80.Memory
	out io.Writer

	breakpoints map[uint16]bool
	stop        bool
	err         error

	onStep, onOut, onHalt lua.LValue
}

// New creates an engine. Output from the script's log function goes to out.
func New(cpu *z80.CPU, mem z80.Memory, out io.Writer) *Engine {
	e := &Engine{
		L:           lua.NewState(),
		cpu:         cpu,
		mem:         mem,
		out:         out,
		breakpoints: make(map[uint16]bool),
		onStep:      lua.LNil,
		onOut:       lua.LNil,
		onHalt:      lua.LNil,
	}
	e.L.SetGlobal("z80", e.L.SetFuncs(e.L.NewTable(), map[string]lua.LGFunction{
		"reg":        e.luaReg,
		"setreg":     e.luaSetReg,
		"peek":       e.luaPeek,
		"poke":       e.luaPoke,
		"cycles":     e.luaCycles,
		"stop":       e.luaStop,
		"breakpoint": e.luaBreakpoint,
		"clear":      e.luaClear,
		"log":        e.luaLog,
	}))
	return e
}

func (e *Engine) Close() {
	e.L.Close()
}

// DoString runs a chunk and picks up any hook functions it defined.
func (e *Engine) DoString(src string) error {
	if err := e.L.DoString(src); err != nil {
		return errors.Wrap(err, "lua")
	}
	e.bindHooks()
	return nil
}

func (e *Engine) DoFile(path string) error {
	if err := e.L.DoFile(path); err != nil {
		return errors.Wrapf(err, "lua %s", path)
	}
	e.bindHooks()
	return nil
}

func (e *Engine) bindHooks() {
	e.onStep = e.hook("on_step")
	e.onOut = e.hook("on_out")
	e.onHalt = e.hook("on_halt")
}

func (e *Engine) hook(name string) lua.LValue {
	if fn := e.L.GetGlobal(name); fn.Type() == lua.LTFunction {
		return fn
	}
	return lua.LNil
}

// SetBreakpoint adds a breakpoint without going through Lua.
func (e *Engine) SetBreakpoint(addr uint16) {
	e.breakpoints[addr] = true
}

// Breakpoints returns the active breakpoints in address order.
func (e *Engine) Breakpoints() []uint16 {
	out := make([]uint16, 0, len(e.breakpoints))
	for addr := range e.breakpoints {
		out = append(out, addr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *Engine) call(fn lua.LValue, args ...lua.LValue) error {
	if fn == lua.LNil {
		return nil
	}
	err := e.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	return errors.Wrap(err, "lua")
}

// result folds a hook error, a deferred on_out error and a stop request
// into the value returned to the run loop.
func (e *Engine) result(err error) error {
	if err != nil {
		return err
	}
	if e.err != nil {
		err, e.err = e.err, nil
		return err
	}
	if e.stop {
		e.stop = false
		return ErrStopped
	}
	return nil
}

func (e *Engine) OnStep(cpu *z80.CPU) error {
	if e.breakpoints[cpu.PC] {
		return &BreakpointError{PC: cpu.PC}
	}
	return e.result(e.call(e.onStep, lua.LNumber(cpu.PC)))
}

// OnOut cannot fail the write it observes; errors surface at the next step.
func (e *Engine) OnOut(port uint16, value byte) {
	if err := e.call(e.onOut, lua.LNumber(port), lua.LNumber(value)); err != nil && e.err == nil {
		e.err = err
	}
}

func (e *Engine) OnHalt(cpu *z80.CPU) error {
	return e.result(e.call(e.onHalt, lua.LNumber(cpu.PC)))
}

func (e *Engine) luaReg(L *lua.LState) int {
	name := L.CheckString(1)
	v, ok := Register(e.cpu, name)
	if !ok {
		L.ArgError(1, "unknown register "+name)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (e *Engine) luaSetReg(L *lua.LState) int {
	name := L.CheckString(1)
	if !SetRegister(e.cpu, name, uint16(L.CheckInt(2))) {
		L.ArgError(1, "unknown register "+name)
	}
	return 0
}

func (e *Engine) luaPeek(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	if L.GetTop() >= 2 {
		n := L.CheckInt(2)
		t := L.CreateTable(n, 0)
		for i := range n {
			t.Append(lua.LNumber(e.mem.Read(addr + uint16(i))))
		}
		L.Push(t)
		return 1
	}
	L.Push(lua.LNumber(e.mem.Read(addr)))
	return 1
}

func (e *Engine) luaPoke(L *lua.LState) int {
	addr := uint16(L.CheckInt(1))
	switch v := L.Get(2).(type) {
	case *lua.LTable:
		v.ForEach(func(_, value lua.LValue) {
			if n, ok := value.(lua.LNumber); ok {
				e.mem.Write(addr, byte(n))
				addr++
			}
		})
	default:
		e.mem.Write(addr, byte(L.CheckInt(2)))
	}
	return 0
}

func (e *Engine) luaCycles(L *lua.LState) int {
	L.Push(lua.LNumber(e.cpu.Cycles()))
	return 1
}

func (e *Engine) luaStop(L *lua.LState) int {
	e.stop = true
	return 0
}

func (e *Engine) luaBreakpoint(L *lua.LState) int {
	e.breakpoints[uint16(L.CheckInt(1))] = true
	return 0
}

func (e *Engine) luaClear(L *lua.LState) int {
	if L.GetTop() == 0 {
		e.breakpoints = make(map[uint16]bool)
		return 0
	}
	delete(e.breakpoints, uint16(L.CheckInt(1)))
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	if e.out == nil {
		return 0
	}
	args := make([]any, L.GetTop())
	for i := range args {
		args[i] = L.Get(i + 1).String()
	}
	fmt.Fprintln(e.out, append([]any{"lua:"}, args...)...)
	return 0
}
