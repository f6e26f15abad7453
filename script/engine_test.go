package script

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/intuitionamiga/z80engine/host"
)

// countdown decrements B to zero, writing each value to port (B<<8)|0x10, then
// halts with interrupts off.
var countdown = []byte{
	0xF3,       // DI
	0x06, 0x03, // LD B,3
	0x78,       // loop: LD A,B
	0xD3, 0x10, // OUT (10h),A
	0x10, 0xFB, // DJNZ loop
	0x76, // HALT
}

func newRig(t *testing.T, src string) (*host.Runner, *Engine, *bytes.Buffer) {
	t.Helper()
	var log bytes.Buffer
	r := host.NewRunner(host.Config{SP: 0x8000}, nil)
	if err := r.Load(countdown); err != nil {
		t.Fatal(err)
	}
	e := New(r.CPU, r.Memory, &log)
	t.Cleanup(e.Close)
	if err := e.DoString(src); err != nil {
		t.Fatal(err)
	}
	r.AddHook(e)
	return r, e, &log
}

func TestHooksSeeExecution(t *testing.T) {
	is := is.New(t)
	r, _, log := newRig(t, `
		steps = 0
		function on_step(pc) steps = steps + 1 end
		function on_out(port, value) z80.log("out", port, value) end
		function on_halt(pc) z80.log("halt", pc, steps) end
	`)

	err := r.Run(context.Background())
	is.True(errors.Is(err, host.ErrStuck))
	is.Equal(log.String(), "lua: out 784 3\nlua: out 528 2\nlua: out 272 1\nlua: halt 9 12\n")
}

func TestBreakpointStopsRun(t *testing.T) {
	is := is.New(t)
	r, e, _ := newRig(t, `z80.breakpoint(0x0006)`)
	is.Equal(e.Breakpoints(), []uint16{0x0006})

	err := r.Run(context.Background())
	var bp *BreakpointError
	is.True(errors.As(err, &bp))
	is.Equal(bp.PC, uint16(0x0006))
	is.Equal(r.CPU.B, byte(3))
}

func TestStopFromHook(t *testing.T) {
	is := is.New(t)
	r, _, _ := newRig(t, `
		function on_out(port, value)
			if value == 2 then z80.stop() end
		end
	`)

	is.Equal(r.Run(context.Background()), ErrStopped)
	is.Equal(r.CPU.PC, uint16(0x0006))
}

func TestRegisterAndMemoryAccess(t *testing.T) {
	is := is.New(t)
	r, e, log := newRig(t, "")

	is.NoErr(e.DoString(`
		z80.setreg("hl", 0x1234)
		z80.setreg("A'", 0x99)
		z80.poke(0x4000, 0xAB)
		z80.poke(0x4001, {1, 2, 3})
		local t = z80.peek(0x4001, 3)
		z80.log(z80.reg("H"), z80.reg("af'"), z80.peek(0x4000), t[1] + t[2] + t[3])
	`))
	is.Equal(r.CPU.HL(), uint16(0x1234))
	is.Equal(r.Memory.Read(0x4003), byte(3))
	is.Equal(log.String(), "lua: 18 39168 171 6\n")

	err := e.DoString(`z80.reg("Q")`)
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "unknown register"))
}

func TestHookErrorIsReturned(t *testing.T) {
	is := is.New(t)
	r, _, _ := newRig(t, `function on_step(pc) error("boom") end`)

	err := r.Run(context.Background())
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "boom"))
}

func TestClearBreakpoints(t *testing.T) {
	is := is.New(t)
	_, e, _ := newRig(t, `
		z80.breakpoint(1)
		z80.breakpoint(2)
		z80.clear(1)
	`)
	is.Equal(e.Breakpoints(), []uint16{2})
	is.NoErr(e.DoString(`z80.clear()`))
	is.Equal(len(e.Breakpoints()), 0)
}
