package host

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/intuitionamiga/z80engine/z80"
)

var (
	// ErrStuck means the program executed HALT with interrupts disabled.
	ErrStuck = errors.New("halted with interrupts disabled")
	// ErrInstructionLimit means Config.MaxInstructions was reached.
	ErrInstructionLimit = errors.New("instruction limit reached")
)

// Hook observes execution. A non-nil error from OnStep or OnHalt ends the
// run and is returned from Run.
type Hook interface {
	OnStep(cpu *z80.CPU) error
	OnOut(port uint16, value byte)
	OnHalt(cpu *z80.CPU) error
}

type Config struct {
	Org   uint16
	Entry uint16 // defaults to Org when zero
	SP    uint16

	// MaxInstructions bounds the run; zero means no limit.
	MaxInstructions uint64

	// IM1Interval raises a maskable interrupt every that many T-states.
	IM1Interval int

	Trace io.Writer
	Perf  bool
}

// Runner owns a CPU wired to a flat memory and a console.
type Runner struct {
	CPU     *z80.CPU
	Memory  *Memory
	Bus     *Bus
	Console *Console

	cfg          Config
	hooks        []Hook
	instructions uint64
	log          io.Writer
}

// NewRunner builds the machine. Console output goes to out.
func NewRunner(cfg Config, out io.Writer) *Runner {
	mem := NewMemory()
	bus := NewBus()
	console := NewConsole(out)
	bus.Map(ConsoleDataPort, console)
	bus.Map(ConsoleStatusPort, console)

	r := &Runner{
		CPU:     z80.New(mem, bus),
		Memory:  mem,
		Bus:     bus,
		Console: console,
		cfg:     cfg,
		log:     os.Stdout,
	}
	bus.Watch(func(port uint16, value byte) {
		for _, h := range r.hooks {
			h.OnOut(port, value)
		}
	})
	return r
}

// SetLog redirects perf reports.
func (r *Runner) SetLog(w io.Writer) {
	r.log = w
}

func (r *Runner) AddHook(h Hook) {
	r.hooks = append(r.hooks, h)
}

// Load places program at the configured origin and resets the CPU onto the
// entry point.
func (r *Runner) Load(program []byte) error {
	if err := r.Memory.Load(r.cfg.Org, program); err != nil {
		return err
	}
	r.Reset()
	return nil
}

// LoadFile is Load for an image on disk.
func (r *Runner) LoadFile(path string) error {
	if err := r.Memory.LoadFile(path, r.cfg.Org); err != nil {
		return err
	}
	r.Reset()
	return nil
}

func (r *Runner) Reset() {
	r.CPU.Reset()
	r.CPU.PC = r.cfg.Entry
	if r.cfg.Entry == 0 {
		r.CPU.PC = r.cfg.Org
	}
	r.CPU.SP = r.cfg.SP
	r.instructions = 0
}

// Instructions returns the number of steps executed by Run.
func (r *Runner) Instructions() uint64 {
	return r.instructions
}

// Run steps the CPU until it halts for good (HALT with interrupts off and no
// NMI latched), faults, a hook stops it, the
// instruction limit is hit or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	var (
		sinceIRQ   int
		perfStart  = time.Now()
		lastReport = perfStart
	)

	for {
		if r.instructions&0x3FF == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if r.CPU.Stuck() && !r.Bus.NMIPending() {
			for _, h := range r.hooks {
				if err := h.OnHalt(r.CPU); err != nil {
					return err
				}
			}
			return errors.Wrapf(ErrStuck, "at PC=0x%04X", r.CPU.PC)
		}
		if r.cfg.MaxInstructions > 0 && r.instructions >= r.cfg.MaxInstructions {
			return ErrInstructionLimit
		}

		if r.cfg.Trace != nil && !r.CPU.Halted {
			r.trace()
		}
		for _, h := range r.hooks {
			if err := h.OnStep(r.CPU); err != nil {
				return err
			}
		}

		n, err := r.CPU.Step()
		if err != nil {
			return errors.Wrapf(err, "after %d instructions", r.instructions)
		}
		r.instructions++

		if r.cfg.IM1Interval > 0 {
			sinceIRQ += n
			if sinceIRQ >= r.cfg.IM1Interval {
				sinceIRQ -= r.cfg.IM1Interval
				r.Bus.RaiseINT(0xFF)
			}
		}

		if r.cfg.Perf && r.instructions&0xFFFFF == 0 {
			now := time.Now()
			if now.Sub(lastReport) >= time.Second {
				elapsed := now.Sub(perfStart).Seconds()
				mips := float64(r.instructions) / elapsed / 1_000_000
				fmt.Fprintf(r.log, "z80: %.2f MIPS (%d instructions in %.1fs)\n", mips, r.instructions, elapsed)
				lastReport = now
			}
		}
	}
}

func (r *Runner) trace() {
	c := r.CPU
	text, _ := z80.Disassemble(r.Memory, c.PC)
	fmt.Fprintf(r.cfg.Trace, "%04X  %-20s A=%02X F=%02X BC=%04X DE=%04X HL=%04X IX=%04X IY=%04X SP=%04X\n",
		c.PC, text, c.A, c.F, c.BC(), c.DE(), c.HL(), c.IX, c.IY, c.SP)
}
