package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/intuitionamiga/z80engine/host"
	"github.com/intuitionamiga/z80engine/script"
)

type runCmd struct {
	File string `arg:"" type:"existingfile" help:"Binary image to load."`

	Org   string `default:"0x0100" help:"Load address."`
	Entry string `help:"Start address, defaults to --org."`
	SP    string `name:"sp" default:"0xF000" help:"Initial stack pointer."`

	MaxInstructions uint64 `name:"max-instructions" help:"Stop after this many instructions, 0 for no limit."`
	Clock           int    `default:"3500000" help:"Emulated clock in Hz, used by --im1-hz."`
	IM1Hz           int    `name:"im1-hz" help:"Raise a maskable interrupt this many times per emulated second."`

	Trace  bool   `help:"Disassemble every instruction to stderr."`
	Perf   bool   `help:"Report MIPS once per second."`
	Script string `help:"Lua script defining on_step, on_out or on_halt."`
	TTY    bool   `name:"tty" help:"Feed the console from stdin in raw mode."`
	Input  string `help:"Text queued on the console before the run."`
}

func (c *runCmd) config() (host.Config, error) {
	var (
		cfg host.Config
		err error
	)
	if cfg.Org, err = parseAddress(c.Org, 0x0100); err != nil {
		return cfg, err
	}
	if cfg.Entry, err = parseAddress(c.Entry, cfg.Org); err != nil {
		return cfg, err
	}
	if cfg.SP, err = parseAddress(c.SP, 0xF000); err != nil {
		return cfg, err
	}
	cfg.MaxInstructions = c.MaxInstructions
	if c.IM1Hz > 0 {
		if c.Clock <= 0 {
			return cfg, errors.Errorf("--clock must be positive, got %d", c.Clock)
		}
		cfg.IM1Interval = c.Clock / c.IM1Hz
	}
	if c.Trace {
		cfg.Trace = os.Stderr
	}
	cfg.Perf = c.Perf
	return cfg, nil
}

func (c *runCmd) Run(ctx *kong.Context) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if c.TTY {
		out = host.NewCRLFWriter(os.Stdout)
	}
	r := host.NewRunner(cfg, out)
	r.SetLog(os.Stderr)
	if err := r.LoadFile(c.File); err != nil {
		return err
	}
	if c.Input != "" {
		r.Console.Feed([]byte(c.Input))
	}
	if c.Script != "" {
		engine := script.New(r.CPU, r.Memory, os.Stderr)
		defer engine.Close()
		if err := engine.DoFile(c.Script); err != nil {
			return err
		}
		r.AddHook(engine)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	g.Go(func() error {
		defer cancel()
		return r.Run(runCtx)
	})
	if c.TTY {
		g.Go(func() error {
			return host.NewTerminalHost(r.Console).Run(runCtx)
		})
	}
	err = g.Wait()

	if cerr := r.Console.Err(); cerr != nil {
		return errors.Wrap(cerr, "console output")
	}
	switch {
	case errors.Is(err, host.ErrStuck), errors.Is(err, host.ErrInstructionLimit), errors.Is(err, script.ErrStopped):
		fmt.Fprintf(os.Stderr, "z80: %v after %d instructions, %d T-states\n", err, r.Instructions(), r.CPU.Cycles())
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(os.Stderr, "z80: interrupted at PC=0x%04X\n", r.CPU.PC)
		return nil
	}
	var bp *script.BreakpointError
	if errors.As(err, &bp) {
		fmt.Fprintf(os.Stderr, "z80: %v\n", err)
		return nil
	}
	return err
}
