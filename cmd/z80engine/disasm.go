package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/intuitionamiga/z80engine/host"
	"github.com/intuitionamiga/z80engine/script"
	"github.com/intuitionamiga/z80engine/spectrum"
	"github.com/intuitionamiga/z80engine/z80"
)

type disasmCmd struct {
	File  string `arg:"" type:"existingfile" help:"Binary image to list."`
	Org   string `default:"0x0000" help:"Load address."`
	Start string `help:"First address to list, defaults to --org."`
	Count int    `default:"32" help:"Number of instructions."`
}

func (c *disasmCmd) Run(ctx *kong.Context) error {
	org, err := parseAddress(c.Org, 0)
	if err != nil {
		return err
	}
	pc, err := parseAddress(c.Start, org)
	if err != nil {
		return err
	}
	mem := host.NewMemory()
	if err := mem.LoadFile(c.File, org); err != nil {
		return err
	}
	listing(os.Stdout, mem, pc, c.Count)
	return nil
}

func listing(w io.Writer, mem *host.Memory, pc uint16, count int) {
	for range count {
		text, size := z80.Disassemble(mem, pc)
		var hex strings.Builder
		for _, b := range mem.Slice(pc, size) {
			fmt.Fprintf(&hex, "%02X ", b)
		}
		fmt.Fprintf(w, "%04X  %-12s %s\n", pc, hex.String(), text)
		pc += uint16(size)
	}
}

type snaCmd struct {
	File  string `arg:"" type:"existingfile" help:"48K .SNA snapshot."`
	Count int    `default:"8" help:"Instructions to list from PC."`
}

func (c *snaCmd) Run(ctx *kong.Context) error {
	snap, err := spectrum.LoadSNAFile(c.File)
	if err != nil {
		return err
	}
	cpu := z80.New(nil, nil)
	cpu.SetState(snap.State)

	for i, name := range script.RegisterNames {
		v, _ := script.Register(cpu, name)
		width := 2
		if len(strings.TrimSuffix(name, "'")) == 2 && name != "IM" {
			width = 4
		}
		fmt.Printf("%-4s %0*X", name, width, v)
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("   ")
		}
	}
	fmt.Printf("\nIFF1 %v  IFF2 %v  border %d\n\n", snap.State.IFF1, snap.State.IFF2, snap.Border)

	mem := host.NewMemory()
	if err := mem.Load(spectrum.ROMSize, snap.RAM[:]); err != nil {
		return err
	}
	listing(os.Stdout, mem, snap.State.PC, c.Count)
	return nil
}
