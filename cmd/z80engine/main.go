// main.go - z80engine command line

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

// Command z80engine runs Z80 programs on a flat 64K machine or a 48K ZX
// Spectrum, and disassembles images and snapshots.
package main

import (
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
)

func main() {
	var cli struct {
		Run      runCmd      `cmd:"" help:"Run a binary on the flat 64K console machine."`
		Spectrum spectrumCmd `cmd:"" help:"Run a 48K ZX Spectrum in a window."`
		Disasm   disasmCmd   `cmd:"" help:"Disassemble a binary image."`
		Sna      snaCmd      `cmd:"" help:"Print the registers stored in a .SNA snapshot."`
	}

	ctx := kong.Parse(&cli,
		kong.Name("z80engine"),
		kong.Description("Cycle-counting Z80 emulator."))
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}

// parseAddress accepts decimal, 0x/0o/0b prefixed and $-prefixed hex.
func parseAddress(s string, def uint16) (uint16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	if strings.HasPrefix(s, "$") {
		s = "0x" + s[1:]
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, errors.Wrapf(err, "bad address %q", s)
	}
	return uint16(v), nil
}
