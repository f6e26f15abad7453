//go:build headless

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/intuitionamiga/z80engine/spectrum"
)

// runSpectrum without a display runs a fixed number of frames and reports
// where the CPU ended up. Useful for smoke-testing ROMs and snapshots in CI.
func runSpectrum(m *spectrum.Machine, opts windowOptions) error {
	if opts.frames <= 0 {
		return errors.New("spectrum: headless build needs --frames")
	}
	budget := frameBudget{limit: opts.frames}
	for !budget.spent() {
		if err := m.RunFrame(); err != nil {
			return err
		}
		m.Beeper.Drain()
		budget.count()
	}
	fmt.Fprintf(os.Stderr, "spectrum: %d frames, PC=0x%04X, border %d\n", m.Frames(), m.CPU.PC, m.ULA.Border())
	return nil
}
