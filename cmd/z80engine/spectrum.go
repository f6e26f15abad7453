package main

import (
	"github.com/alecthomas/kong"

	"github.com/intuitionamiga/z80engine/spectrum"
)

type spectrumCmd struct {
	ROM    string `required:"" type:"existingfile" help:"16K Spectrum ROM image."`
	SNA    string `name:"sna" help:"Snapshot to restore after power-on."`
	Save   string `default:"z80engine.sna" help:"Where F2 writes a snapshot."`
	Scale  int    `default:"2" help:"Window scale factor."`
	Type   string `help:"Text typed on the keyboard once the machine is running."`
	Mute   bool   `help:"Disable the beeper."`
	Frames int    `help:"Exit after this many frames, 0 to run until closed. Required by headless builds."`
}

func (c *spectrumCmd) Run(ctx *kong.Context) error {
	m := spectrum.NewMachine(spectrum.DefaultSampleRate)
	if err := m.Memory.LoadROMFile(c.ROM); err != nil {
		return err
	}
	if c.SNA != "" {
		snap, err := spectrum.LoadSNAFile(c.SNA)
		if err != nil {
			return err
		}
		m.Restore(snap)
	}
	if c.Type != "" {
		m.Keys.Type(c.Type)
	}
	return runSpectrum(m, windowOptions{
		scale:    clampScale(c.Scale),
		savePath: c.Save,
		mute:     c.Mute,
		frames:   c.Frames,
	})
}

type windowOptions struct {
	scale    int
	savePath string
	mute     bool
	frames   int
}

// frameBudget stops a run after limit frames; a zero limit never runs out.
type frameBudget struct {
	limit int
	done  int
}

func (b *frameBudget) count() {
	b.done++
}

func (b *frameBudget) spent() bool {
	return b.limit > 0 && b.done >= b.limit
}

func clampScale(s int) int {
	switch {
	case s < 1:
		return 1
	case s > 6:
		return 6
	}
	return s
}
