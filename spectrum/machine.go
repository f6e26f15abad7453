// machine.go - 48K ZX Spectrum frame loop

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

package spectrum

import (
	"github.com/intuitionamiga/z80engine/host"
	"github.com/intuitionamiga/z80engine/z80"
)

// Machine is a 48K Spectrum. It is driven one frame at a time from a single
// goroutine; only Keys and ULA.SetKey may be used from elsewhere.
type Machine struct {
	CPU    *z80.CPU
	Memory *Memory
	ULA    *ULA
	Bus    *host.Bus
	Keys   *KeyQueue
	Beeper *Beeper

	screen  *Screen
	borders [FrameHeight]byte
	frame   []byte
	frames  uint64
}

// NewMachine builds a Spectrum with an empty ROM. Load one with
// Memory.LoadROM or restore a snapshot before running.
func NewMachine(sampleRate int) *Machine {
	mem := NewMemory()
	ula := NewULA()
	bus := host.NewBus()
	for p := 0; p < 256; p += 2 {
		bus.Map(byte(p), ula)
	}

	m := &Machine{
		CPU:    z80.New(mem, bus),
		Memory: mem,
		ULA:    ula,
		Bus:    bus,
		Keys:   &KeyQueue{},
		Beeper: NewBeeper(sampleRate),
		screen: NewScreen(),
	}
	m.frame = m.screen.Render(mem.RAM()[:VRAMSize], &m.borders)
	return m
}

// Reset is a power-on reset that keeps the ROM. RAM is cleared.
func (m *Machine) Reset() {
	m.Memory.ClearRAM()
	m.CPU.Reset()
	m.ULA.Reset()
	m.Keys.Clear(m.ULA)
	m.Bus.ClearINT()
	m.Beeper.Reset()
	m.screen.Reset()
	m.frames = 0
}

// RunFrame runs one 50 Hz frame: /INT is held for the first 32 T-states,
// the CPU is ticked through 69888 T-states while the border and beeper are
// sampled, then the screen is rendered. An instruction still in progress at
// the end of the frame completes at the start of the next one.
func (m *Machine) RunFrame() error {
	m.Keys.Advance(m.ULA)
	m.Bus.RaiseINT(0xFF)

	for t := 0; t < FrameTStates; t++ {
		if t == INTLength {
			m.Bus.ClearINT()
		}
		if t%TStatesPerLine == 0 {
			if y := t/TStatesPerLine - FirstFrameLine; y >= 0 && y < FrameHeight {
				m.borders[y] = m.ULA.Border()
			}
		}
		m.CPU.Tick()
		if err := m.CPU.Fault(); err != nil {
			m.Bus.ClearINT()
			return err
		}
		m.Beeper.Advance(1, m.ULA.EAR(), m.ULA.MIC())
	}

	m.frame = m.screen.Render(m.Memory.RAM()[:VRAMSize], &m.borders)
	m.screen.EndFrame()
	m.frames++
	return nil
}

// Frame returns the last rendered 320x256 RGBA frame. It is overwritten by
// the next RunFrame.
func (m *Machine) Frame() []byte {
	return m.frame
}

// Frames returns the number of completed frames since reset.
func (m *Machine) Frames() uint64 {
	return m.frames
}

// Border returns the border colour captured for frame line y.
func (m *Machine) Border(y int) byte {
	return m.borders[y]
}
