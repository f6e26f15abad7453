// Package spectrum emulates a 48K ZX Spectrum around the z80 core: 16K of
// ROM, 48K of RAM, the ULA port, the screen, the beeper and .SNA snapshots.
package spectrum

import (
	"os"

	"github.com/pkg/errors"
)

// Memory is the 48K memory map. Writes below 0x4000 are dropped.
type Memory struct {
	rom [ROMSize]byte
	ram [RAMSize]byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read(addr uint16) byte {
	if addr < ROMSize {
		return m.rom[addr]
	}
	return m.ram[addr-ROMSize]
}

func (m *Memory) Write(addr uint16, value byte) {
	if addr < ROMSize {
		return
	}
	m.ram[addr-ROMSize] = value
}

// LoadROM installs a 16K ROM image.
func (m *Memory) LoadROM(image []byte) error {
	if len(image) != ROMSize {
		return errors.Errorf("rom image is %d bytes, want %d", len(image), ROMSize)
	}
	copy(m.rom[:], image)
	return nil
}

func (m *Memory) LoadROMFile(path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read rom %s", path)
	}
	return errors.Wrapf(m.LoadROM(image), "load rom %s", path)
}

// RAM exposes the 48K above the ROM, starting at 0x4000.
func (m *Memory) RAM() []byte {
	return m.ram[:]
}

// ClearRAM zeroes RAM, leaving the ROM in place.
func (m *Memory) ClearRAM() {
	m.ram = [RAMSize]byte{}
}
