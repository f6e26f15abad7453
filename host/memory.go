// Package host runs the Z80 core as a flat 64K machine with a byte-stream
// console, for test programs and CP/M-style utilities.
package host

import (
	"os"

	"github.com/pkg/errors"
)

const AddressSpace = 0x10000

// Memory is a flat, fully writable 64K address space.
type Memory struct {
	data [AddressSpace]byte
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read(addr uint16) byte {
	return m.data[addr]
}

func (m *Memory) Write(addr uint16, value byte) {
	m.data[addr] = value
}

// Load copies program to org. Images that would wrap past 0xFFFF are
// rejected rather than silently overwriting low memory.
func (m *Memory) Load(org uint16, program []byte) error {
	end := int(org) + len(program)
	if end > AddressSpace {
		return errors.Errorf("program too large: %d bytes at 0x%04X ends at 0x%X", len(program), org, end)
	}
	copy(m.data[org:], program)
	return nil
}

// LoadFile reads an image from disk and loads it at org.
func (m *Memory) LoadFile(path string, org uint16) error {
	program, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	return errors.Wrapf(m.Load(org, program), "load %s", path)
}

// Slice returns a copy of n bytes starting at addr, wrapping at 64K.
func (m *Memory) Slice(addr uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.data[addr+uint16(i)]
	}
	return out
}
