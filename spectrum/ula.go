// ula.go - ZX Spectrum ULA port: border, beeper and keyboard matrix

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

package spectrum

import "sync"

const noKeys = 0x1F

// ULA is the port side of the Spectrum's gate array. It answers on every
// even port. The keyboard matrix may be updated from another goroutine; the
// rest is only touched by the emulation goroutine.
type ULA struct {
	mu   sync.Mutex
	rows [8]byte // active low, bits 0-4

	border byte
	ear    bool
	mic    bool
	earIn  bool
}

func NewULA() *ULA {
	u := &ULA{}
	u.ReleaseAll()
	return u
}

// In reads the keyboard. Each clear bit in the high address byte selects a
// half-row; selected rows are ANDed together.
func (u *ULA) In(port uint16) byte {
	if port&1 != 0 {
		return 0xFF
	}
	sel := byte(port >> 8)
	value := byte(noKeys)
	u.mu.Lock()
	for row := range u.rows {
		if sel&(1<<row) == 0 {
			value &= u.rows[row]
		}
	}
	u.mu.Unlock()

	value |= 0xA0
	if u.earIn {
		value |= 0x40
	}
	return value
}

func (u *ULA) Out(port uint16, value byte) {
	if port&1 != 0 {
		return
	}
	u.border = value & 0x07
	u.mic = value&0x08 != 0
	u.ear = value&0x10 != 0
}

func (u *ULA) Border() byte { return u.border }
func (u *ULA) EAR() bool    { return u.ear }
func (u *ULA) MIC() bool    { return u.mic }

// SetEARInput drives bit 6 of port reads (the tape input).
func (u *ULA) SetEARInput(on bool) {
	u.earIn = on
}

// SetKey presses or releases one key of the matrix.
func (u *ULA) SetKey(k Key, down bool) {
	if k.Row < 0 || k.Row > 7 || k.Bit < 0 || k.Bit > 4 {
		return
	}
	u.mu.Lock()
	if down {
		u.rows[k.Row] &^= 1 << k.Bit
	} else {
		u.rows[k.Row] |= 1 << k.Bit
	}
	u.mu.Unlock()
}

func (u *ULA) ReleaseAll() {
	u.mu.Lock()
	for i := range u.rows {
		u.rows[i] = noKeys
	}
	u.mu.Unlock()
}

// Reset returns the port latch to power-on state. Keys stay as they are.
func (u *ULA) Reset() {
	u.border = 0
	u.ear = false
	u.mic = false
}
