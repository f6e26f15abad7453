package z80

const (
	FlagS  byte = 0x80
	FlagZ  byte = 0x40
	FlagH  byte = 0x10
	FlagPV byte = 0x04
	FlagN  byte = 0x02
	FlagC  byte = 0x01
)

// RegisterSet is one bank of the 8-bit registers. The Z80 has two of them;
// EX AF,AF' and EXX swap parts of the main bank with the shadow bank.
type RegisterSet struct {
	A, F byte
	B, C byte
	D, E byte
	H, L byte
}

func (r *RegisterSet) AF() uint16 { return uint16(r.A)<<8 | uint16(r.F) }
func (r *RegisterSet) BC() uint16 { return uint16(r.B)<<8 | uint16(r.C) }
func (r *RegisterSet) DE() uint16 { return uint16(r.D)<<8 | uint16(r.E) }
func (r *RegisterSet) HL() uint16 { return uint16(r.H)<<8 | uint16(r.L) }

func (r *RegisterSet) SetAF(v uint16) { r.A, r.F = byte(v>>8), byte(v) }
func (r *RegisterSet) SetBC(v uint16) { r.B, r.C = byte(v>>8), byte(v) }
func (r *RegisterSet) SetDE(v uint16) { r.D, r.E = byte(v>>8), byte(v) }
func (r *RegisterSet) SetHL(v uint16) { r.H, r.L = byte(v>>8), byte(v) }

// Registers is the complete programmer-visible register file.
type Registers struct {
	RegisterSet
	Shadow RegisterSet

	IX, IY uint16
	SP, PC uint16
	I, R   byte
}

// Flag reports whether every bit in mask is set in F.
func (r *Registers) Flag(mask byte) bool {
	return r.F&mask == mask
}

func (r *Registers) SetFlag(mask byte, on bool) {
	if on {
		r.F |= mask
	} else {
		r.F &^= mask
	}
}

// ExAF swaps AF with AF'.
func (r *Registers) ExAF() {
	r.A, r.Shadow.A = r.Shadow.A, r.A
	r.F, r.Shadow.F = r.Shadow.F, r.F
}

// Exx swaps BC, DE and HL with their shadows. AF is untouched.
func (r *Registers) Exx() {
	r.B, r.Shadow.B = r.Shadow.B, r.B
	r.C, r.Shadow.C = r.Shadow.C, r.C
	r.D, r.Shadow.D = r.Shadow.D, r.D
	r.E, r.Shadow.E = r.Shadow.E, r.E
	r.H, r.Shadow.H = r.Shadow.H, r.H
	r.L, r.Shadow.L = r.Shadow.L, r.L
}

// incR bumps the refresh counter: the low seven bits count, bit 7 is sticky.
func (r *Registers) incR() {
	r.R = r.R&0x80 | (r.R+1)&0x7F
}

// State is a copy of everything a snapshot needs to restore the processor.
type State struct {
	Registers
	IFF1, IFF2 bool
	IM         byte
	Halted     bool
}
