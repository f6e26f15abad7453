package script

import (
	"strings"

	"github.com/intuitionamiga/z80engine/z80"
)

// RegisterNames lists every name Register accepts, in display order.
var RegisterNames = []string{
	"A", "F", "B", "C", "D", "E", "H", "L",
	"AF", "BC", "DE", "HL",
	"A'", "F'", "B'", "C'", "D'", "E'", "H'", "L'",
	"AF'", "BC'", "DE'", "HL'",
	"IX", "IY", "SP", "PC", "I", "R", "IM",
}

func Register(c *z80.CPU, name string) (uint16, bool) {
	switch strings.ToUpper(name) {
	case "A":
		return uint16(c.A), true
	case "F":
		return uint16(c.F), true
	case "B":
		return uint16(c.B), true
	case "C":
		return uint16(c.C), true
	case "D":
		return uint16(c.D), true
	case "E":
		return uint16(c.E), true
	case "H":
		return uint16(c.H), true
	case "L":
		return uint16(c.L), true
	case "AF":
		return c.AF(), true
	case "BC":
		return c.BC(), true
	case "DE":
		return c.DE(), true
	case "HL":
		return c.HL(), true
	case "A'":
		return uint16(c.Shadow.A), true
	case "F'":
		return uint16(c.Shadow.F), true
	case "B'":
		return uint16(c.Shadow.B), true
	case "C'":
		return uint16(c.Shadow.C), true
	case "D'":
		return uint16(c.Shadow.D), true
	case "E'":
		return uint16(c.Shadow.E), true
	case "H'":
		return uint16(c.Shadow.H), true
	case "L'":
		return uint16(c.Shadow.L), true
	case "AF'":
		return c.Shadow.AF(), true
	case "BC'":
		return c.Shadow.BC(), true
	case "DE'":
		return c.Shadow.DE(), true
	case "HL'":
		return c.Shadow.HL(), true
	case "IX":
		return c.IX, true
	case "IY":
		return c.IY, true
	case "SP":
		return c.SP, true
	case "PC":
		return c.PC, true
	case "I":
		return uint16(c.I), true
	case "R":
		return uint16(c.R), true
	case "IM":
		return uint16(c.IM), true
	}
	return 0, false
}

// SetRegister writes a register by name. 8-bit registers take the low
// byte of value. IM is read-only here.
func SetRegister(c *z80.CPU, name string, value uint16) bool {
	b := byte(value)
	switch strings.ToUpper(name) {
	case "A":
		c.A = b
	case "F":
		c.F = b
	case "B":
		c.B = b
	case "C":
		c.C = b
	case "D":
		c.D = b
	case "E":
		c.E = b
	case "H":
		c.H = b
	case "L":
		c.L = b
	case "AF":
		c.SetAF(value)
	case "BC":
		c.SetBC(value)
	case "DE":
		c.SetDE(value)
	case "HL":
		c.SetHL(value)
	case "A'":
		c.Shadow.A = b
	case "F'":
		c.Shadow.F = b
	case "B'":
		c.Shadow.B = b
	case "C'":
		c.Shadow.C = b
	case "D'":
		c.Shadow.D = b
	case "E'":
		c.Shadow.E = b
	case "H'":
		c.Shadow.H = b
	case "L'":
		c.Shadow.L = b
	case "AF'":
		c.Shadow.SetAF(value)
	case "BC'":
		c.Shadow.SetBC(value)
	case "DE'":
		c.Shadow.SetDE(value)
	case "HL'":
		c.Shadow.SetHL(value)
	case "IX":
		c.IX = value
	case "IY":
		c.IY = value
	case "SP":
		c.SP = value
	case "PC":
		c.PC = value
	case "I":
		c.I = b
	case "R":
		c.R = b
	default:
		return false
	}
	return true
}
