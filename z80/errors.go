package z80

import "fmt"

// UnassignedOpcodeError is returned by Step when the decoder meets an opcode
// with no defined behaviour. The CPU stays faulted, with PC on the first byte
// of the offending instruction, until Reset.
type UnassignedOpcodeError struct {
	PC     uint16
	Prefix byte
	Opcode byte
}

func (e *UnassignedOpcodeError) Error() string {
	return fmt.Sprintf("z80: unassigned opcode %02X %02X at %04X", e.Prefix, e.Opcode, e.PC)
}
