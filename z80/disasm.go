package z80

import "fmt"

var (
	disReg8   = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	disReg16  = [4]string{"BC", "DE", "HL", "SP"}
	disReg16P = [4]string{"BC", "DE", "HL", "AF"}
	disCond   = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	disALU    = [8]string{"ADD A, ", "ADC A, ", "SUB ", "SBC A, ", "AND ", "XOR ", "OR ", "CP "}
	disRot    = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}
	disAccOps = [8]string{"RLCA", "RRCA", "RLA", "RRA", "DAA", "CPL", "SCF", "CCF"}
	disIndex  = [3]string{"HL", "IX", "IY"}
)

// Disassemble decodes the instruction at addr and returns its text and its
// length in bytes. Undefined ED opcodes and prefixes that are immediately
// overridden by another prefix come back as a db directive.
func Disassemble(mem Memory, addr uint16) (string, int) {
	d := &disasm{mem: mem, pc: addr}
	text := d.decode()
	return text, int(d.pc - addr)
}

type disasm struct {
	mem Memory
	pc  uint16
	x   index
}

func (d *disasm) next() byte {
	v := d.mem.Read(d.pc)
	d.pc++
	return v
}

func (d *disasm) word() uint16 {
	lo := d.next()
	return uint16(d.next())<<8 | uint16(lo)
}

func (d *disasm) rel() uint16 {
	e := int8(d.next())
	return d.pc + uint16(int16(e))
}

func (d *disasm) hl() string {
	return disIndex[d.x]
}

// reg names register r. Under a prefix (HL) becomes (IX+d) and consumes the
// displacement; H and L become the index halves unless plain is set.
func (d *disasm) reg(r byte, plain bool) string {
	switch {
	case r == 6 && d.x != idxHL:
		return d.indexed(int8(d.next()))
	case r == 4 && d.x != idxHL && !plain:
		return d.hl() + "H"
	case r == 5 && d.x != idxHL && !plain:
		return d.hl() + "L"
	}
	return disReg8[r]
}

func (d *disasm) indexed(disp int8) string {
	if disp < 0 {
		return fmt.Sprintf("(%s-$%02X)", d.hl(), -int(disp))
	}
	return fmt.Sprintf("(%s+$%02X)", d.hl(), disp)
}

func (d *disasm) rp(p byte) string {
	if p == 2 {
		return d.hl()
	}
	return disReg16[p]
}

func (d *disasm) decode() string {
	op := d.next()
	if op == 0xDD || op == 0xFD {
		if op == 0xDD {
			d.x = idxIX
		} else {
			d.x = idxIY
		}
		nextOp := d.mem.Read(d.pc)
		if nextOp == 0xDD || nextOp == 0xFD {
			return fmt.Sprintf("db $%02X", op)
		}
		op = d.next()
	}
	switch op {
	case 0xCB:
		return d.cb()
	case 0xED:
		return d.ed()
	}
	return d.base(op)
}

func (d *disasm) base(op byte) string {
	y := op >> 3 & 7
	z := op & 7
	p, q := y>>1, y&1

	switch op >> 6 {
	case 1:
		if op == 0x76 {
			return "HALT"
		}
		plain := y == 6 || z == 6
		dst := d.reg(y, plain)
		return fmt.Sprintf("LD %s, %s", dst, d.reg(z, plain))
	case 2:
		return disALU[y] + d.reg(z, false)
	case 0:
		switch z {
		case 0:
			switch y {
			case 0:
				return "NOP"
			case 1:
				return "EX AF, AF'"
			case 2:
				return fmt.Sprintf("DJNZ $%04X", d.rel())
			case 3:
				return fmt.Sprintf("JR $%04X", d.rel())
			}
			return fmt.Sprintf("JR %s, $%04X", disCond[y-4], d.rel())
		case 1:
			if q == 0 {
				return fmt.Sprintf("LD %s, $%04X", d.rp(p), d.word())
			}
			return fmt.Sprintf("ADD %s, %s", d.hl(), d.rp(p))
		case 2:
			switch y {
			case 0:
				return "LD (BC), A"
			case 1:
				return "LD A, (BC)"
			case 2:
				return "LD (DE), A"
			case 3:
				return "LD A, (DE)"
			case 4:
				return fmt.Sprintf("LD ($%04X), %s", d.word(), d.hl())
			case 5:
				return fmt.Sprintf("LD %s, ($%04X)", d.hl(), d.word())
			case 6:
				return fmt.Sprintf("LD ($%04X), A", d.word())
			}
			return fmt.Sprintf("LD A, ($%04X)", d.word())
		case 3:
			if q == 0 {
				return "INC " + d.rp(p)
			}
			return "DEC " + d.rp(p)
		case 4:
			return "INC " + d.reg(y, false)
		case 5:
			return "DEC " + d.reg(y, false)
		case 6:
			dst := d.reg(y, false)
			return fmt.Sprintf("LD %s, $%02X", dst, d.next())
		}
		return disAccOps[y]
	}

	switch z {
	case 0:
		return "RET " + disCond[y]
	case 1:
		if q == 0 {
			if p == 2 {
				return "POP " + d.hl()
			}
			return "POP " + disReg16P[p]
		}
		switch p {
		case 0:
			return "RET"
		case 1:
			return "EXX"
		case 2:
			return fmt.Sprintf("JP (%s)", d.hl())
		}
		return fmt.Sprintf("LD SP, %s", d.hl())
	case 2:
		return fmt.Sprintf("JP %s, $%04X", disCond[y], d.word())
	case 3:
		switch y {
		case 0:
			return fmt.Sprintf("JP $%04X", d.word())
		case 2:
			return fmt.Sprintf("OUT ($%02X), A", d.next())
		case 3:
			return fmt.Sprintf("IN A, ($%02X)", d.next())
		case 4:
			return fmt.Sprintf("EX (SP), %s", d.hl())
		case 5:
			return "EX DE, HL"
		case 6:
			return "DI"
		}
		return "EI"
	case 4:
		return fmt.Sprintf("CALL %s, $%04X", disCond[y], d.word())
	case 5:
		if q == 0 {
			if p == 2 {
				return "PUSH " + d.hl()
			}
			return "PUSH " + disReg16P[p]
		}
		return fmt.Sprintf("CALL $%04X", d.word())
	case 6:
		return fmt.Sprintf("%s$%02X", disALU[y], d.next())
	}
	return fmt.Sprintf("RST $%02X", op&0x38)
}

func (d *disasm) cb() string {
	var operand string
	var op byte
	indexed := d.x != idxHL
	if indexed {
		operand = d.indexed(int8(d.next()))
		op = d.next()
	} else {
		op = d.next()
		operand = disReg8[op&7]
	}
	y := op >> 3 & 7
	z := op & 7

	var text string
	switch op >> 6 {
	case 0:
		text = fmt.Sprintf("%s %s", disRot[y], operand)
	case 1:
		return fmt.Sprintf("BIT %d, %s", y, operand)
	case 2:
		text = fmt.Sprintf("RES %d, %s", y, operand)
	default:
		text = fmt.Sprintf("SET %d, %s", y, operand)
	}
	if indexed && z != 6 {
		text += ", " + disReg8[z]
	}
	return text
}

func (d *disasm) ed() string {
	op := d.next()
	y := op >> 3 & 7
	p, q := y>>1, y&1

	if op>>6 == 1 {
		switch op & 7 {
		case 0:
			if y == 6 {
				return "IN F, (C)"
			}
			return fmt.Sprintf("IN %s, (C)", disReg8[y])
		case 1:
			if y == 6 {
				return "OUT (C), 0"
			}
			return fmt.Sprintf("OUT (C), %s", disReg8[y])
		case 2:
			if q == 0 {
				return "SBC HL, " + disReg16[p]
			}
			return "ADC HL, " + disReg16[p]
		case 3:
			if q == 0 {
				return fmt.Sprintf("LD ($%04X), %s", d.word(), disReg16[p])
			}
			return fmt.Sprintf("LD %s, ($%04X)", disReg16[p], d.word())
		case 4:
			return "NEG"
		case 5:
			if y == 1 {
				return "RETI"
			}
			return "RETN"
		case 6:
			return fmt.Sprintf("IM %d", [4]int{0, 0, 1, 2}[y&3])
		}
		switch y {
		case 0:
			return "LD I, A"
		case 1:
			return "LD R, A"
		case 2:
			return "LD A, I"
		case 3:
			return "LD A, R"
		case 4:
			return "RRD"
		case 5:
			return "RLD"
		}
	}

	if op&0xE4 == 0xA0 {
		names := [4][4]string{
			{"LDI", "CPI", "INI", "OUTI"},
			{"LDD", "CPD", "IND", "OUTD"},
			{"LDIR", "CPIR", "INIR", "OTIR"},
			{"LDDR", "CPDR", "INDR", "OTDR"},
		}
		return names[y-4][op&3]
	}
	return fmt.Sprintf("db $ED, $%02X", op)
}
