package z80

// The ALU helpers are pure: they take operands plus the incoming F where a
// flag is preserved, and return the result with the complete new F. Bits 3
// and 5 of F are always left clear.

var szpTable [256]byte

func init() {
	for i := range szpTable {
		v := byte(i)
		f := v & FlagS
		if v == 0 {
			f |= FlagZ
		}
		if parity8(v) {
			f |= FlagPV
		}
		szpTable[i] = f
	}
}

// parity8 reports even parity.
func parity8(value byte) bool {
	value ^= value >> 4
	value ^= value >> 2
	value ^= value >> 1
	return value&1 == 0
}

func sz(v byte) byte {
	return szpTable[v] &^ FlagPV
}

func bit(b bool, mask byte) byte {
	if b {
		return mask
	}
	return 0
}

func carryIn(f byte) byte {
	return f & FlagC
}

func add8(a, b, carry byte) (byte, byte) {
	sum := uint16(a) + uint16(b) + uint16(carry)
	r := byte(sum)
	f := sz(r)
	f |= bit((a&0x0F)+(b&0x0F)+carry > 0x0F, FlagH)
	f |= bit((a^b)&0x80 == 0 && (a^r)&0x80 != 0, FlagPV)
	f |= bit(sum > 0xFF, FlagC)
	return r, f
}

func sub8(a, b, carry byte) (byte, byte) {
	r := a - b - carry
	f := sz(r) | FlagN
	f |= bit((b&0x0F)+carry > a&0x0F, FlagH)
	f |= bit((a^b)&0x80 != 0 && (r^b)&0x80 == 0, FlagPV)
	f |= bit(uint16(b)+uint16(carry) > uint16(a), FlagC)
	return r, f
}

func and8(a, b byte) (byte, byte) {
	r := a & b
	return r, szpTable[r] | FlagH
}

func xor8(a, b byte) (byte, byte) {
	r := a ^ b
	return r, szpTable[r]
}

func or8(a, b byte) (byte, byte) {
	r := a | b
	return r, szpTable[r]
}

func inc8(v, f byte) (byte, byte) {
	r, nf := add8(v, 1, 0)
	return r, nf&^FlagC | f&FlagC
}

func dec8(v, f byte) (byte, byte) {
	r, nf := sub8(v, 1, 0)
	return r, nf&^FlagC | f&FlagC
}

// aluOp is the three-bit operation field of the 10ooo rrr and 11ooo110 rows.
type aluOp byte

const (
	aluAdd aluOp = iota
	aluAdc
	aluSub
	aluSbc
	aluAnd
	aluXor
	aluOr
	aluCp
)

// alu8 applies op to A and v. CP reports the new flags but keeps A.
func alu8(op aluOp, a, v, f byte) (byte, byte) {
	switch op {
	case aluAdd:
		return add8(a, v, 0)
	case aluAdc:
		return add8(a, v, carryIn(f))
	case aluSub:
		return sub8(a, v, 0)
	case aluSbc:
		return sub8(a, v, carryIn(f))
	case aluAnd:
		return and8(a, v)
	case aluXor:
		return xor8(a, v)
	case aluOr:
		return or8(a, v)
	default:
		_, nf := sub8(a, v, 0)
		return a, nf
	}
}

// add16 is ADD HL/IX/IY,ss: only H, N and C change.
func add16(a, b uint16, f byte) (uint16, byte) {
	sum := uint32(a) + uint32(b)
	nf := f & (FlagS | FlagZ | FlagPV)
	nf |= bit((a&0x0FFF)+(b&0x0FFF) > 0x0FFF, FlagH)
	nf |= bit(sum > 0xFFFF, FlagC)
	return uint16(sum), nf
}

func adc16(a, b uint16, f byte) (uint16, byte) {
	c := uint32(carryIn(f))
	sum := uint32(a) + uint32(b) + c
	r := uint16(sum)
	nf := bit(r&0x8000 != 0, FlagS) | bit(r == 0, FlagZ)
	nf |= bit(uint32(a&0x0FFF)+uint32(b&0x0FFF)+c > 0x0FFF, FlagH)
	nf |= bit((a^b)&0x8000 == 0 && (a^r)&0x8000 != 0, FlagPV)
	nf |= bit(sum > 0xFFFF, FlagC)
	return r, nf
}

func sbc16(a, b uint16, f byte) (uint16, byte) {
	c := uint32(carryIn(f))
	r := a - b - uint16(c)
	nf := FlagN | bit(r&0x8000 != 0, FlagS) | bit(r == 0, FlagZ)
	nf |= bit(uint32(b&0x0FFF)+c > uint32(a&0x0FFF), FlagH)
	nf |= bit((a^b)&0x8000 != 0 && (r^b)&0x8000 == 0, FlagPV)
	nf |= bit(uint32(b)+c > uint32(a), FlagC)
	return r, nf
}

// rotOp is the three-bit operation field of the CB 00ooo rrr row.
type rotOp byte

const (
	rotRLC rotOp = iota
	rotRRC
	rotRL
	rotRR
	rotSLA
	rotSRA
	rotSLL
	rotSRL
)

// shift performs a CB rotate/shift and returns the result with the bit that
// left the register.
func shift(op rotOp, v byte, f byte) (byte, bool) {
	switch op {
	case rotRLC:
		return v<<1 | v>>7, v&0x80 != 0
	case rotRRC:
		return v>>1 | v<<7, v&0x01 != 0
	case rotRL:
		return v<<1 | carryIn(f), v&0x80 != 0
	case rotRR:
		return v>>1 | carryIn(f)<<7, v&0x01 != 0
	case rotSLA:
		return v << 1, v&0x80 != 0
	case rotSRA:
		return v>>1 | v&0x80, v&0x01 != 0
	case rotSLL:
		return v<<1 | 0x01, v&0x80 != 0
	default:
		return v >> 1, v&0x01 != 0
	}
}

// rotate8 is the CB-prefixed form: S, Z and P come from the result.
func rotate8(op rotOp, v, f byte) (byte, byte) {
	r, out := shift(op, v, f)
	return r, szpTable[r] | bit(out, FlagC)
}

// rotateA is RLCA/RRCA/RLA/RRA: S, Z and P/V are kept.
func rotateA(op rotOp, a, f byte) (byte, byte) {
	r, out := shift(op, a, f)
	return r, f&(FlagS|FlagZ|FlagPV) | bit(out, FlagC)
}

// bitTest is BIT b: Z and P/V mirror the inverted bit, S only for bit 7.
func bitTest(b uint, v, f byte) byte {
	set := v&(1<<b) != 0
	nf := f&FlagC | FlagH
	nf |= bit(!set, FlagZ|FlagPV)
	nf |= bit(b == 7 && set, FlagS)
	return nf
}

// daa corrects A after a BCD add or subtract, driven by N, H and C.
func daa(a, f byte) (byte, byte) {
	var diff byte
	carry := f&FlagC != 0
	if f&FlagH != 0 || a&0x0F > 0x09 {
		diff |= 0x06
	}
	if carry || a > 0x99 {
		diff |= 0x60
		carry = true
	}
	var r byte
	var half bool
	if f&FlagN != 0 {
		r = a - diff
		half = f&FlagH != 0 && a&0x0F < 0x06
	} else {
		r = a + diff
		half = a&0x0F > 0x09
	}
	nf := szpTable[r] | f&FlagN | bit(half, FlagH) | bit(carry, FlagC)
	return r, nf
}
