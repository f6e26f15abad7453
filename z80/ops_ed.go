package z80

// edOps leaves undocumented holes nil. Executing one faults the core.
var edOps [256]opFunc

func initEDOps() {
	for y := 0; y < 8; y++ {
		r := byte(y)
		edOps[0x40|y<<3] = func(c *CPU, x index) { c.opINrC(r) }
		edOps[0x41|y<<3] = func(c *CPU, x index) { c.opOUTCr(r) }
		edOps[0x44|y<<3] = (*CPU).opNEG
		if y == 1 {
			edOps[0x4D] = (*CPU).opRETI
		} else {
			edOps[0x45|y<<3] = (*CPU).opRETN
		}
		mode := [4]byte{0, 0, 1, 2}[y&3]
		edOps[0x46|y<<3] = func(c *CPU, x index) { c.opIM(mode) }
	}

	for p := 0; p < 4; p++ {
		pair := byte(p)
		edOps[0x42|p<<4] = func(c *CPU, x index) { c.opSBCHL(pair) }
		edOps[0x4A|p<<4] = func(c *CPU, x index) { c.opADCHL(pair) }
		edOps[0x43|p<<4] = func(c *CPU, x index) { c.opLDNNrp(pair) }
		edOps[0x4B|p<<4] = func(c *CPU, x index) { c.opLDrpNNind(pair) }
	}

	edOps[0x47] = (*CPU).opLDIA
	edOps[0x4F] = (*CPU).opLDRA
	edOps[0x57] = (*CPU).opLDAI
	edOps[0x5F] = (*CPU).opLDAR
	edOps[0x67] = (*CPU).opRRD
	edOps[0x6F] = (*CPU).opRLD

	edOps[0xA0] = func(c *CPU, x index) { c.opLDblock(1, false) }
	edOps[0xA8] = func(c *CPU, x index) { c.opLDblock(-1, false) }
	edOps[0xB0] = func(c *CPU, x index) { c.opLDblock(1, true) }
	edOps[0xB8] = func(c *CPU, x index) { c.opLDblock(-1, true) }

	edOps[0xA1] = func(c *CPU, x index) { c.opCPblock(1, false) }
	edOps[0xA9] = func(c *CPU, x index) { c.opCPblock(-1, false) }
	edOps[0xB1] = func(c *CPU, x index) { c.opCPblock(1, true) }
	edOps[0xB9] = func(c *CPU, x index) { c.opCPblock(-1, true) }

	edOps[0xA2] = func(c *CPU, x index) { c.opINblock(1, false) }
	edOps[0xAA] = func(c *CPU, x index) { c.opINblock(-1, false) }
	edOps[0xB2] = func(c *CPU, x index) { c.opINblock(1, true) }
	edOps[0xBA] = func(c *CPU, x index) { c.opINblock(-1, true) }

	edOps[0xA3] = func(c *CPU, x index) { c.opOUTblock(1, false) }
	edOps[0xAB] = func(c *CPU, x index) { c.opOUTblock(-1, false) }
	edOps[0xB3] = func(c *CPU, x index) { c.opOUTblock(1, true) }
	edOps[0xBB] = func(c *CPU, x index) { c.opOUTblock(-1, true) }
}

// opED ignores any index prefix in front of it; ED instructions always use
// HL.
func (c *CPU) opED(x index) {
	op := c.fetchOpcode()
	fn := edOps[op]
	if fn == nil {
		c.fault = &UnassignedOpcodeError{Prefix: 0xED, Opcode: op}
		return
	}
	fn(c, idxHL)
}

// IN r,(C) sets S, Z and P from the byte read. Code 6 only sets flags.
func (c *CPU) opINrC(r byte) {
	v := c.in(c.BC())
	c.F = szpTable[v] | c.F&FlagC
	if r != 6 {
		c.setReg8(r, idxHL, v)
	}
	c.tick(12)
}

// OUT (C),r. Code 6 writes zero.
func (c *CPU) opOUTCr(r byte) {
	var v byte
	if r != 6 {
		v = c.reg8(r, idxHL)
	}
	c.out(c.BC(), v)
	c.tick(12)
}

func (c *CPU) opNEG(x index) {
	c.A, c.F = sub8(0, c.A, 0)
	c.tick(8)
}

func (c *CPU) opRETN(x index) {
	c.PC = c.pop()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *CPU) opRETI(x index) {
	c.PC = c.pop()
	c.IFF1 = c.IFF2
	c.tick(14)
}

func (c *CPU) opIM(mode byte) {
	c.IM = mode
	c.tick(8)
}

func (c *CPU) opSBCHL(p byte) {
	v, f := sbc16(c.HL(), c.rp(p, idxHL), c.F)
	c.SetHL(v)
	c.F = f
	c.tick(15)
}

func (c *CPU) opADCHL(p byte) {
	v, f := adc16(c.HL(), c.rp(p, idxHL), c.F)
	c.SetHL(v)
	c.F = f
	c.tick(15)
}

func (c *CPU) opLDNNrp(p byte) {
	c.write16(c.fetchWord(), c.rp(p, idxHL))
	c.tick(20)
}

func (c *CPU) opLDrpNNind(p byte) {
	c.setRP(p, idxHL, c.read16(c.fetchWord()))
	c.tick(20)
}

func (c *CPU) opLDIA(x index) {
	c.I = c.A
	c.tick(9)
}

func (c *CPU) opLDRA(x index) {
	c.R = c.A
	c.tick(9)
}

// LD A,I and LD A,R copy IFF2 into P/V.
func (c *CPU) opLDAI(x index) {
	c.A = c.I
	c.F = sz(c.A) | bit(c.IFF2, FlagPV) | c.F&FlagC
	c.tick(9)
}

func (c *CPU) opLDAR(x index) {
	c.A = c.R
	c.F = sz(c.A) | bit(c.IFF2, FlagPV) | c.F&FlagC
	c.tick(9)
}

// RRD and RLD rotate the three nibbles of A[3:0] and (HL) as one 12-bit ring.
func (c *CPU) opRRD(x index) {
	addr := c.HL()
	v := c.read(addr)
	c.write(addr, c.A<<4|v>>4)
	c.A = c.A&0xF0 | v&0x0F
	c.F = szpTable[c.A] | c.F&FlagC
	c.tick(18)
}

func (c *CPU) opRLD(x index) {
	addr := c.HL()
	v := c.read(addr)
	c.write(addr, v<<4|c.A&0x0F)
	c.A = c.A&0xF0 | v>>4
	c.F = szpTable[c.A] | c.F&FlagC
	c.tick(18)
}

// Block instructions. step is +1 for the incrementing forms and -1 for the
// decrementing ones. A repeating form that has not finished rewinds PC onto
// its own ED prefix so the next Step runs it again.

func (c *CPU) repeat(again bool) {
	if again {
		c.PC -= 2
		c.tick(21)
		return
	}
	c.tick(16)
}

func (c *CPU) opLDblock(step int16, rep bool) {
	hl, de := c.HL(), c.DE()
	c.write(de, c.read(hl))
	c.SetHL(hl + uint16(step))
	c.SetDE(de + uint16(step))
	bc := c.BC() - 1
	c.SetBC(bc)
	c.F = c.F&(FlagS|FlagZ|FlagC) | bit(bc != 0, FlagPV)
	c.repeat(rep && bc != 0)
}

// The compare forms take S, Z and H from the byte result of A-(HL). H is
// bit 4 of that result, not the nibble borrow sub8 reports for CP, so the
// two disagree whenever bit 4 and the borrow differ (A=0x35, (HL)=0x21).
func (c *CPU) opCPblock(step int16, rep bool) {
	hl := c.HL()
	r := c.A - c.read(hl)
	c.SetHL(hl + uint16(step))
	bc := c.BC() - 1
	c.SetBC(bc)
	c.F = sz(r) | bit(r&0x10 != 0, FlagH) | bit(bc != 0, FlagPV) | FlagN | c.F&FlagC
	c.repeat(rep && bc != 0 && r != 0)
}

// INI and friends read the port with the original B, then decrement it.
func (c *CPU) opINblock(step int16, rep bool) {
	hl := c.HL()
	c.write(hl, c.in(c.BC()))
	c.B--
	c.SetHL(hl + uint16(step))
	c.F = c.F&FlagC | bit(c.B == 0, FlagZ) | FlagN
	c.repeat(rep && c.B != 0)
}

// OUTI and friends decrement B before the port address goes on the bus.
func (c *CPU) opOUTblock(step int16, rep bool) {
	hl := c.HL()
	v := c.read(hl)
	c.B--
	c.out(c.BC(), v)
	c.SetHL(hl + uint16(step))
	c.F = c.F&FlagC | bit(c.B == 0, FlagZ) | FlagN
	c.repeat(rep && c.B != 0)
}
