package z80

var baseOps [256]opFunc

func init() {
	initBaseOps()
	initCBOps()
	initEDOps()
}

func initBaseOps() {
	for opcode := 0x40; opcode < 0x80; opcode++ {
		dst := byte(opcode>>3) & 0x07
		src := byte(opcode) & 0x07
		baseOps[opcode] = func(c *CPU, x index) {
			c.opLD8(dst, src, x)
		}
	}
	baseOps[0x76] = (*CPU).opHALT

	for opcode := 0x80; opcode < 0xC0; opcode++ {
		op := aluOp(opcode>>3) & 0x07
		src := byte(opcode) & 0x07
		baseOps[opcode] = func(c *CPU, x index) {
			c.opALU(op, src, x)
		}
	}

	for y := 0; y < 8; y++ {
		r := byte(y)
		op := aluOp(y)
		target := uint16(y) << 3
		baseOps[y<<3|0x04] = func(c *CPU, x index) { c.opINC8(r, x) }
		baseOps[y<<3|0x05] = func(c *CPU, x index) { c.opDEC8(r, x) }
		baseOps[y<<3|0x06] = func(c *CPU, x index) { c.opLDImm8(r, x) }
		baseOps[0xC0|y<<3] = func(c *CPU, x index) { c.opRETcc(r) }
		baseOps[0xC2|y<<3] = func(c *CPU, x index) { c.opJPcc(r) }
		baseOps[0xC4|y<<3] = func(c *CPU, x index) { c.opCALLcc(r) }
		baseOps[0xC6|y<<3] = func(c *CPU, x index) { c.opALUImm(op) }
		baseOps[0xC7|y<<3] = func(c *CPU, x index) { c.opRST(target) }
	}

	for p := 0; p < 4; p++ {
		pair := byte(p)
		baseOps[p<<4|0x01] = func(c *CPU, x index) { c.opLDrpNN(pair, x) }
		baseOps[p<<4|0x03] = func(c *CPU, x index) { c.opINCrp(pair, x) }
		baseOps[p<<4|0x09] = func(c *CPU, x index) { c.opADDrp(pair, x) }
		baseOps[p<<4|0x0B] = func(c *CPU, x index) { c.opDECrp(pair, x) }
		baseOps[0xC1|p<<4] = func(c *CPU, x index) { c.opPOP(pair, x) }
		baseOps[0xC5|p<<4] = func(c *CPU, x index) { c.opPUSH(pair, x) }
	}

	for cc := 0; cc < 4; cc++ {
		cond := byte(cc)
		baseOps[0x20|cc<<3] = func(c *CPU, x index) { c.opJRcc(cond) }
	}

	baseOps[0x00] = (*CPU).opNOP
	baseOps[0x08] = (*CPU).opEXAF
	baseOps[0x10] = (*CPU).opDJNZ
	baseOps[0x18] = (*CPU).opJR

	baseOps[0x02] = (*CPU).opLDBCA
	baseOps[0x0A] = (*CPU).opLDABC
	baseOps[0x12] = (*CPU).opLDDEA
	baseOps[0x1A] = (*CPU).opLDADE
	baseOps[0x22] = (*CPU).opLDNNHL
	baseOps[0x2A] = (*CPU).opLDHLNN
	baseOps[0x32] = (*CPU).opLDNNA
	baseOps[0x3A] = (*CPU).opLDANN

	baseOps[0x07] = func(c *CPU, x index) { c.opRotA(rotRLC) }
	baseOps[0x0F] = func(c *CPU, x index) { c.opRotA(rotRRC) }
	baseOps[0x17] = func(c *CPU, x index) { c.opRotA(rotRL) }
	baseOps[0x1F] = func(c *CPU, x index) { c.opRotA(rotRR) }
	baseOps[0x27] = (*CPU).opDAA
	baseOps[0x2F] = (*CPU).opCPL
	baseOps[0x37] = (*CPU).opSCF
	baseOps[0x3F] = (*CPU).opCCF

	baseOps[0xC3] = (*CPU).opJP
	baseOps[0xC9] = (*CPU).opRET
	baseOps[0xCD] = (*CPU).opCALL
	baseOps[0xD3] = (*CPU).opOUTNA
	baseOps[0xDB] = (*CPU).opINAN
	baseOps[0xD9] = (*CPU).opEXX
	baseOps[0xE3] = (*CPU).opEXSPHL
	baseOps[0xE9] = (*CPU).opJPHL
	baseOps[0xEB] = (*CPU).opEXDEHL
	baseOps[0xF3] = (*CPU).opDI
	baseOps[0xF9] = (*CPU).opLDSPHL
	baseOps[0xFB] = (*CPU).opEI

	baseOps[0xCB] = (*CPU).opCB
	baseOps[0xED] = (*CPU).opED
	// dispatch consumes DD/FD before the table is consulted.
	baseOps[0xDD] = (*CPU).opNOP
	baseOps[0xFD] = (*CPU).opNOP
}

// Operand helpers. Register codes follow the opcode encoding:
// 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.

func (c *CPU) hl(x index) uint16 {
	switch x {
	case idxIX:
		return c.IX
	case idxIY:
		return c.IY
	}
	return c.HL()
}

func (c *CPU) setHLx(x index, v uint16) {
	switch x {
	case idxIX:
		c.IX = v
	case idxIY:
		c.IY = v
	default:
		c.SetHL(v)
	}
}

// addr resolves the memory operand: HL, or IX/IY plus a displacement read
// from the instruction stream.
func (c *CPU) addr(x index) uint16 {
	if x == idxHL {
		return c.HL()
	}
	d := c.fetchDisp()
	return c.hl(x) + uint16(int16(d))
}

// reg8 reads register r. Under an index prefix H and L name the halves of
// IX or IY.
func (c *CPU) reg8(r byte, x index) byte {
	switch r {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return byte(c.hl(x) >> 8)
	case 5:
		return byte(c.hl(x))
	case 7:
		return c.A
	}
	panic("z80: reg8 called for (HL)")
}

func (c *CPU) setReg8(r byte, x index, v byte) {
	switch r {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.setHLx(x, c.hl(x)&0x00FF|uint16(v)<<8)
	case 5:
		c.setHLx(x, c.hl(x)&0xFF00|uint16(v))
	case 7:
		c.A = v
	default:
		panic("z80: setReg8 called for (HL)")
	}
}

// rp is the register pair selected by bits 4-5: BC, DE, HL/IX/IY, SP.
func (c *CPU) rp(p byte, x index) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.hl(x)
	}
	return c.SP
}

func (c *CPU) setRP(p byte, x index, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setHLx(x, v)
	default:
		c.SP = v
	}
}

// cond evaluates condition code cc: NZ Z NC C PO PE P M.
func (c *CPU) cond(cc byte) bool {
	var set bool
	switch cc >> 1 {
	case 0:
		set = c.F&FlagZ != 0
	case 1:
		set = c.F&FlagC != 0
	case 2:
		set = c.F&FlagPV != 0
	default:
		set = c.F&FlagS != 0
	}
	if cc&1 == 0 {
		return !set
	}
	return set
}

func (c *CPU) jumpRelative(d int8) {
	c.PC += uint16(int16(d))
}

// 8-bit loads and arithmetic.

func (c *CPU) opNOP(x index) {
	c.tick(4)
}

func (c *CPU) opHALT(x index) {
	c.Halted = true
	c.tick(4)
}

func (c *CPU) opLD8(dst, src byte, x index) {
	switch {
	case dst == 6:
		a := c.addr(x)
		c.write(a, c.reg8(src, idxHL))
		c.tick(7 + x.extra(8))
	case src == 6:
		a := c.addr(x)
		c.setReg8(dst, idxHL, c.read(a))
		c.tick(7 + x.extra(8))
	default:
		c.setReg8(dst, x, c.reg8(src, x))
		c.tick(4)
	}
}

func (c *CPU) opLDImm8(r byte, x index) {
	if r == 6 {
		a := c.addr(x)
		c.write(a, c.fetchByte())
		c.tick(10 + x.extra(5))
		return
	}
	c.setReg8(r, x, c.fetchByte())
	c.tick(7)
}

func (c *CPU) opALU(op aluOp, src byte, x index) {
	var v byte
	if src == 6 {
		v = c.read(c.addr(x))
		c.tick(7 + x.extra(8))
	} else {
		v = c.reg8(src, x)
		c.tick(4)
	}
	c.A, c.F = alu8(op, c.A, v, c.F)
}

func (c *CPU) opALUImm(op aluOp) {
	c.A, c.F = alu8(op, c.A, c.fetchByte(), c.F)
	c.tick(7)
}

func (c *CPU) opINC8(r byte, x index) {
	if r == 6 {
		a := c.addr(x)
		var v byte
		v, c.F = inc8(c.read(a), c.F)
		c.write(a, v)
		c.tick(11 + x.extra(8))
		return
	}
	var v byte
	v, c.F = inc8(c.reg8(r, x), c.F)
	c.setReg8(r, x, v)
	c.tick(4)
}

func (c *CPU) opDEC8(r byte, x index) {
	if r == 6 {
		a := c.addr(x)
		var v byte
		v, c.F = dec8(c.read(a), c.F)
		c.write(a, v)
		c.tick(11 + x.extra(8))
		return
	}
	var v byte
	v, c.F = dec8(c.reg8(r, x), c.F)
	c.setReg8(r, x, v)
	c.tick(4)
}

func (c *CPU) opLDBCA(x index) {
	c.write(c.BC(), c.A)
	c.tick(7)
}

func (c *CPU) opLDABC(x index) {
	c.A = c.read(c.BC())
	c.tick(7)
}

func (c *CPU) opLDDEA(x index) {
	c.write(c.DE(), c.A)
	c.tick(7)
}

func (c *CPU) opLDADE(x index) {
	c.A = c.read(c.DE())
	c.tick(7)
}

func (c *CPU) opLDNNA(x index) {
	c.write(c.fetchWord(), c.A)
	c.tick(13)
}

func (c *CPU) opLDANN(x index) {
	c.A = c.read(c.fetchWord())
	c.tick(13)
}

// 16-bit loads and arithmetic.

func (c *CPU) opLDrpNN(p byte, x index) {
	c.setRP(p, x, c.fetchWord())
	c.tick(10)
}

func (c *CPU) opLDNNHL(x index) {
	c.write16(c.fetchWord(), c.hl(x))
	c.tick(16)
}

func (c *CPU) opLDHLNN(x index) {
	c.setHLx(x, c.read16(c.fetchWord()))
	c.tick(16)
}

func (c *CPU) opLDSPHL(x index) {
	c.SP = c.hl(x)
	c.tick(6)
}

func (c *CPU) opINCrp(p byte, x index) {
	c.setRP(p, x, c.rp(p, x)+1)
	c.tick(6)
}

func (c *CPU) opDECrp(p byte, x index) {
	c.setRP(p, x, c.rp(p, x)-1)
	c.tick(6)
}

func (c *CPU) opADDrp(p byte, x index) {
	v, f := add16(c.hl(x), c.rp(p, x), c.F)
	c.setHLx(x, v)
	c.F = f
	c.tick(11)
}

// PUSH and POP use AF in place of SP for pair 3.
func (c *CPU) opPUSH(p byte, x index) {
	if p == 3 {
		c.push(c.AF())
	} else {
		c.push(c.rp(p, x))
	}
	c.tick(11)
}

func (c *CPU) opPOP(p byte, x index) {
	v := c.pop()
	if p == 3 {
		c.SetAF(v)
	} else {
		c.setRP(p, x, v)
	}
	c.tick(10)
}

// Exchanges.

func (c *CPU) opEXAF(x index) {
	c.ExAF()
	c.tick(4)
}

func (c *CPU) opEXX(x index) {
	c.Exx()
	c.tick(4)
}

// EX DE,HL ignores index prefixes.
func (c *CPU) opEXDEHL(x index) {
	de := c.DE()
	c.SetDE(c.HL())
	c.SetHL(de)
	c.tick(4)
}

func (c *CPU) opEXSPHL(x index) {
	v := c.read16(c.SP)
	c.write16(c.SP, c.hl(x))
	c.setHLx(x, v)
	c.tick(19)
}

// Accumulator and flag operations.

func (c *CPU) opRotA(op rotOp) {
	c.A, c.F = rotateA(op, c.A, c.F)
	c.tick(4)
}

func (c *CPU) opDAA(x index) {
	c.A, c.F = daa(c.A, c.F)
	c.tick(4)
}

func (c *CPU) opCPL(x index) {
	c.A = ^c.A
	c.F |= FlagH | FlagN
	c.tick(4)
}

func (c *CPU) opSCF(x index) {
	c.F = c.F&(FlagS|FlagZ|FlagPV) | FlagC
	c.tick(4)
}

func (c *CPU) opCCF(x index) {
	carry := c.F&FlagC != 0
	c.F = c.F&(FlagS|FlagZ|FlagPV) | bit(carry, FlagH) | bit(!carry, FlagC)
	c.tick(4)
}

// Control flow.

func (c *CPU) opJP(x index) {
	c.PC = c.fetchWord()
	c.tick(10)
}

func (c *CPU) opJPcc(cc byte) {
	nn := c.fetchWord()
	if c.cond(cc) {
		c.PC = nn
	}
	c.tick(10)
}

func (c *CPU) opJPHL(x index) {
	c.PC = c.hl(x)
	c.tick(4)
}

func (c *CPU) opJR(x index) {
	d := c.fetchDisp()
	c.jumpRelative(d)
	c.tick(12)
}

func (c *CPU) opJRcc(cc byte) {
	d := c.fetchDisp()
	if c.cond(cc) {
		c.jumpRelative(d)
		c.tick(12)
		return
	}
	c.tick(7)
}

func (c *CPU) opDJNZ(x index) {
	d := c.fetchDisp()
	c.B--
	if c.B != 0 {
		c.jumpRelative(d)
		c.tick(13)
		return
	}
	c.tick(8)
}

func (c *CPU) opCALL(x index) {
	nn := c.fetchWord()
	c.push(c.PC)
	c.PC = nn
	c.tick(17)
}

func (c *CPU) opCALLcc(cc byte) {
	nn := c.fetchWord()
	if c.cond(cc) {
		c.push(c.PC)
		c.PC = nn
		c.tick(17)
		return
	}
	c.tick(10)
}

func (c *CPU) opRET(x index) {
	c.PC = c.pop()
	c.tick(10)
}

func (c *CPU) opRETcc(cc byte) {
	if c.cond(cc) {
		c.PC = c.pop()
		c.tick(11)
		return
	}
	c.tick(5)
}

func (c *CPU) opRST(target uint16) {
	c.push(c.PC)
	c.PC = target
	c.tick(11)
}

// I/O and interrupt control.

func (c *CPU) opOUTNA(x index) {
	n := c.fetchByte()
	c.out(uint16(c.A)<<8|uint16(n), c.A)
	c.tick(11)
}

func (c *CPU) opINAN(x index) {
	n := c.fetchByte()
	c.A = c.in(uint16(c.A)<<8 | uint16(n))
	c.tick(11)
}

func (c *CPU) opDI(x index) {
	c.IFF1 = false
	c.IFF2 = false
	c.tick(4)
}

// EI takes effect immediately but interrupts are not sampled at the next
// instruction boundary.
func (c *CPU) opEI(x index) {
	c.IFF1 = true
	c.IFF2 = true
	c.eiDelay = true
	c.tick(4)
}
