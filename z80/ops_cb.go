package z80

// cbFunc executes one CB-prefixed opcode. For DD CB and FD CB forms x is the
// index register and addr the already resolved (IX+d) or (IY+d).
type cbFunc func(c *CPU, x index, addr uint16)

var cbOps [256]cbFunc

func initCBOps() {
	for opcode := 0; opcode < 0x100; opcode++ {
		y := byte(opcode>>3) & 0x07
		r := byte(opcode) & 0x07
		switch opcode >> 6 {
		case 0:
			op := rotOp(y)
			cbOps[opcode] = func(c *CPU, x index, addr uint16) {
				c.cbModify(r, x, addr, func(v byte) byte {
					var res byte
					res, c.F = rotate8(op, v, c.F)
					return res
				})
			}
		case 1:
			b := uint(y)
			cbOps[opcode] = func(c *CPU, x index, addr uint16) {
				c.cbBit(b, r, x, addr)
			}
		case 2:
			mask := byte(1) << y
			cbOps[opcode] = func(c *CPU, x index, addr uint16) {
				c.cbModify(r, x, addr, func(v byte) byte { return v &^ mask })
			}
		default:
			mask := byte(1) << y
			cbOps[opcode] = func(c *CPU, x index, addr uint16) {
				c.cbModify(r, x, addr, func(v byte) byte { return v | mask })
			}
		}
	}
}

// opCB decodes both CB forms. The indexed form places the displacement
// before the final opcode byte, and that byte is not an M1 fetch so R does
// not count it.
func (c *CPU) opCB(x index) {
	if x == idxHL {
		op := c.fetchOpcode()
		cbOps[op](c, idxHL, c.HL())
		return
	}
	addr := c.hl(x) + uint16(int16(c.fetchDisp()))
	op := c.fetchByte()
	cbOps[op](c, x, addr)
}

// cbModify runs a read-modify-write CB operation. The indexed forms also copy
// the result into register r unless r names (HL).
func (c *CPU) cbModify(r byte, x index, addr uint16, fn func(byte) byte) {
	switch {
	case x != idxHL:
		v := fn(c.read(addr))
		c.write(addr, v)
		if r != 6 {
			c.setReg8(r, idxHL, v)
		}
		c.tick(19)
	case r == 6:
		c.write(addr, fn(c.read(addr)))
		c.tick(15)
	default:
		c.setReg8(r, idxHL, fn(c.reg8(r, idxHL)))
		c.tick(8)
	}
}

func (c *CPU) cbBit(b uint, r byte, x index, addr uint16) {
	switch {
	case x != idxHL:
		c.F = bitTest(b, c.read(addr), c.F)
		c.tick(16)
	case r == 6:
		c.F = bitTest(b, c.read(addr), c.F)
		c.tick(12)
	default:
		c.F = bitTest(b, c.reg8(r, idxHL), c.F)
		c.tick(8)
	}
}
