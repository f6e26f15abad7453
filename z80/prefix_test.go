package z80

import "testing"

func TestIndexedLoadsUseDisplacement(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xDD, 0x7E, 0x05, // LD A,(IX+5)
		0xFD, 0x77, 0xFE, // LD (IY-2),A
		0xDD, 0x66, 0x00, // LD H,(IX+0)
	})
	rig.cpu.IX = 0x3000
	rig.cpu.IY = 0x4002
	rig.bus.mem[0x3005] = 0x99
	rig.bus.mem[0x3000] = 0x77

	rig.step(t)
	requireEqualU8(t, "A", rig.cpu.A, 0x99)
	rig.step(t)
	requireEqualU8(t, "(IY-2)", rig.bus.mem[0x4000], 0x99)
	rig.step(t)
	requireEqualU8(t, "H", rig.cpu.H, 0x77)
	requireEqualU16(t, "IX", rig.cpu.IX, 0x3000)
}

func TestIndexHalves(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xDD, 0x26, 0x12, // LD IXH,0x12
		0xDD, 0x2E, 0x34, // LD IXL,0x34
		0xFD, 0x65, // LD IYH,IYL
		0xDD, 0x7C, // LD A,IXH
		0xDD, 0x2C, // INC IXL
	})
	rig.cpu.IY = 0x0056
	rig.cpu.SetHL(0xABCD)

	rig.run(t, 2)
	requireEqualU16(t, "IX", rig.cpu.IX, 0x1234)
	rig.step(t)
	requireEqualU16(t, "IY", rig.cpu.IY, 0x5656)
	rig.step(t)
	requireEqualU8(t, "A", rig.cpu.A, 0x12)
	rig.step(t)
	requireEqualU16(t, "IX", rig.cpu.IX, 0x1235)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0xABCD)
}

func TestLastIndexPrefixWins(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{0xDD, 0xDD, 0xFD, 0x21, 0x34, 0x12}) // LD IY,0x1234
	n := rig.step(t)
	requireCycles(t, "prefixed LD IY,nn", n, 22)
	requireEqualU16(t, "IY", rig.cpu.IY, 0x1234)
	requireEqualU16(t, "IX", rig.cpu.IX, 0x0000)
	requireEqualU8(t, "R", rig.cpu.R, 4)
}

func TestIndexedCBCopiesResult(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xDD, 0xCB, 0x02, 0x00, // RLC (IX+2),B
		0xFD, 0xCB, 0xFF, 0xCE, // SET 1,(IY-1)
		0xDD, 0xCB, 0x02, 0x46, // BIT 0,(IX+2)
	})
	rig.cpu.IX = 0x2000
	rig.cpu.IY = 0x2101
	rig.bus.mem[0x2002] = 0x81

	rig.step(t)
	requireEqualU8(t, "(IX+2)", rig.bus.mem[0x2002], 0x03)
	requireEqualU8(t, "B", rig.cpu.B, 0x03)
	requireFlag(t, rig.cpu, "C", FlagC, true)
	requireEqualU8(t, "R", rig.cpu.R, 2)

	rig.step(t)
	requireEqualU8(t, "(IY-1)", rig.bus.mem[0x2100], 0x02)

	rig.step(t)
	requireFlag(t, rig.cpu, "Z", FlagZ, false)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x000C)
}

func TestPrefixOnNonHLInstruction(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xDD, 0x3C, // INC A
		0xFD, 0xEB, // EX DE,HL
	})
	rig.cpu.SetHL(0x1111)
	rig.cpu.SetDE(0x2222)
	rig.cpu.IY = 0x3333

	rig.step(t)
	requireEqualU8(t, "A", rig.cpu.A, 0x01)
	rig.step(t)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x2222)
	requireEqualU16(t, "DE", rig.cpu.DE(), 0x1111)
	requireEqualU16(t, "IY", rig.cpu.IY, 0x3333)
}

func TestIndexedStackAndJumps(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xDD, 0xE5, // PUSH IX
		0xFD, 0xE1, // POP IY
		0xFD, 0xE3, // EX (SP),IY
		0xDD, 0xF9, // LD SP,IX
		0xFD, 0xE9, // JP (IY)
	})
	rig.cpu.IX = 0xBEEF
	rig.cpu.SP = 0x8000
	rig.bus.mem[0x8000] = 0x34
	rig.bus.mem[0x8001] = 0x12

	rig.run(t, 2)
	requireEqualU16(t, "IY", rig.cpu.IY, 0xBEEF)
	requireEqualU16(t, "SP", rig.cpu.SP, 0x8000)

	rig.step(t)
	requireEqualU16(t, "IY", rig.cpu.IY, 0x1234)
	requireEqualU8(t, "(SP)", rig.bus.mem[0x8000], 0xEF)
	requireEqualU8(t, "(SP+1)", rig.bus.mem[0x8001], 0xBE)

	rig.step(t)
	requireEqualU16(t, "SP", rig.cpu.SP, 0xBEEF)

	rig.step(t)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x1234)
}

func TestRefreshCounterKeepsBit7(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{
		0x00,       // NOP
		0xED, 0x4F, // LD R,A
		0x00, // NOP
	})
	rig.cpu.A = 0xFF
	rig.step(t)
	requireEqualU8(t, "R", rig.cpu.R, 0x01)
	rig.step(t)
	requireEqualU8(t, "R", rig.cpu.R, 0xFF)
	rig.step(t)
	requireEqualU8(t, "R", rig.cpu.R, 0x80)
}
