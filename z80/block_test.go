package z80

import "testing"

func TestLDIRCopiesUntilBCZero(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB0}) // LDIR
	rig.cpu.SetHL(0x1111)
	rig.cpu.SetDE(0x2222)
	rig.cpu.SetBC(3)
	rig.cpu.F = FlagS | FlagC
	copy(rig.bus.mem[0x1111:], []byte{0xAA, 0xBB, 0xCC})

	total := rig.run(t, 3)
	requireCycles(t, "LDIR", total, 21+21+16)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0x0000)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x1114)
	requireEqualU16(t, "DE", rig.cpu.DE(), 0x2225)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0002)
	for i, want := range []byte{0xAA, 0xBB, 0xCC} {
		requireEqualU8(t, "dest", rig.bus.mem[0x2222+i], want)
	}
	requireFlag(t, rig.cpu, "P/V", FlagPV, false)
	requireFlag(t, rig.cpu, "H", FlagH, false)
	requireFlag(t, rig.cpu, "N", FlagN, false)
	requireFlag(t, rig.cpu, "S", FlagS, true)
	requireFlag(t, rig.cpu, "C", FlagC, true)
}

func TestLDDSetsPVWhileBCRemains(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xA8}) // LDD
	rig.cpu.SetHL(0x1002)
	rig.cpu.SetDE(0x2002)
	rig.cpu.SetBC(2)
	rig.bus.mem[0x1002] = 0x5A

	rig.step(t)
	requireEqualU8(t, "dest", rig.bus.mem[0x2002], 0x5A)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x1001)
	requireEqualU16(t, "DE", rig.cpu.DE(), 0x2001)
	requireEqualU16(t, "BC", rig.cpu.BC(), 0x0001)
	requireFlag(t, rig.cpu, "P/V", FlagPV, true)
}

func TestCPIRStopsOnMatch(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB1}) // CPIR
	rig.cpu.A = 0x33
	rig.cpu.SetHL(0x3000)
	rig.cpu.SetBC(10)
	copy(rig.bus.mem[0x3000:], []byte{0x11, 0x22, 0x33, 0x44})

	total := rig.run(t, 3)
	requireCycles(t, "CPIR", total, 21+21+16)
	requireEqualU16(t, "PC", rig.cpu.PC, 0x0002)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x3003)
	requireEqualU16(t, "BC", rig.cpu.BC(), 7)
	requireFlag(t, rig.cpu, "Z", FlagZ, true)
	requireFlag(t, rig.cpu, "P/V", FlagPV, true)
	requireFlag(t, rig.cpu, "N", FlagN, true)
}

// CPI takes H from bit 4 of A-(HL) while CP (HL) takes it from the nibble
// borrow; these operand pairs separate the two rules.
func TestCPIHalfCarryDiffersFromCP(t *testing.T) {
	cases := []struct {
		a, m      byte
		cpi, cpHL bool
	}{
		{0x10, 0x20, true, false},
		{0x35, 0x21, true, false},
		{0x10, 0x01, false, true},
		{0x44, 0x44, false, false},
	}
	for _, tc := range cases {
		rig := newCPUTestRig()
		rig.resetAndLoad(0x0000, []byte{0xED, 0xA1, 0xBE}) // CPI; CP (HL)
		rig.cpu.A = tc.a
		rig.cpu.SetHL(0x3000)
		rig.cpu.SetBC(2)
		rig.bus.mem[0x3000] = tc.m
		rig.bus.mem[0x3001] = tc.m

		rig.step(t)
		requireFlag(t, rig.cpu, "CPI H", FlagH, tc.cpi)
		requireFlag(t, rig.cpu, "CPI N", FlagN, true)
		rig.step(t)
		requireFlag(t, rig.cpu, "CP H", FlagH, tc.cpHL)
	}
}

func TestCPDRExhaustsCounter(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB9}) // CPDR
	rig.cpu.A = 0xFF
	rig.cpu.SetHL(0x3001)
	rig.cpu.SetBC(2)

	total := rig.run(t, 2)
	requireCycles(t, "CPDR", total, 21+16)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x2FFF)
	requireFlag(t, rig.cpu, "Z", FlagZ, false)
	requireFlag(t, rig.cpu, "P/V", FlagPV, false)
}

func TestINIRReadsPortPerByte(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB2}) // INIR
	rig.cpu.SetBC(0x0210)
	rig.cpu.SetHL(0x6000)
	rig.bus.io[0x0210] = 0xA1
	rig.bus.io[0x0110] = 0xB2

	total := rig.run(t, 2)
	requireCycles(t, "INIR", total, 21+16)
	requireEqualU8(t, "(0x6000)", rig.bus.mem[0x6000], 0xA1)
	requireEqualU8(t, "(0x6001)", rig.bus.mem[0x6001], 0xB2)
	requireEqualU8(t, "B", rig.cpu.B, 0)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x6002)
	requireFlag(t, rig.cpu, "Z", FlagZ, true)
	requireFlag(t, rig.cpu, "N", FlagN, true)
}

func TestOTIRDecrementsBBeforeOutput(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{0xED, 0xB3}) // OTIR
	rig.cpu.SetBC(0x02FE)
	rig.cpu.SetHL(0x7000)
	rig.cpu.F = FlagC
	copy(rig.bus.mem[0x7000:], []byte{0x01, 0x02})

	rig.run(t, 2)
	if len(rig.bus.out) != 2 {
		t.Fatalf("OTIR wrote %d bytes, want 2", len(rig.bus.out))
	}
	requireEqualU16(t, "first port", rig.bus.out[0].port, 0x01FE)
	requireEqualU8(t, "first value", rig.bus.out[0].value, 0x01)
	requireEqualU16(t, "second port", rig.bus.out[1].port, 0x00FE)
	requireEqualU8(t, "second value", rig.bus.out[1].value, 0x02)
	requireFlag(t, rig.cpu, "Z", FlagZ, true)
	requireFlag(t, rig.cpu, "C", FlagC, true)
}

func TestOUTDAndIND(t *testing.T) {
	rig := newCPUTestRig()
	rig.resetAndLoad(0x0000, []byte{
		0xED, 0xAB, // OUTD
		0xED, 0xAA, // IND
	})
	rig.cpu.SetBC(0x0340)
	rig.cpu.SetHL(0x7001)
	rig.bus.mem[0x7001] = 0x66

	rig.step(t)
	requireEqualU16(t, "port", rig.bus.out[0].port, 0x0240)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x7000)
	requireFlag(t, rig.cpu, "Z", FlagZ, false)

	// IND reads back the byte OUTD latched on port 0x0240.
	rig.step(t)
	requireEqualU8(t, "(0x7000)", rig.bus.mem[0x7000], 0x66)
	requireEqualU8(t, "B", rig.cpu.B, 0x01)
	requireEqualU16(t, "HL", rig.cpu.HL(), 0x6FFF)
}
