package z80

import "testing"

type testBus struct {
	Signals
	mem [0x10000]byte
	io  [0x10000]byte
	out []portWrite
}

type portWrite struct {
	port  uint16
	value byte
}

func (b *testBus) Read(addr uint16) byte {
	return b.mem[addr]
}

func (b *testBus) Write(addr uint16, value byte) {
	b.mem[addr] = value
}

func (b *testBus) In(port uint16) byte {
	return b.io[port]
}

func (b *testBus) Out(port uint16, value byte) {
	b.io[port] = value
	b.out = append(b.out, portWrite{port, value})
}

type cpuTestRig struct {
	bus *testBus
	cpu *CPU
}

func newCPUTestRig() *cpuTestRig {
	bus := &testBus{}
	return &cpuTestRig{bus: bus, cpu: New(bus, bus)}
}

func (r *cpuTestRig) resetAndLoad(start uint16, program []byte) {
	r.bus = &testBus{}
	r.cpu = New(r.bus, r.bus)
	copy(r.bus.mem[start:], program)
	r.cpu.PC = start
}

// step runs one instruction and fails the test on a fault.
func (r *cpuTestRig) step(t *testing.T) int {
	t.Helper()
	n, err := r.cpu.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	return n
}

func (r *cpuTestRig) run(t *testing.T, count int) int {
	t.Helper()
	total := 0
	for range count {
		total += r.step(t)
	}
	return total
}

func requireEqualU16(t *testing.T, name string, got, want uint16) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%04X, want 0x%04X", name, got, want)
	}
}

func requireEqualU8(t *testing.T, name string, got, want byte) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = 0x%02X, want 0x%02X", name, got, want)
	}
}

func requireFlag(t *testing.T, cpu *CPU, name string, mask byte, want bool) {
	t.Helper()
	if got := cpu.F&mask != 0; got != want {
		t.Fatalf("flag %s = %v, want %v (F=0x%02X)", name, got, want, cpu.F)
	}
}

func requireCycles(t *testing.T, name string, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("%s cycles = %d, want %d", name, got, want)
	}
}
