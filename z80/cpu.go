// Package z80 is a T-state counting Zilog Z80 core.
//
// The CPU owns its register file and borrows a Memory and a Bus. Hosts drive
// it one instruction at a time with Step, or one T-state at a time with Tick
// when peripherals need to be interleaved with execution (a video raster, a
// beeper). The core is single threaded and never blocks.
package z80

// index selects which 16-bit register stands in for HL. It is threaded
// through the decode tables so the DD and FD prefixes share the base table.
type index uint8

const (
	idxHL index = iota
	idxIX
	idxIY
)

// extra returns n when the instruction runs with an index prefix. Indexed
// memory operands cost more than (HL) because of the displacement.
func (x index) extra(n int) int {
	if x == idxHL {
		return 0
	}
	return n
}

type opFunc func(c *CPU, x index)

// CPU is one Z80 instance.
type CPU struct {
	Registers

	IFF1, IFF2 bool
	IM         byte
	Halted     bool

	mem Memory
	bus Bus

	cycles    uint64
	pending   int
	remaining int
	eiDelay   bool
	fault     error
}

// New returns a reset CPU wired to mem and bus.
func New(mem Memory, bus Bus) *CPU {
	c := &CPU{mem: mem, bus: bus}
	c.Reset()
	return c
}

// Reset zeroes the register file, disables interrupts, leaves HALT, clears
// any fault and restarts the T-state counter.
func (c *CPU) Reset() {
	c.Registers = Registers{}
	c.IFF1 = false
	c.IFF2 = false
	c.IM = 0
	c.Halted = false
	c.cycles = 0
	c.pending = 0
	c.remaining = 0
	c.eiDelay = false
	c.fault = nil
}

// Cycles returns the number of T-states executed since the last reset. In
// tick mode the cost of a partially consumed instruction is only counted as
// far as it has been ticked.
func (c *CPU) Cycles() uint64 {
	return c.cycles - uint64(c.remaining)
}

// Fault returns the error that stopped the core, if any.
func (c *CPU) Fault() error {
	return c.fault
}

// Stuck reports a HALT that no maskable interrupt can end.
func (c *CPU) Stuck() bool {
	return c.Halted && !c.IFF1
}

// State captures the register file and interrupt state.
func (c *CPU) State() State {
	return State{
		Registers: c.Registers,
		IFF1:      c.IFF1,
		IFF2:      c.IFF2,
		IM:        c.IM,
		Halted:    c.Halted,
	}
}

// SetState restores a captured state. Cycle accounting is not touched.
func (c *CPU) SetState(s State) {
	c.Registers = s.Registers
	c.IFF1 = s.IFF1
	c.IFF2 = s.IFF2
	c.IM = s.IM & 0x03
	c.Halted = s.Halted
	c.eiDelay = false
	c.remaining = 0
}

// Step executes one instruction, accepts one interrupt, or idles one halted
// machine cycle, and returns the T-states it took. A non-nil error means the
// core is faulted and made no progress.
func (c *CPU) Step() (int, error) {
	if c.fault != nil {
		return 0, c.fault
	}
	c.pending = 0

	if c.bus.ResetLine() {
		c.Reset()
		c.tick(3)
		return c.finish(), nil
	}
	if c.bus.BusRequest() || c.bus.Wait() {
		c.tick(1)
		return c.finish(), nil
	}

	startPC, startR := c.PC, c.R
	if c.eiDelay {
		c.eiDelay = false
	} else if c.interrupt() {
		return c.settle(startPC, startR)
	}

	if c.Halted {
		c.incR()
		c.tick(4)
		return c.finish(), nil
	}

	c.dispatch(c.fetchOpcode())
	return c.settle(startPC, startR)
}

// settle commits the pending cost, or rolls PC and R back when the
// instruction faulted.
func (c *CPU) settle(startPC uint16, startR byte) (int, error) {
	if c.fault == nil {
		return c.finish(), nil
	}
	c.PC, c.R = startPC, startR
	if e, ok := c.fault.(*UnassignedOpcodeError); ok {
		e.PC = startPC
	}
	c.pending = 0
	return 0, c.fault
}

// Tick advances exactly one T-state. The whole instruction takes effect on
// its first T-state; Tick returns true on the T-state that completes it.
func (c *CPU) Tick() bool {
	if c.remaining == 0 {
		n, err := c.Step()
		if err != nil || n == 0 {
			return false
		}
		c.remaining = n
	}
	c.remaining--
	return c.remaining == 0
}

func (c *CPU) finish() int {
	c.cycles += uint64(c.pending)
	return c.pending
}

func (c *CPU) tick(n int) {
	c.pending += n
}

// dispatch runs the opcode through the prefix chain. Any number of DD/FD
// bytes may precede an instruction; the last one decides the index register.
func (c *CPU) dispatch(op byte) {
	x := idxHL
	for op == 0xDD || op == 0xFD {
		if op == 0xDD {
			x = idxIX
		} else {
			x = idxIY
		}
		c.tick(4)
		op = c.fetchOpcode()
	}
	baseOps[op](c, x)
}

func (c *CPU) interrupt() bool {
	if c.bus.TakeNMI() {
		c.serviceNMI()
		return true
	}
	if !c.IFF1 {
		return false
	}
	data, ok := c.bus.TakeINT()
	if !ok {
		return false
	}
	c.serviceINT(data)
	return true
}

func (c *CPU) serviceNMI() {
	c.Halted = false
	c.IFF1 = false
	c.incR()
	c.push(c.PC)
	c.PC = 0x0066
	c.tick(11)
}

func (c *CPU) serviceINT(data byte) {
	c.Halted = false
	c.IFF1 = false
	c.IFF2 = false
	c.incR()
	switch c.IM {
	case 0:
		// The interrupting device supplies the opcode. Operand bytes of a
		// multi-byte instruction come from PC; in practice it is an RST.
		c.tick(2)
		c.dispatch(data)
	case 2:
		vector := uint16(c.I)<<8 | uint16(data)
		target := c.read16(vector)
		c.push(c.PC)
		c.PC = target
		c.tick(19)
	default:
		c.push(c.PC)
		c.PC = 0x0038
		c.tick(13)
	}
}

func (c *CPU) fetchOpcode() byte {
	op := c.mem.Read(c.PC)
	c.PC++
	c.incR()
	return op
}

func (c *CPU) fetchByte() byte {
	v := c.mem.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) fetchDisp() int8 {
	return int8(c.fetchByte())
}

func (c *CPU) read(addr uint16) byte {
	return c.mem.Read(addr)
}

func (c *CPU) write(addr uint16, v byte) {
	c.mem.Write(addr, v)
}

func (c *CPU) read16(addr uint16) uint16 {
	return uint16(c.mem.Read(addr)) | uint16(c.mem.Read(addr+1))<<8
}

func (c *CPU) write16(addr uint16, v uint16) {
	c.mem.Write(addr, byte(v))
	c.mem.Write(addr+1, byte(v>>8))
}

func (c *CPU) push(v uint16) {
	c.SP--
	c.mem.Write(c.SP, byte(v>>8))
	c.SP--
	c.mem.Write(c.SP, byte(v))
}

func (c *CPU) pop() uint16 {
	lo := c.mem.Read(c.SP)
	c.SP++
	hi := c.mem.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) in(port uint16) byte {
	return c.bus.In(port)
}

func (c *CPU) out(port uint16, v byte) {
	c.bus.Out(port, v)
}
