package z80

import "sync"

// Memory is the 64K address space the core fetches from. Write policy (ROM
// protection, mirroring, banking) belongs to the implementation.
type Memory interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
}

// Bus is the I/O side of the processor: port access plus the interrupt and
// control lines. The Take methods consume a latched request; the core only
// calls TakeINT when it is able to accept the interrupt, so a request raised
// while interrupts are disabled stays pending.
type Bus interface {
	In(port uint16) byte
	Out(port uint16, value byte)

	TakeNMI() bool
	TakeINT() (data byte, pending bool)

	Wait() bool
	BusRequest() bool
	ResetLine() bool
}

// Signals is a goroutine-safe interrupt latch that implements the signal half
// of Bus. Hosts embed it next to their port decoding.
type Signals struct {
	mu      sync.Mutex
	nmi     bool
	irq     bool
	irqData byte
}

// RaiseNMI latches a non-maskable interrupt edge.
func (s *Signals) RaiseNMI() {
	s.mu.Lock()
	s.nmi = true
	s.mu.Unlock()
}

// RaiseINT asserts the maskable interrupt line with the byte the interrupting
// device places on the data bus.
func (s *Signals) RaiseINT(data byte) {
	s.mu.Lock()
	s.irq = true
	s.irqData = data
	s.mu.Unlock()
}

// ClearINT drops a maskable request that was never accepted.
func (s *Signals) ClearINT() {
	s.mu.Lock()
	s.irq = false
	s.mu.Unlock()
}

// INTPending reports the maskable line without consuming it.
func (s *Signals) INTPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.irq
}

// NMIPending reports a latched NMI edge without consuming it.
func (s *Signals) NMIPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nmi
}

func (s *Signals) TakeNMI() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := s.nmi
	s.nmi = false
	return taken
}

func (s *Signals) TakeINT() (byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.irq {
		return 0xFF, false
	}
	s.irq = false
	data := s.irqData
	s.irqData = 0xFF
	return data, true
}

// Wait, BusRequest and ResetLine are not driven by any current host.
func (s *Signals) Wait() bool       { return false }
func (s *Signals) BusRequest() bool { return false }
func (s *Signals) ResetLine() bool  { return false }
