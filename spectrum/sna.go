package spectrum

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/intuitionamiga/z80engine/z80"
)

// SNAHeaderSize is the register block in front of the 48K RAM image.
const (
	SNAHeaderSize = 27
	SNASize       = SNAHeaderSize + RAMSize
)

// Snapshot is a decoded .SNA file. PC is not in the header; the format
// keeps it on the stack.
type Snapshot struct {
	State  z80.State
	Border byte
	RAM    [RAMSize]byte
}

// ReadSNA decodes a 48K snapshot. The PC is popped off the stored stack, so
// State.PC is valid and State.SP points above it.
func ReadSNA(r io.Reader) (*Snapshot, error) {
	var raw [SNASize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return nil, errors.Wrap(err, "sna: short file")
	}

	s := &Snapshot{}
	copy(s.RAM[:], raw[SNAHeaderSize:])

	word := func(off int) uint16 { return uint16(raw[off]) | uint16(raw[off+1])<<8 }
	st := &s.State
	st.I = raw[0]
	st.Shadow.SetHL(word(1))
	st.Shadow.SetDE(word(3))
	st.Shadow.SetBC(word(5))
	st.Shadow.SetAF(word(7))
	st.SetHL(word(9))
	st.SetDE(word(11))
	st.SetBC(word(13))
	st.IY = word(15)
	st.IX = word(17)
	st.IFF2 = raw[19]&0x04 != 0
	st.IFF1 = st.IFF2
	st.R = raw[20]
	st.SetAF(word(21))
	st.SP = word(23)
	st.IM = raw[25] & 0x03
	s.Border = raw[26] & 0x07

	if st.SP < ROMSize || st.SP > 0xFFFE {
		return nil, errors.Errorf("sna: stack pointer 0x%04X does not hold PC in RAM", st.SP)
	}
	lo := s.RAM[st.SP-ROMSize]
	hi := s.RAM[st.SP+1-ROMSize]
	st.PC = uint16(hi)<<8 | uint16(lo)
	st.SP += 2
	return s, nil
}

// WriteSNA encodes s with its PC pushed onto the stored stack. s is not
// modified.
func WriteSNA(w io.Writer, s *Snapshot) error {
	st := s.State
	sp := st.SP - 2
	if sp < ROMSize || sp > 0xFFFE {
		return errors.Errorf("sna: cannot push PC with SP=0x%04X", st.SP)
	}

	var raw [SNASize]byte
	copy(raw[SNAHeaderSize:], s.RAM[:])
	raw[SNAHeaderSize+int(sp)-ROMSize] = byte(st.PC)
	raw[SNAHeaderSize+int(sp)+1-ROMSize] = byte(st.PC >> 8)

	put := func(off int, v uint16) { raw[off], raw[off+1] = byte(v), byte(v>>8) }
	raw[0] = st.I
	put(1, st.Shadow.HL())
	put(3, st.Shadow.DE())
	put(5, st.Shadow.BC())
	put(7, st.Shadow.AF())
	put(9, st.HL())
	put(11, st.DE())
	put(13, st.BC())
	put(15, st.IY)
	put(17, st.IX)
	if st.IFF2 {
		raw[19] = 0x04
	}
	raw[20] = st.R
	put(21, st.AF())
	put(23, sp)
	raw[25] = st.IM
	raw[26] = s.Border & 0x07

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(raw[:]); err != nil {
		return errors.Wrap(err, "sna: write")
	}
	return errors.Wrap(bw.Flush(), "sna: flush")
}

func LoadSNAFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	s, err := ReadSNA(f)
	return s, errors.Wrapf(err, "load %s", path)
}

func SaveSNAFile(path string, s *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	if err := WriteSNA(f, s); err != nil {
		f.Close()
		return errors.Wrapf(err, "save %s", path)
	}
	return errors.Wrapf(f.Close(), "close %s", path)
}

// Snapshot captures the running machine.
func (m *Machine) Snapshot() *Snapshot {
	s := &Snapshot{State: m.CPU.State(), Border: m.ULA.Border()}
	copy(s.RAM[:], m.Memory.RAM())
	return s
}

// Restore loads s into the machine. The ROM is kept.
func (m *Machine) Restore(s *Snapshot) {
	copy(m.Memory.RAM(), s.RAM[:])
	m.CPU.Reset()
	m.CPU.SetState(s.State)
	m.ULA.Reset()
	m.ULA.Out(ULAPort, s.Border)
	m.Keys.Clear(m.ULA)
	m.Bus.ClearINT()
	for y := range m.borders {
		m.borders[y] = s.Border
	}
}
