package spectrum

import (
	"bytes"
	"testing"

	"github.com/matryer/is"
)

func TestMemoryROMIsReadOnly(t *testing.T) {
	is := is.New(t)
	m := NewMemory()
	rom := make([]byte, ROMSize)
	rom[0x10] = 0xAA
	is.NoErr(m.LoadROM(rom))

	m.Write(0x0010, 0x55)
	is.Equal(m.Read(0x0010), byte(0xAA))

	m.Write(0x4000, 0x12)
	m.Write(0xFFFF, 0x34)
	is.Equal(m.Read(0x4000), byte(0x12))
	is.Equal(m.RAM()[RAMSize-1], byte(0x34))

	is.True(m.LoadROM(make([]byte, 100)) != nil)
}

func TestULAKeyboardRows(t *testing.T) {
	is := is.New(t)
	u := NewULA()
	is.Equal(u.In(0xFEFE), byte(0xBF))

	a, ok := KeyFor('a')
	is.True(ok)
	u.SetKey(a, true)
	is.Equal(u.In(0xFDFE), byte(0xBE)) // A..G half-row
	is.Equal(u.In(0xFEFE), byte(0xBF)) // CAPS..V unaffected
	is.Equal(u.In(0x00FE), byte(0xBE)) // all rows
	is.Equal(u.In(0xFDFF), byte(0xFF)) // odd port

	u.SetEARInput(true)
	is.Equal(u.In(0xFDFE), byte(0xFE))

	u.SetKey(a, false)
	is.Equal(u.In(0xFDFE), byte(0xFF))
}

func TestULAOutputLatch(t *testing.T) {
	is := is.New(t)
	u := NewULA()
	u.Out(0x12FE, 0x1D)
	is.Equal(u.Border(), byte(5))
	is.True(u.MIC())
	is.True(u.EAR())

	u.Out(0x12FF, 0x02)
	is.Equal(u.Border(), byte(5))
}

func TestKeysForRune(t *testing.T) {
	is := is.New(t)

	keys, ok := KeysForRune('A')
	is.True(ok)
	is.Equal(keys, []Key{KeyCapsShift, {1, 0}})

	keys, ok = KeysForRune('"')
	is.True(ok)
	is.Equal(keys, []Key{KeySymShift, {5, 0}})

	keys, ok = KeysForRune('\r')
	is.True(ok)
	is.Equal(keys, []Key{KeyEnter})

	_, ok = KeysForRune('~')
	is.True(!ok)
}

func TestKeyQueueHoldsThenReleases(t *testing.T) {
	is := is.New(t)
	u := NewULA()
	var q KeyQueue
	is.Equal(q.Type("q1~"), 1)
	is.Equal(q.Len(), 2)

	// Q is row 2 bit 0, 1 is row 3 bit 0.
	for range typeHoldFrames {
		q.Advance(u)
		is.Equal(u.In(0xFBFE), byte(0xBE))
	}
	for range typeGapFrames {
		q.Advance(u)
		is.Equal(u.In(0xFBFE), byte(0xBF))
	}
	q.Advance(u)
	is.Equal(u.In(0xF7FE), byte(0xBE))
	is.True(q.Busy())

	q.Clear(u)
	is.Equal(u.In(0xF7FE), byte(0xBF))
	is.True(!q.Busy())
}

func TestBitmapAddressing(t *testing.T) {
	is := is.New(t)
	is.Equal(BitmapAddress(0, 0), uint16(0x0000))
	is.Equal(BitmapAddress(1, 0), uint16(0x0100))
	is.Equal(BitmapAddress(8, 0), uint16(0x0020))
	is.Equal(BitmapAddress(64, 0), uint16(0x0800))
	is.Equal(BitmapAddress(191, 255), uint16(0x17FF))
	is.Equal(AttributeAddress(23, 31), uint16(0x1AFF))
}

func pixel(frame []byte, x, y int) [3]byte {
	i := (y*FrameWidth + x) * 4
	return [3]byte{frame[i], frame[i+1], frame[i+2]}
}

func TestScreenRender(t *testing.T) {
	is := is.New(t)
	s := NewScreen()
	vram := make([]byte, VRAMSize)
	var borders [FrameHeight]byte
	for y := range borders {
		borders[y] = 1
	}
	borders[FrameHeight-1] = 2

	vram[0] = 0x80                  // top-left pixel set
	vram[AttrOffset] = 0x80 | 0x4A // flash, bright, paper 1, ink 2

	frame := s.Render(vram, &borders)
	is.Equal(pixel(frame, 0, 0), [3]byte{0, 0, 205})
	is.Equal(pixel(frame, 0, FrameHeight-1), [3]byte{205, 0, 0})
	is.Equal(pixel(frame, BorderSize, BorderSize), [3]byte{255, 0, 0})   // ink
	is.Equal(pixel(frame, BorderSize+1, BorderSize), [3]byte{0, 0, 255}) // paper

	for range FlashFrames {
		s.EndFrame()
	}
	is.True(s.FlashOn())
	frame = s.Render(vram, &borders)
	is.Equal(pixel(frame, BorderSize, BorderSize), [3]byte{0, 0, 255})
}

func TestBeeperSamplesOneFrame(t *testing.T) {
	is := is.New(t)
	b := NewBeeper(44100)
	b.Advance(FrameTStates, true, false)
	samples := b.Drain()
	is.Equal(len(samples), 880)
	is.Equal(samples[0], float32(0.25))

	b.Advance(100, false, false)
	is.Equal(b.Drain(), []float32{0})
}

func newTestMachine(t *testing.T, program map[uint16][]byte) *Machine {
	t.Helper()
	m := NewMachine(DefaultSampleRate)
	rom := make([]byte, ROMSize)
	for addr, code := range program {
		copy(rom[addr:], code)
	}
	if err := m.Memory.LoadROM(rom); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMachineBorderWrite(t *testing.T) {
	is := is.New(t)
	m := newTestMachine(t, map[uint16][]byte{
		0x0000: {
			0xF3,       // DI
			0x3E, 0x02, // LD A,2
			0xD3, 0xFE, // OUT (FE),A
			0x76, // HALT
		},
	})

	is.NoErr(m.RunFrame())
	is.Equal(m.Frames(), uint64(1))
	is.Equal(m.Border(0), byte(2))
	is.Equal(pixel(m.Frame(), 0, 0), [3]byte{205, 0, 0})
	is.True(m.CPU.Halted)
}

func TestMachineFrameInterrupt(t *testing.T) {
	is := is.New(t)
	m := newTestMachine(t, map[uint16][]byte{
		0x0000: {
			0x21, 0x00, 0x80, // LD HL,8000h
			0xED, 0x56, // IM 1
			0xFB,       // EI
			0x18, 0xFE, // JR $
		},
		0x0038: {
			0x34, // INC (HL)
			0xFB, // EI
			0xC9, // RET
		},
	})

	for range 3 {
		is.NoErr(m.RunFrame())
	}
	// /INT has dropped again by the time EI takes effect in the first frame.
	is.Equal(m.Memory.Read(0x8000), byte(2))
}

func TestMachineFaultStopsFrame(t *testing.T) {
	is := is.New(t)
	m := newTestMachine(t, map[uint16][]byte{0x0000: {0xED, 0x77}})
	is.True(m.RunFrame() != nil)
	is.Equal(m.Frames(), uint64(0))
}

func TestSNARoundTrip(t *testing.T) {
	is := is.New(t)
	m := newTestMachine(t, nil)
	m.CPU.SetAF(0x1234)
	m.CPU.SetHL(0xBEEF)
	m.CPU.Shadow.SetBC(0x5678)
	m.CPU.IX = 0x1111
	m.CPU.IY = 0x2222
	m.CPU.I = 0x3F
	m.CPU.R = 0x85
	m.CPU.SP = 0xFF00
	m.CPU.PC = 0x8123
	m.CPU.IM = 1
	m.CPU.IFF1, m.CPU.IFF2 = true, true
	m.ULA.Out(ULAPort, 4)
	m.Memory.Write(0x9000, 0x42)

	var buf bytes.Buffer
	is.NoErr(WriteSNA(&buf, m.Snapshot()))
	is.Equal(buf.Len(), SNASize)
	raw := buf.Bytes()
	is.Equal(raw[23], byte(0xFE)) // SP stored below the pushed PC
	is.Equal(raw[24], byte(0xFE))
	is.Equal(raw[SNAHeaderSize+0xFEFE-ROMSize], byte(0x23))
	is.Equal(raw[SNAHeaderSize+0xFEFF-ROMSize], byte(0x81))
	is.Equal(m.Memory.Read(0xFEFE), byte(0)) // machine untouched

	s, err := ReadSNA(bytes.NewReader(raw))
	is.NoErr(err)
	is.Equal(s.State.PC, uint16(0x8123))
	is.Equal(s.State.SP, uint16(0xFF00))
	is.Equal(s.State.AF(), uint16(0x1234))
	is.Equal(s.State.HL(), uint16(0xBEEF))
	is.Equal(s.State.Shadow.BC(), uint16(0x5678))
	is.Equal(s.State.IX, uint16(0x1111))
	is.Equal(s.State.IY, uint16(0x2222))
	is.Equal(s.State.I, byte(0x3F))
	is.Equal(s.State.R, byte(0x85))
	is.Equal(s.State.IM, byte(1))
	is.True(s.State.IFF1)
	is.Equal(s.Border, byte(4))
	is.Equal(s.RAM[0x9000-ROMSize], byte(0x42))

	other := newTestMachine(t, nil)
	other.Restore(s)
	is.Equal(other.CPU.PC, uint16(0x8123))
	is.Equal(other.ULA.Border(), byte(4))
	is.Equal(other.Memory.Read(0x9000), byte(0x42))
}

func TestReadSNARejectsShortFile(t *testing.T) {
	is := is.New(t)
	_, err := ReadSNA(bytes.NewReader(make([]byte, 100)))
	is.True(err != nil)
}
