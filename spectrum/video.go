// video.go - ZX Spectrum screen renderer

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

package spectrum

// Screen turns video RAM into a 320x256 RGBA frame. The border colour is
// given per frame line, so mid-frame border changes show up as stripes.
type Screen struct {
	// Pre-computed offsets of each bitmap row for the non-linear layout.
	rowStart [DisplayHeight]uint16

	// [0..7] normal, [8..15] bright, RGBA order.
	palette [16][4]byte

	flashOn      bool
	flashCounter int

	frame []byte
}

func NewScreen() *Screen {
	s := &Screen{frame: make([]byte, FrameWidth*FrameHeight*4)}
	for i := range 8 {
		c := ColorNormal[i]
		s.palette[i] = [4]byte{c[0], c[1], c[2], 0xFF}
		c = ColorBright[i]
		s.palette[8+i] = [4]byte{c[0], c[1], c[2], 0xFF}
	}
	for y := range DisplayHeight {
		s.rowStart[y] = BitmapAddress(y, 0)
	}
	return s
}

// BitmapAddress returns the VRAM offset of the byte holding pixel (x, y):
// y bits 7-6 pick the third, bits 2-0 the pixel row inside the cell and
// bits 5-3 the character row.
func BitmapAddress(y, x int) uint16 {
	highY := (y & 0xC0) << 5
	lowY := (y & 0x07) << 8
	midY := (y & 0x38) << 2
	return uint16(highY + lowY + midY + x>>3)
}

// AttributeAddress returns the VRAM offset of a character cell's attribute.
func AttributeAddress(cellY, cellX int) uint16 {
	return uint16(AttrOffset + cellY*CellsX + cellX)
}

func ParseAttribute(attr byte) (ink, paper byte, bright, flash bool) {
	ink = attr & 0x07
	paper = (attr >> 3) & 0x07
	bright = attr&0x40 != 0
	flash = attr&0x80 != 0
	return
}

// FlashOn reports whether flashing cells currently show swapped colours.
func (s *Screen) FlashOn() bool {
	return s.flashOn
}

// Render draws vram (6912 bytes from 0x4000) into the frame and returns it.
// The slice is reused by the next call.
func (s *Screen) Render(vram []byte, borders *[FrameHeight]byte) []byte {
	for y := range FrameHeight {
		c := s.palette[borders[y]&0x07]
		row := s.frame[y*FrameWidth*4 : (y+1)*FrameWidth*4]
		for i := 0; i < len(row); i += 4 {
			copy(row[i:i+4], c[:])
		}
	}

	for y := range DisplayHeight {
		rowAddr := s.rowStart[y]
		attrBase := AttributeAddress(y>>3, 0)
		base := ((BorderSize+y)*FrameWidth + BorderSize) * 4

		for cellX := range CellsX {
			bits := vram[rowAddr+uint16(cellX)]
			ink, paper, bright, flash := ParseAttribute(vram[attrBase+uint16(cellX)])
			if flash && s.flashOn {
				ink, paper = paper, ink
			}
			var off byte
			if bright {
				off = 8
			}
			fg := s.palette[off+ink]
			bg := s.palette[off+paper]

			px := base + cellX*8*4
			for bit := 7; bit >= 0; bit-- {
				if bits>>bit&1 != 0 {
					copy(s.frame[px:px+4], fg[:])
				} else {
					copy(s.frame[px:px+4], bg[:])
				}
				px += 4
			}
		}
	}
	return s.frame
}

// EndFrame advances the flash timer.
func (s *Screen) EndFrame() {
	s.flashCounter++
	if s.flashCounter >= FlashFrames {
		s.flashCounter = 0
		s.flashOn = !s.flashOn
	}
}

func (s *Screen) Reset() {
	s.flashOn = false
	s.flashCounter = 0
}
