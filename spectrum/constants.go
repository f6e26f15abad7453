// constants.go - 48K ZX Spectrum memory map, frame geometry and timing

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

/*
Display Specifications:
  - Resolution: 256x192 pixels (32x24 character cells of 8x8 pixels)
  - Border: 32 pixels on each side, 320x256 total frame
  - VRAM: 6144 bytes bitmap + 768 bytes attributes at 0x4000
  - Flash: INK and PAPER swap every 16 frames

Attribute Byte Format:
  Bit 7: FLASH
  Bit 6: BRIGHT
  Bits 5-3: PAPER
  Bits 2-0: INK

Timing (48K, PAL):
  3.5 MHz clock, 224 T-states per raster line, 312 lines per frame.
  The first bitmap line is raster line 64; the rendered frame starts 32
  lines above it.
*/

package spectrum

const (
	ROMSize = 0x4000
	RAMSize = 0xC000

	// Port 0xFE, decoded by the ULA on every even port address.
	// Write: bits 0-2 border, bit 3 MIC, bit 4 EAR.
	// Read: bits 0-4 keyboard (active low), bit 6 EAR input.
	ULAPort = 0xFE

	VRAMBase   = 0x4000
	BitmapSize = 6144
	AttrOffset = 0x1800
	AttrSize   = 768
	VRAMSize   = BitmapSize + AttrSize
)

const (
	DisplayWidth  = 256
	DisplayHeight = 192
	CellsX        = 32
	CellsY        = 24

	BorderSize = 32

	FrameWidth  = DisplayWidth + 2*BorderSize  // 320
	FrameHeight = DisplayHeight + 2*BorderSize // 256

	FlashFrames = 16
)

const (
	ClockHz        = 3_500_000
	TStatesPerLine = 224
	LinesPerFrame  = 312
	FrameTStates   = TStatesPerLine * LinesPerFrame // 69888
	FramesPerSec   = 50

	// Raster line of the first bitmap row, and of the top of the rendered
	// frame.
	FirstDisplayLine = 64
	FirstFrameLine   = FirstDisplayLine - BorderSize

	// The ULA holds /INT low for this many T-states at the start of a frame.
	INTLength = 32
)

// Normal colours, BRIGHT clear.
var ColorNormal = [8][3]uint8{
	{0, 0, 0},       // black
	{0, 0, 205},     // blue
	{205, 0, 0},     // red
	{205, 0, 205},   // magenta
	{0, 205, 0},     // green
	{0, 205, 205},   // cyan
	{205, 205, 0},   // yellow
	{205, 205, 205}, // white
}

// Bright colours. Black stays black.
var ColorBright = [8][3]uint8{
	{0, 0, 0},
	{0, 0, 255},
	{255, 0, 0},
	{255, 0, 255},
	{0, 255, 0},
	{0, 255, 255},
	{255, 255, 0},
	{255, 255, 255},
}
