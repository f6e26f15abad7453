//go:build !headless

// video_backend_ebiten.go - Ebiten window for the Spectrum

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/intuitionamiga/z80engine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image/color"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"

	"github.com/intuitionamiga/z80engine/spectrum"
)

// The emulation runs inside Update, one Spectrum frame per tick.
type SpectrumWindow struct {
	m    *spectrum.Machine
	opts windowOptions
	ring *sampleRing
	keys *keyHolds

	budget frameBudget

	screen     *ebiten.Image
	fullscreen bool
	statusBar  bool
	message    string
	messageTTL int

	clipboardOnce sync.Once
	clipboardOK   bool
}

func runSpectrum(m *spectrum.Machine, opts windowOptions) error {
	w := &SpectrumWindow{m: m, opts: opts, statusBar: true, keys: newKeyHolds(m.ULA)}
	w.budget.limit = opts.frames

	if !opts.mute {
		w.ring = newSampleRing(spectrum.DefaultSampleRate / 2)
		player, err := NewOtoPlayer(spectrum.DefaultSampleRate, w.ring)
		if err != nil {
			fmt.Fprintf(os.Stderr, "spectrum: audio disabled: %v\n", err)
			w.ring = nil
		} else {
			defer player.Close()
			player.Start()
		}
	}

	ebiten.SetWindowSize(spectrum.FrameWidth*opts.scale, spectrum.FrameHeight*opts.scale)
	ebiten.SetWindowTitle("z80engine - ZX Spectrum 48K")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(spectrum.FramesPerSec)
	return ebiten.RunGame(w)
}

func (w *SpectrumWindow) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	w.handleHotkeys()
	w.handleKeyboard()

	if err := w.m.RunFrame(); err != nil {
		return err
	}
	if w.ring != nil {
		w.ring.Write(w.m.Beeper.Drain())
	} else {
		w.m.Beeper.Drain()
	}
	w.budget.count()
	if w.budget.spent() {
		return ebiten.Termination
	}
	if w.messageTTL > 0 {
		w.messageTTL--
	}
	return nil
}

func (w *SpectrumWindow) say(format string, args ...any) {
	w.message = fmt.Sprintf(format, args...)
	w.messageTTL = 3 * spectrum.FramesPerSec
}

func (w *SpectrumWindow) handleHotkeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		w.fullscreen = !w.fullscreen
		ebiten.SetFullscreen(w.fullscreen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		w.statusBar = !w.statusBar
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF10) {
		w.m.Reset()
		w.say("reset")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		if err := spectrum.SaveSNAFile(w.opts.savePath, w.m.Snapshot()); err != nil {
			w.say("save failed: %v", err)
		} else {
			w.say("saved %s", w.opts.savePath)
		}
	}
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		w.paste()
	}
}

func (w *SpectrumWindow) paste() {
	w.clipboardOnce.Do(func() {
		w.clipboardOK = clipboard.Init() == nil
	})
	if !w.clipboardOK {
		w.say("clipboard unavailable")
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	if skipped := w.m.Keys.Type(string(data)); skipped > 0 {
		w.say("pasted, %d characters skipped", skipped)
	}
}

// Host keys that map straight onto a matrix position, plus the chords for
// the cursor and delete keys.
var keyChords = map[ebiten.Key][]spectrum.Key{
	ebiten.KeyShiftLeft:    {spectrum.KeyCapsShift},
	ebiten.KeyShiftRight:   {spectrum.KeyCapsShift},
	ebiten.KeyControlLeft:  {spectrum.KeySymShift},
	ebiten.KeyControlRight: {spectrum.KeySymShift},
	ebiten.KeyAltRight:     {spectrum.KeySymShift},
	ebiten.KeyEnter:        {spectrum.KeyEnter},
	ebiten.KeyNumpadEnter:  {spectrum.KeyEnter},
	ebiten.KeySpace:        {spectrum.KeySpace},
	ebiten.KeyBackspace:    chord('0'),
	ebiten.KeyArrowLeft:    chord('5'),
	ebiten.KeyArrowDown:    chord('6'),
	ebiten.KeyArrowUp:      chord('7'),
	ebiten.KeyArrowRight:   chord('8'),
}

func chord(r rune) []spectrum.Key {
	k, _ := spectrum.KeyFor(r)
	return []spectrum.Key{spectrum.KeyCapsShift, k}
}

func init() {
	letters := []ebiten.Key{
		ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF,
		ebiten.KeyG, ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL,
		ebiten.KeyM, ebiten.KeyN, ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR,
		ebiten.KeyS, ebiten.KeyT, ebiten.KeyU, ebiten.KeyV, ebiten.KeyW, ebiten.KeyX,
		ebiten.KeyY, ebiten.KeyZ,
	}
	for i, key := range letters {
		k, _ := spectrum.KeyFor(rune('A' + i))
		keyChords[key] = []spectrum.Key{k}
	}
	digits := []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
	for i, key := range digits {
		k, _ := spectrum.KeyFor(rune('0' + i))
		keyChords[key] = []spectrum.Key{k}
	}
}

func (w *SpectrumWindow) handleKeyboard() {
	for key, keys := range keyChords {
		switch {
		case inpututil.IsKeyJustPressed(key):
			w.keys.press(keys)
		case inpututil.IsKeyJustReleased(key):
			w.keys.release(keys)
		}
	}
}

func (w *SpectrumWindow) Draw(screen *ebiten.Image) {
	if w.screen == nil {
		w.screen = ebiten.NewImage(spectrum.FrameWidth, spectrum.FrameHeight)
	}
	w.screen.WritePixels(w.m.Frame())
	screen.DrawImage(w.screen, nil)
	if w.statusBar {
		w.drawStatusBar(screen)
	}
}

func (w *SpectrumWindow) drawStatusBar(screen *ebiten.Image) {
	const barHeight = 16
	face := basicfont.Face7x13
	y := spectrum.FrameHeight - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), spectrum.FrameWidth, barHeight, color.RGBA{0, 0, 0, 180})

	line := fmt.Sprintf("frame %d  %.0f fps  F2 save F10 reset", w.m.Frames(), ebiten.ActualFPS())
	if w.messageTTL > 0 {
		line = w.message
	}
	text.Draw(screen, line, face, 4, y+12, color.RGBA{190, 190, 190, 255})
}

func (w *SpectrumWindow) Layout(_, _ int) (int, int) {
	return spectrum.FrameWidth, spectrum.FrameHeight
}
