package main

import "github.com/intuitionamiga/z80engine/spectrum"

// keyHolds counts how many host keys hold each matrix position, so both
// Shift keys or Shift plus Backspace can share Caps Shift.
type keyHolds struct {
	ula   *spectrum.ULA
	count map[spectrum.Key]int
}

func newKeyHolds(ula *spectrum.ULA) *keyHolds {
	return &keyHolds{ula: ula, count: make(map[spectrum.Key]int)}
}

func (h *keyHolds) press(keys []spectrum.Key) {
	for _, k := range keys {
		h.count[k]++
		if h.count[k] == 1 {
			h.ula.SetKey(k, true)
		}
	}
}

func (h *keyHolds) release(keys []spectrum.Key) {
	for _, k := range keys {
		if h.count[k] == 0 {
			continue
		}
		h.count[k]--
		if h.count[k] == 0 {
			h.ula.SetKey(k, false)
		}
	}
}

