package spectrum

import (
	"sync"
	"unicode"
)

// Key is one position in the 8x5 keyboard matrix. Row is the address line
// (A8..A15) that selects the half-row, Bit the data line it pulls low.
type Key struct {
	Row, Bit int
}

var (
	KeyCapsShift = Key{0, 0}
	KeySymShift  = Key{7, 1}
	KeyEnter     = Key{6, 0}
	KeySpace     = Key{7, 0}
)

var matrix = [8][5]rune{
	{0, 'Z', 'X', 'C', 'V'},
	{'A', 'S', 'D', 'F', 'G'},
	{'Q', 'W', 'E', 'R', 'T'},
	{'1', '2', '3', '4', '5'},
	{'0', '9', '8', '7', '6'},
	{'P', 'O', 'I', 'U', 'Y'},
	{'\n', 'L', 'K', 'J', 'H'},
	{' ', 0, 'M', 'N', 'B'},
}

// Symbols typed with SYMBOL SHIFT held.
var symbols = map[rune]rune{
	'!': '1', '@': '2', '#': '3', '$': '4', '%': '5',
	'&': '6', '\'': '7', '(': '8', ')': '9', '_': '0',
	'<': 'R', '>': 'T', ';': 'O', '"': 'P', '=': 'L',
	'+': 'K', '-': 'J', '^': 'H', ':': 'Z', '?': 'C',
	'/': 'V', '*': 'B', ',': 'N', '.': 'M',
}

var keyIndex = func() map[rune]Key {
	idx := make(map[rune]Key)
	for row, keys := range matrix {
		for bit, r := range keys {
			if r != 0 {
				idx[r] = Key{row, bit}
			}
		}
	}
	return idx
}()

// KeyFor returns the matrix position labelled r: a letter, digit, space or
// newline for ENTER.
func KeyFor(r rune) (Key, bool) {
	k, ok := keyIndex[unicode.ToUpper(r)]
	return k, ok
}

// KeysForRune returns the chord that types r, or false when the keyboard
// cannot produce it. Upper case letters use CAPS SHIFT; backspace is
// CAPS SHIFT + 0 (DELETE).
func KeysForRune(r rune) ([]Key, bool) {
	switch {
	case r == '\r':
		r = '\n'
	case r == '\b' || r == 0x7F:
		return []Key{KeyCapsShift, keyIndex['0']}, true
	case r >= 'A' && r <= 'Z':
		return []Key{KeyCapsShift, keyIndex[r]}, true
	case r >= 'a' && r <= 'z':
		return []Key{keyIndex[unicode.ToUpper(r)]}, true
	}
	if base, ok := symbols[r]; ok {
		return []Key{KeySymShift, keyIndex[base]}, true
	}
	if k, ok := keyIndex[r]; ok {
		return []Key{k}, true
	}
	return nil, false
}

const (
	typeHoldFrames = 3
	typeGapFrames  = 3
)

// KeyQueue types text into the matrix a chord at a time, holding each chord
// for a few frames and releasing it before the next so the ROM's key scan
// sees every press. Type may be called from any goroutine; Advance belongs
// to the frame loop.
type KeyQueue struct {
	mu      sync.Mutex
	pending [][]Key
	held    []Key
	wait    int
}

// Type queues text and returns how many runes could not be typed.
func (q *KeyQueue) Type(text string) int {
	skipped := 0
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, r := range text {
		keys, ok := KeysForRune(r)
		if !ok {
			skipped++
			continue
		}
		q.pending = append(q.pending, keys)
	}
	return skipped
}

// Len returns the number of chords not yet pressed.
func (q *KeyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Busy reports whether a chord is held or waiting.
func (q *KeyQueue) Busy() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.held != nil || len(q.pending) > 0 || q.wait > 0
}

func (q *KeyQueue) Clear(u *ULA) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, k := range q.held {
		u.SetKey(k, false)
	}
	q.pending = nil
	q.held = nil
	q.wait = 0
}

// Advance moves the queue on by one frame.
func (q *KeyQueue) Advance(u *ULA) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.wait > 0 {
		q.wait--
		return
	}
	if q.held != nil {
		for _, k := range q.held {
			u.SetKey(k, false)
		}
		q.held = nil
		q.wait = typeGapFrames - 1
		return
	}
	if len(q.pending) == 0 {
		return
	}
	q.held = q.pending[0]
	q.pending = q.pending[1:]
	for _, k := range q.held {
		u.SetKey(k, true)
	}
	q.wait = typeHoldFrames - 1
}
