// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/charset.go
// Summary: Character set designation (G0-G3) and invocation (GL/GR) state.
// Usage: Resolves printed runes through the designated set before they reach
// the screen buffer.

package term

// Charset identifiers as used in designation sequences (ESC ( c etc.).
const (
	CharsetASCII       CharsetTag = 'B' // US-ASCII
	CharsetDECGraphics CharsetTag = '0' // DEC Special Graphics (line drawing)
	CharsetUK          CharsetTag = 'A' // UK national set
)

// CharsetState holds the four designation slots and the invocation pointers.
// Designation (ESC ( c and friends) assigns a set to a slot; invocation
// (SI/SO, locking shifts) selects which slot GL points at. GR is kept for
// 8-bit environments but is not consulted by the byte-oriented parser, which
// treats high bytes as UTF-8.
type CharsetState struct {
	Slots [4]CharsetTag
	GL    int
	GR    int
	// single holds a one-shot slot index from SS2/SS3, -1 when unset.
	single int
}

// newCharsetState returns the power-on designation: ASCII in every slot,
// GL at G0, GR at G1.
func newCharsetState() CharsetState {
	return CharsetState{
		Slots:  [4]CharsetTag{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII},
		GL:     0,
		GR:     1,
		single: -1,
	}
}

// Designate assigns a charset to slot g (0-3). Unknown designators fall back
// to ASCII so a bad sequence can never wedge printing.
func (cs *CharsetState) Designate(g int, set CharsetTag) {
	if g < 0 || g > 3 {
		return
	}
	switch set {
	case CharsetASCII, CharsetDECGraphics, CharsetUK:
		cs.Slots[g] = set
	default:
		cs.Slots[g] = CharsetASCII
	}
}

// ShiftIn invokes G0 into GL (SI, 0x0F).
func (cs *CharsetState) ShiftIn() { cs.GL = 0 }

// ShiftOut invokes G1 into GL (SO, 0x0E).
func (cs *CharsetState) ShiftOut() { cs.GL = 1 }

// LockingShift invokes slot g into GL (LS2/LS3).
func (cs *CharsetState) LockingShift(g int) {
	if g >= 0 && g <= 3 {
		cs.GL = g
	}
}

// SingleShift applies slot g to the next graphic character only (SS2/SS3).
func (cs *CharsetState) SingleShift(g int) {
	if g >= 2 && g <= 3 {
		cs.single = g
	}
}

// Active returns the charset the next printed character resolves through,
// consuming a pending single shift.
func (cs *CharsetState) Active() CharsetTag {
	if cs.single >= 0 {
		set := cs.Slots[cs.single]
		cs.single = -1
		return set
	}
	return cs.Slots[cs.GL]
}

// Resolve maps a rune through the given charset. Only single ASCII-range
// runes are remapped; multi-rune graphemes and non-ASCII pass through.
func Resolve(set CharsetTag, r rune) rune {
	switch set {
	case CharsetDECGraphics:
		if mapped, ok := decGraphics[r]; ok {
			return mapped
		}
	case CharsetUK:
		if r == '#' {
			return '£'
		}
	}
	return r
}

// decGraphics maps US-ASCII onto the DEC Special Graphics set used for
// box drawing (ESC ( 0).
var decGraphics = map[rune]rune{
	'+': '→',
	',': '←',
	'-': '↑',
	'.': '↓',
	'0': '▮',
	'`': '◆',
	'a': '▒',
	'b': '␉',
	'c': '␌',
	'd': '␍',
	'e': '␊',
	'f': '°',
	'g': '±',
	'h': '␤',
	'i': '␋',
	'j': '┘',
	'k': '┐',
	'l': '┌',
	'm': '└',
	'n': '┼',
	'o': '⎺',
	'p': '⎻',
	'q': '─',
	'r': '⎼',
	's': '⎽',
	't': '├',
	'u': '┤',
	'v': '┴',
	'w': '┬',
	'x': '│',
	'y': '≤',
	'z': '≥',
	'{': 'π',
	'|': '≠',
	'}': '£',
	'~': '·',
}
