// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/attributes.go
// Summary: Current graphic rendition (SGR) state and parameter application.
// Usage: Applied to cells as they are written; not part of a cell until a
// glyph is committed.

package term

// AttributeState is the current SGR rendition: colors and attribute bits
// applied to newly written cells. It persists across writes until changed
// or reset.
type AttributeState struct {
	FG   Color
	BG   Color
	Attr Attribute
}

// defaultAttributes returns the power-on rendition.
func defaultAttributes() AttributeState {
	return AttributeState{FG: DefaultFG, BG: DefaultBG}
}

// Reset restores the default rendition (SGR 0).
func (a *AttributeState) Reset() {
	*a = defaultAttributes()
}

// set and clear flip individual attribute bits.
func (a *AttributeState) set(bit Attribute)   { a.Attr |= bit }
func (a *AttributeState) clear(bit Attribute) { a.Attr &^= bit }

// ApplySGR applies one SGR parameter list cumulatively. Empty parameter
// lists behave as a single 0 (full reset). Extended colors are parsed per
// the 38/48;5;n and 38/48;2;r;g;b grammars; malformed sub-sequences are
// skipped without disturbing the rest of the list.
func (a *AttributeState) ApplySGR(params []int) {
	if len(params) == 0 {
		params = []int{0}
	}
	i := 0
	for i < len(params) {
		p := params[i]
		switch {
		case p == 0:
			a.Reset()
		case p == 1:
			a.set(AttrBold)
		case p == 2:
			a.set(AttrFaint)
		case p == 3:
			a.set(AttrItalic)
		case p == 4:
			a.set(AttrUnderline)
		case p == 5 || p == 6:
			a.set(AttrBlink)
		case p == 7:
			a.set(AttrReverse)
		case p == 9:
			a.set(AttrStrikethrough)
		case p == 21 || p == 22:
			a.clear(AttrBold)
			a.clear(AttrFaint)
		case p == 23:
			a.clear(AttrItalic)
		case p == 24:
			a.clear(AttrUnderline)
		case p == 25:
			a.clear(AttrBlink)
		case p == 27:
			a.clear(AttrReverse)
		case p == 29:
			a.clear(AttrStrikethrough)
		case p >= 30 && p <= 37:
			a.FG = Color{Mode: ColorModeStandard, Value: uint8(p - 30)}
		case p == 39:
			a.FG = DefaultFG
		case p >= 40 && p <= 47:
			a.BG = Color{Mode: ColorModeStandard, Value: uint8(p - 40)}
		case p == 49:
			a.BG = DefaultBG
		case p >= 90 && p <= 97: // Bright foreground
			a.FG = Color{Mode: ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107: // Bright background
			a.BG = Color{Mode: ColorModeStandard, Value: uint8(p - 100 + 8)}
		case p == 38:
			c, consumed, ok := parseExtendedColor(params[i+1:])
			if ok {
				a.FG = c
			}
			i += consumed
		case p == 48:
			c, consumed, ok := parseExtendedColor(params[i+1:])
			if ok {
				a.BG = c
			}
			i += consumed
		}
		i++
	}
}

// parseExtendedColor decodes the tail of a 38/48 sub-sequence. It returns
// the color, how many parameters were consumed, and whether the form was
// valid. A truncated tail still consumes its recognized parameters so
// they are not reinterpreted as standalone SGR codes.
func parseExtendedColor(rest []int) (Color, int, bool) {
	if len(rest) == 0 {
		return Color{}, 0, false
	}
	switch rest[0] {
	case 5:
		if len(rest) >= 2 {
			return Color{Mode: ColorMode256, Value: clampColor(rest[1])}, 2, true
		}
		return Color{}, len(rest), false
	case 2:
		if len(rest) >= 4 {
			return Color{
				Mode: ColorModeRGB,
				R:    clampColor(rest[1]),
				G:    clampColor(rest[2]),
				B:    clampColor(rest[3]),
			}, 4, true
		}
		return Color{}, len(rest), false
	}
	return Color{}, 1, false
}

func clampColor(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
