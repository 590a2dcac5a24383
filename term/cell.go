// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/cell.go
// Summary: Cell, color, and attribute types for the screen model.
// Usage: Shared by the emulator, damage engine, and renderers.

package term

// Attribute is a bitset of text rendering attributes.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrFaint
	AttrItalic
	AttrUnderline
	AttrBlink
	AttrReverse
	AttrStrikethrough
)

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	names := []struct {
		bit  Attribute
		name string
	}{
		{AttrBold, "bold"},
		{AttrFaint, "faint"},
		{AttrItalic, "italic"},
		{AttrUnderline, "underline"},
		{AttrBlink, "blink"},
		{AttrReverse, "reverse"},
		{AttrStrikethrough, "strikethrough"},
	}
	var result string
	for _, n := range names {
		if a&n.bit != 0 {
			if result != "" {
				result += "|"
			}
			result += n.name
		}
	}
	if result == "" {
		return "unknown"
	}
	return result
}

// ColorMode defines the type of color stored.
type ColorMode uint8

const (
	ColorModeDefault  ColorMode = iota // Default terminal color
	ColorModeStandard                  // The basic 16 ANSI colors
	ColorMode256                       // 256-color palette
	ColorModeRGB                       // 24-bit "true" color
)

// Color represents a color in potentially different modes.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Holds the color code for Standard (0-15) and 256-mode (0-255)
	R, G, B uint8 // Holds the values for RGB mode
}

// Predefined default colors for convenience.
var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// CharsetTag records which designated character set produced a cell's glyph.
// The zero value is the US-ASCII set ('B').
type CharsetTag byte

// Cell represents a single character cell on the screen. Wide graphemes
// occupy two columns: the first cell carries the glyph with Width 2, the
// second is a continuation placeholder with Width 0 and an empty glyph.
type Cell struct {
	Glyph   string
	Width   int8
	FG      Color
	BG      Color
	Attr    Attribute
	Charset CharsetTag
}

// blankCell returns an empty cell carrying the given colors.
func blankCell(fg, bg Color) Cell {
	return Cell{Glyph: " ", Width: 1, FG: fg, BG: bg}
}

// IsContinuation reports whether the cell is the trailing half of a wide
// grapheme.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Glyph == ""
}

// Equal reports whether two cells render identically. Cells are plain
// value types, so this is struct equality.
func (c Cell) Equal(other Cell) bool {
	return c == other
}

// Rune returns the first rune of the glyph, or space for empty cells.
// Renderers that cannot draw full graphemes fall back to this.
func (c Cell) Rune() rune {
	for _, r := range c.Glyph {
		return r
	}
	return ' '
}
