// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/emulator_print.go
// Summary: Printable glyph placement: charset translation, deferred
// autowrap, insert mode, wide glyphs, and combining-mark merge.

package term

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// print places one glyph at the cursor. The grapheme arrives pre-measured;
// zero-width marks merge into the previously written cell instead of
// occupying one of their own.
func (e *Emulator) print(grapheme string, width int) {
	set := e.charsets.Active()

	if width == 0 {
		e.mergeCombining(grapheme)
		return
	}

	if r, size := utf8.DecodeRuneInString(grapheme); size == len(grapheme) {
		if mapped := Resolve(set, r); mapped != r {
			grapheme = string(mapped)
		}
	}

	if e.pendingWrap && e.modes.AutoWrap {
		e.wrapLine()
	}

	// A wide glyph that cannot fit in the remaining columns wraps first
	// (or backs up one column when autowrap is off).
	if width == 2 && e.cursor.Col == e.width-1 {
		if e.modes.AutoWrap {
			e.wrapLine()
		} else if e.cursor.Col > 0 {
			e.cursor.Col--
		}
	}

	if e.modes.Insert {
		e.active.InsertCells(e.cursor.Row, e.cursor.Col, width, e.blank())
	}

	e.clearWideAt(e.cursor.Row, e.cursor.Col)
	e.active.SetCell(e.cursor.Row, e.cursor.Col, Cell{
		Glyph:   grapheme,
		Width:   int8(width),
		FG:      e.attr.FG,
		BG:      e.attr.BG,
		Attr:    e.attr.Attr,
		Charset: set,
	})
	if width == 2 && e.cursor.Col+1 < e.width {
		e.active.SetCell(e.cursor.Row, e.cursor.Col+1, Cell{
			FG: e.attr.FG, BG: e.attr.BG, Attr: e.attr.Attr,
		})
	}

	e.lastGlyph = grapheme
	e.lastWidth = width

	e.cursor.Col += width
	if e.cursor.Col >= e.width {
		e.cursor.Col = e.width - 1
		if e.modes.AutoWrap {
			// Deferred wrap: the cursor stays on the last column until
			// the next printable commits the line break.
			e.pendingWrap = true
		}
	}
}

// wrapLine commits a deferred wrap: the current line is marked as soft
// wrapped and the cursor moves to column zero of the next line, scrolling
// if needed.
func (e *Emulator) wrapLine() {
	e.active.SetWrapped(e.cursor.Row, true)
	e.pendingWrap = false
	e.cursor.Col = 0
	e.lineFeed()
}

// mergeCombining appends a zero-width mark to the most recently written
// cell. With nothing printed on the row yet the mark lands in the first
// cell so it is not silently lost.
func (e *Emulator) mergeCombining(mark string) {
	row, col := e.cursor.Row, e.cursor.Col
	if !e.pendingWrap && col > 0 {
		col--
	}
	if col > 0 && e.active.Cell(row, col).IsContinuation() {
		col--
	}
	c := e.active.Cell(row, col)
	if c.Glyph == "" {
		return
	}
	// Merge only while the result is still a single grapheme cluster;
	// the cell's committed width never changes.
	if uniseg.GraphemeClusterCount(c.Glyph+mark) != 1 {
		return
	}
	c.Glyph += mark
	e.active.SetCell(row, col, c)
}

// clearWideAt repairs wide-glyph halves around an overwrite: writing onto
// either column of a wide pair blanks the orphaned half.
func (e *Emulator) clearWideAt(row, col int) {
	c := e.active.Cell(row, col)
	if c.IsContinuation() && col > 0 {
		lead := e.active.Cell(row, col-1)
		if lead.Width == 2 {
			lead.Glyph = " "
			lead.Width = 1
			e.active.SetCell(row, col-1, lead)
		}
		return
	}
	if c.Width == 2 && col+1 < e.width {
		e.active.SetCell(row, col+1, e.blank())
	}
}

// repeatLast implements REP: re-print the last graphic character n times.
// A REP with no prior printable is a no-op.
func (e *Emulator) repeatLast(n int) {
	if e.lastGlyph == "" {
		return
	}
	for i := 0; i < n; i++ {
		e.print(e.lastGlyph, e.lastWidth)
	}
}
