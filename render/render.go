// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/render.go
// Summary: tcell renderer: draws emulator snapshots and incremental
// damage onto a tcell.Screen, including cursor placement.

package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/Hydepwns/raxol-sub015/term"
)

// Renderer paints emulator state onto a tcell.Screen. It keeps the last
// snapshot so successive Draw calls only touch damaged cells.
type Renderer struct {
	screen tcell.Screen
	last   *term.Snapshot
}

// New wraps an initialized tcell.Screen.
func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

// toTcellColor converts a cell color to tcell's model.
func toTcellColor(c term.Color) tcell.Color {
	switch c.Mode {
	case term.ColorModeStandard, term.ColorMode256:
		return tcell.PaletteColor(int(c.Value))
	case term.ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	default:
		return tcell.ColorDefault
	}
}

// toTcellStyle converts a cell's rendition to a tcell style.
func toTcellStyle(c term.Cell) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(toTcellColor(c.FG)).
		Background(toTcellColor(c.BG))
	if c.Attr&term.AttrBold != 0 {
		style = style.Bold(true)
	}
	if c.Attr&term.AttrFaint != 0 {
		style = style.Dim(true)
	}
	if c.Attr&term.AttrItalic != 0 {
		style = style.Italic(true)
	}
	if c.Attr&term.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if c.Attr&term.AttrBlink != 0 {
		style = style.Blink(true)
	}
	if c.Attr&term.AttrReverse != 0 {
		style = style.Reverse(true)
	}
	if c.Attr&term.AttrStrikethrough != 0 {
		style = style.StrikeThrough(true)
	}
	return style
}

func (r *Renderer) setCell(col, row int, c term.Cell) {
	if c.IsContinuation() {
		return // covered by the lead cell's combining run
	}
	var mainc rune = ' '
	var combc []rune
	for i, rn := range c.Glyph {
		if i == 0 {
			mainc = rn
		} else {
			combc = append(combc, rn)
		}
	}
	r.screen.SetContent(col, row, mainc, combc, toTcellStyle(c))
}

// Draw renders the emulator's current screen, diffing against the last
// drawn snapshot so unchanged cells are left alone.
func (r *Renderer) Draw(emu *term.Emulator) {
	changes, next := emu.ChangesSince(r.last)
	for _, ch := range changes {
		r.setCell(ch.Col, ch.Row, ch.Cell)
	}
	r.last = next

	cur := next.Cursor
	if cur.Visible {
		r.screen.ShowCursor(cur.Col, cur.Row)
	} else {
		r.screen.HideCursor()
	}
	r.screen.Show()
}

// Invalidate forgets the last snapshot so the next Draw repaints
// everything, for example after a terminal resize.
func (r *Renderer) Invalidate() {
	r.last = nil
	r.screen.Clear()
}
