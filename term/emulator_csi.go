// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/emulator_csi.go
// Summary: CSI dispatch: cursor movement, erase and edit operations, SGR,
// scroll regions, mode set/reset, and device reports.

package term

import (
	"fmt"
	"log"

	"github.com/Hydepwns/raxol-sub015/term/parser"
)

func (e *Emulator) dispatchCsi(a parser.Action) {
	if len(a.Intermediates) > 0 {
		e.dispatchCsiIntermediate(a)
		return
	}
	if a.Private {
		e.dispatchCsiPrivate(a)
		return
	}

	switch a.Final {
	case 'A': // CUU
		e.moveRelative(-a.Param(0, 1), 0)
	case 'B': // CUD
		e.moveRelative(a.Param(0, 1), 0)
	case 'C': // CUF
		e.moveRelative(0, a.Param(0, 1))
	case 'D': // CUB
		e.moveRelative(0, -a.Param(0, 1))
	case 'E': // CNL
		e.moveRelative(a.Param(0, 1), 0)
		e.cursor.Col = 0
	case 'F': // CPL
		e.moveRelative(-a.Param(0, 1), 0)
		e.cursor.Col = 0
	case 'G', '`': // CHA, HPA
		e.pendingWrap = false
		e.cursor.Col = clamp(a.Param(0, 1)-1, 0, e.width-1)
	case 'H', 'f': // CUP, HVP
		e.moveTo(a.Param(0, 1)-1, a.Param(1, 1)-1)
	case 'I': // CHT
		e.tabForward(a.Param(0, 1))
	case 'Z': // CBT
		e.tabBackward(a.Param(0, 1))
	case 'J': // ED
		e.eraseInDisplay(a.RawParam(0, 0))
	case 'K': // EL
		e.eraseInLine(a.RawParam(0, 0))
	case 'L': // IL
		if e.insideRegion() {
			e.active.InsertLines(e.cursor.Row, a.Param(0, 1), e.blank())
			e.cursor.Col = 0
			e.pendingWrap = false
		}
	case 'M': // DL
		if e.insideRegion() {
			e.active.DeleteLines(e.cursor.Row, a.Param(0, 1), e.blank())
			e.cursor.Col = 0
			e.pendingWrap = false
		}
	case '@': // ICH
		e.pendingWrap = false
		e.active.InsertCells(e.cursor.Row, e.cursor.Col, a.Param(0, 1), e.blank())
	case 'P': // DCH
		e.pendingWrap = false
		e.active.DeleteCells(e.cursor.Row, e.cursor.Col, a.Param(0, 1), e.blank())
	case 'X': // ECH
		e.pendingWrap = false
		e.active.EraseCells(e.cursor.Row, e.cursor.Col, a.Param(0, 1), e.blank())
	case 'S': // SU
		e.scrollUp(a.Param(0, 1))
	case 'T': // SD
		e.active.ScrollDown(a.Param(0, 1), e.blank())
	case 'b': // REP
		e.repeatLast(a.Param(0, 1))
	case 'd': // VPA
		e.pendingWrap = false
		row := a.Param(0, 1) - 1
		if e.modes.Origin {
			top, bottom := e.active.Region()
			row = clamp(top+row, top, bottom)
		} else {
			row = clamp(row, 0, e.height-1)
		}
		e.cursor.Row = row
	case 'g': // TBC
		e.clearTabStop(a.RawParam(0, 0))
	case 'm': // SGR
		e.attr.ApplySGR(a.Params)
	case 'h': // SM
		e.setAnsiMode(a.Params, true)
	case 'l': // RM
		e.setAnsiMode(a.Params, false)
	case 'n': // DSR
		e.deviceStatusReport(a.RawParam(0, 0))
	case 'c': // DA1
		e.reply("\x1b[?62;4;22c")
	case 'r': // DECSTBM
		top := a.Param(0, 1) - 1
		bottom := a.Param(1, e.height) - 1
		if e.active.SetRegion(top, bottom) {
			e.moveTo(0, 0)
		}
	case 's': // SCOSC
		e.saveCursor()
	case 'u': // SCORC
		e.restoreCursor()
	case 't': // XTWINOPS: reports only, never resizes.
		e.windowOp(a.RawParam(0, 0))
	default:
		log.Printf("Emulator: unhandled CSI final %q params %v", a.Final, a.Params)
	}
}

func (e *Emulator) dispatchCsiIntermediate(a parser.Action) {
	switch {
	case string(a.Intermediates) == "!" && a.Final == 'p': // DECSTR
		e.softReset()
	case string(a.Intermediates) == " " && a.Final == 'q': // DECSCUSR
		e.setCursorStyle(a.RawParam(0, 0))
	case string(a.Intermediates) == "$" && a.Final == 'p': // DECRQM
		e.reportMode(a.RawParam(0, 0), a.Private)
	default:
		log.Printf("Emulator: unhandled CSI %s %q params %v",
			string(a.Intermediates), a.Final, a.Params)
	}
}

func (e *Emulator) dispatchCsiPrivate(a parser.Action) {
	switch a.Final {
	case 'h':
		for _, p := range a.Params {
			e.setPrivateMode(p, true)
		}
	case 'l':
		for _, p := range a.Params {
			e.setPrivateMode(p, false)
		}
	default:
		log.Printf("Emulator: unhandled private CSI final %q params %v", a.Final, a.Params)
	}
}

// --- Movement ---

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// moveTo positions the cursor at 0-based (row, col), interpreted relative
// to the scroll region top when origin mode is set.
func (e *Emulator) moveTo(row, col int) {
	e.pendingWrap = false
	if e.modes.Origin {
		top, bottom := e.active.Region()
		e.cursor.Row = clamp(top+row, top, bottom)
	} else {
		e.cursor.Row = clamp(row, 0, e.height-1)
	}
	e.cursor.Col = clamp(col, 0, e.width-1)
}

// moveRelative shifts the cursor by (dr, dc). Vertical movement stops at
// the scroll region margins when the cursor starts inside them.
func (e *Emulator) moveRelative(dr, dc int) {
	e.pendingWrap = false
	top, bottom := e.active.Region()
	minRow, maxRow := 0, e.height-1
	if e.cursor.Row >= top && e.cursor.Row <= bottom {
		minRow, maxRow = top, bottom
	}
	e.cursor.Row = clamp(e.cursor.Row+dr, minRow, maxRow)
	e.cursor.Col = clamp(e.cursor.Col+dc, 0, e.width-1)
}

func (e *Emulator) insideRegion() bool {
	top, bottom := e.active.Region()
	return e.cursor.Row >= top && e.cursor.Row <= bottom
}

// --- Erase ---

func (e *Emulator) eraseInDisplay(mode int) {
	e.pendingWrap = false
	blank := e.blank()
	switch mode {
	case 0: // cursor to end of screen
		e.active.EraseCells(e.cursor.Row, e.cursor.Col, e.width-e.cursor.Col, blank)
		for row := e.cursor.Row + 1; row < e.height; row++ {
			e.active.EraseCells(row, 0, e.width, blank)
			e.active.SetWrapped(row, false)
		}
	case 1: // start of screen to cursor
		for row := 0; row < e.cursor.Row; row++ {
			e.active.EraseCells(row, 0, e.width, blank)
			e.active.SetWrapped(row, false)
		}
		e.active.EraseCells(e.cursor.Row, 0, e.cursor.Col+1, blank)
	case 2: // whole visible screen, scrollback untouched
		e.active.fill(blank)
	case 3: // scrollback only
		e.primary.Scrollback().Clear()
		if e.search != nil {
			if err := e.search.Clear(); err != nil {
				log.Printf("Emulator: search index clear failed: %v", err)
			}
		}
	}
}

func (e *Emulator) eraseInLine(mode int) {
	e.pendingWrap = false
	blank := e.blank()
	switch mode {
	case 0:
		e.active.EraseCells(e.cursor.Row, e.cursor.Col, e.width-e.cursor.Col, blank)
	case 1:
		e.active.EraseCells(e.cursor.Row, 0, e.cursor.Col+1, blank)
	case 2:
		e.active.EraseCells(e.cursor.Row, 0, e.width, blank)
		e.active.SetWrapped(e.cursor.Row, false)
	}
}

// --- Modes ---

func (e *Emulator) setAnsiMode(params []int, set bool) {
	if len(params) == 0 {
		params = []int{0}
	}
	for _, p := range params {
		switch p {
		case 4: // IRM
			e.modes.Insert = set
		case 20: // LNM
			e.modes.LineFeedNewline = set
		default:
			log.Printf("Emulator: unhandled ANSI mode %d (set=%v)", p, set)
		}
	}
}

func (e *Emulator) setPrivateMode(mode int, set bool) {
	switch mode {
	case 1: // DECCKM
		e.modes.ApplicationCursorKeys = set
	case 6: // DECOM
		e.modes.Origin = set
		e.moveTo(0, 0)
	case 7: // DECAWM
		e.modes.AutoWrap = set
		if !set {
			e.pendingWrap = false
		}
	case 12: // cursor blink
		e.cursor.Blinking = set
	case 25: // DECTCEM
		e.cursor.Visible = set
	case 47: // alternate screen, no cursor save
		if set {
			e.enterAltScreen(false)
		} else {
			e.exitAltScreen(false)
		}
	case 1047:
		if set {
			e.enterAltScreen(false)
		} else {
			e.exitAltScreen(false)
		}
	case 1048:
		if set {
			e.saveCursor()
		} else {
			e.restoreCursor()
		}
	case 1049: // alternate screen with cursor save and clear
		if set {
			e.enterAltScreen(true)
		} else {
			e.exitAltScreen(true)
		}
	case 1000:
		e.setMouseMode(MouseModeClick, set)
	case 1002:
		e.setMouseMode(MouseModeCellMotion, set)
	case 1003:
		e.setMouseMode(MouseModeAllMotion, set)
	case 1005:
		e.setMouseEncoding(MouseEncodingUTF8, set)
	case 1006:
		e.setMouseEncoding(MouseEncodingSGR, set)
	case 1015:
		e.setMouseEncoding(MouseEncodingURXVT, set)
	case 2004:
		e.modes.BracketedPaste = set
	default:
		log.Printf("Emulator: unhandled DEC private mode %d (set=%v)", mode, set)
	}
}

func (e *Emulator) setMouseMode(m MouseMode, set bool) {
	if set {
		e.modes.Mouse = m
	} else if e.modes.Mouse == m {
		e.modes.Mouse = MouseModeNone
	}
}

func (e *Emulator) setMouseEncoding(enc MouseEncoding, set bool) {
	if set {
		e.modes.MouseEnc = enc
	} else if e.modes.MouseEnc == enc {
		e.modes.MouseEnc = MouseEncodingDefault
	}
}

// enterAltScreen activates the alternate buffer. With save set (DECSET
// 1049) the cursor is saved first and the alternate screen starts blank.
func (e *Emulator) enterAltScreen(save bool) {
	if e.modes.AltScreen {
		return
	}
	if save {
		e.saveCursor()
	}
	e.modes.AltScreen = true
	e.active = e.alternate
	e.pendingWrap = false
	if save {
		e.alternate.fill(e.blank())
		e.alternate.resetRegion()
		e.moveTo(0, 0)
	}
}

func (e *Emulator) exitAltScreen(restore bool) {
	if !e.modes.AltScreen {
		return
	}
	e.modes.AltScreen = false
	e.active = e.primary
	e.pendingWrap = false
	if restore {
		e.restoreCursor()
	}
}

// --- Save / restore ---

// saveCursor records the DECSC unit: cursor, rendition, charsets, origin
// mode and wrap pending, per screen.
func (e *Emulator) saveCursor() {
	snap := &cursorSnapshot{
		cursor:      e.cursor,
		attr:        e.attr,
		charsets:    e.charsets,
		origin:      e.modes.Origin,
		pendingWrap: e.pendingWrap,
	}
	if e.modes.AltScreen {
		e.savedAlt = snap
	} else {
		e.savedPrimary = snap
	}
}

// restoreCursor applies the saved DECSC unit; with nothing saved it homes
// the cursor and resets the rendition, like DECRC on a fresh terminal.
func (e *Emulator) restoreCursor() {
	snap := e.savedPrimary
	if e.modes.AltScreen {
		snap = e.savedAlt
	}
	if snap == nil {
		e.cursor.Row, e.cursor.Col = 0, 0
		e.attr = defaultAttributes()
		e.pendingWrap = false
		return
	}
	e.cursor = snap.cursor
	e.attr = snap.attr
	e.charsets = snap.charsets
	e.modes.Origin = snap.origin
	e.pendingWrap = snap.pendingWrap
	e.clampCursor()
}

// --- Resets and reports ---

// softReset implements DECSTR: modes and rendition return to defaults,
// screen content stays.
func (e *Emulator) softReset() {
	e.modes = defaultModes()
	e.attr = defaultAttributes()
	e.charsets = newCharsetState()
	e.cursor.Visible = true
	e.cursor.Style = CursorBlock
	e.pendingWrap = false
	e.active.resetRegion()
	e.savedPrimary = nil
	e.savedAlt = nil
}

func (e *Emulator) setCursorStyle(param int) {
	switch param {
	case 0, 1:
		e.cursor.Style = CursorBlock
		e.cursor.Blinking = true
	case 2:
		e.cursor.Style = CursorBlock
		e.cursor.Blinking = false
	case 3:
		e.cursor.Style = CursorUnderline
		e.cursor.Blinking = true
	case 4:
		e.cursor.Style = CursorUnderline
		e.cursor.Blinking = false
	case 5:
		e.cursor.Style = CursorBar
		e.cursor.Blinking = true
	case 6:
		e.cursor.Style = CursorBar
		e.cursor.Blinking = false
	}
}

func (e *Emulator) reply(s string) {
	if e.respond != nil {
		e.respond([]byte(s))
	}
}

func (e *Emulator) deviceStatusReport(param int) {
	switch param {
	case 5: // operating status: always OK
		e.reply("\x1b[0n")
	case 6: // CPR, 1-based, origin-relative when DECOM is set
		row, col := e.cursor.Row, e.cursor.Col
		if e.modes.Origin {
			top, _ := e.active.Region()
			row -= top
		}
		e.reply(fmt.Sprintf("\x1b[%d;%dR", row+1, col+1))
	}
}

// reportMode answers DECRQM with 1 (set), 2 (reset), or 0 (unrecognized).
func (e *Emulator) reportMode(mode int, private bool) {
	state := 0
	if private {
		switch mode {
		case 1:
			state = boolState(e.modes.ApplicationCursorKeys)
		case 6:
			state = boolState(e.modes.Origin)
		case 7:
			state = boolState(e.modes.AutoWrap)
		case 25:
			state = boolState(e.cursor.Visible)
		case 47, 1047, 1049:
			state = boolState(e.modes.AltScreen)
		case 2004:
			state = boolState(e.modes.BracketedPaste)
		}
		e.reply(fmt.Sprintf("\x1b[?%d;%d$y", mode, state))
		return
	}
	switch mode {
	case 4:
		state = boolState(e.modes.Insert)
	case 20:
		state = boolState(e.modes.LineFeedNewline)
	}
	e.reply(fmt.Sprintf("\x1b[%d;%d$y", mode, state))
}

func boolState(b bool) int {
	if b {
		return 1
	}
	return 2
}

// windowOp answers the report variants of XTWINOPS; resize requests from
// the stream are deliberately refused.
func (e *Emulator) windowOp(op int) {
	switch op {
	case 18: // text area size in characters
		e.reply(fmt.Sprintf("\x1b[8;%d;%dt", e.height, e.width))
	}
}
