// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/emulator_test.go
// Summary: End-to-end tests driving the emulator with byte streams and
// verifying screen, cursor, mode, and scrollback state.

package term

import (
	"testing"
)

// TestPlainTextPlacement verifies basic glyph placement and cursor advance.
func TestPlainTextPlacement(t *testing.T) {
	h := NewTestHarness(t, 20, 5)
	h.SendText("Hello")
	h.AssertRow(t, 0, "Hello")
	h.AssertCursor(t, 5, 0)
}

// TestAutoWrapAtRightMargin verifies the deferred-wrap behavior: printing
// into a 10-column line leaves the cursor pending on the last column, and
// the next glyph commits the wrap.
func TestAutoWrapAtRightMargin(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendText("1234567890ABC")
	h.AssertRow(t, 0, "1234567890")
	h.AssertRow(t, 1, "ABC")
	h.AssertCursor(t, 3, 1)
	if !h.emu.active.Line(0).Wrapped {
		t.Error("first row should be marked soft-wrapped")
	}
}

// TestPendingWrapStaysPutForCR verifies that CR received while a wrap is
// pending does not spill onto the next line.
func TestPendingWrapStaysPutForCR(t *testing.T) {
	h := NewTestHarness(t, 5, 3)
	h.SendText("12345")
	h.AssertCursor(t, 4, 0)
	h.SendSeq("\r")
	h.AssertCursor(t, 0, 0)
	h.AssertRow(t, 1, "")
}

// TestAutoWrapDisabled verifies the cursor sticks to the last column and
// overwrites when DECAWM is reset.
func TestAutoWrapDisabled(t *testing.T) {
	h := NewTestHarness(t, 5, 3)
	h.SendSeq("\x1b[?7l")
	h.SendText("123456789")
	h.AssertRow(t, 0, "12349")
	h.AssertCursor(t, 4, 0)
}

// TestSGRForegroundAndReset verifies rendition tracking across cells.
func TestSGRForegroundAndReset(t *testing.T) {
	h := NewTestHarness(t, 20, 3)
	h.SendSeq("\x1b[31mRed\x1b[0m!")
	red := Color{Mode: ColorModeStandard, Value: 1}
	for i := 0; i < 3; i++ {
		if got := h.GetCell(i, 0).FG; got != red {
			t.Errorf("cell %d FG: expected %+v, got %+v", i, red, got)
		}
	}
	if got := h.GetCell(3, 0).FG; got != DefaultFG {
		t.Errorf("cell 3 FG after reset: got %+v", got)
	}
}

// TestSGRBoldAndUnderline verifies attribute bits accumulate and clear.
func TestSGRBoldAndUnderline(t *testing.T) {
	h := NewTestHarness(t, 20, 3)
	h.SendSeq("\x1b[1;4mX\x1b[24mY")
	x := h.GetCell(0, 0)
	if x.Attr&AttrBold == 0 || x.Attr&AttrUnderline == 0 {
		t.Errorf("X should be bold+underline, got %v", x.Attr)
	}
	y := h.GetCell(1, 0)
	if y.Attr&AttrBold == 0 || y.Attr&AttrUnderline != 0 {
		t.Errorf("Y should be bold only, got %v", y.Attr)
	}
}

// TestSGRExtendedColors verifies 256-color and RGB selections.
func TestSGRExtendedColors(t *testing.T) {
	h := NewTestHarness(t, 20, 3)
	h.SendSeq("\x1b[38;5;196mA\x1b[48;2;10;20;30mB")
	a := h.GetCell(0, 0)
	if a.FG != (Color{Mode: ColorMode256, Value: 196}) {
		t.Errorf("A FG: got %+v", a.FG)
	}
	b := h.GetCell(1, 0)
	if b.BG != (Color{Mode: ColorModeRGB, R: 10, G: 20, B: 30}) {
		t.Errorf("B BG: got %+v", b.BG)
	}
}

// TestCursorMovementClamps verifies CUU/CUD/CUF/CUB clamp at the edges.
func TestCursorMovementClamps(t *testing.T) {
	h := NewTestHarness(t, 10, 5)
	h.SendSeq("\x1b[3;4H")
	h.AssertCursor(t, 3, 2)
	h.SendSeq("\x1b[99A")
	h.AssertCursor(t, 3, 0)
	h.SendSeq("\x1b[99C")
	h.AssertCursor(t, 9, 0)
	h.SendSeq("\x1b[99B\x1b[99D")
	h.AssertCursor(t, 0, 4)
}

// TestCupZeroParamsHome verifies CSI H with missing or zero parameters
// homes the cursor.
func TestCupZeroParamsHome(t *testing.T) {
	h := NewTestHarness(t, 10, 5)
	h.SendSeq("\x1b[3;3H\x1b[H")
	h.AssertCursor(t, 0, 0)
	h.SendSeq("\x1b[3;3H\x1b[0;0H")
	h.AssertCursor(t, 0, 0)
}

// TestEraseInLine verifies EL 0, 1, and 2.
func TestEraseInLine(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendText("ABCDEFGHIJ")
	h.SendSeq("\x1b[1;5H\x1b[K") // cursor on E, erase to end
	h.AssertRow(t, 0, "ABCD")

	h.SendText("xyz")
	h.SendSeq("\x1b[1;6H\x1b[1K") // erase from start through cursor, z survives
	h.AssertRow(t, 0, "      z")

	h.SendText("Q")
	h.SendSeq("\x1b[2K")
	h.AssertRow(t, 0, "")
}

// TestEraseInDisplayBelowAndAbove verifies ED 0 and ED 1 around the cursor.
func TestEraseInDisplayBelowAndAbove(t *testing.T) {
	h := NewTestHarness(t, 5, 3)
	h.SendText("AAAAA")
	h.SendSeq("\r\n")
	h.SendText("BBBBB")
	h.SendSeq("\r\n")
	h.SendText("CCCCC")

	h.SendSeq("\x1b[2;3H\x1b[J") // erase from B row col 3 downward
	h.AssertRow(t, 0, "AAAAA")
	h.AssertRow(t, 1, "BB")
	h.AssertRow(t, 2, "")

	h.SendSeq("\x1b[1;5H")
	h.SendSeq("\x1b[1J") // erase from top through cursor
	h.AssertRow(t, 0, "")
}

// TestEraseDisplayKeepsScrollback verifies ED 2 clears the screen without
// touching scrollback, and ED 3 clears scrollback without the screen.
func TestEraseDisplayKeepsScrollback(t *testing.T) {
	h := NewTestHarness(t, 5, 2)
	h.SendText("one\r\ntwo\r\nthree")
	if got := h.emu.ScrollbackLen(); got != 1 {
		t.Fatalf("scrollback length: expected 1, got %d", got)
	}
	h.SendSeq("\x1b[2J\x1b[H")
	h.AssertRow(t, 0, "")
	if got := h.emu.ScrollbackLen(); got != 1 {
		t.Errorf("ED 2 must not touch scrollback, got %d lines", got)
	}
	h.SendText("kept")
	h.SendSeq("\x1b[3J")
	if got := h.emu.ScrollbackLen(); got != 0 {
		t.Errorf("ED 3 must clear scrollback, got %d lines", got)
	}
	h.AssertRow(t, 0, "kept")
}

// TestInsertDeleteChars verifies ICH and DCH shift within the line.
func TestInsertDeleteChars(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendText("ABCDEF")
	h.SendSeq("\x1b[1;3H\x1b[2@") // insert 2 blanks before C
	h.AssertRow(t, 0, "AB  CDEF")
	h.SendSeq("\x1b[2P") // delete them again
	h.AssertRow(t, 0, "ABCDEF")
}

// TestEraseChars verifies ECH blanks without shifting.
func TestEraseChars(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendText("ABCDEF")
	h.SendSeq("\x1b[1;2H\x1b[3X")
	h.AssertRow(t, 0, "A   EF")
	h.AssertCursor(t, 1, 0)
}

// TestInsertDeleteLines verifies IL and DL within the scroll region.
func TestInsertDeleteLines(t *testing.T) {
	h := NewTestHarness(t, 5, 4)
	h.SendText("one\r\ntwo\r\nthree\r\nfour")
	h.SendSeq("\x1b[2;1H\x1b[1L")
	h.AssertRow(t, 0, "one")
	h.AssertRow(t, 1, "")
	h.AssertRow(t, 2, "two")
	h.AssertRow(t, 3, "three")
	h.SendSeq("\x1b[1M")
	h.AssertRow(t, 1, "two")
	h.AssertRow(t, 3, "")
}

// TestScrollRegion verifies DECSTBM confines LF scrolling to the region.
func TestScrollRegion(t *testing.T) {
	h := NewTestHarness(t, 5, 4)
	h.SendText("AAA\r\nBBB\r\nCCC\r\nDDD")
	h.SendSeq("\x1b[2;3r") // region rows 2-3 (1-based)
	h.AssertCursor(t, 0, 0)
	h.SendSeq("\x1b[3;1H\n") // LF at region bottom scrolls the region only
	h.AssertRow(t, 0, "AAA")
	h.AssertRow(t, 1, "CCC")
	h.AssertRow(t, 2, "")
	h.AssertRow(t, 3, "DDD")
	if got := h.emu.ScrollbackLen(); got != 0 {
		t.Errorf("region scroll must not feed scrollback, got %d", got)
	}
}

// TestScrollRegionInvalidIgnored verifies a degenerate DECSTBM is dropped.
func TestScrollRegionInvalidIgnored(t *testing.T) {
	h := NewTestHarness(t, 5, 4)
	h.SendSeq("\x1b[3;3r")
	top, bottom := h.emu.active.Region()
	if top != 0 || bottom != 3 {
		t.Errorf("invalid region should be ignored, got %d-%d", top, bottom)
	}
}

// TestOriginMode verifies DECOM makes addressing region-relative.
func TestOriginMode(t *testing.T) {
	h := NewTestHarness(t, 10, 6)
	h.SendSeq("\x1b[3;5r\x1b[?6h")
	h.AssertCursor(t, 0, 2) // homed to region top
	h.SendSeq("\x1b[2;2H")
	h.AssertCursor(t, 1, 3)
	h.SendSeq("\x1b[99;1H") // clamped to region bottom
	h.AssertCursor(t, 0, 4)
	h.SendSeq("\x1b[?6l")
	h.SendSeq("\x1b[1;1H")
	h.AssertCursor(t, 0, 0)
}

// TestReverseIndexScrollsDown verifies RI at the top margin.
func TestReverseIndexScrollsDown(t *testing.T) {
	h := NewTestHarness(t, 5, 3)
	h.SendText("top")
	h.SendSeq("\x1b[1;1H\x1bM")
	h.AssertRow(t, 0, "")
	h.AssertRow(t, 1, "top")
}

// TestScrollbackBounded verifies the ring caps retained history and keeps
// the most recent lines.
func TestScrollbackBounded(t *testing.T) {
	h := NewTestHarness(t, 10, 2, WithScrollback(3))
	for i := 0; i < 8; i++ {
		h.SendText("line")
		h.SendSeq("\r\n")
	}
	if got := h.emu.ScrollbackLen(); got != 3 {
		t.Fatalf("scrollback length: expected 3, got %d", got)
	}
}

// TestAlternateScreen verifies 1049 switching: alt starts blank, never
// feeds scrollback, and primary content plus cursor return on exit.
func TestAlternateScreen(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendText("primary")
	h.SendSeq("\x1b[?1049h")
	h.AssertRow(t, 0, "")
	h.AssertCursor(t, 0, 0)
	if !h.emu.Modes().AltScreen {
		t.Fatal("alt screen mode should be set")
	}

	before := h.emu.ScrollbackLen()
	for i := 0; i < 6; i++ {
		h.SendText("altline")
		h.SendSeq("\r\n")
	}
	if got := h.emu.ScrollbackLen(); got != before {
		t.Errorf("alt screen scroll fed scrollback: %d -> %d", before, got)
	}

	h.SendSeq("\x1b[?1049l")
	h.AssertRow(t, 0, "primary")
	h.AssertCursor(t, 7, 0)
}

// TestSaveRestoreCursor verifies DECSC/DECRC round-trips cursor and
// rendition together.
func TestSaveRestoreCursor(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendSeq("\x1b[2;5H\x1b[1;31m\x1b7")
	h.SendSeq("\x1b[H\x1b[0m")
	h.SendSeq("\x1b8")
	h.AssertCursor(t, 4, 1)
	h.SendText("X")
	x := h.GetCell(4, 1)
	if x.Attr&AttrBold == 0 {
		t.Error("restored rendition should be bold")
	}
	if x.FG != (Color{Mode: ColorModeStandard, Value: 1}) {
		t.Errorf("restored FG: got %+v", x.FG)
	}
}

// TestWideGlyphOccupiesTwoCells verifies CJK placement and the
// continuation cell invariant.
func TestWideGlyphOccupiesTwoCells(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendText("漢x")
	c := h.GetCell(0, 0)
	if c.Glyph != "漢" || c.Width != 2 {
		t.Fatalf("lead cell: got %+v", c)
	}
	if !h.GetCell(1, 0).IsContinuation() {
		t.Error("cell 1 should be a continuation")
	}
	h.AssertGlyph(t, 2, 0, "x")
}

// TestOverwritingWideGlyphHalf verifies writing onto either half blanks
// the orphaned half.
func TestOverwritingWideGlyphHalf(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendText("漢")
	h.SendSeq("\x1b[1;2H")
	h.SendText("z")
	if got := h.GetCell(0, 0).Glyph; got != " " {
		t.Errorf("orphaned lead half should blank, got %q", got)
	}
	h.AssertGlyph(t, 1, 0, "z")
}

// TestCombiningMarkMergesIntoCell verifies a zero-width mark joins the
// preceding cell instead of consuming a column.
func TestCombiningMarkMergesIntoCell(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendText("éx")
	if got := h.GetCell(0, 0).Glyph; got != "é" {
		t.Errorf("cell 0: expected merged cluster, got %q", got)
	}
	h.AssertGlyph(t, 1, 0, "x")
	h.AssertCursor(t, 2, 0)
}

// TestInsertMode verifies IRM shifts existing content right.
func TestInsertMode(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendText("ABC")
	h.SendSeq("\x1b[1;1H\x1b[4h")
	h.SendText("xy")
	h.AssertRow(t, 0, "xyABC")
	h.SendSeq("\x1b[4l")
	h.SendText("Q")
	h.AssertRow(t, 0, "xyQBC")
}

// TestTabStops verifies default 8-column stops plus HTS and TBC.
func TestTabStops(t *testing.T) {
	h := NewTestHarness(t, 30, 2)
	h.SendSeq("\t")
	h.AssertCursor(t, 8, 0)
	h.SendSeq("\t")
	h.AssertCursor(t, 16, 0)

	h.SendSeq("\x1b[1;4H\x1bH") // set stop at col 3
	h.SendSeq("\x1b[1;1H\t")
	h.AssertCursor(t, 3, 0)

	h.SendSeq("\x1b[0g\x1b[1;1H\t") // clear that stop
	h.AssertCursor(t, 8, 0)

	h.SendSeq("\x1b[3g\x1b[1;1H\t") // clear all stops
	h.AssertCursor(t, 29, 0)
}

// TestTabForwardBackward verifies CHT and CBT.
func TestTabForwardBackward(t *testing.T) {
	h := NewTestHarness(t, 40, 2)
	h.SendSeq("\x1b[2I")
	h.AssertCursor(t, 16, 0)
	h.SendSeq("\x1b[1Z")
	h.AssertCursor(t, 8, 0)
}

// TestRepeatLastGlyph verifies REP re-prints the previous character.
func TestRepeatLastGlyph(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendText("a")
	h.SendSeq("\x1b[3b")
	h.AssertRow(t, 0, "aaaa")
}

// TestDeviceStatusReport verifies CPR answers with the 1-based position.
func TestDeviceStatusReport(t *testing.T) {
	h := NewTestHarness(t, 10, 5)
	h.SendSeq("\x1b[3;4H\x1b[6n")
	if len(h.Responses) != 1 || string(h.Responses[0]) != "\x1b[3;4R" {
		t.Fatalf("CPR: got %q", h.Responses)
	}
}

// TestCursorPositionReportOriginMode verifies CPR is region-relative under
// DECOM.
func TestCursorPositionReportOriginMode(t *testing.T) {
	h := NewTestHarness(t, 10, 6)
	h.SendSeq("\x1b[3;5r\x1b[?6h\x1b[2;2H\x1b[6n")
	if len(h.Responses) != 1 || string(h.Responses[0]) != "\x1b[2;2R" {
		t.Fatalf("CPR under DECOM: got %q", h.Responses)
	}
}

// TestPrimaryDeviceAttributes verifies DA1 answers.
func TestPrimaryDeviceAttributes(t *testing.T) {
	h := NewTestHarness(t, 10, 5)
	h.SendSeq("\x1b[c")
	if len(h.Responses) != 1 || string(h.Responses[0]) != "\x1b[?62;4;22c" {
		t.Fatalf("DA1: got %q", h.Responses)
	}
}

// TestModeReporting verifies DECRQM reflects current mode state.
func TestModeReporting(t *testing.T) {
	h := NewTestHarness(t, 10, 5)
	h.SendSeq("\x1b[?2004h\x1b[?2004$p")
	if len(h.Responses) != 1 || string(h.Responses[0]) != "\x1b[?2004;1$y" {
		t.Fatalf("DECRQM set: got %q", h.Responses)
	}
	h.Responses = nil
	h.SendSeq("\x1b[?2004l\x1b[?2004$p")
	if len(h.Responses) != 1 || string(h.Responses[0]) != "\x1b[?2004;2$y" {
		t.Fatalf("DECRQM reset: got %q", h.Responses)
	}
	h.Responses = nil
	h.SendSeq("\x1b[4h\x1b[4$p") // ANSI form reports without the ? marker
	if len(h.Responses) != 1 || string(h.Responses[0]) != "\x1b[4;1$y" {
		t.Fatalf("DECRQM ANSI: got %q", h.Responses)
	}
	h.SendSeq("\x1b[4l")
}

// TestWindowTitle verifies OSC 0/2 updates the title and fires the
// callback.
func TestWindowTitle(t *testing.T) {
	var seen string
	h := NewTestHarness(t, 10, 5, WithTitleChangeHandler(func(s string) { seen = s }))
	h.SendSeq("\x1b]2;hello world\x07")
	if got := h.emu.Title(); got != "hello world" {
		t.Errorf("title: got %q", got)
	}
	if seen != "hello world" {
		t.Errorf("callback: got %q", seen)
	}
	h.SendSeq("\x1b]0;second\x1b\\")
	if got := h.emu.Title(); got != "second" {
		t.Errorf("title via ST: got %q", got)
	}
}

// TestBellCallback verifies BEL fires the handler without touching state.
func TestBellCallback(t *testing.T) {
	rang := 0
	h := NewTestHarness(t, 10, 3, WithBellHandler(func() { rang++ }))
	h.SendText("a")
	h.SendSeq("\x07")
	if rang != 1 {
		t.Fatalf("bell count: got %d", rang)
	}
	h.AssertCursor(t, 1, 0)
}

// TestBracketedPasteFlag verifies mode 2004 is tracked as state only.
func TestBracketedPasteFlag(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendSeq("\x1b[?2004h")
	if !h.emu.Modes().BracketedPaste {
		t.Error("bracketed paste should be set")
	}
	h.SendSeq("\x1b[?2004l")
	if h.emu.Modes().BracketedPaste {
		t.Error("bracketed paste should be reset")
	}
}

// TestCursorVisibility verifies DECTCEM.
func TestCursorVisibility(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendSeq("\x1b[?25l")
	if h.emu.Cursor().Visible {
		t.Error("cursor should be hidden")
	}
	h.SendSeq("\x1b[?25h")
	if !h.emu.Cursor().Visible {
		t.Error("cursor should be visible")
	}
}

// TestCursorStyle verifies DECSCUSR selects shape and blink.
func TestCursorStyle(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendSeq("\x1b[4 q")
	c := h.emu.Cursor()
	if c.Style != CursorUnderline || c.Blinking {
		t.Errorf("expected steady underline, got %v blinking=%v", c.Style, c.Blinking)
	}
	h.SendSeq("\x1b[5 q")
	c = h.emu.Cursor()
	if c.Style != CursorBar || !c.Blinking {
		t.Errorf("expected blinking bar, got %v blinking=%v", c.Style, c.Blinking)
	}
}

// TestSoftReset verifies DECSTR restores defaults but keeps content.
func TestSoftReset(t *testing.T) {
	h := NewTestHarness(t, 10, 4)
	h.SendText("keep")
	h.SendSeq("\x1b[2;3r\x1b[?6h\x1b[1;31m\x1b[?25l")
	h.SendSeq("\x1b[!p")
	h.AssertRow(t, 0, "keep")
	top, bottom := h.emu.active.Region()
	if top != 0 || bottom != 3 {
		t.Errorf("region after DECSTR: %d-%d", top, bottom)
	}
	m := h.emu.Modes()
	if m.Origin {
		t.Error("origin mode should be reset")
	}
	if !h.emu.Cursor().Visible {
		t.Error("cursor should be visible")
	}
	h.SendSeq("\x1b[H")
	h.SendText("X")
	if c := h.GetCell(0, 0); c.Attr != 0 || c.FG != DefaultFG {
		t.Errorf("rendition after DECSTR: %+v", c)
	}
}

// TestFullReset verifies RIS clears screens and modes.
func TestFullReset(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendText("junk")
	h.SendSeq("\x1b[?1049h\x1b[?6h")
	h.SendSeq("\x1bc")
	h.AssertRow(t, 0, "")
	m := h.emu.Modes()
	if m.AltScreen || m.Origin || !m.AutoWrap {
		t.Errorf("modes after RIS: %+v", m)
	}
	h.AssertCursor(t, 0, 0)
}

// TestAlignmentFill verifies DECALN fills the screen with E.
func TestAlignmentFill(t *testing.T) {
	h := NewTestHarness(t, 4, 2)
	h.SendSeq("\x1b#8")
	h.AssertRow(t, 0, "EEEE")
	h.AssertRow(t, 1, "EEEE")
	h.AssertCursor(t, 0, 0)
}

// TestDECGraphicsCharset verifies ESC ( 0 maps line-drawing glyphs.
func TestDECGraphicsCharset(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendSeq("\x1b(0")
	h.SendText("qx")
	h.AssertGlyph(t, 0, 0, "─")
	h.AssertGlyph(t, 1, 0, "│")
	h.SendSeq("\x1b(B")
	h.SendText("q")
	h.AssertGlyph(t, 2, 0, "q")
}

// TestShiftOutShiftIn verifies SO/SI swap between G0 and G1.
func TestShiftOutShiftIn(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendSeq("\x1b)0") // G1 = DEC graphics
	h.SendText("q")
	h.AssertGlyph(t, 0, 0, "q")
	h.SendSeq("\x0e") // SO
	h.SendText("q")
	h.AssertGlyph(t, 1, 0, "─")
	h.SendSeq("\x0f") // SI
	h.SendText("q")
	h.AssertGlyph(t, 2, 0, "q")
}

// TestSingleShift verifies SS2 applies to exactly one glyph.
func TestSingleShift(t *testing.T) {
	h := NewTestHarness(t, 10, 2)
	h.SendSeq("\x1b*0") // G2 = DEC graphics
	h.SendSeq("\x1bN")  // SS2
	h.SendText("qq")
	h.AssertGlyph(t, 0, 0, "─")
	h.AssertGlyph(t, 1, 0, "q")
}

// TestResizeTruncatesAndPads verifies resize semantics and cursor clamp.
func TestResizeTruncatesAndPads(t *testing.T) {
	h := NewTestHarness(t, 80, 24)
	h.SendText("0123456789")
	h.SendSeq("\x1b[24;60H")
	if err := h.emu.Resize(40, 10); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	h.AssertRow(t, 0, "0123456789")
	h.AssertCursor(t, 39, 9)

	if err := h.emu.Resize(0, 10); err == nil {
		t.Fatal("Resize(0, 10) should fail")
	}
	snap := h.emu.Snapshot()
	if snap.Width != 40 || snap.Height != 10 {
		t.Errorf("failed resize must keep state, got %dx%d", snap.Width, snap.Height)
	}
}

// TestResizeBlanksSplitWideGlyph verifies a wide glyph straddling the new
// right edge is blanked rather than halved.
func TestResizeBlanksSplitWideGlyph(t *testing.T) {
	h := NewTestHarness(t, 6, 2)
	h.SendSeq("\x1b[1;5H")
	h.SendText("漢")
	if err := h.emu.Resize(5, 2); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if got := h.GetCell(4, 0); got.Width == 2 {
		t.Errorf("split wide glyph should be blanked, got %+v", got)
	}
}

// TestLineFeedNewlineMode verifies LNM makes LF imply CR.
func TestLineFeedNewlineMode(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendSeq("\x1b[20h")
	h.SendText("ab\n")
	h.AssertCursor(t, 0, 1)
	h.SendSeq("\x1b[20l")
	h.SendText("cd\n")
	h.AssertCursor(t, 2, 2)
}

// TestScrollUpDownSequences verifies SU and SD.
func TestScrollUpDownSequences(t *testing.T) {
	h := NewTestHarness(t, 5, 3)
	h.SendText("one\r\ntwo\r\nzzz")
	h.SendSeq("\x1b[1S")
	h.AssertRow(t, 0, "two")
	h.AssertRow(t, 2, "")
	h.SendSeq("\x1b[1T")
	h.AssertRow(t, 0, "")
	h.AssertRow(t, 1, "two")
}

// TestMouseModes verifies tracking mode and encoding bookkeeping.
func TestMouseModes(t *testing.T) {
	h := NewTestHarness(t, 10, 3)
	h.SendSeq("\x1b[?1002h\x1b[?1006h")
	m := h.emu.Modes()
	if m.Mouse != MouseModeCellMotion || m.MouseEnc != MouseEncodingSGR {
		t.Errorf("mouse state: %+v", m)
	}
	h.SendSeq("\x1b[?1002l")
	if got := h.emu.Modes().Mouse; got != MouseModeNone {
		t.Errorf("mouse mode after reset: %v", got)
	}
}
