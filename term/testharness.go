// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/testharness.go
// Summary: Test harness for emulator control sequence testing.
// Usage: Used by test files to send sequences and verify screen state.

package term

import (
	"strings"
	"testing"
)

// TestHarness wraps an emulator with helpers for sending sequences and
// inspecting the resulting screen.
type TestHarness struct {
	emu       *Emulator
	Responses [][]byte
}

// NewTestHarness creates a harness with the given terminal size. Device
// query responses are captured in Responses.
func NewTestHarness(t *testing.T, width, height int, opts ...Option) *TestHarness {
	t.Helper()
	h := &TestHarness{}
	opts = append(opts, WithResponseHandler(func(b []byte) {
		h.Responses = append(h.Responses, append([]byte(nil), b...))
	}))
	emu, err := NewEmulator(width, height, opts...)
	if err != nil {
		t.Fatalf("NewEmulator(%d, %d): %v", width, height, err)
	}
	h.emu = emu
	return h
}

// SendSeq feeds a raw byte string, control sequences included.
// Example: h.SendSeq("\x1b[5A") sends "cursor up 5".
func (h *TestHarness) SendSeq(seq string) {
	h.emu.Feed([]byte(seq))
}

// SendText feeds printable text.
func (h *TestHarness) SendText(text string) {
	h.emu.Feed([]byte(text))
}

// GetCell returns the cell at (col, row), 0-based.
func (h *TestHarness) GetCell(x, y int) Cell {
	return h.emu.active.Cell(y, x)
}

// GetCursor returns the cursor position (0-based column, row).
func (h *TestHarness) GetCursor() (x, y int) {
	c := h.emu.Cursor()
	return c.Col, c.Row
}

// RowText returns the visible text of a row with trailing blanks trimmed.
func (h *TestHarness) RowText(y int) string {
	return strings.TrimRight(lineText(h.emu.active.Line(y)), " ")
}

// AssertCursor verifies the cursor position.
func (h *TestHarness) AssertCursor(t *testing.T, x, y int) {
	t.Helper()
	gx, gy := h.GetCursor()
	if gx != x || gy != y {
		t.Errorf("cursor: expected (%d,%d), got (%d,%d)", x, y, gx, gy)
	}
}

// AssertRow verifies a row's trimmed text content.
func (h *TestHarness) AssertRow(t *testing.T, y int, expected string) {
	t.Helper()
	if got := h.RowText(y); got != expected {
		t.Errorf("row %d: expected %q, got %q", y, expected, got)
	}
}

// AssertGlyph verifies the glyph at (col, row).
func (h *TestHarness) AssertGlyph(t *testing.T, x, y int, glyph string) {
	t.Helper()
	if got := h.GetCell(x, y).Glyph; got != glyph {
		t.Errorf("cell (%d,%d): expected glyph %q, got %q", x, y, glyph, got)
	}
}
