// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/render_test.go
// Summary: Renderer tests against tcell's simulation screen.

package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/Hydepwns/raxol-sub015/term"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

// TestDrawBasicText verifies glyphs land at their cells with style.
func TestDrawBasicText(t *testing.T) {
	s := newSimScreen(t, 20, 5)
	emu, err := term.NewEmulator(20, 5)
	if err != nil {
		t.Fatal(err)
	}
	r := New(s)

	emu.Feed([]byte("\x1b[1mHi"))
	r.Draw(emu)

	mainc, _, style, _ := s.GetContent(0, 0)
	if mainc != 'H' {
		t.Errorf("cell (0,0): got %q", mainc)
	}
	_, _, attrs := style.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Error("expected bold")
	}
	mainc, _, _, _ = s.GetContent(1, 0)
	if mainc != 'i' {
		t.Errorf("cell (1,0): got %q", mainc)
	}
}

// TestDrawIncremental verifies a second draw only needs the damaged cell
// and still leaves prior content on screen.
func TestDrawIncremental(t *testing.T) {
	s := newSimScreen(t, 10, 3)
	emu, err := term.NewEmulator(10, 3)
	if err != nil {
		t.Fatal(err)
	}
	r := New(s)

	emu.Feed([]byte("abc"))
	r.Draw(emu)
	emu.Feed([]byte("\x1b[1;2HZ"))
	r.Draw(emu)

	mainc, _, _, _ := s.GetContent(0, 0)
	if mainc != 'a' {
		t.Errorf("cell (0,0): got %q", mainc)
	}
	mainc, _, _, _ = s.GetContent(1, 0)
	if mainc != 'Z' {
		t.Errorf("cell (1,0): got %q", mainc)
	}
}

// TestDrawColors verifies palette and RGB colors survive conversion.
func TestDrawColors(t *testing.T) {
	s := newSimScreen(t, 10, 2)
	emu, err := term.NewEmulator(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	r := New(s)

	emu.Feed([]byte("\x1b[31mr\x1b[38;2;1;2;3mt"))
	r.Draw(emu)

	_, _, style, _ := s.GetContent(0, 0)
	fg, _, _ := style.Decompose()
	if fg != tcell.PaletteColor(1) {
		t.Errorf("palette fg: got %v", fg)
	}
	_, _, style, _ = s.GetContent(1, 0)
	fg, _, _ = style.Decompose()
	if fg != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("rgb fg: got %v", fg)
	}
}

// TestCursorVisibilityForwarded verifies hide/show reaches the screen.
func TestCursorVisibilityForwarded(t *testing.T) {
	s := newSimScreen(t, 10, 2)
	emu, err := term.NewEmulator(10, 2)
	if err != nil {
		t.Fatal(err)
	}
	r := New(s)

	emu.Feed([]byte("\x1b[?25l"))
	r.Draw(emu)
	if x, y, visible := s.GetCursor(); visible {
		t.Errorf("cursor should be hidden, shown at (%d,%d)", x, y)
	}
	emu.Feed([]byte("\x1b[?25h\x1b[2;3H"))
	r.Draw(emu)
	x, y, visible := s.GetCursor()
	if !visible || x != 2 || y != 1 {
		t.Errorf("cursor: visible=%v at (%d,%d)", visible, x, y)
	}
}
