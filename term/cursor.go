// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/cursor.go
// Summary: Cursor position, visibility, and style tracking.

package term

// CursorStyle enumerates the DECSCUSR cursor shapes.
type CursorStyle uint8

const (
	CursorBlock CursorStyle = iota
	CursorUnderline
	CursorBar
)

// String returns the shape name.
func (s CursorStyle) String() string {
	switch s {
	case CursorBlock:
		return "block"
	case CursorUnderline:
		return "underline"
	case CursorBar:
		return "bar"
	}
	return "unknown"
}

// Cursor is the active writing position, 0-based. When a print fills the
// last column with autowrap enabled, Col stays on that column and the
// wrap is deferred until the next print commits it.
type Cursor struct {
	Row, Col int
	Visible  bool
	Style    CursorStyle
	Blinking bool
}

// cursorSnapshot is the atomic unit saved by DECSC and restored by DECRC:
// position and style plus the attribute and charset state in effect.
type cursorSnapshot struct {
	cursor      Cursor
	attr        AttributeState
	charsets    CharsetState
	origin      bool
	pendingWrap bool
}
