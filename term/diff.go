// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/diff.go
// Summary: Snapshot capture and cell-level damage computation between two
// snapshots of the visible screen.

package term

// Snapshot is an immutable copy of the visible screen at one instant.
// Snapshots share nothing with the live emulator; applying further input
// never changes one already taken.
type Snapshot struct {
	Width, Height int
	Lines         []Line
	Cursor        Cursor
	AltScreen     bool
}

// Cell returns the snapshot cell at (row, col), a blank default cell when
// out of range.
func (s *Snapshot) Cell(row, col int) Cell {
	if row < 0 || row >= s.Height || col < 0 || col >= s.Width {
		return blankCell(DefaultFG, DefaultBG)
	}
	return s.Lines[row].Cells[col]
}

// CellChange is one damaged cell: its position and its new content.
type CellChange struct {
	Row, Col int
	Cell     Cell
}

// Snapshot captures the active screen. The copy is deep; the caller may
// hold it across any number of Feed calls.
func (e *Emulator) Snapshot() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := &Snapshot{
		Width:     e.width,
		Height:    e.height,
		Lines:     make([]Line, e.height),
		Cursor:    e.cursor,
		AltScreen: e.modes.AltScreen,
	}
	for row := 0; row < e.height; row++ {
		snap.Lines[row] = e.active.Line(row).clone()
	}
	return snap
}

// ChangesSince diffs the current screen against a previous snapshot,
// returning the damage in row-major order plus a fresh snapshot to diff
// against next time. Applying the changes on top of prev yields a screen
// equal to the returned snapshot. A nil prev, or any dimension change,
// damages every cell.
func (e *Emulator) ChangesSince(prev *Snapshot) ([]CellChange, *Snapshot) {
	next := e.Snapshot()
	return Diff(prev, next), next
}

// Diff computes the cell-level damage from prev to next in row-major
// order. Dimension mismatch (including nil prev) invalidates the whole
// screen.
func Diff(prev, next *Snapshot) []CellChange {
	if next == nil {
		return nil
	}
	full := prev == nil || prev.Width != next.Width || prev.Height != next.Height
	var changes []CellChange
	for row := 0; row < next.Height; row++ {
		for col := 0; col < next.Width; col++ {
			c := next.Lines[row].Cells[col]
			if !full && c.Equal(prev.Lines[row].Cells[col]) {
				continue
			}
			changes = append(changes, CellChange{Row: row, Col: col, Cell: c})
		}
	}
	return changes
}

// ApplyChanges writes a damage list onto a snapshot, growing nothing:
// out-of-range changes are dropped. Used to reconstruct remote screens
// from transmitted deltas.
func ApplyChanges(snap *Snapshot, changes []CellChange) {
	for _, ch := range changes {
		if ch.Row < 0 || ch.Row >= snap.Height || ch.Col < 0 || ch.Col >= snap.Width {
			continue
		}
		snap.Lines[ch.Row].Cells[ch.Col] = ch.Cell
	}
}
