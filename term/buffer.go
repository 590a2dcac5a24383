// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/buffer.go
// Summary: Screen buffer: fixed-height line grid, scroll region, and the
// bounded scrollback ring fed by primary-screen scrolling.
// Usage: Owned by the Emulator; two buffers exist (primary and alternate).

package term

// Line is one row of cells. Cells always has length equal to the buffer
// width. Wrapped marks a soft line-wrap continuation onto the next row,
// which selection and reflow logic rely on.
type Line struct {
	Cells   []Cell
	Wrapped bool
}

func newLine(width int, blank Cell) Line {
	cells := make([]Cell, width)
	for i := range cells {
		cells[i] = blank
	}
	return Line{Cells: cells}
}

// clone returns a deep copy of the line.
func (l Line) clone() Line {
	cells := make([]Cell, len(l.Cells))
	copy(cells, l.Cells)
	return Line{Cells: cells, Wrapped: l.Wrapped}
}

// Scrollback is a bounded ring of lines evicted off the top of the primary
// buffer. Once full, the oldest entries drop silently.
type Scrollback struct {
	lines  []Line
	head   int
	length int
	pushed uint64
}

// NewScrollback returns a ring holding at most max lines. A max of zero or
// less disables retention entirely (pushes are counted but dropped).
func NewScrollback(max int) *Scrollback {
	if max < 0 {
		max = 0
	}
	return &Scrollback{lines: make([]Line, max)}
}

// Max returns the configured capacity.
func (s *Scrollback) Max() int { return len(s.lines) }

// Len returns the number of retained lines.
func (s *Scrollback) Len() int { return s.length }

// TotalPushed returns how many lines have ever been pushed, including those
// already evicted. Search indexing uses this as a stable line number.
func (s *Scrollback) TotalPushed() uint64 { return s.pushed }

// Push appends a line, evicting the oldest once the ring is full.
func (s *Scrollback) Push(l Line) {
	s.pushed++
	if len(s.lines) == 0 {
		return
	}
	if s.length < len(s.lines) {
		s.lines[(s.head+s.length)%len(s.lines)] = l
		s.length++
		return
	}
	s.lines[s.head] = l
	s.head = (s.head + 1) % len(s.lines)
}

// Line returns the i-th retained line, oldest first, or an empty Line when
// out of range.
func (s *Scrollback) Line(i int) Line {
	if i < 0 || i >= s.length {
		return Line{}
	}
	return s.lines[(s.head+i)%len(s.lines)]
}

// Clear drops all retained lines (ED 3).
func (s *Scrollback) Clear() {
	s.head = 0
	s.length = 0
}

// Buffer is the 2D screen model: exactly height lines of width cells, an
// active scroll region, and (for the primary buffer only) a scrollback ring.
type Buffer struct {
	width, height int
	lines         []Line
	scrollback    *Scrollback
	top, bottom   int // scroll region, inclusive 0-based rows
}

// newBuffer creates a buffer filled with blank cells. scrollback may be nil
// (the alternate buffer never retains history).
func newBuffer(width, height int, scrollback *Scrollback) *Buffer {
	b := &Buffer{
		width:      width,
		height:     height,
		scrollback: scrollback,
		top:        0,
		bottom:     height - 1,
	}
	b.lines = make([]Line, height)
	for i := range b.lines {
		b.lines[i] = newLine(width, blankCell(DefaultFG, DefaultBG))
	}
	return b
}

// Width returns the buffer width in columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in rows.
func (b *Buffer) Height() int { return b.height }

// Scrollback returns the buffer's history ring, nil for the alternate buffer.
func (b *Buffer) Scrollback() *Scrollback { return b.scrollback }

// Region returns the scroll region as inclusive top and bottom rows.
func (b *Buffer) Region() (top, bottom int) { return b.top, b.bottom }

// SetRegion validates and installs a scroll region. Invalid regions
// (top >= bottom after clamping) leave the current region unchanged and
// report false.
func (b *Buffer) SetRegion(top, bottom int) bool {
	if top < 0 {
		top = 0
	}
	if bottom >= b.height {
		bottom = b.height - 1
	}
	if top >= bottom {
		return false
	}
	b.top, b.bottom = top, bottom
	return true
}

// resetRegion restores the full-screen region.
func (b *Buffer) resetRegion() {
	b.top, b.bottom = 0, b.height-1
}

// Cell returns the cell at the given position, or a blank cell when out of
// bounds.
func (b *Buffer) Cell(row, col int) Cell {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return blankCell(DefaultFG, DefaultBG)
	}
	return b.lines[row].Cells[col]
}

// SetCell writes a cell, ignoring out-of-bounds positions.
func (b *Buffer) SetCell(row, col int, c Cell) {
	if row < 0 || row >= b.height || col < 0 || col >= b.width {
		return
	}
	b.lines[row].Cells[col] = c
}

// Line returns the row, or an empty Line when out of range. The returned
// Line shares storage with the buffer.
func (b *Buffer) Line(row int) Line {
	if row < 0 || row >= b.height {
		return Line{}
	}
	return b.lines[row]
}

// SetWrapped marks or clears the soft-wrap flag on a row.
func (b *Buffer) SetWrapped(row int, wrapped bool) {
	if row >= 0 && row < b.height {
		b.lines[row].Wrapped = wrapped
	}
}

// ScrollUp scrolls the region up by n lines, filling vacated rows at the
// bottom with blank. Lines evicted off a full-screen region of a buffer
// with scrollback are pushed onto the ring; it returns those lines so the
// caller can index them.
func (b *Buffer) ScrollUp(n int, blank Cell) []Line {
	if n <= 0 {
		return nil
	}
	if n > b.bottom-b.top+1 {
		n = b.bottom - b.top + 1
	}
	var evicted []Line
	retain := b.scrollback != nil && b.top == 0 && b.bottom == b.height-1
	for i := 0; i < n; i++ {
		if retain {
			l := b.lines[b.top].clone()
			b.scrollback.Push(l)
			evicted = append(evicted, l)
		}
		copy(b.lines[b.top:b.bottom], b.lines[b.top+1:b.bottom+1])
		b.lines[b.bottom] = newLine(b.width, blank)
	}
	return evicted
}

// ScrollDown scrolls the region down by n lines, filling vacated rows at the
// top with blank. Scrolling down never touches scrollback.
func (b *Buffer) ScrollDown(n int, blank Cell) {
	if n <= 0 {
		return
	}
	if n > b.bottom-b.top+1 {
		n = b.bottom - b.top + 1
	}
	for i := 0; i < n; i++ {
		copy(b.lines[b.top+1:b.bottom+1], b.lines[b.top:b.bottom])
		b.lines[b.top] = newLine(b.width, blank)
	}
}

// InsertLines inserts n blank lines at row, shifting rows below down within
// the scroll region. No-op when row is outside the region.
func (b *Buffer) InsertLines(row, n int, blank Cell) {
	if row < b.top || row > b.bottom || n <= 0 {
		return
	}
	if n > b.bottom-row+1 {
		n = b.bottom - row + 1
	}
	for i := 0; i < n; i++ {
		copy(b.lines[row+1:b.bottom+1], b.lines[row:b.bottom])
		b.lines[row] = newLine(b.width, blank)
	}
}

// DeleteLines removes n lines at row, shifting rows below up within the
// scroll region and filling the bottom with blank lines.
func (b *Buffer) DeleteLines(row, n int, blank Cell) {
	if row < b.top || row > b.bottom || n <= 0 {
		return
	}
	if n > b.bottom-row+1 {
		n = b.bottom - row + 1
	}
	for i := 0; i < n; i++ {
		copy(b.lines[row:b.bottom], b.lines[row+1:b.bottom+1])
		b.lines[b.bottom] = newLine(b.width, blank)
	}
}

// InsertCells inserts n blank cells at (row, col), shifting the rest of the
// line right; cells pushed past the width are discarded (ICH).
func (b *Buffer) InsertCells(row, col, n int, blank Cell) {
	if row < 0 || row >= b.height || col < 0 || col >= b.width || n <= 0 {
		return
	}
	line := b.lines[row].Cells
	if n > b.width-col {
		n = b.width - col
	}
	copy(line[col+n:], line[col:b.width-n])
	for i := col; i < col+n; i++ {
		line[i] = blank
	}
}

// DeleteCells removes n cells at (row, col), shifting the rest of the line
// left and blank-filling the tail (DCH).
func (b *Buffer) DeleteCells(row, col, n int, blank Cell) {
	if row < 0 || row >= b.height || col < 0 || col >= b.width || n <= 0 {
		return
	}
	line := b.lines[row].Cells
	if n > b.width-col {
		n = b.width - col
	}
	copy(line[col:], line[col+n:])
	for i := b.width - n; i < b.width; i++ {
		line[i] = blank
	}
}

// EraseCells overwrites n cells starting at (row, col) with blank, without
// shifting (ECH).
func (b *Buffer) EraseCells(row, col, n int, blank Cell) {
	if row < 0 || row >= b.height || col < 0 || n <= 0 {
		return
	}
	for i := col; i < col+n && i < b.width; i++ {
		if i >= 0 {
			b.lines[row].Cells[i] = blank
		}
	}
}

// fill overwrites every cell with c and clears wrap flags.
func (b *Buffer) fill(c Cell) {
	for row := range b.lines {
		for col := range b.lines[row].Cells {
			b.lines[row].Cells[col] = c
		}
		b.lines[row].Wrapped = false
	}
}

// resize truncates or pads the grid to the new dimensions. Content in the
// top-left corner is preserved; the scroll region resets to full screen.
func (b *Buffer) resize(width, height int, blank Cell) {
	if width == b.width && height == b.height {
		b.resetRegion()
		return
	}
	lines := make([]Line, height)
	for row := 0; row < height; row++ {
		lines[row] = newLine(width, blank)
		if row < len(b.lines) {
			src := b.lines[row]
			n := copy(lines[row].Cells, src.Cells)
			// A wide glyph cut in half at the new right edge becomes blank.
			if n > 0 && lines[row].Cells[n-1].Width == 2 {
				lines[row].Cells[n-1] = blank
			}
			lines[row].Wrapped = src.Wrapped && width == b.width
		}
	}
	b.lines = lines
	b.width = width
	b.height = height
	b.resetRegion()
}
