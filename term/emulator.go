// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/emulator.go
// Summary: The emulator aggregate: owns cursor, rendition, charsets, modes,
// and both screen buffers; applies decoded parser actions in order.
// Usage: One instance per logical terminal session. Feed bytes, read
// snapshots and diffs.

package term

import (
	"errors"
	"log"
	"sync"

	"github.com/Hydepwns/raxol-sub015/term/parser"
)

const defaultScrollback = 2000

// maxSixelPayloads bounds the retained graphics side channel.
const maxSixelPayloads = 64

// ErrInvalidSize is returned by New and Resize for non-positive dimensions.
var ErrInvalidSize = errors.New("term: width and height must be positive")

// Emulator is the authoritative terminal state machine. All mutation goes
// through Feed or Apply; readers take immutable snapshots. An Emulator is
// single-writer: actions apply strictly in byte order, and the internal
// lock serializes writers against snapshot readers. Multiple instances are
// fully independent.
type Emulator struct {
	mu sync.Mutex

	width, height int

	primary   *Buffer
	alternate *Buffer
	active    *Buffer

	cursor      Cursor
	pendingWrap bool
	attr        AttributeState
	charsets    CharsetState
	modes       ModeState

	tabStops map[int]bool

	savedPrimary *cursorSnapshot
	savedAlt     *cursorSnapshot

	title  string
	sixels []SixelImage

	// Last printed glyph, for REP.
	lastGlyph string
	lastWidth int

	parser *parser.Parser

	scrollbackMax int
	search        *SearchIndex

	respond func([]byte)
	onTitle func(string)
	onBell  func()
}

// Option configures an Emulator at construction time.
type Option func(*Emulator)

// WithScrollback sets the maximum number of scrollback lines retained by
// the primary buffer. Zero disables retention.
func WithScrollback(max int) Option {
	return func(e *Emulator) { e.scrollbackMax = max }
}

// WithResponseHandler sets the callback used to answer device queries
// (DSR, DA, DECRQM). Without it queries are dropped.
func WithResponseHandler(f func([]byte)) Option {
	return func(e *Emulator) { e.respond = f }
}

// WithTitleChangeHandler sets a callback invoked when OSC 0/2 changes the
// window title.
func WithTitleChangeHandler(f func(string)) Option {
	return func(e *Emulator) { e.onTitle = f }
}

// WithBellHandler sets a callback invoked on BEL. The bell never mutates
// buffer state.
func WithBellHandler(f func()) Option {
	return func(e *Emulator) { e.onBell = f }
}

// WithSearchIndex attaches a search index; lines evicted into scrollback
// are indexed as they scroll off.
func WithSearchIndex(si *SearchIndex) Option {
	return func(e *Emulator) { e.search = si }
}

// NewEmulator creates an emulator at the given size with power-on defaults.
func NewEmulator(width, height int, opts ...Option) (*Emulator, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	e := &Emulator{
		width:         width,
		height:        height,
		scrollbackMax: defaultScrollback,
		parser:        parser.NewParser(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.primary = newBuffer(width, height, NewScrollback(e.scrollbackMax))
	e.alternate = newBuffer(width, height, nil)
	e.active = e.primary
	e.cursor = Cursor{Visible: true, Blinking: true}
	e.attr = defaultAttributes()
	e.charsets = newCharsetState()
	e.modes = defaultModes()
	e.tabStops = defaultTabStops(width)
	return e, nil
}

func defaultTabStops(width int) map[int]bool {
	stops := make(map[int]bool)
	for i := 0; i < width; i += 8 {
		stops[i] = true
	}
	return stops
}

// Feed consumes a chunk of the session byte stream, applying every decoded
// action in order. Chunk boundaries are arbitrary; sequences split across
// calls resume where they left off.
func (e *Emulator) Feed(data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, a := range e.parser.Feed(data) {
		e.apply(a)
	}
}

// Apply applies a single pre-decoded action. Exposed for callers that run
// their own parser or replay recorded action streams.
func (e *Emulator) Apply(a parser.Action) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(a)
}

// apply is the exhaustive dispatch over the closed action set. Malformed
// input never reaches here as anything but KindIgnored; nothing raises.
func (e *Emulator) apply(a parser.Action) {
	switch a.Kind {
	case parser.KindPrint:
		e.print(a.Grapheme, a.Width)
	case parser.KindExecute:
		e.execute(a.Control)
	case parser.KindCsi:
		e.dispatchCsi(a)
	case parser.KindEsc:
		e.dispatchEsc(a)
	case parser.KindOsc:
		e.dispatchOsc(a.Payload)
	case parser.KindDcs:
		e.dispatchDcs(a)
	case parser.KindSixel:
		e.dispatchSixel(a)
	case parser.KindIgnored:
		// Malformed sequence already recovered by the parser.
	}
}

// blank returns the erase cell for the current rendition. Erased cells keep
// the active background color, matching DEC semantics.
func (e *Emulator) blank() Cell {
	return Cell{Glyph: " ", Width: 1, FG: e.attr.FG, BG: e.attr.BG}
}

// --- C0 controls ---

func (e *Emulator) execute(ctrl byte) {
	switch ctrl {
	case 0x07: // BEL
		if e.onBell != nil {
			e.onBell()
		}
	case 0x08: // BS
		e.pendingWrap = false
		if e.cursor.Col > 0 {
			e.cursor.Col--
		}
	case 0x09: // HT
		e.tab()
	case 0x0a, 0x0b, 0x0c: // LF, VT, FF
		e.lineFeed()
		if e.modes.LineFeedNewline {
			e.cursor.Col = 0
		}
	case 0x0d: // CR
		e.pendingWrap = false
		e.cursor.Col = 0
	case 0x0e: // SO: invoke G1 into GL
		e.charsets.ShiftOut()
	case 0x0f: // SI: invoke G0 into GL
		e.charsets.ShiftIn()
	default:
		// NUL, ENQ, and the rest are dropped.
	}
}

// lineFeed moves the cursor down, scrolling the region when at its bottom.
func (e *Emulator) lineFeed() {
	e.pendingWrap = false
	_, bottom := e.active.Region()
	if e.cursor.Row == bottom {
		e.scrollUp(1)
	} else if e.cursor.Row < e.height-1 {
		e.cursor.Row++
	}
}

// reverseIndex moves the cursor up, scrolling the region down when at its
// top margin.
func (e *Emulator) reverseIndex() {
	e.pendingWrap = false
	top, _ := e.active.Region()
	if e.cursor.Row == top {
		e.active.ScrollDown(1, e.blank())
	} else if e.cursor.Row > 0 {
		e.cursor.Row--
	}
}

// scrollUp scrolls the active region and feeds evicted primary lines to the
// search index.
func (e *Emulator) scrollUp(n int) {
	evicted := e.active.ScrollUp(n, e.blank())
	if e.search == nil || e.active != e.primary {
		return
	}
	sb := e.primary.Scrollback()
	base := sb.TotalPushed() - uint64(len(evicted))
	for i, line := range evicted {
		if err := e.search.IndexLine(int64(base)+int64(i), lineText(line)); err != nil {
			log.Printf("Emulator: search index write failed: %v", err)
			return
		}
	}
}

// lineText flattens a line's glyphs for indexing, trimming trailing blanks.
func lineText(l Line) string {
	end := len(l.Cells)
	for end > 0 {
		c := l.Cells[end-1]
		if c.Glyph != " " && c.Glyph != "" {
			break
		}
		end--
	}
	var out string
	for _, c := range l.Cells[:end] {
		if c.IsContinuation() {
			continue
		}
		out += c.Glyph
	}
	return out
}

// --- Tab stops ---

func (e *Emulator) tab() {
	e.pendingWrap = false
	for x := e.cursor.Col + 1; x < e.width; x++ {
		if e.tabStops[x] {
			e.cursor.Col = x
			return
		}
	}
	e.cursor.Col = e.width - 1
}

// tabForward moves n stops right (CHT).
func (e *Emulator) tabForward(n int) {
	for i := 0; i < n; i++ {
		e.tab()
	}
}

// tabBackward moves n stops left (CBT).
func (e *Emulator) tabBackward(n int) {
	e.pendingWrap = false
	for i := 0; i < n; i++ {
		found := false
		for x := e.cursor.Col - 1; x >= 0; x-- {
			if e.tabStops[x] {
				e.cursor.Col = x
				found = true
				break
			}
		}
		if !found {
			e.cursor.Col = 0
			break
		}
	}
}

// clearTabStop clears the stop at the cursor (mode 0) or all stops (mode 3).
func (e *Emulator) clearTabStop(mode int) {
	switch mode {
	case 0:
		delete(e.tabStops, e.cursor.Col)
	case 3:
		e.tabStops = make(map[int]bool)
	}
}

// --- Control surface (called by the host, not the byte protocol) ---

// Resize reflows the emulator to new dimensions: lines are truncated or
// padded, the cursor and scroll region are clamped. On invalid dimensions
// the emulator retains its prior state and returns an error.
func (e *Emulator) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidSize
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if width == e.width && height == e.height {
		return nil
	}
	blank := blankCell(DefaultFG, DefaultBG)
	e.primary.resize(width, height, blank)
	e.alternate.resize(width, height, blank)
	// Default stops extend into new columns; custom stops survive.
	for i := 0; i < width; i += 8 {
		if i >= e.width {
			e.tabStops[i] = true
		}
	}
	e.width = width
	e.height = height
	e.clampCursor()
	e.pendingWrap = false
	return nil
}

func (e *Emulator) clampCursor() {
	if e.cursor.Row >= e.height {
		e.cursor.Row = e.height - 1
	}
	if e.cursor.Row < 0 {
		e.cursor.Row = 0
	}
	if e.cursor.Col >= e.width {
		e.cursor.Col = e.width - 1
	}
	if e.cursor.Col < 0 {
		e.cursor.Col = 0
	}
}

// Reset returns the emulator to power-on defaults (RIS). Scrollback is
// retained; visible content is cleared.
func (e *Emulator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

func (e *Emulator) reset() {
	e.modes = defaultModes()
	e.attr = defaultAttributes()
	e.charsets = newCharsetState()
	e.cursor = Cursor{Visible: true, Blinking: true}
	e.pendingWrap = false
	e.savedPrimary = nil
	e.savedAlt = nil
	e.tabStops = defaultTabStops(e.width)
	e.active = e.primary
	blank := blankCell(DefaultFG, DefaultBG)
	e.primary.fill(blank)
	e.alternate.fill(blank)
	e.primary.resetRegion()
	e.alternate.resetRegion()
	e.sixels = nil
}

// SetScrollRegion installs a scroll region on the active buffer using
// 0-based inclusive rows. Invalid regions are ignored.
func (e *Emulator) SetScrollRegion(top, bottom int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active.SetRegion(top, bottom) {
		e.moveTo(0, 0)
	}
}

// SwitchToAlternateScreen activates the alternate buffer as if DECSET 1049
// arrived: the cursor is saved and the alternate screen cleared.
func (e *Emulator) SwitchToAlternateScreen() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enterAltScreen(true)
}

// RestorePrimaryScreen reactivates the primary buffer, restoring the cursor
// saved on entry.
func (e *Emulator) RestorePrimaryScreen() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exitAltScreen(true)
}

// --- Queryable outputs ---

// Cursor returns the current cursor state.
func (e *Emulator) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor
}

// Modes returns a copy of the current mode flags.
func (e *Emulator) Modes() ModeState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modes
}

// Title returns the window title set via OSC 0/2, empty when unset.
func (e *Emulator) Title() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.title
}

// Sixels returns the decoded graphics payloads received so far, newest
// last. The slice is a copy.
func (e *Emulator) Sixels() []SixelImage {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]SixelImage, len(e.sixels))
	copy(out, e.sixels)
	return out
}

// ScrollbackLen reports how many lines the primary scrollback retains.
func (e *Emulator) ScrollbackLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.primary.Scrollback().Len()
}

// ScrollbackLine returns a copy of the i-th retained scrollback line,
// oldest first.
func (e *Emulator) ScrollbackLine(i int) Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.primary.Scrollback().Line(i).clone()
}
