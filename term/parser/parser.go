// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser/parser.go
// Summary: Byte-driven state machine decoding VT control sequences.
// Usage: Feed pty output in arbitrary chunks; collect decoded Actions.
// Notes: Keeps parsing concerns isolated from screen mutation.

package parser

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// State enumerates the parser states. Ground is both the initial state and
// the state reached after every completed or aborted sequence.
type State int

const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCsiEntry
	StateCsiParam
	StateCsiIntermediate
	StateCsiIgnore
	StateOscString
	StateDcsEntry
	StateDcsParam
	StateDcsIntermediate
	StateDcsPassthrough
	StateDcsIgnore
	StateSosPmApcString
	StateSixelBody
)

const (
	// maxParams caps the number of numeric parameters per sequence. Surplus
	// parameters are parsed but dropped.
	maxParams = 32
	// maxParamValue clamps individual parameter values.
	maxParamValue = 65535
	// maxOscBytes bounds OSC string payloads.
	maxOscBytes = 4096
	// maxDataBytes bounds DCS/sixel payloads.
	maxDataBytes = 2 << 20
)

// Parser decodes a VT byte stream into Actions. It is a pure state machine:
// identical byte sequences transition identically regardless of how the
// input is chunked, so sequences split across Feed calls parse correctly.
// A Parser is not safe for concurrent use.
type Parser struct {
	state State

	params        []int
	curParam      int
	private       bool
	intermediates []byte

	osc        []byte
	data       []byte
	dataParams []int
	dcsFinal   byte
	pendingEsc bool

	utf8Buf []byte

	actions []Action
}

// NewParser returns a parser in the Ground state.
func NewParser() *Parser {
	return &Parser{
		state:         StateGround,
		params:        make([]int, 0, maxParams),
		intermediates: make([]byte, 0, 2),
		osc:           make([]byte, 0, 128),
		data:          make([]byte, 0, 128),
	}
}

// State returns the current parser state. Exposed for tests and diagnostics.
func (p *Parser) State() State { return p.state }

// Feed consumes a chunk of bytes and returns the actions decoded from it.
// The returned slice is reused by the next Feed call; callers must apply or
// copy the actions before feeding more input.
func (p *Parser) Feed(data []byte) []Action {
	p.actions = p.actions[:0]
	for _, b := range data {
		p.advance(b)
	}
	return p.actions
}

func (p *Parser) emit(a Action) {
	p.actions = append(p.actions, a)
}

func (p *Parser) emitIgnored() {
	p.emit(Action{Kind: KindIgnored})
}

// advance processes one byte through the state machine.
func (p *Parser) advance(b byte) {
	switch p.state {
	case StateOscString, StateDcsPassthrough, StateDcsIgnore, StateSosPmApcString, StateSixelBody:
		p.advanceString(b)
		return
	}

	// CAN and SUB abort any sequence in progress from every non-string state.
	if b == 0x18 || b == 0x1a {
		if p.state != StateGround {
			p.emitIgnored()
		}
		p.state = StateGround
		return
	}

	// ESC mid-sequence aborts and begins a new escape sequence.
	if b == 0x1b {
		if p.state != StateGround && p.state != StateEscape {
			p.emitIgnored()
		}
		p.startEscape()
		return
	}

	// Remaining C0 controls execute without disturbing the sequence.
	if b < 0x20 {
		p.flushUtf8()
		p.emit(Action{Kind: KindExecute, Control: b})
		return
	}
	if b == 0x7f { // DEL is ignored everywhere
		return
	}

	switch p.state {
	case StateGround:
		p.ground(b)
	case StateEscape:
		p.escape(b)
	case StateEscapeIntermediate:
		p.escapeIntermediate(b)
	case StateCsiEntry:
		p.csiEntry(b)
	case StateCsiParam:
		p.csiParam(b)
	case StateCsiIntermediate:
		p.csiIntermediate(b)
	case StateCsiIgnore:
		if b >= 0x40 && b <= 0x7e {
			p.emitIgnored()
			p.state = StateGround
		}
	case StateDcsEntry:
		p.dcsEntry(b)
	case StateDcsParam:
		p.dcsParam(b)
	case StateDcsIntermediate:
		p.dcsIntermediate(b)
	}
}

func (p *Parser) startEscape() {
	p.flushUtf8()
	p.state = StateEscape
	p.intermediates = p.intermediates[:0]
}

func (p *Parser) clearSequence() {
	p.params = p.params[:0]
	p.curParam = 0
	p.private = false
	p.intermediates = p.intermediates[:0]
}

// --- Ground (printable text) ---

func (p *Parser) ground(b byte) {
	if b < 0x80 {
		p.flushUtf8()
		p.emitPrint(rune(b))
		return
	}
	p.utf8Buf = append(p.utf8Buf, b)
	p.drainUtf8(false)
}

// drainUtf8 decodes as many complete runes as possible from the pending
// UTF-8 buffer. When force is set, incomplete trailing bytes decode to the
// replacement character instead of waiting for more input.
func (p *Parser) drainUtf8(force bool) {
	for len(p.utf8Buf) > 0 {
		if !utf8.FullRune(p.utf8Buf) {
			if !force && len(p.utf8Buf) < utf8.UTFMax {
				return
			}
		}
		r, size := utf8.DecodeRune(p.utf8Buf)
		p.utf8Buf = p.utf8Buf[:copy(p.utf8Buf, p.utf8Buf[size:])]
		p.emitPrint(r)
	}
}

// flushUtf8 forces out any partial rune before a control takes effect.
func (p *Parser) flushUtf8() {
	if len(p.utf8Buf) > 0 {
		p.drainUtf8(true)
	}
}

func (p *Parser) emitPrint(r rune) {
	p.emit(Action{
		Kind:     KindPrint,
		Grapheme: string(r),
		Width:    runewidth.RuneWidth(r),
	})
}

// --- Escape sequences ---

func (p *Parser) escape(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = StateEscapeIntermediate
	case b == '[':
		p.clearSequence()
		p.state = StateCsiEntry
	case b == ']':
		p.osc = p.osc[:0]
		p.pendingEsc = false
		p.state = StateOscString
	case b == 'P':
		p.clearSequence()
		p.state = StateDcsEntry
	case b == 'X', b == '^', b == '_':
		p.pendingEsc = false
		p.state = StateSosPmApcString
	default:
		p.emit(Action{Kind: KindEsc, Final: b})
		p.state = StateGround
	}
}

func (p *Parser) escapeIntermediate(b byte) {
	if b >= 0x20 && b <= 0x2f {
		p.intermediates = append(p.intermediates, b)
		return
	}
	p.emit(Action{
		Kind:          KindEsc,
		Intermediates: append([]byte(nil), p.intermediates...),
		Final:         b,
	})
	p.state = StateGround
}

// --- CSI sequences ---

func (p *Parser) csiEntry(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.pushDigit(b)
		p.state = StateCsiParam
	case b == ';':
		p.pushParam()
		p.state = StateCsiParam
	case b >= 0x3c && b <= 0x3f: // < = > ?
		p.private = true
		p.state = StateCsiParam
	case b == ':':
		p.state = StateCsiIgnore
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = StateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCsi(b)
	}
}

func (p *Parser) csiParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.pushDigit(b)
	case b == ';':
		p.pushParam()
	case b == ':' || (b >= 0x3c && b <= 0x3f):
		p.state = StateCsiIgnore
	case b >= 0x20 && b <= 0x2f:
		p.pushParam()
		p.intermediates = append(p.intermediates, b)
		p.state = StateCsiIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCsi(b)
	}
}

func (p *Parser) csiIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
	case b >= 0x30 && b <= 0x3f:
		p.state = StateCsiIgnore
	case b >= 0x40 && b <= 0x7e:
		p.dispatchCsi(b)
	}
}

func (p *Parser) pushDigit(b byte) {
	p.curParam = p.curParam*10 + int(b-'0')
	if p.curParam > maxParamValue {
		p.curParam = maxParamValue
	}
}

func (p *Parser) pushParam() {
	if len(p.params) < maxParams {
		p.params = append(p.params, p.curParam)
	}
	p.curParam = 0
}

func (p *Parser) dispatchCsi(final byte) {
	p.pushParam()
	p.emit(Action{
		Kind:          KindCsi,
		Params:        append([]int(nil), p.params...),
		Private:       p.private,
		Intermediates: append([]byte(nil), p.intermediates...),
		Final:         final,
	})
	p.state = StateGround
}

// --- DCS sequences ---

func (p *Parser) dcsEntry(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.pushDigit(b)
		p.state = StateDcsParam
	case b == ';':
		p.pushParam()
		p.state = StateDcsParam
	case b >= 0x3c && b <= 0x3f:
		p.private = true
		p.state = StateDcsParam
	case b == ':':
		p.state = StateDcsIgnore
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
		p.state = StateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.hookDcs(b)
	}
}

func (p *Parser) dcsParam(b byte) {
	switch {
	case b >= '0' && b <= '9':
		p.pushDigit(b)
	case b == ';':
		p.pushParam()
	case b == ':' || (b >= 0x3c && b <= 0x3f):
		p.state = StateDcsIgnore
	case b >= 0x20 && b <= 0x2f:
		p.pushParam()
		p.intermediates = append(p.intermediates, b)
		p.state = StateDcsIntermediate
	case b >= 0x40 && b <= 0x7e:
		p.hookDcs(b)
	}
}

func (p *Parser) dcsIntermediate(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2f:
		p.intermediates = append(p.intermediates, b)
	case b >= 0x30 && b <= 0x3f:
		p.state = StateDcsIgnore
	case b >= 0x40 && b <= 0x7e:
		p.hookDcs(b)
	}
}

// hookDcs records the DCS header and starts collecting the payload. Sixel
// payloads ('q' final) get their own body state with a dedicated sub-grammar
// downstream.
func (p *Parser) hookDcs(final byte) {
	p.pushParam()
	p.dataParams = append([]int(nil), p.params...)
	p.data = p.data[:0]
	p.pendingEsc = false
	p.dcsFinal = final
	if final == 'q' && len(p.intermediates) == 0 {
		p.state = StateSixelBody
	} else {
		p.state = StateDcsPassthrough
	}
}

// --- String-collecting states (OSC / DCS body / sixel / SOS-PM-APC) ---

func (p *Parser) advanceString(b byte) {
	if p.pendingEsc {
		p.pendingEsc = false
		if b == '\\' { // ST: sequence complete
			p.terminateString()
			return
		}
		// A lone ESC aborts the string; the ESC starts a new sequence and
		// the current byte is reprocessed in the Escape state.
		p.emitIgnored()
		p.startEscape()
		p.advance(b)
		return
	}

	switch b {
	case 0x1b:
		p.pendingEsc = true
		return
	case 0x18, 0x1a: // CAN/SUB abort string sequences too
		p.emitIgnored()
		p.state = StateGround
		return
	case 0x07: // BEL terminates OSC and, for compatibility, DCS strings
		if p.state == StateOscString || p.state == StateDcsPassthrough || p.state == StateSixelBody {
			p.terminateString()
			return
		}
	}

	switch p.state {
	case StateOscString:
		if b >= 0x20 && len(p.osc) < maxOscBytes {
			p.osc = append(p.osc, b)
		}
	case StateDcsPassthrough:
		if len(p.data) < maxDataBytes {
			p.data = append(p.data, b)
		}
	case StateSixelBody:
		// Sixel data bytes live in 0x20..0x7E; other controls are dropped.
		if b >= 0x20 && b <= 0x7e && len(p.data) < maxDataBytes {
			p.data = append(p.data, b)
		}
	case StateDcsIgnore, StateSosPmApcString:
		// Swallowed until the terminator.
	}
}

func (p *Parser) terminateString() {
	switch p.state {
	case StateOscString:
		p.emit(Action{Kind: KindOsc, Payload: append([]byte(nil), p.osc...)})
	case StateDcsPassthrough:
		p.emit(Action{
			Kind:    KindDcs,
			Params:  p.dataParams,
			Private: p.private,
			Final:   p.dcsFinal,
			Payload: append([]byte(nil), p.data...),
		})
	case StateSixelBody:
		p.emit(Action{
			Kind:    KindSixel,
			Params:  p.dataParams,
			Payload: append([]byte(nil), p.data...),
		})
	case StateDcsIgnore, StateSosPmApcString:
		p.emitIgnored()
	}
	p.state = StateGround
}
