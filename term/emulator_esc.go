// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/emulator_esc.go
// Summary: ESC dispatch: index family, cursor save/restore, charset
// designation and invocation, full reset, and the DECALN fill.

package term

import (
	"log"

	"github.com/Hydepwns/raxol-sub015/term/parser"
)

func (e *Emulator) dispatchEsc(a parser.Action) {
	if len(a.Intermediates) > 0 {
		e.dispatchEscIntermediate(a)
		return
	}
	switch a.Final {
	case 'D': // IND
		e.lineFeed()
	case 'E': // NEL
		e.lineFeed()
		e.cursor.Col = 0
	case 'H': // HTS
		e.tabStops[e.cursor.Col] = true
	case 'M': // RI
		e.reverseIndex()
	case '7': // DECSC
		e.saveCursor()
	case '8': // DECRC
		e.restoreCursor()
	case 'c': // RIS
		e.reset()
	case '=': // DECKPAM
		e.modes.ApplicationKeypad = true
	case '>': // DECKPNM
		e.modes.ApplicationKeypad = false
	case 'n': // LS2
		e.charsets.LockingShift(2)
	case 'o': // LS3
		e.charsets.LockingShift(3)
	case 'N': // SS2
		e.charsets.SingleShift(2)
	case 'O': // SS3
		e.charsets.SingleShift(3)
	case 'Z': // DECID, answered like DA1
		e.reply("\x1b[?62;4;22c")
	default:
		log.Printf("Emulator: unhandled ESC final %q", a.Final)
	}
}

func (e *Emulator) dispatchEscIntermediate(a parser.Action) {
	switch a.Intermediates[0] {
	case '(':
		e.charsets.Designate(0, CharsetTag(a.Final))
	case ')':
		e.charsets.Designate(1, CharsetTag(a.Final))
	case '*':
		e.charsets.Designate(2, CharsetTag(a.Final))
	case '+':
		e.charsets.Designate(3, CharsetTag(a.Final))
	case '#':
		if a.Final == '8' { // DECALN
			e.alignmentFill()
		}
	default:
		log.Printf("Emulator: unhandled ESC %s %q", string(a.Intermediates), a.Final)
	}
}

// alignmentFill implements DECALN: every visible cell becomes 'E' with
// default rendition, margins reset, cursor homes.
func (e *Emulator) alignmentFill() {
	e.active.fill(Cell{Glyph: "E", Width: 1, FG: DefaultFG, BG: DefaultBG})
	e.active.resetRegion()
	e.modes.Origin = false
	e.cursor.Row, e.cursor.Col = 0, 0
	e.pendingWrap = false
}
