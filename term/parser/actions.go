// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/parser/actions.go
// Summary: Decoded actions produced by the VT sequence parser.
// Usage: Consumed by the terminal emulator when applying state changes.

package parser

import "fmt"

// Kind identifies a decoded action. The set is closed: the emulator switches
// exhaustively over every Kind and either handles or explicitly ignores it.
type Kind uint8

const (
	// KindPrint writes a grapheme at the cursor position.
	KindPrint Kind = iota
	// KindExecute runs a C0 control (BEL, BS, HT, LF, CR, SO, SI, ...).
	KindExecute
	// KindCsi dispatches a completed control sequence (CSI ... final).
	KindCsi
	// KindEsc dispatches a completed escape sequence (ESC [intermediates] final).
	KindEsc
	// KindOsc delivers an operating system command string.
	KindOsc
	// KindDcs delivers a completed device control string payload.
	KindDcs
	// KindSixel delivers a completed sixel payload (DCS ... q data ST).
	KindSixel
	// KindIgnored marks a malformed or deliberately dropped sequence.
	KindIgnored
)

// String returns a short name for the action kind.
func (k Kind) String() string {
	switch k {
	case KindPrint:
		return "print"
	case KindExecute:
		return "execute"
	case KindCsi:
		return "csi"
	case KindEsc:
		return "esc"
	case KindOsc:
		return "osc"
	case KindDcs:
		return "dcs"
	case KindSixel:
		return "sixel"
	case KindIgnored:
		return "ignored"
	}
	return "unknown"
}

// Action is a single decoded instruction from the byte stream. Only the
// fields relevant to the Kind are populated.
type Action struct {
	Kind Kind

	// Print
	Grapheme string
	Width    int

	// Execute
	Control byte

	// Csi / Dcs / Sixel
	Params        []int
	Private       bool
	Intermediates []byte
	Final         byte

	// Osc / Dcs / Sixel payload bytes.
	Payload []byte
}

// Param returns the i-th numeric parameter, or def when the parameter is
// missing or zero. Cursor movement commands default to 1, erase commands to 0;
// the caller picks the default.
func (a Action) Param(i, def int) int {
	if i < len(a.Params) && a.Params[i] != 0 {
		return a.Params[i]
	}
	return def
}

// RawParam returns the i-th parameter without zero-substitution, or def when
// the parameter is missing entirely. SGR needs this: 0 is meaningful there.
func (a Action) RawParam(i, def int) int {
	if i < len(a.Params) {
		return a.Params[i]
	}
	return def
}

// String renders the action for logs and test failures.
func (a Action) String() string {
	switch a.Kind {
	case KindPrint:
		return fmt.Sprintf("print(%q w=%d)", a.Grapheme, a.Width)
	case KindExecute:
		return fmt.Sprintf("execute(0x%02x)", a.Control)
	case KindCsi:
		return fmt.Sprintf("csi(%v priv=%v int=%q final=%q)", a.Params, a.Private, a.Intermediates, a.Final)
	case KindEsc:
		return fmt.Sprintf("esc(int=%q final=%q)", a.Intermediates, a.Final)
	case KindOsc:
		return fmt.Sprintf("osc(%q)", a.Payload)
	case KindDcs:
		return fmt.Sprintf("dcs(%v final=%q len=%d)", a.Params, a.Final, len(a.Payload))
	case KindSixel:
		return fmt.Sprintf("sixel(%v len=%d)", a.Params, len(a.Payload))
	case KindIgnored:
		return "ignored"
	}
	return "unknown"
}
