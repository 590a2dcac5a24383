// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/modes.go
// Summary: ANSI and DEC private mode flags.
// Usage: Mutated by SM/RM and DECSET/DECRST dispatch in the emulator.

package term

// MouseMode tracks which pointer events the application asked for. The core
// only records the request; encoding and delivering reports is the host's
// job.
type MouseMode uint8

const (
	MouseModeNone MouseMode = iota
	MouseModeClick
	MouseModeCellMotion
	MouseModeAllMotion
)

// MouseEncoding selects the report format requested via DECSET 1005/1006/1015.
type MouseEncoding uint8

const (
	MouseEncodingDefault MouseEncoding = iota
	MouseEncodingUTF8
	MouseEncodingSGR
	MouseEncodingURXVT
)

// ModeState is the set of boolean and enum modes the emulator honors.
type ModeState struct {
	AutoWrap              bool // DECAWM (?7)
	Origin                bool // DECOM (?6)
	Insert                bool // IRM (4)
	AltScreen             bool // ?47 / ?1049
	ApplicationCursorKeys bool // DECCKM (?1)
	ApplicationKeypad     bool // DECKPAM / DECKPNM
	BracketedPaste        bool // ?2004
	LineFeedNewline       bool // LNM (20)
	Mouse                 MouseMode
	MouseEnc              MouseEncoding
}

// defaultModes returns the power-on mode state.
func defaultModes() ModeState {
	return ModeState{AutoWrap: true}
}
