// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/emulator_osc.go
// Summary: OSC and DCS handling: window title updates and the graphics
// entry point.

package term

import (
	"log"
	"strconv"
	"strings"

	"github.com/Hydepwns/raxol-sub015/term/parser"
)

func (e *Emulator) dispatchOsc(payload []byte) {
	text := string(payload)
	cmd, rest, ok := strings.Cut(text, ";")
	if !ok {
		return
	}
	n, err := strconv.Atoi(cmd)
	if err != nil {
		log.Printf("Emulator: malformed OSC command %q", cmd)
		return
	}
	switch n {
	case 0, 2: // icon name + title / title
		e.title = rest
		if e.onTitle != nil {
			e.onTitle(rest)
		}
	default:
		log.Printf("Emulator: unhandled OSC %d", n)
	}
}

func (e *Emulator) dispatchDcs(a parser.Action) {
	log.Printf("Emulator: unhandled DCS final %q (%d bytes)", a.Final, len(a.Payload))
}

func (e *Emulator) dispatchSixel(a parser.Action) {
	img, err := decodeSixel(a.Params, a.Payload)
	if err != nil {
		log.Printf("Emulator: sixel decode failed: %v", err)
		return
	}
	img.Row = e.cursor.Row
	img.Col = e.cursor.Col
	e.sixels = append(e.sixels, img)
	if len(e.sixels) > maxSixelPayloads {
		e.sixels = e.sixels[len(e.sixels)-maxSixelPayloads:]
	}
}
