// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/delta.go
// Summary: Compact binary encoding of screen damage. Cell changes are
// grouped into styled spans per row, with styles deduplicated into a
// table, so a remote viewer can replay updates without holding the
// emulator itself.

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"

	"github.com/rivo/uniseg"

	"github.com/Hydepwns/raxol-sub015/term"
)

// ColorModel represents how colors are encoded for a style.
type ColorModel uint8

const (
	ColorModelDefault ColorModel = iota
	ColorModelANSI16
	ColorModelANSI256
	ColorModelRGB
)

// StyleEntry captures the styling shared by a span. Values are raw
// integers; higher layers translate to their render representation.
type StyleEntry struct {
	AttrFlags uint16
	FgModel   ColorModel
	FgValue   uint32
	BgModel   ColorModel
	BgValue   uint32
}

// CellSpan covers contiguous cells on a row that share one style.
type CellSpan struct {
	StartCol   uint16
	Text       string
	StyleIndex uint16
}

// RowDelta carries the spans for a single damaged row.
type RowDelta struct {
	Row   uint16
	Spans []CellSpan
}

// ScreenDelta is one update frame: the damage since the previous revision
// plus cursor position. Revision is assigned by the sender and must
// increase monotonically per stream.
type ScreenDelta struct {
	Revision      uint32
	Width, Height uint16
	CursorRow     uint16
	CursorCol     uint16
	Styles        []StyleEntry
	Rows          []RowDelta
}

var (
	ErrDeltaTooLarge = errors.New("protocol: screen delta exceeds limits")
	errInvalidSpan   = errors.New("protocol: invalid span")
	errPayloadShort  = errors.New("protocol: payload truncated")
)

func encodeColor(c term.Color) (ColorModel, uint32) {
	switch c.Mode {
	case term.ColorModeStandard:
		return ColorModelANSI16, uint32(c.Value)
	case term.ColorMode256:
		return ColorModelANSI256, uint32(c.Value)
	case term.ColorModeRGB:
		return ColorModelRGB, uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	default:
		return ColorModelDefault, 0
	}
}

func decodeColor(m ColorModel, v uint32) term.Color {
	switch m {
	case ColorModelANSI16:
		return term.Color{Mode: term.ColorModeStandard, Value: uint8(v)}
	case ColorModelANSI256:
		return term.Color{Mode: term.ColorMode256, Value: uint8(v)}
	case ColorModelRGB:
		return term.Color{
			Mode: term.ColorModeRGB,
			R:    uint8(v >> 16),
			G:    uint8(v >> 8),
			B:    uint8(v),
		}
	default:
		return term.Color{Mode: term.ColorModeDefault}
	}
}

func styleOf(c term.Cell) StyleEntry {
	fgM, fgV := encodeColor(c.FG)
	bgM, bgV := encodeColor(c.BG)
	return StyleEntry{
		AttrFlags: uint16(c.Attr),
		FgModel:   fgM,
		FgValue:   fgV,
		BgModel:   bgM,
		BgValue:   bgV,
	}
}

// BuildDelta converts a row-major damage list into a span-encoded frame.
// Continuation cells of wide glyphs are folded into their lead span and
// resynthesized on decode.
func BuildDelta(revision uint32, snap *term.Snapshot, changes []term.CellChange) ScreenDelta {
	delta := ScreenDelta{
		Revision:  revision,
		Width:     uint16(snap.Width),
		Height:    uint16(snap.Height),
		CursorRow: uint16(snap.Cursor.Row),
		CursorCol: uint16(snap.Cursor.Col),
	}
	styleIdx := make(map[StyleEntry]uint16)
	styleFor := func(c term.Cell) uint16 {
		s := styleOf(c)
		if i, ok := styleIdx[s]; ok {
			return i
		}
		i := uint16(len(delta.Styles))
		delta.Styles = append(delta.Styles, s)
		styleIdx[s] = i
		return i
	}

	var row *RowDelta
	var span *CellSpan
	var nextCol int
	for _, ch := range changes {
		if ch.Cell.IsContinuation() {
			// The lead cell's width already covers this column.
			continue
		}
		if row == nil || row.Row != uint16(ch.Row) {
			delta.Rows = append(delta.Rows, RowDelta{Row: uint16(ch.Row)})
			row = &delta.Rows[len(delta.Rows)-1]
			span = nil
		}
		idx := styleFor(ch.Cell)
		if span != nil && ch.Col == nextCol && span.StyleIndex == idx {
			span.Text += ch.Cell.Glyph
		} else {
			row.Spans = append(row.Spans, CellSpan{
				StartCol:   uint16(ch.Col),
				Text:       ch.Cell.Glyph,
				StyleIndex: idx,
			})
			span = &row.Spans[len(row.Spans)-1]
		}
		nextCol = ch.Col + int(ch.Cell.Width)
	}
	return delta
}

// Changes expands a decoded frame back into a row-major damage list,
// recomputing glyph widths and continuation cells.
func (d ScreenDelta) Changes() ([]term.CellChange, error) {
	var out []term.CellChange
	for _, row := range d.Rows {
		for _, span := range row.Spans {
			if int(span.StyleIndex) >= len(d.Styles) {
				return nil, errInvalidSpan
			}
			style := d.Styles[span.StyleIndex]
			fg := decodeColor(style.FgModel, style.FgValue)
			bg := decodeColor(style.BgModel, style.BgValue)
			col := int(span.StartCol)
			g := uniseg.NewGraphemes(span.Text)
			for g.Next() {
				cluster := g.Str()
				w := uniseg.StringWidth(cluster)
				if w < 1 {
					w = 1
				}
				out = append(out, term.CellChange{
					Row: int(row.Row),
					Col: col,
					Cell: term.Cell{
						Glyph: cluster,
						Width: int8(w),
						FG:    fg,
						BG:    bg,
						Attr:  term.Attribute(style.AttrFlags),
					},
				})
				if w == 2 {
					out = append(out, term.CellChange{
						Row:  int(row.Row),
						Col:  col + 1,
						Cell: term.Cell{FG: fg, BG: bg, Attr: term.Attribute(style.AttrFlags)},
					})
				}
				col += w
			}
		}
	}
	return out, nil
}

// Encode serializes the frame into the compact wire form.
func Encode(delta ScreenDelta) ([]byte, error) {
	if len(delta.Styles) > 0xFFFF || len(delta.Rows) > 0xFFFF {
		return nil, ErrDeltaTooLarge
	}
	buf := bytes.NewBuffer(make([]byte, 0, 64))
	for _, v := range []uint16{delta.Width, delta.Height, delta.CursorRow, delta.CursorCol} {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}
	if err := binary.Write(buf, binary.LittleEndian, delta.Revision); err != nil {
		return nil, err
	}

	if err := binary.Write(buf, binary.LittleEndian, uint16(len(delta.Styles))); err != nil {
		return nil, err
	}
	for _, style := range delta.Styles {
		if err := binary.Write(buf, binary.LittleEndian, style.AttrFlags); err != nil {
			return nil, err
		}
		buf.WriteByte(byte(style.FgModel))
		if err := binary.Write(buf, binary.LittleEndian, style.FgValue); err != nil {
			return nil, err
		}
		buf.WriteByte(byte(style.BgModel))
		if err := binary.Write(buf, binary.LittleEndian, style.BgValue); err != nil {
			return nil, err
		}
	}

	if err := binary.Write(buf, binary.LittleEndian, uint16(len(delta.Rows))); err != nil {
		return nil, err
	}
	for _, row := range delta.Rows {
		if len(row.Spans) > 0xFFFF {
			return nil, ErrDeltaTooLarge
		}
		if err := binary.Write(buf, binary.LittleEndian, row.Row); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, uint16(len(row.Spans))); err != nil {
			return nil, err
		}
		for _, span := range row.Spans {
			text := []byte(span.Text)
			if len(text) > 0xFFFF {
				return nil, errInvalidSpan
			}
			if err := binary.Write(buf, binary.LittleEndian, span.StartCol); err != nil {
				return nil, err
			}
			if err := binary.Write(buf, binary.LittleEndian, uint16(len(text))); err != nil {
				return nil, err
			}
			if err := binary.Write(buf, binary.LittleEndian, span.StyleIndex); err != nil {
				return nil, err
			}
			buf.Write(text)
		}
	}
	return buf.Bytes(), nil
}

type reader struct {
	b   []byte
	pos int
}

func (r *reader) u8() (uint8, error) {
	if r.pos+1 > len(r.b) {
		return 0, errPayloadShort
	}
	v := r.b[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if r.pos+2 > len(r.b) {
		return 0, errPayloadShort
	}
	v := binary.LittleEndian.Uint16(r.b[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.b) {
		return 0, errPayloadShort
	}
	v := binary.LittleEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.b) {
		return nil, errPayloadShort
	}
	v := r.b[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// Decode reverses Encode. Truncated payloads fail with an error rather
// than a partial frame.
func Decode(b []byte) (ScreenDelta, error) {
	var delta ScreenDelta
	r := &reader{b: b}
	var err error
	if delta.Width, err = r.u16(); err != nil {
		return delta, err
	}
	if delta.Height, err = r.u16(); err != nil {
		return delta, err
	}
	if delta.CursorRow, err = r.u16(); err != nil {
		return delta, err
	}
	if delta.CursorCol, err = r.u16(); err != nil {
		return delta, err
	}
	if delta.Revision, err = r.u32(); err != nil {
		return delta, err
	}

	styleCount, err := r.u16()
	if err != nil {
		return delta, err
	}
	for i := 0; i < int(styleCount); i++ {
		var s StyleEntry
		if s.AttrFlags, err = r.u16(); err != nil {
			return delta, err
		}
		m, err := r.u8()
		if err != nil {
			return delta, err
		}
		s.FgModel = ColorModel(m)
		if s.FgValue, err = r.u32(); err != nil {
			return delta, err
		}
		if m, err = r.u8(); err != nil {
			return delta, err
		}
		s.BgModel = ColorModel(m)
		if s.BgValue, err = r.u32(); err != nil {
			return delta, err
		}
		delta.Styles = append(delta.Styles, s)
	}

	rowCount, err := r.u16()
	if err != nil {
		return delta, err
	}
	for i := 0; i < int(rowCount); i++ {
		var row RowDelta
		if row.Row, err = r.u16(); err != nil {
			return delta, err
		}
		spanCount, err := r.u16()
		if err != nil {
			return delta, err
		}
		for j := 0; j < int(spanCount); j++ {
			var span CellSpan
			if span.StartCol, err = r.u16(); err != nil {
				return delta, err
			}
			textLen, err := r.u16()
			if err != nil {
				return delta, err
			}
			if span.StyleIndex, err = r.u16(); err != nil {
				return delta, err
			}
			text, err := r.bytes(int(textLen))
			if err != nil {
				return delta, err
			}
			span.Text = string(text)
			row.Spans = append(row.Spans, span)
		}
		delta.Rows = append(delta.Rows, row)
	}
	return delta, nil
}
