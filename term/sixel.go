// Copyright © 2025 Raxol contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/sixel.go
// Summary: Sixel graphics decoding: the DCS q sub-grammar (raster
// attributes, repeat runs, palette definition in RGB and HLS, carriage
// return and next-line) decoded into an RGBA pixel grid.

package term

import (
	"errors"
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// SixelImage is a decoded graphics payload anchored at the cursor cell
// where its DCS sequence arrived. Pixels are row-major, Width*Height long;
// untouched pixels stay transparent.
type SixelImage struct {
	Row, Col      int
	Width, Height int
	Pixels        []color.RGBA
}

// At returns the pixel at (x, y), transparent when out of range.
func (s *SixelImage) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return color.RGBA{}
	}
	return s.Pixels[y*s.Width+x]
}

const (
	maxSixelDim = 4096
	sixelColors = 256
)

var errSixelTooLarge = errors.New("term: sixel image exceeds dimension limit")

// defaultSixelPalette is the VT340 16-color startup palette.
var defaultSixelPalette = [16]color.RGBA{
	{0, 0, 0, 255}, {51, 51, 204, 255}, {204, 36, 36, 255}, {51, 204, 51, 255},
	{204, 51, 204, 255}, {51, 204, 204, 255}, {204, 204, 51, 255}, {135, 135, 135, 255},
	{66, 66, 66, 255}, {84, 84, 153, 255}, {153, 66, 66, 255}, {84, 153, 84, 255},
	{153, 84, 153, 255}, {84, 153, 153, 255}, {153, 153, 84, 255}, {204, 204, 204, 255},
}

// sixelDecoder walks the payload once to size the canvas and once to draw.
type sixelDecoder struct {
	data    []byte
	pos     int
	x, y    int
	maxX    int
	color   int
	palette [sixelColors]color.RGBA
	img     *SixelImage
}

// decodeSixel decodes the body of a DCS q sequence. The leading params are
// the DCS parameters (aspect ratio, background mode, grid size); only the
// geometry they imply matters here, pixel aspect is left to the renderer.
func decodeSixel(params []int, payload []byte) (SixelImage, error) {
	d := &sixelDecoder{data: payload}
	for i, c := range defaultSixelPalette {
		d.palette[i] = c
	}
	_ = params

	// Sizing pass: raster attributes give hints, drawing can exceed them.
	w, h, err := d.measure()
	if err != nil {
		return SixelImage{}, err
	}
	img := SixelImage{Width: w, Height: h}
	if w > 0 && h > 0 {
		img.Pixels = make([]color.RGBA, w*h)
	}
	d.pos, d.x, d.y, d.maxX, d.color = 0, 0, 0, 0, 0
	d.img = &img
	if err := d.run(); err != nil {
		return SixelImage{}, err
	}
	return img, nil
}

func (d *sixelDecoder) measure() (int, int, error) {
	if err := d.run(); err != nil {
		return 0, 0, err
	}
	w, h := d.maxX, d.y
	if d.x > 0 || h == 0 {
		h += 6 // last band was drawn into
	}
	if w > maxSixelDim || h > maxSixelDim {
		return 0, 0, errSixelTooLarge
	}
	return w, h, nil
}

// run executes the sub-grammar; with d.img nil it only tracks extents.
func (d *sixelDecoder) run() error {
	for d.pos < len(d.data) {
		b := d.data[d.pos]
		switch {
		case b == '"':
			d.pos++
			d.rasterAttributes()
		case b == '!':
			d.pos++
			n := d.number(1)
			if d.pos >= len(d.data) {
				return nil // run truncated at payload end
			}
			c := d.data[d.pos]
			d.pos++
			if c < 0x3f || c > 0x7e {
				return fmt.Errorf("term: sixel repeat of non-data byte %#x", c)
			}
			d.draw(c-0x3f, n)
		case b == '#':
			d.pos++
			if err := d.colorCommand(); err != nil {
				return err
			}
		case b == '$':
			d.pos++
			d.x = 0
		case b == '-':
			d.pos++
			d.x = 0
			d.y += 6
			if d.y > maxSixelDim {
				return errSixelTooLarge
			}
		case b >= 0x3f && b <= 0x7e:
			d.pos++
			d.draw(b-0x3f, 1)
		default:
			// Stray bytes are skipped, matching hardware tolerance.
			d.pos++
		}
	}
	return nil
}

// number parses a decimal run, returning def when absent.
func (d *sixelDecoder) number(def int) int {
	start := d.pos
	n := 0
	for d.pos < len(d.data) && d.data[d.pos] >= '0' && d.data[d.pos] <= '9' {
		n = n*10 + int(d.data[d.pos]-'0')
		if n > maxSixelDim*maxSixelDim {
			n = maxSixelDim * maxSixelDim
		}
		d.pos++
	}
	if d.pos == start {
		return def
	}
	return n
}

// rasterAttributes parses " Pan;Pad;Ph;Pv. The hints widen the canvas but
// never clip later drawing.
func (d *sixelDecoder) rasterAttributes() {
	_ = d.number(1) // Pan
	d.expect(';')
	_ = d.number(1) // Pad
	d.expect(';')
	ph := d.number(0)
	d.expect(';')
	pv := d.number(0)
	if ph > d.maxX && ph <= maxSixelDim {
		d.maxX = ph
	}
	_ = pv
}

func (d *sixelDecoder) expect(b byte) {
	if d.pos < len(d.data) && d.data[d.pos] == b {
		d.pos++
	}
}

// colorCommand parses #Pc (select) or #Pc;Pu;Px;Py;Pz (define). Pu 2 is
// RGB with channels 0-100; Pu 1 is HLS with the DEC hue origin at blue.
func (d *sixelDecoder) colorCommand() error {
	idx := d.number(0)
	if idx < 0 || idx >= sixelColors {
		idx = idx % sixelColors
	}
	if d.pos >= len(d.data) || d.data[d.pos] != ';' {
		d.color = idx
		return nil
	}
	d.pos++
	mode := d.number(0)
	d.expect(';')
	px := d.number(0)
	d.expect(';')
	py := d.number(0)
	d.expect(';')
	pz := d.number(0)

	switch mode {
	case 2: // RGB, each channel a percentage
		d.palette[idx] = color.RGBA{
			R: scalePercent(px),
			G: scalePercent(py),
			B: scalePercent(pz),
			A: 255,
		}
	case 1: // HLS: hue 0-360 with 0 at blue, lightness and saturation 0-100
		h := float64((px+240)%360)
		l := float64(clamp(py, 0, 100)) / 100
		s := float64(clamp(pz, 0, 100)) / 100
		c := colorful.Hsl(h, s, l)
		r, g, b := c.RGB255()
		d.palette[idx] = color.RGBA{R: r, G: g, B: b, A: 255}
	default:
		return fmt.Errorf("term: sixel color mode %d unsupported", mode)
	}
	d.color = idx
	return nil
}

func scalePercent(v int) uint8 {
	v = clamp(v, 0, 100)
	return uint8((v*255 + 50) / 100)
}

// draw paints one sixel column pattern n times at the current position.
func (d *sixelDecoder) draw(bits byte, n int) {
	if n <= 0 {
		return
	}
	if d.img == nil {
		d.x += n
		if d.x > d.maxX {
			d.maxX = d.x
		}
		return
	}
	c := d.palette[d.color]
	for i := 0; i < n; i++ {
		for bit := 0; bit < 6; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			x, y := d.x, d.y+bit
			if x >= d.img.Width || y >= d.img.Height {
				continue
			}
			d.img.Pixels[y*d.img.Width+x] = c
		}
		d.x++
	}
}
