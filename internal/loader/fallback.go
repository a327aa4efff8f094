/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package loader

import (
	"fmt"

	"pixelview/internal/pixmap"
	"pixelview/internal/sauce"
)

// fallbackRasterizer stands in when no real text-art renderer is wired. It
// draws each byte as a shaded character cell so a file at least shows its
// shape and density instead of failing to open.
type fallbackRasterizer struct{}

const (
	cellW = 8
	cellH = 16
)

func (fallbackRasterizer) Render(data []byte, _ Format, opt sauce.RenderOptions) (*pixmap.Pixmap, float64, error) {
	columns := opt.Columns
	if columns <= 0 {
		columns = 80
	}

	// strip trailer and normalize line structure
	end := len(data)
	for i, b := range data {
		if b == sauce.EOFMarker {
			end = i
			break
		}
	}
	var lines [][]byte
	cur := make([]byte, 0, columns)
	flush := func() {
		lines = append(lines, cur)
		cur = make([]byte, 0, columns)
	}
	for _, b := range data[:end] {
		switch b {
		case '\n':
			flush()
		case '\r':
		default:
			cur = append(cur, b)
			if len(cur) >= columns {
				flush()
			}
		}
	}
	if len(cur) > 0 {
		flush()
	}
	if len(lines) == 0 {
		lines = append(lines, nil)
	}

	w := columns * cellW
	if opt.WideFont {
		w *= 2
	}
	p, err := pixmap.New(w, len(lines)*cellH)
	if err != nil {
		return nil, 0, fmt.Errorf("fallback render: %w", err)
	}
	p.Fill(0, 0, 0, 255)

	cw := cellW
	if opt.WideFont {
		cw = cellW * 2
	}
	for row, line := range lines {
		for col, b := range line {
			shade := cellShade(b)
			if shade == 0 {
				continue
			}
			for y := row * cellH; y < (row+1)*cellH; y++ {
				for x := col * cw; x < (col+1)*cw; x++ {
					p.Set(x, y, shade, shade, shade, 255)
				}
			}
		}
	}

	aspect := opt.Aspect
	if aspect <= 0 {
		aspect = 1.0
	}
	return p, aspect, nil
}

// cellShade maps a byte to a rough ink density: blanks stay dark, box and
// shade characters get brighter, everything else lands in between.
func cellShade(b byte) uint8 {
	switch {
	case b == ' ' || b == 0:
		return 0
	case b < 0x20:
		return 48
	case b >= 0xB0 && b <= 0xDF: // CP437 shade and box-drawing range
		return 224
	default:
		return 128
	}
}
