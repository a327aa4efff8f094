/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package pixmap holds the viewer's first-class pixel buffer: a flat RGBA
// slice plus dimensions, shared between the loader, the exporters and the
// windowed front-end without going through image.Image interfaces on hot
// paths.
package pixmap

import (
	"fmt"
	"image"
	"image/draw"
)

// Pixmap is a tightly packed RGBA image, 4 bytes per pixel, row-major.
type Pixmap struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height*4
}

// New allocates a zeroed pixmap.
func New(w, h int) (*Pixmap, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("pixmap: invalid size %dx%d", w, h)
	}
	return &Pixmap{Width: w, Height: h, Pix: make([]uint8, w*h*4)}, nil
}

// FromImage converts any decoded image into a pixmap.
func FromImage(src image.Image) *Pixmap {
	b := src.Bounds()
	rgba, ok := src.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	}
	return &Pixmap{Width: b.Dx(), Height: b.Dy(), Pix: rgba.Pix}
}

// Image wraps the pixmap as an image.RGBA sharing the same backing slice.
func (p *Pixmap) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    p.Pix,
		Stride: p.Width * 4,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}
}

// Set writes one pixel; out-of-bounds writes are dropped.
func (p *Pixmap) Set(x, y int, r, g, b, a uint8) {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return
	}
	i := (y*p.Width + x) * 4
	p.Pix[i+0] = r
	p.Pix[i+1] = g
	p.Pix[i+2] = b
	p.Pix[i+3] = a
}

// Fill paints the whole buffer with one color.
func (p *Pixmap) Fill(r, g, b, a uint8) {
	for i := 0; i < len(p.Pix); i += 4 {
		p.Pix[i+0] = r
		p.Pix[i+1] = g
		p.Pix[i+2] = b
		p.Pix[i+3] = a
	}
}
