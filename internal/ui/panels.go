/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"math"

	"pixelview/internal/geometry"
)

// areaToScreen converts a unit-quad to NDC transform back into window
// coordinates; the inverse of geometry.RectToArea.
func areaToScreen(a geometry.Area, screen geometry.Size) geometry.Rect {
	return geometry.Rect{
		X: (a.OffsetX + 1) / 2 * screen.W,
		Y: (1 - a.OffsetY) / 2 * screen.H,
		W: a.ScaleX / 2 * screen.W,
		H: -a.ScaleY / 2 * screen.H,
	}
}

// stripRegion is one drawable panel strip: where it lands on screen and the
// part of the source image visible there.
type stripRegion struct {
	Screen geometry.Rect
	Source image.Rectangle
}

// stripRegions intersects each panel placement with its clip row and maps
// the visible window back onto source pixels. Strips whose placement misses
// their row entirely come back with a zero-width Screen so callers keep
// index alignment with the panel layout.
func stripRegions(panels []geometry.Area, clips []geometry.Rect, screen geometry.Size, src image.Rectangle) []stripRegion {
	if len(panels) == 0 || len(panels) != len(clips) || !screen.Valid() {
		return nil
	}
	regions := make([]stripRegion, len(panels))
	for i, p := range panels {
		r := areaToScreen(p, screen)
		if r.W <= 0 || r.H <= 0 {
			continue
		}
		c := clips[i]
		x0 := math.Max(r.X, c.X)
		y0 := math.Max(r.Y, c.Y)
		x1 := math.Min(r.X+r.W, c.X+c.W)
		y1 := math.Min(r.Y+r.H, c.Y+c.H)
		if x1 <= x0 || y1 <= y0 {
			continue
		}
		sx0 := src.Min.X + int(math.Floor((x0-r.X)/r.W*float64(src.Dx())))
		sy0 := src.Min.Y + int(math.Floor((y0-r.Y)/r.H*float64(src.Dy())))
		sx1 := src.Min.X + int(math.Ceil((x1-r.X)/r.W*float64(src.Dx())))
		sy1 := src.Min.Y + int(math.Ceil((y1-r.Y)/r.H*float64(src.Dy())))
		srect := image.Rect(sx0, sy0, sx1, sy1).Intersect(src)
		if srect.Empty() {
			continue
		}
		regions[i] = stripRegion{
			Screen: geometry.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0},
			Source: srect,
		}
	}
	return regions
}
