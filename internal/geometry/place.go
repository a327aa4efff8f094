/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import "math"

// Area is an affine map from the unit quad to normalized device coordinates:
// ndc = (u, v) * (ScaleX, ScaleY) + (OffsetX, OffsetY). It is what the render
// collaborator consumes; one interpolated "current" and one freshly computed
// "target" instance exist per session.
type Area struct {
	ScaleX, ScaleY   float64
	OffsetX, OffsetY float64
}

// FullscreenArea maps the unit quad exactly onto the screen, v axis pointing
// down as in window coordinates.
func FullscreenArea() Area {
	return Area{ScaleX: 2.0, ScaleY: -2.0, OffsetX: -1.0, OffsetY: 1.0}
}

// RectToArea converts a screen-pixel rectangle into the NDC transform for a
// screen of the given size.
func RectToArea(r Rect, screen Size) Area {
	if !screen.Valid() {
		return FullscreenArea()
	}
	return Area{
		ScaleX:  2.0 * r.W / screen.W,
		ScaleY:  -2.0 * r.H / screen.H,
		OffsetX: 2.0*r.X/screen.W - 1.0,
		OffsetY: 1.0 - 2.0*r.Y/screen.H,
	}
}

// PlaceAxis constrains the view origin on one axis. A view that fits the
// screen, or any autofit placement, is centered. Otherwise the origin is
// clamped into [min(0, screen-view), 0]: panning never exposes blank space
// on the near edge, while a short far side may still run blank.
func PlaceAxis(origin, view, screen float64, autofit bool) float64 {
	if autofit || view <= screen {
		return (screen - view) / 2.0
	}
	lo := math.Min(0.0, screen-view)
	if origin < lo {
		return lo
	}
	if origin > 0.0 {
		return 0.0
	}
	return origin
}

// MinOrigin returns the lower origin bound for one axis, matching the clamp
// range used by PlaceAxis. Relative pan positions are expressed against it.
func MinOrigin(view, screen float64) float64 {
	return math.Min(0.0, screen-view)
}

// EffectiveSize applies a pixel aspect ratio to a raw document size. Aspect
// above 1 stretches the height, below 1 widens the width, so the corrected
// size never drops under the raw pixel count on either axis. Fit, placement
// and panel math all operate on the effective size.
func EffectiveSize(raw Size, aspect float64) Size {
	if !raw.Valid() || !isPosFinite(aspect) {
		return raw
	}
	s := raw
	if aspect > 1.0 {
		s.H *= aspect
	} else if aspect < 1.0 {
		s.W /= aspect
	}
	return s
}

// Place computes the full view rectangle for a document of effective size at
// the given zoom, clamping the requested origin per axis.
func Place(size Size, zoom, originX, originY float64, screen Size, autofit bool) Rect {
	w := size.W * zoom
	h := size.H * zoom
	return Rect{
		X: PlaceAxis(originX, w, screen.W, autofit),
		Y: PlaceAxis(originY, h, screen.H, autofit),
		W: w,
		H: h,
	}
}
