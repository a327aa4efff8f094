/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package geometry computes the presentation transform of a document on a
// screen: autofit zoom, integer-ratio snapping, pivot-preserving zoom steps,
// origin clamping, multi-panel strip layouts and animated transitions.
// Everything here is a pure function over value types; no I/O, no state.
package geometry

import "math"

// Mode selects how the document is placed on the screen.
type Mode int

const (
	// ModeFree leaves zoom and origin entirely to the caller.
	ModeFree Mode = iota
	// ModeFit shows the whole document, letterboxed or pillarboxed.
	ModeFit
	// ModeFill covers the whole screen, cropping overflow.
	ModeFill
	// ModePanel splits the screen into stacked strip views of the document.
	ModePanel
)

func (m Mode) String() string {
	switch m {
	case ModeFit:
		return "fit"
	case ModeFill:
		return "fill"
	case ModePanel:
		return "panel"
	default:
		return "free"
	}
}

// ParseMode maps a config token to a Mode. The second result is false for
// unrecognized tokens.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "free":
		return ModeFree, true
	case "fit":
		return ModeFit, true
	case "fill":
		return ModeFill, true
	case "panel":
		return ModePanel, true
	}
	return ModeFree, false
}

// Autofit reports whether the mode derives zoom from document and screen size.
func (m Mode) Autofit() bool { return m == ModeFit || m == ModeFill }

// Size is a width/height pair in pixels.
type Size struct{ W, H float64 }

// Valid reports whether both extents are strictly positive finite numbers.
// Zoom and placement math treats anything else as "no document".
func (s Size) Valid() bool {
	return isPosFinite(s.W) && isPosFinite(s.H)
}

// Rect is an axis-aligned rectangle in screen pixel coordinates.
type Rect struct {
	X, Y float64
	W, H float64
}

func isPosFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// SafeValue returns v if it is strictly positive and finite, otherwise last.
// Callers use it to honor the invariant that a defective computation keeps
// the previous valid value instead of propagating NaN or zero.
func SafeValue(v, last float64) float64 {
	if isPosFinite(v) {
		return v
	}
	return last
}
