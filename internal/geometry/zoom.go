/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import "math"

// Rounding biases for SnapZoom. Autofit never exceeds the crop budget: the
// snapped ratio always lands at or below the fitted zoom, which needs a plain
// floor above 1:1 and the mirrored 0.999 bias on the reciprocal below 1:1.
// Manual zoom steps snap to the nearest ratio instead.
const (
	SnapDown    = 0.0
	SnapNearest = 0.5
	SnapUp      = 0.999
)

// integerEps forces zoom values this close to an exact ratio onto it, so
// repeated fractional zoom operations cannot drift a 1:1 view off its pixels.
const integerEps = 1e-3

// zoomStepBase is the ladder spacing for free (non-integer) zoom steps.
var zoomStepBase = math.Sqrt2

// stepSnapTolerance is the fraction of a step within which the current zoom
// is considered to already sit on a ladder stop.
const stepSnapTolerance = 0.125

// FitZoom computes the autofit zoom for a document of raw size on the given
// screen. ModeFit takes the smaller axis ratio, ModeFill the larger. When
// integer snapping is requested, both ratios are computed against the raw
// size reduced by maxCrop, granting the snap a controlled over-scan budget.
// ModeFree and ModePanel are not autofit modes; FitZoom returns 1 for them.
func FitZoom(raw, screen Size, mode Mode, integer bool, maxCrop float64) float64 {
	if !raw.Valid() || !screen.Valid() || !mode.Autofit() {
		return 1.0
	}
	w, h := raw.W, raw.H
	if integer {
		w *= 1.0 - maxCrop
		h *= 1.0 - maxCrop
	}
	zx := screen.W / w
	zy := screen.H / h
	z := math.Min(zx, zy)
	if mode == ModeFill {
		z = math.Max(zx, zy)
	}
	return SafeValue(z, 1.0)
}

// SnapZoom constrains a zoom factor to an exact integer ratio. Factors below
// one are snapped on their reciprocal, so one document pixel always maps to a
// whole number of screen pixels or vice versa. The bias argument is one of
// SnapDown, SnapNearest or SnapUp; below one the bias is mirrored so that the
// named direction still refers to the zoom value itself.
func SnapZoom(zoom, bias float64) float64 {
	if !isPosFinite(zoom) {
		return 1.0
	}
	if zoom >= 1.0 {
		z := math.Floor(zoom + bias)
		if z < 1.0 {
			z = 1.0
		}
		return z
	}
	n := math.Floor(1.0/zoom + (SnapUp - bias))
	if n < 1.0 {
		n = 1.0
	}
	return 1.0 / n
}

// ForceNearInteger pins zoom values within integerEps of an exact ratio onto
// that ratio. Applied in every mode, not just integer mode.
func ForceNearInteger(zoom float64) float64 {
	if !isPosFinite(zoom) {
		return zoom
	}
	if zoom >= 1.0 {
		if r := math.Round(zoom); math.Abs(zoom-r) < integerEps {
			return r
		}
		return zoom
	}
	inv := 1.0 / zoom
	if r := math.Round(inv); math.Abs(inv-r) < integerEps && r >= 1.0 {
		return 1.0 / r
	}
	return zoom
}

// MinZoom returns the lower zoom bound for a document on a screen: the
// largest zoom-out that still uses a full screen dimension, floored to an
// integer reciprocal, and never above 1 so a small document is not forced
// below its natural size.
func MinZoom(raw, screen Size) float64 {
	if !raw.Valid() || !screen.Valid() {
		return 1.0
	}
	fit := math.Min(screen.W/raw.W, screen.H/raw.H)
	if fit >= 1.0 {
		return 1.0
	}
	n := math.Floor(1.0 / fit)
	if n < 1.0 {
		n = 1.0
	}
	return 1.0 / n
}

// zoomStepIndex maps a zoom factor onto the step ladder. Free zoom uses a
// logarithmic ladder; integer zoom uses a linear encoding where index k>=0
// is ratio k+1 and index k<0 is ratio 1:(1-k).
func zoomStepIndex(zoom float64, integer bool) float64 {
	if integer {
		if zoom >= 1.0 {
			return zoom - 1.0
		}
		return 1.0 - 1.0/zoom
	}
	return math.Log(zoom) / math.Log(zoomStepBase)
}

func zoomFromStepIndex(idx float64, integer bool) float64 {
	if integer {
		if idx >= 0 {
			return idx + 1.0
		}
		return 1.0 / (1.0 - idx)
	}
	return math.Pow(zoomStepBase, idx)
}

// StepZoom moves the zoom one stop along the ladder in the given direction
// (dir > 0 zooms in). A zoom already within an eighth of a step of a stop is
// snapped to that stop first, so a key press near a stop is never swallowed
// by landing back on the same stop.
func StepZoom(zoom float64, dir int, integer bool) float64 {
	if !isPosFinite(zoom) || dir == 0 {
		return SafeValue(zoom, 1.0)
	}
	idx := zoomStepIndex(zoom, integer)
	if near := math.Round(idx); math.Abs(idx-near) < stepSnapTolerance {
		idx = near
	}
	if dir > 0 {
		idx = math.Floor(idx) + 1.0
	} else {
		idx = math.Ceil(idx) - 1.0
	}
	return SafeValue(zoomFromStepIndex(idx, integer), zoom)
}

// PivotZoom re-centers origin after a zoom change so that the document point
// under the pivot stays under the pivot. oldOrigin/oldView describe one axis
// of the previous placement, newView the same axis after the zoom change.
func PivotZoom(pivot, oldOrigin, oldView, newView float64) float64 {
	if oldView == 0 {
		return oldOrigin
	}
	rel := (pivot - oldOrigin) / oldView
	return pivot - rel*newView
}
