/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"math"
	"testing"
)

func TestPlaceFitLetterboxes(t *testing.T) {
	// a 16:9 document on a 4:3 screen letterboxes top and bottom
	size := Size{W: 1920, H: 1080}
	screen := Size{W: 800, H: 600}
	zoom := FitZoom(size, screen, ModeFit, false, 0)
	r := Place(size, zoom, 0, 0, screen, true)

	if !almostEq(r.X, 0, 1e-9) || !almostEq(r.Y, 75, 1e-9) {
		t.Fatalf("fit origin = (%v, %v), want (0, 75)", r.X, r.Y)
	}
	if !almostEq(r.W, 800, 1e-9) || !almostEq(r.H, 450, 1e-9) {
		t.Fatalf("fit view = %vx%v, want 800x450", r.W, r.H)
	}
}

func TestPlaceFillCrops(t *testing.T) {
	size := Size{W: 1920, H: 1080}
	screen := Size{W: 800, H: 600}
	zoom := FitZoom(size, screen, ModeFill, false, 0)
	r := Place(size, zoom, 0, 0, screen, true)

	if !almostEq(r.X, (800.0-1920.0*600.0/1080.0)/2, 1e-6) {
		t.Fatalf("fill x = %v, want ~-133.33", r.X)
	}
	if !almostEq(r.Y, 0, 1e-9) {
		t.Fatalf("fill y = %v, want 0", r.Y)
	}
	if !almostEq(r.H, 600, 1e-9) {
		t.Fatalf("fill height = %v, want 600", r.H)
	}
}

func TestPlaceAxisClamping(t *testing.T) {
	// oversized view: origin clamps into [screen-view, 0]
	if got := PlaceAxis(100, 1000, 600, false); got != 0 {
		t.Errorf("positive origin clamped to %v, want 0", got)
	}
	if got := PlaceAxis(-900, 1000, 600, false); got != -400 {
		t.Errorf("far overshoot clamped to %v, want -400", got)
	}
	if got := PlaceAxis(-200, 1000, 600, false); got != -200 {
		t.Errorf("in-range origin moved to %v", got)
	}
	// undersized view centers regardless of the requested origin
	if got := PlaceAxis(-50, 200, 600, false); got != 200 {
		t.Errorf("undersized view at %v, want centered 200", got)
	}
	// autofit centers even an oversized view
	if got := PlaceAxis(0, 1000, 600, true); got != -200 {
		t.Errorf("autofit oversized view at %v, want centered -200", got)
	}
}

func TestMinOrigin(t *testing.T) {
	if got := MinOrigin(1000, 600); got != -400 {
		t.Fatalf("MinOrigin = %v, want -400", got)
	}
	if got := MinOrigin(200, 600); got != 0 {
		t.Fatalf("undersized MinOrigin = %v, want 0", got)
	}
}

func TestEffectiveSize(t *testing.T) {
	raw := Size{W: 640, H: 400}
	// stretching aspect grows the height
	s := EffectiveSize(raw, 1.35)
	if !almostEq(s.W, 640, 1e-9) || !almostEq(s.H, 540, 1e-9) {
		t.Fatalf("aspect 1.35 -> %vx%v, want 640x540", s.W, s.H)
	}
	// squeezing aspect grows the width instead
	s = EffectiveSize(raw, 0.5)
	if !almostEq(s.W, 1280, 1e-9) || !almostEq(s.H, 400, 1e-9) {
		t.Fatalf("aspect 0.5 -> %vx%v, want 1280x400", s.W, s.H)
	}
	// square pixels and defective aspects leave the size alone
	if s := EffectiveSize(raw, 1.0); s != raw {
		t.Fatalf("aspect 1 changed size to %+v", s)
	}
	if s := EffectiveSize(raw, math.NaN()); s != raw {
		t.Fatalf("NaN aspect changed size to %+v", s)
	}
}

func TestFullscreenArea(t *testing.T) {
	a := FullscreenArea()
	want := Area{ScaleX: 2, ScaleY: -2, OffsetX: -1, OffsetY: 1}
	if a != want {
		t.Fatalf("FullscreenArea = %+v, want %+v", a, want)
	}
}

func TestRectToArea(t *testing.T) {
	screen := Size{W: 800, H: 600}
	// the full screen rect reproduces the fullscreen transform
	a := RectToArea(Rect{X: 0, Y: 0, W: 800, H: 600}, screen)
	if a != FullscreenArea() {
		t.Fatalf("full rect = %+v, want fullscreen", a)
	}
	// the top-left quadrant
	a = RectToArea(Rect{X: 0, Y: 0, W: 400, H: 300}, screen)
	want := Area{ScaleX: 1, ScaleY: -1, OffsetX: -1, OffsetY: 1}
	if a != want {
		t.Fatalf("quadrant = %+v, want %+v", a, want)
	}
	// a defective screen degrades to fullscreen
	a = RectToArea(Rect{X: 10, Y: 10, W: 100, H: 100}, Size{})
	if a != FullscreenArea() {
		t.Fatalf("invalid screen = %+v, want fullscreen", a)
	}
}
