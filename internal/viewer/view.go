/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewer

import (
	"math"

	"pixelview/internal/geometry"
)

// effectiveSize is the aspect-corrected document size placement works on.
func (c *Controller) effectiveSize() geometry.Size {
	if c.doc == nil {
		return geometry.Size{}
	}
	raw := geometry.Size{W: float64(c.doc.Width), H: float64(c.doc.Height)}
	return geometry.EffectiveSize(raw, c.doc.Aspect)
}

// squarePixels reports whether the document can use integer zoom; non-square
// pixel aspects never land on exact ratios.
func (c *Controller) squarePixels() bool {
	return c.doc != nil && c.doc.Aspect >= 0.9999 && c.doc.Aspect <= 1.0001
}

func (c *Controller) wantIntegerZoom() bool {
	return c.state.Integer && c.squarePixels()
}

// SetScreenSize updates the screen geometry; called on every resize and
// before the first frame. Placement snaps, it does not animate.
func (c *Controller) SetScreenSize(w, h float64) {
	c.screen = geometry.Size{W: w, H: h}
	if c.doc != nil {
		c.minZoom = geometry.MinZoom(c.effectiveSize(), c.screen)
	}
	c.Apply(ViewFlags{StopAnimation: true})
}

// Apply reconfigures the view according to flags and recomputes placement
// around the screen center.
func (c *Controller) Apply(flags ViewFlags) {
	c.applyAt(flags, c.screen.W*0.5, c.screen.H*0.5, false)
}

func (c *Controller) applyAt(flags ViewFlags, pivotX, pivotY float64, usePivot bool) {
	if flags.FreeMode {
		c.state.Mode = geometry.ModeFree
	}
	if flags.ResetScroll {
		c.scrollX, c.scrollY = 0, 0
	}
	if flags.StopAnimation {
		c.state.Animating = false
	}
	if !flags.SkipRecompute {
		c.recompute(usePivot, pivotX, pivotY)
	}
	if flags.Animate {
		c.state.Animating = true
	} else if flags.StopAnimation || !c.state.Animating {
		c.current = c.target
		c.state.Animating = false
	}
}

// recompute rebuilds the target transform from the session state. This is
// the single place zoom policy, origin clamping and panel layout meet.
func (c *Controller) recompute(usePivot bool, pivotX, pivotY float64) {
	if c.doc == nil || !c.screen.Valid() {
		return
	}
	size := c.effectiveSize()

	c.panels = nil
	c.clips = nil
	if c.state.Mode == geometry.ModePanel {
		if strips := geometry.Panels(size, c.screen, geometry.DefaultPanelGap); strips != nil {
			c.clips = geometry.PanelClips(size, c.screen, geometry.DefaultPanelGap)
			c.panels = make([]geometry.Area, len(strips))
			for i, r := range strips {
				c.panels[i] = geometry.RectToArea(r, c.screen)
			}
			// the whole-screen target frames the first strip so leaving
			// panel mode animates from something sensible
			c.viewW, c.viewH = strips[0].W, strips[0].H
			c.minX = geometry.MinOrigin(c.viewW, c.screen.W)
			c.minY = geometry.MinOrigin(c.viewH, c.screen.H)
			c.target = c.panels[0]
			return
		}
		// infeasible for this document/screen: behave like Fit
	}

	mode := c.state.Mode
	if mode == geometry.ModePanel {
		mode = geometry.ModeFit
	}

	oldOriginX, oldOriginY := c.state.OriginX, c.state.OriginY
	oldViewW, oldViewH := c.viewW, c.viewH

	zoom := c.state.Zoom
	if mode.Autofit() {
		zoom = geometry.FitZoom(size, c.screen, mode, c.wantIntegerZoom(), c.state.MaxCrop)
		if c.wantIntegerZoom() {
			zoom = geometry.SnapZoom(zoom, geometry.SnapDown)
		}
	}
	zoom = geometry.ForceNearInteger(zoom)
	if zoom < c.minZoom && !mode.Autofit() {
		zoom = c.minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	c.state.Zoom = geometry.SafeValue(zoom, c.state.Zoom)

	viewW := size.W * c.state.Zoom
	viewH := size.H * c.state.Zoom

	if usePivot && oldViewW > 0 && oldViewH > 0 {
		c.state.OriginX = geometry.PivotZoom(pivotX, oldOriginX, oldViewW, viewW)
		c.state.OriginY = geometry.PivotZoom(pivotY, oldOriginY, oldViewH, viewH)
	}

	autofit := mode.Autofit()
	rect := geometry.Place(size, c.state.Zoom, c.state.OriginX, c.state.OriginY, c.screen, autofit)
	c.state.OriginX, c.state.OriginY = rect.X, rect.Y
	c.viewW, c.viewH = rect.W, rect.H
	c.minX = geometry.MinOrigin(rect.W, c.screen.W)
	c.minY = geometry.MinOrigin(rect.H, c.screen.H)
	c.target = geometry.RectToArea(rect, c.screen)
}

// SetMode switches the view mode, animating into the new placement.
func (c *Controller) SetMode(m geometry.Mode) {
	c.state.Mode = m
	c.Apply(ViewFlags{Animate: true, ResetScroll: true})
}

// CycleMode steps through fit, fill and panel; with1x inserts a 1:1 free
// view into the cycle after fit.
func (c *Controller) CycleMode(with1x bool) {
	switch c.state.Mode {
	case geometry.ModeFit:
		if with1x {
			c.state.Mode = geometry.ModeFree
			c.state.Zoom = 1.0
			c.state.OriginX = (c.screen.W - c.viewW) / 2
			c.state.OriginY = (c.screen.H - c.viewH) / 2
		} else {
			c.state.Mode = geometry.ModeFill
		}
	case geometry.ModeFree:
		c.state.Mode = geometry.ModeFill
	case geometry.ModeFill:
		c.state.Mode = geometry.ModePanel
	default:
		c.state.Mode = geometry.ModeFit
	}
	c.Apply(ViewFlags{Animate: true, ResetScroll: true})
}

// ToggleInteger flips integer-ratio snapping. A manually chosen zoom snaps
// to the nearest exact ratio when snapping turns on; autofit modes recompute
// their own snapped zoom in Apply.
func (c *Controller) ToggleInteger() {
	c.state.Integer = !c.state.Integer
	if c.state.Mode == geometry.ModeFree && c.wantIntegerZoom() {
		z := geometry.SnapZoom(c.state.Zoom, geometry.SnapNearest)
		if z < c.minZoom {
			z = c.minZoom
		}
		c.state.Zoom = geometry.SafeValue(z, c.state.Zoom)
	}
	c.Apply(ViewFlags{Animate: true})
}

// ZoomStep zooms one ladder stop in or out (dir > 0 is in), keeping the
// document point under the pivot fixed. Entering a zoom step always drops
// to free mode.
func (c *Controller) ZoomStep(dir int, pivotX, pivotY float64) {
	if c.doc == nil {
		return
	}
	z := geometry.StepZoom(c.state.Zoom, dir, c.wantIntegerZoom())
	c.ZoomTo(z, pivotX, pivotY)
}

// ZoomTo sets an absolute zoom around the given pivot and switches to free
// mode.
func (c *Controller) ZoomTo(zoom, pivotX, pivotY float64) {
	if c.doc == nil {
		return
	}
	if zoom < c.minZoom {
		zoom = c.minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	c.state.Zoom = geometry.SafeValue(zoom, c.state.Zoom)
	c.applyAt(ViewFlags{FreeMode: true, Animate: true, ResetScroll: true}, pivotX, pivotY, true)
}

// Pan moves the view by a screen-space delta, dropping to free mode.
func (c *Controller) Pan(dx, dy float64) {
	if c.doc == nil {
		return
	}
	c.state.OriginX += dx
	c.state.OriginY += dy
	c.Apply(ViewFlags{FreeMode: true, StopAnimation: true, ResetScroll: true})
}

// StartScroll begins autoscrolling with the configured speed in the given
// direction; a zero direction stops scrolling.
func (c *Controller) StartScroll(dx, dy float64) {
	n := math.Hypot(dx, dy)
	if n == 0 {
		c.scrollX, c.scrollY = 0, 0
		return
	}
	c.scrollX = dx / n * c.scrollSpeed
	c.scrollY = dy / n * c.scrollSpeed
	c.state.Mode = geometry.ModeFree
}

// Scrolling reports whether an autoscroll is active.
func (c *Controller) Scrolling() bool { return c.scrollX != 0 || c.scrollY != 0 }

// SetScrollSpeed adjusts the autoscroll speed in pixels per tick.
func (c *Controller) SetScrollSpeed(v float64) {
	if v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
		c.scrollSpeed = v
	}
}

// Tick advances one frame: autoscroll first, then the animated approach of
// the current transform to the target. It returns true while the picture is
// still changing and the front-end must redraw.
func (c *Controller) Tick() bool {
	changed := false
	if c.Scrolling() {
		prevX, prevY := c.state.OriginX, c.state.OriginY
		c.state.OriginX += c.scrollX
		c.state.OriginY += c.scrollY
		c.Apply(ViewFlags{FreeMode: true, StopAnimation: true})
		// stop at the edge instead of grinding against the clamp
		if c.state.OriginX == prevX && c.state.OriginY == prevY {
			c.scrollX, c.scrollY = 0, 0
		} else {
			changed = true
		}
	}
	if c.state.Animating {
		next, done := geometry.Animate(c.current, c.target, c.animSpeed)
		c.current = next
		if done {
			c.state.Animating = false
		}
		changed = true
	}
	return changed
}
