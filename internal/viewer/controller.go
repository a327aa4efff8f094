/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewer owns the viewing session: the loaded document, the view
// state and the animated presentation transform. It receives intents from
// the front-end, recomputes placement through the geometry engine and merges
// trailer-record metadata into the effective render options on load.
//
// The controller is single-threaded by design: intents, ticks and loads all
// run on the frame loop. A port that moves loading off-thread must serialize
// access and use the load generation counter to drop stale results.
package viewer

import (
	"fmt"
	"log/slog"

	"pixelview/internal/geometry"
	applog "pixelview/internal/log"
	"pixelview/internal/loader"
	"pixelview/internal/pixmap"
	"pixelview/internal/sauce"
	"pixelview/internal/viewconf"
)

// Document describes the currently displayed image. It is immutable until
// the next load replaces it.
type Document struct {
	Width     uint32
	Height    uint32
	Aspect    float64
	IsTextArt bool
}

// ViewState is the user-steered part of the session.
type ViewState struct {
	Mode      geometry.Mode
	Zoom      float64
	OriginX   float64
	OriginY   float64
	Integer   bool
	MaxCrop   float64 // fraction in [0,1)
	Animating bool
}

// ViewFlags steer a view reconfiguration. An explicit struct of booleans
// instead of an encoded shortcut keeps every call site readable.
type ViewFlags struct {
	FreeMode      bool // switch to free pan/zoom first
	Animate       bool // glide to the new placement
	StopAnimation bool // pin the current placement immediately
	ResetScroll   bool // cancel any autoscroll
	SkipRecompute bool // mutate state only, placement stays as is
}

// Limits on manual zoom.
const (
	maxZoom          = 256.0
	defaultScrollSpd = 4.0
)

// Controller drives one viewing session.
type Controller struct {
	log *slog.Logger
	ld  *loader.Loader

	doc  *Document
	pix  *pixmap.Pixmap
	path string

	state    ViewState
	baseOpts sauce.RenderOptions
	opts     sauce.RenderOptions

	screen  geometry.Size
	current geometry.Area
	target  geometry.Area
	panels  []geometry.Area
	clips   []geometry.Rect

	// derived placement of the last recompute
	viewW, viewH float64
	minX, minY   float64
	minZoom      float64

	scrollX, scrollY float64
	scrollSpeed      float64
	animSpeed        float64

	// Sidecar toggles opportunistic sidecar loading on open.
	Sidecar bool
	// KeepOptions preserves render options across loads instead of
	// rebuilding them from the configured defaults.
	KeepOptions bool

	loadGen    uint64
	lastStatus string
}

// New builds a controller around a loader. The defaults argument seeds both
// the view state and the render options applied on every load.
func New(ld *loader.Loader, state ViewState, opts sauce.RenderOptions) *Controller {
	if ld == nil {
		ld = loader.New(nil)
	}
	if state.Zoom <= 0 {
		state.Zoom = 1.0
	}
	c := &Controller{
		log:         applog.WithComponent("viewer"),
		ld:          ld,
		state:       state,
		baseOpts:    opts,
		opts:        opts,
		current:     geometry.FullscreenArea(),
		target:      geometry.FullscreenArea(),
		minZoom:     1.0 / 16,
		scrollSpeed: defaultScrollSpd,
		animSpeed:   geometry.DefaultAnimSpeed,
		Sidecar:     true,
	}
	return c
}

// Document returns the loaded document, nil when nothing is loaded.
func (c *Controller) Document() *Document { return c.doc }

// Pixels returns the loaded pixel buffer for upload by the render
// collaborator; nil when nothing is loaded.
func (c *Controller) Pixels() *pixmap.Pixmap { return c.pix }

// Path returns the path of the loaded document.
func (c *Controller) Path() string { return c.path }

// State returns a copy of the current view state.
func (c *Controller) State() ViewState { return c.state }

// Options returns the effective render options of the current document.
func (c *Controller) Options() sauce.RenderOptions { return c.opts }

// Area returns the animated presentation transform to draw this frame.
func (c *Controller) Area() geometry.Area { return c.current }

// TargetArea returns the freshly computed transform the view is gliding to.
func (c *Controller) TargetArea() geometry.Area { return c.target }

// Panels returns the strip transforms when panel mode is active and
// feasible, else nil. Clips returns the matching screen clip rectangles.
func (c *Controller) Panels() []geometry.Area { return c.panels }
func (c *Controller) Clips() []geometry.Rect  { return c.clips }

// LastStatus returns the most recent transient status message.
func (c *Controller) LastStatus() string { return c.lastStatus }

func (c *Controller) setStatus(format string, args ...any) {
	c.lastStatus = fmt.Sprintf(format, args...)
}

// Load opens the document at path, replacing the current one. A failure
// unloads the previous document, records a status message and returns the
// error; the session itself stays usable.
func (c *Controller) Load(path string) error {
	c.loadGen++
	gen := c.loadGen
	l := applog.WithOperation(c.log, "load").With(slog.String("path", path))

	opts := c.baseOpts
	if c.KeepOptions {
		opts = c.opts
	}

	// sidecar first: it may adjust the render options used by the load
	var side viewconf.Settings
	if c.Sidecar {
		s, errs, err := viewconf.Load(viewconf.SidecarPath(path))
		if err != nil {
			l.Warn("sidecar unreadable", slog.Any("err", err))
		}
		for _, pe := range errs {
			l.Warn("sidecar line skipped", slog.String("detail", pe.Error()))
		}
		side = s
		for _, pe := range viewconf.ApplyAnsi(&opts, side.Ansi) {
			l.Warn("sidecar option skipped", slog.String("detail", pe.Error()))
		}
	}

	res, err := c.ld.Load(path, opts)
	if gen != c.loadGen {
		// a newer load superseded this one while it was in flight
		return nil
	}
	if err != nil {
		c.Unload()
		c.setStatus("could not load %s: %v", path, err)
		l.Error("load failed", slog.Any("err", err))
		return err
	}

	c.doc = &Document{
		Width:     uint32(res.Width),
		Height:    uint32(res.Height),
		Aspect:    res.Aspect,
		IsTextArt: res.IsTextArt,
	}
	c.pix = res.Pixels
	c.path = path
	if res.IsTextArt {
		c.opts = res.Options
	} else {
		c.opts = opts
	}
	c.applySidecar(side)
	c.setStatus("loaded %s (%dx%d)", path, res.Width, res.Height)
	l.Info("loaded", slog.Int("w", res.Width), slog.Int("h", res.Height),
		slog.Bool("textart", res.IsTextArt))

	c.minZoom = geometry.MinZoom(c.effectiveSize(), c.screen)
	c.Apply(ViewFlags{ResetScroll: true})
	return nil
}

// Unload drops the current document; the view transform is left in place so
// a subsequent load can glide from it.
func (c *Controller) Unload() {
	c.doc = nil
	c.pix = nil
	c.path = ""
	c.panels = nil
	c.clips = nil
}

// applySidecar folds sidecar settings into the view state before the first
// recompute of a freshly loaded document.
func (c *Controller) applySidecar(s viewconf.Settings) {
	if s.Mode != nil {
		c.state.Mode = *s.Mode
	}
	if s.Integer != nil {
		c.state.Integer = *s.Integer
	}
	if s.MaxCrop != nil {
		c.state.MaxCrop = *s.MaxCrop
	}
	if s.Aspect != nil && c.doc != nil {
		c.doc.Aspect = *s.Aspect
	}
	if s.ScrollSpeed != nil {
		c.scrollSpeed = *s.ScrollSpeed
	}
	if c.state.Mode == geometry.ModeFree {
		if s.Zoom != nil {
			c.state.Zoom = *s.Zoom
		}
		// relative pan positions need the pan range; recompute, then place
		c.recompute(false, 0, 0)
		if s.RelX != nil {
			c.state.OriginX = *s.RelX * c.minX
		}
		if s.RelY != nil {
			c.state.OriginY = *s.RelY * c.minY
		}
	}
}

// SaveSidecar persists the current view state next to the document.
func (c *Controller) SaveSidecar() error {
	if c.doc == nil {
		return fmt.Errorf("no document loaded")
	}
	s := viewconf.Settings{
		Mode:        viewconf.ModeP(c.state.Mode),
		Integer:     viewconf.BoolP(c.state.Integer),
		ScrollSpeed: viewconf.FloatP(c.scrollSpeed),
	}
	if c.doc.Aspect != 1.0 {
		s.Aspect = viewconf.FloatP(c.doc.Aspect)
	}
	if c.state.MaxCrop > 0 {
		s.MaxCrop = viewconf.FloatP(c.state.MaxCrop)
	}
	if c.state.Mode == geometry.ModeFree {
		s.Zoom = viewconf.FloatP(c.state.Zoom)
		s.RelX = viewconf.FloatP(relPos(c.state.OriginX, c.minX))
		s.RelY = viewconf.FloatP(relPos(c.state.OriginY, c.minY))
	}
	path := viewconf.SidecarPath(c.path)
	if err := viewconf.Save(path, s); err != nil {
		c.setStatus("saving %s failed: %v", path, err)
		return err
	}
	c.setStatus("saved %s", path)
	return nil
}

// relPos expresses an origin as a fraction of its pan range; centered when
// there is no pan range.
func relPos(origin, minOrigin float64) float64 {
	if minOrigin >= 0 {
		return 0.5
	}
	f := origin / minOrigin
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
