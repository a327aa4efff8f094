/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewer

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"image/png"

	"pixelview/internal/geometry"
	"pixelview/internal/loader"
	"pixelview/internal/sauce"
	"pixelview/internal/viewconf"
)

// writePNG drops a w x h test image into dir and returns its path.
func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return path
}

// newLoaded builds a controller showing a 192x108 image on an 800x600
// screen, the canonical wide-document-on-wider-screen setup.
func newLoaded(t *testing.T, state ViewState) *Controller {
	t.Helper()
	path := writePNG(t, t.TempDir(), 192, 108)
	c := New(loader.New(nil), state, sauce.DefaultRenderOptions())
	c.SetScreenSize(800, 600)
	if err := c.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func almostEq(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestFitPlacement(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	st := c.State()
	if !almostEq(st.Zoom, 800.0/192.0, 1e-9) {
		t.Fatalf("fit zoom = %v, want %v", st.Zoom, 800.0/192.0)
	}
	if !almostEq(st.OriginX, 0, 1e-9) || !almostEq(st.OriginY, 75, 1e-9) {
		t.Fatalf("fit origin = (%v, %v), want (0, 75)", st.OriginX, st.OriginY)
	}
	want := geometry.RectToArea(geometry.Rect{X: 0, Y: 75, W: 800, H: 450}, geometry.Size{W: 800, H: 600})
	if c.TargetArea() != want {
		t.Fatalf("target = %+v, want %+v", c.TargetArea(), want)
	}
	// a fresh load snaps, it does not animate
	if c.Area() != c.TargetArea() {
		t.Fatal("load must not leave the transform mid-animation")
	}
}

func TestFillPlacement(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFill})
	st := c.State()
	if !almostEq(st.Zoom, 600.0/108.0, 1e-9) {
		t.Fatalf("fill zoom = %v, want %v", st.Zoom, 600.0/108.0)
	}
	if !almostEq(st.OriginX, (800.0-192.0*600.0/108.0)/2, 1e-6) {
		t.Fatalf("fill x = %v, want ~-133.33", st.OriginX)
	}
	if !almostEq(st.OriginY, 0, 1e-9) {
		t.Fatalf("fill y = %v, want 0", st.OriginY)
	}
}

func TestIntegerAutofitSnapsDown(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit, Integer: true})
	if z := c.State().Zoom; z != 4.0 {
		t.Fatalf("integer fit zoom = %v, want 4", z)
	}
	c = newLoaded(t, ViewState{Mode: geometry.ModeFill, Integer: true})
	if z := c.State().Zoom; z != 5.0 {
		t.Fatalf("integer fill zoom = %v, want 5", z)
	}
}

func TestToggleIntegerSnapsFreeZoom(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	c.ZoomTo(2.7, 400, 300)
	if z := c.State().Zoom; !almostEq(z, 2.7, 1e-9) {
		t.Fatalf("free zoom = %v, want 2.7", z)
	}

	c.ToggleInteger()
	if !c.State().Integer {
		t.Fatal("integer mode did not turn on")
	}
	if z := c.State().Zoom; z != 3.0 {
		t.Fatalf("zoom after snap = %v, want 3", z)
	}

	// turning snapping back off keeps the now-exact zoom in place
	c.ToggleInteger()
	if z := c.State().Zoom; z != 3.0 {
		t.Fatalf("zoom after toggle off = %v, want 3", z)
	}
}

func TestSetModeAnimates(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	before := c.Area()
	c.SetMode(geometry.ModeFill)
	if !c.State().Animating {
		t.Fatal("mode switch must animate")
	}
	if c.Area() != before {
		t.Fatal("current transform must not jump on mode switch")
	}
	for i := 0; i < 1000 && c.State().Animating; i++ {
		c.Tick()
	}
	if c.State().Animating {
		t.Fatal("animation never converged")
	}
	if c.Area() != c.TargetArea() {
		t.Fatal("animation did not land on the target")
	}
}

func TestCycleMode(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})

	c.CycleMode(true)
	if c.State().Mode != geometry.ModeFree || c.State().Zoom != 1.0 {
		t.Fatalf("after fit: mode=%v zoom=%v, want free 1:1", c.State().Mode, c.State().Zoom)
	}
	c.CycleMode(true)
	if c.State().Mode != geometry.ModeFill {
		t.Fatalf("after free: mode=%v, want fill", c.State().Mode)
	}
	c.CycleMode(true)
	if c.State().Mode != geometry.ModePanel {
		t.Fatalf("after fill: mode=%v, want panel", c.State().Mode)
	}
	c.CycleMode(true)
	if c.State().Mode != geometry.ModeFit {
		t.Fatalf("after panel: mode=%v, want fit", c.State().Mode)
	}

	// the short cycle skips the 1:1 stop
	c.CycleMode(false)
	if c.State().Mode != geometry.ModeFill {
		t.Fatalf("short cycle after fit: mode=%v, want fill", c.State().Mode)
	}
}

func TestZoomStepEntersFreeMode(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	before := c.State().Zoom
	c.ZoomStep(1, 400, 300)
	st := c.State()
	if st.Mode != geometry.ModeFree {
		t.Fatalf("mode = %v, want free", st.Mode)
	}
	if st.Zoom <= before {
		t.Fatalf("zoom %v did not increase from %v", st.Zoom, before)
	}
}

func TestZoomPivotKeepsCenter(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	// zooming around the screen center keeps the view centered while it
	// still overflows symmetrically
	c.ZoomTo(8, 400, 300)
	st := c.State()
	// viewW = 192*8 = 1536, centered: origin -368
	if !almostEq(st.OriginX, (800.0-1536.0)/2, 1e-6) {
		t.Fatalf("pivot zoom x = %v, want -368", st.OriginX)
	}
}

func TestPanClamping(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	c.ZoomTo(8, 400, 300) // 1536x864 view on 800x600
	c.Pan(1e6, 1e6)
	st := c.State()
	if st.OriginX != 0 || st.OriginY != 0 {
		t.Fatalf("near-edge clamp: (%v, %v), want (0, 0)", st.OriginX, st.OriginY)
	}
	c.Pan(-1e6, -1e6)
	st = c.State()
	if !almostEq(st.OriginX, 800-1536, 1e-9) || !almostEq(st.OriginY, 600-864, 1e-9) {
		t.Fatalf("far-edge clamp: (%v, %v), want (-736, -264)", st.OriginX, st.OriginY)
	}
}

func TestScrollStopsAtEdge(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	c.ZoomTo(8, 400, 300)
	c.Pan(-1e6, 0) // park at the far edge
	c.SetScrollSpeed(100)
	c.StartScroll(1, 0) // scroll back towards the near edge
	if !c.Scrolling() {
		t.Fatal("scroll did not start")
	}
	for i := 0; i < 100 && c.Scrolling(); i++ {
		c.Tick()
	}
	if c.Scrolling() {
		t.Fatal("scroll never stopped at the edge")
	}
	if c.State().OriginX != 0 {
		t.Fatalf("origin after edge stop = %v, want 0", c.State().OriginX)
	}
}

func TestStartScrollZeroStops(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	c.StartScroll(0, 1)
	c.StartScroll(0, 0)
	if c.Scrolling() {
		t.Fatal("zero direction must stop the scroll")
	}
}

func TestLoadFailureKeepsSessionUsable(t *testing.T) {
	c := New(loader.New(nil), ViewState{Mode: geometry.ModeFit}, sauce.DefaultRenderOptions())
	c.SetScreenSize(800, 600)
	if err := c.Load(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Fatal("expected load error")
	}
	if c.Document() != nil || c.Pixels() != nil {
		t.Fatal("failed load left a document behind")
	}
	if c.LastStatus() == "" {
		t.Fatal("failed load must leave a status message")
	}
	// a later load still works
	path := writePNG(t, t.TempDir(), 192, 108)
	if err := c.Load(path); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if c.Document() == nil {
		t.Fatal("second load produced no document")
	}
}

func TestSidecarRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, 192, 108)

	// write a sidecar asking for a free view at 8x, panned to the far edge
	side := viewconf.Settings{
		Mode: viewconf.ModeP(geometry.ModeFree),
		Zoom: viewconf.FloatP(8),
		RelX: viewconf.FloatP(1.0),
		RelY: viewconf.FloatP(0.0),
	}
	if err := viewconf.Save(viewconf.SidecarPath(path), side); err != nil {
		t.Fatal(err)
	}

	c := New(loader.New(nil), ViewState{Mode: geometry.ModeFit}, sauce.DefaultRenderOptions())
	c.SetScreenSize(800, 600)
	if err := c.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	st := c.State()
	if st.Mode != geometry.ModeFree || st.Zoom != 8 {
		t.Fatalf("sidecar view state not applied: mode=%v zoom=%v", st.Mode, st.Zoom)
	}
	if !almostEq(st.OriginX, 800-1536, 1e-9) {
		t.Fatalf("relx 100%% -> origin %v, want -736", st.OriginX)
	}
	if st.OriginY != 0 {
		t.Fatalf("rely 0%% -> origin %v, want 0", st.OriginY)
	}

	// saving writes the same placement back
	if err := c.SaveSidecar(); err != nil {
		t.Fatalf("save sidecar: %v", err)
	}
	out, errs, err := viewconf.Load(viewconf.SidecarPath(path))
	if err != nil || len(errs) != 0 {
		t.Fatalf("reload sidecar: %v %+v", err, errs)
	}
	if out.Mode == nil || *out.Mode != geometry.ModeFree {
		t.Fatal("saved mode lost")
	}
	if out.Zoom == nil || *out.Zoom != 8 {
		t.Fatal("saved zoom lost")
	}
	if out.RelX == nil || !almostEq(*out.RelX, 1.0, 1e-9) {
		t.Fatalf("saved relx = %v, want 1", out.RelX)
	}
}

func TestSidecarDisabled(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, 192, 108)
	side := viewconf.Settings{Mode: viewconf.ModeP(geometry.ModeFill)}
	if err := viewconf.Save(viewconf.SidecarPath(path), side); err != nil {
		t.Fatal(err)
	}
	c := New(loader.New(nil), ViewState{Mode: geometry.ModeFit}, sauce.DefaultRenderOptions())
	c.Sidecar = false
	c.SetScreenSize(800, 600)
	if err := c.Load(path); err != nil {
		t.Fatal(err)
	}
	if c.State().Mode != geometry.ModeFit {
		t.Fatal("disabled sidecar still applied")
	}
}

func TestPanelModeFallsBackToFit(t *testing.T) {
	// a 16:9 frame cannot strip on a 4:3 screen; panel mode must place
	// like fit but keep reporting panel mode
	c := newLoaded(t, ViewState{Mode: geometry.ModePanel})
	if c.Panels() != nil {
		t.Fatal("infeasible layout still produced strips")
	}
	if c.State().Mode != geometry.ModePanel {
		t.Fatal("mode must stay panel")
	}
	if !almostEq(c.State().Zoom, 800.0/192.0, 1e-9) {
		t.Fatalf("fallback zoom = %v, want fit", c.State().Zoom)
	}
}

func TestPanelModeStrips(t *testing.T) {
	path := writePNG(t, t.TempDir(), 4000, 200)
	c := New(loader.New(nil), ViewState{Mode: geometry.ModePanel}, sauce.DefaultRenderOptions())
	c.SetScreenSize(800, 600)
	if err := c.Load(path); err != nil {
		t.Fatal(err)
	}
	if len(c.Panels()) != 3 || len(c.Clips()) != 3 {
		t.Fatalf("panels=%d clips=%d, want 3 each", len(c.Panels()), len(c.Clips()))
	}
	if c.TargetArea() != c.Panels()[0] {
		t.Fatal("whole-screen target must frame the first strip")
	}
}

func TestUnload(t *testing.T) {
	c := newLoaded(t, ViewState{Mode: geometry.ModeFit})
	c.Unload()
	if c.Document() != nil || c.Pixels() != nil || c.Path() != "" {
		t.Fatal("unload left state behind")
	}
	if err := c.SaveSidecar(); err == nil {
		t.Fatal("saving without a document must fail")
	}
}
