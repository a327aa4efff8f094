//go:build fyne && cgo

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
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"pixelview/internal/config"
	"pixelview/internal/crash"
	"pixelview/internal/export"
	"pixelview/internal/geometry"
	applog "pixelview/internal/log"
	"pixelview/internal/loader"
	"pixelview/internal/recent"
	"pixelview/internal/sauce"
	"pixelview/internal/viewer"
)

const frameInterval = time.Second / 60

// Run starts the Fyne-based fullscreen viewer, optionally opening path.
func Run(path string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting viewer")

	defer func() { crash.Recover(path) }()

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}

	state := viewer.ViewState{Integer: cfg.Viewer.Integer, MaxCrop: cfg.Viewer.MaxCrop / 100}
	if m, ok := geometry.ParseMode(cfg.Viewer.Mode); ok {
		state.Mode = m
	} else {
		state.Mode = geometry.ModeFit
	}
	ctrl := viewer.New(loader.New(nil), state, sauce.DefaultRenderOptions())
	ctrl.Sidecar = cfg.Viewer.Sidecar
	ctrl.SetScrollSpeed(cfg.Viewer.ScrollSpeed)

	var store *recent.Store
	if cfg.Viewer.Recent {
		if dir, derr := config.DataDir(); derr == nil {
			if st, serr := recent.Open(dir); serr == nil {
				store = st
				defer store.Close()
			} else {
				l.Warn("recent store unavailable", slog.Any("err", serr))
			}
		}
	}

	fyneApp := app.NewWithID("pixelview")
	w := fyneApp.NewWindow("PixelView")
	w.SetPadded(false)
	w.SetFullScreen(true)
	w.Resize(fyne.NewSize(1280, 720))

	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	root := container.NewWithoutLayout(img)
	w.SetContent(root)

	// one canvas image per panel strip, rebuilt when the layout count changes
	var stripImgs []*canvas.Image

	open := func(p string) {
		if err := ctrl.Load(p); err != nil {
			l.Error("load failed", slog.String("path", p), slog.Any("err", err))
			w.SetTitle(fmt.Sprintf("PixelView - %s", ctrl.LastStatus()))
			img.Image = nil
			img.Refresh()
			return
		}
		path = p
		img.Image = ctrl.Pixels().Image()
		if doc := ctrl.Document(); doc != nil && store != nil {
			cctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := store.Touch(cctx, p, int(doc.Width), int(doc.Height)); err != nil {
				l.Warn("recent update failed", slog.Any("err", err))
			}
			cancel()
		}
		w.SetTitle(fmt.Sprintf("PixelView - %s", filepath.Base(p)))
	}

	hideStrips := func() {
		for _, s := range stripImgs {
			s.Hide()
		}
	}

	layout := func() {
		size := w.Canvas().Size()
		sw := float64(size.Width)
		sh := float64(size.Height)
		if sw <= 0 || sh <= 0 {
			return
		}
		screen := geometry.Size{W: sw, H: sh}
		ctrl.SetScreenSize(sw, sh)
		if ctrl.Document() == nil || img.Image == nil {
			img.Hide()
			hideStrips()
			return
		}
		scale := canvas.ImageScaleSmooth
		if ctrl.State().Integer {
			scale = canvas.ImageScalePixels
		}

		// panel mode draws one clipped copy of the document per strip
		if panels := ctrl.Panels(); ctrl.State().Mode == geometry.ModePanel && len(panels) > 0 {
			img.Hide()
			src := ctrl.Pixels().Image()
			regions := stripRegions(panels, ctrl.Clips(), screen, src.Bounds())
			if len(stripImgs) != len(regions) {
				for _, s := range stripImgs {
					root.Remove(s)
				}
				stripImgs = make([]*canvas.Image, len(regions))
				for i := range stripImgs {
					si := canvas.NewImageFromImage(nil)
					si.FillMode = canvas.ImageFillStretch
					stripImgs[i] = si
					root.Add(si)
				}
			}
			for i, reg := range regions {
				si := stripImgs[i]
				if reg.Screen.W <= 0 || reg.Screen.H <= 0 {
					si.Hide()
					continue
				}
				si.Image = src.SubImage(reg.Source)
				si.ScaleMode = scale
				si.Move(fyne.NewPos(float32(reg.Screen.X), float32(reg.Screen.Y)))
				si.Resize(fyne.NewSize(float32(reg.Screen.W), float32(reg.Screen.H)))
				si.Show()
			}
			return
		}

		hideStrips()
		img.Show()
		img.ScaleMode = scale
		r := areaToScreen(ctrl.Area(), screen)
		img.Move(fyne.NewPos(float32(r.X), float32(r.Y)))
		img.Resize(fyne.NewSize(float32(r.W), float32(r.H)))
	}

	saveSidecar := func() {
		if err := ctrl.SaveSidecar(); err != nil {
			l.Error("sidecar save failed", slog.Any("err", err))
		} else {
			l.Info("sidecar saved", slog.String("path", ctrl.Path()))
		}
	}

	exportPNG := func() {
		if ctrl.Pixels() == nil {
			return
		}
		p := ctrl.Path()
		out := strings.TrimSuffix(p, filepath.Ext(p)) + ".png"
		if err := export.Export(ctrl.Pixels(), out, export.Options{Upscale: cfg.Export.Upscale}); err != nil {
			l.Error("export failed", slog.Any("err", err))
			return
		}
		l.Info("exported", slog.String("path", out))
	}

	// keyScroll toggles smooth scrolling per axis: pressing the same
	// direction again stops, the opposite direction reverses.
	keyScroll := func(dx, dy float64) {
		if ctrl.Scrolling() {
			ctrl.StartScroll(0, 0)
			return
		}
		ctrl.StartScroll(dx, dy)
	}

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		size := w.Canvas().Size()
		cx := float64(size.Width) / 2
		cy := float64(size.Height) / 2
		switch ev.Name {
		case fyne.KeyEscape, fyne.KeyQ:
			fyneApp.Quit()
		case fyne.KeySpace:
			ctrl.CycleMode(true)
		case fyne.KeyF:
			ctrl.SetMode(geometry.ModeFit)
		case fyne.KeyL:
			ctrl.SetMode(geometry.ModeFill)
		case fyne.KeyP:
			ctrl.SetMode(geometry.ModePanel)
		case fyne.Key1:
			ctrl.ZoomTo(1, cx, cy)
		case fyne.KeyI:
			ctrl.ToggleInteger()
		case fyne.KeyUp:
			keyScroll(0, -1)
		case fyne.KeyDown:
			keyScroll(0, 1)
		case fyne.KeyLeft:
			keyScroll(-1, 0)
		case fyne.KeyRight:
			keyScroll(1, 0)
		case fyne.KeyPageUp:
			ctrl.Pan(0, float64(size.Height))
		case fyne.KeyPageDown:
			ctrl.Pan(0, -float64(size.Height))
		case fyne.KeyHome:
			ctrl.Apply(viewer.ViewFlags{ResetScroll: true, StopAnimation: true})
		case fyne.KeyS:
			saveSidecar()
		case fyne.KeyE:
			exportPNG()
		}
	})
	w.Canvas().SetOnTypedRune(func(r rune) {
		size := w.Canvas().Size()
		cx := float64(size.Width) / 2
		cy := float64(size.Height) / 2
		switch r {
		case '+', '=':
			ctrl.ZoomStep(1, cx, cy)
		case '-', '_':
			ctrl.ZoomStep(-1, cx, cy)
		}
	})

	if path != "" {
		open(path)
	}

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		for range ticker.C {
			fyne.Do(func() {
				changed := ctrl.Tick()
				layout()
				if changed {
					root.Refresh()
				}
			})
		}
	}()

	w.ShowAndRun()
	return nil
}
