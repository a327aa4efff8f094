/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pixelview/internal/config"
	"pixelview/internal/crash"
	"pixelview/internal/export"
	applog "pixelview/internal/log"
	"pixelview/internal/loader"
	"pixelview/internal/recent"
	"pixelview/internal/sauce"
	"pixelview/internal/ui"
	"pixelview/internal/version"
)

func usage() {
	fmt.Println("PixelView - fullscreen image and text-art viewer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pixelview version|-v|--version        Show version")
	fmt.Println("  pixelview info <file>                  Print file dimensions and embedded metadata")
	fmt.Println("  pixelview export <file> <out>          Render <file> and write it as .png, .webp or .pdf")
	fmt.Println("  pixelview recent [clear]               List (or clear) recently viewed files")
	fmt.Println("  pixelview view [<file>]                Launch fullscreen viewer (build with -tags fyne for full UI)")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var viewedPath string
	defer func() { crash.Recover(viewedPath) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("PixelView - fullscreen image and text-art viewer")
			fmt.Println(version.String())
			return
		case "info":
			if len(args) < 3 {
				fmt.Println("info requires <file>")
				usage()
				os.Exit(2)
			}
			viewedPath = args[2]
			if err := runInfo(viewedPath); err != nil {
				l.Error("info failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <file> and <out>")
				usage()
				os.Exit(2)
			}
			viewedPath = args[2]
			if err := runExport(viewedPath, args[3]); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "recent":
			clear := len(args) >= 3 && args[2] == "clear"
			if err := runRecent(clear); err != nil {
				l.Error("recent failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "view":
			if len(args) >= 3 {
				viewedPath = args[2]
			}
			if err := ui.Run(viewedPath); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
		// A bare file argument opens the viewer directly.
		if _, err := os.Stat(args[1]); err == nil {
			viewedPath = args[1]
			if err := ui.Run(viewedPath); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func runInfo(path string) error {
	abs, _ := filepath.Abs(path)
	res, err := loader.New(nil).Load(abs, sauce.DefaultRenderOptions())
	if err != nil {
		return err
	}
	fmt.Println("File:", abs)
	fmt.Printf("Size: %dx%d\n", res.Width, res.Height)
	fmt.Printf("Pixel aspect: %g\n", res.Aspect)
	if res.IsTextArt {
		fmt.Println("Kind: text art")
		rec := res.Record
		fmt.Println("Metadata:", rec.Outcome)
		if rec.HasRecord {
			if rec.Columns != nil {
				fmt.Printf("Columns: %d\n", *rec.Columns)
			}
			if rec.FontName != "" {
				fmt.Printf("Font: %s\n", rec.FontName)
			}
			if rec.ICEColors != nil {
				fmt.Printf("ICE colors: %v\n", *rec.ICEColors)
			}
		}
	} else {
		fmt.Println("Kind: raster image")
	}
	return nil
}

func runExport(path, out string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	abs, _ := filepath.Abs(path)
	res, err := loader.New(nil).Load(abs, sauce.DefaultRenderOptions())
	if err != nil {
		return err
	}
	if err := export.Export(res.Pixels, out, export.Options{Upscale: cfg.Export.Upscale}); err != nil {
		return err
	}
	fmt.Println("Wrote", out)
	return nil
}

func runRecent(clear bool) error {
	dir, err := config.DataDir()
	if err != nil {
		return err
	}
	store, err := recent.Open(dir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if clear {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("Cleared recent files.")
		return nil
	}
	entries, err := store.List(ctx, 0)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recently viewed files.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %dx%d  %s  (%dx)\n", e.LastOpened.Local().Format("2006-01-02 15:04"), e.Width, e.Height, e.Path, e.OpenCount)
	}
	return nil
}
