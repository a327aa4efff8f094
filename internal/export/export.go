/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export writes a loaded document out as PNG, WebP, or PDF. Text art
// is exported in its rasterized form, so an ANSI piece becomes an ordinary
// bitmap. An optional integer upscale keeps pixel edges crisp for low
// resolution sources.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/draw"

	"pixelview/internal/pixmap"
)

type Options struct {
	Upscale int // integer pixel scale factor, values below 2 mean no scaling
}

// Export writes pm to outPath; the format is chosen by the output file
// extension (.png, .webp, .pdf).
func Export(pm *pixmap.Pixmap, outPath string, opt Options) error {
	if pm == nil || pm.Width == 0 || pm.Height == 0 {
		return fmt.Errorf("nothing to export")
	}
	img := upscaled(pm.Image(), opt.Upscale)
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".png":
		return writePNG(img, outPath)
	case ".webp":
		return writeWebP(img, outPath)
	case ".pdf":
		return writePDF(img, outPath)
	default:
		return fmt.Errorf("unsupported export format %q", filepath.Ext(outPath))
	}
}

func upscaled(img *image.RGBA, factor int) *image.RGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(img image.Image, outPath string) error {
	f, err := createOut(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

func writeWebP(img image.Image, outPath string) error {
	f, err := createOut(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return f.Close()
}

// writePDF places the image on a single page sized to the image at 72 dpi,
// so one pixel maps to one point.
func writePDF(img image.Image, outPath string) error {
	b := img.Bounds()
	w := float64(b.Dx())
	h := float64(b.Dy())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
		OrientationStr: "",
	})
	pdf.SetTitle(strings.TrimSuffix(filepath.Base(outPath), filepath.Ext(outPath)), false)
	pdf.AddPageFormat("", gofpdf.SizeType{Wd: w, Ht: h})

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode pdf image: %w", err)
	}
	imgOpt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("art", imgOpt, &buf)
	pdf.ImageOptions("art", 0, 0, w, h, false, imgOpt, 0, "")

	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func createOut(outPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure out dir: %w", err)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outPath, err)
	}
	return f, nil
}
