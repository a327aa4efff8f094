/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package loader turns file paths into pixel buffers. Plain raster formats
// go through the registered image decoders; text-art formats are handed,
// together with their render options and trailer record, to an injected
// Rasterizer. Failures come back as error values and are never fatal to the
// session.
package loader

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/ftrvxmtrx/tga"

	applog "pixelview/internal/log"
	"pixelview/internal/pixmap"
	"pixelview/internal/sauce"
)

// MaxDimension bounds decoded image extents; anything larger is reported as
// an oversized result instead of being handed to the renderer.
const MaxDimension = 32768

// Result is what a successful load produces.
type Result struct {
	Pixels *pixmap.Pixmap
	Width  int
	Height int
	// Aspect is the recommended pixel aspect (1 = square); text-art loads
	// derive it from the render options and trailer record.
	Aspect float64
	// IsTextArt marks rasterized text-art documents.
	IsTextArt bool
	// Record is the parsed trailer record of a text-art load.
	Record sauce.Record
	// Options are the effective render options after merging the record.
	Options sauce.RenderOptions
}

// Rasterizer converts text-art bytes into pixels. It is an opaque
// collaborator: the viewer knows nothing about the dialects beyond their
// extension tag. The returned aspect is the renderer's recommendation
// (<=0 means no preference).
type Rasterizer interface {
	Render(data []byte, format Format, opt sauce.RenderOptions) (*pixmap.Pixmap, float64, error)
}

// Loader loads documents from disk.
type Loader struct {
	rast Rasterizer
	log  *slog.Logger
}

// New builds a loader around the given rasterizer. A nil rasterizer is
// replaced with the built-in placeholder renderer so raster formats keep
// working either way.
func New(rast Rasterizer) *Loader {
	if rast == nil {
		rast = fallbackRasterizer{}
	}
	return &Loader{rast: rast, log: applog.WithComponent("loader")}
}

// Load reads and decodes the document at path. For text-art paths the given
// options steer the rasterizer; the file's trailer record is merged into
// them first.
func (l *Loader) Load(path string, opt sauce.RenderOptions) (*Result, error) {
	switch Classify(path) {
	case KindTextArt:
		return l.loadTextArt(path, opt)
	case KindRaster:
		return l.loadRaster(path)
	default:
		// unrecognized extensions get a decode attempt as raster
		return l.loadRaster(path)
	}
}

// rasterDecoders maps a file extension to its decoder. Dispatch is explicit
// rather than through image.Decode: the tga package registers itself with an
// empty magic string, which would shadow every sniffing decoder behind it.
var rasterDecoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpg":  jpeg.Decode,
	"jpeg": jpeg.Decode,
	"gif":  gif.Decode,
	"bmp":  bmp.Decode,
	"tif":  tiff.Decode,
	"tiff": tiff.Decode,
	"webp": webp.Decode,
	"tga":  tga.Decode,
}

// sniffOrder is tried for unrecognized extensions. TGA goes last because the
// format has no magic bytes and would accept almost anything.
var sniffOrder = []string{"png", "jpg", "gif", "bmp", "tiff", "webp", "tga"}

func (l *Loader) loadRaster(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var (
		img    image.Image
		format string
	)
	if decode, ok := rasterDecoders[ext(path)]; ok {
		format = ext(path)
		img, err = decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	} else {
		for _, name := range sniffOrder {
			if m, derr := rasterDecoders[name](bytes.NewReader(data)); derr == nil {
				img, format = m, name
				break
			}
		}
		if img == nil {
			return nil, fmt.Errorf("decode %s: unrecognized image format", path)
		}
	}
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		return nil, fmt.Errorf("decode %s: %dx%d exceeds size limit", path, b.Dx(), b.Dy())
	}
	l.log.Debug("raster loaded", slog.String("path", path),
		slog.String("format", format), slog.Int("w", b.Dx()), slog.Int("h", b.Dy()))
	p := pixmap.FromImage(img)
	return &Result{Pixels: p, Width: p.Width, Height: p.Height, Aspect: 1.0}, nil
}

func (l *Loader) loadTextArt(path string, opt sauce.RenderOptions) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	rec := sauce.Parse(data)
	outcome := opt.Merge(rec)
	l.log.Debug("trailer record", slog.String("path", path), slog.String("outcome", outcome.String()))

	if opt.TabsToSpaces {
		data = ExpandTabs(data)
	}

	pix, aspect, err := l.rast.Render(data, TextArtFormat(path), opt)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}
	if pix.Width > MaxDimension || pix.Height > MaxDimension {
		return nil, fmt.Errorf("render %s: %dx%d exceeds size limit", path, pix.Width, pix.Height)
	}
	if aspect <= 0 {
		aspect = opt.Aspect
	}
	if aspect <= 0 {
		aspect = 1.0
	}
	return &Result{
		Pixels:    pix,
		Width:     pix.Width,
		Height:    pix.Height,
		Aspect:    aspect,
		IsTextArt: true,
		Record:    rec,
		Options:   opt,
	}, nil
}

// ExpandTabs replaces HT bytes with single spaces up to the trailer marker
// byte; everything from the marker on is left untouched so a trailer record
// is never corrupted by the substitution.
func ExpandTabs(data []byte) []byte {
	end := bytes.IndexByte(data, sauce.EOFMarker)
	if end < 0 {
		end = len(data)
	}
	if !bytes.ContainsRune(data[:end], '\t') {
		return data
	}
	out := make([]byte, len(data))
	copy(out, data)
	for i := 0; i < end; i++ {
		if out[i] == '\t' {
			out[i] = ' '
		}
	}
	return out
}
