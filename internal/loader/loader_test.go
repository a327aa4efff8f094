/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package loader

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pixelview/internal/pixmap"
	"pixelview/internal/sauce"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Kind
	}{
		{"pic.png", KindRaster},
		{"PIC.JPG", KindRaster},
		{"shot.webp", KindRaster},
		{"scan.tiff", KindRaster},
		{"art.ans", KindTextArt},
		{"file_id.diz", KindTextArt},
		{"logo.XB", KindTextArt},
		{"notes.txt", KindUnknown},
		{"noext", KindUnknown},
	}
	for _, c := range cases {
		if got := Classify(c.path); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestTextArtFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"a.ans", FormatANSI},
		{"a.asc", FormatASCII},
		{"a.adf", FormatArtworx},
		{"a.bin", FormatBinary},
		{"a.idf", FormatIceDraw},
		{"a.pcb", FormatPCBoard},
		{"a.tnd", FormatTundra},
		{"a.xb", FormatXBin},
		{"a.weird", FormatANSI},
	}
	for _, c := range cases {
		if got := TextArtFormat(c.path); got != c.want {
			t.Errorf("TextArtFormat(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestExpandTabs(t *testing.T) {
	in := []byte("a\tb\x1a\ttrailer")
	out := ExpandTabs(in)
	if string(out) != "a b\x1a\ttrailer" {
		t.Fatalf("ExpandTabs = %q", out)
	}
	// the input slice stays untouched
	if string(in) != "a\tb\x1a\ttrailer" {
		t.Fatal("input mutated")
	}
	// tab-free input comes back as the same slice
	clean := []byte("no tabs here")
	if got := ExpandTabs(clean); &got[0] != &clean[0] {
		t.Fatal("tab-free input reallocated")
	}
}

func TestLoadRasterPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dot.png")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := New(nil).Load(path, sauce.DefaultRenderOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Width != 3 || res.Height != 2 || res.IsTextArt {
		t.Fatalf("result = %dx%d textart=%v", res.Width, res.Height, res.IsTextArt)
	}
	if res.Aspect != 1.0 {
		t.Fatalf("raster aspect = %v, want 1", res.Aspect)
	}
	i := (1*3 + 1) * 4
	if res.Pixels.Pix[i] != 255 || res.Pixels.Pix[i+3] != 255 {
		t.Fatal("pixel content lost in decode")
	}
}

// Extension dispatch must pick the decoder for the named format even though
// a catch-all decoder (TGA has no magic bytes) is linked into the binary.
func TestLoadRasterDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})

	pngPath := filepath.Join(dir, "art.png")
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pngPath, pngBuf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	gifPath := filepath.Join(dir, "art.gif")
	var gifBuf bytes.Buffer
	if err := gif.Encode(&gifBuf, img, nil); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(gifPath, gifBuf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{pngPath, gifPath} {
		res, err := New(nil).Load(path, sauce.DefaultRenderOptions())
		if err != nil {
			t.Fatalf("load %s: %v", filepath.Base(path), err)
		}
		if res.Width != 4 || res.Height != 4 {
			t.Fatalf("%s: got %dx%d, want 4x4", filepath.Base(path), res.Width, res.Height)
		}
	}
}

func TestLoadRasterUnknownExtensionSniffs(t *testing.T) {
	// PNG content behind an unrecognized extension still decodes
	path := filepath.Join(t.TempDir(), "screenshot.dump")
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := New(nil).Load(path, sauce.DefaultRenderOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Width != 2 || res.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", res.Width, res.Height)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := New(nil).Load(filepath.Join(t.TempDir(), "absent.png"), sauce.DefaultRenderOptions()); err == nil {
		t.Fatal("expected error for a missing file")
	}
}

func TestLoadCorruptRaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	if err := os.WriteFile(path, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(nil).Load(path, sauce.DefaultRenderOptions()); err == nil {
		t.Fatal("expected decode error")
	}
}

// recordingRasterizer captures what the loader hands to the renderer.
type recordingRasterizer struct {
	data   []byte
	format Format
	opt    sauce.RenderOptions
}

func (r *recordingRasterizer) Render(data []byte, format Format, opt sauce.RenderOptions) (*pixmap.Pixmap, float64, error) {
	r.data = append([]byte(nil), data...)
	r.format = format
	r.opt = opt
	p, _ := pixmap.New(opt.Columns*8, 16)
	return p, 0, nil
}

func artWithTrailer(t *testing.T, dir string, columns uint16, font string) string {
	t.Helper()
	buf := make([]byte, sauce.RecordLength)
	copy(buf[:5], "SAUCE")
	buf[94] = 1 // character data
	binary.LittleEndian.PutUint16(buf[96:], columns)
	copy(buf[106:128], font)
	data := append([]byte("hi\tthere\r\n\x1a"), buf...)
	path := filepath.Join(dir, "piece.ans")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTextArtMergesRecord(t *testing.T) {
	rast := &recordingRasterizer{}
	path := artWithTrailer(t, t.TempDir(), 132, "IBM VGA")

	res, err := New(rast).Load(path, sauce.DefaultRenderOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !res.IsTextArt {
		t.Fatal("text art not flagged")
	}
	if !res.Record.HasRecord || res.Record.Outcome != sauce.OutcomeResolved {
		t.Fatalf("record outcome = %v", res.Record.Outcome)
	}
	// the trailer's column count reached the rasterizer
	if rast.opt.Columns != 132 || rast.opt.AutoColumns {
		t.Fatalf("rasterizer columns = %d auto=%v", rast.opt.Columns, rast.opt.AutoColumns)
	}
	if rast.format != FormatANSI {
		t.Fatalf("format = %v, want ANSI", rast.format)
	}
	// tabs before the trailer marker were expanded, the trailer kept
	if bytes.IndexByte(rast.data[:bytes.IndexByte(rast.data, 0x1a)], '\t') >= 0 {
		t.Fatal("tab survived in content")
	}
	if !bytes.Contains(rast.data, []byte("SAUCE")) {
		t.Fatal("trailer stripped from renderer input")
	}
	if res.Width != 132*8 {
		t.Fatalf("width = %d", res.Width)
	}
}

func TestLoadTextArtFallbackRasterizer(t *testing.T) {
	// the built-in placeholder renderer keeps text art loadable without a
	// wired renderer
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.asc")
	if err := os.WriteFile(path, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := New(nil).Load(path, sauce.DefaultRenderOptions())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Width != 80*8 || res.Height != 2*16 {
		t.Fatalf("fallback raster = %dx%d", res.Width, res.Height)
	}
	if res.Aspect != 1.0 {
		t.Fatalf("aspect = %v", res.Aspect)
	}
}
