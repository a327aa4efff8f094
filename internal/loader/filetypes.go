/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package loader

import (
	"path/filepath"
	"strings"
)

// Kind partitions inputs by extension: generic raster formats go to the
// image decoders, text-art formats to the rasterizing loader. Dispatch is by
// extension only, case-insensitive.
type Kind int

const (
	KindUnknown Kind = iota
	KindRaster
	KindTextArt
)

// Format tags a text-art dialect for the rasterizer. The loader does not
// interpret the dialects itself.
type Format int

const (
	FormatANSI Format = iota // .ans and anything unrecognized textual
	FormatASCII
	FormatArtworx
	FormatBinary
	FormatIceDraw
	FormatPCBoard
	FormatTundra
	FormatXBin
)

var rasterExts = map[string]struct{}{
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {},
	"bmp": {}, "tga": {}, "tif": {}, "tiff": {}, "webp": {},
}

var textArtExts = map[string]Format{
	"asc": FormatASCII,
	"ans": FormatANSI,
	"nfo": FormatASCII,
	"diz": FormatASCII,
	"adf": FormatArtworx,
	"bin": FormatBinary,
	"idf": FormatIceDraw,
	"pcb": FormatPCBoard,
	"tnd": FormatTundra,
	"xb":  FormatXBin,
}

// ext returns the lowercased extension without the dot.
func ext(path string) string {
	e := strings.ToLower(filepath.Ext(path))
	return strings.TrimPrefix(e, ".")
}

// Classify determines how a path should be loaded.
func Classify(path string) Kind {
	e := ext(path)
	if _, ok := rasterExts[e]; ok {
		return KindRaster
	}
	if _, ok := textArtExts[e]; ok {
		return KindTextArt
	}
	return KindUnknown
}

// TextArtFormat maps a path to its dialect tag; unrecognized text-art
// extensions fall back to ANSI, which every rasterizer handles.
func TextArtFormat(path string) Format {
	if f, ok := textArtExts[ext(path)]; ok {
		return f
	}
	return FormatANSI
}
