/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package sauce reads the fixed-layout SAUCE trailer record of legacy
// text-art files and derives rendering parameters from it: column count,
// color mode, font and pixel aspect. Parsing is pure and never fails; a
// partial or absent record degrades to an informational outcome and the
// caller proceeds with defaults.
package sauce

import "encoding/binary"

// RecordLength is the fixed size of the trailer block.
const RecordLength = 128

// EOFMarker separates file content from the trailer; substitutions applied
// to the content (tab expansion) must stop here so the record stays intact.
const EOFMarker = 0x1A

// magic is the tag the trailer block starts with.
var magic = [5]byte{'S', 'A', 'U', 'C', 'E'}

// byte offsets inside the 128-byte trailer
const (
	offDataType = 94
	offFileType = 95
	offTInfo1   = 96
	offFlags    = 105
	offFontName = 106
	fontNameLen = 22
)

// data types the viewer understands
const (
	dataTypeCharacter  = 1
	dataTypeBinaryText = 5
)

// flags byte layout
const (
	flagICE        = 0x01 // bit 0: bright backgrounds instead of blink
	maskFontWidth  = 0x06 // bits 1-2: 0 unspecified, 1 narrow, 2 wide
	shiftFontWidth = 1
	maskAspect     = 0x18 // bits 3-4: 0 unspecified, 1 on, 2 off
	shiftAspect    = 3
)

// Outcome classifies a parse attempt. All values are informational; none of
// them stops a load.
type Outcome int

const (
	// OutcomeNoHeader means the buffer is too short or carries no trailer tag.
	OutcomeNoHeader Outcome = iota
	// OutcomeUnsupported means a trailer exists but its data or file type is
	// not one the viewer renders.
	OutcomeUnsupported
	// OutcomeIgnored means a valid trailer was found but the caller opted out
	// of applying it.
	OutcomeIgnored
	// OutcomeFontUnresolved means the trailer was applied but its font name
	// matched nothing; the default font is used.
	OutcomeFontUnresolved
	// OutcomeResolved means the trailer was applied in full.
	OutcomeResolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnsupported:
		return "unsupported data/file type"
	case OutcomeIgnored:
		return "valid but ignored"
	case OutcomeFontUnresolved:
		return "valid, font unresolved"
	case OutcomeResolved:
		return "valid and fully resolved"
	default:
		return "no header"
	}
}

// TriState models the trailer's three-valued flags.
type TriState int

const (
	TriUnspecified TriState = iota
	TriOn
	TriOff
)

// Record is the structured result of parsing a trailer. Option fields are
// pointers; nil means the record does not specify the value.
type Record struct {
	HasRecord     bool
	Outcome       Outcome
	Columns       *uint16
	ICEColors     *bool
	WideFont      *bool
	AspectCorrect *bool
	FontID        *FontID
	FontName      string
}

func u16ptr(v uint16) *uint16 { return &v }
func boolptr(v bool) *bool    { return &v }

// Parse inspects the trailing RecordLength bytes of buf. Buffers shorter
// than one record, or whose trailer does not begin with the magic tag,
// yield a Record with HasRecord=false and OutcomeNoHeader.
func Parse(buf []byte) Record {
	if len(buf) < RecordLength {
		return Record{Outcome: OutcomeNoHeader}
	}
	t := buf[len(buf)-RecordLength:]
	if [5]byte(t[:5]) != magic {
		return Record{Outcome: OutcomeNoHeader}
	}

	rec := Record{HasRecord: true}

	var columns uint16
	switch t[offDataType] {
	case dataTypeCharacter:
		columns = binary.LittleEndian.Uint16(t[offTInfo1 : offTInfo1+2])
	case dataTypeBinaryText:
		// packed binary text stores half the column count in the file type
		columns = uint16(t[offFileType]) * 2
	default:
		rec.Outcome = OutcomeUnsupported
		return rec
	}
	if columns > 0 {
		rec.Columns = u16ptr(columns)
	}

	flags := t[offFlags]
	rec.ICEColors = boolptr(flags&flagICE != 0)
	switch (flags & maskFontWidth) >> shiftFontWidth {
	case 1:
		rec.WideFont = boolptr(false)
	case 2:
		rec.WideFont = boolptr(true)
	}
	switch (flags & maskAspect) >> shiftAspect {
	case 1:
		rec.AspectCorrect = boolptr(true)
	case 2:
		rec.AspectCorrect = boolptr(false)
	}

	rec.FontName = cstring(t[offFontName : offFontName+fontNameLen])
	if id, ok := ResolveFont(rec.FontName); ok {
		rec.FontID = &id
		rec.Outcome = OutcomeResolved
	} else {
		rec.Outcome = OutcomeFontUnresolved
	}
	return rec
}

// cstring cuts a fixed-width ASCII field at its first NUL.
func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
