/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sauce

import "strings"

// FontID identifies a rasterizer font. The values mirror the catalog of the
// text-art renderer the loader is wired to.
type FontID uint8

const (
	FontCP437 FontID = iota
	FontCP437_80x50
	FontCP720
	FontCP737
	FontCP775
	FontCP850
	FontCP852
	FontCP855
	FontCP857
	FontCP860
	FontCP861
	FontCP862
	FontCP863
	FontCP865
	FontCP866
	FontCP869
	FontTopaz
	FontTopazPlus
	FontTopaz500
	FontTopaz500Plus
	FontMicroKnight
	FontMicroKnightPlus
	FontMoSoul
	FontPotNoodle
	FontTerminus
	FontSpleen
)

// DefaultFont is used when no record is present or the name resolves to
// nothing.
const DefaultFont = FontCP437

// codePageFonts whitelists the recognized DOS code pages by number.
var codePageFonts = map[int]FontID{
	437: FontCP437,
	720: FontCP720,
	737: FontCP737,
	775: FontCP775,
	850: FontCP850,
	852: FontCP852,
	855: FontCP855,
	857: FontCP857,
	860: FontCP860,
	861: FontCP861,
	862: FontCP862,
	863: FontCP863,
	865: FontCP865,
	866: FontCP866,
	869: FontCP869,
}

// CanonicalFont reduces a trailer font name for table lookup: letters are
// lowercased and kept, digits are kept and also accumulated into the last
// unbroken run of digits, every other character is dropped. A '+' anywhere
// in the name sets the plus flag.
func CanonicalFont(name string) (canon string, num int, plus bool) {
	var b strings.Builder
	inRun := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
			inRun = false
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
			inRun = false
		case c >= '0' && c <= '9':
			b.WriteByte(c)
			if !inRun {
				num = 0
				inRun = true
			}
			num = num*10 + int(c-'0')
		case c == '+':
			plus = true
			inRun = false
		default:
			inRun = false
		}
	}
	return b.String(), num, plus
}

// ResolveFont maps a trailer font name onto the catalog. The second result
// is false when nothing matches and the caller should fall back to
// DefaultFont.
func ResolveFont(name string) (FontID, bool) {
	canon, num, plus := CanonicalFont(name)
	if canon == "" {
		return DefaultFont, false
	}

	if strings.HasPrefix(canon, "ibm") || strings.Contains(canon, "vga") || strings.Contains(canon, "ega") {
		if strings.Contains(canon, "vga50") || strings.Contains(canon, "ega43") {
			return FontCP437_80x50, true
		}
		if f, ok := codePageFonts[num]; ok {
			return f, true
		}
		return FontCP437, true
	}

	switch {
	case strings.Contains(canon, "topaz"):
		// Topaz "1" is the Kickstart 1.x (500-line) face, "2" the 2.0+ one
		if num == 500 || num == 1 {
			if plus {
				return FontTopaz500Plus, true
			}
			return FontTopaz500, true
		}
		if plus {
			return FontTopazPlus, true
		}
		return FontTopaz, true
	case strings.Contains(canon, "knight"):
		if plus {
			return FontMicroKnightPlus, true
		}
		return FontMicroKnight, true
	case strings.Contains(canon, "mosoul"):
		return FontMoSoul, true
	case strings.Contains(canon, "noodle"):
		return FontPotNoodle, true
	case strings.Contains(canon, "terminus"):
		return FontTerminus, true
	case strings.Contains(canon, "spleen"):
		return FontSpleen, true
	}
	return DefaultFont, false
}

func (f FontID) String() string {
	switch f {
	case FontCP437_80x50:
		return "cp437 80x50"
	case FontCP720:
		return "cp720"
	case FontCP737:
		return "cp737"
	case FontCP775:
		return "cp775"
	case FontCP850:
		return "cp850"
	case FontCP852:
		return "cp852"
	case FontCP855:
		return "cp855"
	case FontCP857:
		return "cp857"
	case FontCP860:
		return "cp860"
	case FontCP861:
		return "cp861"
	case FontCP862:
		return "cp862"
	case FontCP863:
		return "cp863"
	case FontCP865:
		return "cp865"
	case FontCP866:
		return "cp866"
	case FontCP869:
		return "cp869"
	case FontTopaz:
		return "topaz"
	case FontTopazPlus:
		return "topaz+"
	case FontTopaz500:
		return "topaz500"
	case FontTopaz500Plus:
		return "topaz500+"
	case FontMicroKnight:
		return "microknight"
	case FontMicroKnightPlus:
		return "microknight+"
	case FontMoSoul:
		return "mosoul"
	case FontPotNoodle:
		return "pot-noodle"
	case FontTerminus:
		return "terminus"
	case FontSpleen:
		return "spleen"
	default:
		return "cp437"
	}
}
