/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package sauce

import "fmt"

// RenderMode selects how text-art colors are produced.
type RenderMode int

const (
	RenderANSI  RenderMode = iota // interpret escape sequences
	RenderPlain                   // raw code-page text, default colors
)

// RenderOptions are the knobs handed to the text-art rasterizer, merged from
// user configuration and from a file's trailer record. The controller owns
// one instance per loaded document and rebuilds it on each load unless
// configuration says otherwise.
type RenderOptions struct {
	TabsToSpaces bool
	UseRecord    bool // apply trailer record values when present
	WideFont     bool
	ICEColors    bool
	Font         FontID
	AutoColumns  bool
	Columns      int
	Mode         RenderMode
	Aspect       float64 // pixel aspect hint, 0 = unspecified
}

// DefaultRenderOptions mirrors the historical renderer defaults.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		TabsToSpaces: true,
		UseRecord:    true,
		Font:         DefaultFont,
		AutoColumns:  true,
		Columns:      80,
		Mode:         RenderANSI,
	}
}

// Merge applies a parsed trailer record and returns the resulting outcome.
// When UseRecord is unset a valid record is reported as ignored; in every
// other case the record's optional fields overwrite the corresponding knobs.
func (o *RenderOptions) Merge(rec Record) Outcome {
	if !rec.HasRecord {
		return rec.Outcome
	}
	if rec.Outcome == OutcomeUnsupported {
		return rec.Outcome
	}
	if !o.UseRecord {
		return OutcomeIgnored
	}
	if rec.Columns != nil {
		o.Columns = int(*rec.Columns)
		o.AutoColumns = false
	}
	if rec.ICEColors != nil {
		o.ICEColors = *rec.ICEColors
	}
	if rec.WideFont != nil {
		o.WideFont = *rec.WideFont
	}
	if rec.AspectCorrect != nil {
		if *rec.AspectCorrect {
			o.Aspect = LegacyAspect
		} else {
			o.Aspect = 1.0
		}
	}
	if rec.FontID != nil {
		o.Font = *rec.FontID
	}
	return rec.Outcome
}

// LegacyAspect is the pixel aspect of 80-column EGA/VGA text modes on a 4:3
// monitor, applied when a record asks for aspect correction.
const LegacyAspect = 1.35

// Set adjusts a single knob by its config-file name (the part after the
// "ansi_" prefix) and integer value. Unknown names and out-of-range values
// return an error and leave the options unchanged.
func (o *RenderOptions) Set(name string, value int) error {
	switch name {
	case "tabs":
		o.TabsToSpaces = value != 0
	case "sauce", "use_sauce":
		o.UseRecord = value != 0
	case "wide":
		o.WideFont = value != 0
	case "ice":
		o.ICEColors = value != 0
	case "font":
		if value < 0 || value > int(FontSpleen) {
			return fmt.Errorf("font id %d out of range", value)
		}
		o.Font = FontID(value)
	case "auto_columns":
		o.AutoColumns = value != 0
	case "columns":
		if value < 1 || value > 4096 {
			return fmt.Errorf("column count %d out of range", value)
		}
		o.Columns = value
		o.AutoColumns = false
	case "mode":
		switch value {
		case 0:
			o.Mode = RenderANSI
		case 1:
			o.Mode = RenderPlain
		default:
			return fmt.Errorf("render mode %d out of range", value)
		}
	default:
		return fmt.Errorf("unknown option %q", name)
	}
	return nil
}
