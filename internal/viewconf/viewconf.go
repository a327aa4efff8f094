/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package viewconf reads and writes the per-document display configuration:
// a line-oriented "key value" format with '#' comments and case-insensitive
// keys. One sidecar file per document holds exactly this format; it is
// loaded opportunistically when a document opens and saved on request.
// A bad line is reported and skipped, never aborting the rest of the file.
package viewconf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"pixelview/internal/geometry"
	"pixelview/internal/sauce"
)

// SidecarSuffix is appended to a document path to locate its sidecar.
const SidecarSuffix = ".pxv"

// Settings are the values a config file can carry. Pointer fields are nil
// when the file does not mention the key; RelX/RelY are fractions of the pan
// range and only meaningful in free mode.
type Settings struct {
	Mode        *geometry.Mode
	Integer     *bool
	Aspect      *float64 // 0.01 .. 100
	MaxCrop     *float64 // fraction 0 .. 0.999
	Zoom        *float64 // 1e-6 .. 1e6
	RelX        *float64 // fraction 0 .. 1
	RelY        *float64
	ScrollSpeed *float64
	// Ansi carries the ansi_<name> family verbatim, applied to the
	// render options by the controller.
	Ansi map[string]int
}

// ParseError describes one rejected line. Parsing continues past it.
type ParseError struct {
	Line int
	Key  string
	Msg  string
}

func (e ParseError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: key %q: %s", e.Line, e.Key, e.Msg)
}

// SidecarPath returns the sidecar location for a document.
func SidecarPath(docPath string) string { return docPath + SidecarSuffix }

// Load reads the config file at path. A missing file is not an error; it
// returns empty settings.
func Load(path string) (Settings, []ParseError, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil, nil
		}
		return Settings{}, nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	s, errs := Parse(f)
	return s, errs, nil
}

// Parse reads the config format from r.
func Parse(r io.Reader) (Settings, []ParseError) {
	var s Settings
	var errs []ParseError
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		key := line
		value := ""
		if i := strings.IndexFunc(line, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
			key, value = line[:i], strings.TrimSpace(line[i+1:])
		}
		key = strings.ToLower(key)
		value = strings.ToLower(value)
		if err := s.apply(key, value); err != nil {
			errs = append(errs, ParseError{Line: lineNo, Key: key, Msg: err.Error()})
		}
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, ParseError{Line: lineNo, Msg: err.Error()})
	}
	return s, errs
}

func (s *Settings) apply(key, value string) error {
	switch key {
	case "mode":
		m, ok := geometry.ParseMode(value)
		if !ok {
			return fmt.Errorf("invalid enumeration value %q", value)
		}
		s.Mode = &m
		return nil
	case "integer":
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		s.Integer = &b
		return nil
	case "aspect":
		return setFloat(&s.Aspect, value, 1e-2, 1e2, 1.0)
	case "maxcrop":
		// stored as a percentage in the file
		return setFloat(&s.MaxCrop, value, 0.0, 99.9, 0.01)
	case "zoom":
		return setFloat(&s.Zoom, value, 1e-6, 1e6, 1.0)
	case "relx":
		return setFloat(&s.RelX, value, 0.0, 100.0, 0.01)
	case "rely":
		return setFloat(&s.RelY, value, 0.0, 100.0, 0.01)
	case "scrollspeed":
		return setFloat(&s.ScrollSpeed, value, 0.0, 1e10, 1.0)
	}
	if name, ok := strings.CutPrefix(key, "ansi_"); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid numerical value %q", value)
		}
		if s.Ansi == nil {
			s.Ansi = make(map[string]int)
		}
		s.Ansi[name] = n
		return nil
	}
	return fmt.Errorf("unrecognized key")
}

func setFloat(dst **float64, value string, lo, hi, scale float64) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid numerical value %q", value)
	}
	if v < lo || v > hi {
		return fmt.Errorf("value %g out of range (%g...%g)", v, lo, hi)
	}
	v *= scale
	*dst = &v
	return nil
}

func parseBool(value string) (bool, error) {
	switch value {
	case "yes", "true", "on":
		return true, nil
	case "no", "false", "off":
		return false, nil
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f != 0, nil
	}
	return false, fmt.Errorf("invalid enumeration value %q", value)
}

// Save writes the settings to path in the same format Load reads. Only the
// set fields are written, mirroring what the viewer historically persisted.
func Save(path string, s Settings) error {
	var b strings.Builder
	b.WriteString("# pixelview display configuration file\n")
	if s.Aspect != nil {
		fmt.Fprintf(&b, "aspect %g\n", *s.Aspect)
	}
	if s.MaxCrop != nil {
		fmt.Fprintf(&b, "maxcrop %.1f\n", *s.MaxCrop*100.0)
	}
	if s.Mode != nil {
		fmt.Fprintf(&b, "mode %s\n", s.Mode.String())
	}
	if s.Integer != nil {
		v := "no"
		if *s.Integer {
			v = "yes"
		}
		fmt.Fprintf(&b, "integer %s\n", v)
	}
	if s.Zoom != nil {
		fmt.Fprintf(&b, "zoom %g\n", *s.Zoom)
	}
	if s.RelX != nil {
		fmt.Fprintf(&b, "relx %.1f\n", clampPct(*s.RelX*100.0))
	}
	if s.RelY != nil {
		fmt.Fprintf(&b, "rely %.1f\n", clampPct(*s.RelY*100.0))
	}
	if s.ScrollSpeed != nil {
		fmt.Fprintf(&b, "scrollspeed %g\n", *s.ScrollSpeed)
	}
	for name, v := range s.Ansi {
		fmt.Fprintf(&b, "ansi_%s %d\n", name, v)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// helpers for building settings literals in callers and tests

func ModeP(m geometry.Mode) *geometry.Mode { return &m }
func BoolP(v bool) *bool                   { return &v }
func FloatP(v float64) *float64            { return &v }

// ApplyAnsi forwards the ansi_<name> family into render options, reporting
// each rejected entry the same way a bad line is reported.
func ApplyAnsi(opt *sauce.RenderOptions, ansi map[string]int) []ParseError {
	var errs []ParseError
	for name, v := range ansi {
		if err := opt.Set(name, v); err != nil {
			errs = append(errs, ParseError{Key: "ansi_" + name, Msg: err.Error()})
		}
	}
	return errs
}
