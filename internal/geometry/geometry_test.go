/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import (
	"math"
	"testing"
)

func TestModeRoundTrip(t *testing.T) {
	for _, m := range []Mode{ModeFree, ModeFit, ModeFill, ModePanel} {
		got, ok := ParseMode(m.String())
		if !ok || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseMode("sideways"); ok {
		t.Error("ParseMode accepted an unknown token")
	}
}

func TestModeAutofit(t *testing.T) {
	if ModeFree.Autofit() || ModePanel.Autofit() {
		t.Error("free/panel must not be autofit")
	}
	if !ModeFit.Autofit() || !ModeFill.Autofit() {
		t.Error("fit/fill must be autofit")
	}
}

func TestSizeValid(t *testing.T) {
	if !(Size{W: 1, H: 1}).Valid() {
		t.Error("1x1 must be valid")
	}
	for _, s := range []Size{{}, {W: -1, H: 1}, {W: 1, H: math.NaN()}, {W: math.Inf(1), H: 1}} {
		if s.Valid() {
			t.Errorf("%+v must be invalid", s)
		}
	}
}

func TestSafeValue(t *testing.T) {
	if got := SafeValue(2.5, 1); got != 2.5 {
		t.Errorf("valid value replaced: %v", got)
	}
	for _, v := range []float64{0, -3, math.NaN(), math.Inf(-1)} {
		if got := SafeValue(v, 7); got != 7 {
			t.Errorf("SafeValue(%v) = %v, want last value 7", v, got)
		}
	}
}
