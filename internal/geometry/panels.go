/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

// minPanels is the smallest strip count worth showing; below that a plain
// Fit view reads better and panel mode reports itself unavailable.
const minPanels = 3

// DefaultPanelGap is the on-screen spacing between strips, in pixels.
const DefaultPanelGap = 8.0

// Panels lays a document out as N congruent strips for screens whose aspect
// diverges strongly from the document's. The screen's longer dimension is the
// major axis; each strip spans it fully and shows a successive crop of the
// document, like a horizontally scrolled marquee frozen into stacked rows.
//
// N is probed upward from 1: at each candidate the document's major extent is
// split across N screens, which fixes the strip's minor size; probing stops
// as soon as the strips no longer fit the minor axis, and the last fitting N
// wins. Fewer than minPanels strips means the layout is unavailable and an
// empty slice is returned.
//
// Each returned Rect holds the full scaled document, offset along the major
// axis by i*step with step = (screenMajor - panelMajor) / (N - 1); the caller
// clips every strip to its row.
func Panels(doc, screen Size, gap float64) []Rect {
	if !doc.Valid() || !screen.Valid() {
		return nil
	}
	if gap < 0 {
		gap = 0
	}

	horizontal := screen.W >= screen.H // strips stacked top to bottom
	maj, minr := screen.W, screen.H
	dMaj, dMin := doc.W, doc.H
	if !horizontal {
		maj, minr = screen.H, screen.W
		dMaj, dMin = doc.H, doc.W
	}

	n := 0
	stripMinor := 0.0
	for probe := 1; ; probe++ {
		zoom := float64(probe) * maj / dMaj
		pm := dMin * zoom
		if float64(probe)*pm+float64(probe-1)*gap > minr {
			break
		}
		n, stripMinor = probe, pm
	}
	if n < minPanels {
		return nil
	}

	zoom := stripMinor / dMin
	panelMajor := dMaj * zoom
	step := (maj - panelMajor) / float64(n-1)
	block := float64(n)*stripMinor + float64(n-1)*gap
	start := (minr - block) / 2.0

	rects := make([]Rect, n)
	for i := range rects {
		majorOff := float64(i) * step
		minorOff := start + float64(i)*(stripMinor+gap)
		if horizontal {
			rects[i] = Rect{X: majorOff, Y: minorOff, W: panelMajor, H: stripMinor}
		} else {
			rects[i] = Rect{X: minorOff, Y: majorOff, W: stripMinor, H: panelMajor}
		}
	}
	return rects
}

// PanelClips returns the screen-space row rectangles matching the layout of
// Panels for the same inputs: the regions each strip must be clipped to.
func PanelClips(doc, screen Size, gap float64) []Rect {
	strips := Panels(doc, screen, gap)
	if strips == nil {
		return nil
	}
	horizontal := screen.W >= screen.H
	clips := make([]Rect, len(strips))
	for i, s := range strips {
		if horizontal {
			clips[i] = Rect{X: 0, Y: s.Y, W: screen.W, H: s.H}
		} else {
			clips[i] = Rect{X: s.X, Y: 0, W: s.W, H: screen.H}
		}
	}
	return clips
}

// PanelCount reports how many strips Panels would produce, zero when panel
// mode is unavailable for the combination.
func PanelCount(doc, screen Size, gap float64) int {
	if !doc.Valid() || !screen.Valid() {
		return 0
	}
	if gap < 0 {
		gap = 0
	}
	maj, minr := screen.W, screen.H
	dMaj, dMin := doc.W, doc.H
	if screen.W < screen.H {
		maj, minr = screen.H, screen.W
		dMaj, dMin = doc.H, doc.W
	}
	n := 0
	for probe := 1; ; probe++ {
		pm := dMin * float64(probe) * maj / dMaj
		if float64(probe)*pm+float64(probe-1)*gap > minr {
			break
		}
		n = probe
	}
	if n < minPanels {
		return 0
	}
	return n
}
