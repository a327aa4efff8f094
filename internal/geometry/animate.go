/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package geometry

import "math"

// DefaultAnimSpeed is the per-frame approach fraction for view transitions.
const DefaultAnimSpeed = 0.125

// animConvergeFrac scales the convergence threshold by the target's own
// magnitude, so animation stops without waiting for exact float equality.
const animConvergeFrac = 1e-4

// Animate moves current one frame towards target by the exponential approach
// current += speed * (target - current) per component. The second result is
// true once the summed absolute deltas fall below a small fraction of the
// target's scale; the caller then pins current to target and stops animating.
func Animate(current, target Area, speed float64) (Area, bool) {
	if speed <= 0 || speed > 1 || math.IsNaN(speed) {
		speed = DefaultAnimSpeed
	}
	next := Area{
		ScaleX:  current.ScaleX + speed*(target.ScaleX-current.ScaleX),
		ScaleY:  current.ScaleY + speed*(target.ScaleY-current.ScaleY),
		OffsetX: current.OffsetX + speed*(target.OffsetX-current.OffsetX),
		OffsetY: current.OffsetY + speed*(target.OffsetY-current.OffsetY),
	}
	delta := math.Abs(target.ScaleX-next.ScaleX) +
		math.Abs(target.ScaleY-next.ScaleY) +
		math.Abs(target.OffsetX-next.OffsetX) +
		math.Abs(target.OffsetY-next.OffsetY)
	scale := math.Abs(target.ScaleX) + math.Abs(target.ScaleY)
	if scale < 1.0 {
		scale = 1.0
	}
	if delta < animConvergeFrac*scale {
		return target, true
	}
	return next, false
}
