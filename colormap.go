/*
Copyright © 2024 the WardAQ authors.
This file is part of WardAQ.

WardAQ is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

WardAQ is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with WardAQ.  If not, see <http://www.gnu.org/licenses/>.
*/

package wardaq

import (
	"fmt"
	"image/color"
)

// jetStops is the jet rainbow gradient (blue through green and yellow
// to red) anchored on scale positions in [-1, 1].
var jetStops = struct {
	Val, R, G, B []float64
}{
	Val: []float64{-1, -0.866666666666667, -0.733333333333333, -0.6,
		-0.466666666666667, -0.333333333333333, -0.2, -0.0666666666666668,
		0.0666666666666665, 0.2, 0.333333333333333, 0.466666666666666, 0.6,
		0.733333333333333, 0.866666666666666, 1},
	R: []float64{0, 0, 0, 0, 0, 0, 66, 132, 189, 255, 255, 255,
		255, 255, 189, 132},
	G: []float64{0, 0, 66, 132, 189, 255, 255, 255, 255, 255, 189,
		132, 66, 0, 0, 0},
	B: []float64{189, 255, 255, 255, 255, 255, 189, 132, 66, 0, 0,
		0, 0, 0, 0, 0},
}

// A JetScale maps measurement values onto the jet color gradient over
// a fixed display range. Values below Min or above Max clamp to the
// respective end color rather than being rejected, and Midpoint
// anchors the center of the gradient, so the two halves of the range
// may be stretched differently.
type JetScale struct {
	Min, Max, Midpoint float64
}

// NewJetScale returns a scale over [min, max] centered at midpoint.
func NewJetScale(min, max, midpoint float64) (JetScale, error) {
	if min >= max {
		return JetScale{}, fmt.Errorf("wardaq: invalid color scale range [%g, %g]", min, max)
	}
	if midpoint <= min || midpoint >= max {
		return JetScale{}, fmt.Errorf("wardaq: color scale midpoint %g outside range (%g, %g)",
			midpoint, min, max)
	}
	return JetScale{Min: min, Max: max, Midpoint: midpoint}, nil
}

// position converts a value to a gradient position in [-1, 1],
// clamping out-of-range values to the ends.
func (s JetScale) position(v float64) float64 {
	var t float64
	if v < s.Midpoint {
		t = (v - s.Midpoint) / (s.Midpoint - s.Min)
	} else {
		t = (v - s.Midpoint) / (s.Max - s.Midpoint)
	}
	if t < -1 {
		t = -1
	} else if t > 1 {
		t = 1
	}
	return t
}

// Color returns the display color for value v.
func (s JetScale) Color(v float64) color.NRGBA {
	t := s.position(v)
	val := jetStops.Val
	for i := 1; i < len(val); i++ {
		if t <= val[i] {
			frac := (t - val[i-1]) / (val[i] - val[i-1])
			return color.NRGBA{
				R: lerp8(jetStops.R[i-1], jetStops.R[i], frac),
				G: lerp8(jetStops.G[i-1], jetStops.G[i], frac),
				B: lerp8(jetStops.B[i-1], jetStops.B[i], frac),
				A: 255,
			}
		}
	}
	// Unreachable for finite v; NaN falls through to the high end.
	last := len(val) - 1
	return color.NRGBA{
		R: uint8(jetStops.R[last]),
		G: uint8(jetStops.G[last]),
		B: uint8(jetStops.B[last]),
		A: 255,
	}
}

// HexColor returns the display color for v as an HTML hex string.
func (s JetScale) HexColor(v float64) string {
	c := s.Color(v)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func lerp8(a, b, frac float64) uint8 {
	return uint8(a + (b-a)*frac + 0.5)
}
