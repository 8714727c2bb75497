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
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/color"
	"runtime"
	"strconv"
	"sync"

	"github.com/ctessum/requestcache"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	legendWidth  = 1.2 * vg.Inch
	legendHeight = 5 * vg.Inch

	legendFontSize          = vg.Length(8)   // points
	legendLineWidth         = vg.Length(0.5) // points
	legendGradientLineWidth = vg.Length(0.2) // points
	legendTicks             = 6
)

var (
	blackColor = color.NRGBA{0, 0, 0, 255}
	whiteColor = color.NRGBA{255, 255, 255, 255}
)

// RenderLegend draws a vertical color bar for the given scale as a
// PNG image. The bar has extend arrows at both ends, indicating that
// out-of-range values are clamped to the end colors rather than
// dropped, tick labels along the bar, and the label text above it.
// The output depends only on scale and label, so repeated calls with
// equal arguments produce identical bytes.
func RenderLegend(scale JetScale, label string) ([]byte, error) {
	img := vgimg.New(legendWidth, legendHeight)
	dc := draw.New(img)
	if err := drawColorBar(&dc, scale, label); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("wardaq: encoding legend PNG: %v", err)
	}
	return buf.Bytes(), nil
}

// drawColorBar draws the color bar, arrows, ticks, and label onto dc.
func drawColorBar(dc *draw.Canvas, scale JetScale, label string) error {
	font, err := vg.MakeFont("Helvetica", legendFontSize)
	if err != nil {
		return fmt.Errorf("wardaq: loading legend font: %v", err)
	}
	textStyle := draw.TextStyle{Color: blackColor, Font: font}
	ls := draw.LineStyle{Color: blackColor, Width: legendLineWidth}

	const (
		topPad   = vg.Length(2) // points
		wPad     = vg.Length(4)
		tickLen  = vg.Length(3)
		tickPad  = vg.Length(2)
		labelPad = vg.Length(3)
	)
	barWidth := vg.Length(0.22 * vg.Inch)
	arrowLen := barWidth * 0.9

	barLeft := dc.Min.X + wPad
	barRight := barLeft + barWidth
	barTop := dc.Max.Y - topPad - textStyle.Height(label) - labelPad - arrowLen
	barBottom := dc.Min.Y + textStyle.Height("0") + arrowLen

	// White background.
	dc.FillPolygon(whiteColor, []vg.Point{
		{X: dc.Min.X, Y: dc.Min.Y}, {X: dc.Max.X, Y: dc.Min.Y},
		{X: dc.Max.X, Y: dc.Max.Y}, {X: dc.Min.X, Y: dc.Max.Y},
		{X: dc.Min.X, Y: dc.Min.Y}})

	// Gradient from a stack of thin horizontal lines.
	span := scale.Max - scale.Min
	for y := barBottom; y < barTop; y += legendGradientLineWidth * 0.9 {
		v := scale.Min + span*float64((y-barBottom)/(barTop-barBottom))
		gls := draw.LineStyle{Color: scale.Color(v), Width: legendGradientLineWidth}
		dc.StrokeLine2(gls, barLeft, y, barRight, y)
	}
	dc.StrokeLines(ls, []vg.Point{
		{X: barLeft, Y: barBottom}, {X: barRight, Y: barBottom},
		{X: barRight, Y: barTop}, {X: barLeft, Y: barTop},
		{X: barLeft, Y: barBottom}})

	// Extend arrows: the clamp colors for values beyond the ends.
	barMid := (barLeft + barRight) / 2
	low := []vg.Point{
		{X: barLeft, Y: barBottom}, {X: barRight, Y: barBottom},
		{X: barMid, Y: barBottom - arrowLen}, {X: barLeft, Y: barBottom}}
	dc.FillPolygon(scale.Color(scale.Min-1), low)
	dc.StrokeLines(ls, low)
	high := []vg.Point{
		{X: barLeft, Y: barTop}, {X: barRight, Y: barTop},
		{X: barMid, Y: barTop + arrowLen}, {X: barLeft, Y: barTop}}
	dc.FillPolygon(scale.Color(scale.Max+1), high)
	dc.StrokeLines(ls, high)

	// Tick marks and labels on the right side of the bar.
	for i := 0; i < legendTicks; i++ {
		frac := float64(i) / float64(legendTicks-1)
		v := scale.Min + span*frac
		y := barBottom + vg.Length(frac)*(barTop-barBottom)
		dc.StrokeLine2(ls, barRight, y, barRight+tickLen, y)
		sty := textStyle
		sty.XAlign = 0
		sty.YAlign = -0.5
		dc.FillText(sty, vg.Point{X: barRight + tickLen + tickPad, Y: y},
			strconv.FormatFloat(v, 'g', -1, 64))
	}

	sty := textStyle
	sty.XAlign = -0.5
	sty.YAlign = -1
	dc.FillText(sty, vg.Point{X: dc.Min.X + (dc.Max.X-dc.Min.X)/2, Y: dc.Max.Y - topPad}, label)
	return nil
}

// legendCache holds previously rendered legends, keyed by their scale
// parameters and label. Legend content never changes for fixed
// parameters, so caching is invisible to callers.
var legendCache *requestcache.Cache

var loadLegendCacheOnce sync.Once

type legendRequest struct {
	Scale JetScale
	Label string
}

// Legend returns the legend PNG for the given parameters, rendering
// it at most once per distinct parameter set.
func Legend(scale JetScale, label string) ([]byte, error) {
	loadLegendCacheOnce.Do(func() {
		legendCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			r := req.(legendRequest)
			return RenderLegend(r.Scale, r.Label)
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(100))
	})
	req := legendRequest{Scale: scale, Label: label}
	key := fmt.Sprintf("legend_%g_%g_%g_%s", scale.Min, scale.Max, scale.Midpoint, label)
	r := legendCache.NewRequest(context.Background(), req, key)
	result, err := r.Result()
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// LegendDataURI returns the legend PNG encoded as a data URI for
// inline embedding in the dashboard page.
func LegendDataURI(scale JetScale, label string) (string, error) {
	b, err := Legend(scale, label)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b), nil
}
