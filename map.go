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

	"github.com/ctessum/geom/encoding/geojson"
	"gonum.org/v1/gonum/floats"
)

// TileStyleOSM is the base tile layer style for map figures.
const TileStyleOSM = "open-street-map"

// DefaultZoom is the initial map zoom level.
const DefaultZoom = 10.6

// mapOpacity is the fill opacity of ward polygons.
const mapOpacity = 0.8

// A LatLon is a geographic coordinate pair.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// A MapFeature is one ward polygon on a map figure, colored by its
// PM2.5 value. Features keep the order of the subset they were
// rendered from, so feature index i always corresponds to subset
// record i.
type MapFeature struct {
	Geometry *geojson.Geometry `json:"geometry"`
	Color    string            `json:"color"` // Fill color as an HTML hex string.
	Ward     string            `json:"ward"`
	Area     string            `json:"area"`
	Value    float64           `json:"value"`
	Hover    string            `json:"hover"` // HTML hover text.
}

// A MapFigure is a renderable choropleth map: one colored polygon per
// record with hover metadata, plus the viewport framing for the
// hosting shell. It carries no on-map color scale; the legend is
// rendered separately.
type MapFigure struct {
	Features  []*MapFeature `json:"features"`
	Center    LatLon        `json:"center"`
	Zoom      float64       `json:"zoom"`
	TileStyle string        `json:"tileStyle"`
	Opacity   float64       `json:"opacity"`
}

// RenderConfig holds the fixed rendering parameters for map figures
// and legends.
type RenderConfig struct {
	Scale       JetScale // Value-to-color mapping.
	Zoom        float64  // Initial map zoom level.
	LegendLabel string   // Measured quantity and unit, e.g. "PM 2.5 (µg/m³)".
}

// RenderMap converts a filtered subset into a map figure. The figure
// center is the mean of the polygon centroids of the subset,
// recomputed per render. An empty subset produces a figure with no
// features and a zero-value center; the hosting shell is expected to
// keep its previous viewport in that case.
func RenderMap(subset Subset, cfg RenderConfig) (*MapFigure, error) {
	fig := &MapFigure{
		Features:  make([]*MapFeature, 0, len(subset)),
		Zoom:      cfg.Zoom,
		TileStyle: TileStyleOSM,
		Opacity:   mapOpacity,
	}
	if len(subset) == 0 {
		return fig, nil
	}
	lons := make([]float64, len(subset))
	lats := make([]float64, len(subset))
	for i, r := range subset {
		g, err := geojson.ToGeoJSON(r.Polygonal)
		if err != nil {
			return nil, fmt.Errorf("wardaq: encoding geometry for ward %s: %v", r.Ward, err)
		}
		fig.Features = append(fig.Features, &MapFeature{
			Geometry: g,
			Color:    cfg.Scale.HexColor(r.PM25),
			Ward:     r.Ward,
			Area:     r.Area,
			Value:    r.PM25,
			Hover: fmt.Sprintf("<b>Ward:</b> %s<br><b>Area:</b> %s<br><b>PM2.5:</b> %.2f",
				r.Ward, r.Area, r.PM25),
		})
		c := r.Centroid()
		lons[i] = c.X
		lats[i] = c.Y
	}
	n := float64(len(subset))
	fig.Center = LatLon{
		Lat: floats.Sum(lats) / n,
		Lon: floats.Sum(lons) / n,
	}
	return fig, nil
}
