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
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

//go:embed public_html
var content embed.FS

// DefaultLegendLabel names the measured quantity and its unit.
const DefaultLegendLabel = "PM 2.5 (µg/m³)"

// maxDay is the largest selectable day of year. Day 366 is accepted
// and yields an empty subset for non-leap dataset years.
const maxDay = 366

// ServerConfig holds the configuration for a dashboard server.
type ServerConfig struct {
	// DataFile is the path to the ward-day CSV table.
	DataFile string

	// Year is the calendar year the dataset covers. If zero, the
	// year of the first record is used.
	Year int

	// ScaleMin, ScaleMax, and ScaleMidpoint define the fixed display
	// color scale. Zero values default to 20, 120, and 70.
	ScaleMin, ScaleMax, ScaleMidpoint float64

	// Zoom is the initial map zoom level; zero defaults to 10.6.
	Zoom float64

	// LegendLabel is the legend label text; empty defaults to
	// DefaultLegendLabel.
	LegendLabel string
}

func (c *ServerConfig) setDefaults() {
	if c.ScaleMin == 0 && c.ScaleMax == 0 {
		c.ScaleMin, c.ScaleMax = 20, 120
	}
	if c.ScaleMidpoint == 0 {
		c.ScaleMidpoint = (c.ScaleMin + c.ScaleMax) / 2
	}
	if c.Zoom == 0 {
		c.Zoom = DefaultZoom
	}
	if c.LegendLabel == "" {
		c.LegendLabel = DefaultLegendLabel
	}
}

// Server serves the dashboard: an embedded single-page UI, the map
// figure API, the legend image, and spreadsheet downloads.
type Server struct {
	ds   *Dataset
	cfg  RenderConfig
	mux  *http.ServeMux
	tmpl *template.Template

	// Log receives server log messages.
	Log *logrus.Logger
}

// NewServer loads the dataset named by c and returns a dashboard
// server for it. A load failure is fatal to server creation; there is
// no degraded mode.
func NewServer(c *ServerConfig) (*Server, error) {
	c.setDefaults()
	scale, err := NewJetScale(c.ScaleMin, c.ScaleMax, c.ScaleMidpoint)
	if err != nil {
		return nil, err
	}
	ds, err := LoadDataset(c.DataFile, c.Year)
	if err != nil {
		return nil, err
	}
	s := &Server{
		ds: ds,
		cfg: RenderConfig{
			Scale:       scale,
			Zoom:        c.Zoom,
			LegendLabel: c.LegendLabel,
		},
		Log: logrus.StandardLogger(),
	}
	s.tmpl, err = template.ParseFS(content, "public_html/index.html")
	if err != nil {
		return nil, fmt.Errorf("wardaq: parsing index template: %v", err)
	}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/", s.indexHandler)
	s.mux.HandleFunc("/api/map", s.mapHandler)
	s.mux.HandleFunc("/api/meta", s.metaHandler)
	s.mux.HandleFunc("/legend", s.legendHandler)
	s.mux.HandleFunc("/download", s.downloadHandler)
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Dataset returns the loaded dataset.
func (s *Server) Dataset() *Dataset { return s.ds }

// An UpdateResponse carries everything the dashboard page needs after
// a selection change.
type UpdateResponse struct {
	Figure    *MapFigure `json:"figure"`
	Legend    string     `json:"legend"` // PNG data URI.
	DateLabel string     `json:"dateLabel"`
}

// Update computes the three render outputs for one user interaction.
// It is pure with respect to the selection: the same (city, day) pair
// always produces the same response.
func (s *Server) Update(city string, day int) (*UpdateResponse, error) {
	fig, err := RenderMap(s.ds.Filter(city, day), s.cfg)
	if err != nil {
		return nil, err
	}
	legend, err := LegendDataURI(s.cfg.Scale, s.cfg.LegendLabel)
	if err != nil {
		return nil, err
	}
	return &UpdateResponse{
		Figure:    fig,
		Legend:    legend,
		DateLabel: FormatDay(day, s.ds.Year()),
	}, nil
}

// parseSelection extracts the city and day query parameters.
func parseSelection(r *http.Request) (city string, day int, err error) {
	q := r.URL.Query()
	city = q.Get("city")
	if city == "" {
		return "", 0, fmt.Errorf("missing city parameter")
	}
	day, err = strconv.Atoi(q.Get("day"))
	if err != nil {
		return "", 0, fmt.Errorf("parsing day parameter: %v", err)
	}
	if day < 1 || day > maxDay {
		return "", 0, fmt.Errorf("day %d out of range [1, %d]", day, maxDay)
	}
	return city, day, nil
}

func (s *Server) mapHandler(w http.ResponseWriter, r *http.Request) {
	city, day, err := parseSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := s.Update(city, day)
	if err != nil {
		s.Log.WithError(err).Error("wardaq: rendering update")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.Log.WithError(err).Error("wardaq: encoding update response")
	}
}

// A Meta describes the dataset to the hosting shell: available
// cities, the selectable day range with month marks, and the fixed
// color scale.
type Meta struct {
	Cities     []string    `json:"cities"`
	Year       int         `json:"year"`
	DayMin     int         `json:"dayMin"`
	DayMax     int         `json:"dayMax"`
	MonthMarks []MonthMark `json:"monthMarks"`
	ScaleMin   float64     `json:"scaleMin"`
	ScaleMax   float64     `json:"scaleMax"`
	Zoom       float64     `json:"zoom"`
}

func (s *Server) meta() *Meta {
	return &Meta{
		Cities:     s.ds.Cities(),
		Year:       s.ds.Year(),
		DayMin:     1,
		DayMax:     365,
		MonthMarks: MonthMarks(s.ds.Year()),
		ScaleMin:   s.cfg.Scale.Min,
		ScaleMax:   s.cfg.Scale.Max,
		Zoom:       s.cfg.Zoom,
	}
}

func (s *Server) metaHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.meta()); err != nil {
		s.Log.WithError(err).Error("wardaq: encoding meta response")
	}
}

func (s *Server) legendHandler(w http.ResponseWriter, r *http.Request) {
	b, err := Legend(s.cfg.Scale, s.cfg.LegendLabel)
	if err != nil {
		s.Log.WithError(err).Error("wardaq: rendering legend")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(b)
}

func (s *Server) downloadHandler(w http.ResponseWriter, r *http.Request) {
	city, day, err := parseSelection(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	subset := s.ds.Filter(city, day)
	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="pm25_%s_day%03d.xlsx"`, city, day))
	if err := WriteXLSX(subset, w); err != nil {
		s.Log.WithError(err).Error("wardaq: writing spreadsheet download")
	}
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := s.tmpl.Execute(w, s.meta()); err != nil {
		s.Log.WithError(err).Error("wardaq: executing index template")
	}
}
