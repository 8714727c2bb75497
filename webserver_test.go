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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(&ServerConfig{
		DataFile: writeTestCSV(t),
		Year:     testYear,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func serve(t *testing.T, s *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	return w
}

func TestServer_map(t *testing.T) {
	s := newTestServer(t)
	w := serve(t, s, "/api/map?city=Kolkata&day=45")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d: %s", http.StatusOK, w.Code, w.Body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: want application/json, got %s", ct)
	}
	var resp UpdateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Figure.Features) != 5 {
		t.Errorf("feature count: want 5, got %d", len(resp.Figure.Features))
	}
	if want := "Feb 14, 2023"; resp.DateLabel != want {
		t.Errorf("date label: want %q, got %q", want, resp.DateLabel)
	}
	if !strings.HasPrefix(resp.Legend, "data:image/png;base64,") {
		t.Errorf("unexpected legend data URI prefix in %.40q", resp.Legend)
	}
	if resp.Figure.Zoom != DefaultZoom {
		t.Errorf("zoom: want %g, got %g", DefaultZoom, resp.Figure.Zoom)
	}
}

func TestServer_mapEmpty(t *testing.T) {
	s := newTestServer(t)
	// Day 366 of a non-leap dataset year is selectable but matches
	// nothing.
	w := serve(t, s, "/api/map?city=Kolkata&day=366")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d: %s", http.StatusOK, w.Code, w.Body)
	}
	var resp UpdateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Figure.Features) != 0 {
		t.Errorf("want no features, got %d", len(resp.Figure.Features))
	}
}

func TestServer_mapBadRequest(t *testing.T) {
	s := newTestServer(t)
	urls := []string{
		"/api/map",
		"/api/map?city=Kolkata",
		"/api/map?day=45",
		"/api/map?city=Kolkata&day=0",
		"/api/map?city=Kolkata&day=367",
		"/api/map?city=Kolkata&day=yesterday",
	}
	for _, url := range urls {
		if w := serve(t, s, url); w.Code != http.StatusBadRequest {
			t.Errorf("%s: want status %d, got %d", url, http.StatusBadRequest, w.Code)
		}
	}
}

func TestServer_update(t *testing.T) {
	s := newTestServer(t)
	a, err := s.Update("Howrah", 100)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Update("Howrah", 100)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated updates for the same selection differ")
	}
}

func TestServer_meta(t *testing.T) {
	s := newTestServer(t)
	w := serve(t, s, "/api/meta")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, w.Code)
	}
	var m Meta
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(m.Cities, testCities) {
		t.Errorf("cities: want %v, got %v", testCities, m.Cities)
	}
	if m.Year != testYear || m.DayMin != 1 || m.DayMax != 365 {
		t.Errorf("unexpected day range in %+v", m)
	}
	if len(m.MonthMarks) != 12 {
		t.Errorf("want 12 month marks, got %d", len(m.MonthMarks))
	}
	if m.ScaleMin != 20 || m.ScaleMax != 120 {
		t.Errorf("scale: want [20, 120], got [%g, %g]", m.ScaleMin, m.ScaleMax)
	}
}

func TestServer_legend(t *testing.T) {
	s := newTestServer(t)
	w := serve(t, s, "/legend")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type: want image/png, got %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), pngMagic) {
		t.Error("legend response is not a PNG image")
	}
}

func TestServer_download(t *testing.T) {
	s := newTestServer(t)
	w := serve(t, s, "/download?city=Howrah&day=45")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d: %s", http.StatusOK, w.Code, w.Body)
	}
	const wantCT = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if ct := w.Header().Get("Content-Type"); ct != wantCT {
		t.Errorf("content type: want %s, got %s", wantCT, ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "pm25_Howrah_day045.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	// XLSX files are ZIP archives.
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("download is not a ZIP archive")
	}
}

func TestServer_index(t *testing.T) {
	s := newTestServer(t)
	w := serve(t, s, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Select City", "Kolkata", ">Jan<", `max="365"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if w := serve(t, s, "/nonexistent"); w.Code != http.StatusNotFound {
		t.Errorf("unknown path: want status %d, got %d", http.StatusNotFound, w.Code)
	}
}
