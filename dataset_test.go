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
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ctessum/geom"
)

const testYear = 2023

var testCities = []string{"Howrah", "Kolkata"}

// testWardWKT returns the boundary of test ward w of city ci as
// well-known text: a unit square in the Kolkata area.
func testWardWKT(ci, w int) string {
	lon := 88.3 + float64(ci)*0.1 + float64(w)*0.01
	lat := 22.58
	return fmt.Sprintf("POLYGON ((%[1]g %[3]g, %[2]g %[3]g, %[2]g %[4]g, %[1]g %[4]g, %[1]g %[3]g))",
		lon, lon+0.01, lat, lat+0.01)
}

// testPM25 gives the measurement for ward w on the given day.
func testPM25(w, day int) float64 {
	return 40 + float64(w)*10 + float64(day%10)
}

// writeTestCSV writes a dataset covering 2 cities with 5 wards each
// for all 365 days of the test year and returns its path.
func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wardaq_test.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write(datasetColumns)
	for ci, city := range testCities {
		for wi := 0; wi < 5; wi++ {
			for day := 1; day <= 365; day++ {
				w.Write([]string{
					city,
					fmt.Sprintf("%d", wi+1),
					fmt.Sprintf("%s Ward %d", city, wi+1),
					DayDate(day, testYear).Format(dateFormat),
					fmt.Sprintf("%g", testPM25(wi, day)),
					testWardWKT(ci, wi),
				})
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatal(err)
	}
	return path
}

// loadTestDataset loads the full 2-city test dataset.
func loadTestDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := LoadDataset(writeTestCSV(t), testYear)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestLoadDataset(t *testing.T) {
	d := loadTestDataset(t)
	if want := 2 * 5 * 365; d.Len() != want {
		t.Errorf("record count: want %d, got %d", want, d.Len())
	}
	if !reflect.DeepEqual(d.Cities(), testCities) {
		t.Errorf("cities: want %v, got %v", testCities, d.Cities())
	}
	for _, city := range testCities {
		if n := d.WardCount(city); n != 5 {
			t.Errorf("%s ward count: want 5, got %d", city, n)
		}
	}
	if d.Year() != testYear {
		t.Errorf("year: want %d, got %d", testYear, d.Year())
	}

	r := d.records[0]
	if r.City != "Howrah" || r.Ward != "1" || r.Area != "Howrah Ward 1" {
		t.Errorf("unexpected first record %+v", r)
	}
	if r.DayOfYear() != 1 {
		t.Errorf("first record day of year: want 1, got %d", r.DayOfYear())
	}
	if _, ok := r.Polygonal.(geom.Polygon); !ok {
		t.Errorf("first record geometry: want geom.Polygon, got %T", r.Polygonal)
	}
	// Centroid of the first ward's square boundary.
	want := geom.Point{X: 88.305, Y: 22.585}
	if c := r.Centroid(); math.Abs(c.X-want.X) > 1e-9 || math.Abs(c.Y-want.Y) > 1e-9 {
		t.Errorf("first record centroid: want %+v, got %+v", want, c)
	}
}

func TestLoadDataset_missingFile(t *testing.T) {
	if _, err := LoadDataset(filepath.Join(t.TempDir(), "nonexistent.csv"), testYear); err == nil {
		t.Error("expected an error for a missing dataset file")
	}
}

func TestReadDataset_multiPolygon(t *testing.T) {
	const mp = "MULTIPOLYGON (((0 0, 1 0, 1 1, 0 1, 0 0)), ((2 0, 3 0, 3 1, 2 1, 2 0)))"
	in := "City,WARD,Area,Date,PM2.5,geometry\n" +
		"Kolkata,1,Ward 1,2023-01-01,55.5,\"" + mp + "\"\n"
	d, err := ReadDataset(strings.NewReader(in), testYear)
	if err != nil {
		t.Fatal(err)
	}
	g, ok := d.records[0].Polygonal.(geom.MultiPolygon)
	if !ok {
		t.Fatalf("geometry: want geom.MultiPolygon, got %T", d.records[0].Polygonal)
	}
	if len(g) != 2 {
		t.Errorf("multipolygon length: want 2, got %d", len(g))
	}
}

func TestReadDataset_errors(t *testing.T) {
	const goodGeom = "\"POLYGON ((0 0, 1 0, 1 1, 0 1, 0 0))\""
	header := "City,WARD,Area,Date,PM2.5,geometry\n"
	tests := []struct {
		name string
		in   string
	}{
		{"missing column", "City,WARD,Area,Date,PM2.5\nKolkata,1,W,2023-01-01,50\n"},
		{"bad date", header + "Kolkata,1,W,01/15/2023,50," + goodGeom + "\n"},
		{"bad value", header + "Kolkata,1,W,2023-01-01,high," + goodGeom + "\n"},
		{"bad geometry", header + "Kolkata,1,W,2023-01-01,50,\"CIRCLE (0 0 1)\"\n"},
		{"point geometry", header + "Kolkata,1,W,2023-01-01,50,\"POINT (0 0)\"\n"},
		{"empty geometry", header + "Kolkata,1,W,2023-01-01,50,\"POLYGON EMPTY\"\n"},
		{"wrong year", header + "Kolkata,1,W,2022-12-31,50," + goodGeom + "\n"},
		{"duplicate record", header +
			"Kolkata,1,W,2023-01-01,50," + goodGeom + "\n" +
			"Kolkata,1,W,2023-01-01,60," + goodGeom + "\n"},
		{"no records", header},
	}
	for _, test := range tests {
		if _, err := ReadDataset(strings.NewReader(test.in), testYear); err == nil {
			t.Errorf("%s: expected an error", test.name)
		}
	}
}
