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
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ctessum/geom"
	gogeom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// dateFormat is the format of the Date column in input files.
const dateFormat = "2006-01-02"

// datasetColumns are the required input table columns, in any order.
var datasetColumns = []string{"City", "WARD", "Area", "Date", "PM2.5", "geometry"}

// A Record is one ward-day observation: the boundary of an
// administrative ward together with the PM2.5 concentration predicted
// for it on one calendar day.
type Record struct {
	geom.Polygonal // Ward boundary in longitude-latitude coordinates.

	City string  // City the ward belongs to.
	Ward string  // Ward identifier, unique within City.
	Area string  // Ward display name.
	Date time.Time
	PM25 float64 // PM2.5 concentration [μg/m³].
}

// DayOfYear returns the 1-indexed day of year of the record's date.
func (r *Record) DayOfYear() int { return r.Date.YearDay() }

// Dataset holds the full ward-day table for all cities. It is built
// once at startup and read-only afterwards, so it may be shared among
// concurrent requests without locking.
type Dataset struct {
	records []*Record
	cities  []string
	wards   map[string]map[string]int
	year    int
}

// LoadDataset reads the ward-day table from the CSV file at path.
// The file must have a header containing the columns City, WARD,
// Area, Date, PM2.5, and geometry, with dates formatted as YYYY-MM-DD
// and geometries as well-known-text polygons or multipolygons in
// longitude-latitude coordinates. If year is nonzero, all dates must
// fall within that calendar year. Any malformed row aborts the whole
// load; there is no partial-load mode.
func LoadDataset(path string, year int) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wardaq: opening dataset: %v", err)
	}
	defer f.Close()
	d, err := ReadDataset(f, year)
	if err != nil {
		return nil, fmt.Errorf("wardaq: reading dataset %s: %v", path, err)
	}
	return d, nil
}

// ReadDataset reads the ward-day table from r in the format described
// in LoadDataset.
func ReadDataset(r io.Reader, year int) (*Dataset, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %v", err)
	}
	cols := make(map[string]int)
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range datasetColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %s in header %v", name, header)
		}
	}

	d := &Dataset{
		wards: make(map[string]map[string]int),
		year:  year,
	}
	seen := make(map[string]int)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line+1, err)
		}
		line++
		rec, err := parseRecord(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", line, err)
		}
		if year != 0 && rec.Date.Year() != year {
			return nil, fmt.Errorf("line %d: date %v outside dataset year %d",
				line, rec.Date.Format(dateFormat), year)
		}
		key := rec.City + "\x00" + rec.Ward + "\x00" + rec.Date.Format(dateFormat)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("line %d: duplicate record for (%s, %s, %s); first at line %d",
				line, rec.City, rec.Ward, rec.Date.Format(dateFormat), prev)
		}
		seen[key] = line
		d.add(rec)
	}
	if len(d.records) == 0 {
		return nil, fmt.Errorf("dataset contains no records")
	}
	if d.year == 0 {
		d.year = d.records[0].Date.Year()
	}
	return d, nil
}

func parseRecord(row []string, cols map[string]int) (*Record, error) {
	get := func(name string) string { return row[cols[name]] }
	date, err := time.Parse(dateFormat, get("Date"))
	if err != nil {
		return nil, fmt.Errorf("parsing date: %v", err)
	}
	val, err := strconv.ParseFloat(get("PM2.5"), 64)
	if err != nil {
		return nil, fmt.Errorf("parsing PM2.5 value: %v", err)
	}
	g, err := decodeWKT(get("geometry"))
	if err != nil {
		return nil, fmt.Errorf("parsing geometry: %v", err)
	}
	return &Record{
		Polygonal: g,
		City:      get("City"),
		Ward:      get("WARD"),
		Area:      get("Area"),
		Date:      date,
		PM25:      val,
	}, nil
}

// decodeWKT converts a well-known-text string into a polygonal
// geometry. Non-polygonal and empty geometries are errors.
func decodeWKT(s string) (geom.Polygonal, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, err
	}
	switch g := g.(type) {
	case *gogeom.Polygon:
		p := polygonFromWKT(g)
		if polygonEmpty(p) {
			return nil, fmt.Errorf("empty polygon")
		}
		return p, nil
	case *gogeom.MultiPolygon:
		mp := make(geom.MultiPolygon, g.NumPolygons())
		for i := 0; i < g.NumPolygons(); i++ {
			mp[i] = polygonFromWKT(g.Polygon(i))
			if polygonEmpty(mp[i]) {
				return nil, fmt.Errorf("empty polygon %d in multipolygon", i)
			}
		}
		if len(mp) == 0 {
			return nil, fmt.Errorf("empty multipolygon")
		}
		return mp, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %T", g)
	}
}

func polygonFromWKT(g *gogeom.Polygon) geom.Polygon {
	p := make(geom.Polygon, g.NumLinearRings())
	for i := 0; i < g.NumLinearRings(); i++ {
		coords := g.LinearRing(i).Coords()
		ring := make([]geom.Point, len(coords))
		for j, c := range coords {
			ring[j] = geom.Point{X: c.X(), Y: c.Y()}
		}
		p[i] = ring
	}
	return p
}

func polygonEmpty(p geom.Polygon) bool {
	return len(p) == 0 || len(p[0]) == 0
}

func (d *Dataset) add(r *Record) {
	if _, ok := d.wards[r.City]; !ok {
		d.wards[r.City] = make(map[string]int)
		d.cities = append(d.cities, r.City)
	}
	d.wards[r.City][r.Ward]++
	d.records = append(d.records, r)
}

// Cities returns the distinct city names in the dataset, in
// first-seen order.
func (d *Dataset) Cities() []string { return d.cities }

// WardCount returns the number of distinct wards recorded for city.
func (d *Dataset) WardCount(city string) int { return len(d.wards[city]) }

// Year returns the calendar year the dataset covers.
func (d *Dataset) Year() int { return d.year }

// Len returns the total number of records.
func (d *Dataset) Len() int { return len(d.records) }
