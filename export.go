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
	"io"

	"github.com/tealeg/xlsx"
)

// WriteXLSX writes the given subset as a spreadsheet with one row per
// ward, for downloading the data behind the current map view.
func WriteXLSX(s Subset, w io.Writer) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("PM2.5")
	if err != nil {
		return fmt.Errorf("wardaq: creating spreadsheet sheet: %v", err)
	}
	header := sheet.AddRow()
	for _, name := range []string{"City", "Ward", "Area", "Date", "PM2.5 [µg/m³]"} {
		header.AddCell().SetString(name)
	}
	for _, r := range s {
		row := sheet.AddRow()
		row.AddCell().SetString(r.City)
		row.AddCell().SetString(r.Ward)
		row.AddCell().SetString(r.Area)
		row.AddCell().SetString(r.Date.Format(dateFormat))
		row.AddCell().SetFloat(r.PM25)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("wardaq: writing spreadsheet: %v", err)
	}
	return nil
}
