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

import "time"

// DayDate returns the calendar date for a 1-indexed day of year:
// day 1 is January 1 of the given year.
func DayDate(day, year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day-1)
}

// FormatDay returns the display label for a 1-indexed day of year,
// e.g. "Feb 14, 2023" for day 45 of 2023.
func FormatDay(day, year int) string {
	return DayDate(day, year).Format("Jan 02, 2006")
}

// A MonthMark is a slider mark at the first day of a month.
type MonthMark struct {
	Day   int    `json:"day"`   // 1-indexed day of year.
	Label string `json:"label"` // Short month name, e.g. "Jan".
}

// MonthMarks returns the slider marks for the 12 first-of-month days
// of the given year.
func MonthMarks(year int) []MonthMark {
	marks := make([]MonthMark, 0, 12)
	for m := time.January; m <= time.December; m++ {
		t := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		marks = append(marks, MonthMark{Day: t.YearDay(), Label: t.Format("Jan")})
	}
	return marks
}
