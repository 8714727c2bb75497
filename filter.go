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

// A Subset is a transient view of dataset records, in table order.
// The table order determines the index-to-polygon mapping used by the
// map renderer, so it must not be re-sorted between filtering and
// rendering.
type Subset []*Record

// Filter returns the records matching city on the given 1-indexed day
// of year. An unmatched (city, day) pair yields an empty subset, not
// an error.
func (d *Dataset) Filter(city string, day int) Subset {
	var s Subset
	for _, r := range d.records {
		if r.City == city && r.DayOfYear() == day {
			s = append(s, r)
		}
	}
	return s
}
