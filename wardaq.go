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

// Package wardaq renders daily ward-level PM2.5 choropleth maps.
// It loads a pre-joined table of ward boundaries and daily fine
// particulate matter concentrations, filters it by city and day of
// year, and produces map figures and color-scale legends for display
// in a web dashboard.
package wardaq

// Version gives the version number.
const Version = "1.1.0"
