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

package wardaqutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/wardaq"
	"github.com/spf13/cast"
)

// ServerConfig unmarshals a viper configuration into a dashboard
// server configuration, expanding environment variables in paths.
func ServerConfig(cfg *viper.Viper) (*wardaq.ServerConfig, error) {
	dataFile, err := checkDataFile(cfg.GetString("Data.File"))
	if err != nil {
		return nil, err
	}
	year, err := cast.ToIntE(cfg.Get("Data.Year"))
	if err != nil {
		return nil, fmt.Errorf("Data.Year: %v", err)
	}
	min, err := cast.ToFloat64E(cfg.Get("Scale.Min"))
	if err != nil {
		return nil, fmt.Errorf("Scale.Min: %v", err)
	}
	max, err := cast.ToFloat64E(cfg.Get("Scale.Max"))
	if err != nil {
		return nil, fmt.Errorf("Scale.Max: %v", err)
	}
	mid, err := cast.ToFloat64E(cfg.Get("Scale.Midpoint"))
	if err != nil {
		return nil, fmt.Errorf("Scale.Midpoint: %v", err)
	}
	zoom, err := cast.ToFloat64E(cfg.Get("Map.Zoom"))
	if err != nil {
		return nil, fmt.Errorf("Map.Zoom: %v", err)
	}
	return &wardaq.ServerConfig{
		DataFile:      dataFile,
		Year:          year,
		ScaleMin:      min,
		ScaleMax:      max,
		ScaleMidpoint: mid,
		Zoom:          zoom,
	}, nil
}

// checkDataFile makes sure that the data file is specified and
// expands any environment variables in its path.
func checkDataFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify the dataset location in the ` +
			`Data.File configuration variable (for example: Data.File="wardaq_data.csv")`)
	}
	return os.ExpandEnv(f), nil
}
