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

// Package wardaqutil holds the configuration and command-line glue
// for the WardAQ dashboard server.
package wardaqutil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/wardaq"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the global configuration data.
var Cfg *viper.Viper

func init() {
	// options are the configuration options available to WardAQ.
	type option struct {
		name       string
		usage      string
		shorthand  string
		defaultVal interface{}
		flagsets   []*pflag.FlagSet
	}

	options := []option{
		{
			name: "config",
			usage: `
              config specifies the path to a configuration file
              where configuration variables can be set instead of specifying
              them on the command line or as environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "HTTPAddress",
			usage: `
              HTTPAddress is the address the dashboard server listens on.`,
			defaultVal: ":8080",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Data.File",
			usage: `
              Data.File is the path to the ward-day PM2.5 table. It may be
              a local path, an HTTP URL, or a blob location
              (gs://, s3://, or file://).`,
			defaultVal: "wardaq_data.csv",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Data.Year",
			usage: `
              Data.Year is the calendar year the dataset covers. Day-of-year
              selections are interpreted against this year.`,
			defaultVal: 2023,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Scale.Min",
			usage: `
              Scale.Min is the lower end of the fixed display color scale.
              Values below it are clamped to the low end color.`,
			defaultVal: 20.0,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Scale.Max",
			usage: `
              Scale.Max is the upper end of the fixed display color scale.
              Values above it are clamped to the high end color.`,
			defaultVal: 120.0,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Scale.Midpoint",
			usage: `
              Scale.Midpoint anchors the center of the color gradient.`,
			defaultVal: 70.0,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "Map.Zoom",
			usage: `
              Map.Zoom is the initial map zoom level.`,
			defaultVal: 10.6,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("WARDAQ")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("wardaq: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "wardaq",
	Short: "A ward-level PM2.5 dashboard server.",
	Long: `WardAQ serves an interactive dashboard of daily ward-level
PM2.5 predictions on a city choropleth map.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'WARDAQ_var' where 'var' is
the name of the configuration variable.`,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("WardAQ v%s\n", wardaq.Version)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard.",
	Long: `serve loads the ward-day table and starts the dashboard web
server. The table is loaded once at startup; a load failure aborts the
server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return StartWebServer()
	},
}

// StartWebServer starts the web server.
func StartWebServer() error {
	logger := logrus.StandardLogger()

	c, err := ServerConfig(Cfg)
	if err != nil {
		return err
	}
	msgs := outChan(logger)
	c.DataFile = MaybeDownload(context.Background(), c.DataFile, msgs)

	logger.Infof("wardaq: loading dataset from %s", c.DataFile)
	s, err := wardaq.NewServer(c)
	if err != nil {
		return err
	}
	s.Log = logger
	logger.Infof("wardaq: loaded %d records for %d cities",
		s.Dataset().Len(), len(s.Dataset().Cities()))

	addr := Cfg.GetString("HTTPAddress")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	logger.Infof("wardaq: listening on http://%s", addr)
	return srv.ListenAndServe()
}

// outChan returns a channel that forwards status messages to the log.
func outChan(logger *logrus.Logger) chan string {
	c := make(chan string)
	go func() {
		for msg := range c {
			logger.Info(msg)
		}
	}()
	return c
}
