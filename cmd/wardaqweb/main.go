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

// Command wardaqweb is a standalone web server for the WardAQ
// dashboard, configured with a TOML file instead of the CLI flag set.
package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/wardaq"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

// config is the wardaqweb configuration file contents.
type config struct {
	HTTPAddress string
	Server      wardaq.ServerConfig
}

var configFlag = flag.String("config", "wardaqweb.toml", "Path to the configuration file")

func main() {
	flag.Parse()

	f, err := os.Open(os.ExpandEnv(*configFlag))
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	var c config
	if _, err = toml.DecodeReader(f, &c); err != nil {
		log.Fatal(err)
	}
	if c.HTTPAddress == "" {
		c.HTTPAddress = ":8080"
	}

	logger.Info("setting up...")
	s, err := wardaq.NewServer(&c.Server)
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}
	s.Log = logger

	srv := &http.Server{
		Addr:              c.HTTPAddress,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	logger.Infof("listening on http://%s\n", c.HTTPAddress)
	logger.Fatal(srv.ListenAndServe())
}
