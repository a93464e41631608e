/*
Copyright © 2026 the PEMCurve authors.
This file is part of PEMCurve.

PEMCurve is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PEMCurve is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PEMCurve.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command pemcurveweb is a stand-alone web server for interactive
// exploration of PEM electrolyzer polarization curves.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/pemcurve/pemutil"
)

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
}

var config = flag.String("config", "./pemcurveweb.toml", "Path to the configuration file")

func main() {
	flag.Parse()

	f, err := os.Open(os.ExpandEnv(*config))
	if err != nil {
		logger.WithError(err).Fatal("failed to open configuration file")
	}
	c := pemutil.ServerConfig{
		Address:              "localhost:7171",
		CacheSize:            100,
		Temperature:          323,
		WaterContent:         0.1,
		Thickness:            1e-4,
		SweepStop:            3,
		SweepStep:            0.02,
		ReferenceTemperature: 303,
		Activation:           "split",
	}
	_, err = toml.DecodeReader(f, &c)
	f.Close()
	if err != nil {
		logger.WithError(err).Fatal("failed to read configuration file")
	}

	logger.Info("setting up...")
	s, err := pemutil.NewServerFromConfig(&c)
	if err != nil {
		logger.WithError(err).Fatal("failed to create server")
	}
	s.Log = logger

	srv := &http.Server{
		Addr:              c.Address,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	logger.Infof("listening on http://%s", c.Address)
	logger.Fatal(srv.ListenAndServe())
}
