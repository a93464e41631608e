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

package pemutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/pemcurve"
	"github.com/spf13/cast"
)

// Conditions returns the operating conditions specified in cfg. A warning
// is logged for each parameter outside of the domain of interest of the
// model.
func Conditions(cfg *viper.Viper) (pemcurve.OperatingConditions, error) {
	oc := pemcurve.OperatingConditions{
		Temperature:  cfg.GetFloat64("Temperature"),
		WaterContent: cfg.GetFloat64("WaterContent"),
		Thickness:    cfg.GetFloat64("Thickness"),
	}
	if err := oc.Validate(); err != nil {
		return oc, fmt.Errorf("pemcurve: invalid operating conditions: %w", err)
	}
	for _, w := range oc.OutOfDomain() {
		Log.WithField("conditions", oc.String()).Warn(w)
	}
	return oc, nil
}

// Model returns the model specified in cfg. The reference temperature and
// activation mode are read from the Calibration.ReferenceTemperature and
// Calibration.Activation variables; if Calibration.File is set, any
// constants or calibration values in that file take precedence.
func Model(cfg *viper.Viper) (pemcurve.Model, error) {
	m := pemcurve.DefaultModel()
	m.Calibration.ReferenceTemperature = cfg.GetFloat64("Calibration.ReferenceTemperature")
	mode, err := pemcurve.ParseActivationMode(os.ExpandEnv(cfg.GetString("Calibration.Activation")))
	if err != nil {
		return m, err
	}
	m.Calibration.Activation = mode

	if f := os.ExpandEnv(cfg.GetString("Calibration.File")); f != "" {
		if err := loadCalibration(f, &m); err != nil {
			return m, err
		}
	}
	if err := m.Validate(); err != nil {
		return m, fmt.Errorf("pemcurve: invalid model: %w", err)
	}
	Log.WithFields(logrus.Fields{
		"ReferenceTemperature": m.Calibration.ReferenceTemperature,
		"Activation":           m.Calibration.Activation.String(),
	}).Debug("model calibration")
	return m, nil
}

// loadCalibration reads a TOML file with optional [Constants] and
// [Calibration] tables into m. Values not present in the file are left
// unchanged.
func loadCalibration(fileName string, m *pemcurve.Model) error {
	f, err := os.Open(fileName)
	if err != nil {
		return fmt.Errorf("pemcurve: opening calibration file: %v", err)
	}
	defer f.Close()
	md, err := toml.DecodeReader(f, m)
	if err != nil {
		return fmt.Errorf("pemcurve: reading calibration file %s: %v", fileName, err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		keys := make([]string, len(u))
		for i, k := range u {
			keys[i] = k.String()
		}
		return fmt.Errorf("pemcurve: unknown keys in calibration file %s: %s", fileName, strings.Join(keys, ", "))
	}
	return nil
}

// Sweep returns the current densities specified by the Sweep.Start,
// Sweep.Stop and Sweep.Step variables in cfg.
func Sweep(cfg *viper.Viper) ([]float64, error) {
	j, err := pemcurve.Sweep(
		cfg.GetFloat64("Sweep.Start"),
		cfg.GetFloat64("Sweep.Stop"),
		cfg.GetFloat64("Sweep.Step"),
	)
	if err != nil {
		return nil, fmt.Errorf("pemcurve: invalid current density sweep: %w", err)
	}
	if len(j) == 0 {
		return nil, fmt.Errorf("pemcurve: current density sweep is empty; Sweep.Stop must be greater than Sweep.Start")
	}
	return j, nil
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		o := make(map[string]string)
		if err := json.NewDecoder(bytes.NewBufferString(v)).Decode(&o); err != nil {
			return nil, fmt.Errorf("pemcurve: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("pemcurve: invalid type for %s: %#v", varName, i)
	}
}

// checkOutputVars removes end lines and expands environment
// variables in the output variables. An empty map is replaced by the
// default derived variables.
func checkOutputVars(vars map[string]string) map[string]string {
	if len(vars) == 0 {
		return pemcurve.DefaultOutputVariables()
	}
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o
}

// checkOutputFile makes sure that the output file is specified, that its
// directory exists and that its format is supported, and expands any
// environment variables.
func checkOutputFile(f string, formats ...string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`pemcurve: you need to specify an output file (for example: OutputFile="pemcurve_output.csv")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("pemcurve: the output directory doesn't exist: %v", err)
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f), "."))
	for _, format := range formats {
		if ext == format {
			return f, nil
		}
	}
	return f, fmt.Errorf("pemcurve: unsupported output file type '%s' for %s; valid options are %s",
		ext, f, strings.Join(formats, ", "))
}
