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

// Package pemutil contains the command-line interface, configuration,
// output writers and web server for PEMCurve.
package pemutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ctessum/gobra"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/pemcurve"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the commands.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
	}

	// Options are the configuration options available to PEMCurve.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum level of log messages
              (debug, info, warn or error).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Temperature",
			usage: `
              Temperature is the cell temperature [K]. The model is
              calibrated for temperatures between 273 and 398 K.`,
			shorthand:  "T",
			defaultVal: 323.0,
			flagsets:   []*pflag.FlagSet{pointCmd.Flags(), curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "WaterContent",
			usage: `
              WaterContent is the membrane water content λ, between 0
              (fully dry) and 1 (fully hydrated). A fully dry membrane
              has no conductivity and is rejected.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{pointCmd.Flags(), curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Thickness",
			usage: `
              Thickness is the membrane thickness [m]. The model is
              calibrated for thicknesses between 5e-6 and 3e-4 m.`,
			shorthand:  "L",
			defaultVal: 1.0e-4,
			flagsets:   []*pflag.FlagSet{pointCmd.Flags(), curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Sweep.Start",
			usage: `
              Sweep.Start is the first current density of the curve [A/cm²].`,
			defaultVal: pemcurve.DefaultSweepStart,
			flagsets:   []*pflag.FlagSet{curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Sweep.Stop",
			usage: `
              Sweep.Stop is the current density at which the curve ends
              [A/cm²]. It is not included in the curve.`,
			defaultVal: pemcurve.DefaultSweepStop,
			flagsets:   []*pflag.FlagSet{curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Sweep.Step",
			usage: `
              Sweep.Step is the current density interval between points
              of the curve [A/cm²].`,
			defaultVal: pemcurve.DefaultSweepStep,
			flagsets:   []*pflag.FlagSet{curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Calibration.File",
			usage: `
              Calibration.File is the path to an optional TOML file with
              [Constants] and [Calibration] tables that override the
              built-in model constants. Values in the file take
              precedence over Calibration.ReferenceTemperature and
              Calibration.Activation.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{pointCmd.Flags(), curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Calibration.ReferenceTemperature",
			usage: `
              Calibration.ReferenceTemperature is the reference
              temperature of the membrane conductivity correlation [K].`,
			defaultVal: pemcurve.DefaultCalibration().ReferenceTemperature,
			flagsets:   []*pflag.FlagSet{pointCmd.Flags(), curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Calibration.Activation",
			usage: `
              Calibration.Activation specifies whether the anode and
              cathode activation overpotentials are reported separately
              ("split") or as a single term ("combined").`,
			defaultVal: pemcurve.DefaultCalibration().Activation.String(),
			flagsets:   []*pflag.FlagSet{pointCmd.Flags(), curveCmd.Flags(), plotCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the file where the curve table
              should be written. The file type (csv, xlsx or json) is
              chosen by the extension.`,
			shorthand:  "o",
			defaultVal: "pemcurve_output.csv",
			flagsets:   []*pflag.FlagSet{curveCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies derived variables to include in
              the output table, as a map of names to expressions of the
              built-in variables (J, Vrev, VactA, VactC, Vact, Vohm and
              Vcell). If empty, power density (P) and voltage efficiency
              (Eff) are included.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{curveCmd.Flags()},
		},
		{
			name: "ResistanceThreshold",
			usage: `
              ResistanceThreshold is the minimum current density [A/cm²]
              of the points used to estimate the apparent cell
              resistance.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{curveCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path to the file where the chart should be
              written. The image format is chosen by the extension.`,
			defaultVal: "pemcurve.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "CurrentDensity",
			usage: `
              CurrentDensity is the current density [A/cm²] at which the
              point command calculates the cell voltage.`,
			shorthand:  "j",
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{pointCmd.Flags()},
		},
		{
			name: "Address",
			usage: `
              Address is the address the web server listens on.`,
			defaultVal: "localhost:7171",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize is the number of curves the web server keeps in
              memory.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "open",
			usage: `
              open specifies whether to open the web page in a browser
              when the server starts.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PEMCURVE")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
			case int:
				set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				set.StringP(option.name, option.shorthand, strings.TrimSpace(b.String()), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(pointCmd)
	Root.AddCommand(curveCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("pemcurve: problem reading configuration file: %v", err)
		}
	}
	lvl, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("pemcurve: invalid LogLevel: %v", err)
	}
	Log.SetLevel(lvl)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "pemcurve",
	Short: "Polarization curves of PEM electrolyzers.",
	Long: `PEMCurve calculates the steady-state polarization curve of a
proton-exchange-membrane (PEM) electrolyzer cell, decomposed into the
reversible voltage, the anode and cathode activation overpotentials and the
ohmic overpotential of the membrane.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PEMCURVE_var' where 'var' is the
name of the variable to be set, with any '.' replaced by '_'.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of PEMCurve.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("PEMCurve v%s\n", pemcurve.Version)
	},
	DisableAutoGenTag: true,
}

// pointCmd calculates the voltage components at a single current density.
var pointCmd = &cobra.Command{
	Use:   "point",
	Short: "Calculate the cell voltage at one current density.",
	Long: `point calculates the reversible voltage, the activation and ohmic
overpotentials and the cell voltage at the current density given by the
CurrentDensity option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, oc, err := modelAndConditions()
		if err != nil {
			return err
		}
		p, err := Point(m, oc, Cfg.GetFloat64("CurrentDensity"))
		if err != nil {
			return err
		}
		return writePoint(cmd.OutOrStdout(), m, p)
	},
	DisableAutoGenTag: true,
}

// curveCmd calculates a curve and writes it to a table.
var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Calculate a polarization curve.",
	Long: `curve calculates a polarization curve over the current densities
specified by the Sweep options and writes the voltage components and any
derived variables to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, oc, err := modelAndConditions()
		if err != nil {
			return err
		}
		j, err := Sweep(Cfg)
		if err != nil {
			return err
		}
		vars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		return Curve(m, oc, j, Cfg.GetString("OutputFile"), checkOutputVars(vars),
			Cfg.GetFloat64("ResistanceThreshold"))
	},
	DisableAutoGenTag: true,
}

// plotCmd calculates a curve and writes a chart of it.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot a polarization curve.",
	Long: `plot calculates a polarization curve over the current densities
specified by the Sweep options and writes a stacked-area chart of the voltage
components to PlotFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, oc, err := modelAndConditions()
		if err != nil {
			return err
		}
		j, err := Sweep(Cfg)
		if err != nil {
			return err
		}
		return PlotCurve(m, oc, j, Cfg.GetString("PlotFile"))
	},
	DisableAutoGenTag: true,
}

// serveCmd starts the interactive web server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive web server.",
	Long: `serve starts a web server with sliders for the operating conditions
and a live chart of the polarization curve. The operating condition options
set the initial position of the sliders.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, oc, err := modelAndConditions()
		if err != nil {
			return err
		}
		j, err := Sweep(Cfg)
		if err != nil {
			return err
		}
		s, err := NewServer(m, oc, j, Cfg.GetInt("CacheSize"))
		if err != nil {
			return err
		}
		s.Log = Log
		return Serve(s, Cfg.GetString("Address"), Cfg.GetBool("open"))
	},
	DisableAutoGenTag: true,
}

func modelAndConditions() (pemcurve.Model, pemcurve.OperatingConditions, error) {
	m, err := Model(Cfg)
	if err != nil {
		return m, pemcurve.OperatingConditions{}, err
	}
	oc, err := Conditions(Cfg)
	return m, oc, err
}

// Serve starts s listening on address and optionally opens the page in
// a browser. It blocks until the server fails.
func Serve(s *Server, address string, openBrowser bool) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	Log.Infof("listening on http://%s", address)
	if openBrowser {
		if err := open.Run("http://" + address); err != nil {
			Log.WithError(err).Warn("could not open browser")
		}
	}
	return srv.ListenAndServe()
}

// setConfigHandler loads the configuration file given in the "config"
// form value and responds with the resulting option values.
func setConfigHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	Cfg.Set("config", r.Form.Get("config"))
	if err := setConfig(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	config := make(map[string]interface{})
	for _, option := range options {
		config[option.name] = Cfg.Get(option.name)
	}
	if err := json.NewEncoder(w).Encode(config); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// StartGUI starts a web page where the command options can be set and
// the commands can be run.
func StartGUI() {
	setConfig() // Ignore any errors for now.

	http.HandleFunc("/setConfig", setConfigHandler)

	Log.Info("Loading front-end...")

	for _, cmd := range []*cobra.Command{Root, versionCmd, pointCmd, curveCmd, plotCmd, serveCmd} {
		cmd.SilenceUsage = true // We don't want the usage messages in the GUI.
	}

	const address = "localhost:7172"
	const tmpl = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>PEMCurve</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		div[id^="gobra-"] blockquote { border-left: 3px solid #bbb; margin: .3em; color: #333; padding-left: 5px; font-size: 75%; }
		div[id^="gobra-"] code { font-weight: bold; }
		div[id^="gobra-"] input { font-family: monospace; margin-left: .2em; width: 50%; outline:none; }
		.red-border{ border: 1px solid #c35; }
		.green-border{ border: 1px solid #3c5; }
	</style>
</head>
<body>
<div class="container">
	<h1>PEMCurve</h1>
	<p>Set the operating conditions and run a command below.</p>
	<div>
		{{.}}
	</div>
</div>
<script>
let allFlags = [...document.querySelectorAll('[data-name]')];
let configInput = allFlags.filter(x => x.dataset.name == "config")[0].children[0];
configInput.addEventListener("input", e => {
	fetch("http://` + address + `/setConfig?config="+configInput.value)
		.then(res => {
			if (!res.ok) {
				configInput.classList.add("red-border");
				return;
			}
			res.json().then(data => {
				configInput.classList.remove("red-border");
				for (let key in data)
					for (let f of allFlags)
						if (f.dataset.name == key) {
							let input = f.children[0];
							let newValue = JSON.stringify(data[key]).replace(/^"+|"+$/g,'');
							if (input.value != newValue) {
								input.value = newValue;
								input.classList.add("green-border");
							}
						}
			})
		})
		.catch(err => console.log("Error fetching /setConfig", err))
})
</script>
</body>
</html>`

	output := template.Must(template.New("").Parse(tmpl))
	server := gobra.Server{Root: Root, ServerAddress: address, AllowCORS: false, HTML: output}
	Log.Info("Server starting... ")
	open.Run("http://" + address)
	fmt.Println("If not opened automatically, please visit http://" + address)
	server.Start()
}
