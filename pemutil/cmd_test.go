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
	"encoding/csv"
	"encoding/json"
	"errors"
	"io/ioutil"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spatialmodel/pemcurve"
)

func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "pemcurve")
	if err != nil {
		t.Fatal(err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

func TestVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Cfg.Set("config", "testdata/config.toml")
	Root.SetArgs([]string{"version"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	if want := "PEMCurve v" + pemcurve.Version; !strings.Contains(buf.String(), want) {
		t.Errorf("have %q, want %q", buf.String(), want)
	}
}

func TestPointCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Cfg.Set("config", "testdata/config.toml")
	Root.SetArgs([]string{"point"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		pemcurve.SeriesReversible, pemcurve.SeriesActivationAnode,
		pemcurve.SeriesActivationCathode, pemcurve.SeriesOhmic,
		"cell voltage", "1.91725", "1.2065",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestCurveCommand(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	outFile := filepath.Join(dir, "curve.csv")

	Cfg.Set("config", "testdata/config.toml")
	Cfg.Set("OutputFile", outFile)
	defer Cfg.Set("OutputFile", "pemcurve_output.csv")
	Root.SetArgs([]string{"curve"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(outFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 151 {
		t.Errorf("have %d rows, want 151", len(records))
	}
	want := []string{"J [A/cm²]", "Vrev [V]", "VactA [V]", "VactC [V]", "Vohm [V]", "Vcell [V]", "Vact [V]", "Eff", "Loss", "P"}
	if strings.Join(records[0], ",") != strings.Join(want, ",") {
		t.Errorf("header: have %v, want %v", records[0], want)
	}
	v, err := strconv.ParseFloat(records[1][5], 64)
	if err != nil {
		t.Fatal(err)
	}
	if records[1][0] != "0" || math.Abs(v-1.2065) > 1e-12 {
		t.Errorf("first row: %v", records[1])
	}
}

func TestCurveCommandInvalid(t *testing.T) {
	Cfg.Set("config", "testdata/config.toml")
	Cfg.Set("WaterContent", 0.0)
	defer Cfg.Set("WaterContent", 0.1)
	Root.SetArgs([]string{"curve"})
	err := Root.Execute()
	if !errors.Is(err, pemcurve.ErrInvalidParameter) {
		t.Errorf("have %v, want invalid parameter", err)
	}
}

func TestPlotCommand(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	plotFile := filepath.Join(dir, "curve.png")

	Cfg.Set("config", "testdata/config.toml")
	Cfg.Set("PlotFile", plotFile)
	defer Cfg.Set("PlotFile", "pemcurve.png")
	Root.SetArgs([]string{"plot"})
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(plotFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Error("output is not a PNG image")
	}
}

func TestModel(t *testing.T) {
	Cfg.Set("config", "testdata/config.toml")
	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	m, err := Model(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m != pemcurve.DefaultModel() {
		t.Errorf("have %+v, want default model", m)
	}

	Cfg.Set("Calibration.File", "testdata/calibration.toml")
	defer Cfg.Set("Calibration.File", "")
	m, err = Model(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m != pemcurve.LegacyModel() {
		t.Errorf("have %+v, want legacy model", m)
	}

	Cfg.Set("Calibration.File", "testdata/bad_calibration.toml")
	if _, err = Model(Cfg); err == nil || !strings.Contains(err.Error(), "ReferenceTemprature") {
		t.Errorf("want unknown key error, have %v", err)
	}

	Cfg.Set("Calibration.File", "")
	Cfg.Set("Calibration.Activation", "both")
	defer Cfg.Set("Calibration.Activation", "split")
	if _, err = Model(Cfg); err == nil {
		t.Error("want invalid activation mode error")
	}
}

func TestSweepEnv(t *testing.T) {
	Cfg.Set("config", "testdata/config.toml")
	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	j, err := Sweep(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(j) != 150 {
		t.Errorf("have %d samples, want 150", len(j))
	}
	os.Setenv("PEMCURVE_SWEEP_STEP", "0.5")
	defer os.Unsetenv("PEMCURVE_SWEEP_STEP")
	j, err = Sweep(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(j) != 6 {
		t.Errorf("have %d samples, want 6", len(j))
	}
}

func TestGetStringMapString(t *testing.T) {
	Cfg.Set("testMap", `{"P": "J * Vcell"}`)
	m, err := GetStringMapString("testMap", Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || m["P"] != "J * Vcell" {
		t.Errorf("have %v", m)
	}
	Cfg.Set("testMap", map[string]interface{}{"Eff": "1.481 / Vcell"})
	m, err = GetStringMapString("testMap", Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 1 || m["Eff"] != "1.481 / Vcell" {
		t.Errorf("have %v", m)
	}
	Cfg.Set("testMap", 1)
	if _, err = GetStringMapString("testMap", Cfg); err == nil {
		t.Error("want error")
	}
	if vars := checkOutputVars(nil); len(vars) != 2 {
		t.Errorf("default variables: have %v", vars)
	}
}

func TestCheckOutputFile(t *testing.T) {
	if _, err := checkOutputFile("", tableFormats...); err == nil {
		t.Error("empty file name should fail")
	}
	if _, err := checkOutputFile("out.shp", tableFormats...); err == nil {
		t.Error("unsupported extension should fail")
	}
	if _, err := checkOutputFile("not/a/dir/out.csv", tableFormats...); err == nil {
		t.Error("missing directory should fail")
	}
	if _, err := checkOutputFile("out.XLSX", tableFormats...); err != nil {
		t.Error(err)
	}
}

func TestSetConfigHandler(t *testing.T) {
	defer Cfg.Set("config", "testdata/config.toml")

	w := httptest.NewRecorder()
	setConfigHandler(w, httptest.NewRequest("GET", "/setConfig?config=testdata/missing.toml", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing file: have status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if w.Body.Len() == 0 {
		t.Error("missing file: error message should be in the body")
	}

	w = httptest.NewRecorder()
	setConfigHandler(w, httptest.NewRequest("GET", "/setConfig?config=testdata/config.toml", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("have status %d: %s", w.Code, w.Body.String())
	}
	var config map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&config); err != nil {
		t.Fatal(err)
	}
	if T, ok := config["Temperature"].(float64); !ok || T != 323.15 {
		t.Errorf("Temperature: have %v", config["Temperature"])
	}
}
