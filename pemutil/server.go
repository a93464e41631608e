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
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/ctessum/requestcache"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/pemcurve"
	"github.com/spatialmodel/pemcurve/internal/hash"
)

// ServerConfig holds the configuration of a stand-alone curve server.
type ServerConfig struct {
	// Address is the address to listen on, e.g. "localhost:7171".
	Address string

	// CacheSize is the number of curves to keep in memory.
	CacheSize int

	// Temperature [K], WaterContent [-] and Thickness [m] are the
	// operating conditions shown when the page is first loaded.
	Temperature, WaterContent, Thickness float64

	// SweepStart, SweepStop and SweepStep specify the current
	// densities [A/cm²] of each curve.
	SweepStart, SweepStop, SweepStep float64

	// CalibrationFile optionally specifies a TOML file with model
	// constants and calibration.
	CalibrationFile string

	// ReferenceTemperature is the reference temperature of the membrane
	// conductivity [K].
	ReferenceTemperature float64

	// Activation is either "split" or "combined".
	Activation string
}

// Server is an HTTP server for interactive exploration of polarization
// curves.
type Server struct {
	// Model is used to calculate the curves.
	Model pemcurve.Model

	// Defaults are the operating conditions used for parameters that
	// are missing from a request.
	Defaults pemcurve.OperatingConditions

	// J holds the current densities of each curve.
	J []float64

	// CacheSize is the number of curves to keep in memory.
	CacheSize int

	Log logrus.FieldLogger

	mux       *http.ServeMux
	cache     *requestcache.Cache
	cacheOnce sync.Once
	upgrader  websocket.Upgrader
}

// NewServer creates a new server.
func NewServer(m pemcurve.Model, defaults pemcurve.OperatingConditions, j []float64, cacheSize int) (*Server, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("pemcurve: creating server: %w", err)
	}
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("pemcurve: creating server: %w", err)
	}
	if len(j) == 0 {
		return nil, fmt.Errorf("pemcurve: creating server: no current densities specified")
	}
	s := &Server{
		Model:     m,
		Defaults:  defaults,
		J:         j,
		CacheSize: cacheSize,
		Log:       logrus.StandardLogger(),
		mux:       http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.index)
	s.mux.HandleFunc("/curve.png", s.curvePNG)
	s.mux.HandleFunc("/curve.json", s.curveJSON)
	s.mux.HandleFunc("/ws", s.websocket)
	return s, nil
}

// NewServerFromConfig creates a new server from a configuration.
func NewServerFromConfig(c *ServerConfig) (*Server, error) {
	m := pemcurve.DefaultModel()
	m.Calibration.ReferenceTemperature = c.ReferenceTemperature
	mode, err := pemcurve.ParseActivationMode(c.Activation)
	if err != nil {
		return nil, err
	}
	m.Calibration.Activation = mode
	if c.CalibrationFile != "" {
		if err := loadCalibration(os.ExpandEnv(c.CalibrationFile), &m); err != nil {
			return nil, err
		}
	}
	j, err := pemcurve.Sweep(c.SweepStart, c.SweepStop, c.SweepStep)
	if err != nil {
		return nil, err
	}
	oc := pemcurve.OperatingConditions{
		Temperature:  c.Temperature,
		WaterContent: c.WaterContent,
		Thickness:    c.Thickness,
	}
	return NewServer(m, oc, j, c.CacheSize)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Log.WithFields(logrus.Fields{
		"url":  r.URL.String(),
		"addr": r.RemoteAddr,
	}).Info("pemcurve request")
	s.mux.ServeHTTP(w, r)
}

type curveRequest struct {
	Model      pemcurve.Model
	Conditions pemcurve.OperatingConditions
	J          []float64
}

// Curve returns the polarization curve under conditions oc. Results are
// cached, so the returned curve must not be modified.
func (s *Server) Curve(ctx context.Context, oc pemcurve.OperatingConditions) (*pemcurve.PolarizationCurve, error) {
	s.cacheOnce.Do(func() {
		s.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(curveRequest)
			return r.Model.ComputeCurve(r.Conditions, r.J)
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(s.CacheSize))
	})
	// Only valid requests are sent to the cache, which does not
	// release duplicate requests that fail.
	if err := s.Model.Check(oc, s.J); err != nil {
		return nil, err
	}
	req := curveRequest{Model: s.Model, Conditions: oc, J: s.J}
	result, err := s.cache.NewRequest(ctx, req, hash.Hash(req)).Result()
	if err != nil {
		return nil, err
	}
	return result.(*pemcurve.PolarizationCurve), nil
}

// conditions parses the operating conditions from the query parameters
// T, lambda and L, using the server defaults for missing parameters.
func (s *Server) conditions(r *http.Request) (pemcurve.OperatingConditions, error) {
	oc := s.Defaults
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		v    *float64
	}{
		{"T", &oc.Temperature},
		{"lambda", &oc.WaterContent},
		{"L", &oc.Thickness},
	} {
		str := q.Get(p.name)
		if str == "" {
			continue
		}
		v, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return oc, fmt.Errorf("pemcurve: invalid value for %s: %w", p.name, err)
		}
		*p.v = v
	}
	return oc, nil
}

// httpError writes err to w, with status 400 for invalid parameters.
func (s *Server) httpError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var numErr *strconv.NumError
	if errors.Is(err, pemcurve.ErrInvalidParameter) || errors.Is(err, pemcurve.ErrNumericalDegeneracy) ||
		errors.As(err, &numErr) {
		code = http.StatusBadRequest
	}
	s.Log.WithError(err).WithField("status", code).Warn("pemcurve request failed")
	http.Error(w, err.Error(), code)
}

func (s *Server) requestCurve(w http.ResponseWriter, r *http.Request) (*pemcurve.PolarizationCurve, bool) {
	oc, err := s.conditions(r)
	if err != nil {
		s.httpError(w, err)
		return nil, false
	}
	c, err := s.Curve(r.Context(), oc)
	if err != nil {
		s.httpError(w, err)
		return nil, false
	}
	return c, true
}

func (s *Server) curvePNG(w http.ResponseWriter, r *http.Request) {
	c, ok := s.requestCurve(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := WritePlot(w, c, "png"); err != nil {
		s.httpError(w, err)
	}
}

// CurveData is the JSON representation of a polarization curve.
type CurveData struct {
	Conditions pemcurve.OperatingConditions
	Activation string
	J          []float64
	Cell       []float64
	Series     []pemcurve.Series
	Warnings   []string `json:",omitempty"`
}

func newCurveData(c *pemcurve.PolarizationCurve) *CurveData {
	return &CurveData{
		Conditions: c.Conditions,
		Activation: c.Model.Calibration.Activation.String(),
		J:          c.CurrentDensity(),
		Cell:       c.CellVoltage(),
		Series:     c.Series(),
		Warnings:   c.Conditions.OutOfDomain(),
	}
}

func (s *Server) curveJSON(w http.ResponseWriter, r *http.Request) {
	c, ok := s.requestCurve(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(newCurveData(c)); err != nil {
		s.httpError(w, err)
	}
}

// wsError is sent over the websocket when a curve cannot be calculated.
type wsError struct {
	Error string
}

// websocket receives OperatingConditions from the client and replies
// with CurveData for each.
func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.WithError(err).Warn("pemcurve websocket upgrade failed")
		return
	}
	defer conn.Close()
	for {
		oc := s.Defaults
		if err := conn.ReadJSON(&oc); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Log.WithError(err).Debug("pemcurve websocket closed")
			}
			return
		}
		var reply interface{}
		c, err := s.Curve(r.Context(), oc)
		if err != nil {
			reply = wsError{Error: err.Error()}
		} else {
			reply = newCurveData(c)
		}
		if err := conn.WriteJSON(reply); err != nil {
			s.Log.WithError(err).Warn("pemcurve websocket write failed")
			return
		}
	}
}

type slider struct {
	Name, Label, Units    string
	Min, Max, Step, Value float64
	Marks                 []float64
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<title>PEMCurve</title>
	<style>
		html, body {padding: 0; margin: 2% 0; font-family: sans-serif;}
		.container { max-width: 700px; margin: 0 auto; padding: 10px; }
		label { display: block; margin-top: 1em; }
		input[type=range] { width: 100%; }
		#error { color: #c35; }
	</style>
</head>
<body>
<div class="container">
	<h1>Polarization curve of a PEM electrolyzer</h1>
	<p>Change the cell temperature, the membrane water content or the
	membrane thickness to see how each overpotential changes.</p>
	{{range .Sliders}}
	<label for="{{.Name}}">{{.Label}}: <span id="{{.Name}}-value">{{.Value}}</span> {{.Units}}</label>
	<input type="range" id="{{.Name}}" min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Value}}" list="{{.Name}}-marks">
	<datalist id="{{.Name}}-marks">{{range .Marks}}<option value="{{.}}"></option>{{end}}</datalist>
	{{end}}
	<p id="error"></p>
	<img id="chart" src="curve.png" alt="polarization curve">
	<p id="summary"></p>
</div>
<script>
let ids = ["T", "lambda", "L"];
let ws = new WebSocket((location.protocol == "https:" ? "wss://" : "ws://") + location.host + "/ws");
function value(id) { return parseFloat(document.getElementById(id).value); }
function update() {
	ids.forEach(id => document.getElementById(id + "-value").textContent = document.getElementById(id).value);
	let q = ids.map(id => id + "=" + value(id)).join("&");
	document.getElementById("chart").src = "curve.png?" + q;
	if (ws.readyState == 1) {
		ws.send(JSON.stringify({Temperature: value("T"), WaterContent: value("lambda"), Thickness: value("L")}));
	}
}
ws.onmessage = e => {
	let d = JSON.parse(e.data);
	let err = document.getElementById("error");
	if (d.Error) { err.textContent = d.Error; return; }
	err.textContent = (d.Warnings || []).join("; ");
	let n = d.J.length - 1;
	document.getElementById("summary").textContent =
		"Open-circuit voltage: " + d.Cell[0].toFixed(4) + " V; cell voltage at " +
		d.J[n].toFixed(2) + " A/cm²: " + d.Cell[n].toFixed(4) + " V";
};
ws.onopen = update;
ids.forEach(id => document.getElementById(id).addEventListener("input", update));
</script>
</body>
</html>`))

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct{ Sliders []slider }{
		Sliders: []slider{
			{
				Name: "T", Label: "Temperature", Units: "K",
				Min: pemcurve.MinTemperature, Max: pemcurve.MaxTemperature, Step: 1,
				Value: s.Defaults.Temperature,
				Marks: []float64{298, 323, 353, 383},
			},
			{
				Name: "lambda", Label: "Membrane water content", Units: "",
				Min: 0.01, Max: pemcurve.MaxWaterContent, Step: 0.01,
				Value: s.Defaults.WaterContent,
				Marks: []float64{0.1, 0.3, 0.5, 0.7},
			},
			{
				Name: "L", Label: "Membrane thickness", Units: "m",
				Min: pemcurve.MinThickness, Max: pemcurve.MaxThickness, Step: 5e-6,
				Value: s.Defaults.Thickness,
				Marks: []float64{1e-5, 1e-4, 1.5e-4, 2.5e-4},
			},
		},
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.httpError(w, err)
	}
}
