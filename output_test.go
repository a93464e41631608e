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

package pemcurve

import (
	"fmt"
	"math"
	"testing"

	"github.com/Knetic/govaluate"
	"github.com/kr/pretty"
	"gonum.org/v1/gonum/floats"
)

func TestOutputOptions(t *testing.T) {
	names, descriptions, units := OutputOptions()
	wantNames := []string{"J", "Vrev", "VactA", "VactC", "Vohm", "Vcell", "Vact"}
	if diff := pretty.Diff(names, wantNames); len(diff) > 0 {
		t.Error(diff)
	}
	if len(descriptions) != len(names) || len(units) != len(names) {
		t.Fatal("mismatched lengths")
	}
	if descriptions[0] != "Current density" || units[0] != "A/cm²" {
		t.Errorf("J: %s [%s]", descriptions[0], units[0])
	}
	for i, u := range units[1:] {
		if u != "V" {
			t.Errorf("%s: units %s", names[i+1], u)
		}
	}
}

func TestOutputter(t *testing.T) {
	c, err := ComputeCurve(testConditions, []float64{0, 1, 2})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("default", func(t *testing.T) {
		o, err := NewOutputter(nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		r, err := o.Results(c)
		if err != nil {
			t.Fatal(err)
		}
		for i, p := range c.Points() {
			if different(r["P"][i], p.J*p.Cell, testTolerance) {
				t.Errorf("P[%d] = %g", i, r["P"][i])
			}
			if different(r["Eff"][i], 1.481/p.Cell, testTolerance) {
				t.Errorf("Eff[%d] = %g", i, r["Eff"][i])
			}
			if r["Vact"][i] != p.ActivationAnode+p.ActivationCathode {
				t.Errorf("Vact[%d] = %g", i, r["Vact"][i])
			}
		}
		if !floats.Equal(r["Vcell"], c.CellVoltage()) {
			t.Error("Vcell does not match curve")
		}
	})

	t.Run("derived", func(t *testing.T) {
		o, err := NewOutputter(map[string]string{
			"Loss":    "Vcell - Vrev",
			"LossPct": "Loss / Vcell * 100",
			"Big":     "max(VactA, VactC, Vohm)",
			"LogJ":    "log(J + 1)",
		}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if diff := pretty.Diff(o.Variables(), []string{"Big", "LogJ", "Loss", "LossPct"}); len(diff) > 0 {
			t.Error(diff)
		}
		r, err := o.Results(c)
		if err != nil {
			t.Fatal(err)
		}
		p := c.Point(2)
		loss := p.Cell - p.Reversible
		if different(r["Loss"][2], loss, testTolerance) {
			t.Errorf("Loss = %g, want %g", r["Loss"][2], loss)
		}
		if different(r["LossPct"][2], loss/p.Cell*100, testTolerance) {
			t.Errorf("LossPct = %g", r["LossPct"][2])
		}
		if r["Big"][2] != math.Max(p.ActivationCathode, math.Max(p.ActivationAnode, p.Ohmic)) {
			t.Errorf("Big = %g", r["Big"][2])
		}
		if different(r["LogJ"][2], math.Log(3), testTolerance) {
			t.Errorf("LogJ = %g", r["LogJ"][2])
		}
	})

	t.Run("custom function", func(t *testing.T) {
		o, err := NewOutputter(map[string]string{"Vmv": "mV(Vcell)"},
			map[string]govaluate.ExpressionFunction{
				"mV": func(args ...interface{}) (interface{}, error) {
					if len(args) != 1 {
						return nil, fmt.Errorf("mV needs 1 argument")
					}
					return args[0].(float64) * 1000, nil
				},
			})
		if err != nil {
			t.Fatal(err)
		}
		r, err := o.Results(c)
		if err != nil {
			t.Fatal(err)
		}
		if different(r["Vmv"][1], c.Point(1).Cell*1000, testTolerance) {
			t.Errorf("Vmv = %g", r["Vmv"][1])
		}
	})

	t.Run("errors", func(t *testing.T) {
		for name, vars := range map[string]map[string]string{
			"undefined": {"X": "Vcell * Foo"},
			"syntax":    {"X": "Vcell * (J"},
			"cycle":     {"A": "B + 1", "B": "A + 1"},
			"builtin":   {"Vcell": "J"},
		} {
			if _, err := NewOutputter(vars, nil); err == nil {
				t.Errorf("%s: want error", name)
			}
		}
	})
}
