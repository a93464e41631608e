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
	"reflect"
	"sort"

	"github.com/Knetic/govaluate"
	"gonum.org/v1/gonum/floats"
)

// pointVariables maps the output variable names to the PolarizationPoint
// fields they are read from.
var pointVariables = []struct {
	name, field string
}{
	{"J", "J"},
	{"Vrev", "Reversible"},
	{"VactA", "ActivationAnode"},
	{"VactC", "ActivationCathode"},
	{"Vohm", "Ohmic"},
	{"Vcell", "Cell"},
}

// VactName is the name of the output variable holding the sum of the
// anode and cathode activation overpotentials.
const VactName = "Vact"

// OutputOptions returns the names of the variables that are available
// for output or for use in derived-variable expressions, along with
// their descriptions and units.
func OutputOptions() (names []string, descriptions []string, units []string) {
	t := reflect.TypeOf(PolarizationPoint{})
	for _, v := range pointVariables {
		f, ok := t.FieldByName(v.field)
		if !ok {
			panic(fmt.Errorf("pemcurve: missing field %s", v.field))
		}
		names = append(names, v.name)
		descriptions = append(descriptions, f.Tag.Get("desc"))
		units = append(units, f.Tag.Get("units"))
	}
	names = append(names, VactName)
	descriptions = append(descriptions, "Total activation overpotential")
	units = append(units, "V")
	return
}

func pointValues(p PolarizationPoint) map[string]interface{} {
	return map[string]interface{}{
		"J":      p.J,
		"Vrev":   p.Reversible,
		"VactA":  p.ActivationAnode,
		"VactC":  p.ActivationCathode,
		VactName: p.Activation(),
		"Vohm":   p.Ohmic,
		"Vcell":  p.Cell,
	}
}

// DefaultOutputVariables returns the derived variables that are
// calculated if none are specified:
// power density P [W/cm²] and the voltage efficiency Eff relative to the
// thermoneutral voltage (higher heating value) of water.
func DefaultOutputVariables() map[string]string {
	return map[string]string{
		"P":   "J * Vcell",
		"Eff": "1.481 / Vcell",
	}
}

// Outputter calculates user-defined output variables from polarization
// curves. Each variable is an expression of the built-in variables
// listed by OutputOptions, of other user-defined variables and of
// functions. Expressions are evaluated separately for each point.
type Outputter struct {
	outputVariables map[string]string
	expressions     map[string]*govaluate.EvaluableExpression
	order           []string // evaluation order of the user-defined variables
	outputFunctions map[string]govaluate.ExpressionFunction
}

func numArgs(name string, n int, args []interface{}) error {
	if n >= 0 && len(args) != n {
		return fmt.Errorf("pemcurve: got %d arguments for function '%s', but needs %d", len(args), name, n)
	}
	if n < 0 && len(args) == 0 {
		return fmt.Errorf("pemcurve: function '%s' needs at least one argument", name)
	}
	return nil
}

func floatArgs(args []interface{}) ([]float64, error) {
	o := make([]float64, len(args))
	for i, a := range args {
		v, ok := a.(float64)
		if !ok {
			return nil, fmt.Errorf("pemcurve: invalid function argument %v", a)
		}
		o[i] = v
	}
	return o, nil
}

func unary(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if err := numArgs(name, 1, args); err != nil {
			return nil, err
		}
		v, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		return f(v[0]), nil
	}
}

func variadic(name string, f func([]float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if err := numArgs(name, -1, args); err != nil {
			return nil, err
		}
		v, err := floatArgs(args)
		if err != nil {
			return nil, err
		}
		return f(v), nil
	}
}

// NewOutputter initializes a new Outputter for the given output
// variables, which map variable names to expressions. If outputVariables
// is nil, DefaultOutputVariables is used. Default functions include:
//
// 'exp(x)' which applies the exponential function e^x.
//
// 'log(x)' which applies the natural logarithm.
//
// 'sum(x, y, ...)', 'max(x, y, ...)' and 'min(x, y, ...)' which combine
// their arguments.
//
// Additional functions can be specified in outputFunctions.
func NewOutputter(outputVariables map[string]string, outputFunctions map[string]govaluate.ExpressionFunction) (*Outputter, error) {
	if outputVariables == nil {
		outputVariables = DefaultOutputVariables()
	}
	o := &Outputter{
		outputVariables: make(map[string]string, len(outputVariables)),
		expressions:     make(map[string]*govaluate.EvaluableExpression, len(outputVariables)),
		outputFunctions: map[string]govaluate.ExpressionFunction{
			"exp": unary("exp", math.Exp),
			"log": unary("log", math.Log),
			"sum": variadic("sum", floats.Sum),
			"max": variadic("max", floats.Max),
			"min": variadic("min", floats.Min),
		},
	}
	for k, v := range outputFunctions {
		o.outputFunctions[k] = v
	}
	builtin, _, _ := OutputOptions()
	isBuiltin := make(map[string]bool)
	for _, n := range builtin {
		isBuiltin[n] = true
	}

	for name, expr := range outputVariables {
		if isBuiltin[name] {
			return nil, fmt.Errorf("pemcurve: output variable name '%s' is already used by a built-in variable", name)
		}
		e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, o.outputFunctions)
		if err != nil {
			return nil, fmt.Errorf("pemcurve: output variable '%s': %v", name, err)
		}
		o.outputVariables[name] = expr
		o.expressions[name] = e
	}
	for name, e := range o.expressions {
		for _, v := range e.Vars() {
			if _, ok := o.expressions[v]; !ok && !isBuiltin[v] {
				return nil, fmt.Errorf("pemcurve: output variable '%s': undefined variable name '%s'", name, v)
			}
		}
	}

	// Sort the user-defined variables so that each is calculated after
	// the variables it depends on.
	names := make([]string, 0, len(o.expressions))
	for n := range o.expressions {
		names = append(names, n)
	}
	sort.Strings(names)
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var visit func(n string) error
	visit = func(n string) error {
		switch state[n] {
		case visiting:
			return fmt.Errorf("pemcurve: output variable '%s' depends on itself", n)
		case done:
			return nil
		}
		state[n] = visiting
		for _, v := range o.expressions[n].Vars() {
			if _, ok := o.expressions[v]; ok {
				if err := visit(v); err != nil {
					return err
				}
			}
		}
		state[n] = done
		o.order = append(o.order, n)
		return nil
	}
	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Variables returns the names of the user-defined variables in the order
// they are calculated.
func (o *Outputter) Variables() []string {
	return append([]string{}, o.order...)
}

// Expression returns the expression that defines user-defined variable
// name.
func (o *Outputter) Expression(name string) string {
	return o.outputVariables[name]
}

// Results returns the values of all built-in and user-defined variables
// at each point of c.
func (o *Outputter) Results(c *PolarizationCurve) (map[string][]float64, error) {
	builtin, _, _ := OutputOptions()
	r := make(map[string][]float64, len(builtin)+len(o.order))
	for _, n := range builtin {
		r[n] = make([]float64, c.Len())
	}
	for _, n := range o.order {
		r[n] = make([]float64, c.Len())
	}
	for i, p := range c.points {
		params := pointValues(p)
		for _, n := range builtin {
			r[n][i] = params[n].(float64)
		}
		for _, n := range o.order {
			v, err := o.expressions[n].Evaluate(params)
			if err != nil {
				return nil, fmt.Errorf("pemcurve: calculating output variable '%s': %v", n, err)
			}
			f, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("pemcurve: output variable '%s' is not a number: %v", n, v)
			}
			r[n][i] = f
			params[n] = f
		}
	}
	return r, nil
}
