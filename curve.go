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
	"runtime"
	"sync"
)

// PolarizationPoint holds the voltage components of the cell at a single
// current density.
type PolarizationPoint struct {
	J                 float64 `desc:"Current density" units:"A/cm²"`
	Reversible        float64 `desc:"Reversible voltage" units:"V"`
	ActivationAnode   float64 `desc:"Anode activation overpotential" units:"V"`
	ActivationCathode float64 `desc:"Cathode activation overpotential" units:"V"`
	Ohmic             float64 `desc:"Ohmic overpotential" units:"V"`
	Cell              float64 `desc:"Cell voltage" units:"V"`
}

// Activation returns the sum of the anode and cathode activation
// overpotentials.
func (p PolarizationPoint) Activation() float64 {
	return p.ActivationAnode + p.ActivationCathode
}

// PointCalculator fills in part of a PolarizationPoint whose J field has
// already been set.
type PointCalculator func(m Model, oc OperatingConditions, p *PolarizationPoint) error

// Reversible returns a calculator of the reversible voltage.
func Reversible() PointCalculator {
	return func(m Model, oc OperatingConditions, p *PolarizationPoint) (err error) {
		p.Reversible, err = ReversibleVoltage(m.Constants, oc.Temperature)
		return
	}
}

// AnodeActivation returns a calculator of the anode activation
// overpotential.
func AnodeActivation() PointCalculator {
	return func(m Model, oc OperatingConditions, p *PolarizationPoint) (err error) {
		p.ActivationAnode, err = ActivationAnode(m.Constants, p.J, oc.Temperature)
		return
	}
}

// CathodeActivation returns a calculator of the cathode activation
// overpotential.
func CathodeActivation() PointCalculator {
	return func(m Model, oc OperatingConditions, p *PolarizationPoint) (err error) {
		p.ActivationCathode, err = ActivationCathode(m.Constants, p.J, oc.Temperature)
		return
	}
}

// Ohmic returns a calculator of the ohmic overpotential.
func Ohmic() PointCalculator {
	return func(m Model, oc OperatingConditions, p *PolarizationPoint) (err error) {
		p.Ohmic, err = OhmicOverpotential(m.Calibration, p.J, oc.Temperature, oc.WaterContent, oc.Thickness)
		return
	}
}

// CellVoltage returns a calculator that sums the voltage components. It
// must run after the calculators of the individual components.
func CellVoltage() PointCalculator {
	return func(_ Model, _ OperatingConditions, p *PolarizationPoint) error {
		p.Cell = p.Reversible + p.ActivationAnode + p.ActivationCathode + p.Ohmic
		return nil
	}
}

// DefaultCalculators returns the calculators used by ComputeCurve, in
// the order they are run for each point.
func DefaultCalculators() []PointCalculator {
	return []PointCalculator{
		Reversible(),
		AnodeActivation(),
		CathodeActivation(),
		Ohmic(),
		CellVoltage(),
	}
}

// PolarizationCurve is the polarization curve of a cell under a single
// set of operating conditions. It is not modified after it is created.
type PolarizationCurve struct {
	Conditions OperatingConditions
	Model      Model
	points     []PolarizationPoint
}

// Len returns the number of points in the curve.
func (c *PolarizationCurve) Len() int { return len(c.points) }

// Points returns a copy of the points of the curve in order of
// increasing current density.
func (c *PolarizationCurve) Points() []PolarizationPoint {
	o := make([]PolarizationPoint, len(c.points))
	copy(o, c.points)
	return o
}

// Point returns the i'th point of the curve.
func (c *PolarizationCurve) Point(i int) PolarizationPoint { return c.points[i] }

func (c *PolarizationCurve) column(f func(p PolarizationPoint) float64) []float64 {
	o := make([]float64, len(c.points))
	for i, p := range c.points {
		o[i] = f(p)
	}
	return o
}

// CurrentDensity returns the current density at each point [A/cm²].
func (c *PolarizationCurve) CurrentDensity() []float64 {
	return c.column(func(p PolarizationPoint) float64 { return p.J })
}

// CellVoltage returns the cell voltage at each point [V].
func (c *PolarizationCurve) CellVoltage() []float64 {
	return c.column(func(p PolarizationPoint) float64 { return p.Cell })
}

// Series names.
const (
	SeriesOhmic             = "ohmic overpotential"
	SeriesActivationAnode   = "anode activation overpotential"
	SeriesActivationCathode = "cathode activation overpotential"
	SeriesActivation        = "activation overpotential"
	SeriesReversible        = "reversible voltage"
)

// Series is a named voltage component of a curve.
type Series struct {
	Name   string
	Values []float64
}

// Series returns the voltage components of the curve in stacking order:
// the ohmic overpotential, the activation overpotential(s) and the
// reversible voltage. Whether the activation overpotential is split into
// anode and cathode series depends on the calibration of the model that
// created the curve. The values of the series at each point sum to the
// cell voltage.
func (c *PolarizationCurve) Series() []Series {
	o := []Series{{
		Name:   SeriesOhmic,
		Values: c.column(func(p PolarizationPoint) float64 { return p.Ohmic }),
	}}
	if c.Model.Calibration.Activation == ActivationCombined {
		o = append(o, Series{
			Name:   SeriesActivation,
			Values: c.column(PolarizationPoint.Activation),
		})
	} else {
		o = append(o,
			Series{
				Name:   SeriesActivationAnode,
				Values: c.column(func(p PolarizationPoint) float64 { return p.ActivationAnode }),
			},
			Series{
				Name:   SeriesActivationCathode,
				Values: c.column(func(p PolarizationPoint) float64 { return p.ActivationCathode }),
			})
	}
	return append(o, Series{
		Name:   SeriesReversible,
		Values: c.column(func(p PolarizationPoint) float64 { return p.Reversible }),
	})
}

// ComputeCurve calculates the polarization curve of a cell under
// conditions oc at current densities j [A/cm²] using DefaultModel.
func ComputeCurve(oc OperatingConditions, j []float64) (*PolarizationCurve, error) {
	return DefaultModel().ComputeCurve(oc, j)
}

// ComputeCurve calculates the polarization curve of a cell under
// conditions oc at current densities j [A/cm²], which must be
// non-negative and strictly increasing. All inputs are checked before
// any point is calculated, and no curve is returned if any point fails.
func (m Model) ComputeCurve(oc OperatingConditions, j []float64) (*PolarizationCurve, error) {
	return m.ComputeCurveWith(oc, j, DefaultCalculators()...)
}

// ComputeCurveWith is like ComputeCurve but runs the given calculators
// on each point instead of the default ones. The points are calculated
// concurrently.
func (m Model) ComputeCurveWith(oc OperatingConditions, j []float64, calculators ...PointCalculator) (*PolarizationCurve, error) {
	if err := m.Check(oc, j); err != nil {
		return nil, err
	}
	c := &PolarizationCurve{
		Conditions: oc,
		Model:      m,
		points:     make([]PolarizationPoint, len(j)),
	}
	for i, jj := range j {
		c.points[i].J = jj
	}

	nprocs := runtime.GOMAXPROCS(0)
	if nprocs > len(j) {
		nprocs = len(j)
	}
	// errs holds the first error encountered by each worker along with
	// the index of the point where it occurred.
	type pointErr struct {
		i   int
		err error
	}
	errs := make([]pointErr, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for ii := pp; ii < len(c.points); ii += nprocs {
				for _, f := range calculators {
					if err := f(m, oc, &c.points[ii]); err != nil {
						errs[pp] = pointErr{i: ii, err: err}
						return
					}
				}
			}
		}(pp)
	}
	wg.Wait()

	var first *pointErr
	for i := range errs {
		if errs[i].err != nil && (first == nil || errs[i].i < first.i) {
			first = &errs[i]
		}
	}
	if first != nil {
		return nil, first.err
	}
	return c, nil
}

// Check returns an error if a curve cannot be calculated from the
// operating conditions and current density samples.
func (m Model) Check(oc OperatingConditions, j []float64) error {
	const op = "ComputeCurve"
	if err := m.Validate(); err != nil {
		return err
	}
	if err := oc.Validate(); err != nil {
		return err
	}
	if _, err := ReversibleVoltage(m.Constants, oc.Temperature); err != nil {
		return err
	}
	// The conductivity does not depend on the current density, so a
	// degenerate membrane is reported once for the whole curve.
	if _, err := MembraneResistance(m.Calibration, oc.Temperature, oc.WaterContent, oc.Thickness); err != nil {
		return err
	}
	for i, jj := range j {
		if err := checkNonNegative(op, "CurrentDensity", jj); err != nil {
			return err
		}
		if i > 0 && !(jj > j[i-1]) {
			return invalid(op, "CurrentDensity", jj, "samples must be strictly increasing")
		}
	}
	return nil
}
