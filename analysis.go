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
	"sort"

	"gonum.org/v1/gonum/stat"
)

// VoltageAt returns the cell voltage [V] at current density j [A/cm²],
// linearly interpolated between the points of the curve. j must be
// within the range of current densities of the curve.
func (c *PolarizationCurve) VoltageAt(j float64) (float64, error) {
	const op = "VoltageAt"
	if c.Len() == 0 {
		return 0, invalid(op, "CurrentDensity", j, "curve has no points")
	}
	first, last := c.points[0].J, c.points[c.Len()-1].J
	if !(j >= first && j <= last) {
		return 0, invalid(op, "CurrentDensity", j, "outside of the range of the curve")
	}
	i := sort.Search(c.Len(), func(i int) bool { return c.points[i].J >= j })
	p1 := c.points[i]
	if p1.J == j {
		return p1.Cell, nil
	}
	p0 := c.points[i-1]
	frac := (j - p0.J) / (p1.J - p0.J)
	return p0.Cell + frac*(p1.Cell-p0.Cell), nil
}

// ApparentResistance fits a straight line
//
//	Vcell = intercept + slope·j
//
// to the points of the curve with j >= jMin and returns the slope, which
// is the apparent area-specific resistance of the cell [Ω·cm²], and the
// intercept [V]. At high current densities the activation
// overpotentials are nearly constant, so the slope approaches the
// membrane resistance.
func (c *PolarizationCurve) ApparentResistance(jMin float64) (slope, intercept float64, err error) {
	const op = "ApparentResistance"
	var x, y []float64
	for _, p := range c.points {
		if p.J >= jMin {
			x = append(x, p.J)
			y = append(y, p.Cell)
		}
	}
	if len(x) < 2 {
		return 0, 0, invalid(op, "jMin", jMin, "fewer than two points available for the fit")
	}
	intercept, slope = stat.LinearRegression(x, y, nil, false)
	return slope, intercept, nil
}
