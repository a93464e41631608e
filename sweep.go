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

	"gonum.org/v1/gonum/floats"
)

// Default current density sweep [A/cm²].
const (
	DefaultSweepStart = 0.
	DefaultSweepStop  = 3.
	DefaultSweepStep  = 0.02
)

// MaxSweepSamples is the largest number of samples Sweep will return.
const MaxSweepSamples = 10000000

// Sweep returns current densities from start up to but not including
// stop, at intervals of step. The number of samples is
// ceil((stop-start)/step), so that Sweep(0, 3, 0.02) returns 150 samples.
// Each sample is calculated as start+i·step to avoid accumulating
// rounding error.
func Sweep(start, stop, step float64) ([]float64, error) {
	const op = "Sweep"
	if err := checkNonNegative(op, "start", start); err != nil {
		return nil, err
	}
	if math.IsNaN(stop) || math.IsInf(stop, 0) {
		return nil, invalid(op, "stop", stop, "must be a finite number")
	}
	if err := checkPositive(op, "step", step); err != nil {
		return nil, err
	}
	if stop <= start {
		return []float64{}, nil
	}
	nf := math.Ceil((stop - start) / step)
	if !(nf <= MaxSweepSamples) {
		return nil, invalid(op, "step", step, fmt.Sprintf("too many samples (more than %d)", MaxSweepSamples))
	}
	n := int(nf)
	o := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		o = append(o, v)
	}
	return o, nil
}

// LinearSweep returns n evenly spaced current densities from start to
// stop, inclusive.
func LinearSweep(start, stop float64, n int) ([]float64, error) {
	const op = "LinearSweep"
	if err := checkNonNegative(op, "start", start); err != nil {
		return nil, err
	}
	if err := checkPositive(op, "stop", stop); err != nil {
		return nil, err
	}
	if stop <= start {
		return nil, invalid(op, "stop", stop, "must be greater than start")
	}
	if n < 2 {
		return nil, invalid(op, "n", float64(n), "must be at least 2")
	}
	return floats.Span(make([]float64, n), start, stop), nil
}

// DefaultSweep returns the current densities of the reference model:
// 0 to 3 A/cm² in steps of 0.02 A/cm², excluding 3.
func DefaultSweep() []float64 {
	j, err := Sweep(DefaultSweepStart, DefaultSweepStop, DefaultSweepStep)
	if err != nil {
		panic(err)
	}
	return j
}
