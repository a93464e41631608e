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

import "math"

// activation returns the inverse hyperbolic sine (high-field
// Butler-Volmer) activation overpotential [V] of an electrode with
// exchange current density i0 and transfer coefficient α, from
// https://doi.org/10.1016/j.jclepro.2020.121184 Eq. 16.
func activation(op string, k PhysicalConstants, i0, α, j, T float64) (float64, error) {
	if err := checkNonNegative(op, "CurrentDensity", j); err != nil {
		return 0, err
	}
	if err := checkPositive(op, "Temperature", T); err != nil {
		return 0, err
	}
	v := k.GasConstant * T / (α * k.Faraday) * math.Asinh(j/(2*i0))
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, &DegeneracyError{Op: op, Reason: "activation overpotential is not finite"}
	}
	return v, nil
}

// ActivationAnode returns the anode activation overpotential [V] at
// current density j [A/cm²] and temperature T [K]. It is exactly zero
// when j is zero.
func ActivationAnode(k PhysicalConstants, j, T float64) (float64, error) {
	return activation("ActivationAnode", k, k.ExchangeCurrentAnode, k.TransferAnode, j, T)
}

// ActivationCathode returns the cathode activation overpotential [V] at
// current density j [A/cm²] and temperature T [K]. It is exactly zero
// when j is zero.
func ActivationCathode(k PhysicalConstants, j, T float64) (float64, error) {
	return activation("ActivationCathode", k, k.ExchangeCurrentCathode, k.TransferCathode, j, T)
}

// ActivationTotal returns the sum of the anode and cathode activation
// overpotentials [V].
func ActivationTotal(k PhysicalConstants, j, T float64) (float64, error) {
	a, err := ActivationAnode(k, j, T)
	if err != nil {
		return 0, err
	}
	c, err := ActivationCathode(k, j, T)
	if err != nil {
		return 0, err
	}
	return a + c, nil
}
