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

// MembraneConductivity returns the ionic conductivity [S/cm] of a
// membrane with water content λ at temperature T [K]:
//
//	σ = c·λ·exp(E·(1/Tref - 1/T))
//
// where c, E and Tref are the calibration's ConductivityCoefficient,
// ConductivityActivation and ReferenceTemperature.
// See https://doi.org/10.1016/j.jclepro.2020.121184 Eq. 22.
func MembraneConductivity(c Calibration, λ, T float64) (float64, error) {
	const op = "MembraneConductivity"
	if err := checkWaterContent(op, λ); err != nil {
		return 0, err
	}
	if err := checkPositive(op, "Temperature", T); err != nil {
		return 0, err
	}
	arrhenius := math.Exp(c.ConductivityActivation * (1/c.ReferenceTemperature - 1/T))
	if math.IsInf(arrhenius, 0) || math.IsNaN(arrhenius) {
		return 0, &DegeneracyError{Op: op, Reason: "temperature dependence of conductivity overflows"}
	}
	if arrhenius == 0 {
		return 0, &DegeneracyError{Op: op, Reason: "temperature dependence of conductivity underflows to zero"}
	}
	σ := c.ConductivityCoefficient * λ * arrhenius
	if σ == 0 || math.IsInf(σ, 0) {
		return 0, &DegeneracyError{Op: op, Reason: "conductivity is not a finite positive number"}
	}
	return σ, nil
}

// MembraneResistance returns the areal resistance L/σ of a membrane of
// thickness L [m]. The thickness is used in meters together with a
// conductivity in S/cm, as in the reference model.
func MembraneResistance(c Calibration, T, λ, L float64) (float64, error) {
	const op = "MembraneResistance"
	if err := checkPositive(op, "Thickness", L); err != nil {
		return 0, err
	}
	σ, err := MembraneConductivity(c, λ, T)
	if err != nil {
		return 0, err
	}
	r := L / σ
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, &DegeneracyError{Op: op, Reason: "membrane resistance is not finite"}
	}
	return r, nil
}

// OhmicOverpotential returns the voltage drop [V] across the membrane at
// current density j [A/cm²], temperature T [K], water content λ and
// thickness L [m].
func OhmicOverpotential(c Calibration, j, T, λ, L float64) (float64, error) {
	const op = "OhmicOverpotential"
	if err := checkNonNegative(op, "CurrentDensity", j); err != nil {
		return 0, err
	}
	r, err := MembraneResistance(c, T, λ, L)
	if err != nil {
		return 0, err
	}
	v := r * j
	if math.IsInf(v, 0) {
		return 0, &DegeneracyError{Op: op, Reason: "ohmic overpotential overflows"}
	}
	return v, nil
}
