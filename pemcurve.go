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

// Package pemcurve calculates steady-state polarization curves of
// proton-exchange-membrane (PEM) electrolyzer cells.
//
// The cell voltage at current density j is decomposed into the reversible
// voltage, the anode and cathode activation overpotentials and the ohmic
// overpotential of the membrane:
//
//	Vcell = Vrev(T) + VactA(j, T) + VactC(j, T) + Vohm(j, T, λ, L)
//
// All of the functions in this package are pure: the physical constants
// and calibration are passed in explicitly as a Model and nothing is
// retained between calls.
package pemcurve

// Version gives the version number.
const Version = "1.0.0"
