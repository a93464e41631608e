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

// Reversible cell potential at standard temperature and pressure [V] and
// its temperature coefficient [V/K], from
// https://doi.org/10.1016/j.enconman.2022.115917 Eq. 14.
const (
	StandardReversibleVoltage = 1.229
	reversibleTempCoefficient = 0.9e-3
)

// ReversibleVoltage returns the open-circuit voltage [V] of the cell at
// temperature T [K]:
//
//	Erev = 1.229 - 0.9e-3·(T - Tamb)
//
// Partial pressures of hydrogen, oxygen and water are not considered.
func ReversibleVoltage(k PhysicalConstants, T float64) (float64, error) {
	if err := checkPositive("ReversibleVoltage", "Temperature", T); err != nil {
		return 0, err
	}
	return StandardReversibleVoltage - reversibleTempCoefficient*(T-k.AmbientTemperature), nil
}
