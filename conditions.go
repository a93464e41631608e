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

import "fmt"

// Domain of interest of the operating parameters. Values outside of these
// ranges are accepted but the empirical correlations have not been
// calibrated there.
const (
	MinTemperature  = 273. // K
	MaxTemperature  = 398. // K
	MinWaterContent = 0.   // fully dry
	MaxWaterContent = 1.   // fully hydrated
	MinThickness    = 5e-6 // m
	MaxThickness    = 3e-4 // m
)

// OperatingConditions holds the curve-wide operating parameters of the
// cell.
type OperatingConditions struct {
	Temperature  float64 `desc:"Cell temperature" units:"K"`
	WaterContent float64 `desc:"Membrane water content" units:"fraction"`
	Thickness    float64 `desc:"Membrane thickness" units:"m"`
}

// Validate returns an error if the conditions cannot be used to calculate
// a polarization curve. A water content of zero is rejected because the
// membrane conductivity of a fully dry membrane is zero.
func (oc OperatingConditions) Validate() error {
	const op = "OperatingConditions"
	if err := checkPositive(op, "Temperature", oc.Temperature); err != nil {
		return err
	}
	if err := checkWaterContent(op, oc.WaterContent); err != nil {
		return err
	}
	return checkPositive(op, "Thickness", oc.Thickness)
}

func checkWaterContent(op string, λ float64) error {
	if λ == 0 {
		return invalid(op, "WaterContent", λ, "membrane fully dry, conductivity undefined")
	}
	return checkPositive(op, "WaterContent", λ)
}

// OutOfDomain returns a description of each parameter that is outside of
// the domain of interest. It returns nil if all parameters are inside.
func (oc OperatingConditions) OutOfDomain() []string {
	var o []string
	check := func(name string, v, min, max float64, units string) {
		if v < min || v > max {
			o = append(o, fmt.Sprintf("%s=%g %s is outside of [%g, %g]", name, v, units, min, max))
		}
	}
	check("Temperature", oc.Temperature, MinTemperature, MaxTemperature, "K")
	check("WaterContent", oc.WaterContent, MinWaterContent, MaxWaterContent, "")
	check("Thickness", oc.Thickness, MinThickness, MaxThickness, "m")
	return o
}

func (oc OperatingConditions) String() string {
	return fmt.Sprintf("T=%g K, λ=%g, L=%g m", oc.Temperature, oc.WaterContent, oc.Thickness)
}
