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
	"errors"
	"math"
	"testing"
)

const testTolerance = 1.e-9

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func TestReversibleVoltage(t *testing.T) {
	k := DefaultConstants()
	tests := []struct {
		T, want float64
	}{
		{T: 298.15, want: 1.229},
		{T: 323.15, want: 1.2065},
		{T: 273.15, want: 1.2515},
	}
	for _, test := range tests {
		v, err := ReversibleVoltage(k, test.T)
		if err != nil {
			t.Fatal(err)
		}
		if different(v, test.want, testTolerance) {
			t.Errorf("T=%g: have %g, want %g", test.T, v, test.want)
		}
	}
	for _, T := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		if _, err := ReversibleVoltage(k, T); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("T=%g: want invalid parameter, have %v", T, err)
		}
	}
}

func TestActivation(t *testing.T) {
	k := DefaultConstants()
	for _, T := range []float64{MinTemperature, 298.15, 323.15, MaxTemperature, 1000} {
		a, err := ActivationAnode(k, 0, T)
		if err != nil {
			t.Fatal(err)
		}
		c, err := ActivationCathode(k, 0, T)
		if err != nil {
			t.Fatal(err)
		}
		if a != 0 || c != 0 {
			t.Errorf("T=%g: activation at zero current should be exactly zero; have %g, %g", T, a, c)
		}
	}

	const T = 323.15
	a, err := ActivationAnode(k, 1, T)
	if err != nil {
		t.Fatal(err)
	}
	if different(a, 0.2147685201957665, 1e-8) {
		t.Errorf("anode: have %g", a)
	}
	c, err := ActivationCathode(k, 1, T)
	if err != nil {
		t.Fatal(err)
	}
	if different(c, 0.34611539779859307, 1e-8) {
		t.Errorf("cathode: have %g", c)
	}
	total, err := ActivationTotal(k, 1, T)
	if err != nil {
		t.Fatal(err)
	}
	if different(total, a+c, testTolerance) {
		t.Errorf("total: have %g, want %g", total, a+c)
	}

	t.Run("monotonic", func(t *testing.T) {
		var prevA, prevC float64
		for _, j := range DefaultSweep() {
			a, err := ActivationAnode(k, j, T)
			if err != nil {
				t.Fatal(err)
			}
			c, err := ActivationCathode(k, j, T)
			if err != nil {
				t.Fatal(err)
			}
			if a < prevA || c < prevC {
				t.Errorf("j=%g: activation decreased", j)
			}
			prevA, prevC = a, c
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := ActivationAnode(k, -0.1, T); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("negative current density: have %v", err)
		}
		if _, err := ActivationCathode(k, 1, 0); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("zero temperature: have %v", err)
		}
		if _, err := ActivationTotal(k, math.NaN(), T); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("NaN current density: have %v", err)
		}
	})

	t.Run("overflow", func(t *testing.T) {
		// j/(2·i0) overflows at the anode but not at the cathode.
		if _, err := ActivationAnode(k, 1e303, T); !errors.Is(err, ErrNumericalDegeneracy) {
			t.Errorf("anode: have %v", err)
		}
		if _, err := ActivationTotal(k, 1e303, T); !errors.Is(err, ErrNumericalDegeneracy) {
			t.Errorf("total: have %v", err)
		}
		c, err := ActivationCathode(k, 1e303, T)
		if err != nil {
			t.Fatal(err)
		}
		if math.IsInf(c, 0) {
			t.Errorf("cathode: have %g", c)
		}
	})
}

func TestMembraneConductivity(t *testing.T) {
	tests := []struct {
		name string
		c    Calibration
		want float64
	}{
		{name: "default", c: DefaultCalibration(), want: 0.000667251733028795},
		{name: "legacy", c: LegacyModel().Calibration, want: 0.0007157868740796624},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			σ, err := MembraneConductivity(test.c, 0.1, 323.15)
			if err != nil {
				t.Fatal(err)
			}
			if different(σ, test.want, 1e-8) {
				t.Errorf("have %g, want %g", σ, test.want)
			}
			want := test.c.ConductivityCoefficient * 0.1 *
				math.Exp(test.c.ConductivityActivation*(1/test.c.ReferenceTemperature-1/323.15))
			if different(σ, want, testTolerance) {
				t.Errorf("have %g, want %g", σ, want)
			}
		})
	}
}

func TestOhmicOverpotential(t *testing.T) {
	c := DefaultCalibration()
	v, err := OhmicOverpotential(c, 1, 323.15, 0.1, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	if different(v, 0.1498684754943672, 1e-8) {
		t.Errorf("have %g", v)
	}
	v, err = OhmicOverpotential(c, 0, 323.15, 0.1, 1e-4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("ohmic overpotential at zero current should be zero, have %g", v)
	}

	// Thinner and wetter membranes have lower losses.
	thin, _ := OhmicOverpotential(c, 1, 323.15, 0.1, 1e-5)
	wet, _ := OhmicOverpotential(c, 1, 323.15, 0.7, 1e-4)
	hot, _ := OhmicOverpotential(c, 1, 383, 0.1, 1e-4)
	for name, x := range map[string]float64{"thin": thin, "wet": wet, "hot": hot} {
		if !(x < 0.1498684754943672) {
			t.Errorf("%s: have %g", name, x)
		}
	}

	t.Run("monotonic", func(t *testing.T) {
		var prev float64
		for _, j := range DefaultSweep() {
			v, err := OhmicOverpotential(c, j, 323.15, 0.1, 1e-4)
			if err != nil {
				t.Fatal(err)
			}
			if v < prev {
				t.Errorf("j=%g: ohmic overpotential decreased", j)
			}
			prev = v
		}
	})

	t.Run("dry", func(t *testing.T) {
		for _, T := range []float64{273, 323.15, 398} {
			for _, j := range []float64{0, 1, 3} {
				_, err := OhmicOverpotential(c, j, T, 0, 1e-4)
				if !errors.Is(err, ErrInvalidParameter) {
					t.Fatalf("T=%g, j=%g: want invalid parameter, have %v", T, j, err)
				}
				var pe *ParameterError
				if !errors.As(err, &pe) || pe.Name != "WaterContent" {
					t.Errorf("wrong parameter error: %v", err)
				}
			}
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, test := range []struct {
			name       string
			j, T, λ, L float64
		}{
			{name: "negative j", j: -1, T: 323, λ: 0.1, L: 1e-4},
			{name: "zero T", j: 1, T: 0, λ: 0.1, L: 1e-4},
			{name: "negative λ", j: 1, T: 323, λ: -0.1, L: 1e-4},
			{name: "zero L", j: 1, T: 323, λ: 0.1, L: 0},
			{name: "negative L", j: 1, T: 323, λ: 0.1, L: -1e-4},
		} {
			if _, err := OhmicOverpotential(c, test.j, test.T, test.λ, test.L); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("%s: have %v", test.name, err)
			}
		}
	})

	t.Run("degenerate", func(t *testing.T) {
		// A very small temperature makes the Arrhenius term underflow.
		_, err := OhmicOverpotential(c, 1, 1e-3, 0.1, 1e-4)
		if !errors.Is(err, ErrNumericalDegeneracy) {
			t.Errorf("underflow: have %v", err)
		}
		hc := c
		hc.ConductivityActivation = 1e9
		_, err = OhmicOverpotential(hc, 1, 1000, 0.1, 1e-4)
		if !errors.Is(err, ErrNumericalDegeneracy) {
			t.Errorf("overflow: have %v", err)
		}
		// r ≈ 1500 Ω·cm² with a 1 m membrane, so r·j overflows.
		_, err = OhmicOverpotential(c, 1e306, 323.15, 0.1, 1)
		if !errors.Is(err, ErrNumericalDegeneracy) {
			t.Errorf("current overflow: have %v", err)
		}
	})
}

func TestValidate(t *testing.T) {
	if err := DefaultModel().Validate(); err != nil {
		t.Error(err)
	}
	if err := LegacyModel().Validate(); err != nil {
		t.Error(err)
	}
	k := DefaultConstants()
	k.Faraday = 0
	if err := k.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("constants: have %v", err)
	}
	c := DefaultCalibration()
	c.ReferenceTemperature = -1
	if err := c.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("calibration: have %v", err)
	}
	c = DefaultCalibration()
	c.Activation = ActivationMode(5)
	if err := c.Validate(); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("activation mode: have %v", err)
	}

	oc := OperatingConditions{Temperature: 323, WaterContent: 0.1, Thickness: 1e-4}
	if err := oc.Validate(); err != nil {
		t.Error(err)
	}
	if d := oc.OutOfDomain(); d != nil {
		t.Errorf("unexpected out of domain: %v", d)
	}
	oc.Temperature = 500
	if d := oc.OutOfDomain(); len(d) != 1 {
		t.Errorf("want 1 out of domain parameter, have %v", d)
	}
	oc.WaterContent = 0
	err := oc.Validate()
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("dry membrane: have %v", err)
	}
	want := "pemcurve: OperatingConditions: invalid WaterContent=0: membrane fully dry, conductivity undefined"
	if err.Error() != want {
		t.Errorf("have %q, want %q", err.Error(), want)
	}
}

func TestActivationMode(t *testing.T) {
	for _, test := range []struct {
		in   string
		want ActivationMode
	}{
		{"split", ActivationSplit},
		{"", ActivationSplit},
		{"Combined", ActivationCombined},
	} {
		m, err := ParseActivationMode(test.in)
		if err != nil {
			t.Fatal(err)
		}
		if m != test.want {
			t.Errorf("%q: have %v, want %v", test.in, m, test.want)
		}
	}
	if _, err := ParseActivationMode("both"); err == nil {
		t.Error("want error")
	}
	var m ActivationMode
	if err := m.UnmarshalText([]byte("combined")); err != nil {
		t.Fatal(err)
	}
	b, _ := m.MarshalText()
	if string(b) != "combined" {
		t.Errorf("have %s", b)
	}
}
