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
	"fmt"
	"math"
)

var (
	// ErrInvalidParameter is returned when an input is outside of the
	// domain where a model is defined.
	ErrInvalidParameter = errors.New("pemcurve: invalid parameter")

	// ErrNumericalDegeneracy is returned when a calculation would
	// overflow or underflow to a meaningless result.
	ErrNumericalDegeneracy = errors.New("pemcurve: numerical degeneracy")
)

// ParameterError describes an input that failed validation.
// It matches ErrInvalidParameter with errors.Is.
type ParameterError struct {
	Op     string  // operation that rejected the value
	Name   string  // parameter name
	Value  float64 // offending value
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("pemcurve: %s: invalid %s=%g: %s", e.Op, e.Name, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidParameter.
func (e *ParameterError) Unwrap() error { return ErrInvalidParameter }

// DegeneracyError is returned when an intermediate result is not finite.
// It matches ErrNumericalDegeneracy with errors.Is.
type DegeneracyError struct {
	Op     string
	Reason string
}

func (e *DegeneracyError) Error() string {
	return fmt.Sprintf("pemcurve: %s: %s", e.Op, e.Reason)
}

// Unwrap returns ErrNumericalDegeneracy.
func (e *DegeneracyError) Unwrap() error { return ErrNumericalDegeneracy }

func invalid(op, name string, v float64, reason string) error {
	return &ParameterError{Op: op, Name: name, Value: v, Reason: reason}
}

// checkPositive returns an error if v is not a finite number > 0.
func checkPositive(op, name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return invalid(op, name, v, "must be a finite number > 0")
	}
	return nil
}

// checkNonNegative returns an error if v is not a finite number >= 0.
func checkNonNegative(op, name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return invalid(op, name, v, "must be a finite number >= 0")
	}
	return nil
}
