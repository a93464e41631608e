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

package pemutil

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/pemcurve"
)

// Point calculates the voltage components at current density j.
func Point(m pemcurve.Model, oc pemcurve.OperatingConditions, j float64) (pemcurve.PolarizationPoint, error) {
	c, err := m.ComputeCurve(oc, []float64{j})
	if err != nil {
		return pemcurve.PolarizationPoint{}, err
	}
	return c.Point(0), nil
}

// writePoint writes a table of the voltage components of p to w.
func writePoint(w io.Writer, m pemcurve.Model, p pemcurve.PolarizationPoint) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "current density\t%.6g\tA/cm²\n", p.J)
	fmt.Fprintf(tw, "%s\t%.6g\tV\n", pemcurve.SeriesReversible, p.Reversible)
	if m.Calibration.Activation == pemcurve.ActivationCombined {
		fmt.Fprintf(tw, "%s\t%.6g\tV\n", pemcurve.SeriesActivation, p.Activation())
	} else {
		fmt.Fprintf(tw, "%s\t%.6g\tV\n", pemcurve.SeriesActivationAnode, p.ActivationAnode)
		fmt.Fprintf(tw, "%s\t%.6g\tV\n", pemcurve.SeriesActivationCathode, p.ActivationCathode)
	}
	fmt.Fprintf(tw, "%s\t%.6g\tV\n", pemcurve.SeriesOhmic, p.Ohmic)
	fmt.Fprintf(tw, "cell voltage\t%.6g\tV\n", p.Cell)
	return tw.Flush()
}

// Curve calculates the polarization curve at current densities j, writes
// the built-in variables and the derived outputVars to outputFile and logs
// a summary of the curve. The apparent resistance of the cell is
// estimated from the points with current densities of at least
// resistanceThreshold.
func Curve(m pemcurve.Model, oc pemcurve.OperatingConditions, j []float64, outputFile string, outputVars map[string]string, resistanceThreshold float64) error {
	if len(j) == 0 {
		return fmt.Errorf("pemcurve: no current densities specified")
	}
	outputFile, err := checkOutputFile(outputFile, tableFormats...)
	if err != nil {
		return err
	}
	o, err := pemcurve.NewOutputter(outputVars, nil)
	if err != nil {
		return err
	}
	c, err := m.ComputeCurve(oc, j)
	if err != nil {
		return err
	}
	t, err := NewTable(c, o)
	if err != nil {
		return err
	}
	if err := t.WriteFile(outputFile); err != nil {
		return err
	}
	logSummary(c, resistanceThreshold)
	Log.WithField("file", outputFile).Info("wrote polarization curve")
	return nil
}

func logSummary(c *pemcurve.PolarizationCurve, resistanceThreshold float64) {
	first, last := c.Point(0), c.Point(c.Len()-1)
	fields := logrus.Fields{
		"conditions":  c.Conditions.String(),
		"points":      c.Len(),
		"Vcell(jmin)": first.Cell,
		"jmin":        first.J,
		"Vcell(jmax)": last.Cell,
		"jmax":        last.J,
	}
	slope, _, err := c.ApparentResistance(resistanceThreshold)
	if err != nil {
		Log.WithError(err).Warn("could not estimate apparent resistance")
	} else {
		fields["resistance"] = fmt.Sprintf("%.4g Ω·cm²", slope)
	}
	Log.WithFields(fields).Info("polarization curve")
}

// PlotCurve calculates the polarization curve at current densities j and
// writes a chart of it to plotFile.
func PlotCurve(m pemcurve.Model, oc pemcurve.OperatingConditions, j []float64, plotFile string) error {
	c, err := m.ComputeCurve(oc, j)
	if err != nil {
		return err
	}
	if err := SavePlot(plotFile, c); err != nil {
		return err
	}
	Log.WithField("file", plotFile).Info("wrote polarization curve chart")
	return nil
}
