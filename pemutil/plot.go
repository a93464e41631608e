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
	"image/color"
	"io"

	"github.com/spatialmodel/pemcurve"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// plotFormats are the supported chart file extensions.
var plotFormats = []string{"png", "svg", "pdf", "eps", "jpg", "jpeg", "tif", "tiff"}

// Chart dimensions.
const (
	PlotWidth  = 6 * vg.Inch
	PlotHeight = 4 * vg.Inch
)

// seriesColors maps the voltage components to fill colors.
var seriesColors = map[string]color.Color{
	pemcurve.SeriesOhmic:             plotutil.Color(0),
	pemcurve.SeriesActivationAnode:   plotutil.Color(1),
	pemcurve.SeriesActivationCathode: plotutil.Color(2),
	pemcurve.SeriesActivation:        plotutil.Color(1),
	pemcurve.SeriesReversible:        plotutil.Color(3),
}

// Plot creates a stacked-area chart of the voltage components of c. The
// reversible voltage is drawn at the bottom and the overpotentials are
// stacked above it, so the top edge of the chart is the cell voltage.
func Plot(c *pemcurve.PolarizationCurve) (*plot.Plot, error) {
	if c.Len() == 0 {
		return nil, fmt.Errorf("pemcurve: cannot plot a curve with no points")
	}
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = fmt.Sprintf("Polarization curve (%s)", c.Conditions)
	p.X.Label.Text = "Current density (A/cm²)"
	p.Y.Label.Text = "Cell voltage (V)"
	p.Legend.Top = true
	p.Legend.Left = true

	j := c.CurrentDensity()
	series := c.Series()
	lower := make([]float64, len(j))
	// Stack from the bottom (the last series) up.
	for i := len(series) - 1; i >= 0; i-- {
		s := series[i]
		upper := make([]float64, len(j))
		for k := range j {
			upper[k] = lower[k] + s.Values[k]
		}
		xy := make(plotter.XYs, 0, 2*len(j))
		for k := range j {
			xy = append(xy, plotter.XY{X: j[k], Y: upper[k]})
		}
		for k := len(j) - 1; k >= 0; k-- {
			xy = append(xy, plotter.XY{X: j[k], Y: lower[k]})
		}
		poly, err := plotter.NewPolygon(xy)
		if err != nil {
			return nil, fmt.Errorf("pemcurve: plotting %s: %v", s.Name, err)
		}
		poly.Color = seriesColors[s.Name]
		poly.LineStyle.Width = 0
		p.Add(poly)
		p.Legend.Add(s.Name, poly)
		lower = upper
	}

	cell := make(plotter.XYs, len(j))
	for k := range j {
		cell[k].X = j[k]
		cell[k].Y = lower[k]
	}
	line, err := plotter.NewLine(cell)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1.5)
	p.Add(line)
	p.Legend.Add("cell voltage", line)

	p.X.Min = j[0]
	p.X.Max = j[len(j)-1]
	p.Y.Min = 0
	return p, nil
}

// WritePlot writes a chart of c to w in the given format, e.g. "png".
func WritePlot(w io.Writer, c *pemcurve.PolarizationCurve, format string) error {
	p, err := Plot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePlot writes a chart of c to fileName. The format is chosen by the
// file extension.
func SavePlot(fileName string, c *pemcurve.PolarizationCurve) error {
	fileName, err := checkOutputFile(fileName, plotFormats...)
	if err != nil {
		return err
	}
	p, err := Plot(c)
	if err != nil {
		return err
	}
	return p.Save(PlotWidth, PlotHeight, fileName)
}
