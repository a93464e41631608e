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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spatialmodel/pemcurve"
	"github.com/tealeg/xlsx"
)

// tableFormats are the supported output table file extensions.
var tableFormats = []string{"csv", "xlsx", "json"}

// Table holds the output variables of a polarization curve.
type Table struct {
	// Conditions are the operating conditions of the curve.
	Conditions pemcurve.OperatingConditions

	// Activation is the activation decomposition mode of the model.
	Activation string

	// Names holds the variable names in output order: the built-in
	// variables followed by the user-defined variables in alphabetical
	// order.
	Names []string

	// Descriptions and Units hold information about each variable.
	// User-defined variables are described by their expressions.
	Descriptions, Units map[string]string

	// Values holds the value of each variable at each point of the curve.
	Values map[string][]float64

	// Series holds the voltage components in stacking order.
	Series []pemcurve.Series
}

// NewTable calculates the output variables of curve c using outputter o.
func NewTable(c *pemcurve.PolarizationCurve, o *pemcurve.Outputter) (*Table, error) {
	r, err := o.Results(c)
	if err != nil {
		return nil, err
	}
	names, descriptions, units := pemcurve.OutputOptions()
	t := &Table{
		Conditions:   c.Conditions,
		Activation:   c.Model.Calibration.Activation.String(),
		Names:        names,
		Descriptions: make(map[string]string),
		Units:        make(map[string]string),
		Values:       r,
		Series:       c.Series(),
	}
	for i, n := range names {
		t.Descriptions[n] = descriptions[i]
		t.Units[n] = units[i]
	}
	user := o.Variables()
	sort.Strings(user)
	for _, n := range user {
		t.Names = append(t.Names, n)
		t.Descriptions[n] = o.Expression(n)
	}
	return t, nil
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	if len(t.Names) == 0 {
		return 0
	}
	return len(t.Values[t.Names[0]])
}

func (t *Table) header(n string) string {
	if u := t.Units[n]; u != "" {
		return fmt.Sprintf("%s [%s]", n, u)
	}
	return n
}

// WriteCSV writes the table to w in CSV format, with one row per point.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Names))
	for i, n := range t.Names {
		header[i] = t.header(n)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(t.Names))
	for i := 0; i < t.Len(); i++ {
		for j, n := range t.Names {
			row[j] = strconv.FormatFloat(t.Values[n][i], 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table to w as an Excel workbook with a data sheet
// and a sheet describing the variables.
func (t *Table) WriteXLSX(w io.Writer) error {
	f := xlsx.NewFile()
	data, err := f.AddSheet("Curve")
	if err != nil {
		return fmt.Errorf("pemcurve: creating xlsx sheet: %v", err)
	}
	row := data.AddRow()
	for _, n := range t.Names {
		row.AddCell().SetString(t.header(n))
	}
	for i := 0; i < t.Len(); i++ {
		row = data.AddRow()
		for _, n := range t.Names {
			row.AddCell().SetFloat(t.Values[n][i])
		}
	}

	info, err := f.AddSheet("Variables")
	if err != nil {
		return fmt.Errorf("pemcurve: creating xlsx sheet: %v", err)
	}
	row = info.AddRow()
	for _, h := range []string{"Variable", "Description", "Units"} {
		row.AddCell().SetString(h)
	}
	for _, n := range t.Names {
		row = info.AddRow()
		row.AddCell().SetString(n)
		row.AddCell().SetString(t.Descriptions[n])
		row.AddCell().SetString(t.Units[n])
	}
	row = info.AddRow()
	row.AddCell().SetString("Conditions")
	row.AddCell().SetString(t.Conditions.String())
	row = info.AddRow()
	row.AddCell().SetString("Activation")
	row.AddCell().SetString(t.Activation)
	return f.Write(w)
}

// WriteJSON writes the table to w in JSON format.
func (t *Table) WriteJSON(w io.Writer) error {
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(t)
}

// WriteFile writes the table to the given file. The format is chosen by
// the file extension: .csv, .xlsx or .json.
func (t *Table) WriteFile(fileName string) error {
	fileName, err := checkOutputFile(fileName, tableFormats...)
	if err != nil {
		return err
	}
	f, err := os.Create(fileName)
	if err != nil {
		return fmt.Errorf("pemcurve: creating output file: %v", err)
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		err = t.WriteCSV(f)
	case ".xlsx":
		err = t.WriteXLSX(f)
	case ".json":
		err = t.WriteJSON(f)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("pemcurve: writing output file: %v", err)
	}
	return f.Close()
}
