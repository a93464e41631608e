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

// Command pemcurve is a command-line interface for the PEMCurve
// electrolyzer polarization model.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/pemcurve/pemutil"
)

// countCommands returns the number of arguments that are not flags,
// including the program name.
func countCommands(args []string) int {
	var commands int
	for _, arg := range args {
		if len(arg) == 0 || arg[0] != '-' {
			commands++
		}
	}
	return commands
}

func main() {
	if countCommands(os.Args) == 1 { // If only one command was supplied, start the GUI server.
		pemutil.StartGUI()
	}

	// If more than one command was supplied, run in CLI mode.
	if err := pemutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
