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

// Package hash creates cache keys for curve requests.
package hash

import (
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"io"
	"reflect"

	"github.com/davecgh/go-spew/spew"
)

// Hash returns a hash key for the specified objects. Objects with equal
// exported contents have equal keys.
func Hash(objects ...interface{}) string {
	h := fnv.New128a()
	if err := encode(h, objects); err != nil {
		// Fall back to printing values that gob cannot encode
		// (e.g., nil pointers or structs without exported fields).
		h.Reset()
		printer := spew.ConfigState{
			Indent:                  " ",
			SortKeys:                true,
			DisableMethods:          true,
			SpewKeys:                true,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
		}
		for _, o := range objects {
			printer.Fprintf(h, "%#v\n", o)
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// encode writes the gob encoding of objects to w. gob panics on some
// values instead of returning an error, so panics are returned as errors.
func encode(w io.Writer, objects []interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("hash: %v", r)
		}
	}()
	e := gob.NewEncoder(w)
	for _, o := range objects {
		if o == nil {
			return fmt.Errorf("hash: nil value")
		}
		if v := reflect.ValueOf(o); v.Kind() == reflect.Ptr && v.IsNil() {
			return fmt.Errorf("hash: nil pointer of type %T", o)
		}
		if err := e.Encode(o); err != nil {
			return err
		}
	}
	return nil
}
