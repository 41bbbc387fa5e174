/*
Copyright © 2024 the climplot authors.
This file is part of climplot.

climplot is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

climplot is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with climplot.  If not, see <http://www.gnu.org/licenses/>.
*/

package hash

import (
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	base := Request{Op: "periodmean", Dataset: "tas.nc", Variable: "tas", Model: 1, Start: 1981, End: 2010}
	if Key(base) != Key(base) {
		t.Error("key is not deterministic")
	}
	if k := Key(base); !strings.HasPrefix(k, "periodmean_") {
		t.Errorf("key %q should start with the reduction name", k)
	}

	tests := []struct {
		name string
		r    Request
	}{
		{name: "op", r: Request{Op: "timemean", Dataset: "tas.nc", Variable: "tas", Model: 1, Start: 1981, End: 2010}},
		{name: "dataset", r: Request{Op: "periodmean", Dataset: "pr.nc", Variable: "tas", Model: 1, Start: 1981, End: 2010}},
		{name: "variable", r: Request{Op: "periodmean", Dataset: "tas.nc", Variable: "tasmax", Model: 1, Start: 1981, End: 2010}},
		{name: "model", r: Request{Op: "periodmean", Dataset: "tas.nc", Variable: "tas", Model: 0, Start: 1981, End: 2010}},
		{name: "start", r: Request{Op: "periodmean", Dataset: "tas.nc", Variable: "tas", Model: 1, Start: 1982, End: 2010}},
		{name: "end", r: Request{Op: "periodmean", Dataset: "tas.nc", Variable: "tas", Model: 1, Start: 1981, End: 2011}},
		{name: "boundary", r: Request{Op: "periodmean", Dataset: "tas.nct", Variable: "as", Model: 1, Start: 1981, End: 2010}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if Key(test.r) == Key(base) {
				t.Errorf("%+v and %+v have the same key", test.r, base)
			}
		})
	}
}
