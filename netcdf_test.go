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

package climplot

import (
	"io/ioutil"
	"math"
	"os"
	"testing"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

func TestReadWriteNetCDF(t *testing.T) {
	for _, models := range []bool{true, false} {
		d := createTestDataset(models)
		d.Vars["tas"].Data.Set(math.NaN(), 0, 3, 1, 2)

		f, err := ioutil.TempFile("", "climplot*.nc")
		if err != nil {
			t.Fatal(err)
		}
		defer os.Remove(f.Name())
		if err = Write(f, d); err != nil {
			t.Fatal(err)
		}
		f.Close()

		f, err = os.Open(f.Name())
		if err != nil {
			t.Fatal(err)
		}
		d2, err := Load(f, f.Name())
		f.Close()
		if err != nil {
			t.Fatal(err)
		}

		if d2.ID != f.Name() {
			t.Errorf("id: have %q, want %q", d2.ID, f.Name())
		}
		if d2.HasModelDim() != models || len(d2.Models) != len(d.Models) {
			t.Fatalf("models: have %v, want %v", d2.Models, d.Models)
		}
		for i := range d.Models {
			if d2.Models[i] != d.Models[i] {
				t.Errorf("model %d: have %q, want %q", i, d2.Models[i], d.Models[i])
			}
		}
		if len(d2.Time) != len(d.Time) {
			t.Fatalf("have %d times, want %d", len(d2.Time), len(d.Time))
		}
		for i := range d.Time {
			if !d2.Time[i].Equal(d.Time[i]) {
				t.Errorf("time %d: have %v, want %v", i, d2.Time[i], d.Time[i])
			}
		}
		for i := range d.Lat {
			if d2.Lat[i] != d.Lat[i] {
				t.Errorf("lat %d: have %g, want %g", i, d2.Lat[i], d.Lat[i])
			}
		}
		for i := range d.Lon {
			if d2.Lon[i] != d.Lon[i] {
				t.Errorf("lon %d: have %g, want %g", i, d2.Lon[i], d.Lon[i])
			}
		}
		v, err := d2.Variable("tas")
		if err != nil {
			t.Fatal(err)
		}
		if v.Units != "K" || v.Description != "near-surface air temperature" {
			t.Errorf("attributes: have %q and %q", v.Units, v.Description)
		}
		want := d.Vars["tas"].Data.Elements
		for i, have := range v.Data.Elements {
			if math.IsNaN(want[i]) {
				if !math.IsNaN(have) {
					t.Errorf("element %d: have %g, want NaN", i, have)
				}
				continue
			}
			if different(have, want[i], 1.0e-6) && math.Abs(have-want[i]) > 1.0e-6 {
				t.Errorf("element %d: have %g, want %g", i, have, want[i])
			}
		}
	}
}

func TestDecodeTimes(t *testing.T) {
	tests := []struct {
		units string
		vals  []float64
		want  []time.Time
	}{
		{
			units: "days since 1850-01-01",
			vals:  []float64{0, 0.5, 365},
			want: []time.Time{
				time.Date(1850, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(1850, time.January, 1, 12, 0, 0, 0, time.UTC),
				time.Date(1851, time.January, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			units: "hours since 2000-1-1 00:00:00",
			vals:  []float64{36},
			want:  []time.Time{time.Date(2000, time.January, 2, 12, 0, 0, 0, time.UTC)},
		},
		{
			units: "seconds since 1970-01-01T00:00:00Z",
			vals:  []float64{-60},
			want:  []time.Time{time.Date(1969, time.December, 31, 23, 59, 0, 0, time.UTC)},
		},
	}
	for _, test := range tests {
		t.Run(test.units, func(t *testing.T) {
			have, err := decodeTimes(test.vals, test.units)
			if err != nil {
				t.Fatal(err)
			}
			for i := range test.want {
				if !have[i].Equal(test.want[i]) {
					t.Errorf("%d: have %v, want %v", i, have[i], test.want[i])
				}
			}
		})
	}
	for _, units := range []string{"days", "months since 2000-01-01", "days since yesterday"} {
		if _, err := decodeTimes([]float64{0}, units); err == nil {
			t.Errorf("%q: expected an error", units)
		}
	}
}

// TestLoadSharedVariable checks that a [time, lat, lon] variable in a
// file with a model dimension is loaded for every model.
func TestLoadSharedVariable(t *testing.T) {
	f, err := ioutil.TempFile("", "climplot*.nc")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())

	nt, nlat, nlon := 2, len(testLat), len(testLon)
	h := cdf.NewHeader([]string{modelDim, timeDim, latDim, lonDim},
		[]int{len(testModels), nt, nlat, nlon})
	h.AddAttribute("", "models", "CESM2,MIROC6")
	h.AddVariable(timeDim, []string{timeDim}, []float64{0})
	h.AddAttribute(timeDim, "units", "days since 2000-01-01")
	h.AddVariable(latDim, []string{latDim}, []float64{0})
	h.AddVariable(lonDim, []string{lonDim}, []float64{0})
	h.AddVariable("tas", []string{modelDim, timeDim, latDim, lonDim}, []float32{0})
	h.AddVariable("orog", []string{timeDim, latDim, lonDim}, []float32{0})
	h.Define()
	cf, err := cdf.Create(f, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []struct {
		name string
		data []float64
	}{{timeDim, []float64{0, 31}}, {latDim, testLat}, {lonDim, testLon}} {
		end := cf.Header.Lengths(c.name)
		if _, err = cf.Writer(c.name, make([]int, len(end)), end).Write(c.data); err != nil {
			t.Fatal(err)
		}
	}
	tas := sparse.ZerosDense(len(testModels), nt, nlat, nlon)
	for i := range tas.Elements {
		tas.Elements[i] = float64(i)
	}
	orog := sparse.ZerosDense(nt, nlat, nlon)
	for i := range orog.Elements {
		orog.Elements[i] = 100 + float64(i)
	}
	if err = writeNCF(cf, "tas", tas); err != nil {
		t.Fatal(err)
	}
	if err = writeNCF(cf, "orog", orog); err != nil {
		t.Fatal(err)
	}
	f.Close()

	f, err = os.Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d, err := Load(f, f.Name())
	if err != nil {
		t.Fatal(err)
	}
	v, err := d.Variable("orog")
	if err != nil {
		t.Fatal(err)
	}
	for m := range testModels {
		for i := 0; i < nlat; i++ {
			for j := 0; j < nlon; j++ {
				want := 100 + float64(nlat*nlon+i*nlon+j)
				if have := v.Data.Get(m, 1, i, j); absDifferent(have, want) {
					t.Errorf("model %d [%d,%d]: have %g, want %g", m, i, j, have, want)
				}
			}
		}
	}
	if have := d.Vars["tas"].Data.Get(1, 0, 0, 0); absDifferent(have, float64(nt*nlat*nlon)) {
		t.Errorf("tas: have %g, want %d", have, nt*nlat*nlon)
	}
}
