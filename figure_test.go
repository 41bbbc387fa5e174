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
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
)

func TestFigureEncode(t *testing.T) {
	ctx := context.Background()
	d := createTestDataset(true)
	p := newTestPlotter()
	p.Trend = true
	p.Coastlines = NewCoastlines(
		geom.LineString{{X: -180, Y: 10}, {X: 0, Y: 20}, {X: 180, Y: 10}},
		geom.Polygon{{{X: -50, Y: -10}, {X: 50, Y: -10}, {X: 50, Y: 10}, {X: -50, Y: 10}, {X: -50, Y: -10}}},
	)
	diff := Reduction{
		Function: Difference,
		First:    &Period{2000, 2001},
		Last:     &Period{2002, 2003},
		Baseline: &Period{2000, 2001},
	}

	type render func(context.Context, *Dataset, string, Reduction) (*Figure, error)
	tests := []struct {
		name string
		f    render
		r    Reduction
	}{
		{name: "map climatology", f: p.Map, r: Reduction{}},
		{name: "map difference", f: p.Map, r: diff},
		{name: "time series", f: p.TimeSeries, r: diff},
		{name: "annual cycle", f: p.AnnualCycle, r: diff},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fig, err := test.f(ctx, d, "tas", test.r)
			if err != nil {
				t.Fatal(err)
			}
			for _, format := range []string{"png", "svg"} {
				b := new(bytes.Buffer)
				if err := fig.Encode(b, format); err != nil {
					t.Fatalf("%s: %v", format, err)
				}
				if b.Len() == 0 {
					t.Errorf("%s: empty output", format)
				}
			}
		})
	}
}

func TestFigureSave(t *testing.T) {
	fig, err := newTestPlotter().AnnualCycle(context.Background(), createTestDataset(false), "tas", Reduction{})
	if err != nil {
		t.Fatal(err)
	}
	if fig.Series == nil || fig.Map != nil {
		t.Error("line figures should hold series and no map data")
	}
	dir, err := ioutil.TempDir("", "climplot")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "cycle.png")
	if err := fig.Save(name); err != nil {
		t.Fatal(err)
	}
	b, err := ioutil.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b, []byte("\x89PNG")) {
		t.Error("output is not a PNG file")
	}
	if err := fig.Save(filepath.Join(dir, "cycle")); err == nil {
		t.Error("expected an error for a file without an extension")
	}
}

func TestClipToBounds(t *testing.T) {
	b := &geom.Bounds{Min: geom.Point{X: 0, Y: 0}, Max: geom.Point{X: 10, Y: 10}}
	line := geom.LineString{{X: -5, Y: 5}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 20, Y: 5}, {X: 5, Y: 5}}
	out := clipToBounds([]geom.Geom{line}, b)
	if len(out) != 1 {
		t.Fatalf("have %d lines, want 1", len(out))
	}
	if l := out[0].(geom.LineString); len(l) != 2 || l[0] != (geom.Point{X: 1, Y: 1}) {
		t.Errorf("have %v", l)
	}

	var c *Coastlines
	if g := c.within(b); g != nil {
		t.Errorf("nil coastlines should have no outlines, have %v", g)
	}
}

func TestCellEdges(t *testing.T) {
	have := cellEdges([]float64{0, 10, 30})
	want := []float64{-5, 5, 20, 40}
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("edge %d: have %g, want %g", i, have[i], want[i])
		}
	}
}
