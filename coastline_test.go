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
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
)

const lambertProj = "+proj=lcc +lat_1=33.000000 +lat_2=45.000000 +lat_0=40.000000 +lon_0=-97.000000 +x_0=0 +y_0=0 +a=6370997.000000 +b=6370997.000000 +to_meter=1"

type coastRecord struct {
	geom.Polygon
	Name string
}

// writeTestCoastlines writes a shapefile with a single island spanning
// 10W-10E and 5S-5N to dir and returns its path.
func writeTestCoastlines(dir string) (string, error) {
	name := filepath.Join(dir, "coast.shp")
	e, err := shp.NewEncoder(name, coastRecord{})
	if err != nil {
		return "", err
	}
	err = e.Encode(coastRecord{
		Polygon: geom.Polygon{{
			{X: -10, Y: -5}, {X: 10, Y: -5}, {X: 10, Y: 5}, {X: -10, Y: 5}, {X: -10, Y: -5},
		}},
		Name: "island",
	})
	e.Close()
	return name, err
}

func TestLoadCoastlines(t *testing.T) {
	dir, err := ioutil.TempDir("", "climplot")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	name, err := writeTestCoastlines(dir)
	if err != nil {
		t.Fatal(err)
	}
	prj := filepath.Join(dir, "coast.prj")
	world := &geom.Bounds{Min: geom.Point{X: -1e8, Y: -1e8}, Max: geom.Point{X: 1e8, Y: 1e8}}

	t.Run("no prj", func(t *testing.T) {
		c, err := LoadCoastlines(name, nil)
		if err != nil {
			t.Fatal(err)
		}
		gs := c.within(world)
		if len(gs) != 1 {
			t.Fatalf("have %d outlines, want 1", len(gs))
		}
		b := gs[0].Bounds()
		if absDifferent(b.Min.X, -10) || absDifferent(b.Max.X, 10) || absDifferent(b.Min.Y, -5) || absDifferent(b.Max.Y, 5) {
			t.Errorf("bounds %+v", b)
		}
		far := &geom.Bounds{Min: geom.Point{X: 100, Y: 50}, Max: geom.Point{X: 120, Y: 60}}
		if gs := c.within(far); len(gs) != 0 {
			t.Errorf("have %d outlines away from the island, want 0", len(gs))
		}
	})

	t.Run("lambert", func(t *testing.T) {
		if err := ioutil.WriteFile(prj, []byte(lonLat), 0644); err != nil {
			t.Fatal(err)
		}
		dst, err := proj.Parse(lambertProj)
		if err != nil {
			t.Fatal(err)
		}
		c, err := LoadCoastlines(name, dst)
		if err != nil {
			t.Fatal(err)
		}
		gs := c.within(world)
		if len(gs) != 1 {
			t.Fatalf("have %d outlines, want 1", len(gs))
		}
		// Projected, the island is about 2500 km wide and lies east of the
		// central meridian.
		b := gs[0].Bounds()
		if w := b.Max.X - b.Min.X; w < 1.5e6 || w > 3e6 {
			t.Errorf("projected width %g m", w)
		}
		if b.Min.X <= 0 {
			t.Errorf("island should be east of 97W, have bounds %+v", b)
		}
	})

	t.Run("bad prj", func(t *testing.T) {
		if err := ioutil.WriteFile(prj, []byte("not a projection"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadCoastlines(name, nil); err == nil {
			t.Error("expected an error for an invalid .prj file")
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := LoadCoastlines(filepath.Join(dir, "missing.shp"), nil); err == nil {
			t.Error("expected an error for a missing shapefile")
		}
	})
}

func TestCellPolygonsProjected(t *testing.T) {
	lambert, err := proj.Parse(lambertProj)
	if err != nil {
		t.Fatal(err)
	}
	cells, b, err := cellPolygons(testLat, testLon, lambert)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != len(testLat)*len(testLon) {
		t.Fatalf("have %d cells, want %d", len(cells), len(testLat)*len(testLon))
	}
	for i, c := range cells {
		if c == nil {
			t.Errorf("cell %d could not be transformed", i)
		}
	}
	if b.Max.X-b.Min.X < 1e6 {
		t.Errorf("bounds %+v are not in meters", b)
	}

	// Mercator is undefined at the poles, so cells that touch them
	// are skipped.
	merc, err := proj.Parse("+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +no_defs")
	if err != nil {
		t.Fatal(err)
	}
	lat, lon := []float64{-80, 0, 80}, []float64{-10, 0, 10}
	cells, b, err = cellPolygons(lat, lon, merc)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range cells {
		polar := i < len(lon) || i >= 2*len(lon)
		if polar != (c == nil) {
			t.Errorf("cell %d: polar = %v but cell = %v", i, polar, c)
		}
	}
	if b.Empty() {
		t.Error("bounds should cover the equatorial cells")
	}
}

func TestMapProjected(t *testing.T) {
	dir, err := ioutil.TempDir("", "climplot")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	name, err := writeTestCoastlines(dir)
	if err != nil {
		t.Fatal(err)
	}

	p := newTestPlotter()
	if p.Projection, err = proj.Parse(lambertProj); err != nil {
		t.Fatal(err)
	}
	if p.Coastlines, err = LoadCoastlines(name, p.Projection); err != nil {
		t.Fatal(err)
	}
	fig, err := p.Map(context.Background(), createTestDataset(true), "tas", Reduction{})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "lambert.png")
	if err := fig.Save(out); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Errorf("map not written: %v", err)
	}
}
