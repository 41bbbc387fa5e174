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
	"fmt"
	"os"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
)

// lonLat is the spatial reference of dataset coordinates.
const lonLat = "+proj=longlat +datum=WGS84"

// Coastlines holds outline geometry that is drawn on top of map panels.
type Coastlines struct {
	index *rtree.Rtree
}

// LoadCoastlines reads outlines from a shapefile and transforms them to
// dst. If dst is nil, the outlines are transformed to longitude-latitude
// coordinates. Shapefiles without a .prj file are assumed to be in
// longitude-latitude coordinates.
func LoadCoastlines(filename string, dst *proj.SR) (*Coastlines, error) {
	s, err := shp.NewDecoder(filename)
	if err != nil {
		return nil, fmt.Errorf("climplot: opening coastline shapefile: %v", err)
	}
	defer s.Close()

	src, err := s.SR()
	if err != nil {
		if _, statErr := os.Stat(strings.TrimSuffix(filename, ".shp") + ".prj"); !os.IsNotExist(statErr) {
			return nil, fmt.Errorf("climplot: reading coastline projection: %v", err)
		}
		src, err = proj.Parse(lonLat)
		if err != nil {
			return nil, err
		}
	}
	if dst == nil {
		if dst, err = proj.Parse(lonLat); err != nil {
			return nil, err
		}
	}
	ct, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("climplot: creating coastline transform: %v", err)
	}

	c := &Coastlines{index: rtree.NewTree(25, 50)}
	for {
		var o struct {
			geom.Geom
		}
		if !s.DecodeRow(&o) {
			break
		}
		g, err := o.Geom.Transform(ct)
		if err != nil {
			continue // outside the projection's domain
		}
		c.index.Insert(g)
	}
	if err := s.Error(); err != nil {
		return nil, fmt.Errorf("climplot: reading coastline shapefile: %v", err)
	}
	return c, nil
}

// NewCoastlines creates coastlines from geometry that is already in the
// map coordinates.
func NewCoastlines(g ...geom.Geom) *Coastlines {
	c := &Coastlines{index: rtree.NewTree(25, 50)}
	for _, gg := range g {
		c.index.Insert(gg)
	}
	return c
}

// within returns the outlines that intersect b.
func (c *Coastlines) within(b *geom.Bounds) []geom.Geom {
	if c == nil {
		return nil
	}
	var out []geom.Geom
	for _, g := range c.index.SearchIntersect(b) {
		out = append(out, g.(geom.Geom))
	}
	return out
}
