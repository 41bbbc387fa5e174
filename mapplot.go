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
	"fmt"
	"image/color"
	"math"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"github.com/ctessum/geom/proj"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MapData holds the reduced per-model fields of a map and the color
// scale they share.
type MapData struct {
	Variable  string
	Units     string
	Reduction Reduction

	// Models holds one label per panel.
	Models []string

	// Fields holds one field per panel.
	Fields []*Field

	// VMin and VMax are the limits of the color scale.
	// VMin == -VMax.
	VMin, VMax float64
}

// Label returns the color scale label.
func (md *MapData) Label() string {
	if md.Reduction.Measure == Relative {
		return "%"
	}
	if md.Units != "" {
		return fmt.Sprintf("%s (%s)", md.Variable, md.Units)
	}
	return md.Variable
}

// PanelTitle returns the title of panel i.
func (md *MapData) PanelTitle(i int) string {
	title := md.Reduction.Function.Title()
	if md.Models[i] != "" {
		title = fmt.Sprintf("%s - %s", title, md.Models[i])
	}
	if m := md.Reduction.Measure.String(); m != "" {
		title = fmt.Sprintf("%s (%s difference)", title, m)
	}
	return title
}

// MapData reduces variable varName of d over time for every model.
// With the Climatology function each field is the time mean; with
// Difference it is the mean over r.Last minus the mean over r.First,
// expressed as a percentage of the r.First mean if r.Measure is Relative.
func (p *Plotter) MapData(ctx context.Context, d *Dataset, varName string, r Reduction) (*MapData, error) {
	if err := r.validateMap(); err != nil {
		return nil, err
	}
	v, err := d.Variable(varName)
	if err != nil {
		return nil, err
	}
	md := &MapData{
		Variable:  varName,
		Units:     v.Units,
		Reduction: r,
		Models:    d.ModelLabels(),
	}
	switch r.Function {
	case Climatology:
		if md.Fields, err = p.fields(ctx, d, v, opTimeMean, Period{}); err != nil {
			return nil, err
		}
	case Difference:
		first, err := p.fields(ctx, d, v, opPeriodMean, *r.First)
		if err != nil {
			return nil, err
		}
		last, err := p.fields(ctx, d, v, opPeriodMean, *r.Last)
		if err != nil {
			return nil, err
		}
		md.Fields = make([]*Field, len(first))
		for i := range first {
			md.Fields[i] = DifferenceField(first[i], last[i], r.Measure == Relative)
		}
	default:
		return nil, fmt.Errorf("climplot: invalid function %v", r.Function)
	}

	mins := make([]float64, len(md.Fields))
	maxs := make([]float64, len(md.Fields))
	for i, f := range md.Fields {
		mins[i], maxs[i] = f.Min(), f.Max()
	}
	md.VMin, md.VMax = SymmetricRange(mins, maxs)

	p.Log.WithFields(logrus.Fields{
		"variable": varName,
		"function": r.Function,
		"measure":  r.Measure,
		"panels":   len(md.Fields),
		"vmin":     md.VMin,
		"vmax":     md.VMax,
	}).Info("climplot: reduced map data")
	return md, nil
}

// Map creates a figure with one map panel per model of variable varName
// in d, reduced as specified by r. All panels share a color scale that
// is symmetric around zero.
func (p *Plotter) Map(ctx context.Context, d *Dataset, varName string, r Reduction) (*Figure, error) {
	md, err := p.MapData(ctx, d, varName, r)
	if err != nil {
		return nil, err
	}
	return p.MapFigure(md)
}

// MapFigure draws md.
func (p *Plotter) MapFigure(md *MapData) (*Figure, error) {
	if len(md.Fields) == 0 {
		return nil, fmt.Errorf("climplot: no data to map")
	}
	cells, bounds, err := cellPolygons(md.Fields[0].Lat, md.Fields[0].Lon, p.Projection)
	if err != nil {
		return nil, err
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("climplot: map has no cells")
	}
	coast := clipToBounds(p.Coastlines.within(bounds), bounds)

	cmap := carto.NewColorMap(carto.Linear)
	cmap.Font = p.Style.Font
	cmap.NumDivisions = 8
	vmax := md.VMax
	if vmax == 0 || math.IsNaN(vmax) {
		vmax = 1 // all-zero fields still need a valid scale
	}
	cmap.AddArray([]float64{-vmax, vmax})
	cmap.Set()

	style := p.Style
	fig := &Figure{
		Title:  md.PanelTitle(0),
		Width:  style.MapWidth,
		Height: style.MapHeight,
		Map:    md,
	}
	fig.draw = func(c draw.Canvas) error {
		const (
			legendH = 0.5 * vg.Inch
			titleH  = 0.35 * vg.Inch
		)
		w := c.Max.X - c.Min.X
		h := c.Max.Y - c.Min.Y
		mainc := draw.Crop(c, 0, 0, legendH, 0)
		legendc := draw.Crop(c, w/4, -w/4, 0, legendH-h)
		tiles := draw.Tiles{
			Rows:      1,
			Cols:      len(md.Fields),
			PadTop:    titleH,
			PadBottom: 2 * vg.Millimeter,
			PadLeft:   2 * vg.Millimeter,
			PadRight:  2 * vg.Millimeter,
			PadX:      4 * vg.Millimeter,
		}
		font, err := vg.MakeFont(style.Font, style.FontSize)
		if err != nil {
			return err
		}
		ts := draw.TextStyle{Color: color.Black, Font: font}
		ts.XAlign = -0.5

		coastStyle := draw.LineStyle{
			Width: 0.25 * vg.Millimeter,
			Color: color.NRGBA{40, 40, 40, 255},
		}
		clearFill := color.NRGBA{0, 0, 0, 0}

		for i, f := range md.Fields {
			panel := tiles.At(mainc, i, 0)
			m := carto.NewCanvas(bounds.Max.Y, bounds.Min.Y, bounds.Max.X, bounds.Min.X, panel)
			for j, g := range cells {
				val := f.Data.Elements[j]
				if g == nil || math.IsNaN(val) {
					continue
				}
				bc := cmap.GetColor(val)
				ls := draw.LineStyle{Color: bc, Width: 0.1}
				if err := m.DrawVector(g, bc, ls, draw.GlyphStyle{}); err != nil {
					return err
				}
			}
			for _, g := range coast {
				if err := m.DrawVector(g, clearFill, coastStyle, draw.GlyphStyle{}); err != nil {
					return err
				}
			}
			m.FillText(ts, vg.Point{X: panel.X(0.5), Y: panel.Max.Y + vg.Points(4)}, md.PanelTitle(i))
		}
		return cmap.Legend(&legendc, md.Label())
	}
	return fig, nil
}

// cellEdges returns the edges of grid cells with the given centers.
// Interior edges are halfway between centers; the outer edges are
// extrapolated by half a cell.
func cellEdges(centers []float64) []float64 {
	n := len(centers)
	edges := make([]float64, n+1)
	if n == 1 {
		edges[0], edges[1] = centers[0]-0.5, centers[0]+0.5
		return edges
	}
	for i := 1; i < n; i++ {
		edges[i] = (centers[i-1] + centers[i]) / 2
	}
	edges[0] = centers[0] - (edges[1] - centers[0])
	edges[n] = centers[n-1] + (centers[n-1] - edges[n-1])
	return edges
}

// cellPolygons returns one polygon per [lat, lon] grid cell in row-major
// order, transformed to sr if it is not nil, along with their combined
// bounds. Cells that can't be transformed are nil.
func cellPolygons(lat, lon []float64, sr *proj.SR) ([]geom.Geom, *geom.Bounds, error) {
	var ct proj.Transformer
	if sr != nil {
		src, err := proj.Parse(lonLat)
		if err != nil {
			return nil, nil, err
		}
		if ct, err = src.NewTransform(sr); err != nil {
			return nil, nil, fmt.Errorf("climplot: creating map transform: %v", err)
		}
	}
	latE, lonE := cellEdges(lat), cellEdges(lon)
	for i, v := range latE {
		latE[i] = math.Max(-90, math.Min(90, v))
	}
	cells := make([]geom.Geom, 0, len(lat)*len(lon))
	bounds := geom.NewBounds()
	for i := range lat {
		for j := range lon {
			W, E := lonE[j], lonE[j+1]
			S, N := latE[i], latE[i+1]
			var g geom.Geom = geom.Polygon{{
				{X: W, Y: S}, {X: E, Y: S}, {X: E, Y: N}, {X: W, Y: N}, {X: W, Y: S},
			}}
			if ct != nil {
				gg, err := g.Transform(ct)
				if err != nil {
					cells = append(cells, nil)
					continue
				}
				g = gg
			}
			bounds.Extend(g.Bounds())
			cells = append(cells, g)
		}
	}
	return cells, bounds, nil
}

// clipToBounds trims outlines to b. Polygons are intersected with b;
// lines keep only the runs of vertices that lie within b.
func clipToBounds(gs []geom.Geom, b *geom.Bounds) []geom.Geom {
	box := geom.Polygon{{
		b.Min, {X: b.Max.X, Y: b.Min.Y}, b.Max, {X: b.Min.X, Y: b.Max.Y}, b.Min,
	}}
	inside := func(p geom.Point) bool {
		return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
	}
	clipLine := func(l geom.LineString) []geom.Geom {
		var out []geom.Geom
		var run geom.LineString
		for _, p := range l {
			if inside(p) {
				run = append(run, p)
				continue
			}
			if len(run) > 1 {
				out = append(out, run)
			}
			run = nil
		}
		if len(run) > 1 {
			out = append(out, run)
		}
		return out
	}
	var out []geom.Geom
	for _, g := range gs {
		switch t := g.(type) {
		case geom.Polygonal:
			if isect := t.Intersection(box); len(isect) > 0 {
				out = append(out, isect)
			}
		case geom.LineString:
			out = append(out, clipLine(t)...)
		case geom.MultiLineString:
			for _, l := range t {
				out = append(out, clipLine(l)...)
			}
		default:
			out = append(out, g)
		}
	}
	return out
}
