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
	"math"
	"time"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// seriesLabel returns the legend label for a model.
func seriesLabel(model string) string {
	if model == "" {
		return "Data"
	}
	return "Model: " + model
}

// yLabel returns the y-axis label for variable varName expressed
// with measure m.
func yLabel(varName string, m Measure) string {
	if m == Relative {
		return "%"
	}
	return varName
}

// lineTitle returns the title of a line figure, for example
// "Difference Rel- Time Series of tas by Model".
func lineTitle(r Reduction, kind, varName string) string {
	return fmt.Sprintf("%s %s- %s of %s by Model",
		r.Function.Title(), capitalize(r.Measure.String()), kind, varName)
}

// finiteXYs returns the points of s that have finite values.
func finiteXYs(s Series) plotter.XYs {
	xy := make(plotter.XYs, 0, len(s.X))
	for i, x := range s.X {
		y := s.Y[i]
		if math.IsNaN(y) || math.IsInf(y, 0) || math.IsNaN(x) {
			continue
		}
		xy = append(xy, struct{ X, Y float64 }{x, y})
	}
	return xy
}

// xAxis configures the x axis of a line figure.
type xAxis int

const (
	timeAxis xAxis = iota
	monthAxis
)

var monthTicks = func() []plot.Tick {
	t := make([]plot.Tick, 12)
	for m := 1; m <= 12; m++ {
		t[m-1] = plot.Tick{Value: float64(m), Label: time.Month(m).String()[:3]}
	}
	return t
}()

// trendLine fits a least-squares line to xy and returns the line and
// its slope per unit x.
func trendLine(xy plotter.XYs) (plotter.XYs, float64) {
	x := make([]float64, len(xy))
	y := make([]float64, len(xy))
	for i, p := range xy {
		x[i], y[i] = p.X, p.Y
	}
	slope, intercept, _, _, _, _ := stats.LinearRegression(x, y)
	first, last := x[0], x[len(x)-1]
	return plotter.XYs{
		{X: first, Y: intercept + slope*first},
		{X: last, Y: intercept + slope*last},
	}, slope
}

// secondsPerDecade converts trend slopes on a time axis.
const secondsPerDecade = 10 * 365.2425 * 24 * 3600

// lineFigure creates a figure with one line per series.
func (p *Plotter) lineFigure(title, xLabel, yLabel string, series []Series, axis xAxis, trend bool) (*Figure, error) {
	plt, err := plot.New()
	if err != nil {
		return nil, fmt.Errorf("climplot: creating plot: %v", err)
	}
	plt.Title.Text = title
	plt.X.Label.Text = xLabel
	plt.Y.Label.Text = yLabel
	switch axis {
	case timeAxis:
		plt.X.Tick.Marker = plot.TimeTicks{Format: "2006"}
	case monthAxis:
		plt.X.Tick.Marker = plot.ConstantTicks(monthTicks)
		plt.X.Min, plt.X.Max = 0.5, 12.5
	}
	plt.Add(plotter.NewGrid())
	plt.Legend.Top = true

	for i, s := range series {
		xy := finiteXYs(s)
		if len(xy) == 0 {
			p.Log.WithFields(logrus.Fields{"series": s.Label}).Warn("climplot: series has no valid values; skipping")
			continue
		}
		l, err := plotter.NewLine(xy)
		if err != nil {
			return nil, fmt.Errorf("climplot: plotting %s: %v", s.Label, err)
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(1.5)
		plt.Add(l)
		plt.Legend.Add(s.Label, l)

		if !trend || len(xy) < 2 {
			continue
		}
		txy, slope := trendLine(xy)
		tl, err := plotter.NewLine(txy)
		if err != nil {
			return nil, fmt.Errorf("climplot: plotting trend of %s: %v", s.Label, err)
		}
		tl.Color = plotutil.Color(i)
		tl.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		plt.Add(tl)
		unit := "per unit"
		if axis == timeAxis {
			slope *= secondsPerDecade
			unit = "per decade"
		}
		plt.Legend.Add(fmt.Sprintf("%s trend (%.3g %s)", s.Label, slope, unit), tl)
	}

	fig := &Figure{
		Title:  title,
		Width:  p.Style.LineWidth,
		Height: p.Style.LineHeight,
		Series: series,
		draw: func(c draw.Canvas) error {
			plt.Draw(c)
			return nil
		},
	}
	return fig, nil
}
