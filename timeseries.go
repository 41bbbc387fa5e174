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

	"github.com/sirupsen/logrus"
)

// TimeSeriesData returns one annual series per model of the spatial
// mean of variable varName in d. With the Difference function each
// series is expressed as an anomaly from its mean over r.Baseline,
// as a percentage of that mean if r.Measure is Relative.
func (p *Plotter) TimeSeriesData(ctx context.Context, d *Dataset, varName string, r Reduction) ([]Series, error) {
	if err := r.validateSeries(); err != nil {
		return nil, err
	}
	v, err := d.Variable(varName)
	if err != nil {
		return nil, err
	}
	means, err := p.spatialMeans(ctx, d, v)
	if err != nil {
		return nil, err
	}
	labels := d.ModelLabels()
	out := make([]Series, len(means))
	for m, sm := range means {
		t, y := AnnualMean(d.Time, sm)
		if r.Function == Difference {
			base, err := periodMeanOf(*r.Baseline, t, y)
			if err != nil {
				return nil, err
			}
			for i := range y {
				y[i] -= base
				if r.Measure == Relative {
					y[i] = y[i] / base * 100
				}
			}
		}
		x := make([]float64, len(t))
		for i, tt := range t {
			x[i] = float64(tt.Unix())
		}
		out[m] = Series{Label: seriesLabel(labels[m]), Time: t, X: x, Y: y}
	}
	return out, nil
}

// TimeSeries creates a figure with one line per model showing the
// annual spatial mean of variable varName in d, reduced as specified
// by r. See TimeSeriesData.
func (p *Plotter) TimeSeries(ctx context.Context, d *Dataset, varName string, r Reduction) (*Figure, error) {
	series, err := p.TimeSeriesData(ctx, d, varName, r)
	if err != nil {
		return nil, err
	}
	p.Log.WithFields(logrus.Fields{
		"variable": varName,
		"function": r.Function,
		"measure":  r.Measure,
		"lines":    len(series),
	}).Info("climplot: plotting time series")
	return p.lineFigure(lineTitle(r, "Time Series", varName), "Time",
		yLabel(varName, r.Measure), series, timeAxis, p.Trend)
}
