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

	"github.com/sirupsen/logrus"
)

// AnnualCycleData returns one 12-month series per model of the
// monthly climatology of the spatial mean of variable varName in d.
// With the Difference function the climatology over r.Baseline is
// subtracted month by month.
//
// With the Relative measure each month is full/baseline*100, the
// full-period climatology as a percentage of the baseline climatology.
// This differs from Relative in maps and time series, which give the
// anomaly as a percentage, so a relative annual cycle is 100 where a
// relative time series is 0.
func (p *Plotter) AnnualCycleData(ctx context.Context, d *Dataset, varName string, r Reduction) ([]Series, error) {
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
		cycle := MonthlyMean(d.Time, sm)
		if r.Function == Difference {
			bt, bv := selectPeriod(*r.Baseline, d.Time, sm)
			if len(bt) == 0 {
				return nil, fmt.Errorf("%w: %s (variable %s)", ErrEmptyPeriod, *r.Baseline, varName)
			}
			base := MonthlyMean(bt, bv)
			for i := range cycle {
				switch r.Measure {
				case Absolute:
					cycle[i] -= base[i]
				case Relative:
					cycle[i] = cycle[i] / base[i] * 100
				}
			}
		}
		s := Series{Label: seriesLabel(labels[m]), X: make([]float64, 12), Y: make([]float64, 12)}
		for i, c := range cycle {
			s.X[i] = float64(i + 1)
			s.Y[i] = c
		}
		out[m] = s
	}
	return out, nil
}

// AnnualCycle creates a figure with one line per model showing the
// monthly climatology of the spatial mean of variable varName in d,
// reduced as specified by r. See AnnualCycleData.
func (p *Plotter) AnnualCycle(ctx context.Context, d *Dataset, varName string, r Reduction) (*Figure, error) {
	series, err := p.AnnualCycleData(ctx, d, varName, r)
	if err != nil {
		return nil, err
	}
	p.Log.WithFields(logrus.Fields{
		"variable": varName,
		"function": r.Function,
		"measure":  r.Measure,
		"lines":    len(series),
	}).Info("climplot: plotting annual cycle")
	return p.lineFigure(lineTitle(r, "Annual Cycle", varName), "Month",
		yLabel(varName, r.Measure), series, monthAxis, false)
}
