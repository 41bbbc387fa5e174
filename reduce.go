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
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
)

// meanOverTime returns the NaN-skipping mean of model m of v over the
// time steps for which keep returns true, along with the number of
// time steps used.
func meanOverTime(d *Dataset, v *Variable, m int, keep func(time.Time) bool) (*Field, int) {
	f := newField(d.Lat, d.Lon)
	nlat, nlon := len(d.Lat), len(d.Lon)
	n := make([]float64, nlat*nlon)
	var used int
	for t, tt := range d.Time {
		if !keep(tt) {
			continue
		}
		used++
		start := v.Data.Index1d(m, t, 0, 0)
		for i, val := range v.Data.Elements[start : start+nlat*nlon] {
			if math.IsNaN(val) {
				continue
			}
			f.Data.Elements[i] += val
			n[i]++
		}
	}
	for i, c := range n {
		if c == 0 {
			f.Data.Elements[i] = math.NaN()
		}
	}
	floats.Div(f.Data.Elements, n)
	return f, used
}

// TimeMean returns the mean of model m of v over all time steps.
// Missing values are skipped.
func TimeMean(d *Dataset, v *Variable, m int) *Field {
	f, _ := meanOverTime(d, v, m, func(time.Time) bool { return true })
	return f
}

// PeriodMean returns the mean of model m of v over the time steps in p.
// Missing values are skipped.
func PeriodMean(d *Dataset, v *Variable, m int, p Period) (*Field, error) {
	f, n := meanOverTime(d, v, m, p.Contains)
	if n == 0 {
		return nil, fmt.Errorf("%w: %s (variable %s)", ErrEmptyPeriod, p, v.Name)
	}
	return f, nil
}

// DifferenceField returns last minus first. If relative is true, the
// difference is divided by first and multiplied by 100.
func DifferenceField(first, last *Field, relative bool) *Field {
	out := newField(first.Lat, first.Lon)
	floats.SubTo(out.Data.Elements, last.Data.Elements, first.Data.Elements)
	if relative {
		floats.Div(out.Data.Elements, first.Data.Elements)
		floats.Scale(100, out.Data.Elements)
	}
	return out
}

// SpatialMean returns the mean of model m of v over latitude and
// longitude for each time step. Missing values are skipped; time
// steps with no valid values are NaN.
func SpatialMean(d *Dataset, v *Variable, m int) []float64 {
	nlat, nlon := len(d.Lat), len(d.Lon)
	out := make([]float64, len(d.Time))
	for t := range d.Time {
		start := v.Data.Index1d(m, t, 0, 0)
		out[t] = nanMean(v.Data.Elements[start : start+nlat*nlon])
	}
	return out
}

// AnnualMean resamples vals to one value per calendar year by
// averaging. Each output point is stamped at the last day of its year.
// Missing values are skipped.
func AnnualMean(times []time.Time, vals []float64) ([]time.Time, []float64) {
	var years []int
	groups := make(map[int][]float64)
	for i, t := range times {
		y := t.Year()
		if _, ok := groups[y]; !ok {
			years = append(years, y)
		}
		groups[y] = append(groups[y], vals[i])
	}
	sort.Ints(years)
	outT := make([]time.Time, len(years))
	outV := make([]float64, len(years))
	for i, y := range years {
		outT[i] = time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC)
		outV[i] = nanMean(groups[y])
	}
	return outT, outV
}

// MonthlyMean returns the mean of vals for each calendar month across
// all years, January first. Months with no valid values are NaN.
func MonthlyMean(times []time.Time, vals []float64) [12]float64 {
	var sum, n [12]float64
	for i, t := range times {
		if math.IsNaN(vals[i]) {
			continue
		}
		m := int(t.Month()) - 1
		sum[m] += vals[i]
		n[m]++
	}
	var out [12]float64
	for m := range out {
		if n[m] == 0 {
			out[m] = math.NaN()
			continue
		}
		out[m] = sum[m] / n[m]
	}
	return out
}

// SymmetricRange returns a color scale range centered on zero that
// covers every value between the smallest of mins and the largest of
// maxs. The result always satisfies vmin == -vmax. NaN inputs are
// ignored.
func SymmetricRange(mins, maxs []float64) (vmin, vmax float64) {
	vmin, vmax = math.Inf(1), math.Inf(-1)
	for _, v := range mins {
		if !math.IsNaN(v) && v < vmin {
			vmin = v
		}
	}
	for _, v := range maxs {
		if !math.IsNaN(v) && v > vmax {
			vmax = v
		}
	}
	if math.IsInf(vmin, 1) && math.IsInf(vmax, -1) {
		return 0, 0
	}
	if math.IsInf(vmin, 1) {
		vmin = vmax
	}
	if math.IsInf(vmax, -1) {
		vmax = vmin
	}
	if math.Abs(vmax) > math.Abs(vmin) {
		return -math.Abs(vmax), math.Abs(vmax)
	}
	return -math.Abs(vmin), math.Abs(vmin)
}

// nanMean returns the mean of the non-NaN values in x, or NaN if
// there are none.
func nanMean(x []float64) float64 {
	var sum, n float64
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / n
}

// periodMeanOf returns the NaN-skipping mean of the values in vals
// whose time stamps fall within p.
func periodMeanOf(p Period, times []time.Time, vals []float64) (float64, error) {
	var sel []float64
	for i, t := range times {
		if p.Contains(t) {
			sel = append(sel, vals[i])
		}
	}
	if len(sel) == 0 {
		return math.NaN(), fmt.Errorf("%w: %s", ErrEmptyPeriod, p)
	}
	return nanMean(sel), nil
}

// selectPeriod returns the time stamps and values within p.
func selectPeriod(p Period, times []time.Time, vals []float64) ([]time.Time, []float64) {
	var ot []time.Time
	var ov []float64
	for i, t := range times {
		if p.Contains(t) {
			ot = append(ot, t)
			ov = append(ov, vals[i])
		}
	}
	return ot, ov
}
