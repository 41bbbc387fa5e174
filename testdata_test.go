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
	"math"
	"time"

	"github.com/ctessum/sparse"
)

const testTolerance = 1.0e-8

// Test dataset dimensions.
var (
	testModels = []string{"CESM2", "MIROC6"}
	testLat    = []float64{-30, 0, 30}
	testLon    = []float64{-120, 0, 120}
	testYears  = []int{2000, 2001, 2002, 2003}
)

// createTestDataset returns a monthly dataset with variable tas, where
// tas[m, t, i, j] = 10*m + (year-2000) + month/100 + (i*nlon + j).
// If models is false, the dataset has no model dimension and only the
// first model's values.
func createTestDataset(models bool) *Dataset {
	var times []time.Time
	for _, y := range testYears {
		for m := time.January; m <= time.December; m++ {
			times = append(times, time.Date(y, m, 15, 0, 0, 0, 0, time.UTC))
		}
	}
	var mn []string
	if models {
		mn = testModels
	}
	d := NewDataset(mn, times, testLat, testLon)
	data := sparse.ZerosDense(d.Shape()...)
	for m := 0; m < data.Shape[0]; m++ {
		for t, tt := range times {
			for i := range testLat {
				for j := range testLon {
					v := 10*float64(m) + float64(tt.Year()-2000) +
						float64(tt.Month())/100 + float64(i*len(testLon)+j)
					data.Set(v, m, t, i, j)
				}
			}
		}
	}
	v, err := d.AddVariable("tas", "K", data)
	if err != nil {
		panic(err)
	}
	v.Description = "near-surface air temperature"
	return d
}

func different(a, b, tolerance float64) bool {
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b float64) bool {
	if math.Abs(a-b) > testTolerance || math.IsNaN(a) != math.IsNaN(b) {
		return true
	}
	return false
}
