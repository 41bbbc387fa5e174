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

// Package climplot reduces gridded climate-model output to climatologies,
// period differences, time series and annual cycles, and renders the results
// as maps and line plots.
package climplot

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ctessum/sparse"
)

// Version gives the version number.
const Version = "0.1.0"

// ErrNoVariable is returned when a requested variable is not in a Dataset.
var ErrNoVariable = errors.New("climplot: no such variable")

// Dataset is a collection of gridded variables that share the
// model, time, latitude and longitude dimensions.
type Dataset struct {
	// ID identifies the dataset in reduction cache keys. Datasets
	// loaded from files use the file name. Reductions are cached by
	// ID, so a dataset whose data changes needs a new ID.
	ID string

	// Models holds the model names. It is nil when the dataset
	// has no model dimension.
	Models []string

	Time     []time.Time
	Lat, Lon []float64

	Vars map[string]*Variable

	autoIDOnce sync.Once
	autoID     string
}

var numAutoIDs uint64

// cacheID returns d.ID, or if it is empty an identifier that is unique
// to d within this process.
func (d *Dataset) cacheID() string {
	if d.ID != "" {
		return d.ID
	}
	d.autoIDOnce.Do(func() {
		d.autoID = fmt.Sprintf("dataset#%d", atomic.AddUint64(&numAutoIDs, 1))
	})
	return d.autoID
}

// Variable is a single gridded quantity. Data has the shape
// [model, time, lat, lon], where the model dimension has length 1
// when the dataset has no model dimension. Missing values are NaN.
type Variable struct {
	Name        string
	Units       string
	Description string
	Data        *sparse.DenseArray
}

// NewDataset creates a dataset with the given coordinates and no
// variables. models may be nil.
func NewDataset(models []string, times []time.Time, lat, lon []float64) *Dataset {
	return &Dataset{
		Models: models,
		Time:   times,
		Lat:    lat,
		Lon:    lon,
		Vars:   make(map[string]*Variable),
	}
}

// HasModelDim reports whether d has a model dimension.
func (d *Dataset) HasModelDim() bool { return d.Models != nil }

// nModels returns the length of the model axis of the variable arrays.
func (d *Dataset) nModels() int {
	if d.HasModelDim() {
		return len(d.Models)
	}
	return 1
}

// ModelLabels returns one label per model. Without a model dimension
// it returns a single empty label.
func (d *Dataset) ModelLabels() []string {
	if d.HasModelDim() {
		return d.Models
	}
	return []string{""}
}

// Shape returns the shape that variable arrays in d must have.
func (d *Dataset) Shape() []int {
	return []int{d.nModels(), len(d.Time), len(d.Lat), len(d.Lon)}
}

// AddVariable adds a variable to d. data must have the shape returned
// by d.Shape().
func (d *Dataset) AddVariable(name, units string, data *sparse.DenseArray) (*Variable, error) {
	want := d.Shape()
	if len(data.Shape) != len(want) {
		return nil, fmt.Errorf("climplot: variable %s has %d dimensions but should have %d",
			name, len(data.Shape), len(want))
	}
	for i, n := range want {
		if data.Shape[i] != n {
			return nil, fmt.Errorf("climplot: variable %s has shape %v but should have shape %v",
				name, data.Shape, want)
		}
	}
	if d.Vars == nil {
		d.Vars = make(map[string]*Variable)
	}
	v := &Variable{Name: name, Units: units, Data: data}
	d.Vars[name] = v
	return v, nil
}

// Variable returns the variable with the given name.
func (d *Dataset) Variable(name string) (*Variable, error) {
	v, ok := d.Vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoVariable, name)
	}
	return v, nil
}

// Field is a two-dimensional [lat, lon] grid of values.
type Field struct {
	Lat, Lon []float64
	Data     *sparse.DenseArray
}

func newField(lat, lon []float64) *Field {
	return &Field{Lat: lat, Lon: lon, Data: sparse.ZerosDense(len(lat), len(lon))}
}

// Min returns the smallest non-NaN value in f, or NaN if there is none.
func (f *Field) Min() float64 {
	v := math.NaN()
	for _, e := range f.Data.Elements {
		if !math.IsNaN(e) && (math.IsNaN(v) || e < v) {
			v = e
		}
	}
	return v
}

// Max returns the largest non-NaN value in f, or NaN if there is none.
func (f *Field) Max() float64 {
	v := math.NaN()
	for _, e := range f.Data.Elements {
		if !math.IsNaN(e) && (math.IsNaN(v) || e > v) {
			v = e
		}
	}
	return v
}

// Series is a single line on a line plot.
type Series struct {
	Label string

	// Time holds the time stamps of the points for time-valued series.
	// It is nil otherwise.
	Time []time.Time

	X, Y []float64
}
