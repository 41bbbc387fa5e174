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
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Names of the coordinate variables and dimensions in netCDF files.
const (
	modelDim = "model"
	timeDim  = "time"
	latDim   = "lat"
	lonDim   = "lon"
)

// fillValue marks missing values in files written by Write.
const fillValue = 1.0e20

// timeUnits is the CF time encoding used by Write.
const timeUnits = "days since 1970-01-01 00:00:00"

// Load reads a dataset from a netCDF-3 file. Coordinates are read from
// the variables time, lat and lon, where time must carry CF units of
// the form "<unit> since <date>". Every floating point variable with
// dimensions [time, lat, lon] or [model, time, lat, lon] is loaded.
// Model names are taken from the comma-separated global attribute
// "models" if it is present. Values equal to a variable's _FillValue
// are replaced with NaN. In files with a model dimension, variables
// without one are repeated for every model. id identifies the dataset in cache keys and
// is typically the file name.
func Load(rw cdf.ReaderWriterAt, id string) (*Dataset, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("climplot.Load: %v", err)
	}
	lat, err := readCoord(f, latDim)
	if err != nil {
		return nil, fmt.Errorf("climplot.Load: %v", err)
	}
	lon, err := readCoord(f, lonDim)
	if err != nil {
		return nil, fmt.Errorf("climplot.Load: %v", err)
	}
	tv, err := readCoord(f, timeDim)
	if err != nil {
		return nil, fmt.Errorf("climplot.Load: %v", err)
	}
	units, _ := f.Header.GetAttribute(timeDim, "units").(string)
	times, err := decodeTimes(tv, units)
	if err != nil {
		return nil, fmt.Errorf("climplot.Load: variable time: %v", err)
	}

	var models []string
	dims := f.Header.Dimensions("")
	lengths := f.Header.Lengths("")
	for i, d := range dims {
		if d != modelDim {
			continue
		}
		models = make([]string, lengths[i])
		names, _ := f.Header.GetAttribute("", "models").(string)
		split := strings.Split(names, ",")
		for j := range models {
			if names != "" && j < len(split) {
				models[j] = strings.TrimSpace(split[j])
			} else {
				models[j] = strconv.Itoa(j)
			}
		}
	}

	d := NewDataset(models, times, lat, lon)
	d.ID = id
	for _, name := range f.Header.Variables() {
		vdims := f.Header.Dimensions(name)
		switch {
		case sameStrings(vdims, []string{timeDim, latDim, lonDim}):
		case sameStrings(vdims, []string{modelDim, timeDim, latDim, lonDim}):
		default:
			continue
		}
		data, err := readFloats(f, name)
		if err != nil {
			return nil, fmt.Errorf("climplot.Load: variable %s: %v", name, err)
		}
		if data == nil {
			continue // not floating point
		}
		arr := sparse.ZerosDense(d.Shape()...)
		nModels := 1
		if len(vdims) == 3 {
			// Variables without a model dimension apply to every model.
			nModels = d.nModels()
		}
		if len(data)*nModels != len(arr.Elements) {
			return nil, fmt.Errorf("climplot.Load: variable %s has %d values but dimensions "+
				"require %d", name, len(data), len(arr.Elements)/nModels)
		}
		for m := 0; m < nModels; m++ {
			copy(arr.Elements[m*len(data):], data)
		}
		units, _ := f.Header.GetAttribute(name, "units").(string)
		v, err := d.AddVariable(name, units, arr)
		if err != nil {
			return nil, fmt.Errorf("climplot.Load: %v", err)
		}
		v.Description, _ = f.Header.GetAttribute(name, "description").(string)
		if v.Description == "" {
			v.Description, _ = f.Header.GetAttribute(name, "long_name").(string)
		}
	}
	return d, nil
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// readCoord reads the one-dimensional coordinate variable v.
func readCoord(f *cdf.File, v string) ([]float64, error) {
	dims := f.Header.Dimensions(v)
	if len(dims) != 1 {
		return nil, fmt.Errorf("missing one-dimensional coordinate variable %s", v)
	}
	data, err := readFloats(f, v)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %v", v, err)
	}
	if data == nil {
		return nil, fmt.Errorf("coordinate variable %s is not numeric", v)
	}
	return data, nil
}

// readFloats reads variable v as float64, replacing fill values with
// NaN. It returns nil if v does not hold numbers.
func readFloats(f *cdf.File, v string) ([]float64, error) {
	r := f.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, err
	}
	var data []float64
	switch b := buf.(type) {
	case []float64:
		data = b
	case []float32:
		data = make([]float64, len(b))
		for i, x := range b {
			data[i] = float64(x)
		}
	case []int32:
		data = make([]float64, len(b))
		for i, x := range b {
			data[i] = float64(x)
		}
	case []int16:
		data = make([]float64, len(b))
		for i, x := range b {
			data[i] = float64(x)
		}
	default:
		return nil, nil
	}

	var noData float64
	switch fv := f.Header.GetAttribute(v, "_FillValue").(type) {
	case nil:
		return data, nil
	case []float64:
		noData = fv[0]
	case []float32:
		noData = float64(fv[0])
	case []int32:
		noData = float64(fv[0])
	case []int16:
		noData = float64(fv[0])
	default:
		return nil, fmt.Errorf("invalid type for _FillValue: %T", fv)
	}
	for i, x := range data {
		if x == noData {
			data[i] = math.NaN()
		}
	}
	return data, nil
}

// timeLayouts are the accepted reference date formats in CF time units.
var timeLayouts = []string{
	"2006-1-2 15:04:05",
	"2006-1-2T15:04:05Z",
	"2006-1-2T15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
}

// decodeTimes converts CF time values with the given units, for example
// "days since 1850-01-01", to UTC times. Calendars are treated as
// proleptic Gregorian.
func decodeTimes(vals []float64, units string) ([]time.Time, error) {
	parts := strings.SplitN(units, " since ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid time units %q", units)
	}
	var unit float64 // in seconds
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "days", "day", "d":
		unit = 86400
	case "hours", "hour", "hrs", "hr", "h":
		unit = 3600
	case "minutes", "minute", "mins", "min":
		unit = 60
	case "seconds", "second", "secs", "sec", "s":
		unit = 1
	default:
		return nil, fmt.Errorf("unsupported time unit %q", parts[0])
	}
	ref := strings.TrimSpace(parts[1])
	ref = strings.TrimSpace(strings.TrimSuffix(ref, "UTC"))
	var epoch time.Time
	var err error
	for _, layout := range timeLayouts {
		if epoch, err = time.Parse(layout, ref); err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("invalid reference date in time units %q", units)
	}
	out := make([]time.Time, len(vals))
	for i, v := range vals {
		s := v * unit
		days := math.Floor(s / 86400)
		rem := s - days*86400
		out[i] = epoch.AddDate(0, 0, int(days)).Add(time.Duration(math.Round(rem)) * time.Second)
	}
	return out, nil
}

// Write writes d to netCDF file w in the format read by Load.
func Write(w *os.File, d *Dataset) error {
	dims := []string{timeDim, latDim, lonDim}
	lengths := []int{len(d.Time), len(d.Lat), len(d.Lon)}
	if d.HasModelDim() {
		dims = append([]string{modelDim}, dims...)
		lengths = append([]int{len(d.Models)}, lengths...)
	}
	h := cdf.NewHeader(dims, lengths)
	h.AddAttribute("", "Conventions", "CF-1.6")
	if d.HasModelDim() {
		h.AddAttribute("", "models", strings.Join(d.Models, ","))
	}

	h.AddVariable(timeDim, []string{timeDim}, []float64{0})
	h.AddAttribute(timeDim, "units", timeUnits)
	h.AddAttribute(timeDim, "calendar", "standard")
	h.AddVariable(latDim, []string{latDim}, []float64{0})
	h.AddAttribute(latDim, "units", "degrees_north")
	h.AddVariable(lonDim, []string{lonDim}, []float64{0})
	h.AddAttribute(lonDim, "units", "degrees_east")

	// Sort the names so they write in the same order every time.
	names := make([]string, 0, len(d.Vars))
	for n := range d.Vars {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, name := range names {
		v := d.Vars[name]
		h.AddVariable(name, dims, []float32{0})
		h.AddAttribute(name, "units", v.Units)
		if v.Description != "" {
			h.AddAttribute(name, "description", v.Description)
		}
		h.AddAttribute(name, "_FillValue", []float32{fillValue})
	}
	h.Define()

	f, err := cdf.Create(w, h) // writes the header to w
	if err != nil {
		return fmt.Errorf("climplot.Write: %v", err)
	}

	tv := make([]float64, len(d.Time))
	for i, t := range d.Time {
		tv[i] = float64(t.Unix()) / 86400
	}
	coords := []struct {
		name string
		data []float64
	}{{timeDim, tv}, {latDim, d.Lat}, {lonDim, d.Lon}}
	for _, c := range coords {
		end := f.Header.Lengths(c.name)
		start := make([]int, len(end))
		if _, err = f.Writer(c.name, start, end).Write(c.data); err != nil {
			return fmt.Errorf("climplot.Write: variable %s: %v", c.name, err)
		}
	}

	for _, name := range names {
		if err = writeNCF(f, name, d.Vars[name].Data); err != nil {
			return fmt.Errorf("climplot.Write: variable %s: %v", name, err)
		}
	}
	return cdf.UpdateNumRecs(w)
}

// writeNCF writes data to variable v as float32, replacing NaN with
// the fill value.
func writeNCF(f *cdf.File, v string, data *sparse.DenseArray) error {
	n := 1
	for _, l := range data.Shape {
		n *= l
	}
	if len(data.Elements) != n {
		return fmt.Errorf("dims are %d but array length is %d", n, len(data.Elements))
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		if math.IsNaN(e) {
			data32[i] = fillValue
			continue
		}
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(v)
	start := make([]int, len(end))
	_, err := f.Writer(v, start, end).Write(data32)
	return err
}
