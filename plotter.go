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
	"runtime"
	"sync"

	"github.com/ctessum/geom/proj"
	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climplot/internal/hash"
)

// Plotter renders maps, time series and annual cycles. It caches
// per-model reductions, so a Plotter that renders several figures
// from the same dataset computes each reduction only once.
// A Plotter is safe for concurrent use.
type Plotter struct {
	// Log receives progress messages.
	Log logrus.FieldLogger

	// CacheSize is the number of reductions held in memory. It can
	// only be changed before the Plotter is first used.
	CacheSize int

	// Style controls figure appearance.
	Style Style

	// Coastlines, when not nil, are drawn on every map panel.
	Coastlines *Coastlines

	// Trend specifies whether time series plots include a linear
	// trend line for each model.
	Trend bool

	// Projection, when not nil, is the spatial reference that maps are
	// drawn in. By default maps are drawn in longitude-latitude
	// coordinates.
	Projection *proj.SR

	cacheInit sync.Once
	cache     *requestcache.Cache
}

// NewPlotter returns a Plotter with default settings.
func NewPlotter() *Plotter {
	return &Plotter{
		Log:       logrus.StandardLogger(),
		CacheSize: 100,
		Style:     DefaultStyle(),
	}
}

const (
	opTimeMean    = "timemean"
	opPeriodMean  = "periodmean"
	opSpatialMean = "spatialmean"
)

// reductionRequest is a single per-model reduction.
type reductionRequest struct {
	d      *Dataset
	v      *Variable
	model  int
	op     string
	period Period
}

func (p *Plotter) init() {
	p.cacheInit.Do(func() {
		if p.Log == nil {
			p.Log = logrus.StandardLogger()
		}
		size := p.CacheSize
		if size < 1 {
			size = 1
		}
		p.cache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			r := request.(reductionRequest)
			p.Log.WithFields(logrus.Fields{
				"variable": r.v.Name,
				"model":    r.model,
				"op":       r.op,
			}).Debug("climplot: computing reduction")
			switch r.op {
			case opTimeMean:
				return TimeMean(r.d, r.v, r.model), nil
			case opPeriodMean:
				return PeriodMean(r.d, r.v, r.model, r.period)
			case opSpatialMean:
				return SpatialMean(r.d, r.v, r.model), nil
			default:
				return nil, fmt.Errorf("climplot: invalid reduction %q", r.op)
			}
		}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(size))
	})
}

// reduce runs the reduction op for every model of v concurrently
// and returns the results in model order. Results are shared with the
// cache and must not be modified.
func (p *Plotter) reduce(ctx context.Context, d *Dataset, v *Variable, op string, period Period) ([]interface{}, error) {
	p.init()
	id := d.cacheID()
	n := d.nModels()
	results := make([]interface{}, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for m := 0; m < n; m++ {
		go func(m int) {
			defer wg.Done()
			req := p.cache.NewRequest(ctx,
				reductionRequest{d: d, v: v, model: m, op: op, period: period},
				hash.Key(hash.Request{
					Op:       op,
					Dataset:  id,
					Variable: v.Name,
					Model:    m,
					Start:    period.Start,
					End:      period.End,
				}),
			)
			results[m], errs[m] = req.Result()
		}(m)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (p *Plotter) fields(ctx context.Context, d *Dataset, v *Variable, op string, period Period) ([]*Field, error) {
	r, err := p.reduce(ctx, d, v, op, period)
	if err != nil {
		return nil, err
	}
	out := make([]*Field, len(r))
	for i, f := range r {
		out[i] = f.(*Field)
	}
	return out, nil
}

func (p *Plotter) spatialMeans(ctx context.Context, d *Dataset, v *Variable) ([][]float64, error) {
	r, err := p.reduce(ctx, d, v, opSpatialMean, Period{})
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(r))
	for i, s := range r {
		out[i] = s.([]float64)
	}
	return out, nil
}

// Requests returns the number of reduction requests received by the
// cache and the number that had to be computed.
func (p *Plotter) Requests() (received, computed int) {
	p.init()
	r := p.cache.Requests()
	return r[0], r[len(r)-1]
}

var (
	std     *Plotter
	stdOnce sync.Once
)

// defaultPlotter returns the Plotter shared by the package-level
// rendering functions.
func defaultPlotter() *Plotter {
	stdOnce.Do(func() { std = NewPlotter() })
	return std
}

// Map renders a map using a Plotter with default settings.
// See Plotter.Map.
func Map(d *Dataset, varName string, r Reduction) (*Figure, error) {
	return defaultPlotter().Map(context.Background(), d, varName, r)
}

// TimeSeries renders a time series plot using a Plotter with default
// settings. See Plotter.TimeSeries.
func TimeSeries(d *Dataset, varName string, r Reduction) (*Figure, error) {
	return defaultPlotter().TimeSeries(context.Background(), d, varName, r)
}

// AnnualCycle renders an annual cycle plot using a Plotter with
// default settings. See Plotter.AnnualCycle.
func AnnualCycle(d *Dataset, varName string, r Reduction) (*Figure, error) {
	return defaultPlotter().AnnualCycle(context.Background(), d, varName, r)
}
