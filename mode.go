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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissingPeriod is returned when a difference is requested
	// without the periods it needs.
	ErrMissingPeriod = errors.New("climplot: difference requested without the required period(s)")

	// ErrMeasureWithoutDifference is returned when a relative
	// measure is combined with the climatology function.
	ErrMeasureWithoutDifference = errors.New("climplot: measure is only valid with the difference function")

	// ErrEmptyPeriod is returned when a period contains no time steps.
	ErrEmptyPeriod = errors.New("climplot: period contains no time steps")
)

// Function is the reduction applied along the time axis.
type Function int

const (
	// Climatology is the long-run mean.
	Climatology Function = iota
	// Difference is a later period minus an earlier baseline period.
	Difference
)

func (f Function) String() string {
	switch f {
	case Climatology:
		return "climatology"
	case Difference:
		return "difference"
	default:
		return fmt.Sprintf("Function(%d)", int(f))
	}
}

// Title returns the capitalized function name for use in plot titles.
func (f Function) Title() string { return capitalize(f.String()) }

// ParseFunction parses a function name.
func ParseFunction(s string) (Function, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "climatology", "":
		return Climatology, nil
	case "difference":
		return Difference, nil
	}
	return 0, fmt.Errorf("climplot: invalid function %q; valid options are 'climatology' and 'difference'", s)
}

// Measure specifies how a difference is expressed.
type Measure int

const (
	// Absolute expresses a difference in the units of the variable.
	Absolute Measure = iota

	// Relative expresses a difference as a percentage of the baseline.
	// Annual cycles are an exception: there the full-period climatology
	// itself, not its anomaly, is expressed as a percentage of the
	// baseline climatology. See Plotter.AnnualCycleData.
	Relative
)

func (m Measure) String() string {
	switch m {
	case Absolute:
		return ""
	case Relative:
		return "rel"
	default:
		return fmt.Sprintf("Measure(%d)", int(m))
	}
}

// ParseMeasure parses a measure name. The empty string and "abs"
// both mean Absolute.
func ParseMeasure(s string) (Measure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "abs":
		return Absolute, nil
	case "rel":
		return Relative, nil
	}
	return 0, fmt.Errorf("climplot: invalid measure %q; valid options are '', 'abs' and 'rel'", s)
}

// Period is an inclusive range of calendar years.
type Period struct {
	Start, End int
}

// ParsePeriod parses a period of the form "1981-2010" or "1981:2010".
// A single year is a one-year period.
func ParsePeriod(s string) (*Period, error) {
	s = strings.TrimSpace(s)
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == ':' || r == ',' })
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return nil, fmt.Errorf("climplot: invalid period %q; it should be in the format 'YYYY-YYYY'", s)
	}
	var p Period
	var err error
	if p.Start, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil {
		return nil, fmt.Errorf("climplot: parsing period %q: %v", s, err)
	}
	if p.End, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil {
		return nil, fmt.Errorf("climplot: parsing period %q: %v", s, err)
	}
	return &p, p.Validate()
}

// Validate checks that the period is not reversed.
func (p Period) Validate() error {
	if p.End < p.Start {
		return fmt.Errorf("climplot: period end %d is before start %d", p.End, p.Start)
	}
	return nil
}

// Contains reports whether t falls within p.
func (p Period) Contains(t time.Time) bool {
	y := t.Year()
	return y >= p.Start && y <= p.End
}

func (p Period) String() string { return fmt.Sprintf("%d-%d", p.Start, p.End) }

// Reduction specifies how a variable is reduced along the time axis.
// Maps use First and Last; time series and annual cycles use Baseline.
type Reduction struct {
	Function Function
	Measure  Measure

	First, Last *Period
	Baseline    *Period
}

func (r Reduction) checkMeasure() error {
	if r.Function == Climatology && r.Measure != Absolute {
		return ErrMeasureWithoutDifference
	}
	return nil
}

// validateMap checks r for use with a map.
func (r Reduction) validateMap() error {
	if err := r.checkMeasure(); err != nil {
		return err
	}
	if r.Function == Difference {
		if r.First == nil || r.Last == nil {
			return ErrMissingPeriod
		}
		if err := r.First.Validate(); err != nil {
			return err
		}
		return r.Last.Validate()
	}
	return nil
}

// validateSeries checks r for use with a time series or an annual cycle.
func (r Reduction) validateSeries() error {
	if err := r.checkMeasure(); err != nil {
		return err
	}
	if r.Function == Difference {
		if r.Baseline == nil {
			return ErrMissingPeriod
		}
		return r.Baseline.Validate()
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
