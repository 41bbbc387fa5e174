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

package climplotutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom/proj"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/climplot"
	"github.com/spf13/cast"
	"gonum.org/v1/plot/vg"
)

// checkInputFile makes sure that the input file is specified and exists,
// and expands any environment variables.
func checkInputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an input file configuration variable (for example: Input="tas.nc")`)
	}
	f = os.ExpandEnv(f)
	if _, err := os.Stat(f); err != nil {
		return f, fmt.Errorf("climplot: the Input file can't be read: %v", err)
	}
	return f, nil
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.png")`)
	}
	f = os.ExpandEnv(f)
	if filepath.Ext(f) == "" {
		return f, fmt.Errorf("climplot: the OutputFile %s needs an extension to determine the image format", f)
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("climplot: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// period returns the period in configuration variable name, or nil if
// it is blank.
func period(cfg *viper.Viper, name string) (*climplot.Period, error) {
	s, err := cast.ToStringE(cfg.Get(name))
	if err != nil {
		return nil, fmt.Errorf("climplot: invalid %s: %v", name, err)
	}
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	p, err := climplot.ParsePeriod(s)
	if err != nil {
		return nil, fmt.Errorf("climplot: invalid %s: %v", name, err)
	}
	return p, nil
}

// Reduction returns the reduction specified by cfg.
func Reduction(cfg *viper.Viper) (climplot.Reduction, error) {
	var r climplot.Reduction
	var err error
	if r.Function, err = climplot.ParseFunction(cfg.GetString("Function")); err != nil {
		return r, err
	}
	if r.Measure, err = climplot.ParseMeasure(cfg.GetString("Measure")); err != nil {
		return r, err
	}
	if r.First, err = period(cfg, "FirstPeriod"); err != nil {
		return r, err
	}
	if r.Last, err = period(cfg, "LastPeriod"); err != nil {
		return r, err
	}
	if r.Baseline, err = period(cfg, "BaselinePeriod"); err != nil {
		return r, err
	}
	return r, nil
}

// Plotter returns a plotter configured by cfg that logs to log.
func Plotter(cfg *viper.Viper, log logrus.FieldLogger) (*climplot.Plotter, error) {
	p := climplot.NewPlotter()
	p.Log = log
	p.Trend = cfg.GetBool("Trend")

	width, err := cast.ToFloat64E(cfg.Get("Width"))
	if err != nil {
		return nil, fmt.Errorf("climplot: invalid Width: %v", err)
	}
	height, err := cast.ToFloat64E(cfg.Get("Height"))
	if err != nil {
		return nil, fmt.Errorf("climplot: invalid Height: %v", err)
	}
	if width > 0 {
		p.Style.MapWidth = vg.Length(width) * vg.Inch
		p.Style.LineWidth = vg.Length(width) * vg.Inch
	}
	if height > 0 {
		p.Style.MapHeight = vg.Length(height) * vg.Inch
		p.Style.LineHeight = vg.Length(height) * vg.Inch
	}

	if s := os.ExpandEnv(cfg.GetString("MapProj")); s != "" {
		if p.Projection, err = proj.Parse(s); err != nil {
			return nil, fmt.Errorf("climplot: while parsing MapProj: %v", err)
		}
	}
	if f := os.ExpandEnv(cfg.GetString("Coastlines")); f != "" {
		if p.Coastlines, err = climplot.LoadCoastlines(f, p.Projection); err != nil {
			return nil, err
		}
	}
	return p, nil
}
