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
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spatialmodel/climplot"
	"github.com/spf13/cobra"
)

// Kind is a kind of figure.
type Kind int

// These are the kinds of figures that can be created.
const (
	Map Kind = iota
	TimeSeries
	AnnualCycle
)

func (k Kind) String() string {
	switch k {
	case Map:
		return "map"
	case TimeSeries:
		return "time series"
	case AnnualCycle:
		return "annual cycle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Run creates a figure of the given kind as configured by cfg and writes
// it to the configured output file. Log messages are written to the
// command output and to the log file.
func Run(cmd *cobra.Command, kind Kind, cfg *viper.Viper) error {
	startTime := time.Now()

	inputFile, err := checkInputFile(cfg.GetString("Input"))
	if err != nil {
		return err
	}
	outputFile, err := checkOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return err
	}
	varName := cfg.GetString("Variable")
	if varName == "" {
		return fmt.Errorf(`you need to specify a Variable configuration variable (for example: Variable="tas")`)
	}

	logfile, err := os.Create(checkLogFile(cfg.GetString("LogFile"), outputFile))
	if err != nil {
		return fmt.Errorf("climplot: problem creating log file: %v", err)
	}
	defer logfile.Close()
	log := logrus.New()
	log.Out = io.MultiWriter(cmd.OutOrStdout(), logfile)
	log.Formatter = &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}

	r, err := Reduction(cfg)
	if err != nil {
		return err
	}
	p, err := Plotter(cfg, log)
	if err != nil {
		return err
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return fmt.Errorf("climplot: opening input file: %v", err)
	}
	d, err := climplot.Load(f, inputFile)
	f.Close()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":   inputFile,
		"models": len(d.ModelLabels()),
		"times":  len(d.Time),
		"lat":    len(d.Lat),
		"lon":    len(d.Lon),
	}).Info("climplot: loaded dataset")

	ctx := context.Background()
	var fig *climplot.Figure
	switch kind {
	case Map:
		fig, err = p.Map(ctx, d, varName, r)
	case TimeSeries:
		fig, err = p.TimeSeries(ctx, d, varName, r)
	case AnnualCycle:
		fig, err = p.AnnualCycle(ctx, d, varName, r)
	default:
		err = fmt.Errorf("climplot: invalid figure kind %v", kind)
	}
	if err != nil {
		return err
	}

	if err = fig.Save(outputFile); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"kind":     kind,
		"file":     outputFile,
		"duration": time.Since(startTime),
	}).Info("climplot: wrote figure")

	if tableFile := os.ExpandEnv(cfg.GetString("TableFile")); tableFile != "" && fig.Series != nil {
		w, err := os.Create(tableFile)
		if err != nil {
			return fmt.Errorf("climplot: creating table file: %v", err)
		}
		if err = WriteTable(w, varName, fig.Series); err != nil {
			w.Close()
			return err
		}
		if err = w.Close(); err != nil {
			return err
		}
		log.WithField("file", tableFile).Info("climplot: wrote table")
	}

	if cfg.GetBool("Show") {
		if err := open.Run(outputFile); err != nil {
			return fmt.Errorf("climplot: showing figure: %v", err)
		}
	}
	return nil
}
