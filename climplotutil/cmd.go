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

// Package climplotutil provides the command-line interface to climplot.
package climplotutil

import (
	"fmt"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/climplot"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to climplot.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Input",
			usage: `
              Input is the path to the netCDF file holding the model output.
              Variables must have dimensions [model,] time, lat, lon.`,
			shorthand:  "i",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "Variable",
			usage: `
              Variable is the name of the variable to plot.`,
			shorthand:  "v",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "Function",
			usage: `
              Function is the reduction applied along the time axis. It can be
              'climatology' (the long-run mean) or 'difference'.`,
			shorthand:  "f",
			defaultVal: "climatology",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "Measure",
			usage: `
              Measure specifies how differences are expressed: '' or 'abs' for
              absolute differences or 'rel' for differences as a percentage of
              the baseline. For annual cycles, 'rel' gives the full-period
              climatology as a percentage of the baseline climatology.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "FirstPeriod",
			usage: `
              FirstPeriod is the earlier period of a map difference, in the
              format 'YYYY-YYYY'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "LastPeriod",
			usage: `
              LastPeriod is the later period of a map difference, in the
              format 'YYYY-YYYY'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "BaselinePeriod",
			usage: `
              BaselinePeriod is the reference period that time series and annual
              cycle differences are computed against, in the format 'YYYY-YYYY'.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path where the figure should be written. The image
              format (png, jpg, tif, pdf, svg or eps) is determined by the extension.`,
			shorthand:  "o",
			defaultVal: "climplot.png",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. If it is left
              blank, the log file will be created next to OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "Show",
			usage: `
              Show specifies whether to open the figure in the default viewer
              after it has been written.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "Width",
			usage: `
              Width is the figure width in inches. Zero means the default width.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "Height",
			usage: `
              Height is the figure height in inches. Zero means the default height.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{mapCmd.Flags(), timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
		{
			name: "Coastlines",
			usage: `
              Coastlines is the path to a shapefile of outlines to draw on each
              map panel. Shapefiles without a .prj file are assumed to be in
              longitude-latitude coordinates.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "MapProj",
			usage: `
              MapProj gives the projection to draw maps in, in Proj4 or WKT
              format. It is longitude-latitude by default.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{mapCmd.Flags()},
		},
		{
			name: "Trend",
			usage: `
              Trend specifies whether to add a linear trend line for each model
              to time series plots.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{timeseriesCmd.Flags()},
		},
		{
			name: "TableFile",
			usage: `
              TableFile is the path where an Excel (.xlsx) file with the plotted
              values should be written. No table is written if it is blank.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{timeseriesCmd.Flags(), cycleCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CLIMPLOT")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(mapCmd)
	Root.AddCommand(timeseriesCmd)
	Root.AddCommand(cycleCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("climplot: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "climplot",
	Short: "Plot gridded climate model output.",
	Long: `climplot draws maps, time series and annual cycles from gridded
climate model output stored in netCDF files.
Use the subcommands specified below to choose the kind of figure.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CLIMPLOT_var' where 'var' is the
name of the variable to be set. File paths are additionally allowed to contain
environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of climplot.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("climplot v%s\n", climplot.Version)
	},
	DisableAutoGenTag: true,
}

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Draw a map of a climatology or period difference.",
	Long: `map draws one map panel per model of the time mean of a variable
(Function=climatology) or of the difference between the means over LastPeriod
and FirstPeriod (Function=difference). All panels share a color scale that is
symmetric around zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, Map, Cfg)
	},
	DisableAutoGenTag: true,
}

var timeseriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Plot annual spatial-mean time series.",
	Long: `timeseries plots one line per model of the annual mean of the spatial
mean of a variable. With Function=difference each line is shown as an anomaly
from its mean over BaselinePeriod.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, TimeSeries, Cfg)
	},
	DisableAutoGenTag: true,
}

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Plot the annual cycle.",
	Long: `cycle plots one line per model of the monthly climatology of the
spatial mean of a variable. With Function=difference the climatology over
BaselinePeriod is subtracted month by month.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd, AnnualCycle, Cfg)
	},
	DisableAutoGenTag: true,
}
