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
	"io"
	"math"

	"github.com/spatialmodel/climplot"
	"github.com/tealeg/xlsx"
)

// WriteTable writes the values of series to w as an Excel workbook
// with a single sheet named after varName. The first column holds the
// dates of time series or the month numbers of annual cycles; each
// following column holds one series. Missing values are left blank.
func WriteTable(w io.Writer, varName string, series []climplot.Series) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName(varName))
	if err != nil {
		return fmt.Errorf("climplot: creating table: %v", err)
	}
	header := sheet.AddRow()
	if len(series) > 0 && series[0].Time != nil {
		header.AddCell().SetString("Time")
	} else {
		header.AddCell().SetString("Month")
	}
	n := 0
	for _, s := range series {
		header.AddCell().SetString(s.Label)
		if len(s.X) > n {
			n = len(s.X)
		}
	}
	for i := 0; i < n; i++ {
		row := sheet.AddRow()
		first := row.AddCell()
		switch {
		case series[0].Time != nil && i < len(series[0].Time):
			first.SetString(series[0].Time[i].Format("2006-01-02"))
		case i < len(series[0].X):
			first.SetFloat(series[0].X[i])
		}
		for _, s := range series {
			cell := row.AddCell()
			if i < len(s.Y) && !math.IsNaN(s.Y[i]) && !math.IsInf(s.Y[i], 0) {
				cell.SetFloat(s.Y[i])
			}
		}
	}
	return file.Write(w)
}

// sheetName returns a valid Excel sheet name for varName.
func sheetName(varName string) string {
	const maxLen = 31
	if varName == "" {
		return "Sheet1"
	}
	if len(varName) > maxLen {
		return varName[:maxLen]
	}
	return varName
}
