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
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Style controls the appearance of figures.
type Style struct {
	// MapWidth and MapHeight are the size of map figures.
	MapWidth, MapHeight vg.Length

	// LineWidth and LineHeight are the size of time series and
	// annual cycle figures.
	LineWidth, LineHeight vg.Length

	// Font is the name of the font used for titles and labels.
	Font string

	// FontSize is the size of panel titles.
	FontSize vg.Length
}

// DefaultStyle returns the default figure style.
func DefaultStyle() Style {
	return Style{
		MapWidth:   15 * vg.Inch,
		MapHeight:  6 * vg.Inch,
		LineWidth:  12 * vg.Inch,
		LineHeight: 6 * vg.Inch,
		Font:       "Helvetica",
		FontSize:   vg.Points(12),
	}
}

// Figure is a rendered figure that can be written to a file in several
// image formats. Building a figure does not display it.
type Figure struct {
	Title         string
	Width, Height vg.Length

	// Series holds the plotted lines of time series and annual cycle
	// figures. It is nil for maps.
	Series []Series

	// Map holds the plotted data of map figures. It is nil for line
	// figures.
	Map *MapData

	draw func(c draw.Canvas) error
}

// Draw draws the figure onto c.
func (f *Figure) Draw(c draw.Canvas) error {
	c.SetColor(color.White)
	c.Fill(c.Rectangle.Path())
	return f.draw(c)
}

// Encode renders the figure in the given format and writes it to w.
// Valid formats are "png", "jpg", "jpeg", "tif", "tiff", "pdf", "svg"
// and "eps".
func (f *Figure) Encode(w io.Writer, format string) error {
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, strings.ToLower(format))
	if err != nil {
		return fmt.Errorf("climplot: rendering figure: %v", err)
	}
	if err = f.Draw(draw.New(c)); err != nil {
		return err
	}
	_, err = c.WriteTo(w)
	return err
}

// Save writes the figure to filename. The format is determined by the
// file extension.
func (f *Figure) Save(filename string) error {
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	if format == "" {
		return fmt.Errorf("climplot: can't determine image format of %s; it has no extension", filename)
	}
	w, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("climplot: saving figure: %v", err)
	}
	if err = f.Encode(w, format); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
