/*
 * plot.go, part of gocryst.
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package crystplot draws the Miller offset histograms of goCryst.
package crystplot

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/rmera/gocryst/histo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var indexNames = []string{"h", "k", "l"}

func basicOffsetPlot(title string, labels []string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "Offset from integer"
	p.Y.Label.Text = "Peaks"
	p.Y.Min = 0
	p.NominalX(labels...)
	p.Add(plotter.NewGrid())
	return p
}

//OffsetPlot draws the histogram d as a bar chart and saves it to filename.
//The format is given by the extension of filename. If there is no extension,
//a PNG file is produced.
func OffsetPlot(d *histo.Data, title, filename string) error {
	if d == nil || len(d.View()) == 0 {
		return fmt.Errorf("goCryst/crystplot: no histogram to plot")
	}
	centers := d.Centers()
	labels := make([]string, len(centers))
	for i, v := range centers {
		labels[i] = fmt.Sprintf("%.2f", v)
	}
	p := basicOffsetPlot(title, labels)
	values := plotter.Values(d.Copy())
	bars, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return fmt.Errorf("goCryst/crystplot: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 40, G: 90, B: 180, A: 255}
	p.Add(bars)
	if filepath.Ext(filename) == "" {
		filename += ".png"
	}
	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("goCryst/crystplot: can't save %s: %w", filename, err)
	}
	return nil
}

//OffsetPlots saves one plot for each histogram in m, to files named prefix_h.png,
//prefix_k.png and prefix_l.png for the histograms with those IDs, and prefix_rXcY.png
//for any other.
func OffsetPlots(m *histo.Matrix, title, prefix string) error {
	if m == nil {
		return fmt.Errorf("goCryst/crystplot: no histograms to plot")
	}
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d := m.View(i, j)
			name := fmt.Sprintf("r%dc%d", i, j)
			if id := d.ID(); id >= 0 && id < len(indexNames) {
				name = indexNames[id]
			}
			if err := OffsetPlot(d, fmt.Sprintf("%s (%s)", title, name), prefix+"_"+name+".png"); err != nil {
				return err
			}
		}
	}
	return nil
}
