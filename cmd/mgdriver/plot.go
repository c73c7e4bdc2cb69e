// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// palette cycles through distinguishable line colours.
var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
	{R: 140, G: 86, B: 75, A: 255},
}

// plotHistory writes the residual history of every run to path on a log
// scale. Runs without iterations are skipped; the format follows the file
// extension.
func plotHistory(path string, runs []run) error {
	p := plot.New()
	p.Title.Text = "Residual history"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "max |r|"
	p.Legend.Top = true

	lines := 0
	for i, r := range runs {
		pts := historyPoints(r.result.InitialResidual, r.result.History)
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("mgdriver: plot %s: %w", r.label, err)
		}
		line.Width = vg.Points(1)
		line.Color = palette[i%len(palette)]
		p.Add(line)
		p.Legend.Add(r.label, line)
		lines++
	}
	if lines > 0 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("mgdriver: plot: %w", err)
	}
	return nil
}

// historyPoints pairs iteration numbers with residuals, starting at the
// initial residual. Non-positive values cannot sit on a log axis and are
// dropped.
func historyPoints(initial float64, history []float64) plotter.XYs {
	if len(history) == 0 {
		return nil
	}
	pts := make(plotter.XYs, 0, len(history)+1)
	add := func(it int, v float64) {
		if v > 0 && !math.IsInf(v, 0) {
			pts = append(pts, plotter.XY{X: float64(it), Y: v})
		}
	}
	add(0, initial)
	for i, v := range history {
		add(i+1, v)
	}
	return pts
}
