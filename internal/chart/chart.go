// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart draws bar charts of normalized scores.
package chart

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/rlperf/runstat/normalize"
)

// Ratios returns a bar chart with one bar per ratio, in the order
// given, and a reference line at 1.
func Ratios(title string, ratios []normalize.Ratio) (*plot.Plot, error) {
	if len(ratios) == 0 {
		return nil, fmt.Errorf("no ratios to chart")
	}
	values := make(plotter.Values, len(ratios))
	names := make([]string, len(ratios))
	for i, r := range ratios {
		values[i] = r.Value
		if math.IsInf(r.Value, 0) || math.IsNaN(r.Value) {
			values[i] = 0
		}
		names[i] = r.ID
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.Y.Label.Text = "score / human"

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	bars, err := plotter.NewBarChart(values, vg.Points(8))
	if err != nil {
		return nil, err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.NRGBA{0, 0x66, 0xCC, 0xFF}
	pl.Add(bars)

	human, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: 1}, {X: float64(len(ratios)) - 0.5, Y: 1}})
	if err != nil {
		return nil, err
	}
	human.LineStyle.Color = color.NRGBA{0xFF, 0, 0, 0xFF}
	human.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	pl.Add(human)

	pl.NominalX(names...)
	pl.X.Tick.Label.Rotation = -math.Pi / 4
	pl.X.Tick.Label.YAlign = draw.YTop
	pl.X.Tick.Label.XAlign = draw.XLeft

	// Keep the reference line in view.
	if pl.Y.Min > 0 {
		pl.Y.Min = 0
	}
	if pl.Y.Max < 1 {
		pl.Y.Max = 1
	}
	return pl, nil
}

// Save writes pl to path. The format is chosen by the extension of
// path: png, svg, pdf, eps, jpg, or tiff.
func Save(pl *plot.Plot, n int, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return fmt.Errorf("%s: unsupported chart format", path)
	}
	// Heuristic width: enough room per bar for a rotated label.
	width := vg.Length(2+n) * 0.4 * vg.Centimeter
	if width < 12*vg.Centimeter {
		width = 12 * vg.Centimeter
	}
	return pl.Save(width, 10*vg.Centimeter, path)
}
