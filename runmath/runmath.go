// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runmath provides the statistics used to summarize groups of
// runs and normalized scores.
//
// Missing measurements are represented as NaN throughout. Summaries
// skip them, and a summary of nothing but missing values is NaN rather
// than an error.
package runmath

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// Present returns the non-NaN values of xs in their original order.
func Present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// NaNMean returns the arithmetic mean of the non-NaN values in xs, or
// NaN if there are none.
func NaNMean(xs []float64) float64 {
	kept := Present(xs)
	if len(kept) == 0 {
		return math.NaN()
	}
	return stats.Mean(kept)
}

// Median returns the median of the non-NaN values in xs, or NaN if
// there are none. With an even count it is the mean of the two middle
// values.
func Median(xs []float64) float64 {
	kept := Sorted(xs)
	if len(kept) == 0 {
		return math.NaN()
	}
	return stats.Sample{Xs: kept, Sorted: true}.Quantile(0.5)
}

// ColumnMeans returns the NaN-aware mean of each of the n columns of
// rows. Rows shorter than n are treated as missing the trailing
// columns.
func ColumnMeans(rows [][]float64, n int) []float64 {
	means := make([]float64, n)
	col := make([]float64, 0, len(rows))
	for j := range means {
		col = col[:0]
		for _, row := range rows {
			if j < len(row) {
				col = append(col, row[j])
			}
		}
		means[j] = NaNMean(col)
	}
	return means
}

// Sorted returns the non-NaN values of xs in ascending order. xs is
// not modified.
func Sorted(xs []float64) []float64 {
	out := Present(xs)
	sort.Float64s(out)
	return out
}

// FormatList formats xs as space-separated decimals with prec digits
// after the point.
func FormatList(xs []float64, prec int) string {
	var b strings.Builder
	for i, x := range xs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(x, 'f', prec, 64))
	}
	return b.String()
}

// FormatValue formats a summary value with six significant digits.
// Missing values print as NaN.
func FormatValue(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}
