// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runmath

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return math.Abs(a-b) < eps
}

func TestNaNMean(t *testing.T) {
	nan := math.NaN()
	check := func(xs []float64, want float64) {
		t.Helper()
		if got := NaNMean(xs); !near(got, want) {
			t.Errorf("NaNMean(%v) = %v, want %v", xs, got, want)
		}
	}
	check([]float64{10, 20}, 15)
	check([]float64{10, nan, 20}, 15)
	check([]float64{3}, 3)
	check([]float64{nan, nan}, nan)
	check(nil, nan)
}

func TestMedian(t *testing.T) {
	nan := math.NaN()
	check := func(xs []float64, want float64) {
		t.Helper()
		if got := Median(xs); !near(got, want) {
			t.Errorf("Median(%v) = %v, want %v", xs, got, want)
		}
	}
	check([]float64{3, 1, 2}, 2)
	check([]float64{4, 1, 3, 2}, 2.5)
	check([]float64{5}, 5)
	check([]float64{nan, 7, nan}, 7)
	check(nil, nan)
}

func TestColumnMeans(t *testing.T) {
	nan := math.NaN()
	rows := [][]float64{
		{10, nan, 1},
		{20, nan},
		{nan, nan, 3},
	}
	got := ColumnMeans(rows, 3)
	want := []float64{15, nan, 2}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Errorf("column %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFormat(t *testing.T) {
	xs := []float64{2, 0.5, math.NaN(), 1.234}
	if got, want := FormatList(Sorted(xs), 2), "0.50 1.23 2.00"; got != want {
		t.Errorf("FormatList = %q, want %q", got, want)
	}
	if xs[0] != 2 {
		t.Errorf("Sorted modified its input")
	}
	for _, test := range []struct {
		x    float64
		want string
	}{
		{15, "15"},
		{15.333333333, "15.3333"},
		{1234567, "1.23457e+06"},
		{math.NaN(), "NaN"},
	} {
		if got := FormatValue(test.x); got != test.want {
			t.Errorf("FormatValue(%v) = %q, want %q", test.x, got, test.want)
		}
	}
}
