// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rlperf/runstat/normalize"
)

func TestSaveSVG(t *testing.T) {
	ratios := []normalize.Ratio{{ID: "Pong", Value: 0.5}, {ID: "Breakout", Value: 3}, {ID: "Venture", Value: math.Inf(1)}}
	pl, err := Ratios("observed / human", ratios)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "ratios.svg")
	if err := Save(pl, len(ratios), path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") || !strings.Contains(string(data), "Breakout") {
		t.Errorf("output does not look like the chart:\n%.200s", data)
	}
}

func TestErrors(t *testing.T) {
	if _, err := Ratios("empty", nil); err == nil {
		t.Errorf("Ratios with no data succeeded")
	}
	pl, err := Ratios("x", []normalize.Ratio{{ID: "Pong", Value: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(pl, 1, filepath.Join(t.TempDir(), "x.txt")); err == nil {
		t.Errorf("Save to .txt succeeded")
	}
}
