// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/rlperf/runstat/internal/chart"
	"github.com/rlperf/runstat/internal/config"
	"github.com/rlperf/runstat/internal/texttab"
	"github.com/rlperf/runstat/normalize"
	"github.com/rlperf/runstat/runmath"
	"github.com/rlperf/runstat/runtab"
)

// worstN is the number of benchmarks listed as furthest behind SOTA.
const worstN = 8

var title = color.New(color.Bold).SprintFunc()

// report prints the normalized score report for tab.
func report(w io.Writer, tab *runtab.Table, metrics []string, f *flags, cfg *config.Config, log *zap.Logger) error {
	j, err := scoreIndex(metrics, f.score)
	if err != nil {
		return err
	}
	baselines := normalize.Default()
	if cfg.Baselines != "" {
		if baselines, err = normalize.Load(cfg.Baselines); err != nil {
			return err
		}
	}

	var scores []normalize.Score
	for _, row := range tab.Rows {
		scores = append(scores, normalize.Score{Label: row.Parts, Value: row.Means[j]})
	}
	n := &normalize.Normalizer{Baselines: baselines, Logger: log}
	r := n.Normalize(scores)

	score := metrics[j]
	sections := []struct {
		title  string
		ratios []normalize.Ratio
	}{
		{score + " / human", byID(r.Observed)},
		{"SOTA / human", byID(r.SOTA)},
		{"alternate / human", byID(r.Alternate)},
		{score + " / SOTA", r.VsSOTA},
		{score + " / alternate", r.VsAlternate},
	}
	for _, s := range sections {
		fmt.Fprintf(w, "\n%s\n", title(s.title))
		if err := ratioTable(s.ratios).Format(w); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "\n%s\n", title("summary"))
	fmt.Fprintf(w, "worst %d vs SOTA: %s\n", worstN, strings.Join(r.Worst(worstN), " "))
	fmt.Fprintf(w, "median %s / human: %s\n", score, runmath.FormatValue(r.MedianObserved))
	fmt.Fprintf(w, "median SOTA / human: %s\n", runmath.FormatValue(r.MedianSOTA))
	fmt.Fprintf(w, "median alternate / human: %s\n", runmath.FormatValue(r.MedianAlternate))
	fmt.Fprintf(w, "%s / human: %s\n", score, runmath.FormatList(runmath.Sorted(values(r.Observed)), 2))
	fmt.Fprintf(w, "SOTA / human: %s\n", runmath.FormatList(runmath.Sorted(values(r.SOTA)), 2))
	fmt.Fprintf(w, "alternate / human: %s\n", runmath.FormatList(runmath.Sorted(values(r.Alternate)), 2))
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(w, "unresolved: %s\n", strings.Join(r.Unresolved, ", "))
	}

	if f.plot != "" && len(r.Observed) == 0 {
		log.Warn("no resolved benchmarks, skipping chart", zap.String("plot", f.plot))
	} else if f.plot != "" {
		pl, err := chart.Ratios(score+" / human", normalize.Sorted(r.Observed))
		if err != nil {
			return err
		}
		if err := chart.Save(pl, len(r.Observed), f.plot); err != nil {
			return err
		}
	}
	return nil
}

// byID returns the entries of m sorted by identifier.
func byID(m map[string]float64) []normalize.Ratio {
	var rs []normalize.Ratio
	for _, id := range sortedKeys(m) {
		rs = append(rs, normalize.Ratio{ID: id, Value: m[id]})
	}
	return rs
}

func ratioTable(rs []normalize.Ratio) *texttab.Table {
	var tab texttab.Table
	tab.Row().Cell("benchmark").Cell("ratio", texttab.Right)
	tab.Rule()
	for _, r := range rs {
		tab.Row().Cell(r.ID).Cell(runmath.FormatValue(r.Value), texttab.Right)
	}
	return &tab
}

func values(m map[string]float64) []float64 {
	xs := make([]float64, 0, len(m))
	for _, v := range m {
		xs = append(xs, v)
	}
	return xs
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
