// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"fmt"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"

	"github.com/rlperf/runstat/runmath"
)

// A Table is an aggregated comparison table.
type Table struct {
	// Label is the heading of the row label column, or "" if
	// rows have no label column.
	Label string

	// Attrs are the attribute column names.
	Attrs []string

	// Metrics are the metric column names.
	Metrics []string

	Rows []*Row
}

// A Row is one aggregated group.
type Row struct {
	// Label is the group's display label and Parts its values.
	Label string
	Parts []string

	// Attrs has one value per Table.Attrs column, "" if the group
	// did not capture that attribute.
	Attrs []string

	// Means has the mean of each metric over the group's runs.
	// A metric missing from every run is NaN.
	Means []float64

	// N is the number of runs aggregated into this row.
	N int
}

// HasAttrs reports whether t has all of the named attribute columns.
func (t *Table) HasAttrs(names ...string) bool {
	for _, name := range names {
		if t.attrIndex(name) < 0 {
			return false
		}
	}
	return true
}

func (t *Table) attrIndex(name string) int {
	for i, a := range t.Attrs {
		if a == name {
			return i
		}
	}
	return -1
}

// Column returns the means of the named metric, one per row, or nil if
// t has no such metric.
func (t *Table) Column(metric string) []float64 {
	j := -1
	for i, m := range t.Metrics {
		if m == metric {
			j = i
		}
	}
	if j < 0 {
		return nil
	}
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row.Means[j]
	}
	return col
}

// Grouped averages the rows of t again over the distinct values of the
// attribute columns by, giving a table with one row per combination,
// sorted by those values. Missing values are skipped as in Table.
// Grouped returns an error if t lacks one of the attributes.
func (t *Table) Grouped(by ...string) (*Table, error) {
	idx := make([]int, len(by))
	for i, name := range by {
		if idx[i] = t.attrIndex(name); idx[i] < 0 {
			return nil, fmt.Errorf("table has no attribute %q", name)
		}
	}
	out := &Table{Attrs: append([]string(nil), by...), Metrics: append([]string(nil), t.Metrics...)}
	if len(t.Rows) == 0 {
		return out, nil
	}

	var b table.Builder
	for i, name := range by {
		vals := make([]string, len(t.Rows))
		for r, row := range t.Rows {
			vals[r] = row.Attrs[idx[i]]
		}
		b.Add(name, vals)
	}
	// Metric names may collide with attribute names, so give the
	// value columns private names.
	valCols := make([]string, len(t.Metrics))
	for j := range t.Metrics {
		valCols[j] = fmt.Sprintf(".metric%d", j)
		b.Add(valCols[j], t.Column(t.Metrics[j]))
	}
	counts := make([]int, len(t.Rows))
	for r, row := range t.Rows {
		counts[r] = row.N
	}
	b.Add(".n", counts)

	g := ggstat.Agg(by...)(aggNaNMean(valCols...), aggSum(".n")).F(b.Done())
	// SortBy skips columns that are already in order on their own,
	// so sort stably by one column at a time, last column first.
	for i := len(by) - 1; i >= 0; i-- {
		g = table.SortBy(g, by[i])
	}
	for _, gid := range g.Tables() {
		tab := g.Table(gid)
		keys := make([][]string, len(by))
		for i, name := range by {
			keys[i] = tab.MustColumn(name).([]string)
		}
		means := make([][]float64, len(valCols))
		for j, col := range valCols {
			means[j] = tab.MustColumn(col).([]float64)
		}
		ns := tab.MustColumn(".n").([]int)
		for r := 0; r < tab.Len(); r++ {
			row := &Row{N: ns[r]}
			for i := range by {
				row.Attrs = append(row.Attrs, keys[i][r])
			}
			for j := range valCols {
				row.Means = append(row.Means, means[j][r])
			}
			row.Parts = row.Attrs
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

// aggNaNMean is like ggstat.AggMean, but skips NaNs and keeps the
// column names.
func aggNaNMean(cols ...string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		for _, col := range cols {
			means := make([]float64, 0, len(input.Tables()))
			for _, gid := range input.Tables() {
				xs := input.Table(gid).MustColumn(col).([]float64)
				means = append(means, runmath.NaNMean(xs))
			}
			b.Add(col, means)
		}
	}
}

// aggSum totals int columns, keeping the column names.
func aggSum(cols ...string) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		for _, col := range cols {
			sums := make([]int, 0, len(input.Tables()))
			for _, gid := range input.Tables() {
				sum := 0
				for _, n := range input.Table(gid).MustColumn(col).([]int) {
					sum += n
				}
				sums = append(sums, sum)
			}
			b.Add(col, sums)
		}
	}
}
