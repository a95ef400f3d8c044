// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runtab aggregates experiment runs into comparison tables.
//
// A Builder consumes runs, groups them with a runproc.Classifier, and
// collects one vector of metric values per run. Table then averages
// each group's vectors into a row, skipping missing values.
package runtab

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/rlperf/runstat/runfmt"
	"github.com/rlperf/runstat/runmath"
	"github.com/rlperf/runstat/runproc"
)

// Order selects the order of rows in a Table.
type Order int

const (
	// InsertionOrder lists groups in the order they were first seen.
	InsertionOrder Order = iota
	// KeyOrder lists groups sorted by group key.
	KeyOrder
)

// Reduce selects how a run's metric value is obtained.
type Reduce int

const (
	// ReduceSummary uses the run's summary value.
	ReduceSummary Reduce = iota
	// ReduceHistoryMax uses the maximum value over the run's
	// history.
	ReduceHistoryMax
)

// ParseOrder parses "insertion" or "key".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "insertion", "none":
		return InsertionOrder, nil
	case "key", "name":
		return KeyOrder, nil
	}
	return 0, fmt.Errorf("unknown order %q (want insertion or key)", s)
}

// ParseReduce parses "summary" or "max".
func ParseReduce(s string) (Reduce, error) {
	switch strings.ToLower(s) {
	case "summary":
		return ReduceSummary, nil
	case "max":
		return ReduceHistoryMax, nil
	}
	return 0, fmt.Errorf("unknown reduction %q (want summary or max)", s)
}

// Options configures a Builder.
type Options struct {
	// FinishedOnly drops runs whose state is not "finished".
	FinishedOnly bool

	// Order is the order of rows in the resulting Table.
	Order Order

	// Reduce selects summary values or history maxima.
	Reduce Reduce

	// Logger receives debug messages about skipped runs and
	// missing metrics. If nil, nothing is logged.
	Logger *zap.Logger
}

// A Builder collects runs into groups.
type Builder struct {
	c       *runproc.Classifier
	metrics []string
	opts    Options
	log     *zap.Logger

	groups map[runproc.Key]*Group
	order  []runproc.Key

	// attrs is every attribute name seen, in first-seen order.
	attrs    []string
	attrSeen map[string]bool
}

// A Group is the set of runs sharing a group key.
type Group struct {
	Key runproc.Key

	// Display is the label of the first run seen in this group.
	Display runproc.Key

	// Attrs holds the first value seen for each captured
	// attribute.
	Attrs map[string]string

	// Values has one vector per run, holding one value per
	// metric. Missing values are NaN.
	Values [][]float64
}

// NewBuilder returns a Builder that classifies runs with c and
// collects the named metrics.
func NewBuilder(c *runproc.Classifier, metrics []string, opts Options) *Builder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		c:        c,
		metrics:  append([]string(nil), metrics...),
		opts:     opts,
		log:      log,
		groups:   make(map[runproc.Key]*Group),
		attrSeen: make(map[string]bool),
	}
}

// Add classifies run and adds its metric values to its group. Runs
// rejected by the filter pattern, or unfinished runs when FinishedOnly
// is set, are ignored. Add returns a *runproc.MatchError if the group
// or name pattern does not match a run that passed the filter.
func (b *Builder) Add(run *runfmt.Run) error {
	if !b.c.Keep(run.Name) {
		b.log.Debug("run filtered out", zap.String("run", run.Name))
		return nil
	}
	if b.opts.FinishedOnly && !run.IsFinished() {
		b.log.Debug("run not finished", zap.String("run", run.Name), zap.String("state", string(run.State)))
		return nil
	}
	cl, err := b.c.Classify(run.Name)
	if err != nil {
		return err
	}

	g := b.groups[cl.Group]
	if g == nil {
		g = &Group{Key: cl.Group, Display: cl.Display, Attrs: make(map[string]string)}
		b.groups[cl.Group] = g
		b.order = append(b.order, cl.Group)
	}
	for _, a := range cl.Attrs {
		if _, ok := g.Attrs[a.Name]; !ok {
			g.Attrs[a.Name] = a.Value
		}
		if !b.attrSeen[a.Name] {
			b.attrSeen[a.Name] = true
			b.attrs = append(b.attrs, a.Name)
		}
	}

	vec := make([]float64, len(b.metrics))
	for i, m := range b.metrics {
		if b.opts.Reduce == ReduceHistoryMax {
			vec[i] = run.HistoryMax(m)
		} else {
			vec[i] = run.Metric(m)
		}
		if math.IsNaN(vec[i]) {
			b.log.Debug("missing metric", zap.String("run", run.Name), zap.String("metric", m))
		}
	}
	g.Values = append(g.Values, vec)
	return nil
}

// Groups returns the groups in the configured order.
func (b *Builder) Groups() []*Group {
	keys := append([]runproc.Key(nil), b.order...)
	if b.opts.Order == KeyOrder {
		runproc.SortKeys(keys)
	}
	groups := make([]*Group, len(keys))
	for i, k := range keys {
		groups[i] = b.groups[k]
	}
	return groups
}

// Table averages each group into a row. Columns are the captured
// attributes followed by the metrics.
func (b *Builder) Table() *Table {
	t := &Table{
		Label:   "run",
		Attrs:   append([]string(nil), b.attrs...),
		Metrics: append([]string(nil), b.metrics...),
	}
	for _, g := range b.Groups() {
		row := &Row{
			Label: g.Display.String(),
			Parts: g.Display.Values(),
			Means: runmath.ColumnMeans(g.Values, len(b.metrics)),
			N:     len(g.Values),
		}
		for _, a := range t.Attrs {
			row.Attrs = append(row.Attrs, g.Attrs[a])
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
