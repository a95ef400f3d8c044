// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package normalize

import (
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/rlperf/runstat/runmath"
)

// A Score is an observed score for a labeled group.
type Score struct {
	Label []string
	Value float64
}

// A Ratio is a score ratio for a canonical identifier.
type Ratio struct {
	ID    string
	Value float64
}

// A Report is the result of normalizing a set of scores.
type Report struct {
	// Observed maps each identifier to its score divided by the
	// human baseline.
	Observed map[string]float64
	// SOTA and Alternate map each observed identifier to that
	// baseline divided by the human baseline, where the baseline
	// exists.
	SOTA, Alternate map[string]float64

	// VsSOTA and VsAlternate are score divided by the SOTA and
	// alternate baselines, in ascending order.
	VsSOTA, VsAlternate []Ratio

	MedianObserved, MedianSOTA, MedianAlternate float64

	// Unresolved lists labels that did not resolve to an identifier
	// in the human table.
	Unresolved []string
}

// A Normalizer normalizes scores against Baselines.
type Normalizer struct {
	Baselines *Baselines

	// Logger receives warnings about duplicate identifiers and
	// unresolved labels. If nil, nothing is logged.
	Logger *zap.Logger
}

// Normalize resolves each score's label and computes ratios against
// the baselines. If two scores resolve to the same identifier, the
// later one wins. NaN scores are ignored.
func (n *Normalizer) Normalize(scores []Score) *Report {
	log := n.Logger
	if log == nil {
		log = zap.NewNop()
	}
	b := n.Baselines

	merged := make(map[string]float64)
	for _, s := range scores {
		label := strings.Join(s.Label, " ")
		if math.IsNaN(s.Value) {
			log.Debug("no score", zap.String("label", label))
			continue
		}
		id := b.Resolve(s.Label)
		if _, ok := merged[id]; ok {
			log.Warn("duplicate benchmark", zap.String("id", id), zap.String("label", label))
		}
		merged[id] = s.Value
	}

	r := &Report{
		Observed:  make(map[string]float64),
		SOTA:      make(map[string]float64),
		Alternate: make(map[string]float64),
	}
	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		v := merged[id]
		human, ok := b.Human(id)
		if !ok || human == 0 {
			log.Warn("no human baseline", zap.String("label", id))
			r.Unresolved = append(r.Unresolved, id)
			continue
		}
		r.Observed[id] = v / human
		if sota, ok := b.SOTA(id); ok {
			r.SOTA[id] = sota / human
			if sota != 0 {
				r.VsSOTA = append(r.VsSOTA, Ratio{id, v / sota})
			}
		}
		if alt, ok := b.Alternate(id); ok {
			r.Alternate[id] = alt / human
			if alt != 0 {
				r.VsAlternate = append(r.VsAlternate, Ratio{id, v / alt})
			}
		}
	}
	sortRatios(r.VsSOTA)
	sortRatios(r.VsAlternate)
	r.MedianObserved = runmath.Median(values(r.Observed))
	r.MedianSOTA = runmath.Median(values(r.SOTA))
	r.MedianAlternate = runmath.Median(values(r.Alternate))
	return r
}

// Worst returns the identifiers of the n lowest score to SOTA ratios.
func (r *Report) Worst(n int) []string {
	if n > len(r.VsSOTA) {
		n = len(r.VsSOTA)
	}
	ids := make([]string, n)
	for i := range ids {
		ids[i] = r.VsSOTA[i].ID
	}
	return ids
}

// Sorted returns the entries of m as Ratios in ascending order.
func Sorted(m map[string]float64) []Ratio {
	rs := make([]Ratio, 0, len(m))
	for id, v := range m {
		rs = append(rs, Ratio{id, v})
	}
	sortRatios(rs)
	return rs
}

// sortRatios sorts by value, breaking ties by identifier.
func sortRatios(rs []Ratio) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Value != rs[j].Value {
			return rs[i].Value < rs[j].Value
		}
		return rs[i].ID < rs[j].ID
	})
}

func values(m map[string]float64) []float64 {
	xs := make([]float64, 0, len(m))
	for _, v := range m {
		xs = append(xs, v)
	}
	return xs
}
