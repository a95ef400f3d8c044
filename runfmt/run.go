// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runfmt provides a representation of experiment-tracking run
// records and a JSON-lines encoding for them.
//
// A run export is a sequence of lines, each holding one JSON object:
//
//	{"name":"Breakout_run1","state":"finished","summary":{"score":10}}
//
// Blank lines and lines starting with "#" are ignored.
package runfmt

import (
	"encoding/json"
	"math"
	"strconv"
)

// A State is the lifecycle state reported for a run.
type State string

// Finished is the State of a run that completed normally. Every other
// state ("running", "crashed", "failed", ...) is treated alike.
const Finished State = "finished"

// A Run is a single recorded execution of an experiment.
//
// Runs are produced by a run source and are not modified afterwards.
type Run struct {
	// Name is the human-readable run name that grouping patterns
	// are matched against.
	Name string `json:"name"`

	// State is the run's lifecycle state.
	State State `json:"state,omitempty"`

	// Summary maps metric names to summary values. Values are
	// usually numbers, but sources pass through whatever the
	// tracking service stored.
	Summary map[string]any `json:"summary,omitempty"`

	// History is an optional sequence of per-step metric samples.
	History []map[string]any `json:"history,omitempty"`
}

// IsFinished reports whether the run completed normally.
func (r *Run) IsFinished() bool {
	return r.State == Finished
}

// Metric returns the summary value of the named metric, or NaN if the
// run has no numeric value for it.
func (r *Run) Metric(name string) float64 {
	v, ok := Number(r.Summary[name])
	if !ok {
		return math.NaN()
	}
	return v
}

// HasMetric reports whether the summary holds a numeric value for name.
func (r *Run) HasMetric(name string) bool {
	_, ok := Number(r.Summary[name])
	return ok
}

// HistoryMax returns the largest non-NaN value of the named metric over
// the run's history, or NaN if no sample has one.
func (r *Run) HistoryMax(name string) float64 {
	max := math.NaN()
	for _, step := range r.History {
		v, ok := Number(step[name])
		if !ok || math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// Number converts a decoded summary value to a float64. It accepts Go
// numeric types, json.Number, and the strings "NaN", "Infinity" and
// "-Infinity" that some trackers use for non-finite values. Anything
// else, including nested objects, is not a number.
func Number(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case string:
		switch v {
		case "NaN", "nan":
			return math.NaN(), true
		case "Infinity", "inf":
			return math.Inf(1), true
		case "-Infinity", "-inf":
			return math.Inf(-1), true
		}
		// Numbers are never stored as strings otherwise, but
		// hand-written exports sometimes quote them.
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
