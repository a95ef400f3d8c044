// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReader(t *testing.T) {
	const input = `# exported runs
{"name":"Breakout_run1","state":"finished","summary":{"score":10}}

{"name":"Breakout_run2","state":"running","summary":{"score":20,"loss":0.5}}
`
	r := NewReader(strings.NewReader(input), "runs.jsonl")
	var names []string
	var scores []float64
	for r.Scan() {
		names = append(names, r.Run().Name)
		scores = append(scores, r.Run().Metric("score"))
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Breakout_run1", "Breakout_run2"}, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{10, 20}, scores); diff != "" {
		t.Errorf("scores (-want +got):\n%s", diff)
	}
}

func TestReaderSyntaxError(t *testing.T) {
	check := func(input string, wantLine int, wantMsg string) {
		t.Helper()
		r := NewReader(strings.NewReader(input), "bad.jsonl")
		for r.Scan() {
		}
		var se *SyntaxError
		if !errors.As(r.Err(), &se) {
			t.Fatalf("want *SyntaxError, got %v", r.Err())
		}
		if se.Line != wantLine || !strings.Contains(se.Msg, wantMsg) {
			t.Errorf("got %v, want line %d containing %q", se, wantLine, wantMsg)
		}
		if !strings.HasPrefix(se.Error(), "bad.jsonl:") {
			t.Errorf("error %q lacks file name", se.Error())
		}
	}
	check("{\"name\":\"a\"}\n{\"name\":", 2, "unexpected EOF")
	check("{\"state\":\"finished\"}\n", 1, "run has no name")
	check("{\"name\":\"a\"} {\"name\":\"b\"}\n", 1, "trailing data")
}

func TestWriterRoundTrip(t *testing.T) {
	runs := []*Run{
		{Name: "Pong_run1", State: Finished, Summary: map[string]any{"score": 21.0}},
		{Name: "Pong_run2", State: "crashed", History: []map[string]any{{"score": -3.0}}},
	}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, run := range runs {
		if err := w.Write(run); err != nil {
			t.Fatal(err)
		}
	}
	if n := strings.Count(buf.String(), "\n"); n != len(runs) {
		t.Fatalf("wrote %d lines, want %d:\n%s", n, len(runs), buf.String())
	}

	r := NewReader(&buf, "")
	var got []*Run
	for r.Scan() {
		got = append(got, r.Run())
	}
	if err := r.Err(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Metric("score") != 21 || got[1].HistoryMax("score") != -3 || got[1].State != "crashed" {
		t.Errorf("round trip lost data: %+v", got)
	}
}
