// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"strings"
	"testing"
)

func TestAlign(t *testing.T) {
	check := func(s string, a align, w int, want string) {
		t.Helper()
		got := a.pad(s, w)
		if got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	}

	check("abc", alignLeft, 5, "abc  ")
	check("abc", alignRight, 5, "  abc")
	check("abc", alignRight, 2, "abc")
	check("☃", alignRight, 4, "   ☃")
}

func TestTable(t *testing.T) {
	var tab Table
	check := func(want string) {
		t.Helper()
		var gotBuf strings.Builder
		if err := tab.Format(&gotBuf); err != nil {
			t.Fatal(err)
		}
		got := gotBuf.String()
		if want != got {
			t.Errorf("want:\n%sgot:\n%s", want, got)
		}
		// Reset tab.
		tab = Table{}
	}

	// Basic test.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a  b  c\nd  e  f\n")

	// Cell padding without trailing spaces.
	tab.Row().Cell("a").Cell("b").Cell("c")
	tab.Row().Cell("long").Cell("e").Cell("long")
	check("a     b  c\nlong  e  long\n")

	// Alignment.
	tab.Row().Cell("run").Cell("score", Right)
	tab.Row().Cell("Breakout").Cell("15", Right)
	check("run       score\nBreakout     15\n")

	// Rules follow column widths.
	tab.Row().Cells("path", "proj/x")
	tab.Rule()
	tab.Row().Cells("metrics", "[score]")
	check("path     proj/x\n-------  -------\nmetrics  [score]\n")

	// Missing cells at the end and blank rows.
	tab.Row().Cell("a")
	tab.Row()
	tab.Row().Cell("d").Cell("e").Cell("f")
	check("a\n\nd  e  f\n")

	// Cell after a rule starts a new row.
	tab.Rule().Cell("x")
	check("-\nx\n")
}
