// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeyInterning(t *testing.T) {
	in := make(interner)
	a := in.key([]string{"Pong", "v2"}, true)
	b := in.key([]string{"Pong", "v2"}, true)
	c := in.key([]string{"Pong v2"}, false)
	d := in.key([]string{"Pong", "v2"}, false)
	if a != b {
		t.Errorf("equal tuples are not ==")
	}
	if a == c || a == d {
		t.Errorf("keys with different shape are ==")
	}
	if a.String() != "Pong v2" {
		t.Errorf("String() = %q", a.String())
	}

	check := func(x, y []string) {
		t.Helper()
		if in.key(x, true) == in.key(y, true) {
			t.Errorf("keys %q and %q are ==", x, y)
		}
	}
	check([]string{"a\x00b"}, []string{"a", "b"})
	check([]string{"1:a"}, []string{"a"})
	check([]string{"", ""}, []string{""})
	check([]string{"a:", "b"}, []string{"a", ":b"})
}

func TestSortKeys(t *testing.T) {
	in := make(interner)
	var keys []Key
	for _, vals := range [][]string{{"b"}, {"a", "z"}, {"a"}, {"a", "b"}} {
		keys = append(keys, in.key(vals, true))
	}
	SortKeys(keys)
	var got [][]string
	for _, k := range keys {
		got = append(got, k.Values())
	}
	want := [][]string{{"a"}, {"a", "b"}, {"a", "z"}, {"b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sorted keys (-want +got):\n%s", diff)
	}
}
