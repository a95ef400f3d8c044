// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runproc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeyPolicies(t *testing.T) {
	check := func(policy KeyPolicy, pattern, name string, want []string, wantTuple bool) {
		t.Helper()
		c, err := NewClassifier(pattern, "", "", policy)
		if err != nil {
			t.Fatal(err)
		}
		cl, err := c.Classify(name)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, cl.Group.Values()); diff != "" {
			t.Errorf("%v %q on %q: key (-want +got):\n%s", policy, pattern, name, diff)
		}
		if cl.Group.IsTuple() != wantTuple {
			t.Errorf("%v %q on %q: IsTuple = %v, want %v", policy, pattern, name, cl.Group.IsTuple(), wantTuple)
		}
	}

	// Without capturing groups, the last-group policy keys by the
	// matched prefix while the tuple policy keys by the whole name.
	check(LastGroup, `\w+_run`, "Breakout_run1", []string{"Breakout_run"}, false)
	check(Tuple, `\w+_run`, "Breakout_run1", []string{"Breakout_run1"}, false)

	// With capturing groups, the last-group policy keeps only the
	// last one and the tuple policy keeps them all.
	check(LastGroup, `(\w+?)_(v\d)_run\d+`, "Pong_v2_run3", []string{"v2"}, false)
	check(Tuple, `(\w+?)_(v\d)_run\d+`, "Pong_v2_run3", []string{"Pong", "v2"}, true)

	// Groups that don't participate in the match are empty.
	check(Tuple, `(\w+?)(_x)?_run`, "Pong_run", []string{"Pong", ""}, true)
}

func TestClassifyExample(t *testing.T) {
	c, err := NewClassifier(`(\w+)_run\d+`, "", "", LastGroup)
	if err != nil {
		t.Fatal(err)
	}
	cl1, err := c.Classify("Breakout_run1")
	if err != nil {
		t.Fatal(err)
	}
	cl2, err := c.Classify("Breakout_run2")
	if err != nil {
		t.Fatal(err)
	}
	if cl1.Group != cl2.Group {
		t.Errorf("Breakout_run1 and Breakout_run2 have different keys %v and %v", cl1.Group, cl2.Group)
	}
	if got := cl1.Display.String(); got != "Breakout" {
		t.Errorf("display = %q, want Breakout", got)
	}
}

func TestPrefixMatch(t *testing.T) {
	c, err := NewClassifier(`Pong`, "", "", LastGroup)
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		want bool
	}{
		{"Pong", true},
		{"Pong_run1", true},
		{"ALE/Pong-v5", false},
		{"pong", false},
	} {
		if got := c.Keep(test.name); got != test.want {
			t.Errorf("Keep(%q) = %v, want %v", test.name, got, test.want)
		}
	}
}

func TestAttrs(t *testing.T) {
	c, err := NewClassifier(`.*`, `(?P<game>[A-Za-z]+)_(?P<tag>\w+?)(?P<seed>_s\d+)?$`, `(?P<game>[A-Za-z]+)`, Tuple)
	if err != nil {
		t.Fatal(err)
	}
	cl, err := c.Classify("Breakout_ppo")
	if err != nil {
		t.Fatal(err)
	}
	want := []Attr{{"game", "Breakout"}, {"tag", "ppo"}}
	if diff := cmp.Diff(want, cl.Attrs); diff != "" {
		t.Errorf("attrs (-want +got):\n%s", diff)
	}
	if got := cl.Display.String(); got != "Breakout" {
		t.Errorf("display = %q, want Breakout", got)
	}
}

func TestMatchError(t *testing.T) {
	c, err := NewClassifier(`.*`, `(\w+)_run\d+`, `(\w+)-`, LastGroup)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Classify("Breakout")
	var me *MatchError
	if !errors.As(err, &me) || me.Field != "group" {
		t.Errorf("want group MatchError, got %v", err)
	}
	_, err = c.Classify("Breakout_run1")
	if !errors.As(err, &me) || me.Field != "name" {
		t.Errorf("want name MatchError, got %v", err)
	}
}

func TestDefaultChain(t *testing.T) {
	c, err := NewClassifier(`(\w+)_run`, "", "", LastGroup)
	if err != nil {
		t.Fatal(err)
	}
	if c.Group != c.Filter || c.Name != c.Group {
		t.Errorf("group and name patterns should default to the filter pattern")
	}
	c, err = NewClassifier(`.*`, `(\w+)_run`, "", LastGroup)
	if err != nil {
		t.Fatal(err)
	}
	if c.Name != c.Group || c.Group.String() != `(\w+)_run` {
		t.Errorf("name pattern should default to the group pattern")
	}
}

func TestBadPattern(t *testing.T) {
	if _, err := NewClassifier(`(`, "", "", LastGroup); err == nil {
		t.Errorf("want error for unbalanced pattern")
	}
	if _, err := ParseKeyPolicy("first"); err == nil {
		t.Errorf("want error for unknown policy")
	}
	if p, err := ParseKeyPolicy("Tuple"); err != nil || p != Tuple {
		t.Errorf("ParseKeyPolicy(Tuple) = %v, %v", p, err)
	}
}
