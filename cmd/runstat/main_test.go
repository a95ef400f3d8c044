// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/rlperf/runstat/runproc"
	"github.com/rlperf/runstat/storage"
)

func init() {
	color.NoColor = true
}

const runGroup = `(\w+)_run\d+`

func TestDryRun(t *testing.T) {
	golden(t, "dryrun", "dryrun", "proj/x", "score")
}

func TestListRepr(t *testing.T) {
	check := func(ss []string, want string) {
		t.Helper()
		if got := listRepr(ss); got != want {
			t.Errorf("listRepr(%q) = %s, want %s", ss, got, want)
		}
	}
	check(nil, "[]")
	check([]string{"score"}, "['score']")
	check([]string{"score", "steps"}, "['score', 'steps']")
	check([]string{"it's"}, `["it's"]`)
	check([]string{`a'b"c`}, `['a\'b"c']`)
	check([]string{`x\y`}, `['x\\y']`)
}

func TestFlat(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		golden(t, "flat", "-f", runGroup, "file", "runs.jsonl", "score", "steps")
	})
	t.Run("csv", func(t *testing.T) {
		golden(t, "csv", "--format", "csv", "-f", runGroup, "file", "runs.jsonl", "score", "steps")
	})
}

func TestFinished(t *testing.T) {
	golden(t, "finished", "--finished", "--order", "key", "-f", runGroup, "file", "runs.jsonl", "score")
}

func TestGrouped(t *testing.T) {
	golden(t, "grouped", "-g", `(?P<game>[A-Za-z]+)_(?P<tag>[a-z]+)_\d+`, "--key-policy", "tuple", "file", "attrs.jsonl", "score")
}

func TestNormalize(t *testing.T) {
	golden(t, "normalize", "--finished", "--normalize", "--baselines", "baselines.yaml", "-f", runGroup, "file", "runs.jsonl", "score")
}

func TestPlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.svg")
	chdir(t, "testdata")
	var out bytes.Buffer
	err := runstat(&out, &out, []string{"--finished", "--normalize", "--baselines", "baselines.yaml", "--plot", path, "-f", runGroup, "file", "runs.jsonl", "score"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("chart not written: %v", err)
	}

	// Nothing resolves against the baselines: the report still
	// succeeds and no chart is written.
	path = filepath.Join(t.TempDir(), "none.svg")
	out.Reset()
	err = runstat(&out, &out, []string{"--normalize", "--baselines", "baselines.yaml", "--plot", path, "-f", "baseline", "file", "runs.jsonl", "score"})
	if err != nil {
		t.Fatalf("no resolved benchmarks: %v", err)
	}
	if !strings.Contains(out.String(), "unresolved: baseline") {
		t.Errorf("report does not list the unresolved label:\n%s", out.String())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("chart written with no resolved benchmarks (stat: %v)", err)
	}
}

func TestErrors(t *testing.T) {
	chdir(t, "testdata")
	check := func(args []string, want func(error) bool, desc string) {
		t.Helper()
		var out bytes.Buffer
		err := runstat(&out, &out, args)
		if !want(err) {
			t.Errorf("runstat %s: got error %v, want %s", strings.Join(args, " "), err, desc)
		}
	}
	isUsage := func(err error) bool {
		var ue usageError
		return errors.As(err, &ue)
	}
	check([]string{"file", "runs.jsonl"}, isUsage, "usage error")
	check([]string{"--bogus", "file", "runs.jsonl", "score"}, isUsage, "usage error")
	check([]string{"--order", "random", "file", "runs.jsonl", "score"}, isUsage, "usage error")
	check([]string{"--format", "xml", "file", "runs.jsonl", "score"}, isUsage, "usage error")
	check([]string{"--normalize", "--score", "steps", "file", "runs.jsonl", "score"}, isUsage, "usage error")
	check([]string{"mlflow", "proj/x", "score"}, func(err error) bool {
		return errors.Is(err, storage.ErrNotImplemented)
	}, "ErrNotImplemented")
	check([]string{"-g", `(\w+)_run`, "file", "runs.jsonl", "score"}, func(err error) bool {
		var me *runproc.MatchError
		return errors.As(err, &me) && me.Name == "baseline"
	}, "MatchError for baseline")
	check([]string{"-f", "(", "dryrun", "proj/x", "score"}, func(err error) bool {
		return err != nil && !isUsage(err)
	}, "pattern error")
}

func TestExit(t *testing.T) {
	defer func(args []string) { os.Args = args }(os.Args)
	defer func() { exit = os.Exit }()
	var code int
	exit = func(c int) { code = c }

	os.Args = []string{"runstat", "dryrun"}
	main()
	if code != 2 {
		t.Errorf("usage error: exit code %d, want 2", code)
	}
	code = 0
	os.Args = []string{"runstat", "mlflow", "proj/x", "score"}
	main()
	if code != 1 {
		t.Errorf("unknown backend: exit code %d, want 1", code)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func golden(t *testing.T, name string, args ...string) {
	t.Helper()
	chdir(t, "testdata")
	t.Setenv("RUNSTAT_CONFIG", "")

	// Get the runstat output.
	var got, gotErr bytes.Buffer
	t.Logf("runstat %s", strings.Join(args, " "))
	if err := runstat(&got, &gotErr, args); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want, err := os.ReadFile(name + ".stdout")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(want), got.String()); diff != "" {
		t.Errorf("%s (-want +got):\n%s", name, diff)
		// Write a "got" file for reference.
		os.WriteFile(name+".got-stdout", got.Bytes(), 0666)
	}
}
