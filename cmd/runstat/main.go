// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Runstat summarizes experiment runs.
//
// Usage:
//
//	runstat [flags] backend path metric...
//
// Runstat reads the runs stored under path, groups them by regular
// expressions over the run names, and prints the mean of each metric
// per group.
//
// The backend is one of:
//
//	wandb   path is a W&B "entity/project"
//	file    path is a file of runs, one JSON object per line ("-" for stdin)
//	sqlite  path is a collection saved by runsave in the SQLite run store
//	mysql   path is a collection saved by runsave in the MySQL run store
//	dryrun  print the parsed arguments without reading any runs
//
// # Grouping
//
// Runs whose names do not match --filter_re are ignored. The remaining
// runs are grouped by --group_re (default: the filter) and labeled by
// --name_re (default: the group pattern). Patterns must match at the
// start of the name. With --key-policy last, the key is the last
// capturing group, or the whole match if there are none. With
// --key-policy tuple, the key is all capturing groups, or the whole run
// name if there are none. Named groups are shown as extra columns, and
// if the group pattern captures both "game" and "tag", rows are
// averaged again per game and tag.
//
// For example, runs Breakout_run1 and Breakout_run2 with
//
//	runstat -f '(\w+)_run\d+' file runs.jsonl score
//
// form one row labeled Breakout holding their mean score.
//
// # Normalization
//
// With --normalize, the group means of the --score metric are compared
// against human, state-of-the-art and alternate reference scores for the
// Atari-57 suite (or the tables in --baselines). Group labels are
// resolved to game identifiers such as "BankHeist" by substring match,
// then by capitalizing underscore-separated words ("bank_heist").
// --plot writes a bar chart of the human-normalized scores.
//
// # Configuration
//
// Settings are read from the YAML file named by --config or
// $RUNSTAT_CONFIG, then from the environment: WANDB_API_KEY,
// WANDB_BASE_URL, and RUNSTAT_<KEY> for any key. Keys are api_key,
// base_url, per_page, timeout, history_samples, db_driver, db, and
// baselines.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rlperf/runstat/internal/backend"
	"github.com/rlperf/runstat/internal/config"
	"github.com/rlperf/runstat/internal/logging"
	"github.com/rlperf/runstat/internal/texttab"
	"github.com/rlperf/runstat/runproc"
	"github.com/rlperf/runstat/runtab"
)

var exit = os.Exit // replaced during testing

func main() {
	if err := runstat(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "runstat: %v\n", err)
		code := 1
		var ue usageError
		if errors.As(err, &ue) {
			code = 2
		}
		exit(code)
	}
}

// usageError is an error in the command line.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type flags struct {
	filter, group, name string
	keyPolicy           string
	order               string
	reduce              string
	finished            bool
	normalize           bool
	score               string
	baselines           string
	format              string
	plot                string
	configFile          string
	verbose             bool
}

// runstat runs the command with arguments args, writing the report to
// w and help to wErr.
func runstat(w, wErr io.Writer, args []string) error {
	var f flags
	cmd := &cobra.Command{
		Use:   "runstat [flags] backend path metric...",
		Short: "Summarize experiment runs by group",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(3)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &f, w, args)
		},
	}
	cmd.SetOut(wErr)
	cmd.SetErr(wErr)
	cmd.SetArgs(args)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	fl := cmd.Flags()
	fl.StringVarP(&f.filter, "filter_re", "f", ".*", "keep runs whose names match `regexp`")
	fl.StringVarP(&f.group, "group_re", "g", "", "group runs by `regexp` (default: the filter)")
	fl.StringVarP(&f.name, "name_re", "n", "", "label groups by `regexp` (default: the group regexp)")
	fl.StringVar(&f.keyPolicy, "key-policy", "last", "derive keys from the last capturing group (last) or all groups (tuple)")
	fl.StringVar(&f.order, "order", "insertion", "row `order`: insertion or key")
	fl.StringVar(&f.reduce, "reduce", "summary", "use each run's summary value (summary) or history maximum (max)")
	fl.BoolVar(&f.finished, "finished", false, "ignore runs that have not finished")
	fl.BoolVar(&f.normalize, "normalize", false, "compare scores against reference baselines")
	fl.StringVar(&f.score, "score", "", "`metric` to normalize (default: the first metric)")
	fl.StringVar(&f.baselines, "baselines", "", "read reference baselines from YAML `file`")
	fl.StringVar(&f.format, "format", "text", "table `format`: text, csv, or html")
	fl.StringVar(&f.plot, "plot", "", "write a chart of normalized scores to `file` (.png, .svg, .pdf)")
	fl.StringVar(&f.configFile, "config", "", "read settings from YAML `file`")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages to stderr")

	return cmd.Execute()
}

func run(cmd *cobra.Command, f *flags, w io.Writer, args []string) error {
	source, path, metrics := args[0], args[1], args[2:]

	policy, err := runproc.ParseKeyPolicy(f.keyPolicy)
	if err != nil {
		return usageError{err}
	}
	order, err := runtab.ParseOrder(f.order)
	if err != nil {
		return usageError{err}
	}
	reduce, err := runtab.ParseReduce(f.reduce)
	if err != nil {
		return usageError{err}
	}
	switch f.format {
	case "text", "csv", "html":
	default:
		return usageError{fmt.Errorf("unknown format %q (want text, csv, or html)", f.format)}
	}
	c, err := runproc.NewClassifier(f.filter, f.group, f.name, policy)
	if err != nil {
		return err
	}

	if source == "dryrun" {
		return dryrun(w, path, metrics, c)
	}

	log, err := logging.New(f.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	overrides := make(map[string]any)
	if cmd.Flags().Changed("baselines") {
		overrides["baselines"] = f.baselines
	}
	cfg, err := config.Load(f.configFile, overrides)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	src, closer, err := backend.Open(source, cfg, backend.Options{History: reduce == runtab.ReduceHistoryMax, Logger: log})
	if err != nil {
		return err
	}
	defer closer.Close()

	b := runtab.NewBuilder(c, metrics, runtab.Options{
		FinishedOnly: f.finished,
		Order:        order,
		Reduce:       reduce,
		Logger:       log,
	})
	q := src.Query(ctx, path)
	defer q.Close()
	n := 0
	for q.Next() {
		n++
		if err := b.Add(q.Run()); err != nil {
			return err
		}
	}
	if err := q.Err(); err != nil {
		return err
	}
	log.Debug("read runs", zap.String("path", path), zap.Int("runs", n))

	tab := b.Table()
	if tab.HasAttrs("game", "tag") {
		if tab, err = tab.Grouped("game", "tag"); err != nil {
			return err
		}
	}
	switch f.format {
	case "csv":
		err = tab.FormatCSV(w)
	case "html":
		err = tab.FormatHTML(w)
	default:
		err = tab.FormatText(w)
	}
	if err != nil {
		return err
	}

	if f.normalize {
		return report(w, tab, metrics, f, cfg, log)
	}
	return nil
}

// dryrun prints the parsed arguments.
func dryrun(w io.Writer, path string, metrics []string, c *runproc.Classifier) error {
	var tab texttab.Table
	tab.Row().Cells("path", path)
	tab.Row().Cells("metrics", listRepr(metrics))
	tab.Row().Cells("filter_re", c.Filter.String())
	tab.Row().Cells("group_re", c.Group.String())
	tab.Row().Cells("name_re", c.Name.String())
	return tab.Format(w)
}

// listRepr formats ss as a bracketed list of quoted strings, as in
// ['score', 'steps']. Strings containing a single quote and no double
// quote are double-quoted.
func listRepr(ss []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range ss {
		if i > 0 {
			b.WriteString(", ")
		}
		q := "'"
		if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
			q = `"`
		}
		b.WriteString(q)
		s = strings.ReplaceAll(s, `\`, `\\`)
		b.WriteString(strings.ReplaceAll(s, q, `\`+q))
		b.WriteString(q)
	}
	b.WriteByte(']')
	return b.String()
}

// scoreIndex returns the index of the metric to normalize.
func scoreIndex(metrics []string, score string) (int, error) {
	if score == "" {
		return 0, nil
	}
	for i, m := range metrics {
		if m == score {
			return i, nil
		}
	}
	return 0, usageError{fmt.Errorf("score metric %q is not one of %s", score, strings.Join(metrics, ", "))}
}
