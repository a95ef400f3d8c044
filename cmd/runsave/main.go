// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Runsave saves a snapshot of runs to a run store.
//
// Usage:
//
//	runsave [flags] backend path
//	runsave -l
//
// Runsave reads the runs stored under path from the wandb or file
// backend and saves them to the SQL run store named by the db_driver
// and db settings, as a collection named by --as (default: path).
// Saving a collection replaces any runs previously saved under the
// same name. The saved runs can then be summarized offline with
//
//	runstat sqlite <collection> metric...
//
// With -l, runsave lists the saved collections instead.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rlperf/runstat/internal/backend"
	"github.com/rlperf/runstat/internal/config"
	"github.com/rlperf/runstat/internal/logging"
	"github.com/rlperf/runstat/internal/texttab"
	"github.com/rlperf/runstat/storage"
)

var exit = os.Exit // replaced during testing

func main() {
	if err := runsave(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "runsave: %v\n", err)
		code := 1
		var ue usageError
		if errors.As(err, &ue) {
			code = 2
		}
		exit(code)
	}
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

type flags struct {
	as         string
	list       bool
	history    bool
	db         string
	configFile string
	verbose    bool
}

func runsave(w, wErr io.Writer, args []string) error {
	var f flags
	cmd := &cobra.Command{
		Use:   "runsave [flags] backend path",
		Short: "Save a snapshot of runs to a run store",
		Args: func(cmd *cobra.Command, args []string) error {
			var err error
			if f.list {
				err = cobra.NoArgs(cmd, args)
			} else {
				err = cobra.ExactArgs(2)(cmd, args)
			}
			if err != nil {
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
	fl.StringVar(&f.as, "as", "", "save as collection `name` (default: path)")
	fl.BoolVarP(&f.list, "list", "l", false, "list saved collections")
	fl.BoolVar(&f.history, "history", false, "save each run's history as well")
	fl.StringVar(&f.db, "db", "", "run store data source `name` (overrides the db setting)")
	fl.StringVar(&f.configFile, "config", "", "read settings from YAML `file`")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log debug messages to stderr")

	return cmd.Execute()
}

func run(cmd *cobra.Command, f *flags, w io.Writer, args []string) error {
	log, err := logging.New(f.verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	overrides := make(map[string]any)
	if cmd.Flags().Changed("db") {
		overrides["db"] = f.db
	}
	cfg, err := config.Load(f.configFile, overrides)
	if err != nil {
		return err
	}
	store, err := backend.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	if f.list {
		cs, err := store.Collections(ctx)
		if err != nil {
			return err
		}
		var tab texttab.Table
		tab.Row().Cell("collection").Cell("runs", texttab.Right).Cell("saved")
		tab.Rule()
		for _, c := range cs {
			tab.Row().Cell(c.Name).Cell(fmt.Sprint(c.Runs), texttab.Right).Cell(c.Saved.Format(time.RFC3339))
		}
		return tab.Format(w)
	}

	source, path := args[0], args[1]
	switch source {
	case "wandb", "file":
	default:
		return fmt.Errorf("cannot save from backend %q: %w", source, storage.ErrNotImplemented)
	}
	src, closer, err := backend.Open(source, cfg, backend.Options{History: f.history, Logger: log})
	if err != nil {
		return err
	}
	defer closer.Close()

	name := f.as
	if name == "" {
		name = path
	}
	start := time.Now()
	u, err := store.NewUpload(ctx, name)
	if err != nil {
		return err
	}
	q := src.Query(ctx, path)
	defer q.Close()
	for q.Next() {
		if err := u.InsertRun(ctx, q.Run()); err != nil {
			u.Abort()
			return err
		}
	}
	if err := q.Err(); err != nil {
		u.Abort()
		return err
	}
	if err := u.Commit(); err != nil {
		return err
	}
	log.Debug("saved runs", zap.String("collection", name), zap.Int("runs", u.Len()), zap.Duration("elapsed", time.Since(start)))

	s := "s"
	if u.Len() == 1 {
		s = ""
	}
	fmt.Fprintf(w, "saved %d run%s to %s\n", u.Len(), s, name)
	return nil
}
