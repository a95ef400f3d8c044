// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package storage defines the interface shared by run sources.
//
// A Source yields the runs stored under a path, such as a W&B
// "entity/project", a JSON-lines file, or a collection in a SQL run
// store. The runs are returned through a Query iterator.
package storage

import (
	"context"
	"errors"
	"io"

	"github.com/rlperf/runstat/runfmt"
)

// ErrNotImplemented is returned for unsupported backends.
var ErrNotImplemented = errors.New("not implemented")

// A Source is a store of runs.
type Source interface {
	// Query returns the runs stored under path.
	Query(ctx context.Context, path string) *Query
}

// A Query is an iterator over runs. Use it like
//
//	q := src.Query(ctx, path)
//	defer q.Close()
//	for q.Next() {
//		run := q.Run()
//		...
//	}
//	if err := q.Err(); err != nil {
//		...
//	}
type Query struct {
	next  func() (*runfmt.Run, error)
	close func() error

	run *runfmt.Run
	err error
}

// NewQuery returns a Query that calls next for each run until next
// returns an error. io.EOF marks the end of the runs. close, if not
// nil, is called once by Close.
func NewQuery(next func() (*runfmt.Run, error), close func() error) *Query {
	return &Query{next: next, close: close}
}

// ErrQuery returns a Query that yields no runs and reports err.
func ErrQuery(err error) *Query {
	return &Query{err: err}
}

// Next prepares the next run for reading with Run. It returns false
// when there are no more runs, either because the query is exhausted
// or because an error occurred.
func (q *Query) Next() bool {
	if q.err != nil || q.next == nil {
		return false
	}
	q.run, q.err = q.next()
	if q.err == io.EOF {
		q.err = nil
		q.next = nil
		q.run = nil
		return false
	}
	return q.err == nil
}

// Run returns the most recent run read by Next.
func (q *Query) Run() *runfmt.Run {
	return q.run
}

// Err returns the first error encountered by the query.
func (q *Query) Err() error {
	return q.err
}

// Close frees resources associated with the query.
func (q *Query) Close() error {
	q.next = nil
	if q.close == nil {
		return nil
	}
	c := q.close
	q.close = nil
	return c()
}

// Collect reads all runs from q and closes it.
func Collect(q *Query) ([]*runfmt.Run, error) {
	defer q.Close()
	var runs []*runfmt.Run
	for q.Next() {
		runs = append(runs, q.Run())
	}
	if err := q.Err(); err != nil {
		return nil, err
	}
	return runs, q.Close()
}

// Slice is a Source holding runs in memory under any path.
type Slice []*runfmt.Run

// Query returns the runs in s.
func (s Slice) Query(ctx context.Context, path string) *Query {
	i := 0
	return NewQuery(func() (*runfmt.Run, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i >= len(s) {
			return nil, io.EOF
		}
		i++
		return s[i-1], nil
	}, nil)
}
