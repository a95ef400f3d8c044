// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local reads runs from JSON-lines files.
package local

import (
	"context"
	"io"
	"os"

	"github.com/rlperf/runstat/runfmt"
	"github.com/rlperf/runstat/storage"
)

// Source reads runs from the JSON-lines file named by a query path.
// The path "-" reads standard input.
type Source struct {
	// Stdin is read for the path "-". If nil, os.Stdin is used.
	Stdin io.Reader
}

// Query opens path and returns its runs.
func (s *Source) Query(ctx context.Context, path string) *storage.Query {
	var r io.Reader
	var closer func() error
	if path == "-" {
		r = s.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		f, err := os.Open(path)
		if err != nil {
			return storage.ErrQuery(err)
		}
		r, closer = f, f.Close
	}
	rd := runfmt.NewReader(r, path)
	return storage.NewQuery(func() (*runfmt.Run, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !rd.Scan() {
			if err := rd.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return rd.Run(), nil
	}, closer)
}
