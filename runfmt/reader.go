// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single encoded run. Runs carrying history can
// be large.
const maxLineSize = 64 << 20

// A Reader reads runs in the JSON-lines run format.
//
// Its API is modeled on bufio.Scanner.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int
	run      *Run
	err      error
}

// A SyntaxError represents a malformed line in a run export.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// NewReader constructs a reader that parses runs from r. fileName is
// used in error messages.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return &Reader{s: s, fileName: fileName}
}

// Scan advances the reader to the next run and reports whether one was
// read. When Scan returns false, the caller should check Err.
//
// A malformed line stops the scan; Err then returns a *SyntaxError.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.s.Scan() {
		r.line++
		line := bytes.TrimSpace(r.s.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		run, err := decodeRun(line)
		if err != nil {
			r.err = &SyntaxError{r.fileName, r.line, err.Error()}
			return false
		}
		r.run = run
		return true
	}
	if err := r.s.Err(); err != nil {
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
	}
	return false
}

// Run returns the run most recently read by Scan. Unlike the
// underlying scanner, the returned Run is not reused.
func (r *Reader) Run() *Run {
	return r.run
}

// Err returns the first error encountered by Scan, if any.
func (r *Reader) Err() error {
	return r.err
}

func decodeRun(line []byte) (*Run, error) {
	d := json.NewDecoder(bytes.NewReader(line))
	d.UseNumber()
	run := new(Run)
	if err := d.Decode(run); err != nil {
		return nil, err
	}
	if d.More() {
		return nil, fmt.Errorf("trailing data after run object")
	}
	if run.Name == "" {
		return nil, fmt.Errorf("run has no name")
	}
	return run, nil
}
