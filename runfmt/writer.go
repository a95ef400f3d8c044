// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runfmt

import (
	"bytes"
	"encoding/json"
	"io"
)

// A Writer writes runs in the JSON-lines run format.
type Writer struct {
	w   io.Writer
	buf bytes.Buffer
	enc *json.Encoder
}

// NewWriter returns a writer that writes runs to w.
func NewWriter(w io.Writer) *Writer {
	wr := &Writer{w: w}
	wr.enc = json.NewEncoder(&wr.buf)
	wr.enc.SetEscapeHTML(false)
	return wr
}

// Write writes run as a single line.
//
// Non-finite float64 summary values cannot be represented in JSON and
// make Write fail; sources keep them as the strings accepted by Number.
func (w *Writer) Write(run *Run) error {
	w.buf.Reset()
	// Encode terminates the value with a newline.
	if err := w.enc.Encode(run); err != nil {
		return err
	}
	_, err := w.w.Write(w.buf.Bytes())
	return err
}
