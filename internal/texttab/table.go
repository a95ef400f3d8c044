// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out fixed-width text tables.
package texttab

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Table does layout of text-based tables.
//
// Its methods return the Table so callers can chain them to build up
// many cells at once:
//
//	var tab texttab.Table
//	tab.Row().Cell("run").Cell("score", texttab.Right)
//	tab.Rule()
//	tab.Row().Cell("Breakout").Cell("15", texttab.Right)
//	tab.Format(os.Stdout)
type Table struct {
	rows []row
	cols int
}

type row struct {
	cells []textCell
	rule  bool
}

type textCell struct {
	value     string
	alignment align
}

// A CellOption configures a cell.
type CellOption func(c *textCell)

var (
	Left  CellOption = func(c *textCell) { c.alignment = alignLeft }
	Right CellOption = func(c *textCell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignRight
)

// colSep separates adjacent columns.
const colSep = "  "

func (a align) pad(s string, w int) string {
	n := w - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	if a == alignRight {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// Row starts a new row in table t.
func (t *Table) Row() *Table {
	t.rows = append(t.rows, row{})
	return t
}

// Rule adds a row of dashes as wide as each column.
func (t *Table) Rule() *Table {
	t.rows = append(t.rows, row{rule: true})
	return t
}

// Cell adds a cell at the end of the current row.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	if len(t.rows) == 0 || t.rows[len(t.rows)-1].rule {
		t.Row()
	}
	r := &t.rows[len(t.rows)-1]
	c := textCell{value: value}
	for _, o := range opts {
		o(&c)
	}
	r.cells = append(r.cells, c)
	if len(r.cells) > t.cols {
		t.cols = len(r.cells)
	}
	return t
}

// Cells adds a left-aligned cell for each value.
func (t *Table) Cells(values ...string) *Table {
	for _, v := range values {
		t.Cell(v)
	}
	return t
}

// Len returns the number of rows in t, including rules.
func (t *Table) Len() int {
	return len(t.rows)
}

// Format lays out table t and writes it to w.
func (t *Table) Format(w io.Writer) error {
	ws := make([]int, t.cols)
	for _, r := range t.rows {
		for i, c := range r.cells {
			if n := utf8.RuneCountInString(c.value); n > ws[i] {
				ws[i] = n
			}
		}
	}

	var line strings.Builder
	for _, r := range t.rows {
		line.Reset()
		if r.rule {
			for i, w := range ws {
				if i > 0 {
					line.WriteString(colSep)
				}
				line.WriteString(strings.Repeat("-", w))
			}
		} else {
			for i, c := range r.cells {
				if i > 0 {
					line.WriteString(colSep)
				}
				line.WriteString(c.alignment.pad(c.value, ws[i]))
			}
		}
		// Avoid trailing spaces from padded or empty cells at
		// the end of a row.
		if _, err := fmt.Fprintln(w, strings.TrimRight(line.String(), " ")); err != nil {
			return err
		}
	}
	return nil
}
