// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtab

import (
	"encoding/csv"
	"io"

	"github.com/google/safehtml/template"

	"github.com/rlperf/runstat/internal/texttab"
	"github.com/rlperf/runstat/runmath"
)

// header returns the column headings of t.
func (t *Table) header() []string {
	var hdr []string
	if t.Label != "" {
		hdr = append(hdr, t.Label)
	}
	hdr = append(hdr, t.Attrs...)
	return append(hdr, t.Metrics...)
}

// cells returns the formatted cells of row.
func (t *Table) cells(row *Row) []string {
	var cells []string
	if t.Label != "" {
		cells = append(cells, row.Label)
	}
	cells = append(cells, row.Attrs...)
	for _, m := range row.Means {
		cells = append(cells, runmath.FormatValue(m))
	}
	return cells
}

// FormatText writes t as an aligned plain-text table with a rule
// under the header. Metric columns are right-aligned.
func (t *Table) FormatText(w io.Writer) error {
	var tab texttab.Table
	nText := len(t.header()) - len(t.Metrics)
	row := func(cells []string) {
		tab.Row()
		for i, c := range cells {
			if i < nText {
				tab.Cell(c, texttab.Left)
			} else {
				tab.Cell(c, texttab.Right)
			}
		}
	}
	row(t.header())
	tab.Rule()
	for _, r := range t.Rows {
		row(t.cells(r))
	}
	return tab.Format(w)
}

// FormatCSV writes t as CSV with a header record.
func (t *Table) FormatCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	cw.Write(t.header())
	for _, r := range t.Rows {
		cw.Write(t.cells(r))
	}
	cw.Flush()
	return cw.Error()
}

var htmlTemplate = template.Must(template.New("runtab").Parse(`<table class="runtab">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
`))

// FormatHTML writes t as an HTML table.
func (t *Table) FormatHTML(w io.Writer) error {
	data := struct {
		Header []string
		Rows   [][]string
	}{Header: t.header()}
	for _, r := range t.Rows {
		data.Rows = append(data.Rows, t.cells(r))
	}
	return htmlTemplate.Execute(w, data)
}
