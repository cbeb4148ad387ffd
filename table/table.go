// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Strings is a Row of preformatted cells, for rows assembled on the fly.
type Strings []string

var _ Row = Strings{}

// CSV implements the Row interface.
func (s Strings) CSV() []string { return s }

// Table container.
//
// A typical use:
//
//	type MyRow struct {
//	  Name string
//	  Age int
//	}
//
//	func (r MyRow) CSV() []string {
//	  return []string{r.Name, fmt.Sprintf("%d", r.Age)}
//	}
//	t := NewTable("Name", "Age")
//	t.AddRow(MyRow{"John", 25}, MyRow{"Jane", 24})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a new Table instance with optional column headers.  It is
// expected that, when present, the number of column headers is the same as the
// number of elements in each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// body materializes the CSV cells of at most p.Rows rows.
func (t *Table) body(p Params) [][]string {
	rows := t.Rows
	if p.Rows > 0 && p.Rows < len(rows) {
		rows = rows[:p.Rows]
	}
	res := make([][]string, len(rows))
	for i, r := range rows {
		res[i] = r.CSV()
	}
	return res
}

// WriteCSV writes the entire table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, r := range t.body(p) {
		if err := cw.Write(r); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// colWidths computes the print width of each column over all rows, capping
// each width at max when max > 0. All rows must have the same nonzero number
// of cells.
func colWidths(rows [][]string, max int) ([]int, error) {
	var widths []int
	for _, row := range rows {
		if len(row) == 0 {
			return nil, errors.Reason("row size = 0")
		}
		if widths == nil {
			widths = make([]int, len(row))
		}
		if len(row) != len(widths) {
			return nil, errors.Reason("row size [%d] != expected size [%d]",
				len(row), len(widths))
		}
		for i, s := range row {
			w := len(s)
			if max > 0 && w > max {
				w = max
			}
			if widths[i] < w {
				widths[i] = w
			}
		}
	}
	return widths, nil
}

// cell pads or truncates s to exactly width characters.
func cell(s string, width int) string {
	if r := []rune(s); len(r) > width {
		s = string(r[:width-2]) + ".."
	}
	return fmt.Sprintf("%*s", width, s)
}

func writeRow(w io.Writer, row []string, widths []int) error {
	cells := make([]string, len(row))
	for i, s := range row {
		cells[i] = cell(s, widths[i])
	}
	_, err := fmt.Fprintf(w, "%s\n", strings.Join(cells, " | "))
	return err
}

// WriteText writes the table as a text formatted for ease of reading.
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	rows := t.body(p)
	all := rows
	header := !p.NoHeader && len(t.Header) > 0
	if header {
		all = append([][]string{t.Header}, rows...)
	}
	if len(all) == 0 {
		return nil
	}
	widths, err := colWidths(all, p.MaxColWidth)
	if err != nil {
		return errors.Annotate(err, "failed to compute column widths")
	}
	if header {
		if err := writeRow(w, t.Header, widths); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
		sep := make([]string, len(widths))
		for i, n := range widths {
			sep[i] = strings.Repeat("-", n)
		}
		if err := writeRow(w, sep, widths); err != nil {
			return errors.Annotate(err, "failed to write header separator")
		}
	}
	for _, r := range rows {
		if err := writeRow(w, r, widths); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	return nil
}
