// Copyright 2023 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package screener

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/RalfKellner/fda/edgar"
	"github.com/RalfKellner/fda/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/iterator"
	"github.com/stockparfait/logging"
)

// Cell of a table Row which is a union of string or number (float64).
type Cell struct {
	IsNumber bool // which field to use as a value
	number   float64
	string   string
}

func (c Cell) String() string {
	if c.IsNumber {
		return fmt.Sprintf("%.2f", c.number)
	}
	return c.string
}

func (c Cell) Less(c2 Cell) bool {
	if c.IsNumber != c2.IsNumber {
		// All strings are smaller than numbers. Most often, this will happen with a
		// zero value which is an empty string, and zero (somewhat arbitrarily)
		// feels smaller.
		return !c.IsNumber
	}
	if c.IsNumber {
		return c.number < c2.number
	}
	return c.string < c2.string
}

func String(s string) Cell {
	return Cell{string: s}
}

func Number(n float64) Cell {
	return Cell{IsNumber: true, number: n}
}

type Row []Cell

var _ table.Row = Row{}

func (r Row) CSV() []string {
	res := make([]string, len(r))
	for i, c := range r {
		res[i] = c.String()
	}
	return res
}

func processProfile(cols []Column, p edgar.Profile) Row {
	cells := make([]Cell, len(cols))
	for i, col := range cols {
		switch col.Kind {
		case "cik":
			cells[i] = String(p.CIK)
		case "name":
			cells[i] = String(p.Name)
		case "entity_type":
			cells[i] = String(p.EntityType)
		case "sic":
			cells[i] = String(p.SIC)
		case "sic_description":
			cells[i] = String(p.SICDescription)
		case "ticker":
			cells[i] = String(p.Ticker)
		case "exchange":
			cells[i] = String(p.Exchange)
		case "fiscal_year_end":
			cells[i] = String(p.FiscalYearEnd)
		case "multiple_symbols":
			cells[i] = String(strconv.FormatBool(p.HasMultipleSymbols))
		}
	}
	return Row(cells)
}

// Screen downloads the company registry, extracts the profiles from the
// configured submission directory, and projects the profiles matching the
// filter onto the configured columns.
func Screen(ctx context.Context, c *Config) (*table.Table, error) {
	ctx = edgar.UseClient(ctx, c.Identity)
	companies, err := edgar.FetchCompanies(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch the company registry")
	}
	profiles, err := edgar.Profiles(ctx, companies, c.Data)
	if err != nil {
		return nil, errors.Annotate(err, "failed to extract company profiles")
	}
	header := make([]string, len(c.Columns))
	sortIdx := -1 // column index to sort by
	for i, col := range c.Columns {
		header[i] = col.Header()
		if col.Sort != "" {
			sortIdx = i
		}
	}
	rows := iterator.Reduce[edgar.Profile, []Row](iterator.FromSlice(profiles),
		[]Row{}, func(p edgar.Profile, rows []Row) []Row {
			if !c.Filter.Match(p) {
				return rows
			}
			return append(rows, processProfile(c.Columns, p))
		})
	if sortIdx >= 0 {
		less := func(i, j int) bool { return rows[i][sortIdx].Less(rows[j][sortIdx]) }
		if c.Columns[sortIdx].Sort == "descending" {
			less = func(i, j int) bool { return rows[j][sortIdx].Less(rows[i][sortIdx]) }
		}
		sort.Slice(rows, less)
	}
	logging.Infof(ctx, "screened %d of %d company profiles", len(rows), len(profiles))
	tbl := table.NewTable(header...)
	for _, row := range rows {
		tbl.AddRow(row)
	}
	return tbl, nil
}
