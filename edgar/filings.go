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

package edgar

import (
	"context"
	"fmt"
	"time"

	"github.com/RalfKellner/fda/db"
	"github.com/RalfKellner/fda/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// acceptanceColumn orders a company's filing history.
const acceptanceColumn = "acceptanceDateTime"

// requestDelay is the pause between successive requests to the submissions
// API. The SEC fair access policy allows at most 10 requests per second.
const requestDelay = 100 * time.Millisecond

// Filings is a company's complete filing history: a table of its filings
// ordered by acceptance time, oldest first. The columns are the union of the
// columns of the submission document pages; cells of the columns missing from
// a page are nil.
type Filings struct {
	columns  []string
	colIndex map[string]int
	rows     [][]Value
}

// Columns returns the column names in their table order.
func (f *Filings) Columns() []string { return f.columns }

// Len returns the number of filings.
func (f *Filings) Len() int { return len(f.rows) }

// Row returns the i'th filing as a list of cells in Columns() order.
func (f *Filings) Row(i int) []Value { return f.rows[i] }

// Value returns the named cell of the i'th filing, or nil when the filing
// has no such column.
func (f *Filings) Value(i int, column string) Value {
	j, ok := f.colIndex[column]
	if !ok {
		return nil
	}
	return f.rows[i][j]
}

// AcceptanceTimes returns the parsed acceptance time of each filing, in the
// table order. Missing or malformed cells yield the zero Time.
func (f *Filings) AcceptanceTimes() []db.Time {
	res := make([]db.Time, f.Len())
	j, ok := f.colIndex[acceptanceColumn]
	if !ok {
		return res
	}
	for i, r := range f.rows {
		if t, err := value2time(r[j]); err == nil {
			res[i] = t
		}
	}
	return res
}

// Table converts the filing history to a printable table. Cells are formatted
// with %v, nil cells as empty strings.
func (f *Filings) Table() *table.Table {
	tbl := table.NewTable(f.columns...)
	for _, r := range f.rows {
		cells := make([]string, len(r))
		for i, v := range r {
			if v != nil {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		tbl.AddRow(table.Strings(cells))
	}
	return tbl
}

// filingsBuilder accumulates pages of a filing history into a single table.
type filingsBuilder struct {
	columns  []string
	colIndex map[string]int
	rows     [][]Value
}

func newFilingsBuilder() *filingsBuilder {
	return &filingsBuilder{colIndex: make(map[string]int)}
}

// addPage appends the parallel column arrays of a single page. All columns
// within the page must have the same length. Columns not seen before are
// added after the existing ones, alphabetically within the page; the older
// rows are padded with nil cells.
func (b *filingsBuilder) addPage(page map[string][]Value) error {
	names := maps.Keys(page)
	slices.Sort(names)
	n := -1
	for _, name := range names {
		if n < 0 {
			n = len(page[name])
			continue
		}
		if len(page[name]) != n {
			return errors.Reason("column %s has %d values, expected %d",
				name, len(page[name]), n)
		}
	}
	for _, name := range names {
		if _, ok := b.colIndex[name]; ok {
			continue
		}
		b.colIndex[name] = len(b.columns)
		b.columns = append(b.columns, name)
		for i := range b.rows {
			b.rows[i] = append(b.rows[i], nil)
		}
	}
	for i := 0; i < n; i++ {
		row := make([]Value, len(b.columns))
		for name, cells := range page {
			row[b.colIndex[name]] = cells[i]
		}
		b.rows = append(b.rows, row)
	}
	return nil
}

// build sorts the accumulated filings by their acceptance time, oldest first.
// Filings with a missing or malformed acceptance time go last, preserving
// their page order. A nonempty history without the acceptance time column is
// an error.
func (b *filingsBuilder) build() (*Filings, error) {
	if len(b.rows) > 0 {
		j, ok := b.colIndex[acceptanceColumn]
		if !ok {
			return nil, errors.Reason("filing history has no %s column",
				acceptanceColumn)
		}
		type sortRow struct {
			time db.Time
			row  []Value
		}
		decorated := make([]sortRow, len(b.rows))
		for i, r := range b.rows {
			var tm db.Time
			if t, err := value2time(r[j]); err == nil {
				tm = t
			}
			decorated[i] = sortRow{time: tm, row: r}
		}
		slices.SortStableFunc(decorated, func(x, y sortRow) bool {
			if x.time.IsZero() {
				return false
			}
			if y.time.IsZero() {
				return true
			}
			return x.time.Before(y.time)
		})
		for i, d := range decorated {
			b.rows[i] = d.row
		}
	}
	return &Filings{columns: b.columns, colIndex: b.colIndex, rows: b.rows}, nil
}

// CompanyFilings assembles the complete filing history of the company with
// the given zero-padded 10-digit CIK. With a non-nil reader the history is
// read from the local submission files; otherwise it is downloaded from the
// submissions API using the Client from the context. When both the reader
// and the client are available, the local files win.
func CompanyFilings(ctx context.Context, cik string, r *db.Reader) (*Filings, error) {
	if len(cik) != 10 {
		return nil, errors.Reason(
			"CompanyFilings: CIK '%s' must be exactly 10 characters", cik)
	}
	client := GetClient(ctx)
	if r == nil && client == nil {
		return nil, errors.Reason(
			"CompanyFilings: neither a submission file reader nor a client in context")
	}
	if r != nil {
		return localFilings(ctx, cik, r)
	}
	return liveFilings(ctx, cik, client)
}

// localFilings reads the main submission document and its shards from the
// local submission directory.
func localFilings(ctx context.Context, cik string, r *db.Reader) (*Filings, error) {
	name := "CIK" + cik + ".json"
	var doc submission
	if err := r.ReadJSON(name, &doc); err != nil {
		return nil, errors.Annotate(err, "CompanyFilings: failed to read %s", name)
	}
	b := newFilingsBuilder()
	if err := b.addPage(doc.Filings.Recent); err != nil {
		return nil, errors.Annotate(err, "CompanyFilings: invalid filings in %s", name)
	}
	for _, f := range doc.Filings.Files {
		var page map[string][]Value
		if err := r.ReadJSON(f.Name, &page); err != nil {
			return nil, errors.Annotate(err, "CompanyFilings: failed to read %s", f.Name)
		}
		if err := b.addPage(page); err != nil {
			return nil, errors.Annotate(err, "CompanyFilings: invalid filings in %s", f.Name)
		}
	}
	logging.Infof(ctx, "EDGAR: read %d filings for CIK %s from %s",
		len(b.rows), cik, r.Dir)
	return b.build()
}

// liveFilings downloads the main submission document and its shards from the
// submissions API, pausing between successive requests.
func liveFilings(ctx context.Context, cik string, client *Client) (*Filings, error) {
	uri := client.submissionsURL + "/CIK" + cik + ".json"
	var doc submission
	if err := fetch.FetchJSON(ctx, uri, &doc, nil, nil); err != nil {
		return nil, errors.Annotate(err, "CompanyFilings: failed to fetch %s", uri)
	}
	b := newFilingsBuilder()
	if err := b.addPage(doc.Filings.Recent); err != nil {
		return nil, errors.Annotate(err, "CompanyFilings: invalid filings in %s", uri)
	}
	for i, f := range doc.Filings.Files {
		if i > 0 {
			time.Sleep(requestDelay)
		}
		pageURI := client.submissionsURL + "/" + f.Name
		var page map[string][]Value
		if err := fetch.FetchJSON(ctx, pageURI, &page, nil, nil); err != nil {
			return nil, errors.Annotate(err, "CompanyFilings: failed to fetch %s", pageURI)
		}
		if err := b.addPage(page); err != nil {
			return nil, errors.Annotate(err, "CompanyFilings: invalid filings in %s", pageURI)
		}
		logging.Infof(ctx, "EDGAR: fetched filings shard %d of %d for CIK %s",
			i+1, len(doc.Filings.Files), cik)
	}
	return b.build()
}
