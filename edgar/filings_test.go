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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/RalfKellner/fda/db"
	"github.com/RalfKellner/fda/table"
	"github.com/stockparfait/fetch"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompanyFilings(t *testing.T) {
	t.Parallel()

	mainDoc := `
{
  "cik": "320193",
  "name": "Apple Inc.",
  "tickers": ["AAPL"],
  "exchanges": ["Nasdaq"],
  "filings": {
    "recent": {
      "accessionNumber": ["acc-5", "acc-4"],
      "acceptanceDateTime": ["2023-05-01T18:22:01.000Z", "2022-04-01T10:00:00.000Z"],
      "form": ["10-K", "10-Q"]
    },
    "files": [
      {"name": "CIK0000320193-submissions-001.json", "filingCount": 2,
       "filingFrom": "1994-01-26", "filingTo": "2004-03-10"},
      {"name": "CIK0000320193-submissions-002.json", "filingCount": 1,
       "filingFrom": "2010-01-01", "filingTo": "2010-01-01"}
    ]
  }
}`
	shard1 := `
{
  "accessionNumber": ["acc-1", "acc-2"],
  "acceptanceDateTime": ["1994-01-26T09:30:00.000Z", "2004-03-10T12:00:00.000Z"],
  "form": ["10-K", "10-K"],
  "primaryDocument": ["a.htm", "b.htm"]
}`
	shard2 := `
{
  "accessionNumber": ["acc-3"],
  "acceptanceDateTime": ["2010-01-01T08:00:00.000Z"],
  "form": ["8-K"]
}`

	Convey("CompanyFilings works", t, func() {
		tmpdir, tmpdirErr := os.MkdirTemp("", "test_filings")
		So(tmpdirErr, ShouldBeNil)
		defer os.RemoveAll(tmpdir)

		writeDoc := func(name, contents string) {
			So(os.WriteFile(filepath.Join(tmpdir, name), []byte(contents), 0644),
				ShouldBeNil)
		}

		Convey("from local submission files", func() {
			writeDoc("CIK0000320193.json", mainDoc)
			writeDoc("CIK0000320193-submissions-001.json", shard1)
			writeDoc("CIK0000320193-submissions-002.json", shard2)
			f, err := CompanyFilings(context.Background(), "0000320193",
				db.NewReader(tmpdir))
			So(err, ShouldBeNil)
			So(f.Columns(), ShouldResemble, []string{
				"acceptanceDateTime", "accessionNumber", "form", "primaryDocument"})
			So(f.Len(), ShouldEqual, 5)

			accessions := make([]string, f.Len())
			for i := range accessions {
				accessions[i] = f.Value(i, "accessionNumber").(string)
			}
			So(accessions, ShouldResemble,
				[]string{"acc-1", "acc-2", "acc-3", "acc-4", "acc-5"})
			So(f.Value(0, "primaryDocument"), ShouldEqual, "a.htm")
			So(f.Value(4, "primaryDocument"), ShouldBeNil)
			So(f.Value(0, "nosuchcolumn"), ShouldBeNil)
			So(f.Row(2), ShouldResemble,
				[]Value{"2010-01-01T08:00:00.000Z", "acc-3", "8-K", nil})
			So(f.AcceptanceTimes()[0], ShouldResemble, db.NewTime(1994, 1, 26, 9, 30, 0))
		})

		Convey("from the live API", func() {
			server := fetch.NewTestServer()
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())
			SubmissionsURL = server.URL() + "/submissions"
			ctx = UseClient(ctx, "Jane Doe jane@example.com")
			server.ResponseBody = []string{mainDoc, shard1, shard2}

			f, err := CompanyFilings(ctx, "0000320193", nil)
			So(err, ShouldBeNil)
			So(f.Len(), ShouldEqual, 5)
			So(f.Value(0, "accessionNumber"), ShouldEqual, "acc-1")
			So(f.Value(4, "accessionNumber"), ShouldEqual, "acc-5")
			So(server.RequestPath, ShouldEqual,
				"/submissions/CIK0000320193-submissions-002.json")
		})

		Convey("local files win over the live API", func() {
			server := fetch.NewTestServer()
			defer server.Close()
			ctx := fetch.UseClient(context.Background(), server.Client())
			SubmissionsURL = server.URL() + "/submissions"
			ctx = UseClient(ctx, "Jane Doe jane@example.com")
			// The server has no responses; only local files can succeed.
			writeDoc("CIK0000320193.json", `
{"filings": {"recent": {
  "accessionNumber": ["acc-local"],
  "acceptanceDateTime": ["2020-01-01T00:00:00.000Z"]
}}}`)
			f, err := CompanyFilings(ctx, "0000320193", db.NewReader(tmpdir))
			So(err, ShouldBeNil)
			So(f.Len(), ShouldEqual, 1)
			So(f.Value(0, "accessionNumber"), ShouldEqual, "acc-local")
		})

		Convey("CIK must be 10 characters", func() {
			_, err := CompanyFilings(context.Background(), "320193", db.NewReader(tmpdir))
			So(err, ShouldNotBeNil)
		})

		Convey("requires a reader or a client", func() {
			_, err := CompanyFilings(context.Background(), "0000320193", nil)
			So(err, ShouldNotBeNil)
		})

		Convey("fails on a missing submission file", func() {
			_, err := CompanyFilings(context.Background(), "0000999999",
				db.NewReader(tmpdir))
			So(err, ShouldNotBeNil)
		})

		Convey("fails without the acceptance time column", func() {
			writeDoc("CIK0000320193.json", `
{"filings": {"recent": {"form": ["10-K"]}}}`)
			_, err := CompanyFilings(context.Background(), "0000320193",
				db.NewReader(tmpdir))
			So(err, ShouldNotBeNil)
		})

		Convey("fails on columns of unequal lengths", func() {
			writeDoc("CIK0000320193.json", `
{"filings": {"recent": {
  "accessionNumber": ["acc-1", "acc-2"],
  "acceptanceDateTime": ["2020-01-01T00:00:00.000Z"]
}}}`)
			_, err := CompanyFilings(context.Background(), "0000320193",
				db.NewReader(tmpdir))
			So(err, ShouldNotBeNil)
		})

		Convey("missing or malformed acceptance times sort last", func() {
			writeDoc("CIK0000320193.json", `
{"filings": {"recent": {
  "accessionNumber": ["acc-1", "acc-2", "acc-3"],
  "acceptanceDateTime": [null, "2020-01-01T00:00:00.000Z", "garbage"]
}}}`)
			f, err := CompanyFilings(context.Background(), "0000320193",
				db.NewReader(tmpdir))
			So(err, ShouldBeNil)
			accessions := make([]string, f.Len())
			for i := range accessions {
				accessions[i] = f.Value(i, "accessionNumber").(string)
			}
			So(accessions, ShouldResemble, []string{"acc-2", "acc-1", "acc-3"})
		})

		Convey("empty filing history", func() {
			writeDoc("CIK0000320193.json", `{"filings": {"recent": {}}}`)
			f, err := CompanyFilings(context.Background(), "0000320193",
				db.NewReader(tmpdir))
			So(err, ShouldBeNil)
			So(f.Len(), ShouldEqual, 0)
			So(f.AcceptanceTimes(), ShouldResemble, []db.Time{})
		})

		Convey("Table prints the history", func() {
			writeDoc("CIK0000320193.json", `
{"filings": {"recent": {
  "accessionNumber": ["acc-1", null],
  "acceptanceDateTime": ["1994-01-26T09:30:00.000Z", "2004-03-10T12:00:00.000Z"],
  "size": [1024, 2048]
}}}`)
			f, err := CompanyFilings(context.Background(), "0000320193",
				db.NewReader(tmpdir))
			So(err, ShouldBeNil)
			var buf bytes.Buffer
			So(f.Table().WriteText(&buf, table.Params{}), ShouldBeNil)
			So("\n"+buf.String(), ShouldEqual, `
      acceptanceDateTime | accessionNumber | size
------------------------ | --------------- | ----
1994-01-26T09:30:00.000Z |           acc-1 | 1024
2004-03-10T12:00:00.000Z |                 | 2048
`)
		})
	})
}
