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

package fmp

import (
	"context"
	"net/url"
	"testing"

	"github.com/RalfKellner/fda/db"
	"github.com/stockparfait/fetch"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFMP(t *testing.T) {
	t.Parallel()

	Convey("FetchPrices works", t, func() {
		server := fetch.NewTestServer()
		defer server.Close()
		testKey := "testkey"
		ctx := fetch.UseClient(context.Background(), server.Client())
		URL = server.URL() + "/api/v3"
		ctx = UseClient(ctx, testKey)

		Convey("orders bars by date and drops it", func() {
			server.ResponseBody = []string{`
{
  "symbol": "AAPL",
  "historical": [
    {"date": "2023-05-02", "open": 10.5, "high": 11.0, "low": 10.0,
     "close": 10.8, "adjClose": 10.7, "volume": 1000},
    {"date": "2023-05-03", "open": 10.8, "high": 11.2, "low": 10.6,
     "close": 11.0, "adjClose": 10.9, "volume": 1100},
    {"date": "2023-05-01", "open": 10.0, "high": 10.5, "low": 9.5,
     "close": 10.2, "adjClose": 10.1, "volume": 900}
  ]
}`}
			prices, err := FetchPrices(ctx, "AAPL",
				db.NewDate(2023, 5, 1), db.NewDate(2023, 5, 31))
			So(err, ShouldBeNil)
			So(prices, ShouldResemble, []PriceBar{
				{Open: 10.0, High: 10.5, Low: 9.5, Close: 10.2, AdjClose: 10.1, Volume: 900},
				{Open: 10.5, High: 11.0, Low: 10.0, Close: 10.8, AdjClose: 10.7, Volume: 1000},
				{Open: 10.8, High: 11.2, Low: 10.6, Close: 11.0, AdjClose: 10.9, Volume: 1100},
			})
			So(server.RequestPath, ShouldEqual, "/api/v3/historical-price-full/AAPL")
			So(server.RequestQuery, ShouldResemble, url.Values{
				"apikey": []string{testKey},
				"from":   []string{"2023-05-01"},
				"to":     []string{"2023-05-31"},
			})
		})

		Convey("zero dates fetch the default range", func() {
			server.ResponseBody = []string{`{"symbol": "AAPL", "historical": []}`}
			prices, err := FetchPrices(ctx, "AAPL", db.Date{}, db.Date{})
			So(err, ShouldBeNil)
			So(prices, ShouldResemble, []PriceBar{})
			So(server.RequestQuery, ShouldResemble, url.Values{
				"apikey": []string{testKey},
			})
		})

		Convey("end date requires a start date", func() {
			_, err := FetchPrices(ctx, "AAPL", db.Date{}, db.NewDate(2023, 5, 31))
			So(err, ShouldNotBeNil)
		})

		Convey("fails without historical data in the response", func() {
			server.ResponseBody = []string{`{"symbol": "AAPL"}`}
			_, err := FetchPrices(ctx, "AAPL", db.Date{}, db.Date{})
			So(err, ShouldNotBeNil)
		})

		Convey("requires a client in context", func() {
			_, err := FetchPrices(context.Background(), "AAPL", db.Date{}, db.Date{})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("PriceBar methods work", t, func() {
		p := PriceBar{Open: 10.25, High: 11, Low: 9.5, Close: 10.8,
			AdjClose: 10.75, Volume: 12345}
		So(p.CSV(), ShouldResemble,
			[]string{"10.25", "11", "9.5", "10.8", "10.75", "12345"})
		So(len(PriceHeader()), ShouldEqual, len(p.CSV()))
	})
}
