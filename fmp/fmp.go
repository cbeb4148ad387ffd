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

// Package fmp implements the daily price history API of Financial Modeling
// Prep (FMP).
//
// Official documentation is at https://site.financialmodelingprep.com/developer/docs .
//
// All requests require an API key, which is injected into the context by
// UseClient().
package fmp

import (
	"context"
	"net/url"
	"strconv"

	"github.com/RalfKellner/fda/db"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/slices"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// URL is the default base URL of the server. It may be overwritten in tests
// before creating a new client.
var URL = "https://financialmodelingprep.com/api/v3"

// Client for querying FMP endpoints.
type Client struct {
	baseURL string // the base URL of the server
	apiKey  string // your very own secret key
}

// newClient creates a new client.
func newClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetClient extracts the Client from the context, if any.
func GetClient(ctx context.Context) *Client {
	c, ok := ctx.Value(clientContextKey).(*Client)
	if !ok {
		return nil
	}
	return c
}

// UseClient creates a new client based on the API key and injects it into the
// context.
func UseClient(ctx context.Context, apiKey string) context.Context {
	return context.WithValue(ctx, clientContextKey, newClient(URL, apiKey))
}

// PriceBar is a single daily bar of a price history.
type PriceBar struct {
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64 // Close adjusted for splits and dividends
	Volume   int64
}

// PriceHeader is the list of PriceBar row names, e.g. for table printing.
func PriceHeader() []string {
	return []string{"Open", "High", "Low", "Close", "Adj Close", "Volume"}
}

// CSV implements table.Row.
func (p PriceBar) CSV() []string {
	f2s := func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return []string{f2s(p.Open), f2s(p.High), f2s(p.Low), f2s(p.Close),
		f2s(p.AdjClose), strconv.FormatInt(p.Volume, 10)}
}

// priceBar is a single bar of the server response, which lists bars newest
// first.
type priceBar struct {
	Date     db.Date `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
	Volume   int64   `json:"volume"`
}

// priceHistory is the response shape of the historical price endpoint.
type priceHistory struct {
	Symbol     string     `json:"symbol"`
	Historical []priceBar `json:"historical"`
}

// FetchPrices downloads the daily price history of the ticker using the
// Client from the context, reordered by date, oldest first. A zero start or
// end date is left out of the query, falling back to the server's default
// range; an end date requires a start date.
func FetchPrices(ctx context.Context, ticker string, start, end db.Date) ([]PriceBar, error) {
	if !end.IsZero() && start.IsZero() {
		return nil, errors.Reason(
			"FetchPrices: end date %s requires a start date", end)
	}
	client := GetClient(ctx)
	if client == nil {
		return nil, errors.Reason("FetchPrices: no client in context")
	}
	uri := client.baseURL + "/historical-price-full/" + ticker
	query := url.Values{"apikey": []string{client.apiKey}}
	if !start.IsZero() {
		query["from"] = []string{start.String()}
	}
	if !end.IsZero() {
		query["to"] = []string{end.String()}
	}
	var h priceHistory
	if err := fetch.FetchJSON(ctx, uri, &h, query, nil); err != nil {
		return nil, errors.Annotate(err, "FetchPrices: failed to fetch %s", uri)
	}
	if h.Historical == nil {
		return nil, errors.Reason(
			"FetchPrices: no historical data for %s in the response", ticker)
	}
	slices.SortStableFunc(h.Historical, func(a, b priceBar) bool {
		return a.Date.Before(b.Date)
	})
	bars := make([]PriceBar, len(h.Historical))
	for i, b := range h.Historical {
		bars[i] = PriceBar{
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			AdjClose: b.AdjClose,
			Volume:   b.Volume,
		}
	}
	logging.Infof(ctx, "FMP: fetched %d price bars for %s", len(bars), ticker)
	return bars, nil
}
