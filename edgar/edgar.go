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
	"net/http"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/fetch"
	"github.com/stockparfait/logging"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type contextKey int

const (
	clientContextKey contextKey = iota
)

// TickersURL is the default location of the SEC registry of company tickers.
// It may be overwritten in tests before creating a new client.
var TickersURL = "https://www.sec.gov/files/company_tickers.json"

// SubmissionsURL is the default base URL of the SEC submissions API. It may
// be overwritten in tests before creating a new client.
var SubmissionsURL = "https://data.sec.gov/submissions"

// Client for querying SEC EDGAR endpoints.
type Client struct {
	tickersURL     string // the registry of company tickers
	submissionsURL string // the base URL for submission documents
	identity       string // sent as the User-Agent header
}

// newClient creates a new client.
func newClient(tickersURL, submissionsURL, identity string) *Client {
	return &Client{
		tickersURL:     tickersURL,
		submissionsURL: submissionsURL,
		identity:       identity,
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

// UseClient creates a new client with the given identity and injects it into
// the context. The SEC requires every request to declare its sender; the
// recommended identity form is "Sample Company Name admin@sample-company.com".
func UseClient(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, clientContextKey,
		newClient(TickersURL, SubmissionsURL, identity))
}

// header returns the HTTP headers to be sent with every EDGAR request.
func (c *Client) header() http.Header {
	return http.Header{"User-Agent": []string{c.identity}}
}

// companyRecord is a single record of the company_tickers.json registry. The
// registry is a JSON object whose values are these records, keyed by the
// stringified row number.
type companyRecord struct {
	CIKStr int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// FetchCompanies downloads the SEC registry of company tickers using the
// Client from the context. The companies are returned in the registry order,
// which lists each ticker separately; a company trading under several symbols
// therefore appears several times with the same CIK.
func FetchCompanies(ctx context.Context) ([]Company, error) {
	client := GetClient(ctx)
	if client == nil {
		return nil, errors.Reason("FetchCompanies: no client in context")
	}
	var registry map[string]companyRecord
	if err := fetch.FetchJSON(ctx, client.tickersURL, &registry, nil,
		nil); err != nil {
		return nil, errors.Annotate(err, "FetchCompanies: failed to fetch %s",
			client.tickersURL)
	}
	// Registry keys are row numbers; restore their numeric order.
	keys := maps.Keys(registry)
	slices.SortFunc(keys, func(a, b string) bool {
		x, errX := strconv.Atoi(a)
		y, errY := strconv.Atoi(b)
		if errX != nil || errY != nil {
			return a < b
		}
		return x < y
	})
	companies := make([]Company, len(keys))
	for i, k := range keys {
		r := registry[k]
		companies[i] = Company{
			Ticker:  r.Ticker,
			Title:   r.Title,
			CIK:     fmt.Sprintf("%010d", r.CIKStr),
			CIKLong: strconv.FormatInt(r.CIKStr, 10),
		}
	}
	logging.Infof(ctx, "EDGAR: fetched the registry of %d company tickers",
		len(companies))
	return companies, nil
}
