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
	"strconv"

	"github.com/RalfKellner/fda/db"
	"github.com/stockparfait/errors"
)

// Value is a single cell of a filing table, an arbitrary decoded JSON value.
type Value = interface{}

// Company is a single row of the SEC registry of company tickers.
type Company struct {
	Ticker  string // the trading symbol, e.g. "AAPL"
	Title   string // the company name as registered with the SEC
	CIK     string // Central Index Key, zero-padded to 10 digits
	CIKLong string // CIK without the leading zeros
}

// CompanyHeader is the list of Company row names, e.g. for table printing.
func CompanyHeader() []string {
	return []string{"Ticker", "Title", "CIK", "CIK Long"}
}

// CSV implements table.Row.
func (c Company) CSV() []string {
	return []string{c.Ticker, c.Title, c.CIK, c.CIKLong}
}

// Profile is a company profile extracted from its submission document.
type Profile struct {
	CIK                string
	EntityType         string // e.g. "operating"
	SIC                string // Standard Industrial Classification code
	SICDescription     string
	Name               string
	Ticker             string // the first ticker listed in the document
	Exchange           string // the first exchange listed in the document
	FiscalYearEnd      string // "MMDD"
	HasMultipleSymbols bool   // the CIK appears under several registry tickers
}

// ProfileHeader is the list of Profile row names, e.g. for table printing.
func ProfileHeader() []string {
	return []string{"CIK", "Entity Type", "SIC", "SIC Description", "Name",
		"Ticker", "Exchange", "Fiscal Year End", "Multiple Symbols"}
}

// CSV implements table.Row.
func (p Profile) CSV() []string {
	return []string{p.CIK, p.EntityType, p.SIC, p.SICDescription, p.Name,
		p.Ticker, p.Exchange, p.FiscalYearEnd,
		strconv.FormatBool(p.HasMultipleSymbols)}
}

// submission mirrors the fields of an EDGAR submission document used by this
// package. The recent filings and the references to the older filing shards
// live under "filings".
type submission struct {
	CIK            string           `json:"cik"`
	EntityType     string           `json:"entityType"`
	SIC            string           `json:"sic"`
	SICDescription string           `json:"sicDescription"`
	Name           string           `json:"name"`
	Tickers        []string         `json:"tickers"`
	Exchanges      []string         `json:"exchanges"`
	FiscalYearEnd  string           `json:"fiscalYearEnd"`
	Filings        submissionFiling `json:"filings"`
}

type submissionFiling struct {
	Recent map[string][]Value `json:"recent"`
	Files  []shardFile        `json:"files"`
}

// shardFile references an older chunk of a long filing history, stored as a
// separate document next to the main one.
type shardFile struct {
	Name        string `json:"name"`
	FilingCount int    `json:"filingCount"`
	FilingFrom  string `json:"filingFrom"`
	FilingTo    string `json:"filingTo"`
}

func typeErr(v Value, tp string) error {
	return errors.Reason("expected %s but found %T: %v", tp, v, v)
}

// value2time parses a filing acceptance time cell, e.g.
// "2023-05-01T18:22:01.000Z". A nil cell yields the zero Time.
func value2time(v Value) (db.Time, error) {
	if v == nil {
		return db.Time{}, nil
	}
	str, ok := v.(string)
	if !ok {
		return db.Time{}, typeErr(v, "a time string")
	}
	return db.NewTimeFromString(str)
}
