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

package main

import (
	"context"
	"flag"
	"io"
	"os"

	"github.com/RalfKellner/fda/db"
	"github.com/RalfKellner/fda/edgar"
	"github.com/RalfKellner/fda/fmp"
	"github.com/RalfKellner/fda/stats"
	"github.com/RalfKellner/fda/table"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	toml "github.com/pelletier/go-toml/v2"
)

type Flags struct {
	Conf     string // config file, required
	LogLevel logging.Level
	// Exactly one of companies, profiles, filings or prices must be present.
	Companies bool
	Profiles  bool
	Filings   string  // CIK to print the filing history for
	Prices    string  // ticker to print daily prices for
	Start     db.Date // first day of prices, optional
	End       db.Date // last day of prices, requires Start
	Summary   bool    // with Prices, print a log-profit summary instead
	Rows      int     // max. number of rows to print; 0 = all
	CSV       bool    // dump CSV format; default: text.
}

func parseFlags(args []string) (*Flags, error) {
	var flags Flags
	fs := flag.NewFlagSet("fda-fetch", flag.ExitOnError)
	fs.StringVar(&flags.Conf, "conf", "", "config file (required)")
	flags.LogLevel = logging.Info
	fs.Var(&flags.LogLevel, "log-level", "Log level: debug, info, warning, error")
	fs.BoolVar(&flags.Companies, "companies", false,
		"print the SEC registry of company tickers")
	fs.BoolVar(&flags.Profiles, "profiles", false,
		"print company profiles extracted from the submission directory")
	fs.StringVar(&flags.Filings, "filings", "",
		"10-character CIK to print the filing history for")
	fs.StringVar(&flags.Prices, "prices", "", "ticker to print daily prices for")
	start := fs.String("start", "", "first day of prices, YYYY-MM-DD")
	end := fs.String("end", "", "last day of prices, YYYY-MM-DD; requires -start")
	fs.BoolVar(&flags.Summary, "summary", false,
		"with -prices: print a summary of daily log-profits instead of prices")
	fs.IntVar(&flags.Rows, "rows", 0, "max. number of table rows to print; 0 = all")
	fs.BoolVar(&flags.CSV, "csv", false, "print table in CSV format; default: text")

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if flags.Conf == "" {
		return nil, errors.Reason("missing required -conf argument")
	}
	kinds := 0
	if flags.Companies {
		kinds++
	}
	if flags.Profiles {
		kinds++
	}
	if flags.Filings != "" {
		kinds++
	}
	if flags.Prices != "" {
		kinds++
	}
	if kinds != 1 {
		return nil, errors.Reason(
			"expected exactly one of -companies, -profiles, -filings or -prices")
	}
	if *start != "" {
		if flags.Start, err = db.NewDateFromString(*start); err != nil {
			return nil, errors.Annotate(err, "failed to parse -start")
		}
	}
	if *end != "" {
		if flags.End, err = db.NewDateFromString(*end); err != nil {
			return nil, errors.Annotate(err, "failed to parse -end")
		}
	}
	return &flags, nil
}

type Config struct {
	Identity      string `toml:"identity"`       // sent to SEC EDGAR as User-Agent
	FMPKey        string `toml:"fmp_key"`        // financialmodelingprep.com API key
	SubmissionDir string `toml:"submission_dir"` // dir with CIK<nnn>.json files
}

func parseConfig(filePath string) (*Config, error) {
	if _, err := os.Stat(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sample := `identity = "Sample Company Name admin@sample-company.com"
fmp_key = "YourSecretFMPKey"
submission_dir = "/data/edgar/submissions"
`
			err = errors.Annotate(err,
				"config file '%s' does not exist.\nPlease create config file containing:\n%s",
				filePath, sample)
			return nil, err
		} else {
			return nil, errors.Annotate(err,
				"cannot check config file for existence: '%s'", filePath)
		}
	}
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Annotate(err, "failed to open config file %s", filePath)
	}
	defer f.Close()

	d := toml.NewDecoder(f)
	var c Config
	if err := d.Decode(&c); err != nil {
		return nil, errors.Annotate(err, "failed to read config file %s", filePath)
	}
	return &c, nil
}

func companiesTable(ctx context.Context) (*table.Table, error) {
	companies, err := edgar.FetchCompanies(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch companies")
	}
	rows := make([]table.Row, len(companies))
	for i, c := range companies {
		rows[i] = c
	}
	tbl := table.NewTable(edgar.CompanyHeader()...)
	tbl.AddRow(rows...)
	return tbl, nil
}

func profilesTable(ctx context.Context, reader *db.Reader) (*table.Table, error) {
	companies, err := edgar.FetchCompanies(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch companies")
	}
	profiles, err := edgar.Profiles(ctx, companies, reader)
	if err != nil {
		return nil, errors.Annotate(err, "failed to extract profiles")
	}
	rows := make([]table.Row, len(profiles))
	for i, p := range profiles {
		rows[i] = p
	}
	tbl := table.NewTable(edgar.ProfileHeader()...)
	tbl.AddRow(rows...)
	return tbl, nil
}

func filingsTable(ctx context.Context, reader *db.Reader, cik string) (*table.Table, error) {
	filings, err := edgar.CompanyFilings(ctx, cik, reader)
	if err != nil {
		return nil, errors.Annotate(err, "failed to list filings")
	}
	return filings.Table(), nil
}

func pricesTable(ctx context.Context, flags *Flags) (*table.Table, error) {
	prices, err := fmp.FetchPrices(ctx, flags.Prices, flags.Start, flags.End)
	if err != nil {
		return nil, errors.Annotate(err, "failed to fetch prices")
	}
	if flags.Summary {
		adjusted := make([]float64, len(prices))
		for i, p := range prices {
			adjusted[i] = p.AdjClose
		}
		profits, err := stats.LogProfits(adjusted)
		if err != nil {
			return nil, errors.Annotate(err, "failed to compute log-profits")
		}
		tbl := table.NewTable(stats.SummaryHeader()...)
		tbl.AddRow(stats.Summarize(profits))
		return tbl, nil
	}
	rows := make([]table.Row, len(prices))
	for i, p := range prices {
		rows[i] = p
	}
	tbl := table.NewTable(fmp.PriceHeader()...)
	tbl.AddRow(rows...)
	return tbl, nil
}

func printData(ctx context.Context, flags *Flags, w io.Writer) error {
	config, err := parseConfig(flags.Conf)
	if err != nil {
		return errors.Annotate(err, "failed to parse config")
	}
	ctx = edgar.UseClient(ctx, config.Identity)
	ctx = fmp.UseClient(ctx, config.FMPKey)
	var reader *db.Reader
	if config.SubmissionDir != "" {
		reader = db.NewReader(config.SubmissionDir)
	}

	var tbl *table.Table
	if flags.Companies {
		if tbl, err = companiesTable(ctx); err != nil {
			return errors.Annotate(err, "failed to fetch the company registry")
		}
	}
	if flags.Profiles {
		if reader == nil {
			return errors.Reason("-profiles requires submission_dir in the config")
		}
		if tbl, err = profilesTable(ctx, reader); err != nil {
			return errors.Annotate(err, "failed to extract company profiles")
		}
	}
	if flags.Filings != "" {
		if tbl, err = filingsTable(ctx, reader, flags.Filings); err != nil {
			return errors.Annotate(err, "failed to list filings for CIK %s",
				flags.Filings)
		}
	}
	if flags.Prices != "" {
		if tbl, err = pricesTable(ctx, flags); err != nil {
			return errors.Annotate(err, "failed to fetch prices for %s", flags.Prices)
		}
	}
	if tbl == nil {
		return errors.Reason("no data")
	}
	params := table.Params{Rows: flags.Rows}
	if flags.CSV {
		if err := tbl.WriteCSV(w, params); err != nil {
			return errors.Annotate(err, "failed to print CSV")
		}
		return nil
	}
	if err := tbl.WriteText(w, params); err != nil {
		return errors.Annotate(err, "failed to print text")
	}
	return nil
}

func main() {
	ctx := context.Background()
	flags, err := parseFlags(os.Args[1:])
	if err != nil {
		ctx = logging.Use(ctx, logging.DefaultGoLogger(logging.Info))
		logging.Errorf(ctx, "failed to parse flags: %s", err.Error())
		os.Exit(1)
	}
	ctx = logging.Use(ctx, logging.DefaultGoLogger(flags.LogLevel))

	if err := printData(ctx, flags, os.Stdout); err != nil {
		logging.Errorf(ctx, err.Error())
		os.Exit(1)
	}
}
