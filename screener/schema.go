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
	"strings"

	"github.com/RalfKellner/fda/db"
	"github.com/RalfKellner/fda/edgar"
	"github.com/RalfKellner/fda/message"
	"github.com/stockparfait/errors"
)

type Column struct {
	Kind string `json:"kind" required:"true" choices:"cik,name,entity_type,sic,sic_description,ticker,exchange,fiscal_year_end,multiple_symbols"`
	Sort string `json:"sort" choices:",ascending,descending"`
}

var _ message.Message = &Column{}

func (c *Column) InitMessage(js interface{}) error {
	if err := message.Init(c, js); err != nil {
		return errors.Annotate(err, "failed to init Column")
	}
	return nil
}

func (c *Column) Header() string {
	switch c.Kind {
	case "cik":
		return "CIK"
	case "name":
		return "Name"
	case "entity_type":
		return "Entity Type"
	case "sic":
		return "SIC"
	case "sic_description":
		return "SIC Description"
	case "ticker":
		return "Ticker"
	case "exchange":
		return "Exchange"
	case "fiscal_year_end":
		return "Fiscal Year End"
	case "multiple_symbols":
		return "Multiple Symbols"
	}
	return ""
}

// Filter selects company profiles. The zero value matches every profile; each
// field that is set must be satisfied, and a list field is satisfied by any of
// its elements.
type Filter struct {
	EntityTypes     []string `json:"entity_types"`
	Exchanges       []string `json:"exchanges"`
	SICPrefixes     []string `json:"sic_prefixes"` // e.g. "35" for all of 35xx
	MultipleSymbols *bool    `json:"multiple_symbols"`
}

var _ message.Message = &Filter{}

func (f *Filter) InitMessage(js interface{}) error {
	if err := message.Init(f, js); err != nil {
		return errors.Annotate(err, "failed to init Filter")
	}
	return nil
}

// Match checks whether the profile satisfies the filter.
func (f *Filter) Match(p edgar.Profile) bool {
	if len(f.EntityTypes) > 0 && !message.StringIn(p.EntityType, f.EntityTypes...) {
		return false
	}
	if len(f.Exchanges) > 0 && !message.StringIn(p.Exchange, f.Exchanges...) {
		return false
	}
	if len(f.SICPrefixes) > 0 {
		match := false
		for _, prefix := range f.SICPrefixes {
			if strings.HasPrefix(p.SIC, prefix) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if f.MultipleSymbols != nil && p.HasMultipleSymbols != *f.MultipleSymbols {
		return false
	}
	return true
}

type Config struct {
	Identity string     `json:"identity" required:"true"`
	Data     *db.Reader `json:"data" required:"true"`
	Columns  []Column   `json:"columns"` // default: [{"kind": "ticker"}]
	Filter   Filter     `json:"filter"`
}

var _ message.Message = &Config{}

func (c *Config) InitMessage(js interface{}) error {
	if err := message.Init(c, js); err != nil {
		return errors.Annotate(err, "failed to init Config")
	}
	if len(c.Columns) == 0 {
		c.Columns = []Column{{Kind: "ticker"}}
	}
	return nil
}
