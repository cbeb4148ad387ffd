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

	"github.com/RalfKellner/fda/db"
	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"
)

// Profiles extracts company profiles from the local submission documents of
// the registry companies. A CIK registered under several tickers is profiled
// only once, at its first registry position, with HasMultipleSymbols set.
// Documents listing neither a ticker nor an exchange carry no usable company
// information and are skipped; the number of skipped companies is logged. A
// missing submission file is an error.
func Profiles(ctx context.Context, companies []Company, r *db.Reader) ([]Profile, error) {
	if r == nil {
		return nil, errors.Reason("Profiles: no submission file reader")
	}
	tickers := make(map[string]int) // CIK -> number of registry tickers
	for _, c := range companies {
		tickers[c.CIK]++
	}
	var profiles []Profile
	seen := make(map[string]bool)
	noInfo := 0
	for _, c := range companies {
		if seen[c.CIK] {
			continue
		}
		seen[c.CIK] = true
		name := "CIK" + c.CIK + ".json"
		var doc submission
		if err := r.ReadJSON(name, &doc); err != nil {
			return nil, errors.Annotate(err, "Profiles: failed to read %s", name)
		}
		if len(doc.Tickers) == 0 && len(doc.Exchanges) == 0 {
			noInfo++
			continue
		}
		p := Profile{
			CIK:                c.CIK,
			EntityType:         doc.EntityType,
			SIC:                doc.SIC,
			SICDescription:     doc.SICDescription,
			Name:               doc.Name,
			FiscalYearEnd:      doc.FiscalYearEnd,
			HasMultipleSymbols: tickers[c.CIK] > 1,
		}
		if len(doc.Tickers) > 0 {
			p.Ticker = doc.Tickers[0]
		}
		if len(doc.Exchanges) > 0 {
			p.Exchange = doc.Exchanges[0]
		}
		profiles = append(profiles, p)
	}
	logging.Infof(ctx, "company information for %d CIK numbers could not be retrieved",
		noInfo)
	return profiles, nil
}
