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

// Package stats implements summary statistics of price and log-profit series.
package stats

import (
	"math"
	"strconv"

	"github.com/stockparfait/errors"
	"gonum.org/v1/gonum/stat"
)

// LogProfits computes the log-profit series log(p[i+1]/p[i]) of a price
// series. All prices must be positive. The result is one element shorter
// than the input; fewer than two prices yield an empty result.
func LogProfits(prices []float64) ([]float64, error) {
	for i, p := range prices {
		if p <= 0.0 {
			return nil, errors.Reason("price #%d = %g must be positive", i, p)
		}
	}
	if len(prices) < 2 {
		return []float64{}, nil
	}
	res := make([]float64, len(prices)-1)
	for i := range res {
		res[i] = math.Log(prices[i+1] / prices[i])
	}
	return res, nil
}

// Summary holds the sample moments of a series such as log-profits.
type Summary struct {
	N        int
	Mean     float64
	Variance float64 // unbiased sample variance
	Skewness float64 // adjusted sample skewness
	Kurtosis float64 // sample excess kurtosis; 0 for a normal distribution
}

// Summarize computes the sample moments of the data. Moments requiring more
// data points than given remain zero.
func Summarize(data []float64) Summary {
	s := Summary{N: len(data)}
	if s.N > 0 {
		s.Mean = stat.Mean(data, nil)
	}
	if s.N > 1 {
		s.Variance = stat.Variance(data, nil)
	}
	if s.N > 2 {
		s.Skewness = stat.Skew(data, nil)
	}
	if s.N > 3 {
		s.Kurtosis = stat.ExKurtosis(data, nil)
	}
	return s
}

// SummaryHeader is the list of Summary row names, e.g. for table printing.
func SummaryHeader() []string {
	return []string{"N", "Mean", "Variance", "Skewness", "Kurtosis"}
}

// CSV implements table.Row.
func (s Summary) CSV() []string {
	f2s := func(f float64) string {
		return strconv.FormatFloat(f, 'g', 6, 64)
	}
	return []string{strconv.Itoa(s.N), f2s(s.Mean), f2s(s.Variance),
		f2s(s.Skewness), f2s(s.Kurtosis)}
}
