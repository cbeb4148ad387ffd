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

package stats

import (
	"math"
	"testing"

	"github.com/stockparfait/testutil"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStats(t *testing.T) {
	t.Parallel()

	Convey("LogProfits works", t, func() {
		Convey("computes consecutive log-ratios", func() {
			lp, err := LogProfits([]float64{100.0, 110.0, 99.0})
			So(err, ShouldBeNil)
			So(lp, ShouldResemble, []float64{
				math.Log(110.0 / 100.0),
				math.Log(99.0 / 110.0),
			})
		})

		Convey("fails on non-positive prices", func() {
			_, err := LogProfits([]float64{100.0, 0.0, 99.0})
			So(err, ShouldNotBeNil)
			_, err = LogProfits([]float64{100.0, -1.0})
			So(err, ShouldNotBeNil)
		})

		Convey("short series yield no profits", func() {
			lp, err := LogProfits([]float64{100.0})
			So(err, ShouldBeNil)
			So(lp, ShouldResemble, []float64{})
			lp, err = LogProfits(nil)
			So(err, ShouldBeNil)
			So(lp, ShouldResemble, []float64{})
		})
	})

	Convey("Summarize works", t, func() {
		Convey("moments of a symmetric sample", func() {
			s := Summarize([]float64{1.0, 2.0, 3.0, 4.0, 5.0})
			So(s.N, ShouldEqual, 5)
			So(s.Mean, ShouldEqual, 3.0)
			So(s.Variance, ShouldEqual, 2.5)
			So(testutil.RoundFixed(s.Skewness, 6), ShouldEqual, 0.0)
			So(s.Kurtosis, ShouldBeLessThan, 0.0) // flat sample, thin tails
		})

		Convey("an upside outlier skews right and fattens the tails", func() {
			s := Summarize([]float64{1.0, 1.0, 1.0, 1.0, 10.0})
			So(s.Skewness, ShouldBeGreaterThan, 0.0)
			So(s.Kurtosis, ShouldBeGreaterThan, 0.0)
		})

		Convey("small samples leave higher moments at zero", func() {
			So(Summarize(nil), ShouldResemble, Summary{})
			So(Summarize([]float64{2.0}), ShouldResemble, Summary{N: 1, Mean: 2.0})
			So(Summarize([]float64{1.0, 3.0}), ShouldResemble,
				Summary{N: 2, Mean: 2.0, Variance: 2.0})
			s := Summarize([]float64{1.0, 2.0, 4.0})
			So(s.Skewness, ShouldNotEqual, 0.0)
			So(s.Kurtosis, ShouldEqual, 0.0)
		})

		Convey("Summary row", func() {
			s := Summary{N: 5, Mean: 3.0, Variance: 2.5}
			So(s.CSV(), ShouldResemble, []string{"5", "3", "2.5", "0", "0"})
			So(len(SummaryHeader()), ShouldEqual, len(s.CSV()))
		})
	})
}
