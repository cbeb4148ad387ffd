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

// Package edgar implements access to the company datasets of SEC EDGAR.
//
// Official documentation is at https://www.sec.gov/search-filings/edgar-application-programming-interfaces .
//
// The SEC publishes a registry of company tickers mapping trading symbols to
// CIK numbers (Central Index Key, the SEC's company identifier), and one
// submission document per company holding its profile and filing history.
// Long histories are split into the main document and additional shard files
// listed within it.
//
// Submission documents can be read either from a local directory holding an
// unpacked bulk download of submissions.zip, or from the live API. Live
// requests require a client in the context, created by UseClient() with an
// identity string which is sent as the User-Agent header, as required by the
// SEC fair access policy. The policy also limits the request rate, so
// downloading a sharded filing history pauses between successive requests.
package edgar
