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

package db

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/RalfKellner/fda/message"
	"github.com/stockparfait/errors"
)

// Reader provides read-only access to a directory of locally stored JSON
// documents, such as an unzipped EDGAR bulk submissions archive. The library
// never writes to it.
type Reader struct {
	Dir string `json:"dir" required:"true"`
}

var _ message.Message = &Reader{}

// NewReader creates a Reader over the given directory.
func NewReader(dir string) *Reader {
	return &Reader{Dir: dir}
}

// InitMessage implements message.Message, so a Reader can be configured as
// {"dir": "/path/to/submissions"} in a JSON config.
func (r *Reader) InitMessage(js interface{}) error {
	if err := message.Init(r, js); err != nil {
		return errors.Annotate(err, "failed to init Reader")
	}
	return nil
}

// ReadJSON decodes the named file in the Reader's directory into v. A missing
// file surfaces the underlying os error, checkable with
// errors.Is(err, os.ErrNotExist).
func (r *Reader) ReadJSON(name string, v interface{}) error {
	fileName := filepath.Join(r.Dir, name)
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Annotate(err, "failed to open file for reading: '%s'", fileName)
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err = dec.Decode(v); err != nil {
		return errors.Annotate(err, "failed to read JSON from '%s'", fileName)
	}
	return nil
}
