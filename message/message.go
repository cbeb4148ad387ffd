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

// Package message implements a schema-driven initialization of structs from
// JSON-like values, suitable for reading and verifying configs.
//
// A message is defined as a struct with an InitMessage method, which is
// normally implemented by calling Init:
//
//	type Dog struct {
//		Name string `json:"name" required:"true"`
//		Legs int    `json:"legs" default:"4"`
//	}
//
//	var _ message.Message = &Dog{}
//
//	func (d *Dog) InitMessage(js interface{}) error {
//		return message.Init(d, js)
//	}
//
// Supported field types are bool, int, float64, string, pointers and slices
// of these, and other messages. Recognized struct tags:
//
//   - json:"name" - the field's name in JSON; "-" excludes the field;
//   - required:"true" - the field must be present in the input;
//   - default:"value" - the value when the field is absent from the input;
//   - choices:"a,b,c" - the allowed values of a string field.
//
// Fields present in the input but not in the struct are an error.
package message

import (
	"encoding/json"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/stockparfait/errors"
)

// Message is implemented by all configuration messages.
type Message interface {
	// InitMessage populates the message from a JSON value as decoded by
	// encoding/json into generic interface{} types. It is expected to check
	// required fields, assign defaults and reject unrecognized fields.
	InitMessage(js interface{}) error
}

var messageType = reflect.TypeOf((*Message)(nil)).Elem()

// StringIn checks if a string equals one of the candidates.
func StringIn(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}

// FromFile reads a JSON file and initializes the message from its contents.
func FromFile(m Message, fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return errors.Annotate(err, "cannot read config file '%s'", fileName)
	}
	var js interface{}
	if err := json.Unmarshal(data, &js); err != nil {
		return errors.Annotate(err, "cannot parse JSON in '%s'", fileName)
	}
	if err := m.InitMessage(js); err != nil {
		return errors.Annotate(err, "cannot init message from '%s'", fileName)
	}
	return nil
}

// jsonName is the field's name in the JSON input, derived from the json tag
// when present. The second value is false for fields to be skipped entirely:
// unexported fields and fields tagged json:"-".
func jsonName(f reflect.StructField) (string, bool) {
	r, _ := utf8.DecodeRuneInString(f.Name)
	if !unicode.IsUpper(r) {
		return "", false
	}
	name := f.Name
	if tag, ok := f.Tag.Lookup("json"); ok {
		parts := strings.Split(tag, ",")
		if parts[0] == "-" {
			return "", false
		}
		if parts[0] != "" {
			name = parts[0]
		}
	}
	return name, true
}

// initMessage allocates a new message of the pointer type t and initializes
// it with the JSON value through its InitMessage method.
func initMessage(jv interface{}, t reflect.Type) (reflect.Value, error) {
	var zero reflect.Value
	if t.Kind() != reflect.Ptr {
		return zero, errors.Reason("message type %s must be a pointer", t)
	}
	ptr := reflect.New(t.Elem())
	out := ptr.MethodByName("InitMessage").Call([]reflect.Value{reflect.ValueOf(&jv).Elem()})
	if err, ok := out[0].Interface().(error); ok && err != nil {
		return zero, errors.Annotate(err, "%s.InitMessage() failed", t)
	}
	return ptr, nil
}

// convert creates a value of type t out of a JSON value. A nil JSON value
// yields the zero value of t, except for value-typed messages which are
// initialized from an empty object to pick up their defaults.
func convert(jv interface{}, t reflect.Type) (reflect.Value, error) {
	var zero reflect.Value
	if t.Implements(messageType) {
		if jv == nil {
			return reflect.Zero(t), nil
		}
		ptr, err := initMessage(jv, t)
		if err != nil {
			return zero, err
		}
		return ptr, nil
	}
	if reflect.PtrTo(t).Implements(messageType) {
		if jv == nil {
			jv = map[string]interface{}{}
		}
		ptr, err := initMessage(jv, reflect.PtrTo(t))
		if err != nil {
			return zero, err
		}
		return ptr.Elem(), nil
	}
	if jv == nil {
		return reflect.Zero(t), nil
	}
	switch t.Kind() {
	case reflect.Ptr:
		el, err := convert(jv, t.Elem())
		if err != nil {
			return zero, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(el)
		return ptr, nil
	case reflect.Bool:
		b, ok := jv.(bool)
		if !ok {
			return zero, errors.Reason("not a bool: %v", jv)
		}
		return reflect.ValueOf(b), nil
	case reflect.Int:
		f, ok := jv.(float64)
		if !ok {
			return zero, errors.Reason("not a number: %v", jv)
		}
		return reflect.ValueOf(int(f)), nil
	case reflect.Float64:
		f, ok := jv.(float64)
		if !ok {
			return zero, errors.Reason("not a number: %v", jv)
		}
		return reflect.ValueOf(f), nil
	case reflect.String:
		s, ok := jv.(string)
		if !ok {
			return zero, errors.Reason("not a string: %v", jv)
		}
		return reflect.ValueOf(s), nil
	case reflect.Slice:
		l, ok := jv.([]interface{})
		if !ok {
			return zero, errors.Reason("not a list: %v", jv)
		}
		res := reflect.MakeSlice(t, len(l), len(l))
		for i, e := range l {
			el, err := convert(e, t.Elem())
			if err != nil {
				return zero, errors.Annotate(err, "element %d", i)
			}
			res.Index(i).Set(el)
		}
		return res, nil
	}
	return zero, errors.Reason("unsupported field type %s", t.Kind())
}

// parseScalar creates a value of type t from its string representation, used
// for values of default tags.
func parseScalar(s string, t reflect.Type) (reflect.Value, error) {
	var zero reflect.Value
	switch t.Kind() {
	case reflect.Ptr:
		el, err := parseScalar(s, t.Elem())
		if err != nil {
			return zero, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(el)
		return ptr, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return zero, errors.Annotate(err, "not a bool: '%s'", s)
		}
		return reflect.ValueOf(b), nil
	case reflect.Int:
		i, err := strconv.Atoi(s)
		if err != nil {
			return zero, errors.Annotate(err, "not an int: '%s'", s)
		}
		return reflect.ValueOf(i), nil
	case reflect.Float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, errors.Annotate(err, "not a float: '%s'", s)
		}
		return reflect.ValueOf(f), nil
	case reflect.String:
		return reflect.ValueOf(s), nil
	}
	return zero, errors.Reason("type %s cannot have a default", t.Kind())
}

// setField assigns the value to the field, enforcing its choices tag if any.
func setField(f reflect.StructField, field, v reflect.Value) error {
	if choices, ok := f.Tag.Lookup("choices"); ok {
		if f.Type.Kind() != reflect.String {
			return errors.Reason("field %s with choices must be a string", f.Name)
		}
		if s := v.String(); !StringIn(s, strings.Split(choices, ",")...) {
			return errors.Reason(
				"value for %s is not in its choice list: '%s'", f.Name, s)
		}
	}
	field.Set(v)
	return nil
}

// Init initializes the message from a JSON value, which must be an object.
// The message m must be a struct pointer. This method is intended to be
// called by the message's InitMessage method.
func Init(m Message, js interface{}) error {
	mt := reflect.TypeOf(m)
	if mt.Kind() != reflect.Ptr || mt.Elem().Kind() != reflect.Struct {
		return errors.Reason("message must be a struct pointer, got %s", mt)
	}
	if js == nil {
		return errors.Reason("JSON value must not be null")
	}
	jsMap, ok := js.(map[string]interface{})
	if !ok {
		return errors.Reason("JSON value must be an object: %v", js)
	}
	st := mt.Elem()
	sv := reflect.ValueOf(m).Elem()
	fields := make(map[string]struct{})
	var missing []string
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		name, ok := jsonName(f)
		if !ok {
			continue
		}
		fields[name] = struct{}{}
		if jv, ok := jsMap[name]; ok {
			v, err := convert(jv, f.Type)
			if err != nil {
				return errors.Annotate(err, "error assigning value to %s", f.Name)
			}
			if err := setField(f, sv.Field(i), v); err != nil {
				return err
			}
			continue
		}
		if f.Tag.Get("required") == "true" {
			missing = append(missing, name)
			continue
		}
		if d, ok := f.Tag.Lookup("default"); ok {
			v, err := parseScalar(d, f.Type)
			if err != nil {
				return errors.Annotate(err, "error setting default value for %s", f.Name)
			}
			if err := setField(f, sv.Field(i), v); err != nil {
				return err
			}
			continue
		}
		v, err := convert(nil, f.Type)
		if err != nil {
			return errors.Annotate(err, "error creating zero value for %s", f.Name)
		}
		if err := setField(f, sv.Field(i), v); err != nil {
			return errors.Annotate(err, "error setting zero value for %s", f.Name)
		}
	}
	if len(missing) > 0 {
		return errors.Reason("missing required fields for %s: %s",
			st.Name(), strings.Join(missing, ", "))
	}
	var extra []string
	for k := range jsMap {
		if _, ok := fields[k]; !ok {
			extra = append(extra, k)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return errors.Reason("unsupported fields for %s: %s",
			st.Name(), strings.Join(extra, ", "))
	}
	return nil
}
