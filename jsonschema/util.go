// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Equal reports whether two schemas render to the same JSON.
// Numeric values are compared after JSON normalization, so an int 1
// and a float64 1 in Const or Default compare equal.
func Equal(s1, s2 *Schema) bool {
	if s1 == nil || s2 == nil {
		return s1 == s2
	}
	b1, err1 := json.Marshal(s1)
	b2, err2 := json.Marshal(s2)
	if err1 != nil || err2 != nil {
		return false
	}
	return bytes.Equal(b1, b2)
}

type jsonInfo struct {
	omit     bool
	name     string
	settings map[string]bool
}

// fieldJSONInfo reports how encoding/json treats the struct field.
func fieldJSONInfo(sf reflect.StructField) jsonInfo {
	if !sf.IsExported() {
		return jsonInfo{omit: true}
	}
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return jsonInfo{name: sf.Name}
	}
	name, rest, _ := strings.Cut(tag, ",")
	if name == "-" && rest == "" {
		return jsonInfo{omit: true}
	}
	if name == "" {
		name = sf.Name
	}
	info := jsonInfo{name: name}
	if rest != "" {
		info.settings = map[string]bool{}
		for _, s := range strings.Split(rest, ",") {
			info.settings[s] = true
		}
	}
	return info
}

// jsonNames returns the JSON keys encoding/json uses for the struct type t,
// including those of embedded structs.
func jsonNames(t reflect.Type) map[string]bool {
	names := map[string]bool{}
	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous {
			continue
		}
		if info := fieldJSONInfo(sf); !info.omit {
			names[info.name] = true
		}
	}
	return names
}

// marshalStructWithMap marshals the struct pointed to by src, then appends the
// entries of its map-valued field named mapField as additional members.
// It is an error for a map key to collide with a struct field.
func marshalStructWithMap(src any, mapField string) ([]byte, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	m := reflect.ValueOf(src).Elem().FieldByName(mapField)
	if !m.IsValid() || m.Len() == 0 {
		return data, nil
	}
	extra := m.Interface().(map[string]any)
	names := jsonNames(reflect.TypeOf(src).Elem())

	var buf bytes.Buffer
	buf.Write(data[:len(data)-1])
	first := bytes.Equal(data, []byte("{}"))
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		if names[k] {
			return nil, errors.Errorf("%s key %q duplicates a struct field", mapField, k)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(extra[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalStructWithMap unmarshals data into the struct pointed to by v,
// then stores every member that no struct field claims in the map field
// named mapField.
func unmarshalStructWithMap(data []byte, v any, mapField string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	names := jsonNames(reflect.TypeOf(v).Elem())
	var extra map[string]any
	for k, val := range all {
		if names[k] {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = val
	}
	if extra != nil {
		reflect.ValueOf(v).Elem().FieldByName(mapField).Set(reflect.ValueOf(extra))
	}
	return nil
}

// objectKeyOrder returns the member names of the object stored under key in
// the JSON object data, in document order. It returns nil if there is no such
// object.
func objectKeyOrder(data []byte, key string) []string {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil
	}
	raw, ok := top[key]
	if !ok {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		name, ok := tok.(string)
		if !ok {
			return nil
		}
		order = append(order, name)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil
		}
	}
	return order
}

// Keyword returns the value of the keyword with the given JSON name, and
// whether it is present. Pointer-valued keywords are dereferenced.
// "type", "properties" and keywords held in Extra are not reported.
func (s *Schema) Keyword(name string) (any, bool) {
	sf, ok := schemaFieldMap[name]
	if !ok || name == "properties" {
		return nil, false
	}
	fv := reflect.ValueOf(s).Elem().FieldByIndex(sf.Index)
	if fv.IsZero() {
		return nil, false
	}
	if name == "default" {
		var val any
		if err := json.Unmarshal(s.Default, &val); err != nil {
			return nil, false
		}
		return val, true
	}
	if fv.Kind() == reflect.Ptr && fv.Elem().Kind() != reflect.Struct {
		return fv.Elem().Interface(), true
	}
	return fv.Interface(), true
}

// SetKeyword sets the keyword with the given JSON name from a Go value
// by round-tripping the value through JSON. A nil value clears the keyword.
func (s *Schema) SetKeyword(name string, value any) error {
	sf, ok := schemaFieldMap[name]
	if !ok {
		return errors.Errorf("unknown keyword %q", name)
	}
	fv := reflect.ValueOf(s).Elem().FieldByIndex(sf.Index)
	if value == nil {
		fv.Set(reflect.Zero(sf.Type))
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "keyword %s", name)
	}
	if name == "default" {
		s.Default = data
		return nil
	}
	ptr := reflect.New(sf.Type)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return errors.Wrapf(err, "keyword %s", name)
	}
	fv.Set(ptr.Elem())
	return nil
}

// IsKeyword reports whether name is a keyword with its own Schema field.
func IsKeyword(name string) bool {
	_, ok := schemaFieldMap[name]
	return ok || name == "type"
}

// Keywords returns the JSON names of the keywords that have their own
// Schema field, in sorted order.
func Keywords() []string {
	names := make([]string, len(schemaFieldInfos))
	for i, info := range schemaFieldInfos {
		names[i] = info.jsonName
	}
	return names
}
