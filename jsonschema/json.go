// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

type schemaWithoutMethods Schema // doesn't implement json.{Unm,M}arshaler

func (s Schema) MarshalJSON() ([]byte, error) {
	// NOTE: Use a value receiver here to avoid the encoding/json bugs
	// described in golang/go#22967, golang/go#33993, and golang/go#55890.
	if err := s.basicChecks(); err != nil {
		return nil, err
	}
	if b, ok := s.boolForm(); ok {
		return json.Marshal(b)
	}
	ms := struct {
		Type       any            `json:"type,omitempty"`
		Properties json.Marshaler `json:"properties,omitempty"`
		*schemaWithoutMethods
	}{
		Type:                 s.typeValue(),
		schemaWithoutMethods: (*schemaWithoutMethods)(&s),
	}
	// An empty but non-nil map is still written.
	if s.Properties != nil {
		ms.Properties = orderedProperties{s.Properties, s.PropertyOrder}
	}
	return marshalStructWithMap(&ms, "Extra")
}

// orderedProperties marshals a properties map in rendering order.
type orderedProperties struct {
	props map[string]*Schema
	order []string
}

func (op orderedProperties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range propertyNames(op.props, op.order) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(op.props[name])
		if err != nil {
			return nil, errors.Wrapf(err, "property %s", name)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*s = boolSchema(b)
		return nil
	}

	// Integer keywords go through integer so that 1.0 is accepted.
	ms := struct {
		Type          json.RawMessage `json:"type,omitempty"`
		Const         json.RawMessage `json:"const,omitempty"`
		MinLength     *integer        `json:"minLength,omitempty"`
		MaxLength     *integer        `json:"maxLength,omitempty"`
		MinItems      *integer        `json:"minItems,omitempty"`
		MaxItems      *integer        `json:"maxItems,omitempty"`
		MinProperties *integer        `json:"minProperties,omitempty"`
		MaxProperties *integer        `json:"maxProperties,omitempty"`

		*schemaWithoutMethods
	}{
		schemaWithoutMethods: (*schemaWithoutMethods)(s),
	}
	if err := unmarshalStructWithMap(data, &ms, "Extra"); err != nil {
		return err
	}

	if len(ms.Type) > 0 {
		var err error
		switch ms.Type[0] {
		case '"':
			err = json.Unmarshal(ms.Type, &s.Type)
		case '[':
			err = json.Unmarshal(ms.Type, &s.Types)
		default:
			err = errors.Errorf(`invalid value for "type": %s`, ms.Type)
		}
		if err != nil {
			return err
		}
	}

	// A null const unmarshals into a nil *any, so it is set by hand.
	if len(ms.Const) > 0 {
		if bytes.Equal(ms.Const, []byte("null")) {
			s.Const = new(any)
		} else if err := json.Unmarshal(ms.Const, &s.Const); err != nil {
			return errors.Wrap(err, "const")
		}
	}

	for _, f := range []struct {
		dst **int
		src *integer
	}{
		{&s.MinLength, ms.MinLength},
		{&s.MaxLength, ms.MaxLength},
		{&s.MinItems, ms.MinItems},
		{&s.MaxItems, ms.MaxItems},
		{&s.MinProperties, ms.MinProperties},
		{&s.MaxProperties, ms.MaxProperties},
	} {
		if f.src != nil {
			*f.dst = Ptr(int(*f.src))
		}
	}

	if s.Properties != nil {
		s.PropertyOrder = objectKeyOrder(data, "properties")
	}
	return nil
}
