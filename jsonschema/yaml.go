// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"encoding/json"
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MarshalYAML implements yaml.Marshaler. Keywords are written in the same
// order as MarshalJSON writes them.
func (s Schema) MarshalYAML() (any, error) {
	if err := s.basicChecks(); err != nil {
		return nil, err
	}
	if b, ok := s.boolForm(); ok {
		return b, nil
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value any) error {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return errors.Wrapf(err, "encoding %s", key)
		}
		node.Content = append(node.Content, strNode(key), &v)
		return nil
	}

	for _, key := range keywordOrder {
		var err error
		switch key {
		case "type":
			if t := s.typeValue(); t != nil {
				err = add(key, t)
			}
		case "properties":
			if s.Properties != nil {
				err = add(key, propertiesNode{s.Properties, s.PropertyOrder})
			}
		default:
			if v, ok := s.Keyword(key); ok {
				err = add(key, v)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	for _, k := range slices.Sorted(maps.Keys(s.Extra)) {
		if IsKeyword(k) {
			return nil, errors.Errorf("Extra key %q duplicates a struct field", k)
		}
		if err := add(k, s.Extra[k]); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// propertiesNode marshals a properties map in rendering order.
type propertiesNode orderedProperties

func (p propertiesNode) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range propertyNames(p.props, p.order) {
		var v yaml.Node
		if err := v.Encode(p.props[name]); err != nil {
			return nil, errors.Wrapf(err, "property %s", name)
		}
		node.Content = append(node.Content, strNode(name), &v)
	}
	return node, nil
}

// mapping yields the key and value nodes of a YAML mapping in document order.
func mapping(node *yaml.Node) iter.Seq2[string, *yaml.Node] {
	return func(yield func(string, *yaml.Node) bool) {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if !yield(node.Content[i].Value, node.Content[i+1]) {
				return
			}
		}
	}
}

// UnmarshalYAML implements yaml.Unmarshaler. It accepts what MarshalYAML
// writes: a boolean or a mapping.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case node.Kind == yaml.ScalarNode && node.Tag == "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*s = boolSchema(b)
		return nil
	case node.Kind != yaml.MappingNode:
		return errors.Errorf("line %d: a schema must be a mapping or a boolean", node.Line)
	}

	*s = Schema{}
	v := reflect.ValueOf(s).Elem()
	for key, value := range mapping(node) {
		var err error
		switch key {
		case "type":
			err = s.unmarshalTypeYAML(value)

		case "properties":
			if value.Kind != yaml.MappingNode {
				return errors.Errorf("line %d: properties must be a mapping", value.Line)
			}
			s.Properties = make(map[string]*Schema, len(value.Content)/2)
			for name, prop := range mapping(value) {
				var ps Schema
				if err := prop.Decode(&ps); err != nil {
					return errors.Wrapf(err, "property %s", name)
				}
				s.Properties[name] = &ps
				s.PropertyOrder = append(s.PropertyOrder, name)
			}

		case "default":
			var val any
			if err = value.Decode(&val); err == nil {
				s.Default, err = json.Marshal(val)
			}

		case "const":
			var val any
			if err = value.Decode(&val); err == nil {
				s.Const = &val
			}

		default:
			sf, ok := schemaFieldMap[key]
			if !ok {
				var val any
				if err := value.Decode(&val); err != nil {
					return errors.Wrapf(err, "decoding %s", key)
				}
				if s.Extra == nil {
					s.Extra = map[string]any{}
				}
				s.Extra[key] = val
				continue
			}
			err = value.Decode(v.FieldByIndex(sf.Index).Addr().Interface())
		}
		if err != nil {
			return errors.Wrapf(err, "decoding %s", key)
		}
	}
	return nil
}

func (s *Schema) unmarshalTypeYAML(value *yaml.Node) error {
	switch {
	case value.Kind == yaml.ScalarNode && value.Tag == "!!str":
		s.Type = value.Value
		return nil
	case value.Kind == yaml.SequenceNode:
		return value.Decode(&s.Types)
	}
	return errors.Errorf("line %d: type must be a string or an array of strings", value.Line)
}

// strNode returns a string scalar. The explicit tag makes the encoder quote
// names such as "true" or "1" that would otherwise read back as other types.
func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
