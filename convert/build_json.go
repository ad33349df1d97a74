// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package convert

import (
	"maps"
	"slices"

	"github.com/pkg/errors"

	"github.com/dacolabs/datamodel-go/jsonschema"
	"github.com/dacolabs/datamodel-go/schemamodel"
)

// BuildJSONSchema converts a node list, as produced by BuildUISchema or
// SchemaModel.AsArray, back into a schema document.
func BuildJSONSchema(nodes []schemamodel.UiSchemaNode) (*jsonschema.Schema, error) {
	m, err := schemamodel.FromArray(nodes)
	if err != nil {
		return nil, err
	}
	b := jsonBuilder{m}
	s, err := b.schema(m.RootNode())
	if err != nil {
		return nil, err
	}
	for _, def := range m.Definitions() {
		ds, err := b.schema(def)
		if err != nil {
			return nil, err
		}
		if s.Defs == nil {
			s.Defs = map[string]*jsonschema.Schema{}
		}
		s.Defs[schemamodel.NameOf(def.Pointer())] = ds
	}
	return s, nil
}

type jsonBuilder struct {
	m *schemamodel.SchemaModel
}

func (b jsonBuilder) schema(n schemamodel.UiSchemaNode) (*jsonschema.Schema, error) {
	base := n.Base()
	body := &jsonschema.Schema{}
	nillable := base.IsNillable

	switch n := n.(type) {
	case *schemamodel.FieldNode:
		if !n.ImplicitType {
			body.Type = string(n.FieldType)
		}
		body.Enum = slices.Clone(n.Enum)
		for _, c := range n.Children {
			if schemamodel.CategoryOf(c) != schemamodel.KeywordProperties {
				continue
			}
			child, err := b.m.Node(c)
			if err != nil {
				return nil, err
			}
			cs, err := b.schema(child)
			if err != nil {
				return nil, err
			}
			name := schemamodel.NameOf(c)
			if body.Properties == nil {
				body.Properties = map[string]*jsonschema.Schema{}
			}
			body.Properties[name] = cs
			body.PropertyOrder = append(body.PropertyOrder, name)
			if child.Base().IsRequired {
				body.Required = append(body.Required, name)
			}
		}
		if nillable && !base.IsArray && !n.ImplicitType && n.FieldType != schemamodel.FieldTypeNull {
			body.Type = ""
			body.Types = []string{string(n.FieldType), "null"}
		}
	case *schemamodel.CombinationNode:
		items := []*jsonschema.Schema{}
		for _, c := range n.Children {
			child, err := b.m.Node(c)
			if err != nil {
				return nil, err
			}
			cs, err := b.schema(child)
			if err != nil {
				return nil, err
			}
			items = append(items, cs)
		}
		switch n.CombinationType {
		case schemamodel.AllOf:
			body.AllOf = items
		case schemamodel.AnyOf:
			body.AnyOf = items
		case schemamodel.OneOf:
			body.OneOf = items
		}
		// The null item carries nillability.
		nillable = false
	case *schemamodel.ReferenceNode:
		body.Ref = n.Reference
	}

	outer := body
	if base.IsArray {
		outer = &jsonschema.Schema{Type: "array", Items: body}
		if nillable {
			outer.Type = ""
			outer.Types = []string{"array", "null"}
		}
	}
	outer.Title = base.Title
	outer.Description = base.Description
	outer.Default = slices.Clone(base.Default)

	for _, k := range slices.Sorted(maps.Keys(base.Restrictions)) {
		target := body
		if base.IsArray && schemamodel.IsArrayKeyword(k) {
			target = outer
		}
		if err := target.SetKeyword(k, base.Restrictions[k]); err != nil {
			return nil, errors.Wrapf(err, "%s", n.Pointer())
		}
	}
	if err := setCustom(body, base.Custom); err != nil {
		return nil, errors.Wrapf(err, "%s", n.Pointer())
	}
	if err := setCustom(outer, base.ArrayCustom); err != nil {
		return nil, errors.Wrapf(err, "%s: array schema", n.Pointer())
	}
	return outer, nil
}

// setCustom writes custom keywords into s. Those with a Schema field are set
// through it and the rest go to Extra.
func setCustom(s *jsonschema.Schema, custom map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(custom)) {
		v := custom[k]
		if schemamodel.IsStructuralKeyword(k) {
			return errors.Wrapf(ErrUnsupported, "custom keyword %q", k)
		}
		if jsonschema.IsKeyword(k) {
			if err := s.SetKeyword(k, v); err != nil {
				return err
			}
			continue
		}
		if s.Extra == nil {
			s.Extra = map[string]any{}
		}
		s.Extra[k] = v
	}
	return nil
}
