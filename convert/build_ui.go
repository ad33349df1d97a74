// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package convert

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/dacolabs/datamodel-go/jsonschema"
	"github.com/dacolabs/datamodel-go/schemamodel"
)

// BuildUISchema converts a schema document into a flat node list, root
// first and in preorder. The root must be an object schema. Its $defs
// entries follow its properties in name order.
func BuildUISchema(root *jsonschema.Schema) ([]schemamodel.UiSchemaNode, error) {
	if root == nil {
		return nil, errors.New("nil schema")
	}
	var b uiBuilder
	n, err := b.build(root, schemamodel.RootPointer, true)
	if err != nil {
		return nil, err
	}
	rootNode, ok := n.(*schemamodel.FieldNode)
	if !ok || rootNode.FieldType != schemamodel.FieldTypeObject || rootNode.IsArray {
		return nil, errors.Wrap(ErrUnsupported, "the root must be an object schema")
	}
	for _, name := range slices.Sorted(maps.Keys(root.Defs)) {
		p := schemamodel.ChildPointer(schemamodel.RootPointer, false, schemamodel.KeywordDefinitions, name)
		if _, err := b.build(root.Defs[name], p, false); err != nil {
			return nil, err
		}
		rootNode.Children = append(rootNode.Children, p)
	}

	m, err := schemamodel.FromArray(b.nodes)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid schema model")
	}
	return b.nodes, nil
}

type uiBuilder struct {
	nodes []schemamodel.UiSchemaNode
}

// build converts s into the node at pointer, appends it and its
// descendants to b.nodes and returns it.
func (b *uiBuilder) build(s *jsonschema.Schema, pointer string, isRoot bool) (schemamodel.UiSchemaNode, error) {
	if s == nil {
		return nil, errors.Errorf("%s: nil schema", pointer)
	}
	if s.Definitions != nil {
		return nil, errors.Wrapf(ErrUnsupported, "%s: the definitions keyword, use $defs", pointer)
	}
	if s.Defs != nil && !isRoot {
		return nil, errors.Wrapf(ErrUnsupported, "%s: $defs below the root", pointer)
	}

	types, nillable, err := splitTypes(s)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", pointer)
	}
	body, isArray := s, false
	if types == "array" {
		isArray = true
		body = s.Items
		if body == nil {
			body = &jsonschema.Schema{}
		}
		if body.Defs != nil || body.Definitions != nil {
			return nil, errors.Wrapf(ErrUnsupported, "%s: definitions inside items", pointer)
		}
		types = ""
		if body.Type != "" || body.Types != nil {
			var itemNillable bool
			types, itemNillable, err = splitTypes(body)
			if err != nil {
				return nil, errors.Wrapf(err, "%s/items", pointer)
			}
			if itemNillable || types == "array" {
				return nil, errors.Wrapf(ErrUnsupported, "%s: nested or nillable array items", pointer)
			}
		}
	}

	if err := checkStructure(s, body, isArray); err != nil {
		return nil, errors.Wrapf(err, "%s", pointer)
	}
	n, err := newNode(body, types, pointer)
	if err != nil {
		return nil, err
	}
	if _, ok := n.(*schemamodel.CombinationNode); ok && isArray && nillable {
		return nil, errors.Wrapf(ErrUnsupported, "%s: nillable array of a combination", pointer)
	}
	base := n.Base()
	base.SchemaPointer = pointer
	base.Title = s.Title
	base.Description = s.Description
	base.Default = slices.Clone(s.Default)
	base.IsArray = isArray
	base.IsNillable = nillable
	_, isField := n.(*schemamodel.FieldNode)
	restrictions, custom, arrayCustom := map[string]any{}, map[string]any{}, map[string]any{}
	if isArray {
		collect(body, isField, func(k string) bool { return !schemamodel.IsArrayKeyword(k) }, restrictions, custom)
		collect(s, false, schemamodel.IsArrayKeyword, restrictions, arrayCustom)
	} else {
		collect(body, isField, func(string) bool { return true }, restrictions, custom)
	}
	if len(restrictions) > 0 {
		base.Restrictions = restrictions
	}
	if len(custom) > 0 {
		base.Custom = custom
	}
	if len(arrayCustom) > 0 {
		base.ArrayCustom = arrayCustom
	}
	b.nodes = append(b.nodes, n)

	childBase := pointer
	if isArray {
		childBase = schemamodel.MakePointer(pointer, schemamodel.KeywordItems)
	}
	switch n := n.(type) {
	case *schemamodel.FieldNode:
		for _, name := range body.OrderedPropertyNames() {
			p := schemamodel.ChildPointer(childBase, false, schemamodel.KeywordProperties, name)
			child, err := b.build(body.Properties[name], p, false)
			if err != nil {
				return nil, err
			}
			child.Base().IsRequired = slices.Contains(body.Required, name)
			n.Children = append(n.Children, p)
		}
	case *schemamodel.CombinationNode:
		for i, item := range combinationItems(body, n.CombinationType) {
			p := schemamodel.ChildPointer(childBase, false, string(n.CombinationType), strconv.Itoa(i))
			child, err := b.build(item, p, false)
			if err != nil {
				return nil, err
			}
			if f, ok := child.(*schemamodel.FieldNode); ok && f.FieldType == schemamodel.FieldTypeNull {
				n.IsNillable = true
			}
			n.Children = append(n.Children, p)
		}
	}
	return n, nil
}

// checkStructure rejects structural keywords that the node built from body
// would not keep. s is the schema itself and body the schema that supplies
// the node, which differs from s for an array.
func checkStructure(s, body *jsonschema.Schema, isArray bool) error {
	if isArray {
		if s.Ref != "" || s.Properties != nil || s.Required != nil || hasCombinator(s) {
			return errors.Wrap(ErrUnsupported, "structural keywords next to items")
		}
		if body.Title != "" || body.Description != "" || body.Default != nil {
			return errors.Wrap(ErrUnsupported, "annotations on array items")
		}
	}
	shaped := body.Type != "" || body.Types != nil || body.Properties != nil || body.Required != nil || body.Items != nil
	switch {
	case body.Ref != "" && (shaped || hasCombinator(body)):
		return errors.Wrap(ErrUnsupported, "$ref next to other structural keywords")
	case hasCombinator(body) && shaped:
		return errors.Wrap(ErrUnsupported, "combinator next to other structural keywords")
	case body.Items != nil:
		return errors.Wrap(ErrUnsupported, "items on a schema that is not an array")
	}
	for _, name := range body.Required {
		if _, ok := body.Properties[name]; !ok {
			return errors.Wrapf(ErrUnsupported, "required property %q is not defined", name)
		}
	}
	return nil
}

func hasCombinator(s *jsonschema.Schema) bool {
	return s.AllOf != nil || s.AnyOf != nil || s.OneOf != nil
}

// splitTypes returns the non-null type of s and whether null is allowed.
func splitTypes(s *jsonschema.Schema) (string, bool, error) {
	if s.Types == nil {
		return s.Type, false, nil
	}
	var rest []string
	nillable := false
	for _, t := range s.Types {
		if t == "null" {
			nillable = true
		} else {
			rest = append(rest, t)
		}
	}
	switch len(rest) {
	case 0:
		return "null", false, nil
	case 1:
		return rest[0], nillable, nil
	}
	return "", false, errors.Wrapf(ErrUnsupported, "type list %v", s.Types)
}

// newNode returns the node variant for body, whose non-null type is t.
func newNode(body *jsonschema.Schema, t, pointer string) (schemamodel.UiSchemaNode, error) {
	if body.Ref != "" {
		if !strings.HasPrefix(body.Ref, schemamodel.MakePointer(schemamodel.RootPointer, schemamodel.KeywordDefinitions)+"/") {
			return nil, errors.Wrapf(ErrUnsupported, "%s: reference %q outside $defs", pointer, body.Ref)
		}
		return schemamodel.NewReferenceNode(body.Ref), nil
	}
	var kinds []schemamodel.CombinationKind
	for _, k := range []schemamodel.CombinationKind{schemamodel.AllOf, schemamodel.AnyOf, schemamodel.OneOf} {
		if combinationItems(body, k) != nil {
			kinds = append(kinds, k)
		}
	}
	switch len(kinds) {
	case 0:
	case 1:
		return schemamodel.NewCombinationNode(kinds[0]), nil
	default:
		return nil, errors.Wrapf(ErrUnsupported, "%s: more than one combinator", pointer)
	}

	f := schemamodel.NewFieldNode(schemamodel.FieldType(t))
	f.Enum = slices.Clone(body.Enum)
	if t == "" {
		f.ImplicitType = true
		f.FieldType = implicitType(body)
	}
	if !f.FieldType.Valid() {
		return nil, errors.Wrapf(ErrUnsupported, "%s: type %q", pointer, t)
	}
	return f, nil
}

// implicitType guesses the field type of an untyped schema.
func implicitType(s *jsonschema.Schema) schemamodel.FieldType {
	if s.Properties == nil && len(s.Enum) > 0 {
		switch v := s.Enum[0].(type) {
		case string:
			return schemamodel.FieldTypeString
		case bool:
			return schemamodel.FieldTypeBoolean
		case float64:
			if v == float64(int64(v)) {
				return schemamodel.FieldTypeInteger
			}
			return schemamodel.FieldTypeNumber
		}
	}
	return schemamodel.FieldTypeObject
}

func combinationItems(s *jsonschema.Schema, k schemamodel.CombinationKind) []*jsonschema.Schema {
	switch k {
	case schemamodel.AllOf:
		return s.AllOf
	case schemamodel.AnyOf:
		return s.AnyOf
	case schemamodel.OneOf:
		return s.OneOf
	}
	return nil
}

// collect sorts the non-structural keywords of s into restrictions and
// custom keywords. A restriction for which keep reports false is custom, as
// are Extra keywords. The enum of a field is skipped.
func collect(s *jsonschema.Schema, isField bool, keep func(string) bool, restrictions, custom map[string]any) {
	for _, k := range keywords {
		if schemamodel.IsStructuralKeyword(k) || (k == "enum" && isField) {
			continue
		}
		v, ok := s.Keyword(k)
		if !ok {
			continue
		}
		if restrictionKeywords[k] && keep(k) {
			restrictions[k] = v
		} else {
			custom[k] = v
		}
	}
	for k, v := range s.Extra {
		custom[k] = v
	}
}
