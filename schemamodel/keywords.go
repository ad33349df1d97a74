// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/dacolabs/datamodel-go/jsonschema"
)

// Keywords held by node structure or by NodeBase fields.
var structuralKeywords = map[string]bool{
	"$defs":       true,
	"$ref":        true,
	"allOf":       true,
	"anyOf":       true,
	"default":     true,
	"definitions": true,
	"description": true,
	"items":       true,
	"oneOf":       true,
	"properties":  true,
	"required":    true,
	"title":       true,
	"type":        true,
}

// Restrictions that apply to the array schema rather than to its items.
var arrayKeywords = []string{"maxItems", "minItems", "uniqueItems"}

// IsArrayKeyword reports whether the restriction k constrains an array
// rather than its items.
func IsArrayKeyword(k string) bool { return slices.Contains(arrayKeywords, k) }

// IsStructuralKeyword reports whether the schema keyword k is represented by
// the shape of the model or by a NodeBase field, so that it can be neither a
// restriction nor a custom keyword.
func IsStructuralKeyword(k string) bool { return structuralKeywords[k] }

// checkRestriction reports whether value may be stored as the restriction k
// of n. A nil value is a removal and is only checked by name.
func checkRestriction(n UiSchemaNode, k string, value any) error {
	if !jsonschema.IsKeyword(k) || IsStructuralKeyword(k) {
		return errors.Wrapf(ErrInvalidOperation, "%q is not a restriction keyword", k)
	}
	if _, ok := n.(*FieldNode); ok && k == "enum" {
		return errors.Wrap(ErrInvalidOperation, "the enum of a field is set with SetEnum")
	}
	if value == nil {
		return nil
	}
	var scratch jsonschema.Schema
	if err := scratch.SetKeyword(k, value); err != nil {
		return errors.Wrapf(ErrInvalidOperation, "restriction %s: %v", k, err)
	}
	return nil
}

// checkCustom reports whether value may be stored as the custom keyword k.
// Custom keywords that name a schema keyword must fit it.
func checkCustom(n UiSchemaNode, k string, value any) error {
	if IsStructuralKeyword(k) {
		return errors.Wrapf(ErrInvalidOperation, "%q is a structural keyword", k)
	}
	if _, ok := n.(*FieldNode); ok && k == "enum" {
		return errors.Wrap(ErrInvalidOperation, "the enum of a field is set with SetEnum")
	}
	if !jsonschema.IsKeyword(k) {
		return nil
	}
	var scratch jsonschema.Schema
	if err := scratch.SetKeyword(k, value); err != nil {
		return errors.Wrapf(ErrInvalidOperation, "custom keyword %s: %v", k, err)
	}
	return nil
}
