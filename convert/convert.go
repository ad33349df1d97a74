// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package convert maps JSON Schema documents to schema model node lists
// and back.
//
// An array is a single node with IsArray set. Its items schema supplies the
// node's body: type, children, restrictions and custom keywords. The array
// schema itself contributes the title, description, default, the item-count
// restrictions and nillability.
//
// Custom keywords of the array schema itself are kept in ArrayCustom.
// Annotations on the items schema are not supported.
//
// A nillable field is written as a type list ending in "null". A combination
// is nillable when one of its items has type null.
//
// A reference or a combination cannot carry a type, properties, required or
// items next to it.
package convert

import (
	"errors"

	"github.com/dacolabs/datamodel-go/jsonschema"
)

// ErrUnsupported is returned for schema constructs the model cannot represent.
var ErrUnsupported = errors.New("unsupported schema construct")

// Keywords kept in NodeBase.Restrictions. All other keywords are custom.
var restrictionKeywords = map[string]bool{
	"additionalProperties": true,
	"const":                true,
	"exclusiveMaximum":     true,
	"exclusiveMinimum":     true,
	"format":               true,
	"maxItems":             true,
	"maxLength":            true,
	"maxProperties":        true,
	"maximum":              true,
	"minItems":             true,
	"minLength":            true,
	"minProperties":        true,
	"minimum":              true,
	"multipleOf":           true,
	"pattern":              true,
	"uniqueItems":          true,
}

var keywords = jsonschema.Keywords()
