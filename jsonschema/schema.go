// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package jsonschema holds the JSON Schema document type that data models are
// read from and written to.
package jsonschema

import (
	"cmp"
	"encoding/json"
	"maps"
	"math"
	"reflect"
	"slices"

	"github.com/pkg/errors"
)

// A Schema is a JSON schema object as used by data models.
//
// Only the keywords that data models use have their own fields. Any other
// keyword survives a round trip through Extra.
//
// Since this struct is a Go representation of a JSON value, it inherits JSON's
// distinction between nil and empty. Nil slices and maps are considered absent,
// but empty ones are present. For example, a Schema with Properties set to an
// empty map marshals with "properties":{}.
//
// Fields are marshaled in declaration order, after "type" and "properties".
type Schema struct {
	// Structure. These keywords decide the shape of a data model.
	Schema string `json:"$schema,omitempty"`
	ID     string `json:"$id,omitempty"`
	Ref    string `json:"$ref,omitempty"`
	// Use Type for a single type, or Types for multiple types; never both.
	Type        string             `json:"-"`
	Types       []string           `json:"-"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	AllOf       []*Schema          `json:"allOf,omitempty"`
	AnyOf       []*Schema          `json:"anyOf,omitempty"`
	OneOf       []*Schema          `json:"oneOf,omitempty"`
	Defs        map[string]*Schema `json:"$defs,omitempty"`
	Definitions map[string]*Schema `json:"definitions,omitempty"`

	// Annotations.
	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Comment     string          `json:"$comment,omitempty"`
	Default     json.RawMessage `json:"default,omitempty"`
	Examples    []any           `json:"examples,omitempty"`
	Deprecated  bool            `json:"deprecated,omitempty"`
	ReadOnly    bool            `json:"readOnly,omitempty"`
	WriteOnly   bool            `json:"writeOnly,omitempty"`

	// Restrictions, grouped by the type they apply to.
	Enum []any `json:"enum,omitempty"`
	// Const is *any because a JSON null (Go nil) is a valid value.
	Const *any `json:"const,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Format    string `json:"format,omitempty"`

	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`

	MinItems    *int `json:"minItems,omitempty"`
	MaxItems    *int `json:"maxItems,omitempty"`
	UniqueItems bool `json:"uniqueItems,omitempty"`

	MinProperties        *int    `json:"minProperties,omitempty"`
	MaxProperties        *int    `json:"maxProperties,omitempty"`
	AdditionalProperties *Schema `json:"additionalProperties,omitempty"`
	Not                  *Schema `json:"not,omitempty"`

	// Extra holds the keywords that have no field.
	Extra map[string]any `json:"-"`

	// PropertyOrder records the ordering of properties for JSON and YAML rendering.
	//
	// Properties listed here are rendered first, in this order, followed by
	// the remaining properties in sorted order. Unmarshaling records the
	// document order of properties here.
	PropertyOrder []string `json:"-"`
}

// boolSchema returns the schema that the JSON boolean b stands for:
// the empty schema for true and {"not": {}} for false.
func boolSchema(b bool) Schema {
	if b {
		return Schema{}
	}
	return Schema{Not: &Schema{}}
}

// boolForm reports whether s is rendered as a JSON boolean, and which one.
func (s *Schema) boolForm() (value, ok bool) {
	switch {
	case reflect.DeepEqual(*s, Schema{}):
		return true, true
	case reflect.DeepEqual(*s, boolSchema(false)):
		return false, true
	}
	return false, false
}

// typeValue returns the value of the "type" keyword, or nil when it is absent.
func (s *Schema) typeValue() any {
	switch {
	case s.Type != "":
		return s.Type
	case s.Types != nil:
		return s.Types
	}
	return nil
}

// CloneSchemas returns a copy of s in which every sub-schema is copied too.
// Other slices and maps are shared, except PropertyOrder.
func (s *Schema) CloneSchemas() *Schema {
	if s == nil {
		return nil
	}
	c := *s
	c.PropertyOrder = slices.Clone(s.PropertyOrder)
	c.Items = s.Items.CloneSchemas()
	c.AdditionalProperties = s.AdditionalProperties.CloneSchemas()
	c.Not = s.Not.CloneSchemas()
	c.AllOf = cloneList(s.AllOf)
	c.AnyOf = cloneList(s.AnyOf)
	c.OneOf = cloneList(s.OneOf)
	c.Properties = cloneMap(s.Properties)
	c.Defs = cloneMap(s.Defs)
	c.Definitions = cloneMap(s.Definitions)
	return &c
}

func cloneList(list []*Schema) []*Schema {
	if list == nil {
		return nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		out[i] = s.CloneSchemas()
	}
	return out
}

func cloneMap(m map[string]*Schema) map[string]*Schema {
	if m == nil {
		return nil
	}
	out := make(map[string]*Schema, len(m))
	for k, s := range m {
		out[k] = s.CloneSchemas()
	}
	return out
}

func (s *Schema) basicChecks() error {
	if s.Type != "" && s.Types != nil {
		return errors.New("both Type and Types are set")
	}
	if s.Defs != nil && s.Definitions != nil {
		return errors.New("both Defs and Definitions are set")
	}
	seen := make(map[string]bool, len(s.PropertyOrder))
	for _, name := range s.PropertyOrder {
		if seen[name] {
			return errors.Errorf("duplicate property %q in PropertyOrder", name)
		}
		seen[name] = true
	}
	return nil
}

// propertyNames returns the keys of props: first those listed in order,
// then the rest sorted.
func propertyNames(props map[string]*Schema, order []string) []string {
	names := make([]string, 0, len(props))
	listed := make(map[string]bool, len(props))
	for _, name := range order {
		if _, ok := props[name]; ok && !listed[name] {
			names = append(names, name)
			listed[name] = true
		}
	}
	for _, name := range slices.Sorted(maps.Keys(props)) {
		if !listed[name] {
			names = append(names, name)
		}
	}
	return names
}

// OrderedPropertyNames returns the property names of s in rendering order.
func (s *Schema) OrderedPropertyNames() []string {
	return propertyNames(s.Properties, s.PropertyOrder)
}

type integer int32 // for the integer-valued fields of Schema

func (ip *integer) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return errors.New("not a number")
	}
	if f != math.Trunc(f) {
		return errors.Errorf("%s is not an integer value", data)
	}
	// Same range on 32-bit and 64-bit systems.
	if f < math.MinInt32 || f > math.MaxInt32 {
		return errors.Errorf("integer %s is out of range", data)
	}
	*ip = integer(f)
	return nil
}

// Ptr returns a pointer to a new variable whose value is x.
func Ptr[T any](x T) *T { return &x }

type structFieldInfo struct {
	sf       reflect.StructField
	jsonName string
}

var (
	// the visible fields of Schema that have a JSON name, sorted by that name
	schemaFieldInfos []structFieldInfo
	// map from JSON name to field
	schemaFieldMap = map[string]reflect.StructField{}
	// the order in which keywords are rendered
	keywordOrder = []string{"type", "properties"}
)

func init() {
	for _, sf := range reflect.VisibleFields(reflect.TypeFor[Schema]()) {
		info := fieldJSONInfo(sf)
		if info.omit {
			continue
		}
		schemaFieldInfos = append(schemaFieldInfos, structFieldInfo{sf, info.name})
		if info.name != "properties" {
			keywordOrder = append(keywordOrder, info.name)
		}
	}
	slices.SortFunc(schemaFieldInfos, func(i1, i2 structFieldInfo) int {
		return cmp.Compare(i1.jsonName, i2.jsonName)
	})
	for _, info := range schemaFieldInfos {
		schemaFieldMap[info.jsonName] = info.sf
	}
}
