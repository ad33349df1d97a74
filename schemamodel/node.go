// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/pkg/errors"
)

// ObjectKind discriminates the UiSchemaNode variants.
type ObjectKind string

const (
	KindField       ObjectKind = "field"
	KindCombination ObjectKind = "combination"
	KindReference   ObjectKind = "reference"
)

// FieldType is the JSON type of a field node.
type FieldType string

const (
	FieldTypeObject  FieldType = "object"
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeNull    FieldType = "null"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeObject, FieldTypeString, FieldTypeInteger, FieldTypeNumber, FieldTypeBoolean, FieldTypeNull:
		return true
	}
	return false
}

// CombinationKind is the combinator keyword of a combination node.
type CombinationKind string

const (
	AllOf CombinationKind = "allOf"
	AnyOf CombinationKind = "anyOf"
	OneOf CombinationKind = "oneOf"
)

// Valid reports whether k is a combinator keyword.
func (k CombinationKind) Valid() bool {
	return k == AllOf || k == AnyOf || k == OneOf
}

// NodeBase holds the attributes shared by every node.
type NodeBase struct {
	SchemaPointer string          `json:"schemaPointer"`
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description,omitempty"`
	IsRequired    bool            `json:"isRequired"`
	IsArray       bool            `json:"isArray"`
	IsNillable    bool            `json:"isNillable"`
	Default       json.RawMessage `json:"default,omitempty"`
	// Custom holds keywords the model does not interpret. For an array they
	// belong to the items.
	Custom map[string]any `json:"custom,omitempty"`
	// ArrayCustom holds the uninterpreted keywords of the array schema
	// itself. It is only set when IsArray is.
	ArrayCustom map[string]any `json:"arrayCustom,omitempty"`
	// Restrictions holds type-specific constraints keyed by keyword,
	// such as minLength or pattern.
	Restrictions map[string]any `json:"restrictions,omitempty"`
}

// Base returns the shared attributes of the node.
func (b *NodeBase) Base() *NodeBase { return b }

// Pointer returns the node's structural pointer.
func (b *NodeBase) Pointer() string { return b.SchemaPointer }

func (b NodeBase) clone() NodeBase {
	b.Default = slices.Clone(b.Default)
	b.Custom = maps.Clone(b.Custom)
	b.ArrayCustom = maps.Clone(b.ArrayCustom)
	b.Restrictions = maps.Clone(b.Restrictions)
	return b
}

// A UiSchemaNode is one node of the schema model: a *FieldNode,
// a *CombinationNode or a *ReferenceNode.
//
// Nodes returned by a SchemaModel are owned by it. Change them only through
// the model's operations.
type UiSchemaNode interface {
	Base() *NodeBase
	Pointer() string
	Kind() ObjectKind
	sealed()
}

// FieldNode is a scalar or object field.
type FieldNode struct {
	NodeBase
	FieldType FieldType `json:"fieldType"`
	// ImplicitType is set when the document states no type keyword.
	ImplicitType bool     `json:"implicitType,omitempty"`
	Enum         []any    `json:"enum,omitempty"`
	Children     []string `json:"children"`
}

// CombinationNode is an allOf, anyOf or oneOf node. Its children are positional.
type CombinationNode struct {
	NodeBase
	CombinationType CombinationKind `json:"combinationType"`
	Children        []string        `json:"children"`
}

// ReferenceNode points at a root $defs entry.
type ReferenceNode struct {
	NodeBase
	Reference string `json:"reference"`
}

func (*FieldNode) Kind() ObjectKind       { return KindField }
func (*CombinationNode) Kind() ObjectKind { return KindCombination }
func (*ReferenceNode) Kind() ObjectKind   { return KindReference }

func (*FieldNode) sealed()       {}
func (*CombinationNode) sealed() {}
func (*ReferenceNode) sealed()   {}

// NewFieldNode returns a field node of the given type with no children.
func NewFieldNode(t FieldType) *FieldNode {
	return &FieldNode{FieldType: t, Children: []string{}}
}

// NewCombinationNode returns a combination node with no children.
func NewCombinationNode(k CombinationKind) *CombinationNode {
	return &CombinationNode{CombinationType: k, Children: []string{}}
}

// NewReferenceNode returns a node referring to the definition at reference.
func NewReferenceNode(reference string) *ReferenceNode {
	return &ReferenceNode{Reference: reference}
}

// CloneNode returns a deep copy of n.
func CloneNode(n UiSchemaNode) UiSchemaNode {
	switch n := n.(type) {
	case *FieldNode:
		c := *n
		c.NodeBase = n.NodeBase.clone()
		c.Enum = slices.Clone(n.Enum)
		c.Children = slices.Clone(n.Children)
		return &c
	case *CombinationNode:
		c := *n
		c.NodeBase = n.NodeBase.clone()
		c.Children = slices.Clone(n.Children)
		return &c
	case *ReferenceNode:
		c := *n
		c.NodeBase = n.NodeBase.clone()
		return &c
	}
	panic(fmt.Sprintf("schemamodel: unknown node type %T", n))
}

// childList returns a pointer to the children of n, or nil if n cannot have children.
func childList(n UiSchemaNode) *[]string {
	switch n := n.(type) {
	case *FieldNode:
		return &n.Children
	case *CombinationNode:
		return &n.Children
	}
	return nil
}

// Children returns the child pointers of n; reference nodes have none.
func Children(n UiSchemaNode) []string {
	if l := childList(n); l != nil {
		return *l
	}
	return nil
}

// IsObject reports whether n is an object field.
func IsObject(n UiSchemaNode) bool {
	f, ok := n.(*FieldNode)
	return ok && f.FieldType == FieldTypeObject
}

// canHaveChildren reports whether n may act as a parent.
func canHaveChildren(n UiSchemaNode) bool {
	_, isCombination := n.(*CombinationNode)
	return isCombination || IsObject(n)
}

func (n *FieldNode) MarshalJSON() ([]byte, error) {
	type alias FieldNode
	return json.Marshal(struct {
		ObjectKind ObjectKind `json:"objectKind"`
		*alias
	}{KindField, (*alias)(n)})
}

func (n *CombinationNode) MarshalJSON() ([]byte, error) {
	type alias CombinationNode
	return json.Marshal(struct {
		ObjectKind ObjectKind `json:"objectKind"`
		*alias
	}{KindCombination, (*alias)(n)})
}

func (n *ReferenceNode) MarshalJSON() ([]byte, error) {
	type alias ReferenceNode
	return json.Marshal(struct {
		ObjectKind ObjectKind `json:"objectKind"`
		*alias
	}{KindReference, (*alias)(n)})
}

// MarshalNodes encodes a flat node list.
func MarshalNodes(nodes []UiSchemaNode) ([]byte, error) {
	return json.Marshal(nodes)
}

// UnmarshalNodes decodes a flat node list written by MarshalNodes.
func UnmarshalNodes(data []byte) ([]UiSchemaNode, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.Wrap(err, "decoding node list")
	}
	nodes := make([]UiSchemaNode, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			ObjectKind ObjectKind `json:"objectKind"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return nil, errors.Wrapf(err, "decoding node %d", i)
		}
		var n UiSchemaNode
		switch head.ObjectKind {
		case KindField:
			n = &FieldNode{}
		case KindCombination:
			n = &CombinationNode{}
		case KindReference:
			n = &ReferenceNode{}
		default:
			return nil, errors.Errorf("node %d: unknown objectKind %q", i, head.ObjectKind)
		}
		if err := json.Unmarshal(raw, n); err != nil {
			return nil, errors.Wrapf(err, "decoding node %d", i)
		}
		if l := childList(n); l != nil && *l == nil {
			*l = []string{}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
