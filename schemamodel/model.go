// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package schemamodel implements the editable node-map representation of a
// JSON Schema data model.
//
// A SchemaModel maps structural pointers (such as "#/properties/name" or
// "#/$defs/Address") to UiSchemaNodes. The root node's children hold both the
// root properties and the definitions. Every change goes through a named
// operation that checks the model's invariants first, so a rejected operation
// leaves the model untouched:
//
//   - every child pointer and every reference resolves to a node in the map;
//   - references point at root $defs entries and never form a cycle;
//   - siblings under a non-combination parent have distinct names.
//
// A definition can be reached through many references, so the structural
// pointer of a node inside a definition does not identify a position in the
// visual tree. [UniquePointer] builds pointers that do.
//
// A SchemaModel is not safe for concurrent use. Use [SchemaModel.DeepClone]
// for an independent copy.
package schemamodel

import (
	"maps"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// A SchemaModel is the node map of one schema document.
type SchemaModel struct {
	nodes map[string]UiSchemaNode
}

// NodePosition is an insertion point: an index into the children of the
// node at ParentPointer. A negative or out-of-range Index appends.
type NodePosition struct {
	ParentPointer string
	Index         int
}

// New returns a model holding only an empty object root.
func New() *SchemaModel {
	root := NewFieldNode(FieldTypeObject)
	root.SchemaPointer = RootPointer
	return &SchemaModel{nodes: map[string]UiSchemaNode{RootPointer: root}}
}

// FromArray builds a model from a flat node list. The nodes are copied.
func FromArray(nodes []UiSchemaNode) (*SchemaModel, error) {
	m := &SchemaModel{nodes: make(map[string]UiSchemaNode, len(nodes))}
	for _, n := range nodes {
		p := n.Pointer()
		if _, dup := m.nodes[p]; dup {
			return nil, errors.Errorf("duplicate schema pointer %q", p)
		}
		m.nodes[p] = CloneNode(n)
	}
	root, ok := m.nodes[RootPointer]
	if !ok {
		return nil, errors.Wrap(ErrNotFound, "root node")
	}
	if !IsObject(root) {
		return nil, errors.Wrapf(ErrInvalidParent, "root node is a %s", root.Kind())
	}
	return m, nil
}

// AsArray returns the nodes in preorder from the root. The nodes are owned
// by the model.
func (m *SchemaModel) AsArray() []UiSchemaNode {
	out := make([]UiSchemaNode, 0, len(m.nodes))
	seen := make(map[string]bool, len(m.nodes))
	var walk func(p string)
	walk = func(p string) {
		n, ok := m.nodes[p]
		if !ok || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, n)
		for _, c := range Children(n) {
			walk(c)
		}
	}
	walk(RootPointer)
	// Unreachable nodes only exist in models that fail Validate.
	for _, p := range slices.Sorted(maps.Keys(m.nodes)) {
		if !seen[p] {
			out = append(out, m.nodes[p])
		}
	}
	return out
}

// DeepClone returns a copy of m that shares no mutable state with it.
func (m *SchemaModel) DeepClone() *SchemaModel {
	c := &SchemaModel{nodes: make(map[string]UiSchemaNode, len(m.nodes))}
	for p, n := range m.nodes {
		c.nodes[p] = CloneNode(n)
	}
	return c
}

// Len returns the number of nodes.
func (m *SchemaModel) Len() int { return len(m.nodes) }

// Node returns the node at pointer.
func (m *SchemaModel) Node(pointer string) (UiSchemaNode, error) {
	n, ok := m.nodes[pointer]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", pointer)
	}
	return n, nil
}

// HasNode reports whether a node exists at pointer.
func (m *SchemaModel) HasNode(pointer string) bool {
	_, ok := m.nodes[pointer]
	return ok
}

// RootNode returns the root node.
func (m *SchemaModel) RootNode() *FieldNode {
	return m.nodes[RootPointer].(*FieldNode)
}

// ChildNodes returns the children of the node at pointer in list order.
func (m *SchemaModel) ChildNodes(pointer string) ([]UiSchemaNode, error) {
	n, err := m.Node(pointer)
	if err != nil {
		return nil, err
	}
	return m.resolve(Children(n))
}

func (m *SchemaModel) resolve(pointers []string) ([]UiSchemaNode, error) {
	out := make([]UiSchemaNode, 0, len(pointers))
	for _, p := range pointers {
		n, err := m.Node(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// RootChildren returns all children of the root: properties and definitions.
func (m *SchemaModel) RootChildren() []UiSchemaNode {
	out, _ := m.resolve(m.RootNode().Children)
	return out
}

// RootProperties returns the root children that are properties, the ones
// the visual tree shows.
func (m *SchemaModel) RootProperties() []UiSchemaNode {
	var out []UiSchemaNode
	for _, n := range m.RootChildren() {
		if !IsDefinitionPointer(n.Pointer()) {
			out = append(out, n)
		}
	}
	return out
}

// Definitions returns the root $defs entries in root-children order.
func (m *SchemaModel) Definitions() []UiSchemaNode {
	var out []UiSchemaNode
	for _, n := range m.RootChildren() {
		if IsTopLevelDefinitionPointer(n.Pointer()) {
			out = append(out, n)
		}
	}
	return out
}

// FinalNode follows references from the node at pointer until it reaches
// a field or combination node.
func (m *SchemaModel) FinalNode(pointer string) (UiSchemaNode, error) {
	seen := map[string]bool{}
	for {
		n, err := m.Node(pointer)
		if err != nil {
			return nil, err
		}
		ref, ok := n.(*ReferenceNode)
		if !ok {
			return n, nil
		}
		if seen[pointer] {
			return nil, errors.Wrapf(ErrCircularReference, "resolving %q", pointer)
		}
		seen[pointer] = true
		pointer = ref.Reference
	}
}

// ReferredNode returns the node ref points at.
func (m *SchemaModel) ReferredNode(ref *ReferenceNode) (UiSchemaNode, error) {
	return m.Node(ref.Reference)
}

// ReferringNodes returns the reference nodes pointing at pointer, sorted by
// their own pointers.
func (m *SchemaModel) ReferringNodes(pointer string) []*ReferenceNode {
	var out []*ReferenceNode
	for _, p := range slices.Sorted(maps.Keys(m.nodes)) {
		if ref, ok := m.nodes[p].(*ReferenceNode); ok && ref.Reference == pointer {
			out = append(out, ref)
		}
	}
	return out
}

// HasReferringNodes reports whether any reference node points at pointer.
func (m *SchemaModel) HasReferringNodes(pointer string) bool {
	for _, n := range m.nodes {
		if ref, ok := n.(*ReferenceNode); ok && ref.Reference == pointer {
			return true
		}
	}
	return false
}

// ParentNode returns the node whose children list pointer.
func (m *SchemaModel) ParentNode(pointer string) (UiSchemaNode, error) {
	if !m.HasNode(pointer) {
		return nil, errors.Wrapf(ErrNotFound, "%q", pointer)
	}
	parent := ParentPointer(pointer)
	if parent == "" {
		return nil, errors.Wrapf(ErrNotFound, "parent of %q", pointer)
	}
	return m.Node(parent)
}

// IsChildOfCombination reports whether the node at pointer is a
// positional child of a combination node.
func (m *SchemaModel) IsChildOfCombination(pointer string) bool {
	parent, err := m.ParentNode(pointer)
	if err != nil {
		return false
	}
	_, ok := parent.(*CombinationNode)
	return ok
}

// IndexOfChildNode returns the position of pointer in its parent's children.
func (m *SchemaModel) IndexOfChildNode(pointer string) (int, error) {
	parent, err := m.ParentNode(pointer)
	if err != nil {
		return -1, err
	}
	i := slices.Index(Children(parent), pointer)
	if i < 0 {
		return -1, errors.Wrapf(ErrNotFound, "%q in the children of %q", pointer, parent.Pointer())
	}
	return i, nil
}

// IsValidParent reports whether nodes can be added under pointer, which
// holds when its final node is an object field or a combination.
func (m *SchemaModel) IsValidParent(pointer string) bool {
	n, err := m.FinalNode(pointer)
	return err == nil && canHaveChildren(n)
}

// DoesNodeHaveChildWithName reports whether the final node of pointer has
// a property child called name.
func (m *SchemaModel) DoesNodeHaveChildWithName(pointer, name string) bool {
	n, err := m.FinalNode(pointer)
	if err != nil {
		return false
	}
	return m.HasNode(ChildPointer(n.Pointer(), n.Base().IsArray, KeywordProperties, name))
}

// SchemaPointerByUniquePointer returns the structural pointer of the node
// at the visual position u. It inverts [UniquePointer].
func (m *SchemaModel) SchemaPointerByUniquePointer(u string) (string, error) {
	p := strings.TrimPrefix(u, UniquePointerPrefix)
	if m.HasNode(p) {
		return p, nil
	}
	steps, ok := parsePointer(p)
	if !ok || len(steps) == 0 {
		return "", errors.Wrapf(ErrNotFound, "unique pointer %q", u)
	}
	last := steps[len(steps)-1]
	parentSteps := steps[:len(steps)-1]
	if n := len(parentSteps); n > 0 && parentSteps[n-1].category == KeywordItems {
		parentSteps = parentSteps[:n-1]
	}
	if last.category == KeywordItems {
		return "", errors.Wrapf(ErrNotFound, "unique pointer %q", u)
	}
	parent, err := m.SchemaPointerByUniquePointer(formatSteps(parentSteps))
	if err != nil {
		return "", err
	}
	final, err := m.FinalNode(parent)
	if err != nil {
		return "", err
	}
	candidate := MakePointer(childBase(final), last.category, last.name)
	if !m.HasNode(candidate) {
		return "", errors.Wrapf(ErrNotFound, "unique pointer %q", u)
	}
	return candidate, nil
}

// childBase returns the pointer the children of n are listed under.
func childBase(n UiSchemaNode) string {
	if n.Base().IsArray {
		return MakePointer(n.Pointer(), KeywordItems)
	}
	return n.Pointer()
}
