// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import (
	"maps"
	"slices"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Validate checks the structural invariants of the model and returns all
// violations found, or nil.
func (m *SchemaModel) Validate() error {
	var result *multierror.Error
	add := func(err error) { result = multierror.Append(result, err) }

	root, ok := m.nodes[RootPointer]
	switch {
	case !ok:
		add(errors.Wrap(ErrNotFound, "root node"))
	case !IsObject(root):
		add(errors.Errorf("root node is a %s, not an object", root.Kind()))
	}

	listed := make(map[string]string)
	for _, p := range slices.Sorted(maps.Keys(m.nodes)) {
		n := m.nodes[p]
		if n.Pointer() != p {
			add(errors.Errorf("node stored at %q has pointer %q", p, n.Pointer()))
		}
		if b := n.Base(); !b.IsArray && b.ArrayCustom != nil {
			add(errors.Errorf("%q has array keywords but is not an array", p))
		}
		if _, isRef := n.(*ReferenceNode); isRef && n.Base().IsNillable && !n.Base().IsArray {
			add(errors.Errorf("reference %q is nillable but not an array", p))
		}
		c, isCombination := n.(*CombinationNode)
		for i, child := range Children(n) {
			if prev, dup := listed[child]; dup {
				add(errors.Errorf("%q is listed by both %q and %q", child, prev, p))
				continue
			}
			listed[child] = p
			if !m.HasNode(child) {
				add(errors.Wrapf(ErrNotFound, "child %q of %q", child, p))
			}
			if ParentPointer(child) != p {
				add(errors.Errorf("child %q is not located under %q", child, p))
			}
			switch cat := CategoryOf(child); {
			case isCombination:
				if cat != string(c.CombinationType) || NameOf(child) != strconv.Itoa(i) {
					add(errors.Errorf("combination child %q of %q is not at position %d", child, p, i))
				}
			case cat == KeywordDefinitions && p != RootPointer:
				add(errors.Errorf("definition %q is not a root child", child))
			case cat != KeywordProperties && cat != KeywordDefinitions:
				add(errors.Errorf("child %q of field %q has category %q", child, p, cat))
			}
		}
		if ref, ok := n.(*ReferenceNode); ok {
			switch {
			case !IsTopLevelDefinitionPointer(ref.Reference):
				add(errors.Wrapf(ErrInvalidReference, "%q at %q", ref.Reference, p))
			case !m.HasNode(ref.Reference):
				add(errors.Wrapf(ErrNotFound, "reference %q at %q", ref.Reference, p))
			}
		}
	}
	for _, p := range slices.Sorted(maps.Keys(m.nodes)) {
		if _, ok := listed[p]; !ok && p != RootPointer {
			add(errors.Errorf("%q is not listed by any parent", p))
		}
	}
	if ok && IsObject(root) {
		for _, d := range m.Definitions() {
			if m.isCyclic(d.Pointer()) {
				add(errors.Wrapf(ErrCircularReference, "definition %q", d.Pointer()))
			}
		}
	}
	return result.ErrorOrNil()
}
