// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import (
	"maps"
	"reflect"
	"slices"
	"strconv"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
)

// pendingName is the position given to a combination child before the
// combination is re-indexed.
const pendingName = "-"

// AddNode inserts a copy of node under the final node of target.ParentPointer
// and returns the inserted node. Under a combination, name is ignored and the
// child is named by its position. Any children of node are dropped.
func (m *SchemaModel) AddNode(name string, node UiSchemaNode, target NodePosition) (UiSchemaNode, error) {
	parent, err := m.resolveParent(target.ParentPointer)
	if err != nil {
		return nil, err
	}
	pointer, err := m.newChildPointer(parent, KeywordProperties, name, "")
	if err != nil {
		return nil, err
	}
	if ref, ok := node.(*ReferenceNode); ok {
		if err := m.checkReference(ref.Reference, parent.Pointer()); err != nil {
			return nil, err
		}
	}
	return m.insert(parent, CloneNode(node), pointer, target.Index), nil
}

// AddField adds an empty field of type t.
func (m *SchemaModel) AddField(name string, t FieldType, target NodePosition) (*FieldNode, error) {
	if !t.Valid() {
		return nil, errors.Wrapf(ErrInvalidOperation, "unknown field type %q", t)
	}
	n, err := m.AddNode(name, NewFieldNode(t), target)
	if err != nil {
		return nil, err
	}
	return n.(*FieldNode), nil
}

// AddCombination adds an empty combination of kind k.
func (m *SchemaModel) AddCombination(name string, k CombinationKind, target NodePosition) (*CombinationNode, error) {
	if !k.Valid() {
		return nil, errors.Wrapf(ErrInvalidOperation, "unknown combination kind %q", k)
	}
	n, err := m.AddNode(name, NewCombinationNode(k), target)
	if err != nil {
		return nil, err
	}
	return n.(*CombinationNode), nil
}

// AddReference adds a node referring to the definition at reference.
func (m *SchemaModel) AddReference(name, reference string, target NodePosition) (*ReferenceNode, error) {
	n, err := m.AddNode(name, NewReferenceNode(reference), target)
	if err != nil {
		return nil, err
	}
	return n.(*ReferenceNode), nil
}

// AddType adds a copy of node as the root definition called name.
func (m *SchemaModel) AddType(name string, node UiSchemaNode) (UiSchemaNode, error) {
	root := m.RootNode()
	pointer, err := m.newChildPointer(root, KeywordDefinitions, name, "")
	if err != nil {
		return nil, err
	}
	if ref, ok := node.(*ReferenceNode); ok {
		if err := m.checkReference(ref.Reference, pointer); err != nil {
			return nil, err
		}
	}
	n := CloneNode(node)
	n.Base().IsRequired = false
	return m.insert(root, n, pointer, -1), nil
}

// DeleteNode removes the node at pointer and everything below it.
// A definition that is still referenced from outside the removed subtree
// cannot be deleted.
func (m *SchemaModel) DeleteNode(pointer string) error {
	if pointer == RootPointer {
		return errors.Wrap(ErrInvalidOperation, "cannot delete the root node")
	}
	parent, err := m.ParentNode(pointer)
	if err != nil {
		return err
	}
	inside := make(map[string]bool)
	for _, p := range m.subtree(pointer) {
		inside[p] = true
	}
	for _, p := range slices.Sorted(maps.Keys(m.nodes)) {
		if ref, ok := m.nodes[p].(*ReferenceNode); ok && !inside[p] && inside[ref.Reference] {
			return errors.Wrapf(ErrDefinitionInUse, "%q is referenced by %q", ref.Reference, p)
		}
	}
	m.detach(pointer)
	l := childList(parent)
	*l = slices.DeleteFunc(*l, func(c string) bool { return c == pointer })
	if c, ok := parent.(*CombinationNode); ok {
		m.reindex(c)
	}
	return nil
}

// ConvertToDefinition moves the subtree at pointer into a new root
// definition and leaves a reference to it in its place. The reference keeps
// the array and required flags of the original node, and the keywords of
// its array schema.
func (m *SchemaModel) ConvertToDefinition(pointer string) (*ReferenceNode, error) {
	if pointer == RootPointer {
		return nil, errors.Wrap(ErrInvalidOperation, "cannot convert the root node")
	}
	n, err := m.Node(pointer)
	if err != nil {
		return nil, err
	}
	if _, ok := n.(*ReferenceNode); ok {
		return nil, errors.Wrapf(ErrInvalidOperation, "%q is already a reference", pointer)
	}
	if IsTopLevelDefinitionPointer(pointer) {
		return nil, errors.Wrapf(ErrInvalidOperation, "%q is already a definition", pointer)
	}
	name := m.GenerateUniqueDefinitionName(NameOf(pointer))
	defPointer := ChildPointer(RootPointer, false, KeywordDefinitions, name)

	b := n.Base()
	ref := NewReferenceNode(defPointer)
	ref.SchemaPointer = pointer
	ref.IsArray, ref.IsRequired = b.IsArray, b.IsRequired
	if b.IsArray {
		ref.ArrayCustom, b.ArrayCustom = b.ArrayCustom, nil
		// A nillable array field writes null on the array schema.
		if _, ok := n.(*FieldNode); ok {
			ref.IsNillable, b.IsNillable = b.IsNillable, false
		}
		for _, k := range arrayKeywords {
			if v, ok := b.Restrictions[k]; ok {
				if ref.Restrictions == nil {
					ref.Restrictions = map[string]any{}
				}
				ref.Restrictions[k] = v
				delete(b.Restrictions, k)
			}
		}
		if len(b.Restrictions) == 0 {
			b.Restrictions = nil
		}
	}
	b.IsArray, b.IsRequired = false, false

	m.relocate(pointer, defPointer)
	m.nodes[pointer] = ref
	root := m.RootNode()
	root.Children = append(root.Children, defPointer)
	return ref, nil
}

// MoveNode moves the node at pointer to target and returns it at its new
// pointer. target.Index counts positions after the node has been removed
// from its old parent. Definitions can only be reordered within the root.
func (m *SchemaModel) MoveNode(pointer string, target NodePosition) (UiSchemaNode, error) {
	if pointer == RootPointer {
		return nil, errors.Wrap(ErrInvalidOperation, "cannot move the root node")
	}
	oldParent, err := m.ParentNode(pointer)
	if err != nil {
		return nil, err
	}
	parent, err := m.resolveParent(target.ParentPointer)
	if err != nil {
		return nil, err
	}
	pp := parent.Pointer()
	if pp == pointer || IsDescendantPointer(pp, pointer) {
		return nil, errors.Wrapf(ErrInvalidParent, "cannot move %q into itself", pointer)
	}
	isDef := IsTopLevelDefinitionPointer(pointer)
	if isDef && pp != RootPointer {
		return nil, errors.Wrapf(ErrInvalidParent, "definition %q can only be reordered within the root", pointer)
	}
	if !isDef && m.wouldCycle(pointer, pp) {
		return nil, errors.Wrapf(ErrCircularReference, "moving %q into %q", pointer, pp)
	}
	category := KeywordProperties
	if isDef {
		category = KeywordDefinitions
	}
	newPointer, err := m.newChildPointer(parent, category, NameOf(pointer), pointer)
	if err != nil {
		return nil, err
	}

	old := childList(oldParent)
	*old = slices.DeleteFunc(*old, func(c string) bool { return c == pointer })
	node := m.relocate(pointer, newPointer)
	l := childList(parent)
	*l = insertAt(*l, target.Index, newPointer)
	if c, ok := parent.(*CombinationNode); ok {
		m.reindex(c)
	}
	if c, ok := oldParent.(*CombinationNode); ok && oldParent != parent {
		m.reindex(c)
	}
	return node, nil
}

// SetPropertyName renames the property or definition at pointer. Renaming a
// definition updates the nodes that refer to it. callback, if non-nil,
// receives the new pointer.
func (m *SchemaModel) SetPropertyName(pointer, newName string, callback func(string)) (UiSchemaNode, error) {
	if pointer == RootPointer {
		return nil, errors.Wrap(ErrInvalidOperation, "cannot rename the root node")
	}
	if IsCombinationChildPointer(pointer) {
		return nil, errors.Wrapf(ErrInvalidOperation, "%q is named by its position", pointer)
	}
	parent, err := m.ParentNode(pointer)
	if err != nil {
		return nil, err
	}
	newPointer, err := m.newChildPointer(parent, CategoryOf(pointer), newName, pointer)
	if err != nil {
		return nil, err
	}
	if newPointer != pointer {
		m.relocate(pointer, newPointer)
		l := childList(parent)
		(*l)[slices.Index(*l, pointer)] = newPointer
	}
	if callback != nil {
		callback(newPointer)
	}
	return m.nodes[newPointer], nil
}

// SetRequired sets the required flag of the node at pointer.
func (m *SchemaModel) SetRequired(pointer string, required bool) error {
	n, err := m.Node(pointer)
	if err != nil {
		return err
	}
	n.Base().IsRequired = required
	return nil
}

// SetTitle sets the title of the node at pointer.
func (m *SchemaModel) SetTitle(pointer, title string) error {
	n, err := m.Node(pointer)
	if err != nil {
		return err
	}
	n.Base().Title = title
	return nil
}

// SetDescription sets the description of the node at pointer.
func (m *SchemaModel) SetDescription(pointer, description string) error {
	n, err := m.Node(pointer)
	if err != nil {
		return err
	}
	n.Base().Description = description
	return nil
}

// SetRef points the reference node at pointer to another definition.
func (m *SchemaModel) SetRef(pointer, reference string) error {
	n, err := m.Node(pointer)
	if err != nil {
		return err
	}
	ref, ok := n.(*ReferenceNode)
	if !ok {
		return errors.Wrapf(ErrInvalidOperation, "%q is a %s, not a reference", pointer, n.Kind())
	}
	if err := m.checkReference(reference, pointer); err != nil {
		return err
	}
	ref.Reference = reference
	return nil
}

// SetCombinationType changes the combinator of the combination at pointer.
func (m *SchemaModel) SetCombinationType(pointer string, k CombinationKind) error {
	c, err := m.combination(pointer)
	if err != nil {
		return err
	}
	if !k.Valid() {
		return errors.Wrapf(ErrInvalidOperation, "unknown combination kind %q", k)
	}
	c.CombinationType = k
	m.reindex(c)
	return nil
}

// ToggleArrayField flips the array flag of the node at pointer. Turning the
// flag off drops the custom keywords of the array schema, and the
// nillability of a reference.
func (m *SchemaModel) ToggleArrayField(pointer string) (UiSchemaNode, error) {
	if pointer == RootPointer {
		return nil, errors.Wrap(ErrInvalidOperation, "the root node cannot be an array")
	}
	n, err := m.Node(pointer)
	if err != nil {
		return nil, err
	}
	b := n.Base()
	b.IsArray = !b.IsArray
	if !b.IsArray {
		b.ArrayCustom = nil
		if _, ok := n.(*ReferenceNode); ok {
			b.IsNillable = false
		}
	}
	m.rebaseChildren(n, nil)
	return n, nil
}

// AddCombinationItem appends a null field to the combination at pointer
// and marks the combination nillable.
func (m *SchemaModel) AddCombinationItem(pointer string) (*FieldNode, error) {
	c, err := m.combination(pointer)
	if err != nil {
		return nil, err
	}
	item := m.insert(c, NewFieldNode(FieldTypeNull), MakePointer(childBase(c), string(c.CombinationType), pendingName), -1)
	c.IsNillable = true
	return item.(*FieldNode), nil
}

// SetNillable sets the nillable flag of the node at pointer. For a
// combination this adds or removes its null items. Only an array of
// references can be nillable.
func (m *SchemaModel) SetNillable(pointer string, nillable bool) error {
	n, err := m.Node(pointer)
	if err != nil {
		return err
	}
	if _, ok := n.(*ReferenceNode); ok && nillable && !n.Base().IsArray {
		return errors.Wrapf(ErrInvalidOperation, "reference %q is not an array and cannot be nillable", pointer)
	}
	c, ok := n.(*CombinationNode)
	if !ok {
		n.Base().IsNillable = nillable
		return nil
	}
	var nulls []string
	for _, p := range c.Children {
		if f, ok := m.nodes[p].(*FieldNode); ok && f.FieldType == FieldTypeNull {
			nulls = append(nulls, p)
		}
	}
	switch {
	case nillable && len(nulls) == 0:
		m.insert(c, NewFieldNode(FieldTypeNull), MakePointer(childBase(c), string(c.CombinationType), pendingName), -1)
	case !nillable && len(nulls) > 0:
		for _, p := range nulls {
			m.detach(p)
		}
		c.Children = slices.DeleteFunc(c.Children, func(p string) bool { return slices.Contains(nulls, p) })
		m.reindex(c)
	}
	c.IsNillable = nillable
	return nil
}

// SetType changes the type of the field at pointer. Leaving object drops
// the field's children. Restrictions belong to a type and are cleared.
func (m *SchemaModel) SetType(pointer string, t FieldType) error {
	f, err := m.field(pointer)
	if err != nil {
		return err
	}
	if !t.Valid() {
		return errors.Wrapf(ErrInvalidOperation, "unknown field type %q", t)
	}
	if pointer == RootPointer && t != FieldTypeObject {
		return errors.Wrap(ErrInvalidOperation, "the root node must be an object")
	}
	if f.FieldType == t {
		f.ImplicitType = false
		return nil
	}
	if t != FieldTypeObject {
		for _, c := range f.Children {
			m.detach(c)
		}
		f.Children = []string{}
	}
	f.FieldType = t
	f.ImplicitType = false
	f.Restrictions = nil
	return nil
}

// SetRestrictions merges restrictions into those of the node at pointer.
// A nil value removes the keyword. Keys must be non-structural schema
// keywords and values must fit the keyword.
func (m *SchemaModel) SetRestrictions(pointer string, restrictions map[string]any) error {
	n, err := m.Node(pointer)
	if err != nil {
		return err
	}
	if len(restrictions) == 0 {
		return nil
	}
	for _, k := range slices.Sorted(maps.Keys(restrictions)) {
		if err := checkRestriction(n, k, restrictions[k]); err != nil {
			return errors.Wrapf(err, "%q", pointer)
		}
	}
	b := n.Base()
	merged := maps.Clone(b.Restrictions)
	if merged == nil {
		merged = map[string]any{}
	}
	if err := mergo.Merge(&merged, restrictions, mergo.WithOverride); err != nil {
		return errors.Wrapf(err, "merging restrictions of %q", pointer)
	}
	// mergo keeps non-empty slices and maps already present.
	for k, v := range restrictions {
		if v == nil {
			delete(merged, k)
			continue
		}
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map || rv.IsZero() {
			merged[k] = v
		}
	}
	if len(merged) == 0 {
		merged = nil
	}
	b.Restrictions = merged
	return nil
}

// SetCustomProperties replaces the uninterpreted keywords of the node at
// pointer. Structural keywords are rejected.
func (m *SchemaModel) SetCustomProperties(pointer string, custom map[string]any) error {
	n, err := m.Node(pointer)
	if err != nil {
		return err
	}
	for _, k := range slices.Sorted(maps.Keys(custom)) {
		if err := checkCustom(n, k, custom[k]); err != nil {
			return errors.Wrapf(err, "%q", pointer)
		}
	}
	n.Base().Custom = maps.Clone(custom)
	return nil
}

// SetEnum replaces the enum values of the field at pointer.
func (m *SchemaModel) SetEnum(pointer string, values []any) error {
	f, err := m.field(pointer)
	if err != nil {
		return err
	}
	f.Enum = slices.Clone(values)
	return nil
}

// GenerateUniqueChildName returns base followed by the smallest
// non-negative number that names no property of the final node of
// parentPointer.
func (m *SchemaModel) GenerateUniqueChildName(parentPointer, base string) string {
	parent, isArray := parentPointer, false
	if n, err := m.FinalNode(parentPointer); err == nil {
		parent, isArray = n.Pointer(), n.Base().IsArray
	}
	return m.uniqueName(parent, isArray, KeywordProperties, base)
}

// GenerateUniqueDefinitionName is like GenerateUniqueChildName for root definitions.
func (m *SchemaModel) GenerateUniqueDefinitionName(base string) string {
	return m.uniqueName(RootPointer, false, KeywordDefinitions, base)
}

func (m *SchemaModel) uniqueName(parent string, isArray bool, category, base string) string {
	for i := 0; ; i++ {
		name := base + strconv.Itoa(i)
		if !m.HasNode(ChildPointer(parent, isArray, category, name)) {
			return name
		}
	}
}

func (m *SchemaModel) field(pointer string) (*FieldNode, error) {
	n, err := m.Node(pointer)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*FieldNode)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidOperation, "%q is a %s, not a field", pointer, n.Kind())
	}
	return f, nil
}

func (m *SchemaModel) combination(pointer string) (*CombinationNode, error) {
	n, err := m.Node(pointer)
	if err != nil {
		return nil, err
	}
	c, ok := n.(*CombinationNode)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidOperation, "%q is a %s, not a combination", pointer, n.Kind())
	}
	return c, nil
}

// resolveParent returns the final node of pointer if it can hold children.
func (m *SchemaModel) resolveParent(pointer string) (UiSchemaNode, error) {
	n, err := m.FinalNode(pointer)
	if err != nil {
		return nil, err
	}
	if !canHaveChildren(n) {
		return nil, errors.Wrapf(ErrInvalidParent, "%q", pointer)
	}
	return n, nil
}

// newChildPointer returns the pointer a child called name would get under
// parent. self is the pointer of the node being placed, if it exists.
func (m *SchemaModel) newChildPointer(parent UiSchemaNode, category, name, self string) (string, error) {
	if c, ok := parent.(*CombinationNode); ok {
		return MakePointer(childBase(c), string(c.CombinationType), pendingName), nil
	}
	if name == "" {
		return "", errors.Wrap(ErrInvalidOperation, "empty name")
	}
	p := ChildPointer(parent.Pointer(), parent.Base().IsArray, category, name)
	if p != self && m.HasNode(p) {
		return "", errors.Wrapf(ErrNameCollision, "%q", p)
	}
	return p, nil
}

// checkReference checks that a reference to reference may be placed inside
// the node at container.
func (m *SchemaModel) checkReference(reference, container string) error {
	if !IsTopLevelDefinitionPointer(reference) {
		return errors.Wrapf(ErrInvalidReference, "%q", reference)
	}
	if !m.HasNode(reference) {
		return errors.Wrapf(ErrNotFound, "%q", reference)
	}
	if m.wouldCycle(reference, container) {
		return errors.Wrapf(ErrCircularReference, "%q inside %q", reference, container)
	}
	return nil
}

// insert stores n at pointer and lists it under parent at index.
func (m *SchemaModel) insert(parent, n UiSchemaNode, pointer string, index int) UiSchemaNode {
	if l := childList(n); l != nil {
		*l = []string{}
	}
	n.Base().SchemaPointer = pointer
	m.nodes[pointer] = n
	l := childList(parent)
	*l = insertAt(*l, index, pointer)
	if c, ok := parent.(*CombinationNode); ok {
		m.reindex(c)
	}
	return n
}

func insertAt(list []string, index int, p string) []string {
	if index < 0 || index > len(list) {
		return append(list, p)
	}
	return slices.Insert(list, index, p)
}

// subtree returns the pointers of the node at p and all its descendants.
func (m *SchemaModel) subtree(p string) []string {
	var out []string
	var walk func(string)
	walk = func(q string) {
		n, ok := m.nodes[q]
		if !ok {
			return
		}
		out = append(out, q)
		for _, c := range Children(n) {
			walk(c)
		}
	}
	walk(p)
	return out
}

// detach removes the subtree at p from the map and returns it keyed by the
// old pointers.
func (m *SchemaModel) detach(p string) map[string]UiSchemaNode {
	sub := make(map[string]UiSchemaNode)
	for _, q := range m.subtree(p) {
		sub[q] = m.nodes[q]
		delete(m.nodes, q)
	}
	return sub
}

// attach stores a detached subtree so that its top node lands at newPointer.
// Descendants keep their category and name. Changed pointers are recorded
// in moved.
func (m *SchemaModel) attach(sub map[string]UiSchemaNode, oldPointer, newPointer string, moved map[string]string) UiSchemaNode {
	n := sub[oldPointer]
	n.Base().SchemaPointer = newPointer
	if oldPointer != newPointer {
		moved[oldPointer] = newPointer
	}
	if l := childList(n); l != nil {
		for i, c := range *l {
			s, _ := lastStep(c)
			np := MakePointer(childBase(n), s.category, s.name)
			m.attach(sub, c, np, moved)
			(*l)[i] = np
		}
	}
	m.nodes[newPointer] = n
	return n
}

// relocate moves the subtree at oldPointer to newPointer and updates the
// references into it.
func (m *SchemaModel) relocate(oldPointer, newPointer string) UiSchemaNode {
	moved := make(map[string]string)
	n := m.attach(m.detach(oldPointer), oldPointer, newPointer, moved)
	m.fixReferences(moved)
	return n
}

// rebaseChildren recomputes the pointers of the children of n from n's
// current pointer and array flag. rename, if non-nil, gives the new
// category and name of the i'th child.
func (m *SchemaModel) rebaseChildren(n UiSchemaNode, rename func(i int, s step) step) {
	l := childList(n)
	if l == nil {
		return
	}
	subs := make([]map[string]UiSchemaNode, len(*l))
	for i, c := range *l {
		subs[i] = m.detach(c)
	}
	moved := make(map[string]string)
	for i, c := range *l {
		s, _ := lastStep(c)
		if rename != nil {
			s = rename(i, s)
		}
		np := MakePointer(childBase(n), s.category, s.name)
		m.attach(subs[i], c, np, moved)
		(*l)[i] = np
	}
	m.fixReferences(moved)
}

// reindex names the children of c by their position under its combinator.
func (m *SchemaModel) reindex(c *CombinationNode) {
	m.rebaseChildren(c, func(i int, _ step) step {
		return step{category: string(c.CombinationType), name: strconv.Itoa(i)}
	})
}

func (m *SchemaModel) fixReferences(moved map[string]string) {
	if len(moved) == 0 {
		return
	}
	for _, n := range m.nodes {
		if ref, ok := n.(*ReferenceNode); ok {
			if p, ok := moved[ref.Reference]; ok {
				ref.Reference = p
			}
		}
	}
}
