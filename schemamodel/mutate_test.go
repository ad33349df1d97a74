// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddNode(t *testing.T) {
	m := newTestModel(t)

	n, err := m.AddField("zip", FieldTypeString, NodePosition{ParentPointer: "#/properties/address", Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if n.Pointer() != "#/properties/address/properties/zip" {
		t.Errorf("pointer = %q", n.Pointer())
	}
	if diff := cmp.Diff([]string{"#/properties/address/properties/zip", "#/properties/address/properties/street"}, m.nodes["#/properties/address"].(*FieldNode).Children); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}

	// Adding through a reference lands in the definition.
	n, err = m.AddField("last", FieldTypeString, appendTo("#/properties/person"))
	if err != nil {
		t.Fatal(err)
	}
	if n.Pointer() != "#/$defs/Person/properties/last" {
		t.Errorf("pointer = %q", n.Pointer())
	}

	// Combination children are positional.
	c, err := m.AddField("ignored", FieldTypeInteger, NodePosition{ParentPointer: "#/properties/choice", Index: 0})
	if err != nil {
		t.Fatal(err)
	}
	if c.Pointer() != "#/properties/choice/anyOf/0" {
		t.Errorf("pointer = %q", c.Pointer())
	}
	if f := m.nodes["#/properties/choice/anyOf/1"].(*FieldNode); f.FieldType != FieldTypeString {
		t.Errorf("anyOf/1 is a %s, want the shifted string", f.FieldType)
	}
	checkValid(t, m)

	for _, tt := range []struct {
		name   string
		parent string
		want   error
	}{
		{"name", RootPointer, ErrNameCollision},
		{"x", "#/properties/name", ErrInvalidParent},
		{"x", "#/properties/missing", ErrNotFound},
		{"", RootPointer, ErrInvalidOperation},
	} {
		if _, err := m.AddField(tt.name, FieldTypeString, appendTo(tt.parent)); !errors.Is(err, tt.want) {
			t.Errorf("AddField(%q, %q): got %v, want %v", tt.name, tt.parent, err, tt.want)
		}
	}
}

func TestAddNodeUnderArray(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.ToggleArrayField("#/properties/address"); err != nil {
		t.Fatal(err)
	}
	if !m.HasNode("#/properties/address/items/properties/street") {
		t.Error("child not moved under items")
	}
	n, err := m.AddField("zip", FieldTypeString, appendTo("#/properties/address"))
	if err != nil {
		t.Fatal(err)
	}
	if n.Pointer() != "#/properties/address/items/properties/zip" {
		t.Errorf("pointer = %q", n.Pointer())
	}
	if _, err := m.ToggleArrayField("#/properties/address"); err != nil {
		t.Fatal(err)
	}
	if !m.HasNode("#/properties/address/properties/zip") || !m.HasNode("#/properties/address/properties/street") {
		t.Error("children not moved back from items")
	}
	checkValid(t, m)
}

func TestAddType(t *testing.T) {
	m := newTestModel(t)
	n, err := m.AddType("Group", NewCombinationNode(OneOf))
	if err != nil {
		t.Fatal(err)
	}
	if n.Pointer() != "#/$defs/Group" {
		t.Errorf("pointer = %q", n.Pointer())
	}
	if _, err := m.AddType("Person", NewFieldNode(FieldTypeObject)); !errors.Is(err, ErrNameCollision) {
		t.Errorf("got %v, want ErrNameCollision", err)
	}
	if _, err := m.AddType("Alias", NewReferenceNode("#/$defs/Person")); err != nil {
		t.Error(err)
	}
	checkValid(t, m)
}

func TestMoveAndRename(t *testing.T) {
	m := newTestModel(t)
	n, err := m.MoveNode("#/properties/name", appendTo("#/properties/address"))
	if err != nil {
		t.Fatal(err)
	}
	if n.Pointer() != "#/properties/address/properties/name" {
		t.Errorf("moved pointer = %q", n.Pointer())
	}
	var renamed string
	n, err = m.SetPropertyName(n.Pointer(), "fullName", func(p string) { renamed = p })
	if err != nil {
		t.Fatal(err)
	}
	want := "#/properties/address/properties/fullName"
	if n.Pointer() != want || renamed != want {
		t.Errorf("renamed to %q (callback %q), want %q", n.Pointer(), renamed, want)
	}
	if m.HasNode("#/properties/name") || m.HasNode("#/properties/address/properties/name") {
		t.Error("old pointers still present")
	}
	if diff := cmp.Diff([]string{"#/properties/address/properties/street", want}, m.nodes["#/properties/address"].(*FieldNode).Children); diff != "" {
		t.Errorf("address children mismatch (-want +got):\n%s", diff)
	}
	checkValid(t, m)
}

func TestMoveNode(t *testing.T) {
	t.Run("Reorder", func(t *testing.T) {
		m := newTestModel(t)
		if _, err := m.MoveNode("#/properties/person", NodePosition{ParentPointer: RootPointer, Index: 0}); err != nil {
			t.Fatal(err)
		}
		want := []string{"#/properties/person", "#/properties/name", "#/properties/address", "#/properties/choice", "#/$defs/Person"}
		if diff := cmp.Diff(want, m.RootNode().Children); diff != "" {
			t.Errorf("root children mismatch (-want +got):\n%s", diff)
		}
		checkValid(t, m)
	})
	t.Run("OutOfCombination", func(t *testing.T) {
		m := newTestModel(t)
		n, err := m.MoveNode("#/properties/choice/anyOf/0", appendTo("#/properties/address"))
		if err != nil {
			t.Fatal(err)
		}
		if n.Pointer() != "#/properties/address/properties/0" {
			t.Errorf("pointer = %q", n.Pointer())
		}
		if diff := cmp.Diff([]string{"#/properties/choice/anyOf/0"}, m.nodes["#/properties/choice"].(*CombinationNode).Children); diff != "" {
			t.Errorf("combination children mismatch (-want +got):\n%s", diff)
		}
		if f := m.nodes["#/properties/choice/anyOf/0"].(*FieldNode); f.FieldType != FieldTypeNull {
			t.Errorf("remaining item is a %s, want null", f.FieldType)
		}
		checkValid(t, m)
	})
	t.Run("IntoCombination", func(t *testing.T) {
		m := newTestModel(t)
		n, err := m.MoveNode("#/properties/address", NodePosition{ParentPointer: "#/properties/choice", Index: 1})
		if err != nil {
			t.Fatal(err)
		}
		if n.Pointer() != "#/properties/choice/anyOf/1" {
			t.Errorf("pointer = %q", n.Pointer())
		}
		if !m.HasNode("#/properties/choice/anyOf/1/properties/street") {
			t.Error("descendant not moved")
		}
		if f := m.nodes["#/properties/choice/anyOf/2"].(*FieldNode); f.FieldType != FieldTypeNull {
			t.Errorf("anyOf/2 is a %s, want null", f.FieldType)
		}
		checkValid(t, m)
	})
	t.Run("IntoDefinitionThroughReference", func(t *testing.T) {
		m := newTestModel(t)
		n, err := m.MoveNode("#/properties/name", appendTo("#/properties/person"))
		if err != nil {
			t.Fatal(err)
		}
		if n.Pointer() != "#/$defs/Person/properties/name" {
			t.Errorf("pointer = %q", n.Pointer())
		}
		checkValid(t, m)
	})
	t.Run("Rejected", func(t *testing.T) {
		m := newTestModel(t)
		if _, err := m.AddField("name", FieldTypeString, appendTo("#/properties/address")); err != nil {
			t.Fatal(err)
		}
		for _, tt := range []struct {
			pointer, parent string
			want            error
		}{
			{"#/properties/address", "#/properties/address", ErrInvalidParent},
			{"#/properties/address", "#/properties/address/properties/street", ErrInvalidParent},
			{"#/properties/name", "#/properties/address", ErrNameCollision},
			{"#/$defs/Person", "#/properties/address", ErrInvalidParent},
			{"#/properties/person", "#/properties/person", ErrCircularReference},
			{RootPointer, "#/properties/address", ErrInvalidOperation},
			{"#/properties/missing", RootPointer, ErrNotFound},
		} {
			if _, err := m.MoveNode(tt.pointer, appendTo(tt.parent)); !errors.Is(err, tt.want) {
				t.Errorf("MoveNode(%q, %q): got %v, want %v", tt.pointer, tt.parent, err, tt.want)
			}
		}
		checkValid(t, m)
	})
}

func TestConvertToDefinition(t *testing.T) {
	m := newTestModel(t)
	if err := m.SetRequired("#/properties/address", true); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ToggleArrayField("#/properties/address"); err != nil {
		t.Fatal(err)
	}
	ref, err := m.ConvertToDefinition("#/properties/address")
	if err != nil {
		t.Fatal(err)
	}
	if ref.Pointer() != "#/properties/address" || ref.Reference != "#/$defs/address0" {
		t.Errorf("reference = %+v", ref)
	}
	if !ref.IsArray || !ref.IsRequired {
		t.Errorf("reference lost its flags: array %t, required %t", ref.IsArray, ref.IsRequired)
	}
	def := m.nodes["#/$defs/address0"].(*FieldNode)
	if def.IsArray || def.IsRequired {
		t.Errorf("definition kept flags: array %t, required %t", def.IsArray, def.IsRequired)
	}
	if diff := cmp.Diff([]string{"#/$defs/address0/properties/street"}, def.Children); diff != "" {
		t.Errorf("definition children mismatch (-want +got):\n%s", diff)
	}
	if got := m.RootNode().Children; got[len(got)-1] != "#/$defs/address0" {
		t.Errorf("definition not appended to root children: %v", got)
	}
	checkValid(t, m)

	for _, p := range []string{RootPointer, "#/properties/person", "#/$defs/Person", "#/properties/missing"} {
		if _, err := m.ConvertToDefinition(p); err == nil {
			t.Errorf("ConvertToDefinition(%q) succeeded", p)
		}
	}
}

func TestArrayKeywordsFollowTheArray(t *testing.T) {
	m := newTestModel(t)
	const p = "#/properties/address"
	if _, err := m.ToggleArrayField(p); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRestrictions(p, map[string]any{"minItems": 1, "minProperties": 2}); err != nil {
		t.Fatal(err)
	}
	m.nodes[p].Base().ArrayCustom = map[string]any{"x-outer": true}
	checkValid(t, m)

	ref, err := m.ConvertToDefinition(p)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"minItems": 1}, ref.Restrictions); diff != "" {
		t.Errorf("reference restrictions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"x-outer": true}, ref.ArrayCustom); diff != "" {
		t.Errorf("reference array keywords mismatch (-want +got):\n%s", diff)
	}
	def := m.nodes[ref.Reference].Base()
	if diff := cmp.Diff(map[string]any{"minProperties": 2}, def.Restrictions); diff != "" {
		t.Errorf("definition restrictions mismatch (-want +got):\n%s", diff)
	}
	if def.ArrayCustom != nil {
		t.Errorf("definition kept array keywords %v", def.ArrayCustom)
	}
	checkValid(t, m)

	if _, err := m.ToggleArrayField(p); err != nil {
		t.Fatal(err)
	}
	if ref.ArrayCustom != nil {
		t.Errorf("array keywords survived toggling the array off: %v", ref.ArrayCustom)
	}
	checkValid(t, m)
}

func TestCircularReferences(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.AddType("Group", NewFieldNode(FieldTypeObject)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddReference("lead", "#/$defs/Person", appendTo("#/$defs/Group")); err != nil {
		t.Fatal(err)
	}

	for _, tt := range []struct {
		ref, parent string
	}{
		{"#/$defs/Person", "#/$defs/Person"},
		{"#/$defs/Person", "#/properties/person"},
		{"#/$defs/Group", "#/$defs/Person"},
	} {
		if !m.WillResultInCircularReferences(tt.ref, tt.parent) {
			t.Errorf("WillResultInCircularReferences(%q, %q) = false", tt.ref, tt.parent)
		}
		if _, err := m.AddReference("loop", tt.ref, appendTo(tt.parent)); !errors.Is(err, ErrCircularReference) {
			t.Errorf("AddReference(%q under %q): got %v, want ErrCircularReference", tt.ref, tt.parent, err)
		}
	}
	if m.WillResultInCircularReferences("#/$defs/Person", "#/$defs/Group") {
		t.Error("Group may contain Person")
	}
	if m.WillResultInCircularReferences("#/$defs/Person", RootPointer) {
		t.Error("root properties never close a cycle")
	}

	if err := m.SetRef("#/$defs/Group/properties/lead", "#/$defs/Group"); !errors.Is(err, ErrCircularReference) {
		t.Errorf("SetRef to self: got %v, want ErrCircularReference", err)
	}
	if err := m.SetRef("#/properties/person", "#/$defs/Group"); err != nil {
		t.Error(err)
	}
	if err := m.SetRef("#/properties/person", "#/properties/name"); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("SetRef to a property: got %v, want ErrInvalidReference", err)
	}
	if err := m.SetRef("#/properties/name", "#/$defs/Group"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("SetRef on a field: got %v, want ErrInvalidOperation", err)
	}
	checkValid(t, m)
}

func TestDeleteNode(t *testing.T) {
	m := newTestModel(t)
	if err := m.DeleteNode("#/properties/choice/anyOf/0"); err != nil {
		t.Fatal(err)
	}
	c := m.nodes["#/properties/choice"].(*CombinationNode)
	if diff := cmp.Diff([]string{"#/properties/choice/anyOf/0"}, c.Children); diff != "" {
		t.Errorf("combination children mismatch (-want +got):\n%s", diff)
	}
	if f := m.nodes["#/properties/choice/anyOf/0"].(*FieldNode); f.FieldType != FieldTypeNull {
		t.Errorf("remaining item is a %s, want null", f.FieldType)
	}

	if err := m.DeleteNode("#/$defs/Person"); !errors.Is(err, ErrDefinitionInUse) {
		t.Errorf("deleting a used definition: got %v, want ErrDefinitionInUse", err)
	}
	if err := m.DeleteNode("#/properties/person"); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteNode("#/$defs/Person"); err != nil {
		t.Fatal(err)
	}
	if m.HasNode("#/$defs/Person/properties/first") {
		t.Error("descendant not deleted")
	}
	if err := m.DeleteNode("#/properties/address"); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if err := m.DeleteNode(RootPointer); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("deleting root: got %v, want ErrInvalidOperation", err)
	}
	checkValid(t, m)
}

func TestDeleteDefinitionChain(t *testing.T) {
	m := New()
	if _, err := m.AddType("Node", NewFieldNode(FieldTypeObject)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddType("Alias", NewReferenceNode("#/$defs/Node")); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteNode("#/$defs/Alias"); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteNode("#/$defs/Node"); err != nil {
		t.Fatal(err)
	}
	checkValid(t, m)
}

func TestRenameDefinition(t *testing.T) {
	m := newTestModel(t)
	if _, err := m.SetPropertyName("#/$defs/Person", "Human", nil); err != nil {
		t.Fatal(err)
	}
	if got := m.nodes["#/properties/person"].(*ReferenceNode).Reference; got != "#/$defs/Human" {
		t.Errorf("reference = %q, want #/$defs/Human", got)
	}
	if !m.HasNode("#/$defs/Human/properties/first") {
		t.Error("definition children not renamed")
	}
	checkValid(t, m)

	for _, tt := range []struct {
		pointer, name string
		want          error
	}{
		{"#/properties/name", "address", ErrNameCollision},
		{"#/properties/choice/anyOf/0", "x", ErrInvalidOperation},
		{RootPointer, "x", ErrInvalidOperation},
		{"#/properties/name", "", ErrInvalidOperation},
		{"#/properties/missing", "x", ErrNotFound},
	} {
		if _, err := m.SetPropertyName(tt.pointer, tt.name, nil); !errors.Is(err, tt.want) {
			t.Errorf("SetPropertyName(%q, %q): got %v, want %v", tt.pointer, tt.name, err, tt.want)
		}
	}
}

func TestSetCombinationType(t *testing.T) {
	m := newTestModel(t)
	if err := m.SetCombinationType("#/properties/choice", OneOf); err != nil {
		t.Fatal(err)
	}
	want := []string{"#/properties/choice/oneOf/0", "#/properties/choice/oneOf/1"}
	if diff := cmp.Diff(want, m.nodes["#/properties/choice"].(*CombinationNode).Children); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if m.HasNode("#/properties/choice/anyOf/0") {
		t.Error("old child pointer still present")
	}
	if err := m.SetCombinationType("#/properties/name", AllOf); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("got %v, want ErrInvalidOperation", err)
	}
	checkValid(t, m)
}

func TestSetNillable(t *testing.T) {
	m := newTestModel(t)
	if err := m.SetNillable("#/properties/choice", false); err != nil {
		t.Fatal(err)
	}
	c := m.nodes["#/properties/choice"].(*CombinationNode)
	if len(c.Children) != 1 || c.IsNillable {
		t.Errorf("null item not removed: %v", c.Children)
	}
	if err := m.SetNillable("#/properties/choice", true); err != nil {
		t.Fatal(err)
	}
	if len(c.Children) != 2 || !c.IsNillable {
		t.Errorf("null item not added: %v", c.Children)
	}
	if err := m.SetNillable("#/properties/name", true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetNillable("#/properties/person", true); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("SetNillable on a reference: got %v, want ErrInvalidOperation", err)
	}
	if _, err := m.ToggleArrayField("#/properties/person"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetNillable("#/properties/person", true); err != nil {
		t.Fatal(err)
	}
	checkValid(t, m)
	if _, err := m.ToggleArrayField("#/properties/person"); err != nil {
		t.Fatal(err)
	}
	if m.nodes["#/properties/person"].Base().IsNillable {
		t.Error("reference stayed nillable after it stopped being an array")
	}
	checkValid(t, m)
	if !m.nodes["#/properties/name"].Base().IsNillable {
		t.Error("field not nillable")
	}
	checkValid(t, m)
}

func TestSetType(t *testing.T) {
	m := newTestModel(t)
	if err := m.SetRestrictions("#/properties/address", map[string]any{"minProperties": 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetType("#/properties/address", FieldTypeString); err != nil {
		t.Fatal(err)
	}
	f := m.nodes["#/properties/address"].(*FieldNode)
	if len(f.Children) != 0 || f.Restrictions != nil {
		t.Errorf("children %v and restrictions %v survived the type change", f.Children, f.Restrictions)
	}
	if m.HasNode("#/properties/address/properties/street") {
		t.Error("child node still stored")
	}
	for _, tt := range []struct {
		pointer string
		t       FieldType
	}{
		{RootPointer, FieldTypeString},
		{"#/properties/choice", FieldTypeString},
		{"#/properties/name", "date"},
	} {
		if err := m.SetType(tt.pointer, tt.t); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("SetType(%q, %q): got %v, want ErrInvalidOperation", tt.pointer, tt.t, err)
		}
	}
	checkValid(t, m)
}

func TestSetRestrictions(t *testing.T) {
	m := newTestModel(t)
	const p = "#/properties/name"
	if err := m.SetRestrictions(p, map[string]any{"minLength": 1, "pattern": "^a", "examples": []any{"a"}}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRestrictions(p, map[string]any{"minLength": 0, "pattern": nil, "maxLength": 9, "examples": []any{"b", "c"}}); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"minLength": 0, "maxLength": 9, "examples": []any{"b", "c"}}
	if diff := cmp.Diff(want, m.nodes[p].Base().Restrictions); diff != "" {
		t.Errorf("restrictions mismatch (-want +got):\n%s", diff)
	}
}

func TestSetRestrictionsRejected(t *testing.T) {
	m := newTestModel(t)
	const p = "#/properties/name"
	if err := m.SetRestrictions(p, map[string]any{"minLength": 2}); err != nil {
		t.Fatal(err)
	}
	for _, r := range []map[string]any{
		{"bogus": 1},
		{"bogus": nil},
		{"type": "integer"},
		{"items": map[string]any{}},
		{"$ref": "#/$defs/Person"},
		{"title": "Name"},
		{"enum": []any{"a"}},
		{"minLength": "long"},
		{"minLength": 1.5},
		{"maximum": "high"},
		{"maxLength": 4, "bogus": 1},
	} {
		if err := m.SetRestrictions(p, r); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("SetRestrictions(%v): got %v, want ErrInvalidOperation", r, err)
		}
	}
	if diff := cmp.Diff(map[string]any{"minLength": 2}, m.nodes[p].Base().Restrictions); diff != "" {
		t.Errorf("rejected restrictions changed the node (-want +got):\n%s", diff)
	}
	checkValid(t, m)
}

func TestSetCustomPropertiesRejected(t *testing.T) {
	m := newTestModel(t)
	const p = "#/properties/name"
	if err := m.SetCustomProperties(p, map[string]any{"x-ui": "hidden"}); err != nil {
		t.Fatal(err)
	}
	for _, c := range []map[string]any{
		{"properties": map[string]any{}},
		{"required": []any{"a"}},
		{"allOf": []any{}},
		{"enum": []any{"a"}},
		{"x-ui": "shown", "minItems": "few"},
	} {
		if err := m.SetCustomProperties(p, c); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("SetCustomProperties(%v): got %v, want ErrInvalidOperation", c, err)
		}
	}
	if diff := cmp.Diff(map[string]any{"x-ui": "hidden"}, m.nodes[p].Base().Custom); diff != "" {
		t.Errorf("rejected custom keywords changed the node (-want +got):\n%s", diff)
	}
	// Keywords with a schema field are accepted when the value fits.
	if err := m.SetCustomProperties(p, map[string]any{"$comment": "note", "deprecated": true}); err != nil {
		t.Fatal(err)
	}
}

func TestSetAttributes(t *testing.T) {
	m := newTestModel(t)
	const p = "#/properties/name"
	if err := m.SetTitle(p, "Name"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetDescription(p, "The full name"); err != nil {
		t.Fatal(err)
	}
	if err := m.SetRequired(p, true); err != nil {
		t.Fatal(err)
	}
	if err := m.SetEnum(p, []any{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if err := m.SetCustomProperties(p, map[string]any{"x-ui": "hidden"}); err != nil {
		t.Fatal(err)
	}
	f := m.nodes[p].(*FieldNode)
	want := &FieldNode{
		NodeBase: NodeBase{
			SchemaPointer: p,
			Title:         "Name",
			Description:   "The full name",
			IsRequired:    true,
			Custom:        map[string]any{"x-ui": "hidden"},
		},
		FieldType: FieldTypeString,
		Enum:      []any{"a", "b"},
		Children:  []string{},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("node mismatch (-want +got):\n%s", diff)
	}
	if err := m.SetEnum("#/properties/person", nil); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("SetEnum on a reference: got %v, want ErrInvalidOperation", err)
	}
	if err := m.SetTitle("#/properties/missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetTitle on a missing node: got %v, want ErrNotFound", err)
	}
}

func TestGenerateUniqueNames(t *testing.T) {
	m := newTestModel(t)
	if got := m.GenerateUniqueChildName(RootPointer, "name"); got != "name0" {
		t.Errorf("GenerateUniqueChildName = %q, want name0", got)
	}
	if _, err := m.AddField("field0", FieldTypeString, appendTo("#/properties/person")); err != nil {
		t.Fatal(err)
	}
	if got := m.GenerateUniqueChildName("#/properties/person", "field"); got != "field1" {
		t.Errorf("GenerateUniqueChildName through a reference = %q, want field1", got)
	}
	if _, err := m.AddType("Person0", NewFieldNode(FieldTypeObject)); err != nil {
		t.Fatal(err)
	}
	if got := m.GenerateUniqueDefinitionName("Person"); got != "Person1" {
		t.Errorf("GenerateUniqueDefinitionName = %q, want Person1", got)
	}
}

// Rejected operations must leave the model exactly as it was.
func TestRejectedMutationsLeaveModelUnchanged(t *testing.T) {
	m := newTestModel(t)
	before, err := MarshalNodes(m.AsArray())
	if err != nil {
		t.Fatal(err)
	}
	attempts := []func() error{
		func() error { _, err := m.AddField("name", FieldTypeString, appendToRoot); return err },
		func() error { _, err := m.AddReference("x", "#/$defs/Person", appendTo("#/$defs/Person")); return err },
		func() error { _, err := m.AddReference("x", "#/$defs/Nope", appendToRoot); return err },
		func() error { _, err := m.MoveNode("#/properties/address", appendTo("#/properties/address")); return err },
		func() error { _, err := m.MoveNode("#/$defs/Person", appendTo("#/properties/address")); return err },
		func() error { _, err := m.SetPropertyName("#/properties/name", "address", nil); return err },
		func() error { return m.DeleteNode("#/$defs/Person") },
		func() error { _, err := m.ConvertToDefinition("#/properties/person"); return err },
		func() error { return m.SetType(RootPointer, FieldTypeNull) },
		func() error { return m.SetCombinationType("#/properties/choice", "noneOf") },
	}
	for i, f := range attempts {
		if err := f(); err == nil {
			t.Errorf("attempt %d succeeded", i)
		}
	}
	after, err := MarshalNodes(m.AsArray())
	if err != nil {
		t.Fatal(err)
	}
	if string(before) != string(after) {
		t.Errorf("model changed by rejected operations\nbefore: %s\nafter:  %s", before, after)
	}
}
