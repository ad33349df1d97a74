// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import "testing"

func TestChildPointer(t *testing.T) {
	for _, tt := range []struct {
		parent   string
		isArray  bool
		category string
		name     string
		want     string
	}{
		{"#", false, KeywordProperties, "name", "#/properties/name"},
		{"#", false, KeywordDefinitions, "Person", "#/$defs/Person"},
		{"#/properties/a", true, KeywordProperties, "b", "#/properties/a/items/properties/b"},
		{"#/properties/c", false, string(AnyOf), "0", "#/properties/c/anyOf/0"},
		{"#", false, KeywordProperties, "a/b~c", "#/properties/a~1b~0c"},
	} {
		got := ChildPointer(tt.parent, tt.isArray, tt.category, tt.name)
		if got != tt.want {
			t.Errorf("ChildPointer(%q, %t, %q, %q) = %q, want %q", tt.parent, tt.isArray, tt.category, tt.name, got, tt.want)
		}
	}
}

func TestPointerParts(t *testing.T) {
	for _, tt := range []struct {
		pointer  string
		parent   string
		name     string
		category string
	}{
		{"#", "", "", ""},
		{"#/properties/name", "#", "name", KeywordProperties},
		{"#/$defs/Person/properties/first", "#/$defs/Person", "first", KeywordProperties},
		{"#/properties/a/items/properties/b", "#/properties/a", "b", KeywordProperties},
		{"#/properties/c/oneOf/2", "#/properties/c", "2", string(OneOf)},
		{"#/properties/a~1b~0c", "#", "a/b~c", KeywordProperties},
		{"not a pointer", "", "", ""},
	} {
		if got := ParentPointer(tt.pointer); got != tt.parent {
			t.Errorf("ParentPointer(%q) = %q, want %q", tt.pointer, got, tt.parent)
		}
		if got := NameOf(tt.pointer); got != tt.name {
			t.Errorf("NameOf(%q) = %q, want %q", tt.pointer, got, tt.name)
		}
		if got := CategoryOf(tt.pointer); got != tt.category {
			t.Errorf("CategoryOf(%q) = %q, want %q", tt.pointer, got, tt.category)
		}
	}
}

func TestDefinitionPointers(t *testing.T) {
	for _, tt := range []struct {
		pointer  string
		def      string
		isDef    bool
		topLevel bool
	}{
		{"#", "", false, false},
		{"#/properties/a", "", false, false},
		{"#/$defs/A", "#/$defs/A", true, true},
		{"#/$defs/A/properties/b", "#/$defs/A", true, false},
		{"#/$defs/A/items/anyOf/0", "#/$defs/A", true, false},
	} {
		if got := DefinitionPointerOf(tt.pointer); got != tt.def {
			t.Errorf("DefinitionPointerOf(%q) = %q, want %q", tt.pointer, got, tt.def)
		}
		if got := IsDefinitionPointer(tt.pointer); got != tt.isDef {
			t.Errorf("IsDefinitionPointer(%q) = %t, want %t", tt.pointer, got, tt.isDef)
		}
		if got := IsTopLevelDefinitionPointer(tt.pointer); got != tt.topLevel {
			t.Errorf("IsTopLevelDefinitionPointer(%q) = %t, want %t", tt.pointer, got, tt.topLevel)
		}
	}
	if !IsCombinationChildPointer("#/properties/c/allOf/0") {
		t.Error("allOf child not recognized")
	}
	if IsCombinationChildPointer("#/properties/allOf") {
		t.Error("property named allOf taken for a combination child")
	}
	if !IsDescendantPointer("#/properties/a/properties/b", "#/properties/a") {
		t.Error("descendant not recognized")
	}
	if IsDescendantPointer("#/properties/ab", "#/properties/a") {
		t.Error("sibling with a common prefix taken for a descendant")
	}
}

func TestUniquePointer(t *testing.T) {
	for _, tt := range []struct {
		pointer, parentUnique, want string
	}{
		{"#/properties/a", "", "uniquePointer-#/properties/a"},
		{"#/properties/a/properties/b", "uniquePointer-#/properties/a", "uniquePointer-#/properties/a/properties/b"},
		{"#/$defs/Person/properties/first", "uniquePointer-#/properties/person", "uniquePointer-#/properties/person/properties/first"},
		{"#/$defs/Person/anyOf/1", "uniquePointer-#/properties/x", "uniquePointer-#/properties/x/anyOf/1"},
		{"#/$defs/Person", "", "uniquePointer-#/$defs/Person"},
	} {
		got := UniquePointer(tt.pointer, tt.parentUnique)
		if got != tt.want {
			t.Errorf("UniquePointer(%q, %q) = %q, want %q", tt.pointer, tt.parentUnique, got, tt.want)
		}
		if !IsUniquePointer(got) {
			t.Errorf("IsUniquePointer(%q) = false", got)
		}
	}
}
