// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import (
	"strings"
)

// RootPointer addresses the document root.
const RootPointer = "#"

// Pointer keywords.
const (
	KeywordProperties  = "properties"
	KeywordDefinitions = "$defs"
	KeywordItems       = "items"
)

// UniquePointerPrefix marks a unique pointer.
const UniquePointerPrefix = "uniquePointer-"

var (
	nameEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	nameUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// MakePointer joins base with the given raw segments.
func MakePointer(base string, segments ...string) string {
	if len(segments) == 0 {
		return base
	}
	return base + "/" + strings.Join(segments, "/")
}

// ChildPointer returns the pointer of the child called name in the given
// category (properties, $defs or a combination keyword) of the node at parent.
// Children of array nodes live under /items.
func ChildPointer(parent string, parentIsArray bool, category, name string) string {
	base := parent
	if parentIsArray {
		base = MakePointer(base, KeywordItems)
	}
	return MakePointer(base, category, nameEscaper.Replace(name))
}

// step is one addressing step of a structural pointer: a category and a
// name, or the bare items keyword.
type step struct {
	category string
	name     string // escaped
}

func isCategory(seg string) bool {
	switch seg {
	case KeywordProperties, KeywordDefinitions, string(AllOf), string(AnyOf), string(OneOf):
		return true
	}
	return false
}

// parsePointer splits a structural pointer into steps.
// It reports false for strings that are not structural pointers.
func parsePointer(p string) ([]step, bool) {
	if p == RootPointer {
		return nil, true
	}
	rest, ok := strings.CutPrefix(p, RootPointer+"/")
	if !ok {
		return nil, false
	}
	segs := strings.Split(rest, "/")
	var steps []step
	for i := 0; i < len(segs); i++ {
		switch {
		case segs[i] == KeywordItems:
			steps = append(steps, step{category: KeywordItems})
		case isCategory(segs[i]) && i+1 < len(segs):
			steps = append(steps, step{category: segs[i], name: segs[i+1]})
			i++
		default:
			return nil, false
		}
	}
	return steps, true
}

func formatSteps(steps []step) string {
	var b strings.Builder
	b.WriteString(RootPointer)
	for _, s := range steps {
		b.WriteString("/")
		b.WriteString(s.category)
		if s.category != KeywordItems {
			b.WriteString("/")
			b.WriteString(s.name)
		}
	}
	return b.String()
}

// lastStep returns the final category/name step of p, skipping nothing.
func lastStep(p string) (step, bool) {
	steps, ok := parsePointer(p)
	if !ok || len(steps) == 0 {
		return step{}, false
	}
	last := steps[len(steps)-1]
	if last.category == KeywordItems {
		return step{}, false
	}
	return last, true
}

// ParentPointer returns the pointer of the node that lists p as a child,
// or "" for the root and for malformed pointers.
func ParentPointer(p string) string {
	steps, ok := parsePointer(p)
	if !ok || len(steps) == 0 {
		return ""
	}
	steps = steps[:len(steps)-1]
	if n := len(steps); n > 0 && steps[n-1].category == KeywordItems {
		steps = steps[:n-1]
	}
	return formatSteps(steps)
}

// NameOf returns the unescaped name of the node at p: a property or
// definition name, or the position of a combination child.
func NameOf(p string) string {
	last, ok := lastStep(p)
	if !ok {
		return ""
	}
	return nameUnescaper.Replace(last.name)
}

// CategoryOf returns the keyword under which p is listed by its parent.
func CategoryOf(p string) string {
	last, ok := lastStep(p)
	if !ok {
		return ""
	}
	return last.category
}

// IsDefinitionPointer reports whether p lies under the root $defs.
func IsDefinitionPointer(p string) bool {
	return strings.HasPrefix(p, RootPointer+"/"+KeywordDefinitions+"/")
}

// IsTopLevelDefinitionPointer reports whether p is a root $defs entry.
func IsTopLevelDefinitionPointer(p string) bool {
	steps, ok := parsePointer(p)
	return ok && len(steps) == 1 && steps[0].category == KeywordDefinitions
}

// IsPropertyPointer reports whether p is listed under a properties keyword.
func IsPropertyPointer(p string) bool {
	return CategoryOf(p) == KeywordProperties
}

// IsCombinationChildPointer reports whether p is a positional combination child.
func IsCombinationChildPointer(p string) bool {
	switch CombinationKind(CategoryOf(p)) {
	case AllOf, AnyOf, OneOf:
		return true
	}
	return false
}

// DefinitionPointerOf returns the root $defs entry that contains p, or "".
func DefinitionPointerOf(p string) string {
	steps, ok := parsePointer(p)
	if !ok || len(steps) == 0 || steps[0].category != KeywordDefinitions {
		return ""
	}
	return formatSteps(steps[:1])
}

// IsDescendantPointer reports whether p lies strictly below ancestor.
func IsDescendantPointer(p, ancestor string) bool {
	return strings.HasPrefix(p, ancestor+"/")
}

// UniquePointer returns the pointer that identifies a node's position in the
// visual tree. Nodes reached through a reference get the referencing
// context's unique pointer followed by their own category and name.
func UniquePointer(schemaPointer, parentUniquePointer string) string {
	if parentUniquePointer == "" || !IsDefinitionPointer(schemaPointer) {
		return UniquePointerPrefix + schemaPointer
	}
	last, ok := lastStep(schemaPointer)
	if !ok {
		return UniquePointerPrefix + schemaPointer
	}
	return MakePointer(parentUniquePointer, last.category, last.name)
}

// IsUniquePointer reports whether p carries the unique pointer prefix.
func IsUniquePointer(p string) bool {
	return strings.HasPrefix(p, UniquePointerPrefix)
}
