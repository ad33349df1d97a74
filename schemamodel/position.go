// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

import "slices"

// FullListIndex maps an index among the visible children of parentPointer
// to an index into its full children list, or -1 to append.
//
// Only the root mixes hidden children (its definitions) with visible ones,
// so other parents pass visualIndex through unchanged.
func (m *SchemaModel) FullListIndex(parentPointer string, visualIndex int) int {
	if parentPointer != RootPointer {
		return visualIndex
	}
	props := m.RootProperties()
	if visualIndex < 0 || visualIndex >= len(props) {
		return -1
	}
	return slices.Index(m.RootNode().Children, props[visualIndex].Pointer())
}
