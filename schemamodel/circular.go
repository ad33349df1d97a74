// Copyright 2025 The JSON Schema Go Project Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package schemamodel

// WillResultInCircularReferences reports whether placing the node at
// candidate (or a reference to it) at target would create a cycle.
//
// target is the parent that will contain the candidate; references are
// followed to the final node. If that node lies inside a root definition T,
// the placement is circular when T is reachable from candidate through
// children and references.
func (m *SchemaModel) WillResultInCircularReferences(candidate, target string) bool {
	if final, err := m.FinalNode(target); err == nil {
		target = final.Pointer()
	}
	return m.wouldCycle(candidate, target)
}

// wouldCycle is WillResultInCircularReferences for an already resolved
// container pointer.
func (m *SchemaModel) wouldCycle(candidate, container string) bool {
	def := DefinitionPointerOf(container)
	if def == "" {
		return false
	}
	return m.reaches(candidate, def)
}

// reaches reports whether goal can be reached from the node at from by
// following child and reference edges.
func (m *SchemaModel) reaches(from, goal string) bool {
	visited := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p == goal {
			return true
		}
		if visited[p] {
			continue
		}
		visited[p] = true
		n, ok := m.nodes[p]
		if !ok {
			continue
		}
		if ref, ok := n.(*ReferenceNode); ok {
			stack = append(stack, ref.Reference)
		}
		stack = append(stack, Children(n)...)
	}
	return false
}

// successors returns the pointers one edge away from the node at p.
func (m *SchemaModel) successors(p string) []string {
	n, ok := m.nodes[p]
	if !ok {
		return nil
	}
	if ref, ok := n.(*ReferenceNode); ok {
		return []string{ref.Reference}
	}
	return Children(n)
}

// isCyclic reports whether the definition at def can reach itself.
func (m *SchemaModel) isCyclic(def string) bool {
	for _, s := range m.successors(def) {
		if m.reaches(s, def) {
			return true
		}
	}
	return false
}
