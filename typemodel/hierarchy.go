package typemodel

import "fmt"

// FieldOnHierarchy finds the field called name visible from class c.
//
// The search is breadth first: each visited class is checked for a
// declared field, and on a miss its direct interfaces are queued, then its
// superclass. The first match in that order wins. This is not the JLS
// hiding order; a field on an interface of c beats one on c's superclass.
func FieldOnHierarchy(m Model, c ClassID, name string) (Field, error) {
	queue := []ClassID{c}
	visited := make(map[ClassID]bool)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == NoClass || visited[current] {
			continue
		}
		visited[current] = true

		if f, ok := m.DeclaredField(current, name); ok {
			return f, nil
		}
		queue = append(queue, m.Interfaces(current)...)
		if super := m.Superclass(current); super != NoClass {
			queue = append(queue, super)
		}
	}
	return Field{}, fmt.Errorf("%w: %s in %s", ErrNoSuchField, name, m.Name(c))
}
