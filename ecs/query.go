package ecs

import (
	"sort"

	"github.com/milk9111/skirmish/ecs/component"
)

// Query returns the entities carrying the kind, sorted by handle so callers
// get the same order on every call against the same world.
func Query[T any](w *World, kind component.ComponentKind[T]) []Entity {
	var out []Entity
	ForEach(w, kind, func(e Entity, _ *T) {
		out = append(out, e)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Query2 is Query over the intersection of two kinds.
func Query2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B]) []Entity {
	var out []Entity
	ForEach2(w, ka, kb, func(e Entity, _ *A, _ *B) {
		out = append(out, e)
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
