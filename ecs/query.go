package ecs

import "github.com/milk9111/shieldwall/ecs/component"

// Kind is the untyped view of a component kind used by queries.
type Kind interface {
	ID() component.ComponentID
}

// Query returns live entities that hold every given kind, in storage order
// of the smallest store.
func (w *World) Query(kinds ...Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	stores := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		stores = append(stores, s)
	}

	var out []Entity
	for _, id := range smallest(stores...) {
		matched := true
		for _, s := range stores {
			if !s.has(id) {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		if e, ok := w.entities.current(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns the lowest-id live entity holding every given kind.
func (w *World) First(kinds ...Kind) (Entity, bool) {
	ents := w.Query(kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	best := ents[0]
	for _, e := range ents[1:] {
		if e.id() < best.id() {
			best = e
		}
	}
	return best, true
}
