package ecs

import "github.com/milk9111/shieldwall/ecs/component"

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	s := newSparseSet[T]()
	w.stores[kind.ID()] = s
	return s
}

// Add inserts or replaces the component of kind on e.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	storeFor(w, kind, true).set(e.id(), value)
	return nil
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	return storeFor(w, kind, false).get(e.id())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	return storeFor(w, kind, false).has(e.id())
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := storeFor(w, kind, false)
	if !s.has(e.id()) {
		return false
	}
	s.remove(e.id())
	return true
}

// ForEach visits every entity holding kind. The id list is copied first so
// fn may add, remove or destroy freely.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := storeFor(w, kind, false)
	if s == nil || fn == nil {
		return
	}
	ids := append([]entityID(nil), s.ids()...)
	for _, id := range ids {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		if v, ok := s.get(id); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities holding both kinds, iterating the smaller store.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	if sa == nil || sb == nil || fn == nil {
		return
	}
	for _, id := range smallest(sa, sb) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa := storeFor(w, ka, false)
	sb := storeFor(w, kb, false)
	sc := storeFor(w, kc, false)
	if sa == nil || sb == nil || sc == nil || fn == nil {
		return
	}
	for _, id := range smallest(sa, sb, sc) {
		e, ok := w.entities.current(id)
		if !ok {
			continue
		}
		a, okA := sa.get(id)
		b, okB := sb.get(id)
		c, okC := sc.get(id)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

func smallest(stores ...store) []entityID {
	var best []entityID
	for i, s := range stores {
		ids := s.ids()
		if i == 0 || len(ids) < len(best) {
			best = ids
		}
	}
	return append([]entityID(nil), best...)
}
