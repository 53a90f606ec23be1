package ecs

// store is the type-erased view of a component storage that the world needs
// for destruction and queries.
type store interface {
	has(id entityID) bool
	remove(id entityID)
	ids() []entityID
}

// sparseSet is a cache-friendly storage for one component type keyed by
// entity slot id. Values are stored as pointers so systems mutate in place.
type sparseSet[T any] struct {
	denseIDs    []entityID
	denseValues []*T
	sparse      []int
}

func newSparseSet[T any]() *sparseSet[T] {
	return &sparseSet[T]{}
}

func (s *sparseSet[T]) has(id entityID) bool {
	if s == nil || id == 0 || int(id) > len(s.sparse) {
		return false
	}
	idx := s.sparse[id-1]
	return idx >= 0 && idx < len(s.denseIDs) && s.denseIDs[idx] == id
}

func (s *sparseSet[T]) get(id entityID) (*T, bool) {
	if !s.has(id) {
		return nil, false
	}
	return s.denseValues[s.sparse[id-1]], true
}

// set inserts or replaces the component for id.
func (s *sparseSet[T]) set(id entityID, v *T) {
	if s == nil || id == 0 {
		return
	}
	for int(id) > len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(id) {
		s.denseValues[s.sparse[id-1]] = v
		return
	}
	s.denseIDs = append(s.denseIDs, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id-1] = len(s.denseIDs) - 1
}

// remove swaps the last dense entry into the removed slot.
func (s *sparseSet[T]) remove(id entityID) {
	if !s.has(id) {
		return
	}
	idx := s.sparse[id-1]
	last := len(s.denseIDs) - 1
	lastID := s.denseIDs[last]

	s.denseIDs[idx] = s.denseIDs[last]
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastID-1] = idx

	s.denseValues[last] = nil
	s.denseIDs = s.denseIDs[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[id-1] = -1
}

func (s *sparseSet[T]) ids() []entityID {
	if s == nil {
		return nil
	}
	return s.denseIDs
}

func (s *sparseSet[T]) len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIDs)
}
