package sekai

import "reflect"

// componentStore is the type-erased face of a per-type sparse set. The World
// only talks to stores through it; typed access goes through sparseStore[T]
// directly.
type componentStore interface {
	has(e Entity) bool
	getAny(e Entity) (any, bool)
	setAny(e Entity, v any) bool
	remove(e Entity)
	len() int
	entities() []Entity
	valueType() reflect.Type
}

// sparseStore keeps the components of one type densely packed. index maps an
// entity to its slot in dense/values; removal swaps the last slot in.
type sparseStore[T any] struct {
	index  map[Entity]int
	dense  []Entity
	values []T
}

func newSparseStore[T any](capacity int) *sparseStore[T] {
	return &sparseStore[T]{
		index:  make(map[Entity]int, capacity),
		dense:  make([]Entity, 0, capacity),
		values: make([]T, 0, capacity),
	}
}

func (s *sparseStore[T]) has(e Entity) bool {
	_, ok := s.index[e]
	return ok
}

// get returns a pointer into the dense value slice. The pointer is valid until
// the next add or remove on this store.
func (s *sparseStore[T]) get(e Entity) *T {
	idx, ok := s.index[e]
	if !ok {
		return nil
	}
	return &s.values[idx]
}

// set inserts or overwrites the value for e and reports whether e was new.
func (s *sparseStore[T]) set(e Entity, v T) bool {
	if idx, ok := s.index[e]; ok {
		s.values[idx] = v
		return false
	}
	s.index[e] = len(s.dense)
	s.dense = append(s.dense, e)
	s.values = append(s.values, v)
	return true
}

func (s *sparseStore[T]) remove(e Entity) {
	idx, ok := s.index[e]
	if !ok {
		return
	}
	last := len(s.dense) - 1
	if idx < last {
		moved := s.dense[last]
		s.dense[idx] = moved
		s.values[idx] = s.values[last]
		s.index[moved] = idx
	}
	var zero T
	s.values[last] = zero
	s.dense = s.dense[:last]
	s.values = s.values[:last]
	delete(s.index, e)
}

func (s *sparseStore[T]) getAny(e Entity) (any, bool) {
	idx, ok := s.index[e]
	if !ok {
		return nil, false
	}
	return s.values[idx], true
}

func (s *sparseStore[T]) setAny(e Entity, v any) bool {
	val, ok := v.(T)
	if !ok {
		return false
	}
	s.set(e, val)
	return true
}

func (s *sparseStore[T]) len() int { return len(s.dense) }

// entities exposes the dense entity list, in no particular order. Callers must
// not retain or modify it.
func (s *sparseStore[T]) entities() []Entity { return s.dense }

func (s *sparseStore[T]) valueType() reflect.Type { return reflect.TypeFor[T]() }
