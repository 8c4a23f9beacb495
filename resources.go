package sekai

import "reflect"

// Resources holds world-wide singletons such as the screen size, a random
// source or a frame clock: data every system may read that belongs to no
// entity. At most one resource per Go type is stored. Resources are not
// components, so they never affect queries.
type Resources struct {
	items   []any
	types   map[reflect.Type]int
	freeIds []int
}

// Add stores res, which must be a non-nil pointer, and returns its slot.
// It panics if a resource of the same type is already present.
func (r *Resources) Add(res any) int {
	t := reflect.TypeOf(res)
	if res == nil || t.Kind() != reflect.Pointer {
		panic("ecs: resources must be non-nil pointers")
	}
	if r.types == nil {
		r.types = make(map[reflect.Type]int)
	}
	if _, ok := r.types[t]; ok {
		panic("ecs: resource " + t.String() + " already exists")
	}
	var id int
	if n := len(r.freeIds); n > 0 {
		id = r.freeIds[n-1]
		r.freeIds = r.freeIds[:n-1]
		r.items[id] = res
	} else {
		id = len(r.items)
		r.items = append(r.items, res)
	}
	r.types[t] = id
	return id
}

// Has reports whether slot id holds a resource.
func (r *Resources) Has(id int) bool {
	return id >= 0 && id < len(r.items) && r.items[id] != nil
}

// Get returns the resource in slot id, or nil.
func (r *Resources) Get(id int) any {
	if !r.Has(id) {
		return nil
	}
	return r.items[id]
}

// Remove frees slot id. The slot is reused by a later Add.
func (r *Resources) Remove(id int) {
	if !r.Has(id) {
		return
	}
	delete(r.types, reflect.TypeOf(r.items[id]))
	r.items[id] = nil
	r.freeIds = append(r.freeIds, id)
}

// Len returns the number of stored resources.
func (r *Resources) Len() int {
	return len(r.types)
}

// Clear removes every resource.
func (r *Resources) Clear() {
	clear(r.items)
	r.items = r.items[:0]
	clear(r.types)
	r.freeIds = r.freeIds[:0]
}

// SetResource stores res as the World's *T, replacing any previous one.
func SetResource[T any](w *World, res *T) {
	if id, ok := w.resources.types[reflect.TypeFor[*T]()]; ok {
		w.resources.items[id] = res
		return
	}
	w.resources.Add(res)
}

// GetResource returns the World's *T.
//
// Example:
//
//	bounds, ok := sekai.GetResource[Bounds](world)
func GetResource[T any](w *World) (*T, bool) {
	id, ok := w.resources.types[reflect.TypeFor[*T]()]
	if !ok {
		return nil, false
	}
	return w.resources.items[id].(*T), true
}

// RemoveResource removes the World's *T, if any.
func RemoveResource[T any](w *World) {
	if id, ok := w.resources.types[reflect.TypeFor[*T]()]; ok {
		w.resources.Remove(id)
	}
}
