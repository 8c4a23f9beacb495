package sekai

// Filter iterates the entities carrying component T, plus any extra required
// types, handing out typed component pointers. It walks the cached query
// result, so iterating a filter every tick costs no recomputation while the
// matching set is stable.
type Filter[T any] struct {
	world  *World
	comp   Component[T]
	view   View
	mask   bitmask256
	cur    int
	curEnt Entity
}

// NewFilter creates a Filter over entities with component c and every type in
// with.
//
// Example:
//
//	query := sekai.NewFilter(positions, velocities.Type())
//	for query.Next() {
//	    p := query.Get()
//	    // ... process entity
//	}
//
// Parameters:
//   - c: The typed accessor for the iterated component.
//   - with: Additional component types the entities must carry.
//
// Returns:
//   - A pointer to the newly created `Filter[T]`, already reset.
func NewFilter[T any](c Component[T], with ...ComponentType) *Filter[T] {
	mask := maskOf(with)
	mask.set(c.typ)
	f := &Filter[T]{world: c.world, comp: c, mask: mask}
	f.Reset()
	return f
}

// Reset rewinds the filter and picks up the current query result.
func (f *Filter[T]) Reset() {
	f.view = View{entities: f.world.queries.lookup(f.world, f.mask).entities}
	f.cur = -1
}

// Next advances to the next matching entity. Entities that lost a required
// component or were removed since Reset are skipped.
func (f *Filter[T]) Next() bool {
	for f.cur++; f.cur < f.view.Len(); f.cur++ {
		e := f.view.At(f.cur)
		if f.matches(e) {
			f.curEnt = e
			return true
		}
	}
	return false
}

func (f *Filter[T]) matches(e Entity) bool {
	set, ok := f.world.entities.alive[e]
	return ok && set.contains(f.mask)
}

// Entity returns the current entity. Only valid after Next returned true.
func (f *Filter[T]) Entity() Entity {
	return f.curEnt
}

// Get returns the current entity's component.
func (f *Filter[T]) Get() *T {
	return f.comp.Get(f.curEnt)
}

// View returns the query result the filter iterates.
func (f *Filter[T]) View() View {
	return f.view
}

// RemoveEntities removes every entity matching the filter and resets it.
func (f *Filter[T]) RemoveEntities() {
	f.Reset()
	for _, e := range f.view.entities {
		f.world.RemoveEntity(e)
	}
	f.Reset()
}

// Filter2 is Filter for two component types.
type Filter2[A, B any] struct {
	world  *World
	a      Component[A]
	b      Component[B]
	view   View
	mask   bitmask256
	cur    int
	curEnt Entity
}

// NewFilter2 creates a Filter2 over entities with components a and b and every
// type in with.
func NewFilter2[A, B any](a Component[A], b Component[B], with ...ComponentType) *Filter2[A, B] {
	mask := maskOf(with)
	mask.set(a.typ)
	mask.set(b.typ)
	f := &Filter2[A, B]{world: a.world, a: a, b: b, mask: mask}
	f.Reset()
	return f
}

// Reset rewinds the filter and picks up the current query result.
func (f *Filter2[A, B]) Reset() {
	f.view = View{entities: f.world.queries.lookup(f.world, f.mask).entities}
	f.cur = -1
}

// Next advances to the next matching entity.
func (f *Filter2[A, B]) Next() bool {
	for f.cur++; f.cur < f.view.Len(); f.cur++ {
		e := f.view.At(f.cur)
		if set, ok := f.world.entities.alive[e]; ok && set.contains(f.mask) {
			f.curEnt = e
			return true
		}
	}
	return false
}

// Entity returns the current entity.
func (f *Filter2[A, B]) Entity() Entity {
	return f.curEnt
}

// Get returns the current entity's components.
func (f *Filter2[A, B]) Get() (*A, *B) {
	return f.a.Get(f.curEnt), f.b.Get(f.curEnt)
}

// View returns the query result the filter iterates.
func (f *Filter2[A, B]) View() View {
	return f.view
}
