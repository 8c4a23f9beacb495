package sekai

// Builder creates entities that start out with component T.
type Builder[T any] struct {
	world *World
	comp  Component[T]
}

// NewBuilder returns a Builder for entities carrying c.
func NewBuilder[T any](c Component[T]) *Builder[T] {
	return &Builder[T]{world: c.world, comp: c}
}

// NewEntity creates an entity with the zero value of T.
func (b *Builder[T]) NewEntity() Entity {
	var zero T
	return b.NewEntityWithValue(zero)
}

// NewEntityWithValue creates an entity with v as its T.
func (b *Builder[T]) NewEntityWithValue(v T) Entity {
	e := b.world.CreateEntity()
	b.comp.attach(e, v)
	return e
}

// NewEntities creates count entities with the zero value of T.
func (b *Builder[T]) NewEntities(count int) {
	var zero T
	b.NewEntitiesWithValueSet(count, zero)
}

// NewEntitiesWithValueSet creates count entities, each with a copy of v.
func (b *Builder[T]) NewEntitiesWithValueSet(count int, v T) {
	for range count {
		b.NewEntityWithValue(v)
	}
}

// Get returns the T of e.
func (b *Builder[T]) Get(e Entity) *T {
	return b.comp.Get(e)
}

// Builder2 creates entities that start out with components A and B.
type Builder2[A, B any] struct {
	world *World
	a     Component[A]
	b     Component[B]
}

// NewBuilder2 returns a Builder2 for entities carrying a and b.
func NewBuilder2[A, B any](a Component[A], b Component[B]) *Builder2[A, B] {
	return &Builder2[A, B]{world: a.world, a: a, b: b}
}

// NewEntity creates an entity with the zero values of A and B.
func (b *Builder2[A, B]) NewEntity() Entity {
	var za A
	var zb B
	return b.NewEntityWithValue(za, zb)
}

// NewEntityWithValue creates an entity with va and vb.
func (b *Builder2[A, B]) NewEntityWithValue(va A, vb B) Entity {
	e := b.world.CreateEntity()
	b.a.attach(e, va)
	b.b.attach(e, vb)
	return e
}

// NewEntities creates count entities with the zero values of A and B.
func (b *Builder2[A, B]) NewEntities(count int) {
	var za A
	var zb B
	b.NewEntitiesWithValueSet(count, za, zb)
}

// NewEntitiesWithValueSet creates count entities, each with copies of va and
// vb.
func (b *Builder2[A, B]) NewEntitiesWithValueSet(count int, va A, vb B) {
	for range count {
		b.NewEntityWithValue(va, vb)
	}
}

// Get returns the A and B of e.
func (b *Builder2[A, B]) Get(e Entity) (*A, *B) {
	return b.a.Get(e), b.b.Get(e)
}
