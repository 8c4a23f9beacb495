package sekai

import (
	"fmt"
	"reflect"
)

// MaxComponentTypes defines the maximum number of unique component types that
// can be registered in a World. This value is fixed at 256.
const MaxComponentTypes = 256

// ComponentType is the stable tag of a registered component kind. Tags are
// assigned in registration order, starting at 0, and are only meaningful for
// the World that issued them.
type ComponentType uint8

// componentRegistry maps Go types and names to component tags and owns one
// store per tag.
type componentRegistry struct {
	typeMap map[reflect.Type]ComponentType
	nameMap map[string]ComponentType
	names   [MaxComponentTypes]string
	stores  [MaxComponentTypes]componentStore
	next    int
}

func newComponentRegistry() componentRegistry {
	return componentRegistry{
		typeMap: make(map[reflect.Type]ComponentType, 16),
		nameMap: make(map[string]ComponentType, 16),
	}
}

// store returns the store for t, or nil if t was never registered.
func (r *componentRegistry) store(t ComponentType) componentStore {
	return r.stores[t]
}

func (r *componentRegistry) registered(t ComponentType) bool {
	return int(t) < r.next
}

// Component is a typed accessor for one registered component kind. It is the
// allocation-free way to read and write components from systems; the untyped
// World methods go through the same storage and invalidation path.
type Component[T any] struct {
	world *World
	store *sparseStore[T]
	typ   ComponentType
}

// Register registers the Go type T as a component kind and returns its typed
// accessor. Registering the same type again returns an accessor for the tag
// it already has. An empty name defaults to the Go type's name.
//
// Registration is a startup step: it panics when the World already holds
// MaxComponentTypes kinds or when name is taken by a different type.
//
// Parameters:
//   - w: The World to register the component kind in.
//   - name: A human readable, unique name used in diagnostics and logs.
//
// Returns:
//   - The typed accessor for T.
func Register[T any](w *World, name string) Component[T] {
	r := &w.components
	t := reflect.TypeFor[T]()
	if name == "" {
		name = t.String()
	}
	if id, ok := r.typeMap[t]; ok {
		return Component[T]{world: w, store: r.stores[id].(*sparseStore[T]), typ: id}
	}
	if other, ok := r.nameMap[name]; ok {
		panic(fmt.Sprintf("ecs: component name %q already registered for %s", name, r.stores[other].valueType()))
	}
	if r.next >= MaxComponentTypes {
		panic(fmt.Sprintf("ecs: cannot register component %s: maximum number of component types (%d) reached", name, MaxComponentTypes))
	}
	id := ComponentType(r.next)
	s := newSparseStore[T](w.storeCapacity)
	r.typeMap[t] = id
	r.nameMap[name] = id
	r.names[id] = name
	r.stores[id] = s
	r.next++
	return Component[T]{world: w, store: s, typ: id}
}

// ComponentType looks up a registered tag by name.
func (w *World) ComponentType(name string) (ComponentType, bool) {
	t, ok := w.components.nameMap[name]
	return t, ok
}

// TypeName returns the registered name of t, or a placeholder for unknown tags.
func (w *World) TypeName(t ComponentType) string {
	if !w.components.registered(t) {
		return fmt.Sprintf("unregistered(%d)", t)
	}
	return w.components.names[t]
}

// Type returns the component tag of the accessor.
func (c Component[T]) Type() ComponentType { return c.typ }

// Name returns the registered name of the component kind.
func (c Component[T]) Name() string { return c.world.components.names[c.typ] }

// Len returns how many entities currently carry this component.
func (c Component[T]) Len() int { return c.store.len() }

// Add attaches v to e, overwriting any previous value. It fails with
// ErrEntityNotFound if e is not alive.
func (c Component[T]) Add(e Entity, v T) error {
	if err := c.world.requireAlive(e, c.typ); err != nil {
		return err
	}
	c.attach(e, v)
	return nil
}

// attach stores v for an entity already known to be alive.
func (c Component[T]) attach(e Entity, v T) {
	if c.store.set(e, v) {
		c.world.componentAdded(e, c.typ)
	}
}

// Get returns a pointer to e's component, or nil if e does not carry one. The
// pointer stays valid until the next Add or Remove of this component kind.
func (c Component[T]) Get(e Entity) *T {
	return c.store.get(e)
}

// Value returns a copy of e's component and whether it was present.
func (c Component[T]) Value(e Entity) (T, bool) {
	if p := c.store.get(e); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Has reports whether e carries this component.
func (c Component[T]) Has(e Entity) bool {
	return c.store.has(e)
}

// Remove detaches the component from e. It is a no-op if absent.
func (c Component[T]) Remove(e Entity) {
	c.world.RemoveComponent(e, c.typ)
}
