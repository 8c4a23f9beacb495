package sekai

import (
	"log"
	"time"

	"github.com/rotisserie/eris"
)

// Entity identifies an object in the World. Identifiers are handed out in
// creation order, starting at 0, and are never reused within a World, so
// sorting entities by value sorts them by creation.
type Entity uint64

// entityRegistry tracks liveness and the type-set of every live entity. The
// type-set is updated on every attach and detach, so invalidation never has to
// scan the stores to learn what an entity carries.
type entityRegistry struct {
	alive  map[Entity]bitmask256
	nextID Entity
}

// World owns all entities, their components, the query cache and the system
// scheduler. It is not safe for concurrent use: every mutation and every tick
// happens on one goroutine.
type World struct {
	logger        *log.Logger
	events        *EventBus
	systems       *Scheduler
	pool          entityPool
	entities      entityRegistry
	components    componentRegistry
	queries       queryCache
	resources     Resources
	storeCapacity int
}

// NewWorld creates and initializes a new World. Zero fields of cfg take the
// values of DefaultConfig.
//
// Parameters:
//   - cfg: The configuration, usually DefaultConfig() or the result of LoadConfig.
//
// Returns:
//   - The newly created World.
func NewWorld(cfg Config) *World {
	cfg.applyDefaults()
	events := &EventBus{}
	w := &World{
		logger: cfg.Logger,
		events: events,
		entities: entityRegistry{
			alive: make(map[Entity]bitmask256, cfg.InitialCapacity),
		},
		components:    newComponentRegistry(),
		queries:       newQueryCache(cfg.Diagnostics),
		pool:          newEntityPool(cfg.InitialCapacity),
		storeCapacity: cfg.InitialCapacity,
	}
	w.systems = newScheduler(cfg.Scheduler, events)
	return w
}

// CreateEntity creates a new entity with no components. Only the unfiltered
// query is invalidated: an entity without components cannot match a typed
// query.
func (w *World) CreateEntity() Entity {
	e := w.entities.nextID
	w.entities.nextID++
	w.entities.alive[e] = bitmask256{}
	w.queries.invalidateAllEntities()
	Publish(w.events, EntityCreated{Entity: e})
	return e
}

// RemoveEntity removes e together with all of its components. Each component
// goes through the same removal invalidation as RemoveComponent. Removing an
// entity that does not exist is a no-op.
func (w *World) RemoveEntity(e Entity) {
	set, ok := w.entities.alive[e]
	if !ok {
		return
	}
	var buf [MaxComponentTypes]ComponentType
	for _, t := range set.appendTypes(buf[:0]) {
		w.queries.invalidateRemoved(t, set)
		w.components.store(t).remove(e)
		set.unset(t)
	}
	delete(w.entities.alive, e)
	w.queries.invalidateAllEntities()
	w.pool.drop(e)
	Publish(w.events, EntityRemoved{Entity: e})
}

// EntityExists reports whether e is alive.
func (w *World) EntityExists(e Entity) bool {
	_, ok := w.entities.alive[e]
	return ok
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.entities.alive)
}

// Lookup returns the pooled handle of e. The same pointer is returned for as
// long as e lives; it reports false once e is gone.
func (w *World) Lookup(e Entity) (*Handle, bool) {
	if !w.EntityExists(e) {
		return nil, false
	}
	return w.pool.get(w, e), true
}

// AddComponent attaches v as the component of type t to e, replacing any
// existing value. v must be of the Go type t was registered with.
//
// Parameters:
//   - e: The entity to modify.
//   - t: The component tag returned by Register.
//   - v: The component value.
//
// Returns:
//   - ErrEntityNotFound, ErrTypeNotRegistered or ErrTypeMismatch, wrapped.
func (w *World) AddComponent(e Entity, t ComponentType, v any) error {
	if err := w.requireAlive(e, t); err != nil {
		return err
	}
	s := w.components.store(t)
	isNew := !s.has(e)
	if !s.setAny(e, v) {
		return eris.Wrapf(ErrTypeMismatch, "add %s to entity %d: got %T, want %s", w.TypeName(t), e, v, s.valueType())
	}
	if isNew {
		w.componentAdded(e, t)
	}
	return nil
}

// RemoveComponent detaches the component of type t from e. Queries e
// satisfied before the removal are invalidated first. It is a no-op if e does
// not carry the component.
func (w *World) RemoveComponent(e Entity, t ComponentType) {
	set, ok := w.entities.alive[e]
	if !ok || !set.containsBit(t) {
		return
	}
	w.queries.invalidateRemoved(t, set)
	w.components.store(t).remove(e)
	set.unset(t)
	w.entities.alive[e] = set
}

// GetComponent returns e's component of type t. Absence is reported through
// the boolean, never as an error.
func (w *World) GetComponent(e Entity, t ComponentType) (any, bool) {
	if !w.components.registered(t) {
		return nil, false
	}
	return w.components.store(t).getAny(e)
}

// HasComponent reports whether e carries a component of type t.
func (w *World) HasComponent(e Entity, t ComponentType) bool {
	set, ok := w.entities.alive[e]
	return ok && set.containsBit(t)
}

// Resources returns the World's singleton resources.
func (w *World) Resources() *Resources {
	return &w.resources
}

// Events returns the bus the World and its scheduler publish on.
func (w *World) Events() *EventBus {
	return w.events
}

// Logger returns the logger the World reports through.
func (w *World) Logger() *log.Logger {
	return w.logger
}

// Scheduler returns the embedded system scheduler.
func (w *World) Scheduler() *Scheduler {
	return w.systems
}

// AddSystem appends s to the embedded scheduler.
func (w *World) AddSystem(s System) {
	w.systems.AddSystem(s)
}

// RemoveSystem removes s from the embedded scheduler, running its teardown.
func (w *World) RemoveSystem(s System) bool {
	return w.systems.RemoveSystem(s)
}

// Systems returns a copy of the registered systems in execution order.
func (w *World) Systems() []System {
	return w.systems.Systems()
}

// Update runs one tick of every registered system.
func (w *World) Update(dt time.Duration) {
	w.systems.Update(dt)
}

// Render runs the render pass of every registered system that has one.
func (w *World) Render(ctx any) {
	w.systems.Render(ctx)
}

// requireAlive validates the target of an attach.
func (w *World) requireAlive(e Entity, t ComponentType) error {
	if _, ok := w.entities.alive[e]; !ok {
		return eris.Wrapf(ErrEntityNotFound, "add %s to entity %d", w.TypeName(t), e)
	}
	if !w.components.registered(t) {
		return eris.Wrapf(ErrTypeNotRegistered, "add %s to entity %d", w.TypeName(t), e)
	}
	return nil
}

// componentAdded records a newly attached type and invalidates the queries
// e satisfies from now on.
func (w *World) componentAdded(e Entity, t ComponentType) {
	set := w.entities.alive[e]
	set.set(t)
	w.entities.alive[e] = set
	w.queries.invalidateAdded(t, set)
}
