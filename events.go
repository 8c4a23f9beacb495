package sekai

import (
	"reflect"
	"time"
)

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in the EventBus. This value is fixed at 256.
const MaxEventTypes = 256

// EventBus is a typed, synchronous publish/subscribe hub. The World publishes
// entity lifecycle events on it and the Scheduler publishes faults, so
// collaborators such as render sync or network authority can react without the
// core knowing about them.
//
// Publishing an event nobody listens to, or to existing listeners, does not
// allocate.
type EventBus struct {
	eventTypeMap map[reflect.Type]uint8
	handlers     [MaxEventTypes][]subscription
	nextID       uint64
	nextTypeID   int
}

type subscription struct {
	fn any
	id uint64
}

// EntityCreated is published after CreateEntity.
type EntityCreated struct {
	Entity Entity
}

// EntityRemoved is published after RemoveEntity removed a live entity.
type EntityRemoved struct {
	Entity Entity
}

// Fault is published whenever a system fails inside the scheduler.
type Fault struct {
	Time   time.Time
	Err    error
	System string
	Phase  Phase
}

// Subscribe registers handler for events of type T. Handlers run in
// subscription order. The returned function removes the subscription; calling
// it more than once is harmless.
//
// Parameters:
//   - bus: The EventBus instance to subscribe to.
//   - handler: A function that takes a single argument of type `T`.
//
// Returns:
//   - A function that cancels the subscription.
func Subscribe[T any](bus *EventBus, handler func(T)) (cancel func()) {
	id := bus.typeID(reflect.TypeFor[T]())
	bus.nextID++
	subID := bus.nextID
	bus.handlers[id] = append(bus.handlers[id], subscription{id: subID, fn: handler})
	return func() {
		hs := bus.handlers[id]
		for i := range hs {
			if hs[i].id == subID {
				bus.handlers[id] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers event to every handler subscribed to T, synchronously.
//
// Parameters:
//   - bus: The EventBus instance to publish to.
//   - event: The event data of type `T` to be sent to handlers.
func Publish[T any](bus *EventBus, event T) {
	id, ok := bus.eventTypeMap[reflect.TypeFor[T]()]
	if !ok {
		return
	}
	for _, h := range bus.handlers[id] {
		h.fn.(func(T))(event)
	}
}

// typeID retrieves or assigns an ID for the event type.
func (bus *EventBus) typeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if bus.nextTypeID >= MaxEventTypes {
		panic("ecs: too many event types")
	}
	id := uint8(bus.nextTypeID)
	bus.nextTypeID++
	bus.eventTypeMap[t] = id
	return id
}
