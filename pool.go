package sekai

// Handle is the ergonomic, pooled face of an entity. The World hands out one
// Handle per live entity and returns the same pointer on every Lookup, so hot
// per-tick lookups do not allocate.
type Handle struct {
	world *World
	id    Entity
}

// entityPool caches handles by entity. Entries are created lazily on the
// first Lookup and dropped when the entity is removed.
type entityPool struct {
	handles map[Entity]*Handle
}

func newEntityPool(capacity int) entityPool {
	return entityPool{handles: make(map[Entity]*Handle, capacity)}
}

func (p *entityPool) get(w *World, e Entity) *Handle {
	if h, ok := p.handles[e]; ok {
		return h
	}
	h := &Handle{world: w, id: e}
	p.handles[e] = h
	return h
}

func (p *entityPool) drop(e Entity) {
	delete(p.handles, e)
}

func (p *entityPool) len() int {
	return len(p.handles)
}

// ID returns the entity the handle refers to.
func (h *Handle) ID() Entity { return h.id }

// Alive reports whether the entity still exists.
func (h *Handle) Alive() bool { return h.world.EntityExists(h.id) }

// Equal compares handles by entity.
func (h *Handle) Equal(other *Handle) bool {
	return other != nil && h.id == other.id
}

// Add attaches v as the component of type t.
func (h *Handle) Add(t ComponentType, v any) error {
	return h.world.AddComponent(h.id, t, v)
}

// Get returns the component of type t.
func (h *Handle) Get(t ComponentType) (any, bool) {
	return h.world.GetComponent(h.id, t)
}

// Has reports whether the entity carries a component of type t.
func (h *Handle) Has(t ComponentType) bool {
	return h.world.HasComponent(h.id, t)
}

// Remove detaches the component of type t.
func (h *Handle) Remove(t ComponentType) {
	h.world.RemoveComponent(h.id, t)
}
