package sekai

import (
	"iter"
	"slices"
)

// allEntitiesKey is the cache key of the query without a filter.
var allEntitiesKey bitmask256

// cacheEntry is one memoized query result. entities is immutable once stored:
// invalidation replaces the entry, it never edits the slice, so a View handed
// out earlier keeps describing the world as it was when it was computed.
type cacheEntry struct {
	entities []Entity
	types    []ComponentType // required types, ascending
	mask     bitmask256
}

// queryCache memoizes component-signature queries.
//
// reverse[t] holds the keys of every cached query that requires t. It is only
// ever consulted for the type being mutated, so invalidation cost is bounded by
// the number of cached queries mentioning that type, not by the cache size.
// Keys evicted through another bucket stay behind as stale members and are
// pruned the next time their bucket is walked.
type queryCache struct {
	entries map[bitmask256]*cacheEntry
	reverse [MaxComponentTypes]map[bitmask256]struct{}
	stats   *queryStats
}

func newQueryCache(diagnostics bool) queryCache {
	c := queryCache{entries: make(map[bitmask256]*cacheEntry, 32)}
	if diagnostics {
		c.stats = &queryStats{}
	}
	return c
}

// lookup returns the cached entry for mask, computing and registering it on a
// miss.
func (c *queryCache) lookup(w *World, mask bitmask256) *cacheEntry {
	if entry, ok := c.entries[mask]; ok {
		if c.stats != nil {
			c.stats.hits++
		}
		return entry
	}
	entry := &cacheEntry{
		mask:  mask,
		types: mask.appendTypes(make([]ComponentType, 0, mask.count())),
	}
	entry.entities = w.computeQuery(entry.types)
	c.entries[mask] = entry
	for _, t := range entry.types {
		bucket := c.reverse[t]
		if bucket == nil {
			bucket = make(map[bitmask256]struct{}, 4)
			c.reverse[t] = bucket
		}
		bucket[mask] = struct{}{}
	}
	if c.stats != nil {
		c.stats.recomputations++
	}
	return entry
}

// invalidateAdded runs after t was added to an entity whose type-set is now
// typeSet. Only queries the entity satisfies now can have changed: before the
// addition t was missing, so the entity could not have been in their result.
// Queries that merely mention t are left alone.
func (c *queryCache) invalidateAdded(t ComponentType, typeSet bitmask256) {
	c.invalidateSatisfied(t, typeSet)
}

// invalidateRemoved runs before t is removed from an entity whose type-set is
// still typeSet. Only queries the entity satisfied before the removal listed
// it, so only those are evicted.
func (c *queryCache) invalidateRemoved(t ComponentType, typeSet bitmask256) {
	c.invalidateSatisfied(t, typeSet)
}

func (c *queryCache) invalidateSatisfied(t ComponentType, typeSet bitmask256) {
	bucket := c.reverse[t]
	for key := range bucket {
		entry, ok := c.entries[key]
		if !ok {
			delete(bucket, key)
			if c.stats != nil {
				c.stats.prunedKeys++
			}
			continue
		}
		if !typeSet.contains(entry.mask) {
			continue
		}
		delete(c.entries, key)
		delete(bucket, key)
		if c.stats != nil {
			c.stats.invalidations++
			c.stats.perType[t]++
		}
	}
}

// invalidateAllEntities evicts the unfiltered query; entity creation and
// removal are the only mutations that change it.
func (c *queryCache) invalidateAllEntities() {
	if _, ok := c.entries[allEntitiesKey]; !ok {
		return
	}
	delete(c.entries, allEntitiesKey)
	if c.stats != nil {
		c.stats.invalidations++
	}
}

// invalidate drops every entry and the whole reverse index.
func (c *queryCache) invalidate() {
	clear(c.entries)
	for i := range c.reverse {
		c.reverse[i] = nil
	}
	if c.stats != nil {
		c.stats.fullInvalidations++
	}
}

// computeQuery is the miss path: all live entities for an empty type list,
// otherwise the intersection of the requested stores. Results are ordered by
// entity id, which is creation order.
func (w *World) computeQuery(types []ComponentType) []Entity {
	if len(types) == 0 {
		out := make([]Entity, 0, len(w.entities.alive))
		for e := range w.entities.alive {
			out = append(out, e)
		}
		slices.Sort(out)
		return out
	}
	var stores [MaxComponentTypes]componentStore
	smallest := 0
	for i, t := range types {
		s := w.components.store(t)
		if s == nil || s.len() == 0 {
			return []Entity{}
		}
		stores[i] = s
		if s.len() < stores[smallest].len() {
			smallest = i
		}
	}
	base := stores[smallest]
	out := make([]Entity, 0, base.len())
next:
	for _, e := range base.entities() {
		for i := range types {
			if i != smallest && !stores[i].has(e) {
				continue next
			}
		}
		out = append(out, e)
	}
	slices.Sort(out)
	return out
}

// Query returns every live entity that carries all of the given component
// types, in creation order. Without arguments it returns every live entity.
// The returned slice is an independent copy that survives later mutations;
// per-tick consumers should prefer View.
func (w *World) Query(types ...ComponentType) []Entity {
	entry := w.queries.lookup(w, maskOf(types))
	return slices.Clone(entry.entities)
}

// View is the allocation-free variant of Query. It shares the cached result,
// which is never modified in place, so a View keeps describing the world as it
// was when it was obtained.
func (w *World) View(types ...ComponentType) View {
	return View{entities: w.queries.lookup(w, maskOf(types)).entities}
}

// Invalidate discards every cached query result. The normal mutation paths
// invalidate precisely; this exists as a safety valve.
func (w *World) Invalidate() {
	w.queries.invalidate()
}

// View is a read-only window over a cached query result.
type View struct {
	entities []Entity
}

// Len returns the number of entities in the view.
func (v View) Len() int { return len(v.entities) }

// At returns the i-th entity in creation order.
func (v View) At(i int) Entity { return v.entities[i] }

// All iterates the entities in creation order.
func (v View) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, e := range v.entities {
			if !yield(e) {
				return
			}
		}
	}
}

// Contains reports whether e is part of the view.
func (v View) Contains(e Entity) bool {
	_, found := slices.BinarySearch(v.entities, e)
	return found
}

// Slice returns an independent copy of the view's entities.
func (v View) Slice() []Entity {
	return slices.Clone(v.entities)
}
