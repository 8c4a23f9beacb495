package sekai

// queryStats is the per-World collector behind QueryStats. It only exists
// when Config.Diagnostics is set.
type queryStats struct {
	hits              uint64
	recomputations    uint64
	invalidations     uint64
	fullInvalidations uint64
	prunedKeys        uint64
	perType           [MaxComponentTypes]uint64
}

// QueryStats is a snapshot of the query cache counters.
type QueryStats struct {
	// Hits counts lookups answered from the cache.
	Hits uint64
	// Recomputations counts misses that ran the intersection.
	Recomputations uint64
	// Invalidations counts evicted entries, the unfiltered query included.
	Invalidations uint64
	// FullInvalidations counts calls to Invalidate.
	FullInvalidations uint64
	// PrunedKeys counts stale reverse-index members dropped lazily.
	PrunedKeys uint64
	// PerType counts evictions by the component type whose mutation caused
	// them, keyed by registered name.
	PerType map[string]uint64
}

// Stats returns a snapshot of the query cache counters. The zero value is
// returned when diagnostics are disabled.
func (w *World) Stats() QueryStats {
	s := w.queries.stats
	if s == nil {
		return QueryStats{}
	}
	out := QueryStats{
		Hits:              s.hits,
		Recomputations:    s.recomputations,
		Invalidations:     s.invalidations,
		FullInvalidations: s.fullInvalidations,
		PrunedKeys:        s.prunedKeys,
		PerType:           make(map[string]uint64),
	}
	for t, n := range s.perType {
		if n > 0 {
			out.PerType[w.TypeName(ComponentType(t))] = n
		}
	}
	return out
}

// ResetStats zeroes the query cache counters.
func (w *World) ResetStats() {
	if w.queries.stats != nil {
		*w.queries.stats = queryStats{}
	}
}

// CachedQueries returns the number of query results currently memoized.
func (w *World) CachedQueries() int {
	return len(w.queries.entries)
}
