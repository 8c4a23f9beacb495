package sekai

import "math/bits"

// bitmask256 represents a set of up to 256 component types. It serves two
// roles: the incrementally maintained type-set of every live entity, and the
// canonical, order-independent cache key of a query. Each bit corresponds to a
// ComponentType.
type bitmask256 [4]uint64

// set enables the bit corresponding to the given component type.
func (m *bitmask256) set(bit ComponentType) {
	i := bit >> 6 // (bit / 64) to find the uint64 index
	o := bit & 63 // (bit % 64) to find the bit offset
	m[i] |= uint64(1) << uint64(o)
}

// unset disables the bit corresponding to the given component type.
func (m *bitmask256) unset(bit ComponentType) {
	i := bit >> 6
	o := bit & 63
	m[i] &= ^(uint64(1) << uint64(o))
}

// contains checks if all the bits set in the `sub` bitmask are also set in the
// receiver bitmask `m`. The query cache uses it to decide whether an entity's
// type-set satisfies a cached query.
//
// Parameters:
//   - sub: The bitmask representing the subset of components to check for.
//
// Returns:
//   - true if the receiver contains all components from the subset, false otherwise.
func (m bitmask256) contains(sub bitmask256) bool {
	return (m[0]&sub[0]) == sub[0] &&
		(m[1]&sub[1]) == sub[1] &&
		(m[2]&sub[2]) == sub[2] &&
		(m[3]&sub[3]) == sub[3]
}

// containsBit checks if a specific bit is set in the mask.
func (m bitmask256) containsBit(bit ComponentType) bool {
	i := bit >> 6
	o := bit & 63
	return (m[i] & (uint64(1) << uint64(o))) != 0
}

// isZero reports whether no bit is set. The zero mask is the key of the
// "all entities" query.
func (m bitmask256) isZero() bool {
	return m[0]|m[1]|m[2]|m[3] == 0
}

// count returns the number of component types in the mask.
func (m bitmask256) count() int {
	return bits.OnesCount64(m[0]) + bits.OnesCount64(m[1]) +
		bits.OnesCount64(m[2]) + bits.OnesCount64(m[3])
}

// appendTypes appends the component types of the mask to dst in ascending
// order and returns the extended slice.
func (m bitmask256) appendTypes(dst []ComponentType) []ComponentType {
	for w, word := range m {
		for word != 0 {
			o := bits.TrailingZeros64(word)
			dst = append(dst, ComponentType(w<<6|o))
			word &= word - 1
		}
	}
	return dst
}

// maskOf builds the canonical mask for a list of component types. Duplicates
// collapse and order is irrelevant.
func maskOf(types []ComponentType) bitmask256 {
	var m bitmask256
	for _, t := range types {
		m.set(t)
	}
	return m
}
