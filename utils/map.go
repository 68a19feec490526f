// Package utils holds small helpers shared across the circuit framework.
package utils

// Hashable is the key contract for Map. Keys provide a fast hash code and an
// equality check against other keys with the same hash.
type Hashable interface {
	HashCode() uint64
	EqualI(Hashable) bool
}

// Map is a hash map keyed by Hashable values. It is used where Go's built-in
// map cannot serve because the key is a structured value (e.g. a constraint
// expression) rather than a comparable type.
type Map map[uint64][]mapEntry

type mapEntry struct {
	k Hashable
	v any
}

// Find returns the value stored under k, if any.
func (m Map) Find(k Hashable) (any, bool) {
	for _, e := range m[k.HashCode()] {
		if e.k.EqualI(k) {
			return e.v, true
		}
	}
	return nil, false
}

// Set stores v under k, replacing any previous value.
func (m Map) Set(k Hashable, v any) {
	h := k.HashCode()
	s := m[h]
	for i, e := range s {
		if e.k.EqualI(k) {
			s[i].v = v
			return
		}
	}
	m[h] = append(s, mapEntry{k: k, v: v})
}

// Add stores v under k only if k is absent, and returns the value that ends
// up stored.
func (m Map) Add(k Hashable, v any) any {
	h := k.HashCode()
	s := m[h]
	for _, e := range s {
		if e.k.EqualI(k) {
			return e.v
		}
	}
	m[h] = append(s, mapEntry{k: k, v: v})
	return v
}
