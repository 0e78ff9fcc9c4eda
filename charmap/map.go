package charmap

import (
	"golang.org/x/exp/slices"
)

// Entry associates a range of code points with a value.
type Entry[T any] struct {
	Range Range
	Value T
}

// Map maps ranges of code points to values.
//
// The ranges of a Map are kept sorted and non-overlapping. Push does not
// enforce this: callers that push out of order must call Sort before any
// query. Once built, a Map is treated as immutable by the query methods.
type Map[T any] struct {
	elts []Entry[T]
	eq   func(a, b T) bool
}

// NewMap creates an empty Map whose values are compared with ==.
func NewMap[T comparable]() *Map[T] {
	return NewMapWithCapacity[T](0)
}

// NewMapWithCapacity creates an empty Map that can hold n entries without
// reallocating.
func NewMapWithCapacity[T comparable](n int) *Map[T] {
	return &Map[T]{
		elts: make([]Entry[T], 0, n),
		eq:   func(a, b T) bool { return a == b },
	}
}

// NewMapFunc creates an empty Map whose values are compared with eq.
// This is needed for payloads that are not comparable by value, such as
// pointers to bit sets.
func NewMapFunc[T any](eq func(a, b T) bool) *Map[T] {
	return &Map[T]{eq: eq}
}

// MapFromEntries creates a Map from entries that are already sorted and
// non-overlapping. The slice is used directly, not copied.
func MapFromEntries[T comparable](entries []Entry[T]) *Map[T] {
	m := NewMap[T]()
	m.elts = entries
	return m
}

// Len returns the number of ranges in the map.
// This is usually not the number of mapped code points.
func (m *Map[T]) Len() int {
	return len(m.elts)
}

// IsEmpty reports whether the map has no entries.
func (m *Map[T]) IsEmpty() bool {
	return len(m.elts) == 0
}

// IsFull reports whether the map covers every code point.
// The map must be normalized.
func (m *Map[T]) IsFull() bool {
	return len(m.elts) == 1 && m.elts[0].Range == FullRange()
}

// Entries returns the entries of the map in order.
// The returned slice aliases the map and must not be modified.
func (m *Map[T]) Entries() []Entry[T] {
	return m.elts
}

// Push maps r to v.
//
// Ranges must not overlap. If they are pushed in any order other than
// ascending, Sort must be called before the map is queried.
// Push panics if r is empty.
func (m *Map[T]) Push(r Range, v T) {
	if r.IsEmpty() {
		panic("charmap: ranges must be non-empty")
	}
	m.elts = append(m.elts, Entry[T]{Range: r, Value: v})
}

// Extend appends entries to the map. Sort must be called afterwards if
// the result is out of order.
func (m *Map[T]) Extend(entries ...Entry[T]) {
	m.elts = append(m.elts, entries...)
}

// Sort orders the entries by the start of their ranges.
// It panics if any two ranges overlap.
func (m *Map[T]) Sort() {
	slices.SortFunc(m.elts, func(a, b Entry[T]) bool {
		return a.Range.Start < b.Range.Start
	})
	for i := 1; i < len(m.elts); i++ {
		if m.elts[i-1].Range.End >= m.elts[i].Range.Start {
			panic("charmap: overlapping ranges")
		}
	}
}

// Normalize merges adjacent ranges that map to equal values, minimizing
// the number of ranges without changing the mapping.
func (m *Map[T]) Normalize() {
	m.normalize(m.equal)
}

func (m *Map[T]) normalize(eq func(a, b T) bool) {
	if len(m.elts) == 0 {
		return
	}
	out := make([]Entry[T], 0, len(m.elts))
	out = append(out, m.elts[0])
	for _, e := range m.elts[1:] {
		last := &out[len(out)-1]
		if last.Range.End != MaxPoint && e.Range.Start == last.Range.End+1 && eq(last.Value, e.Value) {
			last.Range.End = e.Range.End
			continue
		}
		out = append(out, e)
	}
	m.elts = out
}

func (m *Map[T]) equal(a, b T) bool {
	if m.eq == nil {
		panic("charmap: Map has no value equality; create it with NewMap or NewMapFunc")
	}
	return m.eq(a, b)
}

// Get looks up the value mapped to p in O(log n).
func (m *Map[T]) Get(p uint32) (T, bool) {
	if i, ok := m.search(p); ok {
		return m.elts[i].Value, true
	}
	var zero T
	return zero, false
}

// search returns the index of the entry containing p.
func (m *Map[T]) search(p uint32) (int, bool) {
	lo, hi := 0, len(m.elts)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch m.elts[mid].Range.Compare(p) {
		case -1:
			lo = mid + 1
		case 1:
			hi = mid
		default:
			return mid, true
		}
	}
	return lo, false
}

// Intersect restricts the map to the code points in s. Every overlapping
// pair of map entry and set range yields one entry carrying the map's value.
func (m *Map[T]) Intersect(s *Set) *Map[T] {
	ret := &Map[T]{eq: m.eq}
	other := s.m.elts
	for _, e := range m.elts {
		for len(other) > 0 {
			r := other[0].Range
			if r.End >= e.Range.Start && r.Start <= e.Range.End {
				ret.elts = append(ret.elts, Entry[T]{Range: e.Range.Intersection(r), Value: e.Value})
			}
			if r.End >= e.Range.End {
				break
			}
			other = other[1:]
		}
	}
	return ret
}

// ToSet returns the set of mapped code points, forgetting the values.
func (m *Map[T]) ToSet() *Set {
	s := NewSetWithCapacity(len(m.elts))
	for _, e := range m.elts {
		s.m.elts = append(s.m.elts, Entry[struct{}]{Range: e.Range})
	}
	s.Sort()
	return s
}

// MapValues replaces every value v with f(v), in place.
func (m *Map[T]) MapValues(f func(T) T) {
	for i := range m.elts {
		m.elts[i].Value = f(m.elts[i].Value)
	}
}

// FilterValues returns a new Map holding only the entries whose value
// satisfies f.
func (m *Map[T]) FilterValues(f func(T) bool) *Map[T] {
	ret := &Map[T]{eq: m.eq}
	for _, e := range m.elts {
		if f(e.Value) {
			ret.elts = append(ret.elts, e)
		}
	}
	return ret
}

// SetToMap converts s into a Map that sends every contained code point to v.
func SetToMap[T comparable](s *Set, v T) *Map[T] {
	m := NewMapWithCapacity[T](s.Len())
	for _, e := range s.m.elts {
		m.elts = append(m.elts, Entry[T]{Range: e.Range, Value: v})
	}
	return m
}
