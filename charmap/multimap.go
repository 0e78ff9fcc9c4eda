package charmap

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// MultiMap is a multi-valued mapping from code points to values.
//
// Unlike Map, the ranges of a MultiMap may overlap and repeat, and are kept
// in insertion order. It is used transiently while collecting the
// transitions of several automaton states at once.
type MultiMap[T comparable] struct {
	elts []Entry[T]
}

// NewMultiMap creates an empty MultiMap.
func NewMultiMap[T comparable]() *MultiMap[T] {
	return &MultiMap[T]{}
}

// MultiMapFromEntries creates a MultiMap holding entries.
// The slice is used directly, not copied.
func MultiMapFromEntries[T comparable](entries []Entry[T]) *MultiMap[T] {
	return &MultiMap[T]{elts: entries}
}

// Push adds a mapping from r to v.
func (mm *MultiMap[T]) Push(r Range, v T) {
	mm.elts = append(mm.elts, Entry[T]{Range: r, Value: v})
}

// Len returns the number of entries.
func (mm *MultiMap[T]) Len() int {
	return len(mm.elts)
}

// Entries returns the entries in insertion order.
// The returned slice aliases the map and must not be modified.
func (mm *MultiMap[T]) Entries() []Entry[T] {
	return mm.elts
}

// Intersect returns the mappings restricted to the code points of s.
func (mm *MultiMap[T]) Intersect(s *Set) *MultiMap[T] {
	ret := NewMultiMap[T]()
	other := s.m.elts
	for _, e := range mm.elts {
		// First set range that ends at or after the entry's start.
		i := sort.Search(len(other), func(i int) bool {
			return other[i].Range.End >= e.Range.Start
		})
		for _, o := range other[i:] {
			if o.Range.Start > e.Range.End {
				break
			}
			ret.Push(e.Range.Intersection(o.Range), e.Value)
		}
	}
	return ret
}

// FilterValues returns a new MultiMap holding only the entries whose value
// satisfies f.
func (mm *MultiMap[T]) FilterValues(f func(T) bool) *MultiMap[T] {
	ret := NewMultiMap[T]()
	for _, e := range mm.elts {
		if f(e.Value) {
			ret.elts = append(ret.elts, e)
		}
	}
	return ret
}

// Split cuts the ranges into atomic pieces: in the result any two ranges are
// either identical or disjoint, and each original entry is covered by
// exactly the pieces carrying its value.
//
// Pieces are emitted entry by entry, in ascending order within an entry.
func (mm *MultiMap[T]) Split() *MultiMap[T] {
	bounds := make([]uint32, 0, 2*len(mm.elts))
	for _, e := range mm.elts {
		bounds = append(bounds, e.Range.Start)
		if e.Range.End < MaxPoint {
			bounds = append(bounds, e.Range.End+1)
		}
	}
	slices.Sort(bounds)
	bounds = slices.Compact(bounds)

	ret := &MultiMap[T]{elts: make([]Entry[T], 0, len(mm.elts))}
	for _, e := range mm.elts {
		// First boundary strictly after the entry's start.
		i := sort.Search(len(bounds), func(i int) bool {
			return bounds[i] > e.Range.Start
		})
		last := e.Range.Start
		for i < len(bounds) && bounds[i] <= e.Range.End {
			ret.Push(NewRange(last, bounds[i]-1), e.Value)
			last = bounds[i]
			i++
		}
		ret.Push(NewRange(last, e.Range.End), e.Value)
	}
	return ret
}

// Group splits mm into atomic ranges and collects, for each of them, the set
// of indices mapped to it. The result is sorted by range.
//
// For a MultiMap of automaton transitions (range -> target state), Group
// yields the table of which states are reachable by consuming a code point
// from each range.
func Group[I constraints.Integer](mm *MultiMap[I]) *Map[*bitset.BitSet] {
	groups := make(map[Range]*bitset.BitSet)
	for _, e := range mm.Split().elts {
		b, ok := groups[e.Range]
		if !ok {
			b = bitset.New(0)
			groups[e.Range] = b
		}
		b.Set(uint(e.Value))
	}

	ranges := maps.Keys(groups)
	slices.SortFunc(ranges, func(a, b Range) bool {
		return a.Start < b.Start
	})
	ret := NewMapFunc(SameBits)
	ret.elts = make([]Entry[*bitset.BitSet], len(ranges))
	for i, r := range ranges {
		ret.elts[i] = Entry[*bitset.BitSet]{Range: r, Value: groups[r]}
	}
	return ret
}

// SameBits reports whether a and b hold the same members. Unlike
// (*bitset.BitSet).Equal it ignores differences in capacity.
func SameBits(a, b *bitset.BitSet) bool {
	return a.SymmetricDifferenceCardinality(b) == 0
}
