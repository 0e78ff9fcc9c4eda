package charmap

import (
	"strings"
)

// Set is a set of code points stored as sorted, non-overlapping ranges.
//
// The zero value is an empty set ready to use. Derived sets returned by
// Union, Intersect, Negated and the constructors are always sorted.
type Set struct {
	m Map[struct{}]
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{}
}

// NewSetWithCapacity creates an empty set that can hold n ranges without
// reallocating.
func NewSetWithCapacity(n int) *Set {
	return &Set{m: Map[struct{}]{elts: make([]Entry[struct{}], 0, n)}}
}

// FromRanges creates a set from non-empty, non-overlapping ranges given in
// any order. It panics if two ranges overlap.
func FromRanges(ranges ...Range) *Set {
	s := NewSetWithCapacity(len(ranges))
	for _, r := range ranges {
		s.Push(r)
	}
	s.Sort()
	return s
}

// FromCharClass converts a character class in regexp/syntax form (a flat
// list of inclusive lo, hi pairs) into a set, one range per pair.
func FromCharClass(class []rune) *Set {
	s := NewSetWithCapacity(len(class) / 2)
	for i := 0; i+1 < len(class); i += 2 {
		s.Push(NewRange(uint32(class[i]), uint32(class[i+1])))
	}
	s.Sort()
	return s
}

// FullSet returns the set of every code point.
func FullSet() *Set {
	return FromRanges(FullRange())
}

// SingleSet returns the set containing only p.
func SingleSet(p uint32) *Set {
	return FromRanges(SingleRange(p))
}

// Except returns the set of every code point except those in chars.
// The characters of chars must be sorted and unique; Except panics
// otherwise.
func Except(chars string) *Set {
	points := make([]uint32, 0, len(chars))
	for _, c := range chars {
		points = append(points, uint32(c))
	}
	return ExceptPoints(points...)
}

// ExceptPoints is like Except for a list of code points.
func ExceptPoints(points ...uint32) *Set {
	if len(points) == 0 {
		return FullSet()
	}
	s := NewSetWithCapacity(len(points) + 1)
	var next, n uint32
	for _, n = range points {
		if n > next {
			s.Push(NewRange(next, n-1))
		} else if n < next {
			panic("charmap: input to Except must be sorted and unique")
		}
		if n == MaxPoint {
			break
		}
		next = n + 1
	}
	if n < MaxPoint {
		s.Push(NewRange(n+1, MaxPoint))
	}
	return s
}

// Len returns the number of ranges in the set.
func (s *Set) Len() int {
	return s.m.Len()
}

// IsEmpty reports whether the set contains no code points.
func (s *Set) IsEmpty() bool {
	return s.m.IsEmpty()
}

// IsFull reports whether the set contains every code point.
// The set must be normalized.
func (s *Set) IsFull() bool {
	return s.m.IsFull()
}

// Push adds the non-empty range r. See Map.Push for the ordering contract.
func (s *Set) Push(r Range) {
	s.m.Push(r, struct{}{})
}

// Sort orders the ranges of the set. It panics if any two ranges overlap.
func (s *Set) Sort() {
	s.m.Sort()
}

// Normalize merges adjacent ranges.
func (s *Set) Normalize() {
	s.m.normalize(func(struct{}, struct{}) bool { return true })
}

// Ranges returns a copy of the ranges of the set in ascending order.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.m.elts))
	for i, e := range s.m.elts {
		out[i] = e.Range
	}
	return out
}

// Contains reports whether p is in the set.
func (s *Set) Contains(p uint32) bool {
	_, ok := s.m.search(p)
	return ok
}

// Count returns the number of code points in the set.
func (s *Set) Count() uint64 {
	var n uint64
	for _, e := range s.m.elts {
		n += e.Range.Len()
	}
	return n
}

// Equal reports whether s and o consist of the same ranges.
func (s *Set) Equal(o *Set) bool {
	if len(s.m.elts) != len(o.m.elts) {
		return false
	}
	for i := range s.m.elts {
		if s.m.elts[i].Range != o.m.elts[i].Range {
			return false
		}
	}
	return true
}

// Union returns the code points in either s or o.
//
// Overlapping ranges are merged. Ranges that only touch are kept apart;
// call Normalize on the result to merge them as well.
func (s *Set) Union(o *Set) *Set {
	if s.IsEmpty() {
		return o.clone()
	}
	if o.IsEmpty() {
		return s.clone()
	}

	a, b := s.m.elts, o.m.elts
	ret := NewSetWithCapacity(len(a) + len(b))
	cur := EmptyRange()
	for len(a) > 0 || len(b) > 0 {
		var next Range
		if len(b) == 0 || (len(a) > 0 && a[0].Range.Start < b[0].Range.Start) {
			next, a = a[0].Range, a[1:]
		} else {
			next, b = b[0].Range, b[1:]
		}
		if !cur.IsEmpty() && next.Start > cur.End {
			ret.m.elts = append(ret.m.elts, Entry[struct{}]{Range: cur})
			cur = EmptyRange()
		}
		cur = cur.Cover(next)
	}
	if !cur.IsEmpty() {
		ret.m.elts = append(ret.m.elts, Entry[struct{}]{Range: cur})
	}
	ret.Sort()
	return ret
}

// Intersect returns the code points in both s and o.
func (s *Set) Intersect(o *Set) *Set {
	m := s.m.Intersect(o)
	return &Set{m: Map[struct{}]{elts: m.elts}}
}

// Negated returns the set of every code point not in s.
func (s *Set) Negated() *Set {
	ret := NewSetWithCapacity(len(s.m.elts) + 1)
	// next is the first code point not yet accounted for; it is kept in
	// 64 bits so that a range ending at MaxPoint does not wrap around.
	var next uint64
	for _, e := range s.m.elts {
		if uint64(e.Range.Start) > next {
			ret.Push(NewRange(uint32(next), e.Range.Start-1))
		}
		next = uint64(e.Range.End) + 1
	}
	if next <= MaxPoint {
		ret.Push(NewRange(uint32(next), MaxPoint))
	}
	return ret
}

// IsASCII reports whether every code point in the set is ASCII.
func (s *Set) IsASCII() bool {
	return s.IsEmpty() || s.m.elts[len(s.m.elts)-1].Range.End <= 0x7F
}

// nonASCII holds every non-ASCII code point outside the surrogate band.
var nonASCII = FromRanges(NewRange(0x80, 0xD7FF), NewRange(0xE000, 0x10FFFF))

// ContainsNonASCII reports whether the set contains every non-ASCII code
// point. Surrogates (0xD800-0xDFFF) are not code points of any valid text
// and are ignored.
func (s *Set) ContainsNonASCII() bool {
	common := s.Intersect(nonASCII)
	common.Normalize()
	return common.Equal(nonASCII)
}

// ToASCIISet projects the set onto ASCII. Non-ASCII code points are
// silently dropped.
func (s *Set) ToASCIISet() ASCIISet {
	var as ASCIISet
	for _, e := range s.m.elts {
		if e.Range.Start > 0x7F {
			break
		}
		as.AddRange(byte(e.Range.Start), byte(min(e.Range.End, 0x7F)))
	}
	return as
}

func (s *Set) clone() *Set {
	ret := NewSetWithCapacity(len(s.m.elts))
	ret.m.elts = append(ret.m.elts, s.m.elts...)
	return ret
}

// String returns the ranges of the set, e.g. ['a'-'z' '_'].
func (s *Set) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range s.m.elts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.Range.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
