// Package charmap provides the code-point range algebra used to build automata:
// inclusive ranges, range maps carrying a payload per range, range sets, and
// multi-valued range maps that can be split into atomic disjoint ranges.
//
// Character classes are never materialized per code point. Every operation
// works on sorted sequences of ranges, so a class such as [^a] costs two
// ranges no matter how many code points it covers.
package charmap

import (
	"fmt"
	"math"
)

// MaxPoint is the largest code point the range algebra represents.
// The full range is [0, MaxPoint].
const MaxPoint = math.MaxUint32

// Range is an inclusive range of code points.
//
// A range whose Start is strictly greater than its End is empty.
type Range struct {
	Start uint32
	End   uint32
}

// NewRange creates a range with the given inclusive endpoints.
func NewRange(start, end uint32) Range {
	return Range{Start: start, End: end}
}

// EmptyRange returns the canonical empty range.
func EmptyRange() Range {
	return Range{Start: 1, End: 0}
}

// FullRange returns the range containing every code point.
func FullRange() Range {
	return Range{Start: 0, End: MaxPoint}
}

// SingleRange returns a range containing exactly one code point.
func SingleRange(p uint32) Range {
	return Range{Start: p, End: p}
}

// Contains reports whether p belongs to the range.
func (r Range) Contains(p uint32) bool {
	return r.Start <= p && p <= r.End
}

// IsEmpty reports whether the range contains no code points.
func (r Range) IsEmpty() bool {
	return r.Start > r.End
}

// Intersection returns the code points common to r and o.
// The result is empty when the ranges do not overlap.
func (r Range) Intersection(o Range) Range {
	return Range{Start: max(r.Start, o.Start), End: min(r.End, o.End)}
}

// Cover returns the smallest range containing both r and o.
// An empty operand does not widen the result.
func (r Range) Cover(o Range) Range {
	switch {
	case r.IsEmpty():
		return o
	case o.IsEmpty():
		return r
	default:
		return Range{Start: min(r.Start, o.Start), End: max(r.End, o.End)}
	}
}

// Compare orders the range against a single code point:
// -1 if the whole range lies below p, +1 if it lies above p,
// and 0 if p is inside the range.
func (r Range) Compare(p uint32) int {
	switch {
	case r.End < p:
		return -1
	case r.Start > p:
		return 1
	default:
		return 0
	}
}

// Len returns the number of code points in the range.
func (r Range) Len() uint64 {
	if r.IsEmpty() {
		return 0
	}
	return uint64(r.End) - uint64(r.Start) + 1
}

// String returns a compact representation such as 'a'-'z' or 0x0-0x9.
func (r Range) String() string {
	if r.IsEmpty() {
		return "<empty>"
	}
	if r.Start == r.End {
		return pointString(r.Start)
	}
	return pointString(r.Start) + "-" + pointString(r.End)
}

func pointString(p uint32) string {
	switch {
	case p == MaxPoint:
		return "MAX"
	case p > ' ' && p < 0x7F && p != '\'' && p != '\\':
		return fmt.Sprintf("'%c'", rune(p))
	default:
		return fmt.Sprintf("0x%X", p)
	}
}
