package nfa

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/coregx/redfa/charmap"
)

// PredicatePart constrains the code point on one side of a position.
type PredicatePart struct {
	// AtBoundary is true if the condition is also satisfied when there is
	// no code point on this side, i.e. at the start or end of the input.
	AtBoundary bool

	// Chars is the set of code points allowed on this side.
	Chars *charmap.Set
}

// Predicate is a zero-width condition on the position between two code
// points: Before constrains the preceding one and After the following one.
type Predicate struct {
	Before PredicatePart
	After  PredicatePart
}

// wordChars holds the ASCII word characters [0-9A-Za-z_].
var wordChars = charmap.FromRanges(
	charmap.NewRange('0', '9'),
	charmap.NewRange('A', 'Z'),
	charmap.SingleRange('_'),
	charmap.NewRange('a', 'z'),
)

func anything() PredicatePart {
	return PredicatePart{AtBoundary: true, Chars: charmap.FullSet()}
}

func boundaryOnly() PredicatePart {
	return PredicatePart{AtBoundary: true, Chars: charmap.NewSet()}
}

// BeginText holds only at the beginning of the input.
func BeginText() Predicate {
	return Predicate{Before: boundaryOnly(), After: anything()}
}

// EndText holds only at the end of the input.
func EndText() Predicate {
	return Predicate{Before: anything(), After: boundaryOnly()}
}

// BeginLine holds at the beginning of the input and after a newline.
func BeginLine() Predicate {
	return Predicate{
		Before: PredicatePart{AtBoundary: true, Chars: charmap.SingleSet('\n')},
		After:  anything(),
	}
}

// EndLine holds at the end of the input and before a newline.
func EndLine() Predicate {
	return Predicate{
		Before: anything(),
		After:  PredicatePart{AtBoundary: true, Chars: charmap.SingleSet('\n')},
	}
}

// WordBoundary returns the two predicates whose union holds at an ASCII
// word boundary: a non-word (or nothing) followed by a word character, and
// a word character followed by a non-word (or nothing).
func WordBoundary() [2]Predicate {
	nonWord := wordChars.Negated()
	return [2]Predicate{
		{
			Before: PredicatePart{AtBoundary: true, Chars: nonWord},
			After:  PredicatePart{AtBoundary: false, Chars: wordChars},
		},
		{
			Before: PredicatePart{AtBoundary: false, Chars: wordChars},
			After:  PredicatePart{AtBoundary: true, Chars: nonWord},
		},
	}
}

// NoWordBoundary returns the two predicates whose union holds wherever
// WordBoundary does not: word characters on both sides, or non-word
// characters (or nothing) on both sides.
func NoWordBoundary() [2]Predicate {
	nonWord := wordChars.Negated()
	return [2]Predicate{
		{
			Before: PredicatePart{AtBoundary: false, Chars: wordChars},
			After:  PredicatePart{AtBoundary: false, Chars: wordChars},
		},
		{
			Before: PredicatePart{AtBoundary: true, Chars: nonWord},
			After:  PredicatePart{AtBoundary: true, Chars: nonWord},
		},
	}
}

func (p PredicatePart) intersect(o PredicatePart) (PredicatePart, bool) {
	ret := PredicatePart{
		AtBoundary: p.AtBoundary && o.AtBoundary,
		Chars:      p.Chars.Intersect(o.Chars),
	}
	return ret, ret.AtBoundary || !ret.Chars.IsEmpty()
}

// Intersect returns the predicate that holds where both p and o hold.
// It reports false if no position can satisfy the result.
func (p Predicate) Intersect(o Predicate) (Predicate, bool) {
	before, ok := p.Before.intersect(o.Before)
	if !ok {
		return Predicate{}, false
	}
	after, ok := p.After.intersect(o.After)
	if !ok {
		return Predicate{}, false
	}
	return Predicate{Before: before, After: after}, true
}

// Equal reports whether p and o impose the same conditions.
func (p Predicate) Equal(o Predicate) bool {
	return p.Before.AtBoundary == o.Before.AtBoundary &&
		p.After.AtBoundary == o.After.AtBoundary &&
		p.Before.Chars.Equal(o.Before.Chars) &&
		p.After.Chars.Equal(o.After.Chars)
}

// FilterIncoming restricts transitions entering a position to the code
// points Before allows.
func (p Predicate) FilterIncoming(in *charmap.Map[*bitset.BitSet]) *charmap.Map[*bitset.BitSet] {
	return in.Intersect(p.Before.Chars)
}

// FilterOutgoing restricts transitions leaving a position to the code
// points After allows.
func (p Predicate) FilterOutgoing(out *charmap.Map[*bitset.BitSet]) *charmap.Map[*bitset.BitSet] {
	return out.Intersect(p.After.Chars)
}

func (p PredicatePart) String() string {
	switch {
	case p.AtBoundary && p.Chars.IsFull():
		return "*"
	case p.AtBoundary && p.Chars.IsEmpty():
		return "$"
	case p.AtBoundary:
		return "$|" + p.Chars.String()
	default:
		return p.Chars.String()
	}
}

// String renders p as before/after, where '$' stands for the input
// boundary and '*' for any code point.
func (p Predicate) String() string {
	return fmt.Sprintf("%v/%v", p.Before, p.After)
}
